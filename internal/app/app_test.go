package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xxxsen/retrolist/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, root string) *Env {
	t.Helper()
	cfg := &config.Config{
		Root:   root,
		MetaDB: config.MetaDBConfig{Driver: "sqlite", DSN: filepath.Join(root, "retrolist.db")},
	}
	env, err := NewEnv(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func runCommand(t *testing.T, env *Env, r IRunner, args ...string) error {
	t.Helper()
	fst := pflag.NewFlagSet(r.Name(), pflag.ContinueOnError)
	r.Init(fst)
	require.NoError(t, fst.Parse(args))
	ctx := context.Background()
	if err := r.PreRun(ctx, env); err != nil {
		return err
	}
	if err := r.Run(ctx); err != nil {
		return err
	}
	return r.PostRun(ctx)
}

func touch(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestRunnerRegistry(t *testing.T) {
	names := RunnerList()
	for _, want := range []string{"create-collection", "favorite", "import-meta", "list", "play", "pull-state", "push-state"} {
		assert.Contains(t, names, want)
		assert.Equal(t, want, MustResolveRunner(want).Name())
	}
	_, err := ResolveRunner("missing")
	assert.Error(t, err)
}

func TestCollectionWorkflow(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, runCommand(t, newTestEnv(t, root), NewCreateCollectionCommand(), "--name", "Arcade"))
	touch(t, root, "collections/Arcade/roms/pacman.zip", "")
	touch(t, root, "collections/Arcade/roms/dkong.zip", "")
	touch(t, root, "gamelist.xml", `<gameList>
<game><path>./pacman.zip</path><name>Pac-Man</name><releasedate>1980</releasedate></game>
</gameList>`)

	env := newTestEnv(t, root)
	require.NoError(t, runCommand(t, env, NewImportMetaCommand(),
		"--collection", "Arcade", "--file", filepath.Join(root, "gamelist.xml"), "--format", "gamelist"))

	list := NewListCommand()
	var out bytes.Buffer
	list.out = &out
	require.NoError(t, runCommand(t, env, list, "--collection", "Arcade"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "_Arcade:dkong")
	assert.Contains(t, lines[1], "Pac-Man")
	assert.Contains(t, lines[1], "1980")

	require.NoError(t, runCommand(t, env, NewPlayCommand(), "--collection", "Arcade", "--item", "pacman"))
	assert.Equal(t, "pacman\n", read(t, root, "collections/Arcade/playlists/lastplayed.txt"))
	assert.Contains(t, read(t, root, "collections/playCount.txt"), "_Arcade:pacman;1;")

	require.NoError(t, runCommand(t, env, NewFavoriteCommand(), "--collection", "Arcade", "--item", "_Arcade:dkong"))
	assert.Equal(t, "dkong\n", read(t, root, "collections/Arcade/playlists/favorites.txt"))

	fav := NewListCommand()
	out.Reset()
	fav.out = &out
	require.NoError(t, runCommand(t, env, fav, "--collection", "Arcade", "--playlist", "favorites"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out.String()), "*"))

	menu := NewListCommand()
	out.Reset()
	menu.out = &out
	require.NoError(t, runCommand(t, env, menu, "--collection", "Arcade", "--playlists"))
	assert.Equal(t, "favorites\nlastplayed\n", out.String())

	require.NoError(t, runCommand(t, env, NewFavoriteCommand(), "--collection", "Arcade", "--item", "dkong", "--remove"))
	assert.Equal(t, "", read(t, root, "collections/Arcade/playlists/favorites.txt"))

	assert.Error(t, runCommand(t, env, NewPlayCommand(), "--collection", "Arcade", "--item", "galaga"))
	assert.Error(t, runCommand(t, env, NewListCommand(), "--collection", "Arcade", "--playlist", "nope"))
}

func TestListLetters(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{"asteroids.zip", "1942.zip", "bosconian.zip", "arkanoid.zip", "三国志.zip"} {
		touch(t, root, "collections/Arcade/roms/"+f, "")
	}
	touch(t, root, "collections/Arcade/settings.conf", "list.extensions = zip\n")
	env := newTestEnv(t, root)

	list := NewListCommand()
	var out bytes.Buffer
	list.out = &out
	require.NoError(t, runCommand(t, env, list, "--collection", "Arcade", "--letters"))

	var got [][]string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		got = append(got, strings.Fields(line))
	}
	assert.Equal(t, [][]string{
		{"#", "0", "1942"},
		{"a", "1", "arkanoid"},
		{"b", "3", "bosconian"},
		{"s", "4", "三国志"},
	}, got)
}

func TestCommandsValidateFlags(t *testing.T) {
	env := newTestEnv(t, t.TempDir())
	assert.Error(t, runCommand(t, env, NewListCommand()))
	assert.Error(t, runCommand(t, env, NewPlayCommand(), "--collection", "Arcade"))
	assert.Error(t, runCommand(t, env, NewFavoriteCommand(), "--item", "x"))
	assert.Error(t, runCommand(t, env, NewCreateCollectionCommand(), "--name", "../x"))
	assert.Error(t, runCommand(t, env, NewImportMetaCommand(), "--collection", "MAME", "--file", "x.dat"))
	assert.Error(t, runCommand(t, env, NewImportMetaCommand(), "--collection", "MAME", "--file", "x.dat", "--format", "csv"))
	assert.Error(t, runCommand(t, env, NewPushStateCommand()))
}

type fakeStore struct {
	objects map[string]string
}

func (f *fakeStore) UploadFile(_ context.Context, key, filePath string, _ string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	f.objects[key] = string(data)
	return nil
}

func (f *fakeStore) DownloadToFile(_ context.Context, key, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte(f.objects[key]), 0o644)
}

func (f *fakeStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func TestStateCommands(t *testing.T) {
	src := t.TempDir()
	touch(t, src, "collections/playCount.txt", "_Arcade:pacman;3;100\n")
	store := &fakeStore{objects: map[string]string{}}
	ctx := context.Background()

	env := newTestEnv(t, src)
	env.Config.S3.Prefix = "cab1"
	push := NewPushStateCommand()
	require.NoError(t, push.bind(ctx, store, env))
	require.NoError(t, push.Run(ctx))
	assert.Equal(t, "_Arcade:pacman;3;100\n", store.objects["cab1/collections/playCount.txt"])

	dst := t.TempDir()
	env = newTestEnv(t, dst)
	env.Config.S3.Prefix = "cab1"
	pull := NewPullStateCommand()
	require.NoError(t, pull.bind(ctx, store, env))
	require.NoError(t, pull.Run(ctx))
	assert.Equal(t, "_Arcade:pacman;3;100\n", read(t, dst, "collections/playCount.txt"))
	assert.Equal(t, "pull-state", pull.Name())
}

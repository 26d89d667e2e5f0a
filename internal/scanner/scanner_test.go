package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xxxsen/retrolist/internal/listfile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestScanMatchesExtensionsCaseSensitive(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "pac.zip", "dig.ZIP", "xyz.7z", "readme.txt", "nested/deep.zip", "zip")

	entries := Scan(context.Background(), []string{root}, Options{Extensions: []string{"zip", "7z"}})
	assert.ElementsMatch(t, []string{"pac", "xyz"}, names(entries))

	for _, e := range entries {
		assert.Equal(t, root+string(filepath.Separator), e.Dir)
		assert.Equal(t, e.Name, e.File)
	}
}

func TestScanDeduplicatesByBasename(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	touch(t, rootA, "pac.zip", "pac.7z")
	touch(t, rootB, "pac.zip", "dig.zip")

	entries := Scan(context.Background(), []string{rootA, rootB}, Options{Extensions: []string{"zip", "7z"}})
	assert.Equal(t, []string{"pac", "dig"}, names(entries))
	assert.Equal(t, filepath.Join(rootA, "pac.7z"), entries[0].Path)
}

func TestScanIncludeExclude(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "pac.zip", "dig.zip", "xyz.zip")

	entries := Scan(context.Background(), []string{root}, Options{
		Extensions: []string{"zip"},
		Include:    listfile.NewList("pac", "dig"),
		Exclude:    listfile.NewList("dig"),
	})
	assert.Equal(t, []string{"pac"}, names(entries))
}

func TestScanHierarchy(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.bin", "sub/b.bin", "sub/deeper/c.bin")

	flat := Scan(context.Background(), []string{root}, Options{Extensions: []string{"bin"}})
	assert.Equal(t, []string{"a"}, names(flat))

	deep := Scan(context.Background(), []string{root}, Options{Extensions: []string{"bin"}, Hierarchy: true})
	assert.Equal(t, []string{"a", "b", "c"}, names(deep))
	assert.Equal(t, filepath.Join(root, "sub", "deeper")+string(filepath.Separator), deep[2].Dir)
}

func TestScanEmuArcUsesParentDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "galaga/galaga.cue", "galaga/galaga.bin", "dkong/main.cue")

	entries := Scan(context.Background(), []string{root}, Options{Extensions: []string{"cue"}, EmuArc: true})
	require.Len(t, entries, 2)
	assert.Equal(t, "dkong", entries[0].Name)
	assert.Equal(t, "main", entries[0].File)
	assert.Equal(t, "galaga", entries[1].Name)
	assert.Equal(t, "galaga", entries[1].File)
}

func TestScanMissingRootContinues(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "pac.zip")

	entries := Scan(context.Background(), []string{filepath.Join(root, "missing"), root}, Options{Extensions: []string{"zip"}})
	assert.Equal(t, []string{"pac"}, names(entries))
}

func TestSplitRootsAndExtensions(t *testing.T) {
	assert.Equal(t, []string{"/a", "/b"}, SplitRoots(" /a ;;/b"))
	assert.Equal(t, []string{"zip", "7z", "cue"}, ParseExtensions("zip, .7z ,,cue"))
	assert.Nil(t, ParseExtensions(""))
}

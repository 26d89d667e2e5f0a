package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xxxsen/retrolist/internal/layout"
	"github.com/xxxsen/retrolist/internal/listfile"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const playlistPattern = "collections/*/playlists/*.txt"

// Mirror copies the persisted frontend state (play counts and playlist files)
// between the frontend root and an object store prefix.
type Mirror struct {
	client Client
	layout layout.Layout
	prefix string
}

func NewMirror(client Client, l layout.Layout, prefix string) *Mirror {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Mirror{client: client, layout: l, prefix: prefix}
}

// IsStatePath reports whether rel, slash separated and relative to the root,
// names a state file the mirror manages.
func IsStatePath(rel string) bool {
	if rel == "" || path.Clean(rel) != rel || strings.HasPrefix(rel, "/") {
		return false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." || seg == "." {
			return false
		}
	}
	if rel == "collections/playCount.txt" {
		return true
	}
	ok, _ := path.Match(playlistPattern, rel)
	return ok
}

// StateFiles lists the state files present under the root, slash separated
// and sorted.
func (m *Mirror) StateFiles() ([]string, error) {
	var out []string
	root := m.layout.Root()
	if listfile.Exists(m.layout.PlayCountFile()) {
		out = append(out, "collections/playCount.txt")
	}
	matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(playlistPattern)))
	if err != nil {
		return nil, err
	}
	for _, p := range matches {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if IsStatePath(rel) && listfile.Exists(p) {
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Mirror) key(rel string) string {
	return m.prefix + rel
}

// Push uploads every state file and returns how many were sent.
func (m *Mirror) Push(ctx context.Context) (int, error) {
	logger := logutil.GetLogger(ctx)
	files, err := m.StateFiles()
	if err != nil {
		return 0, fmt.Errorf("collect state files: %w", err)
	}
	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		local := filepath.Join(m.layout.Root(), filepath.FromSlash(rel))
		if err := m.client.UploadFile(ctx, m.key(rel), local, ""); err != nil {
			return i, err
		}
		logger.Debug("state file pushed", zap.String("file", rel), zap.String("key", m.key(rel)))
	}
	logger.Info("state pushed", zap.Int("files", len(files)), zap.String("prefix", m.prefix))
	return len(files), nil
}

// Pull downloads the state files stored under the prefix. Keys that do not
// name a state file are skipped.
func (m *Mirror) Pull(ctx context.Context) (int, error) {
	logger := logutil.GetLogger(ctx)
	keys, err := m.client.ListKeys(ctx, m.prefix)
	if err != nil {
		return 0, err
	}
	sort.Strings(keys)
	count := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		rel := strings.TrimPrefix(key, m.prefix)
		if !IsStatePath(rel) {
			logger.Warn("skip unexpected key", zap.String("key", key))
			continue
		}
		local := filepath.Join(m.layout.Root(), filepath.FromSlash(rel))
		if err := m.client.DownloadToFile(ctx, key, local); err != nil {
			return count, err
		}
		count++
		logger.Debug("state file pulled", zap.String("key", key), zap.String("file", local))
	}
	logger.Info("state pulled", zap.Int("files", count), zap.String("prefix", m.prefix))
	return count, nil
}

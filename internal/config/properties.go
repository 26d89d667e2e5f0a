package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// settings files are looked up as settings.conf, settings1.conf ... settings15.conf.
const maxNumberedSettings = 15

// Properties is the dotted-key settings store, e.g. collections.MAME.list.extensions.
type Properties struct {
	values map[string]string
}

func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

func (p *Properties) Set(key, value string) {
	p.values[key] = value
}

func (p *Properties) Exists(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p *Properties) GetString(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// GetInt returns the value as an int; non numeric values are reported as absent.
func (p *Properties) GetInt(key string) (int, bool) {
	v, ok := p.values[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetBool accepts true, yes and 1 (case insensitive) as true.
func (p *Properties) GetBool(key string) (bool, bool) {
	v, ok := p.values[key]
	if !ok {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1":
		return true, true
	}
	return false, true
}

// Import merges a key=value file, prefixing every key with prefix when non-empty.
// Later imports override earlier values. A missing file reports os.ErrNotExist.
func (p *Properties) Import(ctx context.Context, prefix, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(strings.ReplaceAll(line, "\r", ""))
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			logutil.GetLogger(ctx).Error("missing '=' in settings line",
				zap.String("file", path), zap.Int("line", lineNo))
			continue
		}
		key = strings.TrimSpace(key)
		if prefix != "" {
			key = prefix + "." + key
		}
		p.values[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read settings %s: %w", path, err)
	}
	return nil
}

// LoadProperties reads every settings file under root:
// root settings, launcher definitions and per-collection settings.
func LoadProperties(ctx context.Context, root string) (*Properties, error) {
	logger := logutil.GetLogger(ctx)
	p := NewProperties()

	if err := p.importNumbered(ctx, "", filepath.Join(root, "settings")); err != nil {
		return nil, err
	}
	if err := p.importOptional(ctx, "", filepath.Join(root, "settings_saved.conf")); err != nil {
		return nil, err
	}

	launchers := filepath.Join(root, "launchers")
	if entries, err := os.ReadDir(launchers); err == nil {
		for _, e := range entries {
			if e.IsDir() || strings.ToLower(filepath.Ext(e.Name())) != ".conf" {
				continue
			}
			name := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
			if err := p.Import(ctx, "launchers."+name, filepath.Join(launchers, e.Name())); err != nil {
				return nil, err
			}
		}
	} else {
		logger.Info("launchers directory not readable", zap.String("dir", launchers), zap.Error(err))
	}

	collections := filepath.Join(root, "collections")
	entries, err := os.ReadDir(collections)
	if err != nil {
		logger.Warn("collections directory not readable", zap.String("dir", collections), zap.Error(err))
		return p, nil
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, "_") {
			continue
		}
		prefix := "collections." + name
		dir := filepath.Join(collections, name)
		if err := p.importNumbered(ctx, prefix, filepath.Join(dir, "settings")); err != nil {
			return nil, err
		}
		if err := p.importOptional(ctx, prefix, filepath.Join(dir, "info.conf")); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Properties) importNumbered(ctx context.Context, prefix, base string) error {
	if err := p.importOptional(ctx, prefix, base+".conf"); err != nil {
		return err
	}
	for i := 1; i <= maxNumberedSettings; i++ {
		if err := p.importOptional(ctx, prefix, base+strconv.Itoa(i)+".conf"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Properties) importOptional(ctx context.Context, prefix, path string) error {
	err := p.Import(ctx, prefix, path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

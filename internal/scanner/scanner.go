package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xxxsen/retrolist/internal/listfile"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Options controls which files become candidates.
type Options struct {
	// Extensions are matched case-sensitively against the file suffix, without the dot.
	Extensions []string
	// Hierarchy recurses into sub directories.
	Hierarchy bool
	// EmuArc names each candidate after its parent directory. Implies Hierarchy.
	EmuArc bool
	// Include, when non-empty, keeps only basenames it lists.
	Include *listfile.List
	// Exclude drops every basename it lists.
	Exclude *listfile.List
}

// Entry is one matched file.
type Entry struct {
	Name string // item name
	File string // matched file name without its final extension
	Dir  string // directory holding the file, with a trailing separator
	Path string // full path of the matched file
}

// SplitRoots splits a semicolon separated list of scan roots.
func SplitRoots(list string) []string {
	var roots []string
	for _, r := range strings.Split(list, ";") {
		if r = strings.TrimSpace(r); r != "" {
			roots = append(roots, r)
		}
	}
	return roots
}

// ParseExtensions splits a comma separated extension list, trimming blanks and leading dots.
func ParseExtensions(list string) []string {
	var exts []string
	for _, e := range strings.Split(list, ",") {
		e = strings.TrimPrefix(strings.TrimSpace(e), ".")
		if e != "" {
			exts = append(exts, e)
		}
	}
	return exts
}

// Scan walks every root in order and returns one entry per distinct item name.
// Unreadable roots are logged and contribute nothing.
func Scan(ctx context.Context, roots []string, opts Options) []Entry {
	seen := make(map[string]struct{})
	var out []Entry
	for _, root := range roots {
		for _, e := range scanRoot(ctx, root, opts) {
			if _, ok := seen[e.Name]; ok {
				continue
			}
			seen[e.Name] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

func scanRoot(ctx context.Context, root string, opts Options) []Entry {
	logger := logutil.GetLogger(ctx)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		logger.Info("rom directory not readable, ignore if this is a menu",
			zap.String("dir", root), zap.Error(err))
		return nil
	}
	recurse := opts.Hierarchy || opts.EmuArc

	var out []Entry
	root = filepath.Clean(root)
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("skip unreadable path", zap.String("path", p), zap.Error(walkErr))
			if d != nil && d.IsDir() && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != root && !recurse {
				return filepath.SkipDir
			}
			return nil
		}
		if !isFile(p, d) {
			return nil
		}
		if e, ok := match(p, d.Name(), opts); ok {
			out = append(out, e)
		}
		return nil
	})
	return out
}

func isFile(p string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func match(p, file string, opts Options) (Entry, bool) {
	basename := file
	if idx := strings.LastIndexByte(file, '.'); idx >= 0 {
		basename = file[:idx]
	}
	if !opts.Include.Empty() && !opts.Include.Has(basename) {
		return Entry{}, false
	}
	if opts.Exclude.Has(basename) {
		return Entry{}, false
	}
	if !hasExtension(file, opts.Extensions) {
		return Entry{}, false
	}

	dir := filepath.Dir(p)
	e := Entry{
		Name: basename,
		File: basename,
		Dir:  dir + string(filepath.Separator),
		Path: p,
	}
	if opts.EmuArc {
		e.Name = filepath.Base(dir)
	}
	return e, true
}

func hasExtension(file string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(file, "."+ext) {
			return true
		}
	}
	return false
}

package builder

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/xxxsen/retrolist/internal/collection"
	"github.com/xxxsen/retrolist/internal/layout"
	"github.com/xxxsen/retrolist/internal/listfile"
	"github.com/xxxsen/retrolist/internal/playcount"
	"github.com/xxxsen/retrolist/internal/scanner"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Properties is the typed settings lookup the builder reads its options from.
type Properties interface {
	GetString(key string) (string, bool)
	GetInt(key string) (int, bool)
	GetBool(key string) (bool, bool)
	Exists(key string) bool
}

// MetadataInjector fills descriptive fields of a freshly scanned collection.
type MetadataInjector interface {
	Inject(ctx context.Context, c *collection.Collection) error
}

// Builder assembles collections from the frontend directory tree.
type Builder struct {
	props  Properties
	layout layout.Layout
	plays  *playcount.Store
	meta   MetadataInjector
	now    func() time.Time
}

type Option func(*Builder)

// WithMetadata enables metadata injection while building.
func WithMetadata(m MetadataInjector) Option {
	return func(b *Builder) { b.meta = m }
}

// WithClock replaces the clock used for last-played timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New builds a Builder rooted at root.
func New(root string, props Properties, opts ...Option) *Builder {
	l := layout.New(root)
	b := &Builder{
		props:  props,
		layout: l,
		plays:  playcount.NewStore(l.PlayCountFile()),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Layout() layout.Layout { return b.layout }

func (b *Builder) PlayCounts() *playcount.Store { return b.plays }

func (b *Builder) str(key, def string) string {
	if v, ok := b.props.GetString(key); ok {
		return v
	}
	return def
}

func (b *Builder) flag(key string, def bool) bool {
	if v, ok := b.props.GetBool(key); ok {
		return v
	}
	return def
}

func (b *Builder) globalFavLast() bool {
	return b.flag("globalFavLast", false)
}

// LastPlayedSize is the configured length of the last-played playlist.
func (b *Builder) LastPlayedSize() int {
	if n, ok := b.props.GetInt("lastplayedSize"); ok && n >= 0 {
		return n
	}
	return 10
}

func collectionKey(name, key string) string {
	return "collections." + name + "." + key
}

// Load builds the named collection with its sub-collections, menu, playlists and item info.
func (b *Builder) Load(ctx context.Context, name string) (*collection.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("collection name is empty")
	}
	logger := logutil.GetLogger(ctx)

	c := b.BuildCollection(ctx, name, "")
	for _, subName := range b.subCollectionNames(ctx, name) {
		sub := b.BuildCollection(ctx, subName, name)
		sub.SubsSplit = c.SubsSplit
		c.AddSubcollection(sub)
	}
	c.SortItems()
	b.BuildMenuItems(ctx, c, c.MenuSort)
	b.AddPlaylists(ctx, c)
	c.SortPlaylists()
	b.loadItemInfo(ctx, c)

	logger.Info("collection loaded",
		zap.String("collection", name),
		zap.Int("items", c.Len()),
		zap.Int("subs", len(c.Subcollections())),
		zap.Int("playlists", len(c.PlaylistNames())),
	)
	return c, nil
}

// BuildCollection reads the collection settings and imports its items.
// merged names the umbrella collection when building a sub-collection.
func (b *Builder) BuildCollection(ctx context.Context, name, merged string) *collection.Collection {
	c := collection.New(name)
	c.ListPath = b.listPath(name)
	c.Extensions = scanner.ParseExtensions(b.str(collectionKey(name, "list.extensions"), ""))
	c.MetadataType = b.str(collectionKey(name, "metadata.type"), name)
	c.MenuSort = b.flag(collectionKey(name, "list.menuSort"), true)
	c.SubsSplit = b.flag(collectionKey(name, "list.subsSplit"), false)
	c.Launcher = b.str(collectionKey(name, "launcher"), "")
	b.checkLauncher(ctx, c)

	b.ImportDirectory(ctx, c, merged)

	if b.meta != nil {
		if err := b.meta.Inject(ctx, c); err != nil {
			logutil.GetLogger(ctx).Warn("inject metadata failed",
				zap.String("collection", name), zap.Error(err))
		}
	}
	return c
}

func (b *Builder) listPath(name string) string {
	v, ok := b.props.GetString(collectionKey(name, "list.path"))
	if !ok || strings.TrimSpace(v) == "" {
		return b.layout.DefaultRomDir(name)
	}
	roots := scanner.SplitRoots(v)
	for i, r := range roots {
		roots[i] = b.layout.Resolve(r)
	}
	return strings.Join(roots, ";")
}

func (b *Builder) checkLauncher(ctx context.Context, c *collection.Collection) {
	logger := logutil.GetLogger(ctx)
	if c.Launcher == "" {
		logger.Info("no launcher configured, collection is viewable but not launchable",
			zap.String("collection", c.Name))
		return
	}
	key := "launchers." + strings.ToLower(c.Launcher) + ".executable"
	if !b.props.Exists(key) {
		logger.Info("launcher not found, collection is viewable but not launchable",
			zap.String("collection", c.Name), zap.String("launcher", c.Launcher))
	}
}

// ImportDirectory fills c from its include list and rom directories, then applies play history.
func (b *Builder) ImportDirectory(ctx context.Context, c *collection.Collection, merged string) {
	include := listfile.NewList()
	exclude := listfile.NewList()
	showMissing := false

	if merged != "" {
		b.readSubList(ctx, b.layout.SubFile(merged, c.Name), c.Name, include)
		showMissing = b.flag(collectionKey(merged, "list.includeMissingItems"), false)
	}
	showMissing = b.flag(collectionKey(c.Name, "list.includeMissingItems"), showMissing)
	emuarc := b.flag(collectionKey(c.Name, "list.emuarc"), false)
	hierarchy := b.flag(collectionKey(c.Name, "list.romHierarchy"), false) || emuarc

	b.readInto(ctx, b.layout.IncludeFile(c.Name), include)
	b.readInto(ctx, b.layout.ExcludeFile(c.Name), exclude)

	seen := make(map[string]struct{}, c.Len())
	for _, it := range c.Items() {
		seen[it.Name] = struct{}{}
	}
	add := func(it *collection.Item) {
		if _, ok := seen[it.Name]; ok {
			return
		}
		seen[it.Name] = struct{}{}
		c.AddItem(it)
	}

	if showMissing {
		for _, name := range include.Entries() {
			if exclude.Has(name) {
				continue
			}
			add(collection.NewItem(c, name))
		}
	}

	if !showMissing || include.Empty() {
		entries := scanner.Scan(ctx, scanner.SplitRoots(c.ListPath), scanner.Options{
			Extensions: c.Extensions,
			Hierarchy:  hierarchy,
			EmuArc:     emuarc,
			Include:    include,
			Exclude:    exclude,
		})
		for _, e := range entries {
			it := collection.NewItem(c, e.Name)
			it.Filepath = e.Dir
			it.File = e.File
			add(it)
		}
	}

	b.applyPlayCounts(ctx, c)
}

func (b *Builder) applyPlayCounts(ctx context.Context, c *collection.Collection) {
	records := b.plays.Load(ctx)
	if len(records) == 0 {
		return
	}
	for _, it := range c.Items() {
		rec, ok := records[listfile.Key(c.Name, it.Name)]
		if !ok {
			rec, ok = records[it.Name]
		}
		if !ok {
			continue
		}
		it.PlayCount = rec.PlayCount
		it.LastPlayed = rec.LastPlayed
	}
}

func (b *Builder) readInto(ctx context.Context, path string, dst *listfile.List) {
	lines, err := listfile.ReadLines(path)
	if err != nil {
		logutil.GetLogger(ctx).Warn("read list file failed", zap.String("file", path), zap.Error(err))
		return
	}
	for _, line := range lines {
		dst.Add(line)
	}
}

// sub lists may reference items as "_<sub>:<item>"; entries naming other
// collections are ignored. A "*" entry takes every item of the sub, so the
// list adds no include restriction.
func (b *Builder) readSubList(ctx context.Context, path, sub string, dst *listfile.List) {
	lines, err := listfile.ReadLines(path)
	if err != nil {
		logutil.GetLogger(ctx).Warn("read sub list failed", zap.String("file", path), zap.Error(err))
		return
	}
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		ref := listfile.ParseRef(line, sub)
		if ref.Collection != sub {
			continue
		}
		if ref.IsWildcard() {
			logutil.GetLogger(ctx).Debug("sub list takes every item", zap.String("file", path))
			return
		}
		names = append(names, ref.Name)
	}
	for _, name := range names {
		dst.Add(name)
	}
}

func (b *Builder) subCollectionNames(ctx context.Context, name string) []string {
	dir := b.layout.CollectionDir(name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		logutil.GetLogger(ctx).Info("collection directory not readable",
			zap.String("dir", dir), zap.Error(err))
		return nil
	}
	var subs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sub") {
			continue
		}
		sub := strings.TrimSuffix(e.Name(), ".sub")
		if sub == "" || sub == name {
			continue
		}
		subs = append(subs, sub)
	}
	sort.Strings(subs)
	return subs
}

func (b *Builder) loadItemInfo(ctx context.Context, c *collection.Collection) {
	for _, it := range c.Items() {
		if !it.Leaf {
			continue
		}
		path := b.layout.ItemInfoFile(it.CollectionName(), it.Name)
		if err := it.LoadInfo(ctx, path); err != nil {
			logutil.GetLogger(ctx).Warn("load item info failed", zap.String("file", path), zap.Error(err))
		}
	}
}

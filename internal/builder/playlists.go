package builder

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xxxsen/retrolist/internal/collection"
	"github.com/xxxsen/retrolist/internal/layout"
	"github.com/xxxsen/retrolist/internal/listfile"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// AddPlaylists builds the "all" playlist, loads playlist files honoring the
// cycle order and guarantees that favorites and lastplayed exist.
func (b *Builder) AddPlaylists(ctx context.Context, c *collection.Collection) {
	b.buildAllPlaylist(ctx, c)

	cycle := b.CycleList(c.Name)
	markers := make(map[string]*collection.Item)
	b.loadPlaylistItems(ctx, c, c.Name, cycle, nil, markers)

	if b.globalFavLast() && c.Name != layout.FavoritesCollection {
		shared := []string{collection.PlaylistFavorites, collection.PlaylistLastPlayed}
		if local := c.Playlist(collection.PlaylistFavorites); local != nil {
			for _, it := range local.Items() {
				it.IsFavorite = false
			}
		}
		c.ResetPlaylist(collection.PlaylistFavorites)
		c.ResetPlaylist(collection.PlaylistLastPlayed)
		b.loadPlaylistItems(ctx, c, layout.FavoritesCollection, cycle, shared, markers)
	}

	c.EnsurePlaylist(collection.PlaylistFavorites)
	c.EnsurePlaylist(collection.PlaylistLastPlayed)
	c.SetPlaylistMenu(orderMarkers(markers, cycle))
}

// exclude_all entries default to the collection being built, even when they
// end up compared against items of a merged sub-collection.
func (b *Builder) buildAllPlaylist(ctx context.Context, c *collection.Collection) {
	lines, err := listfile.ReadLines(b.layout.ExcludeAllFile(c.Name))
	if err != nil {
		logutil.GetLogger(ctx).Warn("read exclude_all failed", zap.String("collection", c.Name), zap.Error(err))
	}
	if len(lines) == 0 {
		c.AliasAll()
		return
	}
	refs := make([]listfile.Ref, 0, len(lines))
	for _, line := range lines {
		refs = append(refs, listfile.ParseRef(line, c.Name))
	}
	all := c.ResetPlaylist(collection.PlaylistAll)
	for _, it := range c.Items() {
		if matchesAny(refs, it) {
			continue
		}
		all.Append(it)
	}
}

func matchesAny(refs []listfile.Ref, it *collection.Item) bool {
	for _, ref := range refs {
		if ref.Matches(it.CollectionName(), it.Name) {
			return true
		}
	}
	return false
}

// CycleList resolves the playlist cycle order for a collection. The global
// cyclePlaylist applies to firstCollection; other collections may override it.
func (b *Builder) CycleList(name string) []string {
	cycle := b.str("cyclePlaylist", "")
	first := b.str("firstCollection", "")
	if cycle == "" || first != name {
		if v, ok := b.props.GetString(collectionKey(name, "cyclePlaylist")); ok {
			cycle = v
		}
	}
	if name == layout.FavoritesCollection {
		cycle = collection.PlaylistFavorites
	}

	var out []string
	for _, p := range strings.Split(cycle, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadPlaylistItems reads playlists/<name>.txt files of the owner collection.
// Bare entries refer to items of owner. only, when set, restricts the files read.
func (b *Builder) loadPlaylistItems(ctx context.Context, c *collection.Collection, owner string,
	cycle, only []string, markers map[string]*collection.Item) {
	logger := logutil.GetLogger(ctx)
	dir := b.layout.PlaylistsDir(owner)

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Info("playlists directory not readable", zap.String("dir", dir), zap.Error(err))
		return
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".txt")
		if only != nil && !contains(only, name) {
			continue
		}
		if len(cycle) > 0 && !contains(cycle, name) {
			logger.Debug("skip playlist not in cycle list", zap.String("playlist", name))
			continue
		}

		path := filepath.Join(dir, e.Name())
		list, err := listfile.Read(path)
		if err != nil {
			logger.Warn("read playlist failed", zap.String("file", path), zap.Error(err))
			continue
		}

		marker := collection.NewMenuItem(c, name)
		marker.Filepath = dir + string(filepath.Separator)
		markers[name] = marker

		playlist := c.ResetPlaylist(name)
		resolvePlaylist(c, playlist, list.Entries(), owner, name == collection.PlaylistFavorites)
		logger.Debug("playlist loaded", zap.String("collection", c.Name),
			zap.String("playlist", name), zap.Int("items", playlist.Len()))
	}
}

func resolvePlaylist(c *collection.Collection, playlist *collection.Playlist, lines []string, owner string, favorites bool) {
	added := make(map[*collection.Item]struct{})
	for _, line := range lines {
		ref := listfile.ParseRef(line, owner)
		for _, it := range c.Items() {
			if !ref.Matches(it.CollectionName(), it.Name) {
				continue
			}
			if _, ok := added[it]; !ok {
				added[it] = struct{}{}
				playlist.Append(it)
				if favorites {
					it.IsFavorite = true
				}
			}
			if !ref.IsWildcard() {
				break
			}
		}
	}
}

func orderMarkers(markers map[string]*collection.Item, cycle []string) []*collection.Item {
	out := make([]*collection.Item, 0, len(markers))
	if len(cycle) > 0 {
		for _, name := range cycle {
			if m, ok := markers[name]; ok {
				out = append(out, m)
			}
		}
		return out
	}
	names := make([]string, 0, len(markers))
	for name := range markers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, markers[name])
	}
	return out
}

func contains(list []string, v string) bool {
	for _, cur := range list {
		if cur == v {
			return true
		}
	}
	return false
}

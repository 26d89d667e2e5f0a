package builder

import (
	"context"
	"fmt"

	"github.com/xxxsen/retrolist/internal/collection"
	"github.com/xxxsen/retrolist/internal/fsx"
	"github.com/xxxsen/retrolist/internal/layout"
	"github.com/xxxsen/retrolist/internal/listfile"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// SaveFavorites persists the favorites playlist of c when a save was requested.
//
// With globalFavLast on, collections other than Favorites share one file: new
// entries are appended, and a non-nil removed only drops that item's line.
// Otherwise the file is rewritten from the playlist.
func (b *Builder) SaveFavorites(ctx context.Context, c *collection.Collection, removed *collection.Item) error {
	if !c.SaveRequest || c.Name == "" {
		return nil
	}
	logger := logutil.GetLogger(ctx)
	owner := b.playlistOwner(c)
	dir := b.layout.PlaylistsDir(owner)
	path := b.layout.PlaylistFile(owner, collection.PlaylistFavorites)

	if err := fsx.EnsureDir(dir); err != nil {
		logger.Error("create playlists directory failed", zap.String("dir", dir), zap.Error(err))
		return fmt.Errorf("save favorites: %w", err)
	}

	var err error
	switch {
	case b.globalFavLast() && c.Name != layout.FavoritesCollection && removed != nil:
		err = b.removeSharedFavorite(path, owner, removed)
	case b.globalFavLast() && c.Name != layout.FavoritesCollection:
		err = b.appendSharedFavorites(path, owner, c)
	default:
		err = listfile.Write(path, favoriteLines(c, owner))
	}
	if err != nil {
		logger.Error("save favorites failed", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("save favorites: %w", err)
	}
	c.SaveRequest = false
	logger.Debug("favorites saved", zap.String("collection", c.Name), zap.String("file", path))
	return nil
}

func favoriteLines(c *collection.Collection, owner string) []string {
	fav := c.Playlist(collection.PlaylistFavorites)
	if fav == nil {
		return nil
	}
	lines := make([]string, 0, fav.Len())
	for _, it := range fav.Items() {
		lines = append(lines, it.Ref().Format(owner))
	}
	return lines
}

func (b *Builder) removeSharedFavorite(path, owner string, removed *collection.Item) error {
	lines, err := listfile.ReadLines(path)
	if err != nil {
		return err
	}
	target := removed.Ref()
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if listfile.ParseRef(line, owner) == target {
			continue
		}
		kept = append(kept, line)
	}
	return listfile.Write(path, kept)
}

func (b *Builder) appendSharedFavorites(path, owner string, c *collection.Collection) error {
	lines, err := listfile.ReadLines(path)
	if err != nil {
		return err
	}
	existing := make(map[listfile.Ref]struct{}, len(lines))
	for _, line := range lines {
		existing[listfile.ParseRef(line, owner)] = struct{}{}
	}

	var added []string
	fav := c.Playlist(collection.PlaylistFavorites)
	if fav != nil {
		for _, it := range fav.Items() {
			ref := it.Ref()
			if _, ok := existing[ref]; ok {
				continue
			}
			existing[ref] = struct{}{}
			added = append(added, ref.Format(owner))
		}
	}
	return listfile.Append(path, added)
}

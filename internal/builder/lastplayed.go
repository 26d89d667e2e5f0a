package builder

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/xxxsen/retrolist/internal/collection"
	"github.com/xxxsen/retrolist/internal/layout"
	"github.com/xxxsen/retrolist/internal/listfile"
	"github.com/xxxsen/retrolist/internal/playcount"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// playlistOwner is the collection whose playlists directory holds the
// favorites and lastplayed files of c.
func (b *Builder) playlistOwner(c *collection.Collection) string {
	if b.globalFavLast() {
		return layout.FavoritesCollection
	}
	return c.Name
}

// RecordPlay counts one launch of it and persists its play history.
func (b *Builder) RecordPlay(ctx context.Context, it *collection.Item) error {
	b.markPlayed(it)
	return b.persistPlay(ctx, it)
}

func (b *Builder) markPlayed(it *collection.Item) {
	it.PlayCount++
	it.LastPlayed = strconv.FormatInt(b.now().Unix(), 10)
}

func (b *Builder) persistPlay(ctx context.Context, it *collection.Item) error {
	key := listfile.Key(it.CollectionName(), it.Name)
	err := b.plays.Put(ctx, key, playcount.Record{PlayCount: it.PlayCount, LastPlayed: it.LastPlayed})
	if err != nil {
		logutil.GetLogger(ctx).Warn("save play count failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// UpdateLastPlayedPlaylist records a launch of it and rebuilds the lastplayed
// playlist: it first, then previously played items up to size entries.
// Persistence failures are returned but the in-memory playlist stays updated.
func (b *Builder) UpdateLastPlayedPlaylist(ctx context.Context, c *collection.Collection, it *collection.Item, size int) error {
	logger := logutil.GetLogger(ctx)
	owner := b.playlistOwner(c)
	path := b.layout.PlaylistFile(owner, collection.PlaylistLastPlayed)

	previous, err := listfile.Read(path)
	if err != nil {
		logger.Warn("read lastplayed failed", zap.String("file", path), zap.Error(err))
	}

	playlist := c.ResetPlaylist(collection.PlaylistLastPlayed)
	b.markPlayed(it)
	if size <= 0 {
		return b.persistPlay(ctx, it)
	}

	playlist.Append(it)
	added := map[*collection.Item]struct{}{it: {}}
	for _, line := range previous.Entries() {
		if playlist.Len() >= size {
			break
		}
		ref := listfile.ParseRef(line, owner)
		for _, cand := range c.Items() {
			if playlist.Len() >= size {
				break
			}
			if !ref.Matches(cand.CollectionName(), cand.Name) {
				continue
			}
			if _, ok := added[cand]; !ok {
				added[cand] = struct{}{}
				playlist.Append(cand)
			}
			if !ref.IsWildcard() {
				break
			}
		}
	}

	lines := make([]string, 0, playlist.Len())
	for _, cur := range playlist.Items() {
		lines = append(lines, cur.Ref().Format(owner))
	}
	var writeErr error
	if err := listfile.Write(path, lines); err != nil {
		logger.Warn("save lastplayed failed", zap.String("file", path), zap.Error(err))
		writeErr = fmt.Errorf("save lastplayed: %w", err)
	}

	collection.SortByLastPlayed(playlist.Items())
	return errors.Join(writeErr, b.persistPlay(ctx, it))
}

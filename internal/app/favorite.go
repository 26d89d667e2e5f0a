package app

import (
	"context"
	"errors"

	"github.com/xxxsen/retrolist/internal/builder"
	"github.com/xxxsen/retrolist/internal/collection"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// FavoriteCommand adds an item to, or removes it from, the favorites playlist.
type FavoriteCommand struct {
	collection string
	item       string
	remove     bool

	builder *builder.Builder
}

func NewFavoriteCommand() *FavoriteCommand { return &FavoriteCommand{} }

func (c *FavoriteCommand) Name() string { return "favorite" }

func (c *FavoriteCommand) Desc() string { return "Add or remove an item from favorites" }

func (c *FavoriteCommand) Init(fst *pflag.FlagSet) {
	fst.StringVar(&c.collection, "collection", "", "collection name")
	fst.StringVar(&c.item, "item", "", "item name, or _<collection>:<name> for merged items")
	fst.BoolVar(&c.remove, "remove", false, "remove instead of add")
}

func (c *FavoriteCommand) PreRun(ctx context.Context, env *Env) error {
	if c.collection == "" || c.item == "" {
		return errors.New("favorite requires --collection and --item")
	}
	c.builder = env.Builder(ctx)
	return nil
}

func (c *FavoriteCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	coll, err := c.builder.Load(ctx, c.collection)
	if err != nil {
		return err
	}
	it, err := findItem(coll, c.item)
	if err != nil {
		return err
	}

	var removed *collection.Item
	if c.remove {
		if !coll.RemoveFavorite(it) {
			logger.Info("item is not a favorite", zap.String("item", it.Ref().Key()))
			return nil
		}
		removed = it
	} else if !coll.AddFavorite(it) {
		logger.Info("item already a favorite", zap.String("item", it.Ref().Key()))
		return nil
	}
	if err := c.builder.SaveFavorites(ctx, coll, removed); err != nil {
		return err
	}
	logger.Info("favorites updated",
		zap.String("item", it.Ref().Key()), zap.Bool("removed", c.remove),
		zap.Int("favorites", coll.Playlist(collection.PlaylistFavorites).Len()))
	return nil
}

func (c *FavoriteCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("favorite", func() IRunner { return NewFavoriteCommand() })
}

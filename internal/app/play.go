package app

import (
	"context"
	"errors"

	"github.com/xxxsen/retrolist/internal/builder"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// PlayCommand records a launch: play count, last played time and the
// lastplayed playlist.
type PlayCommand struct {
	collection string
	item       string
	size       int

	builder *builder.Builder
}

func NewPlayCommand() *PlayCommand { return &PlayCommand{} }

func (c *PlayCommand) Name() string { return "play" }

func (c *PlayCommand) Desc() string { return "记录一次游戏启动并更新最近游玩列表" }

func (c *PlayCommand) Init(fst *pflag.FlagSet) {
	fst.StringVar(&c.collection, "collection", "", "collection name")
	fst.StringVar(&c.item, "item", "", "item name, or _<collection>:<name> for merged items")
	fst.IntVar(&c.size, "size", -1, "lastplayed size, defaults to the lastplayedSize setting")
}

func (c *PlayCommand) PreRun(ctx context.Context, env *Env) error {
	if c.collection == "" || c.item == "" {
		return errors.New("play requires --collection and --item")
	}
	c.builder = env.Builder(ctx)
	if c.size < 0 {
		c.size = c.builder.LastPlayedSize()
	}
	return nil
}

func (c *PlayCommand) Run(ctx context.Context) error {
	coll, err := c.builder.Load(ctx, c.collection)
	if err != nil {
		return err
	}
	it, err := findItem(coll, c.item)
	if err != nil {
		return err
	}
	if err := c.builder.UpdateLastPlayedPlaylist(ctx, coll, it, c.size); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("play recorded",
		zap.String("item", it.Ref().Key()),
		zap.Int("play_count", it.PlayCount),
		zap.String("last_played", it.LastPlayed))
	return nil
}

func (c *PlayCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("play", func() IRunner { return NewPlayCommand() })
}

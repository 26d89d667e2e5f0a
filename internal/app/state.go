package app

import (
	"context"

	"github.com/xxxsen/retrolist/internal/layout"
	"github.com/xxxsen/retrolist/internal/storage"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// StateCommand mirrors play counts and playlist files to or from S3.
type StateCommand struct {
	push bool

	mirror *storage.Mirror
}

func NewPushStateCommand() *StateCommand { return &StateCommand{push: true} }

func NewPullStateCommand() *StateCommand { return &StateCommand{} }

func (c *StateCommand) Name() string {
	if c.push {
		return "push-state"
	}
	return "pull-state"
}

func (c *StateCommand) Desc() string {
	if c.push {
		return "Upload play counts and playlists to the configured bucket"
	}
	return "Restore play counts and playlists from the configured bucket"
}

func (c *StateCommand) Init(fst *pflag.FlagSet) {}

func (c *StateCommand) PreRun(ctx context.Context, env *Env) error {
	if err := env.Config.ValidateS3(); err != nil {
		return err
	}
	client, err := storage.NewS3Client(ctx, env.Config.S3)
	if err != nil {
		return err
	}
	return c.bind(ctx, client, env)
}

func (c *StateCommand) bind(ctx context.Context, client storage.Client, env *Env) error {
	c.mirror = storage.NewMirror(client, layout.New(env.Config.Root), env.Config.S3.Prefix)
	logutil.GetLogger(ctx).Info("state mirror ready",
		zap.String("bucket", env.Config.S3.Bucket), zap.String("prefix", env.Config.S3.Prefix))
	return nil
}

func (c *StateCommand) Run(ctx context.Context) error {
	if c.push {
		_, err := c.mirror.Push(ctx)
		return err
	}
	_, err := c.mirror.Pull(ctx)
	return err
}

func (c *StateCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("push-state", func() IRunner { return NewPushStateCommand() })
	RegisterRunner("pull-state", func() IRunner { return NewPullStateCommand() })
}

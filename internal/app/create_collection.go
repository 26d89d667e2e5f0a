package app

import (
	"context"
	"errors"
	"strings"

	"github.com/xxxsen/retrolist/internal/builder"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// CreateCollectionCommand lays out the directory skeleton of a new collection.
type CreateCollectionCommand struct {
	name string

	builder *builder.Builder
}

func NewCreateCollectionCommand() *CreateCollectionCommand { return &CreateCollectionCommand{} }

func (c *CreateCollectionCommand) Name() string { return "create-collection" }

func (c *CreateCollectionCommand) Desc() string { return "创建新合集的目录结构与默认配置" }

func (c *CreateCollectionCommand) Init(fst *pflag.FlagSet) {
	fst.StringVar(&c.name, "name", "", "collection name")
}

func (c *CreateCollectionCommand) PreRun(ctx context.Context, env *Env) error {
	c.name = strings.TrimSpace(c.name)
	if c.name == "" {
		return errors.New("create-collection requires --name")
	}
	if strings.ContainsAny(c.name, `/\`) || c.name == "." || c.name == ".." {
		return errors.New("collection name must not contain path separators")
	}
	c.builder = builder.New(env.Config.Root, env.Props)
	return nil
}

func (c *CreateCollectionCommand) Run(ctx context.Context) error {
	if err := c.builder.CreateCollectionDirectory(ctx, c.name); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("collection created",
		zap.String("collection", c.name),
		zap.String("dir", c.builder.Layout().CollectionDir(c.name)))
	return nil
}

func (c *CreateCollectionCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("create-collection", func() IRunner { return NewCreateCollectionCommand() })
}

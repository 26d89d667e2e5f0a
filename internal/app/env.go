package app

import (
	"context"
	"fmt"

	"github.com/xxxsen/retrolist/internal/builder"
	"github.com/xxxsen/retrolist/internal/config"
	"github.com/xxxsen/retrolist/internal/metadb"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Env holds what one command run needs: the application config, the frontend
// properties and lazily opened backends.
type Env struct {
	Config *config.Config
	Props  *config.Properties

	meta *metadb.DB
}

// NewEnv reads the frontend properties under cfg.Root.
func NewEnv(ctx context.Context, cfg *config.Config) (*Env, error) {
	props, err := config.LoadProperties(ctx, cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("load properties under %s: %w", cfg.Root, err)
	}
	return &Env{Config: cfg, Props: props}, nil
}

// MetaDB opens the metadata store on first use.
func (e *Env) MetaDB(ctx context.Context) (*metadb.DB, error) {
	if e.meta != nil {
		return e.meta, nil
	}
	db, err := metadb.Open(ctx, e.Config.MetaDB)
	if err != nil {
		return nil, err
	}
	e.meta = db
	return db, nil
}

// Builder returns a collection builder. Metadata injection is enabled when the
// metadata store can be opened.
func (e *Env) Builder(ctx context.Context) *builder.Builder {
	var opts []builder.Option
	db, err := e.MetaDB(ctx)
	if err != nil {
		logutil.GetLogger(ctx).Warn("metadata store unavailable, items keep their file names",
			zap.String("driver", e.Config.MetaDB.Driver), zap.Error(err))
	} else {
		opts = append(opts, builder.WithMetadata(db))
	}
	return builder.New(e.Config.Root, e.Props, opts...)
}

func (e *Env) Close() error {
	if e.meta == nil {
		return nil
	}
	err := e.meta.Close()
	e.meta = nil
	return err
}

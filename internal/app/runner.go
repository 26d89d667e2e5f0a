package app

import (
	"context"

	"github.com/spf13/pflag"
)

// IRunner represents a runnable command in the application layer.
type IRunner interface {
	Name() string
	Desc() string
	Init(fst *pflag.FlagSet)
	// PreRun validates flags and binds the runner to env.
	PreRun(ctx context.Context, env *Env) error
	Run(ctx context.Context) error
	PostRun(ctx context.Context) error
}

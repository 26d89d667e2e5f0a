package cli

import (
	"context"
	"errors"

	"github.com/xxxsen/retrolist/internal/app"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const configFlag = "config"

var rootCmd = &cobra.Command{
	Use:           "retrolist",
	Short:         "Assemble frontend collections and maintain playlists, favorites and play history",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Error("exec cmd failed", zap.Error(err))
		return err
	}
	return nil
}

func runWithEnv(cmd *cobra.Command, runner app.IRunner) (err error) {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	cfgPath, _ := cmd.Root().PersistentFlags().GetString(configFlag)
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	if cfg.Log.File != "" || cfg.Log.Console {
		logger.Init(cfg.Log.File, cfg.Log.Level, 0, 0, 0, cfg.Log.Console)
	}

	env, err := app.NewEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.Close())
	}()

	if err := runner.PreRun(ctx, env); err != nil {
		return err
	}
	if err := runner.Run(ctx); err != nil {
		return err
	}
	return runner.PostRun(ctx)
}

func init() {
	rootCmd.PersistentFlags().String(configFlag, "", "path to config.json")
	for _, r := range app.RunnerList() {
		runner := app.MustResolveRunner(r)
		subcmd := &cobra.Command{
			Use:   runner.Name(),
			Short: runner.Desc(),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runWithEnv(cmd, runner)
			},
		}
		runner.Init(subcmd.Flags())
		rootCmd.AddCommand(subcmd)
	}
}

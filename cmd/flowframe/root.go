package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowframe/pkg/config"
	"flowframe/pkg/observability"
)

// cli holds what PersistentPreRunE prepares for the subcommands.
type cli struct {
	cfgFile  string
	logLevel string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "flowframe",
		Short:         "Run and render container layout scenarios.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initialize(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override logger.level")

	root.AddCommand(newRunCmd(c), newSolveCmd(c), newCompareCmd(c))
	return root
}

// initialize loads the configuration and builds the logger. Flags win over
// the environment, which wins over the config file.
func (c *cli) initialize(cmd *cobra.Command) error {
	v := config.NewViper()
	if f := cmd.Flag("log-level"); f != nil {
		if err := v.BindPFlag("logger.level", f); err != nil {
			return err
		}
	}
	if err := config.ReadFile(v, c.cfgFile); err != nil {
		return err
	}
	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = observability.NewLoggerTo(cfg.Logger, cmd.ErrOrStderr())
	c.log.Debug("configuration loaded", zap.String("file", c.cfgFile), zap.String("level", cfg.Logger.Level))
	return nil
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/revdiff/internal/config"
)

var checkWatch bool

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if err := printConfig(cmd.OutOrStdout(), configPath, cfg); err != nil {
			return err
		}
		if !checkWatch {
			return nil
		}

		logger := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())
		w := config.NewWatcher(configPath, config.WithWatchLogger(logger))
		return w.Run(cmd.Context(), func(cfg *config.Config, err error) {
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", configPath, err)
				return
			}
			_ = printConfig(cmd.OutOrStdout(), configPath, cfg)
		})
	},
}

func init() {
	checkConfigCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "re-check on every change")
}

func printConfig(w io.Writer, path string, cfg *config.Config) error {
	if _, err := cfg.Theme(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s: ok (prefix=%s retention=%d history=%d log=%s/%s styles=%d)\n",
		path,
		cfg.Revisions.MarkerPrefix,
		cfg.Revisions.Retention,
		cfg.Revisions.MaxHistory,
		cfg.Logging.Level,
		cfg.Logging.Format,
		len(cfg.Styles),
	)
	return err
}

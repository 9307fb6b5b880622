package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sir_venger/dropblocks/internal/logging"
)

const defaultServerURL = "http://localhost:8080"

type rootOptions struct {
	configPath string
	logLevel   string
}

// newRootCommand собирает CLI: сервер и клиентские команды push/pull.
func newRootCommand(fs afero.Fs) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "dropblocks",
		Short: "Streaming file drop service.",
		Long: `DropBlocks accepts multipart/form-data uploads, streams the file part straight
to a flat storage directory and serves it back by id.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to the YAML config (default $CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"override log level: debug, info, warn, error")

	rootCmd.AddCommand(newServeCommand(fs, opts))
	rootCmd.AddCommand(newPushCommand(fs, opts))
	rootCmd.AddCommand(newPullCommand(fs, opts))

	return rootCmd
}

func (o *rootOptions) logger(cmd *cobra.Command, level string) (*log.Logger, error) {
	if o.logLevel != "" {
		level = o.logLevel
	}

	return logging.New(cmd.ErrOrStderr(), level)
}

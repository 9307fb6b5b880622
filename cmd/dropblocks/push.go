package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sir_venger/dropblocks/pkg/storageclient"
)

func newPushCommand(fs afero.Fs, opts *rootOptions) *cobra.Command {
	var server string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Upload a local file and print its download link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger(cmd, "info")
			if err != nil {
				return err
			}

			path := args[0]
			f, err := fs.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			st, err := f.Stat()
			if err != nil {
				return err
			}

			cli := storageclient.New(progressOutput(cmd, quiet))
			res, err := cli.Upload(cmd.Context(), server, filepath.Base(path), f, st.Size())
			if err != nil {
				return err
			}

			logger.Debug("uploaded", "file_id", res.FileID, "size", res.Size)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(server, "/")+res.Download)
			return err
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", defaultServerURL, "service base URL")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not draw the progress bar")

	return cmd
}

func progressOutput(cmd *cobra.Command, quiet bool) storageclient.Option {
	if quiet {
		return storageclient.WithProgressOutput(nil)
	}

	return storageclient.WithProgressOutput(cmd.ErrOrStderr())
}

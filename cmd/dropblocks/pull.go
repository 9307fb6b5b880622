package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sir_venger/dropblocks/internal/sanitize"
	"github.com/sir_venger/dropblocks/pkg/storageclient"
)

func newPullCommand(fs afero.Fs, opts *rootOptions) *cobra.Command {
	var server, output string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "pull <id>",
		Short: "Download a file by id",
		Long: `Download a file by id. Without --output the file is saved in the current
directory under the name the server reports in Content-Disposition.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger(cmd, "info")
			if err != nil {
				return err
			}

			id := args[0]
			tmp, err := afero.TempFile(fs, ".", ".dropblocks-*")
			if err != nil {
				return err
			}
			defer fs.Remove(tmp.Name())

			cli := storageclient.New(progressOutput(cmd, quiet))
			info, err := cli.Download(cmd.Context(), server, id, tmp)
			if closeErr := tmp.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			dst := output
			if dst == "" {
				dst = sanitize.Filename(info.Filename)
			}
			if dst == "" {
				dst = id
			}
			if _, err = fs.Stat(dst); err == nil {
				return fmt.Errorf("%s already exists", dst)
			} else if !os.IsNotExist(err) {
				return err
			}
			if err = fs.Rename(tmp.Name(), dst); err != nil {
				return err
			}

			logger.Debug("downloaded", "file_id", id, "path", dst, "content_type", info.ContentType)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dst)
			return err
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", defaultServerURL, "service base URL")
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not draw the progress bar")

	return cmd
}

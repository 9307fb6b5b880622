package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sir_venger/dropblocks/internal/app/resthttp"
	"github.com/sir_venger/dropblocks/internal/config"
	"github.com/sir_venger/dropblocks/internal/registry"
	"github.com/sir_venger/dropblocks/internal/usecase/filesvc"
)

func newServeCommand(fs afero.Fs, opts *rootOptions) *cobra.Command {
	var addr, dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload/download HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.ListenAddr = addr
			}
			if cmd.Flags().Changed("dir") {
				cfg.StorageDir = dir
			}
			if err = cfg.Validate(); err != nil {
				return err
			}

			logger, err := opts.logger(cmd, cfg.LogLevel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, fs, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides listen_addr")
	cmd.Flags().StringVar(&dir, "dir", "", "storage directory, overrides storage_dir")

	return cmd
}

// buildHandler создаёт каталог хранения, восстанавливает индекс с диска и собирает HTTP-обработчик.
func buildHandler(cfg *config.Config, fs afero.Fs, logger *log.Logger) (http.Handler, error) {
	if err := fs.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, err
	}

	reg := registry.New(fs, cfg.StorageDir, registry.WithLogger(logger))
	if _, err := reg.Recover(); err != nil {
		return nil, err
	}

	files := filesvc.New(filesvc.Deps{
		Files:         reg,
		Logger:        logger,
		BufferSize:    cfg.BufferSize,
		MaxFieldBytes: cfg.MaxFieldBytes,
	})

	handler, _ := resthttp.NewServer(cfg, files, logger)
	return handler, nil
}

// serve слушает до отмены ctx, затем делает graceful shutdown.
func serve(ctx context.Context, cfg *config.Config, fs afero.Fs, logger *log.Logger) error {
	handler, err := buildHandler(cfg, fs, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.ListenAddr, "dir", cfg.StorageDir, "workers", cfg.Workers)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("shutdown", "err", err)
			return err
		}
		logger.Info("stopped")
		return nil
	})

	return g.Wait()
}

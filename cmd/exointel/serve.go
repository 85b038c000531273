package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	apihttp "github.com/codenameuriel/exo-intel/internal/adapters/http"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Starts the JSON API. Unless --workers=false, a worker pool consuming the task queue runs in the same process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := openService(ctx, cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		handler, err := svc.Handler()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		withWorkers, _ := cmd.Flags().GetBool("workers")

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return apihttp.Serve(ctx, svc.Logger(), apihttp.ServeConfig{
				Addr:            cfg.HTTP.Addr,
				ReadTimeout:     cfg.HTTP.ReadTimeout,
				WriteTimeout:    cfg.HTTP.WriteTimeout,
				ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
			}, handler)
		})
		if withWorkers {
			g.Go(func() error { return svc.Worker().Run(ctx) })
		}
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		svc.Logger().Info("exointel stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("workers", true, "Run queue workers in this process")
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume the task queue",
	Long:  `Runs only the worker pool. Use with queue.backend=redis to scale workers separately from the API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := openService(ctx, cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		return svc.Worker().Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

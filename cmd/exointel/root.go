package main

import (
	"context"
	"fmt"
	"os"

	exointel "github.com/codenameuriel/exo-intel"
	"github.com/codenameuriel/exo-intel/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "exointel",
	Short:         "Exoplanet catalog and simulation service",
	Long:          `exointel serves a habitability-annotated exoplanet catalog and runs travel, climate, tidal and stellar-lifetime simulations in the background.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (EXOINTEL_* env vars override it)")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// openService loads the config, opens the service and migrates the schema.
// The caller closes the returned service.
func openService(ctx context.Context, cmd *cobra.Command) (*exointel.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	svc, err := exointel.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := svc.Migrate(ctx); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}

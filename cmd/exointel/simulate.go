package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <kind> [key=value...]",
	Short: "Run a simulation synchronously and print the recorded run",
	Long: `Runs one simulation in-process, records it in the user's history and prints the run as JSON.

Kinds: travel-time, seasonal-temps, tidal-locking, star-lifetime.

  exointel simulate travel-time star_system_id=1 speed_percentage=20 --user-id 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseKind(args[0])
		if err != nil {
			return err
		}
		params, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}
		userID, _ := cmd.Flags().GetInt64("user-id")

		svc, err := openService(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		run, runErr := svc.Runner().Execute(cmd.Context(), domain.NewTask(userID, kind, params, time.Now()))
		if run.ID != 0 {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(run); err != nil {
				return err
			}
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int64("user-id", 0, "ID of the user the run is recorded for")
	_ = simulateCmd.MarkFlagRequired("user-id")
}

// parseAssignments turns key=value pairs into parameters. Values that parse
// as integers or floats are stored as numbers, everything else as strings.
func parseAssignments(pairs []string) (domain.Parameters, error) {
	params := domain.Parameters{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			params[key] = i
		} else if f, err := strconv.ParseFloat(value, 64); err == nil {
			params[key] = f
		} else {
			params[key] = value
		}
	}
	return params, nil
}

package main

import (
	"fmt"
	"strings"

	exointel "github.com/codenameuriel/exo-intel"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of exointel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "exointel version %s\n", strings.TrimSpace(exointel.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

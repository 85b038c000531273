package main

import (
	"fmt"
	"strconv"

	"github.com/codenameuriel/exo-intel/pkg/fixtures"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer svc.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage catalog data",
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load star systems, stars and planets from a YAML or JSON fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := fixtures.Load(args[0])
		if err != nil {
			return err
		}
		svc, err := openService(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		sum, err := f.Apply(cmd.Context(), svc.Catalog())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s star systems, %s stars and %s planets.\n",
			humanize.Comma(int64(sum.StarSystems)), humanize.Comma(int64(sum.Stars)), humanize.Comma(int64(sum.Planets)))
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage API users",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create an active user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		user, err := svc.Users().CreateUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created user %q with ID %d.\n", user.Username, user.ID)
		return nil
	},
}

var usersDeactivateCmd = &cobra.Command{
	Use:   "deactivate <user-id>",
	Short: "Deactivate a user; their API keys stop working",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		svc, err := openService(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.Users().SetActive(cmd.Context(), id, false); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deactivated user %d.\n", id)
		return nil
	},
}

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys",
}

var apikeyIssueCmd = &cobra.Command{
	Use:   "issue <user-id>",
	Short: "Issue a new API key for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		name, _ := cmd.Flags().GetString("name")

		svc, err := openService(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		key, err := svc.Users().IssueAPIKey(cmd.Context(), id, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Issued key %q for user %d.\n", key.Name, key.UserID)
		fmt.Fprintf(cmd.OutOrStdout(), "Authorization: Api-Key %s\n", key.Key)
		fmt.Fprintln(cmd.OutOrStdout(), "Store it now; it will not be shown again.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, catalogCmd, usersCmd, apikeyCmd)
	catalogCmd.AddCommand(catalogLoadCmd)
	usersCmd.AddCommand(usersCreateCmd, usersDeactivateCmd)
	apikeyCmd.AddCommand(apikeyIssueCmd)
	apikeyIssueCmd.Flags().String("name", "default", "Label for the key")
}

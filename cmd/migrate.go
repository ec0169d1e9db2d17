/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/sideline-app/client/config"
	"github.com/sideline-app/client/internal/db"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the local state database",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := db.Migrate(cfg.State); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "State database at %s is up to date.\n", stateLocation(cfg.State.Driver, cfg.State.Path))
		return nil
	},
}

func stateLocation(driver, path string) string {
	if driver == config.StateDriverPostgres {
		return "postgres"
	}
	return path
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
}

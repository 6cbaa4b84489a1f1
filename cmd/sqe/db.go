package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sqeperf/database"
)

func makeDBCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Evaluations database maintenance",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the evaluations database schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.CreateEvaluationsDatabase(a.cfg.DatabasePath)
			if err != nil {
				return err
			}
			if err := db.Close(); err != nil {
				return fmt.Errorf("failed to close evaluations database: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Evaluations database ready: %s\n", a.cfg.DatabasePath)
			return nil
		},
	}
	initCmd.Flags().String("db", "", "Path to the SQLite evaluations database")

	cmd.AddCommand(initCmd)
	return cmd
}

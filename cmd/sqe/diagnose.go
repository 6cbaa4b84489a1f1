package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sqeperf/database"
	"sqeperf/diagnostics"
	"sqeperf/internal/textenc"
)

func makeDiagnoseCommand(a *app) *cobra.Command {
	var printJSON bool

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Reproduce totalEntities of /api/evaluations/accumulated/:year step by step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.OpenEvaluationsDB(a.cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()
			a.log.Debug("evaluations database opened", zap.String("path", a.cfg.DatabasePath))

			out, err := textenc.NewWriter(cmd.OutOrStdout(), a.cfg.OutputEncoding)
			if err != nil {
				return err
			}

			runErr := runDiagnostic(cmd.Context(), a, db, out, printJSON)
			// Close сбрасывает буфер кодировщика
			if err := out.Close(); err != nil && runErr == nil {
				return fmt.Errorf("failed to flush output: %w", err)
			}
			return runErr
		},
	}
	cmd.Flags().String("db", "", "Path to the SQLite evaluations database")
	cmd.Flags().Int("year", 0, "Calendar year of evaluation start dates")
	cmd.Flags().String("type", "", "Detail data_type tag, e.g. purchase")
	cmd.Flags().String("encoding", "", "Console output encoding: utf-8 or gbk")
	cmd.Flags().BoolVar(&printJSON, "json", false, "Print raw JSON result after the human-readable summary")
	return cmd
}

func runDiagnostic(ctx context.Context, a *app, store diagnostics.Store, out io.Writer, printJSON bool) error {
	res, err := diagnostics.NewRunner(store, out, a.cfg.Year, a.cfg.DataType, a.log).Run(ctx)
	if err != nil {
		return err
	}

	if printJSON {
		payload, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(out, "\nJSON payload:")
		fmt.Fprintln(out, string(payload))
	}
	return nil
}

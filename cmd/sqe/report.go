package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sqeperf/performance"
)

func makeReportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Delivery performance workbook",
	}
	cmd.AddCommand(makeReportGenerateCommand(a))
	cmd.AddCommand(makeReportInspectCommand(a))
	return cmd
}

func makeReportGenerateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the external and purchased delivery tables to a styled workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			datasets, err := performance.LoadDatasets(a.cfg.ReportDataPath)
			if err != nil {
				return err
			}

			output := a.cfg.ReportOutputPath
			if err := performance.ExportWorkbook(output, datasets); err != nil {
				return err
			}

			a.log.Info("workbook written",
				zap.String("path", output),
				zap.Int("sheets", len(datasets)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Excel file generated: %s\n", output)
			return nil
		},
	}
	cmd.Flags().String("data", "", "YAML file with the tables (built-in 2025 data when empty)")
	cmd.Flags().StringP("output", "o", "", "Output workbook path")
	return cmd
}

func makeReportInspectCommand(a *app) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Read a generated workbook back and print its tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			datasets, err := performance.ReadWorkbook(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asYAML {
				return performance.EncodeDatasets(out, datasets)
			}
			for _, ds := range datasets {
				fmt.Fprintln(out, performance.RenderTable(ds))
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the tables in the data file format")
	return cmd
}

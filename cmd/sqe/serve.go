package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"sqeperf/database"
	"sqeperf/internal/metrics"
	"sqeperf/server"
)

func makeServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the accumulated evaluation API, health and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.OpenEvaluationsDB(a.cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			return server.NewServer(a.cfg, db, metrics.New(metrics.WithRegistry(reg)), a.log).Run(ctx)
		},
	}
	cmd.Flags().String("db", "", "Path to the SQLite evaluations database")
	cmd.Flags().String("port", "", "HTTP port")
	cmd.Flags().String("type", "", "Default data_type when the request has no type parameter")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"sqeperf/internal/config"
	"sqeperf/internal/logger"
)

// app общее состояние команд: конфигурация и логгер заполняются перед запуском подкоманды
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

// flagKeys имя флага -> ключ конфигурации
var flagKeys = map[string]string{
	"db":        config.KeyDatabasePath,
	"data":      config.KeyReportDataPath,
	"output":    config.KeyReportOutputPath,
	"year":      config.KeyYear,
	"type":      config.KeyDataType,
	"encoding":  config.KeyOutputEncoding,
	"port":      config.KeyPort,
	"log-level": config.KeyLogLevel,
}

func bindFlags(cmd *cobra.Command) config.Option {
	return func(v *viper.Viper) error {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.configPath, bindFlags(cmd))
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "sqe",
		Short:             "Supplier delivery performance report and evaluation diagnostics",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")

	rootCmd.AddCommand(makeReportCommand(a))
	rootCmd.AddCommand(makeDiagnoseCommand(a))
	rootCmd.AddCommand(makeServeCommand(a))
	rootCmd.AddCommand(makeDBCommand(a))
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Command failed: %s\n", err.Error())
		os.Exit(1)
	}
}

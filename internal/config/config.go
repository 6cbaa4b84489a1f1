package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения (SQE_DATABASE_PATH и т.д.)
const EnvPrefix = "SQE"

// Ключи конфигурации; совпадают с именами в файле и, в верхнем регистре, с переменными окружения
const (
	KeyDatabasePath     = "database_path"
	KeyReportDataPath   = "report_data_path"
	KeyReportOutputPath = "report_output_path"
	KeyYear             = "year"
	KeyDataType         = "data_type"
	KeyOutputEncoding   = "output_encoding"
	KeyPort             = "port"
	KeyLogLevel         = "log_level"
	KeyLogDevelopment   = "log_development"
	KeyRateLimit        = "rate_limit"
	KeyRateBurst        = "rate_burst"
	KeyShutdownTimeout  = "shutdown_timeout"
)

// ErrInvalidConfig конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("invalid config")

// Config конфигурация утилит
type Config struct {
	// База данных оценок
	DatabasePath string `mapstructure:"database_path"`

	// Отчет
	ReportDataPath   string `mapstructure:"report_data_path"`
	ReportOutputPath string `mapstructure:"report_output_path"`

	// Диагностика
	Year           int    `mapstructure:"year"`
	DataType       string `mapstructure:"data_type"`
	OutputEncoding string `mapstructure:"output_encoding"`

	// HTTP
	Port            string        `mapstructure:"port"`
	RateLimit       float64       `mapstructure:"rate_limit"`
	RateBurst       int           `mapstructure:"rate_burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Логирование
	LogLevel       string `mapstructure:"log_level"`
	LogDevelopment bool   `mapstructure:"log_development"`
}

// Option дополнительная настройка viper перед чтением (например, привязка флагов cobra)
type Option func(v *viper.Viper) error

// setDefaults значения по умолчанию
func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, "data/sqe_database.sqlite")
	v.SetDefault(KeyReportDataPath, "")
	v.SetDefault(KeyReportOutputPath, "2025年交付业绩汇总.xlsx")
	v.SetDefault(KeyYear, 2025)
	v.SetDefault(KeyDataType, "purchase")
	v.SetDefault(KeyOutputEncoding, "utf-8")
	v.SetDefault(KeyPort, "9999")
	v.SetDefault(KeyRateLimit, 20.0)
	v.SetDefault(KeyRateBurst, 40)
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
	v.SetDefault(KeyLogLevel, "INFO")
	v.SetDefault(KeyLogDevelopment, true)
}

// LoadConfig собирает конфигурацию: значения по умолчанию, файл (если задан),
// переменные окружения SQE_*, затем опции (флаги имеют наивысший приоритет)
func LoadConfig(configPath string, opts ...Option) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("failed to apply config option: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Override задает значение ключа поверх всех источников
func Override(key string, value interface{}) Option {
	return func(v *viper.Viper) error {
		v.Set(key, value)
		return nil
	}
}

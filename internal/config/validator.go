package config

import (
	"fmt"
	"strconv"
	"strings"

	"sqeperf/internal/textenc"
)

var validLogLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.DatabasePath) == "" {
		errs = append(errs, "database path is required")
	}
	if strings.TrimSpace(c.ReportOutputPath) == "" {
		errs = append(errs, "report output path is required")
	}

	if c.Year < 1900 || c.Year > 9998 {
		errs = append(errs, fmt.Sprintf("year must be between 1900 and 9998, got %d", c.Year))
	}
	if strings.TrimSpace(c.DataType) == "" {
		errs = append(errs, "data type is required")
	}
	if _, err := textenc.Normalize(c.OutputEncoding); err != nil {
		errs = append(errs, err.Error())
	}

	// Валидация порта
	if c.Port == "" {
		errs = append(errs, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errs = append(errs, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// 0 отключает ограничение частоты запросов
	if c.RateLimit < 0 {
		errs = append(errs, "rate limit cannot be negative")
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		errs = append(errs, "rate burst must be at least 1 when rate limit is enabled")
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, "shutdown timeout cannot be negative")
	}

	if c.LogLevel != "" {
		valid := false
		for _, level := range validLogLevels {
			if strings.EqualFold(c.LogLevel, level) {
				valid = true
				break
			}
		}
		if !valid {
			errs = append(errs, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

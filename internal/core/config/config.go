// Package config provides configuration management for craftbook commands.
package config

import (
	"fmt"
	"time"

	"github.com/solatis/craftbook/internal/render"
)

// Config is the full craftbook configuration.
type Config struct {
	Render     RenderConfig
	Server     ServerConfig
	Dictionary DictionaryConfig
}

// RenderConfig mirrors render.Config with serializable fields.
type RenderConfig struct {
	And         string
	Or          string
	ValuePrefix string
	ValueSuffix string
	// MinShownValue hides thresholds below it; 0 shows every value.
	MinShownValue uint32
	TopLevelSep   string
	Brackets      bool
}

// ServerConfig holds configuration for the gRPC logic service.
type ServerConfig struct {
	Host           string
	Port           int
	MetricsPort    int
	RequestTimeout time.Duration

	// MaxExpressionLen bounds request expressions in bytes.
	MaxExpressionLen int
}

// DictionaryConfig locates the identifier dictionary.
// DBURL takes precedence over LSTDir when both are set.
type DictionaryConfig struct {
	DBURL  string
	LSTDir string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			And:         " and ",
			Or:          " or ",
			ValuePrefix: ": ",
			Brackets:    true,
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             50061,
			MetricsPort:      9161,
			RequestTimeout:   10 * time.Second,
			MaxExpressionLen: 4096,
		},
	}
}

// Build converts the settings into a render.Config.
func (c RenderConfig) Build() render.Config {
	cfg := render.New(c.And, c.Or).
		WithValuePrefix(c.ValuePrefix).
		WithValueSuffix(c.ValueSuffix).
		SeparateTopLevel(c.TopLevelSep)
	if c.MinShownValue > 0 {
		cfg = cfg.ShowValueIf(render.AtLeast(c.MinShownValue))
	}
	if !c.Brackets {
		cfg = cfg.NoBrackets()
	}
	return cfg
}

// Addr returns the gRPC listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MetricsAddr returns the metrics listen address, or "" when metrics are disabled.
func (c ServerConfig) MetricsAddr() string {
	if c.MetricsPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Host, c.MetricsPort)
}

// Validate checks port ranges, a positive timeout and non-empty connectives.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("server.metrics_port must be between 0 and 65535, got %d", c.Server.MetricsPort)
	}
	if c.Server.MetricsPort != 0 && c.Server.MetricsPort == c.Server.Port {
		return fmt.Errorf("server.metrics_port must differ from server.port (%d)", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %v", c.Server.RequestTimeout)
	}
	if c.Server.MaxExpressionLen <= 0 {
		return fmt.Errorf("server.max_expression_len must be positive, got %d", c.Server.MaxExpressionLen)
	}
	if c.Render.And == "" || c.Render.Or == "" {
		return fmt.Errorf("render.and and render.or must not be empty")
	}
	return nil
}

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CB_SERVER_PORT.
const EnvPrefix = "CB"

// Load reads configuration from configPath (optional), the environment and defaults.
// Environment overrides the file; the file overrides defaults.
func Load(configPath string) (*Config, error) {
	return LoadWith(viper.New(), configPath)
}

// LoadWith is Load on a caller-supplied viper instance, so commands can
// bind flags onto it before loading.
func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	def := Default()
	v.SetDefault("render.and", def.Render.And)
	v.SetDefault("render.or", def.Render.Or)
	v.SetDefault("render.value_prefix", def.Render.ValuePrefix)
	v.SetDefault("render.value_suffix", def.Render.ValueSuffix)
	v.SetDefault("render.min_shown_value", def.Render.MinShownValue)
	v.SetDefault("render.top_level_sep", def.Render.TopLevelSep)
	v.SetDefault("render.brackets", def.Render.Brackets)
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.metrics_port", def.Server.MetricsPort)
	v.SetDefault("server.request_timeout", def.Server.RequestTimeout.String())
	v.SetDefault("server.max_expression_len", def.Server.MaxExpressionLen)
	v.SetDefault("dictionary.db_url", "")
	v.SetDefault("dictionary.lst_dir", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := validateNoPasswordInFile(configPath); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Render: RenderConfig{
			And:           v.GetString("render.and"),
			Or:            v.GetString("render.or"),
			ValuePrefix:   v.GetString("render.value_prefix"),
			ValueSuffix:   v.GetString("render.value_suffix"),
			MinShownValue: v.GetUint32("render.min_shown_value"),
			TopLevelSep:   v.GetString("render.top_level_sep"),
			Brackets:      v.GetBool("render.brackets"),
		},
		Server: ServerConfig{
			Host:             v.GetString("server.host"),
			Port:             v.GetInt("server.port"),
			MetricsPort:      v.GetInt("server.metrics_port"),
			RequestTimeout:   v.GetDuration("server.request_timeout"),
			MaxExpressionLen: v.GetInt("server.max_expression_len"),
		},
		Dictionary: DictionaryConfig{
			DBURL:  v.GetString("dictionary.db_url"),
			LSTDir: v.GetString("dictionary.lst_dir"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateNoPasswordInFile keeps database credentials out of config files.
// A password is only accepted through CB_DICTIONARY_DB_URL or --db-url.
func validateNoPasswordInFile(configPath string) error {
	file := viper.New()
	file.SetConfigFile(configPath)
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	// sqlite URLs such as sqlite://:memory: need not parse; they carry no credentials.
	u, err := url.Parse(file.GetString("dictionary.db_url"))
	if err != nil {
		return nil
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		return fmt.Errorf("database passwords not allowed in config files (use %s_DICTIONARY_DB_URL environment variable)", EnvPrefix)
	}
	return nil
}

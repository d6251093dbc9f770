package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/solatis/craftbook/internal/core/config"
	"github.com/solatis/craftbook/internal/core/logging"
)

const Version = "0.1.0"

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:          "craftbook",
	Short:        "Crafting recipe requirement tools",
	Long:         `craftbook parses crafting recipe files and renders their requirement expressions in canonical form.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logLevel, logFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "dictionary database URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads configuration with --db-url and any extra flags of cmd
// bound over the environment and config file.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	v := viper.New()
	if err := v.BindPFlag("dictionary.db_url", rootCmd.PersistentFlags().Lookup("db-url")); err != nil {
		return nil, err
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadWith(v, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

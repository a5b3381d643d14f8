package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the fitlint configuration
type Config struct {
	ImageTree string       `mapstructure:"image_tree"`
	Metadata  string       `mapstructure:"metadata"`
	Dtc       DtcConfig    `mapstructure:"dtc"`
	Output    OutputConfig `mapstructure:"output"`
}

// DtcConfig represents syntax oracle configuration
type DtcConfig struct {
	Binary string `mapstructure:"binary"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	JSON    bool `mapstructure:"json"`
	NoColor bool `mapstructure:"no_color"`
}

// Load loads the configuration from fitlint.yml or fitlint.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("image_tree", "qcom-fitimage.its")
	v.SetDefault("metadata", "qcom-metadata.dts")
	v.SetDefault("dtc.binary", "dtc")
	v.SetDefault("output.json", false)
	v.SetDefault("output.no_color", false)

	// Set config name and paths
	v.SetConfigName("fitlint")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.ImageTree == "" {
		return fmt.Errorf("image_tree must not be empty")
	}
	if cfg.Metadata == "" {
		return fmt.Errorf("metadata must not be empty")
	}
	return nil
}

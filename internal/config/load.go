package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over values from the
// config file; both override the built-in defaults.
//
// Environment variables use the MNEMO_ prefix with underscores for nesting,
// e.g. MNEMO_DATABASE_URL, MNEMO_SERVER_LOG_LEVEL.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults keep the engine usable with only MNEMO_DATABASE_URL set.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	// Registered empty so AutomaticEnv can see the key; validation rejects
	// the empty value when the variable is not set.
	v.SetDefault("database.url", "")
	v.SetDefault("study.new_card_limit", 10)
	v.SetDefault("study.review_card_limit", 50)
	v.SetDefault("study.xp_per_card", 10)
	v.SetDefault("study.mastery_threshold_days", 21)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MNEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Study    StudyConfig    `mapstructure:"study"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// StudyConfig contains the study engine policy knobs.
type StudyConfig struct {
	// NewCardLimit bounds the queue length of a learn session.
	NewCardLimit int `mapstructure:"new_card_limit" validate:"required,gt=0,lte=200"`

	// ReviewCardLimit bounds the queue length of a review session.
	ReviewCardLimit int `mapstructure:"review_card_limit" validate:"required,gt=0,lte=500"`

	// XPPerCard is the XP earned per rated card.
	XPPerCard int `mapstructure:"xp_per_card" validate:"required,gt=0"`

	// MasteryThresholdDays is the review interval at which a card
	// graduates to mastered.
	MasteryThresholdDays int `mapstructure:"mastery_threshold_days" validate:"required,gt=0"`
}

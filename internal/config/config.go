package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth"    validate:"required"`
	Review  ReviewConfig  `mapstructure:"review"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend       string `mapstructure:"backend"         validate:"required,oneof=memory sqlite postgres"`
	SQLitePath    string `mapstructure:"sqlite_path"     validate:"required_if=Backend sqlite"`
	PostgresURL   string `mapstructure:"postgres_url"    validate:"required_if=Backend postgres"`
	SaveTimeoutMs int    `mapstructure:"save_timeout_ms" validate:"required,gt=0"`
}

// AuthConfig contains all authentication settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// ReviewConfig contains review and session defaults.
type ReviewConfig struct {
	HistorySize               int `mapstructure:"history_size"                 validate:"required,gt=0"`
	DefaultTargetCards        int `mapstructure:"default_target_cards"         validate:"required,gt=0"`
	DefaultMaxDurationMinutes int `mapstructure:"default_max_duration_minutes" validate:"required,gt=0"`
}

package util

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AllowedOrigins      []string      `mapstructure:"ALLOWED_ORIGINS"`
	HTTPServerAddress   string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	TokenSecretKey      string        `mapstructure:"TOKEN_SECRET_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	RedisServerAddress  string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	UpstreamAPIURL      string        `mapstructure:"UPSTREAM_API_URL"`
	UpstreamStreamURL   string        `mapstructure:"UPSTREAM_STREAM_URL"`
	UpstreamAPIKey      string        `mapstructure:"UPSTREAM_API_KEY"`
	PushWebhookURL      string        `mapstructure:"PUSH_WEBHOOK_URL"`
	HLSBaseDir          string        `mapstructure:"HLS_BASE_DIR"`
	NotificationPull    time.Duration `mapstructure:"NOTIFICATION_PULL_INTERVAL"`
	MaxNotifications    int           `mapstructure:"MAX_NOTIFICATIONS"`
	Debug               bool          `mapstructure:"DEBUG"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	// Set defaults for non-sensitive config
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("ACCESS_TOKEN_DURATION", "24h")
	viper.SetDefault("NOTIFICATION_PULL_INTERVAL", "1m")
	viper.SetDefault("MAX_NOTIFICATIONS", 1000)
	viper.SetDefault("HLS_BASE_DIR", "/tmp/birdboard/hls")
	viper.SetDefault("DEBUG", false)

	// Prefer environment variables over config file
	viper.AutomaticEnv()

	// Load config file
	viper.SetConfigFile(path)
	if err = viper.ReadInConfig(); err != nil {
		return
	}

	// Unmarshal config into struct
	err = viper.UnmarshalExact(&config)
	if err != nil {
		return
	}

	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.TokenSecretKey == "" {
		return fmt.Errorf("TOKEN_SECRET_KEY is required")
	}
	if config.RedisServerAddress == "" {
		return fmt.Errorf("REDIS_SERVER_ADDRESS is required")
	}
	if config.UpstreamAPIURL == "" {
		return fmt.Errorf("UPSTREAM_API_URL is required")
	}
	if config.UpstreamStreamURL == "" {
		return fmt.Errorf("UPSTREAM_STREAM_URL is required")
	}

	return nil
}

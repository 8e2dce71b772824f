// Package config loads runtime configuration from environment variables
// (TASKPING_ prefix) and an optional taskping.yaml file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr    string `mapstructure:"listen_addr"`
	DBPath        string `mapstructure:"db_path"`
	AllowedUserID string `mapstructure:"allowed_user_id"`
	ChannelToken  string `mapstructure:"channel_token"`
	APIBaseURL    string `mapstructure:"api_base_url"`
	RemindSecret  string `mapstructure:"remind_secret"`
	LogLevel      string `mapstructure:"log_level"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	// Every key needs a default so AutomaticEnv values survive Unmarshal.
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("db_path", "")
	v.SetDefault("allowed_user_id", "")
	v.SetDefault("channel_token", "")
	v.SetDefault("api_base_url", "https://api.line.me")
	v.SetDefault("remind_secret", "")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("TASKPING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("taskping")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		// The default config file is optional.
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

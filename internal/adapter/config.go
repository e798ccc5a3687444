package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Canvas  CanvasConfig  `mapstructure:"canvas"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CanvasConfig identifies the Canvas instance and credential.
type CanvasConfig struct {
	URL   string `mapstructure:"url"`   // e.g. https://school.instructure.com
	Token string `mapstructure:"token"` // static bearer token
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			URL:   "",
			Token: "",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS.
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "slate", "slate.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "slate", "slate.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS.
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "slate")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "slate")
	}
}

// defaultCachePath returns the default cache directory for the current OS.
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "slate", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "slate", "cache")
	}
}

// LoadConfig loads configuration from file and environment.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("SLATE")
	viper.AutomaticEnv()
	// Original deployment env names, kept working.
	viper.BindEnv("canvas.url", "SLATE_CANVAS_URL", "CANVAS_URL")
	viper.BindEnv("canvas.token", "SLATE_CANVAS_TOKEN", "CANVAS_API_TOKEN")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, env vars may still configure us.
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file.
func SaveConfig(cfg *Config) (string, error) {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("canvas.url", cfg.Canvas.URL)
	viper.Set("canvas.token", cfg.Canvas.Token)
	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.toml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}

// GenerateDefaultConfig writes a template config file for the user to edit
// and returns its path.
func GenerateDefaultConfig() (string, error) {
	cfg := DefaultConfig()
	cfg.Canvas.URL = "https://your-school.instructure.com"
	cfg.Canvas.Token = "your-api-token-here"
	return SaveConfig(cfg)
}

// IsConfigured returns true if the Canvas URL and token are set.
func (c *Config) IsConfigured() bool {
	return c.Canvas.URL != "" && c.Canvas.Token != ""
}

// GetCachePath returns the cache directory path.
func GetCachePath() string {
	return defaultCachePath()
}

// Package config loads credvault settings from defaults, an optional YAML
// file, an optional .env file and CREDVAULT_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix        = "CREDVAULT"
	defaultDBName    = "passwords.db"
	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
	defaultConfigDir = ".credvault"
)

// Config holds the resolved settings
type Config struct {
	DBPath    string `mapstructure:"db_path"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Passphrase is meant for scripting through CREDVAULT_PASSPHRASE.
	// When empty the CLI prompts for it.
	Passphrase string `mapstructure:"passphrase"`
}

// DefaultDBPath is passwords.db next to the running executable
func DefaultDBPath() string {
	exe, err := os.Executable()
	if err != nil {
		return defaultDBName
	}
	return filepath.Join(filepath.Dir(exe), defaultDBName)
}

// Load resolves the configuration. cfgFile, when set, must exist; otherwise
// config.yaml is looked up in ~/.credvault and the working directory.
func Load(cfgFile string) (*Config, error) {
	// .env never overrides variables already set in the environment
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_format", defaultLogFormat)
	v.SetDefault("passphrase", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, defaultConfigDir))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path must not be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}

	return nil
}

// Package config provides functionality for loading, saving, and managing
// application configuration settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the configuration settings for the application.
type Config struct {
	DatabaseDir  string `toml:"database_dir"`
	DatabaseFile string `toml:"database_file"`
	LogFolder    string `toml:"log_folder"`
	CommandLog   string `toml:"command_log"`
	ErrorLog     string `toml:"error_log"`
	InfoLog      string `toml:"info_log"`
	LogLevel     string `toml:"log_level"`
	HistoryFile  string `toml:"history_file"`
	BaseFolder   string `toml:"base_folder"`
	Color        bool   `toml:"color"`
	CacheSize    int    `toml:"cache_size"`
}

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "MINDMARK_"

// Global variables to store the current configuration and its file path.
var (
	currentConfig *Config
	configPath    = "./data/config.toml"
)

// Default returns the configuration written on first start.
func Default() *Config {
	return &Config{
		DatabaseDir:  "./data",
		DatabaseFile: "mindmark.db",
		LogFolder:    "./logs",
		CommandLog:   "commands.log",
		ErrorLog:     "errors.log",
		InfoLog:      "info.log",
		LogLevel:     "info",
		HistoryFile:  "./data/history",
		BaseFolder:   ".",
		Color:        true,
		CacheSize:    16,
	}
}

// SetPath changes the file used by ConfigLoad and ConfigSave.
func SetPath(path string) {
	configPath = path
}

// Path returns the file used by ConfigLoad and ConfigSave.
func Path() string {
	return configPath
}

// ConfigLoad loads the configuration from the TOML file.
// If the file doesn't exist, it creates a default configuration.
// A .env file in the working directory and MINDMARK_* variables override
// values from the file.
func ConfigLoad() error {
	cfg, err := Load(configPath)
	if err != nil {
		return err
	}
	currentConfig = cfg
	return nil
}

// Load reads the configuration at path, creating it with defaults when it
// does not exist, and applies environment overrides.
func Load(path string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigSave saves the provided configuration to the TOML file.
func ConfigSave(cfg *Config) error {
	return save(configPath, cfg)
}

func save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ConfigGet returns the current configuration.
func ConfigGet() *Config {
	return currentConfig
}

// DatabasePath joins the database folder and file name.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DatabaseDir, c.DatabaseFile)
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"DATABASE_DIR":  &cfg.DatabaseDir,
		"DATABASE_FILE": &cfg.DatabaseFile,
		"LOG_FOLDER":    &cfg.LogFolder,
		"LOG_LEVEL":     &cfg.LogLevel,
		"HISTORY_FILE":  &cfg.HistoryFile,
		"BASE_FOLDER":   &cfg.BaseFolder,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "COLOR"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sCOLOR: %w", EnvPrefix, err)
		}
		cfg.Color = b
	}
	if v, ok := os.LookupEnv(EnvPrefix + "CACHE_SIZE"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %sCACHE_SIZE %q", EnvPrefix, v)
		}
		cfg.CacheSize = n
	}
	return nil
}

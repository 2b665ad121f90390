// Package config manages application configuration from various sources.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/stack-auth/stack-quickstart/internal/provider"
)

// Data defines where logs are written.
type Data struct {
	Directory string `json:"directory,omitempty"`
}

// TUIConfig defines the configuration for the Terminal User Interface.
type TUIConfig struct {
	Theme       string `json:"theme,omitempty"`
	ShowLanding bool   `json:"showLanding"`
}

// ClipboardConfig controls how copies reach the system clipboard.
type ClipboardConfig struct {
	OSC52 bool `json:"osc52,omitempty"`
}

// Config is the main configuration structure for the application.
type Config struct {
	Data             Data            `json:"data"`
	WorkingDir       string          `json:"wd,omitempty"`
	Debug            bool            `json:"debug,omitempty"`
	CopiedTTL        time.Duration   `json:"copiedTTL,omitempty"`
	DefaultProviders []string        `json:"defaultProviders,omitempty"`
	TUI              TUIConfig       `json:"tui"`
	Clipboard        ClipboardConfig `json:"clipboard"`
}

const (
	defaultDataDirectory = ".stack-quickstart"
	defaultLogLevel      = "info"
	defaultTheme         = "stack"
	appName              = "stack-quickstart"

	DefaultCopiedTTL = 2 * time.Second
)

var (
	cfg *Config
	v   *viper.Viper
	mu  sync.RWMutex
)

// Load initializes the configuration from environment variables and config files.
// If debug is true, debug mode is enabled and log level is set to debug.
// It returns an error if configuration loading fails.
func Load(workingDir string, debug bool) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if cfg != nil {
		return cfg, nil
	}

	v = viper.New()
	configureViper(v)
	setDefaults(v, debug)

	if err := readConfig(v.ReadInConfig()); err != nil {
		return nil, err
	}
	mergeLocalConfig(v, workingDir)

	loaded := &Config{WorkingDir: workingDir}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	loaded.WorkingDir = workingDir
	for i, id := range loaded.DefaultProviders {
		loaded.DefaultProviders[i] = provider.Normalize(id)
	}

	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	defaultLevel := slog.LevelInfo
	if loaded.Debug {
		defaultLevel = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(defaultLevel)

	cfg = loaded
	return cfg, nil
}

// configureViper sets up viper's configuration paths and environment variables.
func configureViper(v *viper.Viper) {
	v.SetConfigName(fmt.Sprintf(".%s", appName))
	v.SetConfigType("json")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(fmt.Sprintf("$XDG_CONFIG_HOME/%s", appName))
	v.AddConfigPath(fmt.Sprintf("$HOME/.config/%s", appName))
	v.SetEnvPrefix(strings.ToUpper(strings.ReplaceAll(appName, "-", "_")))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults configures default values for configuration options.
func setDefaults(v *viper.Viper, debug bool) {
	v.SetDefault("data.directory", defaultDataDirectory)
	v.SetDefault("copiedTTL", DefaultCopiedTTL)
	v.SetDefault("defaultProviders", []string{})
	v.SetDefault("tui.theme", defaultTheme)
	v.SetDefault("tui.showLanding", true)
	v.SetDefault("clipboard.osc52", false)

	if debug {
		v.SetDefault("debug", true)
		v.Set("log.level", "debug")
	} else {
		v.SetDefault("debug", false)
		v.SetDefault("log.level", defaultLogLevel)
	}
}

// readConfig handles the result of reading a configuration file.
func readConfig(err error) error {
	if err == nil {
		return nil
	}

	// It's okay if the config file doesn't exist
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}

	return fmt.Errorf("failed to read config: %w", err)
}

// mergeLocalConfig loads and merges configuration from the local directory.
func mergeLocalConfig(v *viper.Viper, workingDir string) {
	local := viper.New()
	local.SetConfigName(fmt.Sprintf(".%s", appName))
	local.SetConfigType("json")
	local.AddConfigPath(workingDir)

	if err := local.ReadInConfig(); err == nil {
		if err := v.MergeConfigMap(local.AllSettings()); err != nil {
			slog.Warn("Failed to merge local config", "path", local.ConfigFileUsed(), "error", err)
		}
	}
}

// Validate rejects settings the rest of the program cannot honor.
func (c *Config) Validate() error {
	if c.CopiedTTL <= 0 {
		return fmt.Errorf("copiedTTL must be positive, got %s", c.CopiedTTL)
	}
	if err := provider.Validate(c.DefaultProviders); err != nil {
		return fmt.Errorf("defaultProviders: %w", err)
	}
	switch c.TUI.Theme {
	case "stack", "mono":
	default:
		return fmt.Errorf("unknown tui.theme %q (want stack or mono)", c.TUI.Theme)
	}
	return nil
}

// Get returns the current configuration, or nil before Load.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// LogDirectory resolves data.directory against the working directory.
func (c *Config) LogDirectory() string {
	if filepath.IsAbs(c.Data.Directory) {
		return c.Data.Directory
	}
	return filepath.Join(c.WorkingDir, c.Data.Directory)
}

// Reset drops the loaded configuration so Load reads again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cfg = nil
	v = nil
}

// fileConfig is the subset of Config persisted by updateCfgFile.
type fileConfig map[string]any

func updateCfgFile(update func(fc fileConfig)) error {
	mu.RLock()
	loaded := cfg != nil
	configFile := ""
	if v != nil {
		configFile = v.ConfigFileUsed()
	}
	mu.RUnlock()
	if !loaded {
		return fmt.Errorf("config not loaded")
	}

	configData := []byte(`{}`)
	if configFile == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		configFile = filepath.Join(homeDir, fmt.Sprintf(".%s.json", appName))
		slog.Info("config file not found, creating new one", "path", configFile)
	} else {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		configData = data
	}

	fc := fileConfig{}
	if err := json.Unmarshal(configData, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	update(fc)

	updatedData, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, updatedData, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// UpdateDefaultProviders stores ids as the preselection for future runs,
// both in memory and in the config file.
func UpdateDefaultProviders(ids []string) error {
	if err := provider.Validate(ids); err != nil {
		return err
	}
	stored := append([]string{}, ids...)

	if err := updateCfgFile(func(fc fileConfig) {
		fc["defaultProviders"] = stored
	}); err != nil {
		return err
	}

	mu.Lock()
	cfg.DefaultProviders = stored
	mu.Unlock()
	return nil
}

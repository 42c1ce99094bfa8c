// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/waygesture/internal/gesture"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Tracker  TrackerConfig  `mapstructure:"tracker"`
	Gestures GesturesConfig `mapstructure:"gestures"`
	Pad      PadConfig      `mapstructure:"pad"`
	Server   ServerConfig   `mapstructure:"server"`
	Web      WebConfig      `mapstructure:"web"`
	Sink     SinkConfig     `mapstructure:"sink"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// TrackerConfig tunes the pointer tracker
type TrackerConfig struct {
	DedupWindowMs int `mapstructure:"dedup_window_ms"` // Ignore starts of another kind this long after an end
}

// GesturesConfig holds the thresholds of the built-in gesture handlers
type GesturesConfig struct {
	Click    ClickConfig `mapstructure:"click"`
	Drag     DragConfig  `mapstructure:"drag"`
	Swipe    SwipeConfig `mapstructure:"swipe"`
	Disabled []string    `mapstructure:"disabled"` // Handler names not to register
}

type ClickConfig struct {
	MaxDistance float64 `mapstructure:"max_distance"`
}

type DragConfig struct {
	MinDistance float64 `mapstructure:"min_distance"`
}

type SwipeConfig struct {
	MinVelocity float64 `mapstructure:"min_velocity"` // Pixels per millisecond
	MinDistance float64 `mapstructure:"min_distance"`
}

// PadConfig maps terminal cells to page pixels
type PadConfig struct {
	CellWidth  float64 `mapstructure:"cell_width"`
	CellHeight float64 `mapstructure:"cell_height"`
}

// ServerConfig contains SSH server settings
type ServerConfig struct {
	Port          int      `mapstructure:"port"`
	BindAddress   string   `mapstructure:"bind_address"`
	HostKeyPath   string   `mapstructure:"host_key_path"`
	Whitelist     []string `mapstructure:"whitelist"`      // Allowed SSH key fingerprints
	WhitelistOnly bool     `mapstructure:"whitelist_only"` // Only allow whitelisted keys
	MaxSessions   int      `mapstructure:"max_sessions"`
}

// WebConfig contains websocket bridge settings
type WebConfig struct {
	Address string `mapstructure:"address"`
}

// SinkConfig controls click injection
type SinkConfig struct {
	Uinput     bool   `mapstructure:"uinput"`
	DeviceName string `mapstructure:"device_name"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Tracker: TrackerConfig{
			DedupWindowMs: 400,
		},
		Gestures: GesturesConfig{
			Click:    ClickConfig{MaxDistance: 6},
			Drag:     DragConfig{MinDistance: 6},
			Swipe:    SwipeConfig{MinVelocity: 0.65, MinDistance: 10},
			Disabled: []string{},
		},
		Pad: PadConfig{
			CellWidth:  8,
			CellHeight: 16,
		},
		Server: ServerConfig{
			Port:          2323,
			BindAddress:   "0.0.0.0",
			HostKeyPath:   defaultHostKeyPath(),
			Whitelist:     []string{},
			WhitelistOnly: false,
			MaxSessions:   8,
		},
		Web: WebConfig{
			Address: ":8088",
		},
		Sink: SinkConfig{
			Uinput:     false,
			DeviceName: "waygesture virtual mouse",
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("waygesture")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "waygesture"))
		}
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	// Set defaults - need to set individual fields for proper merging
	viper.SetDefault("tracker.dedup_window_ms", DefaultConfig.Tracker.DedupWindowMs)

	viper.SetDefault("gestures.click.max_distance", DefaultConfig.Gestures.Click.MaxDistance)
	viper.SetDefault("gestures.drag.min_distance", DefaultConfig.Gestures.Drag.MinDistance)
	viper.SetDefault("gestures.swipe.min_velocity", DefaultConfig.Gestures.Swipe.MinVelocity)
	viper.SetDefault("gestures.swipe.min_distance", DefaultConfig.Gestures.Swipe.MinDistance)
	viper.SetDefault("gestures.disabled", DefaultConfig.Gestures.Disabled)

	viper.SetDefault("pad.cell_width", DefaultConfig.Pad.CellWidth)
	viper.SetDefault("pad.cell_height", DefaultConfig.Pad.CellHeight)

	viper.SetDefault("server.port", DefaultConfig.Server.Port)
	viper.SetDefault("server.bind_address", DefaultConfig.Server.BindAddress)
	viper.SetDefault("server.host_key_path", DefaultConfig.Server.HostKeyPath)
	viper.SetDefault("server.whitelist", DefaultConfig.Server.Whitelist)
	viper.SetDefault("server.whitelist_only", DefaultConfig.Server.WhitelistOnly)
	viper.SetDefault("server.max_sessions", DefaultConfig.Server.MaxSessions)

	viper.SetDefault("web.address", DefaultConfig.Web.Address)

	viper.SetDefault("sink.uinput", DefaultConfig.Sink.Uinput)
	viper.SetDefault("sink.device_name", DefaultConfig.Sink.DeviceName)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path that does not exist yet is not an error either
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		c := DefaultConfig
		return &c
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "waygesture.toml"
	}

	return filepath.Join(home, ".config", "waygesture", "waygesture.toml")
}

// UpdateGestures replaces the gestures section and saves it
func UpdateGestures(g GesturesConfig) error {
	c := Get()
	c.Gestures = g
	cfg = c

	viper.Set("gestures.click.max_distance", g.Click.MaxDistance)
	viper.Set("gestures.drag.min_distance", g.Drag.MinDistance)
	viper.Set("gestures.swipe.min_velocity", g.Swipe.MinVelocity)
	viper.Set("gestures.swipe.min_distance", g.Swipe.MinDistance)
	viper.Set("gestures.disabled", g.Disabled)
	return Save()
}

// UpdateServer replaces the server section and saves it
func UpdateServer(srv ServerConfig) error {
	c := Get()
	c.Server = srv
	cfg = c

	viper.Set("server.port", srv.Port)
	viper.Set("server.bind_address", srv.BindAddress)
	viper.Set("server.host_key_path", srv.HostKeyPath)
	viper.Set("server.whitelist", srv.Whitelist)
	viper.Set("server.whitelist_only", srv.WhitelistOnly)
	viper.Set("server.max_sessions", srv.MaxSessions)
	return Save()
}

// AddToWhitelist adds an SSH key fingerprint to the whitelist and saves
func AddToWhitelist(fingerprint string) error {
	srv := Get().Server
	for _, fp := range srv.Whitelist {
		if fp == fingerprint {
			return fmt.Errorf("key already whitelisted: %s", fingerprint)
		}
	}
	srv.Whitelist = append(append([]string{}, srv.Whitelist...), fingerprint)
	return UpdateServer(srv)
}

// RemoveFromWhitelist removes an SSH key fingerprint and saves
func RemoveFromWhitelist(fingerprint string) error {
	srv := Get().Server
	kept := make([]string, 0, len(srv.Whitelist))
	for _, fp := range srv.Whitelist {
		if fp != fingerprint {
			kept = append(kept, fp)
		}
	}
	if len(kept) == len(srv.Whitelist) {
		return fmt.Errorf("key not in whitelist: %s", fingerprint)
	}
	srv.Whitelist = kept
	return UpdateServer(srv)
}

// DedupWindow returns the tracker window as a duration
func (c *Config) DedupWindow() time.Duration {
	if c.Tracker.DedupWindowMs < 0 {
		return 0
	}
	return time.Duration(c.Tracker.DedupWindowMs) * time.Millisecond
}

// GestureOptions converts the gestures section into handler overrides
func (c *Config) GestureOptions() map[string]gesture.Options {
	return map[string]gesture.Options{
		gesture.NameClick: {gesture.OptMaxDistance: c.Gestures.Click.MaxDistance},
		gesture.NameDrag:  {gesture.OptMinDistance: c.Gestures.Drag.MinDistance},
		gesture.NameSwipe: {
			gesture.OptMinVelocity: c.Gestures.Swipe.MinVelocity,
			gesture.OptMinDistance: c.Gestures.Swipe.MinDistance,
		},
	}
}

// Registry returns the default gesture registry without disabled handlers
func (c *Config) Registry() *gesture.Registry {
	reg := gesture.DefaultRegistry()
	for _, name := range c.Gestures.Disabled {
		reg.Remove(name)
	}
	return reg
}

// IsWhitelisted checks if an SSH key fingerprint is whitelisted
func (c *Config) IsWhitelisted(fingerprint string) bool {
	for _, fp := range c.Server.Whitelist {
		if fp == fingerprint {
			return true
		}
	}
	return false
}

func defaultHostKeyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "waygesture_host_key"
	}
	return filepath.Join(home, ".config", "waygesture", "host_key")
}

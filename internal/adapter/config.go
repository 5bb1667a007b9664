package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Routes  []RouteConfig `mapstructure:"routes"`
	Player  PlayerConfig  `mapstructure:"player"`
	Decoder DecoderConfig `mapstructure:"decoder"`
	UI      UIConfig      `mapstructure:"ui"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds the index server configuration
type ServerConfig struct {
	URL string `mapstructure:"url"` // Origin of the index, e.g. "https://drive.example.com"
}

// RouteConfig unlocks a protected folder
type RouteConfig struct {
	Path  string `mapstructure:"path"`  // Route prefix, e.g. "/private"
	Token string `mapstructure:"token"` // Hashed token sent as odpt
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command      string   `mapstructure:"command"`
	Args         []string `mapstructure:"args"`
	SubtitleFlag string   `mapstructure:"subtitle_flag"` // e.g., "--sub-file="
}

// DecoderConfig holds settings for decoder extensions
type DecoderConfig struct {
	FFmpeg string `mapstructure:"ffmpeg"` // ffmpeg binary used by the flv decoder
}

// UIConfig holds UI configuration
type UIConfig struct {
	Language string `mapstructure:"language"` // BCP 47 tag, e.g. "en", "de", "zh-CN"
}

// CacheConfig holds session storage configuration
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // Empty keeps session objects in memory
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "",
		},
		Player: PlayerConfig{
			Command: "",
			Args:    []string{},
		},
		Decoder: DecoderConfig{
			FFmpeg: "ffmpeg",
		},
		UI: UIConfig{
			Language: "en",
		},
		Cache: CacheConfig{
			Dir: "",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "vidpeek", "vidpeek.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "vidpeek", "vidpeek.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "vidpeek")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "vidpeek")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath())
}

func loadConfig(v *viper.Viper, configDir string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variable overrides, e.g. VIDPEEK_SERVER_URL
	v.SetEnvPrefix("VIDPEEK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"server.url", "player.command", "decoder.ffmpeg", "ui.language", "cache.dir", "logging.file", "logging.level"} {
		v.BindEnv(key)
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Server.URL = strings.TrimRight(cfg.Server.URL, "/")
	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), cfg, defaultConfigPath())
}

func saveConfig(v *viper.Viper, cfg *Config, configDir string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("server.url", cfg.Server.URL)

	routes := make([]map[string]string, 0, len(cfg.Routes))
	for _, r := range cfg.Routes {
		routes = append(routes, map[string]string{"path": r.Path, "token": r.Token})
	}
	v.Set("routes", routes)

	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)
	v.Set("player.subtitle_flag", cfg.Player.SubtitleFlag)

	v.Set("decoder.ffmpeg", cfg.Decoder.FFmpeg)
	v.Set("ui.language", cfg.UI.Language)
	v.Set("cache.dir", cfg.Cache.Dir)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configDir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the server URL is set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}

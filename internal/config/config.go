package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in the home directory.
	FileName = ".trustcare-cli"

	EnvPrefix = "TRUSTCARE"

	defaultServerURL = "http://localhost:8080"
	defaultTimeout   = 30 * time.Second
	defaultCacheTTL  = 5 * time.Minute
	defaultCacheSize = 256
)

// Config represents the application configuration. The bearer token is never
// part of it: sessions live only in process memory.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Format FormatConfig `yaml:"format" mapstructure:"format"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
}

// ServerConfig contains backend connection settings
type ServerConfig struct {
	URL     string `yaml:"url" mapstructure:"url"`
	Timeout string `yaml:"timeout" mapstructure:"timeout"`
}

// FormatConfig contains output formatting settings
type FormatConfig struct {
	Default string `yaml:"default" mapstructure:"default"`
	Colors  bool   `yaml:"colors" mapstructure:"colors"`
}

// LogConfig contains diagnostic logging settings
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// CacheConfig bounds the query cache
type CacheConfig struct {
	TTL  string `yaml:"ttl" mapstructure:"ttl"`
	Size int    `yaml:"size" mapstructure:"size"`
}

var (
	globalConfig *Config
	debug        bool
	outputFormat string
	serverURL    string
)

// Initialize loads the configuration from file and the environment
func Initialize(configFile string) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(FileName)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createDefaultConfig(); err != nil {
				return fmt.Errorf("could not create default config: %w", err)
			}
		} else {
			return fmt.Errorf("could not read config file: %w", err)
		}
	}

	globalConfig = &Config{}
	if err := viper.Unmarshal(globalConfig); err != nil {
		return fmt.Errorf("could not unmarshal config: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.url", defaultServerURL)
	viper.SetDefault("server.timeout", defaultTimeout.String())
	viper.SetDefault("format.default", "table")
	viper.SetDefault("format.colors", true)
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("cache.ttl", defaultCacheTTL.String())
	viper.SetDefault("cache.size", defaultCacheSize)
}

// Default returns the configuration written on first run
func Default() Config {
	return Config{
		Server: ServerConfig{URL: defaultServerURL, Timeout: defaultTimeout.String()},
		Format: FormatConfig{Default: "table", Colors: true},
		Log:    LogConfig{Level: "warn"},
		Cache:  CacheConfig{TTL: defaultCacheTTL.String(), Size: defaultCacheSize},
	}
}

// createDefaultConfig creates a default configuration file
func createDefaultConfig() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return Write(path, Default())
}

// Path is the default config file location
func Path() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName+".yaml"), nil
}

// Write stores cfg as YAML readable only by the owner
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg := Default()
		globalConfig = &cfg
	}
	return globalConfig
}

// SetDebug sets the debug mode
func SetDebug(enabled bool) {
	debug = enabled
}

// IsDebug returns whether debug mode is enabled
func IsDebug() bool {
	return debug
}

// SetOutputFormat sets the output format
func SetOutputFormat(format string) {
	outputFormat = format
}

// GetOutputFormat returns the current output format
func GetOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	if f := Get().Format.Default; f != "" {
		return f
	}
	return "table"
}

// SetServerURL overrides the configured backend URL
func SetServerURL(url string) {
	serverURL = url
}

// ServerURL returns the backend base URL
func ServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	if u := Get().Server.URL; u != "" {
		return u
	}
	return defaultServerURL
}

// ServerTimeout parses server.timeout, falling back to the default
func ServerTimeout() time.Duration {
	return parseDuration(Get().Server.Timeout, defaultTimeout)
}

// CacheTTL parses cache.ttl, falling back to the default
func CacheTTL() time.Duration {
	return parseDuration(Get().Cache.TTL, defaultCacheTTL)
}

// LogLevel returns the configured level, forced to debug by --debug
func LogLevel() string {
	if debug {
		return "debug"
	}
	return Get().Log.Level
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. VIDFETCH_DOWNLOAD_DEFAULT_DIR
const EnvPrefix = "VIDFETCH"

// Config represents the entire application configuration
type Config struct {
	Download DownloadConfig `mapstructure:"download"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	History  HistoryConfig  `mapstructure:"history"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DownloadConfig contains transfer settings
type DownloadConfig struct {
	DefaultDir       string `mapstructure:"default_dir"`
	FallbackFilename string `mapstructure:"fallback_filename"`
	ChunkSize        int    `mapstructure:"chunk_size"`
	ProgressInterval string `mapstructure:"progress_interval"`
}

// HTTPConfig contains HTTP client timeouts
type HTTPConfig struct {
	DialTimeout           string `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout   string `mapstructure:"tls_handshake_timeout"`
	ResponseHeaderTimeout string `mapstructure:"response_header_timeout"`
	IdleConnTimeout       string `mapstructure:"idle_conn_timeout"`
	Timeout               string `mapstructure:"timeout"` // 0 disables the overall deadline
}

// HistoryConfig contains download history settings
type HistoryConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	MaxAge    string `mapstructure:"max_age"`
	ListLimit int    `mapstructure:"list_limit"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from configPath, the environment and defaults.
// An empty configPath skips the file.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("download.default_dir", DefaultDownloadDir())
	v.SetDefault("download.fallback_filename", "downloaded_video.mp4")
	v.SetDefault("download.chunk_size", 81920)
	v.SetDefault("download.progress_interval", "200ms")
	v.SetDefault("http.dial_timeout", "30s")
	v.SetDefault("http.tls_handshake_timeout", "10s")
	v.SetDefault("http.response_header_timeout", "30s")
	v.SetDefault("http.idle_conn_timeout", "90s")
	v.SetDefault("http.timeout", "0s")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", DefaultHistoryPath())
	v.SetDefault("history.max_age", "720h")
	v.SetDefault("history.list_limit", 20)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// DefaultDownloadDir returns ~/Videos, else ~/Downloads, else the working directory
func DefaultDownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range []string{"Videos", "Downloads"} {
			dir := filepath.Join(home, name)
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				return dir
			}
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// DefaultHistoryPath returns <user config dir>/vidfetch/history.db
func DefaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "vidfetch", "history.db")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate download config
	if c.Download.DefaultDir == "" {
		return fmt.Errorf("download.default_dir is required")
	}
	if c.Download.ChunkSize < 1024 || c.Download.ChunkSize > 16*1024*1024 {
		return fmt.Errorf("download.chunk_size must be between 1024 and 16777216")
	}
	if d, err := time.ParseDuration(c.Download.ProgressInterval); err != nil {
		return fmt.Errorf("invalid download.progress_interval: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("download.progress_interval must be positive")
	}

	// Validate HTTP timeouts
	timeouts := map[string]string{
		"http.dial_timeout":            c.HTTP.DialTimeout,
		"http.tls_handshake_timeout":   c.HTTP.TLSHandshakeTimeout,
		"http.response_header_timeout": c.HTTP.ResponseHeaderTimeout,
		"http.idle_conn_timeout":       c.HTTP.IdleConnTimeout,
		"http.timeout":                 c.HTTP.Timeout,
	}
	for key, value := range timeouts {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}

	// Validate history config
	if c.History.Enabled {
		if c.History.Path == "" {
			return fmt.Errorf("history.path is required when history is enabled")
		}
		if _, err := time.ParseDuration(c.History.MaxAge); err != nil {
			return fmt.Errorf("invalid history.max_age: %w", err)
		}
		if c.History.ListLimit <= 0 {
			return fmt.Errorf("history.list_limit must be positive")
		}
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetProgressInterval returns the progress interval as time.Duration
func (c *DownloadConfig) GetProgressInterval() time.Duration {
	d, _ := time.ParseDuration(c.ProgressInterval)
	if d <= 0 {
		return 200 * time.Millisecond
	}
	return d
}

// GetDialTimeout returns the dial timeout as time.Duration
func (c *HTTPConfig) GetDialTimeout() time.Duration {
	return durationOr(c.DialTimeout, 30*time.Second)
}

// GetTLSHandshakeTimeout returns the TLS handshake timeout as time.Duration
func (c *HTTPConfig) GetTLSHandshakeTimeout() time.Duration {
	return durationOr(c.TLSHandshakeTimeout, 10*time.Second)
}

// GetResponseHeaderTimeout returns the response header timeout as time.Duration
func (c *HTTPConfig) GetResponseHeaderTimeout() time.Duration {
	return durationOr(c.ResponseHeaderTimeout, 30*time.Second)
}

// GetIdleConnTimeout returns the idle connection timeout as time.Duration
func (c *HTTPConfig) GetIdleConnTimeout() time.Duration {
	return durationOr(c.IdleConnTimeout, 90*time.Second)
}

// GetTimeout returns the overall request timeout; zero means none
func (c *HTTPConfig) GetTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// GetMaxAge returns the history retention as time.Duration
func (c *HistoryConfig) GetMaxAge() time.Duration {
	d, _ := time.ParseDuration(c.MaxAge)
	return d
}

func durationOr(value string, fallback time.Duration) time.Duration {
	d, _ := time.ParseDuration(value)
	if d == 0 {
		return fallback
	}
	return d
}

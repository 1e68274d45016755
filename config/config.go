package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/pelletier/go-toml"
)

const (
	DefaultListenAddress = "0.0.0.0:8545"
	DefaultAPIURL        = "https://v6.exchangerate-api.com/v6"
	DefaultDBPath        = "currency_conversions.db"

	DefaultCacheTTLSeconds    = 600
	DefaultHistoryDays        = 5
	DefaultHTTPTimeoutSeconds = 30
)

var (
	ErrInvalidListenAddress = errors.New("invalid listen address")
	ErrInvalidAPIURL        = errors.New("invalid API URL")
	ErrInvalidDBPath        = errors.New("invalid database path")
	ErrInvalidCacheTTL      = errors.New("cache TTL must be positive")
	ErrInvalidHistoryDays   = errors.New("history days must be positive")
	ErrInvalidHTTPTimeout   = errors.New("HTTP timeout must be positive")
)

var listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// Config defines the currconv configuration
type Config struct {
	// The associated CORS config for the read API, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The base URL of the exchangerate-api v6 service
	APIURL string `toml:"api_url"`

	// The path of the SQLite database file holding conversions
	DBPath string `toml:"db_path"`

	// The address at which the read API will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`

	// How long a fetched live rate stays fresh
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`

	// How many past days of rates are shown after a conversion
	HistoryDays int `toml:"history_days"`

	// The timeout of a single provider request
	HTTPTimeoutSeconds int `toml:"http_timeout_seconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		APIURL:             DefaultAPIURL,
		DBPath:             DefaultDBPath,
		ListenAddress:      DefaultListenAddress,
		CacheTTLSeconds:    DefaultCacheTTLSeconds,
		HistoryDays:        DefaultHistoryDays,
		HTTPTimeoutSeconds: DefaultHTTPTimeoutSeconds,
		CORSConfig:         DefaultCORSConfig(),
	}
}

// CacheTTL returns the live rate freshness window
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// HTTPTimeout returns the provider request timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	return ValidateClientConfig(config)
}

// ValidateClientConfig validates the fields used by the converter
// and the provider client, leaving out the read API settings
func ValidateClientConfig(config *Config) error {
	// Validate the provider URL
	u, err := url.Parse(config.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidAPIURL
	}

	if config.DBPath == "" {
		return ErrInvalidDBPath
	}

	if config.CacheTTLSeconds <= 0 {
		return ErrInvalidCacheTTL
	}

	if config.HistoryDays <= 0 {
		return ErrInvalidHistoryDays
	}

	if config.HTTPTimeoutSeconds <= 0 {
		return ErrInvalidHTTPTimeout
	}

	return nil
}

// Read reads the configuration from the given path.
// Fields missing from the file keep their default values
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	// Parse it
	var fileCfg Config

	if err := toml.Unmarshal(content, &fileCfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	return mergeDefaults(&fileCfg), nil
}

// mergeDefaults fills the unset fields of cfg with the default values
func mergeDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.APIURL == "" {
		cfg.APIURL = defaults.APIURL
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaults.DBPath
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = defaults.ListenAddress
	}

	if cfg.CacheTTLSeconds == 0 {
		cfg.CacheTTLSeconds = defaults.CacheTTLSeconds
	}

	if cfg.HistoryDays == 0 {
		cfg.HistoryDays = defaults.HistoryDays
	}

	if cfg.HTTPTimeoutSeconds == 0 {
		cfg.HTTPTimeoutSeconds = defaults.HTTPTimeoutSeconds
	}

	if cfg.CORSConfig == nil {
		cfg.CORSConfig = defaults.CORSConfig
	}

	return cfg
}

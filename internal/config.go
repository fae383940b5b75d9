package internal

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Host            string
	Port            int
	UpstreamTimeout int // seconds, applied to every outbound Terabox call
	ProxyURL        string

	// Logging configuration
	LogLevel    string
	EnableDebug bool
	QuietMode   bool
	LogFile     string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            5000,
		UpstreamTimeout: 30,

		// Logging defaults
		LogLevel:    "info",
		EnableDebug: false,
		QuietMode:   false,
		LogFile:     "", // Empty means stderr
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if host := os.Getenv("TERALINK_HOST"); host != "" {
		c.Host = host
	}

	if port := os.Getenv("TERALINK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p <= 65535 {
			c.Port = p
		}
	}

	if timeout := os.Getenv("TERALINK_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			c.UpstreamTimeout = t
		}
	}

	if proxy := os.Getenv("TERALINK_PROXY"); proxy != "" {
		c.ProxyURL = proxy
	}

	// Load logging configuration from environment
	if logLevel := os.Getenv("TERALINK_LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}

	if debug := os.Getenv("TERALINK_DEBUG"); debug != "" {
		c.EnableDebug = debug == "true" || debug == "1"
	}

	if quiet := os.Getenv("TERALINK_QUIET"); quiet != "" {
		c.QuietMode = quiet == "true" || quiet == "1"
	}

	if logFile := os.Getenv("TERALINK_LOG_FILE"); logFile != "" {
		c.LogFile = logFile
	}
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ValidateConfig validates the configuration values
func (c *Config) ValidateConfig() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}

	if c.UpstreamTimeout < 1 {
		return fmt.Errorf("invalid upstream timeout: %d (must be > 0)", c.UpstreamTimeout)
	}

	if c.ProxyURL != "" {
		parsed, err := url.Parse(c.ProxyURL)
		if err != nil {
			return fmt.Errorf("invalid proxy URL: %v", err)
		}
		switch parsed.Scheme {
		case "http", "https", "socks5":
		default:
			return fmt.Errorf("unsupported proxy scheme: %s (use http, https, or socks5)", parsed.Scheme)
		}
	}

	return nil
}

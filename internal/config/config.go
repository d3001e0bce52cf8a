package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys read from the environment (and from .env during local development).
const (
	KeyPort               = "PORT"
	KeyTemplatesFile      = "TEMPLATES_FILE"
	KeyPageTTL            = "PAGE_TTL"
	KeyMaxPages           = "MAX_PAGES"
	KeyCleanupInterval    = "CLEANUP_INTERVAL"
	KeyRateLimitPerMinute = "RATE_LIMIT_PER_MINUTE"
	KeyLogLevel           = "LOG_LEVEL"
	KeyLogFormat          = "LOG_FORMAT"
	KeyShutdownTimeout    = "SHUTDOWN_TIMEOUT"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Template catalog; empty means the built-in templates
	TemplatesFile string

	// Pages
	PageTTL         time.Duration
	MaxPages        int
	CleanupInterval time.Duration

	// Rate limiting of form actions
	RateLimitPerMinute int

	// Logging
	LogLevel  string
	LogFormat string
}

// Defaults registers default values on v.
func Defaults(v *viper.Viper) {
	v.SetDefault(KeyPort, "8081")
	v.SetDefault(KeyShutdownTimeout, "30s")
	v.SetDefault(KeyTemplatesFile, "")
	v.SetDefault(KeyPageTTL, "30m")
	v.SetDefault(KeyMaxPages, 1000)
	v.SetDefault(KeyCleanupInterval, "5m")
	v.SetDefault(KeyRateLimitPerMinute, 120)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// New returns a viper instance bound to the environment with defaults set.
func New() *viper.Viper {
	v := viper.New()
	Defaults(v)
	v.AutomaticEnv()
	return v
}

// Load reads the configuration from the environment.
func Load() *Config {
	return FromViper(New())
}

// FromViper builds a Config from v. Malformed numbers and durations fall back
// to their defaults, the same way unset keys do.
func FromViper(v *viper.Viper) *Config {
	d := viper.New()
	Defaults(d)

	return &Config{
		Port:               strings.TrimSpace(v.GetString(KeyPort)),
		ShutdownTimeout:    getDuration(v, d, KeyShutdownTimeout),
		TemplatesFile:      strings.TrimSpace(v.GetString(KeyTemplatesFile)),
		PageTTL:            getDuration(v, d, KeyPageTTL),
		MaxPages:           getInt(v, d, KeyMaxPages),
		CleanupInterval:    getDuration(v, d, KeyCleanupInterval),
		RateLimitPerMinute: getInt(v, d, KeyRateLimitPerMinute),
		LogLevel:           strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:          strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.TemplatesFile != "" {
		if info, err := os.Stat(c.TemplatesFile); err != nil {
			errors = append(errors, fmt.Sprintf("templates file '%s' is not readable: %v", c.TemplatesFile, err))
		} else if info.IsDir() {
			errors = append(errors, fmt.Sprintf("templates file '%s' is a directory", c.TemplatesFile))
		}
	}

	if c.PageTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid page TTL %v: must be at least 1 minute", c.PageTTL))
	} else if c.PageTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid page TTL %v: must be at most 24 hours", c.PageTTL))
	}

	if c.MaxPages < 1 {
		errors = append(errors, fmt.Sprintf("invalid max pages %d: must be at least 1", c.MaxPages))
	} else if c.MaxPages > 100000 {
		errors = append(errors, fmt.Sprintf("invalid max pages %d: must be at most 100000", c.MaxPages))
	}

	if c.CleanupInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cleanup interval %v: must be at least 1 second", c.CleanupInterval))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	validFormats := []string{"text", "json"}
	if !contains(validFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func getInt(v, defaults *viper.Viper, key string) int {
	if i, err := strconv.Atoi(strings.TrimSpace(v.GetString(key))); err == nil {
		return i
	}
	return defaults.GetInt(key)
}

func getDuration(v, defaults *viper.Viper, key string) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key))); err == nil {
		return d
	}
	return defaults.GetDuration(key)
}

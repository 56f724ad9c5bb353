package config

import (
	"net/url"
)

// Environment variables read by the entrypoint
const (
	// EnvHost is the address the proxy binds to
	EnvHost = "M3U_PROXY_HOST"

	// EnvPort is the port the proxy listens on
	EnvPort = "M3U_PROXY_PORT"

	// EnvConfig is the path to the proxy's TOML configuration file
	EnvConfig = "M3U_PROXY_CONFIG"

	// EnvLogLevel is the proxy's log level, also used by the entrypoint itself
	EnvLogLevel = "M3U_PROXY_LOG_LEVEL"

	// EnvDatabaseURL is the datastore connection string
	EnvDatabaseURL = "M3U_PROXY_DATABASE_URL"

	// EnvBinary overrides the executable the entrypoint hands off to
	EnvBinary = "M3U_PROXY_BINARY"

	// EnvDeviceDir overrides the directory inspected for GPU device nodes
	EnvDeviceDir = "M3U_PROXY_DEVICE_DIR"
)

// Setting is a single value forwarded to the proxy as a command-line flag
type Setting struct {
	// LongFlag is the double-dash form, e.g. "--port"
	LongFlag string

	// ShortFlag is the single-dash form, e.g. "-p"
	ShortFlag string

	// Value is the resolved value for the flag
	Value string
}

// Config represents the entrypoint configuration, read once at startup
type Config struct {
	// Host is the bind address
	Host string `json:"host"`

	// Port is the bind port
	Port string `json:"port"`

	// ConfigPath is the proxy configuration file
	ConfigPath string `json:"configPath"`

	// LogLevel is the proxy log level
	LogLevel string `json:"logLevel"`

	// DatabaseURL is the datastore connection string
	DatabaseURL string `json:"databaseUrl"`

	// Binary is the executable that replaces the entrypoint process
	Binary string `json:"binary"`

	// DeviceDir is where GPU render and card nodes are expected
	DeviceDir string `json:"deviceDir"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:        "0.0.0.0",
		Port:        "8080",
		ConfigPath:  "/app/config/config.toml",
		LogLevel:    "info",
		DatabaseURL: "sqlite:///app/data/m3u-proxy.db",
		Binary:      "m3u-proxy",
		DeviceDir:   "/dev/dri",
	}
}

// FromEnv returns the default configuration overlaid with values from getenv.
// Empty values are treated as unset.
func FromEnv(getenv func(key string) string) *Config {
	cfg := DefaultConfig()
	overlay := []struct {
		key string
		dst *string
	}{
		{EnvHost, &cfg.Host},
		{EnvPort, &cfg.Port},
		{EnvConfig, &cfg.ConfigPath},
		{EnvLogLevel, &cfg.LogLevel},
		{EnvDatabaseURL, &cfg.DatabaseURL},
		{EnvBinary, &cfg.Binary},
		{EnvDeviceDir, &cfg.DeviceDir},
	}
	for _, o := range overlay {
		if v := getenv(o.key); v != "" {
			*o.dst = v
		}
	}
	return cfg
}

// Settings returns the values forwarded to the proxy, in flag order
func (c *Config) Settings() []Setting {
	return []Setting{
		{LongFlag: "--host", ShortFlag: "-H", Value: c.Host},
		{LongFlag: "--port", ShortFlag: "-p", Value: c.Port},
		{LongFlag: "--config", ShortFlag: "-c", Value: c.ConfigPath},
		{LongFlag: "--log-level", ShortFlag: "-l", Value: c.LogLevel},
		{LongFlag: "--database-url", ShortFlag: "-d", Value: c.DatabaseURL},
	}
}

// RedactURL hides the password in a connection string so it can be logged.
// Values that do not parse as a URL are hidden entirely.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	return u.Redacted()
}

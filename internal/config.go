package internal

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Transport modes for the MCP server.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Protocols accepted for the vault API origin.
const (
	ProtocolHTTP  = "http"
	ProtocolHTTPS = "https"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Obsidian ObsidianConfig    `yaml:"obsidian"`
	MCP      MCPConfig         `yaml:"mcp"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Obsidian.Validate(); err != nil {
		return err
	}
	return c.MCP.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return nil
}

// ObsidianConfig describes how to reach the Obsidian Local REST API plugin.
//
// The plugin listens on a fixed local origin (by default HTTPS on port
// 27124 with a self-signed certificate, hence InsecureSkipVerify) and
// authenticates every request with a Bearer API key.
type ObsidianConfig struct {
	Protocol           string `yaml:"protocol"`
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	APIKey             string `yaml:"api_key"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	TimeoutSeconds     int    `yaml:"timeout_seconds"`
}

// BaseURL returns the origin of the vault API.
func (c *ObsidianConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}

// Timeout returns the request timeout for vault API calls.
func (c *ObsidianConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the vault API configuration. An empty API key is a
// startup error: every request requires it, so refusing early beats
// failing on the first tool call.
func (c *ObsidianConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Protocol, validation.Required, validation.In(ProtocolHTTP, ProtocolHTTPS)),
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.APIKey, validation.Required.Error("api_key is required; set OBSIDIAN_API_KEY")),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
	)
}

// MCPConfig holds the MCP transport configuration. Host and Port only
// apply to the sse transport.
type MCPConfig struct {
	Transport string `yaml:"transport"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
}

// Address returns the listen address for the sse transport.
func (c *MCPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the MCP transport configuration.
func (c *MCPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Transport, validation.Required, validation.In(TransportStdio, TransportSSE)),
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values. The
// API key is seeded from OBSIDIAN_API_KEY so a config file is only needed
// to override the defaults.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Obsidian: ObsidianConfig{
			Protocol:           ProtocolHTTPS,
			Host:               "127.0.0.1",
			Port:               27124,
			APIKey:             os.Getenv("OBSIDIAN_API_KEY"),
			InsecureSkipVerify: true,
			TimeoutSeconds:     10,
		},
		MCP: MCPConfig{
			Transport: TransportStdio,
			Host:      "127.0.0.1",
			Port:      8001,
		},
	}
}

package internal

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Obsidian.APIKey = "test-key"
	return cfg
}

func TestDefaultConfigValid(t *testing.T) {
	t.Setenv("OBSIDIAN_API_KEY", "from-env")
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with env key should pass: %v", err)
	}
	if cfg.Obsidian.APIKey != "from-env" {
		t.Errorf("api key = %q, want from-env", cfg.Obsidian.APIKey)
	}
}

func TestMissingAPIKeyRefused(t *testing.T) {
	t.Setenv("OBSIDIAN_API_KEY", "")
	cfg := NewDefaultConfig()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("empty api key should fail validation")
	}
	if !strings.Contains(err.Error(), "OBSIDIAN_API_KEY") {
		t.Errorf("error should point at the env var: %v", err)
	}
}

func TestObsidianConfig_BaseURL(t *testing.T) {
	cfg := validConfig()
	if got := cfg.Obsidian.BaseURL(); got != "https://127.0.0.1:27124" {
		t.Errorf("base URL = %q", got)
	}
	cfg.Obsidian.Protocol = "http"
	cfg.Obsidian.Port = 27123
	if got := cfg.Obsidian.BaseURL(); got != "http://127.0.0.1:27123" {
		t.Errorf("base URL = %q", got)
	}
}

func TestObsidianConfig_InvalidProtocol(t *testing.T) {
	cfg := validConfig()
	cfg.Obsidian.Protocol = "ftp"
	if err := cfg.Validate(); err == nil {
		t.Fatal("protocol ftp should fail validation")
	}
}

func TestMCPConfig_InvalidTransport(t *testing.T) {
	cfg := validConfig()
	cfg.MCP.Transport = "websocket"
	if err := cfg.Validate(); err == nil {
		t.Fatal("transport websocket should fail validation")
	}
}

func TestMCPConfig_Address(t *testing.T) {
	cfg := validConfig()
	if got := cfg.MCP.Address(); got != "127.0.0.1:8001" {
		t.Errorf("address = %q", got)
	}
}

func TestMCPConfig_PortBounds(t *testing.T) {
	cfg := validConfig()
	cfg.MCP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 0 should fail validation")
	}
	cfg.MCP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 70000 should fail validation")
	}
}

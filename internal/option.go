package internal

import "github.com/starford/ansuz/internal/obsidian"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	vault  obsidian.Provider
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithVault overrides the vault API client, mainly for tests.
func WithVault(v obsidian.Provider) Option {
	return func(a *application) {
		a.vault = v
	}
}

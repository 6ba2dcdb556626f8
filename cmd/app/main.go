package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	// Flags override the config file.
	if cmd.IsSet("transport") {
		cfg.MCP.Transport = cmd.String("transport")
	}
	if cmd.IsSet("host") {
		cfg.MCP.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.MCP.Port = int(cmd.Int("port"))
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "ansuz",
		Usage:  "MCP bridge exposing an Obsidian vault through the Local REST API plugin",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (optional)",
				Value:   "config/config.yaml",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "transport",
				Aliases: []string{"t"},
				Usage:   "MCP transport to use: stdio or sse",
				Sources: cli.EnvVars("ANSUZ_TRANSPORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "Listen host for the sse transport",
				Sources: cli.EnvVars("ANSUZ_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Listen port for the sse transport",
				Sources: cli.EnvVars("ANSUZ_PORT"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

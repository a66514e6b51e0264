package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/chronoplan/core/sqlite"
	"github.com/FocuswithJustin/chronoplan/internal/api"
	"github.com/FocuswithJustin/chronoplan/internal/config"
)

// ServeCmd runs the REST API until interrupted.
type ServeCmd struct {
	Port int `help:"Port to listen on (default from config)"`
}

func (c *ServeCmd) Run(app *App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := app.Store(ctx)
	if err != nil {
		return err
	}
	srv := app.Config.Server
	port := srv.Port
	if c.Port != 0 {
		port = c.Port
	}
	return api.Start(ctx, api.Config{
		Port:              port,
		Version:           version,
		AllowedOrigins:    srv.AllowedOrigins,
		CacheTTL:          srv.CacheTTL,
		DatingSystem:      app.Config.DatingSystem(),
		RateLimitRequests: srv.RateLimit,
		RateLimitBurst:    srv.RateBurst,
	}, st)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(app.Out, "chronoplan version %s\n", version)
	fmt.Fprintf(app.Out, "sqlite driver: %s (%s)\n", info.DriverType, info.Package)
	return nil
}

// ConfigShowCmd prints the configuration after flags are applied.
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(app *App) error {
	enc := yaml.NewEncoder(app.Out)
	enc.SetIndent(2)
	if err := enc.Encode(app.Config); err != nil {
		return err
	}
	return enc.Close()
}

// ConfigInitCmd writes the documented default configuration.
type ConfigInitCmd struct {
	Path  string `arg:"" optional:"" help:"Where to write the file" default:"${config_path}"`
	Force bool   `help:"Overwrite an existing file"`
}

func (c *ConfigInitCmd) Run(app *App) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if c.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(c.Path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if _, err := f.WriteString(config.DefaultYAML); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Wrote %s\n", c.Path)
	return nil
}

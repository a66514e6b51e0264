package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/FocuswithJustin/chronoplan/core/plan"
	"github.com/FocuswithJustin/chronoplan/core/store"
	"github.com/FocuswithJustin/chronoplan/internal/config"
	"github.com/FocuswithJustin/chronoplan/internal/embedded"
	"github.com/FocuswithJustin/chronoplan/internal/logging"
)

// App is bound into every command's Run method.
type App struct {
	Out    io.Writer
	Config *config.Config

	store  store.Store
	styles styles
}

type styles struct {
	heading lipgloss.Style
	label   lipgloss.Style
	faint   lipgloss.Style
	bad     lipgloss.Style
}

// NewApp creates an App writing results to out. Styling follows out's
// terminal capabilities, so redirected output stays plain.
func NewApp(out io.Writer, cfg *config.Config) *App {
	r := lipgloss.NewRenderer(out)
	return &App{
		Out:    out,
		Config: cfg,
		styles: styles{
			heading: r.NewStyle().Bold(true),
			label:   r.NewStyle().Foreground(lipgloss.Color("6")),
			faint:   r.NewStyle().Faint(true),
			bad:     r.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
}

// Store opens the configured store on first use. Without a database the
// built-in plans are loaded into memory.
func (a *App) Store(ctx context.Context) (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, err := store.Open(a.Config.Database)
	if err != nil {
		return nil, err
	}
	if a.Config.Database == "" {
		n, err := embedded.Seed(ctx, st)
		if err != nil {
			st.Close()
			return nil, err
		}
		logging.Debug("using in-memory store", "plans", n)
	}
	a.store = st
	return st, nil
}

// Plan fetches one plan by provider name.
func (a *App) Plan(ctx context.Context, provider string) (*plan.ReadingPlan, error) {
	p, err := plan.ParseProvider(provider)
	if err != nil {
		return nil, err
	}
	st, err := a.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, p)
}

// DatingSystem parses raw, falling back to the configured default.
func (a *App) DatingSystem(raw string) (plan.DatingSystem, error) {
	if raw == "" {
		return a.Config.DatingSystem(), nil
	}
	return plan.ParseDatingSystem(raw)
}

// Close releases the store, if one was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

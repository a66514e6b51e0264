package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/history"
	"github.com/FocuswithJustin/chronoplan/core/plan"
	"github.com/FocuswithJustin/chronoplan/core/store"
	"github.com/FocuswithJustin/chronoplan/internal/archive"
	"github.com/FocuswithJustin/chronoplan/internal/embedded"
	"github.com/FocuswithJustin/chronoplan/internal/formats"
	"github.com/FocuswithJustin/chronoplan/internal/logging"
	"github.com/FocuswithJustin/chronoplan/internal/validation"
)

// bundleKind reports whether path names a plan bundle and whether this
// program can write it.
func bundleKind(path string) (isBundle, writable bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return true, true
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return true, false
	}
	return false, false
}

// PlansListCmd lists stored plans.
type PlansListCmd struct {
	JSON bool `help:"Print JSON instead of a table"`
}

func (c *PlansListCmd) Run(app *App) error {
	ctx := context.Background()
	st, err := app.Store(ctx)
	if err != nil {
		return err
	}
	plans, err := st.List(ctx)
	if err != nil {
		return err
	}
	if c.JSON {
		return app.printJSON(plans)
	}
	if len(plans) == 0 {
		fmt.Fprintln(app.Out, "No plans stored. Run 'chronoplan plans seed' or 'chronoplan plans import'.")
		return nil
	}
	fmt.Fprintln(app.Out, app.styles.heading.Render(fmt.Sprintf("%-10s  %-40s  %4s  %s", "PROVIDER", "TITLE", "DAYS", "DATING")))
	for _, p := range plans {
		fmt.Fprintf(app.Out, "%-10s  %-40s  %4d  %s\n", p.Provider, p.Title(), p.Len(), p.Methodology.DatingSystem)
	}
	return nil
}

// PlansShowCmd prints one plan.
type PlansShowCmd struct {
	Provider string `arg:"" help:"Plan provider (blb, esv, logos, apocrypha, biblehub)"`
	System   string `help:"Fill in historical contexts dated in this system (young-earth, conservative, academic)"`
	JSON     bool   `help:"Print JSON"`
}

func (c *PlansShowCmd) Run(app *App) error {
	ctx := context.Background()
	p, err := app.Plan(ctx, c.Provider)
	if err != nil {
		return err
	}
	if c.System != "" {
		system, err := plan.ParseDatingSystem(c.System)
		if err != nil {
			return err
		}
		p = history.Default().Enrich(p, system)
	}
	if c.JSON {
		return app.printJSON(p)
	}

	m := p.Methodology
	fmt.Fprintln(app.Out, app.styles.heading.Render(p.Title()))
	fmt.Fprintf(app.Out, "%s %s\n", app.styles.label.Render("Dating system:"), m.DatingSystem)
	fmt.Fprintf(app.Out, "%s Job %s; Psalms %s; prophets %s; epistles %s\n",
		app.styles.label.Render("Placement:"), m.JobPlacement, m.PsalmsPlacement, m.ProphetsPlacement, m.EpistlesPlacement)
	fmt.Fprintln(app.Out)
	for _, r := range p.DailyReadings {
		line := fmt.Sprintf("Day %3d  %-40s", r.Day, r.Describe())
		if r.ReadingTimeMinutes > 0 {
			line += fmt.Sprintf("  %3d min", r.ReadingTimeMinutes)
		}
		if hc := r.HistoricalContext; hc != nil {
			line += "  " + app.styles.faint.Render(hc.Period+", "+hc.ApproximateDate)
		}
		fmt.Fprintln(app.Out, line)
	}
	return nil
}

// PlansValidateCmd checks a plan's structure.
type PlansValidateCmd struct {
	Target string `arg:"" help:"Provider name or path to a plan file"`
}

func (c *PlansValidateCmd) Run(app *App) error {
	ctx := context.Background()
	var p *plan.ReadingPlan
	var err error
	if _, statErr := os.Stat(c.Target); statErr == nil {
		p, err = formats.Load(c.Target)
	} else {
		p, err = app.Plan(ctx, c.Target)
	}
	if err != nil {
		return err
	}

	report := p.Validate()
	for _, is := range report.Issues {
		where := "plan"
		if is.Day > 0 {
			where = fmt.Sprintf("day %d", is.Day)
		}
		sev := string(is.Severity)
		if is.Severity == plan.SeverityError {
			sev = app.styles.bad.Render(sev)
		}
		fmt.Fprintf(app.Out, "%s: %s: %s\n", sev, where, is.Message)
	}
	if !report.Valid() {
		return fmt.Errorf("%s: %d error(s)", p.Provider, len(report.Errors()))
	}
	fmt.Fprintf(app.Out, "%s: valid (%d readings, %d warning(s))\n", p.Provider, p.Len(), len(report.Warnings()))
	return nil
}

// PlansImportCmd loads plan files and bundles into the store.
type PlansImportCmd struct {
	Paths []string `arg:"" help:"Plan files (.json, .xml) or bundles (.tar.xz, .tar.gz)" type:"existingfile"`
}

func (c *PlansImportCmd) Run(app *App) error {
	ctx := context.Background()
	st, err := app.Store(ctx)
	if err != nil {
		return err
	}
	if app.Config.Database == "" {
		logging.Warn("no database configured; imported plans last only for this run")
	}

	total := 0
	for _, path := range c.Paths {
		plans, err := loadPlans(ctx, path)
		if err != nil {
			return err
		}
		if err := store.PutAll(ctx, st, plans); err != nil {
			return errors.Wrapf(err, "import %s", path)
		}
		for _, p := range plans {
			fmt.Fprintf(app.Out, "Imported %s (%d readings) from %s\n", p.Provider, p.Len(), filepath.Base(path))
		}
		total += len(plans)
	}
	fmt.Fprintf(app.Out, "%d plan(s) imported\n", total)
	return nil
}

func loadPlans(ctx context.Context, path string) ([]*plan.ReadingPlan, error) {
	if isBundle, _ := bundleKind(path); isBundle {
		plans, _, err := archive.ImportFile(path)
		if err != nil {
			return nil, err
		}
		logging.BundleEvent(ctx, "import", path, len(plans))
		return plans, nil
	}
	p, err := formats.Load(path)
	if err != nil {
		return nil, err
	}
	logging.PlanLoaded(ctx, string(p.Provider), p.Len(), path)
	return []*plan.ReadingPlan{p}, nil
}

// PlansExportCmd writes plans to a file or bundle.
type PlansExportCmd struct {
	Output    string   `arg:"" help:"Output path: .tar.xz bundle, or .json/.xml for a single plan"`
	Providers []string `arg:"" optional:"" help:"Providers to export (default: all)"`
	Force     bool     `help:"Overwrite an existing output file"`
}

func (c *PlansExportCmd) Run(app *App) error {
	ctx := context.Background()
	if err := validation.ValidatePath(c.Output); err != nil {
		return errors.NewValidation("output", c.Output, err.Error())
	}
	if _, err := os.Stat(c.Output); err == nil && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", c.Output)
	}

	plans, err := c.selectPlans(ctx, app)
	if err != nil {
		return err
	}

	isBundle, writable := bundleKind(c.Output)
	switch {
	case isBundle && !writable:
		return errors.NewUnsupported("bundle compression", "bundles are written as .tar.xz")
	case isBundle:
		m, err := archive.ExportFile(c.Output, plans, true)
		if err != nil {
			return err
		}
		logging.BundleEvent(ctx, "export", c.Output, len(m.Plans))
		fmt.Fprintf(app.Out, "Exported %d plan(s) to %s\n", len(m.Plans), c.Output)
		return nil
	case len(plans) != 1:
		return errors.NewValidation("providers", strings.Join(c.Providers, ","), "a plan file holds exactly one plan; use a .tar.xz bundle for several")
	default:
		if err := formats.Save(c.Output, plans[0]); err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Exported %s to %s\n", plans[0].Provider, c.Output)
		return nil
	}
}

func (c *PlansExportCmd) selectPlans(ctx context.Context, app *App) ([]*plan.ReadingPlan, error) {
	if len(c.Providers) == 0 {
		st, err := app.Store(ctx)
		if err != nil {
			return nil, err
		}
		return st.List(ctx)
	}
	plans := make([]*plan.ReadingPlan, 0, len(c.Providers))
	for _, name := range c.Providers {
		p, err := app.Plan(ctx, name)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// PlansSeedCmd stores the built-in plans.
type PlansSeedCmd struct{}

func (c *PlansSeedCmd) Run(app *App) error {
	ctx := context.Background()
	st, err := app.Store(ctx)
	if err != nil {
		return err
	}
	if app.Config.Database == "" {
		fmt.Fprintln(app.Out, "No database configured; the built-in plans are already served from memory.")
		return nil
	}
	n, err := embedded.Seed(ctx, st)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Seeded %d plan(s) into %s\n", n, app.Config.Database)
	return nil
}

// PlansDeleteCmd removes a plan.
type PlansDeleteCmd struct {
	Provider string `arg:"" help:"Plan provider"`
}

func (c *PlansDeleteCmd) Run(app *App) error {
	ctx := context.Background()
	p, err := plan.ParseProvider(c.Provider)
	if err != nil {
		return err
	}
	st, err := app.Store(ctx)
	if err != nil {
		return err
	}
	if err := st.Delete(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Deleted %s\n", p)
	return nil
}

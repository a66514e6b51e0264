package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/chronoplan/core/compare"
	"github.com/FocuswithJustin/chronoplan/core/datesys"
	"github.com/FocuswithJustin/chronoplan/core/history"
	"github.com/FocuswithJustin/chronoplan/core/parallels"
	"github.com/FocuswithJustin/chronoplan/core/plan"
	"github.com/FocuswithJustin/chronoplan/internal/logging"
)

// CompareCmd diffs two plans.
type CompareCmd struct {
	A       string `arg:"" help:"First plan provider"`
	B       string `arg:"" help:"Second plan provider"`
	JSON    bool   `help:"Print JSON"`
	Summary bool   `help:"Print only counts by difference type"`
}

func (c *CompareCmd) Run(app *App) error {
	ctx := context.Background()
	a, err := app.Plan(ctx, c.A)
	if err != nil {
		return err
	}
	b, err := app.Plan(ctx, c.B)
	if err != nil {
		return err
	}
	result := compare.Compare(a, b)
	logging.ComparisonComputed(ctx, string(a.Provider), string(b.Provider), result.TotalDifferences)

	switch {
	case c.JSON && c.Summary:
		return app.printJSON(compare.Summarize(result))
	case c.JSON:
		return app.printJSON(result)
	case c.Summary:
		printSummary(app, compare.Summarize(result))
		return nil
	}

	fmt.Fprintln(app.Out, app.styles.heading.Render(fmt.Sprintf("%s vs %s: %d difference(s)", a.Title(), b.Title(), result.TotalDifferences)))
	lastDay := 0
	for _, d := range result.Differences {
		if d.Day != lastDay {
			fmt.Fprintln(app.Out)
			fmt.Fprintf(app.Out, "Day %d\n", d.Day)
			fmt.Fprintf(app.Out, "  %-10s %s\n", result.ProviderA, describePassages(d.PassagesA))
			fmt.Fprintf(app.Out, "  %-10s %s\n", result.ProviderB, describePassages(d.PassagesB))
			lastDay = d.Day
		}
		fmt.Fprintf(app.Out, "  %s %s\n", app.styles.label.Render(fmt.Sprintf("%-9s", d.DifferenceType)), d.Explanation)
	}
	return nil
}

func describePassages(ps []plan.BiblePassage) string {
	return plan.DailyReading{Passages: ps}.Describe()
}

func printSummary(app *App, s compare.Summary) {
	fmt.Fprintf(app.Out, "%-10s %-10s total %3d  (ordering %d, inclusion %d, omission %d)\n",
		s.ProviderA, s.ProviderB, s.Total,
		s.ByType[compare.Ordering], s.ByType[compare.Inclusion], s.ByType[compare.Omission])
}

// CompareAllCmd summarizes every pair of stored plans.
type CompareAllCmd struct {
	JSON bool `help:"Print JSON"`
}

func (c *CompareAllCmd) Run(app *App) error {
	ctx := context.Background()
	st, err := app.Store(ctx)
	if err != nil {
		return err
	}
	plans, err := st.List(ctx)
	if err != nil {
		return err
	}

	comparisons := compare.CompareAll(plans)
	summaries := make([]compare.Summary, 0, len(comparisons))
	for _, cmp := range comparisons {
		summaries = append(summaries, compare.Summarize(cmp))
	}
	if c.JSON {
		return app.printJSON(summaries)
	}
	for _, s := range summaries {
		printSummary(app, s)
	}
	return nil
}

// ContextCmd looks up the historical setting of a chapter.
type ContextCmd struct {
	Book    string `arg:"" help:"Book name, quoted if it contains spaces (\"1 Kings\")"`
	Chapter int    `arg:"" help:"Chapter number"`
	System  string `help:"Dating system for the date (default from config)"`
	JSON    bool   `help:"Print JSON"`
}

func (c *ContextCmd) Run(app *App) error {
	if c.Chapter < 1 {
		return fmt.Errorf("chapter must be positive, got %d", c.Chapter)
	}
	system, err := app.DatingSystem(c.System)
	if err != nil {
		return err
	}
	hc := history.Default().Context(c.Book, c.Chapter, system)
	if c.JSON {
		return app.printJSON(hc)
	}
	fmt.Fprintln(app.Out, app.styles.heading.Render(fmt.Sprintf("%s %d", c.Book, c.Chapter)))
	fmt.Fprintf(app.Out, "%s %s\n", app.styles.label.Render("Period:"), hc.Period)
	fmt.Fprintf(app.Out, "%s %s (%s)\n", app.styles.label.Render("Date:  "), hc.ApproximateDate, system)
	if hc.Description != "" {
		fmt.Fprintln(app.Out, hc.Description)
	}
	return nil
}

// ConvertDateCmd translates a date between chronologies.
type ConvertDateCmd struct {
	Date string `arg:"" help:"Date such as \"1446 BC\" or an era label"`
	From string `required:"" help:"Source dating system"`
	To   string `required:"" help:"Target dating system"`
	JSON bool   `help:"Print JSON"`
}

func (c *ConvertDateCmd) Run(app *App) error {
	from, err := plan.ParseDatingSystem(c.From)
	if err != nil {
		return err
	}
	to, err := plan.ParseDatingSystem(c.To)
	if err != nil {
		return err
	}
	conv := datesys.Convert(c.Date, from, to)
	if c.JSON {
		return app.printJSON(conv)
	}
	fmt.Fprintf(app.Out, "%s -> %s\n", conv.OriginalDate, conv.ConvertedDate)
	fmt.Fprintln(app.Out, app.styles.faint.Render(conv.Notes))
	return nil
}

// ParallelsCmd lists a plan's readings with their parallel passages.
type ParallelsCmd struct {
	Provider string `arg:"" help:"Plan provider"`
	All      bool   `help:"Include readings without parallels"`
	JSON     bool   `help:"Print JSON"`
}

func (c *ParallelsCmd) Run(app *App) error {
	p, err := app.Plan(context.Background(), c.Provider)
	if err != nil {
		return err
	}
	readings := parallels.Reconcile(p.DailyReadings)
	if c.JSON {
		return app.printJSON(readings)
	}

	found := 0
	for _, r := range readings {
		var notes []string
		for _, ps := range r.Passages {
			for _, n := range ps.ParallelEvents {
				notes = append(notes, ps.Key()+": "+strings.TrimPrefix(n, parallels.NotePrefix))
			}
		}
		if len(notes) == 0 && !c.All {
			continue
		}
		found += len(notes)
		fmt.Fprintf(app.Out, "Day %3d  %s\n", r.Day, r.Describe())
		for _, n := range notes {
			fmt.Fprintf(app.Out, "         %s %s\n", app.styles.label.Render("parallel"), n)
		}
	}
	if found == 0 {
		fmt.Fprintf(app.Out, "No parallel passages found in %s\n", p.Title())
	}
	return nil
}

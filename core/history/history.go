// Package history looks up the historical setting of a passage and presents
// its date in the caller's preferred chronology.
package history

import (
	"strconv"

	"github.com/FocuswithJustin/chronoplan/core/datesys"
	"github.com/FocuswithJustin/chronoplan/core/plan"
)

// Placeholder is returned for books the table does not know.
var Placeholder = plan.HistoricalContext{
	Period:          "Biblical History",
	ApproximateDate: "Unknown",
	Description:     "Historical context for this passage has not been documented.",
}

// Lookup resolves historical contexts from a table.
type Lookup struct {
	table *Table
	conv  *datesys.Converter
}

// New creates a Lookup. Nil arguments select the embedded table and the
// default converter.
func New(table *Table, conv *datesys.Converter) *Lookup {
	if table == nil {
		table = DefaultTable()
	}
	if conv == nil {
		conv = datesys.New(nil)
	}
	return &Lookup{table: table, conv: conv}
}

// Default returns a Lookup over the embedded table.
func Default() *Lookup {
	return New(nil, nil)
}

// Context returns the chapter entry for book and chapter, else the book entry,
// else Placeholder. The approximate date is converted from the table's native
// system to system.
func (l *Lookup) Context(book string, chapter int, system plan.DatingSystem) plan.HistoricalContext {
	ctx, ok := l.table.Chapters[book+" "+strconv.Itoa(chapter)]
	if !ok {
		ctx, ok = l.table.Books[book]
	}
	if !ok {
		ctx = Placeholder
	}
	ctx.ApproximateDate = l.conv.Convert(ctx.ApproximateDate, l.table.NativeSystem, system).ConvertedDate
	return ctx
}

// ForPassage is Context keyed by the passage's book and first chapter.
func (l *Lookup) ForPassage(p plan.BiblePassage, system plan.DatingSystem) plan.HistoricalContext {
	return l.Context(p.Book, p.ChapterStart, system)
}

// Enrich returns a copy of p whose readings all carry a historical context
// dated in system. Readings without a context get one from their primary
// passage; existing contexts are converted from the plan's own dating system.
// Readings with no passages and no context are left alone.
func (l *Lookup) Enrich(p *plan.ReadingPlan, system plan.DatingSystem) *plan.ReadingPlan {
	out := p.Clone()
	if out == nil {
		return nil
	}
	native := out.Methodology.DatingSystem
	if !native.Valid() {
		native = plan.Conservative
	}

	for i := range out.DailyReadings {
		r := &out.DailyReadings[i]
		if r.HistoricalContext != nil {
			r.HistoricalContext.ApproximateDate = l.conv.Convert(r.HistoricalContext.ApproximateDate, native, system).ConvertedDate
			continue
		}
		primary, ok := r.Primary()
		if !ok {
			continue
		}
		ctx := l.ForPassage(primary, system)
		r.HistoricalContext = &ctx
	}
	return out
}

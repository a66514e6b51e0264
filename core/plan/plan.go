package plan

import (
	"slices"
	"strconv"
	"strings"
)

// Testament classifies a book. It is a tag only and is not checked against the
// book name.
type Testament string

// Testament constants.
const (
	OldTestament Testament = "old"
	NewTestament Testament = "new"
	Apocryphal   Testament = "apocryphal"
)

// BiblePassage references a book and a chapter range.
type BiblePassage struct {
	// Book is a free-text book name (e.g., "Genesis", "1 Enoch").
	Book string `json:"book" yaml:"book"`

	// ChapterStart is the first chapter.
	ChapterStart int `json:"chapterStart" yaml:"chapter_start"`

	// ChapterEnd is the last chapter; zero means a single-chapter reference.
	ChapterEnd int `json:"chapterEnd,omitempty" yaml:"chapter_end,omitempty"`

	// Testament is the classification tag.
	Testament Testament `json:"testament" yaml:"testament"`

	// ParallelEvents holds cross-reference notes added by the reconciler.
	ParallelEvents []string `json:"parallelEvents,omitempty" yaml:"parallel_events,omitempty"`
}

// Key returns the comparison key "<book> <chapterStart>".
func (p BiblePassage) Key() string {
	return p.Book + " " + strconv.Itoa(p.ChapterStart)
}

// String renders the passage with its range, e.g. "Genesis 1-3".
func (p BiblePassage) String() string {
	if p.ChapterEnd > 0 && p.ChapterEnd != p.ChapterStart {
		return p.Key() + "-" + strconv.Itoa(p.ChapterEnd)
	}
	return p.Key()
}

// Chapters returns the number of chapters the passage spans.
func (p BiblePassage) Chapters() int {
	if p.ChapterEnd > p.ChapterStart {
		return p.ChapterEnd - p.ChapterStart + 1
	}
	return 1
}

// HistoricalContext describes when and in what era a reading takes place.
type HistoricalContext struct {
	// Period is a free-text era label (e.g., "Patriarchal Era").
	Period string `json:"period" yaml:"period"`

	// ApproximateDate is either an era label ("Before Time") or a
	// "<year> BC|AD" string the datesys package can convert.
	ApproximateDate string `json:"approximateDate" yaml:"approximate_date"`

	// Description is optional prose.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DailyReading is one calendar entry in a plan.
type DailyReading struct {
	// Day is the 1-based position in the plan.
	Day int `json:"day"`

	// Passages are in display order; the first is the primary passage.
	Passages []BiblePassage `json:"passages"`

	// HistoricalContext is optional.
	HistoricalContext *HistoricalContext `json:"historicalContext,omitempty"`

	// ReadingTimeMinutes is an informational estimate.
	ReadingTimeMinutes int `json:"readingTimeMinutes"`
}

// Primary returns the first passage of the reading.
func (r DailyReading) Primary() (BiblePassage, bool) {
	if len(r.Passages) == 0 {
		return BiblePassage{}, false
	}
	return r.Passages[0], true
}

// Keys returns the passage keys in order, duplicates included.
func (r DailyReading) Keys() []string {
	keys := make([]string, len(r.Passages))
	for i, p := range r.Passages {
		keys[i] = p.Key()
	}
	return keys
}

// Describe renders the passages as "Genesis 1-3, Job 1".
func (r DailyReading) Describe() string {
	parts := make([]string, len(r.Passages))
	for i, p := range r.Passages {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// ReadingPlan is a provider's complete plan. The plan owns its readings.
type ReadingPlan struct {
	Provider      Provider       `json:"provider"`
	Name          string         `json:"name,omitempty"`
	Methodology   Methodology    `json:"methodology"`
	DailyReadings []DailyReading `json:"dailyReadings"`
}

// Reading returns the first reading whose Day equals day.
func (p *ReadingPlan) Reading(day int) (*DailyReading, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.DailyReadings {
		if p.DailyReadings[i].Day == day {
			return &p.DailyReadings[i], true
		}
	}
	return nil, false
}

// Len returns the number of readings.
func (p *ReadingPlan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.DailyReadings)
}

// Days returns the distinct day numbers in ascending order.
func (p *ReadingPlan) Days() []int {
	if p == nil {
		return nil
	}
	days := make([]int, 0, len(p.DailyReadings))
	for _, r := range p.DailyReadings {
		days = append(days, r.Day)
	}
	slices.Sort(days)
	return slices.Compact(days)
}

// Title returns the plan name, falling back to the provider display name.
func (p *ReadingPlan) Title() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Provider.DisplayName()
}

// Clone returns a deep copy of the plan.
func (p *ReadingPlan) Clone() *ReadingPlan {
	if p == nil {
		return nil
	}
	out := *p
	out.DailyReadings = CloneReadings(p.DailyReadings)
	return &out
}

// CloneReadings deep-copies a reading sequence, including passage slices,
// parallel notes and historical contexts.
func CloneReadings(readings []DailyReading) []DailyReading {
	if readings == nil {
		return nil
	}
	out := make([]DailyReading, len(readings))
	for i, r := range readings {
		out[i] = r
		if r.Passages != nil {
			out[i].Passages = make([]BiblePassage, len(r.Passages))
			for j, ps := range r.Passages {
				out[i].Passages[j] = ps
				if ps.ParallelEvents != nil {
					out[i].Passages[j].ParallelEvents = append([]string(nil), ps.ParallelEvents...)
				}
			}
		}
		if r.HistoricalContext != nil {
			hc := *r.HistoricalContext
			out[i].HistoricalContext = &hc
		}
	}
	return out
}

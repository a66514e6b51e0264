package plan

import (
	"fmt"
	"sort"
)

// Severity classifies a validation issue.
type Severity string

// Severity constants.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single problem found in a plan.
type Issue struct {
	Severity Severity `json:"severity"`
	Day      int      `json:"day,omitempty"`
	Message  string   `json:"message"`
}

// ValidationReport collects issues found by Validate.
type ValidationReport struct {
	Provider Provider `json:"provider"`
	Issues   []Issue  `json:"issues,omitempty"`
}

// Valid reports whether the plan has no error-level issues.
func (r ValidationReport) Valid() bool {
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the error-level issues.
func (r ValidationReport) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-level issues.
func (r ValidationReport) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r ValidationReport) filter(s Severity) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == s {
			out = append(out, is)
		}
	}
	return out
}

// Validate checks the plan's structural invariants. Duplicate and non-positive
// days are errors; gaps in 1..N, empty readings and unknown providers are
// warnings, since published plans are not always contiguous.
func (p *ReadingPlan) Validate() ValidationReport {
	report := ValidationReport{}
	if p == nil {
		report.Issues = append(report.Issues, Issue{Severity: SeverityError, Message: "plan is nil"})
		return report
	}
	report.Provider = p.Provider

	if !p.Provider.Valid() {
		report.add(SeverityWarning, 0, fmt.Sprintf("unknown provider %q", p.Provider))
	}
	if len(p.DailyReadings) == 0 {
		report.add(SeverityWarning, 0, "plan has no readings")
		return report
	}

	seen := make(map[int]bool, len(p.DailyReadings))
	maxDay := 0
	for _, r := range p.DailyReadings {
		if r.Day <= 0 {
			report.add(SeverityError, r.Day, "day must be positive")
			continue
		}
		if seen[r.Day] {
			report.add(SeverityError, r.Day, "duplicate day")
		}
		seen[r.Day] = true
		if r.Day > maxDay {
			maxDay = r.Day
		}
		if len(r.Passages) == 0 {
			report.add(SeverityWarning, r.Day, "reading has no passages")
		}
		for _, ps := range r.Passages {
			if ps.ChapterStart <= 0 {
				report.add(SeverityWarning, r.Day, fmt.Sprintf("%s has a non-positive chapter", ps.Book))
			}
			if ps.ChapterEnd != 0 && ps.ChapterEnd < ps.ChapterStart {
				report.add(SeverityWarning, r.Day, fmt.Sprintf("%s ends before it starts", ps.String()))
			}
		}
	}

	for d := 1; d <= maxDay; d++ {
		if !seen[d] {
			report.add(SeverityWarning, d, "day missing from sequence")
		}
	}

	sort.SliceStable(report.Issues, func(i, j int) bool {
		return report.Issues[i].Day < report.Issues[j].Day
	})
	return report
}

func (r *ValidationReport) add(s Severity, day int, msg string) {
	r.Issues = append(r.Issues, Issue{Severity: s, Day: day, Message: msg})
}

// Stats summarizes a plan.
type Stats struct {
	Provider     Provider          `json:"provider"`
	Days         int               `json:"days"`
	Passages     int               `json:"passages"`
	Chapters     int               `json:"chapters"`
	TotalMinutes int               `json:"totalMinutes"`
	ByTestament  map[Testament]int `json:"byTestament"`
}

// Stats computes reading totals for the plan.
func (p *ReadingPlan) Stats() Stats {
	s := Stats{ByTestament: make(map[Testament]int)}
	if p == nil {
		return s
	}
	s.Provider = p.Provider
	s.Days = len(p.DailyReadings)
	for _, r := range p.DailyReadings {
		s.TotalMinutes += r.ReadingTimeMinutes
		for _, ps := range r.Passages {
			s.Passages++
			s.Chapters += ps.Chapters()
			s.ByTestament[ps.Testament]++
		}
	}
	return s
}

// Package compare reports where two chronological reading plans disagree,
// day by day.
//
// Only days present in both plans are compared. A day that one plan lacks is
// treated as not comparable rather than as an omission, so plans of unequal
// length may under-report differences.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FocuswithJustin/chronoplan/core/plan"
)

// DifferenceType classifies a per-day difference.
type DifferenceType string

// Difference type constants.
const (
	// Ordering means the two readings start with different passages.
	Ordering DifferenceType = "ordering"

	// Inclusion means plan A reads passages plan B does not on that day.
	Inclusion DifferenceType = "inclusion"

	// Omission means plan B reads passages plan A does not on that day.
	Omission DifferenceType = "omission"
)

// Difference is one divergence on one day.
type Difference struct {
	Day            int                 `json:"day"`
	PassagesA      []plan.BiblePassage `json:"passagesA"`
	PassagesB      []plan.BiblePassage `json:"passagesB"`
	DifferenceType DifferenceType      `json:"differenceType"`
	Explanation    string              `json:"explanation"`
}

// Comparison is the full diff of two plans.
type Comparison struct {
	ProviderA        plan.Provider `json:"providerA"`
	ProviderB        plan.Provider `json:"providerB"`
	Differences      []Difference  `json:"differences"`
	TotalDifferences int           `json:"totalDifferences"`
}

// Compare diffs a against b for days 1..max(len(a), len(b)).
func Compare(a, b *plan.ReadingPlan) Comparison {
	result := Comparison{Differences: []Difference{}}
	if a != nil {
		result.ProviderA = a.Provider
	}
	if b != nil {
		result.ProviderB = b.Provider
	}

	maxDays := max(a.Len(), b.Len())
	for day := 1; day <= maxDays; day++ {
		ra, okA := a.Reading(day)
		rb, okB := b.Reading(day)
		if !okA || !okB {
			continue
		}
		result.Differences = append(result.Differences, compareDay(result.ProviderA, result.ProviderB, day, ra, rb)...)
	}

	result.TotalDifferences = len(result.Differences)
	return result
}

// compareDay emits at most one ordering, one inclusion and one omission record.
func compareDay(providerA, providerB plan.Provider, day int, ra, rb *plan.DailyReading) []Difference {
	primaryA, okA := ra.Primary()
	primaryB, okB := rb.Primary()
	if !okA || !okB {
		return nil
	}

	newDiff := func(t DifferenceType, explanation string) Difference {
		return Difference{
			Day:            day,
			PassagesA:      ra.Passages,
			PassagesB:      rb.Passages,
			DifferenceType: t,
			Explanation:    explanation,
		}
	}

	var diffs []Difference
	if primaryA.Key() != primaryB.Key() {
		diffs = append(diffs, newDiff(Ordering, fmt.Sprintf(
			"%s starts with %s, %s starts with %s",
			providerA, primaryA.Key(), providerB, primaryB.Key())))
	}

	keysA, keysB := ra.Keys(), rb.Keys()
	if onlyA := without(keysA, keysB); len(onlyA) > 0 {
		diffs = append(diffs, newDiff(Inclusion, fmt.Sprintf("%s includes: %s", providerA, strings.Join(onlyA, ", "))))
	}
	if onlyB := without(keysB, keysA); len(onlyB) > 0 {
		diffs = append(diffs, newDiff(Omission, fmt.Sprintf("%s includes: %s", providerB, strings.Join(onlyB, ", "))))
	}
	return diffs
}

// without returns the keys of from that are absent in other, preserving order
// and repeats.
func without(from, other []string) []string {
	set := make(map[string]struct{}, len(other))
	for _, k := range other {
		set[k] = struct{}{}
	}
	var out []string
	for _, k := range from {
		if _, ok := set[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// CompareAll compares every unordered pair of plans, in input order.
func CompareAll(plans []*plan.ReadingPlan) []Comparison {
	var out []Comparison
	for i := 0; i < len(plans); i++ {
		for j := i + 1; j < len(plans); j++ {
			out = append(out, Compare(plans[i], plans[j]))
		}
	}
	return out
}

// Summary counts a comparison's differences.
type Summary struct {
	ProviderA plan.Provider          `json:"providerA"`
	ProviderB plan.Provider          `json:"providerB"`
	Total     int                    `json:"total"`
	ByType    map[DifferenceType]int `json:"byType"`
	Days      []int                  `json:"days"`
}

// Summarize tallies differences by type and lists the affected days.
func Summarize(c Comparison) Summary {
	s := Summary{
		ProviderA: c.ProviderA,
		ProviderB: c.ProviderB,
		Total:     c.TotalDifferences,
		ByType:    map[DifferenceType]int{Ordering: 0, Inclusion: 0, Omission: 0},
		Days:      []int{},
	}
	seen := make(map[int]bool)
	for _, d := range c.Differences {
		s.ByType[d.DifferenceType]++
		if !seen[d.Day] {
			seen[d.Day] = true
			s.Days = append(s.Days, d.Day)
		}
	}
	sort.Ints(s.Days)
	return s
}

package compare

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FocuswithJustin/chronoplan/core/plan"
)

func passages(refs ...string) []plan.BiblePassage {
	out := make([]plan.BiblePassage, len(refs))
	for i, r := range refs {
		out[i] = plan.MustParsePassage(r)
	}
	return out
}

func newPlan(provider plan.Provider, days map[int][]string) *plan.ReadingPlan {
	p := &plan.ReadingPlan{Provider: provider}
	for day := 1; len(p.DailyReadings) < len(days); day++ {
		refs, ok := days[day]
		if !ok {
			continue
		}
		p.DailyReadings = append(p.DailyReadings, plan.DailyReading{Day: day, Passages: passages(refs...)})
	}
	return p
}

func TestCompareIdenticalPlans(t *testing.T) {
	a := newPlan(plan.ProviderESV, map[int][]string{
		1: {"Genesis 1-3"},
		2: {"Genesis 4-7", "1 Chronicles 1"},
		3: {"Job 1-5"},
	})
	got := Compare(a, a)
	if got.TotalDifferences != 0 || len(got.Differences) != 0 {
		t.Errorf("Compare(a, a) = %+v, want no differences", got)
	}
}

func TestCompareOrdering(t *testing.T) {
	a := &plan.ReadingPlan{Provider: plan.ProviderBLB}
	b := &plan.ReadingPlan{Provider: plan.ProviderESV}
	for day := 1; day <= 10; day++ {
		a.DailyReadings = append(a.DailyReadings, plan.DailyReading{Day: day, Passages: passages("Genesis 1")})
		b.DailyReadings = append(b.DailyReadings, plan.DailyReading{Day: day, Passages: passages("Genesis 1")})
	}
	b.DailyReadings[9].Passages = passages("Exodus 1")

	got := Compare(a, b)
	want := []Difference{
		{Day: 10, PassagesA: passages("Genesis 1"), PassagesB: passages("Exodus 1"), DifferenceType: Ordering,
			Explanation: "blb starts with Genesis 1, esv starts with Exodus 1"},
		{Day: 10, PassagesA: passages("Genesis 1"), PassagesB: passages("Exodus 1"), DifferenceType: Inclusion,
			Explanation: "blb includes: Genesis 1"},
		{Day: 10, PassagesA: passages("Genesis 1"), PassagesB: passages("Exodus 1"), DifferenceType: Omission,
			Explanation: "esv includes: Exodus 1"},
	}
	if diff := cmp.Diff(want, got.Differences); diff != "" {
		t.Errorf("Compare() differences mismatch (-want +got):\n%s", diff)
	}
	if got.TotalDifferences != 3 {
		t.Errorf("TotalDifferences = %d, want 3", got.TotalDifferences)
	}

	ordering := 0
	for _, d := range got.Differences {
		if d.DifferenceType == Ordering {
			ordering++
		}
	}
	if ordering != 1 {
		t.Errorf("ordering differences = %d, want 1", ordering)
	}
}

func TestCompareInclusion(t *testing.T) {
	a := &plan.ReadingPlan{Provider: plan.ProviderLogos}
	b := &plan.ReadingPlan{Provider: plan.ProviderBibleHub}
	for day := 1; day <= 20; day++ {
		a.DailyReadings = append(a.DailyReadings, plan.DailyReading{Day: day, Passages: passages("Genesis 1")})
		b.DailyReadings = append(b.DailyReadings, plan.DailyReading{Day: day, Passages: passages("Genesis 1")})
	}
	a.DailyReadings[19].Passages = passages("Genesis 1", "Genesis 2")

	got := Compare(a, b)
	want := Comparison{
		ProviderA: plan.ProviderLogos,
		ProviderB: plan.ProviderBibleHub,
		Differences: []Difference{{
			Day:            20,
			PassagesA:      passages("Genesis 1", "Genesis 2"),
			PassagesB:      passages("Genesis 1"),
			DifferenceType: Inclusion,
			Explanation:    "logos includes: Genesis 2",
		}},
		TotalDifferences: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compare() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareKeepsOrderAndRepeats(t *testing.T) {
	a := newPlan(plan.ProviderBLB, map[int][]string{1: {"Psalms 3", "Job 1", "Psalms 3", "Genesis 1"}})
	b := newPlan(plan.ProviderESV, map[int][]string{1: {"Genesis 1"}})

	got := Compare(a, b)
	var inclusion *Difference
	for i := range got.Differences {
		if got.Differences[i].DifferenceType == Inclusion {
			inclusion = &got.Differences[i]
		}
	}
	if inclusion == nil {
		t.Fatal("no inclusion difference")
	}
	if want := "blb includes: Psalms 3, Job 1, Psalms 3"; inclusion.Explanation != want {
		t.Errorf("Explanation = %q, want %q", inclusion.Explanation, want)
	}
}

func TestCompareSymmetry(t *testing.T) {
	a := newPlan(plan.ProviderBLB, map[int][]string{
		1: {"Genesis 1-3"},
		2: {"Job 1-5", "Psalms 1"},
		3: {"Genesis 12"},
	})
	b := newPlan(plan.ProviderESV, map[int][]string{
		1: {"Genesis 1-2"},
		2: {"Genesis 8-11"},
		3: {"Genesis 12", "Job 1"},
	})

	ab := Compare(a, b)
	ba := Compare(b, a)

	if ab.ProviderA != ba.ProviderB || ab.ProviderB != ba.ProviderA {
		t.Errorf("providers not swapped: %s/%s vs %s/%s", ab.ProviderA, ab.ProviderB, ba.ProviderA, ba.ProviderB)
	}

	swap := map[DifferenceType]DifferenceType{Ordering: Ordering, Inclusion: Omission, Omission: Inclusion}
	type key struct {
		day int
		t   DifferenceType
	}
	fromAB := map[key]string{}
	for _, d := range ab.Differences {
		fromAB[key{d.Day, swap[d.DifferenceType]}] = d.Explanation
	}
	if len(ba.Differences) != len(ab.Differences) {
		t.Fatalf("len(ba) = %d, len(ab) = %d", len(ba.Differences), len(ab.Differences))
	}
	for _, d := range ba.Differences {
		explanation, ok := fromAB[key{d.Day, d.DifferenceType}]
		if !ok {
			t.Errorf("day %d %s in compare(b, a) has no counterpart", d.Day, d.DifferenceType)
			continue
		}
		if d.DifferenceType != Ordering && explanation != d.Explanation {
			t.Errorf("day %d %s explanation = %q, counterpart %q", d.Day, d.DifferenceType, d.Explanation, explanation)
		}
	}
}

func TestCompareSkipsMissingDays(t *testing.T) {
	a := newPlan(plan.ProviderBLB, map[int][]string{
		1: {"Genesis 1"}, 2: {"Genesis 2"}, 3: {"Genesis 3"}, 4: {"Genesis 4"}, 5: {"Genesis 5"},
	})
	b := newPlan(plan.ProviderESV, map[int][]string{
		1: {"Genesis 1"}, 2: {"Genesis 2"}, 3: {"Genesis 3"}, 4: {"Genesis 4"},
	})

	for _, c := range []Comparison{Compare(a, b), Compare(b, a)} {
		for _, d := range c.Differences {
			if d.Day == 5 {
				t.Errorf("unexpected difference for day 5: %+v", d)
			}
		}
		if c.TotalDifferences != 0 {
			t.Errorf("TotalDifferences = %d, want 0", c.TotalDifferences)
		}
	}
}

func TestCompareOnlyScansUpToLongestLength(t *testing.T) {
	// Day 7 exists in both plans but lies beyond max(len) = 2.
	a := &plan.ReadingPlan{Provider: plan.ProviderBLB, DailyReadings: []plan.DailyReading{
		{Day: 1, Passages: passages("Genesis 1")},
		{Day: 7, Passages: passages("Genesis 7")},
	}}
	b := &plan.ReadingPlan{Provider: plan.ProviderESV, DailyReadings: []plan.DailyReading{
		{Day: 1, Passages: passages("Genesis 1")},
		{Day: 7, Passages: passages("Exodus 7")},
	}}
	if got := Compare(a, b); got.TotalDifferences != 0 {
		t.Errorf("TotalDifferences = %d, want 0", got.TotalDifferences)
	}
}

func TestCompareMalformedInput(t *testing.T) {
	empty := &plan.ReadingPlan{Provider: plan.ProviderBLB, DailyReadings: []plan.DailyReading{{Day: 1}}}
	full := newPlan(plan.ProviderESV, map[int][]string{1: {"Genesis 1"}})

	if got := Compare(empty, full); got.TotalDifferences != 0 {
		t.Errorf("empty passages: TotalDifferences = %d, want 0", got.TotalDifferences)
	}

	got := Compare(nil, full)
	if got.TotalDifferences != 0 || got.ProviderB != plan.ProviderESV || got.Differences == nil {
		t.Errorf("Compare(nil, b) = %+v", got)
	}

	negative := &plan.ReadingPlan{Provider: plan.ProviderBLB, DailyReadings: []plan.DailyReading{{Day: -1, Passages: passages("Exodus 1")}}}
	if got := Compare(negative, full); got.TotalDifferences != 0 {
		t.Errorf("negative day: TotalDifferences = %d, want 0", got.TotalDifferences)
	}
}

func TestCompareAllAndSummarize(t *testing.T) {
	a := newPlan(plan.ProviderBLB, map[int][]string{1: {"Genesis 1"}, 2: {"Job 1"}})
	b := newPlan(plan.ProviderESV, map[int][]string{1: {"Genesis 1"}, 2: {"Genesis 12"}})
	c := newPlan(plan.ProviderLogos, map[int][]string{1: {"Genesis 1", "Genesis 2"}, 2: {"Job 1"}})

	all := CompareAll([]*plan.ReadingPlan{a, b, c})
	if len(all) != 3 {
		t.Fatalf("len(CompareAll) = %d, want 3", len(all))
	}
	pairs := [][2]plan.Provider{{"blb", "esv"}, {"blb", "logos"}, {"esv", "logos"}}
	for i, want := range pairs {
		if all[i].ProviderA != want[0] || all[i].ProviderB != want[1] {
			t.Errorf("pair %d = %s/%s, want %s/%s", i, all[i].ProviderA, all[i].ProviderB, want[0], want[1])
		}
	}

	got := Summarize(all[2])
	want := Summary{
		ProviderA: plan.ProviderESV,
		ProviderB: plan.ProviderLogos,
		Total:     4,
		ByType:    map[DifferenceType]int{Ordering: 1, Inclusion: 1, Omission: 2},
		Days:      []int{1, 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

package parallels

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FocuswithJustin/chronoplan/core/plan"
)

func gospelReadings() []plan.DailyReading {
	return []plan.DailyReading{
		{Day: 1, Passages: []plan.BiblePassage{
			{Book: "Matthew", ChapterStart: 5, ChapterEnd: 7, Testament: plan.NewTestament},
			{Book: "Psalms", ChapterStart: 1, Testament: plan.OldTestament},
		}},
		{Day: 2, Passages: []plan.BiblePassage{
			{Book: "2 Kings", ChapterStart: 18, Testament: plan.OldTestament, ParallelEvents: []string{"Hezekiah's reform"}},
		}},
	}
}

func TestReconcile(t *testing.T) {
	in := gospelReadings()
	out := Reconcile(in)

	if diff := cmp.Diff([]string{"Parallels: Mark 5, Luke 6"}, out[0].Passages[0].ParallelEvents); diff != "" {
		t.Errorf("Matthew 5 notes mismatch (-want +got):\n%s", diff)
	}
	if out[0].Passages[1].ParallelEvents != nil {
		t.Errorf("Psalms 1 has no parallels, got %v", out[0].Passages[1].ParallelEvents)
	}
	want := []string{"Hezekiah's reform", "Parallels: 2 Chronicles 32, Isaiah 36"}
	if diff := cmp.Diff(want, out[1].Passages[0].ParallelEvents); diff != "" {
		t.Errorf("2 Kings 18 notes mismatch (-want +got):\n%s", diff)
	}

	if in[0].Passages[0].ParallelEvents != nil {
		t.Error("Reconcile modified its input")
	}
	if len(in[1].Passages[0].ParallelEvents) != 1 {
		t.Error("Reconcile appended to the input's ParallelEvents")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	once := Reconcile(gospelReadings())
	twice := Reconcile(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second Reconcile changed readings (-once +twice):\n%s", diff)
	}
}

func TestReconcileEmpty(t *testing.T) {
	if got := Reconcile(nil); got != nil {
		t.Errorf("Reconcile(nil) = %v, want nil", got)
	}
	got := Reconcile([]plan.DailyReading{{Day: 1}})
	if len(got) != 1 || len(got[0].Passages) != 0 {
		t.Errorf("Reconcile(empty reading) = %+v", got)
	}
}

func TestReconcilePlan(t *testing.T) {
	p := &plan.ReadingPlan{Provider: plan.ProviderESV, DailyReadings: gospelReadings()}
	out := New(nil).ReconcilePlan(p)
	if out.Provider != plan.ProviderESV {
		t.Errorf("Provider = %q", out.Provider)
	}
	if len(out.DailyReadings[0].Passages[0].ParallelEvents) != 1 {
		t.Error("ReconcilePlan did not annotate Matthew 5")
	}
	if len(p.DailyReadings[0].Passages[0].ParallelEvents) != 0 {
		t.Error("ReconcilePlan modified its input")
	}
	if New(nil).ReconcilePlan(nil) != nil {
		t.Error("ReconcilePlan(nil) should be nil")
	}
}

func TestLookupAndNote(t *testing.T) {
	r := New(nil)
	if diff := cmp.Diff([]string{"Mark 5", "Luke 6"}, r.Lookup("Matthew 5")); diff != "" {
		t.Errorf("Lookup(Matthew 5) mismatch (-want +got):\n%s", diff)
	}
	if got := r.Note("Obadiah 1"); got != "" {
		t.Errorf("Note(Obadiah 1) = %q, want empty", got)
	}
}

func TestLoadTable(t *testing.T) {
	table, err := LoadTable(strings.NewReader("parallels:\n  Genesis 1: [John 1]\n"))
	if err != nil {
		t.Fatalf("LoadTable() error: %v", err)
	}
	out := New(table).Reconcile([]plan.DailyReading{{Day: 1, Passages: []plan.BiblePassage{{Book: "Genesis", ChapterStart: 1}}}})
	if got := out[0].Passages[0].ParallelEvents; len(got) != 1 || got[0] != "Parallels: John 1" {
		t.Errorf("ParallelEvents = %v", got)
	}

	for _, bad := range []string{"parallels: [", "parallels:\n  Genesis: [John 1]\n", "parallels:\n  Genesis 1: [John]\n"} {
		if _, err := LoadTable(strings.NewReader(bad)); err == nil {
			t.Errorf("LoadTable(%q) expected error", bad)
		}
	}
}

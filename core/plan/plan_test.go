package plan

import (
	"testing"
)

func testPlan() *ReadingPlan {
	return &ReadingPlan{
		Provider:    ProviderESV,
		Methodology: MethodologyFor(ProviderESV),
		DailyReadings: []DailyReading{
			{Day: 1, ReadingTimeMinutes: 12, Passages: []BiblePassage{
				{Book: "Genesis", ChapterStart: 1, ChapterEnd: 3, Testament: OldTestament},
			}},
			{Day: 2, ReadingTimeMinutes: 15, Passages: []BiblePassage{
				{Book: "Genesis", ChapterStart: 4, ChapterEnd: 7, Testament: OldTestament},
				{Book: "1 Enoch", ChapterStart: 6, Testament: Apocryphal, ParallelEvents: []string{"note"}},
			}, HistoricalContext: &HistoricalContext{Period: "Primeval History", ApproximateDate: "Before Time"}},
		},
	}
}

func TestReading(t *testing.T) {
	p := testPlan()

	r, ok := p.Reading(2)
	if !ok {
		t.Fatal("Reading(2) not found")
	}
	if got := r.Describe(); got != "Genesis 4-7, 1 Enoch 6" {
		t.Errorf("Describe() = %q", got)
	}
	if primary, _ := r.Primary(); primary.Key() != "Genesis 4" {
		t.Errorf("Primary().Key() = %q, want Genesis 4", primary.Key())
	}

	if _, ok := p.Reading(3); ok {
		t.Error("Reading(3) should not exist")
	}
	var nilPlan *ReadingPlan
	if _, ok := nilPlan.Reading(1); ok {
		t.Error("nil plan should have no readings")
	}
}

func TestReadingFirstMatchWins(t *testing.T) {
	p := &ReadingPlan{DailyReadings: []DailyReading{
		{Day: 1, Passages: []BiblePassage{{Book: "Genesis", ChapterStart: 1}}},
		{Day: 1, Passages: []BiblePassage{{Book: "Exodus", ChapterStart: 1}}},
	}}
	r, _ := p.Reading(1)
	if r.Passages[0].Book != "Genesis" {
		t.Errorf("Reading(1) returned %q, want the first matching entry", r.Passages[0].Book)
	}
}

func TestDays(t *testing.T) {
	p := &ReadingPlan{DailyReadings: []DailyReading{{Day: 3}, {Day: 1}, {Day: 3}, {Day: 2}}}
	got := p.Days()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Days() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Days()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEmptyReadingPrimary(t *testing.T) {
	if _, ok := (DailyReading{Day: 1}).Primary(); ok {
		t.Error("Primary() on empty reading should report false")
	}
}

func TestClone(t *testing.T) {
	p := testPlan()
	c := p.Clone()

	c.DailyReadings[1].Passages[1].ParallelEvents[0] = "changed"
	c.DailyReadings[1].Passages[0].Book = "Exodus"
	c.DailyReadings[1].HistoricalContext.Period = "changed"

	if p.DailyReadings[1].Passages[1].ParallelEvents[0] != "note" {
		t.Error("Clone shares ParallelEvents with the original")
	}
	if p.DailyReadings[1].Passages[0].Book != "Genesis" {
		t.Error("Clone shares Passages with the original")
	}
	if p.DailyReadings[1].HistoricalContext.Period != "Primeval History" {
		t.Error("Clone shares HistoricalContext with the original")
	}

	var nilPlan *ReadingPlan
	if nilPlan.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestParseProvider(t *testing.T) {
	for _, p := range Providers() {
		got, err := ParseProvider(" " + string(p) + " ")
		if err != nil || got != p {
			t.Errorf("ParseProvider(%q) = %q, %v", p, got, err)
		}
	}
	if got, err := ParseProvider("ESV"); err != nil || got != ProviderESV {
		t.Errorf("ParseProvider(ESV) = %q, %v", got, err)
	}
	if _, err := ParseProvider("kjv"); err == nil {
		t.Error("ParseProvider(kjv) expected error")
	}
}

func TestParseDatingSystem(t *testing.T) {
	for _, d := range DatingSystems() {
		if got, err := ParseDatingSystem(string(d)); err != nil || got != d {
			t.Errorf("ParseDatingSystem(%q) = %q, %v", d, got, err)
		}
	}
	if _, err := ParseDatingSystem("julian"); err == nil {
		t.Error("ParseDatingSystem(julian) expected error")
	}
}

func TestMethodologyFor(t *testing.T) {
	tests := []struct {
		provider Provider
		want     DatingSystem
	}{
		{ProviderBLB, Conservative},
		{ProviderESV, Conservative},
		{ProviderLogos, Academic},
		{ProviderApocrypha, Academic},
		{ProviderBibleHub, YoungEarth},
		{Provider("unknown"), Conservative},
	}
	for _, tt := range tests {
		if got := MethodologyFor(tt.provider).DatingSystem; got != tt.want {
			t.Errorf("MethodologyFor(%q).DatingSystem = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if report := testPlan().Validate(); !report.Valid() || len(report.Issues) != 0 {
		t.Errorf("Validate() on well-formed plan = %+v", report)
	}

	p := &ReadingPlan{
		Provider: ProviderBLB,
		DailyReadings: []DailyReading{
			{Day: 1, Passages: []BiblePassage{{Book: "Genesis", ChapterStart: 1}}},
			{Day: 1, Passages: []BiblePassage{{Book: "Genesis", ChapterStart: 2}}},
			{Day: 4},
			{Day: 0, Passages: []BiblePassage{{Book: "Genesis", ChapterStart: 3}}},
		},
	}
	report := p.Validate()
	if report.Valid() {
		t.Fatal("Validate() should report errors for duplicate and zero days")
	}
	if got := len(report.Errors()); got != 2 {
		t.Errorf("len(Errors()) = %d, want 2: %+v", got, report.Errors())
	}
	// days 2 and 3 missing, day 4 empty
	if got := len(report.Warnings()); got != 3 {
		t.Errorf("len(Warnings()) = %d, want 3: %+v", got, report.Warnings())
	}

	var nilPlan *ReadingPlan
	if nilPlan.Validate().Valid() {
		t.Error("nil plan should not validate")
	}
}

func TestStats(t *testing.T) {
	s := testPlan().Stats()
	if s.Days != 2 || s.Passages != 3 || s.Chapters != 8 || s.TotalMinutes != 27 {
		t.Errorf("Stats() = %+v", s)
	}
	if s.ByTestament[OldTestament] != 2 || s.ByTestament[Apocryphal] != 1 {
		t.Errorf("ByTestament = %v", s.ByTestament)
	}
}

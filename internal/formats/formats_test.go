package formats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<plan provider="ESV" name="Chronological">
  <day n="1" minutes="12">
    <context period="Primeval History" date="Before Time">Creation</context>
    <passage book="Genesis" start="1" end="3"/>
  </day>
  <day n="2" minutes="9">
    <passage book="Matthew" start="5" testament="new">
      <parallel>Parallels: Mark 5, Luke 6</parallel>
    </passage>
    <passage book="1 Enoch" start="6"/>
  </day>
</plan>
`

func samplePlan() *plan.ReadingPlan {
	return &plan.ReadingPlan{
		Provider:    plan.ProviderESV,
		Name:        "Chronological",
		Methodology: plan.MethodologyFor(plan.ProviderESV),
		DailyReadings: []plan.DailyReading{
			{Day: 1, ReadingTimeMinutes: 12,
				HistoricalContext: &plan.HistoricalContext{Period: "Primeval History", ApproximateDate: "Before Time", Description: "Creation"},
				Passages: []plan.BiblePassage{
					{Book: "Genesis", ChapterStart: 1, ChapterEnd: 3, Testament: plan.OldTestament},
				}},
			{Day: 2, ReadingTimeMinutes: 9, Passages: []plan.BiblePassage{
				{Book: "Matthew", ChapterStart: 5, Testament: plan.NewTestament, ParallelEvents: []string{"Parallels: Mark 5, Luke 6"}},
				{Book: "1 Enoch", ChapterStart: 6, Testament: plan.Apocryphal},
			}},
		},
	}
}

func TestXMLDecode(t *testing.T) {
	got, err := XML{}.Decode(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(samplePlan(), got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, h := range Handlers() {
		t.Run(h.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := h.Encode(&buf, samplePlan()); err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			got, err := h.Decode(&buf)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if diff := cmp.Diff(samplePlan(), got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		h     Handler
		input string
	}{
		{"xml not well formed", XML{}, `<plan provider="esv"><day`},
		{"xml wrong root", XML{}, `<schedule provider="esv"/>`},
		{"xml no provider", XML{}, `<plan><day n="1"/></plan>`},
		{"xml day not a number", XML{}, `<plan provider="esv"><day n="one"/></plan>`},
		{"xml day missing n", XML{}, `<plan provider="esv"><day/></plan>`},
		{"xml passage without book", XML{}, `<plan provider="esv"><day n="1"><passage start="1"/></day></plan>`},
		{"json syntax", JSON{}, `{"provider":`},
		{"json unknown field", JSON{}, `{"provider":"esv","days":[]}`},
		{"json no provider", JSON{}, `{"dailyReadings":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.h.Decode(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("Decode() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNormalizeKeepsExplicitMethodology(t *testing.T) {
	in := `{"provider":"logos","methodology":{"datingSystem":"young-earth","jobPlacement":"x","psalmsPlacement":"","prophetsPlacement":"","epistlesPlacement":""},"dailyReadings":[]}`
	p, err := JSON{}.Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if p.Methodology.DatingSystem != plan.YoungEarth || p.Methodology.JobPlacement != "x" {
		t.Errorf("Methodology = %+v, want the file's values", p.Methodology)
	}
}

func TestLookup(t *testing.T) {
	h, err := Lookup(" XML ")
	if err != nil || h.Name() != "xml" {
		t.Errorf("Lookup(XML) = %v, %v", h, err)
	}
	if _, err := Lookup("yaml"); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("Lookup(yaml) error = %v, want ErrUnsupported", err)
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name     string
		path     string
		detected bool
		format   string
	}{
		{"json extension", write("a.json", "anything"), true, "json"},
		{"xml extension", write("b.XML", "anything"), true, "xml"},
		{"json content", write("c.plan", "\n  {\"provider\":\"esv\"}"), true, "json"},
		{"xml content", write("d.plan", "<plan/>"), true, "xml"},
		{"unknown content", write("e.plan", "provider: esv"), false, ""},
		{"empty file", write("f.plan", ""), false, ""},
		{"directory", dir, false, ""},
		{"missing", filepath.Join(dir, "missing.json"), false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Detect(tt.path)
			if err != nil {
				t.Fatalf("Detect() error: %v", err)
			}
			if res.Detected != tt.detected || res.Format != tt.format {
				t.Errorf("Detect() = %+v, want detected=%v format=%q", res, tt.detected, tt.format)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plan.json", "plan.xml", "plan.txt"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(path, samplePlan()); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if diff := cmp.Diff(samplePlan(), got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

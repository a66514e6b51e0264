package plan

import (
	"strings"

	"github.com/FocuswithJustin/chronoplan/core/errors"
)

// Provider identifies the source of a reading plan.
type Provider string

// Provider constants.
const (
	ProviderBLB       Provider = "blb"
	ProviderESV       Provider = "esv"
	ProviderLogos     Provider = "logos"
	ProviderApocrypha Provider = "apocrypha"
	ProviderBibleHub  Provider = "biblehub"
)

var providerNames = map[Provider]string{
	ProviderBLB:       "Blue Letter Bible",
	ProviderESV:       "ESV Chronological",
	ProviderLogos:     "Logos Academic",
	ProviderApocrypha: "Apocrypha & Pseudepigrapha",
	ProviderBibleHub:  "BibleHub Chronological",
}

// Providers returns every known provider in display order.
func Providers() []Provider {
	return []Provider{ProviderBLB, ProviderESV, ProviderLogos, ProviderApocrypha, ProviderBibleHub}
}

// DisplayName returns the human-readable provider name.
func (p Provider) DisplayName() string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return string(p)
}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	_, ok := providerNames[p]
	return ok
}

// ParseProvider parses a provider identifier, ignoring case and surrounding space.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", errors.NewValidation("provider", s, "unknown provider")
	}
	return p, nil
}

// DatingSystem is a convention for assigning calendar years to events.
type DatingSystem string

// Dating system constants.
const (
	YoungEarth   DatingSystem = "young-earth"
	Conservative DatingSystem = "conservative"
	Academic     DatingSystem = "academic"
)

// DatingSystems returns the three known conventions.
func DatingSystems() []DatingSystem {
	return []DatingSystem{YoungEarth, Conservative, Academic}
}

// Valid reports whether d is a known convention.
func (d DatingSystem) Valid() bool {
	switch d {
	case YoungEarth, Conservative, Academic:
		return true
	}
	return false
}

// ParseDatingSystem parses a convention name ("young-earth", "conservative", "academic").
func ParseDatingSystem(s string) (DatingSystem, error) {
	d := DatingSystem(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", errors.NewValidation("dating system", s, "expected young-earth, conservative or academic")
	}
	return d, nil
}

// Methodology describes how a provider orders its plan. It is fixed
// configuration per provider.
type Methodology struct {
	DatingSystem      DatingSystem `json:"datingSystem"`
	JobPlacement      string       `json:"jobPlacement"`
	PsalmsPlacement   string       `json:"psalmsPlacement"`
	ProphetsPlacement string       `json:"prophetsPlacement"`
	EpistlesPlacement string       `json:"epistlesPlacement"`
	Description       string       `json:"description,omitempty"`
}

var methodologies = map[Provider]Methodology{
	ProviderBLB: {
		DatingSystem:      Conservative,
		JobPlacement:      "after Genesis 11, in the patriarchal era",
		PsalmsPlacement:   "interleaved with the life of David",
		ProphetsPlacement: "interleaved with Kings and Chronicles",
		EpistlesPlacement: "within the narrative of Acts",
		Description:       "Traditional chronology following the Blue Letter Bible plan.",
	},
	ProviderESV: {
		DatingSystem:      Conservative,
		JobPlacement:      "after Genesis 11, in the patriarchal era",
		PsalmsPlacement:   "grouped by superscription with the events they describe",
		ProphetsPlacement: "interleaved with Kings and Chronicles",
		EpistlesPlacement: "within the narrative of Acts",
		Description:       "Chronology following the ESV Study Bible reading plan.",
	},
	ProviderLogos: {
		DatingSystem:      Academic,
		JobPlacement:      "post-exilic, as wisdom literature",
		PsalmsPlacement:   "by scholarly dating of each collection",
		ProphetsPlacement: "by critical dating of each oracle",
		EpistlesPlacement: "undisputed letters first, disputed letters late",
		Description:       "Critical-scholarship ordering from Logos academic resources.",
	},
	ProviderApocrypha: {
		DatingSystem:      Academic,
		JobPlacement:      "post-exilic, as wisdom literature",
		PsalmsPlacement:   "by scholarly dating of each collection",
		ProphetsPlacement: "by critical dating of each oracle",
		EpistlesPlacement: "after the intertestamental literature",
		Description:       "Canonical narrative with deuterocanonical and pseudepigraphal books placed in their settings.",
	},
	ProviderBibleHub: {
		DatingSystem:      YoungEarth,
		JobPlacement:      "before Abraham",
		PsalmsPlacement:   "interleaved with the life of David",
		ProphetsPlacement: "interleaved with Kings and Chronicles",
		EpistlesPlacement: "within the narrative of Acts",
		Description:       "Young-earth chronology following the BibleHub plan.",
	},
}

// MethodologyFor returns the fixed methodology record for a provider. Unknown
// providers get a zero record with the conservative dating system.
func MethodologyFor(p Provider) Methodology {
	if m, ok := methodologies[p]; ok {
		return m
	}
	return Methodology{DatingSystem: Conservative}
}

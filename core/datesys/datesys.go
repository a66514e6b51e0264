// Package datesys translates approximate dates between the young-earth,
// conservative and academic chronologies.
//
// The offsets are deliberately crude and linear: the goal is a consistent,
// reproducible translation for side-by-side display, not an authoritative
// date. Conversion never fails; strings without a "<year> BC|AD" pattern come
// back unchanged.
package datesys

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/chronoplan/core/plan"
)

// NotApplicable is the note attached to dates that carry no parseable year.
const NotApplicable = "Date conversion not applicable"

// Conversion is the result of translating one date string.
type Conversion struct {
	OriginalDate  string            `json:"originalDate"`
	TargetSystem  plan.DatingSystem `json:"targetSystem"`
	ConvertedDate string            `json:"convertedDate"`
	Notes         string            `json:"notes"`
}

// Rule is the arithmetic applied to the year for one (from, to) pair.
type Rule struct {
	Apply func(year int) int
	Notes string
}

// Pair is an ordered (from, to) combination of dating systems.
type Pair struct {
	From plan.DatingSystem
	To   plan.DatingSystem
}

func identity(year int) int { return year }

// DefaultRules returns the conversion table keyed by ordered pair.
func DefaultRules() map[Pair]Rule {
	return map[Pair]Rule{
		{plan.YoungEarth, plan.Academic}: {
			Apply: func(y int) int {
				if y > 4000 {
					return y - 2000
				}
				return y
			},
			Notes: "Young-earth dates before 4000 shifted 2000 years later for academic chronology",
		},
		{plan.Academic, plan.YoungEarth}: {
			Apply: func(y int) int {
				if y > 2000 {
					return min(y+2000, 4004)
				}
				return y
			},
			Notes: "Academic dates before 2000 shifted 2000 years earlier, capped at 4004 for young-earth chronology",
		},
		{plan.Conservative, plan.Academic}: {
			Apply: func(y int) int { return y - 500 },
			Notes: "Conservative dates shifted 500 years later for academic chronology",
		},
		{plan.Academic, plan.Conservative}: {
			Apply: func(y int) int { return y + 500 },
			Notes: "Academic dates shifted 500 years earlier for conservative chronology",
		},
		{plan.YoungEarth, plan.Conservative}: {
			Apply: identity,
			Notes: "Young-earth and conservative chronologies share dates for this period",
		},
		{plan.Conservative, plan.YoungEarth}: {
			Apply: identity,
			Notes: "Conservative and young-earth chronologies share dates for this period",
		},
	}
}

// Converter applies a rule table to date strings. It holds no mutable state.
type Converter struct {
	rules map[Pair]Rule
}

// New creates a Converter. A nil table selects DefaultRules.
func New(rules map[Pair]Rule) *Converter {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Converter{rules: rules}
}

var defaultConverter = New(nil)

// Convert translates originalDate using the default rule table.
func Convert(originalDate string, from, to plan.DatingSystem) Conversion {
	return defaultConverter.Convert(originalDate, from, to)
}

// Convert translates originalDate from one dating system to another. The era
// tag is carried over as written; only the year changes.
func (c *Converter) Convert(originalDate string, from, to plan.DatingSystem) Conversion {
	result := Conversion{
		OriginalDate:  originalDate,
		TargetSystem:  to,
		ConvertedDate: originalDate,
		Notes:         NotApplicable,
	}

	year, era, ok := FindYear(originalDate)
	if !ok {
		return result
	}

	rule, ok := c.rule(from, to)
	if !ok {
		result.Notes = "No conversion rule from " + string(from) + " to " + string(to)
		return result
	}

	result.ConvertedDate = strconv.Itoa(rule.Apply(year)) + " " + era
	result.Notes = rule.Notes
	return result
}

func (c *Converter) rule(from, to plan.DatingSystem) (Rule, bool) {
	if from == to && from.Valid() {
		return Rule{Apply: identity, Notes: "Same dating system; no conversion applied"}, true
	}
	r, ok := c.rules[Pair{From: from, To: to}]
	return r, ok
}

// dateLexer splits free text into years, era tags, whitespace and everything
// else. Era precedes Other so "BCE" yields an Era token followed by "E".
var dateLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Year", Pattern: `[0-9]+`},
	{Name: "Era", Pattern: `(?i:BC|AD)`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `[^0-9\s]`},
})

var (
	yearToken = dateLexer.Symbols()["Year"]
	eraToken  = dateLexer.Symbols()["Era"]
	wsToken   = dateLexer.Symbols()["Whitespace"]
)

// FindYear returns the first "<digits><optional space><BC|AD>" occurrence in
// s. The era is returned as written.
func FindYear(s string) (year int, era string, ok bool) {
	lex, err := dateLexer.LexString("", s)
	if err != nil {
		return 0, "", false
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return 0, "", false
	}

	for i, tok := range tokens {
		if tok.Type != yearToken {
			continue
		}
		j := i + 1
		if j < len(tokens) && tokens[j].Type == wsToken {
			j++
		}
		if j >= len(tokens) || tokens[j].Type != eraToken {
			continue
		}
		y, err := strconv.Atoi(tok.Value)
		if err != nil {
			continue
		}
		return y, tokens[j].Value, true
	}
	return 0, "", false
}

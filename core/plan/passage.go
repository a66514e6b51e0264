package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/chronoplan/core/errors"
)

// passageGrammar is the participle grammar for chapter-level references.
// Examples: "Genesis 1", "Genesis 1-3", "1 Kings 3", "Song of Solomon 2"
//
//nolint:govet // participle grammar tags are not standard struct tags
type passageGrammar struct {
	Number *int     `@Int?`
	Words  []string `@Ident+`
	Start  int      `@Int`
	End    *int     `( "-" @Int )?`
}

var passageLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Punct", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var passageParser = participle.MustBuild[passageGrammar](
	participle.Lexer(passageLexer),
	participle.Elide("Whitespace"),
)

// ParsePassage parses a chapter reference such as "1 Kings 3-4". The testament
// is filled from the canon table when the book is known.
func ParsePassage(s string) (BiblePassage, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BiblePassage{}, errors.NewParse("passage", "", "empty reference")
	}

	parsed, err := passageParser.ParseString("", s)
	if err != nil {
		return BiblePassage{}, errors.NewParse("passage", "", fmt.Sprintf("%q: %v", s, err))
	}

	book := strings.Join(parsed.Words, " ")
	if parsed.Number != nil {
		book = strconv.Itoa(*parsed.Number) + " " + book
	}

	p := BiblePassage{Book: book, ChapterStart: parsed.Start}
	if parsed.End != nil {
		if *parsed.End < parsed.Start {
			return BiblePassage{}, errors.NewParse("passage", "", "chapter range ends before it starts: "+strconv.Quote(s))
		}
		if *parsed.End != parsed.Start {
			p.ChapterEnd = *parsed.End
		}
	}
	if t, ok := TestamentOf(book); ok {
		p.Testament = t
	}
	return p, nil
}

// MustParsePassage is like ParsePassage but panics on error. Intended for
// tables and tests.
func MustParsePassage(s string) BiblePassage {
	p, err := ParsePassage(s)
	if err != nil {
		panic(err)
	}
	return p
}

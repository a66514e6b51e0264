package history

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
)

//go:embed history.yaml
var defaultTableYAML []byte

// Table holds chapter- and book-level historical contexts, all written in one
// native dating system.
type Table struct {
	NativeSystem plan.DatingSystem                 `yaml:"native_system"`
	Chapters     map[string]plan.HistoricalContext `yaml:"chapters"`
	Books        map[string]plan.HistoricalContext `yaml:"books"`
}

// LoadTable decodes a YAML table. Chapter keys must be "<book> <chapter>".
func LoadTable(r io.Reader) (*Table, error) {
	var t Table
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, &errors.ParseError{Format: "history table", Message: err.Error()}
	}
	if t.NativeSystem == "" {
		t.NativeSystem = plan.Conservative
	}
	if !t.NativeSystem.Valid() {
		return nil, errors.NewValidation("native_system", string(t.NativeSystem), "unknown dating system")
	}
	for key := range t.Chapters {
		p, err := plan.ParsePassage(key)
		if err != nil {
			return nil, errors.Wrapf(err, "history table chapter %q", key)
		}
		if p.Key() != key {
			return nil, errors.NewValidation("chapters", key, fmt.Sprintf("key must be written as %q", p.Key()))
		}
	}
	if t.Chapters == nil {
		t.Chapters = map[string]plan.HistoricalContext{}
	}
	if t.Books == nil {
		t.Books = map[string]plan.HistoricalContext{}
	}
	return &t, nil
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := LoadTable(bytes.NewReader(defaultTableYAML))
	if err != nil {
		panic(fmt.Sprintf("history: embedded table: %v", err))
	}
	return t
})

// DefaultTable returns the embedded table. Callers must not modify it.
func DefaultTable() *Table {
	return defaultTable()
}

// Package parallels annotates readings with known parallel passages, such as
// the synoptic gospels or the Samuel-Kings and Chronicles accounts.
package parallels

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
)

// NotePrefix starts every annotation added by the reconciler.
const NotePrefix = "Parallels: "

//go:embed parallels.yaml
var defaultTableYAML []byte

// Table maps "<book> <chapter>" to the citations of its parallels.
type Table struct {
	Parallels map[string][]string `yaml:"parallels"`
}

// LoadTable decodes a YAML table and checks that every key and citation is a
// chapter reference.
func LoadTable(r io.Reader) (*Table, error) {
	var t Table
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, &errors.ParseError{Format: "parallels table", Message: err.Error()}
	}
	for key, refs := range t.Parallels {
		if _, err := plan.ParsePassage(key); err != nil {
			return nil, errors.Wrapf(err, "parallels table key %q", key)
		}
		for _, ref := range refs {
			if _, err := plan.ParsePassage(ref); err != nil {
				return nil, errors.Wrapf(err, "parallels table entry %q", key)
			}
		}
	}
	if t.Parallels == nil {
		t.Parallels = map[string][]string{}
	}
	return &t, nil
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := LoadTable(bytes.NewReader(defaultTableYAML))
	if err != nil {
		panic(fmt.Sprintf("parallels: embedded table: %v", err))
	}
	return t
})

// DefaultTable returns the embedded table. Callers must not modify it.
func DefaultTable() *Table {
	return defaultTable()
}

// Reconciler adds parallel-passage notes to readings.
type Reconciler struct {
	table *Table
}

// New creates a Reconciler. A nil table selects the embedded one.
func New(table *Table) *Reconciler {
	if table == nil {
		table = DefaultTable()
	}
	return &Reconciler{table: table}
}

// Lookup returns the parallels recorded for a passage key.
func (r *Reconciler) Lookup(key string) []string {
	return r.table.Parallels[key]
}

// Note formats the annotation for a passage key, or "" if it has none.
func (r *Reconciler) Note(key string) string {
	refs := r.Lookup(key)
	if len(refs) == 0 {
		return ""
	}
	return NotePrefix + strings.Join(refs, ", ")
}

// Reconcile returns a copy of readings in which every passage with known
// parallels has the note appended to its ParallelEvents. Existing notes are
// kept, and a note already present is not added again, so reconciling twice
// gives the same result. The input is not modified.
func (r *Reconciler) Reconcile(readings []plan.DailyReading) []plan.DailyReading {
	out := plan.CloneReadings(readings)
	for i := range out {
		for j := range out[i].Passages {
			p := &out[i].Passages[j]
			note := r.Note(p.Key())
			if note == "" || contains(p.ParallelEvents, note) {
				continue
			}
			p.ParallelEvents = append(p.ParallelEvents, note)
		}
	}
	return out
}

// ReconcilePlan returns a copy of p with reconciled readings.
func (r *Reconciler) ReconcilePlan(p *plan.ReadingPlan) *plan.ReadingPlan {
	if p == nil {
		return nil
	}
	out := *p
	out.DailyReadings = r.Reconcile(p.DailyReadings)
	return &out
}

// Reconcile annotates readings using the embedded table.
func Reconcile(readings []plan.DailyReading) []plan.DailyReading {
	return New(nil).Reconcile(readings)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

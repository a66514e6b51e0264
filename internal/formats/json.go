package formats

import (
	"encoding/json"
	"io"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
)

// JSON handles .json plan files.
type JSON struct{}

func (JSON) Name() string         { return "json" }
func (JSON) Extensions() []string { return []string{".json"} }

func (JSON) Decode(r io.Reader) (*plan.ReadingPlan, error) {
	var p plan.ReadingPlan
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, errors.NewParse("json", "", err.Error())
	}
	if err := normalize("json", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (JSON) Encode(w io.Writer, p *plan.ReadingPlan) error {
	if p == nil {
		return errors.NewValidation("plan", "", "plan is nil")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// Package formats reads and writes reading plan files.
//
// Two encodings are supported: JSON, using the camelCase field names of the
// plan package, and a compact XML form:
//
//	<plan provider="esv" name="...">
//	  <methodology dating-system="conservative" .../>
//	  <day n="1" minutes="12">
//	    <context period="Primeval History" date="Before Time">...</context>
//	    <passage book="Genesis" start="1" end="3" testament="old">
//	      <parallel>Parallels: ...</parallel>
//	    </passage>
//	  </day>
//	</plan>
package formats

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
)

// Handler encodes and decodes one plan file format.
type Handler interface {
	Name() string
	Extensions() []string
	Decode(r io.Reader) (*plan.ReadingPlan, error)
	Encode(w io.Writer, p *plan.ReadingPlan) error
}

// DetectResult reports which format a file appears to be in.
type DetectResult struct {
	Detected bool   `json:"detected"`
	Format   string `json:"format,omitempty"`
	Reason   string `json:"reason"`
}

var handlers = []Handler{JSON{}, XML{}}

// Handlers returns the registered handlers.
func Handlers() []Handler {
	return append([]Handler(nil), handlers...)
}

// Lookup returns the handler with the given name ("json" or "xml").
func Lookup(name string) (Handler, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, h := range handlers {
		if h.Name() == name {
			return h, nil
		}
	}
	return nil, errors.NewUnsupported("plan format "+name, "supported formats are json and xml")
}

// ForPath picks a handler from the file extension.
func ForPath(path string) (Handler, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, h := range handlers {
		for _, e := range h.Extensions() {
			if ext == e {
				return h, true
			}
		}
	}
	return nil, false
}

// Sniff picks a handler from the first non-blank byte of data.
func Sniff(data []byte) (Handler, bool) {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return nil, false
	}
	switch trimmed[0] {
	case '{':
		return JSON{}, true
	case '<':
		return XML{}, true
	}
	return nil, false
}

// Detect inspects a file by extension, then by content.
func Detect(path string) (*DetectResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return &DetectResult{Reason: "cannot stat: " + err.Error()}, nil
	}
	if info.IsDir() {
		return &DetectResult{Reason: "path is a directory, not a file"}, nil
	}
	if h, ok := ForPath(path); ok {
		return &DetectResult{Detected: true, Format: h.Name(), Reason: "extension " + filepath.Ext(path)}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()
	head, err := bufio.NewReader(f).Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.NewIO("read", path, err)
	}
	if h, ok := Sniff(head); ok {
		return &DetectResult{Detected: true, Format: h.Name(), Reason: "content looks like " + h.Name()}, nil
	}
	return &DetectResult{Reason: "unrecognized content"}, nil
}

// Load reads a plan file, choosing the format with Detect.
func Load(path string) (*plan.ReadingPlan, error) {
	res, err := Detect(path)
	if err != nil {
		return nil, err
	}
	if !res.Detected {
		return nil, errors.NewParse("plan", path, res.Reason)
	}
	h, err := Lookup(res.Format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	p, err := h.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return p, nil
}

// Save writes p to path in the format implied by the extension. Unknown
// extensions are written as JSON.
func Save(path string, p *plan.ReadingPlan) error {
	h, ok := ForPath(path)
	if !ok {
		h = JSON{}
	}
	var buf bytes.Buffer
	if err := h.Encode(&buf, p); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// normalize checks a decoded plan and fills what a file may omit: the
// provider's methodology and each passage's testament.
func normalize(format string, p *plan.ReadingPlan) error {
	if p.Provider == "" {
		return errors.NewParse(format, "", "plan has no provider")
	}
	p.Provider = plan.Provider(strings.ToLower(strings.TrimSpace(string(p.Provider))))
	if p.Methodology.DatingSystem == "" && p.Provider.Valid() {
		desc := p.Methodology.Description
		p.Methodology = plan.MethodologyFor(p.Provider)
		if desc != "" {
			p.Methodology.Description = desc
		}
	}
	for i := range p.DailyReadings {
		for j := range p.DailyReadings[i].Passages {
			ps := &p.DailyReadings[i].Passages[j]
			if ps.Testament == "" {
				if t, ok := plan.TestamentOf(ps.Book); ok {
					ps.Testament = t
				}
			}
		}
	}
	return nil
}

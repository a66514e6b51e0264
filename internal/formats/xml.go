package formats

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
)

var (
	planExpr        = xpath.MustCompile("/plan")
	methodologyExpr = xpath.MustCompile("methodology")
	dayExpr         = xpath.MustCompile("day")
	contextExpr     = xpath.MustCompile("context")
	passageExpr     = xpath.MustCompile("passage")
	parallelExpr    = xpath.MustCompile("parallel")
)

// XML handles .xml plan files.
type XML struct{}

func (XML) Name() string         { return "xml" }
func (XML) Extensions() []string { return []string{".xml"} }

func (XML) Decode(r io.Reader) (*plan.ReadingPlan, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.NewParse("xml", "", err.Error())
	}
	root := xmlquery.QuerySelector(doc, planExpr)
	if root == nil {
		return nil, errors.NewParse("xml", "", "missing <plan> root element")
	}

	p := &plan.ReadingPlan{
		Provider: plan.Provider(root.SelectAttr("provider")),
		Name:     root.SelectAttr("name"),
	}
	if m := xmlquery.QuerySelector(root, methodologyExpr); m != nil {
		p.Methodology = plan.Methodology{
			DatingSystem:      plan.DatingSystem(m.SelectAttr("dating-system")),
			JobPlacement:      m.SelectAttr("job"),
			PsalmsPlacement:   m.SelectAttr("psalms"),
			ProphetsPlacement: m.SelectAttr("prophets"),
			EpistlesPlacement: m.SelectAttr("epistles"),
			Description:       strings.TrimSpace(m.InnerText()),
		}
	}

	for _, d := range xmlquery.QuerySelectorAll(root, dayExpr) {
		reading, err := decodeDay(d)
		if err != nil {
			return nil, err
		}
		p.DailyReadings = append(p.DailyReadings, reading)
	}

	if err := normalize("xml", p); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeDay(d *xmlquery.Node) (plan.DailyReading, error) {
	var r plan.DailyReading
	var err error
	if r.Day, err = intAttr(d, "day", "n", true); err != nil {
		return r, err
	}
	if r.ReadingTimeMinutes, err = intAttr(d, "day", "minutes", false); err != nil {
		return r, err
	}
	if c := xmlquery.QuerySelector(d, contextExpr); c != nil {
		r.HistoricalContext = &plan.HistoricalContext{
			Period:          c.SelectAttr("period"),
			ApproximateDate: c.SelectAttr("date"),
			Description:     strings.TrimSpace(c.InnerText()),
		}
	}
	for _, n := range xmlquery.QuerySelectorAll(d, passageExpr) {
		ps := plan.BiblePassage{
			Book:      n.SelectAttr("book"),
			Testament: plan.Testament(n.SelectAttr("testament")),
		}
		if ps.Book == "" {
			return r, errors.NewParse("xml", "", fmt.Sprintf("day %d: passage without book", r.Day))
		}
		if ps.ChapterStart, err = intAttr(n, "passage", "start", true); err != nil {
			return r, err
		}
		if ps.ChapterEnd, err = intAttr(n, "passage", "end", false); err != nil {
			return r, err
		}
		for _, pe := range xmlquery.QuerySelectorAll(n, parallelExpr) {
			ps.ParallelEvents = append(ps.ParallelEvents, strings.TrimSpace(pe.InnerText()))
		}
		r.Passages = append(r.Passages, ps)
	}
	return r, nil
}

func intAttr(n *xmlquery.Node, elem, name string, required bool) (int, error) {
	s := strings.TrimSpace(n.SelectAttr(name))
	if s == "" {
		if required {
			return 0, errors.NewParse("xml", "", fmt.Sprintf("<%s> missing %q attribute", elem, name))
		}
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewParse("xml", "", fmt.Sprintf("<%s %s=%q>: not an integer", elem, name, s))
	}
	return v, nil
}

type xmlPlan struct {
	XMLName     xml.Name        `xml:"plan"`
	Provider    string          `xml:"provider,attr"`
	Name        string          `xml:"name,attr,omitempty"`
	Methodology *xmlMethodology `xml:"methodology"`
	Days        []xmlDay        `xml:"day"`
}

type xmlMethodology struct {
	DatingSystem string `xml:"dating-system,attr"`
	Job          string `xml:"job,attr,omitempty"`
	Psalms       string `xml:"psalms,attr,omitempty"`
	Prophets     string `xml:"prophets,attr,omitempty"`
	Epistles     string `xml:"epistles,attr,omitempty"`
	Description  string `xml:",chardata"`
}

type xmlDay struct {
	N        int          `xml:"n,attr"`
	Minutes  int          `xml:"minutes,attr"`
	Context  *xmlContext  `xml:"context"`
	Passages []xmlPassage `xml:"passage"`
}

type xmlContext struct {
	Period      string `xml:"period,attr"`
	Date        string `xml:"date,attr"`
	Description string `xml:",chardata"`
}

type xmlPassage struct {
	Book      string   `xml:"book,attr"`
	Start     int      `xml:"start,attr"`
	End       int      `xml:"end,attr,omitempty"`
	Testament string   `xml:"testament,attr,omitempty"`
	Parallels []string `xml:"parallel"`
}

func (XML) Encode(w io.Writer, p *plan.ReadingPlan) error {
	if p == nil {
		return errors.NewValidation("plan", "", "plan is nil")
	}
	out := xmlPlan{Provider: string(p.Provider), Name: p.Name}
	if m := p.Methodology; m.DatingSystem != "" {
		out.Methodology = &xmlMethodology{
			DatingSystem: string(m.DatingSystem),
			Job:          m.JobPlacement,
			Psalms:       m.PsalmsPlacement,
			Prophets:     m.ProphetsPlacement,
			Epistles:     m.EpistlesPlacement,
			Description:  m.Description,
		}
	}
	for _, r := range p.DailyReadings {
		d := xmlDay{N: r.Day, Minutes: r.ReadingTimeMinutes}
		if hc := r.HistoricalContext; hc != nil {
			d.Context = &xmlContext{Period: hc.Period, Date: hc.ApproximateDate, Description: hc.Description}
		}
		for _, ps := range r.Passages {
			d.Passages = append(d.Passages, xmlPassage{
				Book:      ps.Book,
				Start:     ps.ChapterStart,
				End:       ps.ChapterEnd,
				Testament: string(ps.Testament),
				Parallels: ps.ParallelEvents,
			})
		}
		out.Days = append(out.Days, d)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

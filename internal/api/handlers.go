package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/FocuswithJustin/chronoplan/core/compare"
	cperrors "github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
	"github.com/FocuswithJustin/chronoplan/internal/logging"
	"github.com/FocuswithJustin/chronoplan/internal/validation"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// PlanInfo summarizes a plan in listings.
type PlanInfo struct {
	Provider    plan.Provider    `json:"provider"`
	Title       string           `json:"title"`
	Days        int              `json:"days"`
	Methodology plan.Methodology `json:"methodology"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Plans   int    `json:"plans"`
}

// ContextResult answers a historical context query.
type ContextResult struct {
	Book         string                 `json:"book"`
	Chapter      int                    `json:"chapter"`
	DatingSystem plan.DatingSystem      `json:"datingSystem"`
	Context      plan.HistoricalContext `json:"context"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"name":    "chronoplan API",
		"version": s.cfg.Version,
		"endpoints": []string{
			"/health",
			"/plans",
			"/plans/{provider}",
			"/plans/{provider}/stats",
			"/plans/{provider}/validate",
			"/compare?a=&b=",
			"/compare/all",
			"/context?book=&chapter=&system=",
			"/convert?date=&from=&to=",
			"/parallels/{provider}",
			"/ws/compare?a=&b=",
		},
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	plans, err := s.listPlans(r.Context())
	status := "healthy"
	if err != nil {
		logging.ErrorContext(r.Context(), "health check: list plans", "error", err)
		status = "degraded"
	}
	respond(w, http.StatusOK, HealthInfo{
		Status:  status,
		Version: s.cfg.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Plans:   len(plans),
	})
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.listPlans(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	infos := make([]PlanInfo, 0, len(plans))
	for _, p := range plans {
		infos = append(infos, PlanInfo{
			Provider:    p.Provider,
			Title:       p.Title(),
			Days:        p.Len(),
			Methodology: p.Methodology,
		})
	}
	respondList(w, infos, len(infos))
}

// handlePlan returns the stored plan. With ?system= the readings carry
// historical contexts dated in that system.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.planFromPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if raw := r.URL.Query().Get("system"); raw != "" {
		system, err := plan.ParseDatingSystem(raw)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		p = s.history.Enrich(p, system)
	}
	respond(w, http.StatusOK, p)
}

func (s *Server) handlePlanStats(w http.ResponseWriter, r *http.Request) {
	p, err := s.planFromPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, p.Stats())
}

func (s *Server) handlePlanValidate(w http.ResponseWriter, r *http.Request) {
	p, err := s.planFromPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, p.Validate())
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	c, err := s.comparison(r.Context(), r.URL.Query().Get("a"), r.URL.Query().Get("b"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if r.URL.Query().Get("summary") == "true" {
		respond(w, http.StatusOK, compare.Summarize(c))
		return
	}
	respondList(w, c, c.TotalDifferences)
}

// handleCompareAll returns a summary for every pair of stored plans.
func (s *Server) handleCompareAll(w http.ResponseWriter, r *http.Request) {
	plans, err := s.listPlans(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	comparisons := compare.CompareAll(plans)
	summaries := make([]compare.Summary, 0, len(comparisons))
	for _, c := range comparisons {
		summaries = append(summaries, compare.Summarize(c))
	}
	respondList(w, summaries, len(summaries))
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	book := q.Get("book")
	if err := requireParam("book", book); err != nil {
		s.fail(w, r, err)
		return
	}
	chapter, err := strconv.Atoi(q.Get("chapter"))
	if err != nil || chapter < 1 {
		s.fail(w, r, cperrors.NewValidation("chapter", q.Get("chapter"), "must be a positive integer"))
		return
	}
	system, err := s.systemParam(q.Get("system"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, ContextResult{
		Book:         book,
		Chapter:      chapter,
		DatingSystem: system,
		Context:      s.history.Context(book, chapter, system),
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	if err := requireParam("date", date); err != nil {
		s.fail(w, r, err)
		return
	}
	from, err := plan.ParseDatingSystem(q.Get("from"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	to, err := plan.ParseDatingSystem(q.Get("to"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, s.converter.Convert(date, from, to))
}

// handleParallels returns the plan's readings annotated with their synoptic
// and historical parallels.
func (s *Server) handleParallels(w http.ResponseWriter, r *http.Request) {
	p, err := s.planFromPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	readings := s.reconciler.Reconcile(p.DailyReadings)
	respondList(w, readings, len(readings))
}

// listPlans returns every stored plan, cached for CacheTTL. Callers must not
// modify the returned plans.
func (s *Server) listPlans(ctx context.Context) ([]*plan.ReadingPlan, error) {
	return s.plans.GetOrLoad("all", func() ([]*plan.ReadingPlan, error) {
		return s.store.List(ctx)
	})
}

func (s *Server) getPlan(ctx context.Context, raw string) (*plan.ReadingPlan, error) {
	provider, err := plan.ParseProvider(raw)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, provider)
}

func (s *Server) planFromPath(r *http.Request) (*plan.ReadingPlan, error) {
	return s.getPlan(r.Context(), r.PathValue("provider"))
}

// comparison loads both plans and diffs them, caching by provider pair.
func (s *Server) comparison(ctx context.Context, rawA, rawB string) (compare.Comparison, error) {
	if err := requireParam("a", rawA); err != nil {
		return compare.Comparison{}, err
	}
	if err := requireParam("b", rawB); err != nil {
		return compare.Comparison{}, err
	}
	a, err := s.getPlan(ctx, rawA)
	if err != nil {
		return compare.Comparison{}, err
	}
	b, err := s.getPlan(ctx, rawB)
	if err != nil {
		return compare.Comparison{}, err
	}
	key := string(a.Provider) + "|" + string(b.Provider)
	return s.comparisons.GetOrLoad(key, func() (compare.Comparison, error) {
		c := compare.Compare(a, b)
		logging.ComparisonComputed(ctx, string(a.Provider), string(b.Provider), c.TotalDifferences)
		return c, nil
	})
}

// systemParam parses an optional dating system, defaulting to the configured one.
func (s *Server) systemParam(raw string) (plan.DatingSystem, error) {
	if raw == "" {
		return s.cfg.DatingSystem, nil
	}
	return plan.ParseDatingSystem(raw)
}

func requireParam(name, value string) error {
	if value == "" {
		return cperrors.NewValidation(name, "", "parameter is required")
	}
	return validation.ValidateParam(name, value)
}

// fail maps err onto a status code and error code. Unexpected errors are
// logged and reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case cperrors.Is(err, cperrors.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case cperrors.Is(err, cperrors.ErrInvalidInput), cperrors.Is(err, validation.ErrInvalidParam):
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case cperrors.Is(err, cperrors.ErrUnsupported):
		respondError(w, http.StatusBadRequest, "UNSUPPORTED", err.Error())
	default:
		logging.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func respond(w http.ResponseWriter, status int, data any) {
	writeResponse(w, status, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Timestamp: timestamp()},
	})
}

func respondList(w http.ResponseWriter, data any, total int) {
	writeResponse(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Total: total, Timestamp: timestamp()},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeResponse(w, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
		Meta:    &APIMeta{Timestamp: timestamp()},
	})
}

func writeResponse(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.Warn("failed to encode response", "error", err)
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Package store persists reading plans, one plan per provider.
package store

import (
	"context"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
)

// Store holds reading plans keyed by provider. Implementations are safe for
// concurrent use and never hand out plans that alias their own state.
type Store interface {
	// List returns every plan ordered by provider.
	List(ctx context.Context) ([]*plan.ReadingPlan, error)
	// Get returns the plan for provider or a NotFoundError.
	Get(ctx context.Context, provider plan.Provider) (*plan.ReadingPlan, error)
	// Put stores p, replacing any plan with the same provider.
	Put(ctx context.Context, p *plan.ReadingPlan) error
	// Delete removes the plan for provider or returns a NotFoundError.
	Delete(ctx context.Context, provider plan.Provider) error
	Close() error
}

// PutAll stores every plan in order, stopping at the first failure.
func PutAll(ctx context.Context, s Store, plans []*plan.ReadingPlan) error {
	for _, p := range plans {
		if err := s.Put(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Open returns a SQLite store at path, or an in-memory store when path is
// empty.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemory(), nil
	}
	s, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func checkPut(p *plan.ReadingPlan) error {
	if p == nil {
		return errors.NewValidation("plan", "", "plan is nil")
	}
	if p.Provider == "" {
		return errors.NewValidation("provider", "", "provider is required")
	}
	return nil
}

func notFound(provider plan.Provider) error {
	return errors.NewNotFound("plan", string(provider))
}

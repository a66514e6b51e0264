package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/FocuswithJustin/chronoplan/core/plan"
)

// Memory is a map-backed Store.
type Memory struct {
	mu    sync.RWMutex
	plans map[plan.Provider]*plan.ReadingPlan
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{plans: make(map[plan.Provider]*plan.ReadingPlan)}
}

func (m *Memory) List(ctx context.Context) ([]*plan.ReadingPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*plan.ReadingPlan, 0, len(m.plans))
	for _, p := range m.plans {
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, func(a, b *plan.ReadingPlan) int {
		return strings.Compare(string(a.Provider), string(b.Provider))
	})
	return out, nil
}

func (m *Memory) Get(ctx context.Context, provider plan.Provider) (*plan.ReadingPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plans[provider]
	if !ok {
		return nil, notFound(provider)
	}
	return p.Clone(), nil
}

func (m *Memory) Put(ctx context.Context, p *plan.ReadingPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkPut(p); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plans[p.Provider] = p.Clone()
	return nil
}

func (m *Memory) Delete(ctx context.Context, provider plan.Provider) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plans[provider]; !ok {
		return notFound(provider)
	}
	delete(m.plans, provider)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Package embedded ships a seed reading plan for every provider.
package embedded

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"slices"
	"sync"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
	"github.com/FocuswithJustin/chronoplan/core/store"
	"github.com/FocuswithJustin/chronoplan/internal/formats"
)

//go:embed data
var dataFS embed.FS

var loadPlans = sync.OnceValues(func() ([]*plan.ReadingPlan, error) {
	return decodeAll(dataFS, "data")
})

func decodeAll(fsys fs.FS, dir string) ([]*plan.ReadingPlan, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.NewIO("read embedded plans", dir, err)
	}
	var plans []*plan.ReadingPlan
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := path.Join(dir, e.Name())
		h, ok := formats.ForPath(name)
		if !ok {
			continue
		}
		f, err := fsys.Open(name)
		if err != nil {
			return nil, errors.NewIO("open embedded plan", name, err)
		}
		p, err := h.Decode(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "embedded plan %s", name)
		}
		plans = append(plans, p)
	}
	slices.SortFunc(plans, func(a, b *plan.ReadingPlan) int {
		return providerRank(a.Provider) - providerRank(b.Provider)
	})
	return plans, nil
}

func providerRank(p plan.Provider) int {
	if i := slices.Index(plan.Providers(), p); i >= 0 {
		return i
	}
	return len(plan.Providers())
}

// Plans returns copies of the seed plans in provider order.
func Plans() ([]*plan.ReadingPlan, error) {
	plans, err := loadPlans()
	if err != nil {
		return nil, err
	}
	out := make([]*plan.ReadingPlan, len(plans))
	for i, p := range plans {
		out[i] = p.Clone()
	}
	return out, nil
}

// Plan returns a copy of the seed plan for one provider.
func Plan(provider plan.Provider) (*plan.ReadingPlan, error) {
	plans, err := loadPlans()
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		if p.Provider == provider {
			return p.Clone(), nil
		}
	}
	return nil, errors.NewNotFound("seed plan", string(provider))
}

// Seed stores every seed plan in s and returns how many were written.
func Seed(ctx context.Context, s store.Store) (int, error) {
	plans, err := Plans()
	if err != nil {
		return 0, err
	}
	if err := store.PutAll(ctx, s, plans); err != nil {
		return 0, err
	}
	return len(plans), nil
}

package core

import (
	"fmt"
	"sync"

	"github.com/tilecraft/shieldgen/model"
)

// Thinner filters a point set so that, within each group, no two retained
// points are closer than Radius. Selection is greedy in input order: a
// candidate is kept iff it is at least Radius away from every point already
// kept in its group. Greedy is not maximal, and is not meant to be; what
// matters is that identical input always selects the identical subset.
type Thinner struct {
	Radius float64

	// GroupKey partitions points; thinning runs independently per key.
	// Nil keys on the label, which is the production grouping.
	GroupKey func(model.Point) string

	// Parallel thins distinct groups concurrently. Each group owns its
	// accepted set and grid, so this cannot change the outcome.
	Parallel bool
}

// NewThinner validates the radius and returns a label-grouped Thinner.
func NewThinner(radius float64) (*Thinner, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("thinning radius must be positive, got %v: %w", radius, ErrInvalidParameter)
	}
	return &Thinner{Radius: radius}, nil
}

// Thin returns the retained subset of points, in input order, coordinates
// untouched. An empty input yields an empty output. A point with an empty
// group key fails the run.
func (t *Thinner) Thin(points model.PointSet) (model.PointSet, error) {
	if t.Radius <= 0 {
		return nil, fmt.Errorf("thinning radius must be positive, got %v: %w", t.Radius, ErrInvalidParameter)
	}
	if len(points) == 0 {
		return model.PointSet{}, nil
	}

	key := t.GroupKey
	if key == nil {
		key = func(p model.Point) string { return p.Label }
	}

	groups := make(map[string][]int)
	for i := range points {
		k := key(points[i])
		if k == "" {
			return nil, fmt.Errorf("point %d has an empty group key: %w", i, ErrInvalidInput)
		}
		groups[k] = append(groups[k], i)
	}

	// Groups write to disjoint indices of keep, so the parallel path needs
	// no locking beyond the WaitGroup.
	keep := make([]bool, len(points))
	thinGroup := func(idx []int) {
		grid := newGridIndex(t.Radius)
		for _, i := range idx {
			if grid.hasWithin(points[i].Coord, t.Radius) {
				continue
			}
			grid.insert(points[i].Coord)
			keep[i] = true
		}
	}

	if t.Parallel {
		var wg sync.WaitGroup
		for _, idx := range groups {
			wg.Add(1)
			go func(idx []int) {
				defer wg.Done()
				thinGroup(idx)
			}(idx)
		}
		wg.Wait()
	} else {
		for _, idx := range groups {
			thinGroup(idx)
		}
	}

	out := make(model.PointSet, 0, len(points))
	for i := range points {
		if keep[i] {
			out = append(out, points[i])
		}
	}
	return out, nil
}

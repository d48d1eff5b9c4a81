package core

import (
	"fmt"

	"github.com/tilecraft/shieldgen/model"
)

// NodeGenerator converts line features into a dense point set by walking
// every part of every feature at a fixed interval. Each emitted point
// inherits its feature's label, shield type, and region, and starts with the
// unreviewed curation tag.
type NodeGenerator struct {
	Interval float64

	// SkipInvalid makes Generate skip features that fail validation instead
	// of failing the whole run. The default (fail) is deliberate: a feature
	// without a label means the classification step upstream is broken and
	// should be fixed there, not masked here.
	SkipInvalid bool
}

// NewNodeGenerator validates the interval and returns a generator.
func NewNodeGenerator(interval float64) (*NodeGenerator, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sampling interval must be positive, got %v: %w", interval, ErrInvalidParameter)
	}
	return &NodeGenerator{Interval: interval}, nil
}

// Generate produces one point set covering all features, in feature order
// then sample order. The distance accumulator restarts at the beginning of
// each part, so no sample's arc position ever exceeds its own part's length.
// Input features are never mutated.
func (g *NodeGenerator) Generate(features []model.LineFeature) (model.PointSet, error) {
	walker, err := NewWalker(g.Interval)
	if err != nil {
		return nil, err
	}

	out := model.PointSet{}
	for i := range features {
		f := &features[i]
		if f.Label == "" {
			if g.SkipInvalid {
				continue
			}
			return nil, fmt.Errorf("feature %d (ref %q) has no label: %w", i, f.Ref, ErrInvalidInput)
		}
		for _, part := range f.Geometry {
			for _, coord := range walker.Walk(part) {
				out = append(out, model.Point{
					Coord:      coord,
					Label:      f.Label,
					ShieldType: f.ShieldType,
					Region:     f.Region,
					Processed:  model.ProcessedUnreviewed,
				})
			}
		}
	}
	return out, nil
}

package core

import (
	"fmt"

	"github.com/tilecraft/shieldgen/model"
)

// Band pairs a thinning radius with the zoom level its output serves.
type Band struct {
	Radius float64
	Zoom   int
}

// DefaultBands is the production radius ladder. Each band's input is the
// previous band's output, so the ladder must shrink point counts as radii
// grow.
var DefaultBands = []Band{
	{Radius: 4000, Zoom: 13},
	{Radius: 8000, Zoom: 12},
	{Radius: 16000, Zoom: 11},
	{Radius: 30000, Zoom: 10},
	{Radius: 50000, Zoom: 9},
}

// BandResult is one band's zoom-tagged output layer. Input is the size of
// the point set the band thinned, so listeners can compute discard counts.
type BandResult struct {
	Band   Band
	Points model.PointSet
	Input  int
}

// Pipeline chains node generation and per-band thinning. The core stays
// stateless across runs; a Pipeline is cheap and safe to reuse.
type Pipeline struct {
	Interval    float64
	Bands       []Band
	GroupKey    func(model.Point) string
	SkipInvalid bool
	Parallel    bool

	listeners []func(BandResult)
}

// NewPipeline validates the interval and every band radius up front.
func NewPipeline(interval float64, bands []Band) (*Pipeline, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sampling interval must be positive, got %v: %w", interval, ErrInvalidParameter)
	}
	for _, b := range bands {
		if b.Radius <= 0 {
			return nil, fmt.Errorf("band z%d: thinning radius must be positive, got %v: %w", b.Zoom, b.Radius, ErrInvalidParameter)
		}
	}
	return &Pipeline{Interval: interval, Bands: bands}, nil
}

// RegisterBandListener adds a callback fired after each band completes.
// Listeners receive the tagged layer; hooks for metrics, progress, and sinks
// attach here.
func (p *Pipeline) RegisterBandListener(fn func(BandResult)) {
	p.listeners = append(p.listeners, fn)
}

// Run generates the dense node set once, then thins it through every band in
// order, feeding each band's output into the next. It returns the dense set
// and one tagged layer per band. Zoom tags live only on the returned layers;
// the chained intermediate sets stay untagged.
func (p *Pipeline) Run(features []model.LineFeature) (model.PointSet, []BandResult, error) {
	gen := &NodeGenerator{Interval: p.Interval, SkipInvalid: p.SkipInvalid}
	dense, err := gen.Generate(features)
	if err != nil {
		return nil, nil, fmt.Errorf("node generation: %w", err)
	}

	current := dense
	results := make([]BandResult, 0, len(p.Bands))
	for _, band := range p.Bands {
		thinner := &Thinner{Radius: band.Radius, GroupKey: p.GroupKey, Parallel: p.Parallel}
		thinned, err := thinner.Thin(current)
		if err != nil {
			return nil, nil, fmt.Errorf("thinning band z%d: %w", band.Zoom, err)
		}

		tagged := make(model.PointSet, len(thinned))
		for i, pt := range thinned {
			pt.Zoom = band.Zoom
			tagged[i] = pt
		}

		res := BandResult{Band: band, Points: tagged, Input: len(current)}
		for _, fn := range p.listeners {
			fn(res)
		}
		results = append(results, res)
		current = thinned
	}
	return dense, results, nil
}

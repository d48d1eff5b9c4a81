package core

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/tilecraft/shieldgen/model"
)

func TestNodeGenerator_AttachesAttributes(t *testing.T) {
	gen := &NodeGenerator{Interval: 2000}
	features := []model.LineFeature{{
		Geometry:   orb.MultiLineString{{{0, 0}, {6000, 0}}},
		Label:      "90",
		ShieldType: "I",
		Region:     model.RegionUSA,
	}}

	points, err := gen.Generate(features)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("Generate returned %d points, want 3", len(points))
	}
	for i, p := range points {
		if p.Label != "90" || p.ShieldType != "I" || p.Region != model.RegionUSA {
			t.Fatalf("point %d attributes = %+v, want label 90, shield I, region USA", i, p)
		}
		if p.Processed != model.ProcessedUnreviewed {
			t.Fatalf("point %d processed = %q, want %q", i, p.Processed, model.ProcessedUnreviewed)
		}
		if p.Zoom != 0 {
			t.Fatalf("point %d zoom = %d, want 0 on the dense layer", i, p.Zoom)
		}
	}
}

func TestNodeGenerator_MultiPartResetsDistance(t *testing.T) {
	// Two disjoint parts. The accumulator restarts at each part's first
	// coordinate; no residual distance carries over.
	gen := &NodeGenerator{Interval: 2000}
	features := []model.LineFeature{{
		Geometry: orb.MultiLineString{
			{{0, 0}, {4999, 0}},        // samples at x=0, 2000, 4000
			{{100000, 0}, {103000, 0}}, // samples at x=100000, 102000
		},
		Label:  "5",
		Region: model.RegionUSA,
	}}

	points, err := gen.Generate(features)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(points) != 5 {
		t.Fatalf("Generate returned %d points, want 5", len(points))
	}
	if planar.Distance(points[0].Coord, orb.Point{0, 0}) != 0 {
		t.Fatalf("first sample of part 1 = %v, want its start coordinate", points[0].Coord)
	}
	if planar.Distance(points[3].Coord, orb.Point{100000, 0}) != 0 {
		t.Fatalf("first sample of part 2 = %v, want its start coordinate", points[3].Coord)
	}
}

func TestNodeGenerator_MissingLabelFailsRun(t *testing.T) {
	gen := &NodeGenerator{Interval: 2000}
	features := []model.LineFeature{
		{Geometry: orb.MultiLineString{{{0, 0}, {6000, 0}}}, Label: "90"},
		{Geometry: orb.MultiLineString{{{0, 0}, {6000, 0}}}, Ref: "I-5"},
	}

	if _, err := gen.Generate(features); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Generate error = %v, want ErrInvalidInput", err)
	}
}

func TestNodeGenerator_SkipInvalid(t *testing.T) {
	gen := &NodeGenerator{Interval: 2000, SkipInvalid: true}
	features := []model.LineFeature{
		{Geometry: orb.MultiLineString{{{0, 0}, {6000, 0}}}},
		{Geometry: orb.MultiLineString{{{0, 0}, {6000, 0}}}, Label: "90"},
	}

	points, err := gen.Generate(features)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("Generate returned %d points, want 3 from the labelled feature only", len(points))
	}
}

func TestNodeGenerator_DegenerateGeometryYieldsNoPoints(t *testing.T) {
	gen := &NodeGenerator{Interval: 2000}
	features := []model.LineFeature{{
		Geometry: orb.MultiLineString{{{5, 5}}},
		Label:    "90",
	}}

	points, err := gen.Generate(features)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("Generate returned %d points for degenerate geometry, want 0", len(points))
	}
}

func TestNodeGenerator_RejectsNonPositiveInterval(t *testing.T) {
	gen := &NodeGenerator{Interval: 0}
	if _, err := gen.Generate(nil); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Generate error = %v, want ErrInvalidParameter", err)
	}
}

func TestNodeGenerator_DoesNotMutateInput(t *testing.T) {
	gen := &NodeGenerator{Interval: 2000}
	features := []model.LineFeature{{
		Geometry: orb.MultiLineString{{{0, 0}, {6000, 0}}},
		Label:    "90",
	}}
	before := features[0]

	if _, err := gen.Generate(features); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if features[0].Label != before.Label || len(features[0].Geometry) != len(before.Geometry) {
		t.Fatalf("Generate mutated its input: %+v", features[0])
	}
}

package core

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/tilecraft/shieldgen/model"
)

func labelledPoint(label string, x, y float64) model.Point {
	return model.Point{
		Coord:     orb.Point{x, y},
		Label:     label,
		Processed: model.ProcessedUnreviewed,
	}
}

func TestNewThinner_RejectsNonPositiveRadius(t *testing.T) {
	for _, radius := range []float64{0, -4000} {
		if _, err := NewThinner(radius); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("NewThinner(%v) error = %v, want ErrInvalidParameter", radius, err)
		}
	}
}

func TestThinner_SeparationThreshold(t *testing.T) {
	th := &Thinner{Radius: 4000}

	// Just under the radius: second point rejected.
	out, err := th.Thin(model.PointSet{
		labelledPoint("90", 0, 0),
		labelledPoint("90", 3999, 0),
	})
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("distance 3999 with radius 4000: retained %d points, want 1", len(out))
	}

	// Just over: both retained.
	out, err = th.Thin(model.PointSet{
		labelledPoint("90", 0, 0),
		labelledPoint("90", 4001, 0),
	})
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("distance 4001 with radius 4000: retained %d points, want 2", len(out))
	}
}

func TestThinner_ExactRadiusAccepted(t *testing.T) {
	// Colinear points at 0, 4000, 8000: every pairwise distance is >= the
	// radius, so greedy acceptance keeps all three.
	th := &Thinner{Radius: 4000}
	out, err := th.Thin(model.PointSet{
		labelledPoint("90", 0, 0),
		labelledPoint("90", 4000, 0),
		labelledPoint("90", 8000, 0),
	})
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("retained %d points, want all 3 at exact radius spacing", len(out))
	}
}

func TestThinner_GroupsAreIndependent(t *testing.T) {
	// Two labels stacked on nearly the same spot: each group keeps its own
	// first point regardless of the other group's.
	th := &Thinner{Radius: 4000}
	out, err := th.Thin(model.PointSet{
		labelledPoint("90", 0, 0),
		labelledPoint("5", 10, 0),
		labelledPoint("90", 20, 0),
		labelledPoint("5", 30, 0),
	})
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("retained %d points, want 2 (one per label)", len(out))
	}
	if out[0].Label != "90" || out[1].Label != "5" {
		t.Fatalf("retained labels %q, %q; want 90 then 5 in input order", out[0].Label, out[1].Label)
	}
}

func TestThinner_EmptyInput(t *testing.T) {
	th := &Thinner{Radius: 4000}
	out, err := th.Thin(model.PointSet{})
	if err != nil {
		t.Fatalf("Thin on empty input: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("empty input retained %d points, want 0", len(out))
	}
}

func TestThinner_EmptyGroupKeyFails(t *testing.T) {
	th := &Thinner{Radius: 4000}
	_, err := th.Thin(model.PointSet{labelledPoint("", 0, 0)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Thin error = %v, want ErrInvalidInput", err)
	}
}

func TestThinner_OutputIsSubsetInInputOrder(t *testing.T) {
	th := &Thinner{Radius: 4000}
	in := model.PointSet{
		labelledPoint("90", 0, 0),
		labelledPoint("5", 1000, 1000),
		labelledPoint("90", 10000, 0),
		labelledPoint("5", 1000, 9000),
		labelledPoint("90", 10500, 0),
	}

	out, err := th.Thin(in)
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}

	// Every output point must be an input point, with coordinates and
	// attributes untouched, and the output must preserve input order.
	cursor := 0
	for _, p := range out {
		found := false
		for ; cursor < len(in); cursor++ {
			if reflect.DeepEqual(in[cursor], p) {
				found = true
				cursor++
				break
			}
		}
		if !found {
			t.Fatalf("output point %+v is not an in-order member of the input", p)
		}
	}
}

func TestThinner_Deterministic(t *testing.T) {
	th := &Thinner{Radius: 4000}
	in := randomPoints(500, 3)

	first, err := th.Thin(in)
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}
	second, err := th.Thin(in)
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated runs differ: %d vs %d points", len(first), len(second))
	}
}

func TestThinner_IdempotentOnOwnOutput(t *testing.T) {
	th := &Thinner{Radius: 4000}
	once, err := th.Thin(randomPoints(500, 3))
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}
	twice, err := th.Thin(once)
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("re-thinning changed the output: %d vs %d points", len(once), len(twice))
	}
}

func TestThinner_SeparationInvariantHolds(t *testing.T) {
	th := &Thinner{Radius: 4000}
	out, err := th.Thin(randomPoints(1000, 4))
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[i].Label != out[j].Label {
				continue
			}
			if d := planar.Distance(out[i].Coord, out[j].Coord); d < th.Radius {
				t.Fatalf("points %d and %d share label %q at distance %v < radius %v", i, j, out[i].Label, d, th.Radius)
			}
		}
	}
}

func TestThinner_GridMatchesNaiveSelection(t *testing.T) {
	// The grid is a lookup accelerator only: selection must be identical
	// to scanning the whole accepted set per candidate.
	in := randomPoints(800, 2)
	radius := 3500.0

	th := &Thinner{Radius: radius}
	got, err := th.Thin(in)
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}

	want := naiveThin(in, radius)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("grid selection differs from naive scan: %d vs %d points", len(got), len(want))
	}
}

func TestThinner_ParallelMatchesSequential(t *testing.T) {
	in := randomPoints(800, 5)

	seq := &Thinner{Radius: 4000}
	par := &Thinner{Radius: 4000, Parallel: true}

	want, err := seq.Thin(in)
	if err != nil {
		t.Fatalf("sequential Thin: %v", err)
	}
	got, err := par.Thin(in)
	if err != nil {
		t.Fatalf("parallel Thin: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parallel selection differs from sequential: %d vs %d points", len(got), len(want))
	}
}

func TestThinner_CustomGroupKey(t *testing.T) {
	// Grouping by label and region keeps same-label points from distinct
	// regions out of each other's exclusion zones.
	th := &Thinner{
		Radius: 4000,
		GroupKey: func(p model.Point) string {
			return string(p.Region) + "/" + p.Label
		},
	}
	usa := labelledPoint("1", 0, 0)
	usa.Region = model.RegionUSA
	global := labelledPoint("1", 100, 0)
	global.Region = model.RegionGlobal

	out, err := th.Thin(model.PointSet{usa, global})
	if err != nil {
		t.Fatalf("Thin: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("retained %d points, want 2 across regions", len(out))
	}
}

// naiveThin is the reference implementation: per group, scan every accepted
// point for each candidate.
func naiveThin(points model.PointSet, radius float64) model.PointSet {
	accepted := make(map[string][]orb.Point)
	out := model.PointSet{}
	for _, p := range points {
		ok := true
		for _, q := range accepted[p.Label] {
			if planar.Distance(p.Coord, q) < radius {
				ok = false
				break
			}
		}
		if ok {
			accepted[p.Label] = append(accepted[p.Label], p.Coord)
			out = append(out, p)
		}
	}
	return out
}

func randomPoints(n, labels int) model.PointSet {
	rng := rand.New(rand.NewSource(42))
	out := make(model.PointSet, 0, n)
	for i := 0; i < n; i++ {
		label := string(rune('A' + i%labels))
		out = append(out, labelledPoint(label, rng.Float64()*50000, rng.Float64()*50000))
	}
	return out
}

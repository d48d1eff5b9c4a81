package core

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Walker samples a polyline part at a fixed arc-length interval.
//
// Samples sit at arc distances 0, I, 2I, ... strictly less than the part's
// length, so the part's first coordinate is always emitted and nothing is
// ever placed on or past the far endpoint. A part whose length is an exact
// multiple of the interval does not get a sample at that multiple.
type Walker struct {
	Interval float64
}

// NewWalker validates the interval and returns a Walker.
func NewWalker(interval float64) (*Walker, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sampling interval must be positive, got %v: %w", interval, ErrInvalidParameter)
	}
	return &Walker{Interval: interval}, nil
}

// Walk returns the sample points for one part. Arc length accumulates
// across segment boundaries; a target distance falling inside a segment is
// resolved by linear interpolation on that segment. Degenerate parts
// (fewer than two coordinates, or zero length) yield no samples.
func (w *Walker) Walk(part orb.LineString) []orb.Point {
	if len(part) < 2 {
		return nil
	}

	total := 0.0
	for i := 1; i < len(part); i++ {
		total += planar.Distance(part[i-1], part[i])
	}
	if total == 0 {
		return nil
	}

	var samples []orb.Point
	seg := 1
	segStart := 0.0 // arc distance at part[seg-1]
	segLen := planar.Distance(part[0], part[1])

	for i := 0; ; i++ {
		d := float64(i) * w.Interval
		if d >= total {
			break
		}

		// Advance to the segment where cumulative length first reaches d.
		for seg < len(part)-1 && d > segStart+segLen {
			segStart += segLen
			seg++
			segLen = planar.Distance(part[seg-1], part[seg])
		}

		t := 0.0
		if segLen > 0 {
			t = (d - segStart) / segLen
		}
		a, b := part[seg-1], part[seg]
		samples = append(samples, orb.Point{
			a[0] + (b[0]-a[0])*t,
			a[1] + (b[1]-a[1])*t,
		})
	}
	return samples
}

// PartLength returns the arc length of a single part.
func PartLength(part orb.LineString) float64 {
	total := 0.0
	for i := 1; i < len(part); i++ {
		total += planar.Distance(part[i-1], part[i])
	}
	return total
}

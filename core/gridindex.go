package core

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// gridIndex is a hash grid over the points accepted so far in one group.
// Cells are sized to the thinning radius, so every point within radius of a
// candidate lies in the candidate's cell or one of its eight neighbours.
// It only speeds up lookups; acceptance decisions are identical to scanning
// the whole accepted set.
type gridIndex struct {
	cell  float64
	cells map[gridCell][]orb.Point
}

type gridCell struct {
	x, y int64
}

func newGridIndex(radius float64) *gridIndex {
	return &gridIndex{
		cell:  radius,
		cells: make(map[gridCell][]orb.Point),
	}
}

func (g *gridIndex) cellOf(p orb.Point) gridCell {
	return gridCell{
		x: int64(math.Floor(p[0] / g.cell)),
		y: int64(math.Floor(p[1] / g.cell)),
	}
}

func (g *gridIndex) insert(p orb.Point) {
	c := g.cellOf(p)
	g.cells[c] = append(g.cells[c], p)
}

// hasWithin reports whether any inserted point lies strictly closer than
// dist to p.
func (g *gridIndex) hasWithin(p orb.Point, dist float64) bool {
	c := g.cellOf(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, q := range g.cells[gridCell{x: c.x + dx, y: c.y + dy}] {
				if planar.Distance(p, q) < dist {
					return true
				}
			}
		}
	}
	return false
}

package model

import "github.com/paulmach/orb"

// ProcessedUnreviewed marks a point that no human curation pass has looked
// at yet. The flag is an external contract: the core writes it once and
// otherwise passes it through untouched.
const ProcessedUnreviewed = "N"

// Point is one shield anchor candidate: a planar coordinate plus the
// attributes inherited from its source feature.
type Point struct {
	Coord orb.Point

	Label      string
	ShieldType string
	Region     Region

	// Processed is an opaque curation tag (see ProcessedUnreviewed).
	Processed string

	// Zoom is the rendering tier a thinned point serves, 0 while untagged.
	Zoom int
}

// PointSet is the ordered output of one pipeline stage. Order carries no
// meaning but stays stable so repeated runs select identical subsets.
type PointSet []Point

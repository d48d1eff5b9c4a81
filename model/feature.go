package model

import "github.com/paulmach/orb"

// LineFeature is one road centreline record. Geometry may hold several
// disjoint parts sharing the record's attributes; coordinates are planar
// (projected), never lon/lat. Features are read-only once handed to the
// sampling core.
type LineFeature struct {
	Geometry orb.MultiLineString

	// Ref is the raw route reference as tagged in the source data,
	// e.g. "I-90" or "US 20;WA 7". Classification derives Label and
	// ShieldType from it.
	Ref string

	Label      string
	ShieldType string
	Region     Region

	// SegLen and LabelLen are carried for downstream display rules.
	SegLen   float64
	LabelLen int
}

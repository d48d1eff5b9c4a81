package classify

import (
	"regexp"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/tilecraft/shieldgen/model"
)

// newZealandBox covers the New Zealand mainland in the working projection.
// Refs there carry route letters that the national shields do not display,
// so dissolving strips non-digits from refs wholly inside the box.
var newZealandBox = orb.Polygon{orb.Ring{
	{17920614.01, -4033681.682},
	{20362002, -4054837.565},
	{20357771.35, -6073108.484},
	{17683668.157, -6068877.308},
	{17920614.01, -4033681.682},
}}

var nonDigitRE = regexp.MustCompile(`\D`)

// Dissolve merges all features sharing a route reference into one multi-part
// feature per reference, in first-seen order. Features with a blank ref are
// dropped. Merging is purely structural: parts are collected, never joined
// end to end, since downstream sampling restarts per part anyway.
func Dissolve(features []model.LineFeature) []model.LineFeature {
	merged := make(map[string]*model.LineFeature)
	var order []string

	for _, f := range features {
		key := f.Ref
		if key == "" {
			continue
		}
		if insideNewZealand(f.Geometry) {
			key = nonDigitRE.ReplaceAllString(key, "")
			if key == "" {
				continue
			}
		}

		if m, ok := merged[key]; ok {
			m.Geometry = append(m.Geometry, f.Geometry...)
			continue
		}
		dup := f
		dup.Ref = key
		dup.Geometry = append(orb.MultiLineString{}, f.Geometry...)
		merged[key] = &dup
		order = append(order, key)
	}

	out := make([]model.LineFeature, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out
}

func insideNewZealand(g orb.MultiLineString) bool {
	if len(g) == 0 {
		return false
	}
	for _, part := range g {
		for _, p := range part {
			if !planar.PolygonContains(newZealandBox, p) {
				return false
			}
		}
	}
	return true
}

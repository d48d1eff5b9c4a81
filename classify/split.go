package classify

import (
	"regexp"
	"strings"

	"github.com/tilecraft/shieldgen/model"
)

var refSeparatorRE = regexp.MustCompile(`[,;]`)

// SplitRefs splits a compound route reference ("US 20;WA 7") into its
// individual references, dropping empty fragments left by trailing or
// doubled separators.
func SplitRefs(ref string) []string {
	var out []string
	for _, part := range refSeparatorRE.Split(ref, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SplitFeatures duplicates each feature once per individual reference in its
// compound ref. A road tagged with two routes becomes two features sharing
// one geometry, so each route gets its own run of anchor points. Features
// with a blank ref are dropped.
func SplitFeatures(features []model.LineFeature) []model.LineFeature {
	out := make([]model.LineFeature, 0, len(features))
	for _, f := range features {
		for _, ref := range SplitRefs(f.Ref) {
			dup := f
			dup.Ref = ref
			out = append(out, dup)
		}
	}
	return out
}

// Package classify derives shield label and shield type attributes from raw
// route-reference text. It is the upstream collaborator of the sampling
// core: it fills in the label/shield_typ fields the node generator requires.
package classify

import (
	"regexp"
	"strings"

	"github.com/paulmach/orb/planar"

	"github.com/tilecraft/shieldgen/model"
)

var (
	interstateRE = regexp.MustCompile(`(?i)^I[-\s]`)
	usHighwayRE  = regexp.MustCompile(`(?i)^US[\s-]`)

	// State and territory prefixes, plus the generic ST/SR/SH markers some
	// datasets use for state routes.
	stateHighwayRE = regexp.MustCompile(`(?i)\b(IA|KS|UT|VA|NC|NE|SD|AL|ID|DE|AK|CT|PR|NM|MS|CO|NJ|FL|MN|VI|NV|AZ|WI|ND|PA|OK|KY|RI|NH|MO|ME|VT|GA|GU|AS|NY|CA|HI|IL|TN|MA|OH|MD|MI|WY|WA|OR|MH|SC|IN|LA|DC|MT|AR|WV|TX|ST|SR|SH)\b`)

	// usaLabelRE extracts the first run of digits with an optional suffix:
	// either a single trailing word character ("95A") or a dashed/spaced
	// word that must end on a letter ("12 Spur" after stripping).
	usaLabelRE = regexp.MustCompile(`(?im)^\D*(\d+(?:(\w)|[- ][a-z ]*[a-z])?)`)

	digitRE = regexp.MustCompile(`\d`)
	mexRE   = regexp.MustCompile(`(?i)MEX\s?-?`)
)

// usaStrip lists qualifier words removed from USA refs before label
// extraction, in application order. "Alternate" must precede "Alt" and
// "Business" must precede "Bus" so the longer form wins. The trailing
// " US"/" I" rules collapse doubled references like "US 20 US 26".
var usaStrip = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Business`),
	regexp.MustCompile(`(?i)Alternate`),
	regexp.MustCompile(`(?i)Truck`),
	regexp.MustCompile(`(?i)Link`),
	regexp.MustCompile(`(?i)Bypass`),
	regexp.MustCompile(`(?i)Spur`),
	regexp.MustCompile(`(?i)Local`),
	regexp.MustCompile(`(?i)Connector`),
	regexp.MustCompile(`(?i)Historic`),
	regexp.MustCompile(`(?i)Alt`),
	regexp.MustCompile(`(?i)Bus`),
	regexp.MustCompile(`(?i)Loop`),
	regexp.MustCompile(`(?i)Scenic`),
	regexp.MustCompile(`(?i)Ramp`),
	regexp.MustCompile(`(?i)Express`),
	regexp.MustCompile(`(?i) US`),
	regexp.MustCompile(`(?i) I`),
}

var usaDirections = []struct {
	re   *regexp.Regexp
	abbr string
}{
	{regexp.MustCompile(`(?i)North`), "N"},
	{regexp.MustCompile(`(?i)South`), "S"},
	{regexp.MustCompile(`(?i)East`), "E"},
	{regexp.MustCompile(`(?i)West`), "W"},
}

// ShieldType categorises a route reference for icon selection. USA refs map
// to "I" (interstate), "US" (US highway), or "ST" (state highway); anything
// unrecognised yields an empty type. Global refs all share one shield.
func ShieldType(ref string, region model.Region) string {
	if region == model.RegionGlobal {
		return "GLOBAL"
	}
	switch {
	case interstateRE.MatchString(ref):
		return "I"
	case usHighwayRE.MatchString(ref):
		return "US"
	case stateHighwayRE.MatchString(ref):
		return "ST"
	}
	return ""
}

// Label derives the display text for a shield from a route reference. The
// boolean reports whether a usable label was found.
//
// USA refs are stripped of qualifier words and directionals, then reduced to
// the leading number group. Global refs lose any MEX prefix, must contain a
// digit, and are truncated to seven characters (re-checked for a digit after
// truncation).
func Label(ref string, region model.Region) (string, bool) {
	switch region {
	case model.RegionUSA:
		for _, re := range usaStrip {
			ref = re.ReplaceAllString(ref, "")
		}
		for _, d := range usaDirections {
			ref = d.re.ReplaceAllString(ref, d.abbr)
		}
		m := usaLabelRE.FindStringSubmatch(ref)
		if m == nil {
			return "", false
		}
		return m[1], true
	case model.RegionGlobal:
		ref = mexRE.ReplaceAllString(ref, "")
		if !digitRE.MatchString(ref) {
			return "", false
		}
		truncated := ref
		if len(truncated) > 7 {
			truncated = truncated[:7]
		}
		truncated = strings.TrimSpace(truncated)
		if !digitRE.MatchString(truncated) {
			return "", false
		}
		return truncated, true
	}
	return "", false
}

// Classifier populates label and shield-type attributes on line features for
// one region's dataset.
type Classifier struct {
	Region model.Region
}

// Process classifies every feature and returns the labelled subset. Features
// with no derivable label are dropped; USA labels longer than five
// characters are dropped too, since they cannot fit the shield icon. Input
// features are not modified.
func (c *Classifier) Process(features []model.LineFeature) []model.LineFeature {
	out := make([]model.LineFeature, 0, len(features))
	for _, f := range features {
		label, ok := Label(f.Ref, c.Region)
		if !ok || label == "" {
			continue
		}
		if c.Region == model.RegionUSA && len(label) > 5 {
			continue
		}

		f.Label = label
		f.ShieldType = ShieldType(f.Ref, c.Region)
		f.Region = c.Region
		f.SegLen = planar.Length(f.Geometry)
		f.LabelLen = len(label)
		out = append(out, f)
	}
	return out
}

package model

import "fmt"

// Region selects which classification and processing rules apply to a
// feature. USA and Global datasets run through entirely separate pipelines
// and are never mixed within a single thinning run.
type Region string

const (
	RegionUSA    Region = "USA"
	RegionGlobal Region = "Global"
)

// ParseRegion maps a raw attribute value onto a Region. An empty value
// defaults to Global, matching how unattributed world extracts are handled.
func ParseRegion(s string) (Region, error) {
	switch s {
	case "", string(RegionGlobal):
		return RegionGlobal, nil
	case string(RegionUSA):
		return RegionUSA, nil
	}
	return "", fmt.Errorf("unknown region %q", s)
}

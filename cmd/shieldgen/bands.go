package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tilecraft/shieldgen/core"
)

// parseBands parses a "radius:zoom,radius:zoom,..." specification into the
// band ladder, preserving order. Radii must be positive; zooms must be
// integers.
func parseBands(spec string) ([]core.Band, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("band specification is empty")
	}

	var bands []core.Band
	for _, entry := range strings.Split(spec, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("band %q: want radius:zoom", entry)
		}
		radius, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("band %q: invalid radius: %w", entry, err)
		}
		if radius <= 0 {
			return nil, fmt.Errorf("band %q: radius must be positive", entry)
		}
		zoom, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("band %q: invalid zoom: %w", entry, err)
		}
		bands = append(bands, core.Band{Radius: radius, Zoom: zoom})
	}
	return bands, nil
}

// Package geojson is the file boundary of the pipeline: GeoJSON feature
// collections in, GeoJSON point collections out. Coordinates are passed
// through untouched and are expected to be planar (projected), matching the
// sampling core's distance model.
package geojson

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	geo "github.com/paulmach/orb/geojson"

	"github.com/tilecraft/shieldgen/model"
)

// ReadLineFeatures decodes a FeatureCollection of LineString or
// MultiLineString features into line features. Non-line geometries are
// skipped. Recognised properties: ref, label, shield_typ, region.
func ReadLineFeatures(r io.Reader) ([]model.LineFeature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read feature collection: %w", err)
	}
	fc, err := geo.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}

	features := make([]model.LineFeature, 0, len(fc.Features))
	for i, f := range fc.Features {
		var geom orb.MultiLineString
		switch g := f.Geometry.(type) {
		case orb.LineString:
			geom = orb.MultiLineString{g}
		case orb.MultiLineString:
			geom = g
		default:
			continue
		}

		region, err := model.ParseRegion(stringProp(f.Properties, "region"))
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}

		features = append(features, model.LineFeature{
			Geometry:   geom,
			Ref:        stringProp(f.Properties, "ref"),
			Label:      stringProp(f.Properties, "label"),
			ShieldType: stringProp(f.Properties, "shield_typ"),
			Region:     region,
		})
	}
	return features, nil
}

// WriteLineFeatures encodes labelled line features, preserving the attribute
// schema the sampling stage expects on its input.
func WriteLineFeatures(w io.Writer, features []model.LineFeature) error {
	fc := geo.NewFeatureCollection()
	for _, f := range features {
		out := geo.NewFeature(f.Geometry)
		out.Properties["ref"] = f.Ref
		out.Properties["label"] = f.Label
		out.Properties["shield_typ"] = f.ShieldType
		out.Properties["region"] = string(f.Region)
		out.Properties["seg_len"] = f.SegLen
		out.Properties["label_len"] = f.LabelLen
		fc.Append(out)
	}
	return marshalTo(w, fc)
}

// WritePoints encodes a point set as a FeatureCollection. The zoom property
// is only written on tagged layers.
func WritePoints(w io.Writer, points model.PointSet) error {
	fc := geo.NewFeatureCollection()
	for _, p := range points {
		out := geo.NewFeature(p.Coord)
		out.Properties["label"] = p.Label
		out.Properties["shield_typ"] = p.ShieldType
		out.Properties["region"] = string(p.Region)
		out.Properties["processed"] = p.Processed
		if p.Zoom != 0 {
			out.Properties["zoom"] = p.Zoom
		}
		fc.Append(out)
	}
	return marshalTo(w, fc)
}

func marshalTo(w io.Writer, fc *geo.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode feature collection: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write feature collection: %w", err)
	}
	return nil
}

func stringProp(props geo.Properties, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

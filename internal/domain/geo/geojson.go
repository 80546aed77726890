package geo

import "encoding/json"

// FeatureCollection is a standard GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature. Geometry is kept as raw JSON:
// polygon geometries come straight out of the spatial store
// (ST_AsGeoJSON) and are passed through to clients untouched.
type Feature struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// NewFeatureCollection returns a collection wrapping the given
// features. A nil slice yields a valid empty collection, never a null
// features array.
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// NewFeature builds a feature from a raw geometry and its properties.
func NewFeature(geometry json.RawMessage, properties map[string]any) Feature {
	return Feature{
		Type:       "Feature",
		Geometry:   geometry,
		Properties: properties,
	}
}

// Package geojson shapes structures into GeoJSON documents. Serialization is
// explicit per response shape instead of relying on struct tags alone, so the
// feature properties always reflect the resolved concrete subtype.
package geojson

import (
	"encoding/json"
	"fmt"

	"geo-server/entities"
)

type Feature struct {
	Type       string          `json:"type"`
	ID         uint            `json:"id"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeature builds a GeoJSON feature for one structure, resolving its raw
// properties into the concrete subtype before flattening them.
func NewFeature(s *entities.Structure) (Feature, error) {
	resolved, err := s.ResolveProperties()
	if err != nil {
		return Feature{}, fmt.Errorf("resolve properties of structure %d: %w", s.ID, err)
	}

	props, err := flatten(resolved)
	if err != nil {
		return Feature{}, fmt.Errorf("flatten properties of structure %d: %w", s.ID, err)
	}

	props["name"] = s.Name
	props["structure_type"] = s.Type
	props["created_on"] = s.CreatedOn
	if s.UserID != nil {
		props["user_id"] = *s.UserID
	}

	geometry := s.Geometry
	if len(geometry) == 0 {
		geometry = json.RawMessage(`null`)
	}

	return Feature{
		Type:       "Feature",
		ID:         s.ID,
		Geometry:   geometry,
		Properties: props,
	}, nil
}

// NewFeatureCollection builds a feature collection from a structure list.
// An empty input produces an empty features array, not null.
func NewFeatureCollection(structures []entities.Structure) (FeatureCollection, error) {
	features := make([]Feature, 0, len(structures))
	for i := range structures {
		feature, err := NewFeature(&structures[i])
		if err != nil {
			return FeatureCollection{}, err
		}
		features = append(features, feature)
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}, nil
}

func flatten(resolved any) (map[string]any, error) {
	raw, err := json.Marshal(resolved)
	if err != nil {
		return nil, err
	}
	props := map[string]any{}
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, err
	}
	return props, nil
}

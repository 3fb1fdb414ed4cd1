package entities

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Known structure types. Rows carry their concrete type in the Type column;
// unknown values still load, they just resolve to untyped properties.
const (
	TypeBridge  = "bridge"
	TypeTower   = "tower"
	TypeShelter = "shelter"
)

// Structure is a geolocated entity owned by at most one user and favoritable
// by many. Geometry and Properties are stored as raw JSON columns; Properties
// holds the attributes of the concrete subtype named by Type.
type Structure struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Type        string          `gorm:"index;not null" json:"type"`
	Name        string          `gorm:"not null" json:"name"`
	Geometry    json.RawMessage `gorm:"type:jsonb" json:"geometry"`
	Properties  json.RawMessage `gorm:"type:jsonb" json:"properties,omitempty"`
	UserID      *uint           `gorm:"index" json:"user_id,omitempty"`
	CreatedOn   time.Time       `gorm:"autoCreateTime" json:"created_on"`
	FavoritesOf []User          `gorm:"many2many:user_favorites" json:"-"`
}

func (s *Structure) BeforeCreate(tx *gorm.DB) error {
	if s.Geometry == nil {
		s.Geometry = json.RawMessage(`null`)
	}
	return nil
}

// BridgeProperties are the attributes specific to bridge structures.
type BridgeProperties struct {
	SpanM    float64 `json:"span_m"`
	Material string  `json:"material"`
}

// TowerProperties are the attributes specific to tower structures.
type TowerProperties struct {
	HeightM  float64 `json:"height_m"`
	Platform bool    `json:"platform"`
}

// ShelterProperties are the attributes specific to shelter structures.
type ShelterProperties struct {
	Capacity int  `json:"capacity"`
	Heated   bool `json:"heated"`
}

// ResolveProperties materializes the raw Properties column as the concrete
// subtype matching s.Type. Fields not declared by the subtype are dropped.
// Unknown types fall back to a plain map so listings never fail on rows
// created by other collaborators.
func (s *Structure) ResolveProperties() (any, error) {
	raw := s.Properties
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}

	var target any
	switch s.Type {
	case TypeBridge:
		target = &BridgeProperties{}
	case TypeTower:
		target = &TowerProperties{}
	case TypeShelter:
		target = &ShelterProperties{}
	default:
		target = &map[string]any{}
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, err
	}
	return target, nil
}

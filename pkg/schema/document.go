// Package schema defines the versioned layout document: its current shape,
// validation of arbitrary candidate documents, and forward migration of
// documents authored under older schema versions.
//
// The document is the persistence format of the floor-layout editor. It is
// designed for round-trip fidelity: load → migrate → save produces a
// document that loads identically, and documents written by older editors
// remain loadable forever via the migration chain.
//
// # Units
//
// Lengths under room, wall thickness/height, and equipment-array configs
// are meters. Canvas dimensions, wall points, and component geometry are
// editor-plane units (pixel-equivalent). Rotations are radians.
package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"floorforge/pkg/grid"
)

// CurrentVersion is the schema version written by this code.
const CurrentVersion = "1.1.0"

// =============================================================================
// Document - Versioned Layout Aggregate
// =============================================================================

// Document is the persisted layout aggregate.
//
// Rotation fields are pointers so that a document that simply lacks the key
// (schema < 1.1.0) is distinguishable from an explicit rotation of 0; the
// migration chain relies on this.
type Document struct {
	Version string `json:"version" bson:"version"`
	SiteID  string `json:"site_id" bson:"site_id"`
	Canvas  Canvas `json:"canvas" bson:"canvas"`
	Room    Room   `json:"room" bson:"room"`

	Walls           []Wall           `json:"walls,omitempty" bson:"walls,omitempty"`
	Office          *Office          `json:"office,omitempty" bson:"office,omitempty"`
	Partitions      []Partition      `json:"partitions,omitempty" bson:"partitions,omitempty"`
	EquipmentArrays []EquipmentArray `json:"equipmentArrays" bson:"equipmentArrays"`
	Components      []Component      `json:"components,omitempty" bson:"components,omitempty"`
}

// Canvas is the editor canvas extent in editor-plane units. Scale is the
// number of editor units per meter and links the two coordinate spaces.
type Canvas struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Scale  float64 `json:"scale" bson:"scale"`
}

// Room is the room footprint in meters.
type Room struct {
	Width float64 `json:"width" bson:"width"`
	Depth float64 `json:"depth" bson:"depth"`
}

// Point is a 2D editor-plane position.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// WallPoints is the oriented segment of a wall in editor-plane units.
type WallPoints struct {
	Start Point `json:"start" bson:"start"`
	End   Point `json:"end" bson:"end"`
}

// Wall is a straight wall segment. Thickness and Height are meters; the
// segment endpoints are editor-plane units.
type Wall struct {
	ID        string     `json:"id,omitempty" bson:"id,omitempty"`
	Points    WallPoints `json:"points" bson:"points"`
	Thickness float64    `json:"thickness" bson:"thickness"`
	Height    float64    `json:"height" bson:"height"`
	Rotation  *float64   `json:"rotation,omitempty" bson:"rotation,omitempty"` // radians, since 1.1.0
}

// Office is an enclosed office area, a box in editor-plane units.
type Office struct {
	X        float64  `json:"x" bson:"x"`
	Y        float64  `json:"y" bson:"y"`
	Width    float64  `json:"width" bson:"width"`
	Height   float64  `json:"height" bson:"height"`
	Rotation *float64 `json:"rotation,omitempty" bson:"rotation,omitempty"` // radians, since 1.1.0
}

// Partition is an interior divider, a box in editor-plane units.
type Partition struct {
	ID       string   `json:"id,omitempty" bson:"id,omitempty"`
	X        float64  `json:"x" bson:"x"`
	Y        float64  `json:"y" bson:"y"`
	Width    float64  `json:"width" bson:"width"`
	Height   float64  `json:"height" bson:"height"`
	Rotation *float64 `json:"rotation,omitempty" bson:"rotation,omitempty"` // radians, since 1.1.0
}

// EquipmentArray is a bank of equipment placed on a regular grid. X/Y anchor
// the grid's top-left corner in editor-plane units; Config lengths are
// meters.
type EquipmentArray struct {
	ID       string          `json:"id,omitempty" bson:"id,omitempty"`
	Label    string          `json:"label,omitempty" bson:"label,omitempty"`
	X        float64         `json:"x" bson:"x"`
	Y        float64         `json:"y" bson:"y"`
	Config   ArrayConfig     `json:"config" bson:"config"`
	Units    []EquipmentUnit `json:"units,omitempty" bson:"units,omitempty"`
	Rotation *float64        `json:"rotation,omitempty" bson:"rotation,omitempty"` // radians, since 1.1.0
}

// ArrayConfig is the compact grid specification of an equipment array.
// All lengths are meters.
type ArrayConfig struct {
	Rows int `json:"rows" bson:"rows"`
	Cols int `json:"cols" bson:"cols"`

	CellWidth  float64 `json:"cell_width" bson:"cell_width"`
	CellHeight float64 `json:"cell_height" bson:"cell_height"`
	Spacing    float64 `json:"spacing" bson:"spacing"`

	CorridorCols     []int   `json:"corridor_cols,omitempty" bson:"corridor_cols,omitempty"`
	CorridorColWidth float64 `json:"corridor_col_width,omitempty" bson:"corridor_col_width,omitempty"`
	CorridorRows     []int   `json:"corridor_rows,omitempty" bson:"corridor_rows,omitempty"`
	CorridorRowWidth float64 `json:"corridor_row_width,omitempty" bson:"corridor_row_width,omitempty"`

	Excluded []grid.Cell `json:"excluded,omitempty" bson:"excluded,omitempty"`
}

// EquipmentUnit carries per-cell overrides for one grid position.
type EquipmentUnit struct {
	Row      int      `json:"row" bson:"row"`
	Col      int      `json:"col" bson:"col"`
	Label    string   `json:"label,omitempty" bson:"label,omitempty"`
	Rotation *float64 `json:"rotation,omitempty" bson:"rotation,omitempty"` // radians, since 1.1.0
}

// Component is a free-standing element (conveyor, tank, dock) in
// editor-plane units.
type Component struct {
	ID       string   `json:"id,omitempty" bson:"id,omitempty"`
	Kind     string   `json:"kind,omitempty" bson:"kind,omitempty"`
	X        float64  `json:"x" bson:"x"`
	Y        float64  `json:"y" bson:"y"`
	Width    float64  `json:"width" bson:"width"`
	Height   float64  `json:"height" bson:"height"`
	Rotation *float64 `json:"rotation,omitempty" bson:"rotation,omitempty"` // radians, since 1.1.0
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a document to pretty-printed JSON bytes.
func Marshal(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Parse deserializes JSON bytes into a typed Document. Parse is tolerant of
// older schema versions; run Migrate on the result before consuming it.
func Parse(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal layout document: %w", err)
	}
	return &d, nil
}

// Decode deserializes JSON bytes into the generic form used by Validate.
func Decode(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode layout document: %w", err)
	}
	return raw, nil
}

// WriteFile writes a document to a JSON file at path.
func WriteFile(d *Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a document from a JSON file at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

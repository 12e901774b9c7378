// Package scene composes a validated layout document into world-space
// geometry for the 3D scene layer.
//
// The composer is the engine-side half of the rendering boundary: it expands
// every equipment array into per-unit placements, converts walls, the
// office, partitions, and free components to meters, and emits a WorldScene
// the renderer can consume without knowing anything about editor-plane
// coordinates. It performs no I/O and holds no state; everything is derived
// from the document and the transform config passed in.
package scene

import (
	"encoding/json"
	"fmt"

	"floorforge/pkg/grid"
	"floorforge/pkg/schema"
	"floorforge/pkg/transform"
)

// DefaultWallHeight is used for walls whose height is unset.
const DefaultWallHeight = 3.0 // meters

// =============================================================================
// World Scene - Exported Composition Format
// =============================================================================

// Extent is a ground-plane extent in meters.
type Extent struct {
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
}

// Box is a placed rectangular element: center position on the ground plane,
// metric size, rotation about the vertical axis.
type Box struct {
	ID        string               `json:"id,omitempty"`
	Kind      string               `json:"kind,omitempty"`
	Position  transform.WorldPoint `json:"position"`
	Size      transform.WorldSize  `json:"size"`
	RotationY float64              `json:"rotation_y"`
}

// Wall is a converted wall segment.
type Wall struct {
	ID       string                 `json:"id,omitempty"`
	Geometry transform.WallGeometry `json:"geometry"`
}

// Unit is one placed equipment unit, expanded from an array's grid spec.
type Unit struct {
	ArrayID   string               `json:"array_id,omitempty"`
	Row       int                  `json:"row"`
	Col       int                  `json:"col"`
	Label     string               `json:"label,omitempty"`
	Position  transform.WorldPoint `json:"position"`
	Size      transform.WorldSize  `json:"size"`
	RotationY float64              `json:"rotation_y"`
}

// WorldScene is the complete world-space rendition of a layout document.
type WorldScene struct {
	SiteID     string `json:"site_id"`
	Room       Extent `json:"room"`
	Walls      []Wall `json:"walls,omitempty"`
	Office     *Box   `json:"office,omitempty"`
	Partitions []Box  `json:"partitions,omitempty"`
	Equipment  []Unit `json:"equipment,omitempty"`
	Components []Box  `json:"components,omitempty"`
}

// Marshal serializes a scene to pretty-printed JSON bytes.
func (s *WorldScene) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes JSON bytes into a WorldScene.
func Unmarshal(data []byte) (*WorldScene, error) {
	var s WorldScene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal scene: %w", err)
	}
	return &s, nil
}

// =============================================================================
// Composition
// =============================================================================

// Config derives the transform configuration from a document. The canvas
// carries the editor's scale; documents predating that field fall back to
// canvas width over room width, which is the same ratio by construction.
func Config(doc *schema.Document) transform.Config {
	scale := doc.Canvas.Scale
	if scale <= 0 && doc.Room.Width > 0 {
		scale = doc.Canvas.Width / doc.Room.Width
	}
	return transform.Config{
		Scale:  scale,
		Canvas: transform.CanvasExtent{Width: doc.Canvas.Width, Height: doc.Canvas.Height},
		Room:   transform.RoomExtent{Width: doc.Room.Width, Depth: doc.Room.Depth},
	}
}

// GridSpec builds the editor-plane grid specification for an equipment
// array. Array configs store lengths in meters; the planner works in editor
// units, so lengths are scaled up here and the resulting placements are
// scaled back down during conversion.
func GridSpec(arr schema.EquipmentArray, scale float64) grid.Spec {
	cfg := arr.Config
	return grid.Spec{
		Rows:             cfg.Rows,
		Cols:             cfg.Cols,
		Cell:             grid.Size{Width: cfg.CellWidth * scale, Height: cfg.CellHeight * scale},
		Spacing:          cfg.Spacing * scale,
		CorridorCols:     cfg.CorridorCols,
		CorridorColWidth: cfg.CorridorColWidth * scale,
		CorridorRows:     cfg.CorridorRows,
		CorridorRowWidth: cfg.CorridorRowWidth * scale,
		Excluded:         cfg.Excluded,
	}
}

// Compose converts a migrated document into a world scene.
//
// The document is not mutated. Compose fails on invalid transform configs,
// invalid grid specifications, and zero-length wall segments; it never
// emits partial scenes on error.
func Compose(doc *schema.Document, cfg transform.Config) (*WorldScene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := &WorldScene{
		SiteID: doc.SiteID,
		Room:   Extent{Width: cfg.Room.Width, Depth: cfg.Room.Depth},
	}

	for _, w := range doc.Walls {
		height := w.Height
		if height <= 0 {
			height = DefaultWallHeight
		}
		geom, err := cfg.Wall(transform.WallSegment{
			StartX: w.Points.Start.X,
			StartY: w.Points.Start.Y,
			EndX:   w.Points.End.X,
			EndY:   w.Points.End.Y,
			// Document thickness is meters; the segment converter expects
			// editor units.
			Thickness: w.Thickness * cfg.Scale,
		}, height)
		if err != nil {
			return nil, err
		}
		geom.RotationY += rotation(w.Rotation)
		out.Walls = append(out.Walls, Wall{ID: w.ID, Geometry: geom})
	}

	if doc.Office != nil {
		box := boxFromRect(cfg, "", "office",
			transform.EditorRect{X: doc.Office.X, Y: doc.Office.Y, Width: doc.Office.Width, Height: doc.Office.Height},
			doc.Office.Rotation)
		out.Office = &box
	}

	for _, p := range doc.Partitions {
		out.Partitions = append(out.Partitions, boxFromRect(cfg, p.ID, "partition",
			transform.EditorRect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height},
			p.Rotation))
	}

	for _, arr := range doc.EquipmentArrays {
		units, err := composeArray(cfg, arr)
		if err != nil {
			return nil, fmt.Errorf("equipment array %s: %w", arr.ID, err)
		}
		out.Equipment = append(out.Equipment, units...)
	}

	for _, c := range doc.Components {
		out.Components = append(out.Components, boxFromRect(cfg, c.ID, c.Kind,
			transform.EditorRect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height},
			c.Rotation))
	}

	return out, nil
}

// ComposeDocument composes with the config derived from the document
// itself.
func ComposeDocument(doc *schema.Document) (*WorldScene, error) {
	return Compose(doc, Config(doc))
}

// composeArray expands one equipment array into placed units.
func composeArray(cfg transform.Config, arr schema.EquipmentArray) ([]Unit, error) {
	placements, err := grid.Plan(GridSpec(arr, cfg.Scale))
	if err != nil {
		return nil, err
	}

	overrides := make(map[grid.Cell]schema.EquipmentUnit, len(arr.Units))
	for _, u := range arr.Units {
		overrides[grid.Cell{Row: u.Row, Col: u.Col}] = u
	}

	units := make([]Unit, 0, len(placements))
	for _, p := range placements {
		rect := cfg.WorldRect(transform.EditorRect{
			X:      arr.X + p.Position.X,
			Y:      arr.Y + p.Position.Y,
			Width:  p.Size.Width,
			Height: p.Size.Height,
		})

		unit := Unit{
			ArrayID:   arr.ID,
			Row:       p.Row,
			Col:       p.Col,
			Position:  transform.WorldPoint{X: rect.X, Z: rect.Z},
			Size:      transform.WorldSize{Width: rect.Width, Depth: rect.Depth},
			RotationY: rotation(arr.Rotation),
		}
		if o, ok := overrides[grid.Cell{Row: p.Row, Col: p.Col}]; ok {
			unit.Label = o.Label
			if o.Rotation != nil {
				unit.RotationY = *o.Rotation
			}
		}
		units = append(units, unit)
	}
	return units, nil
}

// boxFromRect converts one editor rectangle to a placed box.
func boxFromRect(cfg transform.Config, id, kind string, r transform.EditorRect, rot *float64) Box {
	wr := cfg.WorldRect(r)
	return Box{
		ID:        id,
		Kind:      kind,
		Position:  transform.WorldPoint{X: wr.X, Z: wr.Z},
		Size:      transform.WorldSize{Width: wr.Width, Depth: wr.Depth},
		RotationY: rotation(rot),
	}
}

// rotation dereferences an optional rotation, defaulting to 0.
func rotation(r *float64) float64 {
	if r == nil {
		return 0
	}
	return *r
}

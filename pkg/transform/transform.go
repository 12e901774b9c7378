// Package transform converts between 2D editor-plane coordinates and 3D
// world coordinates.
//
// The editor plane is pixel-like: top-left origin, Y down, units linked to
// meters by a scale factor. World space is metric: the ground plane is X/Z
// with the origin at the room center, height is Y and untouched by these
// conversions.
//
// Every conversion takes the Config explicitly. There is no package-level
// configuration and no hidden state; callers that need to adjust a config
// merge a Partial with Apply and pass the result to subsequent calls.
//
// # Round-trip law
//
// For any finite point p and valid config c,
//
//	c.EditorPoint(c.WorldPoint(p)) == p
//
// within floating tolerance. This is the primary correctness oracle for the
// mapping and holds exactly at the canvas center and corners.
package transform

import (
	"math"

	"floorforge/pkg/errors"
	"floorforge/pkg/grid"
)

// CanvasExtent is the editor canvas size in editor-plane units.
type CanvasExtent struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// RoomExtent is the room footprint in meters.
type RoomExtent struct {
	Width float64 `json:"width" bson:"width"`
	Depth float64 `json:"depth" bson:"depth"`
}

// Config parameterizes all conversions. It is a plain value owned by the
// caller; copying it is cheap and conversions never mutate it.
type Config struct {
	Scale  float64      `json:"scale" bson:"scale"` // editor units per meter
	Canvas CanvasExtent `json:"canvas" bson:"canvas"`
	Room   RoomExtent   `json:"room" bson:"room"`
}

// Partial carries optional replacement values for a Config. Nil fields are
// left unchanged by Apply.
type Partial struct {
	Scale  *float64
	Canvas *CanvasExtent
	Room   *RoomExtent
}

// Apply merges the supplied fields of p into a copy of c and returns it.
// The original config is untouched, so there is no caching hazard: the
// returned value is effective for exactly the calls it is passed to.
func (c Config) Apply(p Partial) Config {
	if p.Scale != nil {
		c.Scale = *p.Scale
	}
	if p.Canvas != nil {
		c.Canvas = *p.Canvas
	}
	if p.Room != nil {
		c.Room = *p.Room
	}
	return c
}

// Validate rejects configs that cannot parameterize a meaningful mapping.
func (c Config) Validate() error {
	if c.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidScale, "scale must be positive, got %g", c.Scale)
	}
	if c.Room.Width <= 0 || c.Room.Depth <= 0 {
		return errors.New(errors.ErrCodeInvalidSpec, "room extent must be positive, got %gx%g", c.Room.Width, c.Room.Depth)
	}
	return nil
}

// EditorPoint is a 2D position in editor-plane units.
type EditorPoint struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// WorldPoint is a ground-plane position in meters.
type WorldPoint struct {
	X float64 `json:"x" bson:"x"`
	Z float64 `json:"z" bson:"z"`
}

// EditorSize is a 2D extent in editor-plane units.
type EditorSize struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// WorldSize is a ground-plane extent in meters.
type WorldSize struct {
	Width float64 `json:"width" bson:"width"`
	Depth float64 `json:"depth" bson:"depth"`
}

// EditorRect is a top-left-anchored rectangle in editor-plane units.
type EditorRect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// WorldRect is a center-anchored rectangle on the world ground plane.
type WorldRect struct {
	X     float64 `json:"x" bson:"x"`
	Z     float64 `json:"z" bson:"z"`
	Width float64 `json:"width" bson:"width"`
	Depth float64 `json:"depth" bson:"depth"`
}

// WorldPoint maps an editor-plane point to the world ground plane. The
// canvas center maps to the world origin; editor Y becomes world Z.
func (c Config) WorldPoint(p EditorPoint) WorldPoint {
	return WorldPoint{
		X: p.X/c.Scale - c.Room.Width/2,
		Z: p.Y/c.Scale - c.Room.Depth/2,
	}
}

// EditorPoint is the exact inverse of WorldPoint.
func (c Config) EditorPoint(p WorldPoint) EditorPoint {
	return EditorPoint{
		X: (p.X + c.Room.Width/2) * c.Scale,
		Y: (p.Z + c.Room.Depth/2) * c.Scale,
	}
}

// WorldSize converts an extent. Sizes have no translation component.
func (c Config) WorldSize(s EditorSize) WorldSize {
	return WorldSize{
		Width: s.Width / c.Scale,
		Depth: s.Height / c.Scale,
	}
}

// WorldRect converts a top-left-anchored editor rectangle to a
// center-anchored world rectangle. The rect's center point is derived and
// converted, not its corner; this is the convention the scene composer
// expects for placing box geometry.
func (c Config) WorldRect(r EditorRect) WorldRect {
	center := c.WorldPoint(EditorPoint{X: r.X + r.Width/2, Y: r.Y + r.Height/2})
	size := c.WorldSize(EditorSize{Width: r.Width, Height: r.Height})
	return WorldRect{X: center.X, Z: center.Z, Width: size.Width, Depth: size.Depth}
}

// WithinRoom reports whether a world point lies inside the room footprint,
// boundary inclusive.
func (c Config) WithinRoom(p WorldPoint) bool {
	return math.Abs(p.X) <= c.Room.Width/2 && math.Abs(p.Z) <= c.Room.Depth/2
}

// WallSegment is an oriented wall in editor-plane units.
type WallSegment struct {
	StartX    float64 `json:"start_x" bson:"start_x"`
	StartY    float64 `json:"start_y" bson:"start_y"`
	EndX      float64 `json:"end_x" bson:"end_x"`
	EndY      float64 `json:"end_y" bson:"end_y"`
	Thickness float64 `json:"thickness" bson:"thickness"`
}

// WallGeometry is a wall converted to world space. Size.Width is the segment
// length, Size.Height the wall height (meters, passed through), Size.Depth
// the thickness. RotationY orients the wall about the vertical axis; a
// horizontal editor segment yields rotation 0, a vertical one ±π/2.
type WallGeometry struct {
	Size struct {
		Width  float64 `json:"width" bson:"width"`
		Height float64 `json:"height" bson:"height"`
		Depth  float64 `json:"depth" bson:"depth"`
	} `json:"size" bson:"size"`
	Position  WorldPoint `json:"position" bson:"position"`
	RotationY float64    `json:"rotation_y" bson:"rotation_y"`
}

// Wall converts a wall segment to world geometry. The wall height is in
// meters and not subject to scaling. Position is the world-space midpoint of
// the segment.
//
// Zero-length segments are rejected: they have no orientation and would
// otherwise produce an undefined rotation.
func (c Config) Wall(w WallSegment, height float64) (WallGeometry, error) {
	dx := w.EndX - w.StartX
	dy := w.EndY - w.StartY
	if dx == 0 && dy == 0 {
		return WallGeometry{}, errors.New(errors.ErrCodeZeroLengthWall,
			"wall segment (%g,%g)-(%g,%g) has zero length", w.StartX, w.StartY, w.EndX, w.EndY)
	}

	length := c.WorldSize(EditorSize{Width: math.Hypot(dx, dy)})
	mid := c.WorldPoint(EditorPoint{X: (w.StartX + w.EndX) / 2, Y: (w.StartY + w.EndY) / 2})

	var g WallGeometry
	g.Size.Width = length.Width
	g.Size.Height = height
	g.Size.Depth = w.Thickness / c.Scale
	g.Position = mid
	// Editor Y maps directly to world Z, so the world-space delta is (dx, dy).
	g.RotationY = math.Atan2(dy/c.Scale, dx/c.Scale)
	return g, nil
}

// WorldGridSpec is a grid specification with all lengths converted to
// meters. Counts and index sets pass through unchanged.
type WorldGridSpec struct {
	Rows int `json:"rows" bson:"rows"`
	Cols int `json:"cols" bson:"cols"`

	Cell    WorldSize `json:"cell" bson:"cell"`
	Spacing float64   `json:"spacing" bson:"spacing"`

	CorridorCols     []int   `json:"corridor_cols,omitempty" bson:"corridor_cols,omitempty"`
	CorridorColWidth float64 `json:"corridor_col_width,omitempty" bson:"corridor_col_width,omitempty"`
	CorridorRows     []int   `json:"corridor_rows,omitempty" bson:"corridor_rows,omitempty"`
	CorridorRowWidth float64 `json:"corridor_row_width,omitempty" bson:"corridor_row_width,omitempty"`
}

// GridSpec converts every length-valued field of a grid spec to meters.
// This is a pure unit conversion; no planning happens here.
func (c Config) GridSpec(s grid.Spec) WorldGridSpec {
	return WorldGridSpec{
		Rows:             s.Rows,
		Cols:             s.Cols,
		Cell:             c.WorldSize(EditorSize{Width: s.Cell.Width, Height: s.Cell.Height}),
		Spacing:          s.Spacing / c.Scale,
		CorridorCols:     s.CorridorCols,
		CorridorColWidth: s.CorridorColWidth / c.Scale,
		CorridorRows:     s.CorridorRows,
		CorridorRowWidth: s.CorridorRowWidth / c.Scale,
	}
}

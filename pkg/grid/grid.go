// Package grid expands compact equipment-grid specifications into concrete
// per-cell placements.
//
// A Spec describes a bank of equipment as rows × cols cells of uniform size,
// separated by a default spacing. Individual columns or rows can be widened
// into corridors, and individual cells can be excluded (doors, pillars,
// obstructions). Plan expands the spec into one Placement per non-excluded
// cell, in stable row-major order.
//
// All lengths are editor-plane units. The planner knows nothing about world
// space; placements are converted separately (see package transform).
//
// # Usage
//
//	placements, err := grid.Plan(grid.Spec{
//	    Rows: 4, Cols: 6,
//	    Cell:    grid.Size{Width: 40, Height: 25},
//	    Spacing: 5,
//	    CorridorCols:     []int{3},
//	    CorridorColWidth: 30,
//	})
package grid

import (
	"floorforge/pkg/errors"
)

// Size is a rectangular extent in editor-plane units.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Point is a position in editor-plane units, top-left origin, Y down.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Cell addresses a grid position. Row and Col are 1-based.
type Cell struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

// Spec is a compact grid specification.
//
// Corridor columns/rows replace the default spacing after the named column
// or row with the corridor width. Excluded cells are holes: no placement is
// emitted for them, but they still consume their offset contribution so the
// grid stays regular.
type Spec struct {
	Rows int `json:"rows" bson:"rows"`
	Cols int `json:"cols" bson:"cols"`

	Cell    Size    `json:"cell" bson:"cell"`
	Spacing float64 `json:"spacing" bson:"spacing"`

	CorridorCols     []int   `json:"corridor_cols,omitempty" bson:"corridor_cols,omitempty"`
	CorridorColWidth float64 `json:"corridor_col_width,omitempty" bson:"corridor_col_width,omitempty"`
	CorridorRows     []int   `json:"corridor_rows,omitempty" bson:"corridor_rows,omitempty"`
	CorridorRowWidth float64 `json:"corridor_row_width,omitempty" bson:"corridor_row_width,omitempty"`

	Excluded []Cell `json:"excluded,omitempty" bson:"excluded,omitempty"`
}

// Placement is one concrete cell position. Position is the top-left corner
// of the cell in editor-plane units relative to the grid origin.
type Placement struct {
	Row      int   `json:"row" bson:"row"`
	Col      int   `json:"col" bson:"col"`
	Position Point `json:"position" bson:"position"`
	Size     Size  `json:"size" bson:"size"`
}

// Validate checks the spec for structural errors.
// Non-positive dimensions are rejected; a zero-row or zero-column grid is a
// caller mistake, not an empty result.
func (s Spec) Validate() error {
	if s.Rows <= 0 {
		return errors.New(errors.ErrCodeInvalidSpec, "rows must be positive, got %d", s.Rows)
	}
	if s.Cols <= 0 {
		return errors.New(errors.ErrCodeInvalidSpec, "cols must be positive, got %d", s.Cols)
	}
	return nil
}

// Count returns the number of placements Plan will emit: rows*cols minus the
// in-bounds excluded cells. Out-of-bounds exclusions are ignored.
func (s Spec) Count() int {
	excluded := 0
	seen := make(map[Cell]bool, len(s.Excluded))
	for _, c := range s.Excluded {
		if c.Row >= 1 && c.Row <= s.Rows && c.Col >= 1 && c.Col <= s.Cols && !seen[c] {
			seen[c] = true
			excluded++
		}
	}
	return s.Rows*s.Cols - excluded
}

// Plan expands the spec into placements in row-major order.
//
// Axis offsets are prefix sums computed once per axis: the step after column
// c is the cell width plus either the corridor width (if c is a corridor
// column) or the default spacing. Rows are analogous. The output ordering is
// stable for a given spec, which callers rely on for deterministic diffing.
func Plan(spec Spec) ([]Placement, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	corridorCols := indexSet(spec.CorridorCols)
	corridorRows := indexSet(spec.CorridorRows)
	excluded := make(map[Cell]bool, len(spec.Excluded))
	for _, c := range spec.Excluded {
		excluded[c] = true
	}

	// Offsets are computed once per axis, not per cell.
	colOffset := make([]float64, spec.Cols+1)
	for c := 2; c <= spec.Cols; c++ {
		colOffset[c] = colOffset[c-1] + spec.Cell.Width + spec.gapAfterCol(c-1, corridorCols)
	}
	rowOffset := make([]float64, spec.Rows+1)
	for r := 2; r <= spec.Rows; r++ {
		rowOffset[r] = rowOffset[r-1] + spec.Cell.Height + spec.gapAfterRow(r-1, corridorRows)
	}

	placements := make([]Placement, 0, spec.Count())
	for row := 1; row <= spec.Rows; row++ {
		for col := 1; col <= spec.Cols; col++ {
			if excluded[Cell{Row: row, Col: col}] {
				continue
			}
			placements = append(placements, Placement{
				Row:      row,
				Col:      col,
				Position: Point{X: colOffset[col], Y: rowOffset[row]},
				Size:     spec.Cell,
			})
		}
	}
	return placements, nil
}

// gapAfterCol returns the spacing consumed after column c.
func (s Spec) gapAfterCol(c int, corridors map[int]bool) float64 {
	if corridors[c] {
		return s.CorridorColWidth
	}
	return s.Spacing
}

// gapAfterRow returns the spacing consumed after row r.
func (s Spec) gapAfterRow(r int, corridors map[int]bool) float64 {
	if corridors[r] {
		return s.CorridorRowWidth
	}
	return s.Spacing
}

// indexSet builds a membership set for O(1) corridor lookups.
func indexSet(indices []int) map[int]bool {
	set := make(map[int]bool, len(indices))
	for _, i := range indices {
		set[i] = true
	}
	return set
}

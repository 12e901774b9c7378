package grid

import (
	"testing"

	"floorforge/pkg/errors"
)

func TestPlanOffsets(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		cell Cell
		want Point
	}{
		{
			name: "origin cell",
			spec: Spec{Rows: 2, Cols: 2, Cell: Size{Width: 40, Height: 25}, Spacing: 5},
			cell: Cell{Row: 1, Col: 1},
			want: Point{X: 0, Y: 0},
		},
		{
			name: "default spacing",
			spec: Spec{Rows: 2, Cols: 3, Cell: Size{Width: 40, Height: 25}, Spacing: 5},
			cell: Cell{Row: 2, Col: 3},
			want: Point{X: 90, Y: 30},
		},
		{
			name: "corridor column widens following gap",
			spec: Spec{
				Rows: 1, Cols: 3,
				Cell:             Size{Width: 40, Height: 25},
				Spacing:          5,
				CorridorCols:     []int{1},
				CorridorColWidth: 30,
			},
			cell: Cell{Row: 1, Col: 3},
			// col 2 starts after 40+30, col 3 after a further 40+5
			want: Point{X: 115, Y: 0},
		},
		{
			name: "corridor row widens following gap",
			spec: Spec{
				Rows: 3, Cols: 1,
				Cell:             Size{Width: 40, Height: 25},
				Spacing:          5,
				CorridorRows:     []int{2},
				CorridorRowWidth: 50,
			},
			cell: Cell{Row: 3, Col: 1},
			// row 2 starts after 25+5, row 3 after a further 25+50
			want: Point{X: 0, Y: 105},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placements, err := Plan(tt.spec)
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			for _, p := range placements {
				if p.Row == tt.cell.Row && p.Col == tt.cell.Col {
					if p.Position != tt.want {
						t.Errorf("cell (%d,%d) position = %+v, want %+v", p.Row, p.Col, p.Position, tt.want)
					}
					return
				}
			}
			t.Fatalf("cell (%d,%d) missing from output", tt.cell.Row, tt.cell.Col)
		})
	}
}

func TestPlanCountInvariant(t *testing.T) {
	// 26x6 grid with 39 in-bounds exclusions must emit 117 placements.
	excluded := make([]Cell, 0, 39)
	for i := 0; i < 39; i++ {
		excluded = append(excluded, Cell{Row: i/6 + 1, Col: i%6 + 1})
	}
	spec := Spec{
		Rows: 26, Cols: 6,
		Cell:     Size{Width: 30, Height: 20},
		Spacing:  4,
		Excluded: excluded,
	}

	placements, err := Plan(spec)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if want := 26*6 - 39; len(placements) != want {
		t.Errorf("len(placements) = %d, want %d", len(placements), want)
	}
	if got := spec.Count(); got != 26*6-39 {
		t.Errorf("Count() = %d, want %d", got, 26*6-39)
	}
}

func TestPlanExclusions(t *testing.T) {
	spec := Spec{
		Rows: 3, Cols: 3,
		Cell:    Size{Width: 10, Height: 10},
		Spacing: 2,
		Excluded: []Cell{
			{Row: 2, Col: 2},
			{Row: 99, Col: 1}, // out of bounds, ignored
			{Row: 1, Col: -4}, // out of bounds, ignored
		},
	}

	placements, err := Plan(spec)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if want := 8; len(placements) != want {
		t.Fatalf("len(placements) = %d, want %d", len(placements), want)
	}

	seen := make(map[Cell]int)
	for _, p := range placements {
		if p.Row == 2 && p.Col == 2 {
			t.Errorf("excluded cell (2,2) present in output")
		}
		seen[Cell{Row: p.Row, Col: p.Col}]++
	}
	for cell, n := range seen {
		if n != 1 {
			t.Errorf("cell %+v emitted %d times", cell, n)
		}
	}

	// An exclusion is a hole: the cell after it keeps its regular offset.
	for _, p := range placements {
		if p.Row == 2 && p.Col == 3 {
			if want := (Point{X: 24, Y: 12}); p.Position != want {
				t.Errorf("cell (2,3) position = %+v, want %+v", p.Position, want)
			}
		}
	}
}

func TestPlanOrdering(t *testing.T) {
	placements, err := Plan(Spec{Rows: 2, Cols: 3, Cell: Size{Width: 10, Height: 10}})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	want := []Cell{
		{1, 1}, {1, 2}, {1, 3},
		{2, 1}, {2, 2}, {2, 3},
	}
	if len(placements) != len(want) {
		t.Fatalf("len(placements) = %d, want %d", len(placements), len(want))
	}
	for i, p := range placements {
		if p.Row != want[i].Row || p.Col != want[i].Col {
			t.Errorf("placements[%d] = (%d,%d), want (%d,%d)", i, p.Row, p.Col, want[i].Row, want[i].Col)
		}
	}
}

func TestPlanInvalidSpec(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"zero rows", Spec{Rows: 0, Cols: 3}},
		{"negative rows", Spec{Rows: -1, Cols: 3}},
		{"zero cols", Spec{Rows: 3, Cols: 0}},
		{"negative cols", Spec{Rows: 3, Cols: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placements, err := Plan(tt.spec)
			if err == nil {
				t.Fatal("Plan() error = nil, want invalid spec error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidSpec) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidSpec)
			}
			if placements != nil {
				t.Errorf("placements = %v, want nil on error", placements)
			}
		})
	}
}

func TestCountDeduplicatesExclusions(t *testing.T) {
	spec := Spec{
		Rows: 2, Cols: 2,
		Excluded: []Cell{{Row: 1, Col: 1}, {Row: 1, Col: 1}},
	}
	if got := spec.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}

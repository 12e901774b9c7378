package schema

import "floorforge/pkg/grid"

// Sample defaults. These literals are owned by the schema package; nothing
// else defines them.
const (
	sampleScale        = 10.0 // editor units per meter
	sampleCanvasWidth  = 1200.0
	sampleCanvasHeight = 800.0
	sampleRoomWidth    = 120.0 // meters
	sampleRoomDepth    = 80.0  // meters
	sampleWallHeight   = 3.0   // meters
	sampleWallThick    = 0.2   // meters
)

// Sample produces a minimal but fully schema-valid document. It serves as
// the default editor state and as a test fixture.
func Sample() *Document {
	return &Document{
		Version: CurrentVersion,
		SiteID:  "site-sample",
		Canvas:  Canvas{Width: sampleCanvasWidth, Height: sampleCanvasHeight, Scale: sampleScale},
		Room:    Room{Width: sampleRoomWidth, Depth: sampleRoomDepth},
		Walls: []Wall{
			{
				ID:        "wall-north",
				Points:    WallPoints{Start: Point{X: 0, Y: 0}, End: Point{X: sampleCanvasWidth, Y: 0}},
				Thickness: sampleWallThick,
				Height:    sampleWallHeight,
				Rotation:  zeroRotation(),
			},
			{
				ID:        "wall-south",
				Points:    WallPoints{Start: Point{X: 0, Y: sampleCanvasHeight}, End: Point{X: sampleCanvasWidth, Y: sampleCanvasHeight}},
				Thickness: sampleWallThick,
				Height:    sampleWallHeight,
				Rotation:  zeroRotation(),
			},
			{
				ID:        "wall-west",
				Points:    WallPoints{Start: Point{X: 0, Y: 0}, End: Point{X: 0, Y: sampleCanvasHeight}},
				Thickness: sampleWallThick,
				Height:    sampleWallHeight,
				Rotation:  zeroRotation(),
			},
			{
				ID:        "wall-east",
				Points:    WallPoints{Start: Point{X: sampleCanvasWidth, Y: 0}, End: Point{X: sampleCanvasWidth, Y: sampleCanvasHeight}},
				Thickness: sampleWallThick,
				Height:    sampleWallHeight,
				Rotation:  zeroRotation(),
			},
		},
		Office: &Office{X: 40, Y: 40, Width: 200, Height: 120, Rotation: zeroRotation()},
		EquipmentArrays: []EquipmentArray{
			{
				ID:    "array-main",
				Label: "Press bank",
				X:     300,
				Y:     240,
				Config: ArrayConfig{
					Rows:             4,
					Cols:             6,
					CellWidth:        2.0,
					CellHeight:       1.2,
					Spacing:          0.5,
					CorridorCols:     []int{3},
					CorridorColWidth: 2.5,
					Excluded:         []grid.Cell{{Row: 1, Col: 1}},
				},
				Rotation: zeroRotation(),
			},
		},
		Components: []Component{
			{ID: "dock-1", Kind: "loading-dock", X: 1000, Y: 600, Width: 120, Height: 80, Rotation: zeroRotation()},
		},
	}
}

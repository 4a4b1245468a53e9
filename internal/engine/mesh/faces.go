package mesh

// Corner is one vertex of a unit-cube face.
type Corner struct {
	Pos [3]float32
	UV  [2]float32
}

// Face describes one side of a unit cube.
type Face struct {
	Name    string
	UVRow   int    // Atlas row: 0 sides, 1 bottom, 2 top
	Dir     [3]int // Outward normal, also the neighbour offset
	Corners [4]Corner
}

// Faces is the cube face table in emission order.
// Corner order and winding must match the index pattern n, n+1, n+2, n+2, n+1, n+3.
var Faces = [6]Face{
	{
		Name:  "left",
		UVRow: 0,
		Dir:   [3]int{-1, 0, 0},
		Corners: [4]Corner{
			{Pos: [3]float32{0, 1, 0}, UV: [2]float32{0, 1}},
			{Pos: [3]float32{0, 0, 0}, UV: [2]float32{0, 0}},
			{Pos: [3]float32{0, 1, 1}, UV: [2]float32{1, 1}},
			{Pos: [3]float32{0, 0, 1}, UV: [2]float32{1, 0}},
		},
	},
	{
		Name:  "right",
		UVRow: 0,
		Dir:   [3]int{1, 0, 0},
		Corners: [4]Corner{
			{Pos: [3]float32{1, 1, 1}, UV: [2]float32{0, 1}},
			{Pos: [3]float32{1, 0, 1}, UV: [2]float32{0, 0}},
			{Pos: [3]float32{1, 1, 0}, UV: [2]float32{1, 1}},
			{Pos: [3]float32{1, 0, 0}, UV: [2]float32{1, 0}},
		},
	},
	{
		Name:  "bottom",
		UVRow: 1,
		Dir:   [3]int{0, -1, 0},
		Corners: [4]Corner{
			{Pos: [3]float32{1, 0, 1}, UV: [2]float32{1, 0}},
			{Pos: [3]float32{0, 0, 1}, UV: [2]float32{0, 0}},
			{Pos: [3]float32{1, 0, 0}, UV: [2]float32{1, 1}},
			{Pos: [3]float32{0, 0, 0}, UV: [2]float32{0, 1}},
		},
	},
	{
		Name:  "top",
		UVRow: 2,
		Dir:   [3]int{0, 1, 0},
		Corners: [4]Corner{
			{Pos: [3]float32{0, 1, 1}, UV: [2]float32{1, 1}},
			{Pos: [3]float32{1, 1, 1}, UV: [2]float32{0, 1}},
			{Pos: [3]float32{0, 1, 0}, UV: [2]float32{1, 0}},
			{Pos: [3]float32{1, 1, 0}, UV: [2]float32{0, 0}},
		},
	},
	{
		Name:  "back",
		UVRow: 0,
		Dir:   [3]int{0, 0, -1},
		Corners: [4]Corner{
			{Pos: [3]float32{1, 0, 0}, UV: [2]float32{0, 0}},
			{Pos: [3]float32{0, 0, 0}, UV: [2]float32{1, 0}},
			{Pos: [3]float32{1, 1, 0}, UV: [2]float32{0, 1}},
			{Pos: [3]float32{0, 1, 0}, UV: [2]float32{1, 1}},
		},
	},
	{
		Name:  "front",
		UVRow: 0,
		Dir:   [3]int{0, 0, 1},
		Corners: [4]Corner{
			{Pos: [3]float32{0, 0, 1}, UV: [2]float32{0, 0}},
			{Pos: [3]float32{1, 0, 1}, UV: [2]float32{1, 0}},
			{Pos: [3]float32{0, 1, 1}, UV: [2]float32{0, 1}},
			{Pos: [3]float32{1, 1, 1}, UV: [2]float32{1, 1}},
		},
	},
}

package pathfind

// Pos is a cell coordinate on a kitchen grid.
type Pos struct {
	X int
	Y int
}

func (p Pos) Add(d Pos) Pos { return Pos{X: p.X + d.X, Y: p.Y + d.Y} }
func (p Pos) Sub(d Pos) Pos { return Pos{X: p.X - d.X, Y: p.Y - d.Y} }

// Manhattan returns the 4-connected distance between p and q.
func (p Pos) Manhattan(q Pos) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Neighbors is the fixed expansion order used by every search in this package.
// FIFO order over these directions decides ties between equidistant goals.
var Neighbors = [4]Pos{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}}

// Grid is a bounds-checked traversability grid. Cells outside the grid are
// never traversable and never enterable.
type Grid struct {
	w, h  int
	cells []bool
}

// NewGrid returns a w×h grid with every cell traversable.
func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g := &Grid{w: w, h: h, cells: make([]bool, w*h)}
	for i := range g.cells {
		g.cells[i] = true
	}
	return g
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

func (g *Grid) InBounds(p Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.w && p.Y < g.h
}

// Open reports whether p is inside the grid and traversable.
func (g *Grid) Open(p Pos) bool {
	if !g.InBounds(p) {
		return false
	}
	return g.cells[g.index(p)]
}

// Set marks p traversable or blocked. Out-of-bounds writes are ignored.
func (g *Grid) Set(p Pos, open bool) {
	if !g.InBounds(p) {
		return
	}
	g.cells[g.index(p)] = open
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	out := &Grid{w: g.w, h: g.h, cells: make([]bool, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

func (g *Grid) index(p Pos) int { return p.Y*g.w + p.X }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

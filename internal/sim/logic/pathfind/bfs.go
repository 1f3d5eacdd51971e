package pathfind

// ShortestPathToAny runs a breadth-first search from start to the nearest of
// goals. Goal cells are always enterable even when the grid marks them blocked,
// so counters and stations can be targeted directly.
//
// It returns (-1, nil) when no goal is reachable. Otherwise it returns the
// number of moves and the cells visited after start, ending at the chosen goal.
// When start is itself a goal the result is (0, nil).
func ShortestPathToAny(g *Grid, start Pos, goals []Pos) (int, []Pos) {
	if g == nil || !g.InBounds(start) {
		return -1, nil
	}
	isGoal := make(map[Pos]bool, len(goals))
	for _, p := range goals {
		if g.InBounds(p) {
			isGoal[p] = true
		}
	}
	if len(isGoal) == 0 {
		return -1, nil
	}
	if isGoal[start] {
		return 0, nil
	}

	type node struct {
		p      Pos
		parent int
	}
	visited := make([]bool, g.w*g.h)
	visited[g.index(start)] = true
	queue := make([]node, 0, 64)
	queue = append(queue, node{p: start, parent: -1})

	found := -1
	for head := 0; head < len(queue) && found < 0; head++ {
		cur := queue[head]
		for _, d := range Neighbors {
			np := cur.p.Add(d)
			if !g.InBounds(np) {
				continue
			}
			idx := g.index(np)
			if visited[idx] {
				continue
			}
			if !isGoal[np] && !g.cells[idx] {
				continue
			}
			visited[idx] = true
			queue = append(queue, node{p: np, parent: head})
			if isGoal[np] {
				found = len(queue) - 1
				break
			}
		}
	}
	if found < 0 {
		return -1, nil
	}

	var path []Pos
	for i := found; queue[i].parent >= 0; i = queue[i].parent {
		path = append(path, queue[i].p)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return len(path), path
}

// Step is one entry of a Table: the first cell to step onto and the number of
// moves needed to enter the destination.
type Step struct {
	First Pos
	Dist  int
}

// Table holds a shortest-path entry for every cell of a grid, computed from a
// single source.
type Table struct {
	w, h  int
	steps []Step
}

// At returns the entry for p. ok is false when p is out of bounds or was not
// reached from the source.
func (t *Table) At(p Pos) (Step, bool) {
	if t == nil || p.X < 0 || p.Y < 0 || p.X >= t.w || p.Y >= t.h {
		return Step{Dist: -1}, false
	}
	s := t.steps[p.Y*t.w+p.X]
	return s, s.Dist >= 0
}

// Dist returns the distance to p, or -1 when p was not reached.
func (t *Table) Dist(p Pos) int {
	s, _ := t.At(p)
	return s.Dist
}

// AllDestinationsFrom computes, with one search, the first step and distance of
// a shortest path from start to every cell. A blocked cell gets an entry when a
// reached traversable cell is adjacent to it, since it can be entered as a goal.
// The source itself has distance 0.
func AllDestinationsFrom(g *Grid, start Pos) *Table {
	if g == nil {
		return &Table{}
	}
	t := &Table{w: g.w, h: g.h, steps: make([]Step, g.w*g.h)}
	for i := range t.steps {
		t.steps[i] = Step{Dist: -1}
	}
	if !g.InBounds(start) {
		return t
	}
	t.steps[g.index(start)] = Step{First: start, Dist: 0}

	queue := make([]Pos, 0, 64)
	queue = append(queue, start)
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		cs := t.steps[g.index(cur)]
		for _, d := range Neighbors {
			np := cur.Add(d)
			if !g.InBounds(np) {
				continue
			}
			idx := g.index(np)
			if t.steps[idx].Dist >= 0 {
				continue
			}
			first := cs.First
			if cur == start {
				first = np
			}
			t.steps[idx] = Step{First: first, Dist: cs.Dist + 1}
			if g.cells[idx] {
				queue = append(queue, np)
			}
		}
	}
	return t
}

// Map is a boolean reachability map.
type Map struct {
	w, h  int
	cells []bool
}

// Has reports whether p was reached. Out-of-bounds cells are never reached.
func (m *Map) Has(p Pos) bool {
	if m == nil || p.X < 0 || p.Y < 0 || p.X >= m.w || p.Y >= m.h {
		return false
	}
	return m.cells[p.Y*m.w+p.X]
}

// ReachableFrom flood-fills traversable cells from start. Blocked cells that
// border a reached cell are marked reachable too: they can be interacted with.
func ReachableFrom(g *Grid, start Pos) *Map {
	if g == nil {
		return &Map{}
	}
	m := &Map{w: g.w, h: g.h, cells: make([]bool, g.w*g.h)}
	if !g.InBounds(start) {
		return m
	}
	visited := make([]bool, g.w*g.h)
	visited[g.index(start)] = true
	m.cells[g.index(start)] = true

	queue := []Pos{start}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, d := range Neighbors {
			np := cur.Add(d)
			if !g.InBounds(np) {
				continue
			}
			idx := g.index(np)
			m.cells[idx] = true
			if g.cells[idx] && !visited[idx] {
				visited[idx] = true
				queue = append(queue, np)
			}
		}
	}
	return m
}

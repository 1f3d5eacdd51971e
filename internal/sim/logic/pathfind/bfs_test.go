package pathfind

import "testing"

// gridFrom builds a grid from rows where '#' is blocked and anything else is open.
func gridFrom(rows ...string) *Grid {
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			g.Set(Pos{X: x, Y: y}, c != '#')
		}
	}
	return g
}

func checkPath(t *testing.T, start Pos, dist int, path []Pos) {
	t.Helper()
	if len(path) != dist {
		t.Fatalf("path length %d != dist %d (%v)", len(path), dist, path)
	}
	prev := start
	for i, p := range path {
		if prev.Manhattan(p) != 1 {
			t.Fatalf("step %d %+v not adjacent to %+v", i, p, prev)
		}
		prev = p
	}
}

func TestShortestPathToAny_Basic(t *testing.T) {
	g := gridFrom(
		".....",
		".###.",
		".....",
	)
	start := Pos{X: 0, Y: 0}
	dist, path := ShortestPathToAny(g, start, []Pos{{X: 4, Y: 2}})
	if dist != 6 {
		t.Fatalf("dist=%d want 6", dist)
	}
	checkPath(t, start, dist, path)
	if path[len(path)-1] != (Pos{X: 4, Y: 2}) {
		t.Fatalf("path ends at %+v", path[len(path)-1])
	}
}

func TestShortestPathToAny_GoalAlwaysEnterable(t *testing.T) {
	g := gridFrom(
		"..#",
	)
	dist, path := ShortestPathToAny(g, Pos{X: 0, Y: 0}, []Pos{{X: 2, Y: 0}})
	if dist != 2 {
		t.Fatalf("dist=%d want 2", dist)
	}
	checkPath(t, Pos{X: 0, Y: 0}, dist, path)
}

func TestShortestPathToAny_Unreachable(t *testing.T) {
	g := gridFrom(
		".#.",
		"##.",
		"...",
	)
	dist, path := ShortestPathToAny(g, Pos{X: 0, Y: 0}, []Pos{{X: 2, Y: 2}})
	if dist != -1 || path != nil {
		t.Fatalf("got (%d,%v) want (-1,nil)", dist, path)
	}
	// Blocked goals are enterable, but only from a reached neighbor.
	dist, _ = ShortestPathToAny(g, Pos{X: 0, Y: 0}, []Pos{{X: 1, Y: 0}})
	if dist != 1 {
		t.Fatalf("adjacent blocked goal dist=%d want 1", dist)
	}
}

func TestShortestPathToAny_NearestOfMany(t *testing.T) {
	g := gridFrom(
		".......",
	)
	start := Pos{X: 3, Y: 0}
	dist, path := ShortestPathToAny(g, start, []Pos{{X: 0, Y: 0}, {X: 5, Y: 0}})
	if dist != 2 {
		t.Fatalf("dist=%d want 2", dist)
	}
	checkPath(t, start, dist, path)
}

func TestShortestPathToAny_Bounds(t *testing.T) {
	g := gridFrom("...")
	if d, _ := ShortestPathToAny(g, Pos{X: 0, Y: 0}, []Pos{{X: 9, Y: 9}}); d != -1 {
		t.Fatalf("out-of-bounds goal dist=%d", d)
	}
	if d, _ := ShortestPathToAny(g, Pos{X: -1, Y: 0}, []Pos{{X: 1, Y: 0}}); d != -1 {
		t.Fatalf("out-of-bounds start dist=%d", d)
	}
	if d, p := ShortestPathToAny(g, Pos{X: 1, Y: 0}, []Pos{{X: 1, Y: 0}}); d != 0 || p != nil {
		t.Fatalf("start==goal got (%d,%v)", d, p)
	}
}

func TestAllDestinationsFrom_MatchesPointSearch(t *testing.T) {
	g := gridFrom(
		"#####",
		"#...#",
		"#.#.#",
		"#...#",
		"#####",
	)
	start := Pos{X: 1, Y: 1}
	table := AllDestinationsFrom(g, start)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			p := Pos{X: x, Y: y}
			want, _ := ShortestPathToAny(g, start, []Pos{p})
			got := table.Dist(p)
			if got != want {
				t.Fatalf("dist %+v: table=%d search=%d", p, got, want)
			}
			if want > 0 {
				s, _ := table.At(p)
				if s.First.Manhattan(start) != 1 {
					t.Fatalf("first step %+v for %+v not adjacent to start", s.First, p)
				}
			}
		}
	}
	if table.Dist(start) != 0 {
		t.Fatalf("start dist=%d", table.Dist(start))
	}
	if _, ok := table.At(Pos{X: 10, Y: 10}); ok {
		t.Fatalf("out-of-bounds lookup should miss")
	}
}

func TestReachableFrom(t *testing.T) {
	g := gridFrom(
		"..#..",
		"..#..",
	)
	m := ReachableFrom(g, Pos{X: 0, Y: 0})
	if !m.Has(Pos{X: 1, Y: 1}) {
		t.Fatalf("open cell should be reachable")
	}
	if !m.Has(Pos{X: 2, Y: 0}) {
		t.Fatalf("bordering wall should be marked reachable")
	}
	if m.Has(Pos{X: 3, Y: 0}) || m.Has(Pos{X: 4, Y: 1}) {
		t.Fatalf("cells behind the wall should not be reachable")
	}
	if m.Has(Pos{X: -1, Y: 0}) {
		t.Fatalf("out-of-bounds reachable")
	}
}

// Package envstate builds the immutable per-tick view one agent decides from:
// spatial indices over facilities and objects, agent-aware and agent-oblivious
// traversability grids, and reachability and distance tables from the agent.
package envstate

import (
	"math/rand"
	"sort"

	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/logic/pathfind"
)

type Pos = kitchen.Pos

// Cell describes one located grid square.
type Cell struct {
	Pos       Pos
	Facility  kitchen.FacilityKind
	Object    kitchen.Object
	Rest      float64
	Reachable bool
}

// State is one agent's read-only view of a tick. It is never mutated after New.
type State struct {
	snap kitchen.Snapshot

	facilities map[Pos]kitchen.FacilityKind
	items      map[Pos]kitchen.Item
	cells      []Pos

	open       *pathfind.Grid
	agentAware *pathfind.Grid
	reach      *pathfind.Map
	openTable  *pathfind.Table
	agentTable *pathfind.Table

	rng *rand.Rand
}

type Option func(*State)

// WithRand sets the source used for evasive moves.
func WithRand(r *rand.Rand) Option {
	return func(s *State) { s.rng = r }
}

// New indexes snap from the point of view of snap.Agents[snap.Self].
func New(snap kitchen.Snapshot, opts ...Option) *State {
	s := &State{
		snap:       snap,
		facilities: make(map[Pos]kitchen.FacilityKind, len(snap.Facilities)),
		items:      make(map[Pos]kitchen.Item, len(snap.Items)),
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(int64(snap.Time*1000) + int64(snap.Self)))
	}

	w, h := snap.Width, snap.Height
	grow := func(p Pos) {
		if p.X+1 > w {
			w = p.X + 1
		}
		if p.Y+1 > h {
			h = p.Y + 1
		}
	}
	for _, f := range snap.Facilities {
		s.facilities[f.Pos] = f.Kind
		grow(f.Pos)
	}
	for _, it := range snap.Items {
		s.items[it.Pos] = it
		grow(it.Pos)
	}
	for _, a := range snap.Agents {
		grow(a.Pos)
	}

	seen := make(map[Pos]bool, len(s.facilities)+len(s.items))
	for p := range s.facilities {
		seen[p] = true
	}
	for p := range s.items {
		seen[p] = true
	}
	s.cells = make([]Pos, 0, len(seen))
	for p := range seen {
		s.cells = append(s.cells, p)
	}
	sortPositions(s.cells)

	s.open = pathfind.NewGrid(w, h)
	for p, k := range s.facilities {
		if k.Collidable() {
			s.open.Set(p, false)
		}
	}
	s.agentAware = s.open.Clone()
	for _, a := range s.Others() {
		s.agentAware.Set(a.Pos, false)
	}

	self := s.Self().Pos
	s.reach = pathfind.ReachableFrom(s.open, self)
	s.openTable = pathfind.AllDestinationsFrom(s.open, self)
	s.agentTable = pathfind.AllDestinationsFrom(s.agentAware, self)
	return s
}

func (s *State) Snapshot() kitchen.Snapshot { return s.snap }
func (s *State) Time() float64              { return s.snap.Time }
func (s *State) Orders() []kitchen.Order    { return s.snap.Orders }
func (s *State) Rand() *rand.Rand           { return s.rng }

// OpenGrid treats only facilities as obstacles.
func (s *State) OpenGrid() *pathfind.Grid { return s.open }

// AgentGrid additionally blocks cells occupied by other agents.
func (s *State) AgentGrid() *pathfind.Grid { return s.agentAware }

func (s *State) Self() kitchen.Agent {
	if s.snap.Self < 0 || s.snap.Self >= len(s.snap.Agents) {
		return kitchen.Agent{}
	}
	return s.snap.Agents[s.snap.Self]
}

// Holding is the acting agent's held object, empty when hands are free.
func (s *State) Holding() kitchen.Object { return s.Self().Holding }

// Others returns every agent except the acting one.
func (s *State) Others() []kitchen.Agent {
	out := make([]kitchen.Agent, 0, len(s.snap.Agents))
	for i, a := range s.snap.Agents {
		if i != s.snap.Self {
			out = append(out, a)
		}
	}
	return out
}

// OccupiedByOther reports whether another agent stands on p.
func (s *State) OccupiedByOther(p Pos) bool {
	for _, a := range s.Others() {
		if a.Pos == p {
			return true
		}
	}
	return false
}

// ObjectAt returns the unheld object at p.
func (s *State) ObjectAt(p Pos) kitchen.Object { return s.items[p].Object }

// RestAt returns the remaining timer of the object at p.
func (s *State) RestAt(p Pos) float64 { return s.items[p].Rest }

// FacilityAt returns the facility at p, or 0 when the cell has none.
func (s *State) FacilityAt(p Pos) kitchen.FacilityKind { return s.facilities[p] }

func (s *State) facilityName(p Pos) string {
	k, ok := s.facilities[p]
	if !ok {
		return kitchen.Nothing
	}
	return k.String()
}

// Reachable reports whether p can be reached or interacted with, ignoring
// other agents.
func (s *State) Reachable(p Pos) bool { return s.reach.Has(p) }

// ReachableObjects returns the unheld objects on reachable cells, plus the
// acting agent's held object when withHeld is set.
func (s *State) ReachableObjects(withHeld bool) []kitchen.Object {
	var out []kitchen.Object
	for _, p := range s.cells {
		it, ok := s.items[p]
		if ok && !it.Object.Empty() && s.reach.Has(p) {
			out = append(out, it.Object)
		}
	}
	if h := s.Holding(); withHeld && !h.Empty() {
		out = append(out, h)
	}
	return out
}

// ReachableNames is ReachableObjects as canonical names.
func (s *State) ReachableNames(withHeld bool) []string {
	objs := s.ReachableObjects(withHeld)
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Name()
	}
	return out
}

// HasReachable reports whether any reachable object (held included) matches f.
func (s *State) HasReachable(f Filter) bool {
	return f.Match(s.ReachableNames(true)...)
}

// AllObjects returns every unheld object plus every object held by any agent.
func (s *State) AllObjects() []kitchen.Object {
	var out []kitchen.Object
	for _, p := range s.cells {
		if it, ok := s.items[p]; ok && !it.Object.Empty() {
			out = append(out, it.Object)
		}
	}
	for _, a := range s.snap.Agents {
		if !a.Holding.Empty() {
			out = append(out, a.Holding)
		}
	}
	return out
}

// FacilityCount counts facilities of kind k, reachable or not.
func (s *State) FacilityCount(k kitchen.FacilityKind) int {
	n := 0
	for _, f := range s.snap.Facilities {
		if f.Kind == k {
			n++
		}
	}
	return n
}

// ReachableFacilities returns the positions of reachable facilities of kind k.
func (s *State) ReachableFacilities(k kitchen.FacilityKind) []Pos {
	var out []Pos
	for _, p := range s.cells {
		if s.facilities[p] == k && s.reach.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// FindMatching returns every cell whose object and facility pass q, in
// row-major order.
func (s *State) FindMatching(q Query) []Pos {
	var out []Pos
	for _, p := range s.cells {
		if s.matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// IsMatching reports whether the cell at p passes q.
func (s *State) IsMatching(p Pos, q Query) bool {
	if _, ok := s.facilities[p]; !ok {
		if _, ok := s.items[p]; !ok {
			return false
		}
	}
	return s.matches(p, q)
}

func (s *State) matches(p Pos, q Query) bool {
	obj := s.items[p].Object
	if !q.Object.Match(obj.Names(q.Contents)...) {
		return false
	}
	return q.Facility.Match(s.facilityName(p))
}

// NavigateTo picks the nearest cell matching q. Cells reachable without passing
// another agent win; when none exist and agentFree is false the nearest match
// ignoring agents is returned. Ties break on position.
func (s *State) NavigateTo(q Query, agentFree bool) (Pos, bool) {
	matches := s.FindMatching(q)
	if len(matches) == 0 {
		return Pos{}, false
	}
	if p, ok := nearest(s.agentTable, matches); ok {
		return p, true
	}
	if agentFree {
		return Pos{}, false
	}
	return nearest(s.openTable, matches)
}

// Distance returns the agent-oblivious move count to enter p, or -1.
func (s *State) Distance(p Pos) int { return s.openTable.Dist(p) }

func nearest(t *pathfind.Table, candidates []Pos) (Pos, bool) {
	best, bestDist := Pos{}, -1
	for _, p := range candidates {
		d := t.Dist(p)
		if d <= 0 {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist > 0
}

// AllCells lists every located cell with its reachability.
func (s *State) AllCells() []Cell {
	out := make([]Cell, 0, len(s.cells))
	for _, p := range s.cells {
		it := s.items[p]
		out = append(out, Cell{
			Pos:       p,
			Facility:  s.facilities[p],
			Object:    it.Object,
			Rest:      it.Rest,
			Reachable: s.reach.Has(p),
		})
	}
	return out
}

func sortPositions(ps []Pos) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
}

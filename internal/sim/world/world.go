// Package world is a small deterministic kitchen simulator. It applies one
// move per agent per Step, advances chopping, cooking and fire timers, and
// runs the order queue. Executors only ever see it through Snapshot.
package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/levels"
)

type Pos = kitchen.Pos

type item struct {
	obj      kitchen.Object
	chopLeft int
	rest     float64

	fireRest  float64
	sprayed   bool
	lastSpray float64
}

// Event records one effect of a Step.
type Event struct {
	Tick   uint64 `json:"tick"`
	Agent  string `json:"agent,omitempty"`
	Kind   string `json:"kind"`
	Object string `json:"object,omitempty"`
	Pos    Pos    `json:"pos"`
}

type Stats struct {
	Delivered int
	Expired   int
	Wasted    int
	Reward    int
}

type World struct {
	cfg Config

	width, height int
	facilities    map[Pos]kitchen.FacilityKind
	facilityList  []kitchen.Facility
	items         map[Pos]*item
	agents        []kitchen.Agent
	orders        []kitchen.Order
	pending       []kitchen.Object

	rng     *rand.Rand
	recipes []int
	next    int

	tick   uint64
	time   float64
	stats  Stats
	events []Event
}

// New seeds a world from a layout with one agent per spawn.
func New(l levels.Layout, cfg Config) (*World, error) {
	cfg.applyDefaults()
	if len(l.Spawns) == 0 {
		return nil, fmt.Errorf("world: level %q has no agent spawns", l.Name)
	}
	w := &World{
		cfg:        cfg,
		width:      l.Width,
		height:     l.Height,
		facilities: make(map[Pos]kitchen.FacilityKind, len(l.Facilities)),
		items:      make(map[Pos]*item, len(l.Items)),
		rng:        rand.New(rand.NewSource(cfg.Seed)),
	}
	for _, f := range l.Facilities {
		w.facilities[f.Pos] = f.Kind
		w.facilityList = append(w.facilityList, f)
	}
	for _, it := range l.Items {
		w.items[it.Pos] = &item{obj: it.Object}
	}
	for i, p := range l.Spawns {
		if w.facilities[p] != kitchen.Floor {
			return nil, fmt.Errorf("world: spawn %v is not floor", p)
		}
		w.agents = append(w.agents, kitchen.Agent{Name: fmt.Sprintf("agent-%d", i+1), Pos: p})
	}
	if len(cfg.Recipes) > 0 {
		w.recipes = make([]int, 100)
		for i := range w.recipes {
			w.recipes[i] = w.rng.Intn(len(cfg.Recipes))
		}
		w.refillOrders()
	}
	return w, nil
}

func (w *World) Tick() uint64 { return w.tick }

func (w *World) Time() float64 { return w.time }

func (w *World) Stats() Stats { return w.stats }

func (w *World) NumAgents() int { return len(w.agents) }

func (w *World) Agent(i int) kitchen.Agent { return w.agents[i] }

// Events returns the events of the last Step.
func (w *World) Events() []Event { return w.events }

// Snapshot builds the read-only view for agent self.
func (w *World) Snapshot(self int) kitchen.Snapshot {
	s := kitchen.Snapshot{
		Width:      w.width,
		Height:     w.height,
		Facilities: append([]kitchen.Facility(nil), w.facilityList...),
		Agents:     append([]kitchen.Agent(nil), w.agents...),
		Orders:     append([]kitchen.Order(nil), w.orders...),
		Self:       self,
		Time:       w.time,
	}
	for _, p := range w.itemPositions() {
		it := w.items[p]
		rest := it.rest
		if it.obj.OnFire() {
			rest = it.fireRest
		}
		s.Items = append(s.Items, kitchen.Item{Pos: p, Object: it.obj, Rest: rest})
	}
	return s
}

func (w *World) itemPositions() []Pos {
	ps := make([]Pos, 0, len(w.items))
	for p := range w.items {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
	return ps
}

// Step applies moves[i] for agent i in index order, then advances timers and
// orders by one tick. Missing moves count as staying put.
func (w *World) Step(moves []Pos) []Event {
	w.events = w.events[:0]
	for i := range w.agents {
		var m Pos
		if i < len(moves) {
			m = moves[i]
		}
		w.act(i, m)
	}
	w.time += w.cfg.TickSeconds
	w.advanceTimers()
	w.settleOrders()
	w.tick++
	return w.events
}

func (w *World) emit(agent, kind string, obj kitchen.Object, p Pos) {
	w.events = append(w.events, Event{Tick: w.tick, Agent: agent, Kind: kind, Object: obj.Name(), Pos: p})
}

func (w *World) agentAt(p Pos) int {
	for i, a := range w.agents {
		if a.Pos == p {
			return i
		}
	}
	return -1
}

// Digest hashes the simulation state for determinism checks.
func (w *World) Digest() string {
	h := sha256.New()
	var tmp [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(tmp[:], v)
		h.Write(tmp[:])
	}
	put(w.tick)
	put(math.Float64bits(w.time))
	for _, a := range w.agents {
		put(uint64(a.Pos.X))
		put(uint64(a.Pos.Y))
		k := a.Holding.Key()
		h.Write(k[:])
	}
	for _, p := range w.itemPositions() {
		it := w.items[p]
		put(uint64(p.X))
		put(uint64(p.Y))
		k := it.obj.Key()
		h.Write(k[:])
		put(uint64(it.chopLeft))
		put(math.Float64bits(it.rest))
	}
	for _, o := range w.orders {
		k := o.Target.Key()
		h.Write(k[:])
		put(math.Float64bits(o.Remaining))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SetItem places obj at p, replacing whatever was there. An empty obj clears the cell.
func (w *World) SetItem(p Pos, obj kitchen.Object) {
	if obj.Empty() {
		delete(w.items, p)
		return
	}
	it := &item{obj: obj}
	w.initTimers(it)
	w.items[p] = it
}

func (w *World) ItemAt(p Pos) kitchen.Object {
	if it := w.items[p]; it != nil {
		return it.obj
	}
	return kitchen.Object{}
}

func (w *World) SetHolding(i int, obj kitchen.Object) { w.agents[i].Holding = obj }

func (w *World) SetAgentPos(i int, p Pos) { w.agents[i].Pos = p }

// SetOrders replaces the open orders. Refills stop when recipes are empty.
func (w *World) SetOrders(orders []kitchen.Order) {
	w.orders = append([]kitchen.Order(nil), orders...)
}

func (w *World) initTimers(it *item) {
	switch foodState(it.obj) {
	case kitchen.Chopping:
		it.chopLeft = w.cfg.ChopSteps
	case kitchen.Cooking:
		it.rest = w.cfg.CookSeconds
	case kitchen.Cooked:
		it.rest = w.cfg.CharSeconds
	}
	if it.obj.OnFire() {
		it.fireRest = w.cfg.FirePutoutSeconds
	}
}

// foodState returns the state of the first food atom, or 0.
func foodState(o kitchen.Object) kitchen.FoodState {
	for _, a := range o.Atoms() {
		if a.Kind == kitchen.KindFood {
			return a.State
		}
	}
	return 0
}

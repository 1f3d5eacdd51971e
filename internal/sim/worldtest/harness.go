package worldtest

import (
	"testing"

	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/levels"
	"kitchencrew.ai/internal/sim/tasks"
	"kitchencrew.ai/internal/sim/world"
)

// Harness is a small black-box test helper that drives executors against a
// simulated kitchen:
// - Env(i) builds agent i's view of the current tick
// - Run/RunAll step tasks until they leave Working
// - Set* helpers on W provide deterministic preconditions
type Harness struct {
	T      *testing.T
	W      *world.World
	Layout levels.Layout
}

// NewHarness builds a world from map rows (see levels for the legend).
func NewHarness(t *testing.T, cfg world.Config, rows ...string) *Harness {
	t.Helper()
	l, err := levels.FromRows(rows)
	if err != nil {
		t.Fatalf("levels.FromRows: %v", err)
	}
	w, err := world.New(l, cfg)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return &Harness{T: t, W: w, Layout: l}
}

func (h *Harness) Env(i int) *envstate.State { return envstate.New(h.W.Snapshot(i)) }

func (h *Harness) Holding(i int) kitchen.Object { return h.W.Agent(i).Holding }

func (h *Harness) Pos(i int) kitchen.Pos { return h.W.Agent(i).Pos }

// Put places the named object at p.
func (h *Harness) Put(p kitchen.Pos, name string) {
	h.T.Helper()
	o, err := kitchen.ParseObject(name)
	if err != nil {
		h.T.Fatalf("put %q: %v", name, err)
	}
	h.W.SetItem(p, o)
}

// Hold makes agent i hold the named object.
func (h *Harness) Hold(i int, name string) {
	h.T.Helper()
	o, err := kitchen.ParseObject(name)
	if err != nil {
		h.T.Fatalf("hold %q: %v", name, err)
	}
	h.W.SetHolding(i, o)
}

// Run drives agent i with task while every other agent stays put. It returns
// the first non-Working result, or the last Working one after maxTicks, and
// the number of ticks stepped.
func (h *Harness) Run(i int, task tasks.Task, maxTicks int) (tasks.Result, int) {
	ts := make([]tasks.Task, h.W.NumAgents())
	ts[i] = task
	res, ticks := h.RunAll(ts, maxTicks)
	return res[i], ticks
}

// RunAll drives every agent with its own task (nil means stay) until every
// task has left Working or maxTicks pass. Finished agents stay put.
func (h *Harness) RunAll(ts []tasks.Task, maxTicks int) ([]tasks.Result, int) {
	n := h.W.NumAgents()
	results := make([]tasks.Result, n)
	done := make([]bool, n)
	for i := range done {
		done[i] = i >= len(ts) || ts[i] == nil
	}
	for tick := 0; tick < maxTicks; tick++ {
		moves := make([]kitchen.Pos, n)
		pending := false
		for i := 0; i < n; i++ {
			if done[i] {
				continue
			}
			res := ts[i].Step(h.Env(i))
			results[i] = res
			if res.Status != tasks.Working {
				done[i] = true
				continue
			}
			moves[i] = res.Move
			pending = true
		}
		if !pending {
			return results, tick
		}
		h.W.Step(moves)
	}
	return results, maxTicks
}

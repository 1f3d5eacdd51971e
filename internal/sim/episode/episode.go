// Package episode runs controllers against the simulated kitchen: one
// Controller per cook, a planner that turns open orders into goal requests,
// and optional sinks for decisions and world events.
package episode

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kitchencrew.ai/internal/agent"
	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/goals"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/world"
)

// replanCooldown is how many ticks an idle cook waits after its last request
// was skipped.
const replanCooldown = 5

// Planner picks the goals an idle cook should work on. Returning nothing
// leaves the cook idle for the tick.
type Planner func(self int, env *envstate.State, cfg goals.Config) []goals.ID

// EventSink receives each tick's world events.
type EventSink interface {
	WriteStep(tick uint64, events []world.Event) error
}

type Options struct {
	// ID names the episode; empty picks a fresh uuid.
	ID          string
	Logger      *zap.Logger
	Goals       goals.Config
	PrereqDepth int
	Ticks       int
	Planner     Planner
	Tracer      agent.Tracer
	Events      EventSink
}

type Result struct {
	ID      string
	Ticks   int
	Stats   world.Stats
	Digest  string
	Agents  []string
	History [][]agent.Entry
}

// Run steps w for opts.Ticks ticks or until ctx is done. Every cook is
// stepped against the state at the start of the tick.
func Run(ctx context.Context, w *world.World, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Planner == nil {
		opts.Planner = OrderPlanner
	}
	cfg := opts.Goals.WithDefaults()
	res := Result{ID: opts.ID}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	log = log.With(zap.String("episode", res.ID))

	n := w.NumAgents()
	ctrls := make([]*agent.Controller, n)
	wake := make([]int, n)
	for i := range ctrls {
		a := w.Agent(i)
		ctrls[i] = agent.NewController(agent.Options{
			Logger:      log.With(zap.String("agent", a.Name)),
			Tracer:      opts.Tracer,
			Goals:       cfg,
			PrereqDepth: opts.PrereqDepth,
		})
		res.Agents = append(res.Agents, a.Name)
	}

	moves := make([]kitchen.Pos, n)
	for t := 0; t < opts.Ticks; t++ {
		if err := ctx.Err(); err != nil {
			return finish(res, w, ctrls), err
		}
		for i, c := range ctrls {
			env := envstate.New(w.Snapshot(i))
			if c.Idle() && t >= wake[i] {
				if ids := opts.Planner(i, env, cfg); len(ids) > 0 {
					log.Debug("planned", zap.Int("agent", i), zap.Any("goals", ids))
					c.Enqueue(ids...)
				}
			}
			moves[i] = c.Step(env)
			if c.Idle() && lastSkipped(c) {
				wake[i] = t + replanCooldown
			}
		}
		events := w.Step(moves)
		res.Ticks++
		if opts.Events != nil {
			if err := opts.Events.WriteStep(w.Tick(), events); err != nil {
				log.Warn("event write failed", zap.Error(err))
			}
		}
	}
	res = finish(res, w, ctrls)
	log.Info("episode finished",
		zap.Int("ticks", res.Ticks),
		zap.Int("delivered", res.Stats.Delivered),
		zap.Int("expired", res.Stats.Expired),
		zap.Int("reward", res.Stats.Reward))
	return res, nil
}

func finish(res Result, w *world.World, ctrls []*agent.Controller) Result {
	res.Stats = w.Stats()
	res.Digest = w.Digest()
	res.History = make([][]agent.Entry, len(ctrls))
	for i, c := range ctrls {
		res.History[i] = c.History()
	}
	return res
}

func lastSkipped(c *agent.Controller) bool {
	h := c.History()
	return len(h) > 0 && h[len(h)-1].Outcome == agent.Skipped
}

// OrderPlanner handles emergencies first: a fire anywhere, then charred food.
// Otherwise cook i serves open order i modulo the number of orders.
func OrderPlanner(self int, env *envstate.State, cfg goals.Config) []goals.ID {
	for _, id := range []goals.ID{goals.PutoutID, goals.DropID} {
		g, err := goals.New(id, cfg)
		if err == nil && g.CanBegin(env).OK {
			return []goals.ID{id}
		}
	}
	orders := env.Orders()
	if len(orders) == 0 {
		return nil
	}
	d, ok := DishForOrder(orders[self%len(orders)])
	if !ok {
		return nil
	}
	return []goals.ID{goals.ServeID(d)}
}

// DishForOrder names the dish whose plated cooked soup fulfils o.
func DishForOrder(o kitchen.Order) (kitchen.Dish, bool) {
	for _, d := range kitchen.Dishes {
		if d.Object(kitchen.Cooked, true).Equal(o.Target) {
			return d, true
		}
	}
	return kitchen.Dish{}, false
}

package goals

import (
	"math"

	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/tasks"
)

// Serve delivers a plated soup.
type Serve struct {
	runner
	dish kitchen.Dish
}

func NewServe(d kitchen.Dish, cfg Config) *Serve {
	return &Serve{runner: runner{cfg: cfg.WithDefaults()}, dish: d}
}

func (s *Serve) ID() ID { return ServeID(s.dish) }

func (s *Serve) Step(env *envstate.State) tasks.Result { return s.run(env, s.plan) }

func (s *Serve) plan(env *envstate.State) ([]tasks.Task, bool) {
	if ts, ok := ensureCounter(env, s.cfg); ok {
		return ts, false
	}
	plated := s.dish.Key(kitchen.Cooked, true)
	have := reachableSet(env)
	if !have[plated] {
		if have[s.dish.Key(kitchen.Cooking, false)] {
			return seq(tasks.NewFail("The " + s.dish.SoupName() + " is currently cooking, so you need to wait for it to be cooked " +
				"and then pick it up before you can serve it. You are free to do other actions while waiting.")), false
		}
		return seq(tasks.NewFail("The " + s.dish.SoupName() + " is not yet cooked, so you cannot serve it.")), false
	}
	if !holding(env, plated) {
		if !handsFree(env) {
			return seq(putAway()), false
		}
		return seq(tasks.NewPick(envstate.Is(plated), anyFilter)), false
	}
	return seq(tasks.NewDeliver()), true
}

func (s *Serve) CanBegin(env *envstate.State) Feasibility {
	priority := 0.0
	target := s.dish.Object(kitchen.Cooked, false)
	urgency := math.Inf(1)
	for _, o := range env.Orders() {
		if o.Target.Without(kitchen.KindPlate).Equal(target) {
			urgency = math.Min(urgency, o.Urgency())
		}
	}
	if !math.IsInf(urgency, 1) {
		priority = 1 - math.Min(0.42, urgency)
	}

	if !navigable(env, anyFilter, envstate.Is(kitchen.Delivery.String())) {
		return Feasibility{Reason: "No reachable delivery."}
	}
	have := reachableSet(env)
	if !have[s.dish.Key(kitchen.Cooked, true)] {
		reason := "The " + s.dish.SoupName() + " is not yet cooked. You need to cook it and plate it first."
		switch {
		case have[s.dish.Key(kitchen.Cooking, false)]:
			reason = "The " + s.dish.SoupName() + " is currently cooking. You need to wait for it to be cooked and plate it first."
		case have[s.dish.Key(kitchen.Cooked, false)]:
			reason = "The " + s.dish.SoupName() + " is still in the pot. You need to plate it first."
		}
		return Feasibility{Reason: reason, Prereqs: []ID{PlateID(s.dish)}}
	}
	return Feasibility{
		OK:       true,
		Reason:   "You can serve the " + s.dish.SoupName() + " now because the cooked soup has been picked up and is ready to be served.",
		Priority: priority,
	}
}

// Putout fetches an extinguisher and puts out a burning pot.
type Putout struct {
	runner
}

func NewPutout(cfg Config) *Putout { return &Putout{runner{cfg: cfg.WithDefaults()}} }

func (p *Putout) ID() ID { return PutoutID }

func (p *Putout) Step(env *envstate.State) tasks.Result { return p.run(env, p.plan) }

const msgNoFire = "There is currently no fire on the map, so the situation is safe."

func (p *Putout) plan(env *envstate.State) ([]tasks.Task, bool) {
	if ts, ok := ensureCounter(env, p.cfg); ok {
		return ts, false
	}
	if _, ok := env.NavigateTo(fireInPot, false); !ok {
		return seq(tasks.NewFail(msgNoFire)), false
	}
	if !holding(env, kitchen.NameExtinguisher) {
		if !handsFree(env) {
			return seq(putAway()), false
		}
		return seq(tasks.NewPick(envstate.Is(kitchen.NameExtinguisher), anyFilter)), false
	}
	return seq(tasks.NewPutout()), true
}

func (p *Putout) CanBegin(env *envstate.State) Feasibility {
	if _, ok := env.NavigateTo(fireInPot, false); !ok {
		return Feasibility{Reason: msgNoFire}
	}
	if !reachableSet(env)[kitchen.NameExtinguisher] {
		return Feasibility{Reason: "There is currently no fire extinguisher on the map, so you cannot put out the fire."}
	}
	return Feasibility{OK: true, Reason: "There is a fire on the map, and you can perform the putout action.", Priority: 0.6}
}

// Drop plates charred food and throws it in a bin, or parks it on a counter
// when no bin is reachable.
type Drop struct {
	runner
}

func NewDrop(cfg Config) *Drop { return &Drop{runner{cfg: cfg.WithDefaults()}} }

func (d *Drop) ID() ID { return DropID }

func (d *Drop) Step(env *envstate.State) tasks.Result { return d.run(env, d.plan) }

const msgNoCharred = "There is no charred food on the map to drop."

func (d *Drop) plan(env *envstate.State) ([]tasks.Task, bool) {
	if ts, ok := ensureCounter(env, d.cfg); ok {
		return ts, false
	}
	have := reachableSet(env)
	if !have.hasAny(kitchen.AssembleCharredPlate...) {
		if !have.hasAny(kitchen.AssembleCharred...) {
			return seq(tasks.NewFail(msgNoCharred)), false
		}
		if !holding(env, kitchen.NamePlate) {
			if !handsFree(env) {
				return seq(putAway()), false
			}
			return seq(tasks.NewPick(anyFilter, plateTile)), false
		}
		return seq(tasks.NewPick(is(kitchen.AssembleCharred), anyFilter)), false
	}
	if !holding(env, kitchen.AssembleCharredPlate...) {
		if !handsFree(env) {
			return seq(putAway()), false
		}
		return seq(tasks.NewPick(is(kitchen.AssembleCharredPlate), anyFilter)), false
	}
	if navigable(env, anyFilter, envstate.Is(kitchen.Bin.String())) {
		return seq(tasks.NewDrop()), true
	}
	return seq(putAway()), true
}

func (d *Drop) CanBegin(env *envstate.State) Feasibility {
	have := reachableSet(env)
	if !have[kitchen.NamePlate] && !navigable(env, anyFilter, plateTile) {
		return Feasibility{Reason: "No reachable plate."}
	}
	if !have.hasAny(kitchen.Concat(kitchen.AssembleCharredPlate, kitchen.AssembleCharred)...) {
		if have.hasAny(kitchen.WithAtom(kitchen.AssembleCharred, kitchen.Fire)...) {
			return Feasibility{
				Reason:  "The charred food is on fire; you need to put out the fire first.",
				Prereqs: []ID{PutoutID},
			}
		}
		return Feasibility{Reason: msgNoCharred}
	}
	return Feasibility{OK: true, Reason: "You can perform the drop action because there are charred food items on the map.", Priority: 0.6}
}

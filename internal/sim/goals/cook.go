package goals

import (
	"math"

	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/tasks"
)

const msgAllPotsOnFire = "You need to put out the fire in the pot first because all pots are currently on fire."

// Cook puts a dish's assembled ingredients into an empty pot.
type Cook struct {
	runner
	dish kitchen.Dish
}

func NewCook(d kitchen.Dish, cfg Config) *Cook {
	return &Cook{runner: runner{cfg: cfg.WithDefaults()}, dish: d}
}

func (c *Cook) ID() ID { return CookID(c.dish) }

func (c *Cook) Step(env *envstate.State) tasks.Result { return c.run(env, c.plan) }

// allPotsOnFire reports whether every reachable pot burns. With no reachable
// pot it reports false.
func allPotsOnFire(env *envstate.State) bool {
	pots := env.ReachableFacilities(kitchen.Pot)
	if len(pots) == 0 {
		return false
	}
	for _, p := range pots {
		if !env.ObjectAt(p).OnFire() {
			return false
		}
	}
	return true
}

func (c *Cook) missingMsg() string {
	return "You should assemble " + c.dish.IngredientsName() + " first before cooking the soup."
}

func (c *Cook) plan(env *envstate.State) ([]tasks.Task, bool) {
	if ts, ok := ensureCounter(env, c.cfg); ok {
		return ts, false
	}
	ingred := c.dish.Key(kitchen.Chopped, false)
	plated := c.dish.Key(kitchen.Chopped, true)
	have := reachableSet(env)

	// Missing ingredients are reported ahead of burning pots.
	if !have.hasAny(ingred, plated) {
		return seq(tasks.NewFail(c.missingMsg())), false
	}
	if len(env.ReachableFacilities(kitchen.Pot)) == 0 {
		return seq(tasks.NewFail("No reachable pot")), false
	}
	if allPotsOnFire(env) {
		return seq(tasks.NewFail(msgAllPotsOnFire)), false
	}
	cooking := envstate.Query{Object: is(kitchen.AssembleCooking), Facility: pot}
	if len(env.FindMatching(cooking)) == env.FacilityCount(kitchen.Pot) {
		if !handsFree(env) {
			return seq(putAway()), false
		}
		done := envstate.Query{Object: is(kitchen.AssembleCooked), Facility: pot}
		return seq(tasks.NewWait(done, c.cfg.WaitTimeout)), false
	}
	if !navigable(env, nothing, pot) {
		// Every pot is occupied: plate whatever is finished to free one.
		if !holding(env, kitchen.NamePlate) {
			if !handsFree(env) {
				return seq(putAway()), false
			}
			return seq(tasks.NewPick(anyFilter, plateTile)), false
		}
		finished := is(kitchen.AssembleCooked, kitchen.AssembleCharred)
		return seq(
			tasks.NewWait(envstate.Query{Object: finished, Facility: pot}, c.cfg.PotWaitTimeout),
			tasks.NewPick(finished, pot),
			putAway(),
		), false
	}
	if !holding(env, ingred, plated) {
		if !handsFree(env) {
			if holding(env, kitchen.NamePlate) {
				return seq(tasks.NewPut(plateTile)), false
			}
			return seq(putAway()), false
		}
		if navigable(env, envstate.Is(ingred), anyFilter) {
			return seq(tasks.NewPick(envstate.Is(ingred), anyFilter)), false
		}
		return seq(tasks.NewPick(envstate.Is(plated), anyFilter)), false
	}
	return seq(tasks.NewCook()), true
}

func (c *Cook) CanBegin(env *envstate.State) Feasibility {
	priority := 0.0
	if len(openOrders(env, c.dish, c.dish.Key(kitchen.Cooked, false), c.dish.Key(kitchen.Cooking, false))) > 0 {
		priority = 0.54
	}
	have := reachableSet(env)
	if !have.hasAny(c.dish.Key(kitchen.Chopped, false), c.dish.Key(kitchen.Chopped, true)) {
		return Feasibility{Reason: c.missingMsg(), Prereqs: []ID{PrepareID(c.dish)}}
	}
	if !navigable(env, anyFilter, pot) {
		return Feasibility{Reason: "No reachable pot"}
	}
	if allPotsOnFire(env) {
		return Feasibility{Reason: msgAllPotsOnFire, Prereqs: []ID{PutoutID}}
	}
	return Feasibility{
		OK:       true,
		Reason:   "The required ingredients for " + c.dish.SoupName() + " are ready, so you can start cooking it.",
		Priority: priority,
	}
}

// Pick plates a cooked soup straight off its pot.
type Pick struct {
	runner
	dish kitchen.Dish
}

func NewPick(d kitchen.Dish, cfg Config) *Pick {
	return &Pick{runner: runner{cfg: cfg.WithDefaults()}, dish: d}
}

func (p *Pick) ID() ID { return PlateID(p.dish) }

func (p *Pick) Step(env *envstate.State) tasks.Result { return p.run(env, p.plan) }

func (p *Pick) plan(env *envstate.State) ([]tasks.Task, bool) {
	if ts, ok := ensureCounter(env, p.cfg); ok {
		return ts, false
	}
	if !holding(env, kitchen.NamePlate) {
		if !handsFree(env) {
			return seq(putAway()), false
		}
		if navigable(env, envstate.Is(kitchen.NamePlate), anyFilter) {
			return seq(tasks.NewPick(envstate.Is(kitchen.NamePlate), anyFilter)), false
		}
		return seq(tasks.NewPick(anyFilter, plateTile)), false
	}
	target := p.dish.Key(kitchen.Cooked, false)
	have := reachableSet(env)
	if !have[target] {
		if have[p.dish.Key(kitchen.Cooking, false)] {
			return seq(tasks.NewFail("The " + p.dish.SoupName() + " is cooking, so you cannot pick it up.")), false
		}
		return seq(tasks.NewFail("The " + p.dish.SoupName() + " is not cooked yet, so you cannot pick it up.")), false
	}
	return seq(tasks.NewPick(envstate.Is(target), anyFilter)), true
}

func (p *Pick) CanBegin(env *envstate.State) Feasibility {
	target := p.dish.Key(kitchen.Cooked, false)

	byOrder := 0.0
	if orders := openOrders(env, p.dish, p.dish.Key(kitchen.Cooked, true)); len(orders) > 0 {
		byOrder = 1 - math.Min(0.44, orders[0].Urgency())
	}
	byCharring := 0.0
	minRest := math.Inf(1)
	for _, cell := range env.AllCells() {
		if cell.Facility == kitchen.Pot && cell.Object.Name() == target {
			minRest = math.Min(minRest, cell.Rest)
		}
	}
	if !math.IsInf(minRest, 1) {
		byCharring = 1 - minRest/p.cfg.CookedBeforeFire
	}
	priority := math.Max(0, math.Min(1, math.Max(byOrder, byCharring)))

	have := reachableSet(env)
	if !have[kitchen.NamePlate] && !navigable(env, anyFilter, plateTile) {
		return Feasibility{Reason: "No reachable plate."}
	}
	if !have[target] {
		if have[p.dish.Key(kitchen.Cooking, false)] {
			return Feasibility{Reason: "The " + p.dish.SoupName() + " is currently cooking. You will plate it when it is ready."}
		}
		return Feasibility{
			Reason:  "The " + p.dish.SoupName() + " is not cooked yet, so you cannot plate it.",
			Prereqs: []ID{CookID(p.dish)},
		}
	}
	return Feasibility{
		OK:       true,
		Reason:   "The " + p.dish.SoupName() + " has finished cooking and is ready to be plated.",
		Priority: priority,
	}
}

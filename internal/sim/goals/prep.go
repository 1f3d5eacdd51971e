package goals

import (
	"strings"

	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/tasks"
)

// Chop turns one fresh ingredient into chopped food on a counter.
type Chop struct {
	runner
	ing kitchen.Ingredient
}

func NewChop(i kitchen.Ingredient, cfg Config) *Chop {
	return &Chop{runner: runner{cfg: cfg.WithDefaults()}, ing: i}
}

func (c *Chop) ID() ID { return ChopID(c.ing) }

func (c *Chop) name(s kitchen.FoodState) string { return kitchen.Food(c.ing, s).Name() }

func (c *Chop) Step(env *envstate.State) tasks.Result { return c.run(env, c.plan) }

func (c *Chop) plan(env *envstate.State) ([]tasks.Task, bool) {
	if ts, ok := ensureCounter(env, c.cfg); ok {
		return ts, false
	}
	fresh, chopping := c.name(kitchen.Fresh), c.name(kitchen.Chopping)

	mine := envstate.Query{Object: envstate.Is(chopping), Facility: cutboard}
	if _, ok := env.NavigateTo(mine, true); ok {
		if !handsFree(env) {
			return seq(putAway()), false
		}
		return seq(
			tasks.NewChop(chopping),
			tasks.NewPick(envstate.Is(c.name(kitchen.Chopped)), cutboard),
			putAway(),
		), true
	}

	if allCutboardsBusy(env) {
		if !handsFree(env) {
			return seq(putAway()), false
		}
		return seq(tasks.NewChop("")), false
	}
	if !navigable(env, nothing, cutboard) {
		if !handsFree(env) {
			return seq(putAway()), false
		}
		return seq(tasks.NewPick(anyFilter, cutboard), putAway()), false
	}
	if !holding(env, fresh, kitchen.Nothing) {
		return seq(putAway()), false
	}
	if handsFree(env) {
		if navigable(env, envstate.Is(fresh), counter) {
			return seq(tasks.NewPick(envstate.Is(fresh), anyFilter)), false
		}
		return seq(tasks.NewPick(anyFilter, envstate.Is(kitchen.TileFor(c.ing).String()))), false
	}
	return seq(tasks.NewPut(cutboard)), false
}

// allCutboardsBusy reports whether every reachable cutboard holds food being chopped.
func allCutboardsBusy(env *envstate.State) bool {
	chopping := envstate.Is(kitchen.ChoppingFood...)
	for _, p := range env.ReachableFacilities(kitchen.Cutboard) {
		if !chopping.Match(env.ObjectAt(p).Name()) {
			return false
		}
	}
	return true
}

func (c *Chop) CanBegin(env *envstate.State) Feasibility {
	priority := 0.1
	if ingredientDemand(env)[c.ing] > 0 {
		priority = 0.5
	}
	if !navigable(env, anyFilter, cutboard) {
		return Feasibility{Reason: "There is no reachable cutboard, so you cannot chop."}
	}
	ok := navigable(env, anyFilter, envstate.Is(kitchen.TileFor(c.ing).String())) ||
		navigable(env, envstate.Is(c.name(kitchen.Fresh)), counter) ||
		navigable(env, envstate.Is(c.name(kitchen.Chopping)), cutboard)
	if !ok {
		return Feasibility{Reason: "There is no reachable " + c.ing.String() + " to chop."}
	}
	return Feasibility{OK: true, Reason: "You can begin chopping the " + c.ing.String() + ".", Priority: priority}
}

// assembleSteps is the pairwise merge table: each chopped combination and the
// ways to build it from a larger part and a smaller part.
var assembleSteps = buildAssembleSteps()

type mergeStep struct{ larger, smaller string }

func buildAssembleSteps() map[string][]mergeStep {
	chopped := func(is ...kitchen.Ingredient) string {
		atoms := make([]kitchen.Atom, len(is))
		for i, ing := range is {
			atoms[i] = kitchen.Food(ing, kitchen.Chopped)
		}
		return kitchen.NewObject(atoms...).Name()
	}
	L, O, T := kitchen.Lettuce, kitchen.Onion, kitchen.Tomato
	return map[string][]mergeStep{
		chopped(L, O): {{chopped(L), chopped(O)}},
		chopped(L, T): {{chopped(L), chopped(T)}},
		chopped(O, T): {{chopped(O), chopped(T)}},
		chopped(L, O, T): {
			{chopped(O, T), chopped(L)},
			{chopped(L, T), chopped(O)},
			{chopped(L, O), chopped(T)},
		},
	}
}

// nextMerge finds the next achievable merge toward target given the reachable
// names. It descends through the first recipe until it finds a step whose
// larger part exists or is a single ingredient.
func nextMerge(target string, have nameSet) (step mergeStep, result string) {
	result = target
	for {
		steps := assembleSteps[result]
		for _, s := range steps {
			if have[s.larger] || !strings.Contains(s.larger, "-") {
				return s, result
			}
		}
		result = steps[0].larger
	}
}

// Assemble merges chopped ingredients into a dish's ingredient pile.
type Assemble struct {
	runner
	dish   kitchen.Dish
	target string
}

func NewAssemble(d kitchen.Dish, cfg Config) *Assemble {
	return &Assemble{runner: runner{cfg: cfg.WithDefaults()}, dish: d, target: d.Key(kitchen.Chopped, false)}
}

func (a *Assemble) ID() ID { return PrepareID(a.dish) }

func (a *Assemble) Step(env *envstate.State) tasks.Result { return a.run(env, a.plan) }

func (a *Assemble) plan(env *envstate.State) ([]tasks.Task, bool) {
	if ts, ok := ensureCounter(env, a.cfg); ok {
		return ts, false
	}
	have := reachableSet(env)
	step, result := nextMerge(a.target, have)
	for _, part := range []string{step.larger, step.smaller} {
		if !have[part] {
			return seq(tasks.NewFail("You need to chop " + kitchen.DisplayNameOf(part) + " first.")), false
		}
	}
	if !holding(env, step.larger) {
		if !handsFree(env) {
			return seq(putAway()), false
		}
		return seq(tasks.NewPick(envstate.Is(step.larger), anyFilter)), false
	}
	return seq(tasks.NewAssemble(envstate.Is(step.smaller), anyFilter)), result == a.target
}

func (a *Assemble) CanBegin(env *envstate.State) Feasibility {
	priority := 0.0
	done := []string{
		a.dish.Key(kitchen.Cooked, false),
		a.dish.Key(kitchen.Cooking, false),
		a.dish.Key(kitchen.Chopped, false),
	}
	if len(openOrders(env, a.dish, done...)) > 0 {
		priority = 0.52
	}

	have := reachableSet(env)
	var miss []string
	for {
		step, result := nextMerge(a.target, have)
		for _, part := range []string{step.larger, step.smaller} {
			if !have[part] {
				miss = append(miss, part)
			}
		}
		if result == a.target {
			break
		}
		have[result] = true
	}
	if len(miss) > 0 {
		names := make([]string, len(miss))
		prereqs := make([]ID, 0, len(miss))
		for i, m := range miss {
			names[i] = "`" + kitchen.StripState(m) + "`"
			if ing, ok := kitchen.ParseIngredient(kitchen.StripState(m)); ok {
				prereqs = append(prereqs, ChopID(ing))
			}
		}
		return Feasibility{Reason: "You need to chop " + joinAnd(names) + " first.", Prereqs: prereqs}
	}
	return Feasibility{
		OK:       true,
		Reason:   "You can assemble " + a.dish.IngredientsName() + " now as all required chopped vegetables are on the map.",
		Priority: priority,
	}
}

// joinAnd renders "a", "a and b", "a, b and c".
func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

package goals

import (
	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/tasks"
)

// Clean frees counter space. While fewer than two reachable counters are
// empty it returns a held plate to the supply, bins anything else held, or
// picks up the least useful counter item to bin on the next pass.
type Clean struct {
	runner
}

func NewClean(cfg Config) *Clean { return &Clean{runner{cfg: cfg.WithDefaults()}} }

// cleanOrder ranks counter items from first to last to throw away.
func cleanOrder(env *envstate.State) [][]string {
	useless := uselessChopped(env)
	return [][]string{
		one(kitchen.NamePlate),
		kitchen.AssembleCharredPlate,
		kitchen.FreshFood,
		useless,
		kitchen.AssembleChopped,
		kitchen.AssembleChoppedPlate,
		kitchen.AssembleCookedPlate,
	}
}

// uselessChopped lists chopped ingredients the open orders have more than
// enough of, or every chopped combination when none are surplus.
func uselessChopped(env *envstate.State) []string {
	var out []string
	req := ingredientDemand(env)
	for _, i := range kitchen.AllIngredients {
		if req[i] <= -1 {
			out = append(out, kitchen.Food(i, kitchen.Chopped).Name())
		}
	}
	if len(out) == 0 {
		return kitchen.AssembleChopped
	}
	return out
}

func reachableEmptyCounters(env *envstate.State) int {
	n := 0
	for _, p := range env.FindMatching(emptyCounter) {
		if env.Reachable(p) {
			n++
		}
	}
	return n
}

func (c *Clean) plan(env *envstate.State) ([]tasks.Task, bool) {
	if reachableEmptyCounters(env) > 1 {
		return seq(tasks.NewSuccess("")), true
	}
	if holding(env, kitchen.NamePlate) {
		return seq(tasks.NewPut(plateTile)), false
	}
	if !handsFree(env) {
		return seq(tasks.NewDrop()), false
	}
	for _, names := range cleanOrder(env) {
		if navigable(env, envstate.Is(names...), counter) {
			return seq(tasks.NewPick(envstate.Is(names...), counter)), false
		}
	}
	return seq(tasks.NewPick(anyFilter, counter)), false
}

func (c *Clean) Step(env *envstate.State) tasks.Result { return c.run(env, c.plan) }

// ensureCounter returns a Clean plan when no empty counter is reachable.
func ensureCounter(env *envstate.State, cfg Config) ([]tasks.Task, bool) {
	if navigable(env, nothing, counter) {
		return nil, false
	}
	return seq(NewClean(cfg)), true
}

// CleanID names the helper in traces. It is not part of the goal menu.
const CleanID ID = "Clean"

func (c *Clean) ID() ID { return CleanID }

// CanBegin always holds; Clean succeeds at once when counters are free.
func (c *Clean) CanBegin(env *envstate.State) Feasibility {
	return Feasibility{OK: true, Reason: "Can begin"}
}

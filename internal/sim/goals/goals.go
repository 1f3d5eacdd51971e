// Package goals holds the high-level cooking goals. Each goal decomposes into
// an ordered queue of lower-level tasks, recomputed from the current view
// whenever the queue runs dry, and reports whether it can begin along with a
// priority for an external selector.
package goals

import (
	"sort"

	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/tasks"
)

// Feasibility is the answer to CanBegin. Prereqs name goals that would make
// this one feasible; they are suggestions, not scheduled work.
type Feasibility struct {
	OK       bool
	Reason   string
	Prereqs  []ID
	Priority float64
}

// Goal is a composite task with a feasibility query.
type Goal interface {
	tasks.Task
	ID() ID
	CanBegin(env *envstate.State) Feasibility
}

type Config struct {
	// MaxFailures is how many subtask failures a goal absorbs by replanning
	// before it fails as a whole.
	MaxFailures int
	// WaitTimeout bounds waiting for a pot to finish, in ticks.
	WaitTimeout int
	// PotWaitTimeout bounds waiting to empty an occupied pot, in ticks.
	PotWaitTimeout int
	// CookedBeforeFire is the seconds cooked food lasts in a pot before it
	// chars; it scales the plating priority.
	CookedBeforeFire float64
}

func DefaultConfig() Config {
	return Config{MaxFailures: 3, WaitTimeout: 5, PotWaitTimeout: 10, CookedBeforeFire: 25}
}

// WithDefaults fills unset fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.MaxFailures <= 0 {
		c.MaxFailures = d.MaxFailures
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = d.WaitTimeout
	}
	if c.PotWaitTimeout <= 0 {
		c.PotWaitTimeout = d.PotWaitTimeout
	}
	if c.CookedBeforeFire <= 0 {
		c.CookedBeforeFire = d.CookedBeforeFire
	}
	return c
}

// maxChain bounds how many subtasks may finish inside one Step.
const maxChain = 32

// planFunc derives the next subtasks from the view alone. final reports that
// the last returned subtask completes the goal.
type planFunc func(env *envstate.State) (next []tasks.Task, final bool)

// runner drives a subtask queue. Failed subtasks clear the queue and force a
// fresh plan until MaxFailures is reached.
type runner struct {
	cfg      Config
	queue    []tasks.Task
	final    bool
	failures int
}

func (r *runner) refill(env *envstate.State, plan planFunc) {
	if r.final {
		r.queue = nil
		return
	}
	r.queue, r.final = plan(env)
}

func (r *runner) run(env *envstate.State, plan planFunc) tasks.Result {
	if len(r.queue) == 0 {
		r.refill(env, plan)
	}
	for i := 0; i < maxChain && (!r.final || len(r.queue) > 0); i++ {
		if len(r.queue) == 0 {
			r.refill(env, plan)
			continue
		}
		res := r.queue[0].Step(env)
		switch res.Status {
		case tasks.Working:
			return res
		case tasks.Failed:
			r.failures++
			if r.failures >= r.cfg.MaxFailures {
				return tasks.Result{Status: tasks.Failed, Move: kitchen.Stay, Msg: res.Msg}
			}
			r.queue, r.final = nil, false
		default:
			r.queue = r.queue[1:]
		}
		if len(r.queue) == 0 {
			r.refill(env, plan)
		}
	}
	if !r.final || len(r.queue) > 0 {
		return tasks.Result{Status: tasks.Working, Move: kitchen.Stay, Msg: "Replanning"}
	}
	return tasks.Result{Status: tasks.Success, Move: kitchen.Stay, Msg: "Completed"}
}

// Shared filters and queries.
var (
	anyFilter    = envstate.Any()
	nothing      = envstate.Is(kitchen.Nothing)
	counter      = envstate.Is(kitchen.Counter.String())
	cutboard     = envstate.Is(kitchen.Cutboard.String())
	pot          = envstate.Is(kitchen.Pot.String())
	plateTile    = envstate.Is(kitchen.PlateTile.String())
	emptyCounter = envstate.Query{Object: nothing, Facility: counter}
	fireInPot    = envstate.Query{Object: envstate.Is(kitchen.NameFire), Facility: pot, Contents: true}
)

func is(lists ...[]string) envstate.Filter { return envstate.Is(kitchen.Concat(lists...)...) }

func one(name string) []string { return []string{name} }

func seq(ts ...tasks.Task) []tasks.Task { return ts }

func navigable(env *envstate.State, object, facility envstate.Filter) bool {
	_, ok := env.NavigateTo(envstate.Query{Object: object, Facility: facility}, false)
	return ok
}

func holding(env *envstate.State, names ...string) bool {
	return envstate.Is(names...).Match(env.Holding().Name())
}

func handsFree(env *envstate.State) bool { return env.Holding().Empty() }

// nameSet is the reachable objects, held included, by canonical name.
type nameSet map[string]bool

func reachableSet(env *envstate.State) nameSet {
	out := nameSet{}
	for _, n := range env.ReachableNames(true) {
		out[n] = true
	}
	return out
}

func (s nameSet) hasAny(names ...string) bool {
	for _, n := range names {
		if s[n] {
			return true
		}
	}
	return false
}

// putAway frees the hands onto the nearest empty counter.
func putAway() tasks.Task { return tasks.NewPut(counter) }

// ingredientDemand counts, per ingredient, the open order needs not yet
// covered by chopped, cooking or cooked food anywhere in the kitchen.
func ingredientDemand(env *envstate.State) map[kitchen.Ingredient]int {
	req := map[kitchen.Ingredient]int{}
	for _, o := range env.Orders() {
		for _, i := range o.Target.Ingredients() {
			req[i]++
		}
	}
	for _, obj := range env.AllObjects() {
		for _, a := range obj.Atoms() {
			if a.Kind != kitchen.KindFood {
				continue
			}
			switch a.State {
			case kitchen.Chopped, kitchen.Cooking, kitchen.Cooked:
				req[a.Food]--
			}
		}
	}
	return req
}

// openOrders returns orders for the dish, most urgent first, minus one per
// object already named in done anywhere in the kitchen.
func openOrders(env *envstate.State, d kitchen.Dish, done ...string) []kitchen.Order {
	target := d.Object(kitchen.Cooked, false)
	var orders []kitchen.Order
	for _, o := range env.Orders() {
		if o.Target.Without(kitchen.KindPlate).Equal(target) {
			orders = append(orders, o)
		}
	}
	sortByUrgency(orders)
	doneSet := envstate.Is(done...)
	finished := 0
	for _, obj := range env.AllObjects() {
		if doneSet.Match(obj.Name()) {
			finished++
		}
	}
	if finished >= len(orders) {
		return nil
	}
	return orders[finished:]
}

func sortByUrgency(orders []kitchen.Order) {
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Urgency() < orders[j].Urgency() })
}

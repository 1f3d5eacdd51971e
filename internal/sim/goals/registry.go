package goals

import (
	"errors"
	"fmt"
	"strings"

	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
)

// ID names a goal the way players ask for it, e.g. "Chop Tomato" or
// "Serve Alice Soup".
type ID string

const (
	PutoutID ID = "Putout"
	DropID   ID = "Drop"
)

func ChopID(i kitchen.Ingredient) ID { return ID("Chop " + i.String()) }

func PrepareID(d kitchen.Dish) ID { return ID("Prepare " + d.IngredientsName()) }

func CookID(d kitchen.Dish) ID { return ID("Cook " + d.SoupName()) }

func PlateID(d kitchen.Dish) ID { return ID("Plate " + d.SoupName()) }

func ServeID(d kitchen.Dish) ID { return ID("Serve " + d.SoupName()) }

var ErrUnknownGoal = errors.New("unknown goal")

// All lists every goal id in menu order.
func All() []ID {
	var out []ID
	for _, i := range kitchen.AllIngredients {
		out = append(out, ChopID(i))
	}
	for _, d := range kitchen.Dishes {
		out = append(out, PrepareID(d))
	}
	out = append(out, PutoutID)
	for _, d := range kitchen.Dishes {
		out = append(out, CookID(d))
	}
	for _, d := range kitchen.Dishes {
		out = append(out, PlateID(d))
	}
	for _, d := range kitchen.Dishes {
		out = append(out, ServeID(d))
	}
	return append(out, DropID)
}

// New builds a fresh goal instance for id.
func New(id ID, cfg Config) (Goal, error) {
	cfg = cfg.WithDefaults()
	switch id {
	case PutoutID:
		return NewPutout(cfg), nil
	case DropID:
		return NewDrop(cfg), nil
	}
	verb, arg, ok := strings.Cut(string(id), " ")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGoal, id)
	}
	if verb == "Chop" {
		ing, ok := kitchen.ParseIngredient(arg)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGoal, id)
		}
		return NewChop(ing, cfg), nil
	}
	d, ok := kitchen.LookupDish(arg)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGoal, id)
	}
	var g Goal
	switch {
	case verb == "Prepare" && id == PrepareID(d):
		g = NewAssemble(d, cfg)
	case verb == "Cook" && id == CookID(d):
		g = NewCook(d, cfg)
	case verb == "Plate" && id == PlateID(d):
		g = NewPick(d, cfg)
	case verb == "Serve" && id == ServeID(d):
		g = NewServe(d, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGoal, id)
	}
	return g, nil
}

// Candidate is one row of a Survey.
type Candidate struct {
	ID ID
	Feasibility
}

// Survey asks every goal whether it can begin, in menu order.
func Survey(env *envstate.State, cfg Config) []Candidate {
	ids := All()
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		g, err := New(id, cfg)
		if err != nil {
			continue
		}
		out = append(out, Candidate{ID: id, Feasibility: g.CanBegin(env)})
	}
	return out
}

// Best returns the feasible candidate with the highest priority, first in
// menu order on ties.
func Best(cands []Candidate) (Candidate, bool) {
	var best Candidate
	found := false
	for _, c := range cands {
		if !c.OK {
			continue
		}
		if !found || c.Priority > best.Priority {
			best, found = c, true
		}
	}
	return best, found
}

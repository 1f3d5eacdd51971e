package kitchen

import "strings"

// combos lists ingredient sets in vocabulary order: singles, pairs, then the triple.
var combos = [][]Ingredient{
	{Tomato}, {Onion}, {Lettuce},
	{Lettuce, Onion}, {Lettuce, Tomato}, {Onion, Tomato},
	{Lettuce, Onion, Tomato},
}

// Combos returns the canonical names of every ingredient combination with all
// food in state s, optionally plated.
func Combos(s FoodState, plate bool) []string {
	out := make([]string, 0, len(combos))
	for _, c := range combos {
		atoms := make([]Atom, 0, len(c)+1)
		for _, i := range c {
			atoms = append(atoms, Food(i, s))
		}
		if plate {
			atoms = append(atoms, Plate)
		}
		out = append(out, NewObject(atoms...).Name())
	}
	return out
}

// Singles returns the single-food names in state s, one per ingredient.
func Singles(s FoodState) []string {
	out := make([]string, 0, len(AllIngredients))
	for _, i := range AllIngredients {
		out = append(out, Food(i, s).Name())
	}
	return out
}

// WithAtom adds atom a to every name in names and returns the canonical results.
func WithAtom(names []string, a Atom) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, MustParseObject(n).With(a).Name())
	}
	return out
}

// Concat joins name lists into a fresh slice.
func Concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// Shared vocabulary used by rule tables and decomposition policies.
var (
	FreshFood    = Singles(Fresh)
	ChoppingFood = Singles(Chopping)
	ChoppedFood  = Singles(Chopped)
	CookingFood  = Singles(Cooking)
	CookedFood   = Singles(Cooked)
	CharredFood  = Singles(Charred)

	AssembleChopped      = Combos(Chopped, false)
	AssembleChoppedPlate = Combos(Chopped, true)
	AssembleCooking      = Combos(Cooking, false)
	AssembleCooked       = Combos(Cooked, false)
	AssembleCookedPlate  = Combos(Cooked, true)
	AssembleCharred      = Combos(Charred, false)
	AssembleCharredPlate = Combos(Charred, true)

	NameExtinguisher = Extinguisher.Name()
	NamePlate        = Plate.Name()
	NameFire         = Fire.Name()
)

// DisplayName renders an object the way players talk about it, e.g.
// "Alice Ingredients with Plate" or "Plated Charred Bob Soup".
func DisplayName(o Object) string {
	if o.Empty() {
		return Nothing
	}
	switch {
	case o.Equal(NewObject(Extinguisher)):
		return "Fire Extinguisher"
	case o.Equal(NewObject(Plate)):
		return "Plate"
	}

	plated := o.Has(Plate)
	if o.Count(KindExtinguisher) > 0 {
		return "Unknown"
	}
	var state FoodState
	for _, a := range o.Atoms() {
		if a.Kind != KindFood {
			continue
		}
		if state != 0 && a.State != state {
			return "Unknown"
		}
		state = a.State
	}
	ings := o.Ingredients()
	if len(ings) == 0 {
		return "Unknown"
	}
	if len(ings) == 1 {
		name := state.String() + " " + ings[0].String()
		if plated {
			name += " with Plate"
		}
		return name
	}
	dish, ok := DishFor(ings)
	if !ok {
		return "Unknown"
	}
	switch state {
	case Chopped:
		if plated {
			return dish.Name + " Ingredients with Plate"
		}
		return dish.Name + " Ingredients"
	case Cooking, Cooked, Charred:
		if !plated {
			return dish.Name + " Soup"
		}
		if state == Charred {
			return "Plated Charred " + dish.Name + " Soup"
		}
		return "Plated " + dish.Name + " Soup"
	}
	return "Unknown"
}

// DisplayNameOf is DisplayName for a canonical name.
func DisplayNameOf(name string) string {
	o, err := ParseObject(name)
	if err != nil {
		return "Unknown"
	}
	return DisplayName(o)
}

// StripState removes the state prefix from a single-food name: "ChoppedLettuce" → "Lettuce".
func StripState(name string) string {
	for _, s := range allStates {
		if rest, ok := strings.CutPrefix(name, s.String()); ok {
			return rest
		}
	}
	return name
}

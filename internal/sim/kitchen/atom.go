package kitchen

import (
	"sort"
	"strings"
)

// Ingredient is a food kind that can be chopped and cooked.
type Ingredient uint8

const (
	Lettuce Ingredient = iota + 1
	Onion
	Tomato
)

// AllIngredients lists every ingredient in goal-menu order.
var AllIngredients = []Ingredient{Tomato, Lettuce, Onion}

func (i Ingredient) String() string {
	switch i {
	case Lettuce:
		return "Lettuce"
	case Onion:
		return "Onion"
	case Tomato:
		return "Tomato"
	default:
		return "Unknown"
	}
}

func ParseIngredient(s string) (Ingredient, bool) {
	for _, i := range []Ingredient{Lettuce, Onion, Tomato} {
		if i.String() == s {
			return i, true
		}
	}
	return 0, false
}

// FoodState is a stage of the Fresh→Chopping→Chopped→Cooking→Cooked→Charred progression.
type FoodState uint8

const (
	Fresh FoodState = iota + 1
	Chopping
	Chopped
	Cooking
	Cooked
	Charred
)

var allStates = []FoodState{Fresh, Chopping, Chopped, Cooking, Cooked, Charred}

func (s FoodState) String() string {
	switch s {
	case Fresh:
		return "Fresh"
	case Chopping:
		return "Chopping"
	case Chopped:
		return "Chopped"
	case Cooking:
		return "Cooking"
	case Cooked:
		return "Cooked"
	case Charred:
		return "Charred"
	default:
		return "Unknown"
	}
}

// AtomKind is the closed set of indivisible item kinds.
type AtomKind uint8

const (
	KindFood AtomKind = iota + 1
	KindPlate
	KindFire
	KindExtinguisher
)

// Atom is an indivisible item. Food and State are only meaningful for KindFood.
type Atom struct {
	Kind  AtomKind
	Food  Ingredient
	State FoodState
}

var (
	Plate        = Atom{Kind: KindPlate}
	Fire         = Atom{Kind: KindFire}
	Extinguisher = Atom{Kind: KindExtinguisher}
)

// Food returns the food atom for ingredient i in state s.
func Food(i Ingredient, s FoodState) Atom {
	return Atom{Kind: KindFood, Food: i, State: s}
}

// Name is the state-qualified atom name, e.g. "ChoppedOnion" or "Plate".
func (a Atom) Name() string {
	switch a.Kind {
	case KindFood:
		return a.State.String() + a.Food.String()
	case KindPlate:
		return "Plate"
	case KindFire:
		return "Fire"
	case KindExtinguisher:
		return "FireExtinguisher"
	default:
		return "Unknown"
	}
}

// The tag tables assign every valid atom a non-zero tag whose numeric order
// equals the lexical order of atom names, so a sorted tag array spells the
// canonical name.
var tagOf, atomOf, byName = buildAtomTables()

func buildAtomTables() (map[Atom]uint8, []Atom, map[string]Atom) {
	all := []Atom{Plate, Fire, Extinguisher}
	for _, i := range []Ingredient{Lettuce, Onion, Tomato} {
		for _, s := range allStates {
			all = append(all, Food(i, s))
		}
	}
	sort.Slice(all, func(a, b int) bool { return all[a].Name() < all[b].Name() })

	tags := make(map[Atom]uint8, len(all))
	atoms := []Atom{{}}
	names := make(map[string]Atom, len(all))
	for _, a := range all {
		tags[a] = uint8(len(atoms))
		atoms = append(atoms, a)
		names[a.Name()] = a
	}
	return tags, atoms, names
}

// ParseAtom resolves a state-qualified atom name.
func ParseAtom(name string) (Atom, bool) {
	a, ok := byName[strings.TrimSpace(name)]
	return a, ok
}

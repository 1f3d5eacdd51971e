package kitchen

import "strings"

// Dish is a named ingredient combination served as a soup.
type Dish struct {
	Name        string
	Ingredients []Ingredient
}

// Dishes is the closed recipe vocabulary.
var Dishes = []Dish{
	{Name: "Alice", Ingredients: []Ingredient{Lettuce, Onion}},
	{Name: "Bob", Ingredients: []Ingredient{Lettuce, Tomato}},
	{Name: "Cathy", Ingredients: []Ingredient{Onion, Tomato}},
	{Name: "David", Ingredients: []Ingredient{Lettuce, Onion, Tomato}},
}

// LookupDish accepts "Alice", "Alice Soup" or "Alice Ingredients".
func LookupDish(name string) (Dish, bool) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, " Soup")
	name = strings.TrimSuffix(name, " Ingredients")
	for _, d := range Dishes {
		if d.Name == name {
			return d, true
		}
	}
	return Dish{}, false
}

// DishFor returns the dish made of exactly the given ingredients.
func DishFor(ings []Ingredient) (Dish, bool) {
	want := NewObject(foods(ings, Fresh)...)
	for _, d := range Dishes {
		if NewObject(foods(d.Ingredients, Fresh)...).Equal(want) {
			return d, true
		}
	}
	return Dish{}, false
}

// Object returns the dish with all food in state s, optionally plated.
func (d Dish) Object(s FoodState, plate bool) Object {
	atoms := foods(d.Ingredients, s)
	if plate {
		atoms = append(atoms, Plate)
	}
	return NewObject(atoms...)
}

// Key is the canonical name of Object(s, plate).
func (d Dish) Key(s FoodState, plate bool) string { return d.Object(s, plate).Name() }

func (d Dish) SoupName() string        { return d.Name + " Soup" }
func (d Dish) IngredientsName() string { return d.Name + " Ingredients" }

func foods(ings []Ingredient, s FoodState) []Atom {
	out := make([]Atom, 0, len(ings))
	for _, i := range ings {
		out = append(out, Food(i, s))
	}
	return out
}

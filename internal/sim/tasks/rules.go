package tasks

import (
	"kitchencrew.ai/internal/sim/envstate"
	k "kitchencrew.ai/internal/sim/kitchen"
)

func is(lists ...[]string) envstate.Filter { return envstate.Is(k.Concat(lists...)...) }

func names(n ...string) []string { return n }

func at(object, facility envstate.Filter) envstate.Query {
	return envstate.Query{Object: object, Facility: facility}
}

var (
	nothing   = envstate.Is(k.Nothing)
	puttable  = envstate.Is(k.PuttableFacilities...)
	plateTile = envstate.Is(k.PlateTile.String())

	// Everything that may rest on a counter and be carried around.
	portable = names(k.NameExtinguisher, k.NamePlate)
	carried  = k.Concat(k.FreshFood, k.AssembleChopped, k.AssembleChoppedPlate,
		k.AssembleCookedPlate, k.AssembleCharredPlate, portable)
)

var putRules = []Rule{
	{
		Pre:  Cond{Held: is(carried), Target: at(nothing, envstate.Is(k.Counter.String()))},
		Post: Cond{Held: nothing, Target: at(is(carried), puttable)},
	},
	{
		Pre:  Cond{Held: is(k.FreshFood, k.AssembleChopped), Target: at(nothing, anyCutboard)},
		Post: Cond{Held: nothing, Target: at(is(k.ChoppingFood, k.AssembleChopped), puttable)},
	},
	{
		Pre:  Cond{Held: envstate.Is(k.NamePlate), Target: at(nothing, plateTile)},
		Post: Cond{Held: nothing, Target: at(nothing, plateTile)},
	},
}

var dropRules = []Rule{{
	Pre: Cond{
		Held:   is(k.FreshFood, k.AssembleChopped, k.AssembleChoppedPlate, k.AssembleCookedPlate, k.AssembleCharredPlate),
		Target: at(nothing, envstate.Is(k.Bin.String())),
	},
	Post: Cond{Held: is(names(k.Nothing, k.NamePlate)), Target: at(nothing, envstate.Is(k.Bin.String()))},
}}

var deliverRules = []Rule{{
	Pre: Cond{
		Held:   is(k.AssembleChoppedPlate, k.AssembleCookedPlate),
		Target: at(nothing, envstate.Is(k.Delivery.String())),
	},
	Post: Cond{Held: is(names(k.Nothing, k.NamePlate)), Target: at(nothing, envstate.Is(k.Delivery.String()))},
}}

var cookRules = []Rule{{
	Pre: Cond{
		Held:   is(k.AssembleChopped, k.AssembleChoppedPlate),
		Target: at(nothing, envstate.Is(k.Pot.String())),
	},
	Post: Cond{
		Held:   is(names(k.Nothing, k.NamePlate)),
		Target: at(is(k.AssembleCooking, k.AssembleCooked), envstate.Is(k.Pot.String())),
	},
}}

var assembleRules = []Rule{{
	Pre: Cond{
		Held:   is(k.AssembleChopped),
		Target: at(is(k.AssembleChopped, k.AssembleChoppedPlate, names(k.NamePlate)), puttable),
	},
	Post: Cond{Held: nothing, Target: at(is(k.AssembleChopped, k.AssembleChoppedPlate), puttable)},
}}

var pickRules = []Rule{
	{ // from a supply tile
		Pre:  Cond{Held: nothing, Target: at(nothing, is(k.FoodTiles, names(k.PlateTile.String())))},
		Post: Cond{Held: is(k.FreshFood, names(k.NamePlate)), Target: at(nothing, is(k.FoodTiles, names(k.PlateTile.String())))},
	},
	{ // from a counter or cutboard
		Pre:  Cond{Held: nothing, Target: at(is(carried), puttable)},
		Post: Cond{Held: is(carried), Target: at(nothing, puttable)},
	},
	{ // soup off a pot onto a held plate
		Pre: Cond{
			Held:   envstate.Is(k.NamePlate),
			Target: at(is(k.AssembleCooking, k.AssembleCooked, k.AssembleCharred), envstate.Is(k.Pot.String())),
		},
		Post: Cond{Held: is(k.AssembleCookedPlate, k.AssembleCharredPlate), Target: at(nothing, envstate.Is(k.Pot.String()))},
	},
	{ // chopped food onto a held plate
		Pre:  Cond{Held: is(k.AssembleChoppedPlate, names(k.NamePlate)), Target: at(is(k.AssembleChopped), puttable)},
		Post: Cond{Held: is(k.AssembleChoppedPlate), Target: at(nothing, puttable)},
	},
	{ // plate from the supply under held chopped food
		Pre:  Cond{Held: is(k.AssembleChopped), Target: at(nothing, plateTile)},
		Post: Cond{Held: is(k.AssembleChoppedPlate), Target: at(nothing, plateTile)},
	},
}

// NewPut puts the held item down: on an empty counter, on an empty cutboard
// for fresh or chopped food, or back onto the plate supply for a bare plate.
// facility narrows the destination.
func NewPut(facility envstate.Filter) *DoOnce {
	return newDoOnce(putRules, Desc{"put", "put", "puttable"}, envstate.Any(), facility)
}

// NewDrop throws the held food into a bin, keeping any plate.
func NewDrop() *DoOnce {
	return newDoOnce(dropRules, Desc{"drop", "drop", "droppable"}, envstate.Any(), envstate.Any())
}

// NewDeliver hands a plated dish to a delivery point.
func NewDeliver() *DoOnce {
	return newDoOnce(deliverRules, Desc{"delivery", "deliver", "deliverable"}, envstate.Any(), envstate.Any())
}

// NewCook places held chopped food into an empty pot.
func NewCook() *DoOnce {
	return newDoOnce(cookRules, Desc{"cook", "cook", "cookable"}, envstate.Any(), envstate.Any())
}

// NewAssemble merges the held chopped food into object on a counter or cutboard.
func NewAssemble(object, facility envstate.Filter) *DoOnce {
	return newDoOnce(assembleRules, Desc{"assemble", "assemble", "assemblable"}, object, facility)
}

// NewPick picks up object from facility; either may be Any.
func NewPick(object, facility envstate.Filter) *DoOnce {
	return newDoOnce(pickRules, Desc{"pick", "pick", "pickable"}, object, facility)
}

package world

import "kitchencrew.ai/internal/sim/kitchen"

// act applies one agent's move. Moving into floor walks unless another agent
// stands there; moving into anything else is an interaction with that square.
func (w *World) act(i int, move Pos) {
	a := &w.agents[i]
	a.Action = move
	if move == kitchen.Stay || move.Manhattan(kitchen.Stay) != 1 {
		return
	}
	target := a.Pos.Add(move)
	kind, ok := w.facilities[target]
	if !ok {
		return
	}
	if kind == kitchen.Floor {
		if w.agentAt(target) >= 0 {
			return
		}
		a.Pos = target
		return
	}
	if a.Holding.Empty() {
		w.interactEmpty(a, target, kind)
		return
	}
	w.interactHolding(a, target, kind)
}

func tileObject(kind kitchen.FacilityKind) kitchen.Object {
	switch kind {
	case kitchen.TomatoTile:
		return kitchen.NewObject(kitchen.Food(kitchen.Tomato, kitchen.Fresh))
	case kitchen.LettuceTile:
		return kitchen.NewObject(kitchen.Food(kitchen.Lettuce, kitchen.Fresh))
	case kitchen.OnionTile:
		return kitchen.NewObject(kitchen.Food(kitchen.Onion, kitchen.Fresh))
	case kitchen.PlateTile:
		return kitchen.NewObject(kitchen.Plate)
	}
	return kitchen.Object{}
}

func isTile(kind kitchen.FacilityKind) bool { return !tileObject(kind).Empty() }

func lone(o kitchen.Object, a kitchen.Atom) bool { return o.Len() == 1 && o.Has(a) }

// deliverable: a composition of plates and chopped or cooked food.
func deliverable(o kitchen.Object) bool {
	if o.Len() < 2 {
		return false
	}
	for _, a := range o.Atoms() {
		switch {
		case a.Kind == kitchen.KindPlate:
		case a.Kind == kitchen.KindFood && (a.State == kitchen.Chopped || a.State == kitchen.Cooked):
		default:
			return false
		}
	}
	return true
}

// cookable: chopped food, optionally on a plate.
func cookable(o kitchen.Object) bool {
	if o.Count(kitchen.KindFood) == 0 {
		return false
	}
	for _, a := range o.Atoms() {
		switch {
		case a.Kind == kitchen.KindPlate:
		case a.Kind == kitchen.KindFood && a.State == kitchen.Chopped:
		default:
			return false
		}
	}
	return true
}

func choppable(o kitchen.Object) bool {
	return o.Len() == 1 && foodState(o) == kitchen.Fresh
}

// keepTools strips everything but plates and extinguishers.
func keepTools(o kitchen.Object) kitchen.Object {
	return o.Without(kitchen.KindFood).Without(kitchen.KindFire)
}

func (w *World) interactEmpty(a *kitchen.Agent, p Pos, kind kitchen.FacilityKind) {
	if isTile(kind) {
		a.Holding = tileObject(kind)
		w.emit(a.Name, "pick", a.Holding, p)
		return
	}
	if kind != kitchen.Counter && kind != kitchen.Cutboard {
		return
	}
	it := w.items[p]
	if it == nil {
		return
	}
	if kind == kitchen.Cutboard && it.obj.Len() == 1 {
		switch foodState(it.obj) {
		case kitchen.Fresh:
			it.obj = it.obj.Restate(kitchen.Chopping)
			it.chopLeft = w.cfg.ChopSteps
			fallthrough
		case kitchen.Chopping:
			it.chopLeft--
			if it.chopLeft <= 0 {
				it.obj = it.obj.Restate(kitchen.Chopped)
				it.chopLeft = 0
			}
			w.emit(a.Name, "chop", it.obj, p)
			return
		}
	}
	a.Holding = it.obj
	delete(w.items, p)
	w.emit(a.Name, "pick", a.Holding, p)
}

func (w *World) interactHolding(a *kitchen.Agent, p Pos, kind kitchen.FacilityKind) {
	held := a.Holding
	it := w.items[p]
	switch {
	case kind == kitchen.Delivery:
		if deliverable(held) {
			w.pending = append(w.pending, held)
			a.Holding = kitchen.Object{}
			w.emit(a.Name, "deliver", held, p)
		}
	case kind == kitchen.Bin:
		a.Holding = keepTools(held)
		w.emit(a.Name, "drop", held, p)
	case isTile(kind):
		supply := tileObject(kind)
		switch {
		case kind == kitchen.PlateTile && lone(held, kitchen.Plate):
			a.Holding = kitchen.Object{}
			w.emit(a.Name, "return", held, p)
		case kitchen.Mergeable(held, supply):
			a.Holding = held.Merge(supply)
			w.emit(a.Name, "pick", supply, p)
		}
	case kind == kitchen.Pot:
		w.interactPot(a, p, it)
	case it == nil:
		obj := held
		chop := 0
		if kind == kitchen.Cutboard && choppable(held) {
			obj = held.Restate(kitchen.Chopping)
			chop = w.cfg.ChopSteps
		}
		w.items[p] = &item{obj: obj, chopLeft: chop}
		a.Holding = kitchen.Object{}
		w.emit(a.Name, "put", obj, p)
	case kitchen.Mergeable(held, it.obj):
		merged := held.Merge(it.obj)
		if held.Has(kitchen.Plate) {
			a.Holding = merged
			delete(w.items, p)
		} else {
			w.items[p] = &item{obj: merged}
			a.Holding = kitchen.Object{}
		}
		w.emit(a.Name, "assemble", merged, p)
	case held.Has(kitchen.Plate) && it.obj.Has(kitchen.Plate):
		// Two plated objects: move the food onto one plate, leave the other bare.
		if lone(held, kitchen.Plate) {
			food := it.obj.Without(kitchen.KindPlate)
			a.Holding = held.Merge(food)
			w.items[p] = &item{obj: kitchen.NewObject(kitchen.Plate)}
			w.emit(a.Name, "assemble", a.Holding, p)
			return
		}
		food := held.Without(kitchen.KindPlate)
		if kitchen.Mergeable(food, it.obj) {
			w.items[p] = &item{obj: it.obj.Merge(food)}
			a.Holding = kitchen.NewObject(kitchen.Plate)
			w.emit(a.Name, "assemble", w.items[p].obj, p)
		}
	}
}

func (w *World) interactPot(a *kitchen.Agent, p Pos, it *item) {
	held := a.Holding
	switch {
	case it == nil:
		if !cookable(held) {
			return
		}
		food := held.Without(kitchen.KindPlate).Restate(kitchen.Cooking)
		w.items[p] = &item{obj: food, rest: w.cfg.CookSeconds}
		a.Holding = keepTools(held)
		w.emit(a.Name, "cook", food, p)
	case lone(held, kitchen.Extinguisher) && it.obj.OnFire():
		it.sprayed = true
		w.emit(a.Name, "putout", it.obj, p)
	case lone(held, kitchen.Plate) && it.obj.IsCooked() && !it.obj.OnFire():
		a.Holding = held.Merge(it.obj)
		delete(w.items, p)
		w.emit(a.Name, "pick", a.Holding, p)
	}
}

package world

import "kitchencrew.ai/internal/sim/kitchen"

// advanceTimers runs cooking, charring and fire for every item in a pot.
func (w *World) advanceTimers() {
	dt := w.cfg.TickSeconds
	for _, p := range w.itemPositions() {
		if w.facilities[p] != kitchen.Pot {
			continue
		}
		it := w.items[p]
		switch foodState(it.obj) {
		case kitchen.Cooking:
			it.rest -= dt
			if it.rest <= 0 {
				it.obj = it.obj.Restate(kitchen.Cooked)
				it.rest += w.cfg.CharSeconds
				w.emit("", "cooked", it.obj, p)
			}
		case kitchen.Cooked:
			it.rest -= dt
			if it.rest <= 0 {
				it.obj = it.obj.Restate(kitchen.Charred).With(kitchen.Fire)
				it.rest = 0
				it.fireRest = w.cfg.FirePutoutSeconds
				it.lastSpray = w.time
				w.emit("", "fire", it.obj, p)
			}
		}
		if it.obj.OnFire() {
			w.burn(p, it, dt)
		}
	}
}

// burn shrinks a sprayed fire and regrows an unattended one after the
// recover gap. A fire whose timer runs out is gone.
func (w *World) burn(p Pos, it *item, dt float64) {
	if it.sprayed {
		it.sprayed = false
		it.fireRest -= dt
		it.lastSpray = w.time
	} else if w.time-it.lastSpray > w.cfg.FireRecoverSeconds {
		it.fireRest = min(w.cfg.FirePutoutSeconds, it.fireRest+dt)
	}
	if it.fireRest <= 0 {
		it.obj = it.obj.Without(kitchen.KindFire)
		it.fireRest = 0
		w.emit("", "extinguished", it.obj, p)
	}
}

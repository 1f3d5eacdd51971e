package world

import "kitchencrew.ai/internal/sim/kitchen"

// nextRecipe walks the seeded rotation, reshuffling when it runs out.
func (w *World) nextRecipe() Recipe {
	if w.next >= len(w.recipes) {
		for i := range w.recipes {
			w.recipes[i] = w.rng.Intn(len(w.cfg.Recipes))
		}
		w.next = 0
	}
	r := w.cfg.Recipes[w.recipes[w.next]]
	w.next++
	return r
}

func (w *World) refillOrders() {
	if len(w.cfg.Recipes) == 0 {
		return
	}
	for len(w.orders) < w.cfg.MaxOrders {
		r := w.nextRecipe()
		w.orders = append(w.orders, kitchen.Order{Target: r.Target, Remaining: r.Limit, Limit: r.Limit, Bonus: r.Bonus})
	}
}

// settleOrders matches this tick's deliveries against open orders, oldest
// first, then ages the rest and expires those out of time.
func (w *World) settleOrders() {
	for _, d := range w.pending {
		matched := false
		for i, o := range w.orders {
			if o.Target.Equal(d) {
				w.stats.Delivered++
				w.stats.Reward += o.Bonus
				w.orders = append(w.orders[:i], w.orders[i+1:]...)
				w.emit("", "order_done", d, kitchen.Stay)
				matched = true
				break
			}
		}
		if !matched {
			w.stats.Wasted++
		}
	}
	w.pending = w.pending[:0]

	kept := w.orders[:0]
	for _, o := range w.orders {
		if o.Limit <= 0 {
			// untimed
			kept = append(kept, o)
			continue
		}
		o.Remaining -= w.cfg.TickSeconds
		if o.Remaining <= 0 {
			w.stats.Expired++
			w.stats.Reward -= w.cfg.ExpirePunish
			w.emit("", "order_expired", o.Target, kitchen.Stay)
			continue
		}
		kept = append(kept, o)
	}
	w.orders = kept
	w.refillOrders()
}

package tasks_test

import (
	"testing"

	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/tasks"
	"kitchencrew.ai/internal/sim/world"
	"kitchencrew.ai/internal/sim/worldtest"
)

// Tile O at (1,0), pot at (3,0), delivery at (4,0), cutboard at (1,2),
// bin at (5,1), plate supply at (4,2). The agent starts at (1,1).
var kitchenRows = []string{
	"-O-U*-",
	"-1   B",
	"-/--P-",
}

func newHarness(t *testing.T) *worldtest.Harness {
	return worldtest.NewHarness(t, world.Config{}, kitchenRows...)
}

func requireSuccess(t *testing.T, res tasks.Result) {
	t.Helper()
	if res.Status != tasks.Success {
		t.Fatalf("status %v (%s), want SUCCESS", res.Status, res.Msg)
	}
}

func TestChopUntilChopped(t *testing.T) {
	h := newHarness(t)
	board := kitchen.Pos{X: 1, Y: 2}
	h.Put(board, "ChoppingOnion")

	res, ticks := h.Run(0, tasks.NewChop(""), 40)
	requireSuccess(t, res)
	if got := h.W.ItemAt(board).Name(); got != "ChoppedOnion" {
		t.Fatalf("cutboard holds %s", got)
	}
	if ticks < 8 {
		t.Fatalf("chopping took %d ticks, want at least 8", ticks)
	}
}

func TestChopRefusesWithFullHands(t *testing.T) {
	h := newHarness(t)
	h.Put(kitchen.Pos{X: 1, Y: 2}, "ChoppingOnion")
	h.Hold(0, "Plate")
	res, _ := h.Run(0, tasks.NewChop("ChoppingOnion"), 5)
	if res.Status != tasks.Failed || res.Msg != "Can't perform chop" {
		t.Fatalf("got %+v", res)
	}
}

func TestPutOnNearestCounter(t *testing.T) {
	h := newHarness(t)
	h.Hold(0, "FreshOnion")
	res, _ := h.Run(0, tasks.NewPut(envstate.Any()), 10)
	requireSuccess(t, res)
	if got := h.W.ItemAt(kitchen.Pos{X: 0, Y: 1}).Name(); got != "FreshOnion" {
		t.Fatalf("counter holds %s", got)
	}
	if !h.Holding(0).Empty() {
		t.Fatalf("still holding %s", h.Holding(0))
	}
}

func TestPutFreshFoodOnCutboard(t *testing.T) {
	h := newHarness(t)
	h.Hold(0, "FreshOnion")
	res, _ := h.Run(0, tasks.NewPut(envstate.Is("Cutboard")), 10)
	requireSuccess(t, res)
	if got := h.W.ItemAt(kitchen.Pos{X: 1, Y: 2}).Name(); got != "ChoppingOnion" {
		t.Fatalf("cutboard holds %s", got)
	}
}

func TestPickFromSupplyTile(t *testing.T) {
	h := newHarness(t)
	res, _ := h.Run(0, tasks.NewPick(envstate.Any(), envstate.Is("FreshOnionTile")), 10)
	requireSuccess(t, res)
	if got := h.Holding(0).Name(); got != "FreshOnion" {
		t.Fatalf("holding %s", got)
	}
}

func TestCookIntoEmptyPot(t *testing.T) {
	h := newHarness(t)
	h.Hold(0, "ChoppedLettuce-ChoppedOnion")
	res, _ := h.Run(0, tasks.NewCook(), 10)
	requireSuccess(t, res)
	if got := h.W.ItemAt(kitchen.Pos{X: 3, Y: 0}).Name(); got != "CookingLettuce-CookingOnion" {
		t.Fatalf("pot holds %s", got)
	}
}

func TestDeliverPlatedSoup(t *testing.T) {
	h := newHarness(t)
	h.Hold(0, "CookedLettuce-CookedOnion-Plate")
	res, _ := h.Run(0, tasks.NewDeliver(), 10)
	requireSuccess(t, res)
	if !h.Holding(0).Empty() {
		t.Fatalf("still holding %s", h.Holding(0))
	}
}

func TestDropKeepsPlate(t *testing.T) {
	h := newHarness(t)
	h.Hold(0, "CharredOnion-Plate")
	res, _ := h.Run(0, tasks.NewDrop(), 15)
	requireSuccess(t, res)
	if got := h.Holding(0).Name(); got != "Plate" {
		t.Fatalf("holding %s", got)
	}
}

func TestPutoutUntilFireGone(t *testing.T) {
	h := newHarness(t)
	pot := kitchen.Pos{X: 3, Y: 0}
	h.Put(pot, "CharredOnion-Fire")
	h.Hold(0, "FireExtinguisher")
	res, _ := h.Run(0, tasks.NewPutout(), 20)
	requireSuccess(t, res)
	if got := h.W.ItemAt(pot).Name(); got != "CharredOnion" {
		t.Fatalf("pot holds %s", got)
	}
}

func TestPutoutNeedsExtinguisher(t *testing.T) {
	h := newHarness(t)
	h.Put(kitchen.Pos{X: 3, Y: 0}, "CharredOnion-Fire")
	res, _ := h.Run(0, tasks.NewPutout(), 5)
	if res.Status != tasks.Failed || res.Msg != "Not holding FireExtinguisher" {
		t.Fatalf("got %+v", res)
	}
}

func TestWaitTimesOut(t *testing.T) {
	h := newHarness(t)
	res, ticks := h.Run(0, tasks.NewWait(envstate.Query{}, 3), 10)
	requireSuccess(t, res)
	if ticks != 3 {
		t.Fatalf("waited %d ticks, want 3", ticks)
	}
}

package goals_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"kitchencrew.ai/internal/sim/goals"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/tasks"
	"kitchencrew.ai/internal/sim/world"
	"kitchencrew.ai/internal/sim/worldtest"
)

// Onion supply (1,0), extinguisher on a counter (2,0), pot (3,0), delivery
// (4,0), bin (5,1), cutboard (1,2), plate supply (4,2). The agent starts at (1,1).
var kitchenRows = []string{
	"-OfU*-",
	"-1   B",
	"-/--P-",
}

var (
	potPos   = kitchen.Pos{X: 3, Y: 0}
	alice, _ = kitchen.LookupDish("Alice")
)

func newHarness(t *testing.T) *worldtest.Harness {
	return worldtest.NewHarness(t, world.Config{}, kitchenRows...)
}

func requireStatus(t *testing.T, res tasks.Result, want tasks.Status) {
	t.Helper()
	if res.Status != want {
		t.Fatalf("status %v (%s), want %v", res.Status, res.Msg, want)
	}
}

func TestChopOnionEndToEnd(t *testing.T) {
	h := newHarness(t)
	res, _ := h.Run(0, goals.NewChop(kitchen.Onion, goals.DefaultConfig()), 60)
	requireStatus(t, res, tasks.Success)
	if got := h.W.ItemAt(kitchen.Pos{X: 0, Y: 1}).Name(); got != "ChoppedOnion" {
		t.Fatalf("counter holds %s, want ChoppedOnion", got)
	}
	if !h.Holding(0).Empty() {
		t.Fatalf("still holding %s", h.Holding(0))
	}
}

func TestAssembleNamesMissingIngredient(t *testing.T) {
	h := newHarness(t)
	h.Put(kitchen.Pos{X: 2, Y: 2}, "ChoppedOnion")
	f := goals.NewAssemble(alice, goals.DefaultConfig()).CanBegin(h.Env(0))
	if f.OK {
		t.Fatalf("assemble should be infeasible")
	}
	if !strings.Contains(f.Reason, "Lettuce") {
		t.Fatalf("reason %q does not name Lettuce", f.Reason)
	}
	if diff := cmp.Diff([]goals.ID{"Chop Lettuce"}, f.Prereqs); diff != "" {
		t.Fatalf("prereqs (-want +got):\n%s", diff)
	}
}

func TestAssembleDavidListsEveryMissingIngredient(t *testing.T) {
	h := newHarness(t)
	david, _ := kitchen.LookupDish("David")
	f := goals.NewAssemble(david, goals.DefaultConfig()).CanBegin(h.Env(0))
	if f.Reason != "You need to chop `Onion`, `Tomato` and `Lettuce` first." {
		t.Fatalf("reason %q", f.Reason)
	}
	if diff := cmp.Diff([]goals.ID{"Chop Onion", "Chop Tomato", "Chop Lettuce"}, f.Prereqs); diff != "" {
		t.Fatalf("prereqs (-want +got):\n%s", diff)
	}
}

func TestAssembleAliceEndToEnd(t *testing.T) {
	h := newHarness(t)
	h.Put(kitchen.Pos{X: 2, Y: 2}, "ChoppedLettuce")
	h.Put(kitchen.Pos{X: 3, Y: 2}, "ChoppedOnion")
	g := goals.NewAssemble(alice, goals.DefaultConfig())
	if f := g.CanBegin(h.Env(0)); !f.OK {
		t.Fatalf("can begin: %s", f.Reason)
	}
	res, _ := h.Run(0, g, 30)
	requireStatus(t, res, tasks.Success)
	if got := h.W.ItemAt(kitchen.Pos{X: 3, Y: 2}).Name(); got != "ChoppedLettuce-ChoppedOnion" {
		t.Fatalf("counter holds %s", got)
	}
}

func TestServeWithoutSoupFailsAtOnce(t *testing.T) {
	h := newHarness(t)
	res, ticks := h.Run(0, goals.NewServe(alice, goals.DefaultConfig()), 10)
	requireStatus(t, res, tasks.Failed)
	if ticks != 0 {
		t.Fatalf("failed after %d ticks, want 0", ticks)
	}
	if res.Msg != "The Alice Soup is not yet cooked, so you cannot serve it." {
		t.Fatalf("msg %q", res.Msg)
	}
}

func TestChopFailsAfterThirdVanishedOnion(t *testing.T) {
	h := newHarness(t)
	board := kitchen.Pos{X: 1, Y: 2}
	g := goals.NewChop(kitchen.Onion, goals.DefaultConfig())

	removed := 0
	for tick := 0; tick < 60; tick++ {
		res := g.Step(h.Env(0))
		if res.Status == tasks.Failed {
			if removed != 3 {
				t.Fatalf("failed after %d removals, want 3 (%s)", removed, res.Msg)
			}
			if !strings.Contains(res.Msg, "put") {
				t.Fatalf("msg %q", res.Msg)
			}
			return
		}
		if res.Status != tasks.Working {
			t.Fatalf("tick %d: status %v (%s) after %d removals", tick, res.Status, res.Msg, removed)
		}
		h.W.Step([]kitchen.Pos{res.Move})
		if !h.W.ItemAt(board).Empty() {
			h.W.SetItem(board, kitchen.Object{})
			removed++
		}
	}
	t.Fatalf("still working after %d removals", removed)
}

func TestCookWithEveryPotOnFire(t *testing.T) {
	h := newHarness(t)
	h.Put(potPos, "CharredOnion-Fire")
	h.Put(kitchen.Pos{X: 2, Y: 2}, "ChoppedLettuce-ChoppedOnion")
	g := goals.NewCook(alice, goals.DefaultConfig())

	f := g.CanBegin(h.Env(0))
	if f.OK || !strings.Contains(f.Reason, "put out the fire") {
		t.Fatalf("can begin: %+v", f)
	}
	if diff := cmp.Diff([]goals.ID{goals.PutoutID}, f.Prereqs); diff != "" {
		t.Fatalf("prereqs (-want +got):\n%s", diff)
	}
	res := g.Step(h.Env(0))
	requireStatus(t, res, tasks.Failed)
	if !strings.Contains(res.Msg, "put out the fire") {
		t.Fatalf("msg %q", res.Msg)
	}
}

func TestCookEndToEnd(t *testing.T) {
	h := newHarness(t)
	h.Put(kitchen.Pos{X: 2, Y: 2}, "ChoppedLettuce-ChoppedOnion")
	res, _ := h.Run(0, goals.NewCook(alice, goals.DefaultConfig()), 30)
	requireStatus(t, res, tasks.Success)
	if got := h.W.ItemAt(potPos).Name(); got != "CookingLettuce-CookingOnion" {
		t.Fatalf("pot holds %s", got)
	}
}

func TestPlateAndServeEndToEnd(t *testing.T) {
	h := newHarness(t)
	soup := alice.Object(kitchen.Cooked, true)
	h.W.SetOrders([]kitchen.Order{{Target: soup, Remaining: 60, Limit: 60, Bonus: 15}})
	h.Put(potPos, "CookedLettuce-CookedOnion")

	plate := goals.NewPick(alice, goals.DefaultConfig())
	f := plate.CanBegin(h.Env(0))
	if !f.OK || f.Priority <= 0.5 {
		t.Fatalf("plate can begin: %+v", f)
	}
	res, _ := h.Run(0, plate, 40)
	requireStatus(t, res, tasks.Success)
	if got := h.Holding(0).Name(); got != soup.Name() {
		t.Fatalf("holding %s", got)
	}

	res, _ = h.Run(0, goals.NewServe(alice, goals.DefaultConfig()), 40)
	requireStatus(t, res, tasks.Success)
	if st := h.W.Stats(); st.Delivered != 1 || st.Reward != 15 {
		t.Fatalf("stats %+v", st)
	}
}

func TestServeStagedReasons(t *testing.T) {
	h := newHarness(t)
	h.Put(potPos, "CookedLettuce-CookedOnion")
	f := goals.NewServe(alice, goals.DefaultConfig()).CanBegin(h.Env(0))
	if f.OK || !strings.Contains(f.Reason, "still in the pot") {
		t.Fatalf("got %+v", f)
	}
	if diff := cmp.Diff([]goals.ID{"Plate Alice Soup"}, f.Prereqs); diff != "" {
		t.Fatalf("prereqs (-want +got):\n%s", diff)
	}
}

func TestPutoutEndToEnd(t *testing.T) {
	h := newHarness(t)
	h.Put(potPos, "CharredOnion-Fire")
	res, _ := h.Run(0, goals.NewPutout(goals.DefaultConfig()), 40)
	requireStatus(t, res, tasks.Success)
	if got := h.W.ItemAt(potPos).Name(); got != "CharredOnion" {
		t.Fatalf("pot holds %s", got)
	}
}

func TestDropCharredEndToEnd(t *testing.T) {
	h := newHarness(t)
	h.Put(potPos, "CharredOnion")
	g := goals.NewDrop(goals.DefaultConfig())
	if f := g.CanBegin(h.Env(0)); !f.OK {
		t.Fatalf("can begin: %s", f.Reason)
	}
	res, _ := h.Run(0, g, 60)
	requireStatus(t, res, tasks.Success)
	if !h.W.ItemAt(potPos).Empty() {
		t.Fatalf("pot still holds %s", h.W.ItemAt(potPos))
	}
	if got := h.Holding(0).Name(); got != "Plate" {
		t.Fatalf("holding %s, want Plate", got)
	}
}

func TestDropNeedsFireOut(t *testing.T) {
	h := newHarness(t)
	h.Put(potPos, "CharredOnion-Fire")
	f := goals.NewDrop(goals.DefaultConfig()).CanBegin(h.Env(0))
	if f.OK {
		t.Fatalf("drop should wait for the fire")
	}
	if diff := cmp.Diff([]goals.ID{goals.PutoutID}, f.Prereqs); diff != "" {
		t.Fatalf("prereqs (-want +got):\n%s", diff)
	}
}

func TestCleanFreesCounter(t *testing.T) {
	h := worldtest.NewHarness(t, world.Config{}, "-B-", "-1-", "---")
	h.Put(kitchen.Pos{X: 0, Y: 1}, "FreshOnion")
	h.Put(kitchen.Pos{X: 2, Y: 1}, "ChoppedTomato")
	res, _ := h.Run(0, goals.NewClean(goals.DefaultConfig()), 20)
	requireStatus(t, res, tasks.Success)
	if !h.W.ItemAt(kitchen.Pos{X: 0, Y: 1}).Empty() {
		t.Fatalf("fresh onion should have been cleared")
	}
	if got := h.Holding(0).Name(); got != "FreshOnion" {
		t.Fatalf("holding %s", got)
	}
	if got := h.W.ItemAt(kitchen.Pos{X: 2, Y: 1}).Name(); got != "ChoppedTomato" {
		t.Fatalf("chopped tomato should stay, got %s", got)
	}
}

func TestRegistry(t *testing.T) {
	for _, id := range goals.All() {
		g, err := goals.New(id, goals.Config{})
		if err != nil {
			t.Fatalf("New(%q): %v", id, err)
		}
		if g.ID() != id {
			t.Fatalf("New(%q).ID() = %q", id, g.ID())
		}
	}
	for _, bad := range []goals.ID{"Bake Bread", "Chop Potato", "Serve Zed Soup", "Cook Alice Ingredients", "Clean"} {
		if _, err := goals.New(bad, goals.Config{}); !errors.Is(err, goals.ErrUnknownGoal) {
			t.Fatalf("New(%q): err %v, want ErrUnknownGoal", bad, err)
		}
	}
	if got := len(goals.All()); got != 3+4+1+4+4+4+1 {
		t.Fatalf("menu size %d", got)
	}
}

func TestSurveyPrefersPutout(t *testing.T) {
	h := newHarness(t)
	h.Put(potPos, "CharredOnion-Fire")
	cands := goals.Survey(h.Env(0), goals.DefaultConfig())
	best, ok := goals.Best(cands)
	if !ok || best.ID != goals.PutoutID {
		t.Fatalf("best %+v ok=%v", best, ok)
	}
	for _, c := range cands {
		if c.ID == goals.ChopID(kitchen.Tomato) && c.OK {
			t.Fatalf("no tomato supply, chop tomato should be infeasible")
		}
	}
}

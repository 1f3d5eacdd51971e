package episode_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"kitchencrew.ai/internal/agent"
	"kitchencrew.ai/internal/sim/catalogs"
	"kitchencrew.ai/internal/sim/episode"
	"kitchencrew.ai/internal/sim/goals"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/levels"
	"kitchencrew.ai/internal/sim/tuning"
	"kitchencrew.ai/internal/sim/world"
	"kitchencrew.ai/internal/sim/worldtest"
)

// Onion supply (1,0), extinguisher (2,0), pot (3,0), delivery (4,0), bin
// (5,1), cutboard (1,2), plate supply (4,2).
var kitchenRows = []string{
	"-OfU*-",
	"-1   B",
	"-/--P-",
}

var alice, _ = kitchen.LookupDish("Alice")

type events struct{ n int }

func (e *events) WriteStep(_ uint64, ev []world.Event) error {
	e.n += len(ev)
	return nil
}

func TestRunServesCookedSoup(t *testing.T) {
	soup := alice.Object(kitchen.Cooked, true)
	h := worldtest.NewHarness(t, world.Config{
		Recipes:   []world.Recipe{{Name: "OnionLettuceSoup", Target: soup, Limit: 0, Bonus: 15}},
		MaxOrders: 1,
	}, kitchenRows...)
	h.Put(kitchen.Pos{X: 3, Y: 0}, "CookedLettuce-CookedOnion")

	sink := &events{}
	res, err := episode.Run(context.Background(), h.W, episode.Options{
		Logger: zaptest.NewLogger(t),
		Ticks:  40,
		Events: sink,
	})
	require.NoError(t, err)
	require.Equal(t, 40, res.Ticks)
	require.Equal(t, 1, res.Stats.Delivered, "history: %+v", res.History)
	require.Equal(t, 15, res.Stats.Reward)
	require.Positive(t, sink.n)
	require.Equal(t, []string{"agent-1"}, res.Agents)

	var done []goals.ID
	for _, e := range res.History[0] {
		if e.Outcome == agent.Completed {
			done = append(done, e.Goal)
		}
	}
	require.GreaterOrEqual(t, len(done), 2)
	require.Equal(t, []goals.ID{"Plate Alice Soup", "Serve Alice Soup"}, done[:2])
}

func TestRunStopsOnCancel(t *testing.T) {
	h := worldtest.NewHarness(t, world.Config{}, kitchenRows...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := episode.Run(ctx, h.W, episode.Options{Ticks: 10})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, res.Ticks)
	require.NotEmpty(t, res.Digest)
}

func TestRunIsDeterministic(t *testing.T) {
	l, err := levels.Load("../../../configs/levels/open_kitchen.yaml")
	require.NoError(t, err)
	cats := catalogs.Default()
	recipes, err := cats.Recipes.WorldRecipes(l.Recipes)
	require.NoError(t, err)
	tune := tuning.Defaults()

	run := func() episode.Result {
		w, err := world.New(l, tune.WorldConfig(recipes))
		require.NoError(t, err)
		res, err := episode.Run(context.Background(), w, episode.Options{Goals: tune.Goals(), Ticks: 60})
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	require.Equal(t, a.Digest, b.Digest)
	require.Equal(t, a.Stats, b.Stats)
	require.Len(t, a.History, 2)
	require.NotEmpty(t, a.History[0])
	require.NotEqual(t, a.ID, b.ID)
}

func TestOrderPlanner(t *testing.T) {
	h := worldtest.NewHarness(t, world.Config{}, kitchenRows...)
	cfg := goals.DefaultConfig()
	require.Empty(t, episode.OrderPlanner(0, h.Env(0), cfg))

	bob, _ := kitchen.LookupDish("Bob")
	h.W.SetOrders([]kitchen.Order{
		{Target: alice.Object(kitchen.Cooked, true)},
		{Target: bob.Object(kitchen.Cooked, true)},
	})
	require.Equal(t, []goals.ID{"Serve Alice Soup"}, episode.OrderPlanner(0, h.Env(0), cfg))
	require.Equal(t, []goals.ID{"Serve Bob Soup"}, episode.OrderPlanner(1, h.Env(0), cfg))

	h.Put(kitchen.Pos{X: 3, Y: 0}, "CharredOnion-Fire")
	require.Equal(t, []goals.ID{goals.PutoutID}, episode.OrderPlanner(0, h.Env(0), cfg))
}

type traces struct{ recs []agent.TraceRecord }

func (r *traces) Trace(rec agent.TraceRecord) error {
	r.recs = append(r.recs, rec)
	return nil
}

func TestReplayReproducesDigest(t *testing.T) {
	l, err := levels.Load("../../../configs/levels/divided_kitchen.yaml")
	require.NoError(t, err)
	recipes, err := catalogs.Default().Recipes.WorldRecipes(l.Recipes)
	require.NoError(t, err)
	wcfg := tuning.Defaults().WorldConfig(recipes)

	w, err := world.New(l, wcfg)
	require.NoError(t, err)
	rec := &traces{}
	res, err := episode.Run(context.Background(), w, episode.Options{Ticks: 80, Tracer: rec})
	require.NoError(t, err)
	require.NotEmpty(t, rec.recs)

	fresh, err := world.New(l, wcfg)
	require.NoError(t, err)
	got, err := episode.Replay(fresh, rec.recs, res.Ticks)
	require.NoError(t, err)
	require.Equal(t, res.Digest, got)

	rec.recs[0].Agent = "agent-9"
	again, err := world.New(l, wcfg)
	require.NoError(t, err)
	_, err = episode.Replay(again, rec.recs, res.Ticks)
	require.Error(t, err)
}

func TestMetaRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	m := episode.Meta{Episode: "e1", Level: "open_kitchen", Seed: 3, Ticks: 10, Digest: "abc"}
	require.NoError(t, episode.WriteMeta(dir, m))
	got, err := episode.ReadMeta(dir)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

package agent_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"kitchencrew.ai/internal/agent"
	"kitchencrew.ai/internal/sim/goals"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/world"
	"kitchencrew.ai/internal/sim/worldtest"
)

// Lettuce (1,0) and onion (2,0) supply, plate supply (3,0), delivery (4,0),
// cutboard (1,2). The agent starts at (1,1).
var kitchenRows = []string{
	"-LOP*-",
	"-1   -",
	"-/----",
}

type recorder struct{ recs []agent.TraceRecord }

func (r *recorder) Trace(rec agent.TraceRecord) error {
	r.recs = append(r.recs, rec)
	return nil
}

func newController(t *testing.T, opts agent.Options) *agent.Controller {
	opts.Logger = zaptest.NewLogger(t)
	return agent.NewController(opts)
}

// drive steps the controller against the world until it goes idle.
func drive(h *worldtest.Harness, c *agent.Controller, maxTicks int) int {
	for tick := 0; tick < maxTicks; tick++ {
		if c.Idle() {
			return tick
		}
		h.W.Step([]kitchen.Pos{c.Step(h.Env(0))})
	}
	return maxTicks
}

func outcomes(hist []agent.Entry) []string {
	out := make([]string, len(hist))
	for i, e := range hist {
		out[i] = string(e.Goal) + ":" + string(e.Outcome)
	}
	return out
}

func TestControllerFollowsPrereqsToCompletion(t *testing.T) {
	h := worldtest.NewHarness(t, world.Config{}, kitchenRows...)
	rec := &recorder{}
	c := newController(t, agent.Options{Tracer: rec})
	c.Enqueue("Prepare Alice Ingredients")

	ticks := drive(h, c, 200)
	require.Less(t, ticks, 200, "controller never went idle")

	hist := c.History()
	require.Equal(t, []string{
		"Chop Lettuce:Completed",
		"Chop Onion:Completed",
		"Prepare Alice Ingredients:Completed",
	}, outcomes(hist))
	require.Equal(t, goals.ID("Prepare Alice Ingredients"), hist[0].Requested)

	found := false
	for y := 0; y < h.Layout.Height; y++ {
		for x := 0; x < h.Layout.Width; x++ {
			if h.W.ItemAt(kitchen.Pos{X: x, Y: y}).Name() == "ChoppedLettuce-ChoppedOnion" {
				found = true
			}
		}
	}
	require.True(t, found, "assembled ingredients not on the map")

	require.NotEmpty(t, rec.recs)
	require.Equal(t, c.ID(), rec.recs[0].Controller)
	require.Equal(t, "Chop Lettuce", rec.recs[0].Goal)
}

func TestControllerStartsDeepestFeasiblePrereq(t *testing.T) {
	h := worldtest.NewHarness(t, world.Config{}, kitchenRows...)
	c := newController(t, agent.Options{})
	c.Enqueue("Serve Alice Soup")

	c.Step(h.Env(0))
	require.Equal(t, goals.ID("Chop Lettuce"), c.Active())
	require.Equal(t, []goals.ID{"Serve Alice Soup"}, c.Queue())
	require.Equal(t, goals.ID("Serve Alice Soup"), c.History()[0].Requested)
}

func TestControllerPrereqDepthIsBounded(t *testing.T) {
	h := worldtest.NewHarness(t, world.Config{}, kitchenRows...)
	c := newController(t, agent.Options{PrereqDepth: 2})
	c.Enqueue("Serve Alice Soup")

	move := c.Step(h.Env(0))
	require.Equal(t, kitchen.Stay, move)
	require.True(t, c.Idle())
	hist := c.History()
	require.Len(t, hist, 1)
	require.Equal(t, agent.Skipped, hist[0].Outcome)
}

func TestControllerSkipsUnknownAndInfeasibleGoals(t *testing.T) {
	h := worldtest.NewHarness(t, world.Config{}, kitchenRows...)
	c := newController(t, agent.Options{})
	c.Enqueue("Bake Bread", "Putout", "Chop Onion")

	c.Step(h.Env(0))
	require.Equal(t, goals.ID("Chop Onion"), c.Active())
	hist := c.History()
	require.Equal(t, []string{"Bake Bread:Skipped", "Putout:Skipped", "Chop Onion:Ongoing"}, outcomes(hist))
	require.True(t, strings.Contains(hist[0].Msg, "unknown goal"), hist[0].Msg)
	require.True(t, strings.Contains(hist[1].Msg, "no fire"), hist[1].Msg)
}

func TestControllerReplaceInterrupts(t *testing.T) {
	h := worldtest.NewHarness(t, world.Config{}, kitchenRows...)
	c := newController(t, agent.Options{})
	c.Enqueue("Chop Onion", "Chop Lettuce")
	h.W.Step([]kitchen.Pos{c.Step(h.Env(0))})
	require.Equal(t, goals.ID("Chop Onion"), c.Active())

	c.Replace(goals.DropID)
	require.Equal(t, goals.ID(""), c.Active())
	require.Equal(t, []goals.ID{goals.DropID}, c.Queue())
	require.Equal(t, agent.Interrupted, c.History()[0].Outcome)
}

func TestControllerIdleStays(t *testing.T) {
	h := worldtest.NewHarness(t, world.Config{}, kitchenRows...)
	rec := &recorder{}
	c := newController(t, agent.Options{Tracer: rec})
	require.Equal(t, kitchen.Stay, c.Step(h.Env(0)))
	require.Len(t, rec.recs, 1)
	require.Equal(t, "Idle", rec.recs[0].Msg)
	require.Empty(t, rec.recs[0].Goal)
}

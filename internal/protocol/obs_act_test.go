package protocol

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/levels"
)

var objectEqual = cmp.Comparer(func(a, b kitchen.Object) bool { return a.Equal(b) })

func TestObsSnapshotRoundTrip(t *testing.T) {
	snap := levels.MustRows("-OfU*-", "-1  2B", "-/--P-").Snapshot(1)
	snap.Time = 12.5
	snap.Agents[0].Holding = kitchen.MustParseObject("Plate")
	snap.Agents[1].Action = kitchen.Pos{X: -1}
	snap.Items = append(snap.Items, kitchen.Item{Pos: kitchen.Pos{X: 3, Y: 0}, Object: kitchen.MustParseObject("CookedOnion"), Rest: 20})
	snap.Orders = []kitchen.Order{{Target: kitchen.MustParseObject("CookedLettuce-CookedOnion-Plate"), Remaining: 30, Limit: 60, Bonus: 15}}

	got, err := ObsFromSnapshot(3, snap).Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if diff := cmp.Diff(snap, got, objectEqual); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestObsSnapshotRejectsBadInput(t *testing.T) {
	base := func() ObsMsg {
		return ObsFromSnapshot(0, levels.MustRows("---", "-1-", "---").Snapshot(0))
	}
	cases := map[string]struct {
		mutate func(*ObsMsg)
		want   string
	}{
		"self":     {func(m *ObsMsg) { m.Self = 2 }, "self"},
		"size":     {func(m *ObsMsg) { m.Width = 0 }, "size"},
		"huge":     {func(m *ObsMsg) { m.Width, m.Height = 3037000500, 3037000500 }, "size"},
		"wide":     {func(m *ObsMsg) { m.Width = MaxSide + 1 }, "size"},
		"facility": {func(m *ObsMsg) { m.Facilities[0].Kind = "Oven" }, "unknown kind"},
		"outside":  {func(m *ObsMsg) { m.Agents[0].Pos = [2]int{3, 1} }, "outside"},
		"object":   {func(m *ObsMsg) { m.Items = []ItemObs{{Pos: [2]int{0, 0}, Object: "RawPizza"}} }, "unknown atom"},
		"holding":  {func(m *ObsMsg) { m.Agents[0].Holding = "Plate-Spoon" }, "agent 0"},
	}
	for name, tc := range cases {
		m := base()
		tc.mutate(&m)
		_, err := m.Snapshot()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: got %v want error containing %q", name, err, tc.want)
		}
	}
}

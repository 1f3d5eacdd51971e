package levels

import (
	"errors"
	"path/filepath"
	"testing"

	"kitchencrew.ai/internal/sim/kitchen"
)

func countKind(l Layout, k kitchen.FacilityKind) int {
	n := 0
	for _, f := range l.Facilities {
		if f.Kind == k {
			n++
		}
	}
	return n
}

func TestFromRowsLegend(t *testing.T) {
	l, err := FromRows([]string{
		"-TLO-U*",
		"-2  1 B",
		"-/fp-P-",
	})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if l.Width != 7 || l.Height != 3 {
		t.Fatalf("size: got %dx%d want 7x3", l.Width, l.Height)
	}
	// Spawns are ordered by their digit, not by position.
	want := []kitchen.Pos{{X: 4, Y: 1}, {X: 1, Y: 1}}
	if len(l.Spawns) != 2 || l.Spawns[0] != want[0] || l.Spawns[1] != want[1] {
		t.Fatalf("spawns: got %v want %v", l.Spawns, want)
	}
	if got := countKind(l, kitchen.Counter); got != 8 {
		t.Fatalf("counters: got %d want 8", got)
	}
	if got := countKind(l, kitchen.Floor); got != 5 {
		t.Fatalf("floor: got %d want 5", got)
	}
	if len(l.Items) != 2 {
		t.Fatalf("items: got %v", l.Items)
	}
	if got := l.Items[0].Object.Name(); got != "FireExtinguisher" {
		t.Fatalf("item at %v: got %s", l.Items[0].Pos, got)
	}
}

func TestFromRowsRejectsUnknownTile(t *testing.T) {
	_, err := FromRows([]string{"-X-"})
	if !errors.Is(err, ErrBadLevel) {
		t.Fatalf("got %v want ErrBadLevel", err)
	}
	if _, err := FromRows(nil); !errors.Is(err, ErrBadLevel) {
		t.Fatalf("empty map: got %v want ErrBadLevel", err)
	}
}

func TestParseExplicitAgents(t *testing.T) {
	raw := []byte("name: tiny\nmap:\n  - \"---\"\n  - \"- -\"\n  - \"---\"\nagents: [[1, 1]]\n")
	l, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if l.Name != "tiny" || len(l.Spawns) != 1 || l.Spawns[0] != (kitchen.Pos{X: 1, Y: 1}) {
		t.Fatalf("got %+v", l)
	}

	raw = []byte("map: [\"- -\"]\nagents: [[5, 0]]\n")
	if _, err := Parse(raw); !errors.Is(err, ErrBadLevel) {
		t.Fatalf("agent outside map: got %v", err)
	}
}

func TestShippedLevels(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "..", "configs", "levels", "*.yaml"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no levels found")
	}
	for _, p := range paths {
		l, err := Load(p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if len(l.Spawns) != 2 {
			t.Fatalf("%s: spawns: got %d want 2", p, len(l.Spawns))
		}
		if len(l.Recipes) == 0 {
			t.Fatalf("%s: no recipes", p)
		}
		for _, k := range []kitchen.FacilityKind{kitchen.Pot, kitchen.Cutboard, kitchen.Delivery, kitchen.PlateTile} {
			if countKind(l, k) == 0 {
				t.Fatalf("%s: no %s", p, k)
			}
		}
	}
}

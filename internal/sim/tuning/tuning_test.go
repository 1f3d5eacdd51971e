package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadShippedTuning(t *testing.T) {
	got, err := Load(filepath.Join("..", "..", "..", "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != Defaults() {
		t.Fatalf("shipped tuning drifted from defaults:\n got %+v\nwant %+v", got, Defaults())
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("max_retries: 5\nworld:\n  chop_steps: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.MaxRetries != 5 || got.World.ChopSteps != 4 {
		t.Fatalf("overrides not applied: %+v", got)
	}
	if got.WaitTimeoutTicks != 5 || got.World.CookingSeconds != 15 {
		t.Fatalf("defaults lost: %+v", got)
	}

	g := got.Goals()
	if g.MaxFailures != 5 || g.CookedBeforeFire != 25 {
		t.Fatalf("goals config: %+v", g)
	}
	w := got.WorldConfig(nil)
	if w.ChopSteps != 4 || w.CharSeconds != 25 {
		t.Fatalf("world config: %+v", w)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	for name, body := range map[string]string{
		"retries": "max_retries: 0\n",
		"syntax":  "max_retries: [\n",
		"tick":    "world:\n  tick_seconds: -1\n",
	} {
		path := filepath.Join(t.TempDir(), name+".yaml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "tuning.yaml") {
			t.Fatalf("%s: got %v", name, err)
		}
	}
}

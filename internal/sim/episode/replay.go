package episode

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"kitchencrew.ai/internal/agent"
	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/world"
)

// Meta describes a recorded run; it is enough to rebuild its world.
type Meta struct {
	Episode string `json:"episode"`
	Level   string `json:"level"`
	Seed    int64  `json:"seed"`
	Ticks   int    `json:"ticks"`
	Digest  string `json:"digest"`
	Tuning  string `json:"tuning_digest,omitempty"`
}

func WriteMeta(runDir string, m Meta) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(runDir, "run.json"), b, 0o644)
}

func ReadMeta(runDir string) (Meta, error) {
	var m Meta
	b, err := os.ReadFile(filepath.Join(runDir, "run.json"))
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(b, &m)
	return m, err
}

// Replay steps w with the moves recorded in recs for ticks ticks and returns
// the final digest. The last record of each agent's step is the move that
// agent made; agents without a record for a step stay put.
func Replay(w *world.World, recs []agent.TraceRecord, ticks int) (string, error) {
	n := w.NumAgents()
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		index[w.Agent(i).Name] = i
	}

	moves := make([][]kitchen.Pos, ticks)
	for t := range moves {
		moves[t] = make([]kitchen.Pos, n)
	}
	for _, r := range recs {
		i, ok := index[r.Agent]
		if !ok {
			return "", fmt.Errorf("trace names unknown agent %q", r.Agent)
		}
		if r.Step < 1 || r.Step > ticks {
			continue
		}
		moves[r.Step-1][i] = kitchen.Pos{X: r.Move[0], Y: r.Move[1]}
	}

	for _, m := range moves {
		w.Step(m)
	}
	return w.Digest(), nil
}

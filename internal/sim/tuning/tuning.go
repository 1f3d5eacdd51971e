package tuning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kitchencrew.ai/internal/sim/goals"
	"kitchencrew.ai/internal/sim/world"
)

type Tuning struct {
	// Executor.
	MaxRetries              int     `yaml:"max_retries"`
	WaitTimeoutTicks        int     `yaml:"wait_timeout_ticks"`
	PotWaitTimeoutTicks     int     `yaml:"pot_wait_timeout_ticks"`
	CookedBeforeFireSeconds float64 `yaml:"cooked_before_fire_seconds"`
	PrereqDepth             int     `yaml:"prereq_depth"`

	World WorldTuning `yaml:"world"`
}

// WorldTuning drives the simulated kitchen used by tests and `kitchen simulate`.
type WorldTuning struct {
	Seed               int64   `yaml:"seed"`
	TickSeconds        float64 `yaml:"tick_seconds"`
	ChopSteps          int     `yaml:"chop_steps"`
	CookingSeconds     float64 `yaml:"cooking_seconds"`
	FirePutoutSeconds  float64 `yaml:"fire_putout_seconds"`
	FireRecoverSeconds float64 `yaml:"fire_recover_seconds"`
	MaxOrders          int     `yaml:"max_orders"`
	ExpirePunish       int     `yaml:"expire_punish"`
}

func Defaults() Tuning {
	return Tuning{
		MaxRetries:              3,
		WaitTimeoutTicks:        5,
		PotWaitTimeoutTicks:     10,
		CookedBeforeFireSeconds: 25,
		PrereqDepth:             6,
		World: WorldTuning{
			Seed:               1,
			TickSeconds:        1,
			ChopSteps:          8,
			CookingSeconds:     15,
			FirePutoutSeconds:  5,
			FireRecoverSeconds: 1,
			MaxOrders:          2,
			ExpirePunish:       5,
		},
	}
}

// Load reads a tuning file. Keys missing from the file keep their defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) validate() error {
	switch {
	case t.MaxRetries < 1:
		return fmt.Errorf("max_retries must be at least 1, got %d", t.MaxRetries)
	case t.WaitTimeoutTicks < 1 || t.PotWaitTimeoutTicks < 1:
		return fmt.Errorf("wait timeouts must be positive")
	case t.CookedBeforeFireSeconds <= 0:
		return fmt.Errorf("cooked_before_fire_seconds must be positive")
	case t.World.TickSeconds <= 0:
		return fmt.Errorf("world.tick_seconds must be positive")
	}
	return nil
}

func (t Tuning) Goals() goals.Config {
	return goals.Config{
		MaxFailures:      t.MaxRetries,
		WaitTimeout:      t.WaitTimeoutTicks,
		PotWaitTimeout:   t.PotWaitTimeoutTicks,
		CookedBeforeFire: t.CookedBeforeFireSeconds,
	}
}

// WorldConfig builds the simulator config. Cooked food chars after the same
// delay the executor plans against.
func (t Tuning) WorldConfig(recipes []world.Recipe) world.Config {
	w := t.World
	return world.Config{
		Seed:               w.Seed,
		TickSeconds:        w.TickSeconds,
		ChopSteps:          w.ChopSteps,
		CookSeconds:        w.CookingSeconds,
		CharSeconds:        t.CookedBeforeFireSeconds,
		FirePutoutSeconds:  w.FirePutoutSeconds,
		FireRecoverSeconds: w.FireRecoverSeconds,
		MaxOrders:          w.MaxOrders,
		Recipes:            recipes,
		ExpirePunish:       w.ExpirePunish,
	}
}

// Digest fingerprints the applied values so an index row or a WELCOME can be
// matched to the tuning that produced it.
func (t Tuning) Digest() string {
	raw, _ := json.Marshal(t)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

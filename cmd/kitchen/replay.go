package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	persistlog "kitchencrew.ai/internal/persistence/log"
	"kitchencrew.ai/internal/sim/episode"
	"kitchencrew.ai/internal/sim/world"
)

var replayCmd = &cobra.Command{
	Use:   "replay <run-dir>",
	Short: "Re-apply a traced run's moves and verify its final digest",
	Long: `replay rebuilds the world of a run recorded by simulate (level, seed and the
current tuning), steps it with the moves in the run's trace and compares the
final world digest with the recorded one.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	dir := args[0]
	meta, err := episode.ReadMeta(dir)
	if err != nil {
		return fmt.Errorf("read run meta: %w", err)
	}
	cats, tune, err := loadStack()
	if err != nil {
		return err
	}
	if meta.Tuning != "" && meta.Tuning != tune.Digest() {
		logger.Warn("tuning differs from the recorded run", zap.String("recorded", meta.Tuning), zap.String("current", tune.Digest()))
	}
	layout, err := loadLevel(meta.Level)
	if err != nil {
		return err
	}
	recipes, err := cats.Recipes.WorldRecipes(layout.Recipes)
	if err != nil {
		return fmt.Errorf("level %s: %w", layout.Name, err)
	}
	wcfg := tune.WorldConfig(recipes)
	wcfg.Seed = meta.Seed
	w, err := world.New(layout, wcfg)
	if err != nil {
		return err
	}

	recs, err := persistlog.ReadTrace(dir)
	if err != nil {
		return err
	}
	got, err := episode.Replay(w, recs, meta.Ticks)
	if err != nil {
		return err
	}
	if got != meta.Digest {
		return fmt.Errorf("digest mismatch after %d ticks: got=%s want=%s", meta.Ticks, got, meta.Digest)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "replay ok: episode=%s ticks=%d records=%d\n", meta.Episode, meta.Ticks, len(recs))
	return nil
}

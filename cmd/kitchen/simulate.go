package main

import (
	"cmp"
	"fmt"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kitchencrew.ai/internal/persistence/indexdb"
	persistlog "kitchencrew.ai/internal/persistence/log"
	"kitchencrew.ai/internal/sim/episode"
	"kitchencrew.ai/internal/sim/world"
)

var (
	simLevel    string
	simTicks    int
	simRuns     int
	simParallel int
	simSeed     int64
	simTrace    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the executor against the simulated kitchen",
	Long: `simulate loads a level, fills it with the level's recipe orders and lets one
controller per cook work through them. Each run uses its own seed, starting
from --seed (default: the tuning seed).

  kitchen simulate --level open_kitchen --ticks 300 --runs 4

Each traced run is written to <data>/runs/<episode> and can be checked with
kitchen replay.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simLevel, "level", "open_kitchen", "Level name under <configs>/levels, or a path")
	simulateCmd.Flags().IntVar(&simTicks, "ticks", 300, "Ticks per run")
	simulateCmd.Flags().IntVar(&simRuns, "runs", 1, "Number of runs")
	simulateCmd.Flags().IntVar(&simParallel, "parallel", 4, "Runs in flight at once")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "First seed (0: tuning world.seed)")
	simulateCmd.Flags().BoolVar(&simTrace, "trace", true, "Write decisions and world events under <data>/runs/<episode>")
}

type runRow struct {
	seed int64
	res  episode.Result
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cats, tune, err := loadStack()
	if err != nil {
		return err
	}
	layout, err := loadLevel(simLevel)
	if err != nil {
		return err
	}
	recipes, err := cats.Recipes.WorldRecipes(layout.Recipes)
	if err != nil {
		return fmt.Errorf("level %s: %w", layout.Name, err)
	}
	idx, err := openIndex(cats, tune)
	if err != nil {
		return err
	}
	if idx != nil {
		defer idx.Close()
	}

	first := simSeed
	if first == 0 {
		first = tune.World.Seed
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	if simParallel > 0 {
		g.SetLimit(simParallel)
	}

	var (
		mu   sync.Mutex
		rows = make([]runRow, 0, simRuns)
	)
	for i := 0; i < simRuns; i++ {
		seed := first + int64(i)
		g.Go(func() error {
			wcfg := tune.WorldConfig(recipes)
			wcfg.Seed = seed
			w, err := world.New(layout, wcfg)
			if err != nil {
				return err
			}

			opts := episode.Options{
				ID:          uuid.NewString(),
				Logger:      logger.With(zap.String("level", layout.Name), zap.Int64("seed", seed)),
				Goals:       tune.Goals(),
				PrereqDepth: tune.PrereqDepth,
				Ticks:       simTicks,
			}
			var dir string
			if simTrace {
				dir = filepath.Join(dataDir, "runs", opts.ID)
				tl := persistlog.NewTraceLogger(dir)
				defer tl.Close()
				el := persistlog.NewEventLogger(dir)
				defer el.Close()
				opts.Tracer, opts.Events = tl, el
			}

			started := time.Now().UTC()
			res, err := episode.Run(ctx, w, opts)
			if err != nil {
				return err
			}
			record(idx, layout.Name, seed, started, res)
			if dir != "" {
				meta := episode.Meta{Episode: res.ID, Level: layout.Name, Seed: seed, Ticks: res.Ticks, Digest: res.Digest, Tuning: tune.Digest()}
				if err := episode.WriteMeta(dir, meta); err != nil {
					return err
				}
			}

			mu.Lock()
			rows = append(rows, runRow{seed: seed, res: res})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tTICKS\tDELIVERED\tEXPIRED\tWASTED\tREWARD\tEPISODE")
	slices.SortFunc(rows, func(a, b runRow) int { return cmp.Compare(a.seed, b.seed) })
	for _, r := range rows {
		st := r.res.Stats
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%s\n", r.seed, r.res.Ticks, st.Delivered, st.Expired, st.Wasted, st.Reward, r.res.ID)
	}
	return tw.Flush()
}

func record(idx *indexdb.SQLiteIndex, level string, seed int64, started time.Time, res episode.Result) {
	if idx == nil {
		return
	}
	ep := indexdb.Episode{
		ID:        res.ID,
		Source:    "simulate",
		Level:     level,
		Seed:      seed,
		StartedAt: started.Format(time.RFC3339Nano),
		EndedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		Ticks:     res.Ticks,
		Delivered: res.Stats.Delivered,
		Expired:   res.Stats.Expired,
		Wasted:    res.Stats.Wasted,
		Reward:    res.Stats.Reward,
		Digest:    res.Digest,
	}
	var outs []indexdb.GoalOutcome
	for i, hist := range res.History {
		outs = append(outs, indexdb.Outcomes(res.ID, res.Agents[i], len(outs), hist)...)
	}
	idx.RecordEpisode(ep, outs)
}

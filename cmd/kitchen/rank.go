package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"kitchencrew.ai/internal/sim/envstate"
	"kitchencrew.ai/internal/sim/goals"
	"kitchencrew.ai/internal/sim/world"
)

var (
	rankLevel string
	rankAgent int
	rankAll   bool
	rankJSON  bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Show which goals a cook can begin at the start of a level",
	Long: `rank asks every goal whether it can begin from the level's opening state, as
seen by one cook, and lists the feasible ones by priority. With --all the
infeasible goals follow, with their reason and prerequisites.`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankLevel, "level", "open_kitchen", "Level name under <configs>/levels, or a path")
	rankCmd.Flags().IntVar(&rankAgent, "agent", 0, "Index of the cook whose view is ranked")
	rankCmd.Flags().BoolVar(&rankAll, "all", false, "Include goals that cannot begin")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "Print JSON instead of a table")
}

func runRank(cmd *cobra.Command, args []string) error {
	cats, tune, err := loadStack()
	if err != nil {
		return err
	}
	layout, err := loadLevel(rankLevel)
	if err != nil {
		return err
	}
	recipes, err := cats.Recipes.WorldRecipes(layout.Recipes)
	if err != nil {
		return fmt.Errorf("level %s: %w", layout.Name, err)
	}
	w, err := world.New(layout, tune.WorldConfig(recipes))
	if err != nil {
		return err
	}
	if rankAgent < 0 || rankAgent >= w.NumAgents() {
		return fmt.Errorf("agent %d out of range: level %s has %d cooks", rankAgent, layout.Name, w.NumAgents())
	}

	cands := rank(goals.Survey(envstate.New(w.Snapshot(rankAgent)), tune.Goals()), rankAll)

	out := cmd.OutOrStdout()
	if rankJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cands)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GOAL\tOK\tPRIORITY\tREASON\tPREREQS")
	for _, c := range cands {
		fmt.Fprintf(tw, "%s\t%t\t%.2f\t%s\t%v\n", c.ID, c.OK, c.Priority, c.Reason, c.Prereqs)
	}
	return tw.Flush()
}

// rank orders feasible goals by descending priority, keeping menu order
// between ties. Infeasible goals follow when all is set.
func rank(cands []goals.Candidate, all bool) []goals.Candidate {
	out := make([]goals.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.OK || all {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b goals.Candidate) int {
		if a.OK != b.OK {
			if a.OK {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Priority, a.Priority)
	})
	return out
}

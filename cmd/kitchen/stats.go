package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"kitchencrew.ai/internal/persistence/indexdb"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recorded episodes and goal outcomes",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsLimit, "limit", 10, "Number of recent episodes to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	if disableDB {
		return errors.New("stats needs the episode index; drop --disable-db")
	}
	idx, err := indexdb.OpenSQLite(filepath.Join(dataDir, "index", "kitchen.sqlite"))
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer idx.Close()

	ctx := cmd.Context()
	eps, err := idx.Episodes(ctx, statsLimit)
	if err != nil {
		return err
	}
	gs, err := idx.GoalStats(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EPISODE\tSOURCE\tLEVEL\tSEED\tTICKS\tDELIVERED\tEXPIRED\tREWARD\tENDED")
	for _, e := range eps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n", e.ID, e.Source, e.Level, e.Seed, e.Ticks, e.Delivered, e.Expired, e.Reward, e.EndedAt)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "GOAL\tCOMPLETED\tFAILED\tSKIPPED\tINTERRUPTED\tSUCCESS")
	for _, g := range gs {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.0f%%\n", g.Goal, g.Completed, g.Failed, g.Skipped, g.Interrupted, 100*g.SuccessRate())
	}
	return tw.Flush()
}

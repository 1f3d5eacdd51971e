// Command kitchen serves the cooking executor over websocket and runs it
// against the simulated kitchen.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kitchencrew.ai/internal/persistence/indexdb"
	"kitchencrew.ai/internal/sim/catalogs"
	"kitchencrew.ai/internal/sim/levels"
	"kitchencrew.ai/internal/sim/tuning"
)

var (
	debug      bool
	configDir  string
	dataDir    string
	tuningPath string
	disableDB  bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kitchen",
	Short: "Hierarchical goal executor for cooperative cooking agents",
	Long: `kitchen turns high-level cooking goals ("Chop Onion", "Serve Alice Soup")
into one move per tick for each cook.

serve exposes the executor to an external game over websocket; simulate and
rank run it against the built-in kitchen simulator.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if debug {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "configs", "./configs", "Config directory (recipes.json, tuning.yaml, levels/)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "./data", "Runtime data directory (traces, index)")
	rootCmd.PersistentFlags().StringVar(&tuningPath, "tuning", "", "Path to tuning.yaml (default: <configs>/tuning.yaml)")
	rootCmd.PersistentFlags().BoolVar(&disableDB, "disable-db", false, "Disable the sqlite episode index")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadStack reads the recipe catalog and the tuning file.
func loadStack() (*catalogs.Catalogs, tuning.Tuning, error) {
	cats, err := catalogs.Load(configDir)
	if err != nil {
		return nil, tuning.Tuning{}, fmt.Errorf("load catalogs: %w", err)
	}
	tp := strings.TrimSpace(tuningPath)
	if tp == "" {
		tp = filepath.Join(configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		return nil, tuning.Tuning{}, fmt.Errorf("load tuning: %w", err)
	}
	return cats, tune, nil
}

// loadLevel accepts a level name under <configs>/levels or a path.
func loadLevel(nameOrPath string) (levels.Layout, error) {
	path := nameOrPath
	if !strings.HasSuffix(path, ".yaml") {
		path = filepath.Join(configDir, "levels", nameOrPath+".yaml")
	}
	l, err := levels.Load(path)
	if err != nil {
		return levels.Layout{}, fmt.Errorf("level %s: %w", nameOrPath, err)
	}
	if l.Name == "" {
		l.Name = strings.TrimSuffix(filepath.Base(path), ".yaml")
	}
	return l, nil
}

// openIndex opens the episode index and records the applied catalogs. It
// returns nil when the index is disabled.
func openIndex(cats *catalogs.Catalogs, tune tuning.Tuning) (*indexdb.SQLiteIndex, error) {
	if disableDB {
		return nil, nil
	}
	idx, err := indexdb.OpenSQLite(filepath.Join(dataDir, "index", "kitchen.sqlite"))
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if err := idx.UpsertCatalogs(cats, tune); err != nil {
		logger.Warn("index: upsert catalogs", zap.Error(err))
	}
	return idx, nil
}

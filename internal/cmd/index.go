package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the workspace and refresh the snapshot",
	Long: `Index walks every configured vault, ingests changed notes into the
graph, and writes the snapshot so later runs skip unchanged files.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ws, fs, err := buildWorkspace(cfg)
	if err != nil {
		return err
	}

	// Reuse the previous snapshot so unchanged files short-circuit.
	_ = ws.LoadSnapshot(cfg.CachePath())

	stats, err := ws.FullIndex(fs)
	if err != nil {
		return fmt.Errorf("index workspace: %w", err)
	}

	if err := ws.SaveSnapshot(cfg.CachePath()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	fmt.Printf("%d files seen: %d parsed, %d unchanged, %d revalidated, %d purged (%s)\n",
		stats.FilesSeen, stats.Indexed, stats.Unchanged, stats.Revalidated, stats.Purged,
		stats.Elapsed.Round(time.Millisecond))
	fmt.Printf("%d notes in graph, snapshot at %s\n", ws.NoteCount(), cfg.CachePath())
	return nil
}

package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/arbornotes/arbor/internal/config"
	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/persist"
	"github.com/arbornotes/arbor/internal/semantic"
	"github.com/arbornotes/arbor/internal/vfs"
	"github.com/arbornotes/arbor/internal/workspace"
)

// loadConfig honors the --config flag before falling back to the
// environment lookup chain.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit, _ := cmd.Root().PersistentFlags().GetString("config")
	return config.LoadWithEnv(func(key string) string {
		if key == "ARBOR_CONFIG" && explicit != "" {
			return explicit
		}
		return os.Getenv(key)
	})
}

func wikiLinkFormat(cfg *config.Config) (note.WikiLinkFormat, error) {
	switch cfg.Semantic.WikiLinkFormat {
	case "", "alias-first":
		return note.AliasFirst, nil
	case "target-first":
		return note.TargetFirst, nil
	}
	return 0, fmt.Errorf("unknown wikilink format %q", cfg.Semantic.WikiLinkFormat)
}

// buildWorkspace assembles the engine from configuration.
func buildWorkspace(cfg *config.Config) (*workspace.Workspace, vfs.FileSystem, error) {
	if cfg.Semantic.Model != "dotted" {
		return nil, nil, fmt.Errorf("unknown semantic model %q", cfg.Semantic.Model)
	}
	format, err := wikiLinkFormat(cfg)
	if err != nil {
		return nil, nil, err
	}

	vaults := make([]workspace.Vault, 0, len(cfg.Workspace.Vaults))
	for _, v := range cfg.Workspace.Vaults {
		vaults = append(vaults, workspace.Vault{Name: v.Name, Root: v.Path})
	}

	model := semantic.NewDottedModel(vaults[0].Root, format)
	return workspace.New(model, vaults...), vfs.NewOS(), nil
}

// openWorkspace builds the engine, restores the snapshot when one is
// usable, and runs a full index.
func openWorkspace(cmd *cobra.Command) (*workspace.Workspace, vfs.FileSystem, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	ws, fs, err := buildWorkspace(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	debug, _ := cmd.Root().PersistentFlags().GetBool("debug")

	if err := ws.LoadSnapshot(cfg.CachePath()); err != nil {
		switch {
		case os.IsNotExist(err):
			// First run; nothing to restore.
		case errors.Is(err, persist.ErrIncompatibleSnapshot):
			log.Printf("snapshot at %s is unusable, starting empty: %v", cfg.CachePath(), err)
		default:
			log.Printf("snapshot load failed, starting empty: %v", err)
		}
	} else if debug {
		log.Printf("restored snapshot from %s", cfg.CachePath())
	}

	stats, err := ws.FullIndex(fs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("index workspace: %w", err)
	}
	if debug {
		log.Printf("indexed %d files (%d parsed, %d unchanged, %d revalidated, %d purged) in %s",
			stats.FilesSeen, stats.Indexed, stats.Unchanged, stats.Revalidated, stats.Purged, stats.Elapsed)
	}
	return ws, fs, cfg, nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbornotes/arbor/internal/note"
	"github.com/arbornotes/arbor/internal/plan"
)

var renameCmd = &cobra.Command{
	Use:   "rename <old-key> <new-key>",
	Short: "Rename a note and rewrite every link to it",
	Long: `Rename computes the full edit plan for renaming a note: the file move
plus a text edit for each referencing link. Without --apply the plan is
only printed.`,
	Args: cobra.ExactArgs(2),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
	renameCmd.Flags().Bool("apply", false, "apply the plan instead of printing it")
	renameCmd.Flags().Bool("hierarchy", false, "also rename every descendant of the key")
}

func runRename(cmd *cobra.Command, args []string) error {
	ws, fs, cfg, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	oldKey, newKey := note.Key(args[0]), note.Key(args[1])
	provider := plan.FSProvider{FS: fs}

	hierarchy, _ := cmd.Flags().GetBool("hierarchy")
	var p *plan.Plan
	if hierarchy {
		p = ws.RenameHierarchy(provider, oldKey, newKey)
	} else {
		p = ws.RenameNote(provider, oldKey, newKey)
	}
	if p == nil {
		return fmt.Errorf("nothing to rename for %q", oldKey)
	}

	apply, _ := cmd.Flags().GetBool("apply")
	if !apply {
		printPlan(p)
		fmt.Println("re-run with --apply to execute")
		return nil
	}

	if err := plan.Apply(p, fs); err != nil {
		return fmt.Errorf("apply plan: %w", err)
	}
	if _, err := ws.FullIndex(fs); err != nil {
		return fmt.Errorf("re-index after rename: %w", err)
	}
	if err := ws.SaveSnapshot(cfg.CachePath()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	fmt.Printf("renamed %s to %s\n", oldKey, newKey)
	return nil
}

func printPlan(p *plan.Plan) {
	fmt.Printf("%s (%d file groups)\n", p.Kind, len(p.Edits))
	for _, g := range p.Edits {
		for _, c := range g.Changes {
			switch c := c.(type) {
			case plan.TextEdit:
				fmt.Printf("  edit   %s:%d:%d -> %s\n",
					g.URI, c.Range.Start.Line+1, c.Range.Start.Col+1, c.NewText)
			case plan.RenameFile:
				fmt.Printf("  move   %s -> %s\n", g.URI, c.NewURI)
			case plan.CreateFile:
				fmt.Printf("  create %s\n", g.URI)
			case plan.DeleteFile:
				fmt.Printf("  delete %s\n", g.URI)
			}
		}
	}
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbornotes/arbor/internal/workspace"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the note hierarchy",
	Args:  cobra.NoArgs,
	RunE:  runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	ws, _, _, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	for _, view := range ws.TreeViews() {
		printTreeView(view, 0)
	}
	return nil
}

func printTreeView(v workspace.TreeView, depth int) {
	label := string(v.Note.Key)
	if v.Note.Title != "" {
		label = fmt.Sprintf("%s  (%s)", label, v.Note.Title)
	}
	if v.Note.Path == "" {
		label += "  [ghost]"
	}
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), label)
	for _, child := range v.Children {
		printTreeView(child, depth+1)
	}
}

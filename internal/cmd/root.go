package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Engine for hierarchical markdown knowledge bases",
	Long: `Arbor indexes a vault of markdown notes linked by wiki references,
maintains the note graph and hierarchy, and plans refactorings such as
renames, moves and splits without touching your files unless asked.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/arbor/config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")
}

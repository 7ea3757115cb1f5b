package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbornotes/arbor/internal/plan"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check the workspace for broken links and invalid anchors",
	Args:  cobra.NoArgs,
	RunE:  runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	ws, _, _, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	report := ws.Audit()
	if len(report.Diagnostics) == 0 {
		fmt.Println("workspace is healthy")
		return nil
	}

	errorCount := 0
	for _, d := range report.Diagnostics {
		loc := d.URI
		if d.Range != nil {
			loc = fmt.Sprintf("%s:%d:%d", d.URI, d.Range.Start.Line+1, d.Range.Start.Col+1)
		}
		fmt.Printf("%s: %s: %s\n", d.Severity, loc, d.Message)
		if d.Severity == plan.Error {
			errorCount++
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("%d problems found", errorCount)
	}
	return nil
}

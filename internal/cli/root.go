package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "ocv",
	Short: "OrgCanvas - hierarchy-aware org chart whiteboard",
	Long: `OrgCanvas (ocv) manages organisation and automation whiteboards built
from typed node trees. Every structural edit is checked against the
hierarchy rules before it lands, so the chart can never drift into an
invalid shape.

It provides CLI commands for creating boards, editing the node tree,
applying AI-proposed draft batches, and browsing boards in a TUI canvas.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ocv %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Apply AI-proposed draft batches to a board",
	Long: `Draft commands.

A draft is an ordered batch of structural edits (add, update, move,
delete, positions), typically proposed by the org-builder agent. Ops are
applied in order; an op that would violate the hierarchy rules is
rejected individually and never aborts the rest of the batch.`,
}

var draftApplyDryRun bool

var draftApplyCmd = &cobra.Command{
	Use:   "apply <board-id> <draft-file>",
	Short: "Apply a draft file to a board",
	Long: `Apply the draft ops in the given JSON file to a board and print a
per-op applied/rejected report. Use "-" to read the draft from stdin.

With --dry-run the report is computed but nothing is persisted.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		draft, err := readDraft(args[1])
		if err != nil {
			return fmt.Errorf("reading draft: %w", err)
		}
		if len(draft.Ops) == 0 {
			return fmt.Errorf("draft has no ops")
		}

		var report *models.DraftReport
		if draftApplyDryRun {
			report, err = BoardMgr.PreviewDraft(args[0], *draft)
		} else {
			report, err = BoardMgr.ApplyDraft(args[0], *draft)
		}
		if err != nil {
			return fmt.Errorf("applying draft: %w", err)
		}

		printDraftReport(report, draftApplyDryRun)
		return nil
	},
}

// readDraft loads a ProposedDraft from a JSON file, or stdin when path is "-".
func readDraft(path string) (*models.ProposedDraft, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var draft models.ProposedDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("parsing draft JSON: %w", err)
	}
	return &draft, nil
}

var (
	draftAppliedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	draftRejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func printDraftReport(report *models.DraftReport, dryRun bool) {
	if dryRun {
		fmt.Println("Dry run (nothing persisted):")
	}
	for _, o := range report.Outcomes {
		mark := draftAppliedStyle.Render("applied ")
		if !o.Applied {
			mark = draftRejectedStyle.Render("rejected")
		}
		line := fmt.Sprintf("  [%d] %-9s %s", o.Index, o.Op, mark)
		if o.NodeID != "" {
			line += " " + o.NodeID
		}
		if o.Reason != "" {
			line += " (" + o.Reason + ")"
		}
		fmt.Println(line)
	}
	fmt.Printf("\n%d applied, %d rejected\n", report.Applied, report.Rejected)
}

func init() {
	draftApplyCmd.Flags().BoolVar(&draftApplyDryRun, "dry-run", false, "Compute the report without persisting anything")
	draftApplyCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return completeBoardIDs(cmd, args, toComplete)
		}
		return nil, cobra.ShellCompDirectiveDefault
	}

	draftCmd.AddCommand(draftApplyCmd)
	rootCmd.AddCommand(draftCmd)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Manage whiteboards (create, list, show, delete)",
	Long: `Board management commands.

Create new organisation or automation boards, list existing ones,
print a board's node tree, and delete boards.`,
}

// boardCreateKindFlag holds the --kind flag value for "board create".
var boardCreateKindFlag string

var boardCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new board",
	Long: `Create a new board with the given name.

The board starts with a single organisation root node named after the
board. Use --kind to pick the rule set: "organisation" boards follow the
default hierarchy, "automation" boards relax it so automations can own
agents, tools, and chained automations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		kind := DefaultKind
		if boardCreateKindFlag != "" {
			kind = models.BoardKind(boardCreateKindFlag)
		}
		if kind != models.BoardOrganisation && kind != models.BoardAutomation {
			return fmt.Errorf("invalid board kind %q (want organisation or automation)", kind)
		}

		board, err := BoardMgr.CreateBoard(args[0], kind)
		if err != nil {
			return fmt.Errorf("creating board: %w", err)
		}

		fmt.Printf("Created board %s\n", board.ID)
		fmt.Printf("  Name: %s\n", board.Name)
		fmt.Printf("  Kind: %s\n", board.Kind)
		fmt.Printf("  Root: %s\n", board.Root.ID)
		return nil
	},
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		boards, err := BoardMgr.GetAllBoards()
		if err != nil {
			return fmt.Errorf("listing boards: %w", err)
		}
		if len(boards) == 0 {
			fmt.Println("No boards found. Create one with: ocv board create <name>")
			return nil
		}

		fmt.Printf("%-10s %-28s %-14s %s\n", "ID", "NAME", "KIND", "NODES")
		for _, b := range boards {
			fmt.Printf("%-10s %-28s %-14s %d\n", b.ID, b.Name, b.Kind, b.NodeCount)
		}
		return nil
	},
}

var boardShowCmd = &cobra.Command{
	Use:   "show <board-id>",
	Short: "Print a board's node tree",
	Long: `Print the full node tree of a board, one node per line, with the
breadcrumb trail underneath.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		board, err := BoardMgr.GetBoard(args[0])
		if err != nil {
			return fmt.Errorf("showing board: %w", err)
		}

		fmt.Printf("%s  %s (%s)\n\n", board.ID, board.Name, board.Kind)
		fmt.Print(renderNodeTree(board.Root))
		if len(board.Breadcrumbs) > 0 {
			fmt.Printf("\nFocus: %s\n", strings.Join(board.Breadcrumbs, " > "))
		}
		return nil
	},
}

var boardDeleteCmd = &cobra.Command{
	Use:   "delete <board-id>",
	Short: "Delete a board",
	Long:  `Delete a board and its stored file. This cannot be undone.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		if err := BoardMgr.DeleteBoard(args[0]); err != nil {
			return fmt.Errorf("deleting board: %w", err)
		}
		fmt.Printf("Deleted board %s\n", args[0])
		return nil
	},
}

// Tree rendering styles, shared with the canvas view.
var (
	nodeIDStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	nodeTypeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	nodeNameStyle = lipgloss.NewStyle().Bold(true)
)

// renderNodeTree prints the tree with box-drawing connectors, one node per
// line, root first.
func renderNodeTree(root *models.WhiteboardNode) string {
	var b strings.Builder
	writeNodeLine(&b, root, "", "")
	for i, child := range root.Children {
		last := i == len(root.Children)-1
		renderSubtree(&b, child, "", last)
	}
	return b.String()
}

func renderSubtree(b *strings.Builder, n *models.WhiteboardNode, prefix string, last bool) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if last {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	writeNodeLine(b, n, prefix, connector)
	for i, child := range n.Children {
		renderSubtree(b, child, childPrefix, i == len(n.Children)-1)
	}
}

func writeNodeLine(b *strings.Builder, n *models.WhiteboardNode, prefix, connector string) {
	b.WriteString(prefix)
	b.WriteString(connector)
	b.WriteString(nodeNameStyle.Render(n.Name))
	b.WriteString(" ")
	b.WriteString(nodeTypeStyle.Render(fmt.Sprintf("[%s]", n.Type)))
	b.WriteString(" ")
	b.WriteString(nodeIDStyle.Render(n.ID))
	b.WriteString("\n")
}

// completeBoardKinds returns valid board kind values for shell completion.
func completeBoardKinds(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"organisation\tStandard org chart hierarchy",
		"automation\tAutomation-first hierarchy",
	}, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	boardCreateCmd.Flags().StringVar(&boardCreateKindFlag, "kind", "", "Board kind: organisation or automation")
	_ = boardCreateCmd.RegisterFlagCompletionFunc("kind", completeBoardKinds)

	boardShowCmd.ValidArgsFunction = completeBoardIDs
	boardDeleteCmd.ValidArgsFunction = completeBoardIDs

	boardCmd.AddCommand(boardCreateCmd)
	boardCmd.AddCommand(boardListCmd)
	boardCmd.AddCommand(boardShowCmd)
	boardCmd.AddCommand(boardDeleteCmd)

	rootCmd.AddCommand(boardCmd)
}

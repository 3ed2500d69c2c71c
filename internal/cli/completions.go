package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

// completeBoardIDs lists board IDs for shell completion.
func completeBoardIDs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if BoardMgr == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	boards, err := BoardMgr.GetAllBoards()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var ids []string
	for _, b := range boards {
		if toComplete == "" || strings.HasPrefix(b.ID, toComplete) {
			// Include name and kind as description for better UX.
			ids = append(ids, b.ID+"\t"+string(b.Kind)+": "+b.Name)
		}
	}

	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeNodeIDs returns a completion function that lists node IDs on the
// board named by the first positional argument.
func completeNodeIDs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if BoardMgr == nil || len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	board, err := BoardMgr.GetBoard(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var ids []string
	var walk func(n *models.WhiteboardNode)
	walk = func(n *models.WhiteboardNode) {
		if toComplete == "" || strings.HasPrefix(n.ID, toComplete) {
			ids = append(ids, n.ID+"\t"+string(n.Type)+": "+n.Name)
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(board.Root)

	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeNodeTypes returns node type values for shell completion.
func completeNodeTypes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(models.AllNodeTypes))
	for _, t := range models.AllNodeTypes {
		out = append(out, string(t))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

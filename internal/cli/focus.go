package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var focusCmd = &cobra.Command{
	Use:   "focus <board-id> <node-id>",
	Short: "Point the breadcrumb trail at a node",
	Long: `Set the board's breadcrumb trail to the root-to-node path of the given
node and print it. Focusing an unknown node falls back to the root.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		trail, err := BoardMgr.Focus(args[0], args[1])
		if err != nil {
			return fmt.Errorf("focusing node: %w", err)
		}
		fmt.Printf("Focus: %s\n", strings.Join(trail, " > "))
		return nil
	},
}

func init() {
	focusCmd.ValidArgsFunction = completeBoardThenNodeIDs
	rootCmd.AddCommand(focusCmd)
}

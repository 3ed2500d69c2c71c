package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	ocvmcp "github.com/valter-silva-au/orgcanvas/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the ocv MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ocv MCP server on stdio",
	Long: `Start the ocv MCP server on stdio transport.

The server exposes board editing as MCP tools the org-builder agent can
call: list_boards, get_board, add_node, update_node, move_node,
delete_node, set_positions, focus_node, apply_draft.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		srv := ocvmcp.NewServer(BoardMgr, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

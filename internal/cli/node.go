package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/orgcanvas/internal/core"
	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Edit board nodes (add, update, move, delete, pos)",
	Long: `Node editing commands.

Every structural edit is validated against the board's hierarchy rules.
An edit that would break them is refused and the board is left untouched;
the command reports the refusal without failing.`,
}

var (
	nodeAddTypeFlag string
	nodeAddIDFlag   string
	nodeAddDescFlag string
	nodeAddHeadFlag string
	nodeAddMetaFlag []string
	nodeAddPosFlag  string
)

var nodeAddCmd = &cobra.Command{
	Use:   "add <board-id> <parent-id> <name>",
	Short: "Insert a node under a parent",
	Long: `Insert a new node under the given parent.

The node type (--type) must be permitted under the parent's type for the
board's rule set. Without --pos the node is placed on the grid next to
its siblings; without --id a fresh node id is generated.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		addCmd := core.AddNodeCommand{
			ParentID:       args[1],
			Type:           models.NodeType(nodeAddTypeFlag),
			Name:           args[2],
			ID:             nodeAddIDFlag,
			Description:    nodeAddDescFlag,
			DepartmentHead: nodeAddHeadFlag,
		}

		if len(nodeAddMetaFlag) > 0 {
			addCmd.Meta = make(map[string]string, len(nodeAddMetaFlag))
			for _, kv := range nodeAddMetaFlag {
				key, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --meta entry %q (want key=value)", kv)
				}
				addCmd.Meta[key] = value
			}
		}

		if nodeAddPosFlag != "" {
			pos, err := parsePosition(nodeAddPosFlag)
			if err != nil {
				return fmt.Errorf("invalid --pos: %w", err)
			}
			addCmd.Position = &pos
		}

		node, applied, err := BoardMgr.AddNode(args[0], addCmd)
		if err != nil {
			return fmt.Errorf("adding node: %w", err)
		}
		if !applied {
			fmt.Printf("Refused: %s is not permitted under %s (or the parent does not exist)\n", nodeAddTypeFlag, args[1])
			return nil
		}
		fmt.Printf("Added node %s (%s) under %s\n", node.ID, node.Type, args[1])
		return nil
	},
}

var (
	nodeUpdateNameFlag string
	nodeUpdateDescFlag string
	nodeUpdateHeadFlag string
)

var nodeUpdateCmd = &cobra.Command{
	Use:   "update <board-id> <node-id>",
	Short: "Patch a node's label fields",
	Long: `Patch a node's name, description, or department head. Only flags you
pass are changed; a node's type and id never change.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		updateCmd := core.UpdateNodeCommand{ID: args[1]}
		if cmd.Flags().Changed("name") {
			updateCmd.Name = &nodeUpdateNameFlag
		}
		if cmd.Flags().Changed("description") {
			updateCmd.Description = &nodeUpdateDescFlag
		}
		if cmd.Flags().Changed("head") {
			updateCmd.DepartmentHead = &nodeUpdateHeadFlag
		}
		if updateCmd.Name == nil && updateCmd.Description == nil && updateCmd.DepartmentHead == nil {
			return fmt.Errorf("nothing to update: pass --name, --description, or --head")
		}

		applied, err := BoardMgr.UpdateNode(args[0], updateCmd)
		if err != nil {
			return fmt.Errorf("updating node: %w", err)
		}
		if !applied {
			fmt.Printf("Refused: node %s not found\n", args[1])
			return nil
		}
		fmt.Printf("Updated node %s\n", args[1])
		return nil
	},
}

var nodeMoveCmd = &cobra.Command{
	Use:   "move <board-id> <node-id> <new-parent-id>",
	Short: "Reparent a node and its subtree",
	Long: `Move a node, with its entire subtree, under a new parent.

The move is refused when either node is missing, when it would form a
cycle (moving a node under itself or a descendant), or when the node's
type is not permitted under the new parent.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		applied, err := BoardMgr.MoveNode(args[0], args[1], args[2])
		if err != nil {
			return fmt.Errorf("moving node: %w", err)
		}
		if !applied {
			fmt.Printf("Refused: cannot move %s under %s (missing node, cycle, or hierarchy violation)\n", args[1], args[2])
			return nil
		}
		fmt.Printf("Moved node %s under %s\n", args[1], args[2])
		return nil
	},
}

var nodeDeleteCmd = &cobra.Command{
	Use:   "delete <board-id> <node-id>",
	Short: "Delete a node and its subtree",
	Long: `Delete a node and everything beneath it. Deleting the root is refused;
delete the board instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		applied, err := BoardMgr.DeleteNode(args[0], args[1])
		if err != nil {
			return fmt.Errorf("deleting node: %w", err)
		}
		if !applied {
			fmt.Printf("Refused: %s is the root or does not exist\n", args[1])
			return nil
		}
		fmt.Printf("Deleted node %s and its subtree\n", args[1])
		return nil
	},
}

var nodePosCmd = &cobra.Command{
	Use:   "pos <board-id> <node-id>=<x>,<y> [<node-id>=<x>,<y>...]",
	Short: "Set canvas positions for one or more nodes",
	Long: `Apply a batch of canvas positions in a single board transition.

Each argument is node-id=x,y. Node ids that do not exist on the board
are ignored; if none exist the board is left untouched.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}

		positions := make(map[string]models.Position, len(args)-1)
		for _, arg := range args[1:] {
			id, raw, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("invalid position %q (want node-id=x,y)", arg)
			}
			pos, err := parsePosition(raw)
			if err != nil {
				return fmt.Errorf("invalid position for %s: %w", id, err)
			}
			positions[id] = pos
		}

		applied, err := BoardMgr.SetPositions(args[0], positions)
		if err != nil {
			return fmt.Errorf("setting positions: %w", err)
		}
		if !applied {
			fmt.Println("Refused: no listed node id exists on the board")
			return nil
		}
		fmt.Printf("Repositioned %d node(s)\n", len(positions))
		return nil
	},
}

// parsePosition parses "x,y" into a Position.
func parsePosition(raw string) (models.Position, error) {
	xs, ys, ok := strings.Cut(raw, ",")
	if !ok {
		return models.Position{}, fmt.Errorf("want x,y, got %q", raw)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return models.Position{}, fmt.Errorf("parsing x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return models.Position{}, fmt.Errorf("parsing y: %w", err)
	}
	return models.Position{X: x, Y: y}, nil
}

func init() {
	nodeAddCmd.Flags().StringVar(&nodeAddTypeFlag, "type", "teamMember", "Node type to insert")
	nodeAddCmd.Flags().StringVar(&nodeAddIDFlag, "id", "", "Explicit node id (generated when omitted)")
	nodeAddCmd.Flags().StringVar(&nodeAddDescFlag, "description", "", "Node description")
	nodeAddCmd.Flags().StringVar(&nodeAddHeadFlag, "head", "", "Department head name")
	nodeAddCmd.Flags().StringSliceVar(&nodeAddMetaFlag, "meta", nil, "Metadata entries as key=value")
	nodeAddCmd.Flags().StringVar(&nodeAddPosFlag, "pos", "", "Canvas position as x,y")
	_ = nodeAddCmd.RegisterFlagCompletionFunc("type", completeNodeTypes)
	nodeAddCmd.ValidArgsFunction = completeBoardThenNodeIDs

	nodeUpdateCmd.Flags().StringVar(&nodeUpdateNameFlag, "name", "", "New node name")
	nodeUpdateCmd.Flags().StringVar(&nodeUpdateDescFlag, "description", "", "New node description")
	nodeUpdateCmd.Flags().StringVar(&nodeUpdateHeadFlag, "head", "", "New department head")
	nodeUpdateCmd.ValidArgsFunction = completeBoardThenNodeIDs

	nodeMoveCmd.ValidArgsFunction = completeBoardThenNodeIDs
	nodeDeleteCmd.ValidArgsFunction = completeBoardThenNodeIDs
	nodePosCmd.ValidArgsFunction = completeBoardThenNodeIDs

	nodeCmd.AddCommand(nodeAddCmd)
	nodeCmd.AddCommand(nodeUpdateCmd)
	nodeCmd.AddCommand(nodeMoveCmd)
	nodeCmd.AddCommand(nodeDeleteCmd)
	nodeCmd.AddCommand(nodePosCmd)

	rootCmd.AddCommand(nodeCmd)
}

// completeBoardThenNodeIDs completes the first argument as a board id and
// later arguments as node ids on that board.
func completeBoardThenNodeIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return completeBoardIDs(cmd, args, toComplete)
	}
	return completeNodeIDs(cmd, args, toComplete)
}

// Package mcp provides an MCP (Model Context Protocol) server that exposes
// orgcanvas board mutations as MCP tools, giving an AI org-builder agent a
// boundary through which it can propose and apply structural edits.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/valter-silva-au/orgcanvas/internal/core"
	"github.com/valter-silva-au/orgcanvas/pkg/models"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the board manager and exposes it as MCP tools.
type Server struct {
	server   *gomcp.Server
	boardMgr core.BoardManager
}

// NewServer creates a new MCP server backed by the given board manager.
func NewServer(boardMgr core.BoardManager, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{boardMgr: boardMgr}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "ocv", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listBoardsInput struct{}

type boardSummaryOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	NodeCount int    `json:"node_count"`
	Created   string `json:"created"`
	Updated   string `json:"updated"`
}

type listBoardsOutput struct {
	Boards []boardSummaryOutput `json:"boards"`
	Count  int                  `json:"count"`
}

type getBoardInput struct {
	BoardID string `json:"board_id" jsonschema:"required,the board identifier (e.g. B-00001)"`
}

type nodeOutput struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	DepartmentHead string            `json:"department_head,omitempty"`
	Meta           map[string]string `json:"meta,omitempty"`
	X              float64           `json:"x"`
	Y              float64           `json:"y"`
	ParentID       string            `json:"parent_id,omitempty"`
	Children       []nodeOutput      `json:"children,omitempty"`
	Created        string            `json:"created"`
	Updated        string            `json:"updated"`
}

type getBoardOutput struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	Root        nodeOutput `json:"root"`
	Breadcrumbs []string   `json:"breadcrumbs,omitempty"`
}

type addNodeInput struct {
	BoardID        string   `json:"board_id" jsonschema:"required,the board identifier"`
	ParentID       string   `json:"parent_id" jsonschema:"required,the id of the node to insert under"`
	Type           string   `json:"type" jsonschema:"required,the node type (organisation, department, team, agentSwarm, teamLead, teamMember, agentLead, agentMember, role, subRole, tool, agent, automation)"`
	Name           string   `json:"name" jsonschema:"required,the human label for the node"`
	Description    string   `json:"description,omitempty"`
	DepartmentHead string   `json:"department_head,omitempty"`
	X              *float64 `json:"x,omitempty"`
	Y              *float64 `json:"y,omitempty"`
}

type addNodeOutput struct {
	Applied bool   `json:"applied"`
	NodeID  string `json:"node_id,omitempty"`
	Message string `json:"message"`
}

type updateNodeInput struct {
	BoardID        string  `json:"board_id" jsonschema:"required,the board identifier"`
	NodeID         string  `json:"node_id" jsonschema:"required,the id of the node to patch"`
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	DepartmentHead *string `json:"department_head,omitempty"`
}

type moveNodeInput struct {
	BoardID     string `json:"board_id" jsonschema:"required,the board identifier"`
	NodeID      string `json:"node_id" jsonschema:"required,the id of the node to move"`
	NewParentID string `json:"new_parent_id" jsonschema:"required,the id of the new parent"`
}

type deleteNodeInput struct {
	BoardID string `json:"board_id" jsonschema:"required,the board identifier"`
	NodeID  string `json:"node_id" jsonschema:"required,the id of the node to delete (the whole subtree goes with it)"`
}

type appliedOutput struct {
	Applied bool   `json:"applied"`
	Message string `json:"message"`
}

type setPositionsInput struct {
	BoardID   string                     `json:"board_id" jsonschema:"required,the board identifier"`
	Positions map[string]models.Position `json:"positions" jsonschema:"required,map of node id to canvas position"`
}

type focusNodeInput struct {
	BoardID string `json:"board_id" jsonschema:"required,the board identifier"`
	NodeID  string `json:"node_id" jsonschema:"required,the id of the node to focus"`
}

type focusNodeOutput struct {
	Breadcrumbs []string `json:"breadcrumbs"`
}

type applyDraftInput struct {
	BoardID string           `json:"board_id" jsonschema:"required,the board identifier"`
	Ops     []models.DraftOp `json:"ops" jsonschema:"required,the ordered structural edits to apply"`
}

type applyDraftOutput struct {
	Applied  int                     `json:"applied"`
	Rejected int                     `json:"rejected"`
	Outcomes []models.DraftOpOutcome `json:"outcomes"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_boards",
		Description: "List all boards with their kind and node counts.",
	}, s.handleListBoards)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_board",
		Description: "Get a board's full node tree, including positions and the current breadcrumb trail.",
	}, s.handleGetBoard)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_node",
		Description: "Insert a new node under a parent. The insert is refused (applied=false) when the parent is missing or the type is not permitted under it.",
	}, s.handleAddNode)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_node",
		Description: "Patch a node's name, description, or department head. Fields left out are untouched; type and id never change.",
	}, s.handleUpdateNode)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "move_node",
		Description: "Reparent a node (with its subtree) under a new parent. Refused when it would form a cycle or violate the hierarchy rules.",
	}, s.handleMoveNode)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_node",
		Description: "Delete a node and its entire subtree. Deleting the root is refused.",
	}, s.handleDeleteNode)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "set_positions",
		Description: "Apply a batch of canvas position updates in one transition. Unknown ids are ignored.",
	}, s.handleSetPositions)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "focus_node",
		Description: "Point the breadcrumb trail at a node and return the root-to-node path.",
	}, s.handleFocusNode)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "apply_draft",
		Description: "Apply an ordered batch of structural edits (add, update, move, delete, positions) to a board. Returns a per-op applied/rejected report; rejected ops never abort the batch.",
	}, s.handleApplyDraft)
}

// --- Tool handlers ---

func (s *Server) handleListBoards(_ context.Context, _ *gomcp.CallToolRequest, _ listBoardsInput) (*gomcp.CallToolResult, listBoardsOutput, error) {
	boards, err := s.boardMgr.GetAllBoards()
	if err != nil {
		return errorResult(fmt.Sprintf("listing boards: %s", err)), listBoardsOutput{}, nil
	}

	out := listBoardsOutput{
		Boards: make([]boardSummaryOutput, len(boards)),
		Count:  len(boards),
	}
	for i, b := range boards {
		out.Boards[i] = boardSummaryOutput{
			ID:        b.ID,
			Name:      b.Name,
			Kind:      string(b.Kind),
			NodeCount: b.NodeCount,
			Created:   b.Created.Format(time.RFC3339),
			Updated:   b.Updated.Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetBoard(_ context.Context, _ *gomcp.CallToolRequest, input getBoardInput) (*gomcp.CallToolResult, getBoardOutput, error) {
	if input.BoardID == "" {
		return errorResult("board_id is required"), getBoardOutput{}, nil
	}

	board, err := s.boardMgr.GetBoard(input.BoardID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting board %s: %s", input.BoardID, err)), getBoardOutput{}, nil
	}

	out := getBoardOutput{
		ID:          board.ID,
		Name:        board.Name,
		Kind:        string(board.Kind),
		Root:        nodeToOutput(board.Root),
		Breadcrumbs: board.Breadcrumbs,
	}
	return nil, out, nil
}

func (s *Server) handleAddNode(_ context.Context, _ *gomcp.CallToolRequest, input addNodeInput) (*gomcp.CallToolResult, addNodeOutput, error) {
	if input.BoardID == "" {
		return errorResult("board_id is required"), addNodeOutput{}, nil
	}
	if input.ParentID == "" {
		return errorResult("parent_id is required"), addNodeOutput{}, nil
	}
	if input.Type == "" || input.Name == "" {
		return errorResult("type and name are required"), addNodeOutput{}, nil
	}

	cmd := core.AddNodeCommand{
		ParentID:       input.ParentID,
		Type:           models.NodeType(input.Type),
		Name:           input.Name,
		Description:    input.Description,
		DepartmentHead: input.DepartmentHead,
	}
	if input.X != nil && input.Y != nil {
		cmd.Position = &models.Position{X: *input.X, Y: *input.Y}
	}

	node, applied, err := s.boardMgr.AddNode(input.BoardID, cmd)
	if err != nil {
		return errorResult(fmt.Sprintf("adding node: %s", err)), addNodeOutput{}, nil
	}
	if !applied {
		return nil, addNodeOutput{
			Applied: false,
			Message: fmt.Sprintf("insert refused: %s is not permitted under %s (or the parent does not exist)", input.Type, input.ParentID),
		}, nil
	}
	return nil, addNodeOutput{
		Applied: true,
		NodeID:  node.ID,
		Message: fmt.Sprintf("node %s added under %s", node.ID, input.ParentID),
	}, nil
}

func (s *Server) handleUpdateNode(_ context.Context, _ *gomcp.CallToolRequest, input updateNodeInput) (*gomcp.CallToolResult, appliedOutput, error) {
	if input.BoardID == "" || input.NodeID == "" {
		return errorResult("board_id and node_id are required"), appliedOutput{}, nil
	}

	applied, err := s.boardMgr.UpdateNode(input.BoardID, core.UpdateNodeCommand{
		ID:             input.NodeID,
		Name:           input.Name,
		Description:    input.Description,
		DepartmentHead: input.DepartmentHead,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("updating node %s: %s", input.NodeID, err)), appliedOutput{}, nil
	}
	return nil, appliedResultOutput(applied, fmt.Sprintf("node %s updated", input.NodeID),
		fmt.Sprintf("node %s not found", input.NodeID)), nil
}

func (s *Server) handleMoveNode(_ context.Context, _ *gomcp.CallToolRequest, input moveNodeInput) (*gomcp.CallToolResult, appliedOutput, error) {
	if input.BoardID == "" || input.NodeID == "" || input.NewParentID == "" {
		return errorResult("board_id, node_id, and new_parent_id are required"), appliedOutput{}, nil
	}

	applied, err := s.boardMgr.MoveNode(input.BoardID, input.NodeID, input.NewParentID)
	if err != nil {
		return errorResult(fmt.Sprintf("moving node %s: %s", input.NodeID, err)), appliedOutput{}, nil
	}
	return nil, appliedResultOutput(applied,
		fmt.Sprintf("node %s moved under %s", input.NodeID, input.NewParentID),
		fmt.Sprintf("move refused: missing node, cycle, or hierarchy violation for %s -> %s", input.NodeID, input.NewParentID)), nil
}

func (s *Server) handleDeleteNode(_ context.Context, _ *gomcp.CallToolRequest, input deleteNodeInput) (*gomcp.CallToolResult, appliedOutput, error) {
	if input.BoardID == "" || input.NodeID == "" {
		return errorResult("board_id and node_id are required"), appliedOutput{}, nil
	}

	applied, err := s.boardMgr.DeleteNode(input.BoardID, input.NodeID)
	if err != nil {
		return errorResult(fmt.Sprintf("deleting node %s: %s", input.NodeID, err)), appliedOutput{}, nil
	}
	return nil, appliedResultOutput(applied,
		fmt.Sprintf("node %s and its subtree deleted", input.NodeID),
		fmt.Sprintf("delete refused: %s is the root or does not exist", input.NodeID)), nil
}

func (s *Server) handleSetPositions(_ context.Context, _ *gomcp.CallToolRequest, input setPositionsInput) (*gomcp.CallToolResult, appliedOutput, error) {
	if input.BoardID == "" {
		return errorResult("board_id is required"), appliedOutput{}, nil
	}
	if len(input.Positions) == 0 {
		return errorResult("positions must not be empty"), appliedOutput{}, nil
	}

	applied, err := s.boardMgr.SetPositions(input.BoardID, input.Positions)
	if err != nil {
		return errorResult(fmt.Sprintf("setting positions: %s", err)), appliedOutput{}, nil
	}
	return nil, appliedResultOutput(applied,
		fmt.Sprintf("%d position(s) submitted", len(input.Positions)),
		"no listed node id exists on the board"), nil
}

func (s *Server) handleFocusNode(_ context.Context, _ *gomcp.CallToolRequest, input focusNodeInput) (*gomcp.CallToolResult, focusNodeOutput, error) {
	if input.BoardID == "" || input.NodeID == "" {
		return errorResult("board_id and node_id are required"), focusNodeOutput{}, nil
	}

	trail, err := s.boardMgr.Focus(input.BoardID, input.NodeID)
	if err != nil {
		return errorResult(fmt.Sprintf("focusing node %s: %s", input.NodeID, err)), focusNodeOutput{}, nil
	}
	return nil, focusNodeOutput{Breadcrumbs: trail}, nil
}

func (s *Server) handleApplyDraft(_ context.Context, _ *gomcp.CallToolRequest, input applyDraftInput) (*gomcp.CallToolResult, applyDraftOutput, error) {
	if input.BoardID == "" {
		return errorResult("board_id is required"), applyDraftOutput{}, nil
	}
	if len(input.Ops) == 0 {
		return errorResult("ops must not be empty"), applyDraftOutput{}, nil
	}

	report, err := s.boardMgr.ApplyDraft(input.BoardID, models.ProposedDraft{
		BoardID: input.BoardID,
		Ops:     input.Ops,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("applying draft: %s", err)), applyDraftOutput{}, nil
	}
	return nil, applyDraftOutput{
		Applied:  report.Applied,
		Rejected: report.Rejected,
		Outcomes: report.Outcomes,
	}, nil
}

// --- Helpers ---

func nodeToOutput(n *models.WhiteboardNode) nodeOutput {
	out := nodeOutput{
		ID:             n.ID,
		Type:           string(n.Type),
		Name:           n.Name,
		Description:    n.Description,
		DepartmentHead: n.DepartmentHead,
		Meta:           n.Meta,
		X:              n.Position.X,
		Y:              n.Position.Y,
		ParentID:       n.ParentID,
		Created:        n.CreatedAt.Format(time.RFC3339),
		Updated:        n.UpdatedAt.Format(time.RFC3339),
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, nodeToOutput(child))
	}
	return out
}

func appliedResultOutput(applied bool, okMsg, refusedMsg string) appliedOutput {
	if applied {
		return appliedOutput{Applied: true, Message: okMsg}
	}
	return appliedOutput{Applied: false, Message: refusedMsg}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

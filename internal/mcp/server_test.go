package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/orgcanvas/internal/core"
	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

// --- Fake implementations ---

// fakeBoardManager serves canned boards and records the commands it
// receives. Mutation outcomes are scripted through the applied/report
// fields.
type fakeBoardManager struct {
	boards    map[string]*models.Board
	summaries []models.BoardSummary

	applied bool
	report  *models.DraftReport

	lastAddCmd    core.AddNodeCommand
	lastUpdateCmd core.UpdateNodeCommand
	lastMove      [2]string
	lastPositions map[string]models.Position
}

func newFakeBoardManager(boards ...*models.Board) *fakeBoardManager {
	m := &fakeBoardManager{
		boards:  make(map[string]*models.Board),
		applied: true,
	}
	for _, b := range boards {
		m.boards[b.ID] = b
		m.summaries = append(m.summaries, models.BoardSummary{
			ID:        b.ID,
			Name:      b.Name,
			Kind:      b.Kind,
			NodeCount: 1,
			Created:   b.Created,
			Updated:   b.Updated,
		})
	}
	return m
}

func (f *fakeBoardManager) CreateBoard(name string, kind models.BoardKind) (*models.Board, error) {
	return nil, nil
}

func (f *fakeBoardManager) GetBoard(boardID string) (*models.Board, error) {
	board, ok := f.boards[boardID]
	if !ok {
		return nil, &notFoundError{boardID}
	}
	return board, nil
}

func (f *fakeBoardManager) GetAllBoards() ([]models.BoardSummary, error) {
	return f.summaries, nil
}

func (f *fakeBoardManager) DeleteBoard(boardID string) error { return nil }

func (f *fakeBoardManager) AddNode(boardID string, cmd core.AddNodeCommand) (*models.WhiteboardNode, bool, error) {
	if _, ok := f.boards[boardID]; !ok {
		return nil, false, &notFoundError{boardID}
	}
	f.lastAddCmd = cmd
	if !f.applied {
		return nil, false, nil
	}
	return &models.WhiteboardNode{ID: "N-00042", Type: cmd.Type, Name: cmd.Name, ParentID: cmd.ParentID}, true, nil
}

func (f *fakeBoardManager) UpdateNode(boardID string, cmd core.UpdateNodeCommand) (bool, error) {
	f.lastUpdateCmd = cmd
	return f.applied, nil
}

func (f *fakeBoardManager) MoveNode(boardID, nodeID, newParentID string) (bool, error) {
	f.lastMove = [2]string{nodeID, newParentID}
	return f.applied, nil
}

func (f *fakeBoardManager) DeleteNode(boardID, nodeID string) (bool, error) {
	return f.applied, nil
}

func (f *fakeBoardManager) SetPositions(boardID string, positions map[string]models.Position) (bool, error) {
	f.lastPositions = positions
	return f.applied, nil
}

func (f *fakeBoardManager) Focus(boardID, nodeID string) ([]string, error) {
	return []string{"org", nodeID}, nil
}

func (f *fakeBoardManager) ApplyDraft(boardID string, draft models.ProposedDraft) (*models.DraftReport, error) {
	return f.report, nil
}

func (f *fakeBoardManager) PreviewDraft(boardID string, draft models.ProposedDraft) (*models.DraftReport, error) {
	return f.report, nil
}

type notFoundError struct{ id string }

func (e *notFoundError) Error() string { return "board " + e.id + " not found" }

func testOrgBoard() *models.Board {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Board{
		ID:   "B-00001",
		Name: "Acme",
		Kind: models.BoardOrganisation,
		Root: &models.WhiteboardNode{
			ID:   "org",
			Type: models.NodeOrganisation,
			Name: "Acme",
			Children: []*models.WhiteboardNode{
				{
					ID:       "dept-eng",
					Type:     models.NodeDepartment,
					Name:     "Engineering",
					ParentID: "org",
					Position: models.Position{X: 0, Y: 160},
				},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		Breadcrumbs: []string{"org", "dept-eng"},
		Created:     now,
		Updated:     now,
	}
}

// --- Server construction ---

func TestNewServer(t *testing.T) {
	s := NewServer(newFakeBoardManager(), "1.0.0")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
	if s.MCPServer() == nil {
		t.Fatal("underlying MCP server is nil")
	}
}

func TestNewServer_DefaultVersion(t *testing.T) {
	s := NewServer(newFakeBoardManager(), "")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}

// --- Handler tests ---

func TestHandleListBoards(t *testing.T) {
	s := NewServer(newFakeBoardManager(testOrgBoard()), "test")

	result, out, err := s.handleListBoards(context.Background(), nil, listBoardsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected tool error: %+v", result)
	}
	if out.Count != 1 || len(out.Boards) != 1 {
		t.Fatalf("got %d boards, want 1", out.Count)
	}
	if out.Boards[0].ID != "B-00001" || out.Boards[0].Kind != "organisation" {
		t.Errorf("summary = %+v", out.Boards[0])
	}
}

func TestHandleGetBoard(t *testing.T) {
	s := NewServer(newFakeBoardManager(testOrgBoard()), "test")

	result, out, err := s.handleGetBoard(context.Background(), nil, getBoardInput{BoardID: "B-00001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected tool error: %+v", result)
	}

	if out.ID != "B-00001" || out.Root.ID != "org" {
		t.Errorf("board = %+v", out)
	}
	if len(out.Root.Children) != 1 || out.Root.Children[0].ID != "dept-eng" {
		t.Fatalf("root children = %+v", out.Root.Children)
	}
	child := out.Root.Children[0]
	if child.ParentID != "org" || child.Y != 160 {
		t.Errorf("child = %+v", child)
	}
	if len(out.Breadcrumbs) != 2 || out.Breadcrumbs[1] != "dept-eng" {
		t.Errorf("breadcrumbs = %v", out.Breadcrumbs)
	}
}

func TestHandleGetBoard_MissingID(t *testing.T) {
	s := NewServer(newFakeBoardManager(), "test")

	result, _, err := s.handleGetBoard(context.Background(), nil, getBoardInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected a tool error for a missing board_id")
	}
}

func TestHandleGetBoard_NotFound(t *testing.T) {
	s := NewServer(newFakeBoardManager(), "test")

	result, _, err := s.handleGetBoard(context.Background(), nil, getBoardInput{BoardID: "B-99999"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected a tool error for an unknown board")
	}
}

func TestHandleAddNode(t *testing.T) {
	mgr := newFakeBoardManager(testOrgBoard())
	s := NewServer(mgr, "test")

	x, y := 320.0, 160.0
	result, out, err := s.handleAddNode(context.Background(), nil, addNodeInput{
		BoardID:  "B-00001",
		ParentID: "dept-eng",
		Type:     "team",
		Name:     "Frontend",
		X:        &x,
		Y:        &y,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected tool error: %+v", result)
	}

	if !out.Applied || out.NodeID != "N-00042" {
		t.Errorf("output = %+v", out)
	}
	if mgr.lastAddCmd.ParentID != "dept-eng" || mgr.lastAddCmd.Type != models.NodeTeam {
		t.Errorf("command = %+v", mgr.lastAddCmd)
	}
	if mgr.lastAddCmd.Position == nil || mgr.lastAddCmd.Position.X != 320 {
		t.Errorf("position not forwarded: %+v", mgr.lastAddCmd.Position)
	}
}

func TestHandleAddNode_Refused(t *testing.T) {
	mgr := newFakeBoardManager(testOrgBoard())
	mgr.applied = false
	s := NewServer(mgr, "test")

	result, out, err := s.handleAddNode(context.Background(), nil, addNodeInput{
		BoardID:  "B-00001",
		ParentID: "org",
		Type:     "tool",
		Name:     "Linter",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("refusal must not be a tool error: %+v", result)
	}
	if out.Applied {
		t.Error("expected applied=false")
	}
	if !strings.Contains(out.Message, "refused") {
		t.Errorf("message %q does not mention the refusal", out.Message)
	}
}

func TestHandleAddNode_MissingFields(t *testing.T) {
	s := NewServer(newFakeBoardManager(), "test")

	tests := []struct {
		name  string
		input addNodeInput
	}{
		{"no board", addNodeInput{ParentID: "org", Type: "team", Name: "FE"}},
		{"no parent", addNodeInput{BoardID: "B-00001", Type: "team", Name: "FE"}},
		{"no type", addNodeInput{BoardID: "B-00001", ParentID: "org", Name: "FE"}},
		{"no name", addNodeInput{BoardID: "B-00001", ParentID: "org", Type: "team"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := s.handleAddNode(context.Background(), nil, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result == nil || !result.IsError {
				t.Fatal("expected a tool error")
			}
		})
	}
}

func TestHandleUpdateNode(t *testing.T) {
	mgr := newFakeBoardManager(testOrgBoard())
	s := NewServer(mgr, "test")

	name := "Platform Engineering"
	result, out, err := s.handleUpdateNode(context.Background(), nil, updateNodeInput{
		BoardID: "B-00001",
		NodeID:  "dept-eng",
		Name:    &name,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected tool error: %+v", result)
	}
	if !out.Applied {
		t.Errorf("output = %+v", out)
	}
	if mgr.lastUpdateCmd.ID != "dept-eng" || mgr.lastUpdateCmd.Name == nil || *mgr.lastUpdateCmd.Name != name {
		t.Errorf("command = %+v", mgr.lastUpdateCmd)
	}
	if mgr.lastUpdateCmd.Description != nil {
		t.Error("omitted fields must stay nil in the command")
	}
}

func TestHandleMoveNode_Refused(t *testing.T) {
	mgr := newFakeBoardManager(testOrgBoard())
	mgr.applied = false
	s := NewServer(mgr, "test")

	result, out, err := s.handleMoveNode(context.Background(), nil, moveNodeInput{
		BoardID:     "B-00001",
		NodeID:      "org",
		NewParentID: "dept-eng",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("refusal must not be a tool error: %+v", result)
	}
	if out.Applied {
		t.Error("expected applied=false")
	}
	if mgr.lastMove != [2]string{"org", "dept-eng"} {
		t.Errorf("move forwarded as %v", mgr.lastMove)
	}
}

func TestHandleDeleteNode(t *testing.T) {
	s := NewServer(newFakeBoardManager(testOrgBoard()), "test")

	result, out, err := s.handleDeleteNode(context.Background(), nil, deleteNodeInput{
		BoardID: "B-00001",
		NodeID:  "dept-eng",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected tool error: %+v", result)
	}
	if !out.Applied || !strings.Contains(out.Message, "dept-eng") {
		t.Errorf("output = %+v", out)
	}
}

func TestHandleSetPositions(t *testing.T) {
	mgr := newFakeBoardManager(testOrgBoard())
	s := NewServer(mgr, "test")

	result, out, err := s.handleSetPositions(context.Background(), nil, setPositionsInput{
		BoardID: "B-00001",
		Positions: map[string]models.Position{
			"dept-eng": {X: 100, Y: 200},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected tool error: %+v", result)
	}
	if !out.Applied {
		t.Errorf("output = %+v", out)
	}
	if mgr.lastPositions["dept-eng"].Y != 200 {
		t.Errorf("positions forwarded as %v", mgr.lastPositions)
	}
}

func TestHandleSetPositions_Empty(t *testing.T) {
	s := NewServer(newFakeBoardManager(), "test")

	result, _, err := s.handleSetPositions(context.Background(), nil, setPositionsInput{BoardID: "B-00001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected a tool error for an empty batch")
	}
}

func TestHandleFocusNode(t *testing.T) {
	s := NewServer(newFakeBoardManager(testOrgBoard()), "test")

	result, out, err := s.handleFocusNode(context.Background(), nil, focusNodeInput{
		BoardID: "B-00001",
		NodeID:  "dept-eng",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected tool error: %+v", result)
	}
	if len(out.Breadcrumbs) != 2 || out.Breadcrumbs[1] != "dept-eng" {
		t.Errorf("breadcrumbs = %v", out.Breadcrumbs)
	}
}

func TestHandleApplyDraft(t *testing.T) {
	mgr := newFakeBoardManager(testOrgBoard())
	mgr.report = &models.DraftReport{
		BoardID:  "B-00001",
		Applied:  1,
		Rejected: 1,
		Outcomes: []models.DraftOpOutcome{
			{Index: 0, Op: models.DraftOpAdd, Applied: true, NodeID: "N-00042"},
			{Index: 1, Op: models.DraftOpMove, Applied: false, Reason: "cycle"},
		},
	}
	s := NewServer(mgr, "test")

	result, out, err := s.handleApplyDraft(context.Background(), nil, applyDraftInput{
		BoardID: "B-00001",
		Ops: []models.DraftOp{
			{Op: models.DraftOpAdd, ParentID: "dept-eng", Type: models.NodeTeam},
			{Op: models.DraftOpMove, NodeID: "org", NewParentID: "dept-eng"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected tool error: %+v", result)
	}

	if out.Applied != 1 || out.Rejected != 1 {
		t.Errorf("report = %+v", out)
	}
	if len(out.Outcomes) != 2 || out.Outcomes[1].Reason != "cycle" {
		t.Errorf("outcomes = %+v", out.Outcomes)
	}
}

func TestHandleApplyDraft_EmptyOps(t *testing.T) {
	s := NewServer(newFakeBoardManager(), "test")

	result, _, err := s.handleApplyDraft(context.Background(), nil, applyDraftInput{BoardID: "B-00001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected a tool error for an empty op list")
	}
}

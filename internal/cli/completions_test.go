package cli

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/orgcanvas/internal/core"
	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

// fakeBoardMgr stubs the two read methods completions need; the embedded
// interface panics on anything else.
type fakeBoardMgr struct {
	core.BoardManager
	boards []models.BoardSummary
	board  *models.Board
}

func (f *fakeBoardMgr) GetAllBoards() ([]models.BoardSummary, error) {
	return f.boards, nil
}

func (f *fakeBoardMgr) GetBoard(boardID string) (*models.Board, error) {
	return f.board, nil
}

func TestCompleteBoardIDs(t *testing.T) {
	orig := BoardMgr
	defer func() { BoardMgr = orig }()
	BoardMgr = &fakeBoardMgr{
		boards: []models.BoardSummary{
			{ID: "B-00001", Name: "Acme", Kind: models.BoardOrganisation},
			{ID: "B-00002", Name: "Pipelines", Kind: models.BoardAutomation},
		},
	}

	ids, _ := completeBoardIDs(nil, nil, "")
	if len(ids) != 2 {
		t.Fatalf("got %d completions, want 2", len(ids))
	}
	if !strings.HasPrefix(ids[0], "B-00001\t") || !strings.Contains(ids[0], "Acme") {
		t.Errorf("completion = %q", ids[0])
	}

	ids, _ = completeBoardIDs(nil, nil, "B-00002")
	if len(ids) != 1 || !strings.HasPrefix(ids[0], "B-00002") {
		t.Errorf("prefix filter returned %v", ids)
	}
}

func TestCompleteBoardIDs_NilManager(t *testing.T) {
	orig := BoardMgr
	defer func() { BoardMgr = orig }()
	BoardMgr = nil

	ids, _ := completeBoardIDs(nil, nil, "")
	if ids != nil {
		t.Errorf("expected no completions, got %v", ids)
	}
}

func TestCompleteNodeIDs(t *testing.T) {
	orig := BoardMgr
	defer func() { BoardMgr = orig }()
	BoardMgr = &fakeBoardMgr{
		board: &models.Board{
			ID: "B-00001",
			Root: &models.WhiteboardNode{
				ID: "org", Type: models.NodeOrganisation, Name: "Acme",
				Children: []*models.WhiteboardNode{
					{ID: "dept-eng", Type: models.NodeDepartment, Name: "Engineering"},
				},
			},
		},
	}

	ids, _ := completeNodeIDs(nil, []string{"B-00001"}, "")
	if len(ids) != 2 {
		t.Fatalf("got %d completions, want 2", len(ids))
	}
	if !strings.HasPrefix(ids[1], "dept-eng\tdepartment") {
		t.Errorf("completion = %q", ids[1])
	}

	// Node ids only complete once a board id is present.
	ids, _ = completeNodeIDs(nil, nil, "")
	if ids != nil {
		t.Errorf("expected no completions without a board arg, got %v", ids)
	}
}

func TestCompleteNodeTypes(t *testing.T) {
	types, _ := completeNodeTypes(nil, nil, "")
	if len(types) != len(models.AllNodeTypes) {
		t.Fatalf("got %d types, want %d", len(types), len(models.AllNodeTypes))
	}
	found := false
	for _, s := range types {
		if s == "agentSwarm" {
			found = true
		}
	}
	if !found {
		t.Error("agentSwarm missing from completions")
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.Position
		wantErr bool
	}{
		{"plain", "320,160", models.Position{X: 320, Y: 160}, false},
		{"spaces", " 320 , 160 ", models.Position{X: 320, Y: 160}, false},
		{"negative and fractional", "-10.5,0.25", models.Position{X: -10.5, Y: 0.25}, false},
		{"missing comma", "320", models.Position{}, true},
		{"bad x", "abc,160", models.Position{}, true},
		{"bad y", "320,xyz", models.Position{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePosition(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parsePosition(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

package core

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

// BoardStore is the subset of storage.BoardStoreManager that BoardManager
// needs. Defining it here keeps core independent of the storage package.
type BoardStore interface {
	GetBoard(id string) (*models.Board, error)
	GetAllBoards() ([]models.BoardSummary, error)
	PutBoard(board *models.Board) error
	DeleteBoard(id string) error
	GenerateBoardID() (string, error)
	Load() error
	Save() error
}

// BoardManager defines the stateful orchestration layer over the pure tree
// engine: it loads a board, applies one engine operation, persists the
// result, keeps the breadcrumb trail valid, and emits events. The applied
// flag on mutation methods reflects the engine's unchanged-tree contract so
// callers can surface structural rejections.
type BoardManager interface {
	CreateBoard(name string, kind models.BoardKind) (*models.Board, error)
	GetBoard(boardID string) (*models.Board, error)
	GetAllBoards() ([]models.BoardSummary, error)
	DeleteBoard(boardID string) error

	AddNode(boardID string, cmd AddNodeCommand) (*models.WhiteboardNode, bool, error)
	UpdateNode(boardID string, cmd UpdateNodeCommand) (bool, error)
	MoveNode(boardID, nodeID, newParentID string) (bool, error)
	DeleteNode(boardID, nodeID string) (bool, error)
	SetPositions(boardID string, positions map[string]models.Position) (bool, error)

	Focus(boardID, nodeID string) ([]string, error)
	ApplyDraft(boardID string, draft models.ProposedDraft) (*models.DraftReport, error)
	PreviewDraft(boardID string, draft models.ProposedDraft) (*models.DraftReport, error)
}

// boardManager implements BoardManager by coordinating the BoardStore,
// NodeIDGenerator, and DraftApplier.
type boardManager struct {
	store   BoardStore
	idGen   NodeIDGenerator
	applier DraftApplier
	events  EventLogger
	grid    GridLayout
}

// NewBoardManager creates a BoardManager with all dependencies injected.
// events may be nil if observability is disabled.
func NewBoardManager(store BoardStore, idGen NodeIDGenerator, applier DraftApplier, events EventLogger, grid GridLayout) BoardManager {
	return &boardManager{
		store:   store,
		idGen:   idGen,
		applier: applier,
		events:  events,
		grid:    grid,
	}
}

// CreateBoard creates a board whose root is an organisation node named
// after the board.
func (bm *boardManager) CreateBoard(name string, kind models.BoardKind) (*models.Board, error) {
	if err := bm.store.Load(); err != nil {
		return nil, fmt.Errorf("creating board: loading store: %w", err)
	}

	boardID, err := bm.store.GenerateBoardID()
	if err != nil {
		return nil, fmt.Errorf("creating board: generating id: %w", err)
	}
	rootID, err := bm.idGen.GenerateNodeID()
	if err != nil {
		return nil, fmt.Errorf("creating board: generating root id: %w", err)
	}

	now := time.Now().UTC()
	board := &models.Board{
		ID:   boardID,
		Name: name,
		Kind: kind,
		Root: &models.WhiteboardNode{
			ID:        rootID,
			Type:      models.NodeOrganisation,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Breadcrumbs: []string{rootID},
		Created:     now,
		Updated:     now,
	}

	if err := bm.store.PutBoard(board); err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}
	if err := bm.store.Save(); err != nil {
		return nil, fmt.Errorf("creating board: saving store: %w", err)
	}

	bm.logEvent("board.created", map[string]any{"board_id": boardID, "kind": string(kind), "name": name})
	return board, nil
}

// GetBoard returns a single board by id.
func (bm *boardManager) GetBoard(boardID string) (*models.Board, error) {
	if err := bm.store.Load(); err != nil {
		return nil, fmt.Errorf("getting board %s: loading store: %w", boardID, err)
	}
	board, err := bm.store.GetBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("getting board %s: %w", boardID, err)
	}
	return board, nil
}

// GetAllBoards returns summaries of every stored board.
func (bm *boardManager) GetAllBoards() ([]models.BoardSummary, error) {
	if err := bm.store.Load(); err != nil {
		return nil, fmt.Errorf("listing boards: loading store: %w", err)
	}
	boards, err := bm.store.GetAllBoards()
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	return boards, nil
}

// DeleteBoard removes a board and its file from the store.
func (bm *boardManager) DeleteBoard(boardID string) error {
	if err := bm.store.Load(); err != nil {
		return fmt.Errorf("deleting board %s: loading store: %w", boardID, err)
	}
	if err := bm.store.DeleteBoard(boardID); err != nil {
		return fmt.Errorf("deleting board %s: %w", boardID, err)
	}
	if err := bm.store.Save(); err != nil {
		return fmt.Errorf("deleting board %s: saving store: %w", boardID, err)
	}
	bm.logEvent("board.deleted", map[string]any{"board_id": boardID})
	return nil
}

// AddNode inserts a node. When the command carries no position, the node is
// placed on the grid relative to its parent. Returns the created node and
// whether the insert was applied.
func (bm *boardManager) AddNode(boardID string, cmd AddNodeCommand) (*models.WhiteboardNode, bool, error) {
	board, err := bm.GetBoard(boardID)
	if err != nil {
		return nil, false, fmt.Errorf("adding node: %w", err)
	}

	if cmd.ID == "" {
		id, err := bm.idGen.GenerateNodeID()
		if err != nil {
			return nil, false, fmt.Errorf("adding node: generating id: %w", err)
		}
		cmd.ID = id
	}
	if cmd.Position == nil {
		pos := DefaultChildPosition(FindNodeByID(board.Root, cmd.ParentID), bm.grid)
		cmd.Position = &pos
	}

	next := AddNodeToTree(board.Root, cmd, board.Kind)
	if next == board.Root {
		return nil, false, nil
	}

	if err := bm.persistTree(board, next); err != nil {
		return nil, false, fmt.Errorf("adding node: %w", err)
	}
	bm.logEvent("node.added", map[string]any{
		"board_id": boardID, "node_id": cmd.ID, "parent_id": cmd.ParentID, "type": string(cmd.Type),
	})
	return FindNodeByID(next, cmd.ID), true, nil
}

// UpdateNode applies a partial patch to a node's mutable fields.
func (bm *boardManager) UpdateNode(boardID string, cmd UpdateNodeCommand) (bool, error) {
	board, err := bm.GetBoard(boardID)
	if err != nil {
		return false, fmt.Errorf("updating node: %w", err)
	}

	next := UpdateNodeInTree(board.Root, cmd)
	if next == board.Root {
		return false, nil
	}

	if err := bm.persistTree(board, next); err != nil {
		return false, fmt.Errorf("updating node: %w", err)
	}
	bm.logEvent("node.updated", map[string]any{"board_id": boardID, "node_id": cmd.ID})
	return true, nil
}

// MoveNode reparents a subtree.
func (bm *boardManager) MoveNode(boardID, nodeID, newParentID string) (bool, error) {
	board, err := bm.GetBoard(boardID)
	if err != nil {
		return false, fmt.Errorf("moving node: %w", err)
	}

	next := ReparentNodeInTree(board.Root, nodeID, newParentID, board.Kind)
	if next == board.Root {
		return false, nil
	}

	if err := bm.persistTree(board, next); err != nil {
		return false, fmt.Errorf("moving node: %w", err)
	}
	bm.logEvent("node.moved", map[string]any{
		"board_id": boardID, "node_id": nodeID, "new_parent_id": newParentID,
	})
	return true, nil
}

// DeleteNode removes a node and its subtree. Deleting the root is refused
// by the engine and reported as not applied.
func (bm *boardManager) DeleteNode(boardID, nodeID string) (bool, error) {
	board, err := bm.GetBoard(boardID)
	if err != nil {
		return false, fmt.Errorf("deleting node: %w", err)
	}

	next := DeleteNodeFromTree(board.Root, nodeID)
	if next == board.Root {
		return false, nil
	}

	if err := bm.persistTree(board, next); err != nil {
		return false, fmt.Errorf("deleting node: %w", err)
	}
	bm.logEvent("node.deleted", map[string]any{"board_id": boardID, "node_id": nodeID})
	return true, nil
}

// SetPositions commits a batch of canvas drags as one tree transition.
func (bm *boardManager) SetPositions(boardID string, positions map[string]models.Position) (bool, error) {
	board, err := bm.GetBoard(boardID)
	if err != nil {
		return false, fmt.Errorf("setting positions: %w", err)
	}

	next := SetNodePositionsInTree(board.Root, positions)
	if next == board.Root {
		return false, nil
	}

	if err := bm.persistTree(board, next); err != nil {
		return false, fmt.Errorf("setting positions: %w", err)
	}
	bm.logEvent("nodes.repositioned", map[string]any{"board_id": boardID, "count": len(positions)})
	return true, nil
}

// Focus points the breadcrumb trail at the given node and returns the new
// trail. An unknown node id leaves the trail at the root.
func (bm *boardManager) Focus(boardID, nodeID string) ([]string, error) {
	board, err := bm.GetBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("focusing node: %w", err)
	}

	trail := PathToNode(board.Root, nodeID)
	if trail == nil {
		trail = []string{board.Root.ID}
	}
	board.Breadcrumbs = trail
	board.Updated = time.Now().UTC()

	if err := bm.store.PutBoard(board); err != nil {
		return nil, fmt.Errorf("focusing node: %w", err)
	}
	if err := bm.store.Save(); err != nil {
		return nil, fmt.Errorf("focusing node: saving store: %w", err)
	}
	return trail, nil
}

// ApplyDraft runs a proposed draft against the board tree and persists the
// result when at least one op applied.
func (bm *boardManager) ApplyDraft(boardID string, draft models.ProposedDraft) (*models.DraftReport, error) {
	board, err := bm.GetBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("applying draft: %w", err)
	}

	next, report := bm.applier.Apply(board.Root, board.Kind, draft)
	report.BoardID = boardID

	if next != board.Root {
		if err := bm.persistTree(board, next); err != nil {
			return nil, fmt.Errorf("applying draft: %w", err)
		}
	}
	bm.logEvent("draft.applied", map[string]any{
		"board_id": boardID, "applied": report.Applied, "rejected": report.Rejected,
	})
	return report, nil
}

// PreviewDraft runs a proposed draft against the board tree and reports the
// per-op outcomes without persisting anything.
func (bm *boardManager) PreviewDraft(boardID string, draft models.ProposedDraft) (*models.DraftReport, error) {
	board, err := bm.GetBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("previewing draft: %w", err)
	}

	_, report := bm.applier.Apply(board.Root, board.Kind, draft)
	report.BoardID = boardID
	return report, nil
}

// persistTree installs a new tree root on the board, repairs the breadcrumb
// trail against it, refreshes the board timestamp, and saves.
func (bm *boardManager) persistTree(board *models.Board, root *models.WhiteboardNode) error {
	board.Root = root
	board.Breadcrumbs = NormalizeBreadcrumbIDs(root, board.Breadcrumbs)
	board.Updated = time.Now().UTC()

	if err := bm.store.PutBoard(board); err != nil {
		return err
	}
	if err := bm.store.Save(); err != nil {
		return fmt.Errorf("saving store: %w", err)
	}
	return nil
}

func (bm *boardManager) logEvent(eventType string, data map[string]any) {
	if bm.events == nil {
		return
	}
	_ = bm.events.LogEvent(eventType, data)
}

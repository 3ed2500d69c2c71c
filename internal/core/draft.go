package core

import (
	"fmt"

	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

// DraftApplier translates a ProposedDraft into a sequence of engine calls
// against a single tree value. The engine never reports why a command was
// refused, so the applier detects application by comparing tree roots and
// re-derives a human-readable reason for rejected ops.
type DraftApplier interface {
	Apply(root *models.WhiteboardNode, kind models.BoardKind, draft models.ProposedDraft) (*models.WhiteboardNode, *models.DraftReport)
}

type draftApplier struct {
	idGen NodeIDGenerator
}

// NewDraftApplier creates a DraftApplier. idGen may be nil, in which case
// added nodes get engine-assigned ids.
func NewDraftApplier(idGen NodeIDGenerator) DraftApplier {
	return &draftApplier{idGen: idGen}
}

// Apply runs every op in order against the evolving tree. Rejected ops are
// recorded and skipped; they never abort the batch, so a draft with stale
// ids still applies everything that is structurally sound.
func (da *draftApplier) Apply(root *models.WhiteboardNode, kind models.BoardKind, draft models.ProposedDraft) (*models.WhiteboardNode, *models.DraftReport) {
	report := &models.DraftReport{BoardID: draft.BoardID}

	current := root
	for i, op := range draft.Ops {
		outcome := models.DraftOpOutcome{Index: i, Op: op.Op, NodeID: op.NodeID}
		next := current

		switch op.Op {
		case models.DraftOpAdd:
			cmd := AddNodeCommand{
				ParentID: op.ParentID,
				Type:     op.Type,
				ID:       op.NodeID,
				Meta:     op.Meta,
				Position: op.Position,
			}
			if op.Name != nil {
				cmd.Name = *op.Name
			}
			if op.Description != nil {
				cmd.Description = *op.Description
			}
			if op.DepartmentHead != nil {
				cmd.DepartmentHead = *op.DepartmentHead
			}
			if cmd.ID == "" && da.idGen != nil {
				if id, err := da.idGen.GenerateNodeID(); err == nil {
					cmd.ID = id
				}
			}
			next = AddNodeToTree(current, cmd, kind)
			outcome.NodeID = cmd.ID
			if next == current {
				outcome.Reason = da.addRejectReason(current, cmd, kind)
			}

		case models.DraftOpUpdate:
			next = UpdateNodeInTree(current, UpdateNodeCommand{
				ID:             op.NodeID,
				Name:           op.Name,
				Description:    op.Description,
				DepartmentHead: op.DepartmentHead,
				Meta:           op.Meta,
				Position:       op.Position,
			})
			if next == current {
				outcome.Reason = fmt.Sprintf("node %s not found", op.NodeID)
			}

		case models.DraftOpMove:
			next = ReparentNodeInTree(current, op.NodeID, op.NewParentID, kind)
			if next == current {
				outcome.Reason = da.moveRejectReason(current, op.NodeID, op.NewParentID, kind)
			}

		case models.DraftOpDelete:
			next = DeleteNodeFromTree(current, op.NodeID)
			if next == current {
				if current != nil && current.ID == op.NodeID {
					outcome.Reason = "cannot delete the root node"
				} else {
					outcome.Reason = fmt.Sprintf("node %s not found", op.NodeID)
				}
			}

		case models.DraftOpPositions:
			next = SetNodePositionsInTree(current, op.Positions)
			if next == current {
				outcome.Reason = "no listed id is present in the tree"
			}

		default:
			outcome.Reason = fmt.Sprintf("unknown op %q", op.Op)
		}

		outcome.Applied = next != current
		if outcome.Applied {
			report.Applied++
		} else {
			report.Rejected++
		}
		report.Outcomes = append(report.Outcomes, outcome)
		current = next
	}

	return current, report
}

// addRejectReason re-runs the insert preconditions to explain a refusal.
func (da *draftApplier) addRejectReason(root *models.WhiteboardNode, cmd AddNodeCommand, kind models.BoardKind) string {
	parent := FindNodeByID(root, cmd.ParentID)
	if parent == nil {
		return fmt.Sprintf("parent %s not found", cmd.ParentID)
	}
	if !IsChildAllowed(parent.Type, cmd.Type, kind) {
		return fmt.Sprintf("type %s is not allowed under %s on a %s board", cmd.Type, parent.Type, kind)
	}
	if cmd.ID != "" && FindNodeByID(root, cmd.ID) != nil {
		return fmt.Sprintf("id %s already exists", cmd.ID)
	}
	return "structural rejection"
}

// moveRejectReason re-runs the reparent preconditions to explain a refusal.
func (da *draftApplier) moveRejectReason(root *models.WhiteboardNode, nodeID, newParentID string, kind models.BoardKind) string {
	moved := FindNodeByID(root, nodeID)
	if moved == nil {
		return fmt.Sprintf("node %s not found", nodeID)
	}
	newParent := FindNodeByID(root, newParentID)
	if newParent == nil {
		return fmt.Sprintf("new parent %s not found", newParentID)
	}
	if FindNodeByID(moved, newParentID) != nil {
		return fmt.Sprintf("%s is inside the subtree of %s; the move would form a cycle", newParentID, nodeID)
	}
	if !IsChildAllowed(newParent.Type, moved.Type, kind) {
		return fmt.Sprintf("type %s is not allowed under %s on a %s board", moved.Type, newParent.Type, kind)
	}
	return "structural rejection"
}

package core

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

// The tree engine is pure and value-semantic: every operation takes a root,
// returns a new root on success, and returns the input root unchanged when
// the command cannot be applied. There are no errors and no partial writes;
// callers detect application by comparing the returned root against the
// input. Untouched subtrees are shared between the old and new tree, so a
// caller keeping prior roots gets undo history for free.

// AddNodeCommand describes a node insert. ID is optional; when empty the
// engine assigns one. Position is optional and defaults to the origin.
type AddNodeCommand struct {
	ParentID       string
	Type           models.NodeType
	Name           string
	ID             string
	Description    string
	DepartmentHead string
	Meta           map[string]string
	Position       *models.Position
}

// UpdateNodeCommand is a partial patch for a node's mutable fields. Nil
// pointer fields are left untouched; Meta entries are merged key-wise.
// Type and ID are immutable and have no command field.
type UpdateNodeCommand struct {
	ID             string
	Name           *string
	Description    *string
	DepartmentHead *string
	Meta           map[string]string
	Position       *models.Position
}

// FindNodeByID returns the first node with the given id in depth-first
// children order, or nil.
func FindNodeByID(root *models.WhiteboardNode, id string) *models.WhiteboardNode {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if found := FindNodeByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

// AddNodeToTree inserts a new node under cmd.ParentID. The insert is
// silently rejected when the parent does not exist, the child type is not
// permitted under the parent for this board kind, or an explicit ID is
// already taken. Only the new node's timestamps are set; the parent is
// structurally but not semantically modified, so its UpdatedAt stays put.
func AddNodeToTree(root *models.WhiteboardNode, cmd AddNodeCommand, kind models.BoardKind) *models.WhiteboardNode {
	if root == nil {
		return root
	}
	parent := FindNodeByID(root, cmd.ParentID)
	if parent == nil {
		return root
	}
	if !IsChildAllowed(parent.Type, cmd.Type, kind) {
		return root
	}
	if cmd.ID != "" && FindNodeByID(root, cmd.ID) != nil {
		return root
	}

	now := time.Now().UTC()
	node := &models.WhiteboardNode{
		ID:             cmd.ID,
		Type:           cmd.Type,
		Name:           cmd.Name,
		Description:    cmd.Description,
		DepartmentHead: cmd.DepartmentHead,
		Meta:           cmd.Meta,
		ParentID:       cmd.ParentID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if node.ID == "" {
		node.ID = randomNodeID()
	}
	if cmd.Position != nil {
		node.Position = *cmd.Position
	}

	next, _ := rebuildTree(root, appendChildTransform(cmd.ParentID, node))
	return next
}

// UpdateNodeInTree merges the command's fields into the identified node and
// refreshes its UpdatedAt. Unknown ids are a no-op.
func UpdateNodeInTree(root *models.WhiteboardNode, cmd UpdateNodeCommand) *models.WhiteboardNode {
	if root == nil {
		return root
	}
	now := time.Now().UTC()
	next, _ := rebuildTree(root, func(n *models.WhiteboardNode) *models.WhiteboardNode {
		if n.ID != cmd.ID {
			return n
		}
		cp := *n
		if cmd.Name != nil {
			cp.Name = *cmd.Name
		}
		if cmd.Description != nil {
			cp.Description = *cmd.Description
		}
		if cmd.DepartmentHead != nil {
			cp.DepartmentHead = *cmd.DepartmentHead
		}
		if len(cmd.Meta) > 0 {
			merged := make(map[string]string, len(n.Meta)+len(cmd.Meta))
			for k, v := range n.Meta {
				merged[k] = v
			}
			for k, v := range cmd.Meta {
				merged[k] = v
			}
			cp.Meta = merged
		}
		if cmd.Position != nil {
			cp.Position = *cmd.Position
		}
		cp.UpdatedAt = now
		return &cp
	})
	return next
}

// DeleteNodeFromTree removes the identified node and its entire subtree.
// Deleting the root or an unknown id is a no-op: a tree without a root is
// not representable.
func DeleteNodeFromTree(root *models.WhiteboardNode, id string) *models.WhiteboardNode {
	if root == nil || root.ID == id {
		return root
	}
	next, _ := rebuildTree(root, removeChildTransform(id))
	return next
}

// ReparentNodeInTree detaches the subtree rooted at nodeID and appends it to
// newParentID's children. The move is silently rejected when either node is
// missing, when it would form a cycle (newParentID equals nodeID or lies
// inside nodeID's subtree), or when the moved node's type is not permitted
// under the new parent for this board kind.
func ReparentNodeInTree(root *models.WhiteboardNode, nodeID, newParentID string, kind models.BoardKind) *models.WhiteboardNode {
	if root == nil {
		return root
	}
	moved := FindNodeByID(root, nodeID)
	if moved == nil {
		return root
	}
	newParent := FindNodeByID(root, newParentID)
	if newParent == nil {
		return root
	}
	// Covers newParentID == nodeID as well: a node is in its own subtree.
	if FindNodeByID(moved, newParentID) != nil {
		return root
	}
	if !IsChildAllowed(newParent.Type, moved.Type, kind) {
		return root
	}

	cp := *moved
	cp.ParentID = newParentID
	cp.UpdatedAt = time.Now().UTC()

	detached, _ := rebuildTree(root, removeChildTransform(nodeID))
	next, _ := rebuildTree(detached, appendChildTransform(newParentID, &cp))
	return next
}

// SetNodePositionsInTree applies a batch of position updates in a single
// traversal. Ids absent from the tree are ignored; each matched node gets
// the new position and a fresh UpdatedAt.
func SetNodePositionsInTree(root *models.WhiteboardNode, positions map[string]models.Position) *models.WhiteboardNode {
	if root == nil || len(positions) == 0 {
		return root
	}
	now := time.Now().UTC()
	next, _ := rebuildTree(root, func(n *models.WhiteboardNode) *models.WhiteboardNode {
		pos, ok := positions[n.ID]
		if !ok {
			return n
		}
		cp := *n
		cp.Position = pos
		cp.UpdatedAt = now
		return &cp
	})
	return next
}

// rebuildTree is the shared traversal primitive: a depth-first walk that
// applies transform to every node and rebuilds the ancestor path of every
// replacement. Transforms must never mutate the node they receive; they
// return either the same pointer (no change) or a fresh copy. When nothing
// changes the original root pointer is returned, which is what makes
// rejected commands detectable by comparison.
func rebuildTree(node *models.WhiteboardNode, transform func(*models.WhiteboardNode) *models.WhiteboardNode) (*models.WhiteboardNode, bool) {
	changed := false
	children := node.Children
	for i, child := range node.Children {
		next, childChanged := rebuildTree(child, transform)
		if !childChanged {
			continue
		}
		if !changed {
			children = make([]*models.WhiteboardNode, len(node.Children))
			copy(children, node.Children)
			changed = true
		}
		children[i] = next
	}

	current := node
	if changed {
		cp := *node
		cp.Children = children
		current = &cp
	}
	if replaced := transform(current); replaced != current {
		return replaced, true
	}
	return current, changed
}

// appendChildTransform appends child to the node with the given id.
func appendChildTransform(parentID string, child *models.WhiteboardNode) func(*models.WhiteboardNode) *models.WhiteboardNode {
	return func(n *models.WhiteboardNode) *models.WhiteboardNode {
		if n.ID != parentID {
			return n
		}
		cp := *n
		cp.Children = make([]*models.WhiteboardNode, len(n.Children), len(n.Children)+1)
		copy(cp.Children, n.Children)
		cp.Children = append(cp.Children, child)
		return &cp
	}
}

// removeChildTransform removes the child with the given id from its parent,
// preserving the order of the remaining children.
func removeChildTransform(childID string) func(*models.WhiteboardNode) *models.WhiteboardNode {
	return func(n *models.WhiteboardNode) *models.WhiteboardNode {
		idx := -1
		for i, child := range n.Children {
			if child.ID == childID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return n
		}
		cp := *n
		cp.Children = make([]*models.WhiteboardNode, 0, len(n.Children)-1)
		cp.Children = append(cp.Children, n.Children[:idx]...)
		cp.Children = append(cp.Children, n.Children[idx+1:]...)
		return &cp
	}
}

// randomNodeID is the engine-internal fallback for inserts that carry no
// pre-assigned ID (callers that want sequential ids pass one from a
// NodeIDGenerator).
func randomNodeID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// timestamp so an insert still succeeds.
		return "node-" + time.Now().UTC().Format("20060102150405.000000000")
	}
	return "node-" + hex.EncodeToString(buf)
}

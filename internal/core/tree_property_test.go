package core

import (
	"fmt"
	"testing"

	"github.com/valter-silva-au/orgcanvas/pkg/models"
	"pgregory.net/rapid"
)

// insertableTypes are the types a generated op may try to insert. Legacy
// workflow/process types are excluded; they are never insert targets.
var insertableTypes = []models.NodeType{
	models.NodeOrganisation, models.NodeDepartment, models.NodeTeam,
	models.NodeAgentSwarm, models.NodeTeamLead, models.NodeTeamMember,
	models.NodeAgentLead, models.NodeAgentMember, models.NodeRole,
	models.NodeSubRole, models.NodeTool, models.NodeAgent, models.NodeAutomation,
}

// collectIDs walks the tree and returns every node id in depth-first order,
// failing the test on a duplicate.
func collectIDs(t *rapid.T, root *models.WhiteboardNode) []string {
	seen := make(map[string]bool)
	var ids []string
	var walk func(n *models.WhiteboardNode)
	walk = func(n *models.WhiteboardNode) {
		if seen[n.ID] {
			t.Fatalf("duplicate id %q in tree", n.ID)
		}
		seen[n.ID] = true
		ids = append(ids, n.ID)
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return ids
}

// checkTreeInvariants verifies the structural invariants that must hold
// after any sequence of engine operations on an engine-built tree.
func checkTreeInvariants(t *rapid.T, root *models.WhiteboardNode, kind models.BoardKind) {
	collectIDs(t, root)

	var walk func(n *models.WhiteboardNode)
	walk = func(n *models.WhiteboardNode) {
		for _, child := range n.Children {
			if child.ParentID != n.ID {
				t.Fatalf("node %s has ParentID %q under parent %s", child.ID, child.ParentID, n.ID)
			}
			if !IsChildAllowed(n.Type, child.Type, kind) {
				t.Fatalf("node %s (%s) is not allowed under %s (%s)", child.ID, child.Type, n.ID, n.Type)
			}
			walk(child)
		}
	}
	walk(root)
}

// Property: no sequence of engine operations can produce duplicate ids,
// inconsistent parent links, or a parent/child pair the hierarchy rules
// forbid. Rejected operations always return the input root pointer.
func TestProperty_EngineOpsPreserveInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kind := models.BoardOrganisation
		if rapid.Bool().Draw(rt, "automationBoard") {
			kind = models.BoardAutomation
		}

		root := &models.WhiteboardNode{ID: "root", Type: models.NodeOrganisation, Name: "root"}
		nextID := 0

		numOps := rapid.IntRange(1, 60).Draw(rt, "numOps")
		for i := 0; i < numOps; i++ {
			ids := collectIDs(rt, root)
			pick := func(label string) string {
				return rapid.SampledFrom(ids).Draw(rt, label)
			}

			before := root
			switch rapid.IntRange(0, 4).Draw(rt, fmt.Sprintf("op%d", i)) {
			case 0:
				nextID++
				typ := rapid.SampledFrom(insertableTypes).Draw(rt, "addType")
				root = AddNodeToTree(root, AddNodeCommand{
					ParentID: pick("addParent"),
					Type:     typ,
					Name:     fmt.Sprintf("node %d", nextID),
					ID:       fmt.Sprintf("n%d", nextID),
				}, kind)
			case 1:
				name := fmt.Sprintf("renamed %d", i)
				root = UpdateNodeInTree(root, UpdateNodeCommand{ID: pick("updateID"), Name: &name})
			case 2:
				root = ReparentNodeInTree(root, pick("moveID"), pick("moveTarget"), kind)
			case 3:
				root = DeleteNodeFromTree(root, pick("deleteID"))
			case 4:
				root = SetNodePositionsInTree(root, map[string]models.Position{
					pick("posID"): {
						X: float64(rapid.IntRange(-1000, 1000).Draw(rt, "posX")),
						Y: float64(rapid.IntRange(-1000, 1000).Draw(rt, "posY")),
					},
				})
			}

			if root == nil {
				rt.Fatal("engine returned a nil root")
			}
			if root.ID != before.ID {
				rt.Fatal("the root node must never be replaced by another node")
			}
			checkTreeInvariants(rt, root, kind)
		}
	})
}

// Property: the engine never mutates the tree it was given. After any
// applied operation the original root still satisfies every invariant and
// keeps its node count.
func TestProperty_EngineIsValueSemantic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		root := &models.WhiteboardNode{ID: "root", Type: models.NodeOrganisation, Name: "root"}
		root = AddNodeToTree(root, AddNodeCommand{ParentID: "root", Type: models.NodeDepartment, ID: "d1"}, models.BoardOrganisation)
		root = AddNodeToTree(root, AddNodeCommand{ParentID: "d1", Type: models.NodeTeam, ID: "t1"}, models.BoardOrganisation)
		root = AddNodeToTree(root, AddNodeCommand{ParentID: "t1", Type: models.NodeTeamMember, ID: "m1"}, models.BoardOrganisation)

		beforeCount := countTreeNodes(root)
		beforeIDs := make(map[string]bool)
		for _, id := range []string{"root", "d1", "t1", "m1"} {
			beforeIDs[id] = true
		}

		n := rapid.IntRange(1, 20).Draw(rt, "n")
		for i := 0; i < n; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, fmt.Sprintf("op%d", i)) {
			case 0:
				AddNodeToTree(root, AddNodeCommand{ParentID: "t1", Type: models.NodeTool, ID: fmt.Sprintf("x%d", i)}, models.BoardOrganisation)
			case 1:
				DeleteNodeFromTree(root, "t1")
			case 2:
				ReparentNodeInTree(root, "m1", "root", models.BoardOrganisation)
			}

			if countTreeNodes(root) != beforeCount {
				rt.Fatalf("operation mutated the input tree: node count %d != %d", countTreeNodes(root), beforeCount)
			}
			for id := range beforeIDs {
				if FindNodeByID(root, id) == nil {
					rt.Fatalf("operation removed %s from the input tree", id)
				}
			}
		}
	})
}

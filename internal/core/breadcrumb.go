package core

import "github.com/valter-silva-au/orgcanvas/pkg/models"

// NormalizeBreadcrumbIDs validates a candidate root-to-node path against the
// current tree and returns its longest valid prefix. The walk starts at the
// root: the first candidate must be the root's id, and each subsequent
// candidate must be a direct child of the previously validated node. Any
// mismatch truncates the trail there, so navigation never shows ids of
// deleted or moved nodes. An empty or invalid candidate collapses to the
// root-only path.
func NormalizeBreadcrumbIDs(root *models.WhiteboardNode, breadcrumbIDs []string) []string {
	if root == nil {
		return nil
	}
	path := []string{root.ID}
	if len(breadcrumbIDs) == 0 || breadcrumbIDs[0] != root.ID {
		return path
	}

	current := root
	for _, id := range breadcrumbIDs[1:] {
		next := directChild(current, id)
		if next == nil {
			break
		}
		path = append(path, id)
		current = next
	}
	return path
}

// PathToNode returns the root-to-node id sequence for the given node, or nil
// when the id is not in the tree. Used to rebuild the breadcrumb trail when
// focus changes.
func PathToNode(root *models.WhiteboardNode, id string) []string {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return []string{root.ID}
	}
	for _, child := range root.Children {
		if sub := PathToNode(child, id); sub != nil {
			return append([]string{root.ID}, sub...)
		}
	}
	return nil
}

func directChild(node *models.WhiteboardNode, id string) *models.WhiteboardNode {
	for _, child := range node.Children {
		if child.ID == id {
			return child
		}
	}
	return nil
}

package core

import "github.com/valter-silva-au/orgcanvas/pkg/models"

// GridLayout holds the canvas offsets used for default child placement.
type GridLayout struct {
	X float64
	Y float64
}

// DefaultGridLayout matches the spacing the canvas uses for freshly
// inserted nodes.
func DefaultGridLayout() GridLayout {
	return GridLayout{X: 240, Y: 160}
}

// DefaultChildPosition places a new child one row below its parent, shifted
// right by the number of existing children so siblings fan out instead of
// stacking. Positions are cosmetic; structural validity never depends on them.
func DefaultChildPosition(parent *models.WhiteboardNode, grid GridLayout) models.Position {
	if parent == nil {
		return models.Position{}
	}
	return models.Position{
		X: parent.Position.X + float64(len(parent.Children))*grid.X,
		Y: parent.Position.Y + grid.Y,
	}
}

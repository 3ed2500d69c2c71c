package models

// DraftOpKind names one structural edit in a proposed draft.
type DraftOpKind string

const (
	DraftOpAdd       DraftOpKind = "add"
	DraftOpUpdate    DraftOpKind = "update"
	DraftOpMove      DraftOpKind = "move"
	DraftOpDelete    DraftOpKind = "delete"
	DraftOpPositions DraftOpKind = "positions"
)

// DraftOp is one edit proposed by the org-builder agent. Fields are
// interpreted per Op; unused fields are ignored.
type DraftOp struct {
	Op             DraftOpKind         `json:"op" yaml:"op"`
	NodeID         string              `json:"nodeId,omitempty" yaml:"node_id,omitempty"`
	ParentID       string              `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	NewParentID    string              `json:"newParentId,omitempty" yaml:"new_parent_id,omitempty"`
	Type           NodeType            `json:"type,omitempty" yaml:"type,omitempty"`
	Name           *string             `json:"name,omitempty" yaml:"name,omitempty"`
	Description    *string             `json:"description,omitempty" yaml:"description,omitempty"`
	DepartmentHead *string             `json:"departmentHead,omitempty" yaml:"department_head,omitempty"`
	Meta           map[string]string   `json:"meta,omitempty" yaml:"meta,omitempty"`
	Position       *Position           `json:"position,omitempty" yaml:"position,omitempty"`
	Positions      map[string]Position `json:"positions,omitempty" yaml:"positions,omitempty"`
}

// ProposedDraft is the wire format in which the org-builder agent proposes a
// batch of structural edits to a board.
type ProposedDraft struct {
	BoardID string    `json:"boardId,omitempty" yaml:"board_id,omitempty"`
	Ops     []DraftOp `json:"ops" yaml:"ops"`
}

// DraftOpOutcome records whether a single draft op was applied. A rejected
// op leaves the tree unchanged; Reason is a best-effort explanation derived
// by the applier, since the engine itself reports nothing.
type DraftOpOutcome struct {
	Index   int         `json:"index" yaml:"index"`
	Op      DraftOpKind `json:"op" yaml:"op"`
	Applied bool        `json:"applied" yaml:"applied"`
	NodeID  string      `json:"nodeId,omitempty" yaml:"node_id,omitempty"`
	Reason  string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// DraftReport summarizes the application of a ProposedDraft.
type DraftReport struct {
	BoardID  string           `json:"boardId" yaml:"board_id"`
	Applied  int              `json:"applied" yaml:"applied"`
	Rejected int              `json:"rejected" yaml:"rejected"`
	Outcomes []DraftOpOutcome `json:"outcomes" yaml:"outcomes"`
}

package models

import "time"

// NodeType classifies an entity on the whiteboard (department, team, agent, ...).
type NodeType string

const (
	NodeOrganisation NodeType = "organisation"
	NodeDepartment   NodeType = "department"
	NodeTeam         NodeType = "team"
	NodeAgentSwarm   NodeType = "agentSwarm"
	NodeTeamLead     NodeType = "teamLead"
	NodeTeamMember   NodeType = "teamMember"
	NodeAgentLead    NodeType = "agentLead"
	NodeAgentMember  NodeType = "agentMember"
	NodeRole         NodeType = "role"
	NodeSubRole      NodeType = "subRole"
	NodeTool         NodeType = "tool"
	NodeAgent        NodeType = "agent"
	NodeAutomation   NodeType = "automation"

	// Legacy variants kept so previously persisted boards still load.
	// They are never offered as insert targets.
	NodeWorkflow NodeType = "workflow"
	NodeProcess  NodeType = "process"
)

// AllNodeTypes lists every known node type, legacy variants included.
var AllNodeTypes = []NodeType{
	NodeOrganisation, NodeDepartment, NodeTeam, NodeAgentSwarm,
	NodeTeamLead, NodeTeamMember, NodeAgentLead, NodeAgentMember,
	NodeRole, NodeSubRole, NodeTool, NodeAgent, NodeAutomation,
	NodeWorkflow, NodeProcess,
}

// BoardKind selects which hierarchy rule set governs a board.
type BoardKind string

const (
	BoardOrganisation BoardKind = "organisation"
	BoardAutomation   BoardKind = "automation"
)

// Position is a 2D canvas coordinate. It affects placement only, never
// structural validity.
type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// WhiteboardNode is one entity in the board tree. Children is the owning
// structural relation; ParentID is a derived back-reference that every
// mutation keeps consistent with it.
type WhiteboardNode struct {
	ID             string            `yaml:"id" json:"id"`
	Type           NodeType          `yaml:"type" json:"type"`
	Name           string            `yaml:"name" json:"name"`
	Description    string            `yaml:"description,omitempty" json:"description,omitempty"`
	DepartmentHead string            `yaml:"department_head,omitempty" json:"departmentHead,omitempty"`
	Meta           map[string]string `yaml:"meta,omitempty" json:"meta,omitempty"`
	Position       Position          `yaml:"position" json:"position"`
	ParentID       string            `yaml:"parent_id,omitempty" json:"parentId,omitempty"`
	Children       []*WhiteboardNode `yaml:"children,omitempty" json:"children,omitempty"`
	CreatedAt      time.Time         `yaml:"created_at" json:"createdAt"`
	UpdatedAt      time.Time         `yaml:"updated_at" json:"updatedAt"`
}

package core

import "github.com/valter-silva-au/orgcanvas/pkg/models"

// defaultChildren maps every node type to the child types it accepts on an
// organisation board. Every known type has an entry; an empty entry is a
// leaf. The legacy workflow/process types load from old boards but are not
// insert targets, so they appear in no allowed set.
var defaultChildren = map[models.NodeType][]models.NodeType{
	models.NodeOrganisation: {models.NodeDepartment, models.NodeTeam, models.NodeRole, models.NodeAgent},
	models.NodeDepartment:   {models.NodeTeam, models.NodeRole, models.NodeAgent},
	models.NodeTeam:         {models.NodeTeamLead, models.NodeTeamMember, models.NodeAgentSwarm, models.NodeRole},
	models.NodeAgentSwarm:   {models.NodeAgentLead, models.NodeAgentMember},
	models.NodeTeamLead:     {models.NodeTool},
	models.NodeTeamMember:   {models.NodeTool},
	models.NodeAgentLead:    {models.NodeAgentMember, models.NodeTool},
	models.NodeAgentMember:  {models.NodeTool},
	models.NodeRole:         {models.NodeSubRole, models.NodeTool},
	models.NodeSubRole:      {models.NodeTool},
	models.NodeAgent:        {models.NodeTool},
	models.NodeTool:         {},
	models.NodeAutomation:   {},
	models.NodeWorkflow:     {},
	models.NodeProcess:      {},
}

// automationChildren overrides defaultChildren on automation boards. Parent
// types without an override fall back to the default rule. Automation nodes
// only chain here; on organisation boards they stay terminal.
var automationChildren = map[models.NodeType][]models.NodeType{
	models.NodeOrganisation: {models.NodeDepartment, models.NodeTeam, models.NodeAgent, models.NodeAutomation},
	models.NodeTeam:         {models.NodeTeamLead, models.NodeTeamMember, models.NodeAgentSwarm, models.NodeAutomation},
	models.NodeAgent:        {models.NodeTool, models.NodeAutomation},
	models.NodeAutomation:   {models.NodeAutomation, models.NodeAgent, models.NodeTool},
}

// AllowedChildren returns the child types the given parent type accepts
// under the given board kind. Unknown parent types are leaves. The returned
// slice is a copy and safe to modify.
func AllowedChildren(parent models.NodeType, kind models.BoardKind) []models.NodeType {
	rules := defaultChildren[parent]
	if kind == models.BoardAutomation {
		if override, ok := automationChildren[parent]; ok {
			rules = override
		}
	}
	out := make([]models.NodeType, len(rules))
	copy(out, rules)
	return out
}

// IsChildAllowed reports whether child may nest directly under parent on a
// board of the given kind.
func IsChildAllowed(parent, child models.NodeType, kind models.BoardKind) bool {
	for _, t := range AllowedChildren(parent, kind) {
		if t == child {
			return true
		}
	}
	return false
}

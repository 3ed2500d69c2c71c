package core

import (
	"testing"

	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

func TestIsChildAllowed_OrganisationBoard(t *testing.T) {
	tests := []struct {
		parent models.NodeType
		child  models.NodeType
		want   bool
	}{
		{models.NodeOrganisation, models.NodeDepartment, true},
		{models.NodeOrganisation, models.NodeTeam, true},
		{models.NodeOrganisation, models.NodeRole, true},
		{models.NodeOrganisation, models.NodeAgent, true},
		{models.NodeOrganisation, models.NodeTool, false},
		{models.NodeOrganisation, models.NodeAutomation, false},
		{models.NodeDepartment, models.NodeTeam, true},
		{models.NodeDepartment, models.NodeDepartment, false},
		{models.NodeTeam, models.NodeTeamLead, true},
		{models.NodeTeam, models.NodeTeamMember, true},
		{models.NodeTeam, models.NodeAgentSwarm, true},
		{models.NodeTeam, models.NodeRole, true},
		{models.NodeTeam, models.NodeOrganisation, false},
		{models.NodeAgentSwarm, models.NodeAgentLead, true},
		{models.NodeAgentSwarm, models.NodeAgentMember, true},
		{models.NodeAgentSwarm, models.NodeTool, false},
		{models.NodeAgentLead, models.NodeAgentMember, true},
		{models.NodeAgentLead, models.NodeTool, true},
		{models.NodeTeamLead, models.NodeTool, true},
		{models.NodeTeamMember, models.NodeTool, true},
		{models.NodeAgentMember, models.NodeTool, true},
		{models.NodeRole, models.NodeSubRole, true},
		{models.NodeRole, models.NodeTool, true},
		{models.NodeSubRole, models.NodeTool, true},
		{models.NodeSubRole, models.NodeSubRole, false},
		{models.NodeAgent, models.NodeTool, true},
		{models.NodeAgent, models.NodeAutomation, false},
		{models.NodeTool, models.NodeTool, false},
		{models.NodeAutomation, models.NodeAutomation, false},
		{models.NodeWorkflow, models.NodeTool, false},
		{models.NodeProcess, models.NodeTool, false},
	}
	for _, tt := range tests {
		got := IsChildAllowed(tt.parent, tt.child, models.BoardOrganisation)
		if got != tt.want {
			t.Errorf("IsChildAllowed(%s, %s, organisation) = %v, want %v", tt.parent, tt.child, got, tt.want)
		}
	}
}

func TestIsChildAllowed_AutomationBoard(t *testing.T) {
	tests := []struct {
		parent models.NodeType
		child  models.NodeType
		want   bool
	}{
		// Overridden parents.
		{models.NodeOrganisation, models.NodeAutomation, true},
		{models.NodeOrganisation, models.NodeRole, false},
		{models.NodeTeam, models.NodeAutomation, true},
		{models.NodeTeam, models.NodeRole, false},
		{models.NodeAgent, models.NodeAutomation, true},
		{models.NodeAutomation, models.NodeAutomation, true},
		{models.NodeAutomation, models.NodeAgent, true},
		{models.NodeAutomation, models.NodeTool, true},
		{models.NodeAutomation, models.NodeTeam, false},
		// Parents without an override keep the default rule.
		{models.NodeDepartment, models.NodeTeam, true},
		{models.NodeRole, models.NodeSubRole, true},
		{models.NodeTeamLead, models.NodeTool, true},
		{models.NodeTool, models.NodeTool, false},
	}
	for _, tt := range tests {
		got := IsChildAllowed(tt.parent, tt.child, models.BoardAutomation)
		if got != tt.want {
			t.Errorf("IsChildAllowed(%s, %s, automation) = %v, want %v", tt.parent, tt.child, got, tt.want)
		}
	}
}

func TestAllowedChildren_UnknownTypeIsLeaf(t *testing.T) {
	if got := AllowedChildren(models.NodeType("mystery"), models.BoardOrganisation); len(got) != 0 {
		t.Errorf("unknown parent type should accept nothing, got %v", got)
	}
}

func TestAllowedChildren_ReturnsCopy(t *testing.T) {
	first := AllowedChildren(models.NodeTeam, models.BoardOrganisation)
	first[0] = models.NodeTool

	second := AllowedChildren(models.NodeTeam, models.BoardOrganisation)
	if second[0] == models.NodeTool {
		t.Error("mutating the returned slice must not affect the rule table")
	}
}

func TestAllowedChildren_EveryTypeHasARule(t *testing.T) {
	for _, typ := range models.AllNodeTypes {
		// Calling for every known type must be well-defined on both kinds.
		_ = AllowedChildren(typ, models.BoardOrganisation)
		_ = AllowedChildren(typ, models.BoardAutomation)
		if _, ok := defaultChildren[typ]; !ok {
			t.Errorf("type %s has no entry in the default rule table", typ)
		}
	}
}

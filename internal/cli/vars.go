package cli

import (
	"github.com/valter-silva-au/orgcanvas/internal/core"
	"github.com/valter-silva-au/orgcanvas/internal/observability"
	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BoardMgr    core.BoardManager
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator

	// BasePath is the resolved orgcanvas home directory.
	BasePath string

	// DefaultKind is the board kind used when "board create" gets no --kind.
	DefaultKind models.BoardKind
)

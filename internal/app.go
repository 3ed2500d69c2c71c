// Package internal provides the App struct that wires all components of
// orgcanvas together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/orgcanvas/internal/cli"
	"github.com/valter-silva-au/orgcanvas/internal/core"
	"github.com/valter-silva-au/orgcanvas/internal/observability"
	"github.com/valter-silva-au/orgcanvas/internal/storage"
)

// App holds all service dependencies for orgcanvas.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	BoardStore storage.BoardStoreManager

	// Core services
	BoardMgr core.BoardManager
	IDGen    core.NodeIDGenerator
	Applier  core.DraftApplier

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components of orgcanvas. basePath is the
// root directory where all data is stored (typically the directory
// containing .orgcanvasconfig).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	globalCfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, err
	}

	// --- Storage layer ---
	app.BoardStore = storage.NewBoardStoreManager(basePath, globalCfg.BoardIDPrefix)

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".ocv_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if log can't be created.
		app.EventLog = nil
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Core services ---
	app.IDGen = core.NewNodeIDGenerator(basePath, globalCfg.NodeIDPrefix, globalCfg.NodeIDPadWidth)
	app.Applier = core.NewDraftApplier(app.IDGen)

	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}
	grid := core.GridLayout{X: globalCfg.GridX, Y: globalCfg.GridY}
	if grid.X <= 0 || grid.Y <= 0 {
		grid = core.DefaultGridLayout()
	}
	app.BoardMgr = core.NewBoardManager(app.BoardStore, app.IDGen, app.Applier, evtAdapter, grid)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.BoardMgr = app.BoardMgr
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc
	cli.DefaultKind = globalCfg.DefaultKind

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for the orgcanvas data directory.
// It checks the OCV_HOME env var, then walks up from the current directory
// looking for a .orgcanvasconfig file, falling back to the cwd.
func ResolveBasePath() string {
	if home := os.Getenv("OCV_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".orgcanvasconfig")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}

package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	BoardsCreated     int            `json:"boards_created"`
	BoardsDeleted     int            `json:"boards_deleted"`
	NodesAdded        int            `json:"nodes_added"`
	NodesUpdated      int            `json:"nodes_updated"`
	NodesMoved        int            `json:"nodes_moved"`
	NodesDeleted      int            `json:"nodes_deleted"`
	NodesByType       map[string]int `json:"nodes_by_type"`
	RepositionBatches int            `json:"reposition_batches"`
	DraftOpsApplied   int            `json:"draft_ops_applied"`
	DraftOpsRejected  int            `json:"draft_ops_rejected"`
	EventCount        int            `json:"event_count"`
	OldestEvent       *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent       *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		NodesByType: make(map[string]int),
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "board.created":
			m.BoardsCreated++
		case "board.deleted":
			m.BoardsDeleted++
		case "node.added":
			m.NodesAdded++
			if nodeType, ok := event.Data["type"].(string); ok {
				m.NodesByType[nodeType]++
			}
		case "node.updated":
			m.NodesUpdated++
		case "node.moved":
			m.NodesMoved++
		case "node.deleted":
			m.NodesDeleted++
		case "nodes.repositioned":
			m.RepositionBatches++
		case "draft.applied":
			m.DraftOpsApplied += intFromData(event.Data, "applied")
			m.DraftOpsRejected += intFromData(event.Data, "rejected")
		}
	}

	return m, nil
}

// intFromData reads a numeric field from event data, tolerating the float64
// shape JSON decoding produces.
func intFromData(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

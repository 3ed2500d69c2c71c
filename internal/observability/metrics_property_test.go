package observability

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Aggregated counters must agree with the raw event stream for any random
// mix of event types.
func TestProperty_MetricsMatchEventStream(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		logPath := filepath.Join(t.TempDir(), "events.jsonl")
		el, err := NewJSONLEventLog(logPath)
		if err != nil {
			t.Fatalf("creating event log: %v", err)
		}
		defer el.Close()

		numEvents := rapid.IntRange(1, 30).Draw(rt, "numEvents")
		baseTime := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		eventTypes := []string{
			"board.created",
			"board.deleted",
			"node.added",
			"node.updated",
			"node.moved",
			"node.deleted",
			"nodes.repositioned",
		}
		nodeTypes := []string{"department", "team", "agent", "role"}

		counts := make(map[string]int)
		addedByType := make(map[string]int)

		for i := 0; i < numEvents; i++ {
			eventType := rapid.SampledFrom(eventTypes).Draw(rt, fmt.Sprintf("eventType_%d", i))
			hoursOffset := rapid.IntRange(0, 168).Draw(rt, fmt.Sprintf("hoursOffset_%d", i))

			data := map[string]any{"board_id": "B-00001"}
			if eventType == "node.added" {
				nodeType := rapid.SampledFrom(nodeTypes).Draw(rt, fmt.Sprintf("nodeType_%d", i))
				data["type"] = nodeType
				addedByType[nodeType]++
			}
			counts[eventType]++

			event := Event{
				Time:    baseTime.Add(time.Duration(hoursOffset) * time.Hour),
				Level:   "INFO",
				Type:    eventType,
				Message: eventType,
				Data:    data,
			}
			if err := el.Write(event); err != nil {
				t.Fatalf("writing event: %v", err)
			}
		}

		calc := NewMetricsCalculator(el)
		metrics, err := calc.Calculate(baseTime.Add(-time.Hour))
		if err != nil {
			t.Fatalf("calculating metrics: %v", err)
		}

		if metrics.EventCount != numEvents {
			rt.Errorf("EventCount = %d, want %d", metrics.EventCount, numEvents)
		}
		if metrics.BoardsCreated != counts["board.created"] {
			rt.Errorf("BoardsCreated = %d, want %d", metrics.BoardsCreated, counts["board.created"])
		}
		if metrics.BoardsDeleted != counts["board.deleted"] {
			rt.Errorf("BoardsDeleted = %d, want %d", metrics.BoardsDeleted, counts["board.deleted"])
		}
		if metrics.NodesAdded != counts["node.added"] {
			rt.Errorf("NodesAdded = %d, want %d", metrics.NodesAdded, counts["node.added"])
		}
		if metrics.NodesUpdated != counts["node.updated"] {
			rt.Errorf("NodesUpdated = %d, want %d", metrics.NodesUpdated, counts["node.updated"])
		}
		if metrics.NodesMoved != counts["node.moved"] {
			rt.Errorf("NodesMoved = %d, want %d", metrics.NodesMoved, counts["node.moved"])
		}
		if metrics.NodesDeleted != counts["node.deleted"] {
			rt.Errorf("NodesDeleted = %d, want %d", metrics.NodesDeleted, counts["node.deleted"])
		}
		if metrics.RepositionBatches != counts["nodes.repositioned"] {
			rt.Errorf("RepositionBatches = %d, want %d", metrics.RepositionBatches, counts["nodes.repositioned"])
		}
		for nodeType, want := range addedByType {
			if metrics.NodesByType[nodeType] != want {
				rt.Errorf("NodesByType[%s] = %d, want %d", nodeType, metrics.NodesByType[nodeType], want)
			}
		}
	})
}

package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"
)

// Property: every call to GenerateNodeID must produce a unique ID, and the
// counter file always holds the number of ids handed out.
func TestProperty_NodeIDUniqueness(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 100).Draw(rt, "n")
		prefix := rapid.StringMatching(`[A-Z]{1,6}`).Draw(rt, "prefix")
		padWidth := rapid.IntRange(0, 8).Draw(rt, "padWidth")

		dir, err := os.MkdirTemp("", "nodeid-property-*")
		if err != nil {
			t.Fatalf("failed to create temp dir: %v", err)
		}
		defer os.RemoveAll(dir)

		gen := NewNodeIDGenerator(dir, prefix, padWidth)

		seen := make(map[string]struct{}, n)
		for i := 0; i < n; i++ {
			id, err := gen.GenerateNodeID()
			if err != nil {
				t.Fatalf("GenerateNodeID failed on call %d: %v", i+1, err)
			}
			if _, exists := seen[id]; exists {
				t.Fatalf("duplicate node ID %q on call %d", id, i+1)
			}
			seen[id] = struct{}{}
		}

		data, err := os.ReadFile(filepath.Join(dir, ".node_counter"))
		if err != nil {
			t.Fatalf("failed to read counter file: %v", err)
		}
		expected := fmt.Sprintf("%d", n)
		if string(data) != expected {
			t.Fatalf("expected counter file to contain %s, got %s", expected, string(data))
		}
	})
}

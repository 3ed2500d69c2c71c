package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// NodeIDGenerator defines the interface for generating unique, sequential node IDs.
type NodeIDGenerator interface {
	GenerateNodeID() (string, error)
}

// fileNodeIDGenerator implements NodeIDGenerator by persisting a counter
// in a .node_counter file on disk.
type fileNodeIDGenerator struct {
	basePath string
	prefix   string
	padWidth int
}

// NewNodeIDGenerator creates a NodeIDGenerator that stores its counter in a
// .node_counter file within basePath. padWidth controls the zero-padding
// width of the numeric portion. Use 0 for no padding (e.g., N-1).
func NewNodeIDGenerator(basePath string, prefix string, padWidth int) NodeIDGenerator {
	return &fileNodeIDGenerator{
		basePath: basePath,
		prefix:   prefix,
		padWidth: padWidth,
	}
}

// GenerateNodeID reads the current counter from the .node_counter file,
// increments it, writes it back, and returns the formatted node ID.
// If the counter file does not exist, the counter starts from 1.
// Format: {prefix}-{counter:05d} (e.g., N-00001).
func (g *fileNodeIDGenerator) GenerateNodeID() (string, error) {
	counterPath := filepath.Join(g.basePath, ".node_counter")

	counter := 0
	data, err := os.ReadFile(counterPath)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("reading node counter file: %w", err)
	}
	if err == nil {
		trimmed := strings.TrimSpace(string(data))
		counter, err = strconv.Atoi(trimmed)
		if err != nil {
			return "", fmt.Errorf("parsing node counter %q: %w", trimmed, err)
		}
	}

	counter++

	if err := os.MkdirAll(g.basePath, 0o750); err != nil {
		return "", fmt.Errorf("creating base path for node counter: %w", err)
	}

	if err := os.WriteFile(counterPath, []byte(strconv.Itoa(counter)), 0o600); err != nil {
		return "", fmt.Errorf("writing node counter file: %w", err)
	}

	if g.padWidth > 0 {
		return fmt.Sprintf("%s-%0*d", g.prefix, g.padWidth, counter), nil
	}
	return fmt.Sprintf("%s-%d", g.prefix, counter), nil
}

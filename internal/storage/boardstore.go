// Package storage implements the YAML persistence layer for orgcanvas
// boards. The serialized form keeps every node field; the ownership chain
// in children is authoritative, and parent back-references are re-derived
// on load so a reloaded tree always satisfies the structural invariants.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/valter-silva-au/orgcanvas/pkg/models"
	"gopkg.in/yaml.v3"
)

// BoardStoreManager defines the interface for the board persistence layer
// under boards/.
type BoardStoreManager interface {
	GetBoard(id string) (*models.Board, error)
	GetAllBoards() ([]models.BoardSummary, error)
	PutBoard(board *models.Board) error
	DeleteBoard(id string) error

	// GenerateBoardID returns the next sequential board ID (B-XXXXX).
	GenerateBoardID() (string, error)

	// Persistence.
	Load() error
	Save() error
}

// boardIndex is the on-disk shape of boards/index.yaml.
type boardIndex struct {
	Version string                `yaml:"version"`
	Boards  []models.BoardSummary `yaml:"boards"`
}

// boardFile is the on-disk shape of a single boards/<id>.yaml file.
type boardFile struct {
	Version string        `yaml:"version"`
	Board   *models.Board `yaml:"board"`
}

type fileBoardStore struct {
	basePath string
	prefix   string
	index    boardIndex
	dirty    map[string]*models.Board
}

// NewBoardStoreManager creates a BoardStoreManager backed by YAML files
// under boards/ in the given base directory. prefix is the board ID prefix
// (typically "B").
func NewBoardStoreManager(basePath, prefix string) BoardStoreManager {
	if prefix == "" {
		prefix = "B"
	}
	return &fileBoardStore{
		basePath: basePath,
		prefix:   prefix,
		index: boardIndex{
			Version: "1.0",
		},
		dirty: make(map[string]*models.Board),
	}
}

func (s *fileBoardStore) boardsDir() string {
	return filepath.Join(s.basePath, "boards")
}

func (s *fileBoardStore) indexPath() string {
	return filepath.Join(s.boardsDir(), "index.yaml")
}

func (s *fileBoardStore) boardPath(id string) string {
	return filepath.Join(s.boardsDir(), id+".yaml")
}

func (s *fileBoardStore) counterPath() string {
	return filepath.Join(s.basePath, ".board_counter")
}

// GenerateBoardID reads and increments the board counter file, returning the
// next sequential ID in {prefix}-XXXXX format.
func (s *fileBoardStore) GenerateBoardID() (string, error) {
	counterFile := s.counterPath()
	counter := 0

	data, err := os.ReadFile(counterFile)
	if err == nil {
		counter, err = strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			return "", fmt.Errorf("generating board ID: parsing counter: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("generating board ID: reading counter: %w", err)
	}

	counter++
	id := fmt.Sprintf("%s-%05d", s.prefix, counter)

	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return "", fmt.Errorf("generating board ID: creating base path: %w", err)
	}
	if err := os.WriteFile(counterFile, []byte(strconv.Itoa(counter)), 0o600); err != nil {
		return "", fmt.Errorf("generating board ID: writing counter: %w", err)
	}
	return id, nil
}

// GetBoard returns the board with the given id, reading its file if it is
// not already cached. The loaded tree is normalized before it is returned.
func (s *fileBoardStore) GetBoard(id string) (*models.Board, error) {
	if board, ok := s.dirty[id]; ok {
		return board, nil
	}

	data, err := os.ReadFile(s.boardPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("board %s not found", id)
		}
		return nil, fmt.Errorf("reading board %s: %w", id, err)
	}

	var file boardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing board %s: %w", id, err)
	}
	if file.Board == nil || file.Board.Root == nil {
		return nil, fmt.Errorf("board %s has no tree", id)
	}

	if err := normalizeTree(file.Board.Root); err != nil {
		return nil, fmt.Errorf("loading board %s: %w", id, err)
	}
	return file.Board, nil
}

// GetAllBoards returns the index entries for every stored board.
func (s *fileBoardStore) GetAllBoards() ([]models.BoardSummary, error) {
	result := make([]models.BoardSummary, len(s.index.Boards))
	copy(result, s.index.Boards)
	return result, nil
}

// PutBoard stages a board for the next Save and refreshes its index entry.
// The tree must satisfy the uniqueness invariant.
func (s *fileBoardStore) PutBoard(board *models.Board) error {
	if board == nil || board.ID == "" {
		return fmt.Errorf("putting board: ID must not be empty")
	}
	if board.Root == nil {
		return fmt.Errorf("putting board %s: board has no tree", board.ID)
	}
	if err := normalizeTree(board.Root); err != nil {
		return fmt.Errorf("putting board %s: %w", board.ID, err)
	}

	s.dirty[board.ID] = board

	summary := models.BoardSummary{
		ID:        board.ID,
		Name:      board.Name,
		Kind:      board.Kind,
		NodeCount: countNodes(board.Root),
		Created:   board.Created,
		Updated:   board.Updated,
	}
	for i, existing := range s.index.Boards {
		if existing.ID == board.ID {
			s.index.Boards[i] = summary
			return nil
		}
	}
	s.index.Boards = append(s.index.Boards, summary)
	return nil
}

// DeleteBoard removes a board from the index and deletes its file.
func (s *fileBoardStore) DeleteBoard(id string) error {
	found := false
	remaining := s.index.Boards[:0]
	for _, b := range s.index.Boards {
		if b.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, b)
	}
	if !found {
		return fmt.Errorf("board %s not found", id)
	}
	s.index.Boards = remaining
	delete(s.dirty, id)

	if err := os.Remove(s.boardPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting board %s: %w", id, err)
	}
	return nil
}

// Load reads the board index. A missing index file yields an empty store.
func (s *fileBoardStore) Load() error {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading board index: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.index); err != nil {
		return fmt.Errorf("parsing board index: %w", err)
	}
	if s.index.Version == "" {
		s.index.Version = "1.0"
	}
	return nil
}

// Save writes the index and every staged board file.
func (s *fileBoardStore) Save() error {
	if err := os.MkdirAll(s.boardsDir(), 0o755); err != nil {
		return fmt.Errorf("saving board store: creating directory: %w", err)
	}

	indexData, err := yaml.Marshal(&s.index)
	if err != nil {
		return fmt.Errorf("saving board index: %w", err)
	}
	if err := os.WriteFile(s.indexPath(), indexData, 0o600); err != nil {
		return fmt.Errorf("saving board index: %w", err)
	}

	for id, board := range s.dirty {
		data, err := yaml.Marshal(&boardFile{Version: "1.0", Board: board})
		if err != nil {
			return fmt.Errorf("saving board %s: %w", id, err)
		}
		if err := os.WriteFile(s.boardPath(id), data, 0o600); err != nil {
			return fmt.Errorf("saving board %s: %w", id, err)
		}
		delete(s.dirty, id)
	}
	return nil
}

// normalizeTree re-derives every parent back-reference from the ownership
// chain and rejects trees with duplicate node ids. The root keeps an empty
// ParentID.
func normalizeTree(root *models.WhiteboardNode) error {
	seen := make(map[string]struct{})
	root.ParentID = ""

	var walk func(node *models.WhiteboardNode) error
	walk = func(node *models.WhiteboardNode) error {
		if node.ID == "" {
			return fmt.Errorf("tree contains a node without an id")
		}
		if _, dup := seen[node.ID]; dup {
			return fmt.Errorf("duplicate node id %s", node.ID)
		}
		seen[node.ID] = struct{}{}
		for _, child := range node.Children {
			child.ParentID = node.ID
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

func countNodes(root *models.WhiteboardNode) int {
	count := 1
	for _, child := range root.Children {
		count += countNodes(child)
	}
	return count
}

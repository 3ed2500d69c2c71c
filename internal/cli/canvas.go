package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/orgcanvas/pkg/models"
)

// Canvas panel indices.
const (
	panelBoards = iota
	panelTree
	panelDetails
	panelCount
)

// treeRow is one visible line of the flattened node tree.
type treeRow struct {
	node  *models.WhiteboardNode
	depth int
}

type canvasModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	boards     []models.BoardSummary
	boardIdx   int
	board      *models.Board
	rows       []treeRow
	cursor     int
	collapsed  map[string]bool
	statusLine string

	// State.
	loading bool
	err     error
}

// boardsLoadedMsg carries the board list back to the model.
type boardsLoadedMsg struct {
	boards []models.BoardSummary
	err    error
}

// boardLoadedMsg carries one board's tree back to the model.
type boardLoadedMsg struct {
	board *models.Board
	err   error
}

// focusSetMsg reports the result of a focus action.
type focusSetMsg struct {
	trail []string
	err   error
}

// Style definitions.
var (
	canvasTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	canvasPanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(1, 2)

	canvasActivePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	canvasHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")).
				MarginBottom(1)

	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	focusTrailLine = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	canvasHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newCanvasModel() canvasModel {
	return canvasModel{
		activePanel: panelBoards,
		loading:     true,
		collapsed:   make(map[string]bool),
	}
}

func (m canvasModel) Init() tea.Cmd {
	return loadBoards
}

func (m canvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadBoards
		case "up", "k":
			return m.moveCursor(-1), nil
		case "down", "j":
			return m.moveCursor(1), nil
		case "enter":
			if m.activePanel == panelBoards && len(m.boards) > 0 {
				id := m.boards[m.boardIdx].ID
				return m, loadBoard(id)
			}
			if m.activePanel == panelTree {
				return m.toggleCollapse(), nil
			}
		case "f":
			if m.activePanel == panelTree && m.board != nil && m.cursor < len(m.rows) {
				boardID := m.board.ID
				nodeID := m.rows[m.cursor].node.ID
				return m, setFocus(boardID, nodeID)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.boards = msg.boards
		m.err = nil
		if m.boardIdx >= len(m.boards) {
			m.boardIdx = 0
		}
		if m.board != nil {
			return m, loadBoard(m.board.ID)
		}
		return m, nil

	case boardLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.board = msg.board
		m.rows = flattenTree(m.board.Root, m.collapsed)
		if m.cursor >= len(m.rows) {
			m.cursor = 0
		}
		m.activePanel = panelTree
		m.err = nil
		return m, nil

	case focusSetMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusLine = "Focus: " + strings.Join(msg.trail, " > ")
		if m.board != nil {
			m.board.Breadcrumbs = msg.trail
		}
		return m, nil
	}

	return m, nil
}

func (m canvasModel) moveCursor(delta int) canvasModel {
	switch m.activePanel {
	case panelBoards:
		if len(m.boards) == 0 {
			return m
		}
		m.boardIdx = (m.boardIdx + delta + len(m.boards)) % len(m.boards)
	case panelTree:
		if len(m.rows) == 0 {
			return m
		}
		m.cursor = (m.cursor + delta + len(m.rows)) % len(m.rows)
	}
	return m
}

func (m canvasModel) toggleCollapse() canvasModel {
	if m.board == nil || m.cursor >= len(m.rows) {
		return m
	}
	id := m.rows[m.cursor].node.ID
	m.collapsed[id] = !m.collapsed[id]
	m.rows = flattenTree(m.board.Root, m.collapsed)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	return m
}

func (m canvasModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := canvasTitleStyle.Render(" OrgCanvas ")
	help := canvasHelp.Render("tab: switch panel | enter: open/collapse | f: focus | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading boards...\n\n%s", title, help)
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	boardsPanel := m.renderBoardsPanel()
	treePanel := m.renderTreePanel()
	detailsPanel := m.renderDetailsPanel()

	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		colWidth := availableWidth / 3
		boardsPanel = m.applyCanvasPanelStyle(panelBoards, boardsPanel, colWidth-4)
		treePanel = m.applyCanvasPanelStyle(panelTree, treePanel, colWidth-4)
		detailsPanel = m.applyCanvasPanelStyle(panelDetails, detailsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, boardsPanel, treePanel, detailsPanel)
	} else {
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		boardsPanel = m.applyCanvasPanelStyle(panelBoards, boardsPanel, panelWidth)
		treePanel = m.applyCanvasPanelStyle(panelTree, treePanel, panelWidth)
		detailsPanel = m.applyCanvasPanelStyle(panelDetails, detailsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, boardsPanel, treePanel, detailsPanel)
	}

	out := fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
	if m.statusLine != "" {
		out += "\n" + focusTrailLine.Render(m.statusLine)
	}
	return out
}

func (m canvasModel) applyCanvasPanelStyle(panel int, content string, width int) string {
	style := canvasPanelStyle
	if m.activePanel == panel {
		style = canvasActivePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m canvasModel) renderBoardsPanel() string {
	var b strings.Builder
	b.WriteString(canvasHeaderStyle.Render("Boards"))
	b.WriteString("\n")

	if len(m.boards) == 0 {
		b.WriteString("  No boards found.")
		return b.String()
	}

	for i, board := range m.boards {
		line := fmt.Sprintf("  %-9s %s (%d)", board.ID, board.Name, board.NodeCount)
		if i == m.boardIdx && m.activePanel == panelBoards {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m canvasModel) renderTreePanel() string {
	var b strings.Builder
	b.WriteString(canvasHeaderStyle.Render("Tree"))
	b.WriteString("\n")

	if m.board == nil {
		b.WriteString("  Select a board and press enter.")
		return b.String()
	}

	for i, row := range m.rows {
		marker := "  "
		if len(row.node.Children) > 0 {
			marker = "- "
			if m.collapsed[row.node.ID] {
				marker = "+ "
			}
		}
		line := fmt.Sprintf("%s%s%s [%s]", strings.Repeat("  ", row.depth), marker, row.node.Name, row.node.Type)
		if i == m.cursor && m.activePanel == panelTree {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.board.Breadcrumbs) > 0 {
		b.WriteString("\n")
		b.WriteString(focusTrailLine.Render("Focus: " + strings.Join(m.board.Breadcrumbs, " > ")))
	}

	return b.String()
}

func (m canvasModel) renderDetailsPanel() string {
	var b strings.Builder
	b.WriteString(canvasHeaderStyle.Render("Node"))
	b.WriteString("\n")

	if m.board == nil || m.cursor >= len(m.rows) {
		b.WriteString("  Nothing selected.")
		return b.String()
	}

	n := m.rows[m.cursor].node
	b.WriteString(fmt.Sprintf("  %-12s %s\n", "ID:", n.ID))
	b.WriteString(fmt.Sprintf("  %-12s %s\n", "Type:", n.Type))
	b.WriteString(fmt.Sprintf("  %-12s %s\n", "Name:", n.Name))
	if n.Description != "" {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", "Description:", n.Description))
	}
	if n.DepartmentHead != "" {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", "Head:", n.DepartmentHead))
	}
	b.WriteString(fmt.Sprintf("  %-12s %.0f, %.0f\n", "Position:", n.Position.X, n.Position.Y))
	b.WriteString(fmt.Sprintf("  %-12s %d\n", "Children:", len(n.Children)))
	for k, v := range n.Meta {
		b.WriteString(fmt.Sprintf("  %-12s %s=%s\n", "Meta:", k, v))
	}

	return b.String()
}

// flattenTree lists visible nodes in depth-first order, skipping the
// children of collapsed nodes.
func flattenTree(root *models.WhiteboardNode, collapsed map[string]bool) []treeRow {
	var rows []treeRow
	var walk func(n *models.WhiteboardNode, depth int)
	walk = func(n *models.WhiteboardNode, depth int) {
		rows = append(rows, treeRow{node: n, depth: depth})
		if collapsed[n.ID] {
			return
		}
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(root, 0)
	return rows
}

func loadBoards() tea.Msg {
	if BoardMgr == nil {
		return boardsLoadedMsg{err: fmt.Errorf("board manager not initialized")}
	}
	boards, err := BoardMgr.GetAllBoards()
	if err != nil {
		return boardsLoadedMsg{err: fmt.Errorf("loading boards: %w", err)}
	}
	return boardsLoadedMsg{boards: boards}
}

func loadBoard(id string) tea.Cmd {
	return func() tea.Msg {
		board, err := BoardMgr.GetBoard(id)
		if err != nil {
			return boardLoadedMsg{err: fmt.Errorf("loading board %s: %w", id, err)}
		}
		return boardLoadedMsg{board: board}
	}
}

func setFocus(boardID, nodeID string) tea.Cmd {
	return func() tea.Msg {
		trail, err := BoardMgr.Focus(boardID, nodeID)
		if err != nil {
			return focusSetMsg{err: fmt.Errorf("focusing %s: %w", nodeID, err)}
		}
		return focusSetMsg{trail: trail}
	}
}

var canvasCmd = &cobra.Command{
	Use:   "canvas",
	Short: "Interactive TUI for browsing boards",
	Long: `Launch an interactive terminal canvas showing boards, the selected
board's node tree, and the selected node's details.

Navigate between panels with Tab, move with the arrow keys, collapse a
subtree with enter, set the breadcrumb focus with f, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if BoardMgr == nil {
			return fmt.Errorf("board manager not initialized")
		}
		p := tea.NewProgram(newCanvasModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(canvasCmd)
}

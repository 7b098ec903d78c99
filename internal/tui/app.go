// Package tui is a terminal browser over one catalogue view: type to filter,
// scroll to reveal more and press enter to read a review.
package tui

import (
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gcbaptista/coursexp/internal/view"
)

const (
	// nearEndRows is how close to the last revealed row the cursor must be
	// before more rows are requested.
	nearEndRows   = 3
	headerRows    = 3
	footerRows    = 2
	defaultWidth  = 80
	defaultHeight = 24
)

// ViewOpener opens browsing sessions on the catalogue.
type ViewOpener interface {
	NewView(onGrow func(view.Snapshot)) *view.Coordinator
	LastUpdate() string
}

// growMsg delivers a debounced growth from the timer goroutine.
type growMsg struct{}

// Model is the Bubble Tea model of the browser.
type Model struct {
	coordinator *view.Coordinator
	input       textinput.Model
	detail      viewport.Model
	snapshot    view.Snapshot
	lastUpdate  string
	cursor      int
	offset      int
	width       int
	height      int
}

// NewModel creates the browser model over coordinator.
func NewModel(coordinator *view.Coordinator, lastUpdate string) Model {
	input := textinput.New()
	input.Placeholder = "search course or professor"
	input.Prompt = "🔍 "
	input.Focus()

	m := Model{
		coordinator: coordinator,
		input:       input,
		detail:      viewport.New(defaultWidth, defaultHeight-headerRows-footerRows),
		lastUpdate:  lastUpdate,
		width:       defaultWidth,
		height:      defaultHeight,
	}
	m.snapshot = coordinator.Snapshot()
	return m
}

// Run starts the browser on a fresh view and blocks until the user quits.
func Run(opener ViewOpener) error {
	var program atomic.Pointer[tea.Program]
	coordinator := opener.NewView(func(view.Snapshot) {
		if p := program.Load(); p != nil {
			p.Send(growMsg{})
		}
	})
	defer coordinator.Close()

	p := tea.NewProgram(NewModel(coordinator, opener.LastUpdate()), tea.WithAltScreen())
	program.Store(p)
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.Width = msg.Width - 4
		m.detail.Height = max(1, msg.Height-headerRows-footerRows-2)
		m.input.Width = max(10, msg.Width-4)
		m.clampOffset()
		return m, nil

	case growMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// While a review is open the list is locked; only the detail pane scrolls.
	if m.snapshot.Lock == view.Locked {
		switch msg.Type {
		case tea.KeyEsc:
			m.coordinator.Select(nil)
			m.refresh()
			return m, nil
		default:
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}

	switch msg.Type {
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	case tea.KeyPgUp:
		m.moveCursor(-m.listHeight())
		return m, nil
	case tea.KeyPgDown:
		m.moveCursor(m.listHeight())
		return m, nil
	case tea.KeyEnter:
		m.openSelection()
		return m, nil
	case tea.KeyEsc:
		m.input.SetValue("")
		m.applyQuery()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyQuery()
	return m, cmd
}

// applyQuery forwards the input text. Unchanged text is not a new query.
func (m *Model) applyQuery() {
	if m.input.Value() == m.snapshot.Query {
		return
	}
	m.coordinator.SetQuery(m.input.Value())
	m.cursor = 0
	m.offset = 0
	m.refresh()
}

func (m *Model) moveCursor(delta int) {
	rows := len(m.snapshot.Page)
	if rows == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), rows-1)
	m.clampOffset()

	if m.cursor >= rows-nearEndRows && m.coordinator.NearEnd() {
		m.refresh()
	}
}

func (m *Model) openSelection() {
	if m.cursor >= len(m.snapshot.Page) {
		return
	}
	review := m.snapshot.Page[m.cursor]
	m.coordinator.Select(&review)
	m.detail.SetContent(renderDetail(review, m.detail.Width))
	m.detail.GotoTop()
	m.refresh()
}

func (m *Model) refresh() {
	m.snapshot = m.coordinator.Snapshot()
	if m.cursor >= len(m.snapshot.Page) {
		m.cursor = max(len(m.snapshot.Page)-1, 0)
	}
	m.clampOffset()
}

func (m *Model) listHeight() int {
	return max(1, m.height-headerRows-footerRows)
}

// clampOffset keeps the cursor row inside the visible window.
func (m *Model) clampOffset() {
	height := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Course Experiences"),
		m.input.View(),
	)
	footer := footerStyle.Render(statusLine(m.snapshot, m.lastUpdate))

	var body string
	if m.snapshot.Lock == view.Locked {
		body = detailFrame.Render(m.detail.View()) + "\n" + mutedStyle.Render("esc to close")
	} else {
		body = m.renderList()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, footer)
}

func (m Model) renderList() string {
	page := m.snapshot.Page
	if len(page) == 0 {
		return mutedStyle.Render(noResultsText)
	}

	end := min(m.offset+m.listHeight(), len(page))
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rows = append(rows, renderRow(page[i], i == m.cursor, m.width))
	}
	return strings.Join(rows, "\n")
}

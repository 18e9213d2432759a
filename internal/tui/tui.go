package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcin-skalski/ticketboard/internal/controller"
)

type Model struct {
	provider        BoardProvider
	snapshot        controller.Snapshot
	keys            KeyMap
	spinner         spinner.Model
	refreshInterval time.Duration

	width  int
	height int

	offset    int // index of the first visible column
	scroll    int // cards scrolled past in the visible columns
	panelOpen bool
	panelRow  panelRow
	notice    string
}

type tickMsg time.Time

func NewModel(provider BoardProvider, refreshInterval time.Duration) Model {
	return Model{
		provider:        provider,
		snapshot:        provider.Snapshot(),
		keys:            DefaultKeyMap,
		spinner:         spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(loaderStyle)),
		refreshInterval: refreshInterval,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.refreshInterval), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampView()
		return m, nil

	case tickMsg:
		m.snapshot = m.provider.Snapshot()
		m.clampView()
		return m, tickCmd(m.refreshInterval)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.panelOpen {
			return m.updatePanel(msg), nil
		}
		return m.updateBoard(msg), nil
	}

	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.snapshot = m.provider.Snapshot()
	case key.Matches(msg, m.keys.Grouping):
		m = m.changeGrouping(m.snapshot.Settings.Grouping.Next().String())
	case key.Matches(msg, m.keys.Ordering):
		m = m.changeOrdering(m.snapshot.Settings.Ordering.Next().String())
	case key.Matches(msg, m.keys.Display):
		m.panelOpen = true
		m.panelRow = panelRowGrouping
	case key.Matches(msg, m.keys.Left):
		if m.offset > 0 {
			m.offset--
		}
	case key.Matches(msg, m.keys.Right):
		m.offset++
		m.clampView()
	case key.Matches(msg, m.keys.Up):
		if m.scroll > 0 {
			m.scroll--
		}
	case key.Matches(msg, m.keys.Down):
		m.scroll++
		m.clampView()
	}
	return m
}

func (m Model) updatePanel(msg tea.KeyMsg) Model {
	s := m.snapshot.Settings
	switch {
	case key.Matches(msg, m.keys.Display), key.Matches(msg, m.keys.Close):
		m.panelOpen = false
	case key.Matches(msg, m.keys.Up):
		m.panelRow = (m.panelRow + panelRows - 1) % panelRows
	case key.Matches(msg, m.keys.Down):
		m.panelRow = (m.panelRow + 1) % panelRows
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Select):
		if m.panelRow == panelRowGrouping {
			m = m.changeGrouping(s.Grouping.Next().String())
		} else {
			m = m.changeOrdering(s.Ordering.Next().String())
		}
	case key.Matches(msg, m.keys.Left):
		if m.panelRow == panelRowGrouping {
			m = m.changeGrouping(s.Grouping.Prev().String())
		} else {
			m = m.changeOrdering(s.Ordering.Prev().String())
		}
	}
	return m
}

func (m Model) changeGrouping(value string) Model {
	m.notice = ""
	if err := m.provider.ChangeGrouping(value); err != nil {
		m.notice = err.Error()
	}
	m.snapshot = m.provider.Snapshot()
	m.offset = 0
	m.scroll = 0
	return m
}

func (m Model) changeOrdering(value string) Model {
	m.notice = ""
	if err := m.provider.ChangeOrdering(value); err != nil {
		m.notice = err.Error()
	}
	m.snapshot = m.provider.Snapshot()
	return m
}

// visibleColumns is how many columns fit the terminal width.
func (m Model) visibleColumns() int {
	if m.width <= 0 {
		return len(m.snapshot.Grid.Groups)
	}
	return max(1, m.width/(columnWidth+columnGap))
}

func (m *Model) clampView() {
	groups := m.snapshot.Grid.Groups
	maxOffset := max(0, len(groups)-m.visibleColumns())
	m.offset = min(max(m.offset, 0), maxOffset)

	// Scroll stops once the last card of the longest visible column is on top.
	maxScroll := 0
	for _, g := range groups[m.offset:min(m.offset+m.visibleColumns(), len(groups))] {
		maxScroll = max(maxScroll, len(g.Tickets)-1)
	}
	m.scroll = min(max(m.scroll, 0), maxScroll)
}

func (m Model) View() string {
	return renderView(m.snapshot, viewState{
		loader:    m.spinner.View(),
		offset:    m.offset,
		columns:   m.visibleColumns(),
		scroll:    m.scroll,
		height:    m.height,
		panelOpen: m.panelOpen,
		panelRow:  m.panelRow,
		notice:    m.notice,
	})
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

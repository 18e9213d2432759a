package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcin-skalski/ticketboard/internal/board"
	"github.com/marcin-skalski/ticketboard/internal/controller"
)

const (
	columnWidth = 34
	columnGap   = 2
	// card border (2) plus horizontal padding (2)
	cardChrome = 4
)

type viewState struct {
	loader    string
	offset    int
	columns   int
	scroll    int // cards skipped at the top of every visible column
	height    int // terminal rows, 0 when unknown
	panelOpen bool
	panelRow  panelRow
	notice    string
}

func renderView(snap controller.Snapshot, vs viewState) string {
	header := headerStyle.Render(fmt.Sprintf("ticketboard │ grouping: %s │ ordering: %s │ %d tickets",
		snap.Settings.Grouping.Label(), snap.Settings.Ordering.Label(), snap.Grid.Len()))

	var panel, notice string
	if vs.panelOpen {
		panel = renderPanel(snap.Settings, vs.panelRow)
	}
	if vs.notice != "" {
		notice = noticeStyle.Render(vs.notice)
	}

	footerText := fmt.Sprintf("Last updated: %s │ g:grouping o:ordering d:display h/l:scroll j/k:cards r:refresh q:quit",
		snap.Timestamp.Format("15:04:05"))
	if total := len(snap.Grid.Groups); !snap.Loading && total > vs.columns {
		last := min(vs.offset+vs.columns, total)
		footerText = fmt.Sprintf("columns %d-%d of %d │ ", vs.offset+1, last, total) + footerText
	}
	footer := footerStyle.Render(footerText)

	var body string
	if snap.Loading {
		body = vs.loader + loaderStyle.Render("Loading...")
	} else {
		// Rows the grid may use below the header and above the footer.
		budget := 0
		if vs.height > 0 {
			used := lipgloss.Height(header) + 1 + lipgloss.Height(footer)
			if panel != "" {
				used += lipgloss.Height(panel)
			}
			if notice != "" {
				used += lipgloss.Height(notice)
			}
			budget = max(1, vs.height-used)
		}
		body = renderGrid(snap, vs.offset, vs.columns, vs.scroll, budget)
	}

	parts := []string{header}
	if panel != "" {
		parts = append(parts, panel)
	}
	parts = append(parts, "", body)
	if notice != "" {
		parts = append(parts, notice)
	}
	parts = append(parts, footer)

	return clipLines(strings.Join(parts, "\n"), vs.height)
}

// clipLines keeps the first height lines so the header stays on screen.
func clipLines(s string, height int) string {
	if height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= height {
		return s
	}
	return strings.Join(lines[:height], "\n")
}

func renderPanel(s board.Settings, row panelRow) string {
	lines := []string{
		panelLine("Grouping", s.Grouping.Label(), row == panelRowGrouping),
		panelLine("Ordering", s.Ordering.Label(), row == panelRowOrdering),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func panelLine(label, value string, selected bool) string {
	line := fmt.Sprintf("%-10s ‹ %s ›", label, value)
	if selected {
		return panelSelectedStyle.Render("> " + line)
	}
	return "  " + line
}

// renderGrid draws the visible columns. A positive budget caps the height
// of every column; zero means unlimited.
func renderGrid(snap controller.Snapshot, offset, columns, scroll, budget int) string {
	groups := snap.Grid.Groups
	if len(groups) == 0 {
		return emptyStyle.Render("  (no tickets)")
	}

	end := min(offset+columns, len(groups))
	rendered := make([]string, 0, end-offset)
	for _, g := range groups[offset:end] {
		col := lipgloss.NewStyle().
			Width(columnWidth).
			MarginRight(columnGap).
			Render(renderColumn(g, snap.Settings.Grouping, snap.Users, scroll, budget))
		rendered = append(rendered, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderColumn(g board.Group, grouping board.Grouping, users board.UserLookup, scroll, budget int) string {
	icon, title := columnHeading(g.Key, grouping, users)
	lines := []string{icon + " " +
		columnTitleStyle.Render(truncate(title, columnWidth-10)) +
		countStyle.Render(fmt.Sprintf("%d", len(g.Tickets)))}
	used := 1

	n := len(g.Tickets)
	skip := min(max(scroll, 0), max(n-1, 0))
	if skip > 0 {
		lines = append(lines, moreStyle.Render(fmt.Sprintf("↑ %d more", skip)))
		used++
	}

	shown := skip
	for i := skip; i < n; i++ {
		card := renderCard(g.Tickets[i], grouping, users)
		h := lipgloss.Height(card)
		need := h
		if i < n-1 {
			need++ // room for the "more" marker below
		}
		if budget > 0 && used+need > budget {
			break
		}
		lines = append(lines, card)
		used += h
		shown = i + 1
	}
	if rest := n - shown; rest > 0 {
		lines = append(lines, moreStyle.Render(fmt.Sprintf("↓ %d more", rest)))
	}
	return strings.Join(lines, "\n")
}

func columnHeading(groupKey string, grouping board.Grouping, users board.UserLookup) (string, string) {
	switch grouping {
	case board.GroupByStatus:
		return lipgloss.NewStyle().Foreground(statusColor(groupKey)).Render(statusIcon(groupKey)), groupKey
	case board.GroupByPriority:
		return lipgloss.NewStyle().Foreground(priorityColor(groupKey)).Render(priorityIcon(groupKey)), groupKey
	default:
		u, err := users.Resolve(groupKey)
		if err != nil {
			return renderAvatar("", false), unknownUser(groupKey)
		}
		return renderAvatar(u.Name, u.Available), u.Name
	}
}

func renderCard(t board.Ticket, grouping board.Grouping, users board.UserLookup) string {
	inner := columnWidth - cardChrome

	top := ticketIDStyle.Render(t.ID)
	if grouping != board.GroupByUser {
		var avatar string
		if u, err := users.Resolve(t.UserID); err == nil {
			avatar = renderAvatar(u.Name, u.Available)
		} else {
			avatar = renderAvatar("", false)
		}
		gap := max(1, inner-lipgloss.Width(top)-lipgloss.Width(avatar))
		top += strings.Repeat(" ", gap) + avatar
	}

	titleWidth := inner
	var prefix string
	if grouping != board.GroupByStatus {
		prefix = lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render(statusIcon(t.Status)) + " "
		titleWidth -= lipgloss.Width(prefix)
	}
	middle := prefix + titleStyle.Render(truncate(t.Title, titleWidth))

	lines := []string{top, middle}
	if grouping != board.GroupByPriority {
		label := board.PriorityLabel(t.Priority)
		lines = append(lines, lipgloss.NewStyle().Foreground(priorityColor(label)).Render(priorityIcon(label))+" "+tagStyle.Render(label))
	}
	for _, tag := range t.Tag {
		lines = append(lines, tagStyle.Render("• "+truncate(tag, inner-2)))
	}

	return cardStyle.Width(columnWidth - 2).Render(strings.Join(lines, "\n"))
}

func renderAvatar(name string, available bool) string {
	initials := board.Initials(name)
	if initials == "" {
		initials = "?"
	}
	dot := lipgloss.NewStyle().Foreground(colorUnavailable).Render("○")
	if available {
		dot = lipgloss.NewStyle().Foreground(colorAvailable).Render("●")
	}
	return avatarStyle.Render(" "+initials+" ") + dot
}

func unknownUser(userID string) string {
	return fmt.Sprintf("Unknown user (%s)", userID)
}

func truncate(s string, width int) string {
	if width <= 3 {
		return runewidth.Truncate(s, max(width, 0), "")
	}
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "...")
	}
	return s
}

// RenderPlain renders the board without styling, for headless output.
func RenderPlain(snap controller.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "grouping: %s, ordering: %s\n", snap.Settings.Grouping, snap.Settings.Ordering)

	if snap.Loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	for _, g := range snap.Grid.Groups {
		title := g.Key
		if snap.Settings.Grouping == board.GroupByUser {
			if u, err := snap.Users.Resolve(g.Key); err == nil {
				title = u.Name
			} else {
				title = unknownUser(g.Key)
			}
		}
		fmt.Fprintf(&b, "\n%s (%d)\n", title, len(g.Tickets))

		for _, t := range g.Tickets {
			who := unknownUser(t.UserID)
			if u, err := snap.Users.Resolve(t.UserID); err == nil {
				who = u.Name
			}
			fmt.Fprintf(&b, "  %-8s %-10s %-12s %s  [%s]", t.ID, board.PriorityLabel(t.Priority), t.Status, t.Title, who)
			if len(t.Tag) > 0 {
				fmt.Fprintf(&b, "  #%s", strings.Join(t.Tag, " #"))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

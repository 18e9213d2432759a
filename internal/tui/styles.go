package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Status colors
	colorBacklog    = lipgloss.Color("245") // gray
	colorTodo       = lipgloss.Color("252") // white
	colorInProgress = lipgloss.Color("220") // yellow
	colorDone       = lipgloss.Color("63")  // indigo
	colorCanceled   = lipgloss.Color("240") // dim gray

	// Priority colors
	colorUrgent = lipgloss.Color("202") // orange
	colorHigh   = lipgloss.Color("214")
	colorMedium = lipgloss.Color("250")
	colorLow    = lipgloss.Color("245")

	colorAvailable   = lipgloss.Color("46") // green
	colorUnavailable = lipgloss.Color("240")
	colorMuted       = lipgloss.Color("244")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			PaddingLeft(1).
			PaddingRight(1)

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252"))

	countStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1).
			PaddingRight(1)

	ticketIDStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	tagStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	avatarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("61"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("39")).
			PaddingLeft(1).
			PaddingRight(1)

	panelSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Background(lipgloss.Color("237"))

	loaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			PaddingLeft(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	moreStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

func statusIcon(status string) string {
	switch status {
	case "Backlog":
		return "◌"
	case "Todo":
		return "○"
	case "In progress":
		return "◑"
	case "Done":
		return "●"
	case "Canceled":
		return "⊘"
	default:
		return "?"
	}
}

func statusColor(status string) lipgloss.Color {
	switch status {
	case "Backlog":
		return colorBacklog
	case "Todo":
		return colorTodo
	case "In progress":
		return colorInProgress
	case "Done":
		return colorDone
	case "Canceled":
		return colorCanceled
	default:
		return colorTodo
	}
}

func priorityIcon(label string) string {
	switch label {
	case "Urgent":
		return "!"
	case "High":
		return "▰▰▰"
	case "Medium":
		return "▰▰▱"
	case "Low":
		return "▰▱▱"
	case "No priority":
		return "···"
	default:
		return "?"
	}
}

func priorityColor(label string) lipgloss.Color {
	switch label {
	case "Urgent":
		return colorUrgent
	case "High":
		return colorHigh
	case "Medium":
		return colorMedium
	case "Low":
		return colorLow
	default:
		return colorMuted
	}
}

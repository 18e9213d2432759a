package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Left  key.Binding // scroll columns, or previous value in the display panel
	Right key.Binding
	Up    key.Binding // scroll cards, or display panel row
	Down  key.Binding

	Grouping key.Binding
	Ordering key.Binding
	Display  key.Binding
	Select   key.Binding
	Close    key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

var DefaultKeyMap = KeyMap{
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "scroll left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "scroll right"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "scroll down"),
	),
	Grouping: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "grouping"),
	),
	Ordering: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "ordering"),
	),
	Display: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "display"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "next value"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

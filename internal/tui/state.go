package tui

import "github.com/marcin-skalski/ticketboard/internal/controller"

// BoardProvider is the controller surface the view needs.
type BoardProvider interface {
	Snapshot() controller.Snapshot
	ChangeGrouping(value string) error
	ChangeOrdering(value string) error
}

// panelRow indexes the rows of the display panel.
type panelRow int

const (
	panelRowGrouping panelRow = iota
	panelRowOrdering
)

const panelRows = 2

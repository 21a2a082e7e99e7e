// Package report renders end-of-run simulator statistics as a console
// table, the same way the teacher lineage's core/util.go renders
// register and buffer state.
package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary is the subset of simulator.Stats this package needs, kept as
// a plain struct so report doesn't import simulator (and so tests can
// construct one directly without building a mesh).
type Summary struct {
	Injected           int
	DestroyedByArrival int
	DestroyedByEdge    int
	LiveAtEnd          int
	TotalDelay         int
	TotalDistance      int
	ShowDistance       bool
}

// Write renders the summary as a table to w.
func Write(w io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Simulation Summary")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Injected", s.Injected})
	t.AppendRow(table.Row{"Destroyed (arrival)", s.DestroyedByArrival})
	t.AppendRow(table.Row{"Destroyed (edge loss)", s.DestroyedByEdge})
	t.AppendRow(table.Row{"Live at end", s.LiveAtEnd})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Total packet delays", s.TotalDelay})
	if s.ShowDistance {
		t.AppendRow(table.Row{"Total distance traveled", s.TotalDistance})
	}
	t.Render()
}

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/wippyai/wasmlang/batch"
	"github.com/wippyai/wasmlang/classify"
)

var (
	accent = lipgloss.Color("#7D56F4")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(accent).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	symbolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// labelStyle colors unclassified labels as errors and the rest as hits.
func labelStyle(l classify.Label) lipgloss.Style {
	switch l {
	case classify.Unknown, classify.UnknownCompressed:
		return errorStyle
	default:
		return okStyle
	}
}

func renderSummary(t *batch.Tally) string {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accent)).
		Headers("LABEL", "MODULES").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return cellStyle.Align(lipgloss.Right)
			default:
				return cellStyle
			}
		})

	for _, l := range classify.Labels() {
		tbl.Row(labelStyle(l).Render(l.String()), strconv.Itoa(t.Count(l)))
	}
	tbl.Row(keyStyle.Render("Total"), strconv.Itoa(t.Total()))
	if n := t.Failed(); n > 0 {
		tbl.Row(errorStyle.Render("Unreadable"), strconv.Itoa(n))
	}

	return tbl.String() + "\n" +
		subtleStyle.Render(fmt.Sprintf("Unclassified: %.2f%%", t.Unclassified()*100))
}

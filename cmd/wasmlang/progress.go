package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/wasmlang/batch"
	"github.com/wippyai/wasmlang/classify"
)

const maxBarWidth = 60

type stepMsg struct {
	path  string
	label classify.Label
}

type doneMsg struct{}

type progressModel struct {
	bar      progress.Model
	last     string
	total    int
	done     int
	unknown  int
	finished bool
}

func newProgressModel(total int) progressModel {
	return progressModel{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total: total,
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		m.done++
		m.last = msg.path
		if msg.label.Unclassified() {
			m.unknown++
		}
		return m, nil
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, maxBarWidth)
		return m, nil
	}
	return m, nil
}

func (m progressModel) View() string {
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}
	s := m.bar.ViewAs(pct) + " " + fmt.Sprintf("%d/%d", m.done, m.total)
	if m.unknown > 0 {
		s += " " + errorStyle.Render(fmt.Sprintf("%d unknown", m.unknown))
	}
	if m.finished {
		return s + "\n"
	}
	return s + "\n" + subtleStyle.Render(filepath.Base(m.last)) + "\n"
}

// progressBar drives a bubbletea program that renders classification
// progress while the batch runs.
type progressBar struct {
	p    *tea.Program
	done chan struct{}
}

func startProgress(w io.Writer, total int) *progressBar {
	b := &progressBar{
		p: tea.NewProgram(newProgressModel(total),
			tea.WithOutput(w),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		_, _ = b.p.Run()
	}()
	return b
}

func (b *progressBar) step(rec batch.Record) {
	b.p.Send(stepMsg{path: rec.Path, label: rec.Label})
}

// stop renders the final state and waits for the program to exit.
func (b *progressBar) stop() {
	b.p.Send(doneMsg{})
	<-b.done
}

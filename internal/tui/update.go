package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/peekproxy/peek/internal/domain"
	"github.com/peekproxy/peek/internal/format"
	"github.com/peekproxy/peek/internal/render"
)

// Update handles messages. Every event is fully processed, redraw
// included, before the next one; the renderer relies on that.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		size := render.Size{Rows: msg.Height, Cols: msg.Width}
		m.frame.Resize(msg.Height)
		if !m.ready {
			m.layout.Resize(size)
			m.renderer.Initialize()
			m.ready = true
		} else {
			m.renderer.OnResize(size)
		}
		return m, nil

	case ExchangeMsg:
		// Add and notification form one unit: the redraw sees post-add state.
		evicted := m.history.Add(domain.Exchange(msg))
		m.renderer.OnNewExchange(evicted)
		return m, nil

	case InspectResultMsg:
		if msg.Err != nil {
			m.renderer.SetNote("inspect failed: " + msg.Err.Error())
		} else {
			m.renderer.SetNote("saved " + msg.Path)
		}
		return m, noteClearCmd()

	case noteClearMsg:
		m.renderer.SetNote("")
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.ready && m.history.Size() == 0 {
			m.renderer.SetWaiting(m.spinner.View())
		}
		return m, cmd
	}

	return m, nil
}

// handleKey normalizes keyboard input into the renderer's command
// vocabulary. Quit and inspect are consumed here; everything else goes
// through Dispatch.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "+", "=", "right", "l":
		m.renderer.Dispatch(render.EventIncrement)

	case "-", "left", "h":
		m.renderer.Dispatch(render.EventDecrement)

	case "up", "k":
		m.renderer.Dispatch(render.EventSelectUp)

	case "down", "j":
		m.renderer.Dispatch(render.EventSelectDown)

	case "esc":
		m.renderer.Dispatch(render.EventResetSelection)

	case "1", "2", "3", "4", "5", "6":
		m.renderer.SetLevel(format.Of(int(msg.String()[0] - '0')))

	case "i", "enter":
		return m, m.inspectCmd()
	}

	return m, nil
}

// inspectCmd fetches the selected exchange and hands it to the inspector.
// With no active selection it inspects the newest exchange.
func (m Model) inspectCmd() tea.Cmd {
	if m.inspector == nil {
		return nil
	}

	idx, ok := m.renderer.SelectedIndex()
	if !ok {
		idx = m.history.Size() - 1
	}
	ex, ok := m.history.GetByIndex(idx)
	if !ok {
		return nil
	}

	return func() tea.Msg {
		path, err := m.inspector.Inspect(ex)
		return InspectResultMsg{Path: path, Err: err}
	}
}

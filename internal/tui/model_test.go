package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekproxy/peek/internal/domain"
	"github.com/peekproxy/peek/internal/format"
	"github.com/peekproxy/peek/internal/history"
	"github.com/peekproxy/peek/internal/render"
)

type fakeInspector struct {
	inspected []domain.Exchange
	path      string
	err       error
}

func (f *fakeInspector) Inspect(ex domain.Exchange) (string, error) {
	f.inspected = append(f.inspected, ex)
	return f.path, f.err
}

func newTestModel(t *testing.T, capacity int) (Model, *history.History) {
	t.Helper()
	h := history.New(capacity)
	m := NewModel(h, render.Config{From: "in", To: "out", Level: format.Of(3)}, &fakeInspector{path: "out.html"})

	// First size message initializes the screen.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model), h
}

func sendKey(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "up", "down", "left", "right", "esc", "enter":
		msg = tea.KeyMsg{Type: keyType(key)}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func keyType(key string) tea.KeyType {
	switch key {
	case "up":
		return tea.KeyUp
	case "down":
		return tea.KeyDown
	case "left":
		return tea.KeyLeft
	case "right":
		return tea.KeyRight
	case "esc":
		return tea.KeyEsc
	case "enter":
		return tea.KeyEnter
	}
	return tea.KeyRunes
}

func addExchanges(m Model, n int) Model {
	for i := 0; i < n; i++ {
		updated, _ := m.Update(ExchangeMsg(domain.Exchange{
			ID:        fmt.Sprintf("ex-%d", i),
			Timestamp: time.Now(),
			Request:   domain.Request{Method: "GET", Path: fmt.Sprintf("/p/%d", i)},
			Response:  &domain.Response{StatusCode: 200},
		}))
		m = updated.(Model)
	}
	return m
}

func TestModel_View(t *testing.T) {
	t.Run("placeholder before the first size message", func(t *testing.T) {
		h := history.New(5)
		m := NewModel(h, render.Config{}, nil)

		assert.Equal(t, "Initializing...", m.View())
	})

	t.Run("renders the frame after initialization", func(t *testing.T) {
		m, _ := newTestModel(t, 5)

		view := render.StripStyles(m.View())
		assert.Contains(t, view, "peek")
		assert.Contains(t, view, "waiting for exchanges")
	})
}

func TestModel_Keys(t *testing.T) {
	t.Run("quit keys produce the quit command", func(t *testing.T) {
		m, _ := newTestModel(t, 5)

		for _, key := range []string{"q"} {
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
			require.NotNil(t, cmd, "key %q", key)
			assert.Equal(t, tea.Quit(), cmd())
		}

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})

	t.Run("plus and minus change the level", func(t *testing.T) {
		m, _ := newTestModel(t, 5)

		m = sendKey(m, "+")
		assert.Equal(t, format.DetailLevel(4), m.Renderer().Level())

		m = sendKey(m, "-")
		m = sendKey(m, "-")
		assert.Equal(t, format.DetailLevel(2), m.Renderer().Level())
	})

	t.Run("digit keys jump straight to a level", func(t *testing.T) {
		m, _ := newTestModel(t, 5)

		m = sendKey(m, "6")
		assert.Equal(t, format.MaxLevel, m.Renderer().Level())

		m = sendKey(m, "1")
		assert.Equal(t, format.MinLevel, m.Renderer().Level())
	})

	t.Run("arrows drive the selection", func(t *testing.T) {
		m, _ := newTestModel(t, 5)
		m = addExchanges(m, 3)

		m = sendKey(m, "up")
		idx, ok := m.Renderer().SelectedIndex()
		require.True(t, ok)
		assert.Equal(t, 2, idx)

		m = sendKey(m, "up")
		idx, _ = m.Renderer().SelectedIndex()
		assert.Equal(t, 1, idx)

		m = sendKey(m, "down")
		idx, _ = m.Renderer().SelectedIndex()
		assert.Equal(t, 2, idx)

		m = sendKey(m, "esc")
		assert.False(t, m.Renderer().SelectionActive())
	})

	t.Run("vi keys mirror the arrows", func(t *testing.T) {
		m, _ := newTestModel(t, 5)
		m = addExchanges(m, 2)

		m = sendKey(m, "k")
		assert.True(t, m.Renderer().SelectionActive())

		m = sendKey(m, "l")
		assert.Equal(t, format.DetailLevel(4), m.Renderer().Level())

		m = sendKey(m, "h")
		assert.Equal(t, format.DetailLevel(3), m.Renderer().Level())
	})
}

func TestModel_Exchanges(t *testing.T) {
	t.Run("exchange messages land in history and on screen", func(t *testing.T) {
		m, h := newTestModel(t, 5)

		m = addExchanges(m, 2)

		assert.Equal(t, 2, h.Size())
		assert.Contains(t, render.StripStyles(m.View()), "GET /p/1")
	})

	t.Run("eviction flows through to the renderer", func(t *testing.T) {
		m, h := newTestModel(t, 2)
		m = addExchanges(m, 2)

		m = sendKey(m, "up") // select newest (index 1)
		m = addExchanges(m, 1)

		idx, ok := m.Renderer().SelectedIndex()
		require.True(t, ok)
		assert.Equal(t, 0, idx)
		assert.Equal(t, 2, h.Size())
	})
}

func TestModel_Inspect(t *testing.T) {
	t.Run("inspects the selected exchange", func(t *testing.T) {
		h := history.New(5)
		insp := &fakeInspector{path: "doc.html"}
		m := NewModel(h, render.Config{Level: format.Of(3)}, insp)
		updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		m = updated.(Model)
		m = addExchanges(m, 3)
		m = sendKey(m, "up")
		m = sendKey(m, "up") // index 1

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
		require.NotNil(t, cmd)

		msg := cmd()
		result, ok := msg.(InspectResultMsg)
		require.True(t, ok)
		assert.Equal(t, "doc.html", result.Path)
		require.Len(t, insp.inspected, 1)
		assert.Equal(t, "ex-1", insp.inspected[0].ID)
	})

	t.Run("without a selection the newest exchange is inspected", func(t *testing.T) {
		h := history.New(5)
		insp := &fakeInspector{path: "doc.html"}
		m := NewModel(h, render.Config{Level: format.Of(3)}, insp)
		updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		m = updated.(Model)
		m = addExchanges(m, 2)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		cmd()

		require.Len(t, insp.inspected, 1)
		assert.Equal(t, "ex-1", insp.inspected[0].ID)
	})

	t.Run("inspect on empty history is a no-op", func(t *testing.T) {
		m, _ := newTestModel(t, 5)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
		assert.Nil(t, cmd)
	})

	t.Run("result message surfaces in the footer", func(t *testing.T) {
		m, _ := newTestModel(t, 5)
		m = addExchanges(m, 1)

		updated, cmd := m.Update(InspectResultMsg{Path: "peek-exports/doc.html"})
		m = updated.(Model)

		assert.NotNil(t, cmd, "schedules the note clear")
		assert.Contains(t, render.StripStyles(m.View()), "saved peek-exports/doc.html")
	})

	t.Run("failures surface too", func(t *testing.T) {
		m, _ := newTestModel(t, 5)

		updated, _ := m.Update(InspectResultMsg{Err: errors.New("disk full")})
		m = updated.(Model)

		assert.Contains(t, render.StripStyles(m.View()), "inspect failed: disk full")
	})

	t.Run("note clears on the timer message", func(t *testing.T) {
		m, _ := newTestModel(t, 5)
		updated, _ := m.Update(InspectResultMsg{Path: "x.html"})
		m = updated.(Model)

		updated, _ = m.Update(noteClearMsg{})
		m = updated.(Model)

		assert.False(t, strings.Contains(render.StripStyles(m.View()), "saved x.html"))
	})
}

func TestModel_Resize(t *testing.T) {
	m, _ := newTestModel(t, 5)
	m = addExchanges(m, 1)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = updated.(Model)

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 10)
	for _, line := range lines {
		assert.LessOrEqual(t, render.VisibleWidth(line), 40)
	}
}

package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/peekproxy/peek/internal/domain"
	"github.com/peekproxy/peek/internal/format"
	"github.com/peekproxy/peek/internal/history"
	"github.com/peekproxy/peek/internal/render"
)

// Inspector generates a browsable document for one exchange. The TUI hands
// it the selected exchange when the inspect command fires; it returns the
// written document path.
type Inspector interface {
	Inspect(ex domain.Exchange) (string, error)
}

// Model is the bubbletea model for the viewer. It owns the frame the
// renderer draws into and translates terminal events into renderer events.
type Model struct {
	history   *history.History
	frame     *render.Frame
	layout    *render.Layout
	renderer  *render.Renderer
	inspector Inspector

	spinner spinner.Model
	ready   bool
}

// NewModel creates the viewer model.
func NewModel(h *history.History, cfg render.Config, inspector Inspector) Model {
	scheme := render.NewScheme()
	frame := render.NewFrame(1)
	layout := render.NewLayout(frame, scheme, render.Size{Rows: 1, Cols: 1})
	formatter := format.NewFormatter(scheme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		history:   h,
		frame:     frame,
		layout:    layout,
		renderer:  render.New(h, formatter, layout, scheme, cfg),
		inspector: inspector,
		spinner:   sp,
	}
}

// Init starts the waiting spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Renderer exposes the interaction state machine, used by tests and by the
// outer coordinator for the inspect flow.
func (m Model) Renderer() *render.Renderer {
	return m.renderer
}

// ExchangeMsg is sent when the proxy completes a forward.
type ExchangeMsg domain.Exchange

// InspectResultMsg is sent when an inspect document has been written.
type InspectResultMsg struct {
	Path string
	Err  error
}

// noteClearMsg clears the footer note after a delay.
type noteClearMsg struct{}

// noteClearDelay is how long inspect feedback stays in the footer.
const noteClearDelay = 4 * time.Second

func noteClearCmd() tea.Cmd {
	return tea.Tick(noteClearDelay, func(time.Time) tea.Msg {
		return noteClearMsg{}
	})
}

package render

import (
	"github.com/peekproxy/peek/internal/domain"
	"github.com/peekproxy/peek/internal/format"
	"github.com/peekproxy/peek/internal/history"
)

// Event is a normalized input command delivered to the renderer. The
// renderer never sees raw key codes.
type Event int

const (
	EventIncrement Event = iota
	EventDecrement
	EventSelectUp
	EventSelectDown
	EventResetSelection
)

// waitingPlaceholder is shown when no exchanges have arrived yet.
const waitingPlaceholder = "waiting for exchanges"

// selection is the navigation state. index is meaningful only when active;
// it always names a valid position in the current history.
type selection struct {
	active bool
	index  int
}

// Config carries the static addressing and storage info shown in the
// header and footer.
type Config struct {
	From        string
	To          string
	StoragePath string
	Level       format.DetailLevel
}

// Renderer is the interaction state machine. It owns the current detail
// level and selection, subscribes to exchange and resize events, and
// orchestrates full-screen redraws. All methods are called from a single
// dispatch flow; no operation blocks or fails.
type Renderer struct {
	history   *history.History
	formatter *format.Formatter
	layout    *Layout
	scheme    *Scheme

	level format.DetailLevel
	sel   selection

	from        string
	to          string
	storagePath string

	waiting string // spinner frame shown next to the empty placeholder
	note    string // transient footer note (inspect feedback)
}

// New creates a renderer over the given history and layout.
func New(h *history.History, f *format.Formatter, l *Layout, scheme *Scheme, cfg Config) *Renderer {
	level := cfg.Level
	if level == 0 {
		level = format.Of(3)
	}
	return &Renderer{
		history:     h,
		formatter:   f,
		layout:      l,
		scheme:      scheme,
		level:       format.Of(int(level)),
		from:        cfg.From,
		to:          cfg.To,
		storagePath: cfg.StoragePath,
	}
}

// Initialize clears the full screen and performs the first redraw. Call
// exactly once per session, before any incremental updates.
func (r *Renderer) Initialize() {
	r.layout.ClearScreen()
	r.Redraw()
}

// Level returns the current detail level.
func (r *Renderer) Level() format.DetailLevel {
	return r.level
}

// SelectionActive reports whether an item is selected.
func (r *Renderer) SelectionActive() bool {
	return r.sel.active
}

// SelectedIndex returns the selected history index. The second return
// value is false when no selection is active.
func (r *Renderer) SelectedIndex() (int, bool) {
	if !r.sel.active {
		return 0, false
	}
	return r.sel.index, true
}

// SetNote sets a transient footer note and redraws.
func (r *Renderer) SetNote(note string) {
	r.note = note
	r.Redraw()
}

// SetWaiting updates the placeholder indicator shown while the history is
// empty. Redraws only when the placeholder is visible.
func (r *Renderer) SetWaiting(indicator string) {
	r.waiting = indicator
	if r.history.Size() == 0 {
		r.Redraw()
	}
}

// Dispatch routes a normalized input command through the transition table.
func (r *Renderer) Dispatch(ev Event) {
	switch ev {
	case EventIncrement:
		r.SetLevel(r.level.Inc())
	case EventDecrement:
		r.SetLevel(r.level.Dec())
	case EventSelectUp:
		r.selectUp()
	case EventSelectDown:
		r.selectDown()
	case EventResetSelection:
		r.resetSelection()
	}
}

// SetLevel switches the detail level. Setting the current level is a
// no-op with no redraw. Selection is preserved across level changes.
func (r *Renderer) SetLevel(level format.DetailLevel) {
	level = format.Of(int(level))
	if level == r.level {
		return
	}
	r.level = level
	r.Redraw()
}

// selectUp moves the selection toward older exchanges. From an inactive
// selection it lands on the newest item; at index 0 it is a no-op.
func (r *Renderer) selectUp() {
	size := r.history.Size()
	if !r.sel.active {
		if size == 0 {
			return
		}
		r.sel = selection{active: true, index: size - 1}
	} else if r.sel.index > 0 {
		r.sel.index--
	} else {
		return
	}
	r.Redraw()
}

// selectDown moves the selection toward newer exchanges; moving past the
// newest item deactivates the selection.
func (r *Renderer) selectDown() {
	if !r.sel.active {
		return
	}
	if r.sel.index < r.history.Size()-1 {
		r.sel.index++
	} else {
		r.sel = selection{}
	}
	r.Redraw()
}

// resetSelection clears an active selection.
func (r *Renderer) resetSelection() {
	if !r.sel.active {
		return
	}
	r.sel = selection{}
	r.Redraw()
}

// OnNewExchange handles a new exchange that was just added to the history.
// An active selection keeps naming the same logical item: appends leave
// the index untouched, and an eviction slides it down by one (the new
// oldest item inherits the selection when the selected one was evicted).
func (r *Renderer) OnNewExchange(evicted bool) {
	if evicted && r.sel.active && r.sel.index > 0 {
		r.sel.index--
	}
	r.Redraw()
}

// OnResize re-renders against new terminal dimensions.
func (r *Renderer) OnResize(size Size) {
	r.layout.Resize(size)
	r.Redraw()
}

// Redraw repaints the whole screen: header, viewport body, footer. Header
// and footer are always freshly drawn even when the body is empty.
func (r *Renderer) Redraw() {
	r.layout.RenderHeader(r.from, r.to, r.level)
	r.layout.ClearViewport()
	r.renderBody()

	var nav *NavState
	if r.sel.active {
		nav = &NavState{Position: r.sel.index + 1, Total: r.history.Size()}
	}
	r.layout.RenderFooter(r.history.Size(), r.history.Capacity(), r.storagePath, r.note, nav)
}

func (r *Renderer) renderBody() {
	all := r.history.GetAll()
	if len(all) == 0 {
		placeholder := waitingPlaceholder
		if r.waiting != "" {
			placeholder = r.waiting + " " + waitingPlaceholder
		}
		r.layout.WriteViewportLine(0, r.scheme.Dim(placeholder))
		return
	}

	if r.level == format.Of(1) {
		r.renderPacked(len(all))
		return
	}
	r.renderFlattened(all)
}

// renderPacked draws the level-1 view: one glyph per exchange, packed as
// many per line as fit, with the window centered on the selected glyph's
// line when a selection is active.
func (r *Renderer) renderPacked(count int) {
	reg := r.layout.Regions()
	perLine := reg.Width - 2
	if perLine < 1 {
		perLine = 1
	}

	var lines []string
	var current string
	for i := 0; i < count; i++ {
		ex, ok := r.history.GetByIndex(i)
		if !ok {
			continue
		}
		glyph := r.formatter.Format(ex, format.Of(1)).Lines[0]
		if r.sel.active && i == r.sel.index {
			glyph = r.scheme.Selected(format.Marker)
		}
		current += glyph
		if (i+1)%perLine == 0 {
			lines = append(lines, current)
			current = ""
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	start := 0
	if len(lines) > reg.ViewportHeight {
		if r.sel.active {
			selectedLine := r.sel.index / perLine
			start = clampWindow(selectedLine-reg.ViewportHeight/2, len(lines), reg.ViewportHeight)
		} else {
			start = len(lines) - reg.ViewportHeight
		}
	}

	for row, i := 0, start; i < len(lines); i, row = i+1, row+1 {
		if !r.layout.WriteViewportLine(row, lines[i]) {
			break
		}
	}
}

// taggedLine is one display line flattened out of the formatted history,
// tagged with whether it belongs to the selected exchange.
type taggedLine struct {
	text     string
	selected bool
}

// renderFlattened draws levels 2-6: every item's lines in one global
// sequence, windowed so the selected item is always fully visible.
func (r *Renderer) renderFlattened(all []domain.Exchange) {
	reg := r.layout.Regions()

	var flat []taggedLine
	selStart, selEnd := -1, -1
	for i, ex := range all {
		item := r.formatter.Format(ex, r.level)
		selected := r.sel.active && i == r.sel.index
		if selected {
			selStart = len(flat)
			selEnd = selStart + item.LineCount - 1
		}
		for _, line := range item.Lines {
			flat = append(flat, taggedLine{text: line, selected: selected})
		}
	}

	start := r.windowStart(len(flat), reg.ViewportHeight, selStart, selEnd)
	for row, i := 0, start; i < len(flat); i, row = i+1, row+1 {
		text := flat[i].text
		if flat[i].selected {
			text = r.scheme.Selected(StripStyles(text))
		}
		if !r.layout.WriteViewportLine(row, text) {
			break
		}
	}
}

// windowStart picks the first visible flattened line. Without a selection
// (or when everything fits) it shows the tail; with a selection it centers
// on the selected span and then force-adjusts so the span is never
// partially hidden, even at the cost of off-centering.
func (r *Renderer) windowStart(total, height, selStart, selEnd int) int {
	if total <= height {
		return 0
	}
	if !r.sel.active || selStart < 0 {
		return total - height
	}

	span := selEnd - selStart + 1
	if span >= height {
		return clampWindow(selStart, total, height)
	}

	mid := (selStart + selEnd) / 2
	start := clampWindow(mid-height/2, total, height)
	if selStart < start {
		start = selStart
	}
	if selEnd >= start+height {
		start = selEnd - height + 1
	}
	return clampWindow(start, total, height)
}

// clampWindow keeps a window of the given height inside [0, total).
func clampWindow(start, total, height int) int {
	if start > total-height {
		start = total - height
	}
	if start < 0 {
		start = 0
	}
	return start
}

// Package render owns the terminal screen: styles, layout, and the
// interaction state machine that reconciles live exchanges with user
// navigation.
package render

import (
	"fmt"

	"github.com/peekproxy/peek/internal/format"
)

// Size is the terminal dimensions in character cells.
type Size struct {
	Rows int
	Cols int
}

// Regions describes the fixed screen layout for a terminal size: a one-row
// header, a one-row footer, and the scrollable viewport between them.
type Regions struct {
	HeaderRow      int // always 1
	FooterRow      int // last row
	ViewportTop    int // first viewport row
	ViewportHeight int // max(1, rows-2)
	Width          int
}

// RegionsFor computes the screen regions for a terminal size. Zero or
// negative dimensions are floored to 1.
func RegionsFor(size Size) Regions {
	rows := size.Rows
	if rows < 1 {
		rows = 1
	}
	cols := size.Cols
	if cols < 1 {
		cols = 1
	}
	height := rows - 2
	if height < 1 {
		height = 1
	}
	return Regions{
		HeaderRow:      1,
		FooterRow:      rows,
		ViewportTop:    2,
		ViewportHeight: height,
		Width:          cols,
	}
}

// NavState carries the active selection position for the footer indicator.
// Position is 1-based.
type NavState struct {
	Position int
	Total    int
}

// Layout writes into the fixed screen regions without disturbing the
// others. All text is width-truncated with style-aware accounting before
// being written.
type Layout struct {
	term   Terminal
	scheme *Scheme
	size   Size
}

// NewLayout creates a layout drawing through the given terminal.
func NewLayout(term Terminal, scheme *Scheme, size Size) *Layout {
	return &Layout{term: term, scheme: scheme, size: size}
}

// Resize records new terminal dimensions. Geometry is recomputed on the
// next draw call.
func (l *Layout) Resize(size Size) {
	l.size = size
}

// Regions returns the current screen regions.
func (l *Layout) Regions() Regions {
	return RegionsFor(l.size)
}

// RenderHeader draws the header row: brand marker, "from → to" addressing,
// and the current detail level.
func (l *Layout) RenderHeader(from, to string, level format.DetailLevel) {
	reg := l.Regions()
	header := fmt.Sprintf("%s  %s %s %s  %s",
		l.scheme.Brand("peek"),
		from,
		l.scheme.Dim("→"),
		to,
		l.scheme.Level(level.String()),
	)

	l.term.MoveTo(reg.HeaderRow)
	l.term.ClearLine()
	l.term.Write(TruncateVisible(header, reg.Width))
}

// RenderFooter draws the footer row: exchange count against capacity, the
// storage location, key bindings, and the selection indicator when
// navigation is active. An optional note (such as an export result) is
// appended. The line is truncated to the terminal width.
func (l *Layout) RenderFooter(count, capacity int, storagePath, note string, nav *NavState) {
	reg := l.Regions()

	footer := fmt.Sprintf("%d/%d exchanges", count, capacity)
	if storagePath != "" {
		footer += l.scheme.Dim("  db:"+storagePath)
	}
	if nav != nil {
		footer += fmt.Sprintf("  [%d/%d]", nav.Position, nav.Total)
		footer += l.scheme.Dim("  ↑/↓ move  i inspect  esc clear")
	} else {
		footer += l.scheme.Dim("  +/- detail  ↑ select  q quit")
	}
	if note != "" {
		footer += "  " + note
	}

	l.term.MoveTo(reg.FooterRow)
	l.term.ClearLine()
	l.term.Write(TruncateVisible(footer, reg.Width))
}

// ClearViewport blanks every viewport row and leaves the cursor on the
// first one. Header and footer rows are untouched.
func (l *Layout) ClearViewport() {
	reg := l.Regions()
	for i := reg.ViewportHeight - 1; i >= 0; i-- {
		l.term.MoveTo(reg.ViewportTop + i)
		l.term.ClearLine()
	}
}

// WriteViewportLine writes text at the given viewport-relative row
// (0 = first viewport row). It returns false without writing when the row
// falls outside the viewport; callers must check this instead of
// precomputing bounds, since geometry can change between calls.
func (l *Layout) WriteViewportLine(row int, text string) bool {
	reg := l.Regions()
	if row < 0 || row >= reg.ViewportHeight {
		return false
	}
	l.term.MoveTo(reg.ViewportTop + row)
	l.term.ClearLine()
	l.term.Write(TruncateVisible(text, reg.Width))
	return true
}

// ClearScreen blanks every row, header and footer included.
func (l *Layout) ClearScreen() {
	reg := l.Regions()
	for row := reg.FooterRow; row >= reg.HeaderRow; row-- {
		l.term.MoveTo(row)
		l.term.ClearLine()
	}
}

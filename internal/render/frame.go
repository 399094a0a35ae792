package render

import "strings"

// Terminal is the output binding the layout draws through. Rows are
// 1-based. Implementations translate these calls into whatever control
// mechanism the environment uses; the core never writes raw bytes.
type Terminal interface {
	// MoveTo positions the cursor at the start of a row.
	MoveTo(row int)
	// ClearLine blanks the current row.
	ClearLine()
	// Write replaces the current row's content.
	Write(text string)
}

// Frame is a line-addressed Terminal backed by an in-memory grid. The TUI
// flushes it through bubbletea, whose renderer emits the actual cursor
// movement and line clearing; tests inspect it directly.
type Frame struct {
	rows   []string
	cursor int // 0-based row index
}

// NewFrame creates a frame with the given number of rows.
func NewFrame(rows int) *Frame {
	if rows < 1 {
		rows = 1
	}
	return &Frame{rows: make([]string, rows)}
}

// Resize grows or shrinks the frame, preserving existing rows where
// possible.
func (f *Frame) Resize(rows int) {
	if rows < 1 {
		rows = 1
	}
	next := make([]string, rows)
	copy(next, f.rows)
	f.rows = next
	if f.cursor >= rows {
		f.cursor = rows - 1
	}
}

// MoveTo positions the cursor at a 1-based row, clamped to the frame.
func (f *Frame) MoveTo(row int) {
	idx := row - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(f.rows) {
		idx = len(f.rows) - 1
	}
	f.cursor = idx
}

// ClearLine blanks the cursor row.
func (f *Frame) ClearLine() {
	f.rows[f.cursor] = ""
}

// Write replaces the cursor row's content.
func (f *Frame) Write(text string) {
	f.rows[f.cursor] = text
}

// Rows returns the number of rows in the frame.
func (f *Frame) Rows() int {
	return len(f.rows)
}

// Line returns the content of a 1-based row, or "" when out of range.
func (f *Frame) Line(row int) string {
	idx := row - 1
	if idx < 0 || idx >= len(f.rows) {
		return ""
	}
	return f.rows[idx]
}

// String assembles the frame for display.
func (f *Frame) String() string {
	return strings.Join(f.rows, "\n")
}

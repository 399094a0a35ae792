package tui

// View flushes the frame the renderer drew into. bubbletea's renderer
// turns the frame diff into cursor movement and line rewrites.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.frame.String()
}

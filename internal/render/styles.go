package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/peekproxy/peek/internal/domain"
)

// Colors
var (
	// Status category colors
	informationalColor = lipgloss.Color("14") // Cyan
	successColor       = lipgloss.Color("10") // Green
	redirectColor      = lipgloss.Color("11") // Yellow
	clientErrorColor   = lipgloss.Color("208") // Orange
	serverErrorColor   = lipgloss.Color("9")  // Red
	unreachableColor   = lipgloss.Color("8")  // Gray

	// UI colors
	brandColor = lipgloss.Color("13") // Magenta
	dimColor   = lipgloss.Color("8")
)

// Scheme maps status categories to terminal styles and provides the
// selection highlight. All styling outside the truncation routine goes
// through it.
type Scheme struct {
	categories map[domain.StatusCategory]lipgloss.Style
	selection  lipgloss.Style
	brand      lipgloss.Style
	level      lipgloss.Style
	dim        lipgloss.Style
	fallback   lipgloss.Style
}

// NewScheme builds the default color scheme.
func NewScheme() *Scheme {
	return &Scheme{
		categories: map[domain.StatusCategory]lipgloss.Style{
			domain.CategoryInformational: lipgloss.NewStyle().Foreground(informationalColor),
			domain.CategorySuccess:       lipgloss.NewStyle().Foreground(successColor),
			domain.CategoryRedirect:      lipgloss.NewStyle().Foreground(redirectColor),
			domain.CategoryClientError:   lipgloss.NewStyle().Foreground(clientErrorColor).Bold(true),
			domain.CategoryServerError:   lipgloss.NewStyle().Foreground(serverErrorColor).Bold(true),
			domain.CategoryUnreachable:   lipgloss.NewStyle().Foreground(unreachableColor),
		},
		selection: lipgloss.NewStyle().Reverse(true),
		brand:     lipgloss.NewStyle().Foreground(brandColor).Bold(true),
		level:     lipgloss.NewStyle().Foreground(redirectColor).Bold(true),
		dim:       lipgloss.NewStyle().Foreground(dimColor),
		fallback:  lipgloss.NewStyle(),
	}
}

// Wrap renders text in the style for a status category.
func (s *Scheme) Wrap(cat domain.StatusCategory, text string) string {
	if style, ok := s.categories[cat]; ok {
		return style.Render(text)
	}
	return s.fallback.Render(text)
}

// Selected renders text with the selection highlight. Input should be
// style-free; the highlight covers the whole line uniformly.
func (s *Scheme) Selected(text string) string {
	return s.selection.Render(text)
}

// Brand renders the header brand marker.
func (s *Scheme) Brand(text string) string {
	return s.brand.Render(text)
}

// Level renders the detail level indicator.
func (s *Scheme) Level(text string) string {
	return s.level.Render(text)
}

// Dim renders secondary text (footer hints, addressing).
func (s *Scheme) Dim(text string) string {
	return s.dim.Render(text)
}

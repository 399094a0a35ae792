package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/peekproxy/peek/internal/constants"
	"github.com/peekproxy/peek/internal/domain"
)

// Marker is the presence glyph emitted at level 1.
const Marker = "•"

// StatusPlaceholder replaces the numeric code when the target was unreachable.
const StatusPlaceholder = "---"

// TruncationMark is appended to body previews that were cut.
const TruncationMark = "..."

// Styler wraps text in the terminal style for a status category. The
// formatter never touches escape codes itself.
type Styler interface {
	Wrap(cat domain.StatusCategory, text string) string
}

// Formatted is the renderable form of one exchange at one detail level.
type Formatted struct {
	Lines     []string
	LineCount int
	Category  domain.StatusCategory
}

// Formatter maps (exchange, level) to display lines. It is independent of
// screen size; callers fit the output into the viewport.
type Formatter struct {
	styles     Styler
	previewLen int
}

// NewFormatter creates a formatter using the given styler.
func NewFormatter(styles Styler) *Formatter {
	return &Formatter{
		styles:     styles,
		previewLen: constants.BodyPreviewLength,
	}
}

// Format renders one exchange at the given detail level.
func (f *Formatter) Format(ex domain.Exchange, level DetailLevel) Formatted {
	cat := domain.Categorize(ex.Response)

	var lines []string
	switch Of(int(level)) {
	case 1:
		lines = []string{f.styles.Wrap(cat, Marker)}
	case 2:
		lines = []string{f.summaryLine(ex, cat, false, false)}
	case 3:
		lines = []string{f.summaryLine(ex, cat, true, false)}
	case 4:
		lines = f.headerLines(ex, cat)
		lines = append(lines, "")
	case 5:
		lines = f.headerLines(ex, cat)
		lines = append(lines, f.bodyPreviewLines(ex)...)
		lines = append(lines, "")
	case 6:
		lines = f.headerLines(ex, cat)
		lines = append(lines, f.bodyFullLines(ex)...)
		lines = append(lines, "")
	}

	return Formatted{
		Lines:     lines,
		LineCount: len(lines),
		Category:  cat,
	}
}

// CalculateTotalLines sums line counts across a formatted sequence.
func CalculateTotalLines(items []Formatted) int {
	total := 0
	for _, it := range items {
		total += it.LineCount
	}
	return total
}

// summaryLine builds the "[time] status" line, optionally with method/path
// and a duration suffix.
func (f *Formatter) summaryLine(ex domain.Exchange, cat domain.StatusCategory, withRequest, withDuration bool) string {
	status := StatusPlaceholder
	if ex.Response != nil {
		status = strconv.Itoa(ex.Response.StatusCode)
	}

	line := fmt.Sprintf("[%s] %s", ex.Timestamp.Local().Format("15:04:05"), f.styles.Wrap(cat, status))
	if withRequest {
		line += " " + ex.Request.Method + " " + ex.Request.Path
	}
	if withDuration && ex.HasDuration() {
		line += fmt.Sprintf(" (%dms)", ex.DurationMs)
	}
	return line
}

// headerLines builds the level-4 block without its trailing separator.
func (f *Formatter) headerLines(ex domain.Exchange, cat domain.StatusCategory) []string {
	lines := []string{f.summaryLine(ex, cat, true, true)}

	lines = append(lines, "Request Headers:")
	lines = append(lines, headerDump(ex.Request.Headers)...)

	if ex.Response != nil {
		lines = append(lines, "Response Headers:")
		lines = append(lines, headerDump(ex.Response.Headers)...)
	}
	return lines
}

// headerDump renders a header map as sorted "key: value" lines.
func headerDump(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, "  "+k+": "+headers[k])
	}
	return lines
}

func (f *Formatter) bodyPreviewLines(ex domain.Exchange) []string {
	var lines []string
	if ex.Request.Body != "" {
		lines = append(lines, "Request Body:", f.preview(ex.Request.Body))
	}
	if ex.Response != nil && ex.Response.Body != "" {
		lines = append(lines, "Response Body:", f.preview(ex.Response.Body))
	}
	return lines
}

func (f *Formatter) bodyFullLines(ex domain.Exchange) []string {
	var lines []string
	if ex.Request.Body != "" {
		lines = append(lines, "Request Body:")
		lines = append(lines, splitBody(ex.Request.Body)...)
	}
	if ex.Response != nil && ex.Response.Body != "" {
		lines = append(lines, "Response Body:")
		lines = append(lines, splitBody(ex.Response.Body)...)
	}
	return lines
}

// preview collapses embedded line breaks to spaces and truncates to the
// preview budget, marking the cut.
func (f *Formatter) preview(body string) string {
	collapsed := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(body)
	if utf8.RuneCountInString(collapsed) <= f.previewLen {
		return collapsed
	}
	runes := []rune(collapsed)
	return string(runes[:f.previewLen]) + TruncationMark
}

// splitBody emits one line per physical body line, unmodified.
func splitBody(body string) []string {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	return strings.Split(strings.TrimRight(normalized, "\n"), "\n")
}

// Package export renders captured exchanges to standalone HTML documents.
package export

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/peekproxy/peek/internal/domain"
)

// Generator writes browsable documents for captured exchanges.
type Generator struct {
	dir  string
	tmpl *template.Template
}

// NewGenerator creates a generator writing into dir (created on demand).
func NewGenerator(dir string) *Generator {
	return &Generator{
		dir:  dir,
		tmpl: template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// Inspect writes a document for a single exchange and returns its path.
// It satisfies the TUI's inspector boundary.
func (g *Generator) Inspect(ex domain.Exchange) (string, error) {
	name := fmt.Sprintf("exchange-%s-%s.html", ex.Timestamp.Format("150405"), shortID(ex.ID))
	return g.write(name, []domain.Exchange{ex})
}

// Generate writes a document covering a whole capture.
func (g *Generator) Generate(exchanges []domain.Exchange, name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("capture-%s.html", time.Now().Format("20060102-150405"))
	}
	return g.write(name, exchanges)
}

func (g *Generator) write(name string, exchanges []domain.Exchange) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	views := make([]exchangeView, 0, len(exchanges))
	for _, ex := range exchanges {
		views = append(views, newExchangeView(ex))
	}

	path := filepath.Join(g.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	data := reportData{
		GeneratedAt: time.Now().Format(time.RFC1123),
		Exchanges:   views,
	}
	if err := g.tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}
	return path, nil
}

type reportData struct {
	GeneratedAt string
	Exchanges   []exchangeView
}

type exchangeView struct {
	ID          string
	Time        string
	Method      string
	Path        string
	Status      string
	Category    domain.StatusCategory
	Duration    string
	ReqHeaders  []headerView
	RespHeaders []headerView
	ReqBody     string
	RespBody    string
	Unreachable bool
}

type headerView struct {
	Key   string
	Value string
}

func newExchangeView(ex domain.Exchange) exchangeView {
	v := exchangeView{
		ID:         ex.ID,
		Time:       ex.Timestamp.Local().Format("15:04:05"),
		Method:     ex.Request.Method,
		Path:       ex.Request.Path,
		Category:   domain.Categorize(ex.Response),
		ReqHeaders: sortedHeaders(ex.Request.Headers),
		ReqBody:    ex.Request.Body,
	}
	if ex.Response == nil {
		v.Status = "unreachable"
		v.Unreachable = true
	} else {
		v.Status = fmt.Sprintf("%d", ex.Response.StatusCode)
		v.RespHeaders = sortedHeaders(ex.Response.Headers)
		v.RespBody = ex.Response.Body
	}
	if ex.HasDuration() {
		v.Duration = fmt.Sprintf("%dms", ex.DurationMs)
	}
	return v
}

func sortedHeaders(headers map[string]string) []headerView {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	views := make([]headerView, 0, len(keys))
	for _, k := range keys {
		views = append(views, headerView{Key: k, Value: headers[k]})
	}
	return views
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>peek capture</title>
<style>
body { font-family: ui-monospace, monospace; margin: 2em; background: #1e1e1e; color: #ddd; }
h1 { font-size: 1.2em; }
.exchange { border: 1px solid #444; border-radius: 4px; margin: 1em 0; padding: 1em; }
.summary { font-weight: bold; }
.status-success { color: #6c6; }
.status-redirect { color: #cc6; }
.status-client-error { color: #e96; }
.status-server-error { color: #e66; }
.status-informational { color: #6cc; }
.status-unreachable { color: #888; }
table { border-collapse: collapse; margin: 0.5em 0; }
td { padding: 0.1em 0.8em 0.1em 0; vertical-align: top; }
td.key { color: #8ac; }
pre { background: #2a2a2a; padding: 0.6em; overflow-x: auto; }
.meta { color: #888; }
</style>
</head>
<body>
<h1>peek capture</h1>
<p class="meta">generated {{.GeneratedAt}}, {{len .Exchanges}} exchange(s)</p>
{{range .Exchanges}}
<div class="exchange">
  <div class="summary">
    [{{.Time}}] <span class="status-{{.Category}}">{{.Status}}</span>
    {{.Method}} {{.Path}}{{if .Duration}} <span class="meta">({{.Duration}})</span>{{end}}
  </div>
  <h3>Request Headers</h3>
  <table>{{range .ReqHeaders}}<tr><td class="key">{{.Key}}</td><td>{{.Value}}</td></tr>{{end}}</table>
  {{if .ReqBody}}<h3>Request Body</h3><pre>{{.ReqBody}}</pre>{{end}}
  {{if .Unreachable}}
  <p class="status-unreachable">target unreachable, no response</p>
  {{else}}
  <h3>Response Headers</h3>
  <table>{{range .RespHeaders}}<tr><td class="key">{{.Key}}</td><td>{{.Value}}</td></tr>{{end}}</table>
  {{if .RespBody}}<h3>Response Body</h3><pre>{{.RespBody}}</pre>{{end}}
  {{end}}
</div>
{{end}}
</body>
</html>
`

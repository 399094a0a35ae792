package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekproxy/peek/internal/domain"
)

func exportedExchange() domain.Exchange {
	return domain.Exchange{
		ID:        "abcdef1234567890",
		Timestamp: time.Date(2026, 8, 23, 11, 22, 33, 0, time.Local),
		Request: domain.Request{
			Method:  "GET",
			Path:    "/health",
			Headers: map[string]string{"Accept": "application/json"},
		},
		Response: &domain.Response{
			StatusCode: 200,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"ok":true}`,
		},
		DurationMs: 4,
	}
}

func TestGenerator_Inspect(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir)

	path, err := g.Inspect(exportedExchange())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "exchange-112233-abcdef12.html"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(content)

	assert.Contains(t, html, "GET /health")
	assert.Contains(t, html, "status-success")
	assert.Contains(t, html, "(4ms)")
	assert.Contains(t, html, `{&#34;ok&#34;:true}`)
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("writes a multi-exchange report", func(t *testing.T) {
		dir := t.TempDir()
		g := NewGenerator(dir)

		a := exportedExchange()
		b := exportedExchange()
		b.ID = "second"
		b.Request.Path = "/other"

		path, err := g.Generate([]domain.Exchange{a, b}, "report.html")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "report.html"), path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "2 exchange(s)")
		assert.Contains(t, string(content), "/other")
	})

	t.Run("empty name gets a timestamped default", func(t *testing.T) {
		g := NewGenerator(t.TempDir())

		path, err := g.Generate([]domain.Exchange{exportedExchange()}, "")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filepath.Base(path), "capture-"))
		assert.True(t, strings.HasSuffix(path, ".html"))
	})

	t.Run("creates the output directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "deep", "exports")
		g := NewGenerator(dir)

		_, err := g.Generate([]domain.Exchange{exportedExchange()}, "x.html")
		require.NoError(t, err)

		_, err = os.Stat(dir)
		assert.NoError(t, err)
	})
}

func TestGenerator_UnreachableExchange(t *testing.T) {
	g := NewGenerator(t.TempDir())

	ex := exportedExchange()
	ex.Response = nil
	ex.DurationMs = -1

	path, err := g.Inspect(ex)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(content)

	assert.Contains(t, html, "target unreachable")
	assert.Contains(t, html, "status-unreachable")
	assert.NotContains(t, html, "Response Headers")
	assert.NotContains(t, html, "ms)")
}

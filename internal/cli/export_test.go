package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekproxy/peek/internal/domain"
	"github.com/peekproxy/peek/internal/store"
)

func seedStore(t *testing.T, path string, n int) {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	for i := 0; i < n; i++ {
		require.NoError(t, st.Save(domain.Exchange{
			ID:         fmt.Sprintf("seed-%d", i),
			Timestamp:  time.Date(2026, 8, 23, 8, 0, i, 0, time.UTC),
			Request:    domain.Request{Method: "GET", Path: fmt.Sprintf("/seed/%d", i)},
			Response:   &domain.Response{StatusCode: 200},
			DurationMs: int64(i),
		}))
	}
}

func TestExportCommand(t *testing.T) {
	t.Run("writes an html report from the store", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "peek.db")
		seedStore(t, dbPath, 3)

		cfgPath := writeConfig(t, fmt.Sprintf("storage:\n  path: %q\n", dbPath))
		out := filepath.Join(dir, "exports")

		root := NewRootCommand()
		root.SetArgs([]string{"export", "-c", cfgPath, "-o", out})
		require.NoError(t, root.Execute())

		entries, err := os.ReadDir(out)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, strings.HasSuffix(entries[0].Name(), ".html"),
			"report file %q must carry the html extension", entries[0].Name())

		content, err := os.ReadFile(filepath.Join(out, entries[0].Name()))
		require.NoError(t, err)
		assert.Contains(t, string(content), "/seed/2")
	})

	t.Run("empty store is an error", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "peek.db")
		seedStore(t, dbPath, 0)

		cfgPath := writeConfig(t, fmt.Sprintf("storage:\n  path: %q\n", dbPath))

		root := NewRootCommand()
		root.SetArgs([]string{"export", "-c", cfgPath})
		assert.ErrorContains(t, root.Execute(), "no stored exchanges")
	})
}

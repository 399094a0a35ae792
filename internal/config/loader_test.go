package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Run("relative paths join the base", func(t *testing.T) {
		assert.Equal(t, filepath.Join("/etc/peek", ".env"), ResolvePath(".env", "/etc/peek"))
		assert.Equal(t, filepath.Join("/etc/peek", "logs", "peek.log"), ResolvePath("logs/peek.log", "/etc/peek"))
	})

	t.Run("absolute paths pass through", func(t *testing.T) {
		assert.Equal(t, "/var/log/peek.log", ResolvePath("/var/log/peek.log", "/etc/peek"))
	})

	t.Run("empty path stays empty", func(t *testing.T) {
		assert.Equal(t, "", ResolvePath("", "/etc/peek"))
	})

	t.Run("empty base leaves the path alone", func(t *testing.T) {
		assert.Equal(t, ".env", ResolvePath(".env", ""))
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("finds peek.yaml in the working directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "peek.yaml"), []byte("{}"), 0o600))
		t.Chdir(dir)

		found, err := FindConfigFile()
		require.NoError(t, err)
		assert.Equal(t, "peek.yaml", found)
	})

	t.Run("errors when nothing matches", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := FindConfigFile()
		assert.Error(t, err)
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("reads variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("PEEK_TARGET=http://x:1\n"), 0o600))

		env, err := LoadEnvFile(path)
		require.NoError(t, err)
		assert.Equal(t, "http://x:1", env["PEEK_TARGET"])
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		env, err := LoadEnvFile("")
		require.NoError(t, err)
		assert.Nil(t, env)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env"))
		assert.ErrorContains(t, err, "env file not found")
	})
}

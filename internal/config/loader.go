package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
)

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() (string, error) {
	candidates := []string{
		"peek.yaml",
		"peek.yml",
		".peek.yaml",
		".peek.yml",
	}

	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no config file found (tried: %v)", candidates)
}

// LoadEnvFile reads a .env file and returns the variables as a map
func LoadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("env file not found: %s", path)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return env, nil
}

// ApplyEnv overlays PEEK_* variables onto the config. Process environment
// takes precedence over the env file.
func ApplyEnv(c *Config, fileEnv map[string]string) {
	get := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileEnv[key]
	}

	if v := get("PEEK_TARGET"); v != "" {
		c.Target = v
	}
	if v := get("PEEK_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := get("PEEK_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := get("PEEK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// ResolvePath resolves a potentially relative path against a base directory.
// Empty paths stay empty.
func ResolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// CheckFilePermissions checks if a file has secure permissions.
// On Unix-like systems, it verifies the file is not world-writable.
func CheckFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking file permissions: %w", err)
	}

	if info.Mode().Perm()&0o002 != 0 {
		return fmt.Errorf("config file %s is world-writable; run: chmod o-w %s", path, path)
	}
	return nil
}

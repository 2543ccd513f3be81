package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromArgsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := FromArgs([]string{"--base", dir})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, dir, cfg.Root)
	assert.Empty(t, cfg.Restricted)
	assert.False(t, cfg.Plain)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:3000", cfg.Addr())
}

func TestFromArgsAllFlags(t *testing.T) {
	dir := t.TempDir()
	cfg, err := FromArgs([]string{
		"--host", "0.0.0.0",
		"--port", "8080",
		"--base", dir,
		"--restricted-files", ".git, .env ,*.bak",
		"--plain",
		"--log-level", "DEBUG",
	})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{".git", ".env", "*.bak"}, cfg.Restricted)
	assert.True(t, cfg.Plain)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestFromArgsValidation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "port too small", args: []string{"--base", dir, "--port", "0"}},
		{name: "port too large", args: []string{"--base", dir, "--port", "70000"}},
		{name: "unknown log level", args: []string{"--base", dir, "--log-level", "loud"}},
		{name: "missing base", args: []string{"--base", filepath.Join(dir, "nope")}},
		{name: "base is a file", args: []string{"--base", file}},
		{name: "malformed glob", args: []string{"--base", dir, "--restricted-files", "[unclosed"}},
		{name: "unknown flag", args: []string{"--base", dir, "--frobnicate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromArgs(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestSplitPatterns(t *testing.T) {
	assert.Nil(t, splitPatterns(""))
	assert.Equal(t, []string{".git"}, splitPatterns(".git"))
	assert.Equal(t, []string{".git", ".env"}, splitPatterns(" .git ,, .env "))
}

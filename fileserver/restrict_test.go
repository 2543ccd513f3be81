package fileserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRestricted(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		entry    string
		want     bool
	}{
		{name: "exact match", patterns: []string{".git"}, entry: ".git", want: true},
		{name: "no match", patterns: []string{".git"}, entry: "git", want: false},
		{name: "not matched against full paths", patterns: []string{".git"}, entry: "repo/.git", want: false},
		{name: "glob suffix", patterns: []string{"*.bak"}, entry: "notes.bak", want: true},
		{name: "glob miss", patterns: []string{"*.bak"}, entry: "notes.txt", want: false},
		{name: "env file", patterns: []string{".env"}, entry: ".env", want: true},
		{name: "several patterns", patterns: []string{".git", ".env", "*.key"}, entry: "server.key", want: true},
		{name: "empty pattern list", patterns: nil, entry: ".git", want: false},
		{name: "blank patterns dropped", patterns: []string{"", "  "}, entry: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewRestriction(tt.patterns)
			assert.Equal(t, tt.want, rs.IsRestricted(tt.entry))
		})
	}
}

func TestIsPathRestricted(t *testing.T) {
	rs := NewRestriction([]string{".git"})

	// a restricted directory forbids its whole subtree
	assert.True(t, rs.IsPathRestricted(".git"))
	assert.True(t, rs.IsPathRestricted(".git/config"))
	assert.True(t, rs.IsPathRestricted("repo/.git/hooks/pre-commit"))

	assert.False(t, rs.IsPathRestricted(""))
	assert.False(t, rs.IsPathRestricted("repo/src/main.go"))
}

func TestNilRestrictionPermitsEverything(t *testing.T) {
	var rs *Restriction
	assert.False(t, rs.IsRestricted(".git"))
	assert.False(t, rs.IsPathRestricted(".git/config"))
}

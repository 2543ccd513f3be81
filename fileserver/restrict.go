package fileserver

import (
	"path"
	"strings"
)

// Restriction hides or forbids filesystem entries by name. A name is
// restricted when it equals one of the configured patterns or matches one
// as a path.Match glob (so both ".git" and "*.bak" work as blocklist
// entries). Matching is against single path components, never full paths.
type Restriction struct {
	patterns []string
}

// NewRestriction builds a filter from name patterns. Empty patterns are
// dropped; nil is a valid, permit-everything filter.
func NewRestriction(patterns []string) *Restriction {
	rs := &Restriction{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" {
			rs.patterns = append(rs.patterns, p)
		}
	}
	return rs
}

// IsRestricted reports whether a single entry name matches any pattern.
func (rs *Restriction) IsRestricted(name string) bool {
	if rs == nil {
		return false
	}
	for _, p := range rs.patterns {
		if name == p {
			return true
		}
		// Match errors only on malformed patterns; a pattern that cannot
		// match anything simply never restricts.
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// IsPathRestricted checks every segment of a slash-separated relative
// path, so a restricted directory forbids everything beneath it.
func (rs *Restriction) IsPathRestricted(rel string) bool {
	if rs == nil || rel == "" {
		return false
	}
	for _, seg := range strings.Split(rel, "/") {
		if rs.IsRestricted(seg) {
			return true
		}
	}
	return false
}

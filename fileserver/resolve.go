package fileserver

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const separator = string(filepath.Separator)

// ResolvedPath is a filesystem location proven to lie within the root.
// Only Resolver produces values of this type.
type ResolvedPath struct {
	// Abs is the canonical (symlink-resolved) absolute filesystem path.
	Abs string

	// Rel is the slash-separated path relative to the root; empty for the
	// root itself. Suitable for building listing hrefs.
	Rel string
}

// Resolver maps untrusted request paths onto filesystem paths under a
// single root directory. The zero value is not usable; construct with
// NewResolver so the canonical root is computed once.
type Resolver struct {
	root      string // root as configured, absolute
	canonRoot string // root with symlinks resolved
}

// NewResolver canonicalizes root and fails if it does not exist or is not
// a directory.
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %q: %w", root, err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing root %q: %w", root, err)
	}
	info, err := os.Stat(canon)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", root)
	}
	return &Resolver{root: abs, canonRoot: canon}, nil
}

// Root returns the canonical root path.
func (rv *Resolver) Root() string { return rv.canonRoot }

// RelToRoot returns abs relative to the canonical root, slash-separated
// and empty for the root itself. abs must be a canonical path under the
// root, i.e. a ResolvedPath.Abs.
func (rv *Resolver) RelToRoot(abs string) string {
	if abs == rv.canonRoot {
		return ""
	}
	return filepath.ToSlash(strings.TrimPrefix(abs, rv.canonRoot+separator))
}

// Resolve maps a raw (possibly percent-encoded) request path onto a
// canonical filesystem path under the root. The request path is always
// treated as relative to the root, so absolute-path injection cannot
// reassign it. Symlinks are followed before the containment check: a link
// inside the root pointing outside of it fails with ErrTraversal, not just
// a literal ".." ascent.
func (rv *Resolver) Resolve(rawPath string) (ResolvedPath, error) {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return ResolvedPath{}, fmt.Errorf("%w: undecodable path", ErrTraversal)
	}

	// Leading slashes carry no meaning here: the request path is relative
	// to the root no matter how it is spelled.
	rel := path.Clean(strings.TrimLeft(decoded, "/"))
	if rel == "." {
		rel = ""
	}
	if rel != "" && !filepath.IsLocal(filepath.FromSlash(rel)) {
		// catches ".." ascents that survive Clean, and unsafe names
		// (see https://github.com/golang/go/issues/56336#issuecomment-1416214885)
		return ResolvedPath{}, fmt.Errorf("%w: non-local path %q", ErrTraversal, decoded)
	}

	joined := filepath.Join(rv.root, filepath.FromSlash(rel))
	canon, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ResolvedPath{}, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return ResolvedPath{}, err
	}

	// Prefix check against the canonical root, on a separator boundary so
	// /srv/root never matches /srv/rootbeer.
	if canon != rv.canonRoot && !strings.HasPrefix(canon, rv.canonRoot+separator) {
		return ResolvedPath{}, fmt.Errorf("%w: %q resolves outside root", ErrTraversal, decoded)
	}

	return ResolvedPath{Abs: canon, Rel: rel}, nil
}

package fileserver

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileServer serves files and directory listings from a single root.
// It holds no per-request state; one value is shared by all requests.
type FileServer struct {
	Resolver   *Resolver
	Restrict   *Restriction
	Browse     *Browse
	IndexNames []string `json:"index_names,omitempty"`
}

// ServeHTTP handles one request: resolve the path, apply restrictions,
// then either stream a file or render a listing. Errors are returned as
// HandlerError values carrying the status; the caller owns the error
// response body so that traversal and absence stay indistinguishable.
func (fsrv *FileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	if runtime.GOOS == "windows" {
		// reject paths with Alternate Data Streams (ADS)
		if strings.Contains(r.URL.Path, ":") {
			return Error(http.StatusBadRequest, fmt.Errorf("illegal ADS path"))
		}
		// reject paths with "8.3" short names
		trimmedPath := strings.TrimRight(r.URL.Path, ". ") // Windows ignores trailing dots and spaces, sigh
		if len(path.Base(trimmedPath)) <= 12 && strings.Contains(trimmedPath, "~") {
			return Error(http.StatusBadRequest, fmt.Errorf("illegal short name"))
		}
	}

	resolved, err := fsrv.Resolver.Resolve(r.URL.EscapedPath())
	if err != nil {
		// traversal and absence get the same status on purpose
		if errors.Is(err, ErrTraversal) || errors.Is(err, ErrNotFound) {
			return Error(http.StatusNotFound, err)
		}
		return Error(http.StatusInternalServerError, err)
	}

	// Check both spellings of the path: the one the client asked for and
	// the canonical one it resolved to, so a symlink cannot alias its way
	// past a restricted name.
	if fsrv.Restrict.IsPathRestricted(resolved.Rel) ||
		fsrv.Restrict.IsPathRestricted(fsrv.Resolver.RelToRoot(resolved.Abs)) {
		return Error(http.StatusForbidden, fmt.Errorf("%w: %s", ErrRestricted, resolved.Rel))
	}

	info, err := os.Stat(resolved.Abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Error(http.StatusNotFound, ErrNotFound)
		}
		return Error(http.StatusInternalServerError, err)
	}

	if info.IsDir() {
		if index, indexInfo, ok := fsrv.findIndexFile(resolved.Abs); ok {
			return fsrv.serveFile(w, r, index, indexInfo)
		}
		if fsrv.Browse == nil {
			return Error(http.StatusNotFound, ErrNotFound)
		}
		return fsrv.serveBrowse(resolved, w, r)
	}

	if !info.Mode().IsRegular() {
		// sockets, devices and friends are not servable
		return Error(http.StatusNotFound, ErrNotFound)
	}
	return fsrv.serveFile(w, r, resolved.Abs, info)
}

// findIndexFile returns the first configured index file that exists in
// dir, is a regular file, and is not restricted.
func (fsrv *FileServer) findIndexFile(dir string) (string, os.FileInfo, bool) {
	for _, indexName := range fsrv.IndexNames {
		if fsrv.Restrict.IsRestricted(indexName) {
			continue
		}
		candidate := filepath.Join(dir, indexName)
		info, err := os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() {
			return candidate, info, true
		}
	}
	return "", nil, false
}

func (fsrv *FileServer) serveFile(w http.ResponseWriter, r *http.Request, fsPath string, info os.FileInfo) error {
	f, err := os.Open(fsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Error(http.StatusNotFound, ErrNotFound)
		}
		return Error(http.StatusInternalServerError, err)
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType(fsPath))
	// A client disconnect mid-stream surfaces as a write error inside
	// ServeContent and is dropped there; it cannot reach other requests.
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return nil
}

// contentType infers the Content-Type from the file extension, falling
// back to content sniffing. mimetype's own fallback is
// application/octet-stream, so unknown binaries end up generic.
func contentType(fsPath string) string {
	if ctype := mime.TypeByExtension(filepath.Ext(fsPath)); ctype != "" {
		return ctype
	}
	if mtype, err := mimetype.DetectFile(fsPath); err == nil {
		return mtype.String()
	}
	return "application/octet-stream"
}

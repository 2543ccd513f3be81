package fileserver

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"servedir/templates"
)

const defaultDirEntryLimit = 10000

//go:embed browse.html
var browseTemplate string

//go:embed browse_plain.html
var plainBrowseTemplate string

// Browse configures directory listings.
type Browse struct {
	// Plain selects the bare, unstyled listing template.
	Plain bool `json:"plain,omitempty"`

	// FileLimit caps how many entries are read from a single directory.
	// Zero means the default limit.
	FileLimit int `json:"file_limit,omitempty"`
}

// browseTemplateContext is the listing document handed to the template:
// the current path, a parent link when not at the root, and the surviving
// entries in their final order.
type browseTemplateContext struct {
	// Path is the listed directory as a URL path, always starting with /.
	Path string

	// CanGoUp is false only at the root.
	CanGoUp    bool
	ParentHref string

	Entries  []fileInfo
	NumDirs  int
	NumFiles int
}

// fileInfo is a single listing entry.
type fileInfo struct {
	Name    string
	URL     string
	IsDir   bool
	Size    int64 // zero for directories
	ModTime time.Time
}

func (fsrv *FileServer) serveBrowse(resolved ResolvedPath, w http.ResponseWriter, r *http.Request) error {
	dir, err := os.Open(resolved.Abs)
	if err != nil {
		return Error(http.StatusInternalServerError, err)
	}
	defer dir.Close()

	listing, err := fsrv.loadDirectoryContents(dir, resolved.Rel)
	if err != nil {
		return Error(http.StatusInternalServerError, err)
	}

	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	tplCtx := &templateContext{
		TemplateContext:       templates.TemplateContext{Req: r},
		browseTemplateContext: listing,
	}

	tpl, err := fsrv.makeBrowseTemplate(tplCtx)
	if err != nil {
		return Error(http.StatusInternalServerError, fmt.Errorf("parsing browse template: %v", err))
	}
	if err := tpl.Execute(buf, tplCtx); err != nil {
		return Error(http.StatusInternalServerError, fmt.Errorf("executing browse template: %v", err))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// headers are committed; a write failure means the client is gone
		// and there is nothing sane left to send
		return nil
	}
	return nil
}

func (fsrv *FileServer) loadDirectoryContents(dir *os.File, rel string) (*browseTemplateContext, error) {
	dirLimit := defaultDirEntryLimit
	if fsrv.Browse.FileLimit > 0 {
		dirLimit = fsrv.Browse.FileLimit
	}
	files, err := dir.ReadDir(dirLimit)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return fsrv.directoryListing(files, rel), nil
}

// directoryListing drops restricted names, fixes the entry order
// (directories first, then case-sensitive lexicographic), and computes
// each entry's href. Filesystem enumeration order is unspecified across
// platforms, so the sort here is what makes listings stable.
func (fsrv *FileServer) directoryListing(files []os.DirEntry, rel string) *browseTemplateContext {
	ctx := &browseTemplateContext{
		Path:    "/" + rel,
		CanGoUp: rel != "",
	}
	if ctx.CanGoUp {
		parent := path.Dir(rel)
		if parent == "." {
			parent = ""
		}
		ctx.ParentHref = hrefFor(parent, true)
	}

	for _, f := range files {
		name := f.Name()
		if fsrv.Restrict.IsRestricted(name) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			// entry vanished between ReadDir and Info
			continue
		}

		entry := fileInfo{
			Name:    name,
			IsDir:   f.IsDir(),
			ModTime: info.ModTime(),
			URL:     hrefFor(path.Join(rel, name), f.IsDir()),
		}
		if entry.IsDir {
			ctx.NumDirs++
		} else {
			ctx.NumFiles++
			entry.Size = info.Size()
		}
		ctx.Entries = append(ctx.Entries, entry)
	}

	sort.Slice(ctx.Entries, func(i, j int) bool {
		a, b := ctx.Entries[i], ctx.Entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})

	return ctx
}

// hrefFor builds an absolute URL path for a slash-separated path relative
// to the root, percent-escaping each segment. Directory hrefs carry a
// trailing slash.
func hrefFor(rel string, isDir bool) string {
	if rel == "" || rel == "." {
		return "/"
	}
	segs := strings.Split(rel, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	href := "/" + strings.Join(segs, "/")
	if isDir {
		href += "/"
	}
	return href
}

// makeBrowseTemplate creates the template to be used for directory
// listings, picking the plain or styled variant.
func (fsrv *FileServer) makeBrowseTemplate(tplCtx *templateContext) (*template.Template, error) {
	var tpl *template.Template
	var err error

	if fsrv.Browse.Plain {
		tpl = tplCtx.NewTemplate("plain_listing")
		tpl, err = tpl.Parse(plainBrowseTemplate)
	} else {
		tpl = tplCtx.NewTemplate("default_listing")
		tpl, err = tpl.Parse(browseTemplate)
	}
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

// templateContext powers the context used when evaluating the browse
// template. It combines the listing document with the shared template
// helpers.
type templateContext struct {
	templates.TemplateContext
	*browseTemplateContext
}

// bufPool is used to increase the efficiency of file listings.
var bufPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// Package templates builds the html/template instances used for
// directory listings, preloaded with the sprig function library and a few
// helpers of our own.
package templates

import (
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/dustin/go-humanize"
)

var sprigFuncMap = sprig.HtmlFuncMap()

// TemplateContext carries the request-scoped state templates may consult.
type TemplateContext struct {
	Req *http.Request

	tpl *template.Template
}

// NewTemplate returns a new template intended to be evaluated with this
// context, as it is initialized with configuration from this context.
func (c *TemplateContext) NewTemplate(tplName string) *template.Template {
	c.tpl = template.New(tplName).Option("missingkey=zero")

	// add sprig library
	c.tpl.Funcs(sprigFuncMap)

	// add our own library
	c.tpl.Funcs(template.FuncMap{
		"humanizeBytes": funcHumanizeBytes,
		"humanizeTime":  funcHumanizeTime,
		"pathEscape":    url.PathEscape,
	})
	return c.tpl
}

// Host returns the hostname portion of the Host header
// from the HTTP request.
func (c TemplateContext) Host() string {
	if c.Req == nil {
		return ""
	}
	return c.Req.Host
}

// funcHumanizeBytes formats a byte count as a human readable size,
// such as "83 MB".
func funcHumanizeBytes(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

// funcHumanizeTime formats a timestamp as a relative time,
// such as "2 weeks ago".
func funcHumanizeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

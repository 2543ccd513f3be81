package fileserver

import (
	"errors"
	"fmt"
	weakrand "math/rand"
	"path"
	"runtime"
	"strings"
)

// Sentinel errors for the resolution pipeline. The boundary maps these onto
// HTTP statuses; ErrTraversal and ErrNotFound must produce identical
// client-facing responses.
var (
	// ErrTraversal means the request path escapes the configured root.
	ErrTraversal = errors.New("path escapes root")

	// ErrNotFound means the resolved path does not exist on disk.
	ErrNotFound = errors.New("path not found")

	// ErrRestricted means the path matches a restricted name pattern.
	ErrRestricted = errors.New("path is restricted")
)

// Error wraps err in a HandlerError carrying statusCode. If err already
// is a HandlerError its status wins, so the innermost classification
// survives rewrapping at the boundary.
func Error(statusCode int, err error) HandlerError {
	const idLen = 9
	var he HandlerError
	if errors.As(err, &he) {
		if he.ID == "" {
			he.ID = randString(idLen)
		}
		if he.Trace == "" {
			he.Trace = trace()
		}
		if he.StatusCode == 0 {
			he.StatusCode = statusCode
		}
		return he
	}
	return HandlerError{
		ID:         randString(idLen),
		StatusCode: statusCode,
		Err:        err,
		Trace:      trace(),
	}
}

// HandlerError is a serializable representation of
// an error from within an HTTP handler.
type HandlerError struct {
	Err        error // the original error value and message
	StatusCode int   // the HTTP status code to associate with this error

	ID    string // generated; for identifying this error in logs
	Trace string // produced from call stack
}

func (e HandlerError) Error() string {
	var s string
	if e.ID != "" {
		s += fmt.Sprintf("{id=%s}", e.ID)
	}
	if e.Trace != "" {
		s += " " + e.Trace
	}
	if e.StatusCode != 0 {
		s += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return strings.TrimSpace(s)
}

// Unwrap returns the underlying error value. See the `errors` package for info.
func (e HandlerError) Unwrap() error { return e.Err }

// randString returns n random characters for correlating a response with
// its log line. Not secure and not a proper distribution; avoids
// confusable characters like l, 1, 0, O.
func randString(n int) string {
	if n <= 0 {
		return ""
	}
	const dict = "abcdefghijkmnpqrstuvwxyz23456789"
	b := make([]byte, n)
	for i := range b {
		//nolint:gosec
		b[i] = dict[weakrand.Int63()%int64(len(dict))]
	}
	return string(b)
}

func trace() string {
	if pc, file, line, ok := runtime.Caller(2); ok {
		filename := path.Base(file)
		pkgAndFuncName := path.Base(runtime.FuncForPC(pc).Name())
		return fmt.Sprintf("%s (%s:%d)", pkgAndFuncName, filename, line)
	}
	return ""
}

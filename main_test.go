package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servedir/fileserver"
)

func newTestRouter(t *testing.T, root string, patterns []string) *gin.Engine {
	t.Helper()
	resolver, err := fileserver.NewResolver(root)
	require.NoError(t, err)

	fsrv := &fileserver.FileServer{
		Resolver:   resolver,
		Restrict:   fileserver.NewRestriction(patterns),
		Browse:     &fileserver.Browse{},
		IndexNames: []string{"index.html"},
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.NoRoute(newHandler(fsrv))
	return router
}

func do(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestBoundaryStatusMapping(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "ok.txt"), []byte("ok"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	router := newTestRouter(t, root, []string{".git"})

	t.Run("file", func(t *testing.T) {
		w := do(router, http.MethodGet, "/ok.txt")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("restricted", func(t *testing.T) {
		w := do(router, http.MethodGet, "/.git")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		w := do(router, http.MethodPost, "/ok.txt")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("head", func(t *testing.T) {
		w := do(router, http.MethodHead, "/ok.txt")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestBoundary404BodiesMatch(t *testing.T) {
	root := t.TempDir()
	router := newTestRouter(t, root, nil)

	missing := do(router, http.MethodGet, "/absent.txt")
	traversal := do(router, http.MethodGet, "/%2e%2e/%2e%2e/etc/passwd")

	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusNotFound, traversal.Code)
	// response bodies must not reveal which failure it was
	assert.Equal(t, missing.Body.String(), traversal.Body.String())
}

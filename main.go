package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"servedir/config"
	"servedir/fileserver"
	"servedir/logger"
)

func main() {
	cfg, err := config.FromArgs(os.Args[1:])
	if err != nil {
		logger.Fatal("invalid configuration: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	resolver, err := fileserver.NewResolver(cfg.Root)
	if err != nil {
		logger.Fatal("cannot use %q as root: %v", cfg.Root, err)
	}

	fsrv := &fileserver.FileServer{
		Resolver:   resolver,
		Restrict:   fileserver.NewRestriction(cfg.Restricted),
		Browse:     &fileserver.Browse{Plain: cfg.Plain},
		IndexNames: []string{"index.html"},
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.NoRoute(newHandler(fsrv))

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
		// bounded socket I/O so idle or stalled clients cannot pile up
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	logger.Info("serving %s on http://%s", resolver.Root(), cfg.Addr())
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server stopped: %v", err)
	}
}

// newHandler adapts the file server onto gin, mapping handler errors to
// status codes at the boundary. Traversal and not-found share one body so
// clients cannot probe the filesystem structure.
func newHandler(fsrv *fileserver.FileServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.String(http.StatusMethodNotAllowed, "405 method not allowed")
			return
		}
		if err := fsrv.ServeHTTP(c.Writer, c.Request); err != nil {
			respondError(c, err)
		}
	}
}

func respondError(c *gin.Context, err error) {
	he := fileserver.Error(http.StatusInternalServerError, err)
	switch he.StatusCode {
	case http.StatusNotFound:
		logger.Debug("not found: %v", he)
		c.String(http.StatusNotFound, "404 page not found")
	case http.StatusForbidden:
		logger.Debug("forbidden: %v", he)
		c.String(http.StatusForbidden, "403 forbidden")
	case http.StatusBadRequest:
		c.String(http.StatusBadRequest, "400 bad request")
	default:
		logger.Error("request %s failed: %v", c.Request.URL.Path, he)
		c.String(http.StatusInternalServerError, "500 internal server error")
	}
}

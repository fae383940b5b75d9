package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"teralink/downloader"
	"teralink/internal"
)

// Server is the HTTP endpoint layer. It owns no state beyond the read-only
// configuration and the upstream client; every request is handled
// independently.
type Server struct {
	config *internal.Config
	client *downloader.Client
	engine *gin.Engine
}

// New creates a Server and registers its routes.
func New(config *internal.Config, client *downloader.Client) *Server {
	if !config.EnableDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		requestLogger(),
		gin.CustomRecovery(recoveryHandler),
		cors.Default(),
	)

	s := &Server{
		config: config,
		client: client,
		engine: engine,
	}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleHome)
	s.engine.GET("/api/download", s.handleDownload)
	s.engine.POST("/api/download", s.handleDownload)
	s.engine.GET("/api/info", s.handleInfo)
	s.engine.POST("/api/info", s.handleInfo)
	s.engine.GET("/health", s.handleHealth)
}

// Handler exposes the underlying engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests for
// up to ten seconds.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.config.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	log.Infof("listening on %s", s.config.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// requestLogger logs one line per request at debug level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// recoveryHandler is the outermost failure boundary: anything that escapes a
// handler surfaces as a generic 500 with the cause kept to the log.
func recoveryHandler(c *gin.Context, recovered any) {
	log.Errorf("panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, internal.APIResult{
		Success: false,
		Message: "Server error",
	})
}

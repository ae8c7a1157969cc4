// Package server exposes the evaluation engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mwiater/abplay/internal/abtest"
	"github.com/mwiater/abplay/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures a Server.
type Options struct {
	Addr        string
	ReadTimeout time.Duration
	Defaults    Defaults
	Debug       bool
}

// Server wraps the gin engine and its http.Server.
type Server struct {
	engine  *gin.Engine
	httpSrv *http.Server
}

// validateAlternative backs the `alternative` binding tag.
func validateAlternative(fl validator.FieldLevel) bool {
	_, err := abtest.ParseAlternative(fl.Field().String())
	return err == nil
}

// RegisterValidators installs the custom binding rules on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return v.RegisterValidation("alternative", validateAlternative)
}

// RegisterRoutes mounts the API on r.
func RegisterRoutes(r gin.IRouter, h *Handlers, m *Metrics) {
	r.GET("/healthz", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.POST("/evaluate", h.HandleEvaluate)
	v1.GET("/topics", h.HandleListTopics)
	v1.GET("/topics/:slug", h.HandleGetTopic)
}

// New builds a server with routes, validators and metrics wired.
func New(opts Options) (*Server, error) {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	metrics := NewMetrics()
	engine := gin.New()
	engine.Use(gin.Recovery())
	RegisterRoutes(engine, NewHandlers(opts.Defaults, metrics), metrics)

	return &Server{
		engine: engine,
		httpSrv: &http.Server{
			Addr:        opts.Addr,
			Handler:     engine,
			ReadTimeout: opts.ReadTimeout,
		},
	}, nil
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.LogEvent("[HTTP] listening on %s", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logging.LogEvent("[HTTP] shutting down")
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

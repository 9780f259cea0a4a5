// Package server exposes the blob pipeline over HTTP.
//
// Scenes created through the API keep a live engine, so consecutive frame
// requests only recompute the stages whose inputs changed. Stateless frame
// requests go through the cached runner instead.
//
// # Routes
//
//	GET    /health
//	POST   /api/v1/frame
//	POST   /api/v1/scenes
//	GET    /api/v1/scenes/{id}
//	PUT    /api/v1/scenes/{id}
//	DELETE /api/v1/scenes/{id}
//	PUT    /api/v1/scenes/{id}/shapes
//	POST   /api/v1/scenes/{id}/shapes
//	PATCH  /api/v1/scenes/{id}/shapes/{shapeID}
//	DELETE /api/v1/scenes/{id}/shapes/{shapeID}
//	POST   /api/v1/scenes/{id}/frame
//	GET    /api/v1/scenes/{id}/skeleton?format=dot|svg
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/blobgeom/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Config configures a Server.
type Config struct {
	Addr           string
	AllowedOrigins []string

	// Runner computes stateless frames and skeletons. Its cache and keyer
	// also store scenes.
	Runner *pipeline.Runner
	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	addr    string
	origins []string
	runner  *pipeline.Runner
	store   *Store
	logger  *log.Logger
	handler http.Handler
}

// New creates a server. Zero config fields take defaults: a listen address
// of DefaultAddr, all origins, and an uncached runner.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	s := &Server{
		addr:    cfg.Addr,
		origins: cfg.AllowedOrigins,
		runner:  cfg.Runner,
		store:   NewStore(cfg.Runner.Cache, cfg.Runner.Keyer, cfg.Logger),
		logger:  cfg.Logger,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(chimiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/frame", s.frame)

		r.Route("/scenes", func(r chi.Router) {
			r.Post("/", s.createScene)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getScene)
				r.Put("/", s.replaceScene)
				r.Delete("/", s.deleteScene)
				r.Put("/shapes", s.replaceShapes)
				r.Post("/shapes", s.addShape)
				r.Patch("/shapes/{shapeID}", s.updateShape)
				r.Delete("/shapes/{shapeID}", s.deleteShape)
				r.Post("/frame", s.tick)
				r.Get("/skeleton", s.skeleton)
			})
		})
	})

	return router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Idle scenes are evicted from memory while the server runs.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	janitor := time.NewTicker(time.Hour)
	defer janitor.Stop()

	for {
		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case now := <-janitor.C:
			if n := s.store.Cleanup(now); n > 0 {
				s.logger.Debug("evicted idle scenes", "count", n)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			s.logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		}
	}
}

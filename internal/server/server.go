// Package server provides the HTTP server and routing for StockCircle.
package server

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/stockcircle/internal/config"
	"github.com/aristath/stockcircle/internal/di"
	"github.com/aristath/stockcircle/pkg/embedded"
)

// requestTimeout bounds every route except the event stream.
var requestTimeout = 60 * time.Second

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container // DI container with all services
	DevMode   bool
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	container      *di.Container
	renderer       *Renderer
	systemHandlers *SystemHandlers
	statusMonitor  *StatusMonitor
}

// New creates a new HTTP server. It fails only when the embedded templates do not parse.
func New(cfg Config) (*Server, error) {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
	_ = mime.AddExtensionType(".svg", "image/svg+xml")

	renderer, err := NewRenderer(embedded.Files)
	if err != nil {
		return nil, err
	}

	statusMonitor := NewStatusMonitor(cfg.Container.Bus, cfg.Log)

	s := &Server{
		router:        chi.NewRouter(),
		log:           cfg.Log.With().Str("component", "server").Logger(),
		cfg:           cfg.Config,
		container:     cfg.Container,
		renderer:      renderer,
		statusMonitor: statusMonitor,
		systemHandlers: NewSystemHandlers(
			cfg.Log,
			cfg.Config.DataDir,
			cfg.Container.DB,
			cfg.Container.Backend,
			statusMonitor,
		),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	staticFS, err := fs.Sub(embedded.Files, "static")
	if err != nil {
		s.log.Fatal().Err(err).Msg("Embedded static assets missing")
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", s.assetsHandler(http.FileServer(http.FS(staticFS)))))

	// JSON API used by monitoring tools and the layout's event listener
	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.With(middleware.Timeout(requestTimeout)).Get("/system/status", s.systemHandlers.HandleSystemStatus)
		// Lives until the client disconnects, so no request timeout
		r.Get("/events/stream", NewEventsStreamHandler(s.container.Bus, s.log).ServeHTTP)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/login", http.StatusFound)
		})

		// Public pages
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Get("/register", s.handleRegisterPage)
		r.Post("/register", s.handleRegister)
		r.Post("/logout", s.handleLogout)

		// Pages that need a session
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/dashboard", s.handleDashboard)
			r.Post("/dashboard/portfolios", s.handleCreatePortfolio)

			r.Route("/portfolio/{portfolioId}", func(r chi.Router) {
				r.Get("/", s.handlePortfolio)
				r.Post("/trade", s.handleTrade)
				r.Post("/deposit", s.handleDeposit)
				r.Post("/withdraw", s.handleWithdraw)
				r.Post("/transfer", s.handleTransfer)
			})

			r.Route("/stock-lists", func(r chi.Router) {
				r.Get("/", s.handleStockLists)
				r.Post("/", s.handleCreateStockList)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleStockListDetail)
					r.Get("/delete", s.handleDeleteStockListConfirm)
					r.Post("/delete", s.handleDeleteStockList)
					r.Post("/stocks", s.handleAddStock)
					r.Post("/stocks/remove", s.handleRemoveStock)
					r.Post("/share", s.handleShareStockList)
					r.Post("/reviews", s.handleCreateReview)
					r.Post("/reviews/{reviewId}/delete", s.handleDeleteReview)
				})
			})

			r.Route("/friends", func(r chi.Router) {
				r.Get("/", s.handleFriends)
				r.Post("/requests", s.handleSendFriendRequest)
				r.Post("/requests/{senderId}/accept", s.handleAcceptFriendRequest)
				r.Post("/requests/{senderId}/reject", s.handleRejectFriendRequest)
				r.Post("/{friendId}/remove", s.handleRemoveFriend)
			})

			r.Get("/transactions", s.handleTransactions)
		})
	})

	s.router.NotFound(s.handleNotFound)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	s.statusMonitor.Close()
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// assetsHandler wraps the file server to set correct MIME types
func (s *Server) assetsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := filepath.Ext(r.URL.Path)

		contentType := mime.TypeByExtension(ext)
		if contentType == "" {
			switch ext {
			case ".js":
				contentType = "application/javascript"
			case ".css":
				contentType = "text/css"
			case ".svg":
				contentType = "image/svg+xml"
			default:
				contentType = "application/octet-stream"
			}
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")

		next.ServeHTTP(w, r)
	})
}

// render executes a page template into a buffer first, so a template error never produces
// a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title, active string, data any) {
	pd := pageData{
		Title:       title,
		Active:      active,
		Session:     s.container.Session.Current(),
		BackendDown: s.statusMonitor.Status().Down(),
		Data:        data,
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, page, pd); err != nil {
		s.log.Error().
			Err(err).
			Str("page", page).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Debug().Err(err).Str("page", page).Msg("Failed to write page response")
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

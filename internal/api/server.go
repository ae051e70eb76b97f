// Package api provides the HTTP API server and handlers for the foodgram server.
package api

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/foodgramapp/foodgram-server/internal/config"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/metrics"
	"github.com/foodgramapp/foodgram-server/internal/ratelimit"
	"github.com/foodgramapp/foodgram-server/internal/service"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// Services groups the business services the handlers call.
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Recipes       *service.RecipeService
	Memberships   *service.MembershipService
	ShoppingList  *service.ShoppingListService
	Subscriptions *service.SubscriptionService
	Catalog       *service.CatalogService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *Services
	cfg             *config.Config
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates the HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, cfg *config.Config, log *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:           st,
		services:        services,
		cfg:             cfg,
		router:          router,
		logger:          log,
		authRateLimiter: ratelimit.PerInterval(20, time.Minute, 10),
	}

	s.setupMiddleware()

	router.Get("/metrics", s.handleMetrics)
	s.mountMedia()

	s.api = humachi.New(router, newHumaConfig())
	RegisterErrorHandler(log)
	s.registerRoutes()

	return s
}

func newHumaConfig() huma.Config {
	humaConfig := huma.DefaultConfig("Foodgram API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	return humaConfig
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.StripSlashes)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.cfg.Metrics.Enabled {
		s.router.Use(metrics.Middleware)
	}
	s.router.Use(authMiddleware(s.services.Auth))
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerSubscriptionRoutes()
	s.registerCatalogRoutes()
	s.registerRecipeRoutes()
	s.registerMembershipRoutes()
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Metrics.Enabled {
		http.NotFound(w, r)
		return
	}
	metrics.Handler().ServeHTTP(w, r)
}

// mountMedia serves uploaded images when the media URL is a local path.
func (s *Server) mountMedia() {
	prefix := s.cfg.Server.MediaURL
	if !strings.HasPrefix(prefix, "/") {
		return
	}
	prefix = "/" + strings.Trim(prefix, "/")
	files := http.StripPrefix(prefix+"/", http.FileServer(mediaFS{root: http.Dir(s.cfg.Data.MediaPath())}))
	s.router.Get(prefix+"/*", files.ServeHTTP)
}

// log returns the request-scoped logger stored by requestLogger.
func (s *Server) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, s.logger)
}

// requestLogger logs one line per request at debug level, errors at warn.
// Handlers and services find a request_id-scoped logger in the context.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With("request_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(logger.IntoContext(r.Context(), reqLog))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			level := slog.LevelDebug
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			reqLog.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// mediaFS hides directory listings.
type mediaFS struct {
	root http.FileSystem
}

func (m mediaFS) Open(name string) (http.File, error) {
	f, err := m.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/snehareddy22/airaware/internal/config"
	"github.com/snehareddy22/airaware/pkg/logger"
)

// Router assembles the HTTP routes
type Router struct {
	handler *Handler
	config  *config.Config
	logger  *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(handler *Handler, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler: handler,
		config:  cfg,
		logger:  log.Named("router"),
	}
}

// Routes returns the assembled http.Handler
func (router *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(router.requestLogger)
	r.Use(router.corsMiddleware)

	r.Get("/cities", router.handler.GetCities)
	r.Post("/signup", router.handler.Signup)
	r.Post("/login", router.handler.Login)
	r.Get("/dashboard_data", router.handler.GetDashboardData)
	r.Post("/chat", router.handler.Chat)
	r.Post("/feedback", router.handler.PostFeedback)
	r.Post("/rate", router.handler.PostRating)
	r.Get("/download_report", router.handler.DownloadReport)
	r.Get("/health", router.handler.GetHealth)

	// Serve the dashboard frontend for everything else
	staticHandler := NewStaticFileHandler(router.config.Server.StaticFilesDir, router.logger)
	r.Handle("/*", staticHandler)

	return r
}

// requestLogger logs each request with method, path, status and timing
func (router *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		router.logger.Debug("Handled request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", ww.Status()),
			logger.Duration("duration", time.Since(start)))
	})
}

// corsMiddleware applies the configured CORS policy
func (router *Router) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && router.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (router *Router) originAllowed(origin string) bool {
	for _, allowed := range router.config.Server.CORSAllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kiln-games/depthforge/internal/database"
	"github.com/kiln-games/depthforge/internal/event"
	"github.com/kiln-games/depthforge/internal/handler"
	"github.com/kiln-games/depthforge/internal/item"
	"github.com/kiln-games/depthforge/internal/logger"
	"github.com/kiln-games/depthforge/internal/metrics"
	"github.com/kiln-games/depthforge/internal/session"
)

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
	sessions   *session.Manager
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, sessions *session.Manager, factory *item.Factory, eventBus event.Bus) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewAbuseDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(RateLimitMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/shop/types", handler.HandleGetShopTypes())

		r.Post("/session", handler.HandleCreateSession(sessions, eventBus))

		r.Route("/session/{sessionID}", func(r chi.Router) {
			r.Get("/", handler.HandleGetSession(sessions))
			r.Delete("/", handler.HandleDeleteSession(sessions, eventBus))
			r.Post("/level", handler.HandleSetPlayerLevel(sessions))
			r.Post("/save", handler.HandleSaveSession(sessions))
			r.Post("/load", handler.HandleLoadSession(sessions))

			r.Post("/items/generate", handler.HandleGenerateItem(sessions, factory, eventBus))

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", handler.HandleGetInventory(sessions))
				r.Get("/search", handler.HandleSearchInventory(sessions))
				r.Post("/add", handler.HandleAddItem(sessions, factory))
				r.Post("/remove", handler.HandleRemoveItem(sessions))
				r.Post("/use", handler.HandleUseItem(sessions, eventBus))
				r.Post("/upgrade", handler.HandleUpgradeItem(sessions, eventBus))
				r.Post("/select", handler.HandleSelectItem(sessions))
				r.Post("/sell-selected", handler.HandleSellSelected(sessions, eventBus))
				r.Post("/sort", handler.HandleSortInventory(sessions))
				r.Post("/organize", handler.HandleOrganizeInventory(sessions))
			})

			r.Route("/equipment", func(r chi.Router) {
				r.Get("/", handler.HandleGetEquipment(sessions))
				r.Get("/stats", handler.HandleGetEquipmentStats(sessions))
				r.Post("/equip", handler.HandleEquipItem(sessions))
				r.Post("/unequip", handler.HandleUnequipItem(sessions))
				r.Post("/auto-equip", handler.HandleAutoEquip(sessions))
				r.Post("/upgrade", handler.HandleUpgradeEquipped(sessions))
			})

			r.Get("/nodes", handler.HandleGetNodes(sessions))
			r.Post("/nodes/generate", handler.HandleGenerateNodes(sessions))
			r.Post("/harvest", handler.HandleHarvest(sessions, eventBus))
			r.Get("/resources", handler.HandleGetResources(sessions))

			r.Get("/recipes", handler.HandleGetRecipes(sessions))
			r.Post("/recipes/unlock", handler.HandleUnlockRecipe(sessions))
			r.Post("/craft", handler.HandleCraft(sessions, eventBus))

			r.Route("/shop", func(r chi.Router) {
				r.Get("/", handler.HandleGetShop(sessions))
				r.Post("/buy", handler.HandleBuyItem(sessions, eventBus))
				r.Post("/buy-bulk", handler.HandleBuyBulk(sessions, eventBus))
				r.Post("/sell", handler.HandleSellItem(sessions, eventBus))
				r.Post("/restock", handler.HandleRestockShop(sessions, eventBus))
				r.Post("/type", handler.HandleChangeShopType(sessions, eventBus))
			})
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:   dbPool,
		sessions: sessions,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, "Authorization") {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

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

	"github.com/gbax/gbax-core/internal/consumable"
	"github.com/gbax/gbax-core/internal/database"
	"github.com/gbax/gbax-core/internal/effect"
	"github.com/gbax/gbax-core/internal/eventlog"
	"github.com/gbax/gbax-core/internal/guild"
	"github.com/gbax/gbax-core/internal/handler"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/loyalty"
	"github.com/gbax/gbax-core/internal/metrics"
	"github.com/gbax/gbax-core/internal/mission"
	"github.com/gbax/gbax-core/internal/operation"
	"github.com/gbax/gbax-core/internal/player"
	"github.com/gbax/gbax-core/internal/progress"
	"github.com/gbax/gbax-core/internal/reward"
	"github.com/gbax/gbax-core/internal/sector"
	"github.com/gbax/gbax-core/internal/sse"
	"github.com/gbax/gbax-core/internal/trait"
)

// Services bundles everything the router needs.
type Services struct {
	DBPool       database.Pool
	Players      player.Service
	Registry     operation.Registry
	Effects      effect.Ledger
	Consumables  consumable.Service
	Rewards      *reward.Service
	Loyalty      loyalty.Service
	Guilds       guild.Service
	Traits       trait.Service
	Missions     mission.Service
	Sectors      *sector.Store
	Synchronizer *progress.Synchronizer
	SSEHub       *sse.Hub
	Audit        eventlog.Service
}

type Server struct {
	httpServer *http.Server
	services   Services
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, svcs Services) *Server {
	r := chi.NewRouter()

	// Middleware stack, outermost to innermost.
	tracker := NewAbuseTracker()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, tracker))
	r.Use(RateLimitMiddleware(trustedProxies, tracker))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svcs.DBPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/player", func(r chi.Router) {
			r.Post("/register", handler.HandleRegisterPlayer(svcs.Players))
			r.Get("/", handler.HandleGetPlayer(svcs.Players, svcs.Loyalty))
			r.Post("/trait", handler.HandleAssignTrait(svcs.Traits))
			r.Get("/bonuses", handler.HandleGetBonuses(svcs.Rewards))
			r.Get("/effects", handler.HandleGetActiveEffects(svcs.Effects))
		})

		r.Route("/operation", func(r chi.Router) {
			r.Post("/start", handler.HandleStartOperation(svcs.Registry))
			r.Post("/cancel", handler.HandleCancelOperation(svcs.Registry))
			r.Get("/active", handler.HandleGetActiveOperations(svcs.Registry))
		})

		r.Route("/consumable", func(r chi.Router) {
			r.Post("/use", handler.HandleUseConsumable(svcs.Consumables))
			r.Get("/catalog", handler.HandleGetCatalog(svcs.Consumables))
		})

		r.Route("/sector", func(r chi.Router) {
			r.Post("/generate", handler.HandleGenerateSector(svcs.Sectors))
			r.Get("/", handler.HandleGetSector(svcs.Sectors))
		})

		r.Route("/guild", func(r chi.Router) {
			r.Post("/join", handler.HandleJoinGuild(svcs.Guilds))
			r.Post("/leave", handler.HandleLeaveGuild(svcs.Guilds))
			r.Get("/", handler.HandleListGuilds(svcs.Guilds))
		})

		r.Route("/mission", func(r chi.Router) {
			r.Post("/", handler.HandleCreateMission(svcs.Missions))
			r.Get("/active", handler.HandleGetActiveMissions(svcs.Missions))
		})

		r.Route("/sync", func(r chi.Router) {
			r.Post("/now", handler.HandleSyncNow(svcs.Synchronizer))
			r.Get("/status", handler.HandleGetSyncStatus(svcs.Synchronizer))
		})

		// Event stream for UIs.
		r.Get("/events", sse.Handler(svcs.SSEHub))

		// Persisted event history.
		r.Get("/audit", handler.HandleGetAuditLog(svcs.Audit))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		services: svcs,
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
		statusCode:     http.StatusOK,
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

// Flush passes through to the wrapped writer so SSE streaming keeps working.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health and metrics probes would drown the log.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

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

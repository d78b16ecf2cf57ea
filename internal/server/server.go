package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/osse101/CaseVault_Go/docs"
	"github.com/osse101/CaseVault_Go/internal/audit"
	"github.com/osse101/CaseVault_Go/internal/draw"
	"github.com/osse101/CaseVault_Go/internal/handler"
	"github.com/osse101/CaseVault_Go/internal/ledger"
	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/metrics"
	"github.com/osse101/CaseVault_Go/internal/rtp"
	"github.com/osse101/CaseVault_Go/internal/safety"
	"github.com/osse101/CaseVault_Go/internal/sse"
)

// Options configures the HTTP surface
type Options struct {
	Port           int
	APIKey         string
	AdminJWTSecret string
	AdminJWTIssuer string
	TrustedProxies []string
	CORSOrigins    []string
	Storage        string
	Version        string
	ReportWindow   time.Duration
	Detector       DetectorConfig
}

// Services are the operations the routes expose
type Services struct {
	Store handler.Pinger
	Draw  draw.Service
	RTP   rtp.Service
	Cash  ledger.Reader
	Guard safety.Guard
	Audit audit.Service
	// Feed is optional; without it the live event stream is not mounted
	Feed *sse.Hub
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routes and middleware stack
func NewRouter(opts Options, svc Services) http.Handler {
	r := chi.NewRouter()
	detector := NewActivityDetector(opts.Detector)
	clients := NewClientResolver(opts.TrustedProxies)
	tokens := NewTokenVerifier(opts.AdminJWTSecret, opts.AdminJWTIssuer)

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(RateLimitMiddleware(clients, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBytes))
	r.Use(metrics.Middleware)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", HeaderAuthorization, "Content-Type", HeaderAPIKey},
			MaxAge:         60 * 15,
		}))
	}

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.Store, svc.Guard))
	r.Get("/version", handler.HandleVersion(opts.Version, opts.Storage))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	drawHandler := handler.NewDrawHandler(svc.Draw)
	rtpHandler := handler.NewRTPHandler(svc.RTP)
	emergencyHandler := handler.NewEmergencyHandler(svc.Guard)
	auditHandler := handler.NewAuditHandler(svc.Audit, opts.ReportWindow)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(APIKeyMiddleware(opts.APIKey, clients, detector)).
			Post("/draws", drawHandler.HandleDraw)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(tokens, clients, detector))

			r.Route("/rtp", func(r chi.Router) {
				r.Get("/", rtpHandler.HandleGetConfig)
				r.Put("/", rtpHandler.HandleSetTarget)
				r.Get("/history", rtpHandler.HandleHistory)
				r.Get("/recommendation", rtpHandler.HandleGetRecommendation)
				r.Post("/recommendation/apply", rtpHandler.HandleApplyRecommendation)
			})

			r.Get("/cash/stats", handler.HandleGetCashStats(svc.Cash))

			r.Route("/emergency", func(r chi.Router) {
				r.Get("/", emergencyHandler.HandleGetState)
				r.Post("/", emergencyHandler.HandleActivate)
				r.Delete("/", emergencyHandler.HandleDeactivate)
			})

			r.Route("/audit", func(r chi.Router) {
				r.Get("/", auditHandler.HandleQuery)
				r.Get("/blocked-prizes", auditHandler.HandleBlockedPrizes)
				r.Get("/{id}", auditHandler.HandleGet)
			})

			if svc.Feed != nil {
				r.Get("/events/stream", sse.Handler(svc.Feed))
			}
		})
	})

	return r
}

// statusOf treats a handler that never wrote a header as 200
func statusOf(ww middleware.WrapResponseWriter) int {
	if st := ww.Status(); st != 0 {
		return st
	}
	return http.StatusOK
}

func quietPath(path string) bool {
	for _, p := range []string{"/healthz", "/readyz", "/metrics"} {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if quietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()

		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitized := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if logger.IsSensitiveKey(k) {
				sanitized[k] = []string{logger.RedactedValue}
			} else {
				sanitized[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitized)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", statusOf(ww),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds())
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

// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/groweasy/groweasy-backend/internal/assistant"
	"github.com/groweasy/groweasy-backend/internal/config"
	"github.com/groweasy/groweasy-backend/internal/genai"
	"github.com/groweasy/groweasy-backend/internal/http/handlers"
	"github.com/groweasy/groweasy-backend/internal/http/middleware"
	"github.com/groweasy/groweasy-backend/internal/repo"
	"github.com/groweasy/groweasy-backend/internal/services"
	"github.com/groweasy/groweasy-backend/internal/store"
)

// Deps carries the shared application state the router wires into services.
// Everything is injected so tests can run with an in-memory store only.
type Deps struct {
	DB     *gorm.DB
	Store  *store.Store
	Remote *services.Remote
	Gen    genai.Generator
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter + gzip compression
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per partner/IP, bypass on replay)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction (lead PII travels in bodies, never
	// in query strings, but phone/email still shows up in support queries)
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-Api-Key",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB) and response compression
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting). A key is a replay when
	// a message row with that id already landed in the hosted store or the
	// fallback log.
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, _, _, key string, _ time.Time) (bool, error) {
			if deps.DB != nil && deps.Remote.Available() {
				if m, err := repo.GetMessage(ctx, deps.DB, key); err == nil && m != nil {
					return true, nil
				}
			}
			_, ok := deps.Store.Message(key)
			return ok, nil
		},
	))

	// 8) Token-bucket rate limiter per partner/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByPartnerOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Partner-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Partner-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← db/store/remote gate
	partnerSvc := &services.PartnerService{DB: deps.DB, Store: deps.Store, Remote: deps.Remote}
	leadSvc := &services.LeadService{DB: deps.DB, Store: deps.Store, Remote: deps.Remote}
	learningSvc := &services.LearningService{DB: deps.DB, Store: deps.Store, Remote: deps.Remote}
	chatSvc := &services.ChatService{DB: deps.DB, Store: deps.Store, Remote: deps.Remote}
	supportSvc := &services.SupportService{DB: deps.DB, Remote: deps.Remote}
	assist := assistant.New(deps.Gen)

	h := handlers.New(partnerSvc, leadSvc, learningSvc, chatSvc, supportSvc, assist)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Partners
		api.GET("/partners/:id", h.GetPartner)
		api.GET("/partners/:id/leads", h.ListTopLeads)
		api.GET("/partners/:id/insights", h.GetInsights)
		api.GET("/partners/:id/playbook", h.GetPlaybook)

		// Leads
		api.GET("/leads/:id", h.GetLead)
		api.PATCH("/leads/:id/status", h.UpdateLeadStatus)

		// Learning hub
		api.GET("/training/modules", h.ListModules)
		api.GET("/training/modules/:id/quiz", h.GetQuiz)
		api.POST("/training/results", h.SubmitQuizResult)

		// Sales copilot conversations
		api.GET("/conversations/:id/messages", h.ListMessages)
		api.POST("/conversations/:id/messages", h.PostMessage)

		// Post-sale support
		api.GET("/customers/:id/queries", h.ListQueries)
		api.POST("/customers/:id/queries", h.CreateQuery)
		api.POST("/queries/:id/resolve", h.ResolveQuery)

		// AI assistance
		api.POST("/assist/outreach", h.Outreach)
		api.POST("/assist/reply", h.Reply)
		api.POST("/assist/training", h.TrainingContent)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

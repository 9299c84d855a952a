package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nordvik-interiors/ops-api/internal/authz"
	"github.com/nordvik-interiors/ops-api/internal/config"
	"github.com/nordvik-interiors/ops-api/internal/database"
	"github.com/nordvik-interiors/ops-api/internal/http/handler"
	"github.com/nordvik-interiors/ops-api/internal/http/middleware"

	_ "github.com/nordvik-interiors/ops-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *authz.Middleware
	rateLimiter         *middleware.RateLimiter
	authHandler         *handler.AuthHandler
	pipelineHandler     *handler.PipelineHandler
	marketingHandler    *handler.MarketingHandler
	quoteHandler        *handler.QuoteHandler
	orderHandler        *handler.OrderHandler
	deliveryHandler     *handler.DeliveryHandler
	taskHandler         *handler.TaskHandler
	teamHandler         *handler.TeamHandler
	notificationHandler *handler.NotificationHandler
	dashboardHandler    *handler.DashboardHandler
	exportHandler       *handler.ExportHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *authz.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	pipelineHandler *handler.PipelineHandler,
	marketingHandler *handler.MarketingHandler,
	quoteHandler *handler.QuoteHandler,
	orderHandler *handler.OrderHandler,
	deliveryHandler *handler.DeliveryHandler,
	taskHandler *handler.TaskHandler,
	teamHandler *handler.TeamHandler,
	notificationHandler *handler.NotificationHandler,
	dashboardHandler *handler.DashboardHandler,
	exportHandler *handler.ExportHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		authHandler:         authHandler,
		pipelineHandler:     pipelineHandler,
		marketingHandler:    marketingHandler,
		quoteHandler:        quoteHandler,
		orderHandler:        orderHandler,
		deliveryHandler:     deliveryHandler,
		taskHandler:         taskHandler,
		teamHandler:         teamHandler,
		notificationHandler: notificationHandler,
		dashboardHandler:    dashboardHandler,
		exportHandler:       exportHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	if rt.cfg.Server.EnableMetrics {
		r.Use(middleware.Metrics)
	}
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats":   stats,
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Prometheus metrics
	if rt.cfg.Server.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)
		r.Use(rt.rateLimiter.Limit)

		// Auth
		r.Get("/auth/me", rt.authHandler.Me)

		// Dashboard
		r.With(rt.authMiddleware.RequireSection(authz.SectionDashboard)).
			Get("/dashboard", rt.dashboardHandler.GetSummary)

		// Sales pipeline
		r.Route("/pipeline", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireSection(authz.SectionClients))

			r.Get("/board", rt.pipelineHandler.GetBoard)
			r.Get("/stats", rt.pipelineHandler.GetStats)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.pipelineHandler.List)
				r.Post("/", rt.pipelineHandler.Create)
				r.Get("/{id}", rt.pipelineHandler.GetByID)
				r.Put("/{id}", rt.pipelineHandler.Update)
				r.Post("/{id}/move", rt.pipelineHandler.MoveStage)
				r.Post("/{id}/advance", rt.pipelineHandler.AdvanceStage)
				r.Post("/{id}/lost", rt.pipelineHandler.MarkLost)
				r.Post("/{id}/payments", rt.pipelineHandler.RecordPayment)
				r.Get("/{id}/history", rt.pipelineHandler.GetStageHistory)
			})
		})

		// Marketing leads
		r.Route("/marketing", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireSection(authz.SectionClients))

			r.Get("/stats", rt.marketingHandler.GetStats)

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", rt.marketingHandler.List)
				r.Post("/", rt.marketingHandler.Register)
				r.Get("/{id}", rt.marketingHandler.GetByID)
				r.Patch("/{id}/interest", rt.marketingHandler.UpdateInterest)
				r.Get("/{id}/outreach", rt.marketingHandler.GetOutreachHistory)
				r.Post("/{id}/outreach", rt.marketingHandler.LogOutreach)
				r.Post("/{id}/convert", rt.marketingHandler.Convert)
			})
		})

		// Quotes
		r.Route("/quotes", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireSection(authz.SectionQuotes))

			r.Get("/", rt.quoteHandler.List)
			r.Post("/", rt.quoteHandler.Create)
			r.Get("/stats", rt.quoteHandler.GetStats)
			r.Get("/{id}", rt.quoteHandler.GetByID)
			r.Put("/{id}", rt.quoteHandler.Update)
			r.Post("/{id}/send", rt.quoteHandler.Send)
			r.Post("/{id}/viewed", rt.quoteHandler.MarkViewed)
			r.Post("/{id}/accept", rt.quoteHandler.Accept)
			r.Post("/{id}/reject", rt.quoteHandler.Reject)
		})

		// Orders
		r.Route("/orders", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireSection(authz.SectionOrders))

			r.Get("/", rt.orderHandler.List)
			r.Post("/", rt.orderHandler.Create)
			r.Get("/{id}", rt.orderHandler.GetByID)
			r.Patch("/{id}/status", rt.orderHandler.UpdateStatus)
		})

		// Deliveries
		r.Route("/deliveries", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireSection(authz.SectionDeliveries))

			r.Get("/", rt.deliveryHandler.List)
			r.Post("/", rt.deliveryHandler.Schedule)
			r.Get("/{id}", rt.deliveryHandler.GetByID)
			r.Patch("/{id}/status", rt.deliveryHandler.UpdateStatus)
		})

		// Tasks
		r.Route("/tasks", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireSection(authz.SectionTasks))

			r.Get("/", rt.taskHandler.List)
			r.Post("/", rt.taskHandler.Create)
			r.Get("/{id}", rt.taskHandler.GetByID)
			r.Put("/{id}", rt.taskHandler.Update)
			r.Post("/{id}/complete", rt.taskHandler.Complete)
			r.Delete("/{id}", rt.taskHandler.Delete)
		})

		// Team
		r.Route("/team", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireSection(authz.SectionTeam))

			r.Get("/", rt.teamHandler.List)
			r.Get("/{id}", rt.teamHandler.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAction(authz.ActionTeamManage))
				r.Post("/", rt.teamHandler.Create)
				r.Put("/{id}", rt.teamHandler.Update)
				r.Delete("/{id}", rt.teamHandler.Deactivate)
			})
		})

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireSection(authz.SectionNotifications))

			r.Get("/", rt.notificationHandler.List)
			r.Get("/count", rt.notificationHandler.GetUnreadCount)
			r.Put("/read-all", rt.notificationHandler.MarkAllAsRead)
			r.Get("/{id}", rt.notificationHandler.GetByID)
			r.Put("/{id}/read", rt.notificationHandler.MarkAsRead)
		})

		// CSV export
		r.Route("/export", func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireAction(authz.ActionExportDownload))

			r.Get("/pipeline.csv", rt.exportHandler.PipelineClients)
			r.Get("/leads.csv", rt.exportHandler.MarketingLeads)
			r.Get("/quotes.csv", rt.exportHandler.Quotes)
			r.Get("/orders.csv", rt.exportHandler.Orders)
			r.Get("/deliveries.csv", rt.exportHandler.Deliveries)
		})
	})

	return r
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nordvik-interiors/ops-api/docs"
	"github.com/nordvik-interiors/ops-api/internal/authz"
	"github.com/nordvik-interiors/ops-api/internal/config"
	"github.com/nordvik-interiors/ops-api/internal/database"
	"github.com/nordvik-interiors/ops-api/internal/export"
	"github.com/nordvik-interiors/ops-api/internal/http/handler"
	"github.com/nordvik-interiors/ops-api/internal/http/middleware"
	"github.com/nordvik-interiors/ops-api/internal/http/router"
	"github.com/nordvik-interiors/ops-api/internal/jobs"
	"github.com/nordvik-interiors/ops-api/internal/logger"
	"github.com/nordvik-interiors/ops-api/internal/mail"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/internal/service"
)

// @title Nordvik Ops API
// @version 1.0
// @description Internal operations API for lead intake, sales pipeline, quotes, orders, deliveries, tasks and team management

// @contact.name Ops Platform
// @contact.email dev@nordvik-interiors.no

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	switch cfg.App.Environment {
	case "production":
		docs.SwaggerInfo.Host = "ops.nordvik-interiors.no"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Repositories
	clientRepo := repository.NewPipelineClientRepository(db)
	historyRepo := repository.NewStageHistoryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	leadRepo := repository.NewMarketingLeadRepository(db)
	outreachRepo := repository.NewOutreachRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Mailer
	mailer := mail.NewMailer(&cfg.SMTP, log)

	// Services
	pipelineService := service.NewPipelineService(clientRepo, historyRepo, paymentRepo, notificationRepo, log, db)
	marketingService := service.NewMarketingService(leadRepo, outreachRepo, pipelineService, mailer, log)
	quoteService := service.NewQuoteService(quoteRepo, clientRepo, notificationRepo, log)
	orderService := service.NewOrderService(orderRepo, clientRepo, userRepo, log)
	deliveryService := service.NewDeliveryService(deliveryRepo, orderRepo, userRepo, notificationRepo, log)
	taskService := service.NewTaskService(taskRepo, userRepo, notificationRepo, log)
	teamService := service.NewTeamService(userRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	dashboardService := service.NewDashboardService(clientRepo, leadRepo, quoteRepo, taskRepo, deliveryRepo, log)
	exporter := export.NewExporter(clientRepo, leadRepo, quoteRepo, orderRepo, deliveryRepo)

	// Middleware
	authMiddleware := authz.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo, log)
	pipelineHandler := handler.NewPipelineHandler(pipelineService, log)
	marketingHandler := handler.NewMarketingHandler(marketingService, log)
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	orderHandler := handler.NewOrderHandler(orderService, log)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	teamHandler := handler.NewTeamHandler(teamService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	exportHandler := handler.NewExportHandler(exporter, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		pipelineHandler,
		marketingHandler,
		quoteHandler,
		orderHandler,
		deliveryHandler,
		taskHandler,
		teamHandler,
		notificationHandler,
		dashboardHandler,
		exportHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterQuoteExpiryJob(
			scheduler,
			quoteService,
			log,
			cfg.Jobs.QuoteExpirySchedule,
			5*time.Minute,
		); err != nil {
			log.Error("Failed to register quote expiry job", zap.Error(err))
		}

		if err := jobs.RegisterFollowUpJob(
			scheduler,
			leadRepo,
			notificationRepo,
			cfg.Jobs.FollowUpDays,
			log,
			cfg.Jobs.FollowUpSchedule,
			5*time.Minute,
		); err != nil {
			log.Error("Failed to register follow-up job", zap.Error(err))
		}

		scheduler.Start()
		log.Info("Scheduler started",
			zap.Strings("jobs", scheduler.GetJobNames()),
			zap.String("quote_expiry_schedule", cfg.Jobs.QuoteExpirySchedule),
			zap.String("follow_up_schedule", cfg.Jobs.FollowUpSchedule),
		)
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

package main

import (
	"context"
	"net/http"
	"os/signal"
	"sekarnet/config"
	"sekarnet/delivery"
	"sekarnet/jobs"
	"sekarnet/middleware"
	"sekarnet/notifier"
	"sekarnet/reports"
	"sekarnet/repository"
	"sekarnet/service"
	"sekarnet/storage"
	"sekarnet/utils"
	"sekarnet/websocket"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const packageCacheTTL = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	cfg := config.Load()
	utils.InitLogger(cfg.Server.Env)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.RegisterCustomValidations(v)
	}

	db, err := config.BootDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	redisClient := config.InitRedisDB(cfg.Redis)

	uploader, err := storage.New(cfg.Storage.CloudinaryURL, cfg.Storage.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init file storage")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Init repositories
	userRepo := repository.NewUserRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	installationRepo := repository.NewInstallationRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	jobRepo := repository.NewJobRepository(db)
	billRepo := repository.NewBillRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	statRepo := repository.NewConnectionStatRepository(db)
	reportRepo := repository.NewReportRepository(db)
	packageCache := repository.NewPackageCache(redisClient, packageCacheTTL)

	// Out-of-band delivery
	n := notifier.New(
		notifier.NewSMTPMailer(notifier.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}),
		notifier.NewTwilioSMS(notifier.TwilioConfig{
			AccountSID: cfg.Twilio.AccountSID,
			AuthToken:  cfg.Twilio.AuthToken,
			From:       cfg.Twilio.From,
		}),
		hub,
	)
	dispatcher := jobs.NewOutboxDispatcher(outboxRepo, n, jobs.DispatcherConfig{
		PollInterval: cfg.Outbox.PollInterval,
		MaxAttempts:  cfg.Outbox.MaxAttempts,
		BatchSize:    cfg.Outbox.BatchSize,
	})
	go dispatcher.Run(ctx)

	// Init services
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Duration)
	billService := service.NewBillService(billRepo, userRepo, notificationRepo)
	uc := delivery.UseCases{
		Auth:         service.NewAuthService(userRepo, activityRepo, jwtManager),
		User:         service.NewUserService(userRepo),
		Package:      service.NewPackageService(packageRepo, packageCache),
		Subscription: service.NewSubscriptionService(subscriptionRepo),
		Installation: service.NewInstallationService(installationRepo, userRepo, packageRepo),
		Ticket:       service.NewTicketService(ticketRepo, userRepo),
		Job:          service.NewJobService(jobRepo, installationRepo, ticketRepo),
		Bill:         billService,
		Payment: service.NewPaymentService(billRepo, service.QRISConfig{
			ImagePath:    cfg.QRIS.ImagePath,
			MerchantName: cfg.QRIS.MerchantName,
			MerchantCity: cfg.QRIS.MerchantCity,
			PostalCode:   cfg.QRIS.PostalCode,
		}),
		Notification: service.NewNotificationService(notificationRepo, userRepo, n, cfg.BroadcastDelay),
		Activity:     service.NewActivityService(activityRepo, statRepo),
		Report:       service.NewReportService(reportRepo, reports.NewGenerator(cfg.Storage.ReportsDir)),
	}

	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	app := gin.New()
	config.InitMiddleware(app, cfg)
	app.Use(middleware.NewRateLimiter(redisClient).Middleware())

	delivery.RegisterRoutes(app, uc, uploader, hub)

	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        app,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	// The server has 10 seconds to finish the requests it is handling.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}
	log.Info().Msg("server exited gracefully")
}

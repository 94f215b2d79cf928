package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"farmtrack/config"
	_ "farmtrack/docs"
	"farmtrack/internal/adapters/auth"
	"farmtrack/internal/adapters/email"
	"farmtrack/internal/adapters/push"
	httpdelivery "farmtrack/internal/delivery/http"
	"farmtrack/internal/delivery/http/controllers"
	"farmtrack/internal/delivery/http/middleware"
	"farmtrack/internal/delivery/ws"
	"farmtrack/internal/domain"
	"farmtrack/internal/repository/postgres"
	"farmtrack/internal/services"
)

const bcryptCost = 12

// @title FarmTrack API
// @version 1.0
// @description Livestock management backend: poultry, fishery, and cattle tracking with rule-based analysis alerts.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	codeRepo := postgres.NewVerificationCodeRepository(db)
	deviceRepo := postgres.NewDeviceRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	poultryRepo := postgres.NewPoultryRepository(db)
	fisheryRepo := postgres.NewFisheryRepository(db)
	cattleRepo := postgres.NewCattleRepository(db)

	hasher := auth.NewBcryptHasher(bcryptCost)
	issuer, verifier := auth.NewJWTCodec(cfg.JWTSecret)

	mailer, err := email.NewMailer(cfg.Email, logger)
	if err != nil {
		logger.Error("failed to build mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	var pushSender domain.PushSender
	if cfg.PushProvider == "expo" {
		pushSender = push.NewExpoSender(&http.Client{Timeout: 10 * time.Second})
	} else {
		pushSender = push.NewNoopSender(logger)
	}

	hub := ws.NewHub(logger, verifier)

	userService := services.NewUserService(userRepo, codeRepo, hasher, issuer, cfg.TokenExpiry, emailService)
	deviceService := services.NewDeviceService(deviceRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, deviceRepo, hub, pushSender, emailService, logger)
	poultryService := services.NewPoultryService(poultryRepo)
	fisheryService := services.NewFisheryService(fisheryRepo)
	cattleService := services.NewCattleService(cattleRepo)
	analysisService := services.NewAnalysisService(poultryRepo, fisheryRepo, userRepo, notificationService, logger)

	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		User:         controllers.NewUserController(logger, userService),
		Device:       controllers.NewDeviceController(logger, deviceService),
		Notification: controllers.NewNotificationController(logger, notificationService),
		Poultry:      controllers.NewPoultryController(logger, poultryService),
		Fishery:      controllers.NewFisheryController(logger, fisheryService),
		Cattle:       controllers.NewCattleController(logger, cattleService),
		Analysis:     controllers.NewAnalysisController(logger, analysisService),
	}, hub, verifier, logger)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.AnalysisSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := analysisService.RunFullAnalysis(ctx); err != nil {
			logger.Error("scheduled analysis failed", "err", err)
		}
	}); err != nil {
		logger.Error("invalid analysis schedule", "schedule", cfg.AnalysisSchedule, "err", err)
		os.Exit(1)
	}
	scheduler.Start()

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	<-scheduler.Stop().Done()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}

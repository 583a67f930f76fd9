package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qr_order_system/internal/app"
	"qr_order_system/internal/infra/config"
	idb "qr_order_system/internal/infra/database"
	"qr_order_system/internal/infra/httpapi"
	"qr_order_system/internal/infra/logger"
	"qr_order_system/internal/infra/mail"
	"qr_order_system/internal/infra/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Initialize Repositories
	vendorRepo := idb.NewPostgresVendorRepository(db)
	orderRepo := idb.NewPostgresOrderRepository(db)
	qrRepo := idb.NewPostgresQRCodeRepository(db)
	lockRepo := idb.NewPostgresLockRepository(db)
	log.Info("Repositories initialized.")

	// Initialize Mail Client (token source lives for the process lifetime)
	mailClient := mail.NewGraphClient(cfg.GraphTenantID, cfg.GraphClientID, cfg.GraphClientSecret, cfg.MailSender)
	log.Info("Mail client initialized.")

	// Initialize NotificationService
	notifService := app.NewNotificationService(
		vendorRepo,
		orderRepo,
		lockRepo,
		mailClient,
		log.WithField("component", "notifier"),
		cfg.JobLockTTL,
	)
	log.Info("Notification service initialized.")

	// Initialize DigestScheduler (periodic trigger; the HTTP endpoint can
	// fire the same job on demand, the job lock arbitrates overlaps)
	digestScheduler := scheduler.NewDigestScheduler(
		notifService,
		log.WithField("component", "scheduler"),
		cfg.CronSpecVendorDigest,
	)
	if err := digestScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start digest scheduler: %v", err)
	}

	// Initialize HTTP API
	handler := httpapi.NewHandler(vendorRepo, orderRepo, qrRepo, notifService, log.WithField("component", "httpapi"))
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	digestScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	log.Info("Application shut down gracefully.")
}

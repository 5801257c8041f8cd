package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/directory"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/email"
	identityRepoPg "github.com/harvestChurchAdmin/church-messaging-app/internal/identity/repository/postgres"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/adapters/carrier"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/app"
	messagingRepoPg "github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/repository/postgres"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/platform/config"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/platform/database"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/platform/logger"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/platform/messagebroker"
	httptransport "github.com/harvestChurchAdmin/church-messaging-app/internal/transport/http"
)

const appName = "church-messaging-gateway"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger.Info("Gateway starting", "port", cfg.ServerPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewDBPool(ctx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Connected to PostgreSQL")

	natsClient, err := messagebroker.NewNatsClient(cfg.NATSUrl, appName, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()
	appLogger.Info("Connected to NATS")

	ledgerRepo := messagingRepoPg.NewPgSmsRecordRepository(dbPool)
	userRepo := identityRepoPg.NewPgUserRepository(dbPool)

	var carrierAdapter carrier.Adapter
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioPhoneNumber != "" {
		statusCallbackURL := cfg.ServerBaseURL + "/webhooks/twilio/status"
		carrierAdapter = carrier.NewTwilioAdapter(appLogger, cfg.TwilioAPIBaseURL,
			cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, statusCallbackURL, nil)
	} else {
		appLogger.Warn("Twilio credentials not configured, using mock carrier")
		carrierAdapter = carrier.NewMockAdapter(appLogger)
	}

	emailSender := email.NewSMTPSender(email.SMTPConfig{
		Host:        cfg.EmailHost,
		Port:        cfg.EmailPort,
		Username:    cfg.EmailUser,
		Password:    cfg.EmailPass,
		FromAddress: cfg.NoReplyEmail,
	}, appLogger)

	breezeBaseURL := cfg.BreezeBaseURL
	if breezeBaseURL == "" {
		breezeBaseURL = fmt.Sprintf("https://%s.breezechms.com/api", cfg.BreezeSubdomain)
	}
	directoryClient := directory.NewClient(appLogger, breezeBaseURL, cfg.BreezeAPIKey, nil)

	dispatchService := app.NewDispatchService(ledgerRepo, carrierAdapter, appLogger)
	reconciler := app.NewStatusReconciler(ledgerRepo, appLogger)
	replyRouter := app.NewReplyRouter(ledgerRepo, userRepo, emailSender,
		cfg.NoReplyEmail, cfg.EmailDisplayName, appLogger)

	consumer := app.NewWebhookConsumer(natsClient, reconciler, replyRouter, appLogger)
	if err := consumer.Start(ctx); err != nil {
		appLogger.Error("Failed to start webhook consumers", "error", err)
		os.Exit(1)
	}
	defer consumer.Stop()

	router := httptransport.NewRouter(httptransport.RouterDeps{
		MessageHandler:   httptransport.NewMessageHandler(dispatchService, ledgerRepo, appLogger),
		WebhookHandler:   httptransport.NewWebhookHandler(natsClient, appLogger),
		DirectoryHandler: httptransport.NewDirectoryHandler(directoryClient, appLogger),
		JWTSecret:        cfg.JWTSecret,
		Logger:           appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	}
	appLogger.Info("Gateway stopped")
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"barhopregistration/config"
	"barhopregistration/internal/adapters/auth"
	"barhopregistration/internal/adapters/email"
	"barhopregistration/internal/adapters/payments"
	httpdelivery "barhopregistration/internal/delivery/http"
	"barhopregistration/internal/delivery/http/controllers"
	"barhopregistration/internal/delivery/http/middleware"
	"barhopregistration/internal/repository/postgres"
	"barhopregistration/internal/services"
)

// @title Bar Hop Registration API
// @version 1.0
// @description Event registration, payment, and cancellation backend for bar-hopping events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment)

	location, err := time.LoadLocation(cfg.EventTimezone)
	if err != nil {
		logger.Warn("invalid event timezone, falling back to UTC", "timezone", cfg.EventTimezone)
		location = time.UTC
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("database ping: %v", err)
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(12)
	tokenIssuer, tokenVerifier := auth.NewJWTTokens(cfg.JWTSecret)
	processor := payments.NewStripeProcessor(payments.Config{
		SecretKey: cfg.StripeSecretKey,
		Timeout:   cfg.StripeTimeout,
	})
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	}, logger)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	// Services
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	registrationSvc := services.NewRegistrationService(eventRepo, regRepo, userRepo, hasher)
	paymentSvc := services.NewPaymentService(
		paymentRepo, regRepo, eventRepo, userRepo, accountRepo,
		processor, emailSvc, tokenIssuer,
		services.PaymentConfig{
			ClientURL:        cfg.ClientURL,
			AdminClientURL:   cfg.AdminClientURL,
			AdminAccountName: cfg.AdminAccountName,
			Location:         location,
		},
		logger,
	)
	cancellationSvc := services.NewCancellationService(
		regRepo, paymentRepo, eventRepo, userRepo, processor, emailSvc, location, logger,
	)

	// HTTP delivery
	mux := httpdelivery.NewRouter(
		controllers.NewRegistrationController(logger, registrationSvc),
		controllers.NewPaymentController(logger, paymentSvc),
		controllers.NewCancellationController(logger, cancellationSvc),
		controllers.NewAdminController(logger, cancellationSvc),
		tokenVerifier,
		logger,
	)
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}

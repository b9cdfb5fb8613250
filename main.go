package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ndelight-api/internal/auth"
	auth_api "ndelight-api/internal/auth/api"
	auth_db "ndelight-api/internal/auth/db"
	"ndelight-api/internal/booking"
	booking_api "ndelight-api/internal/booking/api"
	booking_db "ndelight-api/internal/booking/db"
	"ndelight-api/internal/config"
	"ndelight-api/internal/contact"
	"ndelight-api/internal/database/migrations"
	"ndelight-api/internal/events"
	events_api "ndelight-api/internal/events/api"
	events_db "ndelight-api/internal/events/db"
	"ndelight-api/internal/influencer"
	influencer_api "ndelight-api/internal/influencer/api"
	influencer_db "ndelight-api/internal/influencer/db"
	"ndelight-api/internal/kafka"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/mailer"
	"ndelight-api/internal/models"
	"ndelight-api/internal/payment"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func connectDatabase(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	if cfg.DSN == "" {
		log.Fatal("CONFIG", "POSTGRES_DSN not set")
	}

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting NDelight API initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()

	bunDB := connectDatabase(cfg.Database, log)
	defer bunDB.Close()

	if cfg.Database.MigrateOnStart {
		runner := migrations.NewRunner(bunDB, migrations.Options{MigrationsDir: cfg.Database.MigrationsDir})
		if err := runner.Up(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
		if version, err := runner.Version(); err == nil {
			log.Info("DATABASE", fmt.Sprintf("Schema at version %d", version))
		}
	}

	var publisher booking.Publisher = kafka.Noop{}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.BookingCreated, cfg.Kafka.Topics.BookingPaid)
		defer producer.Close()
		publisher = producer
		log.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for %v", cfg.Kafka.Brokers))
	} else {
		log.Info("KAFKA", "Kafka disabled, booking events will not be published")
	}

	smtp := mailer.NewSMTP(cfg.Email, cfg.App.SiteURL)
	clock := auth.SystemClock()

	gateway := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	bookingService := booking.NewService(
		booking_db.NewDB(bunDB),
		gateway,
		smtp,
		publisher,
		cfg.Razorpay.KeyID,
		cfg.Razorpay.Currency,
		log,
	)
	bookingHandler := booking_api.NewHandler(bookingService, cfg.Razorpay.WebhookSecret, log)

	eventsService := events.NewService(events_db.NewDB(bunDB), log)
	eventsHandler := events_api.NewHandler(eventsService, log)

	profiles := auth_db.NewDB(bunDB)
	window := auth.DailyWindow{Cooldown: cfg.OTP.Cooldown, Limit: cfg.OTP.DailyLimit}
	otpService := auth.NewOTPService(profiles, smtp, window, cfg.OTP.Expiry, cfg.OTP.MaxAttempts, clock, log)
	preSignupService := auth.NewPreSignupService(profiles, profiles, smtp, cfg.OTP.Expiry, clock, log)
	adminClient := auth.NewAdminClient(cfg.Auth.AdminURL, cfg.Auth.ServiceRoleKey)
	resetService := auth.NewResetService(profiles, adminClient, smtp, time.Hour, cfg.App.SiteURL, clock, log)
	authHandler := auth_api.NewHandler(otpService, preSignupService, resetService, profiles, log)

	influencerService := influencer.NewService(influencer_db.NewDB(bunDB), profiles, smtp, log)
	influencerHandler := influencer_api.NewHandler(influencerService, log)

	contactHandler := contact.NewHandler(contact.NewDB(bunDB), smtp, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public routes ---
	r.Route("/api", func(r chi.Router) {
		r.Get("/events", eventsHandler.List)
		r.Get("/events/{eventId}", eventsHandler.Get)
		r.Post("/create-order", bookingHandler.CreateOrder)
		r.Post("/razorpay-webhook", bookingHandler.Webhook)
		r.Post("/send-booking-email", bookingHandler.SendBookingEmail)
		r.Post("/contact", contactHandler.Submit)
		r.Post("/auth/pre-signup/send-otp", authHandler.PreSignupSendOTP)
		r.Post("/auth/pre-signup/verify-otp", authHandler.PreSignupVerifyOTP)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)
		r.Post("/auth/reset-password", authHandler.ResetPassword)
	})
	log.Info("ROUTER", "Public routes registered under /api")

	// --- Authenticated routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.JWTSecret))

		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/send-otp", authHandler.SendOTP)
			r.Post("/verify-otp", authHandler.VerifyOTP)
			r.Post("/mark-verified", authHandler.MarkVerified)
		})

		r.Route("/api/influencer", func(r chi.Router) {
			r.Use(auth.RequireRole(profiles, models.RoleInfluencer, models.RoleAdmin))
			r.Get("/stats", influencerHandler.MyStats)
		})

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(profiles, models.RoleAdmin))
			r.Post("/events", eventsHandler.Create)
			r.Put("/events/{eventId}", eventsHandler.Update)
			r.Delete("/events/{eventId}", eventsHandler.Delete)
			r.Get("/influencers", influencerHandler.List)
			r.Post("/influencers/approve", influencerHandler.Approve)
			r.Post("/influencers/{userId}/revoke", influencerHandler.Revoke)
			r.Get("/influencers/{code}/stats", influencerHandler.CodeStats)
			r.Post("/send-approval-email", influencerHandler.ResendApproval)
		})
	})
	log.Info("ROUTER", "Authenticated routes registered")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("NDelight API running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "NDelight API shutdown complete")
	}
}

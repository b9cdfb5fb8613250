package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Razorpay RazorpayConfig
	Email    EmailConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	OTP      OTPConfig
	App      AppConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	DSN            string
	MaxOpenConns   int
	MaxIdleConns   int
	MigrateOnStart bool
	MigrationsDir  string
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromNoReply  string
	FromTickets  string
	FromAdmin    string
	ContactInbox string
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	BookingCreated string
	BookingPaid    string
}

type AuthConfig struct {
	// JWTSecret verifies HS256 access tokens issued by the auth backend.
	JWTSecret string
	// AdminURL and ServiceRoleKey reach the auth admin API for password
	// updates during reset.
	AdminURL       string
	ServiceRoleKey string
}

type OTPConfig struct {
	Cooldown    time.Duration
	DailyLimit  int
	Expiry      time.Duration
	MaxAttempts int
}

type AppConfig struct {
	SiteURL string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:            getEnv("POSTGRES_DSN", ""),
			MaxOpenConns:   getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MigrateOnStart: getEnvBool("DB_MIGRATE_ON_START", false),
			MigrationsDir:  getEnv("DB_MIGRATIONS_DIR", "./migrations"),
		},
		Razorpay: RazorpayConfig{
			KeyID:         getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
			WebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
			Currency:      getEnv("RAZORPAY_CURRENCY", "INR"),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnvInt("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromNoReply:  getEnv("EMAIL_FROM_NOREPLY", "NDelight <noreply@contact.ndelight.in>"),
			FromTickets:  getEnv("EMAIL_FROM_TICKETS", "NDelight Tickets <tickets@contact.ndelight.in>"),
			FromAdmin:    getEnv("EMAIL_FROM_ADMIN", "NDelight Admin <admin@contact.ndelight.in>"),
			ContactInbox: getEnv("EMAIL_CONTACT_INBOX", "ndelight.co@gmail.com"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Topics: TopicConfig{
				BookingCreated: getEnv("KAFKA_TOPIC_BOOKING_CREATED", "ndelight.booking.created"),
				BookingPaid:    getEnv("KAFKA_TOPIC_BOOKING_PAID", "ndelight.booking.paid"),
			},
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
			AdminURL:       getEnv("AUTH_ADMIN_URL", ""),
			ServiceRoleKey: getEnv("AUTH_SERVICE_ROLE_KEY", ""),
		},
		OTP: OTPConfig{
			Cooldown:    time.Duration(getEnvInt("OTP_COOLDOWN_SECONDS", 10)) * time.Second,
			DailyLimit:  getEnvInt("OTP_DAILY_LIMIT", 100),
			Expiry:      time.Duration(getEnvInt("OTP_EXPIRY_MINUTES", 10)) * time.Minute,
			MaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 5),
		},
		App: AppConfig{
			SiteURL: getEnv("APP_URL", "https://www.ndelight.in"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

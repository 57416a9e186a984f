package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// Redis configuration (slot cache + task queue).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Operating hours and slot rules. Times are local to the single
	// operating timezone; slot labels use SlotLabelLayout everywhere.
	OpenHour        int    `mapstructure:"OPEN_HOUR"`
	CloseHour       int    `mapstructure:"CLOSE_HOUR"`
	SlotIntervalMin int    `mapstructure:"SLOT_INTERVAL_MIN"`
	MinGapMin       int    `mapstructure:"MIN_GAP_MIN"`
	SlotLabelLayout string `mapstructure:"SLOT_LABEL_LAYOUT"`
	CancelCutoffMin int    `mapstructure:"CANCEL_CUTOFF_MIN"`

	// Payment gateway.
	StripeKey         string `mapstructure:"STRIPE_SECRET_KEY"`
	Currency          string `mapstructure:"CURRENCY"`
	PaymentSuccessURL string `mapstructure:"PAYMENT_SUCCESS_URL"`
	PaymentCancelURL  string `mapstructure:"PAYMENT_CANCEL_URL"`

	// Notification emails.
	SMTPHost   string `mapstructure:"SMTP_HOST"`
	SMTPPort   int    `mapstructure:"SMTP_PORT"`
	SMTPUser   string `mapstructure:"SMTP_USER"`
	SMTPPass   string `mapstructure:"SMTP_PASS"`
	OwnerEmail string `mapstructure:"OWNER_EMAIL"`

	// Background workers.
	ReminderLeadHours int `mapstructure:"REMINDER_LEAD_HOURS"`
	OrphanTTLMin      int `mapstructure:"ORPHAN_TTL_MIN"`

	AllowedOrigins    []string `mapstructure:"ALLOWED_ORIGINS"`
	MaxRequestsPerMin int      `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "kiings")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("OPEN_HOUR", 8)
	viper.SetDefault("CLOSE_HOUR", 18)
	viper.SetDefault("SLOT_INTERVAL_MIN", 30)
	viper.SetDefault("MIN_GAP_MIN", 60)
	viper.SetDefault("SLOT_LABEL_LAYOUT", "15:04")
	viper.SetDefault("CANCEL_CUTOFF_MIN", 60)
	viper.SetDefault("CURRENCY", "zar")
	viper.SetDefault("PAYMENT_SUCCESS_URL", "https://kiings.vercel.app/#/success")
	viper.SetDefault("PAYMENT_CANCEL_URL", "https://kiings.vercel.app/#/paymentcanceled")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("OWNER_EMAIL", "booking.kiingscarwash@gmail.com")
	viper.SetDefault("REMINDER_LEAD_HOURS", 24)
	viper.SetDefault("ORPHAN_TTL_MIN", 15)
	viper.SetDefault("ALLOWED_ORIGINS", []string{"https://kiings.vercel.app", "http://localhost:3000"})
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

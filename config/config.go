package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/foodiehub/utils"
)

type Config struct {
	Port     string
	GinMode  string
	DBDriver string
	DBDSN    string

	JWTSecret   string
	OrderAPIURL string

	DeliveryFee       float64
	FreeDeliveryAbove float64
	TaxRate           float64

	RabbitMQURL     string
	RabbitMQQueue   string
	ChannelPoolSize int

	SendGridAPIKey   string
	PostmarkAPIToken string
	EmailSender      string

	AllowedOrigin   string
	SessionStore    string
	MongoURI        string
	MongoDatabase   string
	SessionTTLHours int
	AdminEmail      string
	AdminPassword   string

	LogFormat string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:             getEnv("DB_DSN", "foodiehub.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		OrderAPIURL:       strings.TrimRight(os.Getenv("ORDER_API_URL"), "/"),
		DeliveryFee:       getFloat("DELIVERY_FEE", 40),
		FreeDeliveryAbove: getFloat("FREE_DELIVERY_ABOVE", 500),
		TaxRate:           getFloat("TAX_RATE", 0.05),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		RabbitMQQueue:     getEnv("RABBITMQ_QUEUE", "foodiehub.orders"),
		ChannelPoolSize:   getInt("CHANNEL_POOL_SIZE", 4),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		PostmarkAPIToken:  os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:       getEnv("EMAIL_SENDER", "orders@foodiehub.local"),
		AllowedOrigin:     os.Getenv("ALLOWED_ORIGIN"),
		SessionStore:      strings.ToLower(getEnv("SESSION_STORE", "db")),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "foodiehub"),
		SessionTTLHours:   getInt("SESSION_TTL_HOURS", 720),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		utils.ErrorLogger.Printf("Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		utils.ErrorLogger.Printf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

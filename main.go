package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/foodiehub/clients"
	"github.com/yeremiapane/foodiehub/config"
	"github.com/yeremiapane/foodiehub/coupon"
	"github.com/yeremiapane/foodiehub/database"
	"github.com/yeremiapane/foodiehub/events"
	"github.com/yeremiapane/foodiehub/middlewares"
	"github.com/yeremiapane/foodiehub/notify"
	"github.com/yeremiapane/foodiehub/pricing"
	"github.com/yeremiapane/foodiehub/router"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/storage"
	"github.com/yeremiapane/foodiehub/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogFormat)
	if cfg.JWTSecret != "" {
		utils.SetJWTSecret(cfg.JWTSecret)
	} else {
		utils.InfoLogger.Println("Warning: JWT_SECRET not set, using development secret")
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		utils.ErrorLogger.Printf("Error seeding database: %v", err)
	}

	orderService := services.NewOrderService(db)

	// Order history and submission go to the remote order API when one is
	// configured, otherwise to our own orders table.
	var (
		history   coupon.OrderHistory    = orderService
		submitter services.OrderSubmitter = orderService
	)
	if cfg.OrderAPIURL != "" {
		api := clients.NewOrderAPIClient(cfg.OrderAPIURL)
		history, submitter = api, api
		utils.InfoLogger.Printf("Using order API at %s", cfg.OrderAPIURL)
	}

	provider, err := sessionProvider(cfg, db)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to set up session store: %v", err)
	}
	sessions := services.NewSessionManager(provider, history)

	calc := pricing.NewCalculator(pricing.Rules{
		BaseDeliveryFee:   cfg.DeliveryFee,
		FreeDeliveryAbove: cfg.FreeDeliveryAbove,
		TaxRate:           cfg.TaxRate,
	})
	checkout := services.NewCheckoutService(submitter, calc)

	if cfg.RabbitMQURL != "" {
		pool, err := events.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize)
		if err != nil {
			utils.ErrorLogger.Printf("RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			defer pool.Close()
			checkout.Events = events.NewPublisher(pool, cfg.RabbitMQQueue)
		}
	}
	switch {
	case cfg.SendGridAPIKey != "":
		checkout.Notifier = notify.NewEmailNotifier(cfg.SendGridAPIKey, cfg.EmailSender)
	case cfg.PostmarkAPIToken != "":
		checkout.Notifier = notify.NewPostmarkNotifier(cfg.PostmarkAPIToken, cfg.EmailSender)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	go sweepSessions(ctx, sessions, provider, ttl)

	r := router.SetupRouter(router.Options{
		DB:                db,
		Sessions:          sessions,
		Checkout:          checkout,
		Orders:            orderService,
		AllowedOrigin:     cfg.AllowedOrigin,
		StorefrontLimiter: middlewares.NewRateLimiter(50, 1),
	})
	r.SetTrustedProxies([]string{"127.0.0.1"})

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	go func() {
		if err := r.Run(":" + cfg.Port); err != nil {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")
}

// sessionProvider picks where storefront session state lives: the main
// database (default), MongoDB, or process memory.
func sessionProvider(cfg *config.Config, db *gorm.DB) (storage.Provider, error) {
	switch cfg.SessionStore {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, err
		}
		utils.InfoLogger.Printf("Session store: mongo (%s)", cfg.MongoDatabase)
		return storage.NewMongoProvider(ctx, client.Database(cfg.MongoDatabase).Collection("session_entries"))
	case "memory":
		utils.InfoLogger.Println("Session store: memory")
		return storage.NewMemoryProvider(), nil
	default:
		return storage.NewGormProvider(db), nil
	}
}

// sweepSessions drops idle in-memory sessions and, when the store supports
// it, the persisted keys of sessions that are idle and no longer loaded.
func sweepSessions(ctx context.Context, sessions *services.SessionManager, provider storage.Provider, ttl time.Duration) {
	purger, _ := provider.(storage.Purger)
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted := sessions.Evict(ttl)
			var purged int64
			if purger != nil {
				n, err := purger.Purge(time.Now().Add(-ttl), sessions.IDs())
				if err != nil {
					utils.ErrorLogger.Printf("Error purging session entries: %v", err)
				}
				purged = n
			}
			if evicted > 0 || purged > 0 {
				utils.InfoLogger.WithFields(logrus.Fields{
					"evicted": evicted,
					"purged":  purged,
				}).Info("Session sweep")
			}
		}
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blossom2016/stripeConnect/config"
	"github.com/blossom2016/stripeConnect/controllers"
	"github.com/blossom2016/stripeConnect/database"
	"github.com/blossom2016/stripeConnect/logger"
	"github.com/blossom2016/stripeConnect/metrics"
	"github.com/blossom2016/stripeConnect/middleware"
	"github.com/blossom2016/stripeConnect/models"
	aws_pkg "github.com/blossom2016/stripeConnect/pkg/aws"
	"github.com/blossom2016/stripeConnect/repository"
	"github.com/blossom2016/stripeConnect/routes"
	"github.com/blossom2016/stripeConnect/sender"
	"github.com/blossom2016/stripeConnect/services"
	"github.com/blossom2016/stripeConnect/templates"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	requestTimeout = 30 * time.Second
	// Stripe retries undelivered events for up to three days.
	processedEventTTL = 72 * time.Hour
)

type stores struct {
	vendors repository.VendorRepository
	events  repository.EventRepository
	db      *gorm.DB
	redis   *redis.Client
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.Initialize(cfg.AppEnv)
	defer log.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var awsCfg *sdkaws.Config
	if cfg.UseAWSSecrets || cfg.PaymentSNSTopicARN != "" {
		loaded, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Fatal("Failed to load AWS config", zap.Error(err))
		}
		awsCfg = &loaded
	}
	if cfg.UseAWSSecrets {
		cfg.ApplySecrets(ctx, aws_pkg.NewSecretsClient(*awsCfg))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	st, err := buildStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize stores", zap.Error(err))
	}

	serverMetrics := metrics.NewServerMetrics()
	notifier := buildNotifier(cfg, awsCfg, serverMetrics, log)

	products := repository.NewMemoryProductRepo(repository.DefaultCatalog())
	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	var events repository.EventRepository
	if cfg.WebhookDedupEnabled {
		events = st.events
	}

	mc := controllers.NewMarketplaceController(
		products,
		services.NewCheckoutService(products, st.vendors, stripeSvc, cfg.Domain, log),
		services.NewOnboardingService(st.vendors, stripeSvc, cfg.Domain, log),
		log,
	)
	wc := controllers.NewWebhookController(
		services.NewWebhookService(stripeSvc, events, notifier, cfg.NotifyTimeout, serverMetrics, log),
		log,
	)

	tmpl, err := templates.Load()
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MetricsMiddleware(serverMetrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Timeout(requestTimeout))
	r.SetHTMLTemplate(tmpl)

	limiter := middleware.NewRateLimiter(ctx, rate.Every(time.Minute/100), 50, 5*time.Minute)
	routes.RegisterMarketplaceRoutes(r, mc, wc, limiter)
	routes.RegisterOpsRoutes(r, serverMetrics)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Marketplace service started",
			zap.String("port", cfg.Port),
			zap.String("domain", cfg.Domain),
			zap.Bool("chat_enabled", cfg.SlackWebhookURL != ""),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if st.redis != nil {
		if err := st.redis.Close(); err != nil {
			log.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Close(st.db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}

	log.Info("Marketplace service stopped gracefully")
}

// buildStores picks the vendor registry and processed-event store: Redis
// first for events, then PostgreSQL, then process memory.
func buildStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	st := &stores{}

	if cfg.PostgresEnabled() {
		db, err := database.ConnectPostgres(ctx, cfg.PostgresDSN(), log, &models.VendorAccount{}, &models.ProcessedEvent{})
		if err != nil {
			return nil, err
		}
		st.db = db
		st.vendors = repository.NewGormVendorRepo(db)
		st.events = repository.NewGormEventRepo(db)
	} else {
		log.Warn("POSTGRES_HOST not set, vendor registry is in-memory and lost on restart")
		st.vendors = repository.NewMemoryVendorRepo(nil)
		st.events = repository.NewMemoryEventRepo()
	}

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		st.redis = client
		st.events = repository.NewRedisEventRepo(client, processedEventTTL)
		log.Info("Connected to Redis")
	}

	for vendorID, accountID := range cfg.SeedVendors {
		if err := st.vendors.Put(ctx, vendorID, accountID); err != nil {
			return nil, err
		}
		log.Info("Seeded vendor account", zap.String("vendor_id", vendorID), zap.String("account_id", accountID))
	}
	return st, nil
}

func buildNotifier(cfg *config.Config, awsCfg *sdkaws.Config, m *metrics.ServerMetrics, log *zap.Logger) sender.Notifier {
	sinks := []sender.Notifier{sender.NewChatSender(cfg.SlackWebhookURL, cfg.NotifyTimeout, log)}
	if cfg.PaymentSNSTopicARN != "" && awsCfg != nil {
		sinks = append(sinks, sender.NewSNSSender(aws_pkg.NewSNSClient(*awsCfg), cfg.PaymentSNSTopicARN))
	}
	return sender.NewFanout(log, m, sinks...)
}

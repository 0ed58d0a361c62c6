package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	aws_pkg "github.com/blossom2016/stripeConnect/pkg/aws"
)

const defaultDomain = "http://127.0.0.1:5000"

type Config struct {
	Port   string
	AppEnv string

	StripeSecretKey      string
	StripeClientID       string
	StripePublishableKey string
	StripeWebhookSecret  string

	// Domain is the public base URL used for redirect targets, without a trailing slash.
	Domain string

	SlackWebhookURL string
	NotifyTimeout   time.Duration

	// SeedVendors pre-populates the vendor registry (vendor id -> Stripe account id).
	SeedVendors         map[string]string
	WebhookDedupEnabled bool

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisURL           string
	PaymentSNSTopicARN string
	UseAWSSecrets      bool
}

// PostgresEnabled reports whether a durable vendor registry is configured.
func (c *Config) PostgresEnabled() bool {
	return c.PostgresHost != ""
}

// PostgresDSN builds the GORM postgres DSN.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone)
}

// LoadConfig reads configuration from environment variables. Secrets Manager
// overrides are applied separately by ApplySecrets.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "5000"),
		AppEnv:               getEnv("APP_ENV", "development"),
		StripeSecretKey:      strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		StripeClientID:       strings.TrimSpace(os.Getenv("STRIPE_CLIENT_ID")),
		StripePublishableKey: strings.TrimSpace(os.Getenv("STRIPE_PUBLISHABLE_KEY")),
		StripeWebhookSecret:  strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET")),
		Domain:               strings.TrimRight(getEnv("DOMAIN", defaultDomain), "/"),
		SlackWebhookURL:      strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL")),
		PostgresUser:         os.Getenv("POSTGRES_USER"),
		PostgresPassword:     os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:           os.Getenv("POSTGRES_DB"),
		PostgresHost:         os.Getenv("POSTGRES_HOST"),
		PostgresPort:         getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:     getEnv("POSTGRES_TIMEZONE", "UTC"),
		RedisURL:             strings.TrimSpace(os.Getenv("REDIS_URL")),
		PaymentSNSTopicARN:   strings.TrimSpace(os.Getenv("PAYMENT_SNS_TOPIC_ARN")),
		UseAWSSecrets:        os.Getenv("AWS_USE_SECRETS") == "true",
	}

	timeout, err := time.ParseDuration(getEnv("NOTIFY_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid NOTIFY_TIMEOUT %q", os.Getenv("NOTIFY_TIMEOUT"))
	}
	cfg.NotifyTimeout = timeout

	dedup, err := strconv.ParseBool(getEnv("WEBHOOK_DEDUP_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_DEDUP_ENABLED: %w", err)
	}
	cfg.WebhookDedupEnabled = dedup

	seeds, err := parseVendorSeeds(os.Getenv("SEED_VENDORS"))
	if err != nil {
		return nil, err
	}
	cfg.SeedVendors = seeds

	if cfg.PostgresEnabled() && (cfg.PostgresUser == "" || cfg.PostgresDB == "") {
		return nil, fmt.Errorf("database config incomplete")
	}

	return cfg, nil
}

// ApplySecrets overrides the Stripe secrets from Secrets Manager.
func (c *Config) ApplySecrets(ctx context.Context, sm aws_pkg.SecretGetter) {
	if v, err := sm.GetSecret(ctx, "marketplace/STRIPE_SECRET_KEY"); err == nil && v != "" {
		c.StripeSecretKey = v
	}
	if v, err := sm.GetSecret(ctx, "marketplace/STRIPE_WEBHOOK_SECRET"); err == nil && v != "" {
		c.StripeWebhookSecret = v
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.StripeSecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.StripeWebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// parseVendorSeeds parses "v1=acct_1,v2=acct_2".
func parseVendorSeeds(raw string) (map[string]string, error) {
	seeds := map[string]string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return seeds, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		vendorID, accountID, ok := strings.Cut(part, "=")
		vendorID, accountID = strings.TrimSpace(vendorID), strings.TrimSpace(accountID)
		if !ok || vendorID == "" || accountID == "" {
			return nil, fmt.Errorf("invalid SEED_VENDORS entry %q", part)
		}
		seeds[vendorID] = accountID
	}
	return seeds, nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	LogLevel    string
	LogPath     string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	FirebaseCredentials string

	BroadcastEnabled    bool
	BroadcastInterval   time.Duration
	DispatchConcurrency int
	PushTimeout         time.Duration
	ContentPoolSize     int
	ContentFallbackSize int
	ContentMinRating    float64
	InboxBatchSize      int
	TokenCacheTTL       time.Duration

	GoogleProjectID   string
	GoogleCredentials string
	PubSubTopic       string
}

const (
	defaultBroadcastInterval   = 2 * time.Minute
	defaultDispatchConcurrency = 16
	defaultPushTimeout         = 10 * time.Second
	defaultContentPoolSize     = 20
	defaultContentFallbackSize = 10
	defaultContentMinRating    = 4.0
	defaultInboxBatchSize      = 100
	defaultTokenCacheTTL       = 24 * time.Hour
	defaultAccessExpiry        = 15 * time.Minute
)

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Env:         v.GetString("ENV"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogPath:     v.GetString("LOG_PATH"),

		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTAccessExpiry: v.GetDuration("JWT_ACCESS_EXPIRY"),

		FirebaseCredentials: v.GetString("FIREBASE_CREDENTIALS"),

		BroadcastEnabled:    v.GetBool("BROADCAST_ENABLED"),
		BroadcastInterval:   v.GetDuration("BROADCAST_INTERVAL"),
		DispatchConcurrency: v.GetInt("DISPATCH_CONCURRENCY"),
		PushTimeout:         v.GetDuration("PUSH_TIMEOUT"),
		ContentPoolSize:     v.GetInt("CONTENT_POOL_SIZE"),
		ContentFallbackSize: v.GetInt("CONTENT_FALLBACK_SIZE"),
		ContentMinRating:    v.GetFloat64("CONTENT_MIN_RATING"),
		InboxBatchSize:      v.GetInt("INBOX_BATCH_SIZE"),
		TokenCacheTTL:       v.GetDuration("TOKEN_CACHE_TTL"),

		GoogleProjectID:   v.GetString("GOOGLE_PROJECT_ID"),
		GoogleCredentials: v.GetString("GOOGLE_CREDENTIALS"),
		PubSubTopic:       v.GetString("PUBSUB_TOPIC"),
	}
	cfg.Normalize()
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=notify port=5432 sslmode=disable")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("JWT_ACCESS_EXPIRY", defaultAccessExpiry.String())
	v.SetDefault("BROADCAST_ENABLED", true)
	v.SetDefault("BROADCAST_INTERVAL", defaultBroadcastInterval.String())
	v.SetDefault("DISPATCH_CONCURRENCY", defaultDispatchConcurrency)
	v.SetDefault("PUSH_TIMEOUT", defaultPushTimeout.String())
	v.SetDefault("CONTENT_POOL_SIZE", defaultContentPoolSize)
	v.SetDefault("CONTENT_FALLBACK_SIZE", defaultContentFallbackSize)
	v.SetDefault("CONTENT_MIN_RATING", defaultContentMinRating)
	v.SetDefault("INBOX_BATCH_SIZE", defaultInboxBatchSize)
	v.SetDefault("TOKEN_CACHE_TTL", defaultTokenCacheTTL.String())
	v.SetDefault("PUBSUB_TOPIC", "notify-events")
}

// Normalize replaces unparsable or non-positive values with defaults
func (c *Config) Normalize() {
	if c.JWTAccessExpiry <= 0 {
		c.JWTAccessExpiry = defaultAccessExpiry
	}
	if c.BroadcastInterval <= 0 {
		c.BroadcastInterval = defaultBroadcastInterval
	}
	if c.DispatchConcurrency <= 0 {
		c.DispatchConcurrency = defaultDispatchConcurrency
	}
	if c.PushTimeout <= 0 {
		c.PushTimeout = defaultPushTimeout
	}
	if c.ContentPoolSize <= 0 {
		c.ContentPoolSize = defaultContentPoolSize
	}
	if c.ContentFallbackSize <= 0 {
		c.ContentFallbackSize = defaultContentFallbackSize
	}
	if c.ContentMinRating <= 0 {
		c.ContentMinRating = defaultContentMinRating
	}
	if c.InboxBatchSize <= 0 {
		c.InboxBatchSize = defaultInboxBatchSize
	}
	if c.TokenCacheTTL <= 0 {
		c.TokenCacheTTL = defaultTokenCacheTTL
	}
}

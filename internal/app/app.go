// Package app wires repositories, use cases and the broadcast scheduler.
package app

import (
	"context"
	"fmt"
	"strings"

	authrepo "notify-backend/internal/auth/repository"
	authusecase "notify-backend/internal/auth/usecase"
	contentrepo "notify-backend/internal/content/repository"
	inboxrepo "notify-backend/internal/inbox/repository"
	inboxusecase "notify-backend/internal/inbox/usecase"
	pushrepo "notify-backend/internal/push/repository"
	"notify-backend/internal/push/scheduler"
	pushusecase "notify-backend/internal/push/usecase"
	"notify-backend/internal/schema"
	"notify-backend/pkg/config"
	"notify-backend/pkg/events"
	"notify-backend/pkg/fcm"
	"notify-backend/pkg/metrics"
	"notify-backend/pkg/zlog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds every long-lived component of the service
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Metrics   *metrics.Metrics
	Publisher events.Publisher

	Users       authrepo.UserRepository
	Auth        authusecase.AuthUsecase
	Tokens      *pushusecase.TokenRegistry
	Preferences *pushusecase.PreferenceService
	Broadcaster *pushusecase.Broadcaster
	Scheduler   *scheduler.BroadcastScheduler
	Inbox       inboxusecase.InboxUsecase
}

// Options lets callers replace external integrations, mainly in tests
type Options struct {
	// Sender overrides the FCM client when set
	Sender pushusecase.Sender
	// Publisher overrides the Pub/Sub publisher when set
	Publisher events.Publisher
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(schema.Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// New builds the dependency graph. Push and event publishing are optional:
// missing credentials disable them with a warning.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, opts Options) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		return nil, err
	}

	publisher := opts.Publisher
	if publisher == nil {
		publisher = newPublisher(ctx, cfg)
	}

	sender := opts.Sender
	if sender == nil {
		sender = newSender(ctx, cfg)
	}

	// Initialize repositories (dependency injection)
	userRepo := authrepo.NewUserRepository(db)
	tokenRepo := pushrepo.NewTokenRepository(db)
	prefRepo := pushrepo.NewPreferenceRepository(db)
	recipientRepo := pushrepo.NewRecipientRepository(db)
	contentRepo := contentrepo.NewContentRepository(db)
	inboxRepo := inboxrepo.NewInboxRepository(db)

	// Initialize use cases
	tokens := pushusecase.NewTokenRegistry(tokenRepo, prefRepo, cfg.TokenCacheTTL)
	var dispatcher *pushusecase.Dispatcher
	if sender != nil {
		dispatcher = pushusecase.NewDispatcher(sender, cfg.DispatchConcurrency, cfg.PushTimeout, m)
	}
	broadcaster := pushusecase.NewBroadcaster(
		recipientRepo,
		userRepo,
		tokens,
		pushusecase.NewContentSelector(contentRepo, cfg),
		pushusecase.NewComposer(),
		dispatcher,
	)

	return &App{
		Config:      cfg,
		DB:          db,
		Metrics:     m,
		Publisher:   publisher,
		Users:       userRepo,
		Auth:        authusecase.NewAuthUsecase(userRepo, cfg),
		Tokens:      tokens,
		Preferences: pushusecase.NewPreferenceService(prefRepo),
		Broadcaster: broadcaster,
		Scheduler:   scheduler.NewBroadcastScheduler(broadcaster, cfg.BroadcastInterval, m, publisher),
		Inbox:       inboxusecase.NewInboxUsecase(inboxRepo, userRepo, cfg.InboxBatchSize, m, publisher),
	}, nil
}

// StartScheduler starts periodic broadcasts when enabled and push is configured
func (a *App) StartScheduler(ctx context.Context) bool {
	if !a.Config.BroadcastEnabled {
		zlog.Info("[Broadcast] Scheduler disabled by configuration")
		return false
	}
	if !a.Broadcaster.PushEnabled() {
		zlog.Warn("[Broadcast] Push provider not available, scheduler disabled")
		return false
	}
	a.Scheduler.Start(ctx)
	return true
}

// Close stops the scheduler and releases external clients
func (a *App) Close() {
	a.Scheduler.Stop()
	if err := a.Publisher.Close(); err != nil {
		zlog.Warn("[App] Failed to close event publisher", zap.Error(err))
	}
}

func newSender(ctx context.Context, cfg *config.Config) pushusecase.Sender {
	if cfg.FirebaseCredentials == "" {
		zlog.Warn("[FCM] No Firebase credentials configured, push disabled")
		return nil
	}
	client, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
	if err != nil {
		zlog.Warn("[FCM] Failed to initialize client, push disabled", zap.Error(err))
		return nil
	}
	zlog.Info("[FCM] Client initialized")
	return pushusecase.NewFCMSender(client)
}

func newPublisher(ctx context.Context, cfg *config.Config) events.Publisher {
	if cfg.GoogleProjectID == "" {
		zlog.Info("[Events] GOOGLE_PROJECT_ID not configured, event publishing disabled")
		return events.NopPublisher{}
	}

	// Accept either a short topic id or a full projects/x/topics/y name
	topic := cfg.PubSubTopic
	if parts := strings.Split(topic, "/"); len(parts) > 1 {
		topic = parts[len(parts)-1]
	}

	pub, err := events.NewPubSubPublisher(ctx, cfg.GoogleProjectID, topic, cfg.GoogleCredentials)
	if err != nil {
		zlog.Error("[Events] Failed to initialize Pub/Sub publisher", zap.Error(err))
		return events.NopPublisher{}
	}
	zlog.Info("[Events] Publishing to Pub/Sub", zap.String("topic", topic))
	return pub
}

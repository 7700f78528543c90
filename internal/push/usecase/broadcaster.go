package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	authrepo "notify-backend/internal/auth/repository"
	contentdomain "notify-backend/internal/content/domain"
	"notify-backend/internal/push/domain"
	"notify-backend/internal/push/repository"
	"notify-backend/pkg/apperror"
	"notify-backend/pkg/fcm"
	"notify-backend/pkg/zlog"

	"go.uber.org/zap"
)

// Broadcaster runs the random content pipeline:
// resolve recipients, select content, compose per language, dispatch.
type Broadcaster struct {
	recipients repository.RecipientRepository
	users      authrepo.UserRepository
	registry   *TokenRegistry
	selector   *ContentSelector
	composer   *Composer
	dispatcher *Dispatcher
	now        func() time.Time
}

// NewBroadcaster wires the pipeline. dispatcher may be nil when push is not configured.
func NewBroadcaster(
	recipients repository.RecipientRepository,
	users authrepo.UserRepository,
	registry *TokenRegistry,
	selector *ContentSelector,
	composer *Composer,
	dispatcher *Dispatcher,
) *Broadcaster {
	return &Broadcaster{
		recipients: recipients,
		users:      users,
		registry:   registry,
		selector:   selector,
		composer:   composer,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// PushEnabled reports whether a push provider is configured
func (b *Broadcaster) PushEnabled() bool {
	return b.dispatcher != nil
}

// RunCycle executes one broadcast. Store failures end the cycle with
// OutcomeFailed; individual send failures never do.
func (b *Broadcaster) RunCycle(ctx context.Context) (domain.CycleReport, error) {
	report := domain.CycleReport{StartedAt: b.now()}
	finish := func(outcome domain.CycleOutcome, err error) (domain.CycleReport, error) {
		report.Outcome = outcome
		report.FinishedAt = b.now()
		if err != nil {
			report.Error = err.Error()
		}
		return report, err
	}

	if b.dispatcher == nil {
		return finish(domain.OutcomeFailed, apperror.Unavailable("push provider not configured"))
	}

	recipients, err := b.recipients.ResolveRecipients(ctx)
	if err != nil {
		return finish(domain.OutcomeFailed, err)
	}
	report.Recipients = len(recipients)
	if len(recipients) == 0 {
		zlog.Info("[Broadcast] No eligible recipients")
		return finish(domain.OutcomeNoRecipients, nil)
	}

	content, err := b.selector.Select(ctx)
	if err != nil {
		return finish(domain.OutcomeFailed, err)
	}
	if content == nil {
		zlog.Warn("[Broadcast] No content available", zap.Int("recipients", len(recipients)))
		return finish(domain.OutcomeNoContent, nil)
	}
	report.ContentID = content.ID

	groups := make(map[string][]domain.Recipient)
	for _, rc := range recipients {
		lang := b.composer.TemplateLanguage(rc.Language)
		groups[lang] = append(groups[lang], rc)
	}

	var dispatched domain.DispatchReport
	for lang, group := range groups {
		report.Languages = append(report.Languages, lang)
		msg := b.composer.Compose(lang, *content)
		dispatched.Merge(b.dispatcher.Dispatch(ctx, group, msg))
	}
	sort.Strings(report.Languages)
	report.Attempted = dispatched.Attempted
	report.Failed = dispatched.Failed
	report.DisabledTokens = b.disableInvalidTokens(ctx, dispatched.Results)

	zlog.Info("[Broadcast] Cycle completed",
		zap.String("content_id", content.ID),
		zap.Int("recipients", report.Recipients),
		zap.Int("attempted", report.Attempted),
		zap.Int("failed", report.Failed),
		zap.Int("disabled_tokens", report.DisabledTokens))
	return finish(domain.OutcomeCompleted, nil)
}

// disableInvalidTokens logically deletes tokens the provider rejected as invalid
func (b *Broadcaster) disableInvalidTokens(ctx context.Context, results []domain.DeliveryResult) int {
	disabled := 0
	for _, res := range results {
		if !errors.Is(res.Err, fcm.ErrInvalidToken) {
			continue
		}
		if _, err := b.registry.SetEnabled(ctx, res.Recipient.UserID, res.Recipient.Token, false); err != nil {
			zlog.Error("[Broadcast] Failed to disable invalid token",
				zap.String("user_id", res.Recipient.UserID),
				zap.String("token", zlog.MaskToken(res.Recipient.Token)),
				zap.Error(err))
			continue
		}
		disabled++
	}
	return disabled
}

// TestPush is what an ad-hoc send delivered
type TestPush struct {
	Message domain.Message
	Content contentdomain.PromotableContent
}

// SendTestPush sends one composed message to the caller's latest token
func (b *Broadcaster) SendTestPush(ctx context.Context, userID string) (*TestPush, error) {
	if b.dispatcher == nil {
		return nil, apperror.Unavailable("push provider not configured")
	}

	token, err := b.registry.LatestToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, apperror.Validation("no device token registered")
	}

	language := ""
	user, err := b.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		language = user.Language
	}

	content, err := b.selector.Select(ctx)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, apperror.NotFound("no content available")
	}

	msg := b.composer.Compose(language, *content)
	if err := b.dispatcher.SendOne(ctx, token, msg); err != nil {
		if errors.Is(err, fcm.ErrInvalidToken) {
			if _, derr := b.registry.SetEnabled(ctx, userID, token, false); derr != nil {
				zlog.Warn("[Push] Failed to disable invalid token", zap.String("user_id", userID), zap.Error(derr))
			}
		}
		return nil, apperror.UpstreamDelivery(err, "push delivery failed")
	}
	return &TestPush{Message: msg, Content: *content}, nil
}

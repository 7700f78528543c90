package usecase

import (
	"context"
	"sync"

	contentdomain "notify-backend/internal/content/domain"
	"notify-backend/internal/push/domain"
)

type sentMessage struct {
	Token string
	Msg   domain.Message
}

// fakeSender records sends and fails tokens listed in failures
type fakeSender struct {
	mu       sync.Mutex
	sent     []sentMessage
	failures map[string]error
	block    bool
}

func (f *fakeSender) Send(ctx context.Context, token string, msg domain.Message) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Token: token, Msg: msg})
	if err, ok := f.failures[token]; ok {
		return err
	}
	return nil
}

func (f *fakeSender) byToken() map[string]domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.Message, len(f.sent))
	for _, s := range f.sent {
		out[s.Token] = s.Msg
	}
	return out
}

type fakeContentRepo struct {
	promotable []contentdomain.PromotableContent
	any        []contentdomain.PromotableContent
	err        error

	promotableCalls int
	anyCalls        int
	lastLimit       int
}

func (f *fakeContentRepo) SamplePromotable(_ context.Context, _ float64, limit int) ([]contentdomain.PromotableContent, error) {
	f.promotableCalls++
	f.lastLimit = limit
	return f.promotable, f.err
}

func (f *fakeContentRepo) SampleAny(_ context.Context, limit int) ([]contentdomain.PromotableContent, error) {
	f.anyCalls++
	f.lastLimit = limit
	return f.any, f.err
}

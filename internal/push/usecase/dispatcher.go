package usecase

import (
	"context"
	"fmt"
	"time"

	"notify-backend/internal/push/domain"
	"notify-backend/pkg/fcm"
	"notify-backend/pkg/metrics"
	"notify-backend/pkg/zlog"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sender delivers one message to one device token
type Sender interface {
	Send(ctx context.Context, token string, msg domain.Message) error
}

type fcmSender struct {
	client *fcm.Client
}

// NewFCMSender adapts an FCM client to Sender
func NewFCMSender(client *fcm.Client) Sender {
	return &fcmSender{client: client}
}

func (s *fcmSender) Send(ctx context.Context, token string, msg domain.Message) error {
	return s.client.SendToDevice(ctx, token, fcm.NotificationData{
		Title:    msg.Title,
		Body:     msg.Body,
		ImageURL: msg.ImageURL,
		Data:     msg.Data,
	})
}

// Dispatcher fans a message out to recipients with bounded concurrency.
// Each send has its own timeout and failures never affect other sends.
type Dispatcher struct {
	sender      Sender
	concurrency int
	timeout     time.Duration
	metrics     *metrics.Metrics
}

func NewDispatcher(sender Sender, concurrency int, timeout time.Duration, m *metrics.Metrics) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{
		sender:      sender,
		concurrency: concurrency,
		timeout:     timeout,
		metrics:     m,
	}
}

// Dispatch sends msg to every recipient and reports per-recipient results.
// An empty recipient list is a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []domain.Recipient, msg domain.Message) domain.DispatchReport {
	report := domain.DispatchReport{Results: make([]domain.DeliveryResult, len(recipients))}
	if len(recipients) == 0 {
		return report
	}

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, rc := range recipients {
		g.Go(func() error {
			report.Results[i] = domain.DeliveryResult{Recipient: rc, Err: d.SendOne(ctx, rc.Token, msg)}
			return nil
		})
	}
	_ = g.Wait()

	report.Attempted = len(recipients)
	for _, res := range report.Results {
		if res.Err == nil {
			continue
		}
		report.Failed++
		zlog.Warn("[Push] Send failed",
			zap.String("user_id", res.Recipient.UserID),
			zap.String("token", zlog.MaskToken(res.Recipient.Token)),
			zap.Error(res.Err))
	}
	d.metrics.RecordSends(report.Attempted, report.Failed)
	return report
}

// SendOne performs a single isolated send under the per-send timeout
func (d *Dispatcher) SendOne(ctx context.Context, token string, msg domain.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("send panicked: %v", r)
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.sender.Send(sendCtx, token, msg)
}

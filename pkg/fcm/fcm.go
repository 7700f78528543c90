package fcm

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"notify-backend/pkg/zlog"

	"go.uber.org/zap"
)

// ErrInvalidToken marks a send rejected because the device token is no longer valid
var ErrInvalidToken = errors.New("fcm: device token is invalid or unregistered")

// messenger is the subset of *messaging.Client used here
type messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient messenger
}

// NewClient creates a new FCM client using the provided credentials file
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	zlog.Info("[FCM] Client initialized successfully")
	return &Client{messagingClient: messagingClient}, nil
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title    string
	Body     string
	ImageURL string            // Optional notification image
	Data     map[string]string // Custom data payload
}

// SendToDevice sends a push notification to a specific device token.
// Token rejections wrap ErrInvalidToken. INVALID_ARGUMENT is not one: FCM also
// returns it for a bad message, e.g. a malformed image URL.
func (c *Client) SendToDevice(ctx context.Context, token string, notification NotificationData) error {
	message := buildMessage(token, notification)

	response, err := c.messagingClient.Send(ctx, message)
	if err != nil {
		if isTokenRejection(err) {
			return fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	zlog.Debug("[FCM] Message sent", zap.String("message_id", response), zap.String("token", zlog.MaskToken(token)))
	return nil
}

// isTokenRejection reports whether FCM refused the token itself
func isTokenRejection(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsSenderIDMismatch(err)
}

func buildMessage(token string, notification NotificationData) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title:    notification.Title,
			Body:     notification.Body,
			ImageURL: notification.ImageURL,
		},
		Data: notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: notification.Title,
				Body:  notification.Body,
				Icon:  "/icon-192.svg",
			},
		},
	}
}

package application

import (
	"context"

	"github.com/brgyhub/otp-service/internal/domain"
	"go.uber.org/zap"
)

// NotificationDispatcher routes formatted messages to the configured SMS
// transport. It is a failure-isolation boundary: transport errors are logged
// and swallowed, never raised to the caller, because SMS delivery is
// best-effort and must not block the OTP flow.
type NotificationDispatcher struct {
	transport domain.SmsTransport
	logger    *zap.Logger
}

func NewNotificationDispatcher(transport domain.SmsTransport, logger *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		transport: transport,
		logger:    logger,
	}
}

// Send delivers a payload through the transport. Empty recipient or message
// is a no-op.
func (d *NotificationDispatcher) Send(ctx context.Context, payload domain.SmsPayload) domain.NotificationOutcome {
	if payload.To == "" || payload.Message == "" {
		return domain.NotificationOutcome{Recipient: payload.To}
	}

	if err := d.transport.SendSms(ctx, payload.To, payload.Message); err != nil {
		d.logger.Warn("SMS delivery skipped; continuing without SMS",
			zap.String("to", payload.To),
			zap.Error(err))
		return domain.NotificationOutcome{Recipient: payload.To, Err: err}
	}

	return domain.NotificationOutcome{Delivered: true, Recipient: payload.To}
}

// NotifyStatusUpdate sends the shared status-update message for a resident's
// certificate request or blotter report.
func (d *NotificationDispatcher) NotifyStatusUpdate(ctx context.Context, user *domain.User, subject, status string, released bool) domain.NotificationOutcome {
	return d.Send(ctx, domain.SmsPayload{
		To:      user.SmsRecipient(),
		Message: domain.StatusMessage(subject, status, user.FirstName, released),
	})
}

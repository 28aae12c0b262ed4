package sms

import (
	"context"
	"fmt"

	"github.com/brgyhub/otp-service/internal/domain"
	"github.com/brgyhub/otp-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewTransport selects the SMS transport named by SMS_PROVIDER. The choice is
// made once at startup; the rest of the system depends only on
// domain.SmsTransport.
func NewTransport(cfg *config.Config, logger *zap.Logger) (domain.SmsTransport, error) {
	switch cfg.SMSProvider {
	case "itextmo":
		return NewItextmoClient(cfg.Itextmo, cfg.SMSTimeout, logger), nil
	case "semaphore":
		return NewSemaphoreClient(cfg.Semaphore, cfg.SMSTimeout, logger), nil
	case "twilio":
		return NewTwilioClient(cfg.Twilio, cfg.SMSTimeout, logger), nil
	case "log":
		return NewLogClient(logger), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.SMSProvider)
	}
}

// LogClient logs messages instead of sending them. Development default.
type LogClient struct {
	logger *zap.Logger
}

func NewLogClient(logger *zap.Logger) *LogClient {
	return &LogClient{logger: logger}
}

func (c *LogClient) SendSms(_ context.Context, to, message string) error {
	c.logger.Info("sms (log transport)", zap.String("to", to), zap.String("message", message))
	return nil
}

package sms

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brgyhub/otp-service/internal/domain"
	"github.com/brgyhub/otp-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

const semaphoreDefaultBaseURL = "https://api.semaphore.co/api/v4/"

// SemaphoreClient sends SMS through the Semaphore gateway. Any 2xx response
// is success.
type SemaphoreClient struct {
	http    *http.Client
	baseURL string
	cfg     config.SemaphoreConfig
	logger  *zap.Logger
}

func NewSemaphoreClient(cfg config.SemaphoreConfig, timeout time.Duration, logger *zap.Logger) *SemaphoreClient {
	return &SemaphoreClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: semaphoreDefaultBaseURL,
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *SemaphoreClient) SendSms(ctx context.Context, to, message string) error {
	if c.cfg.APIKey == "" {
		return domain.NewMessagingError("semaphore", "credentials are missing")
	}

	form := url.Values{
		"apikey":  {c.cfg.APIKey},
		"number":  {to},
		"message": {message},
	}
	if c.cfg.SenderName != "" {
		form.Set("sendername", c.cfg.SenderName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"messages", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.NewMessagingError("semaphore", "building request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewMessagingError("semaphore", "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewMessagingError("semaphore", "SMS failed with status %d", resp.StatusCode)
	}

	c.logger.Info("sms sent", zap.String("provider", "semaphore"), zap.String("to", to))
	return nil
}

package sms

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brgyhub/otp-service/internal/domain"
	"github.com/brgyhub/otp-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

const itextmoDefaultBaseURL = "https://www.itexmo.com/php_api/"

// ItextmoClient sends SMS through the iTextMo gateway. iTextMo signals
// success with a literal "0" response body; any other body is an error code.
type ItextmoClient struct {
	http    *http.Client
	baseURL string
	cfg     config.ItextmoConfig
	logger  *zap.Logger
}

func NewItextmoClient(cfg config.ItextmoConfig, timeout time.Duration, logger *zap.Logger) *ItextmoClient {
	return &ItextmoClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: itextmoDefaultBaseURL,
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *ItextmoClient) SendSms(ctx context.Context, to, message string) error {
	if c.cfg.APICode == "" || c.cfg.Password == "" {
		return domain.NewMessagingError("itextmo", "credentials are missing")
	}

	form := url.Values{
		"1":      {to},
		"2":      {message},
		"3":      {c.cfg.APICode},
		"passwd": {c.cfg.Password},
	}
	if c.cfg.SenderID != "" {
		form.Set("senderid", c.cfg.SenderID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"api.php", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.NewMessagingError("itextmo", "building request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewMessagingError("itextmo", "request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewMessagingError("itextmo", "reading response failed: %v", err)
	}

	// iTextMo returns 0 on success
	if result := strings.TrimSpace(string(body)); result != "0" {
		return domain.NewMessagingError("itextmo", "SMS failed with code %s", result)
	}

	c.logger.Info("sms sent", zap.String("provider", "itextmo"), zap.String("to", to))
	return nil
}

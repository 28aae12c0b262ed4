package sms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brgyhub/otp-service/internal/domain"
	"github.com/brgyhub/otp-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

const twilioDefaultBaseURL = "https://api.twilio.com/2010-04-01/"

// TwilioClient sends SMS through the Twilio REST API using basic auth with
// the account SID and token. Any 2xx response is success.
type TwilioClient struct {
	http    *http.Client
	baseURL string
	cfg     config.TwilioConfig
	logger  *zap.Logger
}

func NewTwilioClient(cfg config.TwilioConfig, timeout time.Duration, logger *zap.Logger) *TwilioClient {
	return &TwilioClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: twilioDefaultBaseURL,
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *TwilioClient) SendSms(ctx context.Context, to, message string) error {
	if c.cfg.AccountSID == "" || c.cfg.AuthToken == "" || c.cfg.From == "" {
		return domain.NewMessagingError("twilio", "credentials are missing")
	}

	form := url.Values{
		"To":   {"+" + to},
		"From": {c.cfg.From},
		"Body": {message},
	}

	endpoint := fmt.Sprintf("%sAccounts/%s/Messages.json", c.baseURL, c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.NewMessagingError("twilio", "building request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewMessagingError("twilio", "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewMessagingError("twilio", "SMS failed with status %d", resp.StatusCode)
	}

	c.logger.Info("sms sent", zap.String("provider", "twilio"), zap.String("to", to))
	return nil
}

package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SmsPayload is a formatted message ready for an SMS transport.
type SmsPayload struct {
	To      string
	Message string
}

// SmsTransport sends a single SMS through one external gateway. Adapters are
// interchangeable; failures are reported as *MessagingError.
type SmsTransport interface {
	SendSms(ctx context.Context, to, message string) error
}

// Notifier delivers a payload on a best-effort basis. Implementations never
// return transport failures to the caller.
type Notifier interface {
	Send(ctx context.Context, payload SmsPayload) NotificationOutcome
}

// NotificationOutcome records the result of one dispatch attempt. Consumed
// for logging and telemetry only, never propagated as a hard failure.
type NotificationOutcome struct {
	Delivered bool
	Recipient string
	Err       error
}

// MessagingError is raised by a transport when the provider rejects a send:
// missing credentials, non-success response code, or a failed request.
type MessagingError struct {
	Provider string
	Reason   string
}

func (e *MessagingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
}

// NewMessagingError creates a transport failure with a human-readable reason.
func NewMessagingError(provider, format string, args ...interface{}) *MessagingError {
	return &MessagingError{
		Provider: provider,
		Reason:   fmt.Sprintf(format, args...),
	}
}

// NormalizeMobile normalizes a Philippine mobile number for SMS gateways:
// keep only digits, keep a leading 63 country code as-is, otherwise prepend
// 63 after trimming leading zeros. Returns empty when no digits remain.
func NormalizeMobile(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "63") {
		return digits
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return ""
	}
	return "63" + digits
}

// OtpMessage formats the SMS body for a freshly issued code.
func OtpMessage(code string, ttl time.Duration) string {
	return fmt.Sprintf("Your OTP code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
}

// StatusMessage formats the shared status-update SMS sent when a certificate
// request or blotter report changes state. released switches the call to
// action between pick-up and check-the-app.
func StatusMessage(subject, status, firstName string, released bool) string {
	if firstName == "" {
		firstName = "Resident"
	}
	if subject == "" {
		subject = "request"
	}
	cta := "Check the app for details."
	if released {
		cta = "Pick it up at the barangay hall."
	}
	return fmt.Sprintf("Hi %s, your %s is now %s. %s",
		firstName, strings.ToUpper(subject), strings.ToUpper(status), cta)
}

package application

import (
	"context"
	"errors"
	"time"

	"github.com/brgyhub/otp-service/internal/domain"
	"go.uber.org/zap"
)

var statusMessages = map[domain.OtpStatus]string{
	domain.StatusDisabled:        "OTP is not enabled.",
	domain.StatusAlreadyVerified: "Mobile number already verified; no OTP required.",
	domain.StatusUnreachable:     "No valid mobile number found for OTP delivery.",
	domain.StatusThrottled:       "Please wait before requesting another OTP.",
	domain.StatusOtpRequired:     "OTP sent to your registered mobile number.",
	domain.StatusMissing:         "No OTP request found. Please request a new code.",
	domain.StatusLocked:          "Maximum OTP attempts exceeded. Please request a new code.",
	domain.StatusExpired:         "OTP code has expired. Please request a new one.",
	domain.StatusInvalid:         "Invalid OTP code.",
	domain.StatusVerified:        "OTP verified successfully.",
}

// OtpService orchestrates issuance and verification of one-time passwords,
// enforcing the cooldown, expiry and attempt-lockout rules. Per-user
// operations are serialized through the repository's user lock; SMS dispatch
// happens only after the state change is committed.
type OtpService struct {
	codes    domain.OtpCodeRepository
	users    domain.UserRepository
	secrets  domain.SecretCodeGenerator
	notifier domain.Notifier
	policy   domain.OtpPolicy
	logger   *zap.Logger
	now      func() time.Time
}

func NewOtpService(
	codes domain.OtpCodeRepository,
	users domain.UserRepository,
	secrets domain.SecretCodeGenerator,
	notifier domain.Notifier,
	policy domain.OtpPolicy,
	logger *zap.Logger,
) *OtpService {
	return &OtpService{
		codes:    codes,
		users:    users,
		secrets:  secrets,
		notifier: notifier,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

// Enabled reports whether the OTP feature flag is on.
func (s *OtpService) Enabled() bool {
	return s.policy.Enabled
}

// RequiresMobileVerification reports whether the user must confirm their
// mobile number before logging in. Only residents with an unverified number
// go through the OTP flow.
func (s *OtpService) RequiresMobileVerification(user *domain.User) bool {
	return s.policy.Enabled && user.Role == domain.RoleResident && !user.MobileVerified()
}

// RequestForUser issues a new OTP for a user and dispatches it by SMS.
// Every prior unconsumed code is superseded; within the cooldown window the
// call is throttled and no new record is created.
func (s *OtpService) RequestForUser(ctx context.Context, user *domain.User) (*domain.OtpResult, error) {
	if !s.policy.Enabled {
		return s.result(domain.StatusDisabled, nil), nil
	}

	if !s.RequiresMobileVerification(user) {
		return s.result(domain.StatusAlreadyVerified, nil), nil
	}

	recipient := user.SmsRecipient()
	if recipient == "" {
		return s.result(domain.StatusUnreachable, nil), nil
	}

	var result *domain.OtpResult
	var plainCode string

	err := s.codes.WithUserLock(ctx, user.ID, func(ctx context.Context) error {
		now := s.now()

		latest, err := s.codes.FindLatestActiveByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrNoActiveOtp) {
			return err
		}
		if latest != nil && !latest.IsExpired(now) && latest.WithinCooldown(now, s.policy.RequestCooldown) {
			result = s.result(domain.StatusThrottled, nil)
			return nil
		}

		// Supersede any existing codes before issuing the new one
		if err := s.codes.ConsumeAllByUserID(ctx, user.ID, now); err != nil {
			return err
		}

		code, err := s.secrets.Generate(s.policy.CodeLength)
		if err != nil {
			return err
		}
		hash, err := s.secrets.Hash(code)
		if err != nil {
			return err
		}

		otp := domain.NewOtpCode(user.ID, hash, s.policy.TTL, now)
		if err := s.codes.Create(ctx, otp); err != nil {
			return err
		}

		plainCode = code
		result = s.result(domain.StatusOtpRequired, otp)
		return nil
	})
	if err != nil {
		s.logger.Error("otp request failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	if result.Status == domain.StatusOtpRequired {
		// Dispatch after the transaction committed so a slow provider cannot
		// hold the lock open. Delivery is best-effort.
		s.notifier.Send(ctx, domain.SmsPayload{
			To:      recipient,
			Message: domain.OtpMessage(plainCode, s.policy.TTL),
		})

		if s.policy.ShowCode {
			result.ShowCode = plainCode
		}
	}

	return result, nil
}

// Verify checks a submitted code against the user's latest active OTP record.
// Attempts are counted on every comparison, match or not; that is what
// enforces the lockout.
func (s *OtpService) Verify(ctx context.Context, user *domain.User, plainCode string) (*domain.OtpResult, error) {
	if !s.policy.Enabled {
		return s.result(domain.StatusDisabled, nil), nil
	}

	var result *domain.OtpResult

	err := s.codes.WithUserLock(ctx, user.ID, func(ctx context.Context) error {
		now := s.now()

		otp, err := s.codes.FindLatestActiveByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNoActiveOtp) {
				result = s.result(domain.StatusMissing, nil)
				return nil
			}
			return err
		}

		if otp.Attempts >= s.policy.MaxAttempts {
			result = s.result(domain.StatusLocked, otp)
			return nil
		}

		if otp.IsExpired(now) {
			if err := s.codes.MarkConsumed(ctx, otp.ID, now); err != nil {
				return err
			}
			otp.ConsumedAt = &now
			result = s.result(domain.StatusExpired, otp)
			return nil
		}

		if err := s.codes.IncrementAttempts(ctx, otp.ID); err != nil {
			return err
		}
		otp.Attempts++

		if !s.secrets.Verify(plainCode, otp.CodeHash) {
			result = s.result(domain.StatusInvalid, otp)
			return nil
		}

		if err := s.codes.MarkConsumed(ctx, otp.ID, now); err != nil {
			return err
		}
		otp.ConsumedAt = &now
		result = s.result(domain.StatusVerified, otp)
		return nil
	})
	if err != nil {
		s.logger.Error("otp verification failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	if result.Verified() && !user.MobileVerified() {
		if err := s.users.MarkMobileVerified(ctx, user.ID, s.now()); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *OtpService) result(status domain.OtpStatus, otp *domain.OtpCode) *domain.OtpResult {
	return &domain.OtpResult{
		Status:  status,
		Message: statusMessages[status],
		Otp:     otp,
	}
}

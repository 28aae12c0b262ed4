package repository

import (
	"context"
	"errors"
	"time"

	"github.com/brgyhub/otp-service/internal/domain"
	"github.com/brgyhub/otp-service/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type OtpCodeRepository struct {
	logger *zap.Logger
	db     *database.Postgres
}

func NewOtpCodeRepository(db *database.Postgres, logger *zap.Logger) *OtpCodeRepository {
	return &OtpCodeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *OtpCodeRepository) Create(ctx context.Context, code *domain.OtpCode) error {
	_, err := r.db.Q(ctx).Exec(ctx, `
		INSERT INTO otp_codes (id, user_id, code_hash, expires_at, consumed_at, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, code.ID.String(), code.UserID.String(), code.CodeHash, code.ExpiresAt, code.ConsumedAt, code.Attempts, code.CreatedAt)
	if err != nil {
		r.logger.Error("failed to create otp code", zap.Error(err))
	}
	return err
}

func (r *OtpCodeRepository) FindLatestActiveByUserID(ctx context.Context, userID ulid.ULID) (*domain.OtpCode, error) {
	otp := &domain.OtpCode{}
	var id, uid string
	err := r.db.Q(ctx).QueryRow(ctx, `
		SELECT id, user_id, code_hash, expires_at, consumed_at, attempts, created_at
		FROM otp_codes
		WHERE user_id = $1 AND consumed_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`, userID.String()).Scan(
		&id,
		&uid,
		&otp.CodeHash,
		&otp.ExpiresAt,
		&otp.ConsumedAt,
		&otp.Attempts,
		&otp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoActiveOtp
		}
		r.logger.Error("failed to find active otp code", zap.Error(err))
		return nil, err
	}

	if otp.ID, err = ulid.Parse(id); err != nil {
		return nil, err
	}
	if otp.UserID, err = ulid.Parse(uid); err != nil {
		return nil, err
	}
	return otp, nil
}

func (r *OtpCodeRepository) ConsumeAllByUserID(ctx context.Context, userID ulid.ULID, at time.Time) error {
	_, err := r.db.Q(ctx).Exec(ctx, `
		UPDATE otp_codes
		SET consumed_at = $2
		WHERE user_id = $1 AND consumed_at IS NULL
	`, userID.String(), at)
	if err != nil {
		r.logger.Error("failed to consume otp codes", zap.Error(err))
	}
	return err
}

func (r *OtpCodeRepository) IncrementAttempts(ctx context.Context, id ulid.ULID) error {
	_, err := r.db.Q(ctx).Exec(ctx, `
		UPDATE otp_codes
		SET attempts = attempts + 1
		WHERE id = $1
	`, id.String())
	if err != nil {
		r.logger.Error("failed to increment otp attempts", zap.Error(err))
	}
	return err
}

func (r *OtpCodeRepository) MarkConsumed(ctx context.Context, id ulid.ULID, at time.Time) error {
	_, err := r.db.Q(ctx).Exec(ctx, `
		UPDATE otp_codes
		SET consumed_at = $2
		WHERE id = $1 AND consumed_at IS NULL
	`, id.String(), at)
	if err != nil {
		r.logger.Error("failed to mark otp code consumed", zap.Error(err))
	}
	return err
}

// WithUserLock serializes same-user OTP operations: it opens a transaction
// and takes a per-user advisory lock before running fn, so two simultaneous
// issuances cannot both pass the cooldown check and two simultaneous
// verifications cannot both pass the attempts check.
func (r *OtpCodeRepository) WithUserLock(ctx context.Context, userID ulid.ULID, fn func(ctx context.Context) error) error {
	return r.db.InTx(ctx, func(ctx context.Context) error {
		_, err := r.db.Q(ctx).Exec(ctx, `
			SELECT pg_advisory_xact_lock(hashtext($1))
		`, userID.String())
		if err != nil {
			r.logger.Error("failed to take user lock", zap.Error(err))
			return err
		}
		return fn(ctx)
	})
}

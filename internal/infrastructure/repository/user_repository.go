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

type UserRepository struct {
	logger *zap.Logger
	db     *database.Postgres
}

func NewUserRepository(db *database.Postgres, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, email, password, role, first_name, mobile_number, mobile_verified_at, created_at`

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id ulid.ULID) (*domain.User, error) {
	return r.findOne(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id.String())
}

func (r *UserRepository) MarkMobileVerified(ctx context.Context, id ulid.ULID, at time.Time) error {
	_, err := r.db.Q(ctx).Exec(ctx, `
		UPDATE users
		SET mobile_verified_at = $2
		WHERE id = $1 AND mobile_verified_at IS NULL
	`, id.String(), at)
	if err != nil {
		r.logger.Error("failed to mark mobile verified", zap.Error(err))
	}
	return err
}

func (r *UserRepository) findOne(ctx context.Context, sql string, arg any) (*domain.User, error) {
	user := &domain.User{}
	var id, role string
	err := r.db.Q(ctx).QueryRow(ctx, sql, arg).Scan(
		&id,
		&user.Email,
		&user.Password,
		&role,
		&user.FirstName,
		&user.MobileNumber,
		&user.MobileVerifiedAt,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("failed to find user", zap.Error(err))
		return nil, err
	}

	if user.ID, err = ulid.Parse(id); err != nil {
		return nil, err
	}
	user.Role = domain.UserRole(role)
	return user, nil
}

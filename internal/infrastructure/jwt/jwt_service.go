package jwt

import (
	"fmt"
	"time"

	"github.com/brgyhub/otp-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Claims carried by an access token issued after OTP verification.
type Claims struct {
	UserID ulid.ULID
	Role   domain.UserRole
}

// Service issues and validates HMAC-signed access tokens.
type Service struct {
	secret   []byte
	duration time.Duration
	logger   *zap.Logger
}

func New(secret string, duration time.Duration, logger *zap.Logger) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &Service{
		secret:   []byte(secret),
		duration: duration,
		logger:   logger,
	}, nil
}

// GenerateToken creates a signed access token for a user.
func (s *Service) GenerateToken(userID ulid.ULID, role domain.UserRole) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.duration).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return "", domain.ErrInternal
	}
	return signed, nil
}

// ValidateToken parses and verifies an access token.
func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	userID, err := ulid.Parse(sub)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	return &Claims{UserID: userID, Role: domain.UserRole(role)}, nil
}

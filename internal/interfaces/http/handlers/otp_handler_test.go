package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brgyhub/otp-service/internal/domain"
	"github.com/brgyhub/otp-service/internal/infrastructure/password"
	"github.com/brgyhub/otp-service/internal/interfaces/http/middleware/auth"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockOtpService struct {
	mock.Mock
}

func (m *MockOtpService) RequestForUser(ctx context.Context, user *domain.User) (*domain.OtpResult, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OtpResult), args.Error(1)
}

func (m *MockOtpService) Verify(ctx context.Context, user *domain.User, plainCode string) (*domain.OtpResult, error) {
	args := m.Called(ctx, user, plainCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OtpResult), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id ulid.ULID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) MarkMobileVerified(ctx context.Context, id ulid.ULID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID ulid.ULID, role domain.UserRole) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func result(status domain.OtpStatus) *domain.OtpResult {
	return &domain.OtpResult{Status: status, Message: string(status)}
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	hash, err := password.HashPassword("secret123")
	require.NoError(t, err)
	return &domain.User{
		ID:           ulid.Make(),
		Email:        "juan@example.com",
		Password:     hash,
		Role:         domain.RoleResident,
		FirstName:    "Juan",
		MobileNumber: "09171234567",
		CreatedAt:    time.Now(),
	}
}

func TestHandleRequest(t *testing.T) {
	logger := zap.NewNop()

	post := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		req := httptest.NewRequest(http.MethodPost, "/api/otp/request", bytes.NewBufferString(body))
		return httptest.NewRecorder(), req
	}

	t.Run("missing fields", func(t *testing.T) {
		handler := NewOtpHandler(new(MockOtpService), new(MockUserRepository), new(MockTokenService), logger)
		w, r := post(`{"email": "juan@example.com"}`)
		handler.HandleRequest(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrUserNotFound)

		handler := NewOtpHandler(new(MockOtpService), users, new(MockTokenService), logger)
		w, r := post(`{"email": "nobody@example.com", "password": "secret123"}`)
		handler.HandleRequest(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		user := testUser(t)
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		handler := NewOtpHandler(new(MockOtpService), users, new(MockTokenService), logger)
		w, r := post(`{"email": "juan@example.com", "password": "wrong"}`)
		handler.HandleRequest(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("outcome status codes", func(t *testing.T) {
		tests := []struct {
			status   domain.OtpStatus
			expected int
		}{
			{domain.StatusOtpRequired, http.StatusOK},
			{domain.StatusAlreadyVerified, http.StatusOK},
			{domain.StatusDisabled, http.StatusBadRequest},
			{domain.StatusUnreachable, http.StatusUnprocessableEntity},
			{domain.StatusThrottled, http.StatusTooManyRequests},
		}

		for _, tt := range tests {
			t.Run(string(tt.status), func(t *testing.T) {
				user := testUser(t)
				users := new(MockUserRepository)
				users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

				service := new(MockOtpService)
				service.On("RequestForUser", mock.Anything, user).Return(result(tt.status), nil)

				handler := NewOtpHandler(service, users, new(MockTokenService), logger)
				w, r := post(`{"email": "juan@example.com", "password": "secret123"}`)
				handler.HandleRequest(w, r)

				assert.Equal(t, tt.expected, w.Code)

				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, string(tt.status), body["status"])
				assert.Equal(t, user.ID.String(), body["user_id"])
			})
		}
	})

	t.Run("show code is echoed when present", func(t *testing.T) {
		user := testUser(t)
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		res := result(domain.StatusOtpRequired)
		res.ShowCode = "042118"
		service := new(MockOtpService)
		service.On("RequestForUser", mock.Anything, user).Return(res, nil)

		handler := NewOtpHandler(service, users, new(MockTokenService), logger)
		w, r := post(`{"email": "juan@example.com", "password": "secret123"}`)
		handler.HandleRequest(w, r)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "042118", body["show_otp"])
	})
}

func TestHandleVerify(t *testing.T) {
	logger := zap.NewNop()

	post := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		req := httptest.NewRequest(http.MethodPost, "/api/otp/verify", bytes.NewBufferString(body))
		return httptest.NewRecorder(), req
	}

	t.Run("invalid user id", func(t *testing.T) {
		handler := NewOtpHandler(new(MockOtpService), new(MockUserRepository), new(MockTokenService), logger)
		w, r := post(`{"user_id": "not-a-ulid", "otp_code": "042118"}`)
		handler.HandleVerify(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		id := ulid.Make()
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, id).Return(nil, domain.ErrUserNotFound)

		handler := NewOtpHandler(new(MockOtpService), users, new(MockTokenService), logger)
		w, r := post(`{"user_id": "` + id.String() + `", "otp_code": "042118"}`)
		handler.HandleVerify(w, r)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("failure outcome status codes", func(t *testing.T) {
		tests := []struct {
			status   domain.OtpStatus
			expected int
		}{
			{domain.StatusMissing, http.StatusNotFound},
			{domain.StatusLocked, http.StatusTooManyRequests},
			{domain.StatusExpired, http.StatusGone},
			{domain.StatusInvalid, http.StatusUnprocessableEntity},
			{domain.StatusDisabled, http.StatusBadRequest},
		}

		for _, tt := range tests {
			t.Run(string(tt.status), func(t *testing.T) {
				user := testUser(t)
				users := new(MockUserRepository)
				users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

				service := new(MockOtpService)
				service.On("Verify", mock.Anything, user, "042118").Return(result(tt.status), nil)

				handler := NewOtpHandler(service, users, new(MockTokenService), logger)
				w, r := post(`{"user_id": "` + user.ID.String() + `", "otp_code": "042118"}`)
				handler.HandleVerify(w, r)

				assert.Equal(t, tt.expected, w.Code)
			})
		}
	})

	t.Run("verified returns user and token", func(t *testing.T) {
		user := testUser(t)
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		service := new(MockOtpService)
		service.On("Verify", mock.Anything, user, "042118").Return(result(domain.StatusVerified), nil)

		tokens := new(MockTokenService)
		tokens.On("GenerateToken", user.ID, domain.RoleResident).Return("signed-token", nil)

		handler := NewOtpHandler(service, users, tokens, logger)
		w, r := post(`{"user_id": "` + user.ID.String() + `", "otp_code": "042118"}`)
		handler.HandleVerify(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "verified", body["status"])
		assert.Equal(t, "signed-token", body["token"])

		userBody, ok := body["user"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, user.ID.String(), userBody["id"])
	})
}

func TestAuthenticatedVariants(t *testing.T) {
	logger := zap.NewNop()

	t.Run("request without identity is unauthorized", func(t *testing.T) {
		handler := NewOtpHandler(new(MockOtpService), new(MockUserRepository), new(MockTokenService), logger)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/otp/request", nil)
		handler.HandleRequestForAuthenticated(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("request issues code for the token bearer", func(t *testing.T) {
		user := testUser(t)
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		service := new(MockOtpService)
		service.On("RequestForUser", mock.Anything, user).Return(result(domain.StatusOtpRequired), nil)

		handler := NewOtpHandler(service, users, new(MockTokenService), logger)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/otp/request", nil)
		r = r.WithContext(auth.WithUser(r.Context(), user.ID, user.Role))
		handler.HandleRequestForAuthenticated(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("verify confirms without issuing a token", func(t *testing.T) {
		user := testUser(t)
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		service := new(MockOtpService)
		service.On("Verify", mock.Anything, user, "042118").Return(result(domain.StatusVerified), nil)

		handler := NewOtpHandler(service, users, new(MockTokenService), logger)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/otp/verify", bytes.NewBufferString(`{"otp_code": "042118"}`))
		r = r.WithContext(auth.WithUser(r.Context(), user.ID, user.Role))
		handler.HandleVerifyForAuthenticated(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Mobile number verified successfully.", body["message"])
		_, hasToken := body["token"]
		assert.False(t, hasToken)
	})
}

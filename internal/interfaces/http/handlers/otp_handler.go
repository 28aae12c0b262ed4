package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brgyhub/otp-service/internal/domain"
	"github.com/brgyhub/otp-service/internal/infrastructure/password"
	"github.com/brgyhub/otp-service/internal/interfaces/http/dto"
	httperrors "github.com/brgyhub/otp-service/internal/interfaces/http/errors"
	"github.com/brgyhub/otp-service/internal/interfaces/http/middleware/auth"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// statusCodes maps each policy outcome to its HTTP status.
var statusCodes = map[domain.OtpStatus]int{
	domain.StatusDisabled:        http.StatusBadRequest,
	domain.StatusAlreadyVerified: http.StatusOK,
	domain.StatusUnreachable:     http.StatusUnprocessableEntity,
	domain.StatusThrottled:       http.StatusTooManyRequests,
	domain.StatusOtpRequired:     http.StatusOK,
	domain.StatusMissing:         http.StatusNotFound,
	domain.StatusLocked:          http.StatusTooManyRequests,
	domain.StatusExpired:         http.StatusGone,
	domain.StatusInvalid:         http.StatusUnprocessableEntity,
	domain.StatusVerified:        http.StatusOK,
}

type OtpService interface {
	RequestForUser(ctx context.Context, user *domain.User) (*domain.OtpResult, error)
	Verify(ctx context.Context, user *domain.User, plainCode string) (*domain.OtpResult, error)
}

type TokenService interface {
	GenerateToken(userID ulid.ULID, role domain.UserRole) (string, error)
}

type OtpHandler struct {
	otpService OtpService
	users      domain.UserRepository
	tokens     TokenService
	logger     *zap.Logger
}

func NewOtpHandler(otpService OtpService, users domain.UserRepository, tokens TokenService, logger *zap.Logger) *OtpHandler {
	return &OtpHandler{
		otpService: otpService,
		users:      users,
		tokens:     tokens,
		logger:     logger,
	}
}

// HandleRequest starts the login OTP flow: it checks credentials and asks the
// OTP service to issue a code.
func (h *OtpHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.OtpRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httperrors.RespondWithError(w, httperrors.ErrCodeAuthentication, "Incorrect email address or password.", http.StatusUnauthorized)
			return
		}
		h.logger.Error("failed to look up user", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := password.CheckPassword(req.Password, user.Password); err != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeAuthentication, "Incorrect email address or password.", http.StatusUnauthorized)
		return
	}

	result, err := h.otpService.RequestForUser(r.Context(), user)
	if err != nil {
		h.logger.Error("otp request failed", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	h.respondStatus(w, result, user.ID.String())
}

// HandleVerify completes the login OTP flow. On success the user's mobile
// number is confirmed and an access token is returned.
func (h *OtpHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req dto.OtpVerifyBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.OtpCode == "" {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "user_id and otp_code are required", http.StatusBadRequest)
		return
	}

	userID, err := ulid.Parse(req.UserID)
	if err != nil {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "invalid user_id", http.StatusBadRequest)
		return
	}

	user := h.findUser(w, r.Context(), userID)
	if user == nil {
		return
	}

	result, err := h.otpService.Verify(r.Context(), user, req.OtpCode)
	if err != nil {
		h.logger.Error("otp verification failed", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	if !result.Verified() {
		h.respondStatus(w, result, user.ID.String())
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	// reload so the response carries the fresh mobile_verified_at
	user, err = h.users.FindByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to reload user", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, dto.VerifiedResponse{
		Status:  string(result.Status),
		Message: result.Message,
		User:    dto.NewUserResponse(user),
		Token:   token,
	})
}

// HandleRequestForAuthenticated issues an OTP for the bearer of a valid
// access token, for the "verify my mobile" flow.
func (h *OtpHandler) HandleRequestForAuthenticated(w http.ResponseWriter, r *http.Request) {
	user := h.authenticatedUser(w, r)
	if user == nil {
		return
	}

	result, err := h.otpService.RequestForUser(r.Context(), user)
	if err != nil {
		h.logger.Error("otp request failed", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	h.respondStatus(w, result, "")
}

// HandleVerifyForAuthenticated verifies a code for the bearer of a valid
// access token. No new token is issued.
func (h *OtpHandler) HandleVerifyForAuthenticated(w http.ResponseWriter, r *http.Request) {
	user := h.authenticatedUser(w, r)
	if user == nil {
		return
	}

	var req dto.OtpVerifyAuthenticatedBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OtpCode == "" {
		httperrors.RespondWithError(w, httperrors.ErrCodeValidation, "otp_code is required", http.StatusBadRequest)
		return
	}

	result, err := h.otpService.Verify(r.Context(), user, req.OtpCode)
	if err != nil {
		h.logger.Error("otp verification failed", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	if !result.Verified() {
		h.respondStatus(w, result, "")
		return
	}

	user, err = h.users.FindByID(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to reload user", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, dto.VerifiedResponse{
		Status:  string(result.Status),
		Message: "Mobile number verified successfully.",
		User:    dto.NewUserResponse(user),
	})
}

func (h *OtpHandler) authenticatedUser(w http.ResponseWriter, r *http.Request) *domain.User {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httperrors.RespondWithError(w, httperrors.ErrCodeAuthentication, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	return h.findUser(w, r.Context(), userID)
}

func (h *OtpHandler) findUser(w http.ResponseWriter, ctx context.Context, id ulid.ULID) *domain.User {
	user, err := h.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httperrors.RespondWithError(w, httperrors.ErrCodeNotFound, "User not found.", http.StatusNotFound)
			return nil
		}
		h.logger.Error("failed to look up user", zap.Error(err))
		httperrors.RespondWithError(w, httperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError)
		return nil
	}
	return user
}

func (h *OtpHandler) respondStatus(w http.ResponseWriter, result *domain.OtpResult, userID string) {
	respondJSON(w, statusCodes[result.Status], dto.OtpStatusResponse{
		Status:  string(result.Status),
		Message: result.Message,
		UserID:  userID,
		ShowOtp: result.ShowCode,
	})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

package http

import (
	"net/http"
	"time"

	"github.com/brgyhub/otp-service/internal/application"
	"github.com/brgyhub/otp-service/internal/domain"
	"github.com/brgyhub/otp-service/internal/infrastructure/config"
	"github.com/brgyhub/otp-service/internal/infrastructure/database"
	"github.com/brgyhub/otp-service/internal/infrastructure/jwt"
	"github.com/brgyhub/otp-service/internal/infrastructure/repository"
	"github.com/brgyhub/otp-service/internal/infrastructure/secret"
	"github.com/brgyhub/otp-service/internal/infrastructure/sms"
	"github.com/brgyhub/otp-service/internal/interfaces/http/handlers"
	"github.com/brgyhub/otp-service/internal/interfaces/http/middleware/auth"
	"github.com/brgyhub/otp-service/internal/interfaces/http/middleware/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// NewRouter wires the repositories, services and handlers onto a chi mux.
func NewRouter(db *database.Postgres, cfg *config.Config, logger *zap.Logger) (http.Handler, error) {
	transport, err := sms.NewTransport(cfg, logger)
	if err != nil {
		return nil, err
	}

	jwtService, err := jwt.New(cfg.JWTSecret, cfg.JWTAccessDuration, logger)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db, logger)
	otpRepo := repository.NewOtpCodeRepository(db, logger)
	dispatcher := application.NewNotificationDispatcher(transport, logger)
	otpService := application.NewOtpService(
		otpRepo,
		userRepo,
		secret.NewGenerator(),
		dispatcher,
		domain.OtpPolicy{
			Enabled:         cfg.OTPEnabled,
			CodeLength:      cfg.OTPCodeLength,
			TTL:             cfg.OTPTTL,
			RequestCooldown: cfg.OTPRequestCooldown,
			MaxAttempts:     cfg.OTPMaxAttempts,
			ShowCode:        cfg.OTPShowCode,
		},
		logger,
	)

	otpHandler := handlers.NewOtpHandler(otpService, userRepo, jwtService, logger)
	authMiddleware := auth.NewAuthMiddleware(jwtService, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	rateLimiter := ratelimit.NewRateLimiter(100, 200, 3*time.Minute)
	router.Use(rateLimiter.Middleware)

	// Health check endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := db.Ping(); err != nil {
				logger.Error("Database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Database connection failed"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})

		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Alive"))
		})
	})

	// Swagger UI
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	))
	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "docs/swagger.json")
	})

	router.Route("/api", func(r chi.Router) {
		// Public login-flow routes
		r.Group(func(r chi.Router) {
			r.Post("/otp/request", otpHandler.HandleRequest)
			r.Post("/otp/verify", otpHandler.HandleVerify)
		})

		// Authenticated verify-my-mobile routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticator)
			r.Post("/auth/otp/request", otpHandler.HandleRequestForAuthenticated)
			r.Post("/auth/otp/verify", otpHandler.HandleVerifyForAuthenticated)
		})
	})

	return router, nil
}

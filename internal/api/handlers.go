package api

import (
	"errors"
	"strings"

	"github.com/terraincognita07/landtrust/internal/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, options HandlerOptions) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if strings.TrimSpace(options.SecretKey) == "" {
		return nil, errors.New("secret key is required")
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	collectors := options.Metrics
	if collectors == nil {
		collectors = metrics.New()
	}
	timeout := options.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	handler := &Handler{
		db:                   database,
		secretKey:            []byte(options.SecretKey),
		cookieSecure:         options.CookieSecure,
		requestTimeout:       timeout,
		roleGrantAttempts:    options.RoleGrantAttempts,
		strictStepValidation: options.StrictStepValidation,
		logger:               logger,
		metrics:              collectors,
		loginLimiter:         newLoginLimiter(loginAttemptsLimit, loginAttemptsWindow),
	}
	return handler.withDependencies(database), nil
}

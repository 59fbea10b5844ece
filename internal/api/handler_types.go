package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/landtrust/internal/db"
	"github.com/terraincognita07/landtrust/internal/metrics"
	"github.com/terraincognita07/landtrust/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db                   *gorm.DB
	secretKey            []byte
	cookieSecure         bool
	requestTimeout       time.Duration
	roleGrantAttempts    int
	strictStepValidation bool
	logger               *zap.Logger
	metrics              *metrics.Metrics
	loginLimiter         *loginLimiter

	repositories     *db.Repositories
	gateway          *db.Gateway
	authService      *services.AuthService
	statusController *services.StatusController
	messageService   *services.MessageService
	propertyService  *services.PropertyService
}

type HandlerOptions struct {
	SecretKey            string
	CookieSecure         bool
	RequestTimeout       time.Duration
	RoleGrantAttempts    int
	StrictStepValidation bool
	Logger               *zap.Logger
	Metrics              *metrics.Metrics
}

const (
	defaultAuthTokenTTL   = 7 * 24 * time.Hour
	defaultRequestTimeout = 10 * time.Second

	loginAttemptsLimit  = 8
	loginAttemptsWindow = 15 * time.Minute
)

type authClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

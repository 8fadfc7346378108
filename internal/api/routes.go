package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
	"github.com/swasthya-health/swasthya/internal/websocket"
	"github.com/swasthya-health/swasthya/usecase"
)

// Dependencies are the services the routes are served by
type Dependencies struct {
	Hub           *websocket.Hub
	Auth          *usecase.AuthService
	Conversations *usecase.ConversationService
	Results       *usecase.ResultsService
	TokenTTL      time.Duration
	Gatherer      prometheus.Gatherer
	Logger        *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, deps Dependencies) {
	logger := deps.Logger
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "swasthya-server",
		})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.GET("/languages", func(c echo.Context) error {
		return c.JSON(http.StatusOK, LanguagesResponse{
			Default:   entities.DefaultLanguage,
			Languages: deps.Conversations.Languages(),
		})
	})

	v1.POST("/auth/login", func(c echo.Context) error {
		return login(c, deps, logger)
	})

	requireAuth := requirePatient(deps.Auth, logger)

	v1.POST("/vitals", validateVitals, requireAuth)

	v1.POST("/results", func(c echo.Context) error {
		return buildResults(c, deps.Results, logger)
	}, requireAuth)

	// WebSocket endpoint with JWT validation
	e.GET("/ws", func(c echo.Context) error {
		patient := currentPatient(c)
		logger.Info("WebSocket connection authenticated", zap.String("patient_id", patient.ID))
		return websocket.HandleWebSocket(deps.Hub, c, patient)
	}, requireAuth)
}

func login(c echo.Context, deps Dependencies, logger *zap.Logger) error {
	var req LoginRequest

	// Bind and validate request
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	token, patient, err := deps.Auth.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, usecase.ErrMissingCredentials):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Email and password are required",
		})
	case errors.Is(err, repositories.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid email or password",
		})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(deps.TokenTTL),
		Patient:   patient,
	})
}

func validateVitals(c echo.Context) error {
	var vitals entities.HealthVitals
	if err := c.Bind(&vitals); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if err := vitals.Validate(); err != nil {
		return vitalsError(c, err)
	}
	vitals.Normalize()

	return c.JSON(http.StatusOK, VitalsResponse{
		Vitals:      vitals,
		BMICategory: entities.CategorizeBMI(vitals.BMI),
	})
}

func buildResults(c echo.Context, results *usecase.ResultsService, logger *zap.Logger) error {
	var req ResultsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	report, err := results.Build(c.Request().Context(), req.Handoff, req.Vitals)
	if err != nil {
		var vErr entities.VitalsError
		if errors.As(err, &vErr) {
			return vitalsError(c, err)
		}
		logger.Warn("Results request rejected", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_handoff",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, report)
}

func vitalsError(c echo.Context, err error) error {
	resp := ErrorResponse{Error: "invalid_vitals", Message: "Please correct the highlighted fields"}
	var vErr entities.VitalsError
	if errors.As(err, &vErr) {
		resp.Fields = vErr
	}
	return c.JSON(http.StatusUnprocessableEntity, resp)
}

const patientContextKey = "patient"

// requirePatient rejects requests without a valid patient JWT and stores the
// authenticated patient on the context. Browsers cannot set headers on
// websocket requests, so a token query parameter is accepted as well.
func requirePatient(authService *usecase.AuthService, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				logger.Warn("Request rejected: missing token", zap.String("path", c.Path()))
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "missing_token",
					Message: "JWT token is required",
				})
			}

			patient, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				logger.Warn("Request rejected: invalid token", zap.String("path", c.Path()), zap.Error(err))
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "invalid_token",
					Message: "Invalid or expired JWT token",
				})
			}

			c.Set(patientContextKey, patient)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.QueryParam("token")
}

func currentPatient(c echo.Context) *entities.Patient {
	patient, _ := c.Get(patientContextKey).(*entities.Patient)
	return patient
}

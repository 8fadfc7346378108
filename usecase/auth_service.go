package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
	"github.com/swasthya-health/swasthya/internal/auth"
)

// ErrMissingCredentials is returned when email or password is blank
var ErrMissingCredentials = errors.New("email and password are required")

// AuthService logs patients in and issues session tokens
type AuthService struct {
	patients repositories.PatientRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(patients repositories.PatientRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{patients: patients, tokens: tokens, logger: logger}
}

// Login validates the credentials and returns a signed token for the patient
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entities.Patient, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, ErrMissingCredentials
	}

	patient, err := s.patients.ValidateCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidCredentials) {
			s.logger.Info("Login rejected", zap.String("email", email))
		}
		return "", nil, err
	}

	token, err := s.tokens.GeneratePatientToken(patient)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return "", nil, err
	}

	s.logger.Info("Patient logged in", zap.String("patient_id", patient.ID))
	return token, patient, nil
}

// Authenticate resolves a token to its patient
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entities.Patient, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return s.patients.GetByID(ctx, claims.PatientID)
}

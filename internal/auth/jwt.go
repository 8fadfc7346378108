package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swasthya-health/swasthya/domain/entities"
)

const RolePatient = "patient"

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	PatientID string               `json:"patient_id"`
	Email     string               `json:"email"`
	Language  entities.LanguageTag `json:"language,omitempty"`
	Role      string               `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates patient tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager signing with secret. A non-positive
// ttl defaults to 24 hours.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// GeneratePatientToken generates a JWT token for patient authentication
func (m *TokenManager) GeneratePatientToken(patient *entities.Patient) (string, error) {
	if patient == nil || patient.ID == "" {
		return "", errors.New("patient ID is required")
	}

	now := m.now()
	claims := &JWTClaims{
		PatientID: patient.ID,
		Email:     patient.Email,
		Language:  patient.PreferredLanguage,
		Role:      RolePatient,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   patient.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken validates a JWT token and returns the claims
func (m *TokenManager) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		if claims.Role != RolePatient || claims.PatientID == "" {
			return nil, jwt.ErrTokenInvalidClaims
		}
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}

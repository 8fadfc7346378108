package repositories

import (
	"context"
	"errors"

	"github.com/swasthya-health/swasthya/domain/entities"
)

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PatientRepository defines data access methods for patients
type PatientRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Patient, error)
	GetByEmail(ctx context.Context, email string) (*entities.Patient, error)
	// ValidateCredentials validates login credentials for authentication
	ValidateCredentials(ctx context.Context, email, password string) (*entities.Patient, error)
}

// CatalogProvider supplies the read-only results fixtures
type CatalogProvider interface {
	Catalog() entities.Catalog
}

package adapters

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
)

// DemoEmail and DemoPassword are the credentials seeded by NewDemoPatientRepository
const (
	DemoEmail    = "test@example.com"
	DemoPassword = "password"
)

// MemoryPatientRepository is an in-memory implementation of PatientRepository
type MemoryPatientRepository struct {
	mu       sync.RWMutex
	patients map[string]*entities.Patient // id -> patient mapping
	emails   map[string]*entities.Patient // email -> patient mapping
	secrets  map[string][]byte            // email -> bcrypt hash
}

var _ repositories.PatientRepository = (*MemoryPatientRepository)(nil)

// NewMemoryPatientRepository creates a new empty in-memory patient repository
func NewMemoryPatientRepository() *MemoryPatientRepository {
	return &MemoryPatientRepository{
		patients: make(map[string]*entities.Patient),
		emails:   make(map[string]*entities.Patient),
		secrets:  make(map[string][]byte),
	}
}

// NewDemoPatientRepository creates a repository holding the single demo account
func NewDemoPatientRepository() (*MemoryPatientRepository, error) {
	repo := NewMemoryPatientRepository()
	demo := &entities.Patient{
		Name:              "John Doe",
		Email:             DemoEmail,
		PreferredLanguage: entities.LanguageEnglish,
		AuthProvider:      "email",
	}
	if err := repo.Create(context.Background(), demo, DemoPassword); err != nil {
		return nil, err
	}
	return repo, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a patient together with its password
func (m *MemoryPatientRepository) Create(ctx context.Context, patient *entities.Patient, password string) error {
	if patient == nil {
		return errors.New("patient cannot be nil")
	}
	if err := patient.Validate(); err != nil {
		return err
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	email := normalizeEmail(patient.Email)
	if _, exists := m.emails[email]; exists {
		return errors.New("patient with this email already exists")
	}

	// Generate ID if not provided
	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	patient.Email = email
	patient.CreatedAt = time.Now()

	patientCopy := *patient
	m.patients[patient.ID] = &patientCopy
	m.emails[email] = &patientCopy
	m.secrets[email] = hash
	return nil
}

// GetByID implements PatientRepository interface
func (m *MemoryPatientRepository) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	if id == "" {
		return nil, errors.New("patient ID cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	patient, exists := m.patients[id]
	if !exists {
		return nil, repositories.ErrPatientNotFound
	}

	// Return a copy to prevent external modifications
	patientCopy := *patient
	return &patientCopy, nil
}

// GetByEmail implements PatientRepository interface
func (m *MemoryPatientRepository) GetByEmail(ctx context.Context, email string) (*entities.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	patient, exists := m.emails[normalizeEmail(email)]
	if !exists {
		return nil, repositories.ErrPatientNotFound
	}

	patientCopy := *patient
	return &patientCopy, nil
}

// ValidateCredentials checks an email and password pair
func (m *MemoryPatientRepository) ValidateCredentials(ctx context.Context, email, password string) (*entities.Patient, error) {
	email = normalizeEmail(email)

	m.mu.RLock()
	hash, exists := m.secrets[email]
	patient := m.emails[email]
	m.mu.RUnlock()

	if !exists || patient == nil {
		return nil, repositories.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, repositories.ErrInvalidCredentials
	}

	patientCopy := *patient
	return &patientCopy, nil
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/swasthya-health/swasthya/adapters"
	"github.com/swasthya-health/swasthya/domain/repositories"
	"github.com/swasthya-health/swasthya/internal/auth"
)

func newAuthService(t *testing.T) *AuthService {
	repo, err := adapters.NewDemoPatientRepository()
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	return NewAuthService(repo, tokens, zaptest.NewLogger(t))
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	token, patient, err := svc.Login(ctx, adapters.DemoEmail, adapters.DemoPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "John Doe", patient.Name)

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, got.ID)
}

func TestLoginFailures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "", "password")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, _, err = svc.Login(ctx, adapters.DemoEmail, "nope")
	assert.ErrorIs(t, err, repositories.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.Error(t, err)
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTTokenService_RoundTrip(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "cnc-fabbook")

	token, expiresAt, err := svc.Generate("+84901234567")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	phone, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "+84901234567", phone)
}

func TestJWTTokenService_Validate_WrongSecret(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "cnc-fabbook")
	other := NewJWTTokenService("different-secret", time.Hour, "cnc-fabbook")

	token, _, err := svc.Generate("+84901234567")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Expired(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", -time.Minute, "cnc-fabbook")

	token, _, err := svc.Generate("+84901234567")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Garbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "cnc-fabbook")

	_, err := svc.Validate("not.a.token")
	assert.Error(t, err)
}

package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestOrganizerLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := NewAuthService(string(hash), "signing-key")

	_, err = svc.Login(context.Background(), LoginInput{Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = svc.Login(context.Background(), LoginInput{})
	assert.ErrorIs(t, err, ErrValidationFailed)

	token, err := svc.Login(context.Background(), LoginInput{Password: "s3cret"})
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("signing-key"), nil })
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, RoleOrganizer, claims["role"])
}

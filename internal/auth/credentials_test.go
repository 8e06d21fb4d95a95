package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthenticatePlain(t *testing.T) {
	creds := Credentials{"admin": "admin123", "jane": "s3cret"}

	assert.NoError(t, creds.Authenticate("admin", "admin123"))
	assert.NoError(t, creds.Authenticate("jane", "s3cret"))

	assert.ErrorIs(t, creds.Authenticate("admin", "s3cret"), ErrInvalidCredentials)
	assert.ErrorIs(t, creds.Authenticate("admin", ""), ErrInvalidCredentials)
	assert.ErrorIs(t, creds.Authenticate("nobody", "admin123"), ErrInvalidCredentials)
	assert.ErrorIs(t, creds.Authenticate("", ""), ErrInvalidCredentials)
}

func TestAuthenticateBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	creds := Credentials{"ops": string(hash)}

	assert.NoError(t, creds.Authenticate("ops", "hunter2"))
	assert.ErrorIs(t, creds.Authenticate("ops", "hunter3"), ErrInvalidCredentials)
	assert.ErrorIs(t, creds.Authenticate("ops", string(hash)), ErrInvalidCredentials)
}

func TestAuthenticateEmptyCredentials(t *testing.T) {
	var creds Credentials
	assert.ErrorIs(t, creds.Authenticate("admin", "admin123"), ErrInvalidCredentials)
}

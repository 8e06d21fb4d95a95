package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid user or password")

// Credentials maps a user name to its secret. A secret that looks like a
// bcrypt hash ($2a$, $2b$, $2y$) is compared as one; anything else is
// compared as plain text.
type Credentials map[string]string

func (c Credentials) Authenticate(user, password string) error {
	secret, ok := c[user]
	if !ok {
		return ErrInvalidCredentials
	}

	if isBcrypt(secret) {
		if err := bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(secret), []byte(password)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func isBcrypt(s string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

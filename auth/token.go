package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"filedrop/errors"
)

// User is the identity the client can derive from its own credential.
type User struct {
	Username string
}

// ParseUser extracts the username from a bearer token without verifying the
// signature. Verification is the server's job; the client only needs the
// identity claim for display. The username lives in "sub" or, on the legacy
// backend, in a "username" claim.
func ParseUser(token string) (User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return User{}, errors.ErrInvalidToken
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return User{Username: sub}, nil
	}
	if name, ok := claims["username"].(string); ok && name != "" {
		return User{Username: name}, nil
	}
	return User{}, errors.ErrInvalidToken
}

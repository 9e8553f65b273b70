package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"filedrop/errors"
)

// tokenWith builds an unsigned JWT carrying the given payload claims.
func tokenWith(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	body := base64.RawURLEncoding.EncodeToString(payload)
	return header + "." + body + ".c2lnbmF0dXJl"
}

func TestParseUser(t *testing.T) {
	t.Run("should read the sub claim", func(t *testing.T) {
		req := require.New(t)
		user, err := ParseUser(tokenWith(t, map[string]any{"sub": "alice"}))
		req.NoError(err)
		req.Equal("alice", user.Username)
	})

	t.Run("should fall back to the username claim", func(t *testing.T) {
		req := require.New(t)
		user, err := ParseUser(tokenWith(t, map[string]any{"username": "bob"}))
		req.NoError(err)
		req.Equal("bob", user.Username)
	})

	t.Run("should reject a token without an identity claim", func(t *testing.T) {
		_, err := ParseUser(tokenWith(t, map[string]any{"exp": 1}))
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := ParseUser("not.a.token")
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})
}

func TestValidateCredentials(t *testing.T) {
	t.Run("should accept a well-formed login", func(t *testing.T) {
		require.NoError(t, ValidateLogin(Credentials{Username: "alice", Password: "whatever-old-password"}))
	})

	t.Run("should reject a short username", func(t *testing.T) {
		err := ValidateLogin(Credentials{Username: "al", Password: "longenough"})
		require.ErrorIs(t, err, errors.ErrInvalidCredentials)
	})

	t.Run("should reject registration without a digit", func(t *testing.T) {
		err := ValidateRegister(Credentials{Username: "alice", Password: "onlyletters"})
		require.ErrorIs(t, err, errors.ErrInvalidCredentials)
	})

	t.Run("should accept a compliant registration", func(t *testing.T) {
		require.NoError(t, ValidateRegister(Credentials{Username: "alice", Password: "passw0rd123"}))
	})
}

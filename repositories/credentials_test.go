package repositories

import (
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Credential_Lifecycle(t *testing.T) {
	req := require.New(t)
	repository := NewCredentialRepository(openTestDB(t), slog.Default())

	// Signed out: no token.
	_, ok := repository.Token()
	req.False(ok)

	// Login persists; every read sees the same value.
	req.NoError(repository.SetToken("jwt-abc"))
	token, ok := repository.Token()
	req.True(ok)
	req.Equal("jwt-abc", token)

	// A later login overwrites.
	req.NoError(repository.SetToken("jwt-def"))
	token, _ = repository.Token()
	req.Equal("jwt-def", token)

	// Logout destroys; clearing twice is harmless.
	req.NoError(repository.ClearToken())
	req.NoError(repository.ClearToken())
	_, ok = repository.Token()
	req.False(ok)
}

func Test_Credential_Rejects_Empty_Token(t *testing.T) {
	repository := NewCredentialRepository(openTestDB(t), slog.Default())
	require.Error(t, repository.SetToken(""))
}

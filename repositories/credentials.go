//go:generate go run go.uber.org/mock/mockgen -source=credentials.go -destination=../mocks/mock_credential_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// tokenKey is the fixed well-known key the bearer credential lives under,
// the durable-storage equivalent of the browser's "auth_token" entry.
const tokenKey = "auth:token"

// ICredentialRepository is the single owner of the persisted bearer
// credential: written on login, read on every outgoing request, destroyed on
// logout or on an invalid-token signal.
type ICredentialRepository interface {
	SetToken(token string) error
	Token() (string, bool)
	ClearToken() error
}

type CredentialRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewCredentialRepository(db *badger.DB, log *slog.Logger) ICredentialRepository {
	return &CredentialRepository{db: db, log: log}
}

func (c *CredentialRepository) SetToken(token string) error {
	if token == "" {
		return fmt.Errorf("refusing to persist an empty token")
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(tokenKey), []byte(token))
	})
}

// Token reads the persisted credential. A missing key is not an error: it
// simply means the user is signed out.
func (c *CredentialRepository) Token() (string, bool) {
	var token string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tokenKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			token = string(val)
			return nil
		})
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
			c.log.Error("reading credential failed", "err", err)
		}
		return "", false
	}
	return token, token != ""
}

func (c *CredentialRepository) ClearToken() error {
	return c.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(tokenKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

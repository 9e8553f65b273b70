//go:generate go run go.uber.org/mock/mockgen -source=snapshot.go -destination=../mocks/mock_snapshot_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"filedrop/domain"
)

const snapshotKey = "cache:files"

// IListSnapshotRepository persists the last successfully fetched file list
// so the portal can show something meaningful before the first fetch
// completes, or when the backend is unreachable.
type IListSnapshotRepository interface {
	Save(files []domain.UploadedFile) error
	Load() ([]domain.UploadedFile, time.Time, bool)
	Clear() error
}

type ListSnapshotRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewListSnapshotRepository(db *badger.DB, log *slog.Logger) IListSnapshotRepository {
	return &ListSnapshotRepository{db: db, log: log}
}

// snapshot is stored as JSON: the records come off a JSON wire format, and
// the canonical UploadedFile shape round-trips losslessly.
type snapshot struct {
	SavedAt time.Time             `json:"savedAt"`
	Files   []domain.UploadedFile `json:"files"`
}

func (s *ListSnapshotRepository) Save(files []domain.UploadedFile) error {
	data, err := json.Marshal(snapshot{SavedAt: time.Now().UTC(), Files: files})
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	})
}

func (s *ListSnapshotRepository) Load() ([]domain.UploadedFile, time.Time, bool) {
	var stored snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
			s.log.Error("reading list snapshot failed", "err", err)
		}
		return nil, time.Time{}, false
	}
	return stored.Files, stored.SavedAt, true
}

func (s *ListSnapshotRepository) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(snapshotKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

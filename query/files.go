package query

import (
	"context"
	"log/slog"

	"filedrop/domain"
	"filedrop/repositories"
	"filedrop/services"
)

// fileListKey is the single cache key for the portal's listing.
const fileListKey = "files"

// FileListQuery is the cached read model over the file listing. It seeds
// itself from the persisted snapshot, refetches past the stale window, and
// folds upload results back into the cache without a listing round trip
// whenever the server echoes the full record.
type FileListQuery struct {
	cache     *Client[[]domain.UploadedFile]
	files     services.IFileService
	snapshots repositories.IListSnapshotRepository
	log       *slog.Logger
}

func NewFileListQuery(files services.IFileService, snapshots repositories.IListSnapshotRepository, cfg Config, log *slog.Logger) (*FileListQuery, error) {
	cache, err := New[[]domain.UploadedFile](cfg, log)
	if err != nil {
		return nil, err
	}
	q := &FileListQuery{cache: cache, files: files, snapshots: snapshots, log: log}

	// A previous run's listing is better than an empty screen while the
	// first fetch is in flight. The seed lands stale, so it never suppresses
	// that fetch.
	if seed, savedAt, ok := snapshots.Load(); ok {
		cache.Set(fileListKey, seed)
		log.Debug("seeded listing from snapshot", "files", len(seed), "savedAt", savedAt)
	}
	return q, nil
}

// Files serves the listing, fetching only when the cached copy is missing
// or past the stale window.
func (q *FileListQuery) Files(ctx context.Context) ([]domain.UploadedFile, error) {
	return q.cache.Ensure(ctx, fileListKey, q.fetch)
}

// Refresh fetches unconditionally.
func (q *FileListQuery) Refresh(ctx context.Context) ([]domain.UploadedFile, error) {
	return q.cache.Fetch(ctx, fileListKey, q.fetch)
}

// Cached reports whatever the cache holds without touching the network.
func (q *FileListQuery) Cached() ([]domain.UploadedFile, Status) {
	return q.cache.Get(fileListKey)
}

// ApplyUpload reconciles one upload result into the listing. When the
// server echoed the stored record, the cached listing is patched in place.
// When it answered with a bare receipt, the cache holds too little to build
// the row locally, so the listing is invalidated and refetched instead.
func (q *FileListQuery) ApplyUpload(ctx context.Context, result domain.UploadResult) ([]domain.UploadedFile, error) {
	if result.File != nil {
		patched := q.cache.Update(fileListKey, func(files []domain.UploadedFile) []domain.UploadedFile {
			return ReconcileUpload(files, *result.File)
		})
		if patched {
			files, _ := q.cache.Get(fileListKey)
			q.persist(files)
			return files, nil
		}
	}
	q.cache.Invalidate(fileListKey)
	return q.Files(ctx)
}

func (q *FileListQuery) fetch(ctx context.Context) ([]domain.UploadedFile, error) {
	files, err := q.files.FetchFiles(ctx)
	if err != nil {
		return nil, err
	}
	q.persist(files)
	return files, nil
}

// Forget drops both the cached listing and its persisted snapshot, e.g. on
// sign-out.
func (q *FileListQuery) Forget() error {
	q.cache.Remove(fileListKey)
	return q.snapshots.Clear()
}

func (q *FileListQuery) persist(files []domain.UploadedFile) {
	if err := q.snapshots.Save(files); err != nil {
		q.log.Error("persisting list snapshot failed", "err", err)
	}
}

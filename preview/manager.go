package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shirou/gopsutil/disk"

	"filedrop/domain"
	"filedrop/domain/mimetypes"
	"filedrop/errors"
	"filedrop/services"
)

// State is the preview lifecycle position. Transitions:
// closed → opening → (displaying | failed) → closed.
type State string

const (
	StateClosed     State = "closed"
	StateOpening    State = "opening"
	StateDisplaying State = "displaying"
	StateFailed     State = "failed"
)

// Handle is one materialized preview. Its backing file lives until Release,
// which is safe to call any number of times; the removal happens once.
type Handle struct {
	FileID      domain.FileID
	Path        string
	ContentType string
	Size        int64

	release sync.Once
	log     *slog.Logger
}

// Release removes the backing temp file. Exactly one call does the work;
// the rest are no-ops.
func (h *Handle) Release() {
	h.release.Do(func() {
		if err := os.Remove(h.Path); err != nil && !os.IsNotExist(err) {
			h.log.Error("removing preview file failed", "path", h.Path, "err", err)
			return
		}
		h.log.Debug("preview released", "id", h.FileID, "path", h.Path)
	})
}

// Manager materializes file content as temp-file previews and guarantees
// that every handle it hands out is released, including the one displaced
// when a new preview opens over an existing one.
type Manager struct {
	mu      sync.Mutex
	files   services.IFileService
	dir     string
	state   State
	current *Handle
	log     *slog.Logger

	// freeBytes is swappable so the disk probe can be faked in tests.
	freeBytes func(dir string) (uint64, error)
}

func NewManager(files services.IFileService, dir string, log *slog.Logger) *Manager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Manager{
		files: files,
		dir:   dir,
		state: StateClosed,
		log:   log,
		freeBytes: func(dir string) (uint64, error) {
			usage, err := disk.Usage(dir)
			if err != nil {
				return 0, err
			}
			return usage.Free, nil
		},
	}
}

// Open fetches the file's content and materializes it for display. Whatever
// was displaying before is released first, regardless of how this open ends.
func (m *Manager) Open(ctx context.Context, file domain.UploadedFile) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 1. The previous preview never survives a new open.
	m.releaseCurrentLocked()

	// 2. Only the inline-viewable types are worth a fetch.
	if !mimetypes.CanPreviewInline(file.ContentType) {
		return nil, fmt.Errorf("%w: %s", errors.ErrNotPreviewable, file.ContentType)
	}
	m.state = StateOpening

	// 3. Refuse to materialize onto a full disk.
	if file.Size > 0 {
		free, err := m.freeBytes(m.dir)
		if err != nil {
			m.log.Warn("disk probe failed, skipping free-space check", "dir", m.dir, "err", err)
		} else if free < uint64(file.Size) {
			m.state = StateFailed
			return nil, fmt.Errorf("%w: need %s, %s free", errors.ErrInsufficientSpace,
				domain.FormatBytes(file.Size), domain.FormatBytes(int64(free)))
		}
	}

	content, contentType, err := m.files.FetchContent(ctx, file.ID)
	if err != nil {
		m.state = StateFailed
		return nil, err
	}
	if !mimetypes.CanPreviewInline(contentType) {
		m.state = StateFailed
		return nil, fmt.Errorf("%w: server delivered %s", errors.ErrNotPreviewable, contentType)
	}

	handle, err := m.materialize(file.ID, content, contentType)
	if err != nil {
		m.state = StateFailed
		return nil, err
	}
	m.current = handle
	m.state = StateDisplaying
	m.log.Info("preview opened", "id", file.ID, "path", handle.Path, "size", handle.Size)
	return handle, nil
}

// Close releases the displayed preview, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseCurrentLocked()
	m.state = StateClosed
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current reports the displayed handle, or nil.
func (m *Manager) Current() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Manager) releaseCurrentLocked() {
	if m.current != nil {
		m.current.Release()
		m.current = nil
	}
}

func (m *Manager) materialize(id domain.FileID, content []byte, contentType string) (*Handle, error) {
	ext := ""
	if mt := mimetype.Lookup(contentType); mt != nil {
		ext = mt.Extension()
	}
	f, err := os.CreateTemp(m.dir, "preview-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("creating preview file: %w", err)
	}
	if _, err = f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("writing preview file: %w", err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("writing preview file: %w", err)
	}
	return &Handle{
		FileID:      id,
		Path:        f.Name(),
		ContentType: contentType,
		Size:        int64(len(content)),
		log:         m.log,
	}, nil
}

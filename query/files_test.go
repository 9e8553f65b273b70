package query

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"filedrop/domain"
	"filedrop/mocks"
)

func newFileListQuery(t *testing.T, files *mocks.MockIFileService, snapshots *mocks.MockIListSnapshotRepository) *FileListQuery {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelError)
	q, err := NewFileListQuery(files, snapshots, Config{StaleWindow: time.Hour, Retry: fastRetry}, log)
	require.NoError(t, err)
	return q
}

func TestFileListQuery_Files(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should fetch, persist, then serve from cache", func(t *testing.T) {
		req := require.New(t)
		files := mocks.NewMockIFileService(ctrl)
		snapshots := mocks.NewMockIListSnapshotRepository(ctrl)
		remote := listing("a", "b")

		snapshots.EXPECT().Load().Return(nil, time.Time{}, false).Times(1)
		files.EXPECT().FetchFiles(gomock.Any()).Return(remote, nil).Times(1)
		snapshots.EXPECT().Save(remote).Return(nil).Times(1)

		q := newFileListQuery(t, files, snapshots)
		first, err := q.Files(context.Background())
		req.NoError(err)
		req.Equal(remote, first)

		second, err := q.Files(context.Background())
		req.NoError(err)
		req.Equal(remote, second)
	})

	t.Run("should serve the snapshot seed before the first fetch", func(t *testing.T) {
		req := require.New(t)
		files := mocks.NewMockIFileService(ctrl)
		snapshots := mocks.NewMockIListSnapshotRepository(ctrl)
		seed := listing("old")

		snapshots.EXPECT().Load().Return(seed, time.Now().Add(-time.Hour), true).Times(1)

		q := newFileListQuery(t, files, snapshots)
		cached, status := q.Cached()
		req.Equal(seed, cached)
		req.Equal(StatusSuccess, status)

		// The seed is already stale: the first real read still fetches.
		fresh := listing("new")
		files.EXPECT().FetchFiles(gomock.Any()).Return(fresh, nil).Times(1)
		snapshots.EXPECT().Save(fresh).Return(nil).Times(1)

		got, err := q.Files(context.Background())
		req.NoError(err)
		req.Equal(fresh, got)
	})
}

func TestFileListQuery_ApplyUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should patch the listing locally when the record was echoed", func(t *testing.T) {
		req := require.New(t)
		files := mocks.NewMockIFileService(ctrl)
		snapshots := mocks.NewMockIListSnapshotRepository(ctrl)
		remote := listing("a")

		snapshots.EXPECT().Load().Return(nil, time.Time{}, false).Times(1)
		files.EXPECT().FetchFiles(gomock.Any()).Return(remote, nil).Times(1)
		snapshots.EXPECT().Save(gomock.Any()).Return(nil).Times(2)

		q := newFileListQuery(t, files, snapshots)
		_, err := q.Files(context.Background())
		req.NoError(err)

		uploaded := domain.UploadedFile{ID: "b", OriginalName: "b.pdf"}
		got, err := q.ApplyUpload(context.Background(), domain.UploadResult{File: &uploaded})
		req.NoError(err)
		req.Len(got, 2)
		req.Equal(domain.FileID("b"), got[0].ID)
	})

	t.Run("should refetch when the server answered with a bare receipt", func(t *testing.T) {
		req := require.New(t)
		files := mocks.NewMockIFileService(ctrl)
		snapshots := mocks.NewMockIListSnapshotRepository(ctrl)

		snapshots.EXPECT().Load().Return(nil, time.Time{}, false).Times(1)
		first := listing("a")
		afterUpload := listing("b", "a")
		gomock.InOrder(
			files.EXPECT().FetchFiles(gomock.Any()).Return(first, nil),
			files.EXPECT().FetchFiles(gomock.Any()).Return(afterUpload, nil),
		)
		snapshots.EXPECT().Save(gomock.Any()).Return(nil).Times(2)

		q := newFileListQuery(t, files, snapshots)
		_, err := q.Files(context.Background())
		req.NoError(err)

		got, err := q.ApplyUpload(context.Background(), domain.UploadResult{Receipt: &domain.UploadReceipt{ID: "b"}})
		req.NoError(err)
		req.Equal(afterUpload, got)
	})
}

func TestFileListQuery_Forget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	req := require.New(t)

	files := mocks.NewMockIFileService(ctrl)
	snapshots := mocks.NewMockIListSnapshotRepository(ctrl)
	snapshots.EXPECT().Load().Return(listing("a"), time.Now(), true).Times(1)
	snapshots.EXPECT().Clear().Return(nil).Times(1)

	q := newFileListQuery(t, files, snapshots)
	req.NoError(q.Forget())

	_, status := q.Cached()
	req.Equal(StatusIdle, status)
}

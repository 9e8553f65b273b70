package test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"filedrop/query"
	"filedrop/repositories"
	"filedrop/services"
	"filedrop/transport"
)

// Test_Scenario covers the client surviving its backend: a session is
// opened and the listing cached, then the token is revoked server-side,
// then the server disappears entirely. The persisted snapshot keeps the
// listing readable across a client restart with no backend at all.
func Test_Scenario(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	// Reduced to 16 Mo for testing (avoid 20 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	t.Cleanup(func() { db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// 1. A minimal backend: one account, one file, and a kill switch that
	// revokes every session.
	var revoked atomic.Bool
	record := `{"id": "f-1", "originalName": "notes.pdf", "contentType": "application/pdf", "size": 1024, "uploadedAt": "2026-08-30T10:00:00Z"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/login":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token": "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJhbGljZSJ9.c2ln", "tokenType": "Bearer"}`))
		case "/api/files":
			if revoked.Load() || r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message": "Session revoked"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[` + record + `]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	// 2. The full client assembly over the shared state store.
	credentials := repositories.NewCredentialRepository(db, log)
	snapshots := repositories.NewListSnapshotRepository(db, log)
	api := transport.New(transport.Config{
		BaseURL: server.URL,
		Prefix:  "/api",
		OnUnauthorized: func() {
			_ = credentials.ClearToken()
		},
	}, credentials, log)
	fileService := services.NewFileService(api, services.StandardRoutes, 0, nil, log)
	authService := services.NewAuthService(api, services.StandardRoutes, credentials, log)

	fastRetry := query.RetryPolicy{
		MaxAttempts: 2,
		Delay:       10 * time.Millisecond,
		IsRetryable: query.DefaultRetryPolicy.IsRetryable,
	}
	listing, err := query.NewFileListQuery(fileService, snapshots, query.Config{Retry: fastRetry}, log)
	req.NoError(err)

	// 3. Sign in and cache the listing.
	user, err := authService.Login(ctx, "alice", "Sup3rSecret42")
	req.NoError(err)
	req.Equal("alice", user.Username)
	_, ok := credentials.Token()
	req.True(ok, "the session token is persisted")

	files, err := listing.Files(ctx)
	req.NoError(err)
	req.Len(files, 1)
	persisted, _, found := snapshots.Load()
	req.True(found, "the fetched listing lands in the snapshot store")
	req.Len(persisted, 1)

	// 4. The server revokes the session: the 401 must wipe the stored
	// credential so the client lands in a clean signed-out state.
	revoked.Store(true)
	_, err = fileService.FetchFiles(ctx)
	env, ok2 := transport.AsEnvelope(err)
	req.True(ok2)
	req.Equal(http.StatusUnauthorized, env.Status)
	_, ok = credentials.Token()
	req.False(ok, "a rejected token is not kept around")

	// 5. The backend disappears. A restarted client still shows the last
	// known listing from the snapshot seed.
	server.Close()
	restarted, err := query.NewFileListQuery(fileService, snapshots, query.Config{Retry: fastRetry}, log)
	req.NoError(err)

	cached, status := restarted.Cached()
	req.Equal(query.StatusSuccess, status)
	req.Len(cached, 1)
	req.Equal("notes.pdf", cached[0].OriginalName)

	_, err = restarted.Files(ctx)
	req.Error(err)
	req.True(transport.IsConnectionFailure(err), "an unreachable backend maps to the connection failure taxonomy")

	stale, status := restarted.Cached()
	req.Equal(query.StatusError, status)
	req.Len(stale, 1, "the stale listing survives the failed refresh")
}

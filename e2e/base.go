package e2e

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"filedrop/observability"
	"filedrop/preview"
	"filedrop/query"
	"filedrop/repositories"
	"filedrop/services"
	"filedrop/transport"
)

type BasePortalSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BasePortalSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

// Step prints a colorized header so the journey reads like a script in the
// test output.
func (s *BasePortalSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// ServerURL points at the configured backend, or spins up the embedded fake
// portal for this test.
func (s *BasePortalSuite) ServerURL(t *testing.T) string {
	if s.Config.ServerAddr != "" {
		return s.Config.ServerAddr
	}
	return newFakePortal().start(t, s.Config.DebugHTTP).URL
}

// Embedded reports whether the suite runs against its own fake backend.
func (s *BasePortalSuite) Embedded() bool {
	return s.Config.ServerAddr == ""
}

// portalStack is a fully wired client, the same assembly the CLI performs.
type portalStack struct {
	auth        services.IAuthService
	files       services.IFileService
	listing     *query.FileListQuery
	previews    *preview.Manager
	credentials repositories.ICredentialRepository
}

func (s *BasePortalSuite) NewStack(t *testing.T, serverURL, flavor string) *portalStack {
	t.Helper()
	req := s.Require()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	credentials := repositories.NewCredentialRepository(db, log)
	snapshots := repositories.NewListSnapshotRepository(db, log)

	routes, err := services.RoutesFor(flavor)
	req.NoError(err)

	api := transport.New(transport.Config{
		BaseURL: serverURL,
		Prefix:  "/api",
		OnUnauthorized: func() {
			_ = credentials.ClearToken()
		},
	}, credentials, log)

	stats := observability.NewTransferStats()
	fileService := services.NewFileService(api, routes, 0, stats, log)
	authService := services.NewAuthService(api, routes, credentials, log)

	listing, err := query.NewFileListQuery(fileService, snapshots, query.Config{}, log)
	req.NoError(err)

	previews := preview.NewManager(fileService, t.TempDir(), log)
	t.Cleanup(previews.Close)

	return &portalStack{
		auth:        authService,
		files:       fileService,
		listing:     listing,
		previews:    previews,
		credentials: credentials,
	}
}

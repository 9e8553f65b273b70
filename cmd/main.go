package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"filedrop/domain"
	apperrors "filedrop/errors"
	"filedrop/internal"
	"filedrop/observability"
	"filedrop/preview"
	"filedrop/query"
	"filedrop/repositories"
	"filedrop/services"
	"filedrop/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Render("Error: "+userMessage(err)))
		os.Exit(1)
	}
}

// run initializes all components, dispatches the command, and centralizes
// error reporting so every defer (database close included) executes before
// the process exits.
func run() error {
	// 1. Configuration & Logger (.env is optional)
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		return nil
	}

	// 2. Client state store (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("state store opening failed: %w", err)
	}
	defer func() {
		log.Debug("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories, transport, services
	credentials := repositories.NewCredentialRepository(db, log)
	snapshots := repositories.NewListSnapshotRepository(db, log)

	routes, err := services.RoutesFor(config.APIFlavor)
	if err != nil {
		return err
	}
	api := transport.New(transport.Config{
		BaseURL: config.ServerURL,
		Prefix:  config.APIPrefix,
		Timeout: config.RequestTimeout,
		OnUnauthorized: func() {
			// A rejected token is useless; drop it so the next command
			// starts from a clean signed-out state.
			if err := credentials.ClearToken(); err != nil {
				log.Error("clearing rejected credential failed", "err", err)
			}
		},
	}, credentials, log)

	stats := observability.NewTransferStats()
	fileService := services.NewFileService(api, routes, config.MaxUploadSize, stats, log)
	authService := services.NewAuthService(api, routes, credentials, log)

	listQuery, err := query.NewFileListQuery(fileService, snapshots, query.Config{
		StaleWindow: config.StaleWindow,
	}, log)
	if err != nil {
		return err
	}
	previews := preview.NewManager(fileService, config.PreviewDir, log)
	defer previews.Close()

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Dispatch
	command, rest := args[0], args[1:]
	switch command {
	case "register":
		return registerCommand(ctx, authService, rest)
	case "login":
		return loginCommand(ctx, authService, rest)
	case "logout":
		return logoutCommand(authService, listQuery)
	case "whoami":
		return whoamiCommand(authService)
	case "list":
		return listCommand(ctx, listQuery, stats)
	case "upload":
		return uploadCommand(ctx, fileService, listQuery, rest)
	case "view":
		return viewCommand(ctx, listQuery, previews, rest)
	case "download":
		return downloadCommand(ctx, fileService, listQuery, rest)
	case "inspect":
		internal.StartInspectServer(db, stats, config.InspectPort)
		fmt.Printf("State inspector at http://localhost:%d/inspect (Ctrl+C to stop)\n", config.InspectPort)
		<-ctx.Done()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Println("Usage: filedrop <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register <username> <password>   create an account")
	fmt.Println("  login <username> <password>      sign in and persist the session")
	fmt.Println("  logout                           destroy the local session")
	fmt.Println("  whoami                           show the signed-in user")
	fmt.Println("  list                             list uploaded files")
	fmt.Println("  upload <path>                    upload a file")
	fmt.Println("  view <id>                        preview a file locally")
	fmt.Println("  download <id> [destination]      download a file")
	fmt.Println("  inspect                          serve the local state inspector")
}

func registerCommand(ctx context.Context, auth services.IAuthService, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: filedrop register <username> <password>")
	}
	if err := auth.Register(ctx, args[0], args[1]); err != nil {
		return err
	}
	success("Account %s registered, you can now log in", args[0])
	return nil
}

func loginCommand(ctx context.Context, auth services.IAuthService, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: filedrop login <username> <password>")
	}
	user, err := auth.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	success("Signed in as %s", user.Username)
	return nil
}

func logoutCommand(auth services.IAuthService, listQuery *query.FileListQuery) error {
	if err := auth.Logout(); err != nil {
		return err
	}
	// The cached listing belongs to the session that just ended.
	if err := listQuery.Forget(); err != nil {
		return err
	}
	success("Signed out")
	return nil
}

func whoamiCommand(auth services.IAuthService) error {
	user, err := auth.CurrentUser()
	if err != nil {
		return err
	}
	fmt.Println(user.Username)
	return nil
}

func listCommand(ctx context.Context, listQuery *query.FileListQuery, stats *observability.TransferStats) error {
	files, err := listQuery.Files(ctx)
	if err != nil {
		// A reachable cache beats an error screen when the backend is down.
		if cached, _ := listQuery.Cached(); len(cached) > 0 {
			warn("Backend unreachable, showing the last known listing")
			renderListing(cached)
			return nil
		}
		return err
	}
	renderListing(files)

	snap := stats.Snapshot()
	if snap.FetchedBytes > 0 {
		fmt.Printf("Fetched %s\n", domain.FormatBytes(snap.FetchedBytes))
	}
	return nil
}

func renderListing(files []domain.UploadedFile) {
	if len(files) == 0 {
		fmt.Println("No files uploaded yet")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Type", "Size", "Uploaded"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for _, f := range files {
		table.Append([]string{
			f.ID.String(),
			f.OriginalName,
			f.ContentType,
			domain.FormatBytes(f.Size),
			domain.FormatDate(f.UploadedAt),
		})
	}
	table.Render()
}

func uploadCommand(ctx context.Context, files services.IFileService, listQuery *query.FileListQuery, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: filedrop upload <path>")
	}
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	result, err := files.UploadFile(ctx, domain.UploadPayload{
		FileName: filepath.Base(path),
		Size:     info.Size(),
		Content:  f,
		OnProgress: func(e domain.ProgressEvent) {
			if e.BytesTotal > 0 {
				fmt.Printf("\rUploading... %3d%%", e.BytesSent*100/e.BytesTotal)
			}
		},
	})
	fmt.Println()
	if err != nil {
		return err
	}

	listing, err := listQuery.ApplyUpload(ctx, result)
	if err != nil {
		// The upload itself landed; a failed reconciliation only delays the
		// listing.
		warn("Upload stored but refreshing the listing failed: %v", err)
	} else {
		renderListing(listing)
	}
	success("Uploaded %s (id %s)", filepath.Base(path), result.ID())
	return nil
}

func viewCommand(ctx context.Context, listQuery *query.FileListQuery, previews *preview.Manager, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: filedrop view <id>")
	}
	file, err := findFile(ctx, listQuery, domain.FileID(args[0]))
	if err != nil {
		return err
	}

	handle, err := previews.Open(ctx, file)
	if err != nil {
		return err
	}
	success("Preview of %s at %s", file.OriginalName, handle.Path)
	fmt.Println("Press Enter to close the preview")
	_, _ = fmt.Scanln()
	previews.Close()
	return nil
}

func downloadCommand(ctx context.Context, files services.IFileService, listQuery *query.FileListQuery, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: filedrop download <id> [destination]")
	}
	id := domain.FileID(args[0])

	content, contentType, err := files.FetchContent(ctx, id)
	if err != nil {
		return err
	}

	destination := ""
	if len(args) == 2 {
		destination = args[1]
	} else if file, err := findFile(ctx, listQuery, id); err == nil {
		destination = file.OriginalName
	}
	if destination == "" {
		ext := ""
		if mt := mimetype.Lookup(contentType); mt != nil {
			ext = mt.Extension()
		}
		destination = id.String() + ext
	}

	if err = os.WriteFile(destination, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", destination, err)
	}
	success("Downloaded %s (%s)", destination, domain.FormatBytes(int64(len(content))))
	return nil
}

func findFile(ctx context.Context, listQuery *query.FileListQuery, id domain.FileID) (domain.UploadedFile, error) {
	files, err := listQuery.Files(ctx)
	if err != nil {
		return domain.UploadedFile{}, err
	}
	for _, f := range files {
		if f.ID == id {
			return f, nil
		}
	}
	return domain.UploadedFile{}, fmt.Errorf("no file with id %s", id)
}

// userMessage prefers the envelope's user-facing copy and falls back to the
// raw error text.
func userMessage(err error) string {
	if env, ok := transport.AsEnvelope(err); ok {
		return env.UserMessage()
	}
	if errors.Is(err, apperrors.ErrTokenMissing) {
		return "You are not signed in"
	}
	return err.Error()
}

func success(format string, args ...any) {
	fmt.Println(color.New(color.FgGreen).Render(fmt.Sprintf(format, args...)))
}

func warn(format string, args ...any) {
	fmt.Println(color.New(color.FgYellow).Render(fmt.Sprintf(format, args...)))
}

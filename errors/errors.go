package errors

import "fmt"

var (
	// ErrNoResponse marks connection-level failures: the request never
	// reached the server (refused, unreachable, timed out). These are
	// never retried.
	ErrNoResponse = fmt.Errorf("no response from server")

	ErrTokenMissing = fmt.Errorf("no token found")
	ErrInvalidToken = fmt.Errorf("invalid token")
	ErrUnauthorized = fmt.Errorf("authentication required")

	ErrInvalidCredentials = fmt.Errorf("invalid username or password")

	ErrInvalidUpload     = fmt.Errorf("invalid upload payload")
	ErrFileTooLarge      = fmt.Errorf("file exceeds the maximum allowed size")
	ErrUnsupportedType   = fmt.Errorf("unsupported file type")
	ErrNotPreviewable    = fmt.Errorf("file type cannot be viewed in the browser")
	ErrInsufficientSpace = fmt.Errorf("not enough free disk space for preview")
)

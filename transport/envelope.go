package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	apperrors "filedrop/errors"
)

const fallbackMessage = "an unexpected error occurred"

// messageJoin is the deterministic policy for servers that return the
// message field as a list of strings.
const messageJoin = "; "

// ErrorEnvelope is the one normalized error shape that reaches callers.
// Presentation code never inspects raw transport failures.
type ErrorEnvelope struct {
	// Code is the machine code from the body when present, else the
	// HTTP status as text. Empty for connection-level failures.
	Code    string
	Status  int
	Message string

	cause error
}

func (e *ErrorEnvelope) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *ErrorEnvelope) Unwrap() error {
	return e.cause
}

// UserMessage maps the envelope onto the status-specific copy surfaced to
// the user.
func (e *ErrorEnvelope) UserMessage() string {
	switch {
	case e.Status == 0:
		return "Cannot reach the server. Check your connection and try again."
	case e.Status == http.StatusBadRequest:
		return e.Message
	case e.Status == http.StatusUnauthorized:
		return "Your session has expired. Please sign in again."
	case e.Status == http.StatusForbidden:
		return "You do not have permission to do that."
	case e.Status == http.StatusRequestEntityTooLarge:
		return "The file is too large."
	case e.Status == http.StatusUnsupportedMediaType:
		return "This file type is not supported."
	case e.Status >= http.StatusInternalServerError:
		return "The server encountered an error. Please try again later."
	default:
		return fmt.Sprintf("Request failed (status %d).", e.Status)
	}
}

// IsConnectionFailure reports whether no response reached the client at all.
// The query layer suppresses retries entirely for these.
func IsConnectionFailure(err error) bool {
	return errors.Is(err, apperrors.ErrNoResponse)
}

// AsEnvelope extracts the normalized envelope from any error in the chain.
func AsEnvelope(err error) (*ErrorEnvelope, bool) {
	var env *ErrorEnvelope
	ok := errors.As(err, &env)
	return env, ok
}

func newConnectionFailure(err error) *ErrorEnvelope {
	return &ErrorEnvelope{
		Message: fmt.Sprintf("network error: %v", err),
		cause:   fmt.Errorf("%w: %w", apperrors.ErrNoResponse, err),
	}
}

// wireError is the error body shape the backends emit. Both fields are
// ambiguous on the wire: code may be a string or a number, message a string
// or a list of strings.
type wireError struct {
	Code    json.RawMessage `json:"code"`
	Message json.RawMessage `json:"message"`
}

// newEnvelope normalizes a non-2xx response. Message priority: parsed body
// message, then HTTP status text, then the generic fallback.
func newEnvelope(status int, body []byte) *ErrorEnvelope {
	env := &ErrorEnvelope{Status: status, Code: strconv.Itoa(status)}

	message := ""
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		var w wireError
		if err := json.Unmarshal([]byte(trimmed), &w); err == nil {
			message = decodeMessage(w.Message)
			if code := decodeScalar(w.Code); code != "" {
				env.Code = code
			}
		} else {
			// A plain-text body is wrapped as the message field.
			message = trimmed
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = fallbackMessage
	}
	env.Message = message

	if status == http.StatusUnauthorized {
		env.cause = apperrors.ErrUnauthorized
	}
	return env
}

// decodeMessage normalizes a message that may arrive as a single string or a
// list of strings into one display string.
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, messageJoin)
	}
	return decodeScalar(raw)
}

func decodeScalar(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// bearerRoundTripper attaches the persisted credential, when one exists, as
// an Authorization header on every outgoing request.
type bearerRoundTripper struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := t.tokens.Token()
	if !ok || token == "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(clone)
}

// requestIDRoundTripper tags each request so server logs can be correlated
// with client-side failures.
type requestIDRoundTripper struct {
	base http.RoundTripper
}

func (t *requestIDRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("X-Request-ID") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("X-Request-ID", uuid.NewString())
	return t.base.RoundTrip(clone)
}

// EncodeBody implements the pre-request serialization rule: a plain
// structured payload is marshaled to JSON when the declared content type is
// JSON or unset. Binary, multipart and form-encoded payloads pass through
// untouched.
func EncodeBody(payload any, contentType string) (io.Reader, string, error) {
	switch v := payload.(type) {
	case nil:
		return nil, contentType, nil
	case io.Reader:
		return v, contentType, nil
	case []byte:
		return bytes.NewReader(v), contentType, nil
	case string:
		return strings.NewReader(v), contentType, nil
	case url.Values:
		return strings.NewReader(v.Encode()), lo.CoalesceOrEmpty(contentType, "application/x-www-form-urlencoded"), nil
	}

	if contentType != "" && !strings.Contains(contentType, "application/json") {
		return nil, "", fmt.Errorf("refusing to serialize a structured payload as %q", contentType)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("serializing request payload: %w", err)
	}
	return bytes.NewReader(data), lo.CoalesceOrEmpty(contentType, "application/json"), nil
}

package e2e

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakePortal is an in-memory stand-in for the portal backend. It serves both
// endpoint families at once so one instance covers both client presets.
type fakePortal struct {
	mu       sync.Mutex
	accounts map[string]string
	sessions map[string]string
	files    []storedFile
	nextID   int
}

type storedFile struct {
	id          string
	name        string
	contentType string
	size        int64
	uploadedAt  time.Time
	content     []byte
}

func newFakePortal() *fakePortal {
	return &fakePortal{
		accounts: make(map[string]string),
		sessions: make(map[string]string),
	}
}

func (p *fakePortal) start(t *testing.T, debug bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/user/register", p.handleRegister)
	mux.HandleFunc("POST /api/user/login", p.handleLogin)
	mux.HandleFunc("GET /api/files", p.authenticated(p.handleListStandard))
	mux.HandleFunc("POST /api/files", p.authenticated(p.handleUploadStandard))
	mux.HandleFunc("GET /api/files/{id}", p.authenticated(p.handleDownload))
	mux.HandleFunc("GET /api/file/getAll", p.authenticated(p.handleListLegacy))
	mux.HandleFunc("POST /api/file/upload", p.authenticated(p.handleUploadLegacy))
	mux.HandleFunc("GET /api/file/download/{id}", p.authenticated(p.handleDownload))

	var handler http.Handler = mux
	if debug {
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Logf("HTTP %s %s", r.Method, r.URL.Path)
			mux.ServeHTTP(w, r)
		})
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func (p *fakePortal) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username == "" {
		writeError(w, http.StatusBadRequest, "Malformed registration request")
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.accounts[creds.Username]; exists {
		writeError(w, http.StatusConflict, "Username already taken")
		return
	}
	p.accounts[creds.Username] = creds.Password
	w.WriteHeader(http.StatusCreated)
}

func (p *fakePortal) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed login request")
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if password, exists := p.accounts[creds.Username]; !exists || password != creds.Password {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token := fakeJWT(creds.Username)
	p.sessions[token] = creds.Username
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "tokenType": "Bearer"})
}

func (p *fakePortal) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		p.mu.Lock()
		_, ok := p.sessions[token]
		p.mu.Unlock()
		if token == "" || !ok {
			// A message list exercises the client's join behavior.
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message": []string{"Authentication required", "Provide a bearer token"},
			})
			return
		}
		next(w, r)
	}
}

func (p *fakePortal) handleUploadStandard(w http.ResponseWriter, r *http.Request) {
	stored, ok := p.storeUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, standardRecord(stored))
}

func (p *fakePortal) handleUploadLegacy(w http.ResponseWriter, r *http.Request) {
	stored, ok := p.storeUpload(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(stored.id)
	// Numeric id and bare receipt, as the legacy backend answers.
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "message": "File uploaded successfully"})
}

func (p *fakePortal) storeUpload(w http.ResponseWriter, r *http.Request) (storedFile, bool) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed multipart body")
		return storedFile{}, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return storedFile{}, false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Reading upload failed")
		return storedFile{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	stored := storedFile{
		id:          strconv.Itoa(p.nextID),
		name:        header.Filename,
		contentType: header.Header.Get("Content-Type"),
		size:        header.Size,
		uploadedAt:  time.Now().UTC(),
		content:     content,
	}
	p.files = append(p.files, stored)
	return stored, true
}

func (p *fakePortal) handleListStandard(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	records := make([]map[string]any, 0, len(p.files))
	for _, f := range p.files {
		records = append(records, standardRecord(f))
	}
	writeJSON(w, http.StatusOK, records)
}

func (p *fakePortal) handleListLegacy(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]map[string]any, 0, len(p.files))
	for _, f := range p.files {
		items = append(items, map[string]any{
			"id":         f.id,
			"fileName":   f.name,
			"fileType":   f.contentType,
			"fileSize":   f.size,
			"uploadDate": f.uploadedAt.Format(time.RFC3339),
			"fileUrl":    "/file/download/" + f.id,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (p *fakePortal) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, f := range p.files {
		if f.id == id {
			w.Header().Set("Content-Type", f.contentType)
			_, _ = w.Write(f.content)
			return
		}
	}
	writeError(w, http.StatusNotFound, "No such file")
}

func standardRecord(f storedFile) map[string]any {
	return map[string]any{
		"id":           f.id,
		"originalName": f.name,
		"contentType":  f.contentType,
		"size":         f.size,
		"uploadedAt":   f.uploadedAt.Format(time.RFC3339),
		"downloadUrl":  "/files/" + f.id,
	}
}

func fakeJWT(username string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sub":%q}`, username)))
	return "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." + payload + ".c2lnbmF0dXJl"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

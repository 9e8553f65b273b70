package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// FileID is the server-side identity of an uploaded file. The two backend
// variants disagree on the wire shape (JSON string vs integer), so the type
// accepts both and always renders as a string.
type FileID string

func (id FileID) String() string {
	return string(id)
}

func (id *FileID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("file id is missing")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FileID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("file id must be a string or a number: %w", err)
	}
	*id = FileID(n.String())
	return nil
}

func (id FileID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// UploadedFile is the canonical file record. It is created by the server and
// never mutated by the client, only replaced wholesale on refresh.
type UploadedFile struct {
	ID           FileID    `json:"id"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
	DownloadURL  string    `json:"downloadUrl"`
}

// wireFile carries every field name observed across the two backend
// variants. Normalization to UploadedFile happens here, once, so that the
// ambiguity never propagates past the decoding boundary.
type wireFile struct {
	ID FileID `json:"id"`

	Name        string `json:"originalName"`
	LegacyName  string `json:"fileName"`
	ContentType string `json:"contentType"`
	LegacyType  string `json:"fileType"`
	Size        *int64 `json:"size"`
	LegacySize  *int64 `json:"fileSize"`
	UploadedAt  string `json:"uploadedAt"`
	LegacyDate  string `json:"uploadDate"`
	DownloadURL string `json:"downloadUrl"`
	LegacyURL   string `json:"fileUrl"`
	ReceiptNote string `json:"message"`
}

func (w wireFile) toUploadedFile() (UploadedFile, error) {
	f := UploadedFile{
		ID:           w.ID,
		OriginalName: firstNonEmpty(w.Name, w.LegacyName),
		ContentType:  firstNonEmpty(w.ContentType, w.LegacyType),
		DownloadURL:  firstNonEmpty(w.DownloadURL, w.LegacyURL),
	}
	switch {
	case w.Size != nil:
		f.Size = *w.Size
	case w.LegacySize != nil:
		f.Size = *w.LegacySize
	}
	if f.Size < 0 {
		return UploadedFile{}, fmt.Errorf("file %s has a negative size %d", f.ID, f.Size)
	}
	if iso := firstNonEmpty(w.UploadedAt, w.LegacyDate); iso != "" {
		at, err := parseTimestamp(iso)
		if err != nil {
			return UploadedFile{}, fmt.Errorf("file %s: %w", f.ID, err)
		}
		f.UploadedAt = at
	}
	return f, nil
}

func (f *UploadedFile) UnmarshalJSON(data []byte) error {
	var w wireFile
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	normalized, err := w.toUploadedFile()
	if err != nil {
		return err
	}
	*f = normalized
	return nil
}

// parseTimestamp accepts the ISO-8601 flavours emitted by the backends:
// RFC 3339 with or without sub-second precision, and the zone-less form
// some serializers produce.
func parseTimestamp(iso string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if at, err := time.Parse(layout, iso); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable upload timestamp %q", iso)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// DecodeFileList normalizes the two observed listing shapes, a bare array or
// an {"items": [...]} envelope, into the bare sequence.
func DecodeFileList(data []byte) ([]UploadedFile, error) {
	trimmed := firstNonSpace(data)
	if trimmed == '[' {
		var files []UploadedFile
		if err := json.Unmarshal(data, &files); err != nil {
			return nil, fmt.Errorf("decoding file list: %w", err)
		}
		return files, nil
	}
	var envelope struct {
		Items []UploadedFile `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding file list envelope: %w", err)
	}
	return envelope.Items, nil
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

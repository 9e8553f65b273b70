package domain

import (
	"encoding/json"
	"fmt"
	"io"
)

const KB = 1024
const MB = KB * KB

// MaxUploadSize is the default client-side cap, matching the portal UI.
const MaxUploadSize = 50 * MB

// ProgressEvent reports transfer advancement. BytesTotal is zero when the
// total is unknown.
type ProgressEvent struct {
	BytesSent  int64
	BytesTotal int64
}

type ProgressFunc func(ProgressEvent)

// UploadPayload is transient: it exists only for the duration of one upload
// call. Content is consumed exactly once.
type UploadPayload struct {
	FileName    string `validate:"required,max=255"`
	ContentType string
	Size        int64
	Content     io.Reader `validate:"required"`
	OnProgress  ProgressFunc
}

// UploadResult is what the server answered to an upload. The standard
// backend returns the created file record; the legacy one returns a bare
// {id, message} receipt. Exactly one of File or Receipt is set.
type UploadResult struct {
	File    *UploadedFile
	Receipt *UploadReceipt
}

type UploadReceipt struct {
	ID      FileID `json:"id"`
	Message string `json:"message"`
}

func (r UploadResult) ID() FileID {
	if r.File != nil {
		return r.File.ID
	}
	if r.Receipt != nil {
		return r.Receipt.ID
	}
	return ""
}

// DecodeUploadResult distinguishes the two upload response shapes. A body
// carrying a file name is a full record; anything else with an id is treated
// as a receipt.
func DecodeUploadResult(data []byte) (UploadResult, error) {
	var w wireFile
	if err := json.Unmarshal(data, &w); err != nil {
		return UploadResult{}, fmt.Errorf("decoding upload response: %w", err)
	}
	if w.ID == "" {
		return UploadResult{}, fmt.Errorf("upload response carries no file id")
	}
	if w.Name == "" && w.LegacyName == "" {
		return UploadResult{Receipt: &UploadReceipt{ID: w.ID, Message: w.ReceiptNote}}, nil
	}
	file, err := w.toUploadedFile()
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{File: &file}, nil
}

package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Decode_Standard_Record(t *testing.T) {
	req := require.New(t)
	body := `{
		"id": "f-123",
		"originalName": "report.pdf",
		"contentType": "application/pdf",
		"size": 2048,
		"uploadedAt": "2026-03-01T10:30:00Z",
		"downloadUrl": "/files/f-123"
	}`

	var file UploadedFile
	req.NoError(json.Unmarshal([]byte(body), &file))
	req.Equal(FileID("f-123"), file.ID)
	req.Equal("report.pdf", file.OriginalName)
	req.Equal("application/pdf", file.ContentType)
	req.Equal(int64(2048), file.Size)
	req.Equal(time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), file.UploadedAt)
	req.Equal("/files/f-123", file.DownloadURL)
}

func Test_Decode_Legacy_Record_With_Numeric_ID(t *testing.T) {
	req := require.New(t)
	body := `{
		"id": 42,
		"fileName": "cat.png",
		"fileType": "image/png",
		"fileSize": 512,
		"uploadDate": "2026-03-01T10:30:00.123Z",
		"fileUrl": "/file/download/42"
	}`

	var file UploadedFile
	req.NoError(json.Unmarshal([]byte(body), &file))
	req.Equal(FileID("42"), file.ID)
	req.Equal("cat.png", file.OriginalName)
	req.Equal("image/png", file.ContentType)
	req.Equal(int64(512), file.Size)
	req.Equal("/file/download/42", file.DownloadURL)
}

func Test_Decode_Rejects_Negative_Size(t *testing.T) {
	var file UploadedFile
	err := json.Unmarshal([]byte(`{"id": "x", "originalName": "a", "size": -1}`), &file)
	require.Error(t, err)
}

func Test_Decode_File_List_Both_Shapes(t *testing.T) {
	req := require.New(t)
	bare := `[{"id": "a", "originalName": "a.pdf", "size": 1}]`
	enveloped := `{"items": [{"id": "a", "originalName": "a.pdf", "size": 1}]}`

	fromBare, err := DecodeFileList([]byte(bare))
	req.NoError(err)
	fromEnvelope, err := DecodeFileList([]byte(enveloped))
	req.NoError(err)

	req.Equal(fromBare, fromEnvelope)
	req.Len(fromBare, 1)
	req.Equal(FileID("a"), fromBare[0].ID)
}

func Test_Decode_File_List_Tolerates_Leading_Whitespace(t *testing.T) {
	files, err := DecodeFileList([]byte("\n\t [{\"id\": \"a\", \"originalName\": \"a\"}]"))
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func Test_Snapshot_Roundtrip(t *testing.T) {
	req := require.New(t)
	original := UploadedFile{
		ID:           "f-9",
		OriginalName: "demo.mp4",
		ContentType:  "video/mp4",
		Size:         9000,
		UploadedAt:   time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
		DownloadURL:  "/files/f-9",
	}

	data, err := json.Marshal(original)
	req.NoError(err)
	var decoded UploadedFile
	req.NoError(json.Unmarshal(data, &decoded))
	req.Equal(original, decoded)
}

func Test_Decode_Upload_Result(t *testing.T) {
	req := require.New(t)

	record, err := DecodeUploadResult([]byte(`{"id": "f-1", "originalName": "a.pdf", "size": 10}`))
	req.NoError(err)
	req.NotNil(record.File)
	req.Nil(record.Receipt)
	req.Equal(FileID("f-1"), record.ID())

	receipt, err := DecodeUploadResult([]byte(`{"id": 7, "message": "File uploaded successfully"}`))
	req.NoError(err)
	req.Nil(receipt.File)
	req.NotNil(receipt.Receipt)
	req.Equal(FileID("7"), receipt.ID())
	req.Equal("File uploaded successfully", receipt.Receipt.Message)

	_, err = DecodeUploadResult([]byte(`{"message": "no id here"}`))
	req.Error(err)
}

func Test_Format_Bytes(t *testing.T) {
	req := require.New(t)
	req.Equal("0 B", FormatBytes(0))
	req.Equal("512.0 B", FormatBytes(512))
	req.Equal("1.0 KB", FormatBytes(1024))
	req.Equal("50.0 MB", FormatBytes(50*MB))
	req.Equal("1.5 MB", FormatBytes(3*MB/2))
}

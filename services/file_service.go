//go:generate go run go.uber.org/mock/mockgen -source=file_service.go -destination=../mocks/mock_file_service.go -package=mocks
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"filedrop/domain"
	"filedrop/domain/mimetypes"
	"filedrop/errors"
	"filedrop/observability"
	"filedrop/transport"
)

// uploadFieldName is the fixed multipart field the backends expect.
const uploadFieldName = "file"

// sniffLen is how much of the content is read for magic-byte detection
// (the mimetype library's default).
const sniffLen = 3072

var validate = validator.New()

type IFileService interface {
	UploadFile(ctx context.Context, payload domain.UploadPayload) (domain.UploadResult, error)
	FetchFiles(ctx context.Context) ([]domain.UploadedFile, error)
	FetchContent(ctx context.Context, id domain.FileID) ([]byte, string, error)
	DownloadURL(id domain.FileID) string
	ViewURL(id domain.FileID) string
}

type FileService struct {
	api     *transport.Client
	routes  Routes
	maxSize int64
	stats   *observability.TransferStats
	log     *slog.Logger
}

func NewFileService(api *transport.Client, routes Routes, maxSize int64, stats *observability.TransferStats, log *slog.Logger) IFileService {
	if maxSize <= 0 {
		maxSize = domain.MaxUploadSize
	}
	if stats == nil {
		stats = observability.NewTransferStats()
	}
	return &FileService{api: api, routes: routes, maxSize: maxSize, stats: stats, log: log}
}

// UploadFile validates the payload, posts it as a multipart body under the
// fixed field name, and forwards progress events to the caller's callback.
// Validation failures never reach the transport.
func (s *FileService) UploadFile(ctx context.Context, payload domain.UploadPayload) (domain.UploadResult, error) {
	content, contentType, err := s.validateUpload(&payload)
	if err != nil {
		return domain.UploadResult{}, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFieldName, payload.FileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("building multipart body: %w", err)
	}
	size, err := io.Copy(part, content)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("reading upload content: %w", err)
	}
	if size > s.maxSize {
		return domain.UploadResult{}, fmt.Errorf("%w: %s > %s", errors.ErrFileTooLarge, domain.FormatBytes(size), domain.FormatBytes(s.maxSize))
	}
	if err = writer.Close(); err != nil {
		return domain.UploadResult{}, fmt.Errorf("building multipart body: %w", err)
	}

	body := newProgressReader(&buf, int64(buf.Len()), payload.OnProgress, s.stats)
	resp, err := s.api.Do(ctx, http.MethodPost, s.routes.Upload, body, writer.FormDataContentType())
	if err != nil {
		s.stats.IncrErrorCount()
		return domain.UploadResult{}, err
	}

	result, err := domain.DecodeUploadResult(resp.Body)
	if err != nil {
		return domain.UploadResult{}, err
	}
	s.stats.RecordTransfer(payload.FileName, "up", size)
	s.log.Info("file uploaded", "name", payload.FileName, "size", size, "id", result.ID())
	return result, nil
}

// validateUpload applies the client-side checks: name shape, declared size,
// and the accepted-type allow-list, with the effective type taken from the
// content's magic bytes when it is detectable.
func (s *FileService) validateUpload(payload *domain.UploadPayload) (io.Reader, string, error) {
	if err := validate.Struct(payload); err != nil {
		return nil, "", fmt.Errorf("%w: %v", errors.ErrInvalidUpload, err)
	}
	if payload.Size > s.maxSize {
		return nil, "", fmt.Errorf("%w: %s > %s", errors.ErrFileTooLarge, domain.FormatBytes(payload.Size), domain.FormatBytes(s.maxSize))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(payload.Content, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", fmt.Errorf("reading upload content: %w", err)
	}
	head = head[:n]
	content := io.MultiReader(bytes.NewReader(head), payload.Content)

	contentType := payload.ContentType
	if detected := mimetype.Detect(head); detected.String() != "application/octet-stream" || contentType == "" {
		if contentType != "" && !strings.EqualFold(detected.String(), contentType) {
			s.log.Debug("declared content type differs from detection",
				"declared", contentType, "detected", detected.String(), "name", payload.FileName)
		}
		if contentType == "" {
			contentType = detected.String()
		}
	}
	if !mimetypes.IsAcceptedUpload(contentType) {
		return nil, "", fmt.Errorf("%w: %s", errors.ErrUnsupportedType, contentType)
	}
	return content, contentType, nil
}

// FetchFiles issues the listing GET and normalizes both response shapes to
// the bare sequence.
func (s *FileService) FetchFiles(ctx context.Context) ([]domain.UploadedFile, error) {
	resp, err := s.api.Get(ctx, s.routes.List)
	if err != nil {
		s.stats.IncrErrorCount()
		return nil, err
	}
	s.stats.AddFetchedBytes(int64(len(resp.Body)))
	return domain.DecodeFileList(resp.Body)
}

// FetchContent retrieves the binary content of one file for preview or
// download. The content type comes from the response header, falling back
// to magic-byte detection.
func (s *FileService) FetchContent(ctx context.Context, id domain.FileID) ([]byte, string, error) {
	resp, err := s.api.Get(ctx, s.routes.DownloadURL(id))
	if err != nil {
		s.stats.IncrErrorCount()
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(resp.Body).String()
	}
	s.stats.AddFetchedBytes(int64(len(resp.Body)))
	s.stats.RecordTransfer(id.String(), "down", int64(len(resp.Body)))
	return resp.Body, contentType, nil
}

func (s *FileService) DownloadURL(id domain.FileID) string {
	return s.routes.DownloadURL(id)
}

func (s *FileService) ViewURL(id domain.FileID) string {
	return s.routes.ViewURL(id)
}

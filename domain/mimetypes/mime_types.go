package mimetypes

import "mime"

type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"

	ApplicationPDF  MIME = "application/pdf"
	ApplicationJSON MIME = "application/json"
	ApplicationZip  MIME = "application/zip"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"

	VideoMP4 MIME = "video/mp4"
)

// inlineViewable is the fixed allow-list of types the portal renders in the
// browser. Everything else falls back to the download-only affordance.
var inlineViewable = map[MIME]struct{}{
	ApplicationPDF: {},
	ImageJPEG:      {},
	ImagePNG:       {},
	VideoMP4:       {},
}

// CanPreviewInline reports whether a content type can be shown in an inline
// viewer. Parameters like "; charset=..." are stripped before the lookup.
func CanPreviewInline(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := inlineViewable[MIME(mt)]
	return ok
}

// AcceptedUploads mirrors the upload form's accept list.
var AcceptedUploads = []MIME{ApplicationPDF, VideoMP4, ImageJPEG, ImagePNG}

func IsAcceptedUpload(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, accepted := range AcceptedUploads {
		if mt == string(accepted) {
			return true
		}
	}
	return false
}

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

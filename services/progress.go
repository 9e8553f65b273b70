package services

import (
	"io"

	"filedrop/domain"
	"filedrop/observability"
)

// progressReader wraps an upload body and reports advancement as the
// transport drains it. Events fire zero or more times; the callback always
// receives bytes sent so far and the known total.
type progressReader struct {
	inner      io.Reader
	sent       int64
	total      int64
	onProgress domain.ProgressFunc
	stats      *observability.TransferStats
}

func newProgressReader(inner io.Reader, total int64, onProgress domain.ProgressFunc, stats *observability.TransferStats) *progressReader {
	return &progressReader{inner: inner, total: total, onProgress: onProgress, stats: stats}
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if n > 0 {
		r.sent += int64(n)
		if r.stats != nil {
			r.stats.AddUploadedBytes(int64(n))
		}
		if r.onProgress != nil {
			r.onProgress(domain.ProgressEvent{BytesSent: r.sent, BytesTotal: r.total})
		}
	}
	return n, err
}

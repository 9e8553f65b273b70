package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

const recentLimit = 20

// RecentTransfer is one completed upload or download, kept for display.
type RecentTransfer struct {
	Name      string `json:"name"`
	Direction string `json:"direction"` // "up" or "down"
	Bytes     int64  `json:"bytes"`
	Timestamp string `json:"timestamp"`
}

// TransferSnapshot aggregates the counters for the CLI.
type TransferSnapshot struct {
	UploadSpeed   float64 `json:"upload_speed"`   // MB/s since last snapshot
	DownloadSpeed float64 `json:"download_speed"` // MB/s since last snapshot
	UploadedBytes int64   `json:"uploaded_bytes"`
	FetchedBytes  int64   `json:"fetched_bytes"`
	ErrorCount    uint64  `json:"error_count"`

	RecentTransfers []RecentTransfer `json:"recent_transfers"`
}

// TransferStats tracks transfer throughput across the client. Counters are
// atomic; the recent list is mutex-guarded.
type TransferStats struct {
	mu     sync.Mutex
	recent []RecentTransfer

	uploadedBytes  int64
	fetchedBytes   int64
	intervalUp     int64
	intervalDown   int64
	errorCount     uint64
	lastSnapshotAt time.Time
}

func NewTransferStats() *TransferStats {
	return &TransferStats{recent: make([]RecentTransfer, 0), lastSnapshotAt: time.Now()}
}

func (t *TransferStats) AddUploadedBytes(n int64) {
	atomic.AddInt64(&t.uploadedBytes, n)
	atomic.AddInt64(&t.intervalUp, n)
}

func (t *TransferStats) AddFetchedBytes(n int64) {
	atomic.AddInt64(&t.fetchedBytes, n)
	atomic.AddInt64(&t.intervalDown, n)
}

func (t *TransferStats) IncrErrorCount() {
	atomic.AddUint64(&t.errorCount, 1)
}

// RecordTransfer appends a completed transfer, newest first, keeping only
// the last few for display.
func (t *TransferStats) RecordTransfer(name, direction string, bytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := RecentTransfer{
		Name:      name,
		Direction: direction,
		Bytes:     bytes,
		Timestamp: time.Now().Format("15:04:05"),
	}
	t.recent = append([]RecentTransfer{entry}, t.recent...)
	if len(t.recent) > recentLimit {
		t.recent = t.recent[:recentLimit]
	}
}

// Snapshot returns the aggregated stats and resets the speed interval.
func (t *TransferStats) Snapshot() TransferSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	duration := now.Sub(t.lastSnapshotAt).Seconds()
	snap := TransferSnapshot{
		UploadedBytes:   atomic.LoadInt64(&t.uploadedBytes),
		FetchedBytes:    atomic.LoadInt64(&t.fetchedBytes),
		ErrorCount:      atomic.LoadUint64(&t.errorCount),
		RecentTransfers: append([]RecentTransfer(nil), t.recent...),
	}
	if duration > 0 {
		up := atomic.SwapInt64(&t.intervalUp, 0)
		down := atomic.SwapInt64(&t.intervalDown, 0)
		snap.UploadSpeed = (float64(up) / 1024 / 1024) / duration
		snap.DownloadSpeed = (float64(down) / 1024 / 1024) / duration
	}
	t.lastSnapshotAt = now
	return snap
}

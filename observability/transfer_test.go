package observability

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTransferStats_Counters(t *testing.T) {
	req := require.New(t)
	stats := NewTransferStats()

	stats.AddUploadedBytes(1024)
	stats.AddUploadedBytes(1024)
	stats.AddFetchedBytes(4096)
	stats.IncrErrorCount()

	snap := stats.Snapshot()
	req.Equal(int64(2048), snap.UploadedBytes)
	req.Equal(int64(4096), snap.FetchedBytes)
	req.Equal(uint64(1), snap.ErrorCount)
}

func TestTransferStats_Recent(t *testing.T) {
	req := require.New(t)
	stats := NewTransferStats()

	for i := 0; i < recentLimit+5; i++ {
		stats.RecordTransfer(fmt.Sprintf("file-%d", i), "up", int64(i))
	}

	snap := stats.Snapshot()
	req.Len(snap.RecentTransfers, recentLimit)
	req.Equal(fmt.Sprintf("file-%d", recentLimit+4), snap.RecentTransfers[0].Name,
		"newest transfer first")
}

func TestTransferStats_Snapshot_Resets_Interval(t *testing.T) {
	req := require.New(t)
	stats := NewTransferStats()

	stats.AddUploadedBytes(10 << 20)
	time.Sleep(5 * time.Millisecond)
	first := stats.Snapshot()
	req.Greater(first.UploadSpeed, 0.0)

	second := stats.Snapshot()
	req.Equal(0.0, second.UploadSpeed, "interval counters reset on snapshot")
	req.Equal(first.UploadedBytes, second.UploadedBytes, "totals keep accumulating")
}

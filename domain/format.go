package domain

import (
	"fmt"
	"math"
	"time"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count the way the portal table does.
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	magnitude := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if magnitude > len(sizeUnits)-1 {
		magnitude = len(sizeUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(magnitude))
	return fmt.Sprintf("%.1f %s", value, sizeUnits[magnitude])
}

func FormatDate(at time.Time) string {
	if at.IsZero() {
		return "-"
	}
	return at.Local().Format("Jan 2, 2006 15:04")
}

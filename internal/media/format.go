package media

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count for listings, "N/A" when unknown.
func FormatSize(size *int64) string {
	if size == nil || *size <= 0 {
		return "N/A"
	}
	return humanize.IBytes(uint64(*size))
}

// FormatDate turns provider dates like "2016-07-15" or
// "2016-07-15T07:00:00.000Z" into "15 Jul 2016". Anything else is returned
// unchanged.
func FormatDate(s string) string {
	if s == "" {
		return "N/A"
	}
	day, _, _ := strings.Cut(s, "T")
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return s
	}
	return t.Format("02 Jan 2006")
}

// FormatRuntime renders a runtime in minutes as "1h 5m" or "45m".
func FormatRuntime(minutes int) string {
	switch {
	case minutes <= 0:
		return "N/A"
	case minutes > 60:
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

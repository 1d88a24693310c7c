package logger

import (
	"strings"
	"time"
)

// Status converts an error into the status enum carried by log lines.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}

// RoundMS clamps negative durations to zero and rounds to a whole
// millisecond.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// SummarizeStrings joins at most limit values for a log preview, reporting
// whether the list was truncated.
func SummarizeStrings(values []string, limit int) (string, bool) {
	switch {
	case limit <= 0:
		return "", len(values) > 0
	case len(values) > limit:
		return strings.Join(values[:limit], ", "), true
	default:
		return strings.Join(values, ", "), false
	}
}

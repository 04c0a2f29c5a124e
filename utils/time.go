package utils

import (
	"fmt"
	"time"
)

// FormatTrackDuration formats a track length as M:SS with zero-padded seconds.
// Unknown durations render as a question mark rather than 0:00.
func FormatTrackDuration(d time.Duration) string {
	if d <= 0 {
		return "?:??"
	}
	totalSeconds := int(d.Seconds())
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

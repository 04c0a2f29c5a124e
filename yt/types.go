package yt

import "time"

// Track is the resolved, playable descriptor of a song. Immutable once
// returned by the resolver.
type Track struct {
	ID          string
	Title       string
	URL         string
	Duration    time.Duration // 0 when the provider did not report one
	Thumbnail   string
	RequestedBy string
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

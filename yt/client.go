package yt

import (
	"net/http"

	"github.com/kkdai/youtube/v2"
)

// cookieTransport attaches a pre-authenticated cookie blob to every request.
// The blob is opaque to the bot; it is exported from a logged-in browser
// session and passed straight through to the provider.
type cookieTransport struct {
	base    http.RoundTripper
	cookies string
}

func (t *cookieTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Cookie", t.cookies)
	return t.base.RoundTrip(clone)
}

// newAuthClient builds a YouTube client that sends the given session
// cookies. Returns nil when no cookies are configured so callers can skip
// the authenticated strategies entirely.
func newAuthClient(cookies string) *youtube.Client {
	if cookies == "" {
		return nil
	}
	return &youtube.Client{
		HTTPClient: &http.Client{
			Transport: &cookieTransport{base: http.DefaultTransport, cookies: cookies},
		},
	}
}

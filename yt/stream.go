package yt

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/spf13/viper"
)

// formatPicker selects one format out of a fetched video, or fails with a
// FormatUnavailable error when nothing matches.
type formatPicker func(video *youtube.Video) (*youtube.Format, error)

// Acquirer opens an audio byte stream for a resolved track, walking an
// ordered list of quality/auth strategies until one produces data.
type Acquirer struct {
	client     *youtube.Client
	authClient *youtube.Client
	timeout    time.Duration
	gap        time.Duration
}

func NewAcquirer() *Acquirer {
	return &Acquirer{
		client:     &youtube.Client{},
		authClient: newAuthClient(viper.GetString("youtube.cookies")),
		timeout:    time.Duration(viper.GetInt("stream.timeout")) * time.Second,
		gap:        time.Duration(viper.GetInt("stream.strategygap")) * time.Second,
	}
}

// OpenStream returns a readable audio stream for the track. A strategy only
// counts as successful once the stream has produced its first bytes; a
// stream that stays silent past the configured timeout is abandoned. The
// error returned on exhaustion preserves the failure category.
func (a *Acquirer) OpenStream(ctx context.Context, track *Track) (io.ReadCloser, error) {
	authed := a.authClient
	if authed == nil {
		authed = a.client
	}

	strategies := []strategy[io.ReadCloser]{
		{name: "best audio, session cookies", attempt: a.opener(authed, track, bestAudio)},
		{name: "worst audio, session cookies", attempt: a.opener(authed, track, worstAudio)},
		{name: "worst audio, bare", attempt: a.opener(a.client, track, worstAudio)},
		{name: "any format with audio", attempt: a.opener(a.client, track, anyAudio)},
		{name: "m4a itag 140", attempt: a.opener(a.client, track, itagFormat(140))},
	}

	return runStrategies(ctx, "acquire:"+track.ID, a.gap, strategies)
}

func (a *Acquirer) opener(client *youtube.Client, track *Track, pick formatPicker) func(ctx context.Context) (io.ReadCloser, error) {
	return func(ctx context.Context) (io.ReadCloser, error) {
		video, err := client.GetVideoContext(ctx, track.ID)
		if err != nil {
			return nil, err
		}

		format, err := pick(video)
		if err != nil {
			return nil, err
		}

		stream, _, err := client.GetStreamContext(ctx, video, format)
		if err != nil {
			return nil, err
		}

		return probeStream(stream, a.timeout)
	}
}

// probeStream waits for the first bytes before handing the stream over. A
// stream object that never emits is a failure, not a success.
func probeStream(stream io.ReadCloser, timeout time.Duration) (io.ReadCloser, error) {
	type readResult struct {
		n   int
		err error
	}

	buf := make([]byte, 1)
	done := make(chan readResult, 1)
	go func() {
		n, err := stream.Read(buf)
		done <- readResult{n, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			stream.Close()
			return nil, res.err
		}
		return &prefixedReadCloser{prefix: buf[:res.n], stream: stream}, nil
	case <-time.After(timeout):
		stream.Close()
		return nil, &CategorizedError{
			Category: CategoryTimeout,
			Err:      errors.New("stream produced no data before timeout"),
		}
	}
}

// prefixedReadCloser replays the probed bytes ahead of the rest of the
// stream.
type prefixedReadCloser struct {
	prefix []byte
	stream io.ReadCloser
}

func (p *prefixedReadCloser) Read(b []byte) (int, error) {
	if len(p.prefix) > 0 {
		n := copy(b, p.prefix)
		p.prefix = p.prefix[n:]
		return n, nil
	}
	return p.stream.Read(b)
}

func (p *prefixedReadCloser) Close() error {
	return p.stream.Close()
}

func bestAudio(video *youtube.Video) (*youtube.Format, error) {
	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, noFormat()
	}
	best := &formats[0]
	for i := range formats {
		if formats[i].Bitrate > best.Bitrate {
			best = &formats[i]
		}
	}
	return best, nil
}

func worstAudio(video *youtube.Video) (*youtube.Format, error) {
	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, noFormat()
	}
	worst := &formats[0]
	for i := range formats {
		if formats[i].Bitrate < worst.Bitrate {
			worst = &formats[i]
		}
	}
	return worst, nil
}

func anyAudio(video *youtube.Video) (*youtube.Format, error) {
	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, noFormat()
	}
	return &formats[0], nil
}

func itagFormat(itag int) formatPicker {
	return func(video *youtube.Video) (*youtube.Format, error) {
		for i := range video.Formats {
			if video.Formats[i].ItagNo == itag {
				return &video.Formats[i], nil
			}
		}
		return nil, noFormat()
	}
}

func noFormat() error {
	return &CategorizedError{
		Category: CategoryFormatUnavailable,
		Err:      errors.New("no matching audio format"),
	}
}

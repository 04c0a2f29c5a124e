package yt

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
)

// blockedReader never produces data until closed.
type blockedReader struct {
	unblock chan struct{}
}

func newBlockedReader() *blockedReader {
	return &blockedReader{unblock: make(chan struct{})}
}

func (r *blockedReader) Read(p []byte) (int, error) {
	<-r.unblock
	return 0, io.EOF
}

func (r *blockedReader) Close() error {
	close(r.unblock)
	return nil
}

type errReader struct {
	err error
}

func (r *errReader) Read(p []byte) (int, error) { return 0, r.err }
func (r *errReader) Close() error               { return nil }

func TestProbeStream_PassesThroughData(t *testing.T) {
	stream := io.NopCloser(strings.NewReader("audio bytes"))

	probed, err := probeStream(stream, time.Second)

	assert.NoError(t, err)
	data, err := io.ReadAll(probed)
	assert.NoError(t, err)
	assert.Equal(t, "audio bytes", string(data))
	assert.NoError(t, probed.Close())
}

func TestProbeStream_SilentStreamTimesOut(t *testing.T) {
	stream := newBlockedReader()

	_, err := probeStream(stream, 20*time.Millisecond)

	assert.Error(t, err)
	assert.Equal(t, CategoryTimeout, Categorize(err))
}

func TestProbeStream_ReadErrorPropagates(t *testing.T) {
	cause := errors.New("connection reset")

	_, err := probeStream(&errReader{err: cause}, time.Second)

	assert.ErrorIs(t, err, cause)
}

func testVideo() *youtube.Video {
	return &youtube.Video{
		Formats: youtube.FormatList{
			{ItagNo: 18, Bitrate: 500, AudioChannels: 2},
			{ItagNo: 140, Bitrate: 130, AudioChannels: 2},
			{ItagNo: 137, Bitrate: 4000, AudioChannels: 0}, // video-only
		},
	}
}

func TestBestAudio_PicksHighestBitrateWithAudio(t *testing.T) {
	format, err := bestAudio(testVideo())

	assert.NoError(t, err)
	assert.Equal(t, 18, format.ItagNo)
}

func TestWorstAudio_PicksLowestBitrateWithAudio(t *testing.T) {
	format, err := worstAudio(testVideo())

	assert.NoError(t, err)
	assert.Equal(t, 140, format.ItagNo)
}

func TestItagFormat(t *testing.T) {
	format, err := itagFormat(140)(testVideo())
	assert.NoError(t, err)
	assert.Equal(t, 140, format.ItagNo)

	_, err = itagFormat(999)(testVideo())
	assert.Error(t, err)
	assert.Equal(t, CategoryFormatUnavailable, Categorize(err))
}

func TestFormatPickers_NoAudioFormats(t *testing.T) {
	video := &youtube.Video{Formats: youtube.FormatList{
		{ItagNo: 137, Bitrate: 4000, AudioChannels: 0},
	}}

	for _, pick := range []formatPicker{bestAudio, worstAudio, anyAudio} {
		_, err := pick(video)
		assert.Error(t, err)
		assert.Equal(t, CategoryFormatUnavailable, Categorize(err))
	}
}

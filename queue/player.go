package queue

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

const (
	sampleRate       = 48000
	channels         = 2
	frameSize        = 960
	maxOpusFrameSize = 4000
)

// FFmpegPlayer pipes one audio stream through ffmpeg into Discord as opus
// frames. Each player serves exactly one track and is discarded afterwards.
type FFmpegPlayer struct {
	vc *discordgo.VoiceConnection

	mu      sync.Mutex
	cmd     *exec.Cmd
	stop    chan struct{}
	stopped bool
}

// NewFFmpegPlayer is the PlayerFactory used in production.
func NewFFmpegPlayer(vc *discordgo.VoiceConnection) Player {
	return &FFmpegPlayer{
		vc:   vc,
		stop: make(chan struct{}),
	}
}

// Play decodes the stream with ffmpeg, encodes opus frames and sends them
// over the voice connection. Blocks until the stream ends, an error occurs,
// or Stop is called. A stopped play returns nil.
func (p *FFmpegPlayer) Play(stream io.ReadCloser) error {
	vc := p.vc
	if vc == nil {
		return fmt.Errorf("no voice connection")
	}

	if !vc.Ready {
		for i := 0; i < 20; i++ {
			time.Sleep(250 * time.Millisecond)
			if vc.Ready {
				break
			}
		}
		if !vc.Ready {
			return fmt.Errorf("voice connection never became ready")
		}
	}

	vc.Speaking(true)
	defer vc.Speaking(false)

	cmd := exec.Command("ffmpeg",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"pipe:1",
	)
	cmd.Stdin = stream

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		cmd.Process.Kill()
		return err
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		cmd.Process.Kill()
		cmd.Wait()
		return nil
	}
	p.cmd = cmd
	stopCh := p.stop
	p.mu.Unlock()

	pcmBuffer := make([]byte, frameSize*channels*2)
	pcmCache := []int16{}

	for {
		select {
		case <-stopCh:
			return nil
		default:
		}

		n, err := stdout.Read(pcmBuffer)
		if err != nil {
			if err == io.EOF {
				break
			}
			if p.isStopped() {
				return nil
			}
			return err
		}

		for i := 0; i+1 < n; i += 2 {
			sample := int16(pcmBuffer[i]) | int16(pcmBuffer[i+1])<<8
			pcmCache = append(pcmCache, sample)
		}

		for len(pcmCache) >= frameSize*channels {
			frame := pcmCache[:frameSize*channels]
			pcmCache = pcmCache[frameSize*channels:]

			opusFrame, err := encoder.Encode(frame, frameSize, maxOpusFrameSize)
			if err != nil {
				return err
			}
			if len(opusFrame) == 0 {
				continue
			}

			select {
			case vc.OpusSend <- opusFrame:
			case <-time.After(time.Second):
				return fmt.Errorf("timeout sending opus frame")
			case <-stopCh:
				return nil
			}
		}
	}

	if err := cmd.Wait(); err != nil && !p.isStopped() {
		return err
	}
	return nil
}

// Stop ends playback. Safe to call more than once and before Play.
func (p *FFmpegPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true
	close(p.stop)

	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
		p.cmd.Wait()
	}
	if p.vc != nil {
		p.vc.Speaking(false)
	}
}

func (p *FFmpegPlayer) isStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

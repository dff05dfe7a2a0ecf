package portaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/realtime-core/core/audio"
)

// Client is a blocking-stream alternative to the miniaudio backend,
// useful where miniaudio's platform backends misbehave.
type Client struct {
	bufferSize    int
	stream        *portaudio.Stream
	leftoverAudio []int16
	playedSamples int

	in  []int16
	out []int16

	mu sync.Mutex
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, audio.DefaultSampleRate, bufferSize, in, out)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

// StartCapture reads microphone frames until ctx is cancelled, handing
// each frame to onAudio. It blocks; run it on its own goroutine.
func (c *Client) StartCapture(ctx context.Context, onAudio func(samples []int16)) error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.stream.Read(); err != nil {
				continue
			}
			frame := make([]int16, len(c.in))
			copy(frame, c.in)
			onAudio(frame)
		}
	}
}

func (c *Client) Close() {
	c.stream.Close()
	portaudio.Terminate()
}

// Play writes full frames to the device and keeps the remainder for the
// next call.
func (c *Client) Play(samples []int16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	buffered := append(c.leftoverAudio, samples...)
	for len(buffered) >= c.bufferSize {
		copy(c.out, buffered[:c.bufferSize])
		if err := c.stream.Write(); err != nil {
			c.leftoverAudio = buffered
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
		c.playedSamples += c.bufferSize
		buffered = buffered[c.bufferSize:]
	}

	c.leftoverAudio = buffered
	return nil
}

// Interrupt drops queued audio and reports how many samples were played
// since the previous interrupt.
func (c *Client) Interrupt() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	played := c.playedSamples
	c.leftoverAudio = nil
	c.playedSamples = 0
	return played
}

package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
)

// Client bundles a capture and a playback device on a shared miniaudio
// context, both running mono pcm16 at the protocol sample rate.
type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackClient
	captureClient
}

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := Client{
		audioContext: audioCtx,
	}

	if err := client.playbackClient.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}

	if err := client.playbackClient.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	if err := client.captureClient.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

// StartCapture begins delivering microphone samples to onAudio. The
// callback runs on the device thread and must not block.
func (c *Client) StartCapture(_ context.Context, onAudio func(samples []int16)) error {
	return c.captureClient.Start(onAudio)
}

func (c *Client) StopCapture() error {
	return c.captureClient.Stop()
}

func (c *Client) StartPlayback(_ context.Context) error {
	return c.playbackClient.Start()
}

func (c *Client) StopPlayback() error {
	return c.playbackClient.Stop()
}

func (c *Client) Close() {
	_ = c.captureClient.Uninit()
	_ = c.playbackClient.Uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}

// Play queues samples for playback behind whatever is already queued.
func (c *Client) Play(samples []int16) error {
	return c.playbackClient.Play(samples)
}

// Interrupt drops everything still queued and reports how many samples
// of the current stream actually reached the device, which is what a
// truncation request needs.
func (c *Client) Interrupt() int {
	return c.playbackClient.Interrupt()
}

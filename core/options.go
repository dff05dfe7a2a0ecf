package realtime

import (
	"context"

	"github.com/koscakluka/realtime-core/core/events"
	"github.com/koscakluka/realtime-core/core/transport"
)

// ClientOption configures a [Client].
type ClientOption func(*Client)

// Transport carries the protocol's duplex event stream. It is satisfied
// by [transport.Conn]; tests substitute fakes.
type Transport interface {
	Connect(ctx context.Context, callbacks transport.Callbacks, opts ...transport.ConnectOption) error
	Send(ctx context.Context, event events.ClientEvent) error
	IsConnected() bool
	Close() error
}

// WithTransport sets the connection the client speaks through.
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithTransportOptions sets the options passed to the transport on every
// [Client.Connect] (API key, model, endpoint overrides).
func WithTransportOptions(opts ...transport.ConnectOption) ClientOption {
	return func(c *Client) {
		c.transportOptions = opts
	}
}

// WithSessionDefaults applies session options on top of the built-in
// defaults before the first connect.
func WithSessionDefaults(opts ...SessionOption) ClientOption {
	return func(c *Client) {
		for _, opt := range opts {
			opt(&c.sessionConfig)
		}
	}
}

// WithConversationOptions configures the transcript engine (e.g.
// [WithAudioCapacity]).
func WithConversationOptions(opts ...ConversationOption) ClientOption {
	return func(c *Client) {
		c.conversationOptions = opts
	}
}

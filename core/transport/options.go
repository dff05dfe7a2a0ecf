package transport

import (
	"net/http"
	"os"

	"github.com/koscakluka/realtime-core/core/events"
)

const (
	defaultURL     = "wss://api.openai.com/v1/realtime"
	defaultRESTURL = "https://api.openai.com/v1/realtime/sessions"
	defaultModel   = "gpt-4o-realtime-preview"

	apiKeyEnv = "OPENAI_API_KEY"
)

// Callbacks receive connection lifecycle notifications. OnEvent runs on
// the read pump goroutine, one event at a time; nil fields are ignored.
type Callbacks struct {
	// OnEvent is invoked for every parsed server event.
	OnEvent func(events.ServerEvent)
	// OnError is invoked for messages that cannot be parsed; the
	// connection stays up.
	OnError func(error)
	// OnClose is invoked once when the read pump stops. Its error is
	// nil after a locally requested close.
	OnClose func(error)
}

func (c Callbacks) withDefaults() Callbacks {
	if c.OnEvent == nil {
		c.OnEvent = func(events.ServerEvent) {}
	}
	if c.OnError == nil {
		c.OnError = func(error) {}
	}
	if c.OnClose == nil {
		c.OnClose = func(error) {}
	}
	return c
}

type connectOptions struct {
	url         string
	sessionsURL string
	model       string
	apiKey      string
	header      http.Header
}

func defaultConnectOptions() connectOptions {
	return connectOptions{
		url:         defaultURL,
		sessionsURL: defaultRESTURL,
		model:       defaultModel,
		apiKey:      os.Getenv(apiKeyEnv),
		header:      http.Header{},
	}
}

// ConnectOption configures a single [Conn.Connect] attempt.
type ConnectOption func(*connectOptions)

// WithURL overrides the websocket endpoint.
func WithURL(url string) ConnectOption {
	return func(o *connectOptions) {
		o.url = url
	}
}

// WithSessionsURL overrides the REST endpoint [MintClientSecret] talks to.
func WithSessionsURL(url string) ConnectOption {
	return func(o *connectOptions) {
		o.sessionsURL = url
	}
}

// WithModel selects the remote model the session is opened against.
func WithModel(model string) ConnectOption {
	return func(o *connectOptions) {
		o.model = model
	}
}

// WithAPIKey overrides the key otherwise taken from OPENAI_API_KEY.
func WithAPIKey(apiKey string) ConnectOption {
	return func(o *connectOptions) {
		o.apiKey = apiKey
	}
}

// WithDialHeader adds a header to the websocket handshake request.
func WithDialHeader(key, value string) ConnectOption {
	return func(o *connectOptions) {
		o.header.Add(key, value)
	}
}


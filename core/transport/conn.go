package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/realtime-core/core/events"
	"github.com/koscakluka/realtime-core/internal/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Conn is a websocket connection to a realtime endpoint. The zero value
// is usable; [Conn.Connect] opens the socket and starts the read pump.
type Conn struct {
	mu sync.Mutex
	ws *websocket.Conn

	id        string
	options   connectOptions
	callbacks Callbacks
	closed    bool
}

// New returns an unconnected Conn.
func New() *Conn {
	return &Conn{}
}

// Connect performs the websocket handshake and starts reading events.
// It fails if the connection is already open or no API key is available.
func (c *Conn) Connect(ctx context.Context, callbacks Callbacks, opts ...ConnectOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ws != nil {
		return fmt.Errorf("already connected")
	}

	c.callbacks = callbacks.withDefaults()
	c.options = defaultConnectOptions()
	for _, opt := range opts {
		opt(&c.options)
	}

	if c.options.apiKey == "" {
		return fmt.Errorf("api key not found, set %s or pass WithAPIKey", apiKeyEnv)
	}

	endpoint, err := url.Parse(c.options.url)
	if err != nil {
		return fmt.Errorf("failed to parse endpoint url: %w", err)
	}
	urlValues := url.Values{}
	urlValues.Set("model", c.options.model)
	endpoint.RawQuery = urlValues.Encode()

	header := http.Header{}
	for key, values := range c.options.header {
		header[key] = values
	}
	header.Set("Authorization", "Bearer "+c.options.apiKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	ctx, span := tracer.Start(ctx, "transport.Connect")
	defer span.End()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), header)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to open socket connection to %s: %w", endpoint.Host, err)
	}

	c.ws = ws
	c.id = uuid.NewString()
	c.closed = false
	span.SetAttributes(attribute.String("connection.id", c.id))

	go c.processIncomingMessages()
	return nil
}

// IsConnected reports whether the socket is open.
func (c *Conn) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws != nil
}

// Send stamps the event with a fresh event_id and writes it as a single
// text frame. Writes are serialized.
func (c *Conn) Send(ctx context.Context, event events.ClientEvent) error {
	payload, err := events.MarshalClient(event, utils.GenerateID("evt_"))
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", event.EventType(), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ws == nil {
		return fmt.Errorf("connection closed")
	}

	if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("failed to write to websocket: %w", err)
	}
	sentMessages.Add(ctx, 1,
		metric.WithAttributes(attribute.String("event.type", string(event.EventType()))))
	return nil
}

// Close shuts the socket down. Safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ws == nil {
		return nil
	}
	c.closed = true

	// Best effort goodbye before tearing the socket down.
	_ = c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	err := c.ws.Close()
	c.ws = nil
	if err != nil {
		return fmt.Errorf("failed to close websocket: %w", err)
	}
	return nil
}

func (c *Conn) processIncomingMessages() {
	callbacks := c.callbacks
	ws := c.ws

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			requested := c.closed
			c.ws = nil
			c.mu.Unlock()

			if requested || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				callbacks.OnClose(nil)
			} else {
				logger.Error("websocket read error", "connection_id", c.id, "error", err)
				callbacks.OnClose(err)
			}
			return
		}

		event, err := events.Parse(msg)
		if err != nil {
			callbacks.OnError(fmt.Errorf("failed to parse server event: %w", err))
			continue
		}

		receivedMessages.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("event.type", string(event.EventType()))))
		callbacks.OnEvent(event)
	}
}

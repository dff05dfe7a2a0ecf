package realtime

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/koscakluka/realtime-core/core/audio"
	"github.com/koscakluka/realtime-core/core/events"
	"github.com/koscakluka/realtime-core/core/transport"
	"github.com/koscakluka/realtime-core/internal/utils"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Bus event names the client republishes engine results under.
const (
	EventRealtime              = "realtime.event"
	EventConversationUpdated   = "conversation.updated"
	EventItemAppeared          = "conversation.item.appeared"
	EventItemCompleted         = "conversation.item.completed"
	EventConversationInterrupt = "conversation.interrupted"
	EventError                 = "error"
)

// RealtimeEvent is the envelope dispatched under [EventRealtime] for every
// event crossing the wire, in either direction.
type RealtimeEvent struct {
	// Source is "server" for inbound events and "client" for outbound.
	Source string
	Event  any
}

// ConversationUpdate is the payload of [EventConversationUpdated]: the
// touched item and the minimal delta the triggering event applied.
type ConversationUpdate struct {
	Item  *Item
	Delta *Delta
}

// Client owns the event bus, the transport and the conversation engine,
// wiring inbound protocol events into transcript reconstruction and
// republishing the results as higher-level events.
type Client struct {
	bus          *EventBus[any]
	conversation *Conversation

	transport           Transport
	transportOptions    []transport.ConnectOption
	conversationOptions []ConversationOption

	mu               sync.Mutex
	sessionConfig    events.Session
	sessionCreated   bool
	tools            map[string]registeredTool
	inputAudioBuffer []int16

	baseContext context.Context
}

// NewClient assembles a client. A transport must be configured (via
// [WithTransport]) before [Client.Connect].
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		bus:           NewEventBus[any](),
		sessionConfig: defaultSessionConfig(),
		tools:         map[string]registeredTool{},
		baseContext:   context.Background(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.conversation = NewConversation(c.conversationOptions...)
	return c
}

// Bus exposes the client's event surface; see the Event* constants plus
// the per-type "server.<type>" and "client.<type>" names.
func (c *Client) Bus() *EventBus[any] { return c.bus }

// Conversation exposes the reconstructed transcript. Items obtained from
// it are read-only by convention.
func (c *Client) Conversation() *Conversation { return c.conversation }

// IsConnected reports whether the transport currently holds a connection.
func (c *Client) IsConnected() bool {
	return c.transport != nil && c.transport.IsConnected()
}

// Connect opens the transport and pushes the local session configuration
// to the remote. ctx is the base context for everything the connection
// spawns, tool executions included.
func (c *Client) Connect(ctx context.Context) error {
	if c.transport == nil {
		return fmt.Errorf("no transport configured")
	}
	if c.transport.IsConnected() {
		return fmt.Errorf("already connected")
	}

	c.baseContext = ctx

	callbacks := transport.Callbacks{
		OnEvent: c.handleServerEvent,
		OnError: func(err error) {
			logger.Error("transport error", "error", err)
			c.bus.Dispatch(EventError, err)
		},
		OnClose: func(err error) {
			if err != nil {
				span := trace.SpanFromContext(c.baseContext)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
		},
	}
	if err := c.transport.Connect(ctx, callbacks, c.transportOptions...); err != nil {
		return fmt.Errorf("failed to connect transport: %w", err)
	}

	return c.UpdateSession()
}

// Disconnect closes the transport and resets the transcript.
func (c *Client) Disconnect() error {
	var err error
	if c.transport != nil && c.transport.IsConnected() {
		err = c.transport.Close()
	}
	c.conversation.Clear()

	c.mu.Lock()
	c.sessionCreated = false
	c.inputAudioBuffer = nil
	c.mu.Unlock()
	return err
}

// Reset tears the client back to its initial state: disconnected, empty
// transcript, no listeners, no tools, default session configuration.
func (c *Client) Reset() error {
	err := c.Disconnect()
	c.bus.ClearEventHandlers()

	c.mu.Lock()
	c.sessionConfig = defaultSessionConfig()
	c.tools = map[string]registeredTool{}
	c.mu.Unlock()
	return err
}

// SessionConfig returns a deep copy of the current session configuration.
func (c *Client) SessionConfig() events.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSession(c.sessionConfig)
}

// UpdateSession applies opts to the session configuration and, when
// connected, pushes the result to the remote.
func (c *Client) UpdateSession(opts ...SessionOption) error {
	c.mu.Lock()
	for _, opt := range opts {
		opt(&c.sessionConfig)
	}
	c.sessionConfig.Tools = c.sessionToolsLocked()
	session := cloneSession(c.sessionConfig)
	c.mu.Unlock()

	if !c.IsConnected() {
		return nil
	}
	return c.send(c.baseContext, &events.SessionUpdate{Session: session})
}

// SendUserMessageContent creates a completed user message from the given
// content parts and requests a response.
func (c *Client) SendUserMessageContent(ctx context.Context, content []events.ContentPart) error {
	if len(content) > 0 {
		if err := c.send(ctx, &events.ConversationItemCreate{
			Item: events.Item{
				ID:      utils.GenerateID("item_"),
				Type:    events.ItemTypeMessage,
				Role:    "user",
				Content: content,
			},
		}); err != nil {
			return err
		}
	}
	return c.CreateResponse(ctx)
}

// AppendInputAudio streams captured samples to the remote input buffer and
// keeps a local copy so speech boundary events can slice the spoken
// segment out of it.
func (c *Client) AppendInputAudio(ctx context.Context, samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	if err := c.send(ctx, &events.InputAudioBufferAppend{
		Audio: audio.EncodeBase64PCM16(samples),
	}); err != nil {
		return err
	}

	c.mu.Lock()
	c.inputAudioBuffer = audio.MergePCM16(c.inputAudioBuffer, samples)
	c.mu.Unlock()
	return nil
}

// CreateResponse requests a remote response. Without server-side turn
// detection, any locally buffered input audio is committed first and
// queued for attachment to the upcoming user item.
func (c *Client) CreateResponse(ctx context.Context) error {
	c.mu.Lock()
	manualMode := c.sessionConfig.TurnDetection == nil
	buffered := c.inputAudioBuffer
	c.mu.Unlock()

	if manualMode && len(buffered) > 0 {
		if err := c.send(ctx, &events.InputAudioBufferCommit{}); err != nil {
			return err
		}
		c.conversation.QueueInputAudio(buffered)
		c.mu.Lock()
		c.inputAudioBuffer = nil
		c.mu.Unlock()
	}

	return c.send(ctx, &events.ResponseCreate{})
}

// CancelResponse cancels the in-flight response. With an itemID, the
// addressed assistant message is also truncated to sampleCount played
// samples so the transcript matches what was actually heard.
func (c *Client) CancelResponse(ctx context.Context, itemID string, sampleCount int) (*Item, error) {
	if itemID == "" {
		return nil, c.send(ctx, &events.ResponseCancel{})
	}

	item := c.conversation.Item(itemID)
	if item == nil {
		return nil, fmt.Errorf("could not find item %q", itemID)
	}
	if item.Type != events.ItemTypeMessage {
		return nil, fmt.Errorf("can only cancel response messages, item %q is %q", itemID, item.Type)
	}
	if item.Role != "assistant" {
		return nil, fmt.Errorf("can only cancel assistant messages, item %q has role %q", itemID, item.Role)
	}

	if err := c.send(ctx, &events.ResponseCancel{}); err != nil {
		return nil, err
	}

	audioEndMs := math.Floor(float64(sampleCount) / float64(audio.DefaultSampleRate) * 1000)
	if err := c.send(ctx, &events.ConversationItemTruncate{
		ItemID:     itemID,
		AudioEndMs: audioEndMs,
	}); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem asks the remote to remove an item; the transcript updates
// when conversation.item.deleted arrives.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	return c.send(ctx, &events.ConversationItemDelete{ItemID: itemID})
}

// WaitForSessionCreated blocks until the remote acknowledges the session.
func (c *Client) WaitForSessionCreated(ctx context.Context, timeout time.Duration) bool {
	c.mu.Lock()
	created := c.sessionCreated
	c.mu.Unlock()
	if created {
		return true
	}

	_, ok := c.bus.WaitForNext(ctx, "server."+string(events.TypeSessionCreated), timeout)
	return ok
}

// WaitForNextItem blocks until the next item appears in the transcript.
func (c *Client) WaitForNextItem(ctx context.Context, timeout time.Duration) (*Item, bool) {
	payload, ok := c.bus.WaitForNext(ctx, EventItemAppeared, timeout)
	if !ok {
		return nil, false
	}
	item, _ := payload.(*Item)
	return item, item != nil
}

// WaitForNextCompletedItem blocks until the next item completes.
func (c *Client) WaitForNextCompletedItem(ctx context.Context, timeout time.Duration) (*Item, bool) {
	payload, ok := c.bus.WaitForNext(ctx, EventItemCompleted, timeout)
	if !ok {
		return nil, false
	}
	item, _ := payload.(*Item)
	return item, item != nil
}

// send pushes one event through the transport and mirrors it on the bus.
func (c *Client) send(ctx context.Context, event events.ClientEvent) error {
	if c.transport == nil {
		return fmt.Errorf("no transport configured")
	}

	if err := c.transport.Send(ctx, event); err != nil {
		return fmt.Errorf("failed to send %q: %w", event.EventType(), err)
	}

	c.bus.Dispatch("client."+string(event.EventType()), event)
	c.bus.Dispatch(EventRealtime, RealtimeEvent{Source: "client", Event: event})
	return nil
}

// handleServerEvent is the single sequential entry point for inbound
// events; the transport invokes it from its read pump, which satisfies
// the conversation engine's no-concurrent-processing contract.
func (c *Client) handleServerEvent(event events.ServerEvent) {
	c.bus.Dispatch(EventRealtime, RealtimeEvent{Source: "server", Event: event})
	c.bus.Dispatch("server."+string(event.EventType()), event)

	switch typedEvent := event.(type) {
	case *events.SessionCreated:
		c.mu.Lock()
		c.sessionCreated = true
		c.mu.Unlock()
	case *events.Error:
		logger.Error("server reported an error",
			"error_type", typedEvent.Error.Type,
			"message", typedEvent.Error.Message)
		c.bus.Dispatch(EventError, typedEvent)
	}

	if _, handled := conversationHandlers[event.EventType()]; !handled {
		return
	}

	var processOptions []ProcessOption
	if event.EventType() == events.TypeInputAudioBufferSpeechStopped {
		c.mu.Lock()
		buffered := append([]int16(nil), c.inputAudioBuffer...)
		c.mu.Unlock()
		processOptions = append(processOptions, WithCapturedAudio(buffered))
	}
	if event.EventType() == events.TypeInputAudioBufferSpeechStarted {
		c.bus.Dispatch(EventConversationInterrupt, event)
	}

	item, delta, err := c.conversation.ProcessEvent(event, processOptions...)
	if err != nil {
		// Orchestration policy: engine failures are observable, never
		// fatal to the read pump.
		logger.Error("failed to process server event",
			"event_type", string(event.EventType()),
			"error", err)
		c.bus.Dispatch(EventError, err)
		return
	}

	if item == nil {
		return
	}
	c.bus.Dispatch(EventConversationUpdated, ConversationUpdate{Item: item, Delta: delta})

	switch event.EventType() {
	case events.TypeConversationItemCreated:
		c.bus.Dispatch(EventItemAppeared, item)
		if item.Status == events.ItemStatusCompleted {
			c.bus.Dispatch(EventItemCompleted, item)
		}
	case events.TypeResponseOutputItemDone:
		if item.Status == events.ItemStatusCompleted {
			c.bus.Dispatch(EventItemCompleted, item)
		}
		if item.Formatted.Tool != nil {
			tool := *item.Formatted.Tool
			go c.callTool(c.baseContext, tool)
		}
	}
}

package realtime

import (
	"context"
	"fmt"

	"github.com/koscakluka/realtime-core/core/audio"
	"github.com/koscakluka/realtime-core/core/events"
)

// Conversation reconstructs a coherent transcript from the interleaved,
// partially ordered server event stream. All mutation happens inside
// [Conversation.ProcessEvent]; callers must drive one conversation from a
// single sequential point, which is why no lock is held here.
type Conversation struct {
	items      []*Item
	itemLookup map[string]*Item

	responses      []*Response
	responseLookup map[string]*Response

	// Provisional records for events that legitimately arrive before the
	// item they reference. Each is consumed, and removed, the moment the
	// matching item is created.
	queuedSpeechItems     map[string]*queuedSpeech
	queuedTranscriptItems map[string]string
	queuedInputAudio      []int16

	// audioCapacity bounds per-item audio accumulation when positive;
	// zero keeps the full stream (see WithAudioCapacity).
	audioCapacity int
	audioRings    map[string]*AudioRing
}

// ConversationOption configures a [Conversation].
type ConversationOption func(*Conversation)

// WithAudioCapacity bounds each item's accumulated audio to capacity
// samples, backed by an [AudioRing] with oldest-first eviction. The
// default is unbounded accumulation, which preserves full transcript
// fidelity at the cost of memory on long responses.
func WithAudioCapacity(capacity int) ConversationOption {
	return func(c *Conversation) {
		c.audioCapacity = capacity
	}
}

// NewConversation returns an empty transcript.
func NewConversation(opts ...ConversationOption) *Conversation {
	c := &Conversation{}
	for _, opt := range opts {
		opt(c)
	}
	c.Clear()
	return c
}

// Clear resets items, responses, every provisional queue and the audio
// accumulators to their initial empty state.
func (c *Conversation) Clear() {
	c.items = []*Item{}
	c.itemLookup = map[string]*Item{}
	c.responses = []*Response{}
	c.responseLookup = map[string]*Response{}
	c.queuedSpeechItems = map[string]*queuedSpeech{}
	c.queuedTranscriptItems = map[string]string{}
	c.queuedInputAudio = nil
	c.audioRings = map[string]*AudioRing{}
}

// QueueInputAudio stores the locally captured buffer to attach to the next
// user message item.
func (c *Conversation) QueueInputAudio(samples []int16) {
	c.queuedInputAudio = append([]int16(nil), samples...)
}

// Items returns the transcript items in conversation order. The slice is
// a copy; the items themselves are live and must not be mutated.
func (c *Conversation) Items() []*Item {
	return append([]*Item(nil), c.items...)
}

// Item returns the item with the given id, or nil.
func (c *Conversation) Item(id string) *Item {
	return c.itemLookup[id]
}

// Responses returns the response envelopes in arrival order.
func (c *Conversation) Responses() []*Response {
	return append([]*Response(nil), c.responses...)
}

type processContext struct {
	capturedAudio []int16
}

// ProcessOption supplies per-event context to [Conversation.ProcessEvent].
type ProcessOption func(*processContext)

// WithCapturedAudio provides the raw local capture buffer so speech
// boundary events can slice the spoken segment out of it.
func WithCapturedAudio(samples []int16) ProcessOption {
	return func(p *processContext) {
		p.capturedAudio = samples
	}
}

// conversationHandler applies one event type to explicit transcript state
// and reports the surfaced item and minimal delta, either of which may be
// nil.
type conversationHandler func(c *Conversation, event events.ServerEvent, pctx processContext) (*Item, *Delta, error)

// conversationHandlers is the fixed dispatch table. It is never mutated
// after init; handlers receive the conversation explicitly so each one is
// testable on its own.
var conversationHandlers = map[events.Type]conversationHandler{
	events.TypeConversationItemCreated:            handleItemCreated,
	events.TypeConversationItemTruncated:          handleItemTruncated,
	events.TypeConversationItemDeleted:            handleItemDeleted,
	events.TypeConversationItemTranscriptionDone:  handleItemTranscriptionDone,
	events.TypeInputAudioBufferSpeechStarted:      handleSpeechStarted,
	events.TypeInputAudioBufferSpeechStopped:      handleSpeechStopped,
	events.TypeResponseCreated:                    handleResponseCreated,
	events.TypeResponseOutputItemAdded:            handleOutputItemAdded,
	events.TypeResponseOutputItemDone:             handleOutputItemDone,
	events.TypeResponseContentPartAdded:           handleContentPartAdded,
	events.TypeResponseAudioTranscriptDelta:       handleAudioTranscriptDelta,
	events.TypeResponseAudioDelta:                 handleAudioDelta,
	events.TypeResponseTextDelta:                  handleTextDelta,
	events.TypeResponseFunctionCallArgumentsDelta: handleFunctionCallArgumentsDelta,
}

// ProcessEvent is the sole mutation entry point. It validates the event,
// dispatches it to its handler and returns the surfaced item and minimal
// delta. Handlers either fully apply their effect or fail before mutating
// anything, so an error never leaves the transcript corrupted.
func (c *Conversation) ProcessEvent(event events.ServerEvent, opts ...ProcessOption) (*Item, *Delta, error) {
	if event == nil || event.ID() == "" || event.EventType() == "" {
		return nil, nil, fmt.Errorf("%w: event is missing event_id or type", ErrProtocolViolation)
	}

	handler, ok := conversationHandlers[event.EventType()]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownEventType, event.EventType())
	}

	pctx := processContext{}
	for _, opt := range opts {
		opt(&pctx)
	}

	item, delta, err := handler(c, event, pctx)
	if err != nil {
		return nil, nil, err
	}

	processedEvents.Add(context.Background(), 1)
	return item, delta, nil
}

func handleItemCreated(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	created, err := typedEvent[*events.ConversationItemCreated](event)
	if err != nil {
		return nil, nil, err
	}

	// Re-delivery of an already known item is benign.
	if existing, ok := c.itemLookup[created.Item.ID]; ok {
		return existing, nil, nil
	}

	item := newItem(created.Item)

	if queued, ok := c.queuedSpeechItems[item.ID]; ok {
		if queued.audio != nil {
			c.setItemAudio(item, queued.audio)
		}
		delete(c.queuedSpeechItems, item.ID)
	}

	for _, part := range item.Content {
		if part.Type == events.ContentTypeText || part.Type == events.ContentTypeInputText {
			item.Formatted.Text += part.Text
		}
	}

	if transcript, ok := c.queuedTranscriptItems[item.ID]; ok {
		item.Formatted.Transcript = transcript
		delete(c.queuedTranscriptItems, item.ID)
	}

	switch item.Type {
	case events.ItemTypeMessage:
		if item.Role == "user" {
			item.Status = events.ItemStatusCompleted
			if c.queuedInputAudio != nil {
				c.setItemAudio(item, c.queuedInputAudio)
				c.queuedInputAudio = nil
			}
		} else {
			item.Status = events.ItemStatusInProgress
		}
	case events.ItemTypeFunctionCall:
		item.Formatted.Tool = &FormattedTool{
			Type:      "function",
			Name:      item.Name,
			CallID:    item.CallID,
			Arguments: item.Arguments,
		}
		item.Status = events.ItemStatusInProgress
	case events.ItemTypeFunctionCallOutput:
		item.Status = events.ItemStatusCompleted
		item.Formatted.Output = item.Output
	}

	c.items = append(c.items, item)
	c.itemLookup[item.ID] = item
	return item, nil, nil
}

func handleItemTruncated(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	truncated, err := typedEvent[*events.ConversationItemTruncated](event)
	if err != nil {
		return nil, nil, err
	}

	item, ok := c.itemLookup[truncated.ItemID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: item %q for %q", ErrReferenceNotFound, truncated.ItemID, event.EventType())
	}

	endIndex := audio.MillisToSamples(truncated.AudioEndMs, audio.DefaultSampleRate)
	endIndex = min(max(endIndex, 0), len(item.Formatted.Audio))
	item.Formatted.Transcript = ""
	if endIndex < len(item.Formatted.Audio) {
		c.setItemAudio(item, item.Formatted.Audio[:endIndex])
	}
	return item, nil, nil
}

func handleItemDeleted(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	deleted, err := typedEvent[*events.ConversationItemDeleted](event)
	if err != nil {
		return nil, nil, err
	}

	item, ok := c.itemLookup[deleted.ItemID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: item %q for %q", ErrReferenceNotFound, deleted.ItemID, event.EventType())
	}

	delete(c.itemLookup, item.ID)
	delete(c.audioRings, item.ID)
	for i, candidate := range c.items {
		if candidate == item {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return item, nil, nil
}

func handleItemTranscriptionDone(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	done, err := typedEvent[*events.ConversationItemTranscriptionDone](event)
	if err != nil {
		return nil, nil, err
	}

	// Downstream consumers treat an empty transcript as "nothing arrived
	// yet", so a completed-but-empty one becomes a single space.
	formattedTranscript := done.Transcript
	if formattedTranscript == "" {
		formattedTranscript = " "
	}

	item, ok := c.itemLookup[done.ItemID]
	if !ok {
		// Transcription finished before the item was announced; adopt it
		// on creation.
		c.queuedTranscriptItems[done.ItemID] = formattedTranscript
		return nil, nil, nil
	}

	if done.ContentIndex >= 0 && done.ContentIndex < len(item.Content) {
		item.Content[done.ContentIndex].Transcript = done.Transcript
	}
	item.Formatted.Transcript = formattedTranscript
	return item, &Delta{Transcript: done.Transcript}, nil
}

func handleSpeechStarted(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	started, err := typedEvent[*events.InputAudioBufferSpeechStarted](event)
	if err != nil {
		return nil, nil, err
	}

	c.queuedSpeechItems[started.ItemID] = &queuedSpeech{audioStartMs: started.AudioStartMs}
	return nil, nil, nil
}

func handleSpeechStopped(c *Conversation, event events.ServerEvent, pctx processContext) (*Item, *Delta, error) {
	stopped, err := typedEvent[*events.InputAudioBufferSpeechStopped](event)
	if err != nil {
		return nil, nil, err
	}

	queued, ok := c.queuedSpeechItems[stopped.ItemID]
	if !ok {
		// speech_started was missed; record a zero-length segment.
		queued = &queuedSpeech{audioStartMs: stopped.AudioEndMs}
		c.queuedSpeechItems[stopped.ItemID] = queued
	}
	queued.audioEndMs = stopped.AudioEndMs

	if pctx.capturedAudio != nil {
		startIndex := audio.MillisToSamples(queued.audioStartMs, audio.DefaultSampleRate)
		endIndex := audio.MillisToSamples(queued.audioEndMs, audio.DefaultSampleRate)
		startIndex = min(max(startIndex, 0), len(pctx.capturedAudio))
		endIndex = min(max(endIndex, startIndex), len(pctx.capturedAudio))
		queued.audio = append([]int16(nil), pctx.capturedAudio[startIndex:endIndex]...)
	}
	return nil, nil, nil
}

func handleResponseCreated(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	created, err := typedEvent[*events.ResponseCreated](event)
	if err != nil {
		return nil, nil, err
	}

	if _, ok := c.responseLookup[created.Response.ID]; !ok {
		response := &Response{
			ID:     created.Response.ID,
			Status: created.Response.Status,
			Output: []string{},
		}
		c.responseLookup[response.ID] = response
		c.responses = append(c.responses, response)
	}
	return nil, nil, nil
}

func handleOutputItemAdded(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	added, err := typedEvent[*events.ResponseOutputItemAdded](event)
	if err != nil {
		return nil, nil, err
	}

	response, ok := c.responseLookup[added.ResponseID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: response %q for %q", ErrReferenceNotFound, added.ResponseID, event.EventType())
	}

	response.Output = append(response.Output, added.Item.ID)
	return nil, nil, nil
}

func handleOutputItemDone(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	done, err := typedEvent[*events.ResponseOutputItemDone](event)
	if err != nil {
		return nil, nil, err
	}

	item, ok := c.itemLookup[done.Item.ID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: item %q for %q", ErrReferenceNotFound, done.Item.ID, event.EventType())
	}

	item.Status = done.Item.Status
	return item, nil, nil
}

func handleContentPartAdded(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	added, err := typedEvent[*events.ResponseContentPartAdded](event)
	if err != nil {
		return nil, nil, err
	}

	item, ok := c.itemLookup[added.ItemID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: item %q for %q", ErrReferenceNotFound, added.ItemID, event.EventType())
	}

	item.Content = append(item.Content, added.Part)
	return item, nil, nil
}

func handleAudioTranscriptDelta(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	transcriptDelta, err := typedEvent[*events.ResponseAudioTranscriptDelta](event)
	if err != nil {
		return nil, nil, err
	}

	item, ok := c.itemLookup[transcriptDelta.ItemID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: item %q for %q", ErrReferenceNotFound, transcriptDelta.ItemID, event.EventType())
	}

	if transcriptDelta.ContentIndex >= 0 && transcriptDelta.ContentIndex < len(item.Content) {
		item.Content[transcriptDelta.ContentIndex].Transcript += transcriptDelta.Delta
	}
	item.Formatted.Transcript += transcriptDelta.Delta
	return item, &Delta{Transcript: transcriptDelta.Delta}, nil
}

func handleAudioDelta(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	audioDelta, err := typedEvent[*events.ResponseAudioDelta](event)
	if err != nil {
		return nil, nil, err
	}

	item, ok := c.itemLookup[audioDelta.ItemID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: item %q for %q", ErrReferenceNotFound, audioDelta.ItemID, event.EventType())
	}

	appended, err := audio.DecodeBase64PCM16(audioDelta.Delta)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrEncodingError, err)
	}

	c.appendItemAudio(item, appended)
	return item, &Delta{Audio: appended}, nil
}

func handleTextDelta(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	textDelta, err := typedEvent[*events.ResponseTextDelta](event)
	if err != nil {
		return nil, nil, err
	}

	item, ok := c.itemLookup[textDelta.ItemID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: item %q for %q", ErrReferenceNotFound, textDelta.ItemID, event.EventType())
	}

	if textDelta.ContentIndex >= 0 && textDelta.ContentIndex < len(item.Content) {
		item.Content[textDelta.ContentIndex].Text += textDelta.Delta
	}
	item.Formatted.Text += textDelta.Delta
	return item, &Delta{Text: textDelta.Delta}, nil
}

func handleFunctionCallArgumentsDelta(c *Conversation, event events.ServerEvent, _ processContext) (*Item, *Delta, error) {
	argumentsDelta, err := typedEvent[*events.ResponseFunctionCallArgumentsDelta](event)
	if err != nil {
		return nil, nil, err
	}

	item, ok := c.itemLookup[argumentsDelta.ItemID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: item %q for %q", ErrReferenceNotFound, argumentsDelta.ItemID, event.EventType())
	}

	item.Arguments += argumentsDelta.Delta
	if item.Formatted.Tool != nil {
		item.Formatted.Tool.Arguments += argumentsDelta.Delta
	}
	return item, &Delta{Arguments: argumentsDelta.Delta}, nil
}

// appendItemAudio grows an item's accumulated audio, through its ring when
// accumulation is bounded.
func (c *Conversation) appendItemAudio(item *Item, samples []int16) {
	if c.audioCapacity > 0 {
		ring, ok := c.audioRings[item.ID]
		if !ok {
			ring = NewAudioRing(c.audioCapacity)
			c.audioRings[item.ID] = ring
		}
		ring.Append(samples)
		item.Formatted.Audio = ring.Snapshot()
		return
	}

	item.Formatted.Audio = audio.MergePCM16(item.Formatted.Audio, samples)
}

// setItemAudio replaces an item's accumulated audio wholesale (queued
// segment adoption, input attachment, truncation).
func (c *Conversation) setItemAudio(item *Item, samples []int16) {
	if c.audioCapacity > 0 {
		ring, ok := c.audioRings[item.ID]
		if !ok {
			ring = NewAudioRing(c.audioCapacity)
			c.audioRings[item.ID] = ring
		}
		ring.Clear()
		ring.Append(samples)
		item.Formatted.Audio = ring.Snapshot()
		return
	}

	item.Formatted.Audio = append([]int16(nil), samples...)
}

func typedEvent[T events.ServerEvent](event events.ServerEvent) (T, error) {
	typed, ok := event.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: event %q carries an unexpected payload type %T",
			ErrProtocolViolation, event.EventType(), event)
	}
	return typed, nil
}

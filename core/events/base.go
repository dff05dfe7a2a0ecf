package events

// Type is the dot-namespaced wire tag of a protocol event.
type Type string

// Server event types.
const (
	TypeError             Type = "error"
	TypeSessionCreated    Type = "session.created"
	TypeSessionUpdated    Type = "session.updated"
	TypeRateLimitsUpdated Type = "rate_limits.updated"

	TypeConversationCreated                Type = "conversation.created"
	TypeConversationItemCreated            Type = "conversation.item.created"
	TypeConversationItemTruncated          Type = "conversation.item.truncated"
	TypeConversationItemDeleted            Type = "conversation.item.deleted"
	TypeConversationItemTranscriptionDone  Type = "conversation.item.input_audio_transcription.completed"
	TypeConversationItemTranscriptionError Type = "conversation.item.input_audio_transcription.failed"

	TypeInputAudioBufferSpeechStarted Type = "input_audio_buffer.speech_started"
	TypeInputAudioBufferSpeechStopped Type = "input_audio_buffer.speech_stopped"
	TypeInputAudioBufferCommitted     Type = "input_audio_buffer.committed"
	TypeInputAudioBufferCleared       Type = "input_audio_buffer.cleared"

	TypeResponseCreated               Type = "response.created"
	TypeResponseDone                  Type = "response.done"
	TypeResponseOutputItemAdded       Type = "response.output_item.added"
	TypeResponseOutputItemDone        Type = "response.output_item.done"
	TypeResponseContentPartAdded      Type = "response.content_part.added"
	TypeResponseContentPartDone       Type = "response.content_part.done"
	TypeResponseTextDelta             Type = "response.text.delta"
	TypeResponseTextDone              Type = "response.text.done"
	TypeResponseAudioTranscriptDelta  Type = "response.audio_transcript.delta"
	TypeResponseAudioTranscriptDone   Type = "response.audio_transcript.done"
	TypeResponseAudioDelta            Type = "response.audio.delta"
	TypeResponseAudioDone             Type = "response.audio.done"
	TypeResponseFunctionCallArgumentsDelta Type = "response.function_call_arguments.delta"
	TypeResponseFunctionCallArgumentsDone  Type = "response.function_call_arguments.done"
)

// Client event types.
const (
	TypeSessionUpdate            Type = "session.update"
	TypeInputAudioBufferAppend   Type = "input_audio_buffer.append"
	TypeInputAudioBufferCommit   Type = "input_audio_buffer.commit"
	TypeInputAudioBufferClear    Type = "input_audio_buffer.clear"
	TypeConversationItemCreate   Type = "conversation.item.create"
	TypeConversationItemTruncate Type = "conversation.item.truncate"
	TypeConversationItemDelete   Type = "conversation.item.delete"
	TypeResponseCreate           Type = "response.create"
	TypeResponseCancel           Type = "response.cancel"
)

// ServerEvent is an inbound protocol event. Every event carries a unique
// event id and its wire type; everything else is type-specific payload.
type ServerEvent interface {
	ID() string
	EventType() Type
}

// ServerBase carries the fields shared by all inbound events.
type ServerBase struct {
	EventID string `json:"event_id"`
	Type    Type   `json:"type"`
}

func (b ServerBase) ID() string      { return b.EventID }
func (b ServerBase) EventType() Type { return b.Type }

// ClientEvent is an outbound protocol event. The event id and wire type
// are stamped at marshal time, so constructing one only fills the payload.
type ClientEvent interface {
	EventType() Type
	clientBase() *ClientBase
}

// ClientBase carries the stamped fields of an outbound event.
type ClientBase struct {
	EventID string `json:"event_id,omitempty"`
	Type    Type   `json:"type"`
}

func (b *ClientBase) clientBase() *ClientBase { return b }

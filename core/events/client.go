package events

import (
	"encoding/json"
	"fmt"
)

type SessionUpdate struct {
	ClientBase
	Session Session `json:"session"`
}

func (SessionUpdate) EventType() Type { return TypeSessionUpdate }

type InputAudioBufferAppend struct {
	ClientBase
	// Audio is base64-encoded linear16 audio.
	Audio string `json:"audio"`
}

func (InputAudioBufferAppend) EventType() Type { return TypeInputAudioBufferAppend }

type InputAudioBufferCommit struct {
	ClientBase
}

func (InputAudioBufferCommit) EventType() Type { return TypeInputAudioBufferCommit }

type InputAudioBufferClear struct {
	ClientBase
}

func (InputAudioBufferClear) EventType() Type { return TypeInputAudioBufferClear }

type ConversationItemCreate struct {
	ClientBase
	PreviousItemID string `json:"previous_item_id,omitempty"`
	Item           Item   `json:"item"`
}

func (ConversationItemCreate) EventType() Type { return TypeConversationItemCreate }

type ConversationItemTruncate struct {
	ClientBase
	ItemID       string  `json:"item_id"`
	ContentIndex int     `json:"content_index"`
	AudioEndMs   float64 `json:"audio_end_ms"`
}

func (ConversationItemTruncate) EventType() Type { return TypeConversationItemTruncate }

type ConversationItemDelete struct {
	ClientBase
	ItemID string `json:"item_id"`
}

func (ConversationItemDelete) EventType() Type { return TypeConversationItemDelete }

type ResponseCreate struct {
	ClientBase
	Response *ResponseConfig `json:"response,omitempty"`
}

func (ResponseCreate) EventType() Type { return TypeResponseCreate }

// ResponseConfig overrides session defaults for a single response.
type ResponseConfig struct {
	Modalities        []string `json:"modalities,omitempty"`
	Instructions      string   `json:"instructions,omitempty"`
	Voice             string   `json:"voice,omitempty"`
	OutputAudioFormat string   `json:"output_audio_format,omitempty"`
	Tools             []Tool   `json:"tools,omitempty"`
	ToolChoice        string   `json:"tool_choice,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	MaxOutputTokens   *int     `json:"max_output_tokens,omitempty"`
}

type ResponseCancel struct {
	ClientBase
}

func (ResponseCancel) EventType() Type { return TypeResponseCancel }

// MarshalClient serializes an outbound event, stamping its wire type and
// the provided event id into the payload.
func MarshalClient(event ClientEvent, eventID string) ([]byte, error) {
	base := event.clientBase()
	base.Type = event.EventType()
	base.EventID = eventID

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %q event: %w", event.EventType(), err)
	}
	return data, nil
}

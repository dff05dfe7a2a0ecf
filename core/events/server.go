package events

import "encoding/json"

// Error is the server's error notification. It covers both API-level
// failures and rejected client events.
type Error struct {
	ServerBase
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the structured error payload.
type ErrorDetail struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Param   string `json:"param,omitempty"`
	EventID string `json:"event_id,omitempty"`
}

type SessionCreated struct {
	ServerBase
	Session Session `json:"session"`
}

type SessionUpdated struct {
	ServerBase
	Session Session `json:"session"`
}

type RateLimitsUpdated struct {
	ServerBase
	RateLimits []RateLimit `json:"rate_limits"`
}

type ConversationItemCreated struct {
	ServerBase
	PreviousItemID string `json:"previous_item_id,omitempty"`
	Item           Item   `json:"item"`
}

type ConversationItemTruncated struct {
	ServerBase
	ItemID       string  `json:"item_id"`
	ContentIndex int     `json:"content_index"`
	AudioEndMs   float64 `json:"audio_end_ms"`
}

type ConversationItemDeleted struct {
	ServerBase
	ItemID string `json:"item_id"`
}

type ConversationItemTranscriptionDone struct {
	ServerBase
	ItemID       string `json:"item_id"`
	ContentIndex int    `json:"content_index"`
	Transcript   string `json:"transcript"`
}

type ConversationItemTranscriptionError struct {
	ServerBase
	ItemID       string      `json:"item_id"`
	ContentIndex int         `json:"content_index"`
	Error        ErrorDetail `json:"error"`
}

type InputAudioBufferSpeechStarted struct {
	ServerBase
	ItemID       string  `json:"item_id"`
	AudioStartMs float64 `json:"audio_start_ms"`
}

type InputAudioBufferSpeechStopped struct {
	ServerBase
	ItemID     string  `json:"item_id"`
	AudioEndMs float64 `json:"audio_end_ms"`
}

type InputAudioBufferCommitted struct {
	ServerBase
	PreviousItemID string `json:"previous_item_id,omitempty"`
	ItemID         string `json:"item_id"`
}

type InputAudioBufferCleared struct {
	ServerBase
}

type ResponseCreated struct {
	ServerBase
	Response Response `json:"response"`
}

type ResponseDone struct {
	ServerBase
	Response Response `json:"response"`
}

type ResponseOutputItemAdded struct {
	ServerBase
	ResponseID  string `json:"response_id"`
	OutputIndex int    `json:"output_index"`
	Item        Item   `json:"item"`
}

type ResponseOutputItemDone struct {
	ServerBase
	ResponseID  string `json:"response_id"`
	OutputIndex int    `json:"output_index"`
	Item        Item   `json:"item"`
}

type ResponseContentPartAdded struct {
	ServerBase
	ResponseID   string      `json:"response_id"`
	ItemID       string      `json:"item_id"`
	OutputIndex  int         `json:"output_index"`
	ContentIndex int         `json:"content_index"`
	Part         ContentPart `json:"part"`
}

type ResponseContentPartDone struct {
	ServerBase
	ResponseID   string      `json:"response_id"`
	ItemID       string      `json:"item_id"`
	OutputIndex  int         `json:"output_index"`
	ContentIndex int         `json:"content_index"`
	Part         ContentPart `json:"part"`
}

type ResponseTextDelta struct {
	ServerBase
	ResponseID   string `json:"response_id"`
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
	Delta        string `json:"delta"`
}

type ResponseTextDone struct {
	ServerBase
	ResponseID   string `json:"response_id"`
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
	Text         string `json:"text"`
}

type ResponseAudioTranscriptDelta struct {
	ServerBase
	ResponseID   string `json:"response_id"`
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
	Delta        string `json:"delta"`
}

type ResponseAudioTranscriptDone struct {
	ServerBase
	ResponseID   string `json:"response_id"`
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
	Transcript   string `json:"transcript"`
}

type ResponseAudioDelta struct {
	ServerBase
	ResponseID   string `json:"response_id"`
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
	// Delta is base64-encoded linear16 audio.
	Delta string `json:"delta"`
}

type ResponseAudioDone struct {
	ServerBase
	ResponseID   string `json:"response_id"`
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
}

type ResponseFunctionCallArgumentsDelta struct {
	ServerBase
	ResponseID  string `json:"response_id"`
	ItemID      string `json:"item_id"`
	OutputIndex int    `json:"output_index"`
	CallID      string `json:"call_id"`
	Delta       string `json:"delta"`
}

type ResponseFunctionCallArgumentsDone struct {
	ServerBase
	ResponseID  string `json:"response_id"`
	ItemID      string `json:"item_id"`
	OutputIndex int    `json:"output_index"`
	CallID      string `json:"call_id"`
	Arguments   string `json:"arguments"`
}

// Raw is any well-formed server event this package has no dedicated type
// for. It keeps unrecognized notifications observable without failing the
// read pump.
type Raw struct {
	ServerBase
	Payload json.RawMessage `json:"-"`
}

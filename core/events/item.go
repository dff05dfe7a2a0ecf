package events

// Item is the wire shape of a conversation turn.
type Item struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`
	Role   string `json:"role,omitempty"`
	Status string `json:"status,omitempty"`

	// function_call / function_call_output payload
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Output    string `json:"output,omitempty"`

	Content []ContentPart `json:"content,omitempty"`
}

// Item type tags.
const (
	ItemTypeMessage            = "message"
	ItemTypeFunctionCall       = "function_call"
	ItemTypeFunctionCallOutput = "function_call_output"
)

// Item status tags.
const (
	ItemStatusInProgress = "in_progress"
	ItemStatusCompleted  = "completed"
	ItemStatusIncomplete = "incomplete"
)

// ContentPart is one element of an item's ordered content. Audio travels
// as base64-encoded linear16.
type ContentPart struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	Audio      string `json:"audio,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// Content part type tags.
const (
	ContentTypeText       = "text"
	ContentTypeInputText  = "input_text"
	ContentTypeAudio      = "audio"
	ContentTypeInputAudio = "input_audio"
)

// Response is the wire shape of a remote response envelope.
type Response struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
	Output []Item `json:"output,omitempty"`
	Usage  *Usage `json:"usage,omitempty"`
}

// Usage reports token accounting for a completed response.
type Usage struct {
	TotalTokens  int `json:"total_tokens"`
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

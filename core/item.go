package realtime

import (
	"github.com/koscakluka/realtime-core/core/events"
)

// Item is one reconstructed conversation turn. It is owned by the
// [Conversation] that created it and mutated in place as deltas arrive;
// callers receiving an Item must treat it as read-only.
type Item struct {
	ID     string
	Type   string
	Role   string
	Status string

	// CallID/Name/Arguments/Output carry function-call payloads.
	CallID    string
	Name      string
	Arguments string
	Output    string

	Content []events.ContentPart

	// Formatted is the incrementally maintained render view. It is never
	// rebuilt from Content; each handler updates it alongside the raw
	// payload it touches.
	Formatted Formatted
}

// Formatted is the derived view of an item that consumers render from.
type Formatted struct {
	Text       string
	Transcript string
	Audio      []int16
	Tool       *FormattedTool
	Output     string
}

// FormattedTool describes an in-flight or completed function call.
type FormattedTool struct {
	Type      string
	Name      string
	CallID    string
	Arguments string
}

// Delta is the minimal incremental change a processed event applied to an
// item. Only the fields the event touched are set.
type Delta struct {
	Text       string
	Audio      []int16
	Transcript string
	Arguments  string
}

// Response is a remote-generated response envelope; Output lists the ids
// of the items produced under it, in arrival order.
type Response struct {
	ID     string
	Status string
	Output []string
	Usage  *events.Usage
}

// newItem deep-copies the wire item into an owned aggregate, so later
// transcript mutations never alias server-decoded memory.
func newItem(wire events.Item) *Item {
	item := &Item{
		ID:        wire.ID,
		Type:      wire.Type,
		Role:      wire.Role,
		Status:    wire.Status,
		CallID:    wire.CallID,
		Name:      wire.Name,
		Arguments: wire.Arguments,
		Output:    wire.Output,
		Content:   append([]events.ContentPart(nil), wire.Content...),
	}
	item.Formatted.Audio = []int16{}
	return item
}

// queuedSpeech is a provisional speech segment recorded before its item
// exists. Audio is sliced from the local capture buffer once both
// boundaries are known.
type queuedSpeech struct {
	audioStartMs float64
	audioEndMs   float64
	audio        []int16
}

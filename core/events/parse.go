package events

import (
	"encoding/json"
	"fmt"
)

// Parse decodes an inbound frame into its typed event. Frames of a type
// this package does not model decode into [Raw]; only malformed JSON or a
// missing type tag is an error.
func Parse(data []byte) (ServerEvent, error) {
	var envelope struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse event envelope: %w", err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("event frame carries no type tag")
	}

	event := newServerEvent(envelope.Type)
	if raw, ok := event.(*Raw); ok {
		if err := json.Unmarshal(data, &raw.ServerBase); err != nil {
			return nil, fmt.Errorf("failed to parse %q event: %w", envelope.Type, err)
		}
		raw.Payload = append(json.RawMessage(nil), data...)
		return raw, nil
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to parse %q event: %w", envelope.Type, err)
	}
	return event.(ServerEvent), nil
}

func newServerEvent(eventType Type) any {
	switch eventType {
	case TypeError:
		return &Error{}
	case TypeSessionCreated:
		return &SessionCreated{}
	case TypeSessionUpdated:
		return &SessionUpdated{}
	case TypeRateLimitsUpdated:
		return &RateLimitsUpdated{}
	case TypeConversationItemCreated:
		return &ConversationItemCreated{}
	case TypeConversationItemTruncated:
		return &ConversationItemTruncated{}
	case TypeConversationItemDeleted:
		return &ConversationItemDeleted{}
	case TypeConversationItemTranscriptionDone:
		return &ConversationItemTranscriptionDone{}
	case TypeConversationItemTranscriptionError:
		return &ConversationItemTranscriptionError{}
	case TypeInputAudioBufferSpeechStarted:
		return &InputAudioBufferSpeechStarted{}
	case TypeInputAudioBufferSpeechStopped:
		return &InputAudioBufferSpeechStopped{}
	case TypeInputAudioBufferCommitted:
		return &InputAudioBufferCommitted{}
	case TypeInputAudioBufferCleared:
		return &InputAudioBufferCleared{}
	case TypeResponseCreated:
		return &ResponseCreated{}
	case TypeResponseDone:
		return &ResponseDone{}
	case TypeResponseOutputItemAdded:
		return &ResponseOutputItemAdded{}
	case TypeResponseOutputItemDone:
		return &ResponseOutputItemDone{}
	case TypeResponseContentPartAdded:
		return &ResponseContentPartAdded{}
	case TypeResponseContentPartDone:
		return &ResponseContentPartDone{}
	case TypeResponseTextDelta:
		return &ResponseTextDelta{}
	case TypeResponseTextDone:
		return &ResponseTextDone{}
	case TypeResponseAudioTranscriptDelta:
		return &ResponseAudioTranscriptDelta{}
	case TypeResponseAudioTranscriptDone:
		return &ResponseAudioTranscriptDone{}
	case TypeResponseAudioDelta:
		return &ResponseAudioDelta{}
	case TypeResponseAudioDone:
		return &ResponseAudioDone{}
	case TypeResponseFunctionCallArgumentsDelta:
		return &ResponseFunctionCallArgumentsDelta{}
	case TypeResponseFunctionCallArgumentsDone:
		return &ResponseFunctionCallArgumentsDone{}
	}
	return &Raw{}
}

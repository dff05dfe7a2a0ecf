package events

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseDecodesKnownServerEvents(t *testing.T) {
	testCases := []struct {
		name     string
		frame    string
		expected Type
	}{
		{
			name:     "session created",
			frame:    `{"event_id":"evt_1","type":"session.created","session":{"id":"sess_1","model":"m"}}`,
			expected: TypeSessionCreated,
		},
		{
			name:     "item created",
			frame:    `{"event_id":"evt_2","type":"conversation.item.created","item":{"id":"item_1","type":"message","role":"user"}}`,
			expected: TypeConversationItemCreated,
		},
		{
			name:     "speech started",
			frame:    `{"event_id":"evt_3","type":"input_audio_buffer.speech_started","item_id":"item_1","audio_start_ms":250}`,
			expected: TypeInputAudioBufferSpeechStarted,
		},
		{
			name:     "audio delta",
			frame:    `{"event_id":"evt_4","type":"response.audio.delta","response_id":"resp_1","item_id":"item_1","delta":"AAA="}`,
			expected: TypeResponseAudioDelta,
		},
		{
			name:     "function call arguments delta",
			frame:    `{"event_id":"evt_5","type":"response.function_call_arguments.delta","response_id":"resp_1","item_id":"item_1","call_id":"call_1","delta":"{\"ci"}`,
			expected: TypeResponseFunctionCallArgumentsDelta,
		},
		{
			name:     "function call arguments done",
			frame:    `{"event_id":"evt_6","type":"response.function_call_arguments.done","response_id":"resp_1","item_id":"item_1","call_id":"call_1","arguments":"{\"city\":\"Zagreb\"}"}`,
			expected: TypeResponseFunctionCallArgumentsDone,
		},
		{
			name:     "error",
			frame:    `{"event_id":"evt_7","type":"error","error":{"type":"invalid_request_error","message":"nope"}}`,
			expected: TypeError,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			event, err := Parse([]byte(testCase.frame))
			if err != nil {
				t.Fatalf("expected parse to succeed, got error: %v", err)
			}
			if event.EventType() != testCase.expected {
				t.Fatalf("expected type %q, got %q", testCase.expected, event.EventType())
			}
			if event.ID() == "" {
				t.Fatal("expected a non-empty event id")
			}
		})
	}
}

func TestParsePopulatesTypedPayloads(t *testing.T) {
	event, err := Parse([]byte(`{"event_id":"evt_1","type":"input_audio_buffer.speech_stopped","item_id":"item_9","audio_end_ms":1500}`))
	if err != nil {
		t.Fatalf("expected parse to succeed, got error: %v", err)
	}

	stopped, ok := event.(*InputAudioBufferSpeechStopped)
	if !ok {
		t.Fatalf("expected *InputAudioBufferSpeechStopped, got %T", event)
	}
	if stopped.ItemID != "item_9" {
		t.Fatalf("expected item id %q, got %q", "item_9", stopped.ItemID)
	}
	if stopped.AudioEndMs != 1500 {
		t.Fatalf("expected audio end 1500ms, got %f", stopped.AudioEndMs)
	}
}

func TestParseKeepsUnknownTypesOpaque(t *testing.T) {
	event, err := Parse([]byte(`{"event_id":"evt_1","type":"output_audio_buffer.started","response_id":"resp_1"}`))
	if err != nil {
		t.Fatalf("expected unknown types to parse, got error: %v", err)
	}

	raw, ok := event.(*Raw)
	if !ok {
		t.Fatalf("expected *Raw for an unknown type, got %T", event)
	}
	if raw.EventType() != Type("output_audio_buffer.started") {
		t.Fatalf("expected the original type tag, got %q", raw.EventType())
	}
	if !strings.Contains(string(raw.Payload), "resp_1") {
		t.Fatal("expected the raw payload to be preserved")
	}
}

func TestParseRejectsMalformedFrames(t *testing.T) {
	if _, err := Parse([]byte(`{`)); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	if _, err := Parse([]byte(`{"event_id":"evt_1"}`)); err == nil {
		t.Fatal("expected an error for a missing type tag")
	}
}

func TestMarshalClientStampsTypeAndEventID(t *testing.T) {
	data, err := MarshalClient(&ConversationItemTruncate{
		ItemID:     "item_1",
		AudioEndMs: 500,
	}, "evt_abc")
	if err != nil {
		t.Fatalf("expected marshal to succeed, got error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("expected valid JSON, got error: %v", err)
	}
	if decoded["type"] != "conversation.item.truncate" {
		t.Fatalf("expected stamped type tag, got %v", decoded["type"])
	}
	if decoded["event_id"] != "evt_abc" {
		t.Fatalf("expected stamped event id, got %v", decoded["event_id"])
	}
	if decoded["item_id"] != "item_1" {
		t.Fatalf("expected payload item id, got %v", decoded["item_id"])
	}
}

package realtime

import "errors"

var (
	// ErrProtocolViolation marks an inbound event missing its event_id or
	// type. The event is discarded without touching transcript state.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrUnknownEventType marks an event type the conversation has no
	// handler for. Unrecognized types are a contract breach with the
	// remote, never silently dropped.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrReferenceNotFound marks an event addressing an item or response
	// id absent from the transcript. Queued speech/transcript records are
	// the only sanctioned out-of-order mechanism.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrEncodingError marks a malformed base64/PCM payload; the event's
	// effect is dropped whole.
	ErrEncodingError = errors.New("encoding error")
)

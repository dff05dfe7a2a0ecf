// Package events defines the wire contract of the realtime conversation
// protocol: typed outbound "client" events and inbound "server" events
// exchanged over a single duplex connection.
//
// Every event carries an event_id (unique per emission) and a dot-namespaced
// type tag. Inbound frames are decoded with [Parse]; unrecognized types
// decode into [Raw] so transport readers never fail on protocol additions.
// Outbound events are serialized with [MarshalClient], which stamps the
// type tag and a caller-supplied event id.
//
// Namespaces:
//
//   - session.*: configuration negotiation.
//   - conversation.item.*: transcript turns and their lifecycle.
//   - input_audio_buffer.*: microphone-side buffering and speech boundaries.
//   - response.*: remote response envelopes and their streamed deltas.
//
// Delta events (response.text.delta, response.audio.delta,
// response.audio_transcript.delta, response.function_call_arguments.delta)
// are append-only fragments addressed to an existing item; the matching
// *.done events carry the assembled value.
package events

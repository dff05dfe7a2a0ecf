package realtime

import (
	"github.com/jinzhu/copier"
	"github.com/koscakluka/realtime-core/core/events"
	"github.com/koscakluka/realtime-core/internal/utils"
)

// defaultSessionConfig is the configuration a fresh client negotiates.
// Turn detection defaults to nil (manual commit mode); use
// [ServerVAD] to hand speech boundary detection to the remote.
func defaultSessionConfig() events.Session {
	return events.Session{
		Modalities:              []string{"text", "audio"},
		Instructions:            "",
		Voice:                   "verse",
		InputAudioFormat:        "pcm16",
		OutputAudioFormat:       "pcm16",
		Tools:                   []events.Tool{},
		ToolChoice:              "auto",
		Temperature:             utils.Ptr(0.8),
		MaxResponseOutputTokens: utils.Ptr(4096),
	}
}

// ServerVAD is the stock server-side voice activity detection
// configuration.
func ServerVAD() *events.TurnDetection {
	return &events.TurnDetection{
		Type:              "server_vad",
		Threshold:         0.5,
		PrefixPaddingMs:   300,
		SilenceDurationMs: 200,
	}
}

// SessionOption mutates the client's session configuration.
type SessionOption func(*events.Session)

func WithModalities(modalities ...string) SessionOption {
	return func(s *events.Session) { s.Modalities = modalities }
}

func WithInstructions(instructions string) SessionOption {
	return func(s *events.Session) { s.Instructions = instructions }
}

func WithVoice(voice string) SessionOption {
	return func(s *events.Session) { s.Voice = voice }
}

func WithInputAudioFormat(format string) SessionOption {
	return func(s *events.Session) { s.InputAudioFormat = format }
}

func WithOutputAudioFormat(format string) SessionOption {
	return func(s *events.Session) { s.OutputAudioFormat = format }
}

// WithInputAudioTranscription enables remote transcription of input audio
// with the given model (e.g. "whisper-1"); nil disables it.
func WithInputAudioTranscription(transcription *events.AudioTranscription) SessionOption {
	return func(s *events.Session) { s.InputAudioTranscription = transcription }
}

// WithTurnDetection selects the speech boundary strategy; nil means the
// caller commits the input buffer manually.
func WithTurnDetection(turnDetection *events.TurnDetection) SessionOption {
	return func(s *events.Session) { s.TurnDetection = turnDetection }
}

func WithToolChoice(toolChoice string) SessionOption {
	return func(s *events.Session) { s.ToolChoice = toolChoice }
}

func WithTemperature(temperature float64) SessionOption {
	return func(s *events.Session) { s.Temperature = utils.Ptr(temperature) }
}

func WithMaxResponseOutputTokens(maxTokens int) SessionOption {
	return func(s *events.Session) { s.MaxResponseOutputTokens = utils.Ptr(maxTokens) }
}

// cloneSession deep-copies a session configuration so snapshots handed to
// callers never alias client-owned state.
func cloneSession(session events.Session) events.Session {
	clone := events.Session{}
	// copier only fails on incompatible shapes; Session copied onto
	// itself cannot hit that.
	_ = copier.CopyWithOption(&clone, &session, copier.Option{DeepCopy: true})
	return clone
}

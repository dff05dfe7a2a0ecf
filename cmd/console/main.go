package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	realtime "github.com/koscakluka/realtime-core/core"
	"github.com/koscakluka/realtime-core/core/audio/miniaudio"
	"github.com/koscakluka/realtime-core/core/events"
	"github.com/koscakluka/realtime-core/core/transport"
)

func main() {
	configPath := flag.String("config", "console.yaml", "path to the console config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if apiKey() == "" {
		return fmt.Errorf("no api key, set %s", apiKeyEnv)
	}

	transportOptions := []transport.ConnectOption{transport.WithAPIKey(apiKey())}
	if cfg.Model != "" {
		transportOptions = append(transportOptions, transport.WithModel(cfg.Model))
	}
	if cfg.URL != "" {
		transportOptions = append(transportOptions, transport.WithURL(cfg.URL))
	}

	client := realtime.NewClient(
		realtime.WithTransport(transport.New()),
		realtime.WithTransportOptions(transportOptions...),
		realtime.WithSessionDefaults(
			realtime.WithVoice(cfg.Voice),
			realtime.WithInstructions(cfg.Instructions),
			realtime.WithTurnDetection(realtime.ServerVAD()),
			realtime.WithInputAudioTranscription(&events.AudioTranscription{Model: "whisper-1"}),
		),
	)

	speaker, err := miniaudio.NewClient()
	if err != nil {
		return fmt.Errorf("failed to open audio devices: %w", err)
	}
	defer speaker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(newModel(client), tea.WithAltScreen())

	// The item currently sounding from the speaker, for truncation on
	// interrupt.
	var playingMu sync.Mutex
	var playingItemID string

	client.Bus().On(realtime.EventConversationUpdated, func(payload any) {
		update, ok := payload.(realtime.ConversationUpdate)
		if !ok {
			return
		}
		if update.Delta != nil && len(update.Delta.Audio) > 0 {
			playingMu.Lock()
			playingItemID = update.Item.ID
			playingMu.Unlock()
			_ = speaker.Play(update.Delta.Audio)
		}
		program.Send(transcriptMsg{items: client.Conversation().Items()})
	})

	client.Bus().On(realtime.EventConversationInterrupt, func(any) {
		played := speaker.Interrupt()

		playingMu.Lock()
		itemID := playingItemID
		playingItemID = ""
		playingMu.Unlock()
		if itemID == "" {
			return
		}
		if _, err := client.CancelResponse(ctx, itemID, played); err != nil {
			program.Send(errMsg{err: err})
		}
	})

	client.Bus().On(realtime.EventError, func(payload any) {
		switch typed := payload.(type) {
		case error:
			program.Send(errMsg{err: typed})
		case *events.Error:
			program.Send(errMsg{err: fmt.Errorf("%s: %s", typed.Error.Type, typed.Error.Message)})
		}
	})

	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Disconnect()

	if err := speaker.StartCapture(ctx, func(samples []int16) {
		_ = client.AppendInputAudio(ctx, samples)
	}); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}
	defer speaker.StopCapture()

	program.Send(statusMsg("connected, listening"))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("console exited: %w", err)
	}
	return nil
}

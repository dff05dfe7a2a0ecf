package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	realtime "github.com/koscakluka/realtime-core/core"
	"github.com/koscakluka/realtime-core/core/events"
)

type transcriptMsg struct{ items []*realtime.Item }

type statusMsg string

type errMsg struct{ err error }

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	toolStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

type model struct {
	client *realtime.Client

	transcript viewport.Model
	input      textarea.Model

	items   []*realtime.Item
	status  string
	lastErr error

	width  int
	height int
	ready  bool
}

func newModel(client *realtime.Client) model {
	input := textarea.New()
	input.Placeholder = "Type a message, or just talk..."
	input.SetHeight(2)
	input.CharLimit = 2000
	input.ShowLineNumbers = false
	input.Focus()

	return model{
		client:     client,
		transcript: viewport.New(0, 0),
		input:      input,
		status:     "connecting...",
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript.Width = msg.Width
		m.transcript.Height = msg.Height - m.input.Height() - 2
		m.input.SetWidth(msg.Width)
		m.ready = true
		m.transcript.SetContent(m.renderTranscript())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			return m, sendMessage(m.client, text)
		}

	case transcriptMsg:
		m.items = msg.items
		m.transcript.SetContent(m.renderTranscript())
		m.transcript.GotoBottom()

	case statusMsg:
		m.status = string(msg)

	case errMsg:
		m.lastErr = msg.err
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.transcript, cmd = m.transcript.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	footer := statusStyle.Render(m.status)
	if m.lastErr != nil {
		footer = errorStyle.Render("error: " + m.lastErr.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.transcript.View(),
		m.input.View(),
		footer,
	)
}

func (m model) renderTranscript() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	lines := make([]string, 0, len(m.items))
	for _, item := range m.items {
		var label, body string
		switch item.Type {
		case events.ItemTypeMessage:
			if item.Role == "user" {
				label = userStyle.Render("you")
				body = item.Formatted.Transcript
				if body == "" {
					body = item.Formatted.Text
				}
			} else {
				label = assistantStyle.Render("assistant")
				body = item.Formatted.Transcript
				if body == "" {
					body = item.Formatted.Text
				}
			}
		case events.ItemTypeFunctionCall:
			label = toolStyle.Render("tool")
			if item.Formatted.Tool != nil {
				body = fmt.Sprintf("%s(%s)", item.Formatted.Tool.Name, item.Formatted.Tool.Arguments)
			}
		case events.ItemTypeFunctionCallOutput:
			label = toolStyle.Render("tool output")
			body = item.Formatted.Output
		}
		if body == "" && item.Status == events.ItemStatusInProgress {
			body = "..."
		}
		lines = append(lines, wordwrap.String(label+": "+body, width))
	}
	return strings.Join(lines, "\n")
}

func sendMessage(client *realtime.Client, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.SendUserMessageContent(ctx, []events.ContentPart{
			{Type: events.ContentTypeInputText, Text: text},
		}); err != nil {
			return errMsg{err: err}
		}
		return statusMsg("message sent")
	}
}

package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/amqp-wire/buffer"
	"github.com/wippyai/amqp-wire/wire"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// interactiveModel is a streaming inspector: hex chunks typed by the user are
// appended to a ring buffer, and every complete value the codec can frame is
// decoded and listed. Bytes that do not yet form a complete value stay
// buffered, so a value can be entered across several chunks.
type interactiveModel struct {
	codec   *wire.Codec
	ring    *buffer.Ring
	input   textinput.Model
	decoded []string
	err     error
}

func newInteractiveModel() *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "hex bytes, e.g. a1 05 68 65 6c 6c 6f"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		codec: wire.New(),
		ring:  buffer.NewRing(),
		input: ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			m.feed(m.input.Value())
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// feed appends one hex chunk to the buffer and drains every complete value.
func (m *interactiveModel) feed(chunk string) {
	m.err = nil

	data, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(chunk), " ", ""))
	if err != nil {
		m.err = fmt.Errorf("parse hex: %w", err)
		return
	}
	if _, err := m.ring.Write(data); err != nil {
		m.err = err
		return
	}

	for {
		res, err := m.codec.Decode(m.ring)
		if err != nil {
			// The stream is desynchronized past this point; start over.
			m.err = err
			m.ring = buffer.NewRing()
			return
		}
		if !res.Complete {
			return
		}
		m.decoded = append(m.decoded, formatValue(res.Value))
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case wire.Described:
		return fmt.Sprintf("described{%s: %s}",
			formatValue(t.Descriptor), formatValue(t.Value))
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case string:
		return fmt.Sprintf("%q", t)
	case wire.Symbol:
		return ":" + string(t)
	case []byte:
		return fmt.Sprintf("0x%x", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("AMQP Wire Inspector"))
	b.WriteString("\n\n")

	if len(m.decoded) == 0 {
		b.WriteString(helpStyle.Render("no values decoded yet"))
		b.WriteString("\n")
	}
	for i, v := range m.decoded {
		b.WriteString(fmt.Sprintf("%3d  %s\n", i+1, valueStyle.Render(v)))
	}
	b.WriteString("\n")

	if m.ring.Len() > 0 {
		b.WriteString(pendingStyle.Render(
			fmt.Sprintf("%d bytes buffered, waiting for the rest of the value", m.ring.Len())))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter feed bytes • esc quit"))

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

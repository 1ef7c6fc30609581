package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mython-lang/mython/mython"
)

var (
	accentColor  = lipgloss.Color("#3B82F6")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	engine      *mython.Engine
	closure     *mython.Closure
	pending     []string
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func runREPL() error {
	p := tea.NewProgram(newREPLModel())
	_, err := p.Run()
	return err
}

func newREPLModel() replModel {
	ti := textinput.New()
	ti.Placeholder = "type a statement..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "mython> "

	return replModel{
		textInput:  ti,
		engine:     mython.NewEngine(mython.Config{}),
		closure:    mython.NewClosure(),
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := m.textInput.Value()
			m.textInput.SetValue("")
			m.historyIdx = -1

			trimmed := strings.TrimSpace(input)
			if trimmed != "" && strings.HasPrefix(trimmed, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(trimmed)
				return m, cmd
			}

			if needsMoreInput(m.pending, input) {
				m.pending = append(m.pending, input)
				m.textInput.Prompt = "   ...> "
				return m, nil
			}

			source := input
			if len(m.pending) > 0 {
				if trimmed != "" {
					m.pending = append(m.pending, input)
				}
				source = strings.Join(m.pending, "\n")
				m.pending = nil
				m.textInput.Prompt = "mython> "
			} else if trimmed == "" {
				return m, nil
			}

			output, isErr := m.evaluate(source)
			m.history = append(m.history, historyEntry{
				input:  source,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, source)
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// needsMoreInput reports whether the session should keep buffering lines
// before compiling: a block opener ends with a colon, and an open block is
// only flushed by an empty line.
func needsMoreInput(pending []string, line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasSuffix(trimmed, ":") {
		return true
	}
	return len(pending) > 0 && trimmed != ""
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":reset", ":r":
		m.engine = mython.NewEngine(mython.Config{})
		m.closure = mython.NewClosure()
		m.pending = nil
		m.textInput.Prompt = "mython> "
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Environment reset",
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) evaluate(source string) (string, bool) {
	prog, err := m.engine.Compile(source + "\n")
	if err != nil {
		return err.Error(), true
	}

	var buf bytes.Buffer
	if err := prog.RunInto(&buf, m.closure); err != nil {
		return err.Error(), true
	}

	output := strings.TrimRight(buf.String(), "\n")
	if output == "" {
		return "ok", false
	}
	return output, false
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("Mython REPL")
	b.WriteString(header + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(max(m.width-2, 2), 60))) + "\n\n")

	for _, entry := range m.tailHistory() {
		if entry.input != "" {
			for _, line := range strings.Split(entry.input, "\n") {
				b.WriteString(promptStyle.Render("> ") + line + "\n")
			}
		}
		if entry.output != "" {
			style := resultStyle
			if entry.isErr {
				style = errorStyle
			}
			b.WriteString(style.Render(entry.output) + "\n")
		}
	}

	for _, line := range m.pending {
		b.WriteString(mutedStyle.Render("... ") + line + "\n")
	}

	b.WriteString("\n" + m.textInput.View() + "\n")

	if m.showHelp {
		b.WriteString("\n" + mutedStyle.Render(
			"Lines ending in : open a block; submit an empty line to run it.\n"+
				":help  :clear  :reset  :quit   ctrl+l clear  ctrl+c quit") + "\n")
	} else {
		b.WriteString(mutedStyle.Render("ctrl+k help") + "\n")
	}

	return b.String()
}

// tailHistory trims the transcript to what fits on screen.
func (m replModel) tailHistory() []historyEntry {
	if m.height == 0 {
		return m.history
	}
	available := m.height - 8
	if m.showHelp {
		available -= 3
	}
	if available < 1 {
		available = 1
	}

	lines := 0
	start := len(m.history)
	for start > 0 {
		entry := m.history[start-1]
		cost := strings.Count(entry.input, "\n") + 1
		if entry.output != "" {
			cost += strings.Count(entry.output, "\n") + 1
		}
		if lines+cost > available {
			break
		}
		lines += cost
		start--
	}
	return m.history[start:]
}

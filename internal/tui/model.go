// Package tui provides the interactive question-and-answer session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mukunthans/pdf-qa/internal/models"
)

// AskPort is the TUI-facing subset of the pipeline engine.
type AskPort interface {
	Ask(ctx context.Context, req *models.AskRequest) (*models.Answer, error)
	Document() *models.Document
	Ready() bool
}

// entry is one question with its outcome in the session transcript.
type entry struct {
	question string
	answer   *models.Answer
	err      error
}

// answerMsg delivers a completed pipeline call back into the update loop.
type answerMsg struct {
	question string
	answer   *models.Answer
	err      error
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	service    AskPort
	input      textinput.Model
	viewport   viewport.Model
	entries    []entry
	status     string
	thinking   bool
	ready      bool
	contextIdx int
}

// New creates a chat model over the given pipeline.
func New(service AskPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:    service,
		input:      ti,
		viewport:   vp,
		status:     "Enter to send, Up/Down to inspect context, Ctrl+C to quit.",
		contextIdx: -1,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - th
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.thinking {
				m.thinking = true
				m.status = "Thinking..."
				m.contextIdx = -1
				m.input.Reset()
				return m, m.askCmd(q)
			}
			return m, nil
		}
		if (msg.Type == tea.KeyUp || msg.Type == tea.KeyDown) && !m.thinking {
			if i := m.lastAnsweredIdx(); i >= 0 {
				chunks := m.entries[i].answer.ContextChunks
				n := len(chunks)
				if msg.Type == tea.KeyDown {
					m.contextIdx = (m.contextIdx + 1) % n
				} else if m.contextIdx <= 0 {
					m.contextIdx = n - 1
				} else {
					m.contextIdx--
				}
				m.status = fmt.Sprintf("Context %d/%d, score %.2f.", m.contextIdx+1, n, chunks[m.contextIdx].Score)
				m.viewport.SetContent(m.renderTranscript())
				m.viewport.GotoBottom()
				return m, nil
			}
		}

	case answerMsg:
		m.thinking = false
		m.contextIdx = -1
		m.entries = append(m.entries, entry{question: msg.question, answer: msg.answer, err: msg.err})
		m.status = statusLine(msg)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.service.Ask(context.Background(), &models.AskRequest{Question: question})
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func statusLine(msg answerMsg) string {
	if msg.err != nil {
		return "Error: " + msg.err.Error()
	}
	switch msg.answer.Status {
	case models.StatusSuccess:
		return fmt.Sprintf("Answered with %d context chunk(s).", len(msg.answer.ContextChunks))
	case models.StatusNoContext:
		return "No relevant content found."
	default:
		return string(msg.answer.Status)
	}
}

// View renders the session layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := "PDF Q&A"
	if doc := m.service.Document(); doc != nil {
		title += "  " + docStyle.Render(doc.Name)
	} else {
		title += "  " + docStyle.Render("(no document)")
	}
	header := headerStyle.Render(title)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.entries) == 0 {
		if !m.service.Ready() {
			return "No document loaded. Process a document before asking questions."
		}
		return "No questions yet. Type one below and press Enter."
	}
	wrap := lipgloss.NewStyle().Width(max(20, m.viewport.Width-4))
	cycling := m.lastAnsweredIdx()
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + e.question))
		b.WriteString("\n")
		b.WriteString(wrap.Render(renderOutcome(e)))
		if i == cycling && m.contextIdx >= 0 {
			chunks := e.answer.ContextChunks
			c := chunks[m.contextIdx]
			label := fmt.Sprintf("[Context %d/%d, score %.2f]", m.contextIdx+1, len(chunks), c.Score)
			b.WriteString("\n")
			b.WriteString(wrap.Render(contextStyle.Render(label + "\n" + c.Text)))
		}
	}
	return b.String()
}

// lastAnsweredIdx returns the most recent entry whose answer carries context
// chunks, or -1. Up/Down cycle that entry's chunks.
func (m Model) lastAnsweredIdx() int {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if a := m.entries[i].answer; a != nil && len(a.ContextChunks) > 0 {
			return i
		}
	}
	return -1
}

func renderOutcome(e entry) string {
	if e.err != nil {
		return errorStyle.Render("Error: " + e.err.Error())
	}
	a := e.answer
	switch a.Status {
	case models.StatusSuccess:
		meta := a.Model
		if n := len(a.ContextChunks); n > 0 {
			meta += fmt.Sprintf(", %d chunk(s), top score %.2f", n, a.ContextChunks[0].Score)
		}
		return a.Answer + "\n" + metaStyle.Render("("+meta+")")
	case models.StatusNoContext:
		return warnStyle.Render(a.Answer)
	default:
		return errorStyle.Render(fmt.Sprintf("[%s] %s", a.Status, a.Answer))
	}
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	docStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	metaStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	contextStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"docqa/internal/service"
	"docqa/internal/summarizer"
)

// AskPort is the TUI-facing subset of the RAG service.
type AskPort interface {
	Ask(ctx context.Context, documentID, question string) (service.Answer, error)
}

// answerMsg carries the result of an asynchronous Ask back into Update.
type answerMsg struct {
	question string
	answer   service.Answer
	err      error
}

// Model is the Bubble Tea model for questioning one ingested document.
type Model struct {
	service    AskPort
	documentID string
	summary    string
	clauses    *summarizer.ClauseSummarizer

	input    textinput.Model
	viewport viewport.Model

	answer  service.Answer
	cursor  int
	status  string
	pending bool
	ready   bool
}

// New creates a TUI model for documentID. summary is shown under the header.
func New(svc AskPort, documentID, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		service:    svc,
		documentID: documentID,
		summary:    summary,
		clauses:    summarizer.NewClauseSummarizer(),
		input:      ti,
		viewport:   viewport.New(0, 0),
		status:     "Loaded " + documentID + ". Type a question.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case answerMsg:
		m.pending = false
		m.cursor = 0
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.answer = service.Answer{}
		} else {
			m.answer = msg.answer
			m.status = fmt.Sprintf("%d passage(s) for %q via %s", len(msg.answer.Result.Passages), msg.question, msg.answer.Result.Route)
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		return m, tea.Quit, true
	case tea.KeyEnter:
		q := strings.TrimSpace(m.input.Value())
		if q == "" || m.pending {
			return m, nil, true
		}
		m.pending = true
		m.input.SetValue("")
		m.status = "Searching..."
		return m, m.ask(q), true
	case tea.KeyDown, tea.KeyUp:
		delta := 1
		if msg.Type == tea.KeyUp {
			delta = -1
		}
		moved := m.move(delta)
		return m, nil, moved
	}
	return m, nil, false
}

func (m Model) ask(question string) tea.Cmd {
	svc, id := m.service, m.documentID
	return func() tea.Msg {
		ans, err := svc.Ask(context.Background(), id, question)
		return answerMsg{question: question, answer: ans, err: err}
	}
}

// move cycles through passages; it reports false when there is nothing to move.
func (m *Model) move(delta int) bool {
	n := len(m.answer.Result.Passages)
	if n == 0 {
		return false
	}
	m.cursor = (m.cursor + delta + n) % n
	m.refresh()
	return true
}

func (m *Model) resize(width, height int) {
	m.ready = true
	_, boxH := resultBoxStyle.GetFrameSize()
	_, queryH := queryBoxStyle.GetFrameSize()
	// header, summary, answer, status and one spacer
	avail := max(3, height-5-queryH)
	m.viewport.Width = max(20, width)
	m.viewport.Height = max(3, avail-boxH)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderCurrentPassage())
}

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driving"
)

// Messages flowing through the update loop.
type (
	// sessionReadyMsg carries the opened chat session.
	sessionReadyMsg struct {
		session  driving.ChatSession
		greeting string
	}

	// replyMsg carries one agent reply.
	replyMsg struct {
		text string
		err  error
	}

	// recordChangedMsg reports an out-of-band patient record change.
	recordChangedMsg struct {
		patientID string
	}
)

// greeter is implemented by sessions that expose their opening message.
type greeter interface {
	Greeting() string
}

type model struct {
	ctx      context.Context
	chat     driving.ChatService
	patients driving.PatientService

	session driving.ChatSession
	history []string
	waiting bool

	recordChanges <-chan string

	input    textinput.Model
	viewport viewport.Model
	ready    bool
}

func newModel(ctx context.Context, chat driving.ChatService, patients driving.PatientService) *model {
	input := textinput.New()
	input.Placeholder = "Ask about the active patient, or type a medication order..."
	input.Focus()
	input.CharLimit = 500

	return &model{
		ctx:      ctx,
		chat:     chat,
		patients: patients,
		input:    input,
	}
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.openSession()}
	if m.recordChanges != nil {
		cmds = append(cmds, m.waitForRecordChange())
	}
	return tea.Batch(cmds...)
}

// openSession primes a chat session off the update loop.
func (m *model) openSession() tea.Cmd {
	return func() tea.Msg {
		session := m.chat.NewSession(m.ctx)
		msg := sessionReadyMsg{session: session}
		if g, ok := session.(greeter); ok {
			msg.greeting = g.Greeting()
		}
		return msg
	}
}

func (m *model) waitForRecordChange() tea.Cmd {
	return func() tea.Msg {
		id, ok := <-m.recordChanges
		if !ok {
			return nil
		}
		return recordChangedMsg{patientID: id}
	}
}

func (m *model) send(text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.session.SendMessage(m.ctx, text)
		return replyMsg{text: reply, err: err}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.input.Width = msg.Width - 4
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.session == nil || m.waiting {
				break
			}
			m.appendLine(fmt.Sprintf("%s: %s", clinicianTag, text))
			m.input.Reset()
			m.waiting = true
			cmds = append(cmds, m.send(text))
		}

	case sessionReadyMsg:
		m.session = msg.session
		if msg.greeting != "" {
			m.appendLine(fmt.Sprintf("%s: %s", agentTag, msg.greeting))
		}
		if msg.session.State() == domain.SessionDegraded {
			m.appendLine(degradedStyle.Render("Session degraded: the model backend is unavailable."))
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.appendLine(noticeStyle.Render(fmt.Sprintf("error: %v", msg.err)))
			break
		}
		m.appendLine(fmt.Sprintf("%s: %s", agentTag, msg.text))
		if m.session.State() == domain.SessionDegraded {
			m.appendLine(degradedStyle.Render("Session degraded: replies are canned until a new session starts."))
		}

	case recordChangedMsg:
		m.appendLine(noticeStyle.Render(fmt.Sprintf("(record %s changed on disk)", msg.patientID)))
		cmds = append(cmds, m.waitForRecordChange())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *model) appendLine(line string) {
	m.history = append(m.history, line)
	m.refresh()
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) View() string {
	if !m.ready {
		return "starting..."
	}

	status := "no active patient"
	if m.patients != nil {
		if id := m.patients.ActiveID(); id != "" {
			status = "patient: " + id
		}
	}
	if m.session != nil && m.session.State() == domain.SessionDegraded {
		status += "  " + degradedStyle.Render("[degraded]")
	}
	if m.waiting {
		status += "  thinking..."
	}

	return fmt.Sprintf("%s  %s\n\n%s\n\n%s",
		titleStyle.Render("Guardian Chat"),
		statusStyle.Render(status),
		m.viewport.View(),
		m.input.View(),
	)
}

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

// chromeHeight is the rows used by the header, input box and status bar.
const chromeHeight = 6

// blankWarning is shown when the user submits an empty question.
const blankWarning = "Please type a question."

// exitWords end the session when typed as the whole question.
var exitWords = map[string]bool{"sair": true, "exit": true, "quit": true}

// IsExitWord reports whether input ends a chat session.
func IsExitWord(s string) bool {
	return exitWords[strings.ToLower(strings.TrimSpace(s))]
}

// entry is a single transcript line.
type entry struct {
	role    messages.Role
	text    string
	style   lipgloss.Style
	sources []domain.ScoredResult
}

// App is the chat application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input    *input.QuestionInput
	viewport viewport.Model
	spinner  spinner.Model
	status   *status.Bar

	entries  []entry
	thinking bool
	asked    int
	header   string

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	app := &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keymap:  km,
		input:   input.NewQuestionInput(s),
		spinner: sp,
		status:  status.NewBar(s, km),
		header:  "pdfrag chat",
	}

	if ports.Settings != nil {
		if settings, err := ports.Settings.Get(); err == nil {
			active := settings.ActiveProvider()
			app.header = fmt.Sprintf("pdfrag chat · %s / %s", settings.Provider, active.LLMModel)
		}
	}

	return app, nil
}

// WithContext sets the context used for pipeline calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		tea.SetWindowTitle("pdfrag"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.QuestionSubmitted:
		a.thinking = true
		a.status.SetState(status.StateThinking)
		a.append(entry{role: messages.RoleUser, text: msg.Question, style: a.styles.Question})
		return a, tea.Batch(a.spinner.Tick, a.ask(msg.Question))

	case messages.AnswerCompleted:
		a.handleAnswer(msg)
		return a, nil

	case spinner.TickMsg:
		if !a.thinking {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.ScrollUp), keymap.Matches(key, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case keymap.Matches(key, a.keymap.Clear):
		a.entries = nil
		a.asked = 0
		a.status.Clear()
		a.refresh()
		return a, nil

	case keymap.Matches(key, a.keymap.Submit):
		if a.thinking {
			return a, nil
		}
		question := strings.TrimSpace(a.input.Value())
		a.input.Reset()
		if IsExitWord(question) {
			return a, tea.Quit
		}
		if question == "" {
			a.append(entry{role: messages.RoleNotice, text: blankWarning, style: a.styles.Warning})
			return a, nil
		}
		return a, func() tea.Msg { return messages.QuestionSubmitted{Question: question} }
	}

	if a.thinking {
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// ask runs the answer pipeline off the UI goroutine.
func (a *App) ask(question string) tea.Cmd {
	answers := a.ports.Answer
	ctx := a.ctx
	return func() tea.Msg {
		answer, err := answers.Answer(ctx, question)
		return messages.AnswerCompleted{Question: question, Answer: answer, Err: err}
	}
}

func (a *App) handleAnswer(msg messages.AnswerCompleted) {
	a.thinking = false

	if msg.Err != nil {
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		a.append(entry{role: messages.RoleNotice, text: "Error: " + msg.Err.Error(), style: a.styles.Error})
		return
	}

	a.status.SetState(status.StateReady)
	a.status.SetMessage("")

	switch msg.Answer.Status {
	case domain.AnswerInvalid:
		a.append(entry{role: messages.RoleNotice, text: blankWarning, style: a.styles.Warning})
	case domain.AnswerUngrounded:
		a.asked++
		a.append(entry{role: messages.RoleAssistant, text: msg.Answer.Text, style: a.styles.Answer})
		a.append(entry{
			role:  messages.RoleNotice,
			text:  "No relevant passages were found in the ingested documents.",
			style: a.styles.Warning,
		})
	case domain.AnswerGrounded:
		a.asked++
		a.append(entry{
			role:    messages.RoleAssistant,
			text:    msg.Answer.Text,
			style:   a.styles.Answer,
			sources: msg.Answer.Sources,
		})
	}
	a.status.SetAsked(a.asked)
}

func (a *App) append(e entry) {
	a.entries = append(a.entries, e)
	a.refresh()
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	vpHeight := height - chromeHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !a.ready {
		a.viewport = viewport.New(width, vpHeight)
		a.ready = true
	} else {
		a.viewport.Width = width
		a.viewport.Height = vpHeight
	}
	a.input.SetWidth(width)
	a.status.SetWidth(width)
	a.refresh()
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (a *App) refresh() {
	if !a.ready {
		return
	}
	a.viewport.SetContent(a.Transcript())
	a.viewport.GotoBottom()
}

// Transcript renders every entry as plain styled text.
func (a *App) Transcript() string {
	wrap := lipgloss.NewStyle().Width(max(a.width-2, 20))

	var b strings.Builder
	for _, e := range a.entries {
		switch e.role {
		case messages.RoleUser:
			b.WriteString(e.style.Render("You: " + e.text))
		case messages.RoleAssistant:
			b.WriteString(e.style.Render(wrap.Render(e.text)))
			if len(e.sources) > 0 {
				b.WriteString("\n")
				b.WriteString(a.styles.Source.Render(formatSources(e.sources)))
			}
		case messages.RoleNotice:
			b.WriteString(e.style.Render(e.text))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func formatSources(results []domain.ScoredResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		label := r.ID
		if page, ok := r.Metadata[domain.MetaPage]; ok {
			label = fmt.Sprintf("%s (p.%s)", r.ID, page)
		}
		parts[i] = fmt.Sprintf("%s %.2f", label, r.Score)
	}
	return "Sources: " + strings.Join(parts, ", ")
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var prompt string
	if a.thinking {
		prompt = a.spinner.View() + a.styles.Muted.Render(" Searching documents and generating an answer...")
	} else {
		prompt = a.input.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render(a.header),
		a.viewport.View(),
		prompt,
		a.status.View(),
	)
}

// Thinking reports whether a question is in flight.
func (a *App) Thinking() bool {
	return a.thinking
}

// Asked returns how many questions were answered this session.
func (a *App) Asked() int {
	return a.asked
}

// Run starts the chat UI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, ports *Ports) error {
	app, err := NewApp(ports)
	if err != nil {
		return err
	}
	p := tea.NewProgram(app.WithContext(ctx), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

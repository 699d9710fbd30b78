package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// pageSize is how many choices are visible at once.
const pageSize = 10

// Terminal prompts through a short-lived Bubbletea program per question.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal creates a Terminal prompter reading keys from in.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

func (t *Terminal) Select(ctx context.Context, message string, choices []Choice) (Choice, error) {
	if len(choices) == 0 {
		return Choice{}, ErrNoChoices
	}

	final, err := t.run(ctx, newSelectModel(message, choices))
	if err != nil {
		return Choice{}, err
	}
	m := final.(*selectModel)
	if m.aborted || m.selected < 0 {
		return Choice{}, ErrInterrupted
	}
	return choices[m.selected], nil
}

func (t *Terminal) Input(ctx context.Context, message string, validate func(string) error) (string, error) {
	final, err := t.run(ctx, newInputModel(message, validate))
	if err != nil {
		return "", err
	}
	m := final.(*inputModel)
	if m.aborted {
		return "", ErrInterrupted
	}
	return strings.TrimSpace(m.textInput.Value()), nil
}

func (t *Terminal) Confirm(ctx context.Context, message string) (bool, error) {
	final, err := t.run(ctx, &confirmModel{message: message})
	if err != nil {
		return false, err
	}
	m := final.(*confirmModel)
	if m.aborted {
		return false, ErrInterrupted
	}
	return m.value, nil
}

func (t *Terminal) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return nil, ErrInterrupted
		}
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}

// ---------------------- Select ----------------------

type selectModel struct {
	message  string
	choices  []Choice
	cursor   int
	offset   int
	selected int
	aborted  bool
}

func newSelectModel(message string, choices []Choice) *selectModel {
	return &selectModel{
		message:  message,
		choices:  choices,
		selected: -1,
	}
}

func (m *selectModel) Init() tea.Cmd { return nil }

func (m *selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.cursor = len(m.choices) - 1
		}
	case "down", "j", "tab":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.choices) - 1
	case "enter", " ":
		m.selected = m.cursor
		return m, tea.Quit
	}

	// keep the cursor inside the visible page
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+pageSize {
		m.offset = m.cursor - pageSize + 1
	}
	return m, nil
}

func (m *selectModel) View() string {
	if m.selected >= 0 {
		return answered(m.message, m.choices[m.selected].Label)
	}
	if m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(header(m.message) + "\n")

	end := min(m.offset+pageSize, len(m.choices))
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("❯ "+m.choices[i].Label) + "\n")
			continue
		}
		b.WriteString("  " + m.choices[i].Label + "\n")
	}

	help := "↑/↓: navigate • enter: select"
	if len(m.choices) > pageSize {
		help = fmt.Sprintf("(%d/%d) ", m.cursor+1, len(m.choices)) + help
	}
	b.WriteString(helpStyle.Render(help) + "\n")
	return b.String()
}

// ---------------------- Input ----------------------

type inputModel struct {
	message   string
	textInput textinput.Model
	validate  func(string) error
	err       error
	done      bool
	aborted   bool
}

func newInputModel(message string, validate func(string) error) *inputModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()
	ti.Width = 50

	return &inputModel{
		message:   message,
		textInput: ti,
		validate:  validate,
	}
}

func (m *inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			value := strings.TrimSpace(m.textInput.Value())
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *inputModel) View() string {
	if m.done {
		return answered(m.message, strings.TrimSpace(m.textInput.Value()))
	}
	if m.aborted {
		return ""
	}

	s := header(m.message) + " " + m.textInput.View() + "\n"
	if m.err != nil {
		s += errorStyle.Render(">> "+m.err.Error()) + "\n"
	}
	return s
}

// ---------------------- Confirm ----------------------

type confirmModel struct {
	message string
	value   bool
	done    bool
	aborted bool
}

func (m *confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "y", "Y":
		m.value = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.value = false
		m.done = true
		return m, tea.Quit
	case "left", "h":
		m.value = true
	case "right", "l":
		m.value = false
	case "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *confirmModel) View() string {
	if m.done {
		answer := "No"
		if m.value {
			answer = "Yes"
		}
		return answered(m.message, answer)
	}
	if m.aborted {
		return ""
	}

	yes, no := helpStyle.Render(" Yes "), selectedItemStyle.Render("[No]")
	if m.value {
		yes, no = selectedItemStyle.Render("[Yes]"), helpStyle.Render(" No ")
	}
	return header(m.message) + " " + yes + " / " + no + "\n" +
		helpStyle.Render("y/n: select • ←/→: toggle • enter: confirm") + "\n"
}

package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// model is a bubbletea model that asks one question at a time. Text and
// confirm questions read a line; choice questions move a cursor.
type model struct {
	questions []Question
	idx       int
	inputs    []textinput.Model
	cursors   []int
	answers   []string
	err       error
	done      bool
}

func newModel(questions []Question) model {
	m := model{
		questions: questions,
		inputs:    make([]textinput.Model, len(questions)),
		cursors:   make([]int, len(questions)),
		answers:   make([]string, len(questions)),
	}
	for i, q := range questions {
		ti := textinput.New()
		ti.Placeholder = q.Default
		ti.CharLimit = 512
		m.inputs[i] = ti
		for j, c := range q.Choices {
			if c == q.Default {
				m.cursors[i] = j
			}
		}
	}
	if len(questions) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	q := m.questions[m.idx]
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if q.Kind == Choice && m.cursors[m.idx] > 0 {
				m.cursors[m.idx]--
			}
			return m, nil
		case tea.KeyDown:
			if q.Kind == Choice && m.cursors[m.idx] < len(q.Choices)-1 {
				m.cursors[m.idx]++
			}
			return m, nil
		case tea.KeyEnter:
			raw := m.inputs[m.idx].Value()
			if q.Kind == Choice {
				raw = q.Choices[m.cursors[m.idx]]
			}
			answer, err := Resolve(q, raw)
			if err != nil {
				m.err = err
				m.inputs[m.idx].Reset()
				return m, nil
			}
			m.err = nil
			m.answers[m.idx] = answer
			if m.idx < len(m.questions)-1 {
				m.inputs[m.idx].Blur()
				m.idx++
				m.inputs[m.idx].Focus()
				return m, textinput.Blink
			}
			m.done = true
			return m, tea.Quit
		}
	}
	if q.Kind == Choice {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.idx]
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", q.Prompt, q.Hint())
	if q.Kind == Choice {
		b.WriteString("\n")
		for j, c := range q.Choices {
			cursor := "  "
			if j == m.cursors[m.idx] {
				cursor = "> "
			}
			fmt.Fprintf(&b, "%s%s\n", cursor, c)
		}
	} else {
		fmt.Fprintf(&b, ": %s\n", m.inputs[m.idx].View())
	}
	if m.err != nil {
		fmt.Fprintf(&b, "Error: %v\n", m.err)
	}
	return b.String()
}

// Terminal asks questions with a bubbletea program on In and Out.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// Ask runs the TUI and returns answers keyed by Question.Key.
func (t *Terminal) Ask(questions ...Question) (map[string]string, error) {
	if len(questions) == 0 {
		return map[string]string{}, nil
	}
	var opts []tea.ProgramOption
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}
	p := tea.NewProgram(newModel(questions), opts...)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(model)
	if !ok || !final.done {
		return nil, ErrCancelled
	}
	answers := make(map[string]string, len(questions))
	for i, q := range questions {
		answers[q.Key] = final.answers[i]
	}
	return answers, nil
}

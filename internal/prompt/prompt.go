// Package prompt asks the user questions: free text, yes/no and
// one-of-many. Terminal sessions use a bubbletea UI; tests script the
// answers.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the kind of answer a question expects.
type Kind int

const (
	Text Kind = iota
	Confirm
	Choice
)

// Question describes a single prompt.
type Question struct {
	Key    string
	Prompt string
	Kind   Kind
	// Default is returned for an empty answer: "y"/"n" for Confirm, one of
	// Choices for Choice.
	Default string
	Choices []string
}

// Asker answers questions.
type Asker interface {
	Ask(questions ...Question) (map[string]string, error)
}

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("prompt cancelled")

// Resolve validates a raw answer. Empty answers take the default; confirm
// answers normalise to "y" or "n".
func Resolve(q Question, raw string) (string, error) {
	answer := strings.TrimSpace(raw)
	if answer == "" {
		answer = q.Default
	}
	switch q.Kind {
	case Confirm:
		switch strings.ToLower(answer) {
		case "y", "yes":
			return "y", nil
		case "n", "no":
			return "n", nil
		}
		return "", fmt.Errorf("invalid input: %q", raw)
	case Choice:
		for _, c := range q.Choices {
			if c == answer {
				return c, nil
			}
		}
		return "", fmt.Errorf("%q is not one of %s", answer, strings.Join(q.Choices, ", "))
	}
	return answer, nil
}

// Hint is the suffix shown after the prompt text.
func (q Question) Hint() string {
	switch q.Kind {
	case Confirm:
		if q.Default == "y" {
			return "[Y/n]"
		}
		return "[y/N]"
	case Choice:
		return "(" + strings.Join(q.Choices, ", ") + ")"
	}
	if q.Default != "" {
		return "[" + q.Default + "]"
	}
	return ""
}

// AskConfirm asks a yes/no question.
func AskConfirm(a Asker, prompt string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	answers, err := a.Ask(Question{Key: "answer", Prompt: prompt, Kind: Confirm, Default: d})
	if err != nil {
		return false, err
	}
	return answers["answer"] == "y", nil
}

// AskChoice asks for one of choices.
func AskChoice(a Asker, prompt string, choices []string, def string) (string, error) {
	answers, err := a.Ask(Question{Key: "answer", Prompt: prompt, Kind: Choice, Default: def, Choices: choices})
	if err != nil {
		return "", err
	}
	return answers["answer"], nil
}

// AskText asks for free text.
func AskText(a Asker, prompt, def string) (string, error) {
	answers, err := a.Ask(Question{Key: "answer", Prompt: prompt, Default: def})
	if err != nil {
		return "", err
	}
	return answers["answer"], nil
}

// Scripted answers from a fixed list, in order. An empty answer selects
// the default. Used in tests.
type Scripted struct {
	Answers []string
	Asked   []Question
}

func (s *Scripted) Ask(questions ...Question) (map[string]string, error) {
	out := make(map[string]string, len(questions))
	for _, q := range questions {
		s.Asked = append(s.Asked, q)
		if len(s.Answers) == 0 {
			return nil, fmt.Errorf("no scripted answer for %q", q.Prompt)
		}
		raw := s.Answers[0]
		s.Answers = s.Answers[1:]
		answer, err := Resolve(q, raw)
		if err != nil {
			return nil, err
		}
		out[q.Key] = answer
	}
	return out, nil
}

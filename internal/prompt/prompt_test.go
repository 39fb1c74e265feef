package prompt

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestResolve(t *testing.T) {
	confirm := Question{Kind: Confirm, Default: "y"}
	choice := Question{Kind: Choice, Default: "tofino", Choices: []string{"tofino", "tofino2", "all"}}
	tests := []struct {
		q       Question
		raw     string
		want    string
		wantErr bool
	}{
		{confirm, "", "y", false},
		{confirm, "No", "n", false},
		{confirm, " yes ", "y", false},
		{confirm, "maybe", "", true},
		{choice, "", "tofino", false},
		{choice, "all", "all", false},
		{choice, "tofino3", "", true},
		{Question{Default: "out.yaml"}, "", "out.yaml", false},
		{Question{}, "p4.yaml", "p4.yaml", false},
	}
	for _, tc := range tests {
		got, err := Resolve(tc.q, tc.raw)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("Resolve(%v, %q) = %q, %v", tc.q.Kind, tc.raw, got, err)
		}
	}
}

func TestHint(t *testing.T) {
	if h := (Question{Kind: Confirm, Default: "y"}).Hint(); h != "[Y/n]" {
		t.Errorf("confirm hint = %s", h)
	}
	if h := (Question{Kind: Confirm, Default: "n"}).Hint(); h != "[y/N]" {
		t.Errorf("confirm hint = %s", h)
	}
	if h := (Question{Kind: Choice, Choices: []string{"a", "b"}}).Hint(); h != "(a, b)" {
		t.Errorf("choice hint = %s", h)
	}
}

func TestScripted(t *testing.T) {
	s := &Scripted{Answers: []string{"", "x2_tofino", "n"}}
	ok, err := AskConfirm(s, "Do you want to install dependencies?", true)
	if err != nil || !ok {
		t.Fatalf("AskConfirm = %v, %v", ok, err)
	}
	profile, err := AskChoice(s, "profile", []string{"x1_tofino", "x2_tofino"}, "x1_tofino")
	if err != nil || profile != "x2_tofino" {
		t.Fatalf("AskChoice = %v, %v", profile, err)
	}
	if ok, _ := AskConfirm(s, "build for HW?", true); ok {
		t.Error("AskConfirm = true")
	}
	if _, err := AskText(s, "file", ""); err == nil {
		t.Error("expected error when answers run out")
	}
	if len(s.Asked) != 4 {
		t.Errorf("Asked = %d questions", len(s.Asked))
	}
}

// ---------------------------------------------------------------------------
// bubbletea model
// ---------------------------------------------------------------------------

func press(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func runes(s string) tea.Msg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestModelAnswersInOrder(t *testing.T) {
	m := newModel([]Question{
		{Key: "deps", Prompt: "install?", Kind: Confirm, Default: "y"},
		{Key: "arch", Prompt: "arch", Kind: Choice, Default: "tofino", Choices: []string{"tofino", "tofino2", "all"}},
		{Key: "file", Prompt: "file"},
	})
	m = press(m, runes("n"), enter)
	if !strings.Contains(m.View(), "> tofino\n") {
		t.Errorf("choice view:\n%s", m.View())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, enter)
	m = press(m, runes("p.yaml"), enter)

	if !m.done {
		t.Fatal("model not done")
	}
	want := []string{"n", "all", "p.yaml"}
	for i, w := range want {
		if m.answers[i] != w {
			t.Errorf("answer %d = %q, want %q", i, m.answers[i], w)
		}
	}
}

func TestModelRejectsInvalidConfirm(t *testing.T) {
	m := newModel([]Question{{Key: "x", Prompt: "sure?", Kind: Confirm, Default: "n"}})
	m = press(m, runes("perhaps"), enter)
	if m.done || m.err == nil {
		t.Fatal("invalid answer accepted")
	}
	if !strings.Contains(m.View(), "Error: invalid input") {
		t.Errorf("view:\n%s", m.View())
	}
	m = press(m, enter)
	if !m.done || m.answers[0] != "n" {
		t.Errorf("default not applied: done=%v answer=%q", m.done, m.answers[0])
	}
}

func TestModelCancel(t *testing.T) {
	m := newModel([]Question{{Key: "x", Prompt: "sure?", Kind: Confirm, Default: "n"}})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not return tea.Quit")
	}
}

func TestTerminalNoQuestions(t *testing.T) {
	answers, err := (&Terminal{}).Ask()
	if err != nil || len(answers) != 0 {
		t.Errorf("Ask() = %v, %v", answers, err)
	}
}

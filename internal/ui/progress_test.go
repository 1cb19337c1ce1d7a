package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"segpub/internal/driver"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("checking reports", []string{"a.txt", "b.txt"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.txt", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "checking" || m.finished() != 0 {
		t.Fatalf("working event: %+v", m.items[0])
	}
	m.Update(eventMsg{File: "a.txt", Stage: driver.StageParse, Status: driver.StatusDone})
	m.Update(eventMsg{File: "b.txt", Stage: driver.StageCache, Status: driver.StatusError})
	m.Update(eventMsg{File: "unknown.txt", Status: driver.StatusDone})

	if m.finished() != 2 {
		t.Fatalf("finished = %d", m.finished())
	}
	view := m.View()
	for _, want := range []string{"(2/2)", "valid", "cached ✗", "a.txt", "b.txt"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatal("done message must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if !strings.HasPrefix(stripANSI(m.View()), "done: ") {
		t.Fatalf("final view: %q", m.View())
	}
}

func TestListenForEventReportsClose(t *testing.T) {
	events := make(chan driver.Event, 1)
	m := NewProgressModel("t", []string{"a.txt"}, events).(*progressModel)
	events <- driver.Event{File: "a.txt", Status: driver.StatusQueued}
	close(events)

	if _, ok := m.listenForEvent()().(eventMsg); !ok {
		t.Fatal("expected event message")
	}
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatal("expected done message after close")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"relatórios/a.txt", 0, "relatórios/a.txt"},
		{"relatórios/a.txt", 40, "relatórios/a.txt"},
		{"relatórios/a.txt", 10, "relatór..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestEmptyView(t *testing.T) {
	if v := NewProgressModel("t", nil, nil).View(); v != "" {
		t.Fatalf("expected empty view, got %q", v)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

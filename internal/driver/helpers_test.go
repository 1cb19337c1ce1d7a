package driver

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"segpub/internal/trace"
)

const validReport = "tipo: furto\ndata: 01/01/20 12:00\nlocal: praça central.\nrelato: vidro quebrado.\nenvolvidos: joão, maria.\nobjetos: vidro.\n"

const invalidReport = "tipo: furto\ndata: 40/01/20\nlocal: praça.\nrelato: x\nenvolvidos: y\nobjetos: z\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

type eventRecorder struct {
	mu     sync.Mutex
	events []trace.Event
}

func (r *eventRecorder) Emit(ev trace.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}
func (r *eventRecorder) Flush() error { return nil }
func (r *eventRecorder) Close() error { return nil }
func (r *eventRecorder) Level() trace.Level { return trace.LevelDebug }
func (r *eventRecorder) Enabled() bool { return true }

func (r *eventRecorder) names(kind trace.Kind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev.Name)
		}
	}
	return out
}

package lexer

import (
	"testing"

	"segpub/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.txt", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("Peek() = %q, want %q", got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump() = %q, want %q", got, want)
		}
	}

	if !cursor.EOF() {
		t.Error("Expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Error("Peek/Bump at EOF must return 0")
	}
	if cursor.Off != 3 {
		t.Errorf("Bump at EOF must not move the cursor, Off=%d", cursor.Off)
	}
}

func TestRestAndAdvance(t *testing.T) {
	cursor := NewCursor(createFile("tipo: furto"))

	if got := string(cursor.Rest()); got != "tipo: furto" {
		t.Fatalf("Rest() = %q", got)
	}
	cursor.Advance(6)
	if got := string(cursor.Rest()); got != "furto" {
		t.Fatalf("Rest() after Advance = %q", got)
	}
	// Advance за пределы буфера прижимается к Limit
	cursor.Advance(100)
	if !cursor.EOF() || cursor.Off != 11 {
		t.Fatalf("Advance must clamp to Limit, Off=%d", cursor.Off)
	}
	if cursor.Rest() != nil {
		t.Fatal("Rest() at EOF must be nil")
	}
}

func TestMarkSpanFrom(t *testing.T) {
	file := createFile("data: 01/01/20")
	cursor := NewCursor(file)
	cursor.Advance(6)
	m := cursor.Mark()
	cursor.Advance(8)

	sp := cursor.SpanFrom(m)
	if sp.Start != 6 || sp.End != 14 || sp.File != file.ID {
		t.Fatalf("SpanFrom() = %v", sp)
	}
	if here := cursor.Here(); !here.Empty() || here.Start != 14 {
		t.Fatalf("Here() = %v", here)
	}
}

func TestLimitBoundsCursor(t *testing.T) {
	cursor := NewCursor(createFile("abcdef"))
	cursor.Limit = 3
	cursor.Advance(5)
	if cursor.Off != 3 || !cursor.EOF() {
		t.Fatalf("cursor must stop at Limit, Off=%d", cursor.Off)
	}
	if got := cursor.Rest(); got != nil {
		t.Fatalf("Rest() beyond Limit = %q", got)
	}
}

func TestEmptyFile(t *testing.T) {
	cursor := NewCursor(createFile(""))
	if !cursor.EOF() {
		t.Fatal("empty file must start at EOF")
	}
}

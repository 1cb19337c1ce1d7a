package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"segpub/internal/diag"
	"segpub/internal/source"
)

const report = "tipo: furto\ndata: 40/01/20\n"

func badDateBag(file source.FileID) *diag.Bag {
	bag := diag.NewBag(4)
	d := diag.NewError(diag.SynUnexpectedToken,
		source.Span{File: file, Start: 18, End: 26},
		`expected date (DD/MM/YY), found "40/01/20"`).
		WithNote(source.Span{File: file, Start: 0, End: 5}, "in the record declared here")
	bag.Add(d)
	return bag
}

func TestPrettyLayout(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte(report))

	var buf bytes.Buffer
	Pretty(&buf, badDateBag(id), fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowNotes: true})

	want := "a.txt:2:7: ERROR SYN2001: expected date (DD/MM/YY), found \"40/01/20\"\n" +
		"1 | tipo: furto\n" +
		"2 | data: 40/01/20\n" +
		"  |       ^~~~~~~~\n" +
		"  note: a.txt:1:1: in the record declared here\n" +
		"1 | tipo: furto\n" +
		"  | ^~~~~\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyHidesNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte(report))

	var buf bytes.Buffer
	Pretty(&buf, badDateBag(id), fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}
}

func TestPrettyCaretUnderAccents(t *testing.T) {
	fs := source.NewFileSet()
	src := "local: praça !"
	id := fs.AddVirtual("b.txt", []byte(src))
	off := uint32(strings.IndexByte(src, '!')) // #nosec G115

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LexNoTokenMatched, source.Span{File: id, Start: off, End: off + 1}, `unrecognized input "!"`))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	caret := lines[len(lines)-1]
	want := "  | " + strings.Repeat(" ", 13) + "^"
	if caret != want {
		t.Fatalf("caret misaligned:\nwant %q\ngot  %q", want, caret)
	}
	if !strings.HasPrefix(lines[0], "b.txt:1:14: ERROR LEX1001") {
		t.Fatalf("unexpected header %q", lines[0])
	}
}

func TestPrettyUnderlineAccentedWord(t *testing.T) {
	fs := source.NewFileSet()
	src := "local: praça !"
	id := fs.AddVirtual("b.txt", []byte(src))
	off := uint32(strings.Index(src, "praça")) // #nosec G115

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LexNoTokenMatched, source.Span{File: id, Start: off, End: off + uint32(len("praça"))}, "x"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if want := "  | " + strings.Repeat(" ", 7) + "^~~~~"; lines[len(lines)-1] != want {
		t.Fatalf("underline:\nwant %q\ngot  %q", want, lines[len(lines)-1])
	}
}

func TestByteIndex(t *testing.T) {
	const line = "local: praça"
	tests := []struct {
		col  uint32
		want int
	}{
		{1, 0},
		{11, 10}, // "ç"
		{12, 12}, // после двухбайтовой "ç"
		{13, len(line)},
		{99, len(line)},
	}
	for _, tt := range tests {
		if got := byteIndex(line, tt.col); got != tt.want {
			t.Errorf("byteIndex(%d) = %d, want %d", tt.col, got, tt.want)
		}
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte(report))

	var plain, colored bytes.Buffer
	Pretty(&plain, badDateBag(id), fs, PrettyOpts{PathMode: PathModeBasename})
	Pretty(&colored, badDateBag(id), fs, PrettyOpts{PathMode: PathModeBasename, Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatal("escape sequences with colour disabled")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatal("no escape sequences with colour enabled")
	}
}

func TestPrettyWidth(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("relato: "+strings.Repeat("palavra ", 20)+"?"))

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LexNoTokenMatched, source.Span{File: id, Start: 0, End: 1}, "x"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Width: 20})
	if !strings.Contains(buf.String(), "1 | relato: palavra pal…\n") {
		t.Fatalf("line not truncated:\n%s", buf.String())
	}
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	id := fs.Add("/home/user/project/reports/a.txt", []byte(report), 0)
	bag := badDateBag(id)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/reports/a.txt:2:7"},
		{"relative", PathModeRelative, "\nreports/a.txt:2:7"},
		{"basename", PathModeBasename, "\na.txt:2:7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			if out := "\n" + buf.String(); !strings.Contains(out, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, out)
			}
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()
	tests := []struct {
		path     string
		expected string
	}{
		{"input.txt", "input.txt:"},
		{"/very/long/absolute/path/to/some/nested/directory/input.txt", "\ninput.txt:"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id := fs.Add(tt.path, []byte(report), 0)
			var buf bytes.Buffer
			Pretty(&buf, badDateBag(id), fs, PrettyOpts{PathMode: PathModeAuto})
			if out := "\n" + buf.String(); !strings.Contains(out, tt.expected) {
				t.Errorf("expected %q in:\n%s", tt.expected, out)
			}
		})
	}
}

func TestParsePathMode(t *testing.T) {
	for _, m := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		got, err := ParsePathMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParsePathMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParsePathMode("full"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

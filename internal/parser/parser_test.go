package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"segpub/internal/diag"
	"segpub/internal/lexer"
	"segpub/internal/parser"
	"segpub/internal/source"
	"segpub/internal/testkit"
	"segpub/internal/token"
	"segpub/internal/trace"
)

const sample = "tipo: furto\ndata: 01/01/20 12:00\nlocal: praça central.\nrelato: vidro quebrado.\nenvolvidos: joão, maria.\nobjetos: vidro."

func newFile(src string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("<test>", []byte(src)))
}

func parse(t *testing.T, src string, opts parser.Options) (parser.Result, error) {
	t.Helper()
	return parser.New(newFile(src), opts).ParseDocument()
}

func TestSampleRecord(t *testing.T) {
	var toks []token.Token
	res, err := parse(t, sample, parser.Options{OnToken: func(tok token.Token) { toks = append(toks, tok) }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Records != 1 {
		t.Fatalf("expected 1 record, got %d", res.Records)
	}
	if sp := res.Spans[0]; sp.Start != 0 || int(sp.End) != len(sample) {
		t.Fatalf("record span %s does not cover the input", sp)
	}
	last := toks[len(toks)-1]
	if int(last.Span.End) != len(sample) {
		t.Fatalf("input not fully consumed: last token %q ends at %d", last.Text, last.Span.End)
	}

	var sawTime bool
	for _, tok := range toks {
		if tok.Kind == token.Time {
			sawTime = tok.Text == "12:00"
		}
	}
	if !sawTime {
		t.Fatal("optional time was not consumed")
	}
	if toks[1].Kind != token.Nature || toks[1].Text != "furto" {
		t.Fatalf("expected nature 'furto', got %s %q", toks[1].Kind, toks[1].Text)
	}
}

func TestValidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		records int
	}{
		{"sample", sample, 1},
		{"no time", strings.Replace(sample, " 12:00", "", 1), 1},
		{"trailing whitespace", sample + "\n\n \t", 1},
		{"leading whitespace", "\r\n  " + sample, 1},
		{"concatenated without separator", strings.Repeat(sample, 3), 3},
		{"concatenated with newlines", strings.Repeat(sample+"\n", 5), 5},
		{"words without punctuation",
			"tipo: roubo data: 02/02/21 local: rua das flores relato: levaram a bolsa envolvidos: ana objetos: bolsa", 1},
		{"semicolons and full stops",
			"tipo: perda data: 31/12/99 23:59 local: centro; praça. relato: perdi. envolvidos: eu; ninguém. objetos: chave",
			1},
		{"digits and hyphens",
			"tipo: acidente data: 10/10/10 local: rua 25 de março. relato: guarda-chuva quebrado. envolvidos: 2 pessoas. objetos: guarda-chuva",
			1},
		{"nature keyword inside narrative",
			"tipo: ameaça data: 01/01/01 local: casa relato: furto e roubo envolvidos: x objetos: y", 1},
		{"dangling comma before end of input",
			"tipo: estelionato data: 05/05/05 local: banco relato: golpe envolvidos: joão objetos: cartão,", 1},
		{"full stop then word continues the list",
			"tipo: furto data: 01/01/20 local: rua. esquina. relato: a envolvidos: b objetos: c", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := newFile(tt.src)
			res, err := parser.New(file, parser.Options{}).ParseDocument()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Records != tt.records || len(res.Spans) != tt.records {
				t.Fatalf("records = %d (spans %d), want %d", res.Records, len(res.Spans), tt.records)
			}
			if err := testkit.CheckRecordSpans(res.Spans, file); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestMissingTypeLabel(t *testing.T) {
	tests := []struct {
		name string
		src  string
		off  uint32
	}{
		{"label and space removed", strings.TrimPrefix(sample, "tipo: "), 0},
		// offsets are reported after whitespace is skipped
		{"label removed", strings.TrimPrefix(sample, "tipo:"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.src, parser.Options{})
			var tokErr *lexer.UnexpectedTokenError
			if !errors.As(err, &tokErr) {
				t.Fatalf("expected UnexpectedTokenError, got %T: %v", err, err)
			}
			if tokErr.Expected != token.LabelTipo || tokErr.At.Start != tt.off {
				t.Fatalf("expected %s at %d, got %s at %d", token.LabelTipo, tt.off, tokErr.Expected, tokErr.At.Start)
			}
			if tokErr.Found != "furto" {
				t.Fatalf("found = %q", tokErr.Found)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		eof      bool
		expected token.Kind
		off      uint32
	}{
		{"empty input", "", true, token.LabelTipo, 0},
		{"only whitespace", " \n\t", true, token.LabelTipo, 3},
		{"day out of digit class", strings.Replace(sample, "01/01/20", "40/01/20", 1), false, token.Date, 18},
		{"unknown nature", "tipo: briga", false, token.Nature, 6},
		{"nature prefix leaves garbage", "tipo: furtos data: 01/01/20", false, token.LabelData, 11},
		{"end of input after narrative label",
			"tipo: furto\ndata: 01/01/20\nlocal: praça.\nrelato:", true, token.Word, 49},
		{"end of input after nature", "tipo: roubo ", true, token.LabelData, 12},
		{"fields out of order",
			"tipo: furto data: 01/01/20 relato: x local: y envolvidos: z objetos: w", false, token.LabelLocal, 27},
		{"second record broken",
			sample + "tipo: furto data: 01/01/20 local: x relato: y envolvidos: z", true, token.LabelObjetos, uint32(len(sample)) + 59},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.src, parser.Options{})
			if err == nil {
				t.Fatal("expected an error")
			}
			var (
				got   token.Kind
				at    uint32
				isEOF bool
			)
			var tokErr *lexer.UnexpectedTokenError
			var eofErr *lexer.UnexpectedEOFError
			switch {
			case errors.As(err, &tokErr):
				got, at = tokErr.Expected, tokErr.At.Start
			case errors.As(err, &eofErr):
				got, at, isEOF = eofErr.Expected, eofErr.At.Start, true
			default:
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if isEOF != tt.eof || got != tt.expected || at != tt.off {
				t.Fatalf("got (eof=%v, %s, %d), want (eof=%v, %s, %d)", isEOF, got, at, tt.eof, tt.expected, tt.off)
			}
		})
	}
}

func TestNoTokenMatchedPropagates(t *testing.T) {
	tests := []struct {
		name string
		src  string
		off  uint32 // байты
		char uint32 // символы, как в сообщении
	}{
		// "relato" is taken as a word after the comma, then ':' matches nothing
		{"comma before label", "tipo: furto data: 01/01/20 local: rua, relato: x", 45, 45},
		{"stray colon", "tipo: furto data: 01/01/20 local: rua : x", 38, 38},
		{"question mark after full stop", "tipo: furto data: 01/01/20 local: rua. ?", 39, 39},
		{"accented word before the error", "tipo: furto data: 01/01/20 local: praça ! x", 41, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.src, parser.Options{})
			var nm *lexer.NoTokenMatchedError
			if !errors.As(err, &nm) {
				t.Fatalf("expected NoTokenMatchedError, got %T: %v", err, err)
			}
			if nm.At.Start != tt.off {
				t.Fatalf("offset = %d, want %d", nm.At.Start, tt.off)
			}
			if want := fmt.Sprintf("at offset %d", tt.char); !strings.Contains(nm.Error(), want) {
				t.Fatalf("message %q does not mention %q", nm.Error(), want)
			}
		})
	}
}

func TestIsCleanEnd(t *testing.T) {
	at := source.Span{}
	tests := []struct {
		err  error
		want bool
	}{
		{&lexer.UnexpectedEOFError{Expected: token.LabelTipo, At: at}, true},
		{&lexer.UnexpectedEOFError{Expected: token.Word, At: at}, false},
		{&lexer.UnexpectedTokenError{Expected: token.LabelTipo, At: at}, false},
		{&lexer.NoTokenMatchedError{At: at}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := parser.IsCleanEnd(tt.err); got != tt.want {
			t.Errorf("IsCleanEnd(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := parser.Validate(newFile(sample)); err != nil {
		t.Fatalf("sample rejected: %v", err)
	}
	if err := parser.Validate(newFile("data: 01/01/20")); err == nil {
		t.Fatal("expected error for a record without type label")
	}
}

func TestDiagnosticsReported(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		code  diag.Code
		notes int
	}{
		{"unexpected token", "tipo: furto data: 40/01/20", diag.SynUnexpectedToken, 1},
		{"unexpected end of input", "tipo: furto data: 01/01/20 local:", diag.SynUnexpectedEOF, 1},
		{"no token matched", "tipo: furto data: 01/01/20 local: a ! b", diag.LexNoTokenMatched, 1},
		{"first label missing", "furto", diag.SynUnexpectedToken, 0},
		{"empty document", "", diag.SynUnexpectedEOF, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := diag.NewBag(8)
			_, err := parse(t, tt.src, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
			if err == nil {
				t.Fatal("expected an error")
			}
			if bag.Len() != 1 {
				t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
			}
			d := bag.Items()[0]
			if d.Code != tt.code || d.Severity != diag.SevError {
				t.Fatalf("got %s/%s, want %s", d.Code.ID(), d.Severity, tt.code.ID())
			}
			if len(d.Notes) != tt.notes {
				t.Fatalf("notes = %d, want %d", len(d.Notes), tt.notes)
			}
			if tt.notes > 0 && d.Notes[0].Span.Start != 0 {
				t.Fatalf("note should point at the record header, got %s", d.Notes[0].Span)
			}
		})
	}

	bag := diag.NewBag(8)
	if _, err := parse(t, sample+sample, parser.Options{Reporter: diag.BagReporter{Bag: bag}}); err != nil {
		t.Fatal(err)
	}
	if bag.Len() != 0 {
		t.Fatalf("clean end must not be reported, got %d diagnostics", bag.Len())
	}
}

func TestDiagnosticMessage(t *testing.T) {
	bag := diag.NewBag(1)
	_, _ = parse(t, "tipo: furto data: 40/01/20", parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	want := `expected date (DD/MM/YY), found "40/01/20"`
	if got := bag.Items()[0].Message; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

type pointRecorder struct {
	mu     sync.Mutex
	points []trace.Event
}

func (r *pointRecorder) Emit(ev trace.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append(r.points, ev)
}
func (r *pointRecorder) Flush() error { return nil }
func (r *pointRecorder) Close() error { return nil }
func (r *pointRecorder) Level() trace.Level { return trace.LevelDebug }
func (r *pointRecorder) Enabled() bool { return true }

func TestRecordTracePoints(t *testing.T) {
	rec := &pointRecorder{}
	res, err := parse(t, strings.Repeat(sample, 4), parser.Options{Tracer: rec, TraceParent: 9})
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.points) != res.Records || res.Records != 4 {
		t.Fatalf("points = %d, records = %d", len(rec.points), res.Records)
	}
	p := rec.points[0]
	if p.Kind != trace.KindPoint || p.Scope != trace.ScopeNode || p.ParentID != 9 {
		t.Fatalf("unexpected point %+v", p)
	}
	if !strings.HasPrefix(p.Detail, "#1 furto ") {
		t.Fatalf("detail = %q", p.Detail)
	}
}

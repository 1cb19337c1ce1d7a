package fuzztests

import (
	"errors"
	"testing"

	"segpub/internal/diag"
	"segpub/internal/lexer"
	"segpub/internal/source"
	"segpub/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.txt", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var prevEnd uint32
		for {
			tok, err := lx.Next()
			if err != nil {
				var nm *lexer.NoTokenMatchedError
				if !errors.As(err, &nm) {
					t.Fatalf("free scan returned %T, want *NoTokenMatchedError", err)
				}
				if lx.Pos() != nm.At.Start {
					t.Fatalf("failed scan moved cursor: pos %d, error at %d", lx.Pos(), nm.At.Start)
				}
				if bag.Len() != 1 {
					t.Fatalf("want one LEX diagnostic, got %d", bag.Len())
				}
				return
			}
			if tok.Kind.IsEOF() {
				if int(tok.Span.Start) != len(file.Content) {
					t.Fatalf("EOF at %d, content is %d bytes", tok.Span.Start, len(file.Content))
				}
				return
			}
			if tok.Span.Start < prevEnd || tok.Span.End <= tok.Span.Start {
				t.Fatalf("bad span %v after offset %d", tok.Span, prevEnd)
			}
			if got := string(file.Content[tok.Span.Start:tok.Span.End]); got != tok.Text {
				t.Fatalf("token text %q does not match source %q", tok.Text, got)
			}
			prevEnd = tok.Span.End
		}
	})
}

// FuzzExpectKeepsPosition: a failed Expect only skips whitespace.
func FuzzExpectKeepsPosition(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.txt", input))
		for k := token.LabelTipo; int(k) < token.KindCount; k++ {
			lx := lexer.New(file, lexer.Options{})
			lx.SkipWhitespace()
			at := lx.Pos()
			tok, err := lx.Expect(k)
			if err == nil {
				if tok.Kind != k || tok.Span.Start != at || lx.Pos() != tok.Span.End {
					t.Fatalf("Expect(%s) = %+v, pos %d", k, tok, lx.Pos())
				}
				continue
			}
			if lx.Pos() != at {
				t.Fatalf("Expect(%s) failed and moved cursor from %d to %d", k, at, lx.Pos())
			}
		}
	})
}

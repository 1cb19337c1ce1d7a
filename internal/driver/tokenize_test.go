package driver

import (
	"context"
	"errors"
	"slices"
	"testing"

	"segpub/internal/diag"
	"segpub/internal/lexer"
	"segpub/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeGrammarGuided(t *testing.T) {
	path := writeFile(t, t.TempDir(), "r.txt", "tipo: furto data: 01/01/20 12:00 local: rua relato: a. envolvidos: b objetos: c")
	res, err := Tokenize(context.Background(), path, false, CheckOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	want := []token.Kind{
		token.LabelTipo, token.Nature, token.LabelData, token.Date, token.Time,
		token.LabelLocal, token.Word, token.LabelRelato, token.Word, token.Punct,
		token.LabelEnvolvidos, token.Word, token.LabelObjetos, token.Word, token.EOF,
	}
	if got := kinds(res.Tokens); !slices.Equal(got, want) {
		t.Fatalf("kinds = %v\nwant    %v", got, want)
	}
	if eof := res.Tokens[len(res.Tokens)-1]; int(eof.Span.Start) != len(res.File.Content) {
		t.Fatalf("EOF at %d", eof.Span.Start)
	}
}

func TestTokenizeGrammarStopsAtError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "r.txt", "tipo: furto data: 40/01/20")
	res, err := Tokenize(context.Background(), path, false, CheckOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Err == nil || len(res.Tokens) != 3 {
		t.Fatalf("err=%v tokens=%v", res.Err, kinds(res.Tokens))
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.SynUnexpectedToken {
		t.Fatalf("diagnostics: %+v", res.Bag.Items())
	}
}

func TestTokenizeFree(t *testing.T) {
	path := writeFile(t, t.TempDir(), "r.txt", "tipo: furto local: rua.")
	res, err := Tokenize(context.Background(), path, true, CheckOptions{})
	if err != nil || res.Err != nil {
		t.Fatal(err, res.Err)
	}
	// free scanning tries word before nature
	want := []token.Kind{token.LabelTipo, token.Word, token.LabelLocal, token.Word, token.Punct, token.EOF}
	if got := kinds(res.Tokens); !slices.Equal(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestTokenizeFreeCannotLexDates(t *testing.T) {
	path := writeFile(t, t.TempDir(), "r.txt", "data: 01/01/20")
	res, err := Tokenize(context.Background(), path, true, CheckOptions{})
	if err != nil {
		t.Fatal(err)
	}
	var nm *lexer.NoTokenMatchedError
	if !errors.As(res.Err, &nm) || nm.At.Start != 8 {
		t.Fatalf("expected no-token-matched at '/', got %v", res.Err)
	}
	if got := kinds(res.Tokens); !slices.Equal(got, []token.Kind{token.LabelData, token.Word}) {
		t.Fatalf("kinds = %v", got)
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.LexNoTokenMatched {
		t.Fatalf("diagnostics: %+v", res.Bag.Items())
	}
}

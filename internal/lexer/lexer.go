package lexer

import (
	"segpub/internal/diag"
	"segpub/internal/source"
	"segpub/internal/token"
)

// Lexer is a lazy tokenizer: it never materializes a token stream. The only
// state is the cursor; a failed match leaves it where it was.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the buffer being scanned.
func (lx *Lexer) File() *source.File { return lx.file }

// Pos returns the current scan offset.
func (lx *Lexer) Pos() uint32 { return lx.cursor.Off }

// EmptySpan returns an empty span at the current offset.
func (lx *Lexer) EmptySpan() source.Span { return lx.cursor.Here() }

// SkipWhitespace advances past spaces, tabs, carriage returns and newlines.
func (lx *Lexer) SkipWhitespace() {
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// PeekKind reports the kind free scanning would recognize next, without
// consuming it. At end of input it returns token.EOF and no error.
func (lx *Lexer) PeekKind() (token.Kind, error) {
	lx.SkipWhitespace()
	if lx.cursor.EOF() {
		return token.EOF, nil
	}
	rest := lx.cursor.Rest()
	for _, r := range rules {
		if r.match(rest) > 0 {
			return r.kind, nil
		}
	}
	at := lx.cursor.Here()
	return token.Invalid, &NoTokenMatchedError{At: at, Offset: lx.file.CharOffset(at.Start), Found: snippet(rest)}
}

// Expect tries only the pattern of k at the current position. On success the
// cursor moves past the lexeme; on failure it stays put and the error is an
// *UnexpectedEOFError or an *UnexpectedTokenError.
func (lx *Lexer) Expect(k token.Kind) (token.Token, error) {
	lx.SkipWhitespace()
	at := lx.cursor.Here()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.Invalid, Span: at}, &UnexpectedEOFError{Expected: k, At: at}
	}

	rest := lx.cursor.Rest()
	n := 0
	if m := matcherFor(k); m != nil {
		n = m(rest)
	}
	if n == 0 {
		return token.Token{Kind: token.Invalid, Span: at}, &UnexpectedTokenError{
			Expected: k,
			At:       at,
			Offset:   lx.file.CharOffset(at.Start),
			Found:    snippet(rest),
		}
	}

	start := lx.cursor.Mark()
	lx.cursor.Advance(n)
	sp := lx.cursor.SpanFrom(start)
	tok := token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	if lx.opts.OnToken != nil {
		lx.opts.OnToken(tok)
	}
	return tok, nil
}

// TryExpect is the optional form of Expect: absence is a plain false, not an error.
func (lx *Lexer) TryExpect(k token.Kind) (token.Token, bool) {
	tok, err := lx.Expect(k)
	return tok, err == nil
}

// Next сканирует следующий токен свободно (PeekKind + Expect).
// После EOF всегда возвращает EOF. Используется для дампа токенов.
func (lx *Lexer) Next() (token.Token, error) {
	k, err := lx.PeekKind()
	if err != nil {
		if nm, ok := err.(*NoTokenMatchedError); ok {
			lx.report(diag.LexNoTokenMatched, nm.At, nm.Error())
		}
		return token.Token{Kind: token.Invalid, Span: lx.cursor.Here()}, err
	}
	if k == token.EOF {
		return token.Token{Kind: token.EOF, Span: lx.cursor.Here()}, nil
	}
	return lx.Expect(k)
}

package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"segpub/internal/source"
	"segpub/internal/token"
)

// NoTokenMatchedError: free lookahead found input that no kind accepts.
type NoTokenMatchedError struct {
	At     source.Span
	Offset uint32 // символов до At.Start
	Found  string
}

func (e *NoTokenMatchedError) Error() string {
	return fmt.Sprintf("no token matches %q at offset %d", e.Found, e.Offset)
}

// Span covers the unrecognized text.
func (e *NoTokenMatchedError) Span() source.Span { return widen(e.At, e.Found) }

// UnexpectedTokenError: the pattern of Expected did not match, input remains.
type UnexpectedTokenError struct {
	Expected token.Kind
	At       source.Span
	Offset   uint32 // символов до At.Start
	Found    string
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("expected %s at offset %d, found %q", e.Expected, e.Offset, e.Found)
}

// Span covers the offending text.
func (e *UnexpectedTokenError) Span() source.Span { return widen(e.At, e.Found) }

// UnexpectedEOFError: a specific kind was requested after the last token.
type UnexpectedEOFError struct {
	Expected token.Kind
	At       source.Span
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("expected %s, found end of input", e.Expected)
}

// Span returns the end-of-input position.
func (e *UnexpectedEOFError) Span() source.Span { return e.At }

const maxSnippet = 16

// widen stretches at over found. Found is capped by snippet, but the length
// still goes through safecast so a bad caller panics instead of wrapping.
func widen(at source.Span, found string) source.Span {
	n, err := safecast.Conv[uint32](len(found))
	if err != nil {
		panic(fmt.Errorf("lexer: snippet length: %w", err))
	}
	at.End = at.Start + n
	return at
}

// snippet cuts the text at the failure point for messages: up to the next
// whitespace, at most maxSnippet bytes, never splitting a rune.
func snippet(rest []byte) string {
	n := 0
	for n < len(rest) && !isSpace(rest[n]) {
		_, sz := utf8.DecodeRune(rest[n:])
		if n+sz > maxSnippet {
			break
		}
		n += sz
	}
	if n == 0 && len(rest) > 0 {
		_, n = utf8.DecodeRune(rest)
	}
	return string(rest[:n])
}

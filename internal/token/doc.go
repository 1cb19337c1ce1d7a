// Package token defines the token kinds of incident reports and their fixed
// vocabularies.
// Invariants:
//   - Token.Text equals the buffer bytes under Span.
//   - Token.Span matches Text exactly (Start..End).
//   - The six label kinds form the only set used by lookahead to end a word list.
//   - Vocabularies are compile-time constants; nothing here is configurable.
package token

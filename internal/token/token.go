package token

import (
	"segpub/internal/source"
)

// Token is a single recognized lexeme. It is produced by a consuming match and
// not retained by the parser beyond the step that consumed it.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsFullStop reports whether the token is the '.' punctuation mark, the only
// mark after which a word list may end.
func (t Token) IsFullStop() bool { return t.Kind == Punct && t.Text == "." }

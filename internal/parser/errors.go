package parser

import (
	"errors"
	"fmt"

	"segpub/internal/diag"
	"segpub/internal/lexer"
	"segpub/internal/token"
)

// IsCleanEnd reports whether err is the failure that terminates a document
// after at least one record: end of input where 'tipo:' was expected.
// ParseDocument already applies it; a first record failing this way is still
// an error.
func IsCleanEnd(err error) bool {
	var eof *lexer.UnexpectedEOFError
	return errors.As(err, &eof) && eof.Expected == token.LabelTipo
}

// fail reports err to the configured Reporter and hands it back unchanged.
func (p *Parser) fail(err error) error {
	if p.opts.Reporter == nil {
		return err
	}

	var (
		tokErr *lexer.UnexpectedTokenError
		eofErr *lexer.UnexpectedEOFError
		nmErr  *lexer.NoTokenMatchedError
		rb     *diag.ReportBuilder
	)
	switch {
	case errors.As(err, &tokErr):
		rb = diag.ReportError(p.opts.Reporter, diag.SynUnexpectedToken, tokErr.Span(),
			fmt.Sprintf("expected %s, found %q", tokErr.Expected.Describe(), tokErr.Found))
	case errors.As(err, &eofErr):
		rb = diag.ReportError(p.opts.Reporter, diag.SynUnexpectedEOF, eofErr.Span(),
			fmt.Sprintf("expected %s, found end of input", eofErr.Expected.Describe()))
	case errors.As(err, &nmErr):
		rb = diag.ReportError(p.opts.Reporter, diag.LexNoTokenMatched, nmErr.Span(),
			fmt.Sprintf("unrecognized input %q", nmErr.Found))
	default:
		return err
	}
	if p.inRecord {
		rb.WithNote(p.record, "in the record declared here")
	}
	rb.Emit()
	return err
}

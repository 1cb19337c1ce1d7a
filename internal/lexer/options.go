package lexer

import (
	"segpub/internal/diag"
	"segpub/internal/source"
	"segpub/internal/token"
)

type Options struct {
	// Reporter receives LEX diagnostics produced by free scanning (Next).
	// May be nil. Expect and PeekKind only return errors; reporting them is
	// the caller's business.
	Reporter diag.Reporter
	// OnToken, if set, sees every token consumed by a successful Expect.
	OnToken func(token.Token)
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

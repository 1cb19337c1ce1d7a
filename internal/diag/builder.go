package diag

import (
	"slices"

	"segpub/internal/source"
)

// New собирает диагностику без заметок.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary}
}

// NewError is New at SevError, the severity that rejects a report.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns d with one more note. The receiver's Notes are clipped
// first, so two notes added to copies of one diagnostic never overwrite each
// other in a shared backing array.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(slices.Clip(d.Notes), Note{Span: sp, Msg: msg})
	return d
}

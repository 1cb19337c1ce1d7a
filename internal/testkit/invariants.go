package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"segpub/internal/source"
)

// CheckRecordSpans runs the span invariants of a successfully validated
// document against its source:
// 1) every record span is non-empty, belongs to sf and lies within its content
// 2) every record starts at a 'tipo:' label
// 3) records are ordered and do not overlap
// 4) only whitespace lies outside the records
func CheckRecordSpans(spans []source.Span, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(spans) == 0 {
		return fmt.Errorf("valid document without records")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for i, sp := range spans {
		if sp.End <= sp.Start {
			return fmt.Errorf("record %d: empty span %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("record %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("record %d: span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if !bytes.HasPrefix(sf.Content[sp.Start:], []byte("tipo:")) {
			return fmt.Errorf("record %d: span %v does not start at a tipo: label", i, sp)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("record %d: span %v overlaps previous record ending at %d", i, sp, prevEnd)
		}
		if gap := sf.Content[prevEnd:sp.Start]; !isBlank(gap) {
			return fmt.Errorf("record %d: non-blank text %q before the record", i, gap)
		}
		prevEnd = sp.End
	}
	if tail := sf.Content[prevEnd:]; !isBlank(tail) {
		return fmt.Errorf("non-blank text %q after the last record", tail)
	}
	return nil
}

func isBlank(b []byte) bool {
	return len(bytes.TrimLeft(b, " \t\r\n")) == 0
}

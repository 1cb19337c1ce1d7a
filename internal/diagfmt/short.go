package diagfmt

import (
	"fmt"
	"io"

	"segpub/internal/diag"
	"segpub/internal/source"
)

// Short prints one line per diagnostic: "<sev> <CODE> <path>:<line>:<col> <message>".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	if bag == nil {
		return nil
	}
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

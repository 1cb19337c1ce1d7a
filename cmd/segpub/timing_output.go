package main

import (
	"fmt"
	"io"

	"segpub/internal/diag"
	"segpub/internal/observ"
	"segpub/internal/source"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}

// timingDiagnostics turns the finished phases of timer into OBS6001 infos
// anchored at sp, ready to be merged into the rendered bag.
func timingDiagnostics(timer *observ.Timer, sp source.Span) *diag.Bag {
	bag := diag.NewBag(len(timer.Report().Phases))
	timer.ReportTo(diag.BagReporter{Bag: bag}, sp)
	return bag
}

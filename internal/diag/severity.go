package diag

import "fmt"

// Severity orders diagnostics: a report is rejected by SevError only,
// OBS6001 timings and cache warnings never fail a check.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// заголовок для pretty и метка для короткого вывода
var severityNames = [...]struct{ title, label string }{
	SevInfo:    {"INFO", "info"},
	SevWarning: {"WARNING", "warning"},
	SevError:   {"ERROR", "error"},
}

// Valid reports whether s is one of the known severities. Severities read
// back from the disk cache are checked with it.
func (s Severity) Valid() bool { return int(s) < len(severityNames) }

func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Severity(%d)", uint8(s))
	}
	return severityNames[s].title
}

// label is the lower-case form used by FormatShortDiagnostics.
func (s Severity) label() string {
	if !s.Valid() {
		return "info"
	}
	return severityNames[s].label
}

package testkit

import (
	"strings"
	"testing"

	"segpub/internal/source"
)

func TestCheckRecordSpans(t *testing.T) {
	const doc = "tipo: furto x.\n  tipo: roubo y.\n"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("doc.txt", []byte(doc)))
	id := file.ID
	first := source.Span{File: id, Start: 0, End: 14}
	second := source.Span{File: id, Start: 17, End: 31}

	tests := []struct {
		name  string
		spans []source.Span
		want  string
	}{
		{"ok", []source.Span{first, second}, ""},
		{"no records", nil, "without records"},
		{"empty", []source.Span{{File: id, Start: 3, End: 3}}, "empty span"},
		{"wrong file", []source.Span{{File: id + 1, Start: 0, End: 14}, second}, "file mismatch"},
		{"beyond content", []source.Span{first, {File: id, Start: 17, End: 99}}, "beyond content"},
		{"not at label", []source.Span{{File: id, Start: 1, End: 14}, second}, "tipo: label"},
		{"overlap", []source.Span{{File: id, Start: 0, End: 20}, second}, "overlaps"},
		{"gap text", []source.Span{{File: id, Start: 0, End: 12}, second}, "before the record"},
		{"tail text", []source.Span{first, {File: id, Start: 17, End: 29}}, "after the last record"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRecordSpans(tt.spans, file)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

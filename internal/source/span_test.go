package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Span
		want  Span
	}{
		{"disjoint", Span{File: 1, Start: 0, End: 5}, Span{File: 1, Start: 10, End: 12}, Span{File: 1, Start: 0, End: 12}},
		{"nested", Span{File: 1, Start: 0, End: 20}, Span{File: 1, Start: 3, End: 4}, Span{File: 1, Start: 0, End: 20}},
		{"reversed", Span{File: 1, Start: 10, End: 12}, Span{File: 1, Start: 2, End: 3}, Span{File: 1, Start: 2, End: 12}},
		{"other file is ignored", Span{File: 1, Start: 4, End: 5}, Span{File: 2, Start: 0, End: 100}, Span{File: 1, Start: 4, End: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Errorf("Cover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpan_LenEmptyString(t *testing.T) {
	s := Span{File: 3, Start: 7, End: 12}
	if s.Len() != 5 {
		t.Errorf("Len() = %d", s.Len())
	}
	if s.Empty() {
		t.Error("span must not be empty")
	}
	if got := s.String(); got != "3:7-12" {
		t.Errorf("String() = %q", got)
	}
	at := At(3, 9)
	if !at.Empty() || at.Start != 9 || at.File != 3 {
		t.Errorf("At() = %v", at)
	}
}

package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"segpub/internal/token"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, предел для тестового корпуса
)

const maxFuzzInput = 1 << 16 // 64 KiB

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addVocabularySeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "reports")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.txt отчёты
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".txt" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	// хотя бы один минимальный пример на случай пустого testdata
	f.Add([]byte{})
	f.Add([]byte("tipo: furto data: 01/01/20 local: a relato: b envolvidos: c objetos: d"))
}

// addVocabularySeeds: every label and nature alone, so the fuzzer starts
// from each keyword.
func addVocabularySeeds(f *testing.F) {
	for _, l := range token.Labels {
		kw, _ := token.LabelKeyword(l)
		f.Add([]byte(kw))
	}
	for _, n := range token.Natures() {
		f.Add([]byte(n))
	}
	f.Add([]byte("31/12/99 23:59"))
	f.Add([]byte("guarda-chuva, praça; joão."))
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

package source

type (
	// FileID uniquely identifies a report buffer within a FileSet.
	FileID uint32
	// FileFlags records how the buffer was acquired and normalized.
	FileFlags uint8
)

const (
	// FileVirtual marks a buffer that did not come from disk (stdin, tests).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC // decomposed accents were composed (é = e + U+0301)
)

// File is a complete in-memory report handed to the lexer before parsing starts.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a report.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in characters (runes)
}

package lexer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"segpub/internal/token"
)

// matcher reports how many bytes at the start of src form a lexeme of its
// kind; 0 means no match. Matchers anchor at src[0] and never look for a
// boundary after the lexeme.
type matcher func(src []byte) int

type rule struct {
	kind  token.Kind
	match matcher
}

// rules is the free-scan priority order and is load-bearing:
//   - labels precede Word, otherwise "tipo:" lexes as the word "tipo";
//   - Word precedes Date and Time, so lookahead at "01/01/20" sees a word;
//   - Nature is last and shadowed by Word, it only appears through Expect.
var rules = [...]rule{
	{token.LabelTipo, literal("tipo:")},
	{token.LabelData, literal("data:")},
	{token.LabelLocal, literal("local:")},
	{token.LabelRelato, literal("relato:")},
	{token.LabelEnvolvidos, literal("envolvidos:")},
	{token.LabelObjetos, literal("objetos:")},
	{token.Word, matchWord},
	{token.Date, matchDate},
	{token.Time, matchTime},
	{token.Punct, matchPunct},
	{token.Nature, matchNature},
}

// matchers indexes rules by kind for Expect.
var matchers = func() (m [token.KindCount]matcher) {
	for _, r := range rules {
		m[r.kind] = r.match
	}
	return m
}()

func matcherFor(k token.Kind) matcher {
	if int(k) >= len(matchers) {
		return nil
	}
	return matchers[k]
}

func literal(lit string) matcher {
	b := []byte(lit)
	return func(src []byte) int {
		if bytes.HasPrefix(src, b) {
			return len(b)
		}
		return 0
	}
}

// accented lists the non-ASCII letters accepted inside words.
const accented = "àáâãéêíóôõúçÀÁÂÃÉÊÍÓÔÕÚÇ"

func isWordLetter(r rune) bool {
	if r < utf8.RuneSelf {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}
	return strings.ContainsRune(accented, r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func inRange(b, lo, hi byte) bool { return b >= lo && b <= hi }

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// matchWord: a run of digits, or letter runs joined by single hyphens.
// Digits and letters never mix in one word.
func matchWord(src []byte) int {
	n := 0
	for n < len(src) && isDec(src[n]) {
		n++
	}
	if n > 0 {
		return n
	}
	n = letterRun(src)
	if n == 0 {
		return 0
	}
	for n < len(src) && src[n] == '-' {
		m := letterRun(src[n+1:])
		if m == 0 {
			break // висячий дефис не входит в слово
		}
		n += 1 + m
	}
	return n
}

func letterRun(src []byte) int {
	n := 0
	for n < len(src) {
		r, sz := utf8.DecodeRune(src[n:])
		if !isWordLetter(r) {
			break
		}
		n += sz
	}
	return n
}

// matchDate: [0-3][0-9]/[0-1][0-9]/[0-9][0-9]. Only digit classes are
// checked, 31/02/99 is a date for the lexer.
func matchDate(src []byte) int {
	if len(src) < 8 {
		return 0
	}
	ok := inRange(src[0], '0', '3') && isDec(src[1]) && src[2] == '/' &&
		inRange(src[3], '0', '1') && isDec(src[4]) && src[5] == '/' &&
		isDec(src[6]) && isDec(src[7])
	if !ok {
		return 0
	}
	return 8
}

// matchTime: [0-2][0-9]:[0-5][0-9]
func matchTime(src []byte) int {
	if len(src) < 5 {
		return 0
	}
	ok := inRange(src[0], '0', '2') && isDec(src[1]) && src[2] == ':' &&
		inRange(src[3], '0', '5') && isDec(src[4])
	if !ok {
		return 0
	}
	return 5
}

func matchPunct(src []byte) int {
	if len(src) > 0 && (src[0] == '.' || src[0] == ',' || src[0] == ';') {
		return 1
	}
	return 0
}

var natureLexemes = func() [][]byte {
	names := token.Natures()
	out := make([][]byte, len(names))
	for i, n := range names {
		out[i] = []byte(n)
	}
	return out
}()

func matchNature(src []byte) int {
	for _, n := range natureLexemes {
		if bytes.HasPrefix(src, n) {
			return len(n)
		}
	}
	return 0
}

package parser

import (
	"fmt"

	"segpub/internal/diag"
	"segpub/internal/lexer"
	"segpub/internal/source"
	"segpub/internal/token"
	"segpub/internal/trace"
)

type Options struct {
	// Reporter receives the first error as a diagnostic. May be nil.
	Reporter diag.Reporter
	// Tracer gets one point per parsed record (ScopeNode). May be nil.
	Tracer trace.Tracer
	// TraceParent is the span id records are attached to.
	TraceParent uint64
	// OnToken sees every token the grammar consumed, in order.
	OnToken func(token.Token)
}

// Result is what validation learns about a valid document. Records are not
// materialized: only their count and header-to-last-token spans survive.
type Result struct {
	Records int
	Spans   []source.Span
}

// Parser: состояние разбора одного документа
type Parser struct {
	lx   *lexer.Lexer
	file *source.File
	opts Options

	lastEnd  uint32      // конец последнего съеденного токена
	record   source.Span // span текущей записи, пока она разбирается
	inRecord bool
}

func New(file *source.File, opts Options) *Parser {
	p := &Parser{file: file, opts: opts}
	p.lx = lexer.New(file, lexer.Options{OnToken: p.consumed})
	return p
}

func (p *Parser) consumed(tok token.Token) {
	p.lastEnd = tok.Span.End
	if p.opts.OnToken != nil {
		p.opts.OnToken(tok)
	}
}

// Validate parses file as a document and returns the first syntax error.
func Validate(file *source.File) error {
	_, err := New(file, Options{}).ParseDocument()
	return err
}

// ParseDocument: Document := Record+.
//
// The first record is mandatory. After it, records are parsed until one fails;
// the document ends cleanly only when that failure is end of input where a
// 'tipo:' label was expected. Any other failure is the document's error.
func (p *Parser) ParseDocument() (Result, error) {
	var res Result
	if err := p.parseRecord(&res); err != nil {
		return res, p.fail(err)
	}
	for {
		err := p.parseRecord(&res)
		if err == nil {
			continue
		}
		if IsCleanEnd(err) {
			return res, nil
		}
		return res, p.fail(err)
	}
}

// Record := T Nature D DateTime L WordList R WordList E WordList O WordList
func (p *Parser) parseRecord(res *Result) error {
	p.inRecord = false
	head, err := p.lx.Expect(token.LabelTipo)
	if err != nil {
		return err
	}
	p.record, p.inRecord = head.Span, true

	nature, err := p.lx.Expect(token.Nature)
	if err != nil {
		return err
	}
	if _, err := p.lx.Expect(token.LabelData); err != nil {
		return err
	}
	if err := p.parseDateTime(); err != nil {
		return err
	}
	for _, label := range [...]token.Kind{
		token.LabelLocal,
		token.LabelRelato,
		token.LabelEnvolvidos,
		token.LabelObjetos,
	} {
		if _, err := p.lx.Expect(label); err != nil {
			return err
		}
		if err := p.parseWordList(); err != nil {
			return err
		}
	}

	p.record.End = p.lastEnd
	res.Records++
	res.Spans = append(res.Spans, p.record)
	trace.Point(p.opts.Tracer, trace.ScopeNode, "record",
		fmt.Sprintf("#%d %s %s", res.Records, nature.Text, p.record), p.opts.TraceParent)
	return nil
}

// DateTime := date-literal [ time-literal ]
func (p *Parser) parseDateTime() error {
	if _, err := p.lx.Expect(token.Date); err != nil {
		return err
	}
	p.lx.TryExpect(token.Time)
	return nil
}

// WordList := word (ListTail)?
//
// Words may be followed by one punctuation mark. A ',' or ';' always
// continues the list; after '.' or no mark the list ends if a label follows.
// Otherwise the list goes on while words are found.
func (p *Parser) parseWordList() error {
	if _, err := p.lx.Expect(token.Word); err != nil {
		return err
	}
	for {
		end, err := p.endsAfterWord()
		if err != nil || end {
			return err
		}
		if _, ok := p.lx.TryExpect(token.Word); !ok {
			return nil
		}
	}
}

func (p *Parser) endsAfterWord() (bool, error) {
	if mark, ok := p.lx.TryExpect(token.Punct); ok && !mark.IsFullStop() {
		return false, nil
	}
	next, err := p.lx.PeekKind()
	if err != nil {
		return false, err
	}
	return next.IsLabel(), nil
}

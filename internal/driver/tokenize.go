package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"segpub/internal/diag"
	"segpub/internal/lexer"
	"segpub/internal/source"
	"segpub/internal/token"
	"segpub/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	// Err is the error that stopped tokenization, nil if EOF was reached.
	Err error
}

// Tokenize dumps the tokens of a report.
//
// By default the grammar drives the lexer and the dump holds exactly the
// tokens a check consumes. With free set the lexer scans on its own using
// fixed priority; that mode cannot recognize dates, since "01" is a word.
func Tokenize(ctx context.Context, path string, free bool, opts CheckOptions) (*TokenizeResult, error) {
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "tokenize", trace.CurrentSpan(ctx))
	defer sp.End(path)
	ctx = trace.WithSpan(ctx, sp.ID())

	fs := source.NewFileSet()
	id, err := loadReport(ctx, fs, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fs.Get(id)
	res := &TokenizeResult{FileSet: fs, File: file}

	if free {
		res.Bag = diag.NewBag(opts.maxDiagnostics())
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
		for {
			tok, err := lx.Next()
			if err != nil {
				res.Err = err
				return res, nil
			}
			res.Tokens = append(res.Tokens, tok)
			if tok.Kind == token.EOF {
				return res, nil
			}
		}
	}

	opts.Cache = nil
	opts.OnToken = func(tok token.Token) { res.Tokens = append(res.Tokens, tok) }
	check := checkLoaded(ctx, fs, id, opts)
	res.Bag, res.Err = check.Bag, check.Err
	if res.Err == nil {
		size, err := safecast.Conv[uint32](len(file.Content))
		if err != nil {
			return nil, err
		}
		res.Tokens = append(res.Tokens, token.Token{Kind: token.EOF, Span: source.At(id, size)})
	}
	return res, nil
}

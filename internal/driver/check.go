package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"segpub/internal/diag"
	"segpub/internal/observ"
	"segpub/internal/parser"
	"segpub/internal/source"
	"segpub/internal/token"
	"segpub/internal/trace"
)

const (
	// StdinPath selects standard input instead of a file.
	StdinPath = "-"
	// DefaultMaxDiagnostics applies when CheckOptions.MaxDiagnostics <= 0.
	DefaultMaxDiagnostics = 100
)

type CheckOptions struct {
	MaxDiagnostics int
	// Cache, if set, short-circuits reports whose content was checked before.
	Cache *DiskCache
	// Timer collects load/parse phases. May be nil.
	Timer *observ.Timer
	// Stdin is read for StdinPath; defaults to os.Stdin.
	Stdin io.Reader
	// OnToken sees every token consumed by the grammar. Disables the cache.
	OnToken func(token.Token)
	// Progress receives per-file events of CheckDir.
	Progress ProgressSink
}

func (o CheckOptions) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// CheckResult is the outcome of validating one report.
type CheckResult struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
	Records int
	Spans   []source.Span
	// Err is the syntax error that rejected the report, nil if it is valid.
	Err    error
	Cached bool
}

// Valid reports whether the document was accepted.
func (r *CheckResult) Valid() bool {
	return r != nil && r.Err == nil && !r.Bag.HasErrors()
}

// Check loads a single report (or stdin for "-") and validates it.
// The returned error is an I/O failure; syntax errors live in CheckResult.
func Check(ctx context.Context, path string, opts CheckOptions) (*CheckResult, error) {
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "check", trace.CurrentSpan(ctx))
	defer sp.End(path)
	ctx = trace.WithSpan(ctx, sp.ID())

	fs := source.NewFileSet()
	id, err := loadReport(ctx, fs, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return checkLoaded(ctx, fs, id, opts), nil
}

func loadReport(ctx context.Context, fs *source.FileSet, path string, opts CheckOptions) (source.FileID, error) {
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "load", trace.CurrentSpan(ctx))
	idx := opts.Timer.Begin("load")
	defer func() {
		opts.Timer.End(idx, path)
		sp.End(path)
	}()

	if path == StdinPath {
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		return fs.Read("<stdin>", in)
	}
	return fs.Load(path)
}

// checkLoaded validates a file that is already in fs.
func checkLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, opts CheckOptions) *CheckResult {
	file := fs.Get(id)
	res := &CheckResult{FileSet: fs, File: file, Bag: diag.NewBag(opts.maxDiagnostics())}
	useCache := opts.Cache != nil && opts.OnToken == nil
	key := cacheKey(file.Hash)

	if useCache && lookupCache(ctx, res, opts.Cache, key) {
		return res
	}

	tracer := trace.FromContext(ctx)
	sp := trace.Begin(tracer, trace.ScopePass, "parse", trace.CurrentSpan(ctx))
	idx := opts.Timer.Begin("parse")
	out, err := parser.New(file, parser.Options{
		Reporter:    diag.BagReporter{Bag: res.Bag},
		Tracer:      tracer,
		TraceParent: sp.ID(),
		OnToken:     opts.OnToken,
	}).ParseDocument()
	opts.Timer.End(idx, fmt.Sprintf("%d records", out.Records))
	sp.WithExtra("records", strconv.Itoa(out.Records)).End(file.Path)

	res.Records, res.Spans, res.Err = out.Records, out.Spans, err

	if useCache {
		if err := opts.Cache.Put(key, resultToPayload(res)); err != nil {
			reportCacheError(res, "failed to store result in cache", err)
		}
	}
	return res
}

func lookupCache(ctx context.Context, res *CheckResult, cache *DiskCache, key Digest) bool {
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "cache", trace.CurrentSpan(ctx))
	var payload CachePayload
	ok, err := cache.Get(key, &payload)
	if err != nil {
		sp.End("miss")
		reportCacheError(res, "failed to read cached result", err)
		return false
	}
	if !ok {
		sp.End("miss")
		return false
	}

	hit := &CheckResult{FileSet: res.FileSet, File: res.File, Bag: diag.NewBag(res.Bag.Cap())}
	if err := restorePayload(hit, &payload); err != nil {
		sp.End("stale")
		reportCacheError(res, "ignoring cached result", err)
		return false
	}
	sp.End("hit")
	*res = *hit
	return true
}

func reportCacheError(res *CheckResult, msg string, err error) {
	diag.NewReportBuilder(diag.BagReporter{Bag: res.Bag}, diag.SevWarning, diag.IOCacheError,
		source.Span{File: res.File.ID}, fmt.Sprintf("%s: %v", msg, err)).Emit()
}

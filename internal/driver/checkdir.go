package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"segpub/internal/diag"
	"segpub/internal/source"
	"segpub/internal/trace"
)

// ReportExt is the extension of report files picked up by CheckDir.
const ReportExt = ".txt"

// ListReports возвращает отсортированный список всех *.txt файлов в директории
// (рекурсивно).
func ListReports(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ReportExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir validates every report under dir in parallel. Results are in
// ListReports order and share one FileSet. A report that cannot be read gets
// an IO4001 diagnostic instead of failing the run.
func CheckDir(ctx context.Context, dir string, opts CheckOptions, jobs int) (*source.FileSet, []*CheckResult, error) {
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "check-dir", trace.CurrentSpan(ctx))
	defer root.End(dir)

	files, err := ListReports(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}
	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// Файлы загружаются последовательно: FileSet не потокобезопасен на запись.
	loadIdx := opts.Timer.Begin("load")
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make([]error, len(files))
	for i, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			id = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = id
	}
	opts.Timer.End(loadIdx, fmt.Sprintf("%d files", len(files)))

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	perFile := opts
	perFile.Timer = nil
	perFile.OnToken = nil

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*CheckResult, len(files))

	parseIdx := opts.Timer.Begin("parse")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			started := time.Now()
			sp := trace.Begin(tracer, trace.ScopeFile, "file", root.ID())
			fctx := trace.WithSpan(gctx, sp.ID())
			emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})

			var res *CheckResult
			if loadErrors[i] != nil {
				res = &CheckResult{
					FileSet: fileSet,
					File:    fileSet.Get(fileIDs[i]),
					Bag:     diag.NewBag(perFile.maxDiagnostics()),
					Err:     loadErrors[i],
				}
				diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOLoadFileError,
					source.Span{File: fileIDs[i]}, "failed to load report: "+loadErrors[i].Error()).Emit()
			} else {
				res = checkLoaded(fctx, fileSet, fileIDs[i], perFile)
			}
			results[i] = res

			status := StatusDone
			if !res.Valid() {
				status = StatusError
			}
			stage := StageParse
			if res.Cached {
				stage = StageCache
			}
			sp.End(path)
			emit(opts.Progress, Event{File: path, Stage: stage, Status: status, Err: res.Err, Elapsed: time.Since(started)})
			return nil
		})
	}
	err = g.Wait()
	opts.Timer.End(parseIdx, fmt.Sprintf("%d files, %d jobs", len(files), jobs))
	return fileSet, results, err
}

// MergeBags collects the diagnostics of all results into one sorted bag
// without repeated code/span pairs.
func MergeBags(results []*CheckResult) *diag.Bag {
	out := diag.NewBag(0)
	for _, r := range results {
		if r != nil {
			out.Merge(r.Bag)
		}
	}
	out.Sort()
	out.Dedup()
	return out
}

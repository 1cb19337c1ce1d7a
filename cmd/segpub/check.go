package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"segpub/internal/diagfmt"
	"segpub/internal/driver"
	"segpub/internal/observ"
	"segpub/internal/source"
	"segpub/internal/trace"
)

// defaultInput is validated when check is run without arguments.
const defaultInput = "input.txt"

var checkCmd = &cobra.Command{
	Use:   "check [flags] [report.txt|directory|-]",
	Short: "Validate an incident report or a directory of reports",
	Long: `Check validates incident reports against the report grammar.
Without an argument input.txt is read; "-" reads standard input; a directory
checks every *.txt report below it in parallel.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	registerCheckFlags(checkCmd)
}

func registerCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse results of unchanged reports from the disk cache")
	cmd.Flags().Bool("clear-cache", false, "drop every cached result before checking")
	cmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	cmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	cmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
}

// checkReportJSON is one report in the json output of check.
type checkReportJSON struct {
	File    string `json:"file"`
	Valid   bool   `json:"valid"`
	Records int    `json:"records"`
	Cached  bool   `json:"cached,omitempty"`
	diagfmt.DiagnosticsOutput
}

type checkOutputJSON struct {
	Reports []checkReportJSON `json:"reports"`
	Valid   int               `json:"valid"`
	Invalid int               `json:"invalid"`
	Timings *observ.Report    `json:"timings,omitempty"`
}

// runCheck executes the "check" command. Reports with syntax errors make the
// command exit with status 1 after their diagnostics were printed.
func runCheck(cmd *cobra.Command, args []string) error {
	path := defaultInput
	if len(args) == 1 {
		path = args[0]
	}

	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	settings, err := resolveCheckSettings(cmd, cfg)
	if err != nil {
		return err
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	opts := driver.CheckOptions{
		MaxDiagnostics: maxDiagnostics,
		Stdin:          cmd.InOrStdin(),
	}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	if settings.Cache || clearCache {
		cache, err := openCheckCache("segpub", clearCache)
		if err != nil {
			// без кэша проверка всё равно возможна
			fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		} else if settings.Cache {
			opts.Cache = cache
		}
	}

	isDir := false
	if path != driver.StdinPath {
		st, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}
		isDir = st.IsDir()
	}

	var (
		fs      *source.FileSet
		results []*driver.CheckResult
	)
	if isDir {
		fs, results, err = checkDirectory(cmd.Context(), path, opts, settings)
	} else {
		var res *driver.CheckResult
		res, err = driver.Check(cmd.Context(), path, opts)
		if res != nil {
			fs, results = res.FileSet, []*driver.CheckResult{res}
		}
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	r := checkRenderer{
		out:       cmd.OutOrStdout(),
		fs:        fs,
		settings:  settings,
		withNotes: withNotes,
		quiet:     quiet,
		timer:     opts.Timer,
		color:     useColor(settings.Color, os.Stdout),
		dir:       isDir,
	}
	renderSpan := trace.Begin(trace.FromContext(cmd.Context()), trace.ScopePass, "render", 0)
	renderIdx := opts.Timer.Begin("render")
	exit, err := r.render(results)
	opts.Timer.End(renderIdx, settings.Format)
	renderSpan.End(settings.Format)
	if err != nil {
		return err
	}
	// short и json несут тайминги в своём выводе
	if showTimings && settings.Format == "pretty" {
		printTimings(cmd.ErrOrStderr(), opts.Timer)
	}

	if exit != 0 {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errors.New("") // Silent error - diagnostics already printed
	}
	return nil
}

// openCheckCache opens the disk cache of app; clear drops every stored
// result first.
func openCheckCache(app string, clear bool) (*driver.DiskCache, error) {
	cache, err := driver.OpenDiskCache(app)
	if err != nil {
		return nil, err
	}
	if clear {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache %s: %w", cache.Dir(), err)
		}
	}
	return cache, nil
}

func checkDirectory(ctx context.Context, dir string, opts driver.CheckOptions, s checkSettings) (*source.FileSet, []*driver.CheckResult, error) {
	if !shouldUseTUI(s.UI, s.Format) {
		return driver.CheckDir(ctx, dir, opts, s.Jobs)
	}
	files, err := driver.ListReports(dir)
	if err != nil {
		return nil, nil, err
	}
	return runCheckDirWithUI(ctx, "checking "+dir, dir, files, opts, s.Jobs)
}

type checkRenderer struct {
	out       io.Writer
	fs        *source.FileSet
	settings  checkSettings
	withNotes bool
	quiet     bool
	timer     *observ.Timer
	color     bool
	dir       bool
}

// render prints results in the configured format and returns the exit code.
func (r checkRenderer) render(results []*driver.CheckResult) (int, error) {
	exit := 0
	for _, res := range results {
		if !res.Valid() {
			exit = 1
			break
		}
	}

	switch r.settings.Format {
	case "short":
		bag := driver.MergeBags(results)
		if r.timer != nil && len(results) > 0 {
			bag.Merge(timingDiagnostics(r.timer, source.Span{File: results[0].File.ID}))
		}
		if err := diagfmt.Short(r.out, bag, r.fs, r.withNotes); err != nil {
			return 0, fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "pretty":
		r.renderPretty(results)
	case "json":
		if err := r.renderJSON(results); err != nil {
			return 0, fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	default:
		return 0, fmt.Errorf("unknown format: %s", r.settings.Format)
	}
	return exit, nil
}

func (r checkRenderer) renderPretty(results []*driver.CheckResult) {
	opts := diagfmt.PrettyOpts{
		Color:     r.color,
		Context:   1,
		PathMode:  r.settings.PathMode,
		ShowNotes: r.withNotes,
	}
	valid := 0
	for idx, res := range results {
		if res.Valid() {
			valid++
			if r.dir && !r.quiet {
				fmt.Fprintf(r.out, "%s: ok (%s)\n", r.path(res), plural(res.Records, "registro", "registros"))
			}
			if res.Bag.Len() > 0 {
				diagfmt.Pretty(r.out, res.Bag, r.fs, opts)
			}
			continue
		}
		if r.dir {
			if idx > 0 {
				fmt.Fprintln(r.out)
			}
			fmt.Fprintf(r.out, "== %s ==\n", r.path(res))
		}
		diagfmt.Pretty(r.out, res.Bag, r.fs, opts)
	}

	if r.quiet {
		return
	}
	switch {
	case !r.dir && valid == 1:
		fmt.Fprintln(r.out, "Entrada válida!")
	case !r.dir:
		fmt.Fprintln(r.out, "Erro de sintaxe.")
	default:
		fmt.Fprintf(r.out, "\n%d válidos, %d inválidos\n", valid, len(results)-valid)
	}
}

func (r checkRenderer) renderJSON(results []*driver.CheckResult) error {
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         r.settings.PathMode,
		IncludeNotes:     r.withNotes,
	}
	out := checkOutputJSON{Reports: make([]checkReportJSON, 0, len(results))}
	for _, res := range results {
		if res.Valid() {
			out.Valid++
		} else {
			out.Invalid++
		}
		out.Reports = append(out.Reports, checkReportJSON{
			File:              r.path(res),
			Valid:             res.Valid(),
			Records:           res.Records,
			Cached:            res.Cached,
			DiagnosticsOutput: diagfmt.BuildDiagnosticsOutput(res.Bag, r.fs, jsonOpts),
		})
	}
	if r.timer != nil {
		report := r.timer.Report()
		out.Timings = &report
	}
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func (r checkRenderer) path(res *driver.CheckResult) string {
	return res.File.FormatPath(r.settings.PathMode.String(), r.fs.BaseDir())
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

package driver

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"cslayout/internal/config"
	"cslayout/internal/diag"
	"cslayout/internal/observ"
	"cslayout/internal/parser"
	"cslayout/internal/scan"
	"cslayout/internal/source"
	"cslayout/internal/syntax"
	"cslayout/internal/trace"
)

// Options configure a check or fix run.
type Options struct {
	Config         *config.Config // nil means config.Default()
	MaxDiagnostics int            // per file, 0 - без ограничения
	Jobs           int            // 0 - GOMAXPROCS
	Cache          *Cache         // nil disables caching
	Progress       ProgressSink
	Timings        bool // add an OBS6001 report per file
}

func (o *Options) config() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

func (o *Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}

// FileResult содержит результат проверки одного файла.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Cached bool
	Timing *observ.Report
}

// Findings counts the reports that fail a check: rule violations and
// lexer/parser errors. Timing reports do not count.
func (r *FileResult) Findings() int {
	n := 0
	for _, v := range r.Bag.Items() {
		if v.RuleID != diag.ObsTimings.ID() {
			n++
		}
	}
	return n
}

// CheckFile checks one file.
func CheckFile(ctx context.Context, path string, opts Options) (*source.FileSet, *FileResult, error) {
	fs, results, err := Check(ctx, []string{path}, opts)
	if err != nil {
		return fs, nil, err
	}
	if len(results) == 0 {
		return fs, nil, fmt.Errorf("%s: no source file", path)
	}
	return fs, &results[0], nil
}

// CheckDir checks every source file below dir.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	return Check(ctx, []string{dir}, opts)
}

// Check expands paths, loads every file up front and checks them in
// parallel. Results follow the sorted file order.
func Check(ctx context.Context, paths []string, opts Options) (*source.FileSet, []FileResult, error) {
	cfg := opts.config()
	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx).SpanID)
	defer runSpan.End("")

	fileSet, ids, err := loadAll(ctx, paths, cfg, opts.Progress, runSpan.ID())
	if err != nil {
		return fileSet, nil, err
	}
	if len(ids) == 0 {
		return fileSet, nil, nil
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(ids))
	digest := ConfigDigest(cfg.Rules, cfg.Layout)

	phase := trace.Begin(tracer, trace.ScopePhase, "scan", runSpan.ID())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(ids)))
	for i, id := range ids {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			file := fileSet.Get(id)
			results[i] = checkOne(gctx, file, cfg, &opts, digest, phase.ID())
			return nil
		})
	}
	err = g.Wait()
	phase.End(fmt.Sprintf("%d files", len(ids)))
	return fileSet, results, err
}

// loadAll reads every file sequentially; FileSet is not safe for concurrent
// Add.
func loadAll(ctx context.Context, paths []string, cfg *config.Config, sink ProgressSink, parent uint64) (*source.FileSet, []source.FileID, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "load", parent)
	files, err := ExpandPaths(paths, cfg)
	if err != nil {
		span.End(err.Error())
		return source.NewFileSet(), nil, err
	}
	fileSet := source.NewFileSetWithBase(baseDir(paths))
	for _, path := range files {
		emit(sink, path, StageLoad, StatusQueued, nil, 0)
	}
	ids := make([]source.FileID, 0, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			emit(sink, path, StageLoad, StatusError, err, 0)
			span.End(err.Error())
			return fileSet, nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		ids = append(ids, id)
	}
	span.End(fmt.Sprintf("%d files", len(ids)))
	return fileSet, ids, nil
}

func checkOne(ctx context.Context, file *source.File, cfg *config.Config, opts *Options, digest uint64, parent uint64) FileResult {
	tracer := trace.FromContext(ctx)
	span := trace.BeginFile(tracer, file.Path, parent)
	started := time.Now()
	res := FileResult{Path: file.Path, FileID: file.ID, Bag: diag.NewBag(opts.MaxDiagnostics)}

	key := CacheKey(file.Hash, digest)
	var payload CachePayload
	if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
		res.Bag.AddAll(fromPayload(&payload, file.ID))
		res.Cached = true
		span.WithExtra("cache", "hit").End(fmt.Sprintf("%d reports", res.Bag.Len()))
		emit(opts.Progress, file.Path, StageScan, StatusDone, nil, time.Since(started))
		return res
	}

	timer := observ.NewTimer()
	emit(opts.Progress, file.Path, StageParse, StatusWorking, nil, 0)
	idx := timer.Begin("parse")
	tree, reports := parseFile(file)
	timer.End(idx, fmt.Sprintf("%d nodes", tree.NodeCount()))

	emit(opts.Progress, file.Path, StageScan, StatusWorking, nil, 0)
	idx = timer.Begin("scan")
	vs := scan.Scan(tree, cfg.Rules, scan.Options{Layout: cfg.Layout, Tracer: tracer})
	timer.End(idx, fmt.Sprintf("%d violations", len(vs)))

	all := append(slices.Clone(reports), vs...)
	sortViolations(all)
	res.Bag.AddAll(all)
	// в кэш идёт полный список: лимит применяется при чтении
	if err := opts.Cache.Put(key, toPayload(all)); err != nil {
		trace.Point(tracer, trace.ScopeError, "cache", err.Error())
	}
	if opts.Timings {
		report := timer.Report()
		res.Timing = &report
		appendTimingDiagnostic(res.Bag, file, timingPayload{Kind: "file", Path: file.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	}
	span.End(fmt.Sprintf("%d reports", res.Bag.Len()))
	emit(opts.Progress, file.Path, StageScan, StatusDone, nil, time.Since(started))
	return res
}

// parseFile lexes and parses one file and returns all of its lexer/parser
// reports. The list is cached as is, so it is never capped here.
func parseFile(file *source.File) (*syntax.Tree, []diag.Violation) {
	bag := diag.NewBag(0)
	tree := parser.ParseFile(file, parser.Options{
		Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	})
	return tree, bag.Items()
}

func sortViolations(vs []diag.Violation) {
	slices.SortStableFunc(vs, func(a, b diag.Violation) int {
		switch {
		case diag.Less(&a, &b):
			return -1
		case diag.Less(&b, &a):
			return 1
		}
		return 0
	})
}

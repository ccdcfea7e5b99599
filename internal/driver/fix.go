package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"cslayout/internal/diag"
	"cslayout/internal/fix"
	"cslayout/internal/lexer"
	"cslayout/internal/rules"
	"cslayout/internal/scan"
	"cslayout/internal/source"
	"cslayout/internal/token"
	"cslayout/internal/trace"
)

// ErrTokensChanged means a fixed text no longer lexes to the original token
// sequence. The file is left untouched.
var ErrTokensChanged = errors.New("fix changed the token sequence")

// FixOptions configure FixFile and FixDir.
type FixOptions struct {
	Options
	DryRun    bool     // compute the new text but never write it
	Only      []string // fix only these rules (IDs or names)
	MaxPasses int      // 0 - fix.DefaultMaxPasses
}

// FixResult содержит результат исправления одного файла.
type FixResult struct {
	Path     string
	FileID   source.FileID // id of the fixed text when it differs, else the original
	Original string
	Fixed    string
	Result   fix.Result
	Written  bool
	Err      error // per-file failure: stale edit, token mismatch, write error
}

// Changed reports whether fixing produced a different text.
func (r *FixResult) Changed() bool { return r.Fixed != r.Original }

// FixFile fixes one file.
func FixFile(ctx context.Context, path string, opts FixOptions) (*source.FileSet, *FixResult, error) {
	fs, results, err := Fix(ctx, []string{path}, opts)
	if err != nil {
		return fs, nil, err
	}
	if len(results) == 0 {
		return fs, nil, fmt.Errorf("%s: no source file", path)
	}
	return fs, &results[0], nil
}

// FixDir fixes every source file below dir.
func FixDir(ctx context.Context, dir string, opts FixOptions) (*source.FileSet, []FixResult, error) {
	return Fix(ctx, []string{dir}, opts)
}

// Fix converges every file to a fixed point of the selected rules. The
// remaining violations of a changed file point into a new FileSet entry
// holding the fixed text.
func Fix(ctx context.Context, paths []string, opts FixOptions) (*source.FileSet, []FixResult, error) {
	cfg := opts.config()
	set := cfg.Rules
	if len(opts.Only) > 0 {
		var err error
		if set, err = set.Only(opts.Only...); err != nil {
			return nil, nil, err
		}
	}
	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "fix", trace.CurrentSpan(ctx).SpanID)
	defer runSpan.End("")

	fileSet, ids, err := loadAll(ctx, paths, cfg, opts.Progress, runSpan.ID())
	if err != nil || len(ids) == 0 {
		return fileSet, nil, err
	}

	results := make([]FixResult, len(ids))
	phase := trace.Begin(tracer, trace.ScopePhase, "fix", runSpan.ID())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(ids)))
	for i, id := range ids {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = fixOne(gctx, fileSet.Get(id), set, &opts, phase.ID())
			return nil
		})
	}
	err = g.Wait()
	phase.End(fmt.Sprintf("%d files", len(ids)))

	// новые версии файлов добавляются после Wait: FileSet не потокобезопасен
	for i := range results {
		r := &results[i]
		if !r.Changed() || r.Err != nil {
			continue
		}
		id := fileSet.Add(r.Path, []byte(r.Fixed), fileSet.Get(r.FileID).Flags)
		for j := range r.Result.Remaining {
			rebind(&r.Result.Remaining[j], id)
		}
		r.FileID = id
	}
	return fileSet, results, err
}

func fixOne(ctx context.Context, file *source.File, set *rules.Set, opts *FixOptions, parent uint64) FixResult {
	tracer := trace.FromContext(ctx)
	span := trace.BeginFile(tracer, file.Path, parent)
	started := time.Now()
	text := string(file.Content)
	res := FixResult{Path: file.Path, FileID: file.ID, Original: text, Fixed: text}
	cfg := opts.config()
	emit(opts.Progress, file.Path, StageFix, StatusWorking, nil, 0)

	scanText := func(cur string) ([]diag.Violation, error) {
		local := source.NewFileSet()
		tree, _ := parseFile(local.Get(local.AddVirtual(file.Path, []byte(cur))))
		return scan.Scan(tree, set, scan.Options{Layout: cfg.Layout, Tracer: tracer}), nil
	}

	fail := func(err error) FixResult {
		res.Err = err
		res.Fixed = text
		span.End(err.Error())
		emit(opts.Progress, file.Path, StageFix, StatusError, err, time.Since(started))
		return res
	}

	fixed, result, err := fix.Converge(text, scanText, opts.MaxPasses)
	res.Result = result
	if err != nil && !errors.Is(err, fix.ErrNoFixes) {
		return fail(err)
	}
	for j := range res.Result.Remaining {
		rebind(&res.Result.Remaining[j], file.ID)
	}
	res.Fixed = fixed
	if res.Changed() {
		if at, ok := sameTokens(file, fixed); !ok {
			return fail(fmt.Errorf("%w at token %d", ErrTokensChanged, at))
		}
		if !opts.DryRun {
			if err := writeAtomic(file.Path, file.Restore([]byte(fixed))); err != nil {
				return fail(err)
			}
			res.Written = true
		}
	}
	span.End(fmt.Sprintf("%d passes, %d applied", result.Passes, len(result.Applied)))
	emit(opts.Progress, file.Path, StageFix, StatusDone, nil, time.Since(started))
	return res
}

func rebind(v *diag.Violation, id source.FileID) {
	v.Primary.File = id
	for k := range v.Notes {
		v.Notes[k].Span.File = id
	}
	if v.Fix != nil {
		v.Fix.Edit.Span.File = id
	}
}

// sameTokens lexes both texts and compares kinds and texts. It returns the
// index of the first differing token.
func sameTokens(orig *source.File, fixed string) (int, bool) {
	local := source.NewFileSet()
	before := lexer.New(orig, lexer.Options{}).All()
	after := lexer.New(local.Get(local.AddVirtual(orig.Path, []byte(fixed))), lexer.Options{}).All()
	n := min(len(before), len(after))
	for i := range n {
		if !sameToken(&before[i], &after[i]) {
			return i, false
		}
	}
	if len(before) != len(after) {
		return n, false
	}
	return 0, true
}

func sameToken(a, b *token.Token) bool {
	return a.Kind == b.Kind && a.Text == b.Text
}

// writeAtomic replaces path through a temp file in the same directory and
// keeps the file mode.
func writeAtomic(path string, content []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".cslayout-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(content); err != nil {
		return err
	}
	if err = f.Chmod(mode); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"cslayout/internal/config"
	"cslayout/internal/diag"
	"cslayout/internal/layout"
	"cslayout/internal/rules"
	"cslayout/internal/source"
)

const (
	badSource = "class C\n{\n    void M()\n    {\n        Run();\n        try { } finally { }\n    }\n}\n"
	fixedBad  = "class C\n{\n    void M()\n    {\n        Run();\n\n        try { } finally { }\n    }\n}\n"
	cleanSrc  = "class D\n{\n    void M()\n    {\n        Run();\n    }\n}\n"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func ruleIDs(bag *diag.Bag) []string {
	var ids []string
	for _, v := range bag.Items() {
		ids = append(ids, v.RuleID)
	}
	return ids
}

type collectSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *collectSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestCheckDir(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/Bad.cs":       badSource,
		"src/Clean.cs":     cleanSrc,
		"obj/Generated.cs": badSource,
		"src/readme.txt":   "not code",
	})
	sink := &collectSink{}
	fs, results, err := CheckDir(context.Background(), root, Options{Jobs: 2, Progress: sink})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, filepath.Join(root, "src", "Bad.cs"), results[0].Path)
	require.Equal(t, []string{"LY1003"}, ruleIDs(results[0].Bag))
	require.Equal(t, 1, results[0].Findings())
	require.Equal(t, 0, results[1].Findings())

	v := results[0].Bag.Items()[0]
	start, _ := fs.Resolve(v.Primary)
	require.Equal(t, source.LineCol{Line: 6, Col: 9}, start)
	require.NotNil(t, v.Fix)

	var done int
	for _, ev := range sink.events {
		if ev.Status == StatusDone {
			done++
		}
	}
	require.Equal(t, 2, done)
}

func TestCheckUsesCache(t *testing.T) {
	root := writeTree(t, map[string]string{"Bad.cs": badSource})
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	opts := Options{Cache: cache}

	_, first, err := CheckFile(context.Background(), filepath.Join(root, "Bad.cs"), opts)
	require.NoError(t, err)
	require.False(t, first.Cached)

	_, second, err := CheckFile(context.Background(), filepath.Join(root, "Bad.cs"), opts)
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Bag.Items(), second.Bag.Items())

	// другая конфигурация - другой ключ
	set, err := rules.All().WithSeverity("LY1003", diag.SevError)
	require.NoError(t, err)
	opts.Config = &config.Config{Layout: layout.Default(), Rules: set}
	_, third, err := CheckFile(context.Background(), filepath.Join(root, "Bad.cs"), opts)
	require.NoError(t, err)
	require.False(t, third.Cached)
	require.Equal(t, diag.SevError, third.Bag.Items()[0].Severity)

	require.NoError(t, cache.DropAll())
	_, fourth, err := CheckFile(context.Background(), filepath.Join(root, "Bad.cs"), Options{Cache: cache})
	require.NoError(t, err)
	require.False(t, fourth.Cached)
}

func TestCacheKeepsUncappedReports(t *testing.T) {
	root := writeTree(t, map[string]string{"Broken.cs": "class C { ) ) ) ) }\n"})
	path := filepath.Join(root, "Broken.cs")
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	_, full, err := CheckFile(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Greater(t, full.Bag.Len(), 1)

	_, capped, err := CheckFile(context.Background(), path, Options{Cache: cache, MaxDiagnostics: 1})
	require.NoError(t, err)
	require.False(t, capped.Cached)
	require.Equal(t, 1, capped.Bag.Len())

	// лимит прошлого запуска не должен попасть в кэш
	_, cached, err := CheckFile(context.Background(), path, Options{Cache: cache})
	require.NoError(t, err)
	require.True(t, cached.Cached)
	require.Equal(t, ruleIDs(full.Bag), ruleIDs(cached.Bag))
}

func TestCheckTimings(t *testing.T) {
	root := writeTree(t, map[string]string{"Clean.cs": cleanSrc})
	_, res, err := CheckFile(context.Background(), filepath.Join(root, "Clean.cs"), Options{Timings: true})
	require.NoError(t, err)
	require.NotNil(t, res.Timing)
	require.Equal(t, []string{diag.ObsTimings.ID()}, ruleIDs(res.Bag))
	require.Equal(t, 0, res.Findings())
	require.Contains(t, res.Bag.Items()[0].Notes[0].Msg, `"phases"`)
}

func TestFixDir(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Bad.cs":   badSource,
		"Clean.cs": cleanSrc,
		"Crlf.cs":  strings.ReplaceAll(badSource, "\n", "\r\n"),
	})
	fs, results, err := FixDir(context.Background(), root, FixOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		require.NoError(t, r.Err, r.Path)
		require.Empty(t, r.Result.Remaining, r.Path)
	}
	got, err := os.ReadFile(filepath.Join(root, "Bad.cs"))
	require.NoError(t, err)
	require.Equal(t, fixedBad, string(got))

	got, err = os.ReadFile(filepath.Join(root, "Crlf.cs"))
	require.NoError(t, err)
	require.Equal(t, strings.ReplaceAll(fixedBad, "\n", "\r\n"), string(got))

	require.False(t, results[1].Changed())
	require.False(t, results[1].Written)
	require.Equal(t, fixedBad, string(fs.Get(results[0].FileID).Content))
}

func TestFixDryRunAndOnly(t *testing.T) {
	root := writeTree(t, map[string]string{"Bad.cs": badSource})
	path := filepath.Join(root, "Bad.cs")

	_, res, err := FixFile(context.Background(), path, FixOptions{DryRun: true})
	require.NoError(t, err)
	require.True(t, res.Changed())
	require.False(t, res.Written)
	require.Equal(t, fixedBad, res.Fixed)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, badSource, string(got))

	_, res, err = FixFile(context.Background(), path, FixOptions{Only: []string{"LY1004"}})
	require.NoError(t, err)
	require.False(t, res.Changed())

	_, _, err = FixFile(context.Background(), path, FixOptions{Only: []string{"LY0000"}})
	require.ErrorIs(t, err, rules.ErrUnknownRule)
}

func TestSameTokens(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("a.cs", []byte("a = b + c;\n")))

	_, ok := sameTokens(f, "a =\n    b + c;\n")
	require.True(t, ok)
	at, ok := sameTokens(f, "a = b - c;\n")
	require.False(t, ok)
	require.Equal(t, 3, at)
	_, ok = sameTokens(f, "a = b + c; d;\n")
	require.False(t, ok)
}

func TestCacheKey(t *testing.T) {
	opts := layout.Default()
	all := ConfigDigest(rules.All(), opts)
	without, err := rules.All().Without("LY1001")
	require.NoError(t, err)
	require.NotEqual(t, all, ConfigDigest(without, opts))
	require.NotEqual(t, all, ConfigDigest(rules.All(), layout.Options{IndentSize: 2, TabSize: 4}))
	require.Equal(t, all, ConfigDigest(rules.All(), opts))

	var h [32]byte
	require.NotEqual(t, CacheKey(h, 1), CacheKey(h, 2))
}

func TestListFilesExcludes(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a/A.cs":     "",
		"a/bin/B.cs": "",
		"Gen/G.cs":   "",
		"c/C.CS":     "",
	})
	cfg := config.Default()
	cfg.Exclude = append(cfg.Exclude, "Gen")
	files, err := ListFiles(root, cfg)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a", "A.cs"),
		filepath.Join(root, "c", "C.CS"),
	}, files)
}

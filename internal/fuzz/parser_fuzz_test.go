package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"cslayout/internal/diag"
	"cslayout/internal/fix"
	"cslayout/internal/layout"
	"cslayout/internal/lexer"
	"cslayout/internal/parser"
	"cslayout/internal/rules"
	"cslayout/internal/scan"
	"cslayout/internal/source"
	"cslayout/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input. Longer runs
// indicate an infinite loop in error recovery.
const parseTimeout = 5 * time.Second

func FuzzParserTree(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.cs", input))
			tree := parser.ParseFile(file, parser.Options{
				Reporter:  diag.BagReporter{Bag: diag.NewBag(128)},
				MaxErrors: 128,
			})
			if err := testkit.CheckTreeInvariants(tree); err != nil {
				done <- err
				return
			}
			// сканер не должен падать даже на сломанном дереве
			_ = scan.Scan(tree, rules.All(), scan.Options{Layout: layout.Default()})
			done <- nil
		}()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("%v\ninput (%d bytes): %q", err, len(input), truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("parser hang detected: took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzFixKeepsTokens converges all rules and checks that only trivia changed.
func FuzzFixKeepsTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		set := rules.All()
		opts := scan.Options{Layout: layout.Default()}

		scanText := func(text string) ([]diag.Violation, error) {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.cs", []byte(text)))
			tree := parser.ParseFile(file, parser.Options{MaxErrors: 128})
			return scan.Scan(tree, set, opts), nil
		}

		fixed, _, err := fix.Converge(string(input), scanText, 0)
		if err != nil && !errors.Is(err, fix.ErrNoFixes) {
			t.Fatalf("converge: %v\ninput: %q", err, truncateForLog(input, 200))
		}

		fs := source.NewFileSet()
		before := lexer.New(fs.Get(fs.AddVirtual("before.cs", input)), lexer.Options{}).All()
		after := lexer.New(fs.Get(fs.AddVirtual("after.cs", []byte(fixed))), lexer.Options{}).All()
		if err := testkit.CheckSameTokens(before, after); err != nil {
			t.Fatalf("%v\ninput: %q\nfixed: %q", err, truncateForLog(input, 200), truncateForLog([]byte(fixed), 200))
		}
	})
}

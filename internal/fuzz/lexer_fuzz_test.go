package fuzztests

import (
	"testing"

	"cslayout/internal/diag"
	"cslayout/internal/lexer"
	"cslayout/internal/source"
	"cslayout/internal/testkit"
)

func FuzzLexerLossless(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.cs", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: lexer.DiagReporter{R: diag.BagReporter{Bag: bag}}})
		toks := lx.All()
		if err := testkit.CheckLossless(file, toks); err != nil {
			t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

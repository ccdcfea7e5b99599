package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addSnippetSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.cs файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".cs") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addSnippetSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("class C { }\n"))
	f.Add([]byte("namespace N;\nusing System;\nusing Alias = System.Text;\n"))
	f.Add([]byte("class C\n{\n    void M()\n    {\n        DoSomethingElse();\n        try { } finally { }\n    }\n}\n"))
	f.Add([]byte("class C\n{\n    void M()\n    {\n        for (;;) { }\n        for (;;) { }\n        for (;;) { }\n    }\n}\n"))
	f.Add([]byte("class C\n{\n    void M(int a,\n        int b,\n      int c,\n            int d)\n    {\n    }\n}\n"))
	f.Add([]byte("class C\n{\n    void M()\n    {\n        ArgumentNullException.ThrowIfNull(a);\n        ObjectDisposedException.ThrowIf(d, this);\n        Run();\n    }\n}\n"))
	// восстановление после ошибок
	f.Add([]byte("class C { void M( { for (;; }\n"))
	f.Add([]byte("}}} class"))
	f.Add([]byte("class C { string s = \"unterminated\n}"))
	f.Add([]byte("/* open comment"))
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}

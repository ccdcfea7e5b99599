package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"cslayout/internal/diag"
	"cslayout/internal/source"
)

func layoutBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("class C\n{\n    void M()\n    {\n        Run();\n        try { } finally { }\n    }\n}\n")
	id := fs.AddVirtual("/home/user/project/src/C.cs", content)
	fs.SetBaseDir("/home/user/project")

	at := uint32(strings.Index(string(content), "try"))
	sp := source.Span{File: id, Start: at, End: at + 3}
	bag := diag.NewBag(10)
	bag.Add(diag.Violation{
		RuleID:   "LY1003",
		Severity: diag.SevWarning,
		Message:  "missing blank line before try statement",
		Primary:  sp,
		Fix: &diag.Fix{
			Title:    "insert blank line",
			Priority: 110,
			Edit:     diag.TextEdit{Span: source.Span{File: id, Start: at - 8, End: at - 8}, NewText: "\n"},
		},
	})
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := layoutBag(t)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/C.cs:6:9:"},
		{"Relative path", PathModeRelative, "src/C.cs:6:9:"},
		{"Basename only", PathModeBasename, "C.cs:6:9:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "WARNING LY1003: missing blank line") {
				t.Errorf("expected header line, got:\n%s", output)
			}
		})
	}
}

func TestPrettyCaret(t *testing.T) {
	bag, fs := layoutBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 4 {
		t.Fatalf("short output:\n%s", buf.String())
	}
	if !strings.Contains(lines[1], "Run();") || !strings.Contains(lines[2], "try { } finally { }") {
		t.Fatalf("context lines missing:\n%s", buf.String())
	}
	src := lines[2]
	caret := lines[3]
	if strings.Index(caret, "^~~") != strings.Index(src, "try") {
		t.Fatalf("caret misaligned:\n%s\n%s", src, caret)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("colour codes with Color=false")
	}
}

func TestPrettyTabsAndWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("\tvar s = \"日本\"; x++;\n")
	id := fs.AddVirtual("t.cs", content)
	at := uint32(strings.Index(string(content), "x++"))
	bag := diag.NewBag(0)
	bag.Add(diag.Violation{RuleID: "LY2005", Severity: diag.SevError, Message: "m", Primary: source.Span{File: id, Start: at, End: at + 1}})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{TabSize: 4})
	lines := strings.Split(buf.String(), "\n")
	src, caret := lines[1], lines[2]
	bar := strings.Index(src, "|") + 2
	// таб раскрывается в 4 пробела, каждый иероглиф занимает две колонки
	want := bar + len("    var s = \"") + 4 + len("\"; ")
	if got := strings.Index(caret, "^"); got != want {
		t.Fatalf("caret at %d, want %d:\n%s\n%s", got, want, src, caret)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	bag, fs := layoutBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowFixes: true, ShowPreview: true})
	out := buf.String()
	if !strings.Contains(out, "fix: insert blank line") {
		t.Fatalf("fix title missing:\n%s", out)
	}
	if !strings.Contains(out, "-         try { } finally { }") || !strings.Contains(out, "+ \n") {
		t.Fatalf("preview missing:\n%s", out)
	}
}

func TestExpandTabsFrom(t *testing.T) {
	if got := expandTabsFrom("\tx", 4, 2); got != "  x" {
		t.Fatalf("got %q", got)
	}
	if got := expandTabs("a\tb", 4); got != "a   b" {
		t.Fatalf("got %q", got)
	}
}

package source

import (
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LineCol resolves a byte offset into a 1-based line and byte column.
func (f *File) LineCol(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// LineStart returns the offset of the first byte of the 1-based line. Lines
// past the end resolve to len(Content).
func (f *File) LineStart(line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	if i := int(line) - 2; i < len(f.LineIdx) {
		return f.LineIdx[i] + 1
	}
	return uint32(len(f.Content))
}

// lineEnd returns the offset of the newline ending the 1-based line, or
// len(Content) for the last line.
func (f *File) lineEnd(line uint32) uint32 {
	if i := int(line) - 1; i < len(f.LineIdx) {
		return f.LineIdx[i]
	}
	return uint32(len(f.Content))
}

// Line returns the text of the 1-based line without its newline, or "" when
// the line does not exist.
func (f *File) Line(line uint32) string {
	if line == 0 || int(line)-2 >= len(f.LineIdx) {
		return ""
	}
	start, end := f.LineStart(line), f.lineEnd(line)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// VisualColumn returns the 1-based display column of off: one column per
// rune, tabs stop at multiples of tabSize.
func (f *File) VisualColumn(off uint32, tabSize int) int {
	start := f.LineStart(f.LineCol(off).Line)
	return visualColumn(f.Content[start:off], tabSize)
}

// Indentation returns the leading spaces and tabs of the 1-based line.
func (f *File) Indentation(line uint32) string {
	text := f.Line(line)
	for i := range len(text) {
		if c := text[i]; c != ' ' && c != '\t' {
			return text[:i]
		}
	}
	return text
}

// Restore re-applies the BOM and CRLF endings that Load removed.
func (f *File) Restore(content []byte) []byte {
	if f.Flags&FileNormalizedCRLF != 0 {
		content = denormalizeCRLF(content)
	}
	if f.Flags&FileHadBOM != 0 {
		content = append(append([]byte{}, utf8BOM...), content...)
	}
	return content
}

// FormatPath renders the path for reports. mode is one of absolute,
// relative (to baseDir, or the working directory), basename and auto;
// unknown modes keep the path as stored.
func (f *File) FormatPath(mode, baseDir string) string {
	var (
		out string
		err error
	)
	switch mode {
	case "absolute":
		out, err = AbsolutePath(f.Path)
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		out, err = RelativePath(f.Path, baseDir)
	case "basename":
		return BaseName(f.Path)
	case "auto":
		// короткие и относительные пути оставляем как есть
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return BaseName(f.Path)
		}
		return f.Path
	default:
		return f.Path
	}
	if err != nil {
		return f.Path
	}
	return out
}

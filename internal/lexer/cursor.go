package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"cslayout/internal/source"
)

// Cursor is a byte position inside one file. Reads past the end yield 0.
type Cursor struct {
	File *source.File
	Off  uint32
	end  uint32
}

// NewCursor places a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s is too large: %w", f.Path, err))
	}
	return Cursor{File: f, end: end}
}

// EOF reports whether every byte has been consumed.
func (c *Cursor) EOF() bool { return c.Off >= c.end }

// Peek returns the current byte.
func (c *Cursor) Peek() byte { return c.At(0) }

// At returns the byte k positions ahead of the cursor.
func (c *Cursor) At(k uint32) byte {
	if c.Off >= c.end || c.end-c.Off <= k {
		return 0
	}
	return c.File.Content[c.Off+k]
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	if c.Off >= c.end || int(c.end-c.Off) < len(s) {
		return false
	}
	return string(c.File.Content[c.Off:int(c.Off)+len(s)]) == s
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Skip consumes n bytes, stopping at the end of input.
func (c *Cursor) Skip(n int) {
	for ; n > 0 && !c.EOF(); n-- {
		c.Off++
	}
}

// Eat consumes b if it is the current byte.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.File.Content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Mark is a saved offset used to build spans and to backtrack.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span between m and the cursor.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset moves the cursor back to m.
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

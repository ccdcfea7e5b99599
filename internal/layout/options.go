package layout

import (
	"errors"
	"fmt"
)

// Options describes the indentation geometry rules measure columns with.
type Options struct {
	IndentSize int // columns per indent unit
	TabSize    int // a tab advances to the next multiple of TabSize
}

// ErrInvalidOptions marks out-of-range indentation settings.
var ErrInvalidOptions = errors.New("invalid layout options")

const maxWidth = 16

// Default returns the four-space layout.
func Default() Options {
	return Options{IndentSize: 4, TabSize: 4}
}

// Validate checks both widths are in 1..16.
func (o Options) Validate() error {
	if o.IndentSize < 1 || o.IndentSize > maxWidth {
		return fmt.Errorf("%w: indent_size %d out of range 1..%d", ErrInvalidOptions, o.IndentSize, maxWidth)
	}
	if o.TabSize < 1 || o.TabSize > maxWidth {
		return fmt.Errorf("%w: tab_size %d out of range 1..%d", ErrInvalidOptions, o.TabSize, maxWidth)
	}
	return nil
}

// Indented returns the column one indent unit to the right of col.
func (o Options) Indented(col int) int {
	return col + o.IndentSize
}

func (o Options) String() string {
	return fmt.Sprintf("indent=%d tab=%d", o.IndentSize, o.TabSize)
}

// Package rules holds the layout rules: the blank-line family (LY1xxx) and
// the alignment family (LY2xxx). Every rule is a small value selected by
// construct kind; the catalog is built once and never mutated.
package rules

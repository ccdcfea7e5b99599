// Package trivia answers layout questions about the whitespace and comments
// between two adjacent tokens and builds the edits that rewrite them.
//
// A Gap is the left token's trailing trivia followed by the right token's
// leading trivia. Edits never touch token text and keep every comment
// byte-exact: they only add, drop or rewrite Space and Newline runs.
package trivia

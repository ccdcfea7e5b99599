// Package token defines lexical token kinds and trivia for C# source.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Trailing trivia runs from the token to the first line break, inclusive.
//     Everything after that belongs to the Leading trivia of the next token.
//   - Every line break is its own TriviaNewline element.
//   - Preprocessor lines (#region, #if ...) are TriviaDirective and never
//     appear in the token stream.
//   - Contextual keywords (var, when, nameof, get, set, ...) are identifiers.
package token

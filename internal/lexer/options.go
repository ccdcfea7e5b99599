package lexer

import (
	"cslayout/internal/source"
)

// Reporter — тонкий интерфейс, чтобы не тянуть diag сюда.
// Лексер **только вызывает** его с параметрами; форматирует diag внешний слой.
type Reporter interface {
	Report(kind string, span source.Span, msg string)
}

type Options struct {
	Reporter Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
}

// Problem kinds passed to Reporter.
const (
	KindUnknownChar        = "UnknownChar"
	KindUnterminatedString = "UnterminatedString"
	KindNewlineInString    = "NewlineInString"
	KindUnterminatedChar   = "UnterminatedChar"
	KindUnterminatedBlock  = "UnterminatedBlockComment"
	KindBadNumber          = "BadNumber"
)

func (lx *Lexer) report(kind string, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(kind, sp, msg)
	}
}

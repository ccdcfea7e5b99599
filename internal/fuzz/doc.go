// Package fuzztests houses Go fuzz harnesses for the layout pipeline
// (source -> lexer -> parser -> scan -> fix). They smoke test robustness on
// arbitrary inputs and check the invariants from internal/testkit.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер,
// сканер правил и движок исправлений.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/scan,
// internal/fix, internal/rules, internal/testkit.
package fuzztests

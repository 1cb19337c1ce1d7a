// Package fuzztests houses Go fuzz harnesses for the validation pipeline
// (source -> lexer -> parser). Its goal is to smoke test robustness and to
// check the lexer and parser invariants on arbitrary inputs.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/diag,
// internal/token.
package fuzztests

// Package fuzztests houses Go fuzz harnesses for the analysis front end:
// tokenizer, statement splitter, macro expander and symbol table.
// A harness fails on a panic or when a structural property breaks.
//
// Назначение: прогонять произвольные байты через лексер, разбиение на
// statements, раскрытие макросов и заполнение Codebase.
//
// Не делает: проверку доступа, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/stmt,
// internal/macro, internal/symbols, internal/project.

package fuzztests

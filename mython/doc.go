// Package mython implements a tree-walking interpreter for Mython, a small
// dynamically-typed, indentation-structured, object-oriented scripting
// language:
//   - Integers, strings, booleans and None; no floats.
//   - Arithmetic, comparisons, `and`/`or`/`not`, and `print`.
//   - Single-inheritance classes with fields, methods, and the operator
//     dunders __init__, __str__, __eq__, __lt__ and __add__.
//   - Two-space indentation for blocks, `#` line comments, string literals
//     with either quote style and \n \t \" \' escapes.
//   - `return` exits the enclosing method only; there is no user-facing
//     exception mechanism.
//
// The lexer emits explicit NEWLINE/INDENT/DEDENT tokens, the parser builds a
// statement tree, and the evaluator walks it against per-activation name
// closures, writing program output to the stream the host supplies.
package mython

// Package fluxion implements the lexer and parser for Fluxion, a small
// notation for writing mathematics.
//
// The parser turns source text into a tree of tokens: numbers, identifiers,
// function calls, operators, parenthesized expressions, finite sets, matrices,
// set-builder definitions, and recurrence rules. Each line of input is one
// statement. In "f(x, y) := x^2 + y", the call f(x, y) is a single token
// holding its two arguments, and "{1, 1} x_n -> x_(n-1) + x_(n-2)" defines a
// sequence.
//
// Operators are matched greedily, so "<=" is one token and "<x" is two. The
// word "in" is an operator only when it stands alone; "int" and "index" are
// identifiers. A line ending in "\\" continues onto the next line, and ";;"
// and ";* ... *;" begin comments. Source text must be UTF-8; a byte that
// isn't valid UTF-8 outside a comment is an error.
//
// Parsing never evaluates anything. Errors abort the statement in which they
// occur and parsing resumes on the next line, so a single call to Parse can
// report many errors.
//
package fluxion

// Package script implements the movement-op script DSL SPEC_FULL.md adds
// atop the original spec: a terse, line-oriented notation for a sequence
// of shapetracker movement operations, e.g.
//
//	new 2 3 4
//	permute 2 0 1
//	reshape 6 4
//	shrink 0 3 0 2
//	pad 1 1 0 0
//	flip 0
//	stride -1 1
//	simplify
//
// one statement per line, used by cmd/shapetrace and by table-driven
// tests that want to express long movement-op sequences tersely rather
// than as Go call chains.
package script

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer follows the teacher's grammar.KansoLexer shape (grammar/lexer.go):
// a single "Root" state, comments and whitespace elided by the parser,
// identifiers before integers, a signed-number rule for negative stride
// and flip-less uses.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Number", `-?[0-9]+`, nil},
		{"EOL", `\n`, nil},
		{"Whitespace", `[ \t\r]+`, nil},
	},
})

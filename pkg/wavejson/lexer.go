package wavejson

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// waveLexer tokenizes the relaxed JSON dialect used by WaveJSON payloads.
// Comments and whitespace are elided by the parser.
var waveLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Line and block comments
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?:[^*]|\*+[^*/])*\*+/`},

	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	// Single- or double-quoted strings with escape sequences
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},

	{Name: "Number", Pattern: `[-+]?(?:[0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)(?:[eE][-+]?[0-9]+)?`},

	// Unquoted keys plus the true/false/null literals
	{Name: "Ident", Pattern: `[A-Za-z_$][A-Za-z0-9_$]*`},

	{Name: "Punct", Pattern: `[{}\[\]:,]`},
})

package profile

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ConfigLexer defines the lexical structure of a repal profiles.config file.
//
// The format is a small declarative block language, not unlike a stripped
// down VHDL entity: named "profile" blocks containing key = value pairs and
// "pin" declarations. Leading '#' comment lines are stripped by the caller
// before this lexer ever sees the text (see stripComments), so no Comment
// token is needed here.
var ConfigLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	// Quoted strings, e.g. "pal16v8"
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Integers (bit positions, pin numbers, widths)
	{Name: "Int", Pattern: `[0-9]+`},

	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Equals", Pattern: `=`},

	// Identifiers: field keys, the "profile"/"pin" keywords, and bareword
	// values like "little"/"big".
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
})

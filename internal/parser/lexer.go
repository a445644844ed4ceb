package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer maps the raw string tokens out for our AST definitions.
// Basic whitespace elision is enough for our grammar.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(?:move|switch|item|flee|replace|turn|status|help|by|to|on)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][\w-]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[:]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Build creates our parser based on the struct tags in `ast.go`
func Build() *participle.Parser[Command] {
	return participle.MustBuild[Command](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Keyword"),
	)
}

var defaultParser = Build()

// Parse reads one command line, translating grammar errors into usage hints.
func Parse(input string) (*Command, error) {
	if strings.TrimSpace(input) == "" {
		return nil, MapError(input, nil)
	}
	cmd, err := defaultParser.ParseString("", input)
	if err != nil {
		return nil, MapError(input, err)
	}
	return cmd, nil
}

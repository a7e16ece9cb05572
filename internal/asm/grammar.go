package asm

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Source AST node types.

// program is the top-level AST node, one entry per source line.
type program struct {
	Lines []*line `@@*`
}

// line is an optional label followed by an optional data directive or
// instruction.
type line struct {
	Pos lexer.Position

	Label       string       `@Label?`
	Data        *data        `( @@`
	Instruction *instruction `| @@ )? EOL`
}

// data: db value, value ...
type data struct {
	Values []*operand `"db" @@ ( "," @@ )*`
}

// instruction: mnemonic operand, operand ...
type instruction struct {
	Pos lexer.Position

	Mnemonic string     `@Ident`
	Operands []*operand `( @@ ( "," @@ )* )?`
}

// operand: register | number | name
type operand struct {
	Pos lexer.Position

	Register *string `  @Register`
	Number   *string `| @Number`
	Name     *string `| @Ident`
}

var sourceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "EOL", Pattern: `[\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},

	{Name: "Label", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*:`},
	{Name: "Register", Pattern: `[vV][0-9a-fA-F]\b`},
	{Name: "Number", Pattern: `(\$|0x|0X)[0-9a-fA-F]+|[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `,`},
})

var parser = participle.MustBuild[program](
	participle.Lexer(sourceLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.CaseInsensitive("Ident"),
	participle.UseLookahead(2),
)

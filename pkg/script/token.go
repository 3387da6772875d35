package script

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	// EOF marks the end of the source
	EOF TokenKind = iota
	// NEWLINE is a statement separator
	NEWLINE
	// SEMICOLON is a statement separator
	SEMICOLON
	// IDENT is a variable or function name
	IDENT
	// INT is an integer literal
	INT
	// FLOAT is a floating point literal
	FLOAT
	// STRING is a quoted string literal
	STRING

	// ASSIGN is '='
	ASSIGN
	// EQ is '=='
	EQ
	// NE is '!='
	NE
	// LT is '<'
	LT
	// LE is '<='
	LE
	// GT is '>'
	GT
	// GE is '>='
	GE
	// PLUS is '+'
	PLUS
	// MINUS is '-'
	MINUS
	// STAR is '*'
	STAR
	// SLASH is '/'
	SLASH
	// PERCENT is '%'
	PERCENT
	// INCR is '++'
	INCR
	// DECR is '--'
	DECR
	// LPAREN is '('
	LPAREN
	// RPAREN is ')'
	RPAREN
	// LBRACKET is '['
	LBRACKET
	// RBRACKET is ']'
	RBRACKET
	// COMMA is ','
	COMMA

	// AND is the keyword 'and'
	AND
	// OR is the keyword 'or'
	OR
	// NOT is the keyword 'not'
	NOT
	// TRUE is the keyword 'true'
	TRUE
	// FALSE is the keyword 'false'
	FALSE
	// NULL is the keyword 'null'
	NULL
)

// Token is a single lexical token with its source position.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "newline"
	default:
		return fmt.Sprintf("%q", t.Text)
	}
}

// keywords maps reserved identifiers to their token kinds. The Python
// spellings are accepted because authored machine code routinely uses them.
var keywords = map[string]TokenKind{
	"and":   AND,
	"or":    OR,
	"not":   NOT,
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
	"True":  TRUE,
	"False": FALSE,
	"None":  NULL,
}

package script

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer converts action/condition source text into a token stream.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// tokenize scans the whole source. It stops at the first invalid character.
func tokenize(src string) ([]Token, error) {
	lx := newLexer(src)

	var tokens []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

func (lx *lexer) next() (Token, error) {
	lx.skipBlanks()

	start := lx.pos
	if lx.pos >= len(lx.src) {
		return Token{Kind: EOF, Pos: start}, nil
	}

	ch := lx.src[lx.pos]
	switch {
	case ch == '\n':
		lx.pos++
		return Token{Kind: NEWLINE, Text: "\n", Pos: start}, nil
	case ch == ';':
		lx.pos++
		return Token{Kind: SEMICOLON, Text: ";", Pos: start}, nil
	case ch == '\'' || ch == '"':
		return lx.scanString(ch)
	case isDigit(ch):
		return lx.scanNumber()
	}
	if r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:]); isIdentStart(r) {
		return lx.scanIdent()
	}

	// Operators, longest match first.
	two := ""
	if lx.pos+1 < len(lx.src) {
		two = lx.src[lx.pos : lx.pos+2]
	}
	switch two {
	case "==":
		lx.pos += 2
		return Token{Kind: EQ, Text: two, Pos: start}, nil
	case "!=":
		lx.pos += 2
		return Token{Kind: NE, Text: two, Pos: start}, nil
	case "<=":
		lx.pos += 2
		return Token{Kind: LE, Text: two, Pos: start}, nil
	case ">=":
		lx.pos += 2
		return Token{Kind: GE, Text: two, Pos: start}, nil
	case "++":
		lx.pos += 2
		return Token{Kind: INCR, Text: two, Pos: start}, nil
	case "--":
		lx.pos += 2
		return Token{Kind: DECR, Text: two, Pos: start}, nil
	case "&&":
		lx.pos += 2
		return Token{Kind: AND, Text: two, Pos: start}, nil
	case "||":
		lx.pos += 2
		return Token{Kind: OR, Text: two, Pos: start}, nil
	}

	single := map[byte]TokenKind{
		'=': ASSIGN,
		'<': LT,
		'>': GT,
		'+': PLUS,
		'-': MINUS,
		'*': STAR,
		'/': SLASH,
		'%': PERCENT,
		'(': LPAREN,
		')': RPAREN,
		'[': LBRACKET,
		']': RBRACKET,
		',': COMMA,
		'!': NOT,
	}
	if kind, ok := single[ch]; ok {
		lx.pos++
		return Token{Kind: kind, Text: string(ch), Pos: start}, nil
	}

	return Token{}, fmt.Errorf("%w: unexpected character %q at offset %d", ErrSyntax, string(ch), start)
}

// skipBlanks consumes spaces, tabs, carriage returns and '#' comments.
// Newlines are significant (statement separators) and are not skipped.
func (lx *lexer) skipBlanks() {
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case ' ', '\t', '\r':
			lx.pos++
		case '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		default:
			return
		}
	}
}

func (lx *lexer) scanString(quote byte) (Token, error) {
	start := lx.pos
	lx.pos++ // opening quote

	var sb strings.Builder
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		switch ch {
		case quote:
			lx.pos++
			return Token{Kind: STRING, Text: sb.String(), Pos: start}, nil
		case '\\':
			if lx.pos+1 >= len(lx.src) {
				return Token{}, fmt.Errorf("%w: unterminated escape at offset %d", ErrSyntax, lx.pos)
			}
			lx.pos++
			switch lx.src[lx.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(lx.src[lx.pos])
			default:
				return Token{}, fmt.Errorf("%w: unsupported escape %q at offset %d", ErrSyntax, string(lx.src[lx.pos]), lx.pos)
			}
			lx.pos++
		case '\n':
			return Token{}, fmt.Errorf("%w: unterminated string at offset %d", ErrSyntax, start)
		default:
			sb.WriteByte(ch)
			lx.pos++
		}
	}

	return Token{}, fmt.Errorf("%w: unterminated string at offset %d", ErrSyntax, start)
}

func (lx *lexer) scanNumber() (Token, error) {
	start := lx.pos
	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}

	kind := INT
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
		kind = FLOAT
		lx.pos++
		if lx.pos >= len(lx.src) || !isDigit(lx.src[lx.pos]) {
			return Token{}, fmt.Errorf("%w: malformed number at offset %d", ErrSyntax, start)
		}
		for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}

	return Token{Kind: kind, Text: lx.src[start:lx.pos], Pos: start}, nil
}

func (lx *lexer) scanIdent() (Token, error) {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentPart(r) {
			break
		}
		lx.pos += size
	}

	text := lx.src[start:lx.pos]
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind, Text: text, Pos: start}, nil
	}
	return Token{Kind: IDENT, Text: text, Pos: start}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

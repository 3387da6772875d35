package script

import (
	"fmt"
	"strconv"
)

// parser is a recursive-descent parser over a pre-lexed token stream.
type parser struct {
	tokens []Token
	pos    int
}

// ParseExpr parses source as a single expression. Trailing newlines are
// permitted; any other trailing input is a syntax error.
func ParseExpr(source string) (Expr, error) {
	p, err := newParser(source)
	if err != nil {
		return nil, err
	}

	p.skipNewlines()
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()

	if tok := p.peek(); tok.Kind != EOF {
		return nil, fmt.Errorf("%w: unexpected %s after expression", ErrSyntax, tok)
	}
	return expr, nil
}

// ParseStmt parses source as a single statement: an assignment, an
// increment/decrement shorthand, or a bare expression.
func ParseStmt(source string) (Stmt, error) {
	p, err := newParser(source)
	if err != nil {
		return nil, err
	}

	p.skipNewlines()
	stmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()

	if tok := p.peek(); tok.Kind != EOF {
		return nil, fmt.Errorf("%w: unexpected %s after statement", ErrSyntax, tok)
	}
	return stmt, nil
}

func newParser(source string) (*parser, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	return &parser{tokens: tokens}, nil
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return Token{}, fmt.Errorf("%w: expected %s, found %s", ErrSyntax, what, tok)
	}
	return p.advance(), nil
}

func (p *parser) skipNewlines() {
	for p.peek().Kind == NEWLINE {
		p.advance()
	}
}

func (p *parser) parseStmt() (Stmt, error) {
	if p.peek().Kind == IDENT {
		switch p.peekAt(1).Kind {
		case ASSIGN:
			name := p.advance().Text
			p.advance() // '='
			value, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			return &Assign{Name: name, Value: value}, nil
		case INCR, DECR:
			name := p.advance().Text
			delta := int64(1)
			if p.advance().Kind == DECR {
				delta = -1
			}
			return &IncDec{Name: name, Delta: delta}, nil
		}
	}

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{X: expr}, nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == OR {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OR, X: left, Y: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == AND {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: AND, X: left, Y: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.peek().Kind == NOT {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: NOT, X: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().Kind
		switch op {
		case EQ, NE, LT, LE, GT, GE:
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: op, X: left, Y: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().Kind
		if op != PLUS && op != MINUS {
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, X: left, Y: right}
	}
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().Kind
		if op != STAR && op != SLASH && op != PERCENT {
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, X: left, Y: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek().Kind == MINUS {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: MINUS, X: operand}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == LBRACKET {
		p.advance()
		idx, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACKET, "']'"); err != nil {
			return nil, err
		}
		expr = &Index{X: expr, Idx: idx}
	}
	return expr, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case INT:
		p.advance()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad integer literal %q", ErrSyntax, tok.Text)
		}
		return &Lit{Value: n}, nil
	case FLOAT:
		p.advance()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad float literal %q", ErrSyntax, tok.Text)
		}
		return &Lit{Value: f}, nil
	case STRING:
		p.advance()
		return &Lit{Value: tok.Text}, nil
	case TRUE:
		p.advance()
		return &Lit{Value: true}, nil
	case FALSE:
		p.advance()
		return &Lit{Value: false}, nil
	case NULL:
		p.advance()
		return &Lit{Value: nil}, nil
	case IDENT:
		if p.peekAt(1).Kind == LPAREN {
			return p.parseCall()
		}
		p.advance()
		return &Name{Ident: tok.Text}, nil
	case LPAREN:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case LBRACKET:
		return p.parseList()
	}
	return nil, fmt.Errorf("%w: unexpected %s", ErrSyntax, tok)
}

func (p *parser) parseCall() (Expr, error) {
	name := p.advance().Text
	p.advance() // '('

	call := &Call{Fn: name}
	if p.peek().Kind == RPAREN {
		p.advance()
		return call, nil
	}

	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		switch p.peek().Kind {
		case COMMA:
			p.advance()
		case RPAREN:
			p.advance()
			return call, nil
		default:
			return nil, fmt.Errorf("%w: expected ',' or ')' in call to %s, found %s", ErrSyntax, name, p.peek())
		}
	}
}

func (p *parser) parseList() (Expr, error) {
	p.advance() // '['

	list := &ListLit{}
	if p.peek().Kind == RBRACKET {
		p.advance()
		return list, nil
	}

	for {
		elem, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, elem)

		switch p.peek().Kind {
		case COMMA:
			p.advance()
		case RBRACKET:
			p.advance()
			return list, nil
		default:
			return nil, fmt.Errorf("%w: expected ',' or ']' in list literal, found %s", ErrSyntax, p.peek())
		}
	}
}

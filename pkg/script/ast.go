package script

// Expr is a node in the expression tree.
type Expr interface {
	exprNode()
}

// Lit is a literal value: number, string, boolean or null.
type Lit struct {
	Value any
}

// Name is a variable reference.
type Name struct {
	Ident string
}

// ListLit is a list literal like [1, 2, 3].
type ListLit struct {
	Elems []Expr
}

// Unary is a prefix operation: 'not x' or '-x'.
type Unary struct {
	Op TokenKind
	X  Expr
}

// Binary is an infix operation over two operands.
type Binary struct {
	Op   TokenKind
	X, Y Expr
}

// Call invokes a builtin or host-registered function by name. The callee
// is restricted to a bare identifier: there is no way to call a computed
// value in this language.
type Call struct {
	Fn   string
	Args []Expr
}

// Index subscripts a list or string: x[i].
type Index struct {
	X   Expr
	Idx Expr
}

func (*Lit) exprNode()     {}
func (*Name) exprNode()    {}
func (*ListLit) exprNode() {}
func (*Unary) exprNode()   {}
func (*Binary) exprNode()  {}
func (*Call) exprNode()    {}
func (*Index) exprNode()   {}

// Stmt is a single executable statement.
type Stmt interface {
	stmtNode()
}

// Assign stores the value of an expression in a variable.
type Assign struct {
	Name  string
	Value Expr
}

// IncDec is the 'name++' / 'name--' shorthand.
type IncDec struct {
	Name  string
	Delta int64
}

// ExprStmt evaluates an expression for its side effects (host function
// calls, print) and discards the result.
type ExprStmt struct {
	X Expr
}

func (*Assign) stmtNode()   {}
func (*IncDec) stmtNode()   {}
func (*ExprStmt) stmtNode() {}

// ast.go — the closed set of Suvawa syntax-tree variants.
//
// The AST is a tree of typed nodes produced once per parse and immutable
// afterwards. Every node records the 1-based line/column of its first token,
// which the evaluator uses for runtime diagnostics. Expressions and statements
// are separate closed interfaces; the evaluator dispatches with exhaustive
// type switches, so adding a node kind forces every consumer to be updated.
//
// Expressions:
//
//	NumberLit, StringLit, BoolLit, NullLit
//	Ident                         // name reference
//	UnaryExpr                     // "-" x, "not" x
//	BinaryExpr                    // + - * / % == != < <= > >=
//	LogicalExpr                   // "and"/"or", short-circuiting
//	AssignExpr                    // target = value (right-assoc, lowest prec)
//	CallExpr                      // callee(arg, ...)
//	IndexExpr                     // obj[expr]
//	GetExpr                       // obj.name
//	FunLit                        // fun(params) body end — closure at eval time
//	ListLit, MapLit
//
// Statements:
//
//	LetStmt                       // let name = expr
//	ExprStmt
//	BlockStmt                     // do ... end, introduces a new scope
//	IfStmt                        // if/elif/else chains (elif desugars to nested IfStmt)
//	WhileStmt
//	ForStmt                       // for name in expr do ... end
//	FunStmt                       // fun name(params) ... end — sugar for let+FunLit
//	ReturnStmt, BreakStmt, ContinueStmt
package suvawa

// Node is the common interface of every AST variant.
type Node interface {
	Pos() (line, col int)
}

// Expr is implemented by all expression variants.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by all statement variants.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root: an ordered sequence of top-level statements.
type Program struct {
	Stmts []Stmt
}

// position carried by every node
type at struct {
	Line int
	Col  int
}

func (a at) Pos() (int, int) { return a.Line, a.Col }

// ----- expressions -----

type NumberLit struct {
	at
	Value float64
}

type StringLit struct {
	at
	Value string
}

type BoolLit struct {
	at
	Value bool
}

type NullLit struct {
	at
}

type Ident struct {
	at
	Name string
}

type UnaryExpr struct {
	at
	Op    string // "-" or "not"
	Right Expr
}

type BinaryExpr struct {
	at
	Op    string // "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">="
	Left  Expr
	Right Expr
}

// LogicalExpr is kept separate from BinaryExpr because its right operand is
// evaluated conditionally (short-circuit).
type LogicalExpr struct {
	at
	Op    string // "and" or "or"
	Left  Expr
	Right Expr
}

// AssignExpr mutates an existing binding, a list slot, or a map entry.
// Target is one of *Ident, *IndexExpr, *GetExpr; the parser rejects anything
// else.
type AssignExpr struct {
	at
	Target Expr
	Value  Expr
}

type CallExpr struct {
	at
	Callee Expr
	Args   []Expr
}

type IndexExpr struct {
	at
	Obj   Expr
	Index Expr
}

type GetExpr struct {
	at
	Obj  Expr
	Name string
}

type FunLit struct {
	at
	Params []string
	Body   *BlockStmt
}

type ListLit struct {
	at
	Elems []Expr
}

// MapLit preserves the written pair order for deterministic evaluation; the
// runtime map itself is unordered.
type MapLit struct {
	at
	Keys   []string
	Values []Expr
}

func (*NumberLit) exprNode()   {}
func (*StringLit) exprNode()   {}
func (*BoolLit) exprNode()     {}
func (*NullLit) exprNode()     {}
func (*Ident) exprNode()       {}
func (*UnaryExpr) exprNode()   {}
func (*BinaryExpr) exprNode()  {}
func (*LogicalExpr) exprNode() {}
func (*AssignExpr) exprNode()  {}
func (*CallExpr) exprNode()    {}
func (*IndexExpr) exprNode()   {}
func (*GetExpr) exprNode()     {}
func (*FunLit) exprNode()      {}
func (*ListLit) exprNode()     {}
func (*MapLit) exprNode()      {}

// ----- statements -----

type LetStmt struct {
	at
	Name  string
	Value Expr
}

type ExprStmt struct {
	at
	X Expr
}

type BlockStmt struct {
	at
	Stmts []Stmt
}

type IfStmt struct {
	at
	Cond Expr
	Then *BlockStmt
	Else Stmt // *BlockStmt, *IfStmt (elif), or nil
}

type WhileStmt struct {
	at
	Cond Expr
	Body *BlockStmt
}

type ForStmt struct {
	at
	Name string
	Iter Expr
	Body *BlockStmt
}

// FunStmt is sugar: `fun name(a, b) ... end` binds a FunLit to name in the
// current scope.
type FunStmt struct {
	at
	Name string
	Fn   *FunLit
}

type ReturnStmt struct {
	at
	Value Expr // nil for bare `return`
}

type BreakStmt struct {
	at
}

type ContinueStmt struct {
	at
}

func (*LetStmt) stmtNode()      {}
func (*ExprStmt) stmtNode()     {}
func (*BlockStmt) stmtNode()    {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*FunStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}

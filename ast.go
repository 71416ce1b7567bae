package quicksilver

// The syntax tree is internal to the package; scripts only ever cross the
// boundary as source text and Values.

type expr interface {
	pos() Position
}

type stmt interface {
	stmtPos() Position
}

// --- Expressions ---

type numberLit struct {
	val float64
	at  Position
}

type stringLit struct {
	val string
	at  Position
}

type boolLit struct {
	val bool
	at  Position
}

type nullLit struct {
	at Position
}

type undefinedLit struct {
	at Position
}

// templateChunk is either literal text or an embedded expression.
type templateChunk struct {
	text string
	e    expr // nil for text chunks
}

type templateLit struct {
	chunks []templateChunk
	at     Position
}

type identExpr struct {
	name string
	at   Position
}

type unaryExpr struct {
	op      tokenType // tokMinus, tokPlus, tokNot
	operand expr
	at      Position
}

type typeofExpr struct {
	operand expr
	at      Position
}

type binaryExpr struct {
	op       tokenType
	lhs, rhs expr
	at       Position
}

// logicalExpr is && / || with short-circuit, value-preserving semantics.
type logicalExpr struct {
	op       tokenType
	lhs, rhs expr
	at       Position
}

type condExpr struct {
	cond, then, alt expr
	at              Position
}

type memberExpr struct {
	obj  expr
	name string
	at   Position
}

type callExpr struct {
	callee expr
	args   []expr
	at     Position
}

type assignExpr struct {
	name string
	val  expr
	at   Position
}

func (e *numberLit) pos() Position    { return e.at }
func (e *stringLit) pos() Position    { return e.at }
func (e *boolLit) pos() Position      { return e.at }
func (e *nullLit) pos() Position      { return e.at }
func (e *undefinedLit) pos() Position { return e.at }
func (e *templateLit) pos() Position  { return e.at }
func (e *identExpr) pos() Position    { return e.at }
func (e *unaryExpr) pos() Position    { return e.at }
func (e *typeofExpr) pos() Position   { return e.at }
func (e *binaryExpr) pos() Position   { return e.at }
func (e *logicalExpr) pos() Position  { return e.at }
func (e *condExpr) pos() Position     { return e.at }
func (e *memberExpr) pos() Position   { return e.at }
func (e *callExpr) pos() Position     { return e.at }
func (e *assignExpr) pos() Position   { return e.at }

// --- Statements ---

type program struct {
	stmts []stmt
}

type exprStmt struct {
	e expr
}

// declStmt is a let/const/var declaration. Top-level declarations persist
// in the runtime's global table; block-scoped ones live in the evaluation
// environment only.
type declStmt struct {
	kind tokenType // tokLet, tokConst, tokVar
	name string
	init expr // nil for bare declarations
	at   Position
}

type blockStmt struct {
	stmts []stmt
	at    Position
}

type ifStmt struct {
	cond expr
	then stmt
	alt  stmt // nil when there is no else branch
	at   Position
}

type whileStmt struct {
	cond expr
	body stmt
	at   Position
}

func (s *exprStmt) stmtPos() Position  { return s.e.pos() }
func (s *declStmt) stmtPos() Position  { return s.at }
func (s *blockStmt) stmtPos() Position { return s.at }
func (s *ifStmt) stmtPos() Position    { return s.at }
func (s *whileStmt) stmtPos() Position { return s.at }

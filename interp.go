package quicksilver

import (
	"math"
)

// environment is a lexical scope chain used during a single evaluation.
// The root of the chain writes through to the runtime's global table, so
// top-level declarations persist across Eval calls.
type environment struct {
	vars   map[string]Value
	consts map[string]bool
	parent *environment
	global bool
}

func newEnvironment(parent *environment) *environment {
	return &environment{
		vars:   map[string]Value{},
		consts: map[string]bool{},
		parent: parent,
	}
}

// interp walks the syntax tree against a runtime. It is constructed per
// Eval call; the runtime's mutex is already held.
type interp struct {
	rt     *Runtime
	source string
}

// run executes a program. The result is the value of the last top-level
// expression statement, or Undefined when there is none.
func (in *interp) run(prog *program) (Value, *Error) {
	root := newEnvironment(nil)
	root.global = true

	result := Undefined()
	for _, s := range prog.stmts {
		v, isExpr, err := in.execStmt(s, root)
		if err != nil {
			return Undefined(), err
		}
		if isExpr {
			result = v
		}
	}
	return result, nil
}

// execStmt executes one statement. isExpr reports whether the statement
// was an expression statement, whose value may become the script result.
func (in *interp) execStmt(s stmt, env *environment) (v Value, isExpr bool, err *Error) {
	if e := in.checkInterrupt(s.stmtPos()); e != nil {
		return Undefined(), false, e
	}

	switch s := s.(type) {
	case *exprStmt:
		v, err := in.evalExpr(s.e, env)
		return v, true, err

	case *declStmt:
		val := Undefined()
		if s.init != nil {
			var err *Error
			val, err = in.evalExpr(s.init, env)
			if err != nil {
				return Undefined(), false, err
			}
		}
		in.declare(env, s.name, val, s.kind == tokConst)
		return Undefined(), false, nil

	case *blockStmt:
		inner := newEnvironment(env)
		for _, bs := range s.stmts {
			if _, _, err := in.execStmt(bs, inner); err != nil {
				return Undefined(), false, err
			}
		}
		return Undefined(), false, nil

	case *ifStmt:
		cond, err := in.evalExpr(s.cond, env)
		if err != nil {
			return Undefined(), false, err
		}
		if cond.ToBool() {
			_, _, err := in.execStmt(s.then, env)
			return Undefined(), false, err
		}
		if s.alt != nil {
			_, _, err := in.execStmt(s.alt, env)
			return Undefined(), false, err
		}
		return Undefined(), false, nil

	case *whileStmt:
		for {
			if e := in.checkInterrupt(s.at); e != nil {
				return Undefined(), false, e
			}
			cond, err := in.evalExpr(s.cond, env)
			if err != nil {
				return Undefined(), false, err
			}
			if !cond.ToBool() {
				return Undefined(), false, nil
			}
			if _, _, err := in.execStmt(s.body, env); err != nil {
				return Undefined(), false, err
			}
		}
	}
	return Undefined(), false, in.errorf(ErrInternal, s.stmtPos(), "unhandled statement")
}

func (in *interp) checkInterrupt(pos Position) *Error {
	if in.rt.interrupt != nil && in.rt.interrupt() {
		return in.errorf(ErrInterrupt, pos, "evaluation interrupted")
	}
	return nil
}

func (in *interp) errorf(name string, pos Position, format string, args ...interface{}) *Error {
	return newError(name, pos, in.source, format, args...)
}

// declare binds a name in the given scope. Root-scope declarations go to
// the runtime's global table.
func (in *interp) declare(env *environment, name string, val Value, isConst bool) {
	if env.global {
		in.rt.globals[name] = val
		if isConst {
			in.rt.consts[name] = true
		} else {
			delete(in.rt.consts, name)
		}
		return
	}
	env.vars[name] = val
	if isConst {
		env.consts[name] = true
	}
}

// resolve looks a name up through the scope chain, then the runtime's
// global table, then the built-in bindings.
func (in *interp) resolve(env *environment, name string) (Value, bool) {
	for e := env; e != nil; e = e.parent {
		if !e.global {
			if v, ok := e.vars[name]; ok {
				return v, true
			}
		}
	}
	if v, ok := in.rt.globals[name]; ok {
		return v, true
	}
	if v, ok := in.rt.builtins[name]; ok {
		return v, true
	}
	return Value{}, false
}

// assign writes to the innermost scope that holds the name; an unbound
// name becomes a new runtime global, matching non-strict script semantics.
func (in *interp) assign(env *environment, name string, val Value, pos Position) *Error {
	for e := env; e != nil; e = e.parent {
		if e.global {
			continue
		}
		if _, ok := e.vars[name]; ok {
			if e.consts[name] {
				return in.errorf(ErrType, pos, "Assignment to constant variable.")
			}
			e.vars[name] = val
			return nil
		}
	}
	if in.rt.consts[name] {
		return in.errorf(ErrType, pos, "Assignment to constant variable.")
	}
	in.rt.globals[name] = val
	return nil
}

func (in *interp) evalExpr(e expr, env *environment) (Value, *Error) {
	switch e := e.(type) {
	case *numberLit:
		return Number(e.val), nil
	case *stringLit:
		return String(e.val), nil
	case *boolLit:
		return Bool(e.val), nil
	case *nullLit:
		return Null(), nil
	case *undefinedLit:
		return Undefined(), nil

	case *templateLit:
		return in.evalTemplate(e, env)

	case *identExpr:
		if v, ok := in.resolve(env, e.name); ok {
			return v, nil
		}
		return Undefined(), in.errorf(ErrReference, e.at, "%s is not defined", e.name)

	case *assignExpr:
		val, err := in.evalExpr(e.val, env)
		if err != nil {
			return Undefined(), err
		}
		if err := in.assign(env, e.name, val, e.at); err != nil {
			return Undefined(), err
		}
		return val, nil

	case *unaryExpr:
		operand, err := in.evalExpr(e.operand, env)
		if err != nil {
			return Undefined(), err
		}
		switch e.op {
		case tokMinus:
			return Number(-operand.ToFloat64()), nil
		case tokPlus:
			return Number(operand.ToFloat64()), nil
		case tokNot:
			return Bool(!operand.ToBool()), nil
		}
		return Undefined(), in.errorf(ErrInternal, e.at, "unhandled unary operator")

	case *typeofExpr:
		// typeof of an unresolved identifier is "undefined", not a
		// ReferenceError.
		if id, ok := e.operand.(*identExpr); ok {
			if v, found := in.resolve(env, id.name); found {
				return String(v.TypeOf()), nil
			}
			return String("undefined"), nil
		}
		operand, err := in.evalExpr(e.operand, env)
		if err != nil {
			return Undefined(), err
		}
		return String(operand.TypeOf()), nil

	case *binaryExpr:
		return in.evalBinary(e, env)

	case *logicalExpr:
		lhs, err := in.evalExpr(e.lhs, env)
		if err != nil {
			return Undefined(), err
		}
		if e.op == tokAnd {
			if !lhs.ToBool() {
				return lhs, nil
			}
		} else {
			if lhs.ToBool() {
				return lhs, nil
			}
		}
		return in.evalExpr(e.rhs, env)

	case *condExpr:
		cond, err := in.evalExpr(e.cond, env)
		if err != nil {
			return Undefined(), err
		}
		if cond.ToBool() {
			return in.evalExpr(e.then, env)
		}
		return in.evalExpr(e.alt, env)

	case *memberExpr:
		return in.evalMember(e, env)

	case *callExpr:
		return in.evalCall(e, env)
	}
	return Undefined(), in.errorf(ErrInternal, e.pos(), "unhandled expression")
}

func (in *interp) evalTemplate(t *templateLit, env *environment) (Value, *Error) {
	var out []byte
	for _, chunk := range t.chunks {
		if chunk.e == nil {
			out = append(out, chunk.text...)
			continue
		}
		v, err := in.evalExpr(chunk.e, env)
		if err != nil {
			return Undefined(), err
		}
		out = append(out, v.ToString()...)
	}
	return String(string(out)), nil
}

func (in *interp) evalBinary(e *binaryExpr, env *environment) (Value, *Error) {
	lhs, err := in.evalExpr(e.lhs, env)
	if err != nil {
		return Undefined(), err
	}
	rhs, err := in.evalExpr(e.rhs, env)
	if err != nil {
		return Undefined(), err
	}

	switch e.op {
	case tokPlus:
		if lhs.IsString() || rhs.IsString() || lhs.IsObject() || rhs.IsObject() {
			return String(lhs.ToString() + rhs.ToString()), nil
		}
		return Number(lhs.ToFloat64() + rhs.ToFloat64()), nil
	case tokMinus:
		return Number(lhs.ToFloat64() - rhs.ToFloat64()), nil
	case tokStar:
		return Number(lhs.ToFloat64() * rhs.ToFloat64()), nil
	case tokSlash:
		// IEEE double rules: x/0 is Infinity, 0/0 is NaN.
		return Number(lhs.ToFloat64() / rhs.ToFloat64()), nil
	case tokPercent:
		return Number(math.Mod(lhs.ToFloat64(), rhs.ToFloat64())), nil

	case tokEq:
		return Bool(lhs.Equals(rhs)), nil
	case tokNeq:
		return Bool(!lhs.Equals(rhs)), nil
	case tokStrictEq:
		return Bool(lhs.StrictEquals(rhs)), nil
	case tokStrictNeq:
		return Bool(!lhs.StrictEquals(rhs)), nil

	case tokLess, tokLessEq, tokGreater, tokGreaterEq:
		return compareValues(e.op, lhs, rhs), nil
	}
	return Undefined(), in.errorf(ErrInternal, e.at, "unhandled binary operator")
}

// compareValues implements the relational operators: lexicographic for
// string pairs, numeric otherwise, false whenever a NaN is involved.
func compareValues(op tokenType, lhs, rhs Value) Value {
	if lhs.IsString() && rhs.IsString() {
		a, b := lhs.ToString(), rhs.ToString()
		switch op {
		case tokLess:
			return Bool(a < b)
		case tokLessEq:
			return Bool(a <= b)
		case tokGreater:
			return Bool(a > b)
		default:
			return Bool(a >= b)
		}
	}
	a, b := lhs.ToFloat64(), rhs.ToFloat64()
	if math.IsNaN(a) || math.IsNaN(b) {
		return Bool(false)
	}
	switch op {
	case tokLess:
		return Bool(a < b)
	case tokLessEq:
		return Bool(a <= b)
	case tokGreater:
		return Bool(a > b)
	default:
		return Bool(a >= b)
	}
}

func (in *interp) evalMember(e *memberExpr, env *environment) (Value, *Error) {
	obj, err := in.evalExpr(e.obj, env)
	if err != nil {
		return Undefined(), err
	}
	if obj.IsNullish() {
		return Undefined(), in.errorf(ErrType, e.at,
			"Cannot read properties of %s (reading '%s')", obj.ToString(), e.name)
	}
	switch obj.Type() {
	case TypeString:
		return stringProperty(obj.ToString(), e.name), nil
	case TypeObject:
		if p, ok := obj.property(e.name); ok {
			return p, nil
		}
	}
	return Undefined(), nil
}

func (in *interp) evalCall(e *callExpr, env *environment) (Value, *Error) {
	callee, err := in.evalExpr(e.callee, env)
	if err != nil {
		return Undefined(), err
	}
	args := make([]Value, len(e.args))
	for i, a := range e.args {
		v, err := in.evalExpr(a, env)
		if err != nil {
			return Undefined(), err
		}
		args[i] = v
	}
	if !callee.IsObject() || callee.obj.call == nil {
		return Undefined(), in.errorf(ErrType, e.at, "%s is not a function", calleeName(e.callee))
	}
	ret, callErr := callee.obj.call(args)
	if callErr != nil {
		if qe, ok := callErr.(*Error); ok {
			if qe.Pos.Line == 0 {
				qe.Pos = e.at
				qe.Snippet = lineAt(in.source, e.at)
			}
			return Undefined(), qe
		}
		return Undefined(), in.errorf(ErrType, e.at, "%s", callErr.Error())
	}
	return ret, nil
}

func calleeName(e expr) string {
	switch e := e.(type) {
	case *identExpr:
		return e.name
	case *memberExpr:
		return calleeName(e.obj) + "." + e.name
	case *stringLit:
		return "expression"
	}
	return "expression"
}

func lineAt(source string, pos Position) string {
	line := 1
	start := 0
	for i := 0; i < len(source); i++ {
		if line == pos.Line {
			break
		}
		if source[i] == '\n' {
			line++
			start = i + 1
		}
	}
	end := start
	for end < len(source) && source[end] != '\n' {
		end++
	}
	return source[start:end]
}

package quicksilver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLexerTokens tests basic scanning.
func TestLexerTokens(t *testing.T) {
	toks, err := newLexer("1 + foo * 'bar'").scan()
	require.Nil(t, err)

	types := make([]tokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.typ
	}
	require.Equal(t,
		[]tokenType{tokNumber, tokPlus, tokIdent, tokStar, tokString, tokEOF},
		types)
	require.Equal(t, 1.0, toks[0].num)
	require.Equal(t, "foo", toks[2].lexeme)
	require.Equal(t, "bar", toks[4].str)
}

// TestLexerNumbers tests numeric literal forms.
func TestLexerNumbers(t *testing.T) {
	cases := map[string]float64{
		"0":      0,
		"42":     42,
		"1.5":    1.5,
		".5":     0.5,
		"1e3":    1000,
		"2.5e-1": 0.25,
		"0xFF":   255,
	}
	for src, want := range cases {
		toks, err := newLexer(src).scan()
		require.Nil(t, err, src)
		require.Equal(t, tokNumber, toks[0].typ, src)
		require.Equal(t, want, toks[0].num, src)
	}
}

// TestLexerEscapes tests string escape decoding.
func TestLexerEscapes(t *testing.T) {
	toks, err := newLexer(`'a\n\tA\u{1F600}\q'`).scan()
	require.Nil(t, err)
	require.Equal(t, "a\n\tA\U0001F600q", toks[0].str)
}

// TestLexerOperators tests maximal-munch operator scanning.
func TestLexerOperators(t *testing.T) {
	toks, err := newLexer("=== == = !== != ! <= < >= > && ||").scan()
	require.Nil(t, err)

	want := []tokenType{
		tokStrictEq, tokEq, tokAssign, tokStrictNeq, tokNeq, tokNot,
		tokLessEq, tokLess, tokGreaterEq, tokGreater, tokAnd, tokOr, tokEOF,
	}
	for i, w := range want {
		require.Equal(t, w, toks[i].typ, "token %d", i)
	}
}

// TestLexerPositions tests line/column tracking.
func TestLexerPositions(t *testing.T) {
	toks, err := newLexer("1\n  foo").scan()
	require.Nil(t, err)
	require.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, toks[0].pos)
	require.Equal(t, 2, toks[1].pos.Line)
	require.Equal(t, 3, toks[1].pos.Column)
}

// TestLexerTemplateParts tests template segmentation, including nested
// braces inside substitutions.
func TestLexerTemplateParts(t *testing.T) {
	toks, err := newLexer("`a${x}b${ {1} }c`").scan()
	require.Nil(t, err)
	require.Equal(t, tokTemplate, toks[0].typ)

	parts := toks[0].parts
	require.Len(t, parts, 5)
	require.Equal(t, "a", parts[0].text)
	require.True(t, parts[1].isExpr)
	require.Equal(t, "x", parts[1].text)
	require.Equal(t, "b", parts[2].text)
	require.True(t, parts[3].isExpr)
	require.Equal(t, " {1} ", parts[3].text)
	require.Equal(t, "c", parts[4].text)
}

// TestLexerErrors tests scan failures.
func TestLexerErrors(t *testing.T) {
	for _, src := range []string{
		"'open",
		"`open",
		"`${open`",
		"1 @ 2",
		"a & b",
		"0x",
	} {
		_, err := newLexer(src).scan()
		require.NotNil(t, err, src)
		require.Equal(t, ErrSyntax, err.Name, src)
	}
}

// TestParserErrors tests parse failures and their positions.
func TestParserErrors(t *testing.T) {
	cases := []string{
		"1 +",
		"(1 + 2",
		"1 ? 2",
		"let = 3",
		"const x",
		"1 = 2",
		"if (true",
		"while true {}",
		"a.",
		")",
	}
	for _, src := range cases {
		_, err := parse(src)
		require.NotNil(t, err, src)
		require.Equal(t, ErrSyntax, err.Name, src)
		require.NotZero(t, err.Pos.Line, src)
	}
}

// TestParserProgramShape tests statement splitting and optional
// semicolons.
func TestParserProgramShape(t *testing.T) {
	prog, err := parse("let a = 1; a + 1\nlet b = 2\nb")
	require.Nil(t, err)
	require.Len(t, prog.stmts, 4)

	_, ok := prog.stmts[0].(*declStmt)
	require.True(t, ok)
	_, ok = prog.stmts[1].(*exprStmt)
	require.True(t, ok)
}

// TestParserTemplateSubstitutionError tests that a bad substitution
// surfaces as a syntax error on the outer source.
func TestParserTemplateSubstitutionError(t *testing.T) {
	_, err := parse("`x${1 +}`")
	require.NotNil(t, err)
	require.Equal(t, ErrSyntax, err.Name)
	require.Contains(t, err.Message, "template substitution")
}

// TestParserPrecedence tests the expression tree shape for mixed
// operators.
func TestParserPrecedence(t *testing.T) {
	prog, err := parse("1 + 2 * 3")
	require.Nil(t, err)
	require.Len(t, prog.stmts, 1)

	root := prog.stmts[0].(*exprStmt).e.(*binaryExpr)
	require.Equal(t, tokPlus, root.op)
	rhs := root.rhs.(*binaryExpr)
	require.Equal(t, tokStar, rhs.op)

	prog, err = parse("-2 * 3")
	require.Nil(t, err)
	mul := prog.stmts[0].(*exprStmt).e.(*binaryExpr)
	require.Equal(t, tokStar, mul.op)
	_, ok := mul.lhs.(*unaryExpr)
	require.True(t, ok)
}

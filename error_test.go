package quicksilver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	quicksilver "github.com/quicksilver-lang/quicksilver-go"
)

// TestErrorFormatting tests the rendered message shape.
func TestErrorFormatting(t *testing.T) {
	err := &quicksilver.Error{
		Name:    quicksilver.ErrType,
		Message: "boom",
	}
	require.Equal(t, "TypeError: boom", err.Error())

	err.Pos = quicksilver.Position{Line: 2, Column: 5}
	require.Equal(t, "TypeError: boom at 2:5", err.Error())

	err.File = "script.js"
	require.Equal(t, "TypeError: boom at script.js:2:5", err.Error())
}

// TestErrorSnippet tests that evaluation errors carry the offending line
// and a caret.
func TestErrorSnippet(t *testing.T) {
	rt := quicksilver.NewRuntime()
	defer rt.Close()

	_, err := rt.Eval("let ok = 1;\nok @ 2")
	var qerr *quicksilver.Error
	require.ErrorAs(t, err, &qerr)
	require.True(t, qerr.IsSyntaxError())
	require.Equal(t, 2, qerr.Pos.Line)
	require.Equal(t, "ok @ 2", qerr.Snippet)
	require.Contains(t, qerr.Error(), "ok @ 2")
	require.Contains(t, qerr.Error(), "^")
}

// TestErrorFileName tests the EvalFileName option.
func TestErrorFileName(t *testing.T) {
	rt := quicksilver.NewRuntime()
	defer rt.Close()

	_, err := rt.Eval("1 +", quicksilver.EvalFileName("broken.js"))
	var qerr *quicksilver.Error
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, "broken.js", qerr.File)
	require.Contains(t, qerr.Error(), "broken.js")
}

// TestErrorClassification tests the classification predicates.
func TestErrorClassification(t *testing.T) {
	syntax := &quicksilver.Error{Name: quicksilver.ErrSyntax}
	require.True(t, syntax.IsSyntaxError())
	require.False(t, syntax.IsRuntimeError())

	for _, name := range []string{
		quicksilver.ErrReference,
		quicksilver.ErrType,
		quicksilver.ErrRange,
		quicksilver.ErrInterrupt,
	} {
		e := &quicksilver.Error{Name: name}
		require.False(t, e.IsSyntaxError(), name)
		require.True(t, e.IsRuntimeError(), name)
	}
}

// TestErrorPositions tests position reporting from the lexer and parser.
func TestErrorPositions(t *testing.T) {
	rt := quicksilver.NewRuntime()
	defer rt.Close()

	var qerr *quicksilver.Error

	_, err := rt.Eval("1 +")
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, 1, qerr.Pos.Line)

	_, err = rt.Eval("1 + 2\n+ huh\n@")
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, 3, qerr.Pos.Line)
	require.Equal(t, 1, qerr.Pos.Column)
}

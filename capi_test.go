package quicksilver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	quicksilver "github.com/quicksilver-lang/quicksilver-go"
)

// TestHandleRuntimeLifecycle tests runtime handle create/free pairing.
func TestHandleRuntimeLifecycle(t *testing.T) {
	rt := quicksilver.NewRuntimeHandle()
	require.NotZero(t, rt)

	require.True(t, rt.Free())
	require.False(t, rt.Free()) // double free reported, not fatal

	_, err := rt.Eval("1")
	var qerr *quicksilver.Error
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, quicksilver.ErrUsage, qerr.Name)
}

// TestHandleEval tests evaluation through the boundary.
func TestHandleEval(t *testing.T) {
	rt := quicksilver.NewRuntimeHandle()
	defer rt.Free()

	vh, err := rt.Eval("1 + 2 * 3")
	require.NoError(t, err)
	defer vh.Free()

	require.Equal(t, quicksilver.TypeNumber, vh.Type())
	require.Equal(t, 7.0, vh.ToFloat64())
	require.Equal(t, "7", vh.ToString())
}

// TestHandleEvalFailure tests that failure yields the invalid handle plus
// a structured error.
func TestHandleEvalFailure(t *testing.T) {
	rt := quicksilver.NewRuntimeHandle()
	defer rt.Free()

	vh, err := rt.Eval("1 +")
	require.Zero(t, vh)
	var qerr *quicksilver.Error
	require.ErrorAs(t, err, &qerr)
	require.True(t, qerr.IsSyntaxError())

	vh, err = rt.Eval("nope + 1")
	require.Zero(t, vh)
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, quicksilver.ErrReference, qerr.Name)
}

// TestHandleConstructors tests the per-variant value constructors.
func TestHandleConstructors(t *testing.T) {
	cases := []struct {
		handle quicksilver.ValueHandle
		typ    quicksilver.Type
		text   string
	}{
		{quicksilver.UndefinedHandle(), quicksilver.TypeUndefined, "undefined"},
		{quicksilver.NullHandle(), quicksilver.TypeNull, "null"},
		{quicksilver.BoolHandle(true), quicksilver.TypeBoolean, "true"},
		{quicksilver.NumberHandle(1.5), quicksilver.TypeNumber, "1.5"},
		{quicksilver.StringHandle("hi"), quicksilver.TypeString, "hi"},
	}
	for _, c := range cases {
		require.Equal(t, c.typ, c.handle.Type())
		require.Equal(t, c.text, c.handle.ToString())
		require.True(t, c.handle.Free())
	}
}

// TestHandleGlobals tests the set/get round trip and copy semantics
// through the boundary.
func TestHandleGlobals(t *testing.T) {
	rt := quicksilver.NewRuntimeHandle()
	defer rt.Free()

	vh := quicksilver.NumberHandle(42)
	require.NoError(t, rt.SetGlobal("x", vh))

	// The table stored its own copy; the caller's handle is still live
	// and independently releasable.
	require.Equal(t, 42.0, vh.ToFloat64())
	require.True(t, vh.Free())

	got, ok := rt.GetGlobal("x")
	require.True(t, ok)
	defer got.Free()
	require.Equal(t, 42.0, got.ToFloat64())

	// Not-found is distinct from a bound null.
	_, ok = rt.GetGlobal("missing")
	require.False(t, ok)

	nh := quicksilver.NullHandle()
	defer nh.Free()
	require.NoError(t, rt.SetGlobal("nothing", nh))
	got, ok = rt.GetGlobal("nothing")
	require.True(t, ok)
	defer got.Free()
	require.Equal(t, quicksilver.TypeNull, got.Type())
}

// TestHandleFreedValue tests that dead value handles yield zero values.
func TestHandleFreedValue(t *testing.T) {
	vh := quicksilver.NumberHandle(3)
	require.True(t, vh.Free())

	require.Equal(t, quicksilver.TypeUndefined, vh.Type())
	require.Equal(t, "", vh.ToString())
	require.False(t, vh.ToBool())

	rt := quicksilver.NewRuntimeHandle()
	defer rt.Free()
	err := rt.SetGlobal("x", vh)
	var qerr *quicksilver.Error
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, quicksilver.ErrUsage, qerr.Name)
}

// TestHandleEvalUsesGlobals tests the full boundary data flow: build a
// value, bind it, evaluate, inspect, release.
func TestHandleEvalUsesGlobals(t *testing.T) {
	rt := quicksilver.NewRuntimeHandle()
	defer rt.Free()

	name := quicksilver.StringHandle("World")
	require.NoError(t, rt.SetGlobal("name", name))
	require.True(t, name.Free())

	result, err := rt.Eval("`Hello, ${name}!`")
	require.NoError(t, err)
	defer result.Free()

	require.Equal(t, quicksilver.TypeString, result.Type())
	require.Equal(t, "Hello, World!", result.ToString())
}

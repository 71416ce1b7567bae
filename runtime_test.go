package quicksilver_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	quicksilver "github.com/quicksilver-lang/quicksilver-go"
)

// TestRuntimeLifecycle tests creation and close.
func TestRuntimeLifecycle(t *testing.T) {
	rt := quicksilver.NewRuntime()
	require.NotNil(t, rt)
	require.Empty(t, rt.GlobalNames())
	rt.Close()

	_, err := rt.Eval("1 + 1")
	var qerr *quicksilver.Error
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, quicksilver.ErrUsage, qerr.Name)
}

// TestGlobalRoundTrip tests the set/get copy semantics.
func TestGlobalRoundTrip(t *testing.T) {
	rt := quicksilver.NewRuntime()
	defer rt.Close()

	original := quicksilver.Number(42)
	rt.SetGlobal("x", original)

	got, ok := rt.GetGlobal("x")
	require.True(t, ok)
	require.True(t, got.IsNumber())
	require.Equal(t, 42.0, got.ToFloat64())

	// The handle the caller passed in stays independently usable.
	require.Equal(t, 42.0, original.ToFloat64())

	// Replacement releases the old binding.
	rt.SetGlobal("x", quicksilver.String("later"))
	got, ok = rt.GetGlobal("x")
	require.True(t, ok)
	require.Equal(t, "later", got.ToString())
}

// TestGlobalNotFound tests that absence is distinct from null/undefined
// bindings.
func TestGlobalNotFound(t *testing.T) {
	rt := quicksilver.NewRuntime()
	defer rt.Close()

	_, ok := rt.GetGlobal("missing")
	require.False(t, ok)

	rt.SetGlobal("boundNull", quicksilver.Null())
	v, ok := rt.GetGlobal("boundNull")
	require.True(t, ok)
	require.True(t, v.IsNull())

	rt.SetGlobal("boundUndefined", quicksilver.Undefined())
	v, ok = rt.GetGlobal("boundUndefined")
	require.True(t, ok)
	require.True(t, v.IsUndefined())
}

// TestGlobalNames tests enumeration and deletion.
func TestGlobalNames(t *testing.T) {
	rt := quicksilver.NewRuntime()
	defer rt.Close()

	rt.SetGlobal("b", quicksilver.Number(2))
	rt.SetGlobal("a", quicksilver.Number(1))
	require.Equal(t, []string{"a", "b"}, rt.GlobalNames())

	require.True(t, rt.DeleteGlobal("a"))
	require.False(t, rt.DeleteGlobal("a"))
	require.Equal(t, []string{"b"}, rt.GlobalNames())
}

// TestGlobalShadowsBuiltin tests that host globals shadow builtins without
// destroying them.
func TestGlobalShadowsBuiltin(t *testing.T) {
	rt := quicksilver.NewRuntime()
	defer rt.Close()

	rt.SetGlobal("Math", quicksilver.String("not math"))
	v, err := rt.Eval("Math")
	require.NoError(t, err)
	require.Equal(t, "not math", v.ToString())

	require.True(t, rt.DeleteGlobal("Math"))
	_, err = rt.Eval("Math.sqrt(4)")
	require.NoError(t, err)
}

// TestRuntimeIndependence tests that runtimes never observe each other's
// bindings.
func TestRuntimeIndependence(t *testing.T) {
	rt1 := quicksilver.NewRuntime()
	defer rt1.Close()
	rt2 := quicksilver.NewRuntime()
	defer rt2.Close()

	rt1.SetGlobal("x", quicksilver.Number(1))
	_, ok := rt2.GetGlobal("x")
	require.False(t, ok)

	_, err := rt2.Eval("x")
	var qerr *quicksilver.Error
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, quicksilver.ErrReference, qerr.Name)

	_, err = rt2.Eval("let x = 99; x")
	require.NoError(t, err)
	v, _ := rt1.GetGlobal("x")
	require.Equal(t, 1.0, v.ToFloat64())
}

// TestRuntimesConcurrent tests independent runtimes running on separate
// goroutines.
func TestRuntimesConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n float64) {
			defer wg.Done()
			rt := quicksilver.NewRuntime()
			defer rt.Close()

			rt.SetGlobal("n", quicksilver.Number(n))
			v, err := rt.Eval("n * n")
			if err != nil {
				t.Error(err)
				return
			}
			if v.ToFloat64() != n*n {
				t.Errorf("got %v, want %v", v.ToFloat64(), n*n)
			}
		}(float64(i))
	}
	wg.Wait()
}

// TestInterruptHandler tests cooperative interruption of a hung script.
func TestInterruptHandler(t *testing.T) {
	rt := quicksilver.NewRuntime()
	defer rt.Close()

	var polls atomic.Int64
	rt.SetInterruptHandler(func() bool {
		return polls.Add(1) > 100
	})

	_, err := rt.Eval("while (true) {}")
	var qerr *quicksilver.Error
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, quicksilver.ErrInterrupt, qerr.Name)
	require.True(t, qerr.IsRuntimeError())

	// Removing the handler restores normal evaluation.
	rt.SetInterruptHandler(nil)
	_, err = rt.Eval("1 + 1")
	require.NoError(t, err)
}

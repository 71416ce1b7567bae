package quicksilver

import (
	"io"
	"os"
	"sort"
	"sync"
)

// InterruptHandler is polled between statement executions; returning true
// aborts the running evaluation with an InterruptError.
type InterruptHandler func() bool

// Runtime is an isolated script execution context owning one set of global
// bindings. Runtimes share nothing: two Runtimes never observe each
// other's globals and may be used concurrently from separate goroutines.
// Within a single Runtime, Eval and the global accessors serialize on an
// internal mutex.
type Runtime struct {
	mu        sync.Mutex
	globals   map[string]Value
	consts    map[string]bool
	builtins  map[string]Value
	interrupt InterruptHandler
}

// Option configures a Runtime at creation.
type Option func(*runtimeConfig)

type runtimeConfig struct {
	stdout io.Writer
	stderr io.Writer
}

// WithStdout redirects console.log/info/debug output.
func WithStdout(w io.Writer) Option {
	return func(c *runtimeConfig) {
		c.stdout = w
	}
}

// WithStderr redirects console.warn/error output.
func WithStderr(w io.Writer) Option {
	return func(c *runtimeConfig) {
		c.stderr = w
	}
}

// NewRuntime creates a runtime with an empty global table and the standard
// built-in bindings (Math, console, NaN, Infinity, parseFloat, ...).
func NewRuntime(opts ...Option) *Runtime {
	cfg := runtimeConfig{stdout: os.Stdout, stderr: os.Stderr}
	for _, fn := range opts {
		fn(&cfg)
	}
	return &Runtime{
		globals:  map[string]Value{},
		consts:   map[string]bool{},
		builtins: newBuiltins(cfg.stdout, cfg.stderr),
	}
}

// Close releases all global bindings. Using the runtime after Close is a
// caller error.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globals = nil
	r.consts = nil
	r.builtins = nil
}

// SetInterruptHandler installs a cooperative interrupt check, polled
// between statement executions and on every loop iteration. Pass nil to
// remove it.
func (r *Runtime) SetInterruptHandler(handler InterruptHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interrupt = handler
}

// EvalOptions holds per-evaluation settings.
type EvalOptions struct {
	filename string
}

// EvalOption configures a single Eval call.
type EvalOption func(*EvalOptions)

// EvalFileName sets the filename reported in error positions.
func EvalFileName(filename string) EvalOption {
	return func(o *EvalOptions) {
		o.filename = filename
	}
}

// Eval parses and executes source against the runtime's global state and
// returns the value of the last expression statement, or Undefined when
// the script has none. Failures are returned as *Error with a
// classification, position and source snippet; evaluating the same source
// against an unchanged global table yields the same result every time.
func (r *Runtime) Eval(source string, opts ...EvalOption) (Value, error) {
	options := EvalOptions{}
	for _, fn := range opts {
		fn(&options)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.globals == nil {
		return Undefined(), &Error{Name: ErrUsage, Message: "runtime is closed"}
	}

	prog, perr := parse(source)
	if perr == nil {
		in := &interp{rt: r, source: source}
		var v Value
		v, perr = in.run(prog)
		if perr == nil {
			return v, nil
		}
	}
	perr.File = options.filename
	return Undefined(), perr
}

// SetGlobal inserts or replaces a global binding. The table stores its own
// copy of the value; the caller's handle stays valid and independently
// releasable. Setting a name previously declared const from script clears
// the const marker.
func (r *Runtime) SetGlobal(name string, v Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.globals == nil {
		return
	}
	r.globals[name] = v
	delete(r.consts, name)
}

// GetGlobal returns a copy of the named global binding. The second result
// distinguishes "not bound" from legitimate Null or Undefined bindings.
// Built-in bindings are not reported here; the global table holds only
// host- and script-created names.
func (r *Runtime) GetGlobal(name string) (Value, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.globals[name]
	return v, ok
}

// DeleteGlobal removes a global binding, reporting whether it existed.
func (r *Runtime) DeleteGlobal(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.globals[name]; !ok {
		return false
	}
	delete(r.globals, name)
	delete(r.consts, name)
	return true
}

// GlobalNames returns the names bound in the global table, sorted.
func (r *Runtime) GlobalNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.globals))
	for name := range r.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

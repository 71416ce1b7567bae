package quicksilver

// ABI-shaped boundary layer. Foreign callers that cannot hold Go values
// (a c-shared build, another process's glue layer) operate on opaque
// int32 handles backed by package-level stores. The surface mirrors the
// C API of the engine: paired create/free calls, a type-tag accessor,
// coercing extractors, and eval returning an invalid handle plus a
// structured error on failure.
//
// Lifetime is manual: every handle returned here must be freed exactly
// once. Freeing twice is reported by the false return; using a handle
// after freeing it is a caller contract violation and yields zero values
// rather than a diagnosis.

var (
	runtimeHandles = newHandleStore()
	valueHandles   = newHandleStore()
)

// RuntimeHandle is an opaque reference to a Runtime. 0 is never valid.
type RuntimeHandle int32

// ValueHandle is an opaque reference to a Value. 0 is never valid.
type ValueHandle int32

// NewRuntimeHandle creates a runtime and returns its handle.
func NewRuntimeHandle(opts ...Option) RuntimeHandle {
	return RuntimeHandle(runtimeHandles.store(NewRuntime(opts...)))
}

func (h RuntimeHandle) runtime() (*Runtime, bool) {
	v, ok := runtimeHandles.load(int32(h))
	if !ok {
		return nil, false
	}
	return v.(*Runtime), true
}

// Free closes the runtime and releases the handle, reporting whether the
// handle was live.
func (h RuntimeHandle) Free() bool {
	rt, ok := h.runtime()
	if !ok {
		return false
	}
	rt.Close()
	return runtimeHandles.delete(int32(h))
}

// Eval evaluates source against the runtime. On success the result is a
// fresh owned value handle; on failure the handle is 0 and the error
// carries the classification and message.
func (h RuntimeHandle) Eval(source string) (ValueHandle, error) {
	rt, ok := h.runtime()
	if !ok {
		return 0, &Error{Name: ErrUsage, Message: "invalid runtime handle"}
	}
	v, err := rt.Eval(source)
	if err != nil {
		return 0, err
	}
	return newValueHandle(v), nil
}

// SetGlobal binds a value in the runtime's global table. The table stores
// its own copy; the value handle remains owned by the caller and must
// still be freed by the caller.
func (h RuntimeHandle) SetGlobal(name string, vh ValueHandle) error {
	rt, ok := h.runtime()
	if !ok {
		return &Error{Name: ErrUsage, Message: "invalid runtime handle"}
	}
	v, ok := vh.Value()
	if !ok {
		return &Error{Name: ErrUsage, Message: "invalid value handle"}
	}
	rt.SetGlobal(name, v)
	return nil
}

// GetGlobal returns a fresh owned handle to a copy of the named binding,
// or (0, false) when the name is not bound. A bound Null or Undefined
// comes back as a live handle, distinct from the not-found case.
func (h RuntimeHandle) GetGlobal(name string) (ValueHandle, bool) {
	rt, ok := h.runtime()
	if !ok {
		return 0, false
	}
	v, ok := rt.GetGlobal(name)
	if !ok {
		return 0, false
	}
	return newValueHandle(v), true
}

func newValueHandle(v Value) ValueHandle {
	return ValueHandle(valueHandles.store(v))
}

// Per-variant constructors. Each returns a new owned handle.

func UndefinedHandle() ValueHandle { return newValueHandle(Undefined()) }
func NullHandle() ValueHandle     { return newValueHandle(Null()) }

func BoolHandle(b bool) ValueHandle {
	return newValueHandle(Bool(b))
}

func NumberHandle(f float64) ValueHandle {
	return newValueHandle(Number(f))
}

// StringHandle copies s; the caller's buffer is not retained.
func StringHandle(s string) ValueHandle {
	return newValueHandle(String(s))
}

// Value resolves the handle to its Value.
func (h ValueHandle) Value() (Value, bool) {
	v, ok := valueHandles.load(int32(h))
	if !ok {
		return Value{}, false
	}
	return v.(Value), true
}

// Free releases the handle, reporting whether it was live. The runtime a
// value came from is unaffected.
func (h ValueHandle) Free() bool {
	return valueHandles.delete(int32(h))
}

// Type returns the value's type tag; dead handles report TypeUndefined.
func (h ValueHandle) Type() Type {
	v, _ := h.Value()
	return v.Type()
}

// ToBool applies the truthiness coercion.
func (h ValueHandle) ToBool() bool {
	v, ok := h.Value()
	return ok && v.ToBool()
}

// ToFloat64 applies the numeric coercion.
func (h ValueHandle) ToFloat64() float64 {
	v, _ := h.Value()
	return v.ToFloat64()
}

// ToString applies the textual coercion. The returned string is an
// independent Go string; no separate free is needed on this side of the
// boundary.
func (h ValueHandle) ToString() string {
	v, ok := h.Value()
	if !ok {
		return ""
	}
	return v.ToString()
}

package quicksilver

import (
	"math"
	"sync"
	"sync/atomic"
)

// handleStore manages opaque int32 handles for the boundary layer. IDs are
// generated atomically; 0 is reserved as the invalid handle.
type handleStore struct {
	handles sync.Map // map[int32]interface{}
	nextID  atomic.Int32
}

func newHandleStore() *handleStore {
	hs := &handleStore{}
	hs.nextID.Store(1)
	return hs
}

// store registers a value and returns its handle.
func (hs *handleStore) store(value interface{}) int32 {
	id := hs.nextID.Add(1)
	if id <= 0 || id == math.MaxInt32 {
		panic("quicksilver: handle store ID overflow")
	}
	hs.handles.Store(id, value)
	return id
}

// load resolves a handle.
func (hs *handleStore) load(id int32) (interface{}, bool) {
	return hs.handles.Load(id)
}

// delete releases a handle, reporting whether it was live.
func (hs *handleStore) delete(id int32) bool {
	_, ok := hs.handles.LoadAndDelete(id)
	return ok
}

// count returns the number of live handles (for tests and debugging).
func (hs *handleStore) count() int {
	n := 0
	hs.handles.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

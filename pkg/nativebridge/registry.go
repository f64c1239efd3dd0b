// Package nativebridge is the lookup surface the interpreter queries for
// methods declared native (or otherwise host-implemented): a registry
// keyed by (class, method name, descriptor) that hands back a Go closure
// in place of bytecode.
package nativebridge

import (
	"fmt"
	"sync"

	"github.com/kestrelvm/kestrel/pkg/heap"
)

// Handler implements one native method. args[0] is the receiver for an
// instance method, absent for a static one. The bool return reports
// whether a value was produced (false for void methods), mirroring the
// interpreter's own "push return value if non-void" rule.
type Handler func(h *heap.Heap, args []heap.Value) (heap.Value, bool, error)

// Registry is safe for concurrent registration and lookup, though the
// single-threaded interpreter only ever looks up from one goroutine.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func key(class, name, descriptor string) string {
	return class + "." + name + descriptor
}

// Register installs a handler for (class, name, descriptor), overwriting
// any previous registration — later registrations win, matching how
// builtin.go layers its own defaults before caller-supplied overrides.
func (r *Registry) Register(class, name, descriptor string, h Handler) {
	r.mu.Lock()
	r.handlers[key(class, name, descriptor)] = h
	r.mu.Unlock()
}

// Lookup returns the handler for (class, name, descriptor), if any.
func (r *Registry) Lookup(class, name, descriptor string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[key(class, name, descriptor)]
	return h, ok
}

// UnboundNative is returned by the interpreter when a method is declared
// native but has no registry entry. Which natives the host installs is its
// own concern; the registry just reports the miss.
type UnboundNative struct {
	Class, Name, Descriptor string
}

func (e *UnboundNative) Error() string {
	return fmt.Sprintf("no native handler registered for %s.%s%s", e.Class, e.Name, e.Descriptor)
}

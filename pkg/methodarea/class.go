// Package methodarea is the process-wide registry of loaded classes: it
// loads class files lazily from the classpath, links them (superclass and
// interfaces resolved, static fields defaulted), and serves resolution
// queries to the interpreter.
package methodarea

import (
	"sync"

	"github.com/kestrelvm/kestrel/pkg/classfile"
	"github.com/kestrelvm/kestrel/pkg/heap"
)

// InitState is a LoadedClass's place in the class-initialization state
// machine.
type InitState int

const (
	Uninitialized InitState = iota
	Initializing
	Initialized
	Errored
)

func (s InitState) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Initializing:
		return "Initializing"
	case Initialized:
		return "Initialized"
	case Errored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// LoadedClass is a parsed ClassFile plus the linking and initialization
// state the method area tracks for it.
type LoadedClass struct {
	Name           string
	File           *classfile.ClassFile
	SuperName      string // "" only for java/lang/Object
	InterfaceNames []string

	mu          sync.Mutex
	initState   InitState
	initWaiters int // not read or written; re-entry is detected through initState

	// StaticFields holds this class's own declared static fields,
	// defaulted to zero on link and mutated by <clinit> and putstatic.
	StaticFields map[string]heap.Value

	// PendingStrings holds, per static final field name, a ConstantValue
	// String literal linking saw but could not materialize: building the
	// backing heap.JvmObject needs a live Heap, which the method area does
	// not hold. getStatic consults this on first read and materializes
	// the real value in its place.
	PendingStrings map[string]string
}

// InitState returns the class's current initialization state.
func (lc *LoadedClass) InitState() InitState {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.initState
}

func (lc *LoadedClass) setState(s InitState) {
	lc.mu.Lock()
	lc.initState = s
	lc.mu.Unlock()
}

// BeginInitializing transitions Uninitialized -> Initializing and reports
// true if the caller is the one responsible for running <clinit>. Called
// again on an already-Initializing or Initialized class, it reports false
// without changing state (re-entrant <clinit>, or a second caller that
// lost the race, is treated as already handled).
func (lc *LoadedClass) BeginInitializing() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.initState != Uninitialized {
		return false
	}
	lc.initState = Initializing
	return true
}

// MarkInitialized transitions Initializing -> Initialized.
func (lc *LoadedClass) MarkInitialized() { lc.setState(Initialized) }

// MarkErrored transitions Initializing -> Errored, recording that a later
// access must raise NoClassDefFoundError.
func (lc *LoadedClass) MarkErrored() { lc.setState(Errored) }

// GetStaticField returns the current value of a static field this class
// declares directly (not inherited), and whether it exists.
func (lc *LoadedClass) GetStaticField(name string) (heap.Value, bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	v, ok := lc.StaticFields[name]
	return v, ok
}

// SetStaticField sets a static field this class declares directly.
func (lc *LoadedClass) SetStaticField(name string, v heap.Value) {
	lc.mu.Lock()
	lc.StaticFields[name] = v
	lc.mu.Unlock()
}

// TakePendingString removes and returns the pending String literal for a
// static field, if getStatic has not already materialized (or a prior
// putstatic has not already overwritten) it.
func (lc *LoadedClass) TakePendingString(name string) (string, bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	s, ok := lc.PendingStrings[name]
	if ok {
		delete(lc.PendingStrings, name)
	}
	return s, ok
}

// IsInterface reports whether this class file declares an interface.
func (lc *LoadedClass) IsInterface() bool {
	return lc.File.AccessFlags&classfile.AccInterface != 0
}

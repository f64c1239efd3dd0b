package interp

import (
	"fmt"

	"github.com/kestrelvm/kestrel/pkg/heap"
)

// TraceEntry is one (class, method, line) triple of a synthesized stack
// trace, recorded for a frame that propagated an exception without a
// matching handler.
type TraceEntry struct {
	Class  string
	Method string
	Line   int
}

// JavaException carries a thrown Java object through the unwind protocol.
// It is caught and handled entirely inside this package; it never escapes
// Run as a Go error except when it propagates past the bootstrap frame, at
// which point Run reports Failed. Message mirrors the thrown
// object's getMessage()-equivalent, if any; Trace accumulates one entry
// per frame invoke pops while propagating this exception, innermost frame
// first.
type JavaException struct {
	ClassName string
	Object    heap.ObjectID
	Message   string
	Trace     []TraceEntry
}

func (e *JavaException) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("uncaught %s: %s", e.ClassName, e.Message)
	}
	return fmt.Sprintf("uncaught %s", e.ClassName)
}

// VMFatal reports an invariant break: something the class-initialization,
// resolution, or bytecode-decoding protocol guarantees can't happen
// happened anyway. The caller terminates the process; there is no
// recovery path.
type VMFatal struct{ Reason string }

func (e *VMFatal) Error() string { return fmt.Sprintf("fatal VM error: %s", e.Reason) }

// BadOpcode is a VMFatal cause: the bytecode stream named an opcode this
// interpreter does not decode.
type BadOpcode struct{ Op byte }

func (e *BadOpcode) Error() string { return fmt.Sprintf("unimplemented opcode 0x%02x", e.Op) }

// NoClassDefFoundError is the Java-level error raised by a later access to
// a class whose <clinit> previously failed.
type NoClassDefFoundError struct{ ClassName string }

func (e *NoClassDefFoundError) Error() string {
	return fmt.Sprintf("NoClassDefFoundError: %s", e.ClassName)
}

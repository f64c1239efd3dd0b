package methodarea

import "github.com/kestrelvm/kestrel/pkg/heap"
import "github.com/kestrelvm/kestrel/pkg/classfile"

// KindOf maps a parsed field descriptor to the heap Kind used to represent
// it on the operand stack / in locals / in fields. Reference and array
// types are not primitives; callers should check t.Kind first.
func KindOf(t classfile.JvmType) heap.Kind {
	switch t.Kind {
	case 'B':
		return heap.KindByte
	case 'C':
		return heap.KindChar
	case 'D':
		return heap.KindDouble
	case 'F':
		return heap.KindFloat
	case 'I':
		return heap.KindInt
	case 'J':
		return heap.KindLong
	case 'S':
		return heap.KindShort
	case 'Z':
		return heap.KindBoolean
	default:
		return heap.KindInt
	}
}

// DefaultValue returns the default value for a declared field or
// array-component type: all-zero bits for primitives, Null for references
// and arrays.
func DefaultValue(t classfile.JvmType) heap.Value {
	switch t.Kind {
	case 'L', '[':
		return heap.NullValue()
	default:
		return heap.ZeroValueForKind(KindOf(t))
	}
}

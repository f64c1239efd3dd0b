package interp

import (
	"fmt"

	"github.com/kestrelvm/kestrel/pkg/classfile"
	"github.com/kestrelvm/kestrel/pkg/heap"
	"github.com/kestrelvm/kestrel/pkg/methodarea"
)

func (in *Interpreter) arrayLoad(ref heap.Value, idx int32) (heap.Value, error) {
	if ref.IsNull() {
		return heap.Value{}, in.throwVM("java/lang/NullPointerException")
	}
	arr := in.Heap.GetArray(ref.Ref.Array)
	if idx < 0 || idx >= arr.Length() {
		return heap.Value{}, in.throwVMWithMessage("java/lang/ArrayIndexOutOfBoundsException",
			fmt.Sprintf("Index %d out of bounds for length %d", idx, arr.Length()))
	}
	return arr.Elements[idx], nil
}

func (in *Interpreter) arrayStore(ref heap.Value, idx int32, v heap.Value) error {
	if ref.IsNull() {
		return in.throwVM("java/lang/NullPointerException")
	}
	arr := in.Heap.GetArray(ref.Ref.Array)
	if idx < 0 || idx >= arr.Length() {
		return in.throwVMWithMessage("java/lang/ArrayIndexOutOfBoundsException",
			fmt.Sprintf("Index %d out of bounds for length %d", idx, arr.Length()))
	}
	arr.Elements[idx] = v
	return nil
}

// newPrimitiveArray implements `newarray`, whose operand is one of the
// atype codes of JVM spec table 6.5.newarray-A.
func (in *Interpreter) newPrimitiveArray(atype byte, length int32) (heap.Value, error) {
	kind, ok := primitiveArrayKind(atype)
	if !ok {
		return heap.Value{}, &VMFatal{Reason: "newarray: unrecognized atype"}
	}
	id, err := in.Heap.NewArray(kind, false, "", length)
	if err != nil {
		return heap.Value{}, in.throwVM("java/lang/NegativeArraySizeException")
	}
	return heap.ArrayValue(id), nil
}

// newMultiArray implements `multianewarray`: descriptor is the full array
// type from the constant pool (e.g. "[[I"), counts one length per
// dimension, outermost first. Inner arrays are allocated eagerly for every
// populated dimension, matching the instruction's semantics.
func (in *Interpreter) newMultiArray(descriptor string, counts []int32) (heap.Value, error) {
	if len(descriptor) == 0 || descriptor[0] != '[' {
		return heap.Value{}, &VMFatal{Reason: fmt.Sprintf("multianewarray on non-array type %q", descriptor)}
	}
	component := descriptor[1:]

	if len(counts) == 1 {
		t, err := classfile.ParseFieldDescriptor(component)
		if err != nil {
			return heap.Value{}, &VMFatal{Reason: err.Error()}
		}
		var id heap.ArrayID
		var aerr error
		switch t.Kind {
		case 'L':
			id, aerr = in.Heap.NewArray(heap.KindInt, true, t.ClassName, counts[0])
		case '[':
			id, aerr = in.Heap.NewArray(heap.KindInt, true, component, counts[0])
		default:
			id, aerr = in.Heap.NewArray(methodarea.KindOf(t), false, "", counts[0])
		}
		if aerr != nil {
			return heap.Value{}, in.throwVM("java/lang/NegativeArraySizeException")
		}
		return heap.ArrayValue(id), nil
	}

	id, err := in.Heap.NewArray(heap.KindInt, true, component, counts[0])
	if err != nil {
		return heap.Value{}, in.throwVM("java/lang/NegativeArraySizeException")
	}
	arr := in.Heap.GetArray(id)
	for i := range arr.Elements {
		inner, err := in.newMultiArray(component, counts[1:])
		if err != nil {
			return heap.Value{}, err
		}
		arr.Elements[i] = inner
	}
	return heap.ArrayValue(id), nil
}

func primitiveArrayKind(atype byte) (heap.Kind, bool) {
	switch atype {
	case atBoolean:
		return heap.KindBoolean, true
	case atChar:
		return heap.KindChar, true
	case atFloat:
		return heap.KindFloat, true
	case atDouble:
		return heap.KindDouble, true
	case atByte:
		return heap.KindByte, true
	case atShort:
		return heap.KindShort, true
	case atInt:
		return heap.KindInt, true
	case atLong:
		return heap.KindLong, true
	default:
		return 0, false
	}
}

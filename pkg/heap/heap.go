package heap

import "fmt"

// NegativeArraySizeException is the Java-level condition raised when
// NewArray is asked for a negative length. It is returned as a normal Go
// error; callers in pkg/interp translate it into a thrown Java exception
// object rather than unwinding the Go call stack.
type NegativeArraySizeException struct {
	Length int32
}

func (e *NegativeArraySizeException) Error() string {
	return fmt.Sprintf("NegativeArraySizeException: %d", e.Length)
}

// Heap owns every JvmObject and JvmArray allocated during a run. There is
// no garbage collector: objects and arrays stay alive for the program's
// lifetime, same as the method area's LoadedClass records.
type Heap struct {
	objects map[ObjectID]*JvmObject
	arrays  map[ArrayID]*JvmArray
	nextObj ObjectID
	nextArr ArrayID
}

// New creates an empty heap.
func New() *Heap {
	return &Heap{
		objects: make(map[ObjectID]*JvmObject),
		arrays:  make(map[ArrayID]*JvmArray),
	}
}

// NewObject allocates a JvmObject for className with the given initial
// field map (already defaulted to the zero value of each declared field's
// type by the caller, which alone knows the class's declared fields and
// superclass chain).
func (h *Heap) NewObject(className string, fields map[string]Value) ObjectID {
	h.nextObj++
	id := h.nextObj
	h.objects[id] = &JvmObject{ClassName: className, Fields: fields}
	return id
}

// NewArray allocates a JvmArray of the given component kind/class and
// length, with every element defaulted to zero. A negative length is a
// Java-level condition, not a VM-fatal one.
func (h *Heap) NewArray(kind Kind, componentIsRef bool, componentClassName string, length int32) (ArrayID, error) {
	if length < 0 {
		return 0, &NegativeArraySizeException{Length: length}
	}
	elements := make([]Value, length)
	if componentIsRef {
		for i := range elements {
			elements[i] = NullValue()
		}
	} else {
		for i := range elements {
			elements[i] = ZeroValueForKind(kind)
		}
	}
	h.nextArr++
	id := h.nextArr
	h.arrays[id] = &JvmArray{
		ComponentKind:      kind,
		ComponentIsRef:     componentIsRef,
		ComponentClassName: componentClassName,
		Elements:           elements,
	}
	return id, nil
}

// GetObject dereferences an object id. An unknown id is a VM-level fatal
// invariant break: it can only arise from VM bugs or a corrupt class
// file, never from a Java program's own behavior, so it is not modeled
// as a recoverable error.
func (h *Heap) GetObject(id ObjectID) *JvmObject {
	obj, ok := h.objects[id]
	if !ok {
		fatalInvariant("dereferencing unknown object id %d", id)
	}
	return obj
}

// GetArray dereferences an array id, fatally on an unknown id (see GetObject).
func (h *Heap) GetArray(id ArrayID) *JvmArray {
	arr, ok := h.arrays[id]
	if !ok {
		fatalInvariant("dereferencing unknown array id %d", id)
	}
	return arr
}

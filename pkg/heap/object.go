package heap

import "fmt"

// JvmObject is a heap-resident instance. Fields are stored in a single
// flat map keyed by "declaringClass/fieldName" rather than as a chain of
// per-superclass layer records, which keeps field-access dispatch a plain
// map lookup; the key carries the declaring class explicitly so that
// shadowed fields across a super chain don't collide.
//
// The class is referenced by name only, not by pointer: the method area is
// the sole owner of LoadedClass records, and name-keyed references keep
// the object/class/method-area graph acyclic.
type JvmObject struct {
	ClassName string
	Fields    map[string]Value
}

// FieldKey builds the flat-map key for a field declared in declaringClass.
func FieldKey(declaringClass, fieldName string) string {
	return declaringClass + "/" + fieldName
}

// Get returns the value of a field declared in declaringClass, and whether
// it was present.
func (o *JvmObject) Get(declaringClass, fieldName string) (Value, bool) {
	v, ok := o.Fields[FieldKey(declaringClass, fieldName)]
	return v, ok
}

// Set stores the value of a field declared in declaringClass.
func (o *JvmObject) Set(declaringClass, fieldName string, v Value) {
	o.Fields[FieldKey(declaringClass, fieldName)] = v
}

// JvmArray is a heap-resident array: a component kind, an optional
// component class name (when the component is itself a reference type),
// a length, and a backing vector of values.
type JvmArray struct {
	ComponentKind      Kind
	ComponentIsRef     bool
	ComponentClassName string // meaningful only when ComponentIsRef
	Elements           []Value
}

func (a *JvmArray) Length() int32 { return int32(len(a.Elements)) }

// fatalInvariant reports a VM-level invariant break: these never
// correspond to a Java-level condition and are not recoverable.
func fatalInvariant(format string, args ...interface{}) {
	panic(fmt.Sprintf("VM-fatal: "+format, args...))
}

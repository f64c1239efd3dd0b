package interp

import (
	"github.com/kestrelvm/kestrel/pkg/frame"
	"github.com/kestrelvm/kestrel/pkg/heap"
)

// getStatic implements getstatic: it ensures the declaring class is
// initialized before reading, so that, e.g., reading C.x forces D's
// <clinit> to run first when C.x's initializer reads D.y.
func (in *Interpreter) getStatic(t *Thread, f *frame.Frame, cpIndex uint16) (heap.Value, error) {
	ref, err := f.Class.File.ConstantPool.ResolveFieldref(cpIndex)
	if err != nil {
		return heap.Value{}, &VMFatal{Reason: err.Error()}
	}
	owner, err := in.MA.ResolveField(ref.ClassName, ref.MemberName)
	if err != nil {
		return heap.Value{}, &VMFatal{Reason: err.Error()}
	}
	if err := in.ensureInitialized(t, owner); err != nil {
		return heap.Value{}, err
	}
	if s, pending := owner.TakePendingString(ref.MemberName); pending {
		owner.SetStaticField(ref.MemberName, in.Heap.NewJavaString(s))
	}
	v, ok := owner.GetStaticField(ref.MemberName)
	if !ok {
		return heap.Value{}, &VMFatal{Reason: "resolved owner has no such static field"}
	}
	return v, nil
}

func (in *Interpreter) putStatic(t *Thread, f *frame.Frame, cpIndex uint16, v heap.Value) error {
	ref, err := f.Class.File.ConstantPool.ResolveFieldref(cpIndex)
	if err != nil {
		return &VMFatal{Reason: err.Error()}
	}
	owner, err := in.MA.ResolveField(ref.ClassName, ref.MemberName)
	if err != nil {
		return &VMFatal{Reason: err.Error()}
	}
	if err := in.ensureInitialized(t, owner); err != nil {
		return err
	}
	owner.TakePendingString(ref.MemberName) // a direct write supersedes the deferred literal
	owner.SetStaticField(ref.MemberName, v)
	return nil
}

// getField and putField consult the receiver's flat field map directly by
// (declaringClass, fieldName) rather than walking a chain of super-object
// layers; see methodarea.ResolveField for how declaringClass is found.
func (in *Interpreter) getField(f *frame.Frame, cpIndex uint16, ref heap.Value) (heap.Value, error) {
	if ref.IsNull() {
		return heap.Value{}, in.throwVM("java/lang/NullPointerException")
	}
	memberRef, err := f.Class.File.ConstantPool.ResolveFieldref(cpIndex)
	if err != nil {
		return heap.Value{}, &VMFatal{Reason: err.Error()}
	}
	owner, err := in.MA.ResolveField(memberRef.ClassName, memberRef.MemberName)
	if err != nil {
		return heap.Value{}, &VMFatal{Reason: err.Error()}
	}
	obj := in.Heap.GetObject(ref.Ref.Object)
	v, ok := obj.Get(owner.Name, memberRef.MemberName)
	if !ok {
		return heap.Value{}, &VMFatal{Reason: "instance missing resolved field"}
	}
	return v, nil
}

func (in *Interpreter) putField(f *frame.Frame, cpIndex uint16, ref, v heap.Value) error {
	if ref.IsNull() {
		return in.throwVM("java/lang/NullPointerException")
	}
	memberRef, err := f.Class.File.ConstantPool.ResolveFieldref(cpIndex)
	if err != nil {
		return &VMFatal{Reason: err.Error()}
	}
	owner, err := in.MA.ResolveField(memberRef.ClassName, memberRef.MemberName)
	if err != nil {
		return &VMFatal{Reason: err.Error()}
	}
	obj := in.Heap.GetObject(ref.Ref.Object)
	obj.Set(owner.Name, memberRef.MemberName, v)
	return nil
}

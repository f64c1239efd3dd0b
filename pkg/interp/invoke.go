package interp

import (
	"github.com/kestrelvm/kestrel/pkg/classfile"
	"github.com/kestrelvm/kestrel/pkg/frame"
	"github.com/kestrelvm/kestrel/pkg/heap"
)

// dispatchInvoke implements the four invocation kinds: it resolves a
// target method, pops the right number of arguments (plus the receiver
// for non-static kinds) off f's operand stack, and recurses into invoke
// for the callee.
func (in *Interpreter) dispatchInvoke(t *Thread, f *frame.Frame, op byte, cpIndex uint16) (heap.Value, bool, error) {
	ref, err := f.Class.File.ConstantPool.ResolveMethodref(cpIndex)
	if err != nil {
		// invokeinterface targets a CONSTANT_InterfaceMethodref entry.
		ref, err = f.Class.File.ConstantPool.ResolveInterfaceMethodref(cpIndex)
	}
	if err != nil {
		return heap.Value{}, false, &VMFatal{Reason: err.Error()}
	}

	desc, err := classfile.ParseMethodDescriptor(ref.Descriptor)
	if err != nil {
		return heap.Value{}, false, &VMFatal{Reason: err.Error()}
	}

	argCount := len(desc.Params)
	isStatic := op == opInvokestatic
	total := argCount
	if !isStatic {
		total++
	}
	args := make([]heap.Value, total)
	for i := total - 1; i >= 0; i-- {
		args[i] = f.Pop()
	}

	if !isStatic && args[0].IsNull() {
		return heap.Value{}, false, in.throwVM("java/lang/NullPointerException")
	}

	var targetClass string
	switch op {
	case opInvokestatic, opInvokespecial:
		targetClass = ref.ClassName
	default: // invokevirtual, invokeinterface: dispatch on the receiver's runtime class
		if args[0].Ref.IsArray() {
			// Arrays have no class file of their own; the methods reachable
			// through an array receiver are Object's.
			targetClass = "java/lang/Object"
		} else {
			targetClass = in.Heap.GetObject(args[0].Ref.Object).ClassName
		}
	}

	owner, _, err := in.MA.ResolveMethod(targetClass, ref.MemberName, ref.Descriptor)
	if err != nil {
		return heap.Value{}, false, &VMFatal{Reason: err.Error()}
	}
	if err := in.ensureInitialized(t, owner); err != nil {
		return heap.Value{}, false, err
	}
	method := owner.File.FindMethod(ref.MemberName, ref.Descriptor)
	if method == nil {
		return heap.Value{}, false, &VMFatal{Reason: "resolved owner does not declare the method"}
	}

	result, hasValue, err := in.invoke(t, owner, method, args)
	return result, hasValue, err
}

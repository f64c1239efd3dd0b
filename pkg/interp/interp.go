// Package interp is the bytecode dispatch loop: method invocation, field
// access, array operations, arithmetic/branching, and exception-throwing
// semantics at the Java level.
package interp

import (
	"fmt"

	"github.com/kestrelvm/kestrel/pkg/classfile"
	"github.com/kestrelvm/kestrel/pkg/diagnostics"
	"github.com/kestrelvm/kestrel/pkg/frame"
	"github.com/kestrelvm/kestrel/pkg/heap"
	"github.com/kestrelvm/kestrel/pkg/methodarea"
	"github.com/kestrelvm/kestrel/pkg/nativebridge"
)

// Interpreter wires together the method area, heap, native registry, and
// diagnostics sink that every frame's execution consults: it creates
// frames, allocates objects on the heap, and resolves constant-pool
// references on demand.
type Interpreter struct {
	MA      *methodarea.MethodArea
	Heap    *heap.Heap
	Natives *nativebridge.Registry
	Diag    diagnostics.Sink
}

// New builds an Interpreter from its four collaborators.
func New(ma *methodarea.MethodArea, h *heap.Heap, natives *nativebridge.Registry, diag diagnostics.Sink) *Interpreter {
	return &Interpreter{MA: ma, Heap: h, Natives: natives, Diag: diag}
}

// Run loads mainClass, ensures it is initialized, invokes its mainMethod
// with args already converted to JvmValues, and drives the interpreter
// loop until the frame stack empties or the thread fails.
func (in *Interpreter) Run(mainClass, mainMethod string, args []heap.Value) (ThreadState, error) {
	t := newThread()
	t.State = Running

	lc, err := in.MA.MaybeLoadClass(mainClass)
	if err != nil {
		t.State = Failed
		return t.State, err
	}
	if err := in.ensureInitialized(t, lc); err != nil {
		t.State = Failed
		return t.State, err
	}

	method := lc.File.FindMethod(mainMethod, methodDescriptorOf(lc, mainMethod))
	if method == nil {
		t.State = Failed
		return t.State, fmt.Errorf("main method %s not found on %s", mainMethod, mainClass)
	}

	_, _, err = in.invoke(t, lc, method, args)
	if err != nil {
		t.State = Failed
		return t.State, err
	}
	t.State = Halted
	return t.State, nil
}

// methodDescriptorOf finds the descriptor of the first method named name
// declared on lc — used only to locate a conventional "main" with a
// single overload, since Run is not given a descriptor up front.
func methodDescriptorOf(lc *methodarea.LoadedClass, name string) string {
	for i := range lc.File.Methods {
		if lc.File.Methods[i].Name == name {
			return lc.File.Methods[i].Descriptor
		}
	}
	return ""
}

// ensureInitialized runs the class-initialization protocol for lc if it
// has not already run: superclass first, then <clinit> if present.
// Re-entrant initialization by the same thread is a non-issue here since
// this interpreter drives exactly one thread.
func (in *Interpreter) ensureInitialized(t *Thread, lc *methodarea.LoadedClass) error {
	switch lc.InitState() {
	case methodarea.Initialized:
		return nil
	case methodarea.Errored:
		return &NoClassDefFoundError{ClassName: lc.Name}
	case methodarea.Initializing:
		return nil // re-entrant <clinit>, treated as complete
	}
	if !lc.BeginInitializing() {
		return nil
	}

	if lc.SuperName != "" {
		super, err := in.MA.MaybeLoadClass(lc.SuperName)
		if err != nil {
			lc.MarkErrored()
			return err
		}
		if err := in.ensureInitialized(t, super); err != nil {
			lc.MarkErrored()
			return err
		}
	}

	clinit := lc.File.FindMethod("<clinit>", "()V")
	if clinit != nil {
		if _, _, err := in.invoke(t, lc, clinit, nil); err != nil {
			lc.MarkErrored()
			in.Diag.Warn("class initializer failed", "class", lc.Name, "err", err.Error())
			// throwVMWithMessage allocates a real backing object, so a
			// handler that catches this error can dereference it like any
			// other thrown exception.
			return in.throwVMWithMessage("java/lang/ExceptionInInitializerError", err.Error())
		}
	}

	lc.MarkInitialized()
	return nil
}

// invoke builds a frame for method on class with args as its initial
// locals, pushes it, and runs the dispatch loop until the method returns.
// It returns the method's result (if any) and whether a value was
// produced.
func (in *Interpreter) invoke(t *Thread, class *methodarea.LoadedClass, method *classfile.MethodInfo, args []heap.Value) (heap.Value, bool, error) {
	if method.Code == nil {
		if method.AccessFlags&classfile.AccNative != 0 {
			return in.invokeNative(class, method, args)
		}
		return heap.Value{}, false, &VMFatal{Reason: fmt.Sprintf("%s.%s%s has no Code and is not native", class.Name, method.Name, method.Descriptor)}
	}

	f := frame.New(class, method, args)
	t.pushFrame(f)
	defer t.popFrame()

	for {
		result, done, hasValue, err := in.step(t, f)
		if err != nil {
			handled, err2 := in.unwind(t, f, err)
			if err2 != nil {
				return heap.Value{}, false, err2
			}
			if !handled {
				// This frame is about to be popped by the deferred popFrame
				// above with no handler found, so its (class, method, line)
				// is recorded here — the last point at which it is still
				// known — rather than after the fact once Run sees the
				// error, by which point every frame is already gone.
				if jerr, ok := err.(*JavaException); ok {
					jerr.Trace = append(jerr.Trace, TraceEntry{
						Class:  class.Name,
						Method: method.Name,
						Line:   lineForPC(method.Code.LineNumberTable, f.PC),
					})
				}
				return heap.Value{}, false, err
			}
			continue
		}
		if done {
			return result, hasValue, nil
		}
	}
}

// lineForPC finds the source line mapped to the greatest StartPC not
// exceeding pc, or -1 if table is empty or pc precedes every entry.
func lineForPC(table []classfile.LineNumberEntry, pc int) int {
	line, bestPC := -1, -1
	for _, e := range table {
		if int(e.StartPC) <= pc && int(e.StartPC) > bestPC {
			bestPC = int(e.StartPC)
			line = int(e.Line)
		}
	}
	return line
}

func (in *Interpreter) invokeNative(class *methodarea.LoadedClass, method *classfile.MethodInfo, args []heap.Value) (heap.Value, bool, error) {
	h, ok := in.Natives.Lookup(class.Name, method.Name, method.Descriptor)
	if !ok {
		return heap.Value{}, false, &nativebridge.UnboundNative{Class: class.Name, Name: method.Name, Descriptor: method.Descriptor}
	}
	return h(in.Heap, args)
}

// unwind searches f's exception table for a handler covering the PC that
// raised err. It reports handled=true and leaves f ready
// to resume at the handler PC with only the exception on its (cleared)
// operand stack; handled=false means the caller (invoke) must pop this
// frame and propagate err to its own caller.
func (in *Interpreter) unwind(t *Thread, f *frame.Frame, cause error) (bool, error) {
	jerr, ok := cause.(*JavaException)
	if !ok {
		return false, cause // VM-fatal or Go-level error: never caught
	}

	throwPC := f.PC
	for _, eh := range f.Method.Code.ExceptionTable {
		if throwPC < int(eh.StartPC) || throwPC >= int(eh.EndPC) {
			continue
		}
		if eh.CatchType != 0 {
			catchName, err := f.Class.File.ConstantPool.ResolveClassName(eh.CatchType)
			if err != nil {
				return false, &VMFatal{Reason: err.Error()}
			}
			if !in.isAssignableException(jerr.ClassName, catchName) {
				continue
			}
		}
		f.Clear()
		f.Push(heap.ObjectValue(jerr.Object))
		f.PC = int(eh.HandlerPC)
		return true, nil
	}
	return false, nil
}

// isAssignableException reports whether an object of class thrown would
// be caught by a handler declared for catchType: thrown is catchType, or
// a (possibly indirect) subclass of it. Interfaces on the exception
// class's chain are not consulted — Throwable subclassing is a straight
// single-inheritance chain.
func (in *Interpreter) isAssignableException(thrown, catchType string) bool {
	if thrown == catchType {
		return true
	}
	lc, err := in.MA.MaybeLoadClass(thrown)
	if err != nil {
		return false
	}
	for lc.SuperName != "" {
		if lc.SuperName == catchType {
			return true
		}
		next, err := in.MA.MaybeLoadClass(lc.SuperName)
		if err != nil {
			return false
		}
		lc = next
	}
	return false
}

// isAssignable reports whether an instance of className can be treated as
// a targetName: className is targetName, a subclass of it, or a class
// whose superclass chain implements it as an interface (directly or
// through a superinterface). This is the full checkcast/instanceof rule;
// exception handler matching uses the narrower isAssignableException
// since Throwable subclassing never goes through an interface.
func (in *Interpreter) isAssignable(className, targetName string) bool {
	if className == targetName {
		return true
	}
	lc, err := in.MA.MaybeLoadClass(className)
	if err != nil {
		return false
	}
	for {
		if in.implementsInterface(lc, targetName) {
			return true
		}
		if lc.SuperName == "" {
			return false
		}
		if lc.SuperName == targetName {
			return true
		}
		next, err := in.MA.MaybeLoadClass(lc.SuperName)
		if err != nil {
			return false
		}
		lc = next
	}
}

// implementsInterface reports whether lc names targetName among its
// declared interfaces, or any of those interfaces extends it, walking
// superinterfaces the same way methodarea's default-method resolution
// does.
func (in *Interpreter) implementsInterface(lc *methodarea.LoadedClass, targetName string) bool {
	for _, ifaceName := range lc.InterfaceNames {
		if ifaceName == targetName {
			return true
		}
		iface, err := in.MA.MaybeLoadClass(ifaceName)
		if err != nil {
			continue
		}
		if in.implementsInterface(iface, targetName) {
			return true
		}
	}
	return false
}

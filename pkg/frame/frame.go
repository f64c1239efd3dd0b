// Package frame implements the per-invocation activation record: locals,
// operand stack, program counter, and the owning class/method.
package frame

import (
	"fmt"

	"github.com/kestrelvm/kestrel/pkg/classfile"
	"github.com/kestrelvm/kestrel/pkg/heap"
	"github.com/kestrelvm/kestrel/pkg/methodarea"
)

// StackUnderflow is a VM-fatal invariant break: a well-linked method's
// bytecode should never pop more than it pushed. It is not a
// Java-level exception.
type StackUnderflow struct{ Op string }

func (e *StackUnderflow) Error() string { return fmt.Sprintf("operand stack underflow at %s", e.Op) }

// Frame is one activation record on a thread's frame stack.
type Frame struct {
	Class  *methodarea.LoadedClass
	Method *classfile.MethodInfo

	PC int

	locals []heap.Value
	stack  []heap.Value // grows from index 0; top is stack[len(stack)-1]
}

// New creates a frame sized per the method's Code attribute, with locals
// pre-populated from args (receiver first, for instance methods) and the
// rest zeroed (the slot-accounting invariant).
func New(class *methodarea.LoadedClass, method *classfile.MethodInfo, args []heap.Value) *Frame {
	locals := make([]heap.Value, method.Code.MaxLocals)
	slot := 0
	for _, a := range args {
		locals[slot] = a
		if a.IsCategory2() {
			slot += 2
		} else {
			slot++
		}
	}
	return &Frame{
		Class:  class,
		Method: method,
		locals: locals,
		stack:  make([]heap.Value, 0, method.Code.MaxStack),
	}
}

// Code returns the method's bytecode.
func (f *Frame) Code() []byte { return f.Method.Code.Code }

// GetLocal reads local variable slot i.
func (f *Frame) GetLocal(i int) heap.Value { return f.locals[i] }

// SetLocal writes local variable slot i. For a category-2 value this
// occupies i and i+1; callers never read the shadow slot directly.
func (f *Frame) SetLocal(i int, v heap.Value) { f.locals[i] = v }

// Push pushes a single value.
func (f *Frame) Push(v heap.Value) { f.stack = append(f.stack, v) }

// Pop pops and returns the top value.
func (f *Frame) Pop() heap.Value {
	if len(f.stack) == 0 {
		panic(&StackUnderflow{Op: "pop"})
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}

// Peek returns the top value without removing it.
func (f *Frame) Peek() heap.Value {
	if len(f.stack) == 0 {
		panic(&StackUnderflow{Op: "peek"})
	}
	return f.stack[len(f.stack)-1]
}

// Depth returns the number of values currently on the operand stack
// (category-2 values count once, matching push/pop call count, not slots).
func (f *Frame) Depth() int { return len(f.stack) }

// Clear empties the operand stack, used when an exception handler is
// entered and the exception becomes the sole stack value.
func (f *Frame) Clear() { f.stack = f.stack[:0] }

// Dup duplicates the top value (dup).
func (f *Frame) Dup() {
	v := f.Peek()
	f.Push(v)
}

// DupX1 duplicates the top value and inserts it two down (dup_x1).
func (f *Frame) DupX1() {
	v1 := f.Pop()
	v2 := f.Pop()
	f.Push(v1)
	f.Push(v2)
	f.Push(v1)
}

// DupX2 duplicates the top value and inserts it three down if the next two
// are category-1, or two down if the next one is category-2 (dup_x2).
func (f *Frame) DupX2() {
	v1 := f.Pop()
	v2 := f.Pop()
	if v2.IsCategory2() {
		f.Push(v1)
		f.Push(v2)
		f.Push(v1)
		return
	}
	v3 := f.Pop()
	f.Push(v1)
	f.Push(v3)
	f.Push(v2)
	f.Push(v1)
}

// Dup2X1 duplicates the top category-2 value, or the top two category-1
// values, and inserts the copy beneath the next value down (dup2_x1).
func (f *Frame) Dup2X1() {
	v1 := f.Pop()
	if v1.IsCategory2() {
		v2 := f.Pop()
		f.Push(v1)
		f.Push(v2)
		f.Push(v1)
		return
	}
	v2 := f.Pop()
	v3 := f.Pop()
	f.Push(v2)
	f.Push(v1)
	f.Push(v3)
	f.Push(v2)
	f.Push(v1)
}

// Dup2X2 duplicates the top one or two values and inserts the copy beneath
// the next one or two values down, covering all four forms the JVM
// specification defines for dup2_x2 based on each operand's category.
func (f *Frame) Dup2X2() {
	v1 := f.Pop()
	if v1.IsCategory2() {
		v2 := f.Pop()
		if v2.IsCategory2() {
			f.Push(v1)
			f.Push(v2)
			f.Push(v1)
			return
		}
		v3 := f.Pop()
		f.Push(v1)
		f.Push(v3)
		f.Push(v2)
		f.Push(v1)
		return
	}
	v2 := f.Pop()
	v3 := f.Pop()
	if v3.IsCategory2() {
		f.Push(v2)
		f.Push(v1)
		f.Push(v3)
		f.Push(v2)
		f.Push(v1)
		return
	}
	v4 := f.Pop()
	f.Push(v2)
	f.Push(v1)
	f.Push(v4)
	f.Push(v3)
	f.Push(v2)
	f.Push(v1)
}

// Dup2 duplicates the top two category-1 values, or a single category-2
// value (dup2).
func (f *Frame) Dup2() {
	top := f.Peek()
	if top.IsCategory2() {
		f.Push(top)
		return
	}
	v1 := f.Pop()
	v2 := f.Pop()
	f.Push(v2)
	f.Push(v1)
	f.Push(v2)
	f.Push(v1)
}

// Pop2 pops one category-2 value, or two category-1 values (pop2).
func (f *Frame) Pop2() {
	top := f.Pop()
	if top.IsCategory2() {
		return
	}
	f.Pop()
}

// Swap exchanges the top two category-1 values (swap; undefined for
// category-2 operands per the JVM specification, not guarded here).
func (f *Frame) Swap() {
	v1 := f.Pop()
	v2 := f.Pop()
	f.Push(v1)
	f.Push(v2)
}

package nativebridge

import (
	"fmt"
	"io"

	"github.com/kestrelvm/kestrel/pkg/heap"
)

// RegisterBuiltins installs the minimal set of host-implemented methods:
// enough java/io/PrintStream.println overloads to run a "hello
// world"-shaped program, plus the no-op java/lang/Object.<init>. out is
// typically os.Stdout, supplied by the caller (cmd/kestrel) rather than
// hardcoded here.
func RegisterBuiltins(r *Registry, out io.Writer) {
	r.Register("java/lang/Object", "<init>", "()V", func(h *heap.Heap, args []heap.Value) (heap.Value, bool, error) {
		return heap.Value{}, false, nil
	})

	println := func(format func(heap.Value) string) Handler {
		return func(h *heap.Heap, args []heap.Value) (heap.Value, bool, error) {
			if len(args) < 2 {
				fmt.Fprintln(out)
				return heap.Value{}, false, nil
			}
			fmt.Fprintln(out, format(args[1]))
			return heap.Value{}, false, nil
		}
	}

	r.Register("java/io/PrintStream", "println", "()V", println(nil))
	r.Register("java/io/PrintStream", "println", "(I)V", println(func(v heap.Value) string { return fmt.Sprint(v.Int()) }))
	r.Register("java/io/PrintStream", "println", "(J)V", println(func(v heap.Value) string { return fmt.Sprint(v.Long()) }))
	r.Register("java/io/PrintStream", "println", "(F)V", println(func(v heap.Value) string { return fmt.Sprint(v.Float()) }))
	r.Register("java/io/PrintStream", "println", "(D)V", println(func(v heap.Value) string { return fmt.Sprint(v.Double()) }))
	r.Register("java/io/PrintStream", "println", "(Z)V", println(func(v heap.Value) string {
		if v.Bits != 0 {
			return "true"
		}
		return "false"
	}))
	r.Register("java/io/PrintStream", "println", "(C)V", println(func(v heap.Value) string { return string(rune(v.Bits)) }))

	r.Register("java/io/PrintStream", "println", "(Ljava/lang/String;)V", func(h *heap.Heap, args []heap.Value) (heap.Value, bool, error) {
		if len(args) < 2 {
			fmt.Fprintln(out)
			return heap.Value{}, false, nil
		}
		if args[1].IsNull() {
			fmt.Fprintln(out, "null")
			return heap.Value{}, false, nil
		}
		s, ok := h.JavaString(args[1])
		if !ok {
			return heap.Value{}, false, fmt.Errorf("println(String): argument is not a java/lang/String")
		}
		fmt.Fprintln(out, s)
		return heap.Value{}, false, nil
	})
}

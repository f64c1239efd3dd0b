// Command kestrel runs a single static method to completion against a
// directory of .class files.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelvm/kestrel/pkg/diagnostics"
	"github.com/kestrelvm/kestrel/pkg/heap"
	"github.com/kestrelvm/kestrel/pkg/interp"
	"github.com/kestrelvm/kestrel/pkg/methodarea"
	"github.com/kestrelvm/kestrel/pkg/nativebridge"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		debug     bool
		classpath []string
	)

	root := &cobra.Command{
		Use:          "kestrel <main-class> <main-method> [args...]",
		Short:        "Run a Java method under the kestrel interpreter",
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
	}
	root.Flags().BoolVar(&debug, "debug", false, "emit trace-level diagnostics")
	root.Flags().StringSliceVar(&classpath, "classpath", []string{"."}, "directories to search for .class files")

	var exitCode int
	root.RunE = func(cmd *cobra.Command, args []string) error {
		mainClass, mainMethod := args[0], args[1]
		programArgs := args[2:]

		level := "info"
		if debug {
			level = "trace"
		}
		diag := diagnostics.New(os.Stderr, level)

		ma := methodarea.New(classpath)
		h := heap.New()
		natives := nativebridge.New()
		nativebridge.RegisterBuiltins(natives, os.Stdout)

		in := interp.New(ma, h, natives, diag)

		state, runErr := in.Run(mainClass, mainMethod, stringArrayArg(h, programArgs))
		exitCode = exitCodeFor(state, runErr)
		if runErr != nil {
			diag.Error("run failed", "class", mainClass, "method", mainMethod, "err", runErr.Error())
			printFailure(os.Stderr, runErr)
		}
		return nil
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return exitCode
}

// stringArrayArg builds the single String[] argument conventionally
// passed to a Java main method, one java/lang/String per program arg.
func stringArrayArg(h *heap.Heap, args []string) []heap.Value {
	// ComponentKind is meaningless for a reference-typed array; NewArray
	// only consults it to compute a primitive zero value.
	arrID, err := h.NewArray(heap.KindInt, true, "java/lang/String", int32(len(args)))
	if err != nil {
		return nil
	}
	arr := h.GetArray(arrID)
	for i, a := range args {
		arr.Elements[i] = h.NewJavaString(a)
	}
	return []heap.Value{heap.ArrayValue(arrID)}
}

// printFailure renders an unhandled Java exception the way the java
// launcher does: its class name, getMessage() if present, and a stack trace
// synthesized from the (class, method, line) triples invoke recorded as
// it unwound. Anything that isn't a *interp.JavaException (a VMFatal, a
// ClassNotFound, ...) is just printed as-is.
func printFailure(w io.Writer, err error) {
	jerr, ok := err.(*interp.JavaException)
	if !ok {
		fmt.Fprintln(w, err)
		return
	}
	if jerr.Message != "" {
		fmt.Fprintf(w, "Exception in thread \"main\" %s: %s\n", jerr.ClassName, jerr.Message)
	} else {
		fmt.Fprintf(w, "Exception in thread \"main\" %s\n", jerr.ClassName)
	}
	for _, tr := range jerr.Trace {
		fmt.Fprintf(w, "\tat %s.%s(line %d)\n", tr.Class, tr.Method, tr.Line)
	}
}

// exitCodeFor maps a run's outcome to the exit code: 0 on success; 1 when
// an unhandled Java exception or NoClassDefFoundError fails the thread, or
// when a methodarea.ClassNotFound is anywhere in err's chain; 2 for every
// other error. A class file that fails to parse, a ClassCircularity, and a
// class that fails to load while a member is resolved mid-run (reported as
// a VMFatal) therefore exit 2, not 1.
func exitCodeFor(state interp.ThreadState, err error) int {
	if err == nil {
		return 0
	}
	if state == interp.Failed {
		switch err.(type) {
		case *interp.JavaException, *interp.NoClassDefFoundError:
			return 1
		}
	}
	var noSuch *methodarea.ClassNotFound
	if errors.As(err, &noSuch) {
		return 1
	}
	return 2
}

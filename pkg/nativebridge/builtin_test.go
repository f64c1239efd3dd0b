package nativebridge

import (
	"bytes"
	"testing"

	"github.com/kestrelvm/kestrel/pkg/heap"
)

func TestPrintlnInt(t *testing.T) {
	var buf bytes.Buffer
	r := New()
	RegisterBuiltins(r, &buf)

	h, ok := r.Lookup("java/io/PrintStream", "println", "(I)V")
	if !ok {
		t.Fatal("println(I)V not registered")
	}
	receiver := heap.NullValue()
	if _, hasValue, err := h(nil, []heap.Value{receiver, heap.IntValue(42)}); err != nil || hasValue {
		t.Fatalf("println(I)V: hasValue=%v err=%v", hasValue, err)
	}
	if buf.String() != "42\n" {
		t.Errorf("output = %q, want \"42\\n\"", buf.String())
	}
}

func TestPrintlnString(t *testing.T) {
	var buf bytes.Buffer
	r := New()
	RegisterBuiltins(r, &buf)
	heapInst := heap.New()

	h, ok := r.Lookup("java/io/PrintStream", "println", "(Ljava/lang/String;)V")
	if !ok {
		t.Fatal("println(String) not registered")
	}
	s := heapInst.NewJavaString("hi there")
	if _, _, err := h(heapInst, []heap.Value{heap.NullValue(), s}); err != nil {
		t.Fatalf("println(String): %v", err)
	}
	if buf.String() != "hi there\n" {
		t.Errorf("output = %q, want \"hi there\\n\"", buf.String())
	}
}

func TestLookupMiss(t *testing.T) {
	r := New()
	if _, ok := r.Lookup("Nope", "x", "()V"); ok {
		t.Error("expected Lookup miss for unregistered method")
	}
}

func TestObjectInitIsNoop(t *testing.T) {
	r := New()
	RegisterBuiltins(r, &bytes.Buffer{})
	h, ok := r.Lookup("java/lang/Object", "<init>", "()V")
	if !ok {
		t.Fatal("Object.<init> not registered")
	}
	if _, hasValue, err := h(nil, []heap.Value{heap.NullValue()}); hasValue || err != nil {
		t.Fatalf("Object.<init>: hasValue=%v err=%v", hasValue, err)
	}
}

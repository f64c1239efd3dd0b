package frame

import (
	"testing"

	"github.com/kestrelvm/kestrel/pkg/classfile"
	"github.com/kestrelvm/kestrel/pkg/heap"
	"github.com/kestrelvm/kestrel/pkg/methodarea"
)

func testMethod(maxStack, maxLocals uint16) *classfile.MethodInfo {
	return &classfile.MethodInfo{
		Name:       "test",
		Descriptor: "()V",
		Code: &classfile.CodeAttribute{
			MaxStack:  maxStack,
			MaxLocals: maxLocals,
			Code:      []byte{0x00},
		},
	}
}

func TestNewPopulatesLocalsWithCategory2Accounting(t *testing.T) {
	m := testMethod(4, 5)
	args := []heap.Value{
		heap.ObjectValue(1), // this
		heap.LongValue(42),  // occupies slots 1-2
		heap.IntValue(7),    // slot 3
	}
	f := New(&methodarea.LoadedClass{Name: "Example"}, m, args)

	if f.GetLocal(0).Ref.Object != 1 {
		t.Errorf("local 0 (this) not populated correctly")
	}
	if f.GetLocal(1).Long() != 42 {
		t.Errorf("local 1 (long) = %v, want 42", f.GetLocal(1).Long())
	}
	if f.GetLocal(3).Int() != 7 {
		t.Errorf("local 3 (int) = %v, want 7", f.GetLocal(3).Int())
	}
}

func TestPushPopOrder(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(4, 0), nil)
	f.Push(heap.IntValue(1))
	f.Push(heap.IntValue(2))
	if v := f.Pop(); v.Int() != 2 {
		t.Errorf("Pop() = %d, want 2", v.Int())
	}
	if v := f.Pop(); v.Int() != 1 {
		t.Errorf("Pop() = %d, want 1", v.Int())
	}
}

func TestPopUnderflowPanics(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(1, 0), nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty-stack pop")
		}
	}()
	f.Pop()
}

func TestDup(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(4, 0), nil)
	f.Push(heap.IntValue(5))
	f.Dup()
	if f.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", f.Depth())
	}
	if f.Pop().Int() != 5 || f.Pop().Int() != 5 {
		t.Error("dup did not duplicate top value")
	}
}

func TestDup2OnCategory2PushesOnce(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(4, 0), nil)
	f.Push(heap.DoubleValue(3.5))
	f.Dup2()
	if f.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", f.Depth())
	}
	if f.Pop().Double() != 3.5 || f.Pop().Double() != 3.5 {
		t.Error("dup2 on category-2 value did not duplicate correctly")
	}
}

func TestDup2OnTwoCategory1Values(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(4, 0), nil)
	f.Push(heap.IntValue(1))
	f.Push(heap.IntValue(2))
	f.Dup2()
	got := []int32{f.Pop().Int(), f.Pop().Int(), f.Pop().Int(), f.Pop().Int()}
	want := []int32{2, 1, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dup2 sequence = %v, want %v", got, want)
		}
	}
}

func TestPop2OnCategory2PopsOnce(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(4, 0), nil)
	f.Push(heap.IntValue(9))
	f.Push(heap.LongValue(1))
	f.Pop2()
	if f.Depth() != 1 || f.Pop().Int() != 9 {
		t.Error("pop2 on category-2 top must pop exactly that one value")
	}
}

func TestDupX2WithThreeCategory1Values(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(4, 0), nil)
	f.Push(heap.IntValue(3))
	f.Push(heap.IntValue(2))
	f.Push(heap.IntValue(1))
	f.DupX2()
	got := []int32{f.Pop().Int(), f.Pop().Int(), f.Pop().Int(), f.Pop().Int()}
	want := []int32{1, 2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dup_x2 sequence = %v, want %v", got, want)
		}
	}
}

func TestDupX2WithCategory2Below(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(4, 0), nil)
	f.Push(heap.LongValue(42))
	f.Push(heap.IntValue(1))
	f.DupX2()
	if v := f.Pop(); v.Int() != 1 {
		t.Fatalf("top = %v, want 1", v.Int())
	}
	if v := f.Pop(); v.Long() != 42 {
		t.Fatalf("middle = %v, want 42", v.Long())
	}
	if v := f.Pop(); v.Int() != 1 {
		t.Fatalf("bottom = %v, want 1", v.Int())
	}
}

func TestDup2X1WithTwoCategory1Values(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(5, 0), nil)
	f.Push(heap.IntValue(3))
	f.Push(heap.IntValue(2))
	f.Push(heap.IntValue(1))
	f.Dup2X1()
	got := []int32{f.Pop().Int(), f.Pop().Int(), f.Pop().Int(), f.Pop().Int(), f.Pop().Int()}
	want := []int32{1, 2, 3, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dup2_x1 sequence = %v, want %v", got, want)
		}
	}
}

func TestDup2X1WithCategory2Top(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(4, 0), nil)
	f.Push(heap.IntValue(9))
	f.Push(heap.LongValue(42))
	f.Dup2X1()
	if v := f.Pop(); v.Long() != 42 {
		t.Fatalf("top = %v, want 42", v.Long())
	}
	if v := f.Pop(); v.Int() != 9 {
		t.Fatalf("middle = %v, want 9", v.Int())
	}
	if v := f.Pop(); v.Long() != 42 {
		t.Fatalf("bottom = %v, want 42", v.Long())
	}
}

func TestDup2X2WithFourCategory1Values(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(6, 0), nil)
	f.Push(heap.IntValue(4))
	f.Push(heap.IntValue(3))
	f.Push(heap.IntValue(2))
	f.Push(heap.IntValue(1))
	f.Dup2X2()
	got := make([]int32, 0, 6)
	for i := 0; i < 6; i++ {
		got = append(got, f.Pop().Int())
	}
	want := []int32{1, 2, 3, 4, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dup2_x2 sequence = %v, want %v", got, want)
		}
	}
}

func TestSwap(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(4, 0), nil)
	f.Push(heap.IntValue(1))
	f.Push(heap.IntValue(2))
	f.Swap()
	if f.Pop().Int() != 1 || f.Pop().Int() != 2 {
		t.Error("swap did not exchange top two values")
	}
}

func TestClearEmptiesStack(t *testing.T) {
	f := New(&methodarea.LoadedClass{}, testMethod(4, 0), nil)
	f.Push(heap.IntValue(1))
	f.Push(heap.IntValue(2))
	f.Clear()
	if f.Depth() != 0 {
		t.Errorf("Depth() after Clear = %d, want 0", f.Depth())
	}
}

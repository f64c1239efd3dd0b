package classfile

import (
	"errors"
	"testing"
)

func samplePool() *ConstantPool {
	entries := make([]ConstantPoolEntry, 9)
	entries[1] = &ConstantUtf8{Value: "Example"}
	entries[2] = &ConstantClass{NameIndex: 1}
	entries[3] = &ConstantUtf8{Value: "field"}
	entries[4] = &ConstantUtf8{Value: "I"}
	entries[5] = &ConstantNameAndType{NameIndex: 3, DescriptorIndex: 4}
	entries[6] = &ConstantFieldref{ClassIndex: 2, NameAndTypeIndex: 5}
	entries[7] = &ConstantUtf8{Value: "method"}
	entries[8] = &ConstantNameAndType{NameIndex: 7, DescriptorIndex: 4}
	return NewConstantPool(entries)
}

func TestResolveFieldref(t *testing.T) {
	cp := samplePool()
	ref, err := cp.ResolveFieldref(6)
	if err != nil {
		t.Fatalf("ResolveFieldref: %v", err)
	}
	if ref.ClassName != "Example" || ref.MemberName != "field" || ref.Descriptor != "I" {
		t.Errorf("ResolveFieldref = %+v, want {Example field I}", ref)
	}
}

func TestResolveMethodrefWrongTagReturnsInvalidConstantReference(t *testing.T) {
	cp := samplePool()
	_, err := cp.ResolveMethodref(6) // index 6 is a Fieldref, not Methodref
	var invalid *InvalidConstantReference
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidConstantReference, got %v", err)
	}
	if invalid.ExpectedTag != TagMethodref || invalid.ActualTag != TagFieldref {
		t.Errorf("InvalidConstantReference = %+v", invalid)
	}
}

func TestGetBadIndex(t *testing.T) {
	cp := samplePool()
	if _, err := cp.Get(0); err == nil {
		t.Error("expected error for index 0")
	}
	if _, err := cp.Get(100); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestReservedSlotTag(t *testing.T) {
	var r ConstantPoolEntry = Reserved{}
	if r.Tag() != 0 {
		t.Errorf("Reserved.Tag() = %d, want 0", r.Tag())
	}
}

package classfile

import "fmt"

// Constant pool tags (JVM spec table 4.4-A).
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
)

// ConstantPoolEntry is implemented by every tagged constant, plus the
// sentinel Reserved entry occupying the second slot of an 8-byte constant.
type ConstantPoolEntry interface {
	Tag() uint8
}

type ConstantUtf8 struct{ Value string }
type ConstantInteger struct{ Value int32 }
type ConstantFloat struct{ Value float32 }
type ConstantLong struct{ Value int64 }
type ConstantDouble struct{ Value float64 }
type ConstantClass struct{ NameIndex uint16 }
type ConstantString struct{ StringIndex uint16 }
type ConstantFieldref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}
type ConstantMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}
type ConstantInterfaceMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}
type ConstantNameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}
type ConstantMethodHandle struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}
type ConstantMethodType struct{ DescriptorIndex uint16 }
type ConstantInvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

// Reserved occupies the phantom second slot after a Long or Double entry;
// it must never be dereferenced.
type Reserved struct{}

func (c *ConstantUtf8) Tag() uint8               { return TagUtf8 }
func (c *ConstantInteger) Tag() uint8            { return TagInteger }
func (c *ConstantFloat) Tag() uint8              { return TagFloat }
func (c *ConstantLong) Tag() uint8               { return TagLong }
func (c *ConstantDouble) Tag() uint8             { return TagDouble }
func (c *ConstantClass) Tag() uint8              { return TagClass }
func (c *ConstantString) Tag() uint8             { return TagString }
func (c *ConstantFieldref) Tag() uint8           { return TagFieldref }
func (c *ConstantMethodref) Tag() uint8          { return TagMethodref }
func (c *ConstantInterfaceMethodref) Tag() uint8 { return TagInterfaceMethodref }
func (c *ConstantNameAndType) Tag() uint8        { return TagNameAndType }
func (c *ConstantMethodHandle) Tag() uint8       { return TagMethodHandle }
func (c *ConstantMethodType) Tag() uint8         { return TagMethodType }
func (c *ConstantInvokeDynamic) Tag() uint8      { return TagInvokeDynamic }
func (c Reserved) Tag() uint8                    { return 0 }

// InvalidConstantReference is returned by every typed lookup helper when
// the entry at idx does not have the expected tag.
type InvalidConstantReference struct {
	Index       uint16
	ExpectedTag uint8
	ActualTag   uint8
}

func (e *InvalidConstantReference) Error() string {
	return fmt.Sprintf("invalid constant pool reference at index %d: expected tag %d, got %d", e.Index, e.ExpectedTag, e.ActualTag)
}

// ConstantPool is the 1-indexed, random-access store of a class's tagged
// constants. Index 0 is unused; Long/Double entries occupy two indices,
// with the second held by a Reserved placeholder.
type ConstantPool struct {
	entries []ConstantPoolEntry
}

// NewConstantPool wraps a 1-indexed entries slice (entries[0] is ignored).
func NewConstantPool(entries []ConstantPoolEntry) *ConstantPool {
	return &ConstantPool{entries: entries}
}

// Count returns the constant_pool_count of the owning class file, i.e.
// len(entries), counting the unused index 0.
func (cp *ConstantPool) Count() int { return len(cp.entries) }

func (cp *ConstantPool) entryAt(idx uint16) (ConstantPoolEntry, error) {
	if int(idx) <= 0 || int(idx) >= len(cp.entries) || cp.entries[idx] == nil {
		return nil, &BadIndex{Index: idx}
	}
	return cp.entries[idx], nil
}

// Get returns the raw constant at idx.
func (cp *ConstantPool) Get(idx uint16) (ConstantPoolEntry, error) {
	return cp.entryAt(idx)
}

// Utf8 returns the string value of a CONSTANT_Utf8 entry.
func (cp *ConstantPool) Utf8(idx uint16) (string, error) {
	e, err := cp.entryAt(idx)
	if err != nil {
		return "", err
	}
	u, ok := e.(*ConstantUtf8)
	if !ok {
		return "", &InvalidConstantReference{Index: idx, ExpectedTag: TagUtf8, ActualTag: e.Tag()}
	}
	return u.Value, nil
}

// ResolveClassName resolves a CONSTANT_Class entry to its name.
func (cp *ConstantPool) ResolveClassName(idx uint16) (string, error) {
	e, err := cp.entryAt(idx)
	if err != nil {
		return "", err
	}
	c, ok := e.(*ConstantClass)
	if !ok {
		return "", &InvalidConstantReference{Index: idx, ExpectedTag: TagClass, ActualTag: e.Tag()}
	}
	return cp.Utf8(c.NameIndex)
}

// ResolveNameAndType resolves a CONSTANT_NameAndType entry to (name, descriptor).
func (cp *ConstantPool) ResolveNameAndType(idx uint16) (string, string, error) {
	e, err := cp.entryAt(idx)
	if err != nil {
		return "", "", err
	}
	nat, ok := e.(*ConstantNameAndType)
	if !ok {
		return "", "", &InvalidConstantReference{Index: idx, ExpectedTag: TagNameAndType, ActualTag: e.Tag()}
	}
	name, err := cp.Utf8(nat.NameIndex)
	if err != nil {
		return "", "", err
	}
	desc, err := cp.Utf8(nat.DescriptorIndex)
	if err != nil {
		return "", "", err
	}
	return name, desc, nil
}

// MemberRef is the common shape of a resolved Fieldref/Methodref/
// InterfaceMethodref: a class name, a member name, and a descriptor.
type MemberRef struct {
	ClassName  string
	MemberName string
	Descriptor string
}

func (cp *ConstantPool) resolveRef(classIndex, natIndex, idx uint16) (*MemberRef, error) {
	className, err := cp.ResolveClassName(classIndex)
	if err != nil {
		return nil, fmt.Errorf("resolving ref at index %d: %w", idx, err)
	}
	name, desc, err := cp.ResolveNameAndType(natIndex)
	if err != nil {
		return nil, fmt.Errorf("resolving ref at index %d: %w", idx, err)
	}
	return &MemberRef{ClassName: className, MemberName: name, Descriptor: desc}, nil
}

// ResolveFieldref resolves a CONSTANT_Fieldref entry.
func (cp *ConstantPool) ResolveFieldref(idx uint16) (*MemberRef, error) {
	e, err := cp.entryAt(idx)
	if err != nil {
		return nil, err
	}
	f, ok := e.(*ConstantFieldref)
	if !ok {
		return nil, &InvalidConstantReference{Index: idx, ExpectedTag: TagFieldref, ActualTag: e.Tag()}
	}
	return cp.resolveRef(f.ClassIndex, f.NameAndTypeIndex, idx)
}

// ResolveMethodref resolves a CONSTANT_Methodref entry.
func (cp *ConstantPool) ResolveMethodref(idx uint16) (*MemberRef, error) {
	e, err := cp.entryAt(idx)
	if err != nil {
		return nil, err
	}
	m, ok := e.(*ConstantMethodref)
	if !ok {
		return nil, &InvalidConstantReference{Index: idx, ExpectedTag: TagMethodref, ActualTag: e.Tag()}
	}
	return cp.resolveRef(m.ClassIndex, m.NameAndTypeIndex, idx)
}

// ResolveInterfaceMethodref resolves a CONSTANT_InterfaceMethodref entry.
func (cp *ConstantPool) ResolveInterfaceMethodref(idx uint16) (*MemberRef, error) {
	e, err := cp.entryAt(idx)
	if err != nil {
		return nil, err
	}
	m, ok := e.(*ConstantInterfaceMethodref)
	if !ok {
		return nil, &InvalidConstantReference{Index: idx, ExpectedTag: TagInterfaceMethodref, ActualTag: e.Tag()}
	}
	return cp.resolveRef(m.ClassIndex, m.NameAndTypeIndex, idx)
}

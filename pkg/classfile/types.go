package classfile

// Access flags (JVM spec table 4.1-A and friends; only the ones the
// interpreter and method area consult are named).
const (
	AccPublic    = 0x0001
	AccPrivate   = 0x0002
	AccProtected = 0x0004
	AccStatic    = 0x0008
	AccFinal     = 0x0010
	AccSuper     = 0x0020
	AccNative    = 0x0100
	AccInterface = 0x0200
	AccAbstract  = 0x0400
	AccSynthetic = 0x1000
)

const Magic = 0xCAFEBABE

// ClassFile is the parsed form of a .class file.
type ClassFile struct {
	Magic        uint32
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool *ConstantPool
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   []AttributeInfo
}

// ThisClassName resolves the this_class constant to its name.
func (cf *ClassFile) ThisClassName() (string, error) {
	return cf.ConstantPool.ResolveClassName(cf.ThisClass)
}

// SuperClassName resolves the super_class constant to its name, or "" if
// super_class is 0 (permitted only for java/lang/Object).
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.ConstantPool.ResolveClassName(cf.SuperClass)
}

// InterfaceNames resolves every interface index to a name, in order.
func (cf *ClassFile) InterfaceNames() ([]string, error) {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		name, err := cf.ConstantPool.ResolveClassName(idx)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}

// FindMethod finds a declared method by name and descriptor.
func (cf *ClassFile) FindMethod(name, descriptor string) *MethodInfo {
	for i := range cf.Methods {
		if cf.Methods[i].Name == name && cf.Methods[i].Descriptor == descriptor {
			return &cf.Methods[i]
		}
	}
	return nil
}

// FindField finds a declared field by name.
func (cf *ClassFile) FindField(name string) *FieldInfo {
	for i := range cf.Fields {
		if cf.Fields[i].Name == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// MethodInfo is a method_info record, with its Code attribute decoded.
type MethodInfo struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Attributes  []AttributeInfo
	Code        *CodeAttribute
}

// FieldInfo is a field_info record.
type FieldInfo struct {
	AccessFlags   uint16
	Name          string
	Descriptor    string
	Attributes    []AttributeInfo
	ConstantValue ConstantPoolEntry // non-nil if a ConstantValue attribute was present
}

// AttributeInfo is a raw, name-resolved attribute. Attributes this reader
// does not specifically decode are kept as an opaque blob.
type AttributeInfo struct {
	Name string
	Data []byte
}

// ExceptionHandler is one entry of a Code attribute's exception_table.
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16 // constant-pool index into a Class entry; 0 means "any"
}

// LineNumberEntry maps a bytecode offset to a source line.
type LineNumberEntry struct {
	StartPC uint16
	Line    uint16
}

// CodeAttribute is the decoded Code attribute of a method.
type CodeAttribute struct {
	MaxStack         uint16
	MaxLocals        uint16
	Code             []byte
	ExceptionTable   []ExceptionHandler
	LineNumberTable  []LineNumberEntry
	Attributes       []AttributeInfo
}

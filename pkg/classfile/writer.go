package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeHeader serializes the structural prefix of a class file — magic,
// versions, constant pool, access flags, this/super, interfaces — in the
// exact byte layout Parse consumes, so that parsing then re-encoding a
// well-formed class yields the original bytes for these fields. Fields,
// methods, and class attributes are name-resolved at parse time and are
// not re-encoded.
func (cf *ClassFile) EncodeHeader() ([]byte, error) {
	var buf bytes.Buffer
	w := func(v interface{}) { binary.Write(&buf, binary.BigEndian, v) }

	w(cf.Magic)
	w(cf.MinorVersion)
	w(cf.MajorVersion)

	w(uint16(cf.ConstantPool.Count()))
	for i := 1; i < cf.ConstantPool.Count(); i++ {
		if err := encodeConstant(&buf, cf.ConstantPool.entries[i]); err != nil {
			return nil, fmt.Errorf("encoding constant %d: %w", i, err)
		}
	}

	w(cf.AccessFlags)
	w(cf.ThisClass)
	w(cf.SuperClass)

	w(uint16(len(cf.Interfaces)))
	for _, idx := range cf.Interfaces {
		w(idx)
	}

	return buf.Bytes(), nil
}

func encodeConstant(buf *bytes.Buffer, e ConstantPoolEntry) error {
	w := func(v interface{}) { binary.Write(buf, binary.BigEndian, v) }

	switch c := e.(type) {
	case *ConstantUtf8:
		w(uint8(TagUtf8))
		w(uint16(len(c.Value)))
		buf.WriteString(c.Value)
	case *ConstantInteger:
		w(uint8(TagInteger))
		w(c.Value)
	case *ConstantFloat:
		w(uint8(TagFloat))
		w(math.Float32bits(c.Value))
	case *ConstantLong:
		w(uint8(TagLong))
		w(c.Value)
	case *ConstantDouble:
		w(uint8(TagDouble))
		w(math.Float64bits(c.Value))
	case *ConstantClass:
		w(uint8(TagClass))
		w(c.NameIndex)
	case *ConstantString:
		w(uint8(TagString))
		w(c.StringIndex)
	case *ConstantFieldref:
		w(uint8(TagFieldref))
		w(c.ClassIndex)
		w(c.NameAndTypeIndex)
	case *ConstantMethodref:
		w(uint8(TagMethodref))
		w(c.ClassIndex)
		w(c.NameAndTypeIndex)
	case *ConstantInterfaceMethodref:
		w(uint8(TagInterfaceMethodref))
		w(c.ClassIndex)
		w(c.NameAndTypeIndex)
	case *ConstantNameAndType:
		w(uint8(TagNameAndType))
		w(c.NameIndex)
		w(c.DescriptorIndex)
	case *ConstantMethodHandle:
		w(uint8(TagMethodHandle))
		w(c.ReferenceKind)
		w(c.ReferenceIndex)
	case *ConstantMethodType:
		w(uint8(TagMethodType))
		w(c.DescriptorIndex)
	case *ConstantInvokeDynamic:
		w(uint8(TagInvokeDynamic))
		w(c.BootstrapMethodAttrIndex)
		w(c.NameAndTypeIndex)
	case Reserved:
		// The phantom second slot of a Long/Double has no on-disk bytes.
	default:
		return fmt.Errorf("cannot encode constant of type %T", e)
	}
	return nil
}

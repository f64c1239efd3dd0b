package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// ParseFile opens and parses a .class file from the given path, closing
// the handle on every exit path.
func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a class file from r in class-file order: magic,
// versions, constant pool, access flags, this/super/interfaces, fields,
// methods, class attributes.
func Parse(r io.Reader) (*ClassFile, error) {
	cf := &ClassFile{}

	if err := binary.Read(r, binary.BigEndian, &cf.Magic); err != nil {
		return nil, &TruncatedInput{Context: "reading magic number", Err: err}
	}
	if cf.Magic != Magic {
		return nil, &BadMagic{Got: cf.Magic}
	}

	if err := binary.Read(r, binary.BigEndian, &cf.MinorVersion); err != nil {
		return nil, &TruncatedInput{Context: "reading minor version", Err: err}
	}
	if err := binary.Read(r, binary.BigEndian, &cf.MajorVersion); err != nil {
		return nil, &TruncatedInput{Context: "reading major version", Err: err}
	}
	if cf.MajorVersion > maxSupportedMajorVersion {
		return nil, &UnsupportedVersion{Major: cf.MajorVersion}
	}

	var cpCount uint16
	if err := binary.Read(r, binary.BigEndian, &cpCount); err != nil {
		return nil, &TruncatedInput{Context: "reading constant pool count", Err: err}
	}
	entries, err := parseConstantPoolEntries(r, cpCount)
	if err != nil {
		return nil, fmt.Errorf("parsing constant pool: %w", err)
	}
	cf.ConstantPool = NewConstantPool(entries)

	if err := binary.Read(r, binary.BigEndian, &cf.AccessFlags); err != nil {
		return nil, &TruncatedInput{Context: "reading access flags", Err: err}
	}
	if err := binary.Read(r, binary.BigEndian, &cf.ThisClass); err != nil {
		return nil, &TruncatedInput{Context: "reading this_class", Err: err}
	}
	if err := binary.Read(r, binary.BigEndian, &cf.SuperClass); err != nil {
		return nil, &TruncatedInput{Context: "reading super_class", Err: err}
	}

	var interfacesCount uint16
	if err := binary.Read(r, binary.BigEndian, &interfacesCount); err != nil {
		return nil, &TruncatedInput{Context: "reading interfaces count", Err: err}
	}
	cf.Interfaces = make([]uint16, interfacesCount)
	// Read all interfacesCount entries starting at index 0. (Starting the
	// loop at index 1 would drop the class's first interface, even for a
	// class with a single interface; TestParseSingleInterfaceNotDropped in
	// reader_test.go covers this.)
	for i := uint16(0); i < interfacesCount; i++ {
		if err := binary.Read(r, binary.BigEndian, &cf.Interfaces[i]); err != nil {
			return nil, &TruncatedInput{Context: fmt.Sprintf("reading interface %d", i), Err: err}
		}
	}

	var fieldsCount uint16
	if err := binary.Read(r, binary.BigEndian, &fieldsCount); err != nil {
		return nil, &TruncatedInput{Context: "reading fields count", Err: err}
	}
	cf.Fields, err = parseFields(r, cf.ConstantPool, fieldsCount)
	if err != nil {
		return nil, fmt.Errorf("parsing fields: %w", err)
	}

	var methodsCount uint16
	if err := binary.Read(r, binary.BigEndian, &methodsCount); err != nil {
		return nil, &TruncatedInput{Context: "reading methods count", Err: err}
	}
	cf.Methods, err = parseMethods(r, cf.ConstantPool, methodsCount)
	if err != nil {
		return nil, fmt.Errorf("parsing methods: %w", err)
	}

	var attrCount uint16
	if err := binary.Read(r, binary.BigEndian, &attrCount); err != nil {
		return nil, &TruncatedInput{Context: "reading class attributes count", Err: err}
	}
	cf.Attributes, err = parseAttributeInfos(r, cf.ConstantPool, attrCount)
	if err != nil {
		return nil, fmt.Errorf("parsing class attributes: %w", err)
	}

	return cf, nil
}

func parseConstantPoolEntries(r io.Reader, count uint16) ([]ConstantPoolEntry, error) {
	pool := make([]ConstantPoolEntry, count)

	for i := uint16(1); i < count; i++ {
		var tag uint8
		if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
			return nil, &TruncatedInput{Context: fmt.Sprintf("reading tag at index %d", i), Err: err}
		}

		switch tag {
		case TagUtf8:
			var length uint16
			if err := binary.Read(r, binary.BigEndian, &length); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading Utf8 length at index %d", i), Err: err}
			}
			raw := make([]byte, length)
			if _, err := io.ReadFull(r, raw); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading Utf8 bytes at index %d", i), Err: err}
			}
			pool[i] = &ConstantUtf8{Value: string(raw)}

		case TagInteger:
			var v int32
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading Integer at index %d", i), Err: err}
			}
			pool[i] = &ConstantInteger{Value: v}

		case TagFloat:
			var bits uint32
			if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading Float at index %d", i), Err: err}
			}
			pool[i] = &ConstantFloat{Value: math.Float32frombits(bits)}

		case TagLong:
			var v int64
			if err := binary.Read(r, binary.BigEndian, &v); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading Long at index %d", i), Err: err}
			}
			pool[i] = &ConstantLong{Value: v}
			i++ // Long occupies the next index too.
			if i < count {
				pool[i] = Reserved{}
			}

		case TagDouble:
			var bits uint64
			if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading Double at index %d", i), Err: err}
			}
			pool[i] = &ConstantDouble{Value: math.Float64frombits(bits)}
			i++
			if i < count {
				pool[i] = Reserved{}
			}

		case TagClass:
			var nameIndex uint16
			if err := binary.Read(r, binary.BigEndian, &nameIndex); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading Class at index %d", i), Err: err}
			}
			pool[i] = &ConstantClass{NameIndex: nameIndex}

		case TagString:
			var strIndex uint16
			if err := binary.Read(r, binary.BigEndian, &strIndex); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading String at index %d", i), Err: err}
			}
			pool[i] = &ConstantString{StringIndex: strIndex}

		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			var classIndex, natIndex uint16
			if err := binary.Read(r, binary.BigEndian, &classIndex); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading ref class_index at index %d", i), Err: err}
			}
			if err := binary.Read(r, binary.BigEndian, &natIndex); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading ref name_and_type_index at index %d", i), Err: err}
			}
			switch tag {
			case TagFieldref:
				pool[i] = &ConstantFieldref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}
			case TagMethodref:
				pool[i] = &ConstantMethodref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}
			default:
				pool[i] = &ConstantInterfaceMethodref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}
			}

		case TagNameAndType:
			var nameIndex, descIndex uint16
			if err := binary.Read(r, binary.BigEndian, &nameIndex); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading NameAndType name_index at index %d", i), Err: err}
			}
			if err := binary.Read(r, binary.BigEndian, &descIndex); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading NameAndType descriptor_index at index %d", i), Err: err}
			}
			pool[i] = &ConstantNameAndType{NameIndex: nameIndex, DescriptorIndex: descIndex}

		case TagMethodHandle:
			var kind uint8
			var refIndex uint16
			if err := binary.Read(r, binary.BigEndian, &kind); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading MethodHandle at index %d", i), Err: err}
			}
			if err := binary.Read(r, binary.BigEndian, &refIndex); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading MethodHandle at index %d", i), Err: err}
			}
			pool[i] = &ConstantMethodHandle{ReferenceKind: kind, ReferenceIndex: refIndex}

		case TagMethodType:
			var descIndex uint16
			if err := binary.Read(r, binary.BigEndian, &descIndex); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading MethodType at index %d", i), Err: err}
			}
			pool[i] = &ConstantMethodType{DescriptorIndex: descIndex}

		case TagDynamic, TagInvokeDynamic:
			var bsmIndex, natIndex uint16
			if err := binary.Read(r, binary.BigEndian, &bsmIndex); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading Dynamic/InvokeDynamic at index %d", i), Err: err}
			}
			if err := binary.Read(r, binary.BigEndian, &natIndex); err != nil {
				return nil, &TruncatedInput{Context: fmt.Sprintf("reading Dynamic/InvokeDynamic at index %d", i), Err: err}
			}
			pool[i] = &ConstantInvokeDynamic{BootstrapMethodAttrIndex: bsmIndex, NameAndTypeIndex: natIndex}

		default:
			return nil, &BadConstantTag{Tag: tag, Index: i}
		}
	}

	return pool, nil
}

func parseFields(r io.Reader, pool *ConstantPool, count uint16) ([]FieldInfo, error) {
	fields := make([]FieldInfo, count)
	for i := uint16(0); i < count; i++ {
		accessFlags, nameIndex, descIndex, attrCount, err := readMemberHeader(r)
		if err != nil {
			return nil, fmt.Errorf("reading field %d: %w", i, err)
		}
		name, err := pool.Utf8(nameIndex)
		if err != nil {
			return nil, fmt.Errorf("resolving field %d name: %w", i, err)
		}
		desc, err := pool.Utf8(descIndex)
		if err != nil {
			return nil, fmt.Errorf("resolving field %d descriptor: %w", i, err)
		}
		attrs, err := parseAttributeInfos(r, pool, attrCount)
		if err != nil {
			return nil, fmt.Errorf("parsing field %d attributes: %w", i, err)
		}
		fi := FieldInfo{AccessFlags: accessFlags, Name: name, Descriptor: desc, Attributes: attrs}
		for _, attr := range attrs {
			if attr.Name == "ConstantValue" && len(attr.Data) == 2 {
				idx := binary.BigEndian.Uint16(attr.Data)
				if c, err := pool.Get(idx); err == nil {
					fi.ConstantValue = c
				}
			}
		}
		fields[i] = fi
	}
	return fields, nil
}

func parseMethods(r io.Reader, pool *ConstantPool, count uint16) ([]MethodInfo, error) {
	methods := make([]MethodInfo, count)
	for i := uint16(0); i < count; i++ {
		accessFlags, nameIndex, descIndex, attrCount, err := readMemberHeader(r)
		if err != nil {
			return nil, fmt.Errorf("reading method %d: %w", i, err)
		}
		name, err := pool.Utf8(nameIndex)
		if err != nil {
			return nil, fmt.Errorf("resolving method %d name: %w", i, err)
		}
		desc, err := pool.Utf8(descIndex)
		if err != nil {
			return nil, fmt.Errorf("resolving method %d descriptor: %w", i, err)
		}
		attrs, err := parseAttributeInfos(r, pool, attrCount)
		if err != nil {
			return nil, fmt.Errorf("parsing method %d attributes: %w", i, err)
		}

		m := MethodInfo{AccessFlags: accessFlags, Name: name, Descriptor: desc, Attributes: attrs}
		for _, attr := range attrs {
			if attr.Name == "Code" {
				code, err := parseCodeAttribute(attr.Data, pool)
				if err != nil {
					return nil, fmt.Errorf("parsing Code attribute for method %s: %w", name, err)
				}
				m.Code = code
				break
			}
		}
		methods[i] = m
	}
	return methods, nil
}

func readMemberHeader(r io.Reader) (accessFlags, nameIndex, descIndex, attrCount uint16, err error) {
	if err = binary.Read(r, binary.BigEndian, &accessFlags); err != nil {
		return
	}
	if err = binary.Read(r, binary.BigEndian, &nameIndex); err != nil {
		return
	}
	if err = binary.Read(r, binary.BigEndian, &descIndex); err != nil {
		return
	}
	err = binary.Read(r, binary.BigEndian, &attrCount)
	return
}

func parseAttributeInfos(r io.Reader, pool *ConstantPool, count uint16) ([]AttributeInfo, error) {
	attrs := make([]AttributeInfo, count)
	for i := uint16(0); i < count; i++ {
		var nameIndex uint16
		if err := binary.Read(r, binary.BigEndian, &nameIndex); err != nil {
			return nil, &TruncatedInput{Context: fmt.Sprintf("reading attribute %d name index", i), Err: err}
		}
		var length uint32
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return nil, &TruncatedInput{Context: fmt.Sprintf("reading attribute %d length", i), Err: err}
		}
		data := make([]byte, length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, &TruncatedInput{Context: fmt.Sprintf("reading attribute %d data", i), Err: err}
		}
		name, err := pool.Utf8(nameIndex)
		if err != nil {
			return nil, fmt.Errorf("resolving attribute %d name: %w", i, err)
		}
		attrs[i] = AttributeInfo{Name: name, Data: data}
	}
	return attrs, nil
}

func parseCodeAttribute(data []byte, pool *ConstantPool) (*CodeAttribute, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("Code attribute too short: %d bytes", len(data))
	}
	maxStack := binary.BigEndian.Uint16(data[0:2])
	maxLocals := binary.BigEndian.Uint16(data[2:4])
	codeLength := binary.BigEndian.Uint32(data[4:8])
	if uint64(len(data)) < 8+uint64(codeLength) {
		return nil, fmt.Errorf("Code attribute too short for code_length %d", codeLength)
	}
	code := make([]byte, codeLength)
	copy(code, data[8:8+codeLength])

	offset := 8 + int(codeLength)
	if offset+2 > len(data) {
		return nil, fmt.Errorf("Code attribute truncated before exception_table_length")
	}
	exTableLen := binary.BigEndian.Uint16(data[offset : offset+2])
	offset += 2
	handlers := make([]ExceptionHandler, exTableLen)
	for i := uint16(0); i < exTableLen; i++ {
		if offset+8 > len(data) {
			return nil, fmt.Errorf("Code attribute exception table truncated at entry %d", i)
		}
		handlers[i] = ExceptionHandler{
			StartPC:   binary.BigEndian.Uint16(data[offset : offset+2]),
			EndPC:     binary.BigEndian.Uint16(data[offset+2 : offset+4]),
			HandlerPC: binary.BigEndian.Uint16(data[offset+4 : offset+6]),
			CatchType: binary.BigEndian.Uint16(data[offset+6 : offset+8]),
		}
		offset += 8
	}

	if offset+2 > len(data) {
		return &CodeAttribute{MaxStack: maxStack, MaxLocals: maxLocals, Code: code, ExceptionTable: handlers}, nil
	}
	nested := bytes.NewReader(data[offset:])
	var attrCount uint16
	if err := binary.Read(nested, binary.BigEndian, &attrCount); err != nil {
		return nil, fmt.Errorf("reading Code attributes_count: %w", err)
	}
	nestedAttrs, err := parseAttributeInfos(nested, pool, attrCount)
	if err != nil {
		return nil, fmt.Errorf("parsing Code attributes: %w", err)
	}

	lineNumbers := extractLineNumberTable(nestedAttrs)

	return &CodeAttribute{
		MaxStack:        maxStack,
		MaxLocals:       maxLocals,
		Code:            code,
		ExceptionTable:  handlers,
		LineNumberTable: lineNumbers,
		Attributes:      nestedAttrs,
	}, nil
}

func extractLineNumberTable(attrs []AttributeInfo) []LineNumberEntry {
	for _, attr := range attrs {
		if attr.Name != "LineNumberTable" {
			continue
		}
		if len(attr.Data) < 2 {
			return nil
		}
		count := binary.BigEndian.Uint16(attr.Data[0:2])
		entries := make([]LineNumberEntry, 0, count)
		offset := 2
		for i := uint16(0); i < count && offset+4 <= len(attr.Data); i++ {
			entries = append(entries, LineNumberEntry{
				StartPC: binary.BigEndian.Uint16(attr.Data[offset : offset+2]),
				Line:    binary.BigEndian.Uint16(attr.Data[offset+2 : offset+4]),
			})
			offset += 4
		}
		return entries
	}
	return nil
}

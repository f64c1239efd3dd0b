package methodarea

import (
	"github.com/kestrelvm/kestrel/pkg/classfile"
	"github.com/kestrelvm/kestrel/pkg/heap"
)

// linkStaticFields defaults every static field this class declares
// directly to its zero value, then overrides any with an explicit
// ConstantValue attribute. Instance fields are not represented here:
// they are materialized per-object at heap.NewObject time by the
// interpreter, walking the superclass chain.
func linkStaticFields(lc *LoadedClass) {
	for i := range lc.File.Fields {
		f := &lc.File.Fields[i]
		if f.AccessFlags&classfile.AccStatic == 0 {
			continue
		}
		t, err := classfile.ParseFieldDescriptor(f.Descriptor)
		if err != nil {
			// A malformed descriptor in an already-parsed class file is a
			// bug in the reader, not a runtime condition; zero the slot
			// rather than fail linking for something verification would
			// have rejected.
			lc.StaticFields[f.Name] = heap.ZeroValueForKind(heap.KindInt)
			continue
		}
		lc.StaticFields[f.Name] = constantValueOrDefault(lc, f.Name, t, f.ConstantValue)
	}
}

func constantValueOrDefault(lc *LoadedClass, fieldName string, t classfile.JvmType, cv classfile.ConstantPoolEntry) heap.Value {
	if cv == nil {
		return DefaultValue(t)
	}
	switch c := cv.(type) {
	case *classfile.ConstantInteger:
		switch t.Kind {
		case 'Z':
			return heap.BoolValue(c.Value != 0)
		case 'B':
			return heap.ByteValue(int8(c.Value))
		case 'S':
			return heap.ShortValue(int16(c.Value))
		case 'C':
			return heap.CharValue(uint16(c.Value))
		default:
			return heap.IntValue(c.Value)
		}
	case *classfile.ConstantLong:
		return heap.LongValue(c.Value)
	case *classfile.ConstantFloat:
		return heap.FloatValue(c.Value)
	case *classfile.ConstantDouble:
		return heap.DoubleValue(c.Value)
	case *classfile.ConstantString:
		// Building the backing heap.JvmObject needs a live Heap, which the
		// method area does not hold at link time. The literal text is
		// stashed on lc.PendingStrings instead, and getStatic materializes
		// it into a real java/lang/String on first read.
		if s, err := lc.File.ConstantPool.Utf8(c.StringIndex); err == nil {
			lc.PendingStrings[fieldName] = s
		}
		return heap.NullValue()
	default:
		return DefaultValue(t)
	}
}

package interp

import (
	"github.com/kestrelvm/kestrel/pkg/classfile"
	"github.com/kestrelvm/kestrel/pkg/frame"
	"github.com/kestrelvm/kestrel/pkg/heap"
	"github.com/kestrelvm/kestrel/pkg/methodarea"
)

// newInstance implements `new`: resolves the class, ensures it is
// initialized, then allocates a zeroed instance whose field set spans the
// class's own declared instance fields and every ancestor's, flat-mapped
// by declaring class.
func (in *Interpreter) newInstance(t *Thread, f *frame.Frame, cpIndex uint16) (heap.Value, error) {
	className, err := f.Class.File.ConstantPool.ResolveClassName(cpIndex)
	if err != nil {
		return heap.Value{}, &VMFatal{Reason: err.Error()}
	}
	lc, err := in.MA.MaybeLoadClass(className)
	if err != nil {
		return heap.Value{}, &VMFatal{Reason: err.Error()}
	}
	if err := in.ensureInitialized(t, lc); err != nil {
		return heap.Value{}, err
	}

	fields := make(map[string]heap.Value)
	for cur := lc; ; {
		if err := collectInstanceFields(cur, fields); err != nil {
			return heap.Value{}, &VMFatal{Reason: err.Error()}
		}
		if cur.SuperName == "" {
			break
		}
		super, err := in.MA.MaybeLoadClass(cur.SuperName)
		if err != nil {
			return heap.Value{}, &VMFatal{Reason: err.Error()}
		}
		cur = super
	}

	id := in.Heap.NewObject(className, fields)
	return heap.ObjectValue(id), nil
}

func collectInstanceFields(lc *methodarea.LoadedClass, out map[string]heap.Value) error {
	for i := range lc.File.Fields {
		field := &lc.File.Fields[i]
		if field.AccessFlags&classfile.AccStatic != 0 {
			continue
		}
		t, err := classfile.ParseFieldDescriptor(field.Descriptor)
		if err != nil {
			return err
		}
		out[heap.FieldKey(lc.Name, field.Name)] = methodarea.DefaultValue(t)
	}
	return nil
}

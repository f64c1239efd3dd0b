package heap

import "unicode/utf16"

// stringValueField is the field key used for java/lang/String's backing
// char array, mirroring the real JDK layout closely enough for the
// interpreter and native bridge to read Java string content back out
// without the heap package knowing anything about class layout beyond
// this one convention.
const stringValueField = "java/lang/String/value"

// NewJavaString allocates a java/lang/String object backed by a char[]
// holding s's UTF-16 code units. It backs ldc of a CONSTANT_String and
// static-final String fields deferred from link time to first use.
func (h *Heap) NewJavaString(s string) Value {
	units := utf16.Encode([]rune(s))
	arrID, _ := h.NewArray(KindChar, false, "", int32(len(units)))
	arr := h.GetArray(arrID)
	for i, u := range units {
		arr.Elements[i] = CharValue(u)
	}
	objID := h.NewObject("java/lang/String", map[string]Value{
		stringValueField: ArrayValue(arrID),
	})
	return ObjectValue(objID)
}

// JavaString reads back the Go string backing a java/lang/String
// reference produced by NewJavaString. ok is false for any other
// reference (including null, or a String built by means outside this
// package's convention).
func (h *Heap) JavaString(v Value) (string, bool) {
	if !v.IsRef || v.Ref.Null || !v.Ref.isObject {
		return "", false
	}
	obj := h.GetObject(v.Ref.Object)
	if obj.ClassName != "java/lang/String" {
		return "", false
	}
	arrRef, ok := obj.Fields[stringValueField]
	if !ok || !arrRef.Ref.isArray {
		return "", false
	}
	arr := h.GetArray(arrRef.Ref.Array)
	units := make([]uint16, len(arr.Elements))
	for i, e := range arr.Elements {
		units[i] = uint16(e.Bits)
	}
	return string(utf16.Decode(units)), true
}

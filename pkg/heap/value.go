// Package heap owns every JvmObject and JvmArray allocated during a run,
// plus the JvmValue representation operand stacks and fields hold. Values
// held outside the heap are weak handles, object/array ids that
// dereference through it; primitives are value-copied.
package heap

import "math"

// Kind identifies the semantic width and interpretation of a primitive
// Value's 64-bit payload.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindReturnAddress
)

// IsCategory2 reports whether this kind occupies two operand-stack/local
// slots: long and double.
func (k Kind) IsCategory2() bool { return k == KindLong || k == KindDouble }

// ObjectID and ArrayID are opaque, stable identifiers for heap-resident
// objects and arrays. Two references compare equal iff their ids are
// equal.
type ObjectID uint64
type ArrayID uint64

// RefTarget is the payload of a Reference value: Null, an object, or an
// array. Exactly one of (object valid / array valid) holds when not null.
type RefTarget struct {
	Null   bool
	Object ObjectID
	Array  ArrayID
	// isArray and isObject say which of Object/Array is valid, so the
	// zero-value RefTarget is neither an object nor an array reference
	// rather than "object 0". It is not null either: IsNull reports only
	// the Null field.
	isArray  bool
	isObject bool
}

func (t RefTarget) IsObject() bool { return t.isObject }
func (t RefTarget) IsArray() bool  { return t.isArray }

// Value is a JvmValue: either a Primitive or a Reference.
type Value struct {
	IsRef bool
	Kind  Kind
	Bits  uint64
	Ref   RefTarget
}

// Int returns the primitive's 32-bit signed interpretation.
func (v Value) Int() int32 { return int32(uint32(v.Bits)) }

// Long returns the primitive's 64-bit signed interpretation.
func (v Value) Long() int64 { return int64(v.Bits) }

// Float returns the primitive's 32-bit float interpretation.
func (v Value) Float() float32 { return math.Float32frombits(uint32(v.Bits)) }

// Double returns the primitive's 64-bit float interpretation.
func (v Value) Double() float64 { return math.Float64frombits(v.Bits) }

// IsCategory2 reports whether this value occupies two stack/local slots.
func (v Value) IsCategory2() bool { return !v.IsRef && v.Kind.IsCategory2() }

// IsNull reports whether this is the null reference.
func (v Value) IsNull() bool { return v.IsRef && v.Ref.Null }

func IntValue(i int32) Value  { return Value{Kind: KindInt, Bits: uint64(uint32(i))} }
func LongValue(i int64) Value { return Value{Kind: KindLong, Bits: uint64(i)} }
func FloatValue(f float32) Value {
	return Value{Kind: KindFloat, Bits: uint64(math.Float32bits(f))}
}
func DoubleValue(d float64) Value {
	return Value{Kind: KindDouble, Bits: math.Float64bits(d)}
}
func ByteValue(b int8) Value   { return Value{Kind: KindByte, Bits: uint64(uint32(int32(b)))} }
func ShortValue(s int16) Value { return Value{Kind: KindShort, Bits: uint64(uint32(int32(s)))} }
func CharValue(c uint16) Value { return Value{Kind: KindChar, Bits: uint64(c)} }

// ReturnAddressValue wraps a bytecode offset as the returnAddress operand
// jsr pushes and ret consumes. It is never a valid field or array value.
func ReturnAddressValue(pc int) Value {
	return Value{Kind: KindReturnAddress, Bits: uint64(pc)}
}
func BoolValue(b bool) Value {
	if b {
		return Value{Kind: KindBoolean, Bits: 1}
	}
	return Value{Kind: KindBoolean, Bits: 0}
}

// NullValue is the default value of every reference-typed slot.
func NullValue() Value { return Value{IsRef: true, Ref: RefTarget{Null: true}} }

// ObjectValue wraps an object id as a reference value.
func ObjectValue(id ObjectID) Value {
	return Value{IsRef: true, Ref: RefTarget{Object: id, isObject: true}}
}

// ArrayValue wraps an array id as a reference value.
func ArrayValue(id ArrayID) Value {
	return Value{IsRef: true, Ref: RefTarget{Array: id, isArray: true}}
}

// ZeroValueForKind returns the default value for a primitive kind (all
// zeros).
func ZeroValueForKind(k Kind) Value {
	return Value{Kind: k}
}

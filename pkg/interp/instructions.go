package interp

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/kestrelvm/kestrel/pkg/classfile"
	"github.com/kestrelvm/kestrel/pkg/frame"
	"github.com/kestrelvm/kestrel/pkg/heap"
)

func u16At(code []byte, pc int) uint16 { return binary.BigEndian.Uint16(code[pc : pc+2]) }
func s16At(code []byte, pc int) int16  { return int16(u16At(code, pc)) }
func u32At(code []byte, pc int) uint32 { return binary.BigEndian.Uint32(code[pc : pc+4]) }
func s32At(code []byte, pc int) int32  { return int32(u32At(code, pc)) }

// step decodes and executes one instruction starting at f.PC. On a normal
// (non-returning) instruction it advances f.PC and reports done=false. On
// a return instruction it reports done=true with the method's result, if
// any. A Java-level condition is reported as *JavaException; anything
// else returned is VM-fatal.
func (in *Interpreter) step(t *Thread, f *frame.Frame) (heap.Value, bool, bool, error) {
	code := f.Code()
	pc0 := f.PC
	op := code[pc0]
	pc := pc0 + 1

	switch op {
	case opNop:
	case opAconstNull:
		f.Push(heap.NullValue())
	case opIconstM1, opIconst0, opIconst1, opIconst2, opIconst3, opIconst4, opIconst5:
		f.Push(heap.IntValue(int32(op) - int32(opIconst0)))
	case opLconst0, opLconst1:
		f.Push(heap.LongValue(int64(op) - int64(opLconst0)))
	case opFconst0, opFconst1, opFconst2:
		f.Push(heap.FloatValue(float32(op) - float32(opFconst0)))
	case opDconst0, opDconst1:
		f.Push(heap.DoubleValue(float64(op) - float64(opDconst0)))
	case opBipush:
		f.Push(heap.IntValue(int32(int8(code[pc]))))
		pc++
	case opSipush:
		f.Push(heap.IntValue(int32(s16At(code, pc))))
		pc += 2
	case opLdc:
		v, err := in.loadConstant(f, uint16(code[pc]))
		if err != nil {
			return heap.Value{}, false, false, err
		}
		f.Push(v)
		pc++
	case opLdcW, opLdc2W:
		v, err := in.loadConstant(f, u16At(code, pc))
		if err != nil {
			return heap.Value{}, false, false, err
		}
		f.Push(v)
		pc += 2

	case opIload, opLload, opFload, opDload, opAload:
		f.Push(f.GetLocal(int(code[pc])))
		pc++
	case opIload0, opIload0 + 1, opIload0 + 2, opIload3:
		f.Push(f.GetLocal(int(op - opIload0)))
	case opLload0, opLload0 + 1, opLload0 + 2, opLload3:
		f.Push(f.GetLocal(int(op - opLload0)))
	case opFload0, opFload0 + 1, opFload0 + 2, opFload3:
		f.Push(f.GetLocal(int(op - opFload0)))
	case opDload0, opDload0 + 1, opDload0 + 2, opDload3:
		f.Push(f.GetLocal(int(op - opDload0)))
	case opAload0, opAload0 + 1, opAload0 + 2, opAload3:
		f.Push(f.GetLocal(int(op - opAload0)))

	case opIstore, opLstore, opFstore, opDstore, opAstore:
		f.SetLocal(int(code[pc]), f.Pop())
		pc++
	case opIstore0, opIstore0 + 1, opIstore0 + 2, opIstore3:
		f.SetLocal(int(op-opIstore0), f.Pop())
	case opLstore0, opLstore0 + 1, opLstore0 + 2, opLstore3:
		f.SetLocal(int(op-opLstore0), f.Pop())
	case opFstore0, opFstore0 + 1, opFstore0 + 2, opFstore3:
		f.SetLocal(int(op-opFstore0), f.Pop())
	case opDstore0, opDstore0 + 1, opDstore0 + 2, opDstore3:
		f.SetLocal(int(op-opDstore0), f.Pop())
	case opAstore0, opAstore0 + 1, opAstore0 + 2, opAstore3:
		f.SetLocal(int(op-opAstore0), f.Pop())

	case opIaload, opLaload, opFaload, opDaload, opAaload, opBaload, opCaload, opSaload:
		idx := f.Pop().Int()
		ref := f.Pop()
		v, err := in.arrayLoad(ref, idx)
		if err != nil {
			return heap.Value{}, false, false, err
		}
		f.Push(v)
	case opIastore, opLastore, opFastore, opDastore, opAastore, opBastore, opCastore, opSastore:
		v := f.Pop()
		idx := f.Pop().Int()
		ref := f.Pop()
		if err := in.arrayStore(ref, idx, v); err != nil {
			return heap.Value{}, false, false, err
		}

	case opPop:
		f.Pop()
	case opPop2:
		f.Pop2()
	case opDup:
		f.Dup()
	case opDupX1:
		f.DupX1()
	case opDupX2:
		f.DupX2()
	case opDup2:
		f.Dup2()
	case opDup2X1:
		f.Dup2X1()
	case opDup2X2:
		f.Dup2X2()
	case opSwap:
		f.Swap()

	case opIadd:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(heap.IntValue(a + b))
	case opLadd:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(heap.LongValue(a + b))
	case opFadd:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(heap.FloatValue(a + b))
	case opDadd:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(heap.DoubleValue(a + b))
	case opIsub:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(heap.IntValue(a - b))
	case opLsub:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(heap.LongValue(a - b))
	case opFsub:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(heap.FloatValue(a - b))
	case opDsub:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(heap.DoubleValue(a - b))
	case opImul:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(heap.IntValue(a * b))
	case opLmul:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(heap.LongValue(a * b))
	case opFmul:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(heap.FloatValue(a * b))
	case opDmul:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(heap.DoubleValue(a * b))
	case opIdiv:
		b, a := f.Pop().Int(), f.Pop().Int()
		if b == 0 {
			return heap.Value{}, false, false, in.throwVMWithMessage("java/lang/ArithmeticException", "/ by zero")
		}
		f.Push(heap.IntValue(a / b))
	case opLdiv:
		b, a := f.Pop().Long(), f.Pop().Long()
		if b == 0 {
			return heap.Value{}, false, false, in.throwVMWithMessage("java/lang/ArithmeticException", "/ by zero")
		}
		f.Push(heap.LongValue(a / b))
	case opFdiv:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(heap.FloatValue(a / b))
	case opDdiv:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(heap.DoubleValue(a / b))
	case opIrem:
		b, a := f.Pop().Int(), f.Pop().Int()
		if b == 0 {
			return heap.Value{}, false, false, in.throwVMWithMessage("java/lang/ArithmeticException", "/ by zero")
		}
		f.Push(heap.IntValue(a % b))
	case opLrem:
		b, a := f.Pop().Long(), f.Pop().Long()
		if b == 0 {
			return heap.Value{}, false, false, in.throwVMWithMessage("java/lang/ArithmeticException", "/ by zero")
		}
		f.Push(heap.LongValue(a % b))
	case opFrem:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(heap.FloatValue(float32(math.Mod(float64(a), float64(b)))))
	case opDrem:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(heap.DoubleValue(math.Mod(a, b)))
	case opIneg:
		f.Push(heap.IntValue(-f.Pop().Int()))
	case opLneg:
		f.Push(heap.LongValue(-f.Pop().Long()))
	case opFneg:
		f.Push(heap.FloatValue(-f.Pop().Float()))
	case opDneg:
		f.Push(heap.DoubleValue(-f.Pop().Double()))
	case opIshl:
		s, v := f.Pop().Int(), f.Pop().Int()
		f.Push(heap.IntValue(v << (uint32(s) & 0x1f)))
	case opLshl:
		s, v := f.Pop().Int(), f.Pop().Long()
		f.Push(heap.LongValue(v << (uint32(s) & 0x3f)))
	case opIshr:
		s, v := f.Pop().Int(), f.Pop().Int()
		f.Push(heap.IntValue(v >> (uint32(s) & 0x1f)))
	case opLshr:
		s, v := f.Pop().Int(), f.Pop().Long()
		f.Push(heap.LongValue(v >> (uint32(s) & 0x3f)))
	case opIushr:
		s, v := f.Pop().Int(), f.Pop().Int()
		f.Push(heap.IntValue(int32(uint32(v) >> (uint32(s) & 0x1f))))
	case opLushr:
		s, v := f.Pop().Int(), f.Pop().Long()
		f.Push(heap.LongValue(int64(uint64(v) >> (uint32(s) & 0x3f))))
	case opIand:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(heap.IntValue(a & b))
	case opLand:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(heap.LongValue(a & b))
	case opIor:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(heap.IntValue(a | b))
	case opLor:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(heap.LongValue(a | b))
	case opIxor:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(heap.IntValue(a ^ b))
	case opLxor:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(heap.LongValue(a ^ b))
	case opIinc:
		idx := int(code[pc])
		delta := int32(int8(code[pc+1]))
		f.SetLocal(idx, heap.IntValue(f.GetLocal(idx).Int()+delta))
		pc += 2

	case opWide:
		wop := code[pc]
		idx := int(u16At(code, pc+1))
		pc += 3
		switch wop {
		case opIload, opLload, opFload, opDload, opAload:
			f.Push(f.GetLocal(idx))
		case opIstore, opLstore, opFstore, opDstore, opAstore:
			f.SetLocal(idx, f.Pop())
		case opIinc:
			delta := int32(s16At(code, pc))
			pc += 2
			f.SetLocal(idx, heap.IntValue(f.GetLocal(idx).Int()+delta))
		case opRet:
			pc = int(f.GetLocal(idx).Bits)
			goto advanced
		default:
			return heap.Value{}, false, false, &VMFatal{Reason: fmt.Sprintf("wide prefix on opcode 0x%02x", wop)}
		}

	case opI2l:
		f.Push(heap.LongValue(int64(f.Pop().Int())))
	case opI2f:
		f.Push(heap.FloatValue(float32(f.Pop().Int())))
	case opI2d:
		f.Push(heap.DoubleValue(float64(f.Pop().Int())))
	case opL2i:
		f.Push(heap.IntValue(int32(f.Pop().Long())))
	case opL2f:
		f.Push(heap.FloatValue(float32(f.Pop().Long())))
	case opL2d:
		f.Push(heap.DoubleValue(float64(f.Pop().Long())))
	case opF2i:
		f.Push(heap.IntValue(floatToInt32(f.Pop().Float())))
	case opF2l:
		f.Push(heap.LongValue(floatToInt64(f.Pop().Float())))
	case opF2d:
		f.Push(heap.DoubleValue(float64(f.Pop().Float())))
	case opD2i:
		f.Push(heap.IntValue(doubleToInt32(f.Pop().Double())))
	case opD2l:
		f.Push(heap.LongValue(doubleToInt64(f.Pop().Double())))
	case opD2f:
		f.Push(heap.FloatValue(float32(f.Pop().Double())))
	case opI2b:
		f.Push(heap.IntValue(int32(int8(f.Pop().Int()))))
	case opI2c:
		f.Push(heap.IntValue(int32(uint16(f.Pop().Int()))))
	case opI2s:
		f.Push(heap.IntValue(int32(int16(f.Pop().Int()))))

	case opLcmp:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(heap.IntValue(cmp64(a, b)))
	case opFcmpl:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(heap.IntValue(fcmp(float64(a), float64(b), -1)))
	case opFcmpg:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(heap.IntValue(fcmp(float64(a), float64(b), 1)))
	case opDcmpl:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(heap.IntValue(fcmp(a, b, -1)))
	case opDcmpg:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(heap.IntValue(fcmp(a, b, 1)))

	case opIfeq, opIfne, opIflt, opIfge, opIfgt, opIfle:
		v := f.Pop().Int()
		if compareToZero(op, opIfeq, v) {
			pc = pc0 + int(s16At(code, pc))
			goto advanced
		}
		pc += 2
	case opIfIcmpeq, opIfIcmpne, opIfIcmplt, opIfIcmpge, opIfIcmpgt, opIfIcmple:
		b, a := f.Pop().Int(), f.Pop().Int()
		if compareInts(op, opIfIcmpeq, a, b) {
			pc = pc0 + int(s16At(code, pc))
			goto advanced
		}
		pc += 2
	case opIfAcmpeq, opIfAcmpne:
		b, a := f.Pop(), f.Pop()
		eq := refEqual(a, b)
		if (op == opIfAcmpeq) == eq {
			pc = pc0 + int(s16At(code, pc))
			goto advanced
		}
		pc += 2
	case opIfnull, opIfnonnull:
		v := f.Pop()
		if v.IsNull() == (op == opIfnull) {
			pc = pc0 + int(s16At(code, pc))
			goto advanced
		}
		pc += 2
	case opGoto:
		pc = pc0 + int(s16At(code, pc))
		goto advanced
	case opGotoW:
		pc = pc0 + int(s32At(code, pc))
		goto advanced
	case opJsr:
		f.Push(heap.ReturnAddressValue(pc0 + 3))
		pc = pc0 + int(s16At(code, pc))
		goto advanced
	case opJsrW:
		f.Push(heap.ReturnAddressValue(pc0 + 5))
		pc = pc0 + int(s32At(code, pc))
		goto advanced
	case opRet:
		pc = int(f.GetLocal(int(code[pc])).Bits)
		goto advanced

	case opTableswitch:
		aligned := pc0 + 1 + (3-pc0%4)%4 // padding up to the next 4-byte boundary past the opcode
		def := s32At(code, aligned)
		low := s32At(code, aligned+4)
		high := s32At(code, aligned+8)
		v := f.Pop().Int()
		offset := def
		if v >= low && v <= high {
			offset = s32At(code, aligned+12+4*int(v-low))
		}
		pc = pc0 + int(offset)
		goto advanced
	case opLookupswitch:
		aligned := pc0 + 1 + (3-pc0%4)%4
		def := s32At(code, aligned)
		npairs := int(s32At(code, aligned+4))
		v := f.Pop().Int()
		offset := def
		base := aligned + 8
		for i := 0; i < npairs; i++ {
			match := s32At(code, base+8*i)
			if match == v {
				offset = s32At(code, base+8*i+4)
				break
			}
			if match > v {
				break // entries are sorted ascending by match; no further entry can match
			}
		}
		pc = pc0 + int(offset)
		goto advanced

	case opIreturn, opFreturn:
		return f.Pop(), true, true, nil
	case opLreturn, opDreturn:
		return f.Pop(), true, true, nil
	case opAreturn:
		return f.Pop(), true, true, nil
	case opReturn:
		return heap.Value{}, true, false, nil

	case opGetstatic:
		v, err := in.getStatic(t, f, u16At(code, pc))
		if err != nil {
			return heap.Value{}, false, false, err
		}
		f.Push(v)
		pc += 2
	case opPutstatic:
		if err := in.putStatic(t, f, u16At(code, pc), f.Pop()); err != nil {
			return heap.Value{}, false, false, err
		}
		pc += 2
	case opGetfield:
		ref := f.Pop()
		v, err := in.getField(f, u16At(code, pc), ref)
		if err != nil {
			return heap.Value{}, false, false, err
		}
		f.Push(v)
		pc += 2
	case opPutfield:
		val := f.Pop()
		ref := f.Pop()
		if err := in.putField(f, u16At(code, pc), ref, val); err != nil {
			return heap.Value{}, false, false, err
		}
		pc += 2

	case opInvokestatic, opInvokespecial, opInvokevirtual, opInvokeinterface:
		idx := u16At(code, pc)
		consumed := 2
		if op == opInvokeinterface {
			consumed = 4 // +1 count, +1 reserved zero byte
		}
		result, hasValue, err := in.dispatchInvoke(t, f, op, idx)
		if err != nil {
			return heap.Value{}, false, false, err
		}
		if hasValue {
			f.Push(result)
		}
		pc += consumed

	case opNew:
		v, err := in.newInstance(t, f, u16At(code, pc))
		if err != nil {
			return heap.Value{}, false, false, err
		}
		f.Push(v)
		pc += 2
	case opNewarray:
		length := f.Pop().Int()
		v, err := in.newPrimitiveArray(code[pc], length)
		if err != nil {
			return heap.Value{}, false, false, err
		}
		f.Push(v)
		pc++
	case opAnewarray:
		length := f.Pop().Int()
		className, err := f.Class.File.ConstantPool.ResolveClassName(u16At(code, pc))
		if err != nil {
			return heap.Value{}, false, false, &VMFatal{Reason: err.Error()}
		}
		arrID, aerr := in.Heap.NewArray(heap.KindInt, true, className, length)
		if aerr != nil {
			return heap.Value{}, false, false, in.throwVM("java/lang/NegativeArraySizeException")
		}
		f.Push(heap.ArrayValue(arrID))
		pc += 2
	case opMultianewarray:
		className, err := f.Class.File.ConstantPool.ResolveClassName(u16At(code, pc))
		if err != nil {
			return heap.Value{}, false, false, &VMFatal{Reason: err.Error()}
		}
		dims := int(code[pc+2])
		if dims < 1 {
			return heap.Value{}, false, false, &VMFatal{Reason: "multianewarray with zero dimensions"}
		}
		counts := make([]int32, dims)
		for i := dims - 1; i >= 0; i-- {
			counts[i] = f.Pop().Int()
		}
		v, merr := in.newMultiArray(className, counts)
		if merr != nil {
			return heap.Value{}, false, false, merr
		}
		f.Push(v)
		pc += 3
	case opArraylength:
		ref := f.Pop()
		if ref.IsNull() {
			return heap.Value{}, false, false, in.throwVM("java/lang/NullPointerException")
		}
		f.Push(heap.IntValue(in.Heap.GetArray(ref.Ref.Array).Length()))

	case opAthrow:
		ref := f.Pop()
		if ref.IsNull() {
			return heap.Value{}, false, false, in.throwVM("java/lang/NullPointerException")
		}
		obj := in.Heap.GetObject(ref.Ref.Object)
		return heap.Value{}, false, false, &JavaException{ClassName: obj.ClassName, Object: ref.Ref.Object, Message: in.exceptionMessage(obj)}

	case opCheckcast:
		ref := f.Peek()
		if !ref.IsNull() {
			className, err := f.Class.File.ConstantPool.ResolveClassName(u16At(code, pc))
			if err != nil {
				return heap.Value{}, false, false, &VMFatal{Reason: err.Error()}
			}
			ok, actual := in.refAssignableTo(ref, className)
			if !ok {
				return heap.Value{}, false, false, in.throwVMWithMessage("java/lang/ClassCastException",
					fmt.Sprintf("class %s cannot be cast to class %s", actual, className))
			}
		}
		pc += 2
	case opInstanceof:
		ref := f.Pop()
		if ref.IsNull() {
			f.Push(heap.BoolValue(false))
		} else {
			className, err := f.Class.File.ConstantPool.ResolveClassName(u16At(code, pc))
			if err != nil {
				return heap.Value{}, false, false, &VMFatal{Reason: err.Error()}
			}
			ok, _ := in.refAssignableTo(ref, className)
			f.Push(heap.BoolValue(ok))
		}
		pc += 2

	case opMonitorenter, opMonitorexit:
		f.Pop() // no-op: only one Java thread ever runs, so monitors are vacuous

	default:
		return heap.Value{}, false, false, &VMFatal{Reason: (&BadOpcode{Op: op}).Error()}
	}

	f.PC = pc
	return heap.Value{}, false, false, nil

advanced:
	f.PC = pc
	return heap.Value{}, false, false, nil
}

func compareToZero(op, base byte, v int32) bool {
	switch op - base {
	case 0:
		return v == 0
	case 1:
		return v != 0
	case 2:
		return v < 0
	case 3:
		return v >= 0
	case 4:
		return v > 0
	case 5:
		return v <= 0
	}
	return false
}

func compareInts(op, base byte, a, b int32) bool {
	switch op - base {
	case 0:
		return a == b
	case 1:
		return a != b
	case 2:
		return a < b
	case 3:
		return a >= b
	case 4:
		return a > b
	case 5:
		return a <= b
	}
	return false
}

func refEqual(a, b heap.Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() == b.IsNull()
	}
	if a.Ref.IsObject() && b.Ref.IsObject() {
		return a.Ref.Object == b.Ref.Object
	}
	if a.Ref.IsArray() && b.Ref.IsArray() {
		return a.Ref.Array == b.Ref.Array
	}
	return false
}

func cmp64(a, b int64) int32 {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// fcmp implements fcmpl/fcmpg and dcmpl/dcmpg: nanResult is the value
// pushed when either operand is NaN (-1 for the 'l' variants, 1 for 'g').
func fcmp(a, b float64, nanResult int32) int32 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return nanResult
	}
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// floatToInt32/doubleToInt32/etc. implement f2i/d2i/f2l/d2l's truncating,
// NaN-to-zero, saturating-to-MIN/MAX conversion.
func floatToInt32(f float32) int32 { return doubleToInt32(float64(f)) }
func floatToInt64(f float32) int64 { return doubleToInt64(float64(f)) }

func doubleToInt32(d float64) int32 {
	if math.IsNaN(d) {
		return 0
	}
	if d >= math.MaxInt32 {
		return math.MaxInt32
	}
	if d <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(d)
}

func doubleToInt64(d float64) int64 {
	if math.IsNaN(d) {
		return 0
	}
	if d >= math.MaxInt64 {
		return math.MaxInt64
	}
	if d <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(d)
}

// refAssignableTo reports whether the non-null reference ref can be
// treated as an instance of className, also returning the reference's own
// runtime class name for diagnostics. Array references are assignable only
// to java/lang/Object here: checkcast between array types would need the
// reference to carry its full array descriptor, which nothing this
// interpreter executes can observe.
func (in *Interpreter) refAssignableTo(ref heap.Value, className string) (bool, string) {
	if ref.Ref.IsArray() {
		arr := in.Heap.GetArray(ref.Ref.Array)
		name := "[" + arrayComponentDescriptor(arr)
		return className == "java/lang/Object", name
	}
	actual := in.Heap.GetObject(ref.Ref.Object).ClassName
	return in.isAssignable(actual, className), actual
}

func arrayComponentDescriptor(arr *heap.JvmArray) string {
	if arr.ComponentIsRef {
		if len(arr.ComponentClassName) > 0 && arr.ComponentClassName[0] == '[' {
			return arr.ComponentClassName
		}
		return "L" + arr.ComponentClassName + ";"
	}
	switch arr.ComponentKind {
	case heap.KindBoolean:
		return "Z"
	case heap.KindByte:
		return "B"
	case heap.KindChar:
		return "C"
	case heap.KindShort:
		return "S"
	case heap.KindLong:
		return "J"
	case heap.KindFloat:
		return "F"
	case heap.KindDouble:
		return "D"
	default:
		return "I"
	}
}

func (in *Interpreter) throwVM(className string) error {
	return in.throwVMWithMessage(className, "")
}

// throwVMWithMessage is throwVM plus a getMessage()-equivalent for the
// synthesized object, surfaced through JavaException.Message and stored on
// the object itself under the same "message" field convention
// exceptionMessage reads back for user-thrown exceptions.
func (in *Interpreter) throwVMWithMessage(className, message string) error {
	fields := map[string]heap.Value{}
	if message != "" {
		fields[heap.FieldKey(className, "message")] = in.Heap.NewJavaString(message)
	}
	id := in.Heap.NewObject(className, fields)
	return &JavaException{ClassName: className, Object: id, Message: message}
}

// exceptionMessage reads back a thrown object's message, by the same
// "message" field convention throwVMWithMessage writes: a field declared
// directly on the object's own class holding a java/lang/String. This
// core does not model java/lang/Throwable, so there is no inherited
// message slot to walk up to — user exception classes that want athrow to
// carry a message declare their own "message" field.
func (in *Interpreter) exceptionMessage(obj *heap.JvmObject) string {
	v, ok := obj.Get(obj.ClassName, "message")
	if !ok {
		return ""
	}
	s, ok := in.Heap.JavaString(v)
	if !ok {
		return ""
	}
	return s
}

func (in *Interpreter) loadConstant(f *frame.Frame, idx uint16) (heap.Value, error) {
	entry, err := f.Class.File.ConstantPool.Get(idx)
	if err != nil {
		return heap.Value{}, &VMFatal{Reason: err.Error()}
	}
	switch c := entry.(type) {
	case *classfile.ConstantInteger:
		return heap.IntValue(c.Value), nil
	case *classfile.ConstantFloat:
		return heap.FloatValue(c.Value), nil
	case *classfile.ConstantLong:
		return heap.LongValue(c.Value), nil
	case *classfile.ConstantDouble:
		return heap.DoubleValue(c.Value), nil
	case *classfile.ConstantString:
		s, err := f.Class.File.ConstantPool.Utf8(c.StringIndex)
		if err != nil {
			return heap.Value{}, &VMFatal{Reason: err.Error()}
		}
		return in.Heap.NewJavaString(s), nil
	case *classfile.ConstantClass:
		// Class literals (Foo.class) are not modeled as heap objects; ldc
		// of a Class entry is accepted but yields null rather than a
		// java/lang/Class instance, which this core does not implement.
		return heap.NullValue(), nil
	default:
		return heap.Value{}, &VMFatal{Reason: "ldc of unsupported constant pool tag"}
	}
}

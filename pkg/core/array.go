package core

import "math"

// getAtIndexOrUndefined, setAtIndex, and deleteAtIndex realize the
// indexed-access capability protocol spec section 4.9 calls for
// (hasIndex/getAtIndex/setAtIndex/deleteAtIndex/getIndexedLength),
// dispatched on Kind instead of through an interface, consistent with
// object.go's single-struct design.

func (o *Object) getAtIndexOrUndefined(act *Activation, rt *Runtime, idx uint32) TaggedValue {
	switch o.Kind {
	case KindArray, KindArguments:
		if int(idx) < len(o.Elems) {
			v := o.Elems[idx]
			if IsHole(v) {
				return Undefined
			}
			return v
		}
		return Undefined
	case KindTypedArray:
		return o.typedArrayGet(idx)
	case KindStringBox:
		if o.Boxed.Tag != TagString || int(idx) >= o.Boxed.Str.UnitLength() {
			return Undefined
		}
		return MakeString(o.Boxed.Str.CharAt(act, rt, int(idx)))
	}
	return Undefined
}

// getIndexedLength reports the element count for indexed kinds.
func (o *Object) getIndexedLength() uint32 {
	switch o.Kind {
	case KindArray, KindArguments:
		return uint32(len(o.Elems))
	case KindTypedArray:
		return uint32(len(o.Buffer) / o.ElemKind.byteSize())
	case KindStringBox:
		if o.Boxed.Tag == TagString {
			return uint32(o.Boxed.Str.UnitLength())
		}
	}
	return 0
}

func (o *Object) setAtIndex(rt *Runtime, act *Activation, idx uint32, v TaggedValue) {
	switch o.Kind {
	case KindArray, KindArguments:
		if int(idx) >= len(o.Elems) {
			grown := make([]TaggedValue, idx+1)
			copy(grown, o.Elems)
			for i := len(o.Elems); i < len(grown); i++ {
				grown[i] = Undefined
			}
			o.Elems = grown
		}
		o.Elems[idx] = v
	case KindTypedArray:
		o.typedArraySet(act, rt, idx, v)
	case KindStringBox:
		// String boxes are immutable; indexed writes are silently
		// ignored, matching String::setAtIndex in the original.
	}
}

func (o *Object) deleteAtIndex(idx uint32) bool {
	switch o.Kind {
	case KindArray, KindArguments:
		if int(idx) < len(o.Elems) {
			o.Elems[idx] = holeValue()
		}
		return true
	case KindTypedArray:
		// Typed array elements cannot be deleted, only overwritten.
		return false
	}
	return true
}

func (o *Object) typedArrayGet(idx uint32) TaggedValue {
	sz := o.ElemKind.byteSize()
	off := int(idx) * sz
	if off+sz > len(o.Buffer) {
		return Undefined
	}
	return MakeNumber(decodeTypedElem(o.ElemKind, o.Buffer[off:off+sz]))
}

func (o *Object) typedArraySet(act *Activation, rt *Runtime, idx uint32, v TaggedValue) {
	sz := o.ElemKind.byteSize()
	off := int(idx) * sz
	if off+sz > len(o.Buffer) {
		return
	}
	n := ToNumber(act, rt, v)
	encodeTypedElem(o.ElemKind, o.Buffer[off:off+sz], n)
}

func decodeTypedElem(kind TypedArrayKind, b []byte) float64 {
	switch kind {
	case TAInt8:
		return float64(int8(b[0]))
	case TAUint8:
		return float64(b[0])
	case TAInt16:
		return float64(int16(uint16(b[0]) | uint16(b[1])<<8))
	case TAUint16:
		return float64(uint16(b[0]) | uint16(b[1])<<8)
	case TAInt32:
		return float64(int32(u32le(b)))
	case TAUint32:
		return float64(u32le(b))
	case TAFloat32:
		return float64(math.Float32frombits(u32le(b)))
	default:
		bits := uint64(u32le(b)) | uint64(u32le(b[4:]))<<32
		return math.Float64frombits(bits)
	}
}

func encodeTypedElem(kind TypedArrayKind, b []byte, n float64) {
	switch kind {
	case TAInt8, TAUint8:
		b[0] = byte(int64(n))
	case TAInt16, TAUint16:
		v := uint16(int64(n))
		b[0], b[1] = byte(v), byte(v>>8)
	case TAInt32, TAUint32:
		putU32le(b, uint32(int64(n)))
	case TAFloat32:
		putU32le(b, math.Float32bits(float32(n)))
	default:
		bits := math.Float64bits(n)
		putU32le(b, uint32(bits))
		putU32le(b[4:], uint32(bits>>32))
	}
}

func u32le(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putU32le(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

// NewArray allocates an Array with an own accessor "length" property
// matching Array::lengthGetter/lengthSetter: reading it returns the
// element count, writing it truncates or extends (with undefined
// holes) the backing slice, per spec section 4.6.
func NewArray(rt *Runtime, act *Activation, elems []TaggedValue) *Object {
	a := rt.newObject(act, rt.ArrayPrototype, KindArray)
	a.Elems = append([]TaggedValue(nil), elems...)
	a.installLengthAccessor(rt, act)
	return a
}

func (o *Object) installLengthAccessor(rt *Runtime, act *Activation) {
	getter := NewNativeFunction(rt, act, "", 0, func(act *Activation, args []TaggedValue) TaggedValue {
		this := args[0].Obj
		return MakeNumber(float64(len(this.Elems)))
	})
	setter := NewNativeFunction(rt, act, "", 1, func(act *Activation, args []TaggedValue) TaggedValue {
		this := args[0].Obj
		var nv TaggedValue
		if len(args) > 1 {
			nv = args[1]
		}
		n := ToUint32(act, rt, nv)
		if int(n) < len(this.Elems) {
			this.Elems = this.Elems[:n]
		} else if int(n) > len(this.Elems) {
			grown := make([]TaggedValue, n)
			copy(grown, this.Elems)
			for i := len(this.Elems); i < len(grown); i++ {
				grown[i] = Undefined
			}
			this.Elems = grown
		}
		return Undefined
	})
	o.DefineAccessorProperty(rt, act, rt.permStrLength, 0, getter, setter)
}

// NewArguments allocates an Arguments object for a call with the given
// argument vector, sharing the Array indexed protocol but without the
// Array prototype (spec section 4.6's Arguments/Array split).
func NewArguments(rt *Runtime, act *Activation, args []TaggedValue) *Object {
	a := rt.newObject(act, rt.ObjectPrototype, KindArguments)
	a.Elems = append([]TaggedValue(nil), args...)
	a.installLengthAccessor(rt, act)
	return a
}

// NewTypedArray allocates a fixed-length TypedArray of the given
// element kind and backs it with a freshly zeroed byte buffer.
func NewTypedArray(rt *Runtime, act *Activation, kind TypedArrayKind, length int) *Object {
	a := rt.newObject(act, rt.ArrayPrototype, KindTypedArray)
	a.ElemKind = kind
	a.Buffer = make([]byte, length*kind.byteSize())
	return a
}

// NewStringBox allocates a String object (the boxed form `new
// String(...)` produces, as distinct from the StringPrim primitive).
func NewStringBox(rt *Runtime, act *Activation, s *StringPrim) *Object {
	box := rt.newObject(act, rt.StringPrototype, KindStringBox)
	box.IsBoxKind = true
	box.Boxed = MakeString(s)
	box.DefineOwnProperty(rt, act, rt.permStrLength, 0, MakeNumber(float64(s.UnitLength())))
	return box
}

package core

import "math"

// concatString allocates a new StringPrim holding a's bytes followed
// by b's bytes, the building block OpADD's string branch uses.
func concatString(act *Activation, rt *Runtime, a, b *StringPrim) *StringPrim {
	out := make([]byte, 0, a.ByteLength()+b.ByteLength())
	out = append(out, a.Bytes()...)
	out = append(out, b.Bytes()...)
	return rt.NewStringPrim(act, out)
}

// OpADD implements the `+` operator: coerce both operands to
// primitives, concatenate if either side is a string, otherwise add as
// numbers — mirroring operator_ADD in the original's operators.cpp.
func OpADD(act *Activation, rt *Runtime, a, b TaggedValue) TaggedValue {
	pa := ToPrimitive(act, rt, a, TagUndefined)
	pb := ToPrimitive(act, rt, b, TagUndefined)
	if pa.Tag == TagString || pb.Tag == TagString {
		return MakeString(concatString(act, rt, ToStringPrim(act, rt, pa), ToStringPrim(act, rt, pb)))
	}
	return MakeNumber(ToNumber(act, rt, pa) + ToNumber(act, rt, pb))
}

// OpTypeof implements `typeof`, returning one of the permanent
// interned type-name strings.
func OpTypeof(rt *Runtime, v TaggedValue) *StringPrim {
	switch v.Tag {
	case TagUndefined:
		return rt.permStrUndefined
	case TagNull:
		return rt.permStrObject
	case TagBoolean:
		return rt.permStrBoolean
	case TagNumber:
		return rt.permStrNumber
	case TagString:
		return rt.permStrString
	case TagFunction:
		return rt.permStrFunction
	default:
		return rt.permStrObject
	}
}

// OpStrictEq implements `===`: equal only when the tags agree and,
// within a tag, the values compare equal (objects/functions by
// identity, strings by content, per spec section 4.7's note that
// distinct StringPrim instances with identical bytes still compare
// equal here even though they are different heap allocations).
func OpStrictEq(a, b TaggedValue) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagUndefined, TagNull:
		return true
	case TagBoolean:
		return a.B == b.B
	case TagNumber:
		return a.Num == b.Num
	case TagString:
		return a.Str.EqualBytes(b.Str)
	default:
		return a.Obj == b.Obj
	}
}

// OpLooseEq implements `==`'s full cross-type coercion table,
// following operator_IF_LOOSE_EQ's tag-pair dispatch.
func OpLooseEq(act *Activation, rt *Runtime, a, b TaggedValue) bool {
	if a.Tag == b.Tag {
		return OpStrictEq(a, b)
	}
	if (a.Tag == TagUndefined && b.Tag == TagNull) || (a.Tag == TagNull && b.Tag == TagUndefined) {
		return true
	}
	if a.Tag == TagNumber && b.Tag == TagString {
		return a.Num == ToNumber(act, rt, b)
	}
	if a.Tag == TagString && b.Tag == TagNumber {
		return ToNumber(act, rt, a) == b.Num
	}
	if a.Tag == TagBoolean {
		return OpLooseEq(act, rt, MakeNumber(ToNumber(act, rt, a)), b)
	}
	if b.Tag == TagBoolean {
		return OpLooseEq(act, rt, a, MakeNumber(ToNumber(act, rt, b)))
	}
	if (a.Tag == TagNumber || a.Tag == TagString) && IsObjectTag(b.Tag) {
		return OpLooseEq(act, rt, a, ToPrimitive(act, rt, b, TagUndefined))
	}
	if IsObjectTag(a.Tag) && (b.Tag == TagNumber || b.Tag == TagString) {
		return OpLooseEq(act, rt, ToPrimitive(act, rt, a, TagUndefined), b)
	}
	if IsObjectTag(a.Tag) && IsObjectTag(b.Tag) {
		return a.Obj == b.Obj
	}
	return false
}

// relResult distinguishes "less", "not less", and "undefined"
// (incomparable due to NaN), matching the original's three-way
// abstract relational comparison result.
type relResult int

const (
	relFalse relResult = iota
	relTrue
	relUndefined
)

// compareRelational implements the abstract relational comparison
// algorithm: coerce both sides to primitives, compare lexicographically
// if both are strings, numerically otherwise.
func compareRelational(act *Activation, rt *Runtime, a, b TaggedValue) relResult {
	pa := ToPrimitive(act, rt, a, TagNumber)
	pb := ToPrimitive(act, rt, b, TagNumber)
	if pa.Tag == TagString && pb.Tag == TagString {
		if pa.Str.LessBytes(pb.Str) {
			return relTrue
		}
		return relFalse
	}
	na, nb := ToNumber(act, rt, pa), ToNumber(act, rt, pb)
	if math.IsNaN(na) || math.IsNaN(nb) {
		return relUndefined
	}
	if na < nb {
		return relTrue
	}
	return relFalse
}

func OpLT(act *Activation, rt *Runtime, a, b TaggedValue) bool {
	return compareRelational(act, rt, a, b) == relTrue
}

func OpGT(act *Activation, rt *Runtime, a, b TaggedValue) bool {
	return compareRelational(act, rt, b, a) == relTrue
}

func OpLE(act *Activation, rt *Runtime, a, b TaggedValue) bool {
	r := compareRelational(act, rt, b, a)
	return r == relFalse
}

func OpGE(act *Activation, rt *Runtime, a, b TaggedValue) bool {
	r := compareRelational(act, rt, a, b)
	return r == relFalse
}

// OpInstanceof implements `instanceof`, throwing TypeError when the
// right-hand side is not callable.
func OpInstanceof(act *Activation, rt *Runtime, a, b TaggedValue) bool {
	fn := AsCallable(b)
	if fn == nil {
		ThrowTypeErrorf(act, rt, "Right-hand side of 'instanceof' is not callable")
		return false
	}
	return HasInstance(act, rt, fn, a)
}

// OpDelete implements the `delete obj[name]` operator.
func OpDelete(act *Activation, rt *Runtime, o *Object, name *StringPrim) bool {
	return DeleteProperty(act, rt, o, name)
}

// OpIn implements the `in` operator: true if name names an own or
// inherited property, including an indexed element within an array's
// current bounds.
func OpIn(o *Object, name *StringPrim) bool {
	if o.Kind != KindPlain && o.Kind != KindFunction && o.Kind != KindBoundFunction {
		if idx, ok := isIndexString(name.String()); ok && o.Flags&FlagIndexProperties == 0 {
			return idx < o.getIndexedLength()
		}
	}
	return o.HasProperty(name)
}

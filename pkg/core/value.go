package core

// TaggedValue is the runtime's universal value representation: a tag
// plus whichever payload field the tag says is live. Go has no safe
// union type, so unlike the C++ original's RawValue this carries one
// field per payload kind instead of overlapping storage.
type TaggedValue struct {
	Tag Tag
	Num float64
	B   bool
	Obj *Object
	Str *StringPrim
}

// Undefined, Null, True and False are the singleton primitive values;
// they carry no heap payload so constructing fresh ones is always safe.
var (
	Undefined = TaggedValue{Tag: TagUndefined}
	Null      = TaggedValue{Tag: TagNull}
	True      = TaggedValue{Tag: TagBoolean, B: true}
	False     = TaggedValue{Tag: TagBoolean, B: false}
)

func MakeUndefined() TaggedValue { return Undefined }
func MakeNull() TaggedValue      { return Null }

func MakeBoolean(b bool) TaggedValue {
	if b {
		return True
	}
	return False
}

func MakeNumber(n float64) TaggedValue {
	return TaggedValue{Tag: TagNumber, Num: n}
}

func MakeString(s *StringPrim) TaggedValue {
	return TaggedValue{Tag: TagString, Str: s}
}

// MakeObjectValue tags v as TagFunction when the underlying object is
// a function (including bound functions), TagObject otherwise —
// mirroring makeObjectValue's dynamic_cast<Function*> dispatch in the
// original runtime.
func MakeObjectValue(o *Object) TaggedValue {
	if o != nil && (o.Kind == KindFunction || o.Kind == KindBoundFunction) {
		return TaggedValue{Tag: TagFunction, Obj: o}
	}
	return TaggedValue{Tag: TagObject, Obj: o}
}

// MakeMemoryValue wraps an internal, non-user-visible heap object
// (for-in iterators) with the TagMemory tag.
func MakeMemoryValue(o *Object) TaggedValue {
	return TaggedValue{Tag: TagMemory, Obj: o}
}

func holeValue() TaggedValue { return TaggedValue{Tag: tagHole} }

// IsHole reports whether v is the internal array-hole sentinel. It is
// never true for any value returned through the external interfaces in
// spec section 6.
func IsHole(v TaggedValue) bool { return v.Tag == tagHole }

// IsValidArrayIndex recognises non-negative integer-valued numbers
// strictly less than 2^32, writing the index to *out on success.
func IsValidArrayIndex(v TaggedValue, out *uint32) bool {
	if v.Tag != TagNumber {
		return false
	}
	return numberToIndex(v.Num, out)
}

func numberToIndex(n float64, out *uint32) bool {
	if n < 0 || n >= 4294967296 {
		return false
	}
	u := uint32(n)
	if float64(u) != n {
		return false
	}
	*out = u
	return true
}

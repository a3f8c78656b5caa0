package core

import (
	"strconv"
)

// ObjectFlag bits form the one-way lattice from spec section 4.3:
// preventExtensions sets NoExtend, seal adds NoConfig, freeze adds
// NoWrite.
type ObjectFlag uint8

const (
	FlagNoExtend ObjectFlag = 1 << iota
	FlagNoConfig
	FlagNoWrite
	FlagIndexProperties
)

// ObjectKind distinguishes the handful of concrete shapes every
// heap-allocated Object can take. Rather than an inheritance tower
// (IndexedObject -> Array/Arguments/TypedArray/String-box as in the
// original), this runtime follows the capability-protocol framing
// spec section 4.9 calls for directly: one concrete Object type, a
// Kind tag, and kind-specific fields that only the relevant methods
// touch.
type ObjectKind uint8

const (
	KindPlain ObjectKind = iota
	KindArray
	KindArguments
	KindTypedArray
	KindStringBox
	KindFunction
	KindBoundFunction
	KindIterator
)

// PropAttr bits, matching PROP_ENUMERABLE/WRITEABLE/CONFIGURABLE/GET_SET.
type PropAttr uint8

const (
	PropEnumerable PropAttr = 1 << iota
	PropWritable
	PropConfigurable
	PropGetSet
)

// Property is one named slot on an Object, doubly linked into the
// owning object's insertion-order list.
type Property struct {
	prev, next *Property
	Name       *StringPrim
	Flags      PropAttr
	Value      TaggedValue
	Getter     *Object
	Setter     *Object
}

// TypedArrayKind identifies a TypedArray's element interpretation.
type TypedArrayKind uint8

const (
	TAInt8 TypedArrayKind = iota
	TAUint8
	TAInt16
	TAUint16
	TAInt32
	TAUint32
	TAFloat32
	TAFloat64
)

func (k TypedArrayKind) byteSize() int {
	switch k {
	case TAInt8, TAUint8:
		return 1
	case TAInt16, TAUint16:
		return 2
	case TAInt32, TAUint32, TAFloat32:
		return 4
	default:
		return 8
	}
}

// Object is the runtime's universal object representation: a
// prototype link, property storage, and a set of kind-specific fields
// used only when Kind says they apply. See spec section 3/4.3/4.9.
type Object struct {
	memHeader
	Flags  ObjectFlag
	Parent *Object
	Kind   ObjectKind

	props    map[string]*Property
	propHead *Property
	propTail *Property

	// KindArray / KindArguments
	Elems []TaggedValue

	// KindTypedArray
	Buffer   []byte
	ElemKind TypedArrayKind

	// KindStringBox (and Number/Boolean boxes, which reuse Boxed
	// without setting Kind to a dedicated value — they behave as
	// plain objects except for defaultValue, see boxDefaultValue below)
	Boxed     TaggedValue
	IsBoxKind bool

	// KindFunction / KindBoundFunction
	Env           *Env
	Code          CodePtr
	ConstructCode CodePtr
	Length        int
	Name          *StringPrim
	Strict        bool

	BoundTarget   *Object
	BoundReceiver TaggedValue
	BoundArgs     []TaggedValue

	// KindIterator
	iterKeys []*StringPrim
	iterPos  int
}

// CodePtr is the signature every compiled function body has: the
// caller's activation (a body that needs locals or an escaped
// environment links its own Activation to it) and the argument vector,
// by convention with argv[0] carrying the receiver for both ordinary
// and constructor calls.
type CodePtr func(act *Activation, args []TaggedValue) TaggedValue

func (o *Object) gcHeader() *memHeader { return &o.memHeader }

func (o *Object) gcMark(mk *marker) {
	mk.mark(o.Parent)
	for p := o.propHead; p != nil; p = p.next {
		mk.mark(p.Name)
		if p.Flags&PropGetSet != 0 {
			mk.mark(p.Getter)
			mk.mark(p.Setter)
		} else {
			mk.markValue(p.Value)
		}
	}
	for _, v := range o.Elems {
		mk.markValue(v)
	}
	if o.IsBoxKind {
		mk.markValue(o.Boxed)
	}
	mk.mark(o.Env)
	mk.mark(o.Name)
	mk.mark(o.BoundTarget)
	mk.markValue(o.BoundReceiver)
	for _, v := range o.BoundArgs {
		mk.markValue(v)
	}
	for _, k := range o.iterKeys {
		mk.mark(k)
	}
}

func (o *Object) gcFinalize(rt *Runtime) {}

// newObject is the common allocation path for every kind.
func (rt *Runtime) newObject(act *Activation, parent *Object, kind ObjectKind) *Object {
	o := &Object{Parent: parent, Kind: kind, props: make(map[string]*Property)}
	rt.allocate(act, o, 64)
	return o
}

// NewObject allocates a plain object with the given prototype parent
// (nil for no prototype).
func (rt *Runtime) NewObject(act *Activation, parent *Object) *Object {
	return rt.newObject(act, parent, KindPlain)
}

// CreateDescendant produces a new object whose parent is o and whose
// concrete kind matches o's, so that `new`-ing a user constructor
// whose prototype is, say, an array still yields an array — spec
// section 4.3.
func (o *Object) CreateDescendant(rt *Runtime, act *Activation) *Object {
	d := &Object{Parent: o, Kind: o.Kind, props: make(map[string]*Property)}
	switch o.Kind {
	case KindTypedArray:
		d.ElemKind = o.ElemKind
	}
	rt.allocate(act, d, 64)
	return d
}

// isIndexString reports whether str is a canonical decimal
// representation (no leading zero except "0") of a uint32.
func isIndexString(str string) (uint32, bool) {
	if str == "" {
		return 0, false
	}
	if str == "0" {
		return 0, true
	}
	if str[0] == '0' {
		return 0, false
	}
	for _, c := range str {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil || n > 4294967295 {
		return 0, false
	}
	return uint32(n), true
}

// DefineOwnProperty installs name with the given flags/value on o,
// interning name first. Redefining an existing property requires both
// o and the property to be configurable.
func (o *Object) DefineOwnProperty(rt *Runtime, act *Activation, name *StringPrim, flags PropAttr, value TaggedValue) {
	o.defineOwnPropertyAccessor(rt, act, name, flags, value, nil, nil)
}

// DefineAccessorProperty installs name as a getter/setter pair.
func (o *Object) DefineAccessorProperty(rt *Runtime, act *Activation, name *StringPrim, flags PropAttr, getter, setter *Object) {
	o.defineOwnPropertyAccessor(rt, act, name, flags|PropGetSet, Undefined, getter, setter)
}

func (o *Object) defineOwnPropertyAccessor(rt *Runtime, act *Activation, name *StringPrim, flags PropAttr, value TaggedValue, getter, setter *Object) {
	name = rt.Intern(act, name)
	key := string(name.bytes)
	if existing, ok := o.props[key]; ok {
		if o.Flags&FlagNoConfig != 0 || existing.Flags&PropConfigurable == 0 {
			ThrowTypeErrorf(act, rt, "Cannot redefine property '%s'", name.String())
		}
		existing.Flags = flags
		existing.Value = value
		existing.Getter = getter
		existing.Setter = setter
		return
	}
	if o.Flags&FlagNoConfig != 0 {
		ThrowTypeErrorf(act, rt, "Cannot define property '%s'", name.String())
	}
	p := &Property{Name: name, Flags: flags, Value: value, Getter: getter, Setter: setter}
	o.props[key] = p
	o.appendProperty(p)

	if _, ok := isIndexString(name.String()); ok {
		o.Flags |= FlagIndexProperties
	}
}

func (o *Object) appendProperty(p *Property) {
	if o.propTail == nil {
		o.propHead, o.propTail = p, p
		return
	}
	p.prev = o.propTail
	o.propTail.next = p
	o.propTail = p
}

func (o *Object) removeProperty(p *Property) {
	if p.prev != nil {
		p.prev.next = p.next
	} else {
		o.propHead = p.next
	}
	if p.next != nil {
		p.next.prev = p.prev
	} else {
		o.propTail = p.prev
	}
}

// GetOwnProperty returns the own property named name, or nil.
func (o *Object) GetOwnProperty(name *StringPrim) *Property {
	return o.props[string(name.bytes)]
}

// GetProperty walks the prototype chain looking for name, returning
// the property and the object that owns it.
func (o *Object) GetProperty(name *StringPrim) (*Property, *Object) {
	for cur := o; cur != nil; cur = cur.Parent {
		if p := cur.GetOwnProperty(name); p != nil {
			return p, cur
		}
	}
	return nil, nil
}

func (o *Object) HasProperty(name *StringPrim) bool {
	p, _ := o.GetProperty(name)
	return p != nil
}

func (o *Object) HasOwnProperty(name *StringPrim) bool {
	return o.GetOwnProperty(name) != nil
}

// getPropertyValue resolves a located property's value, invoking the
// getter with `this = receiver` when the property is an accessor.
func getPropertyValue(act *Activation, rt *Runtime, p *Property, receiver TaggedValue) TaggedValue {
	if p.Flags&PropGetSet == 0 {
		return p.Value
	}
	if p.Getter == nil {
		return Undefined
	}
	return callFunction(act, rt, p.Getter, receiver, nil)
}

// Get returns the value of name as seen from receiver (the object
// `get` was invoked on, not necessarily the object the property was
// found on).
func Get(act *Activation, rt *Runtime, receiver TaggedValue, o *Object, name *StringPrim) TaggedValue {
	if o.Kind != KindPlain && o.Kind != KindFunction && o.Kind != KindBoundFunction {
		if idx, ok := isIndexString(name.String()); ok && o.Flags&FlagIndexProperties == 0 {
			return o.getAtIndexOrUndefined(act, rt, idx)
		}
	}
	p, _ := o.GetProperty(name)
	if p == nil {
		return Undefined
	}
	return getPropertyValue(act, rt, p, receiver)
}

// updatePropertyValue implements Object::updatePropertyValue: write
// through a setter, overwrite an own writable data property, or
// report that the caller must insert a new own property.
func updatePropertyValue(act *Activation, rt *Runtime, this *Object, owner *Object, p *Property, v TaggedValue) (handled bool) {
	if p.Flags&PropGetSet == 0 {
		if p.Flags&PropWritable != 0 {
			if owner == this {
				p.Value = v
				return true
			}
			return false
		}
	} else {
		if p.Setter != nil {
			callFunction(act, rt, p.Setter, MakeObjectValue(this), []TaggedValue{v})
			return true
		}
	}
	if rt.StrictMode {
		ThrowTypeErrorf(act, rt, "Property '%s' is not writable", p.Name.String())
	}
	return true
}

// Put implements the full named-property write algorithm from spec
// section 4.3.
func Put(act *Activation, rt *Runtime, o *Object, name *StringPrim, v TaggedValue) {
	if o.Kind != KindPlain && o.Kind != KindFunction && o.Kind != KindBoundFunction {
		if idx, ok := isIndexString(name.String()); ok && o.Flags&FlagIndexProperties == 0 {
			o.setAtIndex(rt, act, idx, v)
			return
		}
	}
	if o.Flags&FlagNoWrite == 0 {
		if p, owner := o.GetProperty(name); p != nil {
			if updatePropertyValue(act, rt, o, owner, p, v) {
				return
			}
		}
		if o.Flags&FlagNoExtend == 0 {
			name = rt.Intern(act, name)
			p := &Property{Name: name, Flags: PropWritable | PropEnumerable | PropConfigurable, Value: v}
			o.props[string(name.bytes)] = p
			o.appendProperty(p)
			if _, ok := isIndexString(name.String()); ok {
				o.Flags |= FlagIndexProperties
			}
			return
		}
	}
	if rt.StrictMode {
		ThrowTypeErrorf(act, rt, "Property '%s' is not writable", name.String())
	}
}

// DeleteProperty removes name if configurable; in strict mode a
// failure to delete throws, otherwise it is a silent no-op returning
// false.
func DeleteProperty(act *Activation, rt *Runtime, o *Object, name *StringPrim) bool {
	if o.Kind != KindPlain && o.Kind != KindFunction && o.Kind != KindBoundFunction {
		if idx, ok := isIndexString(name.String()); ok && o.Flags&FlagIndexProperties == 0 {
			return o.deleteAtIndex(idx)
		}
	}
	p, ok := o.props[string(name.bytes)]
	if !ok {
		return true
	}
	if o.Flags&FlagNoConfig != 0 || p.Flags&PropConfigurable == 0 {
		if rt.StrictMode {
			ThrowTypeErrorf(act, rt, "Property '%s' is not configurable", name.String())
		}
		return false
	}
	o.removeProperty(p)
	delete(o.props, string(name.bytes))
	return true
}

// PreventExtensions / Seal / Freeze implement the one-way state
// lattice from spec section 4.3.
func (o *Object) PreventExtensions() { o.Flags |= FlagNoExtend }
func (o *Object) Seal()              { o.Flags |= FlagNoExtend | FlagNoConfig }
func (o *Object) Freeze()            { o.Flags |= FlagNoExtend | FlagNoConfig | FlagNoWrite }

// DefaultValue implements the toString/valueOf dance from spec section
// 4.3: try valueOf then toString (or the reverse when hint is String),
// returning the first primitive produced.
func (o *Object) DefaultValue(act *Activation, rt *Runtime, hint Tag) TaggedValue {
	if o.IsBoxKind {
		if v, ok := o.boxDefaultValue(); ok {
			return v
		}
	}
	if hint == TagUndefined {
		hint = TagNumber
	}
	self := MakeObjectValue(o)
	try := func(methodName *StringPrim) (TaggedValue, bool) {
		m := Get(act, rt, self, o, methodName)
		if fn := AsCallable(m); fn != nil {
			res := callFunction(act, rt, fn, self, nil)
			if IsPrimitive(res.Tag) {
				return res, true
			}
		}
		return Undefined, false
	}

	order := []*StringPrim{rt.permStrValueOf, rt.permStrToString}
	if hint == TagString {
		order = []*StringPrim{rt.permStrToString, rt.permStrValueOf}
	}
	for _, name := range order {
		if v, ok := try(name); ok {
			return v
		}
	}
	ThrowTypeErrorf(act, rt, "Cannot determine default value")
	return Undefined
}

func (o *Object) boxDefaultValue() (TaggedValue, bool) {
	if IsPrimitive(o.Boxed.Tag) {
		return o.Boxed, true
	}
	return Undefined, false
}

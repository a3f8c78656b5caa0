package core

// AsCallable returns v's underlying object if v is callable
// (TagFunction), or nil otherwise. Most call sites that accept a
// value where a function is expected (toString/valueOf lookups,
// iterator protocols) go through this instead of branching on Kind
// directly.
func AsCallable(v TaggedValue) *Object {
	if v.Tag != TagFunction {
		return nil
	}
	return v.Obj
}

// NewFunction allocates a function object wrapping code, with length
// own properties set per spec section 4.4 and a fresh prototype object
// whose constructor back-reference points at the function, matching
// Function::init/definePrototype in the original.
func NewFunction(rt *Runtime, act *Activation, name string, length int, env *Env, code, constructCode CodePtr, strict bool) *Object {
	fn := rt.newObject(act, rt.FunctionPrototype, KindFunction)
	fn.Env = env
	fn.Code = code
	fn.ConstructCode = constructCode
	fn.Length = length
	fn.Name = rt.InternString(act, name)
	fn.Strict = strict

	fn.DefineOwnProperty(rt, act, rt.permStrLength, 0, MakeNumber(float64(length)))
	fn.DefineOwnProperty(rt, act, rt.permStrName, 0, MakeString(fn.Name))

	proto := rt.newObject(act, rt.ObjectPrototype, KindPlain)
	proto.DefineOwnProperty(rt, act, rt.permStrConstructor, PropWritable|PropConfigurable, MakeObjectValue(fn))
	fn.DefineOwnProperty(rt, act, rt.permStrPrototype, PropWritable, MakeObjectValue(proto))

	if strict {
		fn.DefineAccessorProperty(rt, act, rt.permStrCaller, 0, rt.poisonAccessor, rt.poisonAccessor)
		fn.DefineAccessorProperty(rt, act, rt.permStrCallee, 0, rt.poisonAccessor, rt.poisonAccessor)
		fn.DefineAccessorProperty(rt, act, rt.permStrArguments, 0, rt.poisonAccessor, rt.poisonAccessor)
	}

	return fn
}

// NewNativeFunction is the common path for built-in methods: a
// function object with no constructCode (calling `new` on it throws)
// and no user-visible environment.
func NewNativeFunction(rt *Runtime, act *Activation, name string, length int, code CodePtr) *Object {
	return NewFunction(rt, act, name, length, nil, code, nil, false)
}

// callFunction invokes fn with the given receiver and arguments,
// dispatching through the bound-function splice when fn wraps another
// callable. The callee's CodePtr receives the receiver as args[0], by
// convention with the compiled-code calling sequence spec section 4.4
// describes.
func callFunction(act *Activation, rt *Runtime, fn *Object, this TaggedValue, args []TaggedValue) TaggedValue {
	if fn.Kind == KindBoundFunction {
		spliced := make([]TaggedValue, 0, len(fn.BoundArgs)+len(args))
		spliced = append(spliced, fn.BoundArgs...)
		spliced = append(spliced, args...)
		return callFunction(act, rt, fn.BoundTarget, fn.BoundReceiver, spliced)
	}
	if fn.Code == nil {
		return ThrowTypeErrorf(act, rt, "object is not callable")
	}
	full := make([]TaggedValue, 0, len(args)+1)
	full = append(full, this)
	full = append(full, args...)
	return fn.Code(act, full)
}

// Call invokes v as a function, throwing TypeError if it is not
// callable. This is the entry point compiled call-expression code
// uses.
func Call(act *Activation, rt *Runtime, v TaggedValue, this TaggedValue, args []TaggedValue) TaggedValue {
	fn := AsCallable(v)
	if fn == nil {
		return ThrowTypeErrorf(act, rt, "value is not a function")
	}
	return callFunction(act, rt, fn, this, args)
}

// Construct implements `new fn(args...)`: allocate a fresh object
// whose prototype is fn's own "prototype" property (falling back to
// Object.prototype if that property was overwritten with a
// non-object), invoke fn's constructCode with that object as the
// receiver, and use the constructor's return value only if it is
// itself an object, per spec section 4.4.
func Construct(act *Activation, rt *Runtime, fn *Object, args []TaggedValue) TaggedValue {
	if fn.Kind == KindBoundFunction {
		spliced := make([]TaggedValue, 0, len(fn.BoundArgs)+len(args))
		spliced = append(spliced, fn.BoundArgs...)
		spliced = append(spliced, args...)
		return Construct(act, rt, fn.BoundTarget, spliced)
	}
	if fn.ConstructCode == nil {
		return ThrowTypeErrorf(act, rt, "%s is not a constructor", fn.Name.String())
	}
	protoVal := Get(act, rt, MakeObjectValue(fn), fn, rt.permStrPrototype)
	proto := rt.ObjectPrototype
	if protoVal.Tag == TagObject || protoVal.Tag == TagFunction {
		proto = protoVal.Obj
	}
	self := proto.CreateDescendant(rt, act)
	full := make([]TaggedValue, 0, len(args)+1)
	full = append(full, MakeObjectValue(self))
	full = append(full, args...)
	result := fn.ConstructCode(act, full)
	if result.Tag == TagObject || result.Tag == TagFunction {
		return result
	}
	return MakeObjectValue(self)
}

// HasInstance implements the default `instanceof` algorithm: walk v's
// prototype chain looking for fn's own "prototype" value.
func HasInstance(act *Activation, rt *Runtime, fn *Object, v TaggedValue) bool {
	if v.Tag != TagObject && v.Tag != TagFunction {
		return false
	}
	protoVal := Get(act, rt, MakeObjectValue(fn), fn, rt.permStrPrototype)
	if protoVal.Tag != TagObject && protoVal.Tag != TagFunction {
		ThrowTypeErrorf(act, rt, "prototype is not an object")
		return false
	}
	target := protoVal.Obj
	for cur := v.Obj.Parent; cur != nil; cur = cur.Parent {
		if cur == target {
			return true
		}
	}
	return false
}

// Bind implements Function.prototype.bind: a BoundFunction splices
// boundArgs ahead of every call's arguments and ignores the caller's
// receiver in favor of boundThis. Its length is max(0, target.Length -
// len(boundArgs)), fixing the off-by-one the original's BoundFunction
// constructor has (it never subtracted the bound argument count) —
// spec section 9's resolution of the bind-arity Open Question.
func Bind(rt *Runtime, act *Activation, target *Object, boundThis TaggedValue, boundArgs []TaggedValue) *Object {
	length := target.Length - len(boundArgs)
	if length < 0 {
		length = 0
	}
	bound := rt.newObject(act, rt.FunctionPrototype, KindBoundFunction)
	bound.BoundTarget = target
	bound.BoundReceiver = boundThis
	bound.BoundArgs = append([]TaggedValue(nil), boundArgs...)
	bound.Length = length
	bound.Name = rt.InternString(act, "bound "+target.Name.String())
	bound.DefineOwnProperty(rt, act, rt.permStrLength, 0, MakeNumber(float64(length)))
	bound.DefineOwnProperty(rt, act, rt.permStrName, 0, MakeString(bound.Name))
	return bound
}

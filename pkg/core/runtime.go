package core

// Runtime is the single instance tying together the heap, the
// collector, the intern pool, and the handful of intrinsic objects
// every compiled program needs (Object.prototype, Function.prototype,
// the global object, the permanent interned strings used by the
// coercion algebra). Compiled code threads a *Runtime alongside every
// *Activation, mirroring the original's Runtime singleton without
// relying on an actual process-wide global.
type Runtime struct {
	head headSentinel
	tail heapEntity

	allocated   uint64
	gcThreshold uint64
	markBit     bool

	interned    *internPool
	emptyString *StringPrim

	trace traceFlags

	StrictMode bool

	Global *Object

	ObjectPrototype   *Object
	FunctionPrototype *Object
	ArrayPrototype    *Object
	StringPrototype   *Object
	NumberPrototype   *Object
	BooleanPrototype  *Object
	ErrorPrototype    *Object

	errorKindProtos map[string]*Object

	// Permanent interned strings used internally by the coercion
	// algebra and property lookups, so hot paths never pay an intern()
	// lookup.
	permStrValueOf       *StringPrim
	permStrToString      *StringPrim
	permStrLength        *StringPrim
	permStrPrototype     *StringPrim
	permStrConstructor   *StringPrim
	permStrName          *StringPrim
	permStrMessage       *StringPrim
	permStrUndefined     *StringPrim
	permStrNull          *StringPrim
	permStrBoolean       *StringPrim
	permStrNumber        *StringPrim
	permStrString        *StringPrim
	permStrObject        *StringPrim
	permStrFunction      *StringPrim
	permStrCaller        *StringPrim
	permStrCallee        *StringPrim
	permStrArguments     *StringPrim

	// poisonAccessor is the single throwing function shared by every
	// strict function's caller/callee/arguments getter and setter, see
	// function.go's NewFunction.
	poisonAccessor *Object

	// try/throw state, see control.go.
	tryHandlers []*tryHandler
	thrown      TaggedValue
}

const initialGCThreshold = 1 << 16 // 64 KiB, matches the original's conservative starting threshold

// NewRuntime constructs a Runtime with the allocation list, collector
// state and permanent interned strings initialized, then wires the
// intrinsics through bootstrapIntrinsics before returning.
func NewRuntime() *Runtime {
	rt := &Runtime{
		gcThreshold: initialGCThreshold,
		interned:    newInternPool(),
	}
	rt.head.mark = rt.markBit
	rt.tail = &rt.head
	rt.trace = parseTraceFlags()
	rt.errorKindProtos = make(map[string]*Object)

	boot := &Activation{}
	rt.emptyString = rt.intern(boot, nil, true)

	rt.permStrValueOf = rt.intern(boot, []byte("valueOf"), true)
	rt.permStrToString = rt.intern(boot, []byte("toString"), true)
	rt.permStrLength = rt.intern(boot, []byte("length"), true)
	rt.permStrPrototype = rt.intern(boot, []byte("prototype"), true)
	rt.permStrConstructor = rt.intern(boot, []byte("constructor"), true)
	rt.permStrName = rt.intern(boot, []byte("name"), true)
	rt.permStrMessage = rt.intern(boot, []byte("message"), true)
	rt.permStrUndefined = rt.intern(boot, []byte("undefined"), true)
	rt.permStrNull = rt.intern(boot, []byte("null"), true)
	rt.permStrBoolean = rt.intern(boot, []byte("boolean"), true)
	rt.permStrNumber = rt.intern(boot, []byte("number"), true)
	rt.permStrString = rt.intern(boot, []byte("string"), true)
	rt.permStrObject = rt.intern(boot, []byte("object"), true)
	rt.permStrFunction = rt.intern(boot, []byte("function"), true)
	rt.permStrCaller = rt.intern(boot, []byte("caller"), true)
	rt.permStrCallee = rt.intern(boot, []byte("callee"), true)
	rt.permStrArguments = rt.intern(boot, []byte("arguments"), true)

	rt.bootstrapIntrinsics(boot)
	return rt
}

// bootstrapIntrinsics allocates Object.prototype, Function.prototype,
// and the per-kind prototype chain every built-in value type consults,
// plus the global object compiled code looks up free variables
// through as a last resort.
func (rt *Runtime) bootstrapIntrinsics(act *Activation) {
	rt.ObjectPrototype = rt.newObject(act, nil, KindPlain)
	rt.FunctionPrototype = rt.newObject(act, rt.ObjectPrototype, KindFunction)
	rt.ArrayPrototype = rt.newObject(act, rt.ObjectPrototype, KindArray)
	rt.StringPrototype = rt.newObject(act, rt.ObjectPrototype, KindStringBox)
	rt.NumberPrototype = rt.newObject(act, rt.ObjectPrototype, KindPlain)
	rt.NumberPrototype.IsBoxKind = true
	rt.BooleanPrototype = rt.newObject(act, rt.ObjectPrototype, KindPlain)
	rt.BooleanPrototype.IsBoxKind = true
	rt.ErrorPrototype = rt.newObject(act, rt.ObjectPrototype, KindPlain)

	rt.Global = rt.newObject(act, rt.ObjectPrototype, KindPlain)

	for _, kind := range []string{"Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError"} {
		var proto *Object
		if kind == "Error" {
			proto = rt.ErrorPrototype
		} else {
			proto = rt.newObject(act, rt.ErrorPrototype, KindPlain)
		}
		proto.DefineOwnProperty(rt, act, rt.permStrName, PropWritable|PropConfigurable, MakeString(rt.intern(act, []byte(kind), true)))
		rt.errorKindProtos[kind] = proto
	}

	rt.poisonAccessor = NewNativeFunction(rt, act, "", 0, func(callerAct *Activation, args []TaggedValue) TaggedValue {
		return ThrowTypeErrorf(callerAct, rt, "'caller', 'callee', and 'arguments' are restricted function properties")
	})
}

// markRoots seeds the marker with every GC root that is not reachable
// through an activation chain: the intrinsic prototypes, the global
// object, the permanent interned strings, and the currently thrown
// value (live across the throw/catch unwind).
func (rt *Runtime) markRoots(mk *marker) {
	for _, s := range rt.interned.entries {
		if s.IsPermanent() {
			mk.mark(s)
		}
	}
	mk.mark(rt.ObjectPrototype)
	mk.mark(rt.FunctionPrototype)
	mk.mark(rt.ArrayPrototype)
	mk.mark(rt.StringPrototype)
	mk.mark(rt.NumberPrototype)
	mk.mark(rt.BooleanPrototype)
	mk.mark(rt.ErrorPrototype)
	mk.mark(rt.Global)
	mk.mark(rt.poisonAccessor)
	for _, proto := range rt.errorKindProtos {
		mk.mark(proto)
	}
	mk.markValue(rt.thrown)
	for _, h := range rt.tryHandlers {
		mk.markValue(h.pending)
	}
}

package core

import (
	"fmt"
	"os"
)

// thrownPanic is the sentinel Go panic value used to implement the
// source language's throw: a plain Go panic carries it up the stack
// until a matching Try's recover catches it, per spec section 5. Any
// other panic value reaching a Try's recover is re-panicked — it is
// either a fatalError (an internal invariant violation, never
// user-catchable) or a genuine Go runtime panic that has no business
// being treated as a thrown value.
type thrownPanic struct {
	value TaggedValue
}

// fatalError marks an internal invariant violation (corrupt heap
// state, an unreachable switch arm). It is never caught by Try; it is
// meant to crash the host process the way an assertion failure would.
type fatalError struct {
	msg   string
	trace []string
}

func (f fatalError) Error() string { return f.msg }

func fatalf(act *Activation, format string, args ...interface{}) {
	var trace []string
	if act != nil {
		trace = act.StackTrace()
	}
	panic(fatalError{msg: fmt.Sprintf(format, args...), trace: trace})
}

// tryHandler records the state a pushTry/popTry pair brackets. pending
// holds the value most recently thrown while this handler was the
// innermost one, kept alive as a GC root until the handler unwinds
// (see Runtime.markRoots) since the language permits inspecting the
// caught value during finally-equivalent cleanup before it is read.
type tryHandler struct {
	pending TaggedValue
}

func (rt *Runtime) pushTry() *tryHandler {
	h := &tryHandler{}
	rt.tryHandlers = append(rt.tryHandlers, h)
	return h
}

func (rt *Runtime) popTry() {
	rt.tryHandlers = rt.tryHandlers[:len(rt.tryHandlers)-1]
}

// Throw raises v as a source-language exception, unwinding native Go
// call frames via panic until the nearest enclosing Try recovers it.
func Throw(act *Activation, rt *Runtime, v TaggedValue) {
	rt.thrown = v
	if len(rt.tryHandlers) > 0 {
		rt.tryHandlers[len(rt.tryHandlers)-1].pending = v
	}
	panic(thrownPanic{value: v})
}

// Try runs body, routing any value thrown within it (by this
// activation or any callee) to catch. A panic that is not a
// thrownPanic propagates unchanged, so fatal errors and genuine Go
// runtime faults are never mistaken for a catchable throw.
func Try(act *Activation, rt *Runtime, body func(), catch func(thrown TaggedValue)) {
	h := rt.pushTry()
	defer rt.popTry()
	defer func() {
		if r := recover(); r != nil {
			tp, ok := r.(thrownPanic)
			if !ok {
				panic(r)
			}
			thrown := tp.value
			h.pending = Undefined
			rt.thrown = Undefined
			catch(thrown)
		}
	}()
	body()
}

// CallTopLevel runs fn as a top-level program entry point: a thrown
// value that escapes with no enclosing Try is the program's fault, not
// a Go fault, so it is reported by coercing it to a string and printing
// it alongside the activation's stack trace before terminating, per
// spec section 4.7's uncaught-throw behavior, rather than surfacing as
// a raw panic. A non-thrownPanic panic (fatalError or a genuine Go
// fault) propagates unchanged. On a normal return, a collection runs
// automatically when the FORCE_GC trace flag is set, per spec section 6.
func CallTopLevel(act *Activation, rt *Runtime, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			tp, ok := r.(thrownPanic)
			if !ok {
				panic(r)
			}
			msg := ToStringPrim(act, rt, tp.value)
			fmt.Fprintf(os.Stderr, "uncaught exception: %s\n", msg.String())
			for _, frame := range act.StackTrace() {
				fmt.Fprintf(os.Stderr, "  at %s\n", frame)
			}
			os.Exit(1)
		}
	}()
	fn()
	if rt.trace&traceForceGC != 0 {
		rt.ForceGC(act)
	}
}

// makeErrorKind allocates a new Error-family object of the named kind
// (Error/TypeError/RangeError/ReferenceError/SyntaxError) with the
// given message, generalizing the original's single hard-coded
// TypeError helper into a shared constructor per spec section 9's
// supplemented Error-kind coverage.
func makeErrorKind(act *Activation, rt *Runtime, kind, message string) *Object {
	proto, ok := rt.errorKindProtos[kind]
	if !ok {
		proto = rt.ErrorPrototype
	}
	e := rt.newObject(act, proto, KindPlain)
	e.DefineOwnProperty(rt, act, rt.permStrMessage, PropWritable|PropConfigurable, MakeString(rt.NewStringPrimFromString(act, message)))
	return e
}

// ErrorMessage reads the "message" property off a thrown error object,
// for callers (like a REPL result printer) that want to report a
// caught value without reaching into pkg/core's unexported fields.
func ErrorMessage(act *Activation, rt *Runtime, errVal TaggedValue) *StringPrim {
	if errVal.Tag != TagObject {
		return rt.emptyString
	}
	v := Get(act, rt, errVal, errVal.Obj, rt.permStrMessage)
	if v.Tag != TagString {
		return rt.emptyString
	}
	return v.Str
}

// ThrowTypeErrorf, ThrowRangeErrorf, ThrowReferenceErrorf, and
// ThrowSyntaxErrorf format a message and throw the matching
// Error-family object. They never return; the return type lets call
// sites write `return ThrowTypeErrorf(...)` where a TaggedValue is
// expected.
func ThrowTypeErrorf(act *Activation, rt *Runtime, format string, args ...interface{}) TaggedValue {
	Throw(act, rt, MakeObjectValue(makeErrorKind(act, rt, "TypeError", fmt.Sprintf(format, args...))))
	return Undefined
}

func ThrowRangeErrorf(act *Activation, rt *Runtime, format string, args ...interface{}) TaggedValue {
	Throw(act, rt, MakeObjectValue(makeErrorKind(act, rt, "RangeError", fmt.Sprintf(format, args...))))
	return Undefined
}

func ThrowReferenceErrorf(act *Activation, rt *Runtime, format string, args ...interface{}) TaggedValue {
	Throw(act, rt, MakeObjectValue(makeErrorKind(act, rt, "ReferenceError", fmt.Sprintf(format, args...))))
	return Undefined
}

func ThrowSyntaxErrorf(act *Activation, rt *Runtime, format string, args ...interface{}) TaggedValue {
	Throw(act, rt, MakeObjectValue(makeErrorKind(act, rt, "SyntaxError", fmt.Sprintf(format, args...))))
	return Undefined
}

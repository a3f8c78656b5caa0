package core

import "fmt"

// Activation is one compiled function's stack-linked frame: a caller
// link, an optional escaped environment, and a fixed-size locals
// array. Every slot an Activation owns is a GC root — this is the
// only rooting mechanism the collector relies on, per spec section
// 4.2/4.9.
//
// Activation values are not themselves GC-heap allocations; they ride
// on Go's own call stack/heap the way the original rides on the
// native C stack, and are threaded explicitly through every call that
// might allocate so the collector can find them without any global
// "current frame" register.
type Activation struct {
	caller   *Activation
	escaped  *Env
	locals   []TaggedValue
	fileFunc string
	line     int
}

// NewActivation creates a new activation linked to caller. escapedSize
// declares how many variables this function's nested closures capture
// (0 if none); localCount is the compile-time-known number of local
// slots. Locals are zeroed before the escaped environment is
// allocated, so a GC triggered by that allocation — with this
// activation already installed as caller's child — never observes an
// uninitialized slot.
func NewActivation(rt *Runtime, caller *Activation, lexicalParent *Env, escapedSize, localCount int) *Activation {
	act := &Activation{caller: caller, locals: make([]TaggedValue, localCount)}
	for i := range act.locals {
		act.locals[i] = Undefined
	}
	if escapedSize > 0 {
		act.escaped = rt.NewEnv(act, lexicalParent, escapedSize)
	}
	return act
}

// Var returns a pointer to the local slot at index.
func (a *Activation) Var(index int) *TaggedValue { return &a.locals[index] }

// Escaped returns this activation's escaped environment, or nil if it
// declared none.
func (a *Activation) Escaped() *Env { return a.escaped }

// Caller returns the activation that created this one.
func (a *Activation) Caller() *Activation { return a.caller }

// SetLine records the current source line for diagnostics. Compiled
// code calls this before any operation that may throw, so a stack
// trace printed from the handler reflects where execution actually
// was.
func (a *Activation) SetLine(fileFunc string, line int) {
	a.fileFunc, a.line = fileFunc, line
}

// mark enumerates this activation's escaped environment and locals,
// then walks up the caller chain doing the same — the complete GC
// root set, per spec invariant: "no other roots exist; precision
// depends on this."
func (a *Activation) mark(mk *marker) {
	for cur := a; cur != nil; cur = cur.caller {
		mk.mark(cur.escaped)
		for _, v := range cur.locals {
			mk.markValue(v)
		}
	}
}

// StackTrace renders the caller chain's recorded file/line pairs,
// innermost first, for use by an unhandled-throw report or a fatal
// assertion.
func (a *Activation) StackTrace() []string {
	var frames []string
	for cur := a; cur != nil; cur = cur.caller {
		if cur.fileFunc == "" {
			continue
		}
		frames = append(frames, fmt.Sprintf("%s:%d", cur.fileFunc, cur.line))
	}
	return frames
}

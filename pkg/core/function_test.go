package core

import "testing"

// TestStrictFunctionPoisonsCallerCalleeArguments verifies that a
// strict-mode function throws TypeError on any read of caller, callee,
// or arguments.
func TestStrictFunctionPoisonsCallerCalleeArguments(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	strictFn := NewFunction(rt, act, "strict", 0, nil, func(callerAct *Activation, args []TaggedValue) TaggedValue {
		return Undefined
	}, nil, true)

	for _, name := range []*StringPrim{rt.permStrCaller, rt.permStrCallee, rt.permStrArguments} {
		caught := false
		Try(act, rt, func() {
			Get(act, rt, MakeObjectValue(strictFn), strictFn, name)
		}, func(thrown TaggedValue) {
			caught = true
			if got := ErrorMessage(act, rt, thrown).String(); got == "" {
				t.Errorf("%s: expected a TypeError message, got empty", name.String())
			}
		})
		if !caught {
			t.Errorf("reading %q on a strict function should throw", name.String())
		}
	}
}

func TestNonStrictFunctionLeavesCallerCalleeArgumentsUnpoisoned(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	fn := NewFunction(rt, act, "loose", 0, nil, func(callerAct *Activation, args []TaggedValue) TaggedValue {
		return Undefined
	}, nil, false)

	for _, name := range []*StringPrim{rt.permStrCaller, rt.permStrCallee, rt.permStrArguments} {
		if fn.HasOwnProperty(name) {
			t.Errorf("non-strict function should not define %q", name.String())
		}
	}
}

package core

import "testing"

// TestCallTopLevelForcesCollectionWhenTraceFlagSet exercises the
// automatic post-return collection CallTopLevel performs when the
// FORCE_GC trace flag is set, without going through the
// environment-variable parser.
func TestCallTopLevelForcesCollectionWhenTraceFlagSet(t *testing.T) {
	rt := NewRuntime()
	rt.trace |= traceForceGC
	act := NewActivation(rt, nil, nil, 0, 0)

	for i := 0; i < 10; i++ {
		rt.NewStringPrimFromString(act, "garbage")
	}
	before := rt.allocated

	CallTopLevel(act, rt, func() {})

	if rt.allocated >= before {
		t.Errorf("CallTopLevel did not force a collection after a normal return: before=%d after=%d", before, rt.allocated)
	}
}

func TestCallTopLevelDoesNotCollectWithoutTraceFlag(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	for i := 0; i < 10; i++ {
		rt.NewStringPrimFromString(act, "garbage")
	}
	before := rt.allocated

	CallTopLevel(act, rt, func() {})

	if rt.allocated != before {
		t.Errorf("CallTopLevel collected without the FORCE_GC trace flag set: before=%d after=%d", before, rt.allocated)
	}
}

// TestCallTopLevelLetsInnerTryHandleItsOwnThrow confirms a throw caught
// by a Try inside the body never reaches CallTopLevel's own recover:
// the body returns normally.
func TestCallTopLevelLetsInnerTryHandleItsOwnThrow(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	caught := false
	CallTopLevel(act, rt, func() {
		Try(act, rt, func() {
			ThrowRangeErrorf(act, rt, "handled")
		}, func(thrown TaggedValue) {
			caught = true
		})
	})

	if !caught {
		t.Errorf("inner Try should have caught the throw before CallTopLevel saw it")
	}
}

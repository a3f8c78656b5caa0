package core

import "testing"

// TestVarAtWalksMultipleLevels exercises a doubly-nested closure
// reaching two lexical scopes up, the shape compiled code emits when
// an inner function reads a grandparent scope's local directly instead
// of re-capturing it at every intermediate level.
func TestVarAtWalksMultipleLevels(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 1, 0)
	*act.Escaped().Var(0) = MakeNumber(7)

	mid := rt.NewEnv(act, act.Escaped(), 1)
	*mid.Var(0) = MakeNumber(8)

	inner := rt.NewEnv(act, mid, 1)
	*inner.Var(0) = MakeNumber(9)

	if got := inner.VarAt(act, 0, 0).Num; got != 9 {
		t.Errorf("VarAt(0, 0) = %v, want 9", got)
	}
	if got := inner.VarAt(act, 1, 0).Num; got != 8 {
		t.Errorf("VarAt(1, 0) = %v, want 8", got)
	}
	if got := inner.VarAt(act, 2, 0).Num; got != 7 {
		t.Errorf("VarAt(2, 0) = %v, want 7", got)
	}
}

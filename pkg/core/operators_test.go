package core

import "testing"

func TestOpADDStringVsNumeric(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	tests := []struct {
		a, b    TaggedValue
		wantStr string
		wantNum float64
		isStr   bool
	}{
		{MakeNumber(1), MakeNumber(2), "", 3, false},
		{MakeString(rt.NewStringPrimFromString(act, "foo")), MakeString(rt.NewStringPrimFromString(act, "bar")), "foobar", 0, true},
		{MakeString(rt.NewStringPrimFromString(act, "count: ")), MakeNumber(5), "count: 5", 0, true},
		{MakeNumber(5), MakeString(rt.NewStringPrimFromString(act, " items")), "5 items", 0, true},
	}

	for _, tt := range tests {
		got := OpADD(act, rt, tt.a, tt.b)
		if tt.isStr {
			if got.Tag != TagString || got.Str.String() != tt.wantStr {
				t.Errorf("OpADD(%v, %v) = %v, want string %q", tt.a, tt.b, got, tt.wantStr)
			}
		} else {
			if got.Tag != TagNumber || got.Num != tt.wantNum {
				t.Errorf("OpADD(%v, %v) = %v, want number %v", tt.a, tt.b, got, tt.wantNum)
			}
		}
	}
}

func TestOpStrictEqDistinctStringInstances(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	a := MakeString(rt.NewStringPrimFromString(act, "hello"))
	b := MakeString(rt.NewStringPrimFromString(act, "hello"))
	if a.Str == b.Str {
		t.Fatalf("test setup: expected distinct StringPrim instances")
	}
	if !OpStrictEq(a, b) {
		t.Errorf("OpStrictEq of equal-content distinct strings = false, want true")
	}
}

func TestOpLooseEqCoercions(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	tests := []struct {
		a, b TaggedValue
		want bool
	}{
		{Null, Undefined, true},
		{MakeNumber(0), False, true},
		{MakeNumber(1), True, true},
		{MakeString(rt.NewStringPrimFromString(act, "5")), MakeNumber(5), true},
		{MakeString(rt.NewStringPrimFromString(act, "5")), MakeNumber(6), false},
		{Null, MakeNumber(0), false},
	}
	for _, tt := range tests {
		got := OpLooseEq(act, rt, tt.a, tt.b)
		if got != tt.want {
			t.Errorf("OpLooseEq(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareRelationalStringsAndNaN(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	if !OpLT(act, rt, MakeString(rt.NewStringPrimFromString(act, "apple")), MakeString(rt.NewStringPrimFromString(act, "banana"))) {
		t.Errorf("expected 'apple' < 'banana'")
	}
	if !OpGT(act, rt, MakeNumber(3), MakeNumber(2)) {
		t.Errorf("expected 3 > 2")
	}
	if !OpLE(act, rt, MakeNumber(2), MakeNumber(2)) {
		t.Errorf("expected 2 <= 2")
	}
	if OpLE(act, rt, MakeNumber(3), MakeNumber(2)) {
		t.Errorf("expected 3 <= 2 to be false")
	}

	zero := 0.0
	nan := zero / zero
	if OpLT(act, rt, MakeNumber(1), MakeNumber(nan)) {
		t.Errorf("NaN comparison should never be true")
	}
	if OpGE(act, rt, MakeNumber(1), MakeNumber(nan)) {
		t.Errorf("NaN comparison should never be true for >= either")
	}
	if OpGT(act, rt, MakeNumber(1), MakeNumber(nan)) {
		t.Errorf("NaN comparison should never be true for > either")
	}
	if OpLE(act, rt, MakeNumber(1), MakeNumber(nan)) {
		t.Errorf("NaN comparison should never be true for <= either")
	}
}

func TestOpInChecksIndexedAndNamedProperties(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	a := NewArray(rt, act, []TaggedValue{MakeNumber(1), MakeNumber(2)})
	a.DefineOwnProperty(rt, act, rt.InternString(act, "tag"), PropEnumerable|PropWritable|PropConfigurable, MakeNumber(9))

	if !OpIn(a, rt.InternString(act, "0")) {
		t.Errorf("expected index 0 to be 'in' the array")
	}
	if OpIn(a, rt.InternString(act, "5")) {
		t.Errorf("expected out-of-range index not to be 'in' the array")
	}
	if !OpIn(a, rt.InternString(act, "tag")) {
		t.Errorf("expected named own property to be 'in' the array")
	}
	if OpIn(a, rt.InternString(act, "missing")) {
		t.Errorf("expected absent property not to be 'in' the array")
	}

	child := a.CreateDescendant(rt, act)
	if !OpIn(child, rt.InternString(act, "tag")) {
		t.Errorf("expected 'in' to see inherited properties through the prototype chain")
	}
}

func TestMakeUndefinedAndMakeNullReturnSingletons(t *testing.T) {
	if v := MakeUndefined(); v.Tag != TagUndefined || v != Undefined {
		t.Errorf("MakeUndefined() = %v, want the Undefined singleton", v)
	}
	if v := MakeNull(); v.Tag != TagNull || v != Null {
		t.Errorf("MakeNull() = %v, want the Null singleton", v)
	}
}

func TestOpTypeof(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	fn := NewNativeFunction(rt, act, "f", 0, func(act *Activation, args []TaggedValue) TaggedValue { return Undefined })

	tests := []struct {
		v    TaggedValue
		want string
	}{
		{Undefined, "undefined"},
		{Null, "object"},
		{MakeBoolean(true), "boolean"},
		{MakeNumber(1), "number"},
		{MakeString(rt.emptyString), "string"},
		{MakeObjectValue(fn), "function"},
	}
	for _, tt := range tests {
		got := OpTypeof(rt, tt.v).String()
		if got != tt.want {
			t.Errorf("OpTypeof(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

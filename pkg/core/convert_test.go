package core

import (
	"math"
	"testing"
)

func TestToNumberCoercions(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	tests := []struct {
		v    TaggedValue
		want float64
	}{
		{Undefined, math.NaN()},
		{Null, 0},
		{True, 1},
		{False, 0},
		{MakeNumber(3.5), 3.5},
		{MakeString(rt.NewStringPrimFromString(act, "42")), 42},
		{MakeString(rt.NewStringPrimFromString(act, "  ")), 0},
		{MakeString(rt.NewStringPrimFromString(act, "0x1F")), 31},
		{MakeString(rt.NewStringPrimFromString(act, "not a number")), math.NaN()},
	}

	for _, tt := range tests {
		got := ToNumber(act, rt, tt.v)
		if math.IsNaN(tt.want) {
			if !math.IsNaN(got) {
				t.Errorf("ToNumber(%v) = %v, want NaN", tt.v, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ToNumber(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestParseIntRadixAutoDetect(t *testing.T) {
	tests := []struct {
		input string
		radix int
		want  float64
	}{
		{"42", 0, 42},
		{"0x2A", 0, 42},
		{"0X2a", 0, 42},
		{"  -10", 0, -10},
		{"ff", 16, 255},
		{"111", 2, 7},
		{"z", 36, 35},
		{"", 0, math.NaN()},
		{"   ", 10, math.NaN()},
	}

	for _, tt := range tests {
		got := ParseInt(tt.input, tt.radix)
		if math.IsNaN(tt.want) {
			if !math.IsNaN(got) {
				t.Errorf("ParseInt(%q, %d) = %v, want NaN", tt.input, tt.radix, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseInt(%q, %d) = %v, want %v", tt.input, tt.radix, got, tt.want)
		}
	}
}

func TestParseFloatStopsAtFirstInvalidChar(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"3.14abc", 3.14},
		{"  -2.5e3xyz", -2500},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{"abc", math.NaN()},
	}

	for _, tt := range tests {
		got := ParseFloat(tt.input)
		switch {
		case math.IsNaN(tt.want):
			if !math.IsNaN(got) {
				t.Errorf("ParseFloat(%q) = %v, want NaN", tt.input, got)
			}
		case math.IsInf(tt.want, 0):
			if got != tt.want {
				t.Errorf("ParseFloat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		default:
			if got != tt.want {
				t.Errorf("ParseFloat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		}
	}
}

func TestToInt32Wraps(t *testing.T) {
	rt := NewRuntime()
	act := NewActivation(rt, nil, nil, 0, 0)

	tests := []struct {
		n    float64
		want int32
	}{
		{0, 0},
		{42, 42},
		{4294967296, 0},
		{4294967297, 1},
		{-1, -1},
		{2147483648, -2147483648},
	}
	for _, tt := range tests {
		got := ToInt32(act, rt, MakeNumber(tt.n))
		if got != tt.want {
			t.Errorf("ToInt32(%v) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestNumberToStringRadix(t *testing.T) {
	tests := []struct {
		n     float64
		radix int
		want  string
	}{
		{255, 16, "ff"},
		{7, 2, "111"},
		{math.NaN(), 10, "NaN"},
		{math.Inf(1), 10, "Infinity"},
		{math.Inf(-1), 10, "-Infinity"},
	}
	for _, tt := range tests {
		got := NumberToString(tt.n, tt.radix)
		if got != tt.want {
			t.Errorf("NumberToString(%v, %d) = %q, want %q", tt.n, tt.radix, got, tt.want)
		}
	}
}

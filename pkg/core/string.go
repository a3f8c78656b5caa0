package core

import (
	"math"

	"nativert/pkg/utf8x"
)

// stringFlag bits, matching StringPrim::INTERNED/PERMANENT from spec
// section 3.
type stringFlag uint8

const (
	strInterned stringFlag = 1 << iota
	strPermanent
)

// StringPrim is the runtime's immutable string representation: raw
// UTF-8 bytes, a cached UTF-16-unit length, and a sliding cursor that
// remembers the (byte offset, unit index) pair most recently used for
// random access so sequential scans stay linear — grounded on
// runtime.h's StringPrim and the cursor-accelerated charCodeAt/charAt
// in runtime.cxx.
type StringPrim struct {
	memHeader
	bytes    []byte
	unitLen  int
	flags    stringFlag
	curByte  int
	curUnit  int
}

func (s *StringPrim) gcHeader() *memHeader { return &s.memHeader }
func (s *StringPrim) gcMark(mk *marker)    {}
func (s *StringPrim) gcFinalize(rt *Runtime) {
	if s.flags&strInterned != 0 {
		rt.uninternByBytes(s.bytes)
	}
}

// NewStringPrim allocates a new string primitive holding a copy of b.
func (rt *Runtime) NewStringPrim(act *Activation, b []byte) *StringPrim {
	cp := make([]byte, len(b))
	copy(cp, b)
	s := &StringPrim{bytes: cp, unitLen: utf8x.Length(cp)}
	rt.allocate(act, s, uint32(32+len(cp)))
	return s
}

func (rt *Runtime) NewStringPrimFromString(act *Activation, str string) *StringPrim {
	return rt.NewStringPrim(act, []byte(str))
}

// Bytes returns the raw UTF-8 bytes. Callers must not mutate the
// returned slice.
func (s *StringPrim) Bytes() []byte { return s.bytes }

// ByteLength returns the number of UTF-8 bytes.
func (s *StringPrim) ByteLength() int { return len(s.bytes) }

// UnitLength returns the cached UTF-16-unit length (invariant 4 of
// spec section 8).
func (s *StringPrim) UnitLength() int { return s.unitLen }

func (s *StringPrim) String() string { return string(s.bytes) }

func (s *StringPrim) IsInterned() bool  { return s.flags&strInterned != 0 }
func (s *StringPrim) IsPermanent() bool { return s.flags&strPermanent != 0 }

// EqualBytes reports whether two strings have identical byte content.
func (s *StringPrim) EqualBytes(o *StringPrim) bool {
	if s == o {
		return true
	}
	if len(s.bytes) != len(o.bytes) {
		return false
	}
	for i := range s.bytes {
		if s.bytes[i] != o.bytes[i] {
			return false
		}
	}
	return true
}

// LessBytes implements the lexicographic byte ordering used by
// relational comparisons between two strings.
func (s *StringPrim) LessBytes(o *StringPrim) bool {
	n := len(s.bytes)
	if len(o.bytes) < n {
		n = len(o.bytes)
	}
	for i := 0; i < n; i++ {
		if s.bytes[i] != o.bytes[i] {
			return s.bytes[i] < o.bytes[i]
		}
	}
	return len(s.bytes) < len(o.bytes)
}

// seek advances or resets the sliding cursor to land on UTF-16 unit
// index, returning the byte offset of the code point that contains
// it and whether that unit is the low half of a surrogate pair.
func (s *StringPrim) seek(unitIndex int) (byteOff int, isLowSurrogate bool) {
	byteOff, unitAt := 0, 0
	if s.curUnit <= unitIndex {
		byteOff, unitAt = s.curByte, s.curUnit
	}
	for unitAt < unitIndex && byteOff < len(s.bytes) {
		cp, size := utf8x.Decode(s.bytes[byteOff:])
		if size == 0 {
			break
		}
		w := utf8x.UnitWidth(cp)
		if unitAt+w > unitIndex {
			// Landed inside a surrogate pair: the requested unit is
			// the low half.
			s.curByte, s.curUnit = byteOff, unitAt
			return byteOff, true
		}
		unitAt += w
		byteOff += size
	}
	s.curByte, s.curUnit = byteOff, unitAt
	return byteOff, false
}

// CharCodeAt interprets index as a UTF-16 unit position and returns
// its numeric code unit value, or NaN if out of range. Code points
// above U+FFFF surface as their high surrogate on the first unit and
// low surrogate on the second, matching the source language's String
// semantics.
func (s *StringPrim) CharCodeAt(index int) float64 {
	if index < 0 || index >= s.unitLen {
		return math.NaN()
	}
	byteOff, lowSurrogate := s.seek(index)
	if lowSurrogate {
		cp, _ := utf8x.Decode(s.bytes[byteOff:])
		_, lo := utf8x.SurrogatePair(cp)
		return float64(lo)
	}
	cp, _ := utf8x.Decode(s.bytes[byteOff:])
	if utf8x.UnitWidth(cp) == 2 {
		hi, _ := utf8x.SurrogatePair(cp)
		return float64(hi)
	}
	return float64(cp)
}

// CharAt returns the one-unit string at index. When index falls on
// either half of a surrogate pair the replacement character is
// returned, per spec section 4.5.
func (s *StringPrim) CharAt(act *Activation, rt *Runtime, index int) *StringPrim {
	if index < 0 || index >= s.unitLen {
		return rt.emptyString
	}
	byteOff, lowSurrogate := s.seek(index)
	if lowSurrogate {
		return rt.NewStringPrim(act, utf8x.Encode(nil, utf8x.ReplacementChar))
	}
	cp, size := utf8x.Decode(s.bytes[byteOff:])
	if utf8x.UnitWidth(cp) == 2 {
		return rt.NewStringPrim(act, utf8x.Encode(nil, utf8x.ReplacementChar))
	}
	return rt.NewStringPrim(act, s.bytes[byteOff:byteOff+size])
}

// Substring returns the substring spanning UTF-16 units [from, to),
// after clamping both endpoints into range. An endpoint that falls
// inside a surrogate pair is replaced with the Unicode replacement
// character at that boundary instead of splitting the code point.
func (s *StringPrim) Substring(act *Activation, rt *Runtime, from, to int) *StringPrim {
	if from < 0 {
		from = 0
	}
	if to > s.unitLen {
		to = s.unitLen
	}
	if from >= to {
		return rt.emptyString
	}

	var out []byte
	fromByte, fromLow := s.seek(from)
	if fromLow {
		out = utf8x.Encode(out, utf8x.ReplacementChar)
		// Advance past the whole code point the low surrogate belongs to.
		_, size := utf8x.Decode(s.bytes[fromByte:])
		fromByte += size
		from++
	}
	if from >= to {
		return rt.NewStringPrim(act, out)
	}

	toByte, toLow := s.seek(to)
	out = append(out, s.bytes[fromByte:toByte]...)
	if toLow {
		out = utf8x.Encode(out, utf8x.ReplacementChar)
	}
	return rt.NewStringPrim(act, out)
}

// ByteSubstring returns the raw byte slice [fromByte, toByte) as a new
// string, for internal callers that already know the bytes are
// UTF-8-aligned.
func (s *StringPrim) ByteSubstring(act *Activation, rt *Runtime, fromByte, toByte int) *StringPrim {
	if fromByte < 0 {
		fromByte = 0
	}
	if toByte > len(s.bytes) {
		toByte = len(s.bytes)
	}
	if fromByte >= toByte {
		return rt.emptyString
	}
	return rt.NewStringPrim(act, s.bytes[fromByte:toByte])
}

// ToLowerCase / ToUpperCase perform ASCII-range case conversion over
// the UTF-8 byte stream, a feature present in the original
// (runtime/src/string.cpp) that spec.md's distillation dropped but
// which exercises the UTF-8 codec leaf component cleanly.
func (s *StringPrim) ToLowerCase(act *Activation, rt *Runtime) *StringPrim {
	return s.convertCase(act, rt, func(b byte) byte {
		if b >= 'A' && b <= 'Z' {
			return b ^ 32
		}
		return b
	})
}

func (s *StringPrim) ToUpperCase(act *Activation, rt *Runtime) *StringPrim {
	return s.convertCase(act, rt, func(b byte) byte {
		if b >= 'a' && b <= 'z' {
			return b ^ 32
		}
		return b
	})
}

func (s *StringPrim) convertCase(act *Activation, rt *Runtime, cvt func(byte) byte) *StringPrim {
	out := make([]byte, len(s.bytes))
	changed := false
	for i, b := range s.bytes {
		c := cvt(b)
		if c != b {
			changed = true
		}
		out[i] = c
	}
	if !changed {
		return s
	}
	return rt.NewStringPrim(act, out)
}

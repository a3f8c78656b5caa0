package utf8x

import "testing"

func TestDecodeEncodeRoundTrip(t *testing.T) {
	cases := []uint32{'A', 0x7F, 0x80, 0x7FF, 0x800, 0xFFFF, 0x10000, 0x10FFFF}
	for _, cp := range cases {
		buf := Encode(nil, cp)
		got, size := Decode(buf)
		if got != cp {
			t.Errorf("Decode(Encode(%x)) = %x, want %x", cp, got, cp)
		}
		if size != len(buf) {
			t.Errorf("Decode(Encode(%x)) consumed %d bytes, want %d", cp, size, len(buf))
		}
	}
}

func TestDecodeInvalidAdvancesOneByte(t *testing.T) {
	cp, size := Decode([]byte{0xFF, 'a'})
	if cp != ReplacementChar || size != 1 {
		t.Errorf("Decode(invalid) = (%x, %d), want (%x, 1)", cp, size, ReplacementChar)
	}
}

func TestDecodeTruncatedSequence(t *testing.T) {
	cp, size := Decode([]byte{0xE0})
	if cp != ReplacementChar || size != 1 {
		t.Errorf("Decode(truncated) = (%x, %d), want replacement/1", cp, size)
	}
}

func TestDecodeOverlongRejected(t *testing.T) {
	// 0xC0 0x80 would encode U+0000 as two bytes - overlong, must be rejected.
	cp, size := Decode([]byte{0xC0, 0x80})
	if cp != ReplacementChar || size != 1 {
		t.Errorf("Decode(overlong) = (%x, %d), want replacement/1", cp, size)
	}
}

func TestDecodeSurrogateRangeRejected(t *testing.T) {
	// 0xED 0xA0 0x80 would encode U+D800, a surrogate; invalid in UTF-8.
	cp, size := Decode([]byte{0xED, 0xA0, 0x80})
	if cp != ReplacementChar || size != 1 {
		t.Errorf("Decode(surrogate) = (%x, %d), want replacement/1", cp, size)
	}
}

func TestUnitWidth(t *testing.T) {
	if UnitWidth('A') != 1 {
		t.Errorf("UnitWidth(ASCII) != 1")
	}
	if UnitWidth(0xFFFF) != 1 {
		t.Errorf("UnitWidth(0xFFFF) != 1")
	}
	if UnitWidth(0x10000) != 2 {
		t.Errorf("UnitWidth(0x10000) != 2")
	}
}

func TestLength(t *testing.T) {
	// "a" + U+00E9 (2 bytes) + U+1F600 (4 bytes, 2 UTF-16 units)
	var buf []byte
	buf = append(buf, 'a')
	buf = Encode(buf, 0xE9)
	buf = Encode(buf, 0x1F600)
	if got := Length(buf); got != 4 {
		t.Errorf("Length = %d, want 4", got)
	}
}

func TestSurrogatePair(t *testing.T) {
	hi, lo := SurrogatePair(0x1F600)
	if hi != 0xD83D || lo != 0xDE00 {
		t.Errorf("SurrogatePair(0x1F600) = (%x, %x), want (d83d, de00)", hi, lo)
	}
}

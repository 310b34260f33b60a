package emu

import "testing"

func TestMisalignedUnsignedHalfword_AlignedPassesThrough(t *testing.T) {
	if got := misalignedUnsignedHalfword(0x1000, 0xABCD); got != 0xABCD {
		t.Errorf("aligned LDRH should return the halfword untouched, got %#x", got)
	}
}

func TestMisalignedUnsignedHalfword_OddAddressRotatesRightByEight(t *testing.T) {
	got := misalignedUnsignedHalfword(0x1001, 0xABCD)
	want := uint32(0xCDAB)
	if got != want {
		t.Errorf("odd-address LDRH should rotate the fetched halfword right by 8, expected %#x, got %#x", want, got)
	}
}

func TestMisalignedSignedHalfword_AlignedSignExtendsHalfword(t *testing.T) {
	got := misalignedSignedHalfword(0x2000, 0x8000)
	want := uint32(int32(int16(0x8000)))
	if got != want {
		t.Errorf("aligned LDRSH should sign-extend the full halfword, expected %#x, got %#x", want, got)
	}
}

func TestMisalignedSignedHalfword_OddAddressSignExtendsHighByteOnly(t *testing.T) {
	// fetched halfword 0x7F80: high byte 0x7F is positive, low byte 0x80
	// would look negative if (wrongly) sign-extended as a 16-bit value.
	got := misalignedSignedHalfword(0x2001, 0x7F80)
	want := uint32(int32(int8(0x7F)))
	if got != want {
		t.Errorf("odd-address LDRSH should sign-extend only the high byte, expected %#x, got %#x", want, got)
	}

	// and the reverse: a negative high byte with a positive-looking low
	// byte must still read as negative.
	got = misalignedSignedHalfword(0x2001, 0x8012)
	want = uint32(int32(int8(0x80)))
	if got != want {
		t.Errorf("odd-address LDRSH sign bit should come from the high byte, expected %#x, got %#x", want, got)
	}
}

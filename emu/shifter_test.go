package emu

import "testing"

func TestShiftImmediate_LSLZeroPreservesCarry(t *testing.T) {
	result, carryOut := ShiftImmediate(ShiftLSL, 0x1234, 0, true)
	if result != 0x1234 {
		t.Errorf("LSL#0: expected value passthrough, got %#x", result)
	}
	if !carryOut {
		t.Error("LSL#0: carry-in should pass through unchanged")
	}
}

func TestShiftImmediate_LSRZeroIsShiftBy32(t *testing.T) {
	result, carryOut := ShiftImmediate(ShiftLSR, 0x80000000, 0, false)
	if result != 0 {
		t.Errorf("LSR#0 (shift-by-32): expected 0, got %#x", result)
	}
	if !carryOut {
		t.Error("LSR#0: carry-out should be the vacated bit 31")
	}
}

func TestShiftImmediate_RORZeroIsRRX(t *testing.T) {
	result, carryOut := ShiftImmediate(ShiftROR, 0x00000001, 0, true)
	if result != 0x80000000 {
		t.Errorf("RRX: expected carry rotated into bit 31, got %#x", result)
	}
	if !carryOut {
		t.Error("RRX: carry-out should be the outgoing bit 0")
	}
}

func TestShiftByRegister_AmountZeroLeavesCarryUntouched(t *testing.T) {
	result, carryOut := ShiftByRegister(ShiftLSL, 0x1, 0, false)
	if result != 1 || carryOut {
		t.Errorf("shift-by-register amount 0 must be a pure no-op, got (%#x, %v)", result, carryOut)
	}
}

func TestShiftByRegister_LSLExactly32(t *testing.T) {
	result, carryOut := ShiftByRegister(ShiftLSL, 0x3, 32, false)
	if result != 0 {
		t.Errorf("LSL by 32: expected 0, got %#x", result)
	}
	if !carryOut {
		t.Error("LSL by 32: carry-out should be bit 0 of the original value")
	}
}

func TestShiftByRegister_ASRBeyond32SignExtends(t *testing.T) {
	result, carryOut := ShiftByRegister(ShiftASR, 0x80000000, 40, false)
	if result != 0xFFFFFFFF || !carryOut {
		t.Errorf("ASR beyond 32 of a negative value: expected all-ones/carry set, got (%#x, %v)", result, carryOut)
	}
	result, carryOut = ShiftByRegister(ShiftASR, 0x7FFFFFFF, 40, false)
	if result != 0 || carryOut {
		t.Errorf("ASR beyond 32 of a positive value: expected 0/carry clear, got (%#x, %v)", result, carryOut)
	}
}

func TestShiftByRegister_RORPeriodic(t *testing.T) {
	a, _ := ShiftByRegister(ShiftROR, 0x1, 1, false)
	b, _ := ShiftByRegister(ShiftROR, 0x1, 33, false)
	if a != b {
		t.Errorf("ROR by 33 should equal ROR by 1 (period 32): got %#x vs %#x", a, b)
	}
}

func TestRotateRight_RoundTrip(t *testing.T) {
	for amount := uint32(1); amount < 32; amount++ {
		value := uint32(0xA5A5A5A5)
		rotated, _ := rotateRight(value, amount)
		back, _ := rotateRight(rotated, 32-amount)
		if back != value {
			t.Errorf("rotate by %d then %d should round-trip: got %#x", amount, 32-amount, back)
		}
	}
}

package emu

// ShiftOp names one of the four barrel-shifter modes.
type ShiftOp uint8

const (
	ShiftLSL ShiftOp = iota // logical left
	ShiftLSR                // logical right
	ShiftASR                // arithmetic right
	ShiftROR                // rotate right
)

// ShiftImmediate computes operand-2 (or a shifted memory address) when the
// shift amount comes from a 5-bit immediate field in the instruction word.
// immAmount is the raw encoded field, 0-31. The zero-amount special
// encodings of §4.1 apply here: LSL#0 passes the value through with the
// incoming carry preserved; LSR#0/ASR#0 behave as a shift by 32; ROR#0
// becomes a rotate-through-carry by one (RRX).
func ShiftImmediate(op ShiftOp, value uint32, immAmount uint32, carryIn bool) (result uint32, carryOut bool) {
	switch op {
	case ShiftLSL:
		if immAmount == 0 {
			return value, carryIn
		}
		return shiftLeft(value, immAmount)

	case ShiftLSR:
		if immAmount == 0 {
			// LSR#32: result zero, carry-out is the vacated bit 31.
			return 0, value&0x80000000 != 0
		}
		return shiftRightLogical(value, immAmount)

	case ShiftASR:
		if immAmount == 0 {
			immAmount = 32
		}
		return shiftRightArithmetic(value, immAmount)

	case ShiftROR:
		if immAmount == 0 {
			// RRX: rotate through carry by one place.
			out := value&1 != 0
			result := value>>1 | boolBit32(carryIn)
			return result, out
		}
		return rotateRight(value, immAmount)
	}
	return value, carryIn
}

// ShiftByRegister computes operand-2 (or a shifted memory address) when the
// shift amount comes from the low byte of a register, 0-255. A runtime
// amount of zero leaves the value and carry untouched regardless of mode
// (there is no "shift by 32" reinterpretation here, unlike the immediate
// path, since the instruction did not encode a literal zero). Amounts of
// exactly 32 and amounts beyond 32 follow the defined edge cases of §4.1:
// logical modes produce zero with the carry-out defined at 32 and zero
// carry beyond it; arithmetic right keeps sign-filling forever with the
// sign bit as a steady carry-out; rotate is periodic modulo 32.
func ShiftByRegister(op ShiftOp, value uint32, amount uint32, carryIn bool) (result uint32, carryOut bool) {
	if amount == 0 {
		return value, carryIn
	}

	switch op {
	case ShiftLSL:
		switch {
		case amount == 32:
			return 0, value&1 != 0
		case amount > 32:
			return 0, false
		default:
			return shiftLeft(value, amount)
		}

	case ShiftLSR:
		switch {
		case amount == 32:
			return 0, value&0x80000000 != 0
		case amount > 32:
			return 0, false
		default:
			return shiftRightLogical(value, amount)
		}

	case ShiftASR:
		if amount >= 32 {
			sign := value&0x80000000 != 0
			if sign {
				return 0xFFFFFFFF, true
			}
			return 0, false
		}
		return shiftRightArithmetic(value, amount)

	case ShiftROR:
		m := amount % 32
		if m == 0 {
			// A multiple of 32: value unchanged, carry becomes bit 31.
			return value, value&0x80000000 != 0
		}
		return rotateRight(value, m)
	}
	return value, carryIn
}

func shiftLeft(value, amount uint32) (uint32, bool) {
	carryOut := (value>>(32-amount))&1 != 0
	return value << amount, carryOut
}

func shiftRightLogical(value, amount uint32) (uint32, bool) {
	carryOut := (value>>(amount-1))&1 != 0
	return value >> amount, carryOut
}

func shiftRightArithmetic(value, amount uint32) (uint32, bool) {
	carryOut := (int32(value)>>(amount-1))&1 != 0
	return uint32(int32(value) >> amount), carryOut
}

func rotateRight(value, amount uint32) (uint32, bool) {
	amount &= 31
	if amount == 0 {
		return value, value&0x80000000 != 0
	}
	result := value>>amount | value<<(32-amount)
	carryOut := (value>>(amount-1))&1 != 0
	return result, carryOut
}

func boolBit32(v bool) uint32 {
	if v {
		return 0x80000000
	}
	return 0
}

package emu

// PSR is a 32-bit program status word represented as a plain integer with
// masked accessor/mutator functions, per the "packed bitfields" design note:
// a union-of-bitfields in the source becomes a named-accessor integer here,
// never a Go struct of bitfields. Equality is over the integer.
type PSR uint32

// Mode identifies one of the seven processor privilege modes. The mode
// field of a PSR is always one of these; any other 5-bit pattern is
// invalid and must never be written.
type Mode uint32

const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1B
	ModeSystem     Mode = 0x1F
)

func (m Mode) valid() bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeSystem:
		return true
	}
	return false
}

// String names a mode for diagnostics.
func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "usr"
	case ModeFIQ:
		return "fiq"
	case ModeIRQ:
		return "irq"
	case ModeSupervisor:
		return "svc"
	case ModeAbort:
		return "abt"
	case ModeUndefined:
		return "und"
	case ModeSystem:
		return "sys"
	default:
		return "???"
	}
}

// PSR bit positions.
const (
	psrModeMask  = 0x1F
	psrThumbBit  = 1 << 5
	psrFIQBit    = 1 << 6
	psrIRQBit    = 1 << 7
	psrReserved  = 0x0FFFFF00 // bits 8-27: read-only zero
	psrOverflow  = 1 << 28
	psrCarry     = 1 << 29
	psrZero      = 1 << 30
	psrNegative  = 1 << 31
	psrWriteMask = psrModeMask | psrThumbBit | psrFIQBit | psrIRQBit |
		psrOverflow | psrCarry | psrZero | psrNegative
)

// Mode returns the mode field of the PSR.
func (p PSR) Mode() Mode { return Mode(uint32(p) & psrModeMask) }

// SetMode replaces the mode field in place.
func (p *PSR) SetMode(m Mode) {
	*p = PSR(uint32(*p)&^psrModeMask | uint32(m)&psrModeMask)
}

// Narrow reports whether the instruction-set-mode bit selects the 16-bit
// narrow decoder.
func (p PSR) Narrow() bool { return uint32(p)&psrThumbBit != 0 }

// SetNarrow sets or clears the instruction-set-mode bit.
func (p *PSR) SetNarrow(v bool) {
	if v {
		*p |= psrThumbBit
	} else {
		*p &^= psrThumbBit
	}
}

// FIQDisabled reports the fast-interrupt disable bit.
func (p PSR) FIQDisabled() bool { return uint32(p)&psrFIQBit != 0 }

// SetFIQDisabled sets or clears the fast-interrupt disable bit.
func (p *PSR) SetFIQDisabled(v bool) {
	if v {
		*p |= psrFIQBit
	} else {
		*p &^= psrFIQBit
	}
}

// IRQDisabled reports the normal-interrupt disable bit.
func (p PSR) IRQDisabled() bool { return uint32(p)&psrIRQBit != 0 }

// SetIRQDisabled sets or clears the normal-interrupt disable bit.
func (p *PSR) SetIRQDisabled(v bool) {
	if v {
		*p |= psrIRQBit
	} else {
		*p &^= psrIRQBit
	}
}

// Flag accessors: N (negative), Z (zero), C (carry), V (overflow).

func (p PSR) N() bool { return uint32(p)&psrNegative != 0 }
func (p PSR) Z() bool { return uint32(p)&psrZero != 0 }
func (p PSR) C() bool { return uint32(p)&psrCarry != 0 }
func (p PSR) V() bool { return uint32(p)&psrOverflow != 0 }

func setBit(p *PSR, mask uint32, v bool) {
	if v {
		*p |= PSR(mask)
	} else {
		*p &^= PSR(mask)
	}
}

func (p *PSR) SetN(v bool) { setBit(p, psrNegative, v) }
func (p *PSR) SetZ(v bool) { setBit(p, psrZero, v) }
func (p *PSR) SetC(v bool) { setBit(p, psrCarry, v) }
func (p *PSR) SetV(v bool) { setBit(p, psrOverflow, v) }

// Raw returns the bit pattern as written by a guest MSR/data-processing
// transfer into the status word, with the reserved field forced to zero.
func (p PSR) Raw() uint32 { return uint32(p) &^ psrReserved }

// SetRaw replaces flag, control, and mode bits from a guest-supplied word,
// masking out the reserved field and ignoring bits outside psrWriteMask.
// This is the full-word write path (e.g. MSR cpsr, Rn or a data-processing
// instruction whose destination is r15 with the set-flags bit asserted).
func (p *PSR) SetRaw(word uint32) {
	*p = PSR(word & psrWriteMask)
}

// SetFlagsOnly replaces only the N/Z/C/V bits, leaving mode, T, I, F intact.
// This is the flags-field-only MSR path (MSR cpsr_flg, Rn).
func (p *PSR) SetFlagsOnly(word uint32) {
	*p = PSR(uint32(*p)&^uint32(psrNegative|psrZero|psrCarry|psrOverflow) | word&uint32(psrNegative|psrZero|psrCarry|psrOverflow))
}

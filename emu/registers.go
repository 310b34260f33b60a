package emu

// Registers holds the sixteen general-purpose registers plus the banked
// copies used by privileged modes. The C original names each banked
// register as a distinct struct field (r13_fiq, r14_svc, ...); the
// idiomatic Go translation is a mode-indexed array of small banked-register
// structs, selected by the processor's current mode.
//
// Register 15 (the program counter) and the current status word are never
// banked and live outside this array; the saved status word is kept per
// privileged bank in spsr.
type Registers struct {
	r [16]uint32 // r0-r15; r13/r14 (and r8-r12 under FIQ) are the CURRENT mode's view

	banks [bankCount]bank

	cpsr PSR
	spsr [bankCount]PSR // saved status word per privileged bank; bankUser's entry is unused
}

type bank struct {
	r8, r9, r10, r11, r12 uint32 // only meaningful for bankFIQ
	r13, r14              uint32
}

// Bank indices. User and System modes share bank 0, matching the real
// hardware's register aliasing (§3: "the mode field... selects which bank
// is visible"; System mode has no registers of its own).
const (
	bankUser = iota
	bankFIQ
	bankSupervisor
	bankAbort
	bankIRQ
	bankUndefined
	bankCount
)

func bankFor(m Mode) int {
	switch m {
	case ModeFIQ:
		return bankFIQ
	case ModeSupervisor:
		return bankSupervisor
	case ModeAbort:
		return bankAbort
	case ModeIRQ:
		return bankIRQ
	case ModeUndefined:
		return bankUndefined
	default: // ModeUser, ModeSystem
		return bankUser
	}
}

// NewRegisters returns a register file reset to User mode, wide
// instruction set, all registers zero.
func NewRegisters() *Registers {
	rg := &Registers{}
	rg.cpsr.SetMode(ModeUser)
	return rg
}

// CPSR returns the current program status word.
func (rg *Registers) CPSR() PSR { return rg.cpsr }

// SetCPSR installs a full replacement status word, swapping register banks
// if the mode field changed. Callers that only want to change a subset of
// bits should read CPSR, mutate, and call SetCPSR with the result.
func (rg *Registers) SetCPSR(p PSR) {
	rg.switchBank(rg.cpsr.Mode(), p.Mode())
	rg.cpsr = p
}

// SPSR returns the saved status word of the current mode. In User or
// System mode there is no saved status word; callers must not reach this
// path (the instruction set provides no encoding that reads SPSR in those
// modes without first checking the mode, per §4.1's "privileged return").
func (rg *Registers) SPSR() PSR {
	return rg.spsr[bankFor(rg.cpsr.Mode())]
}

// SetSPSR writes the saved status word of the current mode.
func (rg *Registers) SetSPSR(p PSR) {
	rg.spsr[bankFor(rg.cpsr.Mode())] = p
}

// switchBank copies the live r8-r14 window into the outgoing mode's bank
// and loads the incoming mode's bank into the live window. Called whenever
// the mode field of CPSR changes, whether from an MSR, a privileged SPSR
// restore, or exception entry.
func (rg *Registers) switchBank(from, to Mode) {
	fb, tb := bankFor(from), bankFor(to)
	if fb == tb {
		return
	}

	save := &rg.banks[fb]
	save.r13, save.r14 = rg.r[13], rg.r[14]

	// r8-r12 are shared by every non-FIQ bank and live in banks[bankUser]
	// whenever the live window isn't FIQ's own; FIQ keeps a private copy.
	if fb == bankFIQ {
		save.r8, save.r9, save.r10, save.r11, save.r12 = rg.r[8], rg.r[9], rg.r[10], rg.r[11], rg.r[12]
	} else {
		u := &rg.banks[bankUser]
		u.r8, u.r9, u.r10, u.r11, u.r12 = rg.r[8], rg.r[9], rg.r[10], rg.r[11], rg.r[12]
	}

	load := &rg.banks[tb]
	rg.r[13], rg.r[14] = load.r13, load.r14
	if tb == bankFIQ {
		rg.r[8], rg.r[9], rg.r[10], rg.r[11], rg.r[12] = load.r8, load.r9, load.r10, load.r11, load.r12
	} else {
		u := &rg.banks[bankUser]
		rg.r[8], rg.r[9], rg.r[10], rg.r[11], rg.r[12] = u.r8, u.r9, u.r10, u.r11, u.r12
	}
}

// ReadRegister returns register index (0-15) as seen by the currently
// executing instruction, including the PC-reads-as-prefetched-value offset
// handled by the caller (§4.1: operand-2 register 15 reads eight bytes
// past the executing instruction). This function itself returns the raw
// program counter; callers needing the +8 adjustment apply it themselves
// since the adjustment depends on instruction-set mode and call site.
func (rg *Registers) ReadRegister(index int) uint32 {
	return rg.r[index&0xF]
}

// WriteRegister stores to a general register. Writing r15 does not by
// itself flush the pipeline or retire a branch; callers that write r15
// must invalidate the pipeline explicitly (see Processor.flushPipeline).
func (rg *Registers) WriteRegister(index int, value uint32) {
	rg.r[index&0xF] = value
}

// PC returns the raw program counter (register 15).
func (rg *Registers) PC() uint32 { return rg.r[15] }

// SetPC writes the program counter directly, bypassing the general
// register write path. Used by branch and exception-entry handlers, which
// must also invalidate the pipeline.
func (rg *Registers) SetPC(v uint32) { rg.r[15] = v }

package emu

// mulCycles counts the extra internal cycles a multiply charges beyond
// its base cost, by how many of Rs's top three bytes are "uninteresting":
// all zero for an unsigned multiply, or all zero/all one (a sign-extended
// pattern) for a signed one. This mirrors the real booth's-algorithm
// early-termination the hardware performs.
func mulCycles(rs uint32, signed bool) int {
	for m, shift := range []uint{8, 16, 24} {
		top := rs >> shift
		if top == 0 || (signed && top == 0xFFFFFFFF>>shift) {
			return m + 1
		}
	}
	return 4
}

// armMultiply implements MUL/MLA: Rd = Rm*Rs (+ Rn if accumulate). Rd and
// Rm must not be r15 and must differ, per §4.1; this core does not
// validate that restriction and simply reads whatever registers the
// instruction names.
func (p *Processor) armMultiply(inst ArmInstruction) int {
	word := inst.Word
	accumulate := word&(1<<21) != 0
	setFlags := word&(1<<20) != 0
	rd := int(word >> 16 & 0xF)
	rn := int(word >> 12 & 0xF)
	rs := int(word >> 8 & 0xF)
	rm := int(word & 0xF)

	rsVal := p.Regs.ReadRegister(rs)
	result := p.Regs.ReadRegister(rm) * rsVal
	if accumulate {
		result += p.Regs.ReadRegister(rn)
	}
	p.Regs.WriteRegister(rd, result)

	if setFlags {
		cpsr := p.Regs.CPSR()
		cpsr.SetN(result&0x80000000 != 0)
		cpsr.SetZ(result == 0)
		p.Regs.SetCPSR(cpsr)
	}

	internal := mulCycles(rsVal, false)
	if accumulate {
		internal++
	}
	return p.tick(0, 1, internal)
}

// armMultiplyLong implements UMULL/UMLAL/SMULL/SMLAL: a 64-bit product
// split across RdHi:RdLo, optionally accumulated onto the existing
// RdHi:RdLo pair.
func (p *Processor) armMultiplyLong(inst ArmInstruction) int {
	word := inst.Word
	signed := word&(1<<22) != 0
	accumulate := word&(1<<21) != 0
	setFlags := word&(1<<20) != 0
	rdHi := int(word >> 16 & 0xF)
	rdLo := int(word >> 12 & 0xF)
	rs := int(word >> 8 & 0xF)
	rm := int(word & 0xF)

	rsVal := p.Regs.ReadRegister(rs)
	rmVal := p.Regs.ReadRegister(rm)

	var product uint64
	if signed {
		product = uint64(int64(int32(rmVal)) * int64(int32(rsVal)))
	} else {
		product = uint64(rmVal) * uint64(rsVal)
	}

	if accumulate {
		existing := uint64(p.Regs.ReadRegister(rdHi))<<32 | uint64(p.Regs.ReadRegister(rdLo))
		product += existing
	}

	p.Regs.WriteRegister(rdLo, uint32(product))
	p.Regs.WriteRegister(rdHi, uint32(product>>32))

	if setFlags {
		cpsr := p.Regs.CPSR()
		cpsr.SetN(product&0x8000000000000000 != 0)
		cpsr.SetZ(product == 0)
		p.Regs.SetCPSR(cpsr)
	}

	internal := mulCycles(rsVal, signed) + 1
	if accumulate {
		internal++
	}
	return p.tick(0, 1, internal)
}

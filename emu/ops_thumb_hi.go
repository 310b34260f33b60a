package emu

// thumbHiRegisterOp implements format 5: ADD/CMP/MOV/BX operating across
// the full r0-r15 register set (the other narrow formats reach only
// r0-r7). H1/H2 extend Rd/Rs into the high half of the register file.
func (p *Processor) thumbHiRegisterOp(inst ThumbInstruction) int {
	hw := inst.Halfword
	op := hw >> 8 & 0x3
	h1 := hw&(1<<7) != 0
	h2 := hw&(1<<6) != 0
	rs := int(hw >> 3 & 0x7)
	rd := int(hw & 0x7)
	if h2 {
		rs += 8
	}
	if h1 {
		rd += 8
	}

	switch op {
	case 0x0: // ADD
		result := p.readOperandReg(rd) + p.readOperandReg(rs)
		if rd == 15 {
			p.Regs.SetPC(result &^ 1)
			p.flushPipeline()
			return p.tick(1, 1, 1)
		}
		p.Regs.WriteRegister(rd, result)

	case 0x1: // CMP
		a, b := p.readOperandReg(rd), p.readOperandReg(rs)
		result := a - b
		cpsr := p.Regs.CPSR()
		updateFlagsSubtraction(&cpsr, a, b, 0, result)
		p.Regs.SetCPSR(cpsr)

	case 0x2: // MOV
		result := p.readOperandReg(rs)
		if rd == 15 {
			p.Regs.SetPC(result &^ 1)
			p.flushPipeline()
			return p.tick(1, 1, 1)
		}
		p.Regs.WriteRegister(rd, result)

	case 0x3: // BX
		target := p.readOperandReg(rs)
		cpsr := p.Regs.CPSR()
		cpsr.SetNarrow(target&1 != 0)
		p.Regs.SetCPSR(cpsr)
		p.Regs.SetPC(target &^ 1)
		p.flushPipeline()
		return p.tick(1, 1, 1)
	}

	return p.tick(0, 1, 0)
}

// thumbPCRelativeLoad implements format 6: Rd = word at (PC & ~3) + an
// 8-bit immediate word offset. The base PC reads as the address of this
// instruction plus four, word-aligned, which on the narrow pipeline's
// +4 prefetch distance is simply the current fetch address.
func (p *Processor) thumbPCRelativeLoad(inst ThumbInstruction) int {
	hw := inst.Halfword
	rd := int(hw >> 8 & 0x7)
	imm := uint32(hw&0xFF) << 2

	base := (p.decodedAddr + 4) &^ 3
	value, c := p.bus.Read32(base + imm)
	p.Regs.WriteRegister(rd, value)
	return p.tick(1, 0, c)
}

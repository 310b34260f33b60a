package emu

// armBranchExchange implements BX: jump to the address in Rm, with bit 0
// of that address selecting the instruction-set mode (1 = narrow) rather
// than being part of the target address.
func (p *Processor) armBranchExchange(inst ArmInstruction) int {
	rm := int(inst.Word & 0xF)
	target := p.readOperandReg(rm)

	cpsr := p.Regs.CPSR()
	cpsr.SetNarrow(target&1 != 0)
	p.Regs.SetCPSR(cpsr)

	p.Regs.SetPC(target &^ 1)
	p.flushPipeline()
	return p.tick(1, 1, 1)
}

// armBranchLink implements B/BL: a PC-relative jump by a signed 24-bit
// word offset (shifted left two to a byte offset), optionally saving the
// return address in r14 when the link bit is set.
func (p *Processor) armBranchLink(inst ArmInstruction) int {
	link := inst.Word&(1<<24) != 0
	offset := signExtend(inst.Word&0x00FFFFFF, 24) << 2

	if link {
		p.Regs.WriteRegister(14, p.decodedAddr+4)
	}

	target := uint32(int32(p.decodedAddr+8) + int32(offset))
	p.Regs.SetPC(target)
	p.flushPipeline()
	return p.tick(1, 1, 1)
}

func signExtend(value uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(value<<shift) >> shift
}

// thumbUnconditionalBranch implements the narrow unconditional branch: an
// 11-bit signed word offset in halfword units.
func (p *Processor) thumbUnconditionalBranch(inst ThumbInstruction) int {
	offset := signExtend(uint32(inst.Halfword&0x07FF), 11) << 1
	target := uint32(int32(p.decodedAddr+4) + int32(offset))
	p.Regs.SetPC(target)
	p.flushPipeline()
	return p.tick(1, 1, 1)
}

// thumbConditionalBranch implements the narrow conditional branch: an
// 8-bit signed word offset in halfword units, gated by the condition
// field in bits 11-8 (the only place the narrow set carries a condition).
func (p *Processor) thumbConditionalBranch(inst ThumbInstruction) int {
	cond := uint8(inst.Halfword >> 8 & 0xF)
	if !conditionMet(cond, p.Regs.CPSR()) {
		return p.tick(0, 1, 0)
	}
	offset := signExtend(uint32(inst.Halfword&0xFF), 8) << 1
	target := uint32(int32(p.decodedAddr+4) + int32(offset))
	p.Regs.SetPC(target)
	p.flushPipeline()
	return p.tick(1, 1, 1)
}

// thumbLongBranchLink implements the two-halfword long branch-with-link
// sequence: the first halfword (H=0) stashes PC+4+offset<<12 into r14;
// the second (H=1) adds the low 11-bit offset, jumps there, and sets r14
// to the return address with bit 0 set (odd, as BL always returns into
// narrow mode).
func (p *Processor) thumbLongBranchLink(inst ThumbInstruction) int {
	high := inst.Halfword&(1<<11) != 0
	off := uint32(inst.Halfword & 0x07FF)

	if !high {
		offset := signExtend(off, 11) << 12
		target := uint32(int32(p.decodedAddr+4) + int32(offset))
		p.Regs.WriteRegister(14, target)
		return p.tick(0, 1, 0)
	}

	lr := p.Regs.ReadRegister(14)
	target := lr + off<<1
	nextLR := (p.decodedAddr + 2) | 1
	p.Regs.WriteRegister(14, nextLR)
	p.Regs.SetPC(target)
	p.flushPipeline()
	return p.tick(1, 1, 1)
}

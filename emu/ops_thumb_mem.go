package emu

import "math/bits"

// thumbLoadStoreRegOffset implements format 7: word/byte load or store at
// Rb + Ro.
func (p *Processor) thumbLoadStoreRegOffset(inst ThumbInstruction) int {
	hw := inst.Halfword
	load := hw&(1<<11) != 0
	byteWidth := hw&(1<<10) != 0
	ro := int(hw >> 6 & 0x7)
	rb := int(hw >> 3 & 0x7)
	rd := int(hw & 0x7)

	addr := p.Regs.ReadRegister(rb) + p.Regs.ReadRegister(ro)

	if load {
		var value uint32
		var c int
		if byteWidth {
			b, cc := p.bus.Read8(addr)
			value, c = uint32(b), cc
		} else {
			v, cc := p.bus.Read32(addr)
			value, c = v, cc
		}
		p.Regs.WriteRegister(rd, value)
		return p.tick(1, 0, c)
	}

	var c int
	if byteWidth {
		c = p.bus.Write8(addr, uint8(p.Regs.ReadRegister(rd)))
	} else {
		c = p.bus.Write32(addr, p.Regs.ReadRegister(rd))
	}
	return p.tick(1, 0, c)
}

// thumbLoadStoreSignExtended implements format 8: halfword load/store and
// sign-extending byte/halfword load, at Rb + Ro.
func (p *Processor) thumbLoadStoreSignExtended(inst ThumbInstruction) int {
	hw := inst.Halfword
	h := hw&(1<<11) != 0
	s := hw&(1<<10) != 0
	ro := int(hw >> 6 & 0x7)
	rb := int(hw >> 3 & 0x7)
	rd := int(hw & 0x7)

	addr := p.Regs.ReadRegister(rb) + p.Regs.ReadRegister(ro)

	switch {
	case !s && !h: // STRH
		c := p.bus.Write16(addr, uint16(p.Regs.ReadRegister(rd)))
		return p.tick(1, 0, c)
	case !s && h: // LDRH
		v, c := p.bus.Read16(addr)
		p.Regs.WriteRegister(rd, misalignedUnsignedHalfword(addr, v))
		return p.tick(1, 0, c)
	case s && !h: // LDSB
		v, c := p.bus.Read8(addr)
		p.Regs.WriteRegister(rd, uint32(int32(int8(v))))
		return p.tick(1, 0, c)
	default: // s && h: LDSH
		v, c := p.bus.Read16(addr)
		p.Regs.WriteRegister(rd, misalignedSignedHalfword(addr, v))
		return p.tick(1, 0, c)
	}
}

// thumbLoadStoreImmOffset implements format 9: word/byte load or store at
// Rb + a 5-bit immediate, scaled by four for word transfers.
func (p *Processor) thumbLoadStoreImmOffset(inst ThumbInstruction) int {
	hw := inst.Halfword
	byteWidth := hw&(1<<12) != 0
	load := hw&(1<<11) != 0
	imm := uint32(hw >> 6 & 0x1F)
	rb := int(hw >> 3 & 0x7)
	rd := int(hw & 0x7)

	if !byteWidth {
		imm <<= 2
	}
	addr := p.Regs.ReadRegister(rb) + imm

	if load {
		var value uint32
		var c int
		if byteWidth {
			b, cc := p.bus.Read8(addr)
			value, c = uint32(b), cc
		} else {
			v, cc := p.bus.Read32(addr)
			value, c = v, cc
		}
		p.Regs.WriteRegister(rd, value)
		return p.tick(1, 0, c)
	}

	var c int
	if byteWidth {
		c = p.bus.Write8(addr, uint8(p.Regs.ReadRegister(rd)))
	} else {
		c = p.bus.Write32(addr, p.Regs.ReadRegister(rd))
	}
	return p.tick(1, 0, c)
}

// thumbLoadStoreHalfword implements format 10: halfword load or store at
// Rb + a 5-bit immediate scaled by two.
func (p *Processor) thumbLoadStoreHalfword(inst ThumbInstruction) int {
	hw := inst.Halfword
	load := hw&(1<<11) != 0
	imm := uint32(hw>>6&0x1F) << 1
	rb := int(hw >> 3 & 0x7)
	rd := int(hw & 0x7)

	addr := p.Regs.ReadRegister(rb) + imm

	if load {
		v, c := p.bus.Read16(addr)
		p.Regs.WriteRegister(rd, misalignedUnsignedHalfword(addr, v))
		return p.tick(1, 0, c)
	}
	c := p.bus.Write16(addr, uint16(p.Regs.ReadRegister(rd)))
	return p.tick(1, 0, c)
}

// thumbSPRelativeLoadStore implements format 11: word load or store at
// SP + an 8-bit immediate scaled by four.
func (p *Processor) thumbSPRelativeLoadStore(inst ThumbInstruction) int {
	hw := inst.Halfword
	load := hw&(1<<11) != 0
	rd := int(hw >> 8 & 0x7)
	imm := uint32(hw&0xFF) << 2

	addr := p.Regs.ReadRegister(13) + imm

	if load {
		v, c := p.bus.Read32(addr)
		p.Regs.WriteRegister(rd, v)
		return p.tick(1, 0, c)
	}
	c := p.bus.Write32(addr, p.Regs.ReadRegister(rd))
	return p.tick(1, 0, c)
}

// thumbLoadAddress implements format 12: Rd = (PC or SP) + an 8-bit
// immediate scaled by four; no memory access.
func (p *Processor) thumbLoadAddress(inst ThumbInstruction) int {
	hw := inst.Halfword
	useSP := hw&(1<<11) != 0
	rd := int(hw >> 8 & 0x7)
	imm := uint32(hw&0xFF) << 2

	var base uint32
	if useSP {
		base = p.Regs.ReadRegister(13)
	} else {
		base = (p.decodedAddr + 4) &^ 3
	}
	p.Regs.WriteRegister(rd, base+imm)
	return p.tick(0, 1, 0)
}

// thumbAddOffsetToSP implements format 13: SP += a signed 7-bit immediate
// scaled by four.
func (p *Processor) thumbAddOffsetToSP(inst ThumbInstruction) int {
	hw := inst.Halfword
	negative := hw&(1<<7) != 0
	imm := uint32(hw&0x7F) << 2

	sp := p.Regs.ReadRegister(13)
	if negative {
		sp -= imm
	} else {
		sp += imm
	}
	p.Regs.WriteRegister(13, sp)
	return p.tick(0, 1, 0)
}

// thumbPushPop implements format 14: push/pop a subset of r0-r7, plus
// optionally LR (on push) or PC (on pop), always via SP as a full-
// descending stack.
func (p *Processor) thumbPushPop(inst ThumbInstruction) int {
	hw := inst.Halfword
	load := hw&(1<<11) != 0
	extra := hw&(1<<8) != 0
	list := uint8(hw & 0xFF)

	count := bits.OnesCount8(list)
	if extra {
		count++
	}

	sp := p.Regs.ReadRegister(13)
	var cycles int

	if load {
		addr := sp
		for i := 0; i < 8; i++ {
			if list&(1<<uint(i)) == 0 {
				continue
			}
			v, c := p.bus.Read32(addr)
			p.Regs.WriteRegister(i, v)
			cycles += c
			addr += 4
		}
		if extra {
			v, c := p.bus.Read32(addr)
			p.Regs.SetPC(v &^ 1)
			p.flushPipeline()
			cycles += c
			addr += 4
		}
		p.Regs.WriteRegister(13, addr)
	} else {
		addr := sp - uint32(count)*4
		p.Regs.WriteRegister(13, addr)
		for i := 0; i < 8; i++ {
			if list&(1<<uint(i)) == 0 {
				continue
			}
			c := p.bus.Write32(addr, p.Regs.ReadRegister(i))
			cycles += c
			addr += 4
		}
		if extra {
			c := p.bus.Write32(addr, p.Regs.ReadRegister(14))
			cycles += c
		}
	}

	return p.tick(1, count-1, 1) + cycles
}

// thumbMultipleLoadStore implements format 15: block load/store over
// r0-r7 at Rb, always incrementing after with base writeback. An empty
// list leaves the base unchanged and transfers nothing, since the
// narrow encoding has no r15-substitution escape hatch the wide block
// transfer uses.
func (p *Processor) thumbMultipleLoadStore(inst ThumbInstruction) int {
	hw := inst.Halfword
	load := hw&(1<<11) != 0
	rb := int(hw >> 8 & 0x7)
	list := uint8(hw & 0xFF)

	addr := p.Regs.ReadRegister(rb)
	var cycles int
	count := 0

	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		count++
		if load {
			v, c := p.bus.Read32(addr)
			p.Regs.WriteRegister(i, v)
			cycles += c
		} else {
			c := p.bus.Write32(addr, p.Regs.ReadRegister(i))
			cycles += c
		}
		addr += 4
	}

	p.Regs.WriteRegister(rb, addr)

	if count == 0 {
		return p.tick(1, 0, 0)
	}
	return p.tick(1, count-1, 1) + cycles
}

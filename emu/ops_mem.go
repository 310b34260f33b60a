package emu

import "math/bits"

// transferOffset computes the 12-bit offset field of a single data
// transfer: either a plain 12-bit immediate, or a register shifted by an
// immediate amount (never by another register, unlike a data-processing
// operand2).
func (p *Processor) transferOffset(word uint32) uint32 {
	if word&(1<<25) == 0 {
		return word & 0xFFF
	}
	rm := int(word & 0xF)
	shiftType := ShiftOp(word >> 5 & 0x3)
	amount := word >> 7 & 0x1F
	value, _ := ShiftImmediate(shiftType, p.Regs.ReadRegister(rm), amount, p.Regs.CPSR().C())
	return value
}

// armSingleDataTransfer implements LDR/STR in both byte and word widths,
// with pre/post indexing and optional base writeback.
func (p *Processor) armSingleDataTransfer(inst ArmInstruction) int {
	word := inst.Word
	pre := word&(1<<24) != 0
	up := word&(1<<23) != 0
	byteWidth := word&(1<<22) != 0
	writeback := word&(1<<21) != 0
	load := word&(1<<20) != 0
	rn := int(word >> 16 & 0xF)
	rd := int(word >> 12 & 0xF)

	offset := p.transferOffset(word)
	base := p.readOperandReg(rn)

	addr := base
	if pre {
		addr = applyOffset(base, offset, up)
	}

	var cycles int
	if load {
		var value uint32
		if byteWidth {
			b, c := p.bus.Read8(addr)
			value = uint32(b)
			cycles = p.tick(1, 0, c)
		} else {
			v, c := p.bus.Read32(addr)
			value = v
			cycles = p.tick(1, 0, c)
		}
		if rd == 15 {
			p.Regs.SetPC(value &^ 3)
			p.flushPipeline()
		} else {
			p.Regs.WriteRegister(rd, value)
		}
	} else {
		value := p.readOperandReg(rd)
		if byteWidth {
			c := p.bus.Write8(addr, uint8(value))
			cycles = p.tick(1, 0, c)
		} else {
			c := p.bus.Write32(addr, value)
			cycles = p.tick(1, 0, c)
		}
	}

	if !pre {
		addr = applyOffset(base, offset, up)
	}
	if (!pre || writeback) && rn != 15 {
		p.Regs.WriteRegister(rn, addr)
	}

	return cycles
}

func applyOffset(base, offset uint32, up bool) uint32 {
	if up {
		return base + offset
	}
	return base - offset
}

// misalignedUnsignedHalfword applies the documented LDRH quirk: reading an
// odd address returns the aligned halfword rotated right by 8 rather than
// the (nonexistent) halfword actually addressed.
func misalignedUnsignedHalfword(addr uint32, h uint16) uint32 {
	if addr&1 != 0 {
		return uint32(h>>8 | h<<8) // byte-swap within the halfword
	}
	return uint32(h)
}

// misalignedSignedHalfword applies the documented LDRSH quirk: reading an
// odd address sign-extends the byte at that address (the high byte of the
// aligned halfword) instead of sign-extending a halfword.
func misalignedSignedHalfword(addr uint32, h uint16) uint32 {
	if addr&1 != 0 {
		return uint32(int32(int8(uint8(h >> 8))))
	}
	return uint32(int32(int16(h)))
}

// armHalfwordTransfer implements LDRH/STRH/LDRSB/LDRSH: halfword and
// sign-extending byte/halfword loads, and halfword stores, addressed by
// either an immediate split across bits 11-8 and 3-0 or a plain register.
func (p *Processor) armHalfwordTransfer(inst ArmInstruction) int {
	word := inst.Word
	pre := word&(1<<24) != 0
	up := word&(1<<23) != 0
	immOffset := word&(1<<22) != 0
	writeback := word&(1<<21) != 0
	load := word&(1<<20) != 0
	rn := int(word >> 16 & 0xF)
	rd := int(word >> 12 & 0xF)
	sh := word >> 5 & 0x3

	var offset uint32
	if immOffset {
		offset = word>>4&0xF0 | word&0xF
	} else {
		rm := int(word & 0xF)
		offset = p.Regs.ReadRegister(rm)
	}

	base := p.readOperandReg(rn)
	addr := base
	if pre {
		addr = applyOffset(base, offset, up)
	}

	var cycles int
	if load {
		var value uint32
		var c int
		switch sh {
		case 0x1: // unsigned halfword
			h, cc := p.bus.Read16(addr)
			value, c = misalignedUnsignedHalfword(addr, h), cc
		case 0x2: // signed byte
			b, cc := p.bus.Read8(addr)
			value, c = uint32(int32(int8(b))), cc
		case 0x3: // signed halfword
			h, cc := p.bus.Read16(addr)
			value, c = misalignedSignedHalfword(addr, h), cc
		}
		cycles = p.tick(1, 0, c)
		p.Regs.WriteRegister(rd, value)
	} else {
		c := p.bus.Write16(addr, uint16(p.readOperandReg(rd)))
		cycles = p.tick(1, 0, c)
	}

	if !pre {
		addr = applyOffset(base, offset, up)
	}
	if (!pre || writeback) && rn != 15 {
		p.Regs.WriteRegister(rn, addr)
	}

	return cycles
}

// armSwap implements SWP/SWPB: an atomic (from the guest's perspective)
// read-modify-write that loads the memory value into Rd and stores Rm to
// the same address, in that order.
func (p *Processor) armSwap(inst ArmInstruction) int {
	word := inst.Word
	byteWidth := word&(1<<22) != 0
	rn := int(word >> 16 & 0xF)
	rd := int(word >> 12 & 0xF)
	rm := int(word & 0xF)

	addr := p.Regs.ReadRegister(rn)
	newValue := p.Regs.ReadRegister(rm)

	if byteWidth {
		old, c1 := p.bus.Read8(addr)
		c2 := p.bus.Write8(addr, uint8(newValue))
		p.Regs.WriteRegister(rd, uint32(old))
		return p.tick(1, 0, c1+c2+1)
	}

	old, c1 := p.bus.Read32(addr)
	c2 := p.bus.Write32(addr, newValue)
	p.Regs.WriteRegister(rd, old)
	return p.tick(1, 0, c1+c2+1)
}

// armBlockTransfer implements LDM/STM: transfer of an arbitrary subset of
// registers named by a 16-bit bitmask, in ascending register-number
// order regardless of the addressing direction. An empty register list
// is architecturally undefined; the real hardware transfers r15 alone
// and advances the base by the full 64-byte stride, which is the
// behavior implemented here.
func (p *Processor) armBlockTransfer(inst ArmInstruction) int {
	word := inst.Word
	pre := word&(1<<24) != 0
	up := word&(1<<23) != 0
	forceUser := word&(1<<22) != 0
	writeback := word&(1<<21) != 0
	load := word&(1<<20) != 0
	rn := int(word >> 16 & 0xF)
	list := uint16(word & 0xFFFF)

	count := bits.OnesCount16(list)
	stride := uint32(count) * 4
	if count == 0 {
		list = 1 << 15
		count = 1
		stride = 0x40
	}

	base := p.Regs.ReadRegister(rn)
	var lowest, highest uint32
	if up {
		lowest = base
		highest = base + stride
	} else {
		lowest = base - stride
		highest = base
	}

	addr := lowest
	if (up && pre) || (!up && !pre) {
		addr += 4
	}

	baseInList := list&(1<<uint(rn)) != 0
	originalBase := base

	usingUserBank := forceUser && (!load || list&(1<<15) == 0)

	var cycles int
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		if load {
			value, c := p.bus.Read32(addr)
			cycles += c
			if i == 15 {
				p.Regs.SetPC(value &^ 3)
				p.flushPipeline()
				if forceUser {
					p.Regs.SetCPSR(p.Regs.SPSR())
				}
			} else if usingUserBank {
				p.writeUserBankRegister(i, value)
			} else {
				p.Regs.WriteRegister(i, value)
			}
		} else {
			var value uint32
			if usingUserBank {
				value = p.readUserBankRegister(i)
			} else if i == int(rn) && baseInList && i != firstSetBit(list) && writeback {
				// Rn in list, not first: stores the updated base.
				value = lowest
				if up {
					value = highest
				}
			} else if i == int(rn) {
				value = originalBase
			} else {
				value = p.readOperandReg(i)
			}
			c := p.bus.Write32(addr, value)
			cycles += c
		}
		addr += 4
	}

	if writeback && (!load || !baseInList) {
		if up {
			p.Regs.WriteRegister(rn, highest)
		} else {
			p.Regs.WriteRegister(rn, lowest)
		}
	}

	return p.tick(1, count-1, 1) + cycles
}

func firstSetBit(list uint16) int {
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}

// readUserBankRegister and writeUserBankRegister access the User-mode
// register bank regardless of current mode, for the S-bit "force user"
// block transfer variant used by exception handlers to save/restore
// User-mode context.
func (p *Processor) readUserBankRegister(index int) uint32 {
	if index < 8 || index > 14 {
		return p.Regs.ReadRegister(index)
	}
	cur := p.Regs.CPSR().Mode()
	if bankFor(cur) == bankUser {
		return p.Regs.ReadRegister(index)
	}
	saved := p.Regs.banks[bankUser]
	switch index {
	case 8:
		return saved.r8
	case 9:
		return saved.r9
	case 10:
		return saved.r10
	case 11:
		return saved.r11
	case 12:
		return saved.r12
	case 13:
		return saved.r13
	case 14:
		return saved.r14
	}
	return 0
}

func (p *Processor) writeUserBankRegister(index int, value uint32) {
	if index < 8 || index > 14 {
		p.Regs.WriteRegister(index, value)
		return
	}
	cur := p.Regs.CPSR().Mode()
	if bankFor(cur) == bankUser {
		p.Regs.WriteRegister(index, value)
		return
	}
	saved := &p.Regs.banks[bankUser]
	switch index {
	case 8:
		saved.r8 = value
	case 9:
		saved.r9 = value
	case 10:
		saved.r10 = value
	case 11:
		saved.r11 = value
	case 12:
		saved.r12 = value
	case 13:
		saved.r13 = value
	case 14:
		saved.r14 = value
	}
}

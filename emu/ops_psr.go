package emu

// armPSRTransfer implements MRS (status word to register) and MSR
// (register or immediate to status word), covering both the CPSR and
// SPSR forms. The three sub-encodings share format bits 27-23 and are
// distinguished here the same way DecodeArm told them apart.
func (p *Processor) armPSRTransfer(inst ArmInstruction) int {
	word := inst.Word
	usesSPSR := word&(1<<22) != 0

	switch {
	case word&0x0FBF0FFF == 0x010F0000:
		// MRS Rd, (C|S)PSR
		rd := int(word >> 12 & 0xF)
		var src PSR
		if usesSPSR {
			src = p.Regs.SPSR()
		} else {
			src = p.Regs.CPSR()
		}
		p.Regs.WriteRegister(rd, src.Raw())

	case word&0x0FBFFFF0 == 0x0129F000:
		// MSR (C|S)PSR, Rm (full word)
		rm := int(word & 0xF)
		p.writePSR(usesSPSR, p.Regs.ReadRegister(rm), true)

	case word&0x0FBFF000 == 0x0328F000:
		// MSR (C|S)PSR_flg, #imm (flag bits only, rotated immediate)
		imm := word & 0xFF
		rotate := (word >> 8 & 0xF) * 2
		value, _ := rotateRight(imm, rotate)
		p.writePSR(usesSPSR, value, false)

	default:
		// MSR (C|S)PSR_flg, Rm: flags-only register form.
		rm := int(word & 0xF)
		p.writePSR(usesSPSR, p.Regs.ReadRegister(rm), false)
	}

	return p.tick(0, 1, 0)
}

// writePSR applies a guest-supplied status word, either in full (control
// bits and mode included, only legal from a privileged mode writing
// CPSR) or restricted to the N/Z/C/V flag bits.
func (p *Processor) writePSR(toSPSR bool, value uint32, full bool) {
	if toSPSR {
		spsr := p.Regs.SPSR()
		if full {
			spsr.SetRaw(value)
		} else {
			spsr.SetFlagsOnly(value)
		}
		p.Regs.SetSPSR(spsr)
		return
	}

	cpsr := p.Regs.CPSR()
	if full {
		cpsr.SetRaw(value)
		p.Regs.SetCPSR(cpsr)
	} else {
		cpsr.SetFlagsOnly(value)
		p.Regs.SetCPSR(cpsr)
	}
}

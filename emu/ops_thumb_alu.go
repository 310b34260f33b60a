package emu

// thumbMoveShifted implements format 1: Rd = Rs shifted by a 5-bit
// immediate, always updating flags.
func (p *Processor) thumbMoveShifted(inst ThumbInstruction) int {
	hw := inst.Halfword
	op := ShiftOp(hw >> 11 & 0x3)
	amount := uint32(hw >> 6 & 0x1F)
	rs := int(hw >> 3 & 0x7)
	rd := int(hw & 0x7)

	value := p.Regs.ReadRegister(rs)
	result, carry := ShiftImmediate(op, value, amount, p.Regs.CPSR().C())
	p.Regs.WriteRegister(rd, result)

	cpsr := p.Regs.CPSR()
	updateFlagsLogical(&cpsr, result, carry)
	p.Regs.SetCPSR(cpsr)

	return p.tick(0, 1, 0)
}

// thumbAddSubtract implements format 2: add or subtract, operand either a
// register or a 3-bit immediate.
func (p *Processor) thumbAddSubtract(inst ThumbInstruction) int {
	hw := inst.Halfword
	immediate := hw&(1<<10) != 0
	subtract := hw&(1<<9) != 0
	rs := int(hw >> 3 & 0x7)
	rd := int(hw & 0x7)

	var operand uint32
	if immediate {
		operand = uint32(hw >> 6 & 0x7)
	} else {
		rn := int(hw >> 6 & 0x7)
		operand = p.Regs.ReadRegister(rn)
	}

	a := p.Regs.ReadRegister(rs)
	cpsr := p.Regs.CPSR()
	var result uint32
	if subtract {
		result = a - operand
		updateFlagsSubtraction(&cpsr, a, operand, 0, result)
	} else {
		result = a + operand
		updateFlagsAddition(&cpsr, a, operand, 0, result)
	}
	p.Regs.SetCPSR(cpsr)
	p.Regs.WriteRegister(rd, result)

	return p.tick(0, 1, 0)
}

// Immediate-op sub-opcodes, bits 12-11 of format 3.
const (
	thumbImmMOV = iota
	thumbImmCMP
	thumbImmADD
	thumbImmSUB
)

// thumbImmediateOp implements format 3: MOV/CMP/ADD/SUB of an 8-bit
// immediate against one of r0-r7.
func (p *Processor) thumbImmediateOp(inst ThumbInstruction) int {
	hw := inst.Halfword
	op := hw >> 11 & 0x3
	rd := int(hw >> 8 & 0x7)
	imm := uint32(hw & 0xFF)

	a := p.Regs.ReadRegister(rd)
	cpsr := p.Regs.CPSR()

	switch op {
	case thumbImmMOV:
		p.Regs.WriteRegister(rd, imm)
		updateFlagsLogical(&cpsr, imm, cpsr.C())
	case thumbImmCMP:
		result := a - imm
		updateFlagsSubtraction(&cpsr, a, imm, 0, result)
	case thumbImmADD:
		result := a + imm
		updateFlagsAddition(&cpsr, a, imm, 0, result)
		p.Regs.WriteRegister(rd, result)
	case thumbImmSUB:
		result := a - imm
		updateFlagsSubtraction(&cpsr, a, imm, 0, result)
		p.Regs.WriteRegister(rd, result)
	}

	p.Regs.SetCPSR(cpsr)
	return p.tick(0, 1, 0)
}

// ALU sub-opcodes, bits 9-6 of format 4: sixteen mnemonics, most shared
// with the wide data-processing set, with shift/rotate-by-register, NEG
// and MUL forms taking the places of the wide-only opcodes.
const (
	thumbALU_AND = iota
	thumbALU_EOR
	thumbALU_LSL
	thumbALU_LSR
	thumbALU_ASR
	thumbALU_ADC
	thumbALU_SBC
	thumbALU_ROR
	thumbALU_TST
	thumbALU_NEG
	thumbALU_CMP
	thumbALU_CMN
	thumbALU_ORR
	thumbALU_MUL
	thumbALU_BIC
	thumbALU_MVN
)

// thumbALUOperation implements format 4: a two-register ALU op where Rd
// is both a source and the destination, operating on all of r0-r7.
func (p *Processor) thumbALUOperation(inst ThumbInstruction) int {
	hw := inst.Halfword
	op := hw >> 6 & 0xF
	rs := int(hw >> 3 & 0x7)
	rd := int(hw & 0x7)

	a := p.Regs.ReadRegister(rd)
	b := p.Regs.ReadRegister(rs)
	cpsr := p.Regs.CPSR()
	var result uint32
	writes := true
	internal := 0

	switch op {
	case thumbALU_AND:
		result = a & b
		updateFlagsLogical(&cpsr, result, cpsr.C())
	case thumbALU_EOR:
		result = a ^ b
		updateFlagsLogical(&cpsr, result, cpsr.C())
	case thumbALU_LSL:
		result, carry := ShiftByRegister(ShiftLSL, a, b&0xFF, cpsr.C())
		updateFlagsLogical(&cpsr, result, carry)
		p.Regs.WriteRegister(rd, result)
		p.Regs.SetCPSR(cpsr)
		return p.tick(0, 1, 1)
	case thumbALU_LSR:
		result, carry := ShiftByRegister(ShiftLSR, a, b&0xFF, cpsr.C())
		updateFlagsLogical(&cpsr, result, carry)
		p.Regs.WriteRegister(rd, result)
		p.Regs.SetCPSR(cpsr)
		return p.tick(0, 1, 1)
	case thumbALU_ASR:
		result, carry := ShiftByRegister(ShiftASR, a, b&0xFF, cpsr.C())
		updateFlagsLogical(&cpsr, result, carry)
		p.Regs.WriteRegister(rd, result)
		p.Regs.SetCPSR(cpsr)
		return p.tick(0, 1, 1)
	case thumbALU_ADC:
		carry := uint32(0)
		if cpsr.C() {
			carry = 1
		}
		result = a + b + carry
		updateFlagsAddition(&cpsr, a, b, carry, result)
	case thumbALU_SBC:
		borrow := uint32(1)
		if cpsr.C() {
			borrow = 0
		}
		result = a - b - borrow
		updateFlagsSubtraction(&cpsr, a, b, borrow, result)
	case thumbALU_ROR:
		result, carry := ShiftByRegister(ShiftROR, a, b&0xFF, cpsr.C())
		updateFlagsLogical(&cpsr, result, carry)
		p.Regs.WriteRegister(rd, result)
		p.Regs.SetCPSR(cpsr)
		return p.tick(0, 1, 1)
	case thumbALU_TST:
		result = a & b
		updateFlagsLogical(&cpsr, result, cpsr.C())
		writes = false
	case thumbALU_NEG:
		result = 0 - b
		updateFlagsSubtraction(&cpsr, 0, b, 0, result)
	case thumbALU_CMP:
		result = a - b
		updateFlagsSubtraction(&cpsr, a, b, 0, result)
		writes = false
	case thumbALU_CMN:
		result = a + b
		updateFlagsAddition(&cpsr, a, b, 0, result)
		writes = false
	case thumbALU_ORR:
		result = a | b
		updateFlagsLogical(&cpsr, result, cpsr.C())
	case thumbALU_MUL:
		result = a * b
		cpsr.SetN(result&0x80000000 != 0)
		cpsr.SetZ(result == 0)
		internal = mulCycles(b, false)
	case thumbALU_BIC:
		result = a &^ b
		updateFlagsLogical(&cpsr, result, cpsr.C())
	case thumbALU_MVN:
		result = ^b
		updateFlagsLogical(&cpsr, result, cpsr.C())
	}

	p.Regs.SetCPSR(cpsr)
	if writes {
		p.Regs.WriteRegister(rd, result)
	}
	return p.tick(0, 1, internal)
}

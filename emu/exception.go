package emu

// Exception vectors, fixed addresses at the bottom of the address space.
const (
	vectorReset         = 0x00000000
	vectorUndefined     = 0x00000004
	vectorSoftwareIntr  = 0x00000008
	vectorPrefetchAbort = 0x0000000C
	vectorDataAbort     = 0x00000010
	vectorIRQ           = 0x00000018
	vectorFIQ           = 0x0000001C
)

// enterException performs the shared exception-entry procedure: save the
// return address and current status word into the target mode's bank,
// switch mode, mask interrupts as required, and redirect the pipeline to
// the vector. isFIQ selects between the FIQ and normal IRQ vectors; this
// is the only exception class the running guest ever triggers outside of
// an explicit SWI, since the core has no MMU to raise aborts and no
// undefined-instruction trapping beyond the decoders' Undefined tag.
func (p *Processor) enterException(isFIQ bool) int {
	mode := ModeIRQ
	vector := uint32(vectorIRQ)
	if isFIQ {
		mode = ModeFIQ
		vector = vectorFIQ
	}
	// Hardware IRQ/FIQ entry always computes LR as decodedAddr+4: the
	// handler's fixed "SUBS PC, LR, #4" return sequence runs after
	// switching to ARM state, regardless of what instruction set the
	// interrupted code was using. This is NOT the same offset SWI/
	// Undefined use, which stays address-mode-dependent (they return
	// into code still running in the mode that trapped).
	return p.raiseException(mode, vector, true, p.decodedAddr+4)
}

// raiseException is the general entry path shared by hardware interrupts
// and SWI/Undefined. returnPC is the link-register value to save, computed
// by the caller since hardware interrupts and SWI/Undefined disagree on
// the exact offset; disableFIQ=false for SWI/Undefined, which never mask
// FIQ.
func (p *Processor) raiseException(mode Mode, vector uint32, disableFIQ bool, returnPC uint32) int {
	oldCPSR := p.Regs.CPSR()

	p.Regs.SetCPSR(withMode(oldCPSR, mode))
	p.Regs.SetSPSR(oldCPSR)

	newCPSR := p.Regs.CPSR()
	newCPSR.SetNarrow(false)
	newCPSR.SetIRQDisabled(true)
	if disableFIQ {
		newCPSR.SetFIQDisabled(true)
	}
	p.Regs.SetCPSR(newCPSR)

	p.Regs.WriteRegister(14, returnPC)
	p.Regs.SetPC(vector)
	p.flushPipeline()
	p.wake()

	return p.tick(1, 0, 2)
}

// exceptionReturnAddress computes the link-register value SWI and
// Undefined save: the address of the instruction the pipeline had just
// decoded, plus an offset that differs by instruction-set mode so the
// handler's own return instruction lands back on the right word. Hardware
// IRQ/FIQ entry does not use this — see enterException.
func (p *Processor) exceptionReturnAddress() uint32 {
	offset := uint32(4)
	if p.Regs.CPSR().Narrow() {
		offset = 2
	}
	return p.decodedAddr + offset
}

func withMode(p PSR, m Mode) PSR {
	p.SetMode(m)
	return p
}

package emu

// I/O register offsets within the 0x04000000 page, as named in §4.2.
const (
	regDISPCNT  = 0x000
	regDISPSTAT = 0x004
	regVCOUNT   = 0x006
	regBG0CNT   = 0x008
	regBG1CNT   = 0x00A
	regBG2CNT   = 0x00C
	regBG3CNT   = 0x00E
	regBG0HOFS  = 0x010
	regBG0VOFS  = 0x012
	regBG1HOFS  = 0x014
	regBG1VOFS  = 0x016
	regBG2HOFS  = 0x018
	regBG2VOFS  = 0x01A
	regBG3HOFS  = 0x01C
	regBG3VOFS  = 0x01E
	regBG2PA    = 0x020
	regBG2PB    = 0x022
	regBG2PC    = 0x024
	regBG2PD    = 0x026
	regBG2XL    = 0x028
	regBG2XH    = 0x02A
	regBG2YL    = 0x02C
	regBG2YH    = 0x02E
	regBG3PA    = 0x030
	regBG3PB    = 0x032
	regBG3PC    = 0x034
	regBG3PD    = 0x036
	regBG3XL    = 0x038
	regBG3XH    = 0x03A
	regBG3YL    = 0x03C
	regBG3YH    = 0x03E

	regDMA0SADL = 0x0B0
	dmaStride   = 0x0C

	regTM0CNTL  = 0x100
	regTM0CNTH  = 0x102
	timerStride = 0x04

	regKEYINPUT = 0x130

	regIE      = 0x200
	regIF      = 0x202
	regWAITCNT = 0x204
	regIME     = 0x208
)

// ioRead16 reads one 16-bit I/O register by its page offset.
func (b *MemoryBus) ioRead16(offset uint32) uint16 {
	switch {
	case offset == regDISPCNT:
		return b.lcd.DISPCNT()
	case offset == regDISPSTAT:
		return b.lcd.DISPSTAT()
	case offset == regVCOUNT:
		return b.lcd.VCOUNT()
	case offset >= regBG0CNT && offset <= regBG3CNT:
		return b.lcd.BGCNT(int(offset-regBG0CNT) / 2)

	case offset >= regTM0CNTL && offset < regTM0CNTL+4*timerStride && (offset-regTM0CNTL)%timerStride == 0:
		ch := int(offset-regTM0CNTL) / timerStride
		return b.timers.Read(ch)

	case offset == regKEYINPUT:
		return b.keypad.State()

	case offset == regIE:
		return b.irqs.IE()
	case offset == regIF:
		return b.irqs.IF()
	case offset == regWAITCNT:
		return b.waitcnt
	case offset == regIME:
		if b.irqs.IME() {
			return 1
		}
		return 0
	}

	return 0
}

// ioWrite16 writes one 16-bit I/O register by its page offset, dispatching
// the side effects named in §4.2.
func (b *MemoryBus) ioWrite16(offset uint32, v uint16) {
	switch {
	case offset == regDISPCNT:
		b.lcd.SetDISPCNT(v)
	case offset == regDISPSTAT:
		b.lcd.SetDISPSTAT(v)

	case offset >= regBG0CNT && offset <= regBG3CNT:
		b.lcd.SetBGCNT(int(offset-regBG0CNT)/2, v)

	case offset == regBG0HOFS, offset == regBG1HOFS, offset == regBG2HOFS, offset == regBG3HOFS:
		b.lcd.SetBGHOfs(int(offset-regBG0HOFS)/4, v)
	case offset == regBG0VOFS, offset == regBG1VOFS, offset == regBG2VOFS, offset == regBG3VOFS:
		b.lcd.SetBGVOfs(int(offset-regBG0VOFS)/4, v)

	case offset == regBG2PA, offset == regBG3PA:
		b.affineFor(offset).PA = int16(v)
	case offset == regBG2PB, offset == regBG3PB:
		b.affineFor(offset).PB = int16(v)
	case offset == regBG2PC, offset == regBG3PC:
		b.affineFor(offset).PC = int16(v)
	case offset == regBG2PD, offset == regBG3PD:
		b.affineFor(offset).PD = int16(v)
	case offset == regBG2XL, offset == regBG3XL:
		a := b.affineFor(offset)
		a.X = int32(uint32(a.X)&0xFFFF0000 | uint32(v))
	case offset == regBG2XH, offset == regBG3XH:
		a := b.affineFor(offset)
		a.X = int32(uint32(a.X)&0x0000FFFF | uint32(v)<<16)
	case offset == regBG2YL, offset == regBG3YL:
		a := b.affineFor(offset)
		a.Y = int32(uint32(a.Y)&0xFFFF0000 | uint32(v))
	case offset == regBG2YH, offset == regBG3YH:
		a := b.affineFor(offset)
		a.Y = int32(uint32(a.Y)&0x0000FFFF | uint32(v)<<16)

	case b.isDMARegister(offset):
		b.writeDMARegister(offset, v)

	case offset >= regTM0CNTL && offset < regTM0CNTL+4*timerStride && (offset-regTM0CNTL)%timerStride == 0:
		ch := int(offset-regTM0CNTL) / timerStride
		b.timers.WriteData(ch, v)
	case offset >= regTM0CNTH && offset < regTM0CNTH+4*timerStride && (offset-regTM0CNTH)%timerStride == 0:
		ch := int(offset-regTM0CNTH) / timerStride
		b.timers.WriteControl(ch, v)

	case offset == regIE:
		b.irqs.SetIE(v)
	case offset == regIF:
		b.irqs.WriteIF(v)
	case offset == regWAITCNT:
		b.waitcnt = v
	case offset == regIME:
		b.irqs.SetIME(v&1 != 0)
	}
}

func (b *MemoryBus) affineFor(offset uint32) *AffineParams {
	if offset >= regBG3PA {
		return b.lcd.BGAffine(3)
	}
	return b.lcd.BGAffine(2)
}

func (b *MemoryBus) isDMARegister(offset uint32) bool {
	return offset >= regDMA0SADL && offset < regDMA0SADL+4*dmaStride
}

// writeDMARegister routes a write inside one channel's 12-byte register
// block (SAD, DAD, CNT_L, CNT_H) and, for a control-word write that arms
// an immediate transfer, synchronously fires it.
func (b *MemoryBus) writeDMARegister(offset uint32, v uint16) {
	ch := int(offset-regDMA0SADL) / dmaStride
	reg := (offset - regDMA0SADL) % dmaStride

	switch reg {
	case 0x0:
		cur := b.dmaSource[ch]
		b.dmaSource[ch] = cur&0xFFFF0000 | uint32(v)
	case 0x2:
		cur := b.dmaSource[ch]
		b.dmaSource[ch] = cur&0x0000FFFF | uint32(v)<<16
		b.dma.SetSource(ch, b.dmaSource[ch])
	case 0x4:
		cur := b.dmaDest[ch]
		b.dmaDest[ch] = cur&0xFFFF0000 | uint32(v)
	case 0x6:
		cur := b.dmaDest[ch]
		b.dmaDest[ch] = cur&0x0000FFFF | uint32(v)<<16
		b.dma.SetDest(ch, b.dmaDest[ch])
	case 0x8:
		b.dma.SetCount(ch, v)
	case 0xA:
		b.dma.SetSource(ch, b.dmaSource[ch])
		b.dma.SetDest(ch, b.dmaDest[ch])
		if b.dma.Arm(ch, v) {
			b.dma.Fire(ch, b)
		}
	}
}

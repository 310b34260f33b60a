package emu

// DMA address-control policies (source: 0-2 only; destination: 0-3).
const (
	AddrIncrement = iota
	AddrDecrement
	AddrFixed
	AddrIncrementReload
)

// DMA trigger modes.
const (
	DMAImmediate = iota
	DMAVBlank
	DMAHBlank
	DMASpecial
)

type dmaChannel struct {
	source, dest uint32
	count        uint16

	srcPolicy, dstPolicy int
	chunk32               bool
	repeat                bool
	trigger               int
	irqOnComplete         bool
	enabled               bool
}

// DMAEngine is the four-channel DMA controller. It holds no reference to
// the bus it copies through; Fire and the event handlers receive the bus
// as a borrowed parameter from whichever caller (MemoryBus's own I/O
// dispatch, or the PPU's scanline state machine) already has one in hand.
type DMAEngine struct {
	channels [4]dmaChannel
	irqs     *InterruptController
}

// NewDMAEngine returns an engine with all channels inert.
func NewDMAEngine(irqs *InterruptController) *DMAEngine {
	return &DMAEngine{irqs: irqs}
}

func (d *DMAEngine) SetSource(ch int, v uint32)      { d.channels[ch].source = v }
func (d *DMAEngine) SetDest(ch int, v uint32)        { d.channels[ch].dest = v }
func (d *DMAEngine) SetCount(ch int, v uint16)       { d.channels[ch].count = v }

// Arm decodes a write to a channel's control word (DMAxCNT_H) and, if the
// enable bit is set with an immediate trigger, returns true to tell the
// caller to Fire it synchronously right away.
func (d *DMAEngine) Arm(ch int, control uint16) (fireNow bool) {
	c := &d.channels[ch]
	c.dstPolicy = int(control >> 5 & 0x3)
	c.srcPolicy = int(control >> 7 & 0x3)
	c.repeat = control&(1<<9) != 0
	c.chunk32 = control&(1<<10) != 0
	c.trigger = int(control >> 12 & 0x3)
	c.irqOnComplete = control&(1<<14) != 0

	wasEnabled := c.enabled
	c.enabled = control&(1<<15) != 0

	if c.enabled && !wasEnabled && c.trigger == DMAImmediate {
		return true
	}
	return false
}

// Fire runs one complete transfer for channel ch against bus. It is
// synchronous: the caller's clock only advances after every chunk has
// been copied, matching §4.3's "fire returns only when the run completes".
func (d *DMAEngine) Fire(ch int, bus *MemoryBus) int {
	c := &d.channels[ch]
	if !c.enabled {
		return 0
	}

	origDest := c.dest
	src, dst := c.source, c.dest
	step := uint32(2)
	if c.chunk32 {
		step = 4
	}

	cycles := 0
	for i := uint16(0); i < c.count; i++ {
		if c.chunk32 {
			v, rc := bus.Read32(src)
			wc := bus.Write32(dst, v)
			cycles += rc + wc
		} else {
			v, rc := bus.Read16(src)
			wc := bus.Write16(dst, v)
			cycles += rc + wc
		}

		src = adjustPointer(src, step, c.srcPolicy)
		dst = adjustPointer(dst, step, c.dstPolicy)
	}

	c.source, c.dest = src, dst
	if c.dstPolicy == AddrIncrementReload {
		c.dest = origDest
	}

	if c.irqOnComplete {
		d.irqs.Raise(IntDMA0 + ch)
	}

	if !c.repeat {
		c.enabled = false
	}

	return cycles
}

func adjustPointer(addr uint32, step uint32, policy int) uint32 {
	switch policy {
	case AddrIncrement, AddrIncrementReload:
		return addr + step
	case AddrDecrement:
		return addr - step
	default: // AddrFixed
		return addr
	}
}

// OnEvent fires every armed channel whose trigger matches kind, in
// channel-index order (lower index wins priority, and since this walks
// 0-3 in order that ordering falls out naturally).
func (d *DMAEngine) OnEvent(kind int, bus *MemoryBus) int {
	total := 0
	for ch := range d.channels {
		if d.channels[ch].enabled && d.channels[ch].trigger == kind {
			total += d.Fire(ch, bus)
		}
	}
	return total
}

// NotifyAudioFIFO fires the special-trigger channel (normally 1 or 2)
// when invoked by a clocked audio consumer; the pipeline itself never
// raises DMASpecial, since this core has no audio chip reading a FIFO.
func (d *DMAEngine) NotifyAudioFIFO(ch int, bus *MemoryBus) int {
	if d.channels[ch].enabled && d.channels[ch].trigger == DMASpecial {
		return d.Fire(ch, bus)
	}
	return 0
}

package emu

// Scanline timing constants, in processor cycles, per §4.6.
const (
	cyclesHDraw        = 960
	cyclesPerScanline  = 1232
	visibleScanlines   = 160
	totalScanlines     = 228
	screenWidth        = 240
	screenHeight       = 160
)

// PPU is the scanline-driven pixel pipeline. It reads video memory and
// the LCD status block but never writes them (SetDISPSTAT's flag bits
// aside, which are this component's own to own); bus is held only to
// fire frame-event DMA, a one-directional dependency rather than the
// cyclic reference the aggregate's design note warns against.
type PPU struct {
	bus  *MemoryBus
	lcd  *LCDStatus
	irqs *InterruptController
	dma  *DMAEngine

	cycle    int
	frame    [screenWidth * screenHeight]uint32
	rowAffineX [2]int32
	rowAffineY [2]int32

	cache *tileCache
}

// NewPPU builds a pixel pipeline bound to the shared LCD status record
// and the bus it reads video memory through.
func NewPPU(bus *MemoryBus, lcd *LCDStatus, irqs *InterruptController, dma *DMAEngine) *PPU {
	return &PPU{
		bus:   bus,
		lcd:   lcd,
		irqs:  irqs,
		dma:   dma,
		cache: newTileCache(),
	}
}

// Framebuffer returns the most recently completed scanlines, refreshed
// one row at a time as HDraw ends and wholesale valid once VBlank begins.
func (p *PPU) Framebuffer() []uint32 { return p.frame[:] }

// Tick advances the scanline state machine by one processor cycle.
func (p *PPU) Tick() {
	p.cycle++

	if p.cycle == cyclesHDraw {
		scanline := p.lcd.VCOUNT()
		if scanline < visibleScanlines {
			p.renderScanline(int(scanline))
		}
		p.enterHBlank()
		return
	}

	if p.cycle >= cyclesPerScanline {
		p.cycle = 0
		p.advanceScanline()
	}
}

func (p *PPU) enterHBlank() {
	p.lcd.setHBlank(true)
	if p.lcd.hblankIRQEnabled() {
		p.irqs.Raise(IntHBlank)
	}
	p.dma.OnEvent(DMAHBlank, p.bus)
}

func (p *PPU) advanceScanline() {
	p.lcd.setHBlank(false)
	next := p.lcd.VCOUNT() + 1
	if next >= totalScanlines {
		next = 0
		p.lcd.setVBlank(false)
	}
	p.lcd.setVCount(next)

	if next == visibleScanlines {
		p.lcd.setVBlank(true)
		if p.lcd.vblankIRQEnabled() {
			p.irqs.Raise(IntVBlank)
		}
		p.dma.OnEvent(DMAVBlank, p.bus)
	}

	match := next == p.lcd.vcountTarget()
	p.lcd.setVCountFlag(match)
	if match && p.lcd.vcountIRQEnabled() {
		p.irqs.Raise(IntVCount)
	}
}

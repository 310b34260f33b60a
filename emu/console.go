package emu

// Console is the top-level owning aggregate: it builds every subsystem,
// wires the ones that need each other through constructor parameters or
// call parameters (never embedded back-pointers), and drives the
// single-threaded cooperative loop described in §5 — one instruction
// retires, the clock advances by the cycles it consumed, and every other
// clocked component advances by that same delta before the next
// instruction is fetched.
type Console struct {
	CPU     *Processor
	Bus     *MemoryBus
	DMA     *DMAEngine
	Timers  *TimerBlock
	IRQ     *InterruptController
	LCD     *LCDStatus
	PPU     *PPU
	Keypad  *Keypad
	lastVCount uint16
}

// NewConsole builds a fully wired console with no boot ROM or cartridge
// loaded yet; call LoadBootROM/LoadCartridge before RunFrame.
func NewConsole() *Console {
	irqs := NewInterruptController()
	lcd := &LCDStatus{}
	dma := NewDMAEngine(irqs)
	timers := NewTimerBlock(irqs)
	keypad := NewKeypad()

	bus := NewMemoryBus(lcd, dma, timers, irqs, keypad)
	cpu := NewProcessor(bus, irqs)
	ppu := NewPPU(bus, lcd, irqs, dma)

	return &Console{
		CPU:    cpu,
		Bus:    bus,
		DMA:    dma,
		Timers: timers,
		IRQ:    irqs,
		LCD:    lcd,
		PPU:    ppu,
		Keypad: keypad,
	}
}

// LoadBootROM installs the boot ROM image and resets PC to its reset
// vector, matching what the real hardware does on power-up.
func (c *Console) LoadBootROM(data []byte) {
	c.Bus.LoadBootROM(data)
	c.Bus.NoteBootSnapshot(readWord(padTo(data, 4), 0))
	c.CPU.Regs.SetPC(0)
}

// LoadCartridge installs the cartridge image (already gzip-decompressed
// and signature-scanned by LoadCartridge in cartridge.go).
func (c *Console) LoadCartridge(cart *Cartridge) {
	c.Bus.LoadCartridge(cart)
}

func padTo(data []byte, n int) []byte {
	if len(data) >= n {
		return data
	}
	out := make([]byte, n)
	copy(out, data)
	return out
}

// Step retires exactly one CPU pipeline slot and advances every other
// clocked component by the same number of cycles, returning the cycle
// count consumed. DMA transfers triggered by HBlank/VBlank run
// synchronously inside PPU.Tick, borrowing Bus for the duration.
func (c *Console) Step() int {
	pc := c.CPU.Regs.PC()
	c.Bus.NotePC(pc)
	if inBootROM(pc) {
		word, _ := c.Bus.Read32(pc &^ 3)
		c.Bus.NoteBootSnapshot(word)
	}

	cycles := c.CPU.Step()

	for i := 0; i < cycles; i++ {
		c.PPU.Tick()
	}
	c.Timers.Tick(cycles)

	if c.LCD.VCOUNT() != c.lastVCount {
		c.lastVCount = c.LCD.VCOUNT()
		if c.LCD.VCOUNT() == 0 {
			c.PPU.cache.invalidate()
		}
	}

	return cycles
}

// RunFrame steps the console until one full frame (228 scanlines' worth
// of cycles) has retired, returning the completed framebuffer.
func (c *Console) RunFrame() []uint32 {
	const cyclesPerFrame = cyclesPerScanline * totalScanlines
	budget := cyclesPerFrame
	for budget > 0 {
		budget -= c.Step()
	}
	return c.PPU.Framebuffer()
}

// SetKey forwards a key press/release to the keypad and refreshes the
// bus-visible KEYINPUT state.
func (c *Console) SetKey(key int, down bool) {
	c.Keypad.SetKey(key, down)
}

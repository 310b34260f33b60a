package emu

// Bus is the memory-mapped interface the processor core issues all
// instruction fetches, data reads, and data writes through. Each access
// returns the cycle cost charged to the caller, per the region's
// wait-state configuration (§5); the processor never computes wait-states
// itself. Concrete address routing lives in bus.go.
type Bus interface {
	Read8(addr uint32) (uint8, int)
	Read16(addr uint32) (uint16, int)
	Read32(addr uint32) (uint32, int)
	Write8(addr uint32, v uint8) int
	Write16(addr uint32, v uint16) int
	Write32(addr uint32, v uint32) int
}

// Processor is the CPU core: banked registers, a three-stage fetch/
// decode/execute pipeline, and the two instruction-set decoders. It holds
// no knowledge of video, DMA, or timers; Console drives tick accounting
// into those subsystems using the cycle counts Step returns.
type Processor struct {
	Regs *Registers
	bus  Bus
	irqs *InterruptController

	// Three-stage pipeline: fetched holds the raw fetch at PC, decoded
	// holds the instruction one stage behind it (about to execute next),
	// both tagged with the instruction-set mode they were fetched under.
	fetched     uint32
	fetchedAddr uint32
	decoded     uint32
	decodedAddr uint32
	primed      int // number of pipeline slots currently valid (0-2)

	halted bool

	cycles uint64
}

// NewProcessor builds a processor wired to bus and irqs, reset with the
// register file at the documented startup state (§4.1's four boot
// snapshot points begin here). The pipeline starts empty; the first two
// Step calls only fill it.
func NewProcessor(bus Bus, irqs *InterruptController) *Processor {
	return &Processor{
		Regs: NewRegisters(),
		bus:  bus,
		irqs: irqs,
	}
}

// tick folds non-sequential, sequential, and internal cycle counts into
// the running total and returns the sum, matching the teacher's
// n/s/i cycle-accounting vocabulary.
func (p *Processor) tick(n, s, i int) int {
	total := n + s + i
	p.cycles += uint64(total)
	return total
}

// Cycles reports the running cycle count since reset or the last
// ResetCycles call. Console drives the PPU and timers from the count
// each Step returns, not from this total.
func (p *Processor) Cycles() uint64 { return p.cycles }

// ResetCycles zeroes the running cycle counter.
func (p *Processor) ResetCycles() { p.cycles = 0 }

// flushPipeline discards both pipeline slots, forcing the next two Step
// calls to refill from the (already updated) program counter. Called
// whenever PC is written by anything other than normal sequential
// advance: branches, branch-exchange, exception entry, and a data-
// processing instruction that targets r15.
func (p *Processor) flushPipeline() {
	p.primed = 0
}

// instructionSize returns 4 in wide mode, 2 in narrow mode.
func (p *Processor) instructionSize() uint32 {
	if p.Regs.CPSR().Narrow() {
		return 2
	}
	return 4
}

// Step advances the processor by exactly one pipeline slot: during the
// two fills after a flush it only fetches, and once the pipeline is full
// it fetches the next word, shifts the pipeline, and executes the
// instruction that reached the end of it. It is the unit Console calls
// in its frame loop.
func (p *Processor) Step() int {
	if p.halted {
		return p.tick(0, 0, 1)
	}

	if pending, isFIQ := p.irqs.Pending(); pending && !p.interruptMasked(isFIQ) {
		return p.enterException(isFIQ)
	}

	size := p.instructionSize()

	executeWord, executeAddr := p.decoded, p.decodedAddr
	wasPrimed := p.primed >= 2

	p.decoded, p.decodedAddr = p.fetched, p.fetchedAddr
	p.fetch(p.Regs.PC(), size)
	p.Regs.SetPC(p.Regs.PC() + size)

	if !wasPrimed {
		p.primed++
		return p.tick(0, 1, 0)
	}

	// Handlers compute PC-relative values (r15 reads, branch targets,
	// link addresses) from decodedAddr, so it names the executing
	// instruction while it runs.
	nextAddr := p.decodedAddr
	p.decodedAddr = executeAddr
	cycles := p.execute(executeAddr, executeWord)
	p.decodedAddr = nextAddr
	return cycles
}

func (p *Processor) fetch(addr uint32, size uint32) {
	if size == 4 {
		word, _ := p.bus.Read32(addr)
		p.fetched = word
	} else {
		hw, _ := p.bus.Read16(addr)
		p.fetched = uint32(hw)
	}
	p.fetchedAddr = addr
}

// execute dispatches a decoded instruction word to its format-specific
// handler. The condition field is checked once here for every format:
// per §4.1, a failed condition consumes only the fetch cycle already
// charged and retires as a one-cycle no-op.
func (p *Processor) execute(addr uint32, word uint32) int {
	if p.Regs.CPSR().Narrow() {
		inst := DecodeThumb(uint16(word))
		return p.executeThumb(inst)
	}

	inst := DecodeArm(word)
	if !conditionMet(inst.Cond, p.Regs.CPSR()) {
		return p.tick(0, 1, 0)
	}
	return p.executeArm(inst)
}

// interruptMasked reports whether the pending interrupt class is
// currently disabled by CPSR.
func (p *Processor) interruptMasked(isFIQ bool) bool {
	cpsr := p.Regs.CPSR()
	if isFIQ {
		return cpsr.FIQDisabled()
	}
	return cpsr.IRQDisabled()
}

// Halt parks the processor in a one-cycle spin until the next interrupt,
// matching the low-power wait instruction some guest software issues
// before VBlank.
func (p *Processor) Halt() { p.halted = true }

func (p *Processor) wake() { p.halted = false }

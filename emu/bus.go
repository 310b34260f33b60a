package emu

// MemoryBus routes every processor memory access across the sixteen
// address regions, applies mirroring and wait states, and dispatches I/O
// writes to their side effects. It is the single owning point of contact
// between the processor and every other clocked component; per the
// aggregate's ownership design, MemoryBus does not hold a pointer back to
// the processor — Console feeds it the current program counter each step
// via NotePC, a borrowed value rather than an embedded back-reference.
type MemoryBus struct {
	bootROM []byte

	ewram   []byte
	iwram   []byte
	palette []byte
	vram    []byte
	oam     []byte

	cart *Cartridge

	lcd     *LCDStatus
	dma     *DMAEngine
	timers  *TimerBlock
	irqs    *InterruptController
	keypad  *Keypad

	waitcnt uint16

	dmaSource [4]uint32
	dmaDest   [4]uint32

	currentPC      uint32
	bootSnapshot   uint32
	bootSnapshotHi uint32
}

// NewMemoryBus wires a bus to its peripheral records. bootROM and cart
// may be nil/empty at construction and filled in later by Console as
// files are loaded.
func NewMemoryBus(lcd *LCDStatus, dma *DMAEngine, timers *TimerBlock, irqs *InterruptController, keypad *Keypad) *MemoryBus {
	return &MemoryBus{
		ewram:   make([]byte, ewramSize),
		iwram:   make([]byte, iwramSize),
		palette: make([]byte, paletteSize),
		vram:    make([]byte, vramSize),
		oam:     make([]byte, oamSize),
		lcd:     lcd,
		dma:     dma,
		timers:  timers,
		irqs:    irqs,
		keypad:  keypad,
	}
}

// VRAMBytes, PaletteBytes, and OAMBytes expose the backing video memory
// slices to the pixel pipeline, which reads them directly rather than
// through the bus's per-access routing (it never triggers wait states or
// I/O side effects).
func (b *MemoryBus) VRAMBytes() []byte    { return b.vram }
func (b *MemoryBus) PaletteBytes() []byte { return b.palette }
func (b *MemoryBus) OAMBytes() []byte     { return b.oam }

// LoadBootROM installs the boot ROM image, padded/truncated to its fixed
// size.
func (b *MemoryBus) LoadBootROM(data []byte) {
	b.bootROM = make([]byte, bootROMSize)
	copy(b.bootROM, data)
}

// LoadCartridge installs the cartridge backing the ROM and backup regions.
func (b *MemoryBus) LoadCartridge(cart *Cartridge) {
	b.cart = cart
}

// NotePC records the processor's current program counter, consulted by
// the boot-ROM protection check on the next boot-ROM read.
func (b *MemoryBus) NotePC(pc uint32) {
	b.currentPC = pc
}

// NoteBootSnapshot records the last successfully read boot-ROM word.
// Console calls it when the boot ROM is loaded and on every step whose
// PC lies inside the boot ROM, so the snapshot is the most recent
// boot-ROM word fetched before PC left it.
func (b *MemoryBus) NoteBootSnapshot(word uint32) {
	b.bootSnapshot = word
}

func inBootROM(pc uint32) bool {
	return pc < bootROMSize
}

// Read8 reads one byte, honoring region routing and mirroring.
func (b *MemoryBus) Read8(addr uint32) (uint8, int) {
	region := regionOf(addr)
	info := regionTable[region]
	cost := b.waitCost(region, info, false, 1)

	switch region {
	case RegionBootROM:
		return b.readBootByte(addr), cost
	case RegionEWRAM:
		return b.ewram[offsetIn(addr, info)], cost
	case RegionIWRAM:
		return b.iwram[offsetIn(addr, info)], cost
	case RegionIO:
		v := b.ioRead16(offsetIn(addr&^1, info))
		if addr&1 != 0 {
			return uint8(v >> 8), cost
		}
		return uint8(v), cost
	case RegionPalette:
		return b.palette[vramLikeOffset(addr, paletteSize)], cost
	case RegionVRAM:
		return b.vram[vramOffset(addr)], cost
	case RegionOAM:
		return b.oam[vramLikeOffset(addr, oamSize)], cost
	case RegionCartROM0, RegionCartROM0Hi, RegionCartROM1, RegionCartROM1Hi, RegionCartROM2, RegionCartROM2Hi:
		return b.cart.ReadROM8(offsetIn(addr, info)), cost
	case RegionCartRAM:
		return b.cart.ReadBackup8(offsetIn(addr, info)), cost
	default:
		return uint8(b.unusedRead(addr)), cost
	}
}

// Read16 reads one halfword, naturally aligning the address (the caller
// is responsible for the architectural misalignment semantics that apply
// to 16-bit loads specifically, handled in ops_mem.go/ops_thumb_mem.go).
func (b *MemoryBus) Read16(addr uint32) (uint16, int) {
	addr &^= 1
	region := regionOf(addr)
	info := regionTable[region]
	cost := b.waitCost(region, info, false, 2)

	switch region {
	case RegionBootROM:
		return b.readBootHalf(addr), cost
	case RegionEWRAM:
		return readHalf(b.ewram, offsetIn(addr, info)), cost
	case RegionIWRAM:
		return readHalf(b.iwram, offsetIn(addr, info)), cost
	case RegionIO:
		return b.ioRead16(offsetIn(addr, info)), cost
	case RegionPalette:
		return readHalf(b.palette, vramLikeOffset(addr, paletteSize)), cost
	case RegionVRAM:
		return readHalf(b.vram, vramOffset(addr)), cost
	case RegionOAM:
		return readHalf(b.oam, vramLikeOffset(addr, oamSize)), cost
	case RegionCartROM0, RegionCartROM0Hi, RegionCartROM1, RegionCartROM1Hi, RegionCartROM2, RegionCartROM2Hi:
		return b.cart.ReadROM16(offsetIn(addr, info)), cost
	case RegionCartRAM:
		return uint16(b.cart.ReadBackup8(offsetIn(addr, info))), cost
	default:
		return uint16(b.unusedRead(addr)), cost
	}
}

// Read32 reads one word. Misalignment rotation is applied here, per §8's
// quantified invariant: the result equals rotate_right(read32(A&~3), 8*(A&3)).
func (b *MemoryBus) Read32(addr uint32) (uint32, int) {
	misalign := addr & 3
	aligned := addr &^ 3
	region := regionOf(aligned)
	info := regionTable[region]
	cost := b.waitCost(region, info, false, 4)

	var word uint32
	switch region {
	case RegionBootROM:
		word = b.readBootWord(aligned)
	case RegionEWRAM:
		word = readWord(b.ewram, offsetIn(aligned, info))
	case RegionIWRAM:
		word = readWord(b.iwram, offsetIn(aligned, info))
	case RegionIO:
		lo := b.ioRead16(offsetIn(aligned, info))
		hi := b.ioRead16(offsetIn(aligned+2, info))
		word = uint32(lo) | uint32(hi)<<16
	case RegionPalette:
		word = readWord(b.palette, vramLikeOffset(aligned, paletteSize))
	case RegionVRAM:
		word = readWord(b.vram, vramOffset(aligned))
	case RegionOAM:
		word = readWord(b.oam, vramLikeOffset(aligned, oamSize))
	case RegionCartROM0, RegionCartROM0Hi, RegionCartROM1, RegionCartROM1Hi, RegionCartROM2, RegionCartROM2Hi:
		word = b.cart.ReadROM32(offsetIn(aligned, info))
	case RegionCartRAM:
		b8 := b.cart.ReadBackup8(offsetIn(aligned, info))
		word = uint32(b8) * 0x01010101
	default:
		word = b.unusedRead(aligned)
	}

	if misalign == 0 {
		return word, cost
	}
	rotated, _ := rotateRight(word, misalign*8)
	return rotated, cost
}

// Write8 writes one byte, applying each region's byte-write policy.
func (b *MemoryBus) Write8(addr uint32, v uint8) int {
	region := regionOf(addr)
	info := regionTable[region]
	cost := b.waitCost(region, info, true, 1)

	switch region {
	case RegionEWRAM:
		b.ewram[offsetIn(addr, info)] = v
	case RegionIWRAM:
		b.iwram[offsetIn(addr, info)] = v
	case RegionIO:
		off := offsetIn(addr&^1, info)
		cur := b.ioRead16(off)
		if addr&1 != 0 {
			cur = uint16(v)<<8 | cur&0xFF
		} else {
			cur = cur&0xFF00 | uint16(v)
		}
		b.ioWrite16(off, cur)
	case RegionPalette:
		writeHalfBroadcast(b.palette, vramLikeOffset(addr, paletteSize), v)
	case RegionVRAM:
		if vramByteIgnored(addr, b.lcd) {
			break
		}
		writeHalfBroadcast(b.vram, vramOffset(addr), v)
	case RegionOAM:
		// byte writes ignored
	case RegionCartRAM:
		b.cart.WriteBackup8(offsetIn(addr, info), v)
	}

	return cost
}

// Write16 writes one halfword.
func (b *MemoryBus) Write16(addr uint32, v uint16) int {
	addr &^= 1
	region := regionOf(addr)
	info := regionTable[region]
	cost := b.waitCost(region, info, true, 2)

	switch region {
	case RegionEWRAM:
		writeHalf(b.ewram, offsetIn(addr, info), v)
	case RegionIWRAM:
		writeHalf(b.iwram, offsetIn(addr, info), v)
	case RegionIO:
		b.ioWrite16(offsetIn(addr, info), v)
	case RegionPalette:
		writeHalf(b.palette, vramLikeOffset(addr, paletteSize), v)
	case RegionVRAM:
		writeHalf(b.vram, vramOffset(addr), v)
	case RegionOAM:
		writeHalf(b.oam, vramLikeOffset(addr, oamSize), v)
	case RegionCartRAM:
		b.cart.WriteBackup8(offsetIn(addr, info), uint8(v))
	}

	return cost
}

// Write32 writes one word.
func (b *MemoryBus) Write32(addr uint32, v uint32) int {
	addr &^= 3
	region := regionOf(addr)
	info := regionTable[region]
	cost := b.waitCost(region, info, true, 4)

	switch region {
	case RegionEWRAM:
		writeWord(b.ewram, offsetIn(addr, info), v)
	case RegionIWRAM:
		writeWord(b.iwram, offsetIn(addr, info), v)
	case RegionIO:
		b.ioWrite16(offsetIn(addr, info), uint16(v))
		b.ioWrite16(offsetIn(addr+2, info), uint16(v>>16))
	case RegionPalette:
		writeWord(b.palette, vramLikeOffset(addr, paletteSize), v)
	case RegionVRAM:
		writeWord(b.vram, vramOffset(addr), v)
	case RegionOAM:
		writeWord(b.oam, vramLikeOffset(addr, oamSize), v)
	case RegionCartRAM:
		b.cart.WriteBackup8(offsetIn(addr, info), uint8(v))
	}

	return cost
}

func (b *MemoryBus) readBootByte(addr uint32) uint8 {
	if !inBootROM(b.currentPC) {
		return uint8(b.bootSnapshot)
	}
	return b.bootROM[addr%bootROMSize]
}

func (b *MemoryBus) readBootHalf(addr uint32) uint16 {
	if !inBootROM(b.currentPC) {
		return uint16(b.bootSnapshot)
	}
	return readHalf(b.bootROM, addr%bootROMSize)
}

func (b *MemoryBus) readBootWord(addr uint32) uint32 {
	if !inBootROM(b.currentPC) {
		return b.bootSnapshot
	}
	return readWord(b.bootROM, addr%bootROMSize)
}

// unusedRead reconstructs the "unused-read" sentinel pattern for write-
// only registers and reserved holes, keyed per region. §9 documents the
// real hardware's formula as only partially known; this table is an
// approximation built from the current program counter's neighborhood
// rather than a literal port of the undocumented reconstruction.
func (b *MemoryBus) unusedRead(addr uint32) uint32 {
	pc := b.currentPC
	switch regionOf(addr) {
	case RegionUnused1, RegionUnused15:
		return pc
	default:
		return pc | pc<<16
	}
}

func (b *MemoryBus) waitCost(region Region, info regionInfo, isWrite bool, width int) int {
	n, s := info.waitN, info.waitS
	switch region {
	case RegionCartROM0, RegionCartROM0Hi:
		n, s = b.waitStates(0)
	case RegionCartROM1, RegionCartROM1Hi:
		n, s = b.waitStates(1)
	case RegionCartROM2, RegionCartROM2Hi:
		n, s = b.waitStates(2)
	}

	cost := 1 + n
	if width == 4 && (region >= RegionCartROM0 && region <= RegionCartROM2Hi) {
		cost = (1 + n) + (1 + s)
	}

	if b.contendedVideoAccess(region) {
		cost++
	}
	return cost
}

// waitStates decodes WAITCNT's per-wait-state-group N/S cycle counts for
// the three cartridge ROM mirrors (wait-state groups 0/1/2). Each group's
// sequential cost (the one used by repeated-burst transfers) is either
// one cycle or a slow per-group value, and the slow value grows for the
// more deeply mirrored groups (2, 4, 8).
func (b *MemoryBus) waitStates(group int) (n, s int) {
	nTable := [4]int{4, 3, 2, 8}
	sSlowCycles := [3]int{2, 4, 8}
	sFastCycles := [3]int{1, 1, 1}

	shift := uint(group * 5)
	nSel := b.waitcnt >> (2 + shift) & 0x3
	sSel := b.waitcnt >> (4 + shift) & 0x1

	n = nTable[nSel]
	if sSel == 0 {
		s = sSlowCycles[group]
	} else {
		s = sFastCycles[group]
	}
	return n, s
}

// contendedVideoAccess reports whether an access to palette/VRAM/OAM adds
// the one-cycle penalty the hardware charges outside VBlank.
func (b *MemoryBus) contendedVideoAccess(region Region) bool {
	switch region {
	case RegionPalette, RegionVRAM, RegionOAM:
		return !b.lcd.InVBlank()
	default:
		return false
	}
}

func vramLikeOffset(addr uint32, size uint32) uint32 {
	return (addr & 0x00FFFFFF) % size
}

func vramByteIgnored(addr uint32, lcd *LCDStatus) bool {
	off := vramOffset(addr)
	if lcd.BitmapMode() {
		return off >= 0x14000
	}
	return off >= 0x10000
}

func readHalf(mem []byte, off uint32) uint16 {
	return uint16(mem[off]) | uint16(mem[off+1])<<8
}

func readWord(mem []byte, off uint32) uint32 {
	return uint32(mem[off]) | uint32(mem[off+1])<<8 | uint32(mem[off+2])<<16 | uint32(mem[off+3])<<24
}

func writeHalf(mem []byte, off uint32, v uint16) {
	mem[off] = uint8(v)
	mem[off+1] = uint8(v >> 8)
}

func writeWord(mem []byte, off uint32, v uint32) {
	mem[off] = uint8(v)
	mem[off+1] = uint8(v >> 8)
	mem[off+2] = uint8(v >> 16)
	mem[off+3] = uint8(v >> 24)
}

func writeHalfBroadcast(mem []byte, off uint32, v uint8) {
	halfOff := off &^ 1
	mem[halfOff] = v
	mem[halfOff+1] = v
}

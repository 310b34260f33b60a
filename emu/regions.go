package emu

// Region identifies one of the sixteen top-nibble address regions.
type Region int

const (
	RegionBootROM Region = iota
	RegionUnused1
	RegionEWRAM
	RegionIWRAM
	RegionIO
	RegionPalette
	RegionVRAM
	RegionOAM
	RegionCartROM0
	RegionCartROM0Hi
	RegionCartROM1
	RegionCartROM1Hi
	RegionCartROM2
	RegionCartROM2Hi
	RegionCartRAM
	RegionUnused15
)

const (
	bootROMSize = 16 * 1024
	ewramSize   = 256 * 1024
	iwramSize   = 32 * 1024
	ioSize      = 0x400
	paletteSize = 1024
	vramSize    = 96 * 1024
	oamSize     = 1024
	cartROMSize = 32 * 1024 * 1024
	cartRAMSize = 64 * 1024
)

// regionInfo describes one region's size, wait-state cost, and
// byte-write policy. waitN/waitS are the region's default "1+N"/"1+S"
// additive terms; the guest-writable wait-state-control register
// overrides the cartridge regions' terms (see bus.go's waitStates).
type regionInfo struct {
	size          uint32
	waitN, waitS  int
	readOnly      bool
	byteIgnored   bool // OAM: byte writes are dropped entirely
	byteBroadcast bool // palette/VRAM: a byte write hits both halves of the halfword
}

var regionTable = [16]regionInfo{
	RegionBootROM:    {size: bootROMSize, waitN: 0, waitS: 0, readOnly: true},
	RegionUnused1:    {size: 0},
	RegionEWRAM:      {size: ewramSize, waitN: 2, waitS: 2},
	RegionIWRAM:      {size: iwramSize, waitN: 0, waitS: 0},
	RegionIO:         {size: ioSize, waitN: 0, waitS: 0},
	RegionPalette:    {size: paletteSize, waitN: 0, waitS: 0, byteBroadcast: true},
	RegionVRAM:       {size: vramSize, waitN: 0, waitS: 0, byteBroadcast: true},
	RegionOAM:        {size: oamSize, waitN: 0, waitS: 0, byteIgnored: true},
	RegionCartROM0:   {size: cartROMSize, waitN: 4, waitS: 2, readOnly: true},
	RegionCartROM0Hi: {size: cartROMSize, waitN: 4, waitS: 2, readOnly: true},
	RegionCartROM1:   {size: cartROMSize, waitN: 4, waitS: 4, readOnly: true},
	RegionCartROM1Hi: {size: cartROMSize, waitN: 4, waitS: 4, readOnly: true},
	RegionCartROM2:   {size: cartROMSize, waitN: 4, waitS: 8, readOnly: true},
	RegionCartROM2Hi: {size: cartROMSize, waitN: 4, waitS: 8, readOnly: true},
	RegionCartRAM:    {size: cartRAMSize, waitN: 8, waitS: 8},
	RegionUnused15:   {size: 0},
}

func regionOf(addr uint32) Region {
	return Region(addr >> 24 & 0xF)
}

// offsetIn computes the mirrored offset of addr within its region, for
// regions whose backing store is smaller than the 16 MiB address window
// the top nibble selects.
func offsetIn(addr uint32, info regionInfo) uint32 {
	if info.size == 0 {
		return 0
	}
	return (addr & 0x00FFFFFF) % info.size
}

// vramOffset applies VRAM's own mirroring quirk: the last 32 KiB slice of
// each 128 KiB window mirrors the 32 KiB immediately before it, rather
// than the whole 96 KiB bank repeating uniformly.
func vramOffset(addr uint32) uint32 {
	off := addr & 0x0001FFFF // 128 KiB window
	if off >= 0x18000 {
		off -= 0x8000
	}
	return off
}

package emu

// AffineParams holds one background's 2x2 transform matrix and
// displacement vector, all in fixed-point as the guest writes them: pa-pd
// are 8.8, x/y are 20.8. BG2 and BG3 each own one.
type AffineParams struct {
	PA, PB, PC, PD int16
	X, Y           int32
}

// LCDStatus is the shared data record read by the bus (for register
// access) and the pixel pipeline (for rendering), and mutated by both.
// Per the design note on deep state sharing, it is a plain record with
// no embedded pointers; each caller receives it by reference through the
// call it is already making rather than through a stored back-pointer.
type LCDStatus struct {
	dispcnt uint16
	dispstat uint16
	vcount  uint16

	bgcnt   [4]uint16
	bgHOfs  [4]uint16
	bgVOfs  [4]uint16
	bgAffine [2]AffineParams
}

const (
	dispstatVBlank     = 1 << 0
	dispstatHBlank     = 1 << 1
	dispstatVCountFlag = 1 << 2
	dispstatVBlankIRQ  = 1 << 3
	dispstatHBlankIRQ  = 1 << 4
	dispstatVCountIRQ  = 1 << 5
)

// VideoMode returns the three-bit mode selector (0-5).
func (l *LCDStatus) VideoMode() int { return int(l.dispcnt & 0x7) }

// BitmapMode reports whether the current video mode is one of the three
// bitmap modes (3-5) rather than a tile mode (0-2).
func (l *LCDStatus) BitmapMode() bool { return l.VideoMode() >= 3 }

// LayerEnabled reports whether background layer bg (0-3) or the object
// layer (4) is enabled for compositing.
func (l *LCDStatus) LayerEnabled(layer int) bool {
	return l.dispcnt&(1<<uint(8+layer)) != 0
}

// ForcedBlank reports whether the display-control forced-blank bit is set.
func (l *LCDStatus) ForcedBlank() bool { return l.dispcnt&(1<<7) != 0 }

// ObjMapping1D reports whether sprite tile mapping is 1D (true) or the
// default 2D layout (false).
func (l *LCDStatus) ObjMapping1D() bool { return l.dispcnt&(1<<6) != 0 }

// DisplayFramePage returns the bitmap-mode page select bit (0 or 1),
// used by modes 4 and 5's double buffering.
func (l *LCDStatus) DisplayFramePage() int {
	if l.dispcnt&(1<<4) != 0 {
		return 1
	}
	return 0
}

func (l *LCDStatus) DISPCNT() uint16        { return l.dispcnt }
func (l *LCDStatus) SetDISPCNT(v uint16)    { l.dispcnt = v }
func (l *LCDStatus) DISPSTAT() uint16       { return l.dispstat&0xFF | l.dispstat&0xFF00 }
func (l *LCDStatus) VCOUNT() uint16         { return l.vcount }

// SetDISPSTAT writes the guest-controllable bits of display-status: the
// three IRQ enables and the VCount compare target. The flag bits (0-2)
// are owned by the scanline state machine and ignored here.
func (l *LCDStatus) SetDISPSTAT(v uint16) {
	l.dispstat = l.dispstat&0x0007 | v&0xFFF8
}

func (l *LCDStatus) InVBlank() bool { return l.dispstat&dispstatVBlank != 0 }
func (l *LCDStatus) InHBlank() bool { return l.dispstat&dispstatHBlank != 0 }

func (l *LCDStatus) vblankIRQEnabled() bool { return l.dispstat&dispstatVBlankIRQ != 0 }
func (l *LCDStatus) hblankIRQEnabled() bool { return l.dispstat&dispstatHBlankIRQ != 0 }
func (l *LCDStatus) vcountIRQEnabled() bool { return l.dispstat&dispstatVCountIRQ != 0 }
func (l *LCDStatus) vcountTarget() uint16   { return l.dispstat >> 8 }

func (l *LCDStatus) setVCount(v uint16) { l.vcount = v }

func (l *LCDStatus) setVBlank(v bool) { setFlagBit16(&l.dispstat, dispstatVBlank, v) }
func (l *LCDStatus) setHBlank(v bool) { setFlagBit16(&l.dispstat, dispstatHBlank, v) }
func (l *LCDStatus) setVCountFlag(v bool) { setFlagBit16(&l.dispstat, dispstatVCountFlag, v) }

func setFlagBit16(word *uint16, mask uint16, v bool) {
	if v {
		*word |= mask
	} else {
		*word &^= mask
	}
}

func (l *LCDStatus) BGCNT(bg int) uint16     { return l.bgcnt[bg] }
func (l *LCDStatus) SetBGCNT(bg int, v uint16) { l.bgcnt[bg] = v }

func (l *LCDStatus) BGScroll(bg int) (h, v uint16) { return l.bgHOfs[bg] & 0x1FF, l.bgVOfs[bg] & 0x1FF }
func (l *LCDStatus) SetBGHOfs(bg int, v uint16)    { l.bgHOfs[bg] = v }
func (l *LCDStatus) SetBGVOfs(bg int, v uint16)    { l.bgVOfs[bg] = v }

func (l *LCDStatus) BGAffine(bg int) *AffineParams {
	return &l.bgAffine[bg-2]
}

// bgPriority, bgCharBlock, bgMosaic, bgColorDepth8, bgScreenBlock,
// bgAffineWrap, bgSizeField decode BGxCNT's packed fields, per the "packed bitfields as integers
// with accessor functions" design note.
func bgPriority(cnt uint16) int      { return int(cnt & 0x3) }
func bgCharBlock(cnt uint16) uint32  { return uint32(cnt>>2&0x3) * 0x4000 }
func bgMosaic(cnt uint16) bool       { return cnt&(1<<6) != 0 }
func bgColorDepth8(cnt uint16) bool  { return cnt&(1<<7) != 0 }
func bgScreenBlock(cnt uint16) uint32 { return uint32(cnt>>8&0x1F) * 0x800 }
func bgAffineWrap(cnt uint16) bool   { return cnt&(1<<13) != 0 }
func bgSizeField(cnt uint16) int     { return int(cnt >> 14 & 0x3) }

package emu

// renderScanline produces one row of the framebuffer for the given
// visible scanline (0-159), dispatching on the current video mode.
func (p *PPU) renderScanline(y int) {
	if p.lcd.ForcedBlank() {
		p.fillRow(y, 0xFF000000)
		return
	}

	switch p.lcd.VideoMode() {
	case 0:
		p.renderTileModeRow(y, false)
	case 1:
		p.renderMode1Row(y)
	case 2:
		p.renderMode2Row(y)
	case 3:
		p.renderBitmapRow(y, 2, false)
	case 4:
		p.renderBitmapRow(y, 1, true)
	case 5:
		p.renderBitmapRow(y, 2, false)
	default:
		p.fillRow(y, 0xFF000000)
	}
}

func (p *PPU) fillRow(y int, color uint32) {
	base := y * screenWidth
	for x := 0; x < screenWidth; x++ {
		p.frame[base+x] = color
	}
}

// layerPixel is one candidate pixel contending for a screen column: its
// priority (lower wins), the layer it came from (for sprite-vs-bg
// tiebreaking), and its expanded color.
type layerPixel struct {
	valid    bool
	priority int
	isSprite bool
	color    uint32
}

func (a layerPixel) beats(b layerPixel) bool {
	if !b.valid {
		return true
	}
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.isSprite && !b.isSprite
}

// renderTileModeRow renders mode 0 (four regular backgrounds). Modes 1
// and 2 have their own row renderers; the bool parameter is unused.
func (p *PPU) renderTileModeRow(y int, _ bool) {
	row := make([]layerPixel, screenWidth)
	for bg := 3; bg >= 0; bg-- {
		if !p.lcd.LayerEnabled(bg) {
			continue
		}
		p.blendRegularBG(bg, y, row)
	}
	p.blendSprites(y, row)
	p.commitRow(y, row)
}

func (p *PPU) renderMode1Row(y int) {
	row := make([]layerPixel, screenWidth)
	for bg := 1; bg >= 0; bg-- {
		if p.lcd.LayerEnabled(bg) {
			p.blendRegularBG(bg, y, row)
		}
	}
	if p.lcd.LayerEnabled(2) {
		p.blendAffineBG(2, y, row)
	}
	p.blendSprites(y, row)
	p.commitRow(y, row)
}

func (p *PPU) renderMode2Row(y int) {
	row := make([]layerPixel, screenWidth)
	if p.lcd.LayerEnabled(2) {
		p.blendAffineBG(2, y, row)
	}
	if p.lcd.LayerEnabled(3) {
		p.blendAffineBG(3, y, row)
	}
	p.blendSprites(y, row)
	p.commitRow(y, row)
}

func (p *PPU) commitRow(y int, row []layerPixel) {
	base := y * screenWidth
	for x := 0; x < screenWidth; x++ {
		if row[x].valid {
			p.frame[base+x] = row[x].color
		} else {
			p.frame[base+x] = p.backdrop()
		}
	}
}

func (p *PPU) backdrop() uint32 {
	return expandColor15(readHalf(p.bus.PaletteBytes(), 0))
}

// bgTileMapSizes gives the regular-background map dimensions in tiles
// for BGxCNT's two-bit size field.
var bgTileMapSizes = [4][2]int{{32, 32}, {64, 32}, {32, 64}, {64, 64}}

func (p *PPU) blendRegularBG(bg, y int, row []layerPixel) {
	cnt := p.lcd.BGCNT(bg)
	priority := bgPriority(cnt)
	charBase := bgCharBlock(cnt)
	screenBase := bgScreenBlock(cnt)
	depth8 := bgColorDepth8(cnt)
	mapW, mapH := bgTileMapSizes[bgSizeField(cnt)]

	hofs, vofs := p.lcd.BGScroll(bg)
	srcY := (y + int(vofs)) % (mapH * 8)
	vram := p.bus.VRAMBytes()

	for x := 0; x < screenWidth; x++ {
		srcX := (x + int(hofs)) % (mapW * 8)
		tileX, tileY := srcX/8, srcY/8
		blockX, blockY := tileX/32, tileY/32
		block := blockY*(mapW/32) + blockX
		if mapW == 64 && mapH == 64 {
			block = blockY*2 + blockX
		}
		entryOff := screenBase + uint32(block)*0x800 + uint32((tileY%32)*32+(tileX%32))*2
		if int(entryOff)+1 >= len(vram) {
			continue
		}
		entry := readHalf(vram, entryOff)
		tileIndex := uint32(entry & 0x3FF)
		hFlip := entry&(1<<10) != 0
		vFlip := entry&(1<<11) != 0
		bank := uint8(entry >> 12 & 0xF)

		px, py := srcX%8, srcY%8
		if hFlip {
			px = 7 - px
		}
		if vFlip {
			py = 7 - py
		}

		tile := p.cache.decode(vram, tileKey{base: charBase, tile: tileIndex, depth: depth8, bank: bank})
		idx := tile[py*8+px]
		if idx == 0 {
			continue
		}
		color := expandColor15(readHalf(p.bus.PaletteBytes(), uint32(idx)*2))
		cand := layerPixel{valid: true, priority: priority, color: color}
		if cand.beats(row[x]) {
			row[x] = cand
		}
	}
}

// blendAffineBG renders an affine (rotation/scaling) background row,
// mapping screen pixel (x, y) into map space as the reference point plus
// x*(pa, pc) + y*(pb, pd).
func (p *PPU) blendAffineBG(bg, y int, row []layerPixel) {
	cnt := p.lcd.BGCNT(bg)
	priority := bgPriority(cnt)
	charBase := bgCharBlock(cnt)
	screenBase := bgScreenBlock(cnt)
	wrap := bgAffineWrap(cnt)

	sizeTiles := 16 << uint(bgSizeField(cnt))
	sizePixels := sizeTiles * 8

	aff := p.lcd.BGAffine(bg)
	vram := p.bus.VRAMBytes()

	refX := aff.X
	refY := aff.Y
	pa, pb := int32(aff.PA), int32(aff.PB)
	pc, pd := int32(aff.PC), int32(aff.PD)

	for x := 0; x < screenWidth; x++ {
		srcX := (refX + int32(x)*pa + int32(y)*pb) >> 8
		srcY := (refY + int32(x)*pc + int32(y)*pd) >> 8

		if wrap {
			srcX = wrapCoord(srcX, int32(sizePixels))
			srcY = wrapCoord(srcY, int32(sizePixels))
		} else if srcX < 0 || srcY < 0 || int(srcX) >= sizePixels || int(srcY) >= sizePixels {
			continue
		}

		tileX, tileY := int(srcX)/8, int(srcY)/8
		mapOff := screenBase + uint32(tileY*sizeTiles+tileX)
		if int(mapOff) >= len(vram) {
			continue
		}
		tileIndex := uint32(vram[mapOff])
		px, py := int(srcX)%8, int(srcY)%8

		tile := p.cache.decode(vram, tileKey{base: charBase, tile: tileIndex, depth: true})
		idx := tile[py*8+px]
		if idx == 0 {
			continue
		}
		color := expandColor15(readHalf(p.bus.PaletteBytes(), uint32(idx)*2))
		cand := layerPixel{valid: true, priority: priority, color: color}
		if cand.beats(row[x]) {
			row[x] = cand
		}
	}
}

func wrapCoord(v, size int32) int32 {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}

// renderBitmapRow renders the direct-color (mode 3/5) or paletted
// (mode 4) bitmap modes. bytesPerPixel is 2 for modes 3/5, 1 for mode 4.
func (p *PPU) renderBitmapRow(y, bytesPerPixel int, paletted bool) {
	vram := p.bus.VRAMBytes()
	width := screenWidth
	if p.lcd.VideoMode() == 5 {
		width = 160
	}
	if y >= 128 && p.lcd.VideoMode() == 5 {
		p.fillRow(y, p.backdrop())
		return
	}

	pageOffset := uint32(0)
	if paletted && p.lcd.DisplayFramePage() == 1 {
		pageOffset = 0xA000
	} else if !paletted && p.lcd.VideoMode() == 5 && p.lcd.DisplayFramePage() == 1 {
		pageOffset = 0xA000
	}

	base := y * screenWidth
	rowStart := pageOffset + uint32(y*width*bytesPerPixel)

	for x := 0; x < screenWidth; x++ {
		if x >= width {
			p.frame[base+x] = p.backdrop()
			continue
		}
		off := rowStart + uint32(x*bytesPerPixel)
		if int(off)+bytesPerPixel > len(vram) {
			p.frame[base+x] = p.backdrop()
			continue
		}
		if paletted {
			idx := vram[off]
			if idx == 0 {
				p.frame[base+x] = p.backdrop()
				continue
			}
			p.frame[base+x] = expandColor15(readHalf(p.bus.PaletteBytes(), uint32(idx)*2))
		} else {
			p.frame[base+x] = expandColor15(readHalf(vram, off))
		}
	}
}

// expandColor15 widens a BGR555 palette entry into an opaque 32-bit color
// laid out as 0xAABBGGRR (alpha high, red in the low byte).
func expandColor15(c uint16) uint32 {
	r := uint32(c&0x1F) * 255 / 31
	g := uint32(c>>5&0x1F) * 255 / 31
	b := uint32(c>>10&0x1F) * 255 / 31
	return 0xFF000000 | b<<16 | g<<8 | r
}

// oamEntry is one of the 128 sprite attribute records, 8 bytes each.
type oamEntry struct {
	attr0, attr1, attr2 uint16
}

func readOAMEntries(oam []byte) [128]oamEntry {
	var out [128]oamEntry
	for i := 0; i < 128; i++ {
		base := uint32(i * 8)
		out[i] = oamEntry{
			attr0: readHalf(oam, base),
			attr1: readHalf(oam, base+2),
			attr2: readHalf(oam, base+4),
		}
	}
	return out
}

var objShapeSizes = map[[2]uint8][2]int{
	{0, 0}: {8, 8}, {0, 1}: {16, 16}, {0, 2}: {32, 32}, {0, 3}: {64, 64},
	{1, 0}: {16, 8}, {1, 1}: {32, 8}, {1, 2}: {32, 16}, {1, 3}: {64, 32},
	{2, 0}: {8, 16}, {2, 1}: {8, 32}, {2, 2}: {16, 32}, {2, 3}: {32, 64},
}

// blendSprites composites every enabled, on-screen object onto row y,
// handling normal, affine, and double-size-affine objects.
func (p *PPU) blendSprites(y int, row []layerPixel) {
	if !p.lcd.LayerEnabled(4) {
		return
	}
	oam := readOAMEntries(p.bus.OAMBytes())
	vram := p.bus.VRAMBytes()
	mapping1D := p.lcd.ObjMapping1D()

	for _, e := range oam {
		shape := uint8(e.attr0 >> 14 & 0x3)
		affineFlag := e.attr0&(1<<8) != 0
		doubleSize := e.attr0&(1<<9) != 0
		disabled := !affineFlag && doubleSize
		if disabled {
			continue
		}
		sizeField := uint8(e.attr1 >> 14 & 0x3)
		dims, ok := objShapeSizes[[2]uint8{shape, sizeField}]
		if !ok {
			continue
		}
		w, h := dims[0], dims[1]

		var objY int
		if e.attr0&0xFF >= 0x80 {
			objY = int(e.attr0&0xFF) - 256
		} else {
			objY = int(e.attr0 & 0xFF)
		}

		boundH := h
		if affineFlag && doubleSize {
			boundH = h * 2
		}
		if y < objY || y >= objY+boundH {
			continue
		}

		objX := int(e.attr1 & 0x1FF)
		if objX >= 256 {
			objX -= 512
		}

		depth8 := e.attr0&(1<<13) != 0
		priority := int(e.attr2 >> 10 & 0x3)
		tileIndex := uint32(e.attr2 & 0x3FF)
		bank := uint8(e.attr2 >> 12 & 0xF)
		charBase := uint32(0x10000)

		boundW := w
		if affineFlag && doubleSize {
			boundW = w * 2
		}

		hFlip := !affineFlag && e.attr1&(1<<12) != 0
		vFlip := !affineFlag && e.attr1&(1<<13) != 0

		var pa, pb, pc, pd int32 = 256, 0, 0, 256
		if affineFlag {
			group := int(e.attr1 >> 9 & 0x1F)
			pa, pb, pc, pd = readAffineGroup(p.bus.OAMBytes(), group)
		}

		localY := y - objY
		centerX, centerY := boundW/2, boundH/2

		for sx := 0; sx < boundW; sx++ {
			screenX := objX + sx
			if screenX < 0 || screenX >= screenWidth {
				continue
			}

			var tx, ty int
			if affineFlag {
				dx := int32(sx - centerX)
				dy := int32(localY - centerY)
				fx := (pa*dx + pb*dy) >> 8
				fy := (pc*dx + pd*dy) >> 8
				tx = int(fx) + w/2
				ty = int(fy) + h/2
				if tx < 0 || ty < 0 || tx >= w || ty >= h {
					continue
				}
			} else {
				tx, ty = sx, localY
				if hFlip {
					tx = w - 1 - tx
				}
				if vFlip {
					ty = h - 1 - ty
				}
			}

			tileX, tileY := tx/8, ty/8
			tilesPerRow := w / 8
			var tile uint32
			if mapping1D {
				tile = tileIndex + uint32(tileY*tilesPerRow+tileX)
			} else {
				rowTiles := 32
				if depth8 {
					rowTiles = 16
				}
				tile = tileIndex + uint32(tileY*rowTiles+tileX)
			}

			decoded := p.cache.decode(vram, tileKey{base: charBase, tile: tile, depth: depth8, bank: bank})
			idx := decoded[(ty%8)*8+(tx%8)]
			if idx == 0 {
				continue
			}
			color := expandColor15(readHalf(p.bus.PaletteBytes(), 0x200+uint32(idx)*2))
			cand := layerPixel{valid: true, priority: priority, isSprite: true, color: color}
			if cand.beats(row[screenX]) {
				row[screenX] = cand
			}
		}
	}
}

// readAffineGroup reads one of the 32 rotation/scaling parameter groups,
// each stored interleaved across four consecutive OAM entries' attr3
// halfwords (the padding word following every entry's attr2).
func readAffineGroup(oam []byte, group int) (pa, pb, pc, pd int32) {
	base := uint32(group * 32)
	pa = int32(int16(readHalf(oam, base+6)))
	pb = int32(int16(readHalf(oam, base+14)))
	pc = int32(int16(readHalf(oam, base+22)))
	pd = int32(int16(readHalf(oam, base+30)))
	return
}

package emu

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// tileKey identifies one decoded 8x8 tile: its character-block base
// offset, tile index within that block, bit depth, and (for 4bpp tiles)
// palette bank. Two tiles with the same key always decode to the same
// pixel indices, so the cache can key on it directly rather than hashing
// the source bytes.
type tileKey struct {
	base  uint32
	tile  uint32
	depth bool // true = 8bpp, false = 4bpp
	bank  uint8
}

// decodedTile holds one tile's 64 palette indices, row-major, still
// un-expanded to color (4bpp tiles carry the bank pre-applied into the
// high nibble so every decoded tile is a plain 0-255 palette index).
type decodedTile [64]uint8

const tileCacheSize = 512

// tileCache memoizes tile decode within a frame. It is purged wholesale
// once per frame, when Console.Step sees the scanline counter wrap to 0;
// VRAM writes do not invalidate it, so a tile already cached keeps its
// decoded pixels until that purge even if its VRAM bytes change.
type tileCache struct {
	lru *lru.Cache[tileKey, decodedTile]
}

func newTileCache() *tileCache {
	c, err := lru.New[tileKey, decodedTile](tileCacheSize)
	if err != nil {
		panic(err)
	}
	return &tileCache{lru: c}
}

func (c *tileCache) invalidate() {
	c.lru.Purge()
}

// decode returns the 64 palette indices for one tile, decoding from vram
// on a cache miss.
func (c *tileCache) decode(vram []byte, key tileKey) decodedTile {
	if t, ok := c.lru.Get(key); ok {
		return t
	}

	var t decodedTile
	if key.depth {
		off := key.base + key.tile*64
		for i := 0; i < 64; i++ {
			if int(off)+i < len(vram) {
				t[i] = vram[off+uint32(i)]
			}
		}
	} else {
		off := key.base + key.tile*32
		for i := 0; i < 32; i++ {
			if int(off)+i >= len(vram) {
				break
			}
			b := vram[off+uint32(i)]
			lo := b & 0xF
			hi := b >> 4
			t[i*2] = paletteIndex(lo, key.bank)
			t[i*2+1] = paletteIndex(hi, key.bank)
		}
	}

	c.lru.Add(key, t)
	return t
}

// paletteIndex combines a 4bpp pixel's nibble with its palette bank into
// the flat index used to look up the 256-color palette RAM, treating
// nibble 0 as always transparent (the bank bits are irrelevant then).
func paletteIndex(nibble, bank uint8) uint8 {
	if nibble == 0 {
		return 0
	}
	return bank<<4 | nibble
}

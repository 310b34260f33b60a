package emu

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Cartridge is the loaded game image: a flat, mirrored ROM window (this
// architecture has no bank-switching hardware, unlike the memory-mapper
// cartridges some other consoles use) plus whichever backup device the
// signature scan identified.
type Cartridge struct {
	rom    []byte
	backup BackupDevice
}

// backup signature tags, scanned as plain ASCII anywhere in the image.
var backupSignatures = []struct {
	tag   string
	build func() BackupDevice
}{
	{"FLASH1M_V", func() BackupDevice { return newFlashBackup(flashSize128K) }},
	{"FLASH512_V", func() BackupDevice { return newFlashBackup(flashSize64K) }},
	{"FLASH_V", func() BackupDevice { return newFlashBackup(flashSize64K) }},
	{"SRAM_V", func() BackupDevice { return &sramBackup{} }},
}

// LoadCartridge builds a Cartridge from a raw image, transparently
// decompressing it first if it looks like a gzip stream (some cartridge
// distributions ship gzip-compressed images). The image is scanned for
// an ASCII backup signature; if none is found, the cartridge has no
// backup memory.
func LoadCartridge(data []byte) (*Cartridge, error) {
	data, err := maybeDecompress(data)
	if err != nil {
		return nil, err
	}

	cart := &Cartridge{rom: data, backup: noneBackup{}}
	for _, sig := range backupSignatures {
		if bytes.Contains(data, []byte(sig.tag)) {
			cart.backup = sig.build()
			break
		}
	}
	return cart, nil
}

func maybeDecompress(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1F || data[1] != 0x8B {
		return data, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (c *Cartridge) romOffset(addr uint32) uint32 {
	if len(c.rom) == 0 {
		return 0
	}
	return addr % uint32(len(c.rom))
}

// ReadROM8/16/32 read from the flat, mirrored ROM window. Reads past the
// end of a short image wrap rather than fault, matching the open-bus
// behavior real cartridge edge connectors exhibit.
func (c *Cartridge) ReadROM8(addr uint32) uint8 {
	if len(c.rom) == 0 {
		return 0
	}
	return c.rom[c.romOffset(addr)]
}

func (c *Cartridge) ReadROM16(addr uint32) uint16 {
	if len(c.rom) == 0 {
		return 0
	}
	addr &^= 1
	return uint16(c.ReadROM8(addr)) | uint16(c.ReadROM8(addr+1))<<8
}

func (c *Cartridge) ReadROM32(addr uint32) uint32 {
	if len(c.rom) == 0 {
		return 0
	}
	addr &^= 3
	return uint32(c.ReadROM8(addr)) | uint32(c.ReadROM8(addr+1))<<8 |
		uint32(c.ReadROM8(addr+2))<<16 | uint32(c.ReadROM8(addr+3))<<24
}

// ReadBackup8/WriteBackup8 delegate to whichever backup device the
// signature scan installed.
func (c *Cartridge) ReadBackup8(addr uint32) uint8     { return c.backup.Read(addr) }
func (c *Cartridge) WriteBackup8(addr uint32, v uint8) { c.backup.Write(addr, v) }

// BackupImage returns the persisted byte image of the backup device, or
// nil if the cartridge has none. Persistence itself (reading/writing a
// save file) is a host concern the core does not implement.
func (c *Cartridge) BackupImage() []byte { return c.backup.Raw() }

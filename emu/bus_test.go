package emu

import "testing"

func TestMemoryBus_EWRAMReadWriteRoundTrips(t *testing.T) {
	bus := newTestBus()
	bus.Write32(0x02000100, 0xDEADBEEF)
	got, _ := bus.Read32(0x02000100)
	if got != 0xDEADBEEF {
		t.Errorf("expected 0xDEADBEEF, got %#x", got)
	}
}

func TestMemoryBus_EWRAMMirrorsPast256K(t *testing.T) {
	bus := newTestBus()
	bus.Write8(0x02000000, 0x77)
	got, _ := bus.Read8(0x02000000 + ewramSize)
	if got != 0x77 {
		t.Errorf("EWRAM should mirror every 256 KiB, got %#x", got)
	}
}

func TestMemoryBus_OAMIgnoresByteWrites(t *testing.T) {
	bus := newTestBus()
	bus.Write16(0x07000000, 0x1234)
	bus.Write8(0x07000000, 0xFF)
	got, _ := bus.Read16(0x07000000)
	if got != 0x1234 {
		t.Errorf("OAM byte writes should be dropped entirely, got %#x", got)
	}
}

func TestMemoryBus_PaletteByteWriteBroadcastsToBothHalfwordBytes(t *testing.T) {
	bus := newTestBus()
	bus.Write8(0x05000000, 0x5A)
	got, _ := bus.Read16(0x05000000)
	if got != 0x5A5A {
		t.Errorf("a palette byte write should broadcast to both halfword bytes, got %#x", got)
	}
}

func TestMemoryBus_VRAMMirrorsLast32KOfEach128K(t *testing.T) {
	bus := newTestBus()
	bus.vram[0x10500] = 0x99
	off := vramOffset(0x06018000 + 0x500)
	if bus.vram[off] != 0x99 {
		t.Errorf("address 0x06018500 should mirror VRAM offset 0x10500, got offset %#x", off)
	}
}

func TestMemoryBus_BootROMReadProtectionAfterPCLeaves(t *testing.T) {
	bus := newTestBus()
	bus.LoadBootROM(make([]byte, bootROMSize))
	writeWord(bus.bootROM, 0, 0xAABBCCDD)

	bus.NotePC(0)
	word, _ := bus.Read32(0)
	if word != 0xAABBCCDD {
		t.Fatalf("reading boot ROM while PC is inside it should return its content, got %#x", word)
	}
	bus.NoteBootSnapshot(word)

	bus.NotePC(0x08000000) // PC has moved into cartridge space
	got, _ := bus.Read32(0)
	if got != 0xAABBCCDD {
		t.Errorf("reading boot ROM after PC has left it should return the last snapshot, got %#x", got)
	}
}

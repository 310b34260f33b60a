package emu

import "testing"

func TestSramBackup_FlatReadWrite(t *testing.T) {
	s := &sramBackup{}
	s.Write(0x100, 0x42)
	if got := s.Read(0x100); got != 0x42 {
		t.Errorf("expected 0x42, got %#x", got)
	}
}

func TestFlashBackup_CommandSequenceUnlocksChipID(t *testing.T) {
	f := newFlashBackup(flashSize64K)

	f.Write(flashCmdAddr1, 0xAA)
	f.Write(flashCmdAddr2, 0x55)
	f.Write(flashCmdAddr1, 0x90)

	if !f.chipIDMode {
		t.Fatal("the 0xAA/0x55/0x90 sequence should enter chip-ID mode")
	}
	if got := f.Read(0); got != 0x32 {
		t.Errorf("64K Flash manufacturer ID: expected 0x32, got %#x", got)
	}

	f.Write(flashCmdAddr1, 0xAA)
	f.Write(flashCmdAddr2, 0x55)
	f.Write(flashCmdAddr1, 0xF0)
	if f.chipIDMode {
		t.Error("0xF0 should exit chip-ID mode")
	}
}

func TestFlashBackup_SectorEraseFillsWithFF(t *testing.T) {
	f := newFlashBackup(flashSize64K)
	f.mem[0x1000] = 0x00
	f.mem[0x1FFF] = 0x00
	f.mem[0x2000] = 0x11 // outside the erased sector

	f.Write(flashCmdAddr1, 0xAA)
	f.Write(flashCmdAddr2, 0x55)
	f.Write(flashCmdAddr1, 0x80)
	f.Write(flashCmdAddr1, 0xAA)
	f.Write(flashCmdAddr2, 0x55)
	f.Write(0x1000, 0x30)

	if f.mem[0x1000] != 0xFF || f.mem[0x1FFF] != 0xFF {
		t.Error("a 4K sector erase should fill the targeted sector with 0xFF")
	}
	if f.mem[0x2000] != 0x11 {
		t.Error("a 4K sector erase must not touch bytes outside the target sector")
	}
}

func TestFlashBackup_ByteProgramWritesSingleByte(t *testing.T) {
	f := newFlashBackup(flashSize64K)

	f.Write(flashCmdAddr1, 0xAA)
	f.Write(flashCmdAddr2, 0x55)
	f.Write(flashCmdAddr1, 0xA0)
	f.Write(0x50, 0x77)

	if got := f.Read(0x50); got != 0x77 {
		t.Errorf("byte-program command should write the following byte, got %#x", got)
	}
}

func TestFlashBackup_BankSelectOn128K(t *testing.T) {
	f := newFlashBackup(flashSize128K)
	f.mem[0x10000] = 0x99 // bank 1, offset 0

	f.Write(flashCmdAddr1, 0xAA)
	f.Write(flashCmdAddr2, 0x55)
	f.Write(flashCmdAddr1, 0xB0)
	f.Write(0, 1)

	if got := f.Read(0); got != 0x99 {
		t.Errorf("selecting bank 1 should redirect reads into the second 64K half, got %#x", got)
	}
}

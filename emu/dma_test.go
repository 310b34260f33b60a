package emu

import "testing"

func newTestBus() *MemoryBus {
	lcd := &LCDStatus{}
	irqs := NewInterruptController()
	dma := NewDMAEngine(irqs)
	timers := NewTimerBlock(irqs)
	keypad := NewKeypad()
	return NewMemoryBus(lcd, dma, timers, irqs, keypad)
}

func TestDMA_ImmediateTriggerFiresFourWordCopy(t *testing.T) {
	irqs := NewInterruptController()
	dma := NewDMAEngine(irqs)
	bus := newTestBus()

	const src, dst = uint32(0x02000000), uint32(0x02001000)
	for i := uint32(0); i < 4; i++ {
		writeWord(bus.ewram, src-0x02000000+i*4, 0x1000+i)
	}

	dma.SetSource(3, src)
	dma.SetDest(3, dst)
	dma.SetCount(3, 4)

	control := uint16(1<<15) | uint16(1<<10) // enable, 32-bit chunks, immediate trigger
	fireNow := dma.Arm(3, control)
	if !fireNow {
		t.Fatal("an immediate-trigger enable write should report fireNow")
	}
	dma.Fire(3, bus)

	for i := uint32(0); i < 4; i++ {
		got := readWord(bus.ewram, dst-0x02000000+i*4)
		if got != 0x1000+i {
			t.Errorf("word %d: expected %#x, got %#x", i, 0x1000+i, got)
		}
	}
}

func TestDMA_IncrementReloadRestoresDestAfterEachRepeat(t *testing.T) {
	irqs := NewInterruptController()
	dma := NewDMAEngine(irqs)
	bus := newTestBus()

	dma.SetSource(0, 0x02000000)
	dma.SetDest(0, 0x02001000)
	dma.SetCount(0, 2)
	control := uint16(1<<15) | uint16(AddrIncrementReload)<<5 | uint16(1<<9) // enable, dest incr+reload, repeat
	dma.Arm(0, control)

	dma.Fire(0, bus)
	if got := dma.channels[0].dest; got != 0x02001000 {
		t.Errorf("increment-and-reload dest should reset to its original value after a repeat-armed run, got %#x", got)
	}
}

func TestDMA_NonRepeatingChannelDisablesAfterFire(t *testing.T) {
	irqs := NewInterruptController()
	dma := NewDMAEngine(irqs)
	bus := newTestBus()

	dma.SetSource(1, 0x02000000)
	dma.SetDest(1, 0x02001000)
	dma.SetCount(1, 1)
	dma.Arm(1, uint16(1<<15))

	dma.Fire(1, bus)
	if dma.channels[1].enabled {
		t.Error("a non-repeating channel should disable itself once its transfer completes")
	}
}

func TestDMA_OnEventOnlyFiresMatchingTrigger(t *testing.T) {
	irqs := NewInterruptController()
	dma := NewDMAEngine(irqs)
	bus := newTestBus()

	dma.SetSource(2, 0x02000000)
	dma.SetDest(2, 0x02001000)
	dma.SetCount(2, 1)
	dma.Arm(2, uint16(1<<15)|uint16(DMAVBlank)<<12)

	cyclesFromHBlank := dma.OnEvent(DMAHBlank, bus)
	if cyclesFromHBlank != 0 {
		t.Error("a VBlank-armed channel must not fire on an HBlank event")
	}
	if !dma.channels[2].enabled {
		t.Error("channel should still be armed after a non-matching event")
	}

	cyclesFromVBlank := dma.OnEvent(DMAVBlank, bus)
	if cyclesFromVBlank == 0 {
		t.Error("a VBlank-armed channel should fire on a VBlank event")
	}
}

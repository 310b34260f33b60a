package emu

import "testing"

func TestTimers_CountsUpAndReloadsOnOverflow(t *testing.T) {
	irqs := NewInterruptController()
	tb := NewTimerBlock(irqs)

	tb.WriteData(0, 0xFFFE)
	tb.WriteControl(0, 1<<7) // enable, prescaler /1

	tb.Tick(1)
	if got := tb.Read(0); got != 0xFFFF {
		t.Errorf("after 1 cycle at prescaler /1: expected 0xFFFF, got %#x", got)
	}

	tb.Tick(1)
	if got := tb.Read(0); got != 0xFFFE {
		t.Errorf("overflow should reload from the data register, got %#x", got)
	}
}

func TestTimers_CascadeChainsOverflow(t *testing.T) {
	irqs := NewInterruptController()
	tb := NewTimerBlock(irqs)

	tb.WriteData(0, 0xFFFF)
	tb.WriteControl(0, 1<<7) // timer 0 enabled, prescaler /1, no cascade (it's the source)

	tb.WriteData(1, 0x1234)
	tb.WriteControl(1, 1<<7|1<<2) // timer 1 enabled + cascade

	tb.Tick(1) // timer 0 overflows once, should step timer 1 by one

	if got := tb.Read(1); got != 0x1235 {
		t.Errorf("cascaded timer should advance by one on the source's overflow, got %#x", got)
	}
}

func TestTimers_CascadedChannelIgnoresItsOwnPrescaler(t *testing.T) {
	irqs := NewInterruptController()
	tb := NewTimerBlock(irqs)

	tb.WriteData(1, 0)
	tb.WriteControl(1, 1<<7|1<<2|0x3) // enabled, cascade, prescaler /1024 (irrelevant while cascaded)

	tb.Tick(2000) // far fewer cycles than the prescaler alone would need to tick

	if got := tb.Read(1); got != 0 {
		t.Errorf("a cascaded channel must not free-run on its own prescaler, got %#x", got)
	}
}

func TestTimers_OverflowRaisesInterruptWhenEnabled(t *testing.T) {
	irqs := NewInterruptController()
	tb := NewTimerBlock(irqs)

	tb.WriteData(2, 0xFFFF)
	tb.WriteControl(2, 1<<7|1<<6) // enabled, irq-on-overflow

	tb.Tick(1)

	if irqs.IF()&(1<<IntTimer2) == 0 {
		t.Error("timer 2's overflow should have raised its IF bit")
	}
}

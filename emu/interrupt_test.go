package emu

import "testing"

func TestInterruptController_PendingRequiresIME(t *testing.T) {
	ic := NewInterruptController()
	ic.SetIE(1 << IntVBlank)
	ic.Raise(IntVBlank)

	if pending, _ := ic.Pending(); pending {
		t.Error("a requesting, enabled source must not be pending while IME is clear")
	}

	ic.SetIME(true)
	if pending, _ := ic.Pending(); !pending {
		t.Error("setting IME should surface the already-latched, enabled request")
	}
}

func TestInterruptController_WriteIFIsWriteOneToClear(t *testing.T) {
	ic := NewInterruptController()
	ic.Raise(IntVBlank)
	ic.Raise(IntHBlank)

	ic.WriteIF(1 << IntVBlank)

	if ic.IF()&(1<<IntVBlank) != 0 {
		t.Error("writing 1 to an IF bit should clear it")
	}
	if ic.IF()&(1<<IntHBlank) == 0 {
		t.Error("writing 0 to an IF bit should leave it untouched")
	}
}

func TestInterruptController_DisabledSourceNeverPends(t *testing.T) {
	ic := NewInterruptController()
	ic.SetIME(true)
	ic.Raise(IntKeypad) // IE never set for this source

	if pending, _ := ic.Pending(); pending {
		t.Error("a requesting source not enabled in IE must not be pending")
	}
}

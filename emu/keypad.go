package emu

// Keypad bit positions within the packed, active-low input register.
const (
	KeyA = iota
	KeyB
	KeySelect
	KeyStart
	KeyRight
	KeyLeft
	KeyUp
	KeyDown
	KeyShoulderR
	KeyShoulderL
)

// Keypad holds the ten-bit active-low input register the host writes and
// the processor reads via KEYINPUT. The unused upper bits (10-15) read
// as 0.
type Keypad struct {
	state uint16
}

// NewKeypad returns a keypad with every key released (all ten key bits
// set).
func NewKeypad() *Keypad {
	return &Keypad{state: 0x03FF}
}

// SetKey updates one key's pressed state. down=true clears the bit
// (active-low).
func (k *Keypad) SetKey(key int, down bool) {
	mask := uint16(1) << uint(key)
	if down {
		k.state &^= mask
	} else {
		k.state |= mask
	}
}

// State returns the packed register value as the guest reads it.
func (k *Keypad) State() uint16 { return k.state }

// Package joypad implements the P1 (FF00) register matrix of 4 buttons by
// 2 rows, grounded on the teacher's bus JOYP handling.
package joypad

import "github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/pic"

// Button bitmask values; a set bit means pressed.
const (
	Right = 1 << 0
	Left  = 1 << 1
	Up    = 1 << 2
	Down  = 1 << 3
	A     = 1 << 4
	B     = 1 << 5
	Select = 1 << 6
	Start = 1 << 7
)

// Joypad tracks which buttons are pressed and the host-selected row(s).
type Joypad struct {
	selectBits byte // last written bits 5-4, active-low selection
	pressed    byte // Button* bitmask, set = pressed
	lastLow4   byte // previous computed active-low lower nibble, for edge detection

	pic *pic.PIC
}

// New constructs a Joypad wired to request the Joypad interrupt via pic.
func New(p *pic.PIC) *Joypad {
	return &Joypad{pic: p, lastLow4: 0x0F}
}

// Reset restores the post-bootrom default (both rows selected, nothing pressed).
func (j *Joypad) Reset() { *j = Joypad{pic: j.pic, lastLow4: 0x0F} }

// SetButtons replaces the full pressed-button mask and re-evaluates the
// interrupt edge against the currently selected row(s).
func (j *Joypad) SetButtons(mask byte) {
	j.pressed = mask
	j.refresh()
}

// Read implements the FF00 register read: bits 6-7 always read 1, bits 4-5
// echo the selection, bits 0-3 report the active-low state of the selected
// row(s) (both rows OR together if both are selected).
func (j *Joypad) Read() byte {
	return 0xC0 | j.selectBits | j.lowNibble()
}

// Write implements the FF00 register write: only bits 4-5 are writable.
func (j *Joypad) Write(v byte) {
	j.selectBits = v & 0x30
	j.refresh()
}

func (j *Joypad) lowNibble() byte {
	out := byte(0x0F)
	if j.selectBits&0x10 == 0 { // P14 low selects D-pad
		if j.pressed&Right != 0 {
			out &^= 0x01
		}
		if j.pressed&Left != 0 {
			out &^= 0x02
		}
		if j.pressed&Up != 0 {
			out &^= 0x04
		}
		if j.pressed&Down != 0 {
			out &^= 0x08
		}
	}
	if j.selectBits&0x20 == 0 { // P15 low selects buttons
		if j.pressed&A != 0 {
			out &^= 0x01
		}
		if j.pressed&B != 0 {
			out &^= 0x02
		}
		if j.pressed&Select != 0 {
			out &^= 0x04
		}
		if j.pressed&Start != 0 {
			out &^= 0x08
		}
	}
	return out
}

// refresh recomputes the active-low lower nibble and requests the Joypad
// interrupt on any 1->0 transition, per §4.7.
func (j *Joypad) refresh() {
	newLow := j.lowNibble()
	if falling := j.lastLow4 &^ newLow; falling != 0 {
		j.pic.Request(pic.Joypad)
	}
	j.lastLow4 = newLow
}

// Package timer implements the DIV/TIMA/TMA/TAC timer, grounded on the
// falling-edge-detector the teacher used directly in its bus.Tick.
package timer

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/logx"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/pic"
	"github.com/rs/zerolog"
)

// edgeBits maps TAC's low two bits to the internal-counter bit whose
// falling edge clocks TIMA.
var edgeBits = [4]uint{9, 3, 5, 7}

// Timer owns the 16-bit internal divider and the TIMA/TMA/TAC registers.
type Timer struct {
	internal uint16 // DIV is internal>>8
	tima     byte
	tma      byte
	tac      byte // low 3 bits meaningful

	reloadDelay int // T-states remaining until a pending TIMA reload fires (4 = one machine cycle); 0 = none pending

	pic *pic.PIC
	log zerolog.Logger
}

// New constructs a Timer wired to request Timer interrupts through pic.
func New(p *pic.PIC) *Timer { return &Timer{pic: p, log: logx.Disabled} }

// SetLogger installs a diagnostic logger; logging never changes behavior.
func (t *Timer) SetLogger(l zerolog.Logger) { t.log = l }

// Reset restores post-bootrom defaults.
func (t *Timer) Reset() {
	*t = Timer{pic: t.pic, log: t.log}
}

// input reports the current gated timer clock input (post-TAC).
func (t *Timer) input() bool {
	if t.tac&0x04 == 0 {
		return false
	}
	bit := edgeBits[t.tac&0x03]
	return (t.internal>>bit)&1 != 0
}

// Tick advances the internal divider by one T-state, applying any pending
// TIMA reload and falling-edge increment in hardware order.
func (t *Timer) Tick() {
	if t.reloadDelay > 0 {
		t.reloadDelay--
		if t.reloadDelay == 0 {
			t.tima = t.tma
			t.pic.Request(pic.Timer)
			t.log.Debug().Msg("timer: TIMA reload fired")
		}
	}

	before := t.input()
	t.internal++
	after := t.input()
	if before && !after {
		t.bump()
	}
}

func (t *Timer) bump() {
	if t.reloadDelay > 0 {
		// A reload is already in flight; hardware does not double-increment.
		return
	}
	if t.tima == 0xFF {
		t.tima = 0x00
		t.reloadDelay = 4
		return
	}
	t.tima++
}

// ReadDIV/ReadTIMA/ReadTMA/ReadTAC implement the FF04-FF07 register reads.
func (t *Timer) ReadDIV() byte  { return byte(t.internal >> 8) }
func (t *Timer) ReadTIMA() byte { return t.tima }
func (t *Timer) ReadTMA() byte  { return t.tma }
func (t *Timer) ReadTAC() byte  { return 0xF8 | (t.tac & 0x07) }

// WriteDIV resets the whole internal counter; per hardware this can itself
// cause a falling-edge TIMA increment.
func (t *Timer) WriteDIV(byte) {
	before := t.input()
	t.internal = 0
	after := t.input()
	if before && !after {
		t.bump()
	}
}

// WriteTIMA sets TIMA directly. A write during the one-cycle reload delay
// cancels the pending reload.
func (t *Timer) WriteTIMA(v byte) {
	t.tima = v
	t.reloadDelay = 0
}

// WriteTMA sets the reload value.
func (t *Timer) WriteTMA(v byte) { t.tma = v }

// WriteTAC changes mode/enable; a falling edge caused by the change
// increments TIMA immediately, matching hardware's glitchy behavior.
func (t *Timer) WriteTAC(v byte) {
	before := t.input()
	t.tac = v & 0x07
	after := t.input()
	if before && !after {
		t.bump()
	}
}

package joypad

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/pic"
)

func TestSelectionMasksRow(t *testing.T) {
	p := pic.New()
	j := New(p)
	j.SetButtons(A | Up)

	j.Write(0x20) // select D-pad (P14=0, P15=1)
	if got := j.Read() & 0x0F; got != (0x0F &^ Up) {
		t.Fatalf("d-pad row got %#02x want %#02x", got, 0x0F&^byte(Up))
	}

	j.Write(0x10) // select buttons; A is reported on bit 0 of the button row
	if got := j.Read() & 0x0F; got != (0x0F &^ 0x01) {
		t.Fatalf("button row got %#02x want %#02x", got, 0x0F&^0x01)
	}
}

func TestEdgeTriggersInterrupt(t *testing.T) {
	p := pic.New()
	p.WriteIE(1 << pic.Joypad)
	j := New(p)
	j.Write(0x10) // select buttons
	if p.Pending() {
		t.Fatalf("no press yet")
	}
	j.SetButtons(Start)
	if !p.Pending() {
		t.Fatalf("expected interrupt on press edge")
	}
}

func TestUpperBitsReadAsOne(t *testing.T) {
	p := pic.New()
	j := New(p)
	if got := j.Read() & 0xC0; got != 0xC0 {
		t.Fatalf("upper bits got %#02x want 0xC0", got)
	}
}

package timer

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/pic"
)

func TestOverflowReloadsAfterDelay(t *testing.T) {
	p := pic.New()
	p.WriteIE(1 << pic.Timer)
	tm := New(p)
	tm.WriteTAC(0x05) // enabled, mode 01 -> bit 3 (262144 Hz)
	tm.WriteTIMA(0xFF)
	tm.WriteTMA(0x42)

	// Advance until TIMA overflows to 0x00 (bit 3 falling edge).
	for i := 0; i < 16 && tm.ReadTIMA() != 0x00; i++ {
		tm.Tick()
	}
	if tm.ReadTIMA() != 0x00 {
		t.Fatalf("expected overflow to 0x00, got %#02x", tm.ReadTIMA())
	}
	if p.Pending() {
		t.Fatalf("interrupt must not fire on the overflow cycle itself")
	}

	for i := 0; i < 4; i++ {
		tm.Tick()
	}
	if tm.ReadTIMA() != 0x42 {
		t.Fatalf("TIMA after reload got %#02x want 0x42", tm.ReadTIMA())
	}
	if !p.Pending() {
		t.Fatalf("expected Timer interrupt request after reload")
	}
}

func TestWriteTIMADuringDelayCancelsReload(t *testing.T) {
	p := pic.New()
	p.WriteIE(1 << pic.Timer)
	tm := New(p)
	tm.WriteTAC(0x05)
	tm.WriteTIMA(0xFF)
	tm.WriteTMA(0x42)
	for i := 0; i < 16 && tm.ReadTIMA() != 0x00; i++ {
		tm.Tick()
	}
	tm.WriteTIMA(0x99)
	for i := 0; i < 8; i++ {
		tm.Tick()
	}
	if tm.ReadTIMA() != 0x99 {
		t.Fatalf("expected cancelled reload to keep written value, got %#02x", tm.ReadTIMA())
	}
	if p.Pending() {
		t.Fatalf("expected no interrupt once reload cancelled")
	}
}

func TestDIVWriteResets(t *testing.T) {
	p := pic.New()
	tm := New(p)
	for i := 0; i < 300; i++ {
		tm.Tick()
	}
	if tm.ReadDIV() == 0 {
		t.Fatalf("expected DIV to have advanced")
	}
	tm.WriteDIV(0xFF)
	if tm.ReadDIV() != 0 {
		t.Fatalf("expected DIV reset to 0 on any write, got %#02x", tm.ReadDIV())
	}
}

package cart

import "testing"

func testHeader(romBanks int) *Header {
	return &Header{ROMBanks: romBanks}
}

func TestMBC1_ROMBanking(t *testing.T) {
	rom := make([]byte, 128*1024)
	for bank := 0; bank < 8; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m := newMBC1(rom, 0, testHeader(8))

	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("bank0 read got %02X want 00", got)
	}
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank1 read got %02X want 01", got)
	}

	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %02X want 03", got)
	}

	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank0->1 remap failed: got %02X", got)
	}
}

func TestMBC1_RAMBanking_Mode1(t *testing.T) {
	rom := make([]byte, 128*1024)
	m := newMBC1(rom, 32*1024, testHeader(8))

	m.Write(0x0000, 0x0A)
	m.Write(0x6000, 0x01)
	m.Write(0x4000, 0x02)

	m.Write(0xA000, 0x77)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank2 RW failed: got %02X", got)
	}
}

func TestMBC1_ROMBankMaskedToActualCount(t *testing.T) {
	rom := make([]byte, 2*0x4000) // only 2 banks exist
	rom[0x4000] = 0xAA            // bank 1
	m := newMBC1(rom, 0, testHeader(2))

	m.Write(0x2000, 0x05) // bank 5 requested, only 2 banks exist: 5 % 2 == 1
	if got := m.Read(0x4000); got != 0xAA {
		t.Fatalf("expected masked bank read 0xAA, got %02X", got)
	}
}

package cart

// romOnly implements the NoMbc cartridge kind: ROM reads are direct, ROM
// writes are no-ops, and ERAM is optional flat RAM gated on whether the
// header declares any (no bank switching, since there is nothing to switch).
type romOnly struct {
	rom []byte
	ram []byte
	h   *Header
}

func newROMOnly(rom []byte, h *Header) *romOnly {
	var ram []byte
	if h.RAMSizeBytes > 0 {
		ram = make([]byte, h.RAMSizeBytes)
	}
	return &romOnly{rom: rom, ram: ram, h: h}
}

func (c *romOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return c.rom[addr]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if len(c.ram) == 0 {
			return 0xFF
		}
		off := int(addr - 0xA000)
		if off >= len(c.ram) {
			return 0xFF
		}
		return c.ram[off]
	default:
		return 0xFF
	}
}

func (c *romOnly) Write(addr uint16, value byte) {
	if addr >= 0xA000 && addr <= 0xBFFF && len(c.ram) > 0 {
		if off := int(addr - 0xA000); off < len(c.ram) {
			c.ram[off] = value
		}
	}
}

func (c *romOnly) Header() *Header { return c.h }

func (c *romOnly) SaveRAM() []byte {
	if len(c.ram) == 0 {
		return nil
	}
	out := make([]byte, len(c.ram))
	copy(out, c.ram)
	return out
}

func (c *romOnly) LoadRAM(data []byte) { copy(c.ram, data) }

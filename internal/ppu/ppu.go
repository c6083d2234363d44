// Package ppu implements the DMG pixel-processing unit: VRAM/OAM storage,
// the LCDC/STAT/scroll/palette register file, the Scan/Draw/HBlank/VBlank
// mode state machine, and the per-dot pixel-fetch/FIFO pipeline.
package ppu

// InterruptRequester requests an IF bit (0: VBlank, 1: LCD STAT, ...).
type InterruptRequester func(bit int)

// Mode is the PPU's current STAT mode.
type Mode byte

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeScan   Mode = 2
	ModeDraw   Mode = 3
)

// PPU models VRAM/OAM, LCDC/STAT/scroll/palette registers, and the dot-timed
// mode + pixel pipeline that renders into a 160x144 2-bit-index framebuffer.
type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0xA0]byte   // 0xFE00-0xFE9F

	lcdc byte // FF40
	stat byte // FF41
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	dot   int
	winln byte // window's internal line counter, advances only on lines it's drawn

	lineSprites []sprite
	pl          *pipeline

	framebuffer [160 * 144]byte

	req InterruptRequester
}

func New(req InterruptRequester) *PPU {
	p := &PPU{req: req}
	p.pl = newPipeline(vramReader{p})
	return p
}

// vramReader adapts PPU's raw VRAM array to VRAMReader for the fetcher,
// which only ever reads tile data/map bytes (never OAM).
type vramReader struct{ p *PPU }

func (r vramReader) Read(addr uint16) byte {
	if addr >= 0x8000 && addr <= 0x9FFF {
		return r.p.vram[addr-0x8000]
	}
	return 0xFF
}

// Framebuffer returns the current 160x144 buffer of 2-bit shade indices,
// row-major, already passed through BGP/OBP0/OBP1.
func (p *PPU) Framebuffer() *[160 * 144]byte { return &p.framebuffer }

func (p *PPU) mode() Mode { return Mode(p.stat & 0x03) }

// WriteOAM writes OAM byte idx directly, bypassing the CPU's rendering-mode
// gate: real hardware blocks only the CPU's own bus access during modes 2/3,
// not OAM-DMA, which has exclusive write access to OAM for the transfer's
// duration regardless of what the PPU is doing with it concurrently.
func (p *PPU) WriteOAM(idx int, value byte) { p.oam[idx] = value }

// CPURead returns bytes for VRAM, OAM, and PPU IO registers.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.mode() == ModeDraw {
			return 0xFF
		}
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.mode(); m == ModeScan || m == ModeDraw {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F)
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// CPUWrite handles writes to VRAM, OAM, and PPU IO registers.
func (p *PPU) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.mode() == ModeDraw {
			return
		}
		p.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.mode(); m == ModeScan || m == ModeDraw {
			return
		}
		p.oam[addr-0xFE00] = value
	case addr == 0xFF40:
		prev := p.lcdc
		p.lcdc = value
		if prev&0x80 != 0 && value&0x80 == 0 {
			p.disableLCD()
		} else if prev&0x80 == 0 && value&0x80 != 0 {
			p.enableLCD()
		}
	case addr == 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case addr == 0xFF42:
		p.scy = value
	case addr == 0xFF43:
		p.scx = value
	case addr == 0xFF44:
		// LY is read-only on real hardware; writes are ignored.
	case addr == 0xFF45:
		p.lyc = value
		p.updateLYC()
	case addr == 0xFF47:
		p.bgp = value
	case addr == 0xFF48:
		p.obp0 = value
	case addr == 0xFF49:
		p.obp1 = value
	case addr == 0xFF4A:
		p.wy = value
	case addr == 0xFF4B:
		p.wx = value
	}
}

func (p *PPU) disableLCD() {
	p.ly = 0
	p.dot = 0
	p.winln = 0
	p.setMode(ModeHBlank)
	p.updateLYC()
}

func (p *PPU) enableLCD() {
	p.ly = 0
	p.dot = 0
	p.winln = 0
	p.setMode(ModeScan)
	p.scanSprites()
	p.updateLYC()
}

// Tick advances the PPU by the given number of dots (one dot per T-cycle).
func (p *PPU) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		p.tickOne()
	}
}

func (p *PPU) tickOne() {
	if p.lcdc&0x80 == 0 {
		return
	}

	switch p.mode() {
	case ModeScan:
		if p.dot == 0 {
			p.scanSprites()
		}
		p.dot++
		if p.dot >= 80 {
			p.setMode(ModeDraw)
			p.pl.beginLine(p)
		}
	case ModeDraw:
		p.dot++
		if p.pl.step(p) {
			p.setMode(ModeHBlank)
		}
	case ModeHBlank:
		p.dot++
	case ModeVBlank:
		p.dot++
	}

	if p.dot >= 456 {
		p.dot = 0
		p.ly++
		if p.ly == 144 {
			p.setMode(ModeVBlank)
			if p.req != nil {
				p.req(0) // VBlank IF
			}
			if p.stat&(1<<4) != 0 && p.req != nil {
				p.req(1)
			}
		} else if p.ly > 153 {
			p.ly = 0
			p.winln = 0
			p.setMode(ModeScan)
		} else if p.mode() != ModeVBlank {
			p.setMode(ModeScan)
		}
		p.updateLYC()
	}
}

func (p *PPU) scanSprites() {
	p.lineSprites = scanOAM(&p.oam, p.ly, p.lcdc&0x04 != 0)
}

func (p *PPU) setMode(mode Mode) {
	prev := Mode(p.stat & 0x03)
	if prev == mode {
		return
	}
	p.stat = (p.stat &^ 0x03) | byte(mode)
	switch mode {
	case ModeHBlank:
		if p.stat&(1<<3) != 0 && p.req != nil {
			p.req(1)
		}
	case ModeScan:
		if p.stat&(1<<5) != 0 && p.req != nil {
			p.req(1)
		}
	}
}

func (p *PPU) updateLYC() {
	if p.ly == p.lyc {
		if p.stat&(1<<2) == 0 && p.stat&(1<<6) != 0 && p.req != nil {
			p.req(1)
		}
		p.stat |= 1 << 2
	} else {
		p.stat &^= 1 << 2
	}
}

func (p *PPU) LY() byte   { return p.ly }
func (p *PPU) BGP() byte  { return p.bgp }
func (p *PPU) OBP0() byte { return p.obp0 }
func (p *PPU) OBP1() byte { return p.obp1 }
func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) WY() byte   { return p.wy }
func (p *PPU) WX() byte   { return p.wx }

// Package gameboy is the composition root: it wires bus, cartridge, PIC,
// timer, joypad, PPU, DMA, and CPU into the fixed-order per-dot clock and
// exposes the host boundary (new/reset/cycle/redraw/send) that cmd/gbemu
// and internal/host drive, grounded on the teacher's internal/emu.Machine
// shape but replacing its Milestone-0 placeholder stepping with the real
// wiring the rest of the core now provides.
package gameboy

import (
	"io"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/apu"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cart"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/dma"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/joypad"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/logx"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/pic"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/timer"
	"github.com/rs/zerolog"
)

// dotsPerFrame is the number of T-cycles between one VBlank's start and the
// next: 154 scanlines * 456 dots.
const dotsPerFrame = 154 * 456

// Buttons is the full joypad input state for one Send call.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

func (b Buttons) mask() byte {
	var m byte
	if b.A {
		m |= joypad.A
	}
	if b.B {
		m |= joypad.B
	}
	if b.Start {
		m |= joypad.Start
	}
	if b.Select {
		m |= joypad.Select
	}
	if b.Up {
		m |= joypad.Up
	}
	if b.Down {
		m |= joypad.Down
	}
	if b.Left {
		m |= joypad.Left
	}
	if b.Right {
		m |= joypad.Right
	}
	return m
}

// cartAdapter adapts cart.Cartridge (Read/Write(addr,v)) to bus.Device
// (Read/Write(addr,v) bool), since the cartridge interface predates the
// region-table bus's write-acceptance signal and has no need for it.
type cartAdapter struct{ c cart.Cartridge }

func (a cartAdapter) Read(addr uint16) byte        { return a.c.Read(addr) }
func (a cartAdapter) Write(addr uint16, v byte) bool { a.c.Write(addr, v); return true }

// GameBoy owns every subsystem and drives them through one dot at a time.
type GameBoy struct {
	bus    *bus.Bus
	cart   cart.Cartridge
	header *cart.Header
	pic    *pic.PIC
	timer  *timer.Timer
	joy    *joypad.Joypad
	ppu    *ppu.PPU
	dma    *dma.Engine
	cpu    *cpu.CPU
	serial *serialPort
	boot   *bootShadow
	apu    *apu.APU

	wram [0x2000]byte
	hram [0x7F]byte

	dot int

	redraw    func(frame *[160 * 144]byte)
	cfg       Config
	log       zerolog.Logger
	lastVBlank bool
}

// New constructs a GameBoy wired to c (the cartridge's ROM must already be
// parsed; use Load to do that from raw bytes). bootROM, if non-nil, is
// mapped at 0x0000-0x00FF until FF50 disables it; a nil bootROM skips
// straight to post-boot register defaults, matching §3's reset contract.
func New(c cart.Cartridge, h *cart.Header, bootROM []byte, cfg Config) *GameBoy {
	cfg = cfg.Defaults()
	g := &GameBoy{cart: c, header: h, cfg: cfg, log: logx.New(nil, cfg.logLevel())}
	g.pic = pic.New()
	g.timer = timer.New(g.pic)
	g.timer.SetLogger(g.log.With().Str("component", "timer").Logger())
	g.joy = joypad.New(g.pic)
	g.ppu = ppu.New(func(bit int) { g.pic.Request(bit) })
	g.serial = newSerialPort(g.pic)
	g.apu = apu.New()

	g.boot = &bootShadow{under: cartAdapter{c}}
	if len(bootROM) >= 0x100 {
		copy(g.boot.rom[:], bootROM[:0x100])
		g.boot.present = true
	}

	g.bus = bus.New()
	g.dma = dma.New(busReadWriter{g.bus})
	g.dma.SetOAMWriter(ppuDevice{g.ppu})
	g.wireBus()
	g.bus.SetCPUBlock(func(addr uint16) bool {
		return g.dma.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE)
	})

	g.cpu = cpu.New(g.bus, g.pic)
	if !g.boot.present {
		g.cpu.ResetNoBoot()
		g.boot.disabled = true
	}
	return g
}

// busReadWriter adapts *bus.Bus's raw Read/Write to the narrow interface
// dma.New expects.
type busReadWriter struct{ b *bus.Bus }

func (r busReadWriter) Read(addr uint16) byte       { return r.b.Read(addr) }
func (r busReadWriter) Write(addr uint16, v byte)   { r.b.Write(addr, v) }

func (g *GameBoy) wireBus() {
	g.bus.Add(bus.NewMMIO("boot", 0x0000, 0x00FF, bus.PriorityBoot, g.boot))
	g.bus.Add(bus.NewMMIO("cart-rom", 0x0000, 0x7FFF, bus.PriorityCartridge, cartAdapter{g.cart}))
	g.bus.Add(bus.NewMMIO("cart-ram", 0xA000, 0xBFFF, bus.PriorityCartridge, cartAdapter{g.cart}))
	g.bus.Add(bus.NewMMIO("ppu-vram", 0x8000, 0x9FFF, bus.PriorityMMIO, ppuDevice{g.ppu}))
	g.bus.Add(bus.NewMMIO("ppu-oam", 0xFE00, 0xFE9F, bus.PriorityMMIO, ppuDevice{g.ppu}))
	// 0xFF46 (OAM-DMA start) is carved out of this span rather than left
	// overlapping dma-reg below: the two used to tie on PriorityMMIO, and
	// ppuDevice being registered first meant Read resolved to it,
	// stranding dma.ReadFF46 as unreachable.
	g.bus.Add(bus.NewMMIO("ppu-regs-lo", 0xFF40, 0xFF45, bus.PriorityMMIO, ppuDevice{g.ppu}))
	g.bus.Add(bus.NewMMIO("ppu-regs-hi", 0xFF47, 0xFF4B, bus.PriorityMMIO, ppuDevice{g.ppu}))

	wramRegion := bus.NewRAM("wram", 0xC000, 0xDFFF, bus.PriorityRAM, g.wram[:])
	g.bus.Add(wramRegion)
	g.bus.Add(bus.NewView("echo", 0xE000, 0xFDFF, bus.PriorityEcho, wramRegion, 0xC000))
	g.bus.Add(bus.NewRAM("hram", 0xFF80, 0xFFFE, bus.PriorityRAM, g.hram[:]))

	g.bus.Add(bus.NewMMIO("joypad", 0xFF00, 0xFF00, bus.PriorityMMIO, joypadDevice{g.joy}))
	g.bus.Add(bus.NewMMIO("serial", 0xFF01, 0xFF02, bus.PriorityMMIO, g.serial))
	g.bus.Add(bus.NewMMIO("timer", 0xFF04, 0xFF07, bus.PriorityMMIO, timerDevice{g.timer}))
	g.bus.Add(bus.NewMMIO("apu-regs", 0xFF10, 0xFF26, bus.PriorityMMIO, apuDevice{g.apu}))
	g.bus.Add(bus.NewMMIO("apu-wave", 0xFF30, 0xFF3F, bus.PriorityMMIO, apuDevice{g.apu}))
	g.bus.Add(bus.NewMMIO("if", 0xFF0F, 0xFF0F, bus.PriorityMMIO, picIFDevice{g.pic}))
	g.bus.Add(bus.NewMMIO("dma-reg", 0xFF46, 0xFF46, bus.PriorityMMIO, dmaDevice{g.dma}))
	g.bus.Add(bus.NewMMIO("boot-disable", 0xFF50, 0xFF50, bus.PriorityMMIO, ff50{g.boot}))
	g.bus.Add(bus.NewMMIO("ie", 0xFFFF, 0xFFFF, bus.PriorityMMIO, picIEDevice{g.pic}))
	g.bus.Add(bus.NewUnmapped(bus.PriorityUnmapped))
}

// Cartridge returns the loaded cartridge for host-side save-RAM/header use.
func (g *GameBoy) Cartridge() cart.Cartridge { return g.cart }
func (g *GameBoy) Header() *cart.Header      { return g.header }

// Bus exposes the raw memory map for tests and debug tooling.
func (g *GameBoy) Bus() *bus.Bus { return g.bus }

// CPU exposes the CPU for tests and debug tooling (register inspection,
// surfaced CpuError).
func (g *GameBoy) CPU() *cpu.CPU { return g.cpu }

// SetRedraw installs the callback invoked with the completed framebuffer
// each time a VBlank begins.
func (g *GameBoy) SetRedraw(fn func(frame *[160 * 144]byte)) { g.redraw = fn }

// SetSerialWriter installs the sink that observes bytes written over the
// serial port; this is how blargg-style test ROMs report Passed/Failed.
func (g *GameBoy) SetSerialWriter(w io.Writer) { g.serial.SetWriter(w) }

// Send replaces the full pressed-button state.
func (g *GameBoy) Send(b Buttons) { g.joy.SetButtons(b.mask()) }

// Reset reinitializes the PIC, timer, joypad, DMA, APU and CPU to
// post-bootrom defaults and disables the boot ROM. The PPU, the serial port
// and work/high RAM are not reset and keep their current state; ERAM
// persists too (the cartridge itself is never reconstructed). Calling Reset
// twice in a row is idempotent, per §3's reset contract.
func (g *GameBoy) Reset() {
	g.pic.Reset()
	g.timer.Reset()
	g.joy.Reset()
	g.dma.Reset()
	g.apu.Reset()
	g.cpu.Reset()
	g.cpu.ResetNoBoot()
	g.boot.disabled = true
	g.dot = 0
	g.lastVBlank = false
}

// CpuError reports the CPU's sticky decode error, if any; once set it
// stays set until Reset, and Cycle stops advancing the CPU (the rest of the clock
// keeps running so PPU/timer/DMA state stays observable for diagnosis).
func (g *GameBoy) CpuError() error {
	if g.cpu.Err == nil {
		return nil
	}
	return g.cpu.Err
}

// Cycle advances the whole machine by exactly one T-cycle (dot): the PPU
// and timer tick every dot; the DMA engine and CPU each advance one
// machine cycle (one M-cycle = 4 dots) on every fourth dot, DMA before CPU
// so the CPU's HRAM-only restriction reflects this cycle's DMA state.
func (g *GameBoy) Cycle() {
	g.ppu.Tick(1)
	g.timer.Tick()
	g.dot++
	if g.dot%4 == 0 {
		g.dma.Tick()
		g.cpu.Tick()
	}
	g.checkVBlank()
}

func (g *GameBoy) checkVBlank() {
	vblank := g.ppu.LY() >= 144
	if vblank && !g.lastVBlank && g.redraw != nil {
		g.redraw(g.ppu.Framebuffer())
	}
	g.lastVBlank = vblank
}

// StepFrame advances exactly one frame's worth of dots (154 scanlines).
func (g *GameBoy) StepFrame() {
	for i := 0; i < dotsPerFrame; i++ {
		g.Cycle()
	}
}

// Ready reports whether the CPU is free of a sticky decode error.
func (g *GameBoy) Ready() bool { return g.cpu.Err == nil }

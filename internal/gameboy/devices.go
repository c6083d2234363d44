package gameboy

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/apu"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/dma"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/joypad"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/pic"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/timer"
)

// The subsystem packages were built with the narrow, argument-shaped
// register accessors their own tests want (ReadDIV, j.Read() with no
// address, ...). These adapters give each one the bus.Device shape
// (Read(addr)/Write(addr,v) bool) the region table requires, without
// pushing bus concerns back down into packages that don't need them.

type ppuDevice struct{ p *ppu.PPU }

func (d ppuDevice) Read(addr uint16) byte  { return d.p.CPURead(addr) }
func (d ppuDevice) Write(addr uint16, v byte) bool {
	d.p.CPUWrite(addr, v)
	return true
}

// WriteOAM satisfies dma.oamWriter, giving OAM-DMA a path into OAM that
// bypasses CPUWrite's rendering-mode gate.
func (d ppuDevice) WriteOAM(idx int, v byte) { d.p.WriteOAM(idx, v) }

type joypadDevice struct{ j *joypad.Joypad }

func (d joypadDevice) Read(uint16) byte { return d.j.Read() }
func (d joypadDevice) Write(_ uint16, v byte) bool {
	d.j.Write(v)
	return true
}

type timerDevice struct{ t *timer.Timer }

func (d timerDevice) Read(addr uint16) byte {
	switch addr {
	case 0xFF04:
		return d.t.ReadDIV()
	case 0xFF05:
		return d.t.ReadTIMA()
	case 0xFF06:
		return d.t.ReadTMA()
	case 0xFF07:
		return d.t.ReadTAC()
	default:
		return 0xFF
	}
}

func (d timerDevice) Write(addr uint16, v byte) bool {
	switch addr {
	case 0xFF04:
		d.t.WriteDIV(v)
	case 0xFF05:
		d.t.WriteTIMA(v)
	case 0xFF06:
		d.t.WriteTMA(v)
	case 0xFF07:
		d.t.WriteTAC(v)
	default:
		return false
	}
	return true
}

type picIFDevice struct{ p *pic.PIC }

func (d picIFDevice) Read(uint16) byte          { return d.p.ReadIF() }
func (d picIFDevice) Write(_ uint16, v byte) bool { d.p.WriteIF(v); return true }

type picIEDevice struct{ p *pic.PIC }

func (d picIEDevice) Read(uint16) byte          { return d.p.ReadIE() }
func (d picIEDevice) Write(_ uint16, v byte) bool { d.p.WriteIE(v); return true }

type apuDevice struct{ a *apu.APU }

func (d apuDevice) Read(addr uint16) byte { return d.a.CPURead(addr) }
func (d apuDevice) Write(addr uint16, v byte) bool {
	d.a.CPUWrite(addr, v)
	return true
}

type dmaDevice struct{ e *dma.Engine }

func (d dmaDevice) Read(uint16) byte          { return d.e.ReadFF46() }
func (d dmaDevice) Write(_ uint16, v byte) bool { d.e.WriteFF46(v); return true }

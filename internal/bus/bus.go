// Package bus implements the 16-bit address, 8-bit data memory map: a
// priority-ordered overlay of regions rather than the reference-counted,
// interior-mutable device graph the original source used (see SPEC_FULL.md
// §9 / the redesign note in spec.md §9).
package bus

import "sort"

// Priority bands, per spec.md §4.1; where regions overlap, the higher value wins.
const (
	PriorityMMIO      = 50
	PriorityCartridge = 40
	PriorityRAM       = 30
	PriorityEcho      = 20
	PriorityBoot      = 60 // above cartridge while enabled; the device itself falls through when disabled
	PriorityUnmapped  = 0
)

// BlockFunc reports whether the CPU's view of addr should be forced to the
// DMA-in-progress fallback (0xFF read, dropped write) per spec.md §3's
// "while DMA is Active, the CPU may only read HRAM" invariant. It does not
// affect DMA's own source reads, which go through Read directly.
type BlockFunc func(addr uint16) bool

// Bus is the CPU-visible 16-bit address space.
type Bus struct {
	regions  []*Region // sorted by Priority descending, for Read resolution
	all      []*Region // insertion order, for Write fan-out
	blockCPU BlockFunc
}

// New builds an empty Bus; regions are registered with Add.
func New() *Bus { return &Bus{} }

// Add registers a region. Regions may overlap; Read picks the
// highest-priority region containing the address, Write fans out to every
// region containing it that accepts the write.
func (b *Bus) Add(r *Region) {
	b.all = append(b.all, r)
	b.regions = append(b.regions, r)
	sort.SliceStable(b.regions, func(i, j int) bool { return b.regions[i].Priority > b.regions[j].Priority })
}

// Prohibited window 0xFEA0-0xFEFF always reads 0xFF and drops writes,
// regardless of what regions are mapped underneath it.
const (
	ProhibitedLo = 0xFEA0
	ProhibitedHi = 0xFEFF
)

// Read returns the byte from the highest-priority region containing addr.
// The unmapped fallback region always matches, so this never misses.
func (b *Bus) Read(addr uint16) byte {
	if addr >= ProhibitedLo && addr <= ProhibitedHi {
		return 0xFF
	}
	for _, r := range b.regions {
		if r.contains(addr) {
			return r.Device.Read(addr)
		}
	}
	return 0xFF
}

// Write forwards to every region containing addr that accepts writes.
func (b *Bus) Write(addr uint16, v byte) {
	if addr >= ProhibitedLo && addr <= ProhibitedHi {
		return
	}
	for _, r := range b.all {
		if r.contains(addr) {
			r.Device.Write(addr, v)
		}
	}
}

// SetCPUBlock installs the predicate used by CPURead/CPUWrite.
func (b *Bus) SetCPUBlock(f BlockFunc) { b.blockCPU = f }

// CPURead is the access path the CPU must use: it is subject to the
// DMA-active restriction, unlike the raw Read used by PPU/DMA/timer.
func (b *Bus) CPURead(addr uint16) byte {
	if b.blockCPU != nil && b.blockCPU(addr) {
		return 0xFF
	}
	return b.Read(addr)
}

// CPUWrite is the CPU's write path; see CPURead.
func (b *Bus) CPUWrite(addr uint16, v byte) {
	if b.blockCPU != nil && b.blockCPU(addr) {
		return
	}
	b.Write(addr, v)
}

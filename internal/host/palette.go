package host

// dmgPalette maps the 2-bit shade indices the PPU produces (0 = lightest)
// to an RGBA quad, matching the classic DMG off-white/green-gray ramp. The
// teacher's internal/emu/compat_tables.go additionally picks per-title GBC
// compatibility palettes; that machinery has no home here since GBC
// rendering is out of scope for this DMG-only core (see DESIGN.md).
var dmgPalette = [4][4]byte{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}

// shadeToRGBA expands a 160x144 buffer of 2-bit shade indices into a
// 160*144*4 RGBA buffer ready for ebiten.Image.WritePixels.
func shadeToRGBA(shades *[160 * 144]byte, out []byte) {
	for i, s := range shades {
		rgba := dmgPalette[s&3]
		copy(out[i*4:i*4+4], rgba[:])
	}
}

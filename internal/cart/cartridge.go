package cart

import "github.com/rs/zerolog"

// New parses rom's header and constructs the matching Cartridge
// implementation, padding/truncating the image to the declared ROM size.
// When strict is true, a size mismatch is a hard MismatchError instead of
// being padded/truncated with a logged warning.
func New(raw []byte, strict bool, logger zerolog.Logger) (Cartridge, *Header, error) {
	h, err := ParseHeader(raw)
	if err != nil {
		return nil, nil, err
	}
	if strict && len(raw) != h.ROMSizeBytes {
		return nil, h, &MismatchError{Declared: h.ROMSizeBytes, Actual: len(raw)}
	}
	rom := fitROM(raw, h.ROMSizeBytes, logger)

	switch {
	case h.CartType == 0x00:
		return newROMOnly(rom, h), h, nil
	case h.CartType == 0x01 || h.CartType == 0x02 || h.CartType == 0x03:
		return newMBC1(rom, h.RAMSizeBytes, h), h, nil
	case h.CartType == 0x0F || h.CartType == 0x10 || h.CartType == 0x11 || h.CartType == 0x12 || h.CartType == 0x13:
		return newMBC3(rom, h.RAMSizeBytes, h), h, nil
	case h.CartType == 0x19 || h.CartType == 0x1A || h.CartType == 0x1B || h.CartType == 0x1C || h.CartType == 0x1D || h.CartType == 0x1E:
		return newMBC5(rom, h.RAMSizeBytes, h), h, nil
	default:
		return nil, h, &UnimplementedError{CartType: h.CartType}
	}
}

// fitROM returns a buffer of exactly size bytes: raw truncated (with a
// warning) if oversized, or raw padded with 0xFF (with a warning) if
// undersized. An exact match is returned unmodified.
func fitROM(raw []byte, size int, logger zerolog.Logger) []byte {
	if len(raw) == size {
		return raw
	}
	out := make([]byte, size)
	if len(raw) > size {
		copy(out, raw[:size])
		logger.Warn().Int("declared", size).Int("actual", len(raw)).Msg("cartridge: ROM image larger than declared size, truncating")
		return out
	}
	copy(out, raw)
	for i := len(raw); i < size; i++ {
		out[i] = 0xFF
	}
	logger.Warn().Int("declared", size).Int("actual", len(raw)).Msg("cartridge: ROM image smaller than declared size, padding with 0xFF")
	return out
}

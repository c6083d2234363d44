package cart

import (
	"encoding/binary"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header is the decoded 0x0100-0x014F cartridge header.
type Header struct {
	Title          string // 0x0134-0x0143, trimmed ASCII
	CGBFlag        byte   // 0x0143
	NewLicensee    string // 0x0144-0x0145
	SGBFlag        byte   // 0x0146
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	Destination    byte   // 0x014A
	OldLicensee    byte   // 0x014B
	ROMVersion     byte   // 0x014C
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F

	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	CartTypeStr  string

	LogoOK      bool
	HeaderChkOK bool
	GlobalChkOK bool
}

// ParseHeader decodes rom's header. It returns a HeaderError only when the
// ROM is too short to contain one or the declared size codes are unknown;
// a bad logo or checksum is recorded in the returned flags rather than
// failing, so homebrew/test ROMs that skip them still load; strict
// validation of the ROM image size is a separate caller-selected option
// (see New's strict parameter).
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, &HeaderError{Reason: "ROM too small to contain header"}
	}

	h := &Header{
		Title:          strings.TrimRight(string(rom[0x0134:0x0144]), "\x00"),
		CGBFlag:        rom[0x0143],
		NewLicensee:    string(rom[0x0144:0x0146]),
		SGBFlag:        rom[0x0146],
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		Destination:    rom[0x014A],
		OldLicensee:    rom[0x014B],
		ROMVersion:     rom[0x014C],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
	}

	h.LogoOK = logoMatches(rom)
	h.HeaderChkOK = HeaderChecksumOK(rom)
	h.GlobalChkOK = globalChecksumOK(rom, h.GlobalChecksum)

	var ok bool
	h.ROMSizeBytes, h.ROMBanks, ok = decodeROMSize(h.ROMSizeCode)
	if !ok {
		return nil, &HeaderError{Reason: "unsupported ROM size code"}
	}
	h.RAMSizeBytes, ok = decodeRAMSize(h.RAMSizeCode)
	if !ok {
		return nil, &HeaderError{Reason: "unsupported RAM size code"}
	}
	h.CartTypeStr = cartTypeString(h.CartType)

	return h, nil
}

func logoMatches(rom []byte) bool {
	for i := 0; i < 48; i++ {
		if rom[0x0104+i] != nintendoLogo[i] {
			return false
		}
	}
	return true
}

// HeaderChecksumOK verifies the 0x014D header checksum: -sum(0x0134..0x014C)-0x19 mod 256.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}

func globalChecksumOK(rom []byte, declared uint16) bool {
	var sum uint16
	for i, b := range rom {
		if i == 0x014E || i == 0x014F {
			continue
		}
		sum += uint16(b)
	}
	return sum == declared
}

func decodeROMSize(code byte) (size, banks int, ok bool) {
	switch code {
	case 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08:
		banks = 2 << code
		return banks * 0x4000, banks, true
	case 0x52:
		return 1152 * 1024, 72, true
	case 0x53:
		return 1280 * 1024, 80, true
	case 0x54:
		return 1536 * 1024, 96, true
	default:
		return 0, 0, false
	}
}

func decodeRAMSize(code byte) (int, bool) {
	switch code {
	case 0x00:
		return 0, true
	case 0x02:
		return 8 * 1024, true
	case 0x03:
		return 32 * 1024, true
	case 0x04:
		return 128 * 1024, true
	case 0x05:
		return 64 * 1024, true
	default:
		return 0, false
	}
}

func cartTypeString(code byte) string {
	switch code {
	case 0x00:
		return "ROM ONLY"
	case 0x01, 0x02, 0x03:
		return "MBC1 (variants)"
	case 0x05, 0x06:
		return "MBC2 (variants)"
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return "MBC3 (variants)"
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return "MBC5 (variants)"
	default:
		return "Other/unknown"
	}
}

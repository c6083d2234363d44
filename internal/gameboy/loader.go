package gameboy

import (
	"os"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cart"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/logx"
)

// Load parses rom, constructs the matching cartridge implementation, and
// wires a fresh GameBoy around it. bootROM may be nil to skip straight to
// post-boot register defaults.
func Load(rom []byte, bootROM []byte, cfg Config) (*GameBoy, error) {
	cfg = cfg.Defaults()
	c, h, err := cart.New(rom, cfg.Strict, logx.New(nil, cfg.logLevel()))
	if err != nil {
		return nil, err
	}
	return New(c, h, bootROM, cfg), nil
}

// LoadFromFile reads romPath (and, if non-empty, bootPath) from disk and
// delegates to Load.
func LoadFromFile(romPath, bootPath string, cfg Config) (*GameBoy, error) {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return nil, err
	}
	var boot []byte
	if bootPath != "" {
		boot, err = os.ReadFile(bootPath)
		if err != nil {
			return nil, err
		}
	}
	return Load(rom, boot, cfg)
}

package gameboy

import (
	"encoding/json"
	"os"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/logx"
	"github.com/rs/zerolog"
)

// Config gathers the trace/headless/logging knobs that affect emulation
// behavior or diagnostics but not the core semantics themselves.
type Config struct {
	Trace        bool   // CPU instruction tracing flag; no component reads it
	LimitFPS     bool   // ~60 Hz throttle flag; no component reads it
	UseFetcherBG bool   // BG render-path flag; no component reads it (BG always goes through the fetcher/FIFO)
	Strict       bool   // reject ROM images whose length disagrees with the header
	LogLevel     string // parsed through logx.ParseLevel
}

// Defaults fills zero-valued fields with their emulator defaults.
func (c Config) Defaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = "disabled"
	}
	return c
}

// LoadConfig reads a JSON-encoded Config from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c.Defaults(), nil
}

// logLevel resolves the configured level, defaulting to disabled.
func (c Config) logLevel() zerolog.Level {
	return logx.ParseLevel(c.LogLevel)
}

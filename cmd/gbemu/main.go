// Command gbemu is the desktop/headless frontend: load a ROM, optionally
// run it windowless for a fixed number of frames and assert a framebuffer
// checksum (useful for CI and test-ROM harnesses), or hand it to the
// ebiten-backed internal/host window. Grounded on the teacher's
// cmd/gbemu/main.go, rebuilt around internal/gameboy and internal/host.
package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cart"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gameboy"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/host"
)

type cliFlags struct {
	ROMPath  string
	BootROM  string
	Scale    int
	Title    string
	LogLevel string
	SaveRAM  bool

	Headless bool
	Frames   int
	PNGOut   string
	Expect   string
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb)")
	flag.StringVar(&f.BootROM, "bootrom", "", "optional DMG boot ROM")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbemu", "window title")
	flag.StringVar(&f.LogLevel, "loglevel", "disabled", "zerolog level for component logging")
	flag.BoolVar(&f.SaveRAM, "save", true, "persist battery RAM to ROM.sav on exit and load on start")

	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func mustRead(path string) []byte {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	return b
}

func savPath(romPath string) string {
	return strings.TrimSuffix(romPath, ".gb") + ".sav"
}

func loadBattery(gb *gameboy.GameBoy, path string) {
	bb, ok := gb.Cartridge().(cart.BatteryBacked)
	if !ok {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	bb.LoadRAM(data)
	log.Printf("loaded save RAM: %s (%d bytes)", path, len(data))
}

func saveBattery(gb *gameboy.GameBoy, path string) {
	bb, ok := gb.Cartridge().(cart.BatteryBacked)
	if !ok {
		return
	}
	data := bb.SaveRAM()
	if len(data) == 0 {
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("write %s: %v", path, err)
		return
	}
	log.Printf("wrote %s", path)
}

func saveFramePNG(shades *[160 * 144]byte, path string) error {
	img := image.NewGray(image.Rect(0, 0, 160, 144))
	for i, s := range shades {
		img.Pix[i] = 255 - s*85
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func runHeadless(gb *gameboy.GameBoy, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	var last [160 * 144]byte
	gb.SetRedraw(func(frame *[160 * 144]byte) { last = *frame })

	start := time.Now()
	for i := 0; i < frames; i++ {
		gb.StepFrame()
		if err := gb.CpuError(); err != nil {
			return fmt.Errorf("cpu error at frame %d: %w", i, err)
		}
	}
	dur := time.Since(start)

	crc := crc32.ChecksumIEEE(last[:])
	fps := float64(frames) / dur.Seconds()
	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(&last, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func main() {
	f := parseFlags()
	if f.ROMPath == "" {
		log.Fatal("-rom is required")
	}
	rom := mustRead(f.ROMPath)
	boot := mustRead(f.BootROM)

	if h, err := cart.ParseHeader(rom); err == nil {
		log.Printf("ROM: %q type=%s banks=%d ram=%dB", h.Title, h.CartTypeStr, h.ROMBanks, h.RAMSizeBytes)
	}

	gb, err := gameboy.Load(rom, boot, gameboy.Config{LogLevel: f.LogLevel})
	if err != nil {
		log.Fatalf("load cart: %v", err)
	}

	sav := savPath(f.ROMPath)
	if f.SaveRAM {
		loadBattery(gb, sav)
	}

	if f.Headless {
		if err := runHeadless(gb, f.Frames, f.PNGOut, f.Expect); err != nil {
			log.Fatal(err)
		}
		if f.SaveRAM {
			saveBattery(gb, sav)
		}
		return
	}

	app := host.NewApp(host.Config{Title: f.Title, Scale: f.Scale}, gb)
	runErr := app.Run()
	if f.SaveRAM {
		saveBattery(gb, sav)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}

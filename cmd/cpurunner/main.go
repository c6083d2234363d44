// Command cpurunner drives a ROM headlessly through the real per-dot clock
// and watches the serial port for a blargg-style "Passed"/"Failed" marker,
// grounded on the teacher's cmd/cpurunner but rebuilt around the
// gameboy.GameBoy composition root and its micro-step CPU instead of the
// teacher's atomic cpu.Step().
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gameboy"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM to run from 0x0000 until FF50 disables it")
	frames := flag.Int("frames", 3600, "max frames to run")
	until := flag.String("until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	loglevel := flag.String("loglevel", "disabled", "zerolog level for component logging")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}

	gb, err := gameboy.LoadFromFile(*romPath, *bootPath, gameboy.Config{LogLevel: *loglevel})
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	var ser bytes.Buffer
	gb.SetSerialWriter(&ser)

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	needle := strings.ToLower(*until)

	for i := 0; i < *frames; i++ {
		gb.StepFrame()
		if err := gb.CpuError(); err != nil {
			fmt.Fprintln(os.Stdout, ser.String())
			log.Fatalf("cpu error at frame %d: %v", i, err)
		}
		if needle != "" {
			out := strings.ToLower(ser.String())
			if strings.Contains(out, needle) {
				fmt.Fprintln(os.Stdout, ser.String())
				log.Printf("matched %q after %d frames, %s", *until, i+1, time.Since(start).Truncate(time.Millisecond))
				return
			}
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Fprintln(os.Stdout, ser.String())
			log.Fatalf("timeout after %d frames", i+1)
		}
	}
	fmt.Fprintln(os.Stdout, ser.String())
	log.Fatalf("exhausted %d frames without matching %q", *frames, *until)
}

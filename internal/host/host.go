// Package host is the ebiten-backed desktop frontend: a window, a keyboard
// poller, and a framebuffer blit. It is grounded on the teacher's
// internal/ui.App but drops every feature that isn't windowing/input/video
// for a DMG-only core — no in-game menu, no save-state slots, no ROM
// picker, no keybinding editor, no GBC compatibility palette. Those are
// desktop-shell conveniences with no counterpart in the headless,
// tested core; see DESIGN.md.
package host

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gameboy"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config configures window presentation. Scale and Title mirror the
// teacher's Config fields; everything else the teacher's Config carries
// (audio buffering knobs, ROM directory, menu state) has no component here.
type Config struct {
	Title string
	Scale int
}

func (c Config) Defaults() Config {
	if c.Title == "" {
		c.Title = "Game Boy"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	return c
}

// App implements ebiten.Game around a *gameboy.GameBoy.
type App struct {
	cfg    Config
	gb     *gameboy.GameBoy
	tex    *ebiten.Image
	pixels []byte // RGBA scratch buffer, reused every Draw
	audio  *audio.Player

	paused bool
}

// NewApp wires gb's redraw callback into a fresh texture and returns an App
// ready for ebiten.RunGame.
func NewApp(cfg Config, gb *gameboy.GameBoy) *App {
	cfg = cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)

	a := &App{cfg: cfg, gb: gb, pixels: make([]byte, 160*144*4)}
	gb.SetRedraw(a.onRedraw)
	a.audio = attachAudio(gb)
	return a
}

// Run blocks until the window is closed.
func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) onRedraw(frame *[160 * 144]byte) {
	shadeToRGBA(frame, a.pixels)
}

// Update polls the keyboard and advances the emulator by one frame, mirroring
// the teacher's arrow-keys/Z/X/Enter/Right-Shift bindings. P toggles pause;
// Escape quits.
func (a *App) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}

	var b gameboy.Buttons
	b.Right = ebiten.IsKeyPressed(ebiten.KeyRight)
	b.Left = ebiten.IsKeyPressed(ebiten.KeyLeft)
	b.Up = ebiten.IsKeyPressed(ebiten.KeyUp)
	b.Down = ebiten.IsKeyPressed(ebiten.KeyDown)
	b.A = ebiten.IsKeyPressed(ebiten.KeyZ)
	b.B = ebiten.IsKeyPressed(ebiten.KeyX)
	b.Start = ebiten.IsKeyPressed(ebiten.KeyEnter)
	b.Select = ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	a.gb.Send(b)

	if !a.paused {
		a.gb.StepFrame()
		if err := a.gb.CpuError(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(a.pixels)

	op := &ebiten.DrawImageOptions{}
	scale := float64(a.cfg.Scale)
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(a.tex, op)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) { return 160, 144 }

package host

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gameboy"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 48000

// apuStream is an io.Reader that turns channel 1's register state into a
// crude square wave, grounded on the teacher's apuStream shape
// (internal/ui/audio.go) but driven off the register file directly rather
// than a sample-accurate mixer, since DAC synthesis itself is out of scope
// here — this exists only so the optional host audio sink has something to
// play, not to reproduce real hardware output.
type apuStream struct {
	gb      *gameboy.GameBoy
	phase   float64
	enabled bool
}

func newAPUStream(gb *gameboy.GameBoy) *apuStream { return &apuStream{gb: gb} }

func (s *apuStream) Read(p []byte) (int, error) {
	b := s.gb.Bus()
	nr52 := b.CPURead(0xFF26)
	ch1On := nr52&0x80 != 0 && nr52&0x01 != 0
	if !ch1On {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	nr11 := b.CPURead(0xFF11)
	nr12 := b.CPURead(0xFF12)
	nr13 := b.CPURead(0xFF13)
	nr14 := b.CPURead(0xFF14)

	duty := nr11 >> 6
	vol := nr12 >> 4
	freqCode := uint16(nr13) | (uint16(nr14&7) << 8)
	freqHz := 131072.0 / float64(2048-int(freqCode))
	step := freqHz / sampleRate

	dutyThreshold := [4]float64{0.125, 0.25, 0.5, 0.75}[duty&3]
	amp := int16(vol) * 1000

	for i := 0; i+4 <= len(p); i += 4 {
		s.phase += step
		if s.phase >= 1 {
			s.phase -= 1
		}
		sample := -amp
		if s.phase < dutyThreshold {
			sample = amp
		}
		p[i] = byte(sample)
		p[i+1] = byte(sample >> 8)
		p[i+2] = byte(sample)
		p[i+3] = byte(sample >> 8)
	}
	return len(p), nil
}

// attachAudio wires an ebiten audio player onto ch1's register state. It is
// called once from NewApp; playback errors are non-fatal since audio here
// is a cosmetic extra, not part of the tested core.
func attachAudio(gb *gameboy.GameBoy) *audio.Player {
	ctx := audio.NewContext(sampleRate)
	p, err := ctx.NewPlayer(newAPUStream(gb))
	if err != nil {
		return nil
	}
	p.Play()
	return p
}

package assets

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/MTO-Safety/hubs/config"
)

// ToneBank renders cue tones once and hands out players for them.
type ToneBank struct {
	cache   map[config.SoundID][]byte // 16-bit little endian stereo PCM
	context *audio.Context
	rate    beep.SampleRate
}

// NewToneBank creates a bank rendering at the context's sample rate.
func NewToneBank(ctx *audio.Context) *ToneBank {
	return &ToneBank{
		cache:   make(map[config.SoundID][]byte),
		context: ctx,
		rate:    beep.SampleRate(ctx.SampleRate()),
	}
}

// Preload renders a tone into the cache without creating a player.
func (b *ToneBank) Preload(id config.SoundID, tone config.Tone) {
	if _, ok := b.cache[id]; ok {
		return
	}
	b.cache[id] = RenderPCM(Sweep(tone, b.rate), b.rate.N(tone.Duration))
}

// Player returns a new player for a preloaded tone.
func (b *ToneBank) Player(id config.SoundID) (*audio.Player, error) {
	pcm, ok := b.cache[id]
	if !ok {
		return nil, fmt.Errorf("tone %d not loaded", id)
	}
	return b.context.NewPlayerFromBytes(pcm), nil
}

// sweep is a sine whose frequency glides linearly from start to end while
// its amplitude decays linearly to zero.
type sweep struct {
	start, end float64
	total      int
	pos        int
	phase      float64
	rate       float64
}

// Sweep returns a streamer for the tone.
func Sweep(tone config.Tone, rate beep.SampleRate) beep.Streamer {
	s := &sweep{
		start: tone.StartHz,
		end:   tone.EndHz,
		total: rate.N(tone.Duration),
		rate:  float64(rate),
	}
	return &effects.Volume{Streamer: beep.Take(s.total, s), Base: 2, Volume: -1}
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		t := float64(s.pos) / float64(s.total)
		freq := s.start + (s.end-s.start)*t
		v := math.Sin(2*math.Pi*s.phase) * (1 - t)
		samples[i][0], samples[i][1] = v, v

		s.phase += freq / s.rate
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// RenderPCM drains up to n frames of a streamer into 16-bit stereo PCM.
func RenderPCM(s beep.Streamer, n int) []byte {
	out := make([]byte, 0, n*4)
	buf := make([][2]float64, 512)
	for n > 0 {
		chunk := buf
		if n < len(chunk) {
			chunk = chunk[:n]
		}
		got, ok := s.Stream(chunk)
		for _, frame := range chunk[:got] {
			for _, v := range frame {
				v = math.Max(-1, math.Min(1, v))
				out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*math.MaxInt16)))
			}
		}
		n -= got
		if !ok || got == 0 {
			break
		}
	}
	return out
}

// ToneLength is the duration of n rendered frames at rate.
func ToneLength(rate beep.SampleRate, pcm []byte) time.Duration {
	return rate.D(len(pcm) / 4)
}

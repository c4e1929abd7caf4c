package config

import "time"

// SoundID represents a logical sound cue
type SoundID int

const (
	SoundNone SoundID = iota
	// Locomotion cues
	SoundWaypointStart
	SoundWaypointEnd
	SoundSnapRotate
	// Chat cues
	SoundQuack
	SoundSpecialQuack
	SoundChatMessage
)

// AudioConfig contains audio-related configuration values
type AudioConfig struct {
	SampleRate    int
	DefaultSFXVol float64
}

// Tone describes a synthesized cue: a frequency sweep with a linear decay
type Tone struct {
	StartHz  float64
	EndHz    float64
	Duration time.Duration
}

// SoundConfig maps sound IDs to synthesized tones
type SoundConfig struct {
	Tones             map[SoundID]Tone
	VolumeMultipliers map[SoundID]float64
}

var Audio AudioConfig
var Sound SoundConfig

func init() {
	Audio = AudioConfig{
		SampleRate:    44100,
		DefaultSFXVol: 0.6,
	}

	Sound = SoundConfig{
		Tones: map[SoundID]Tone{
			SoundWaypointStart: {StartHz: 440, EndHz: 880, Duration: 180 * time.Millisecond},
			SoundWaypointEnd:   {StartHz: 880, EndHz: 660, Duration: 140 * time.Millisecond},
			SoundSnapRotate:    {StartHz: 520, EndHz: 520, Duration: 50 * time.Millisecond},
			SoundQuack:         {StartHz: 300, EndHz: 180, Duration: 220 * time.Millisecond},
			SoundSpecialQuack:  {StartHz: 180, EndHz: 900, Duration: 600 * time.Millisecond},
			SoundChatMessage:   {StartHz: 990, EndHz: 990, Duration: 60 * time.Millisecond},
		},
		VolumeMultipliers: map[SoundID]float64{
			SoundSnapRotate:  0.5,
			SoundChatMessage: 0.4,
		},
	}
}

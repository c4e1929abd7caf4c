package systems

import (
	"sync"

	"github.com/MTO-Safety/hubs/assets"
	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/yohamta/donburi/ecs"
)

// Global audio state - created once and shared across all scenes
var (
	globalAudioContext *audio.Context
	globalToneBank     *assets.ToneBank
	globalSFXVolume    float64 = cfg.Audio.DefaultSFXVol
	audioInitOnce      sync.Once
)

// initGlobalAudio initializes the global audio context (called once)
func initGlobalAudio() {
	audioInitOnce.Do(func() {
		globalAudioContext = audio.NewContext(cfg.Audio.SampleRate)
		globalToneBank = assets.NewToneBank(globalAudioContext)
	})
}

// PreloadAllSFX renders every cue tone at startup to avoid lag on first play.
func PreloadAllSFX() {
	initGlobalAudio()

	for id, tone := range cfg.Sound.Tones {
		globalToneBank.Preload(id, tone)
	}
}

// UpdateAudio plays the cues queued this tick
func UpdateAudio(e *ecs.ECS) {
	initGlobalAudio()

	entry, ok := components.Audio.First(e.World)
	if ok {
		audioData := components.Audio.Get(entry)
		for _, soundID := range audioData.PendingSFX {
			playSFX(soundID)
		}
		audioData.PendingSFX = audioData.PendingSFX[:0]
	}
}

func playSFX(soundID cfg.SoundID) {
	if globalSFXVolume <= 0 {
		return
	}

	tone, ok := cfg.Sound.Tones[soundID]
	if !ok {
		return
	}
	globalToneBank.Preload(soundID, tone)

	player, err := globalToneBank.Player(soundID)
	if err != nil {
		return
	}

	volume := globalSFXVolume
	if mult, ok := cfg.Sound.VolumeMultipliers[soundID]; ok {
		volume *= mult
	}

	player.SetVolume(volume)
	player.Play()
}

// PlaySFX queues a sound effect to be played
func PlaySFX(e *ecs.ECS, sound cfg.SoundID) {
	audioData := GetOrCreateAudio(e)
	audioData.PendingSFX = append(audioData.PendingSFX, sound)
}

// SetSFXVolume changes the SFX volume (0.0 - 1.0)
func SetSFXVolume(volume float64) {
	globalSFXVolume = volume
}

// GetSFXVolume returns the current SFX volume (0.0 - 1.0)
func GetSFXVolume() float64 {
	return globalSFXVolume
}

// GetOrCreateAudio returns the singleton Audio component for this ECS, creating it if needed
func GetOrCreateAudio(e *ecs.ECS) *components.AudioData {
	entry, ok := components.Audio.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.Audio))
		components.Audio.SetValue(entry, components.AudioData{
			Context:    globalAudioContext,
			SFXVolume:  globalSFXVolume,
			PendingSFX: make([]cfg.SoundID, 0, 8),
		})
	}
	return components.Audio.Get(entry)
}

// Cues queues one-shot cues on the ECS audio singleton. It serves the
// controller and the command dispatcher.
type Cues struct {
	ecs *ecs.ECS
}

func NewCues(e *ecs.ECS) *Cues {
	return &Cues{ecs: e}
}

func (c *Cues) PlayOneShot(id cfg.SoundID) {
	PlaySFX(c.ecs, id)
}

package components

import (
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/yohamta/donburi"

	cfg "github.com/MTO-Safety/hubs/config"
)

// AudioData stores global audio state (singleton component)
type AudioData struct {
	Context    *audio.Context
	SFXVolume  float64 // 0.0 - 1.0
	PendingSFX []cfg.SoundID
}

var Audio = donburi.NewComponentType[AudioData]()

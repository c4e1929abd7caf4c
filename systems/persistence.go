package systems

import (
	"encoding/json"

	"github.com/MTO-Safety/hubs/controller"
	"github.com/quasilyte/gdata"
	"github.com/sirupsen/logrus"
)

const preferencesKey = "preferences"

// Audio output modes
const (
	AudioOutputPanner = "panner" // positional
	AudioOutputAudio  = "audio"  // flat
)

// SavedPreferences represents the preferences stored on disk
type SavedPreferences struct {
	DisableMovement          bool    `json:"disableMovement"`
	DisableStrafing          bool    `json:"disableStrafing"`
	DisableBackwardsMovement bool    `json:"disableBackwardsMovement"`
	SnapRotationDegrees      *float64 `json:"snapRotationDegrees,omitempty"`
	MovementSpeedModifier    float64 `json:"movementSpeedModifier"`
	AudioNormalization       float64 `json:"audioNormalization"`
	AudioOutputMode          string  `json:"audioOutputMode"`
	SFXVolume                float64 `json:"sfxVolume"`
	DisplayName              string  `json:"displayName"`
}

// DefaultPreferences are used until anything is saved
func DefaultPreferences() SavedPreferences {
	return SavedPreferences{
		MovementSpeedModifier: 1,
		AudioOutputMode:       AudioOutputPanner,
		SFXVolume:             GetSFXVolume(),
	}
}

var gdataManager *gdata.Manager
var gdataInitialized bool

// InitPersistence initializes the gdata manager for preference storage
func InitPersistence(appName string) error {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		logrus.Warnf("Could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

// LoadPreferences loads preferences from disk. Missing or unreadable data
// yields the defaults.
func LoadPreferences() SavedPreferences {
	prefs := DefaultPreferences()
	if !gdataInitialized || gdataManager == nil {
		return prefs
	}

	data, err := gdataManager.LoadItem(preferencesKey)
	if err != nil {
		logrus.Warnf("Could not load preferences: %v", err)
		return prefs
	}
	if len(data) == 0 {
		// No saved preferences yet, use defaults
		return prefs
	}

	if err := json.Unmarshal(data, &prefs); err != nil {
		logrus.Warnf("Could not parse saved preferences: %v", err)
		return DefaultPreferences()
	}
	return prefs
}

// SavePreferences saves preferences to disk
func SavePreferences(p SavedPreferences) error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		logrus.Warnf("Could not serialize preferences: %v", err)
		return err
	}

	if err := gdataManager.SaveItem(preferencesKey, data); err != nil {
		logrus.Warnf("Could not save preferences: %v", err)
		return err
	}
	return nil
}

// PreferenceStore holds the live preferences and writes them back on
// every change.
type PreferenceStore struct {
	prefs SavedPreferences
	save  func(SavedPreferences) error
}

// NewPreferenceStore wraps loaded preferences. A nil save uses
// SavePreferences.
func NewPreferenceStore(p SavedPreferences, save func(SavedPreferences) error) *PreferenceStore {
	if save == nil {
		save = SavePreferences
	}
	return &PreferenceStore{prefs: p, save: save}
}

func (s *PreferenceStore) Saved() SavedPreferences { return s.prefs }

// MovementPreferences is read by the controller every tick.
func (s *PreferenceStore) MovementPreferences() controller.Preferences {
	return controller.Preferences{
		DisableMovement:          s.prefs.DisableMovement,
		DisableStrafing:          s.prefs.DisableStrafing,
		DisableBackwardsMovement: s.prefs.DisableBackwardsMovement,
		SnapRotationDegrees:      s.prefs.SnapRotationDegrees,
		MovementSpeedModifier:    s.prefs.MovementSpeedModifier,
	}
}

func (s *PreferenceStore) SetAudioNormalization(factor float64) error {
	s.prefs.AudioNormalization = factor
	return s.save(s.prefs)
}

// ToggleAudioOutputMode flips between positional and flat audio and
// reports whether positional audio is now on.
func (s *PreferenceStore) ToggleAudioOutputMode() (bool, error) {
	positional := s.prefs.AudioOutputMode == AudioOutputAudio
	if positional {
		s.prefs.AudioOutputMode = AudioOutputPanner
	} else {
		s.prefs.AudioOutputMode = AudioOutputAudio
	}
	return positional, s.save(s.prefs)
}

func (s *PreferenceStore) SetDisplayName(name string) error {
	s.prefs.DisplayName = name
	return s.save(s.prefs)
}

package controller

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/MTO-Safety/hubs/config"
)

// Input is sampled once per tick. Edge-triggered actions report true only
// on the tick they fire.
type Input interface {
	Get(action config.ActionID) bool
	CharacterAcceleration() (x, y float64)
}

// Navigator constrains positions to the walkable surface.
type Navigator interface {
	HasMesh() bool
	Invalidate()
	FindPositionOnNavMesh(start, end mgl64.Vec3, forceRecompute bool) mgl64.Vec3
}

// AudioEmitter plays fire-and-forget cues.
type AudioEmitter interface {
	PlayOneShot(id config.SoundID)
}

// Preferences are the user's movement settings.
type Preferences struct {
	DisableMovement          bool
	DisableStrafing          bool
	DisableBackwardsMovement bool
	SnapRotationDegrees      *float64 // nil uses the configured default
	MovementSpeedModifier    float64 // 0 means 1
}

// PreferenceSource returns the current preferences.
type PreferenceSource interface {
	MovementPreferences() Preferences
}

// Permissions answers room policy grants such as "fly".
type Permissions interface {
	Can(permission string) bool
}

// WaypointReleaser frees waypoints the avatar was holding exclusively.
type WaypointReleaser interface {
	ReleaseAnyOccupiedWaypoints()
}

// Session describes the local client's mode.
type Session interface {
	Entered() bool
	IsGhost() bool
	Immersive() bool
	Mobile() bool
}

// CommandSink receives commands the controller triggers from input.
type CommandSink interface {
	DispatchCommand(name string, args ...string) error
}

// Deps are the collaborators a Controller needs. Commands is optional.
type Deps struct {
	Input       Input
	Nav         Navigator
	Audio       AudioEmitter
	Prefs       PreferenceSource
	Permissions Permissions
	Waypoints   WaypointReleaser
	Session     Session
	Commands    CommandSink
}

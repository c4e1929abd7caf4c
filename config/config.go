package config

import (
	"image/color"
	"time"
)

// LocomotionConfig contains the character controller tuning values
type LocomotionConfig struct {
	// Movement
	BaseSpeed          float64 // meters per second at scale 1
	BoostMultiplier    float64
	SmoothingDesktop   float64 // fraction of relative motion carried to the next tick
	SmoothingImmersive float64
	MotionEpsilonSq    float64 // squared relative motion below which the avatar is not moving

	// Rotation
	SnapRotationDegrees float64

	// Nav mesh landing
	LandingThresholdSq      float64 // squared correction distance to land while flying
	UnoccupyLandThresholdSq float64 // squared correction distance to land once motion is confirmed

	// Waypoint POV offset
	POVForwardOffset float64

	NavZone string
}

// WaypointConfig contains waypoint travel tuning values
type WaypointConfig struct {
	AverageSpeed         float64 // meters per second
	StartCueThreshold    time.Duration
	AllowLerpInImmersive bool
}

// DeskConfig contains the desk interaction tuning values
type DeskConfig struct {
	ObjectType       string
	MinHeight        float64
	MaxHeight        float64
	Step             float64
	Tolerance        float64
	GestureTicks     int
	GestureRollAbs   float64 // |rot.z| must exceed this
	TrackingRange    float64
	ButtonRange      float64
	HandHeightOffset float64
	MaxStepsPerTick  int
	ProxySuffix      string
}

// CommandConfig contains chat command values
type CommandConfig struct {
	ScaleLadder      []float64
	MinHeight        float64
	MaxHeight        float64
	HeightOffset     float64 // eye to top of head
	SpawnHeight      float64
	SpawnDistance    float64
	PresOffset       float64
	DuckURL          string
	SpecialQuackOdds float64
	MaxNormalization float64
}

// NetConfig contains connection defaults
type NetConfig struct {
	Version       string
	DefaultRoom   string
	StatsAddr     string
	ChatBuffer    int
	OfflinePerms  []string
	SentryTimeout time.Duration
}

// PresenceConfig contains presence log overlay values
type PresenceConfig struct {
	MaxLines        int
	DisplayDuration int // frames
	LineHeight      int
	Margin          int
	BoxColor        color.RGBA
	TextColor       color.RGBA
	ChatColor       color.RGBA
}

// RoomViewConfig contains top-down room rendering values
type RoomViewConfig struct {
	PixelsPerMeter  float64
	FollowSmoothing float64
	FloorColor      color.RGBA
	DeskColor       color.RGBA
	SnapColor       color.RGBA
	MediaColor      color.RGBA
	AvatarColor     color.RGBA
	RemoteColor     color.RGBA
	NavDebugColor   color.RGBA
}

type Config struct {
	Width  int
	Height int
	TPS    int
}

// Global configuration instances
var C *Config
var Locomotion LocomotionConfig
var Waypoint WaypointConfig
var Desk DeskConfig
var Commands CommandConfig
var Net NetConfig
var Presence PresenceConfig
var RoomView RoomViewConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow       = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	LightBlue    = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	LightGreen   = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	Orange       = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	Magenta      = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
	DarkGray     = color.RGBA{R: 45, G: 45, B: 52, A: 255}
	Brown        = color.RGBA{R: 140, G: 95, B: 60, A: 255}
)

func init() {
	C = &Config{
		Width:  960,
		Height: 540,
		TPS:    60,
	}

	Locomotion = LocomotionConfig{
		BaseSpeed:          3.2,
		BoostMultiplier:    2,
		SmoothingDesktop:   0.85,
		SmoothingImmersive: 0,
		MotionEpsilonSq:    0.000001,

		SnapRotationDegrees: 45,

		LandingThresholdSq:      0.5,
		UnoccupyLandThresholdSq: 3,

		POVForwardOffset: -0.15,

		NavZone: "character",
	}

	Waypoint = WaypointConfig{
		AverageSpeed:         50,
		StartCueThreshold:    100 * time.Millisecond,
		AllowLerpInImmersive: false,
	}

	Desk = DeskConfig{
		ObjectType:       "Interactive_Desk",
		MinHeight:        0.905,
		MaxHeight:        1.402,
		Step:             0.0007,
		Tolerance:        0.001,
		GestureTicks:     200,
		GestureRollAbs:   3,
		TrackingRange:    2,
		ButtonRange:      1,
		HandHeightOffset: 0.08,
		MaxStepsPerTick:  2000,
		ProxySuffix:      "_collider",
	}

	Commands = CommandConfig{
		ScaleLadder:      []float64{0.0625, 0.125, 0.25, 0.5, 1.0, 1.5, 3, 5, 7.5, 12.5},
		MinHeight:        1,
		MaxHeight:        2.5,
		HeightOffset:     0.3,
		SpawnHeight:      1.8,
		SpawnDistance:    2,
		PresOffset:       2.8,
		DuckURL:          "https://assets.hubs.local/models/DuckyMesh.glb",
		SpecialQuackOdds: 0.01,
		MaxNormalization: 255,
	}

	Net = NetConfig{
		Version:       "hubs-0.3.0",
		DefaultRoom:   "office",
		StatsAddr:     "localhost:18066",
		ChatBuffer:    32,
		OfflinePerms:  []string{"fly", "update_hub", "spawn_and_move_media"},
		SentryTimeout: 5 * time.Second,
	}

	Presence = PresenceConfig{
		MaxLines:        8,
		DisplayDuration: 600,
		LineHeight:      16,
		Margin:          10,
		BoxColor:        BlackOverlay,
		TextColor:       White,
		ChatColor:       LightBlue,
	}

	RoomView = RoomViewConfig{
		PixelsPerMeter:  40,
		FollowSmoothing: 0.1,
		FloorColor:      DarkGray,
		DeskColor:       Brown,
		SnapColor:       Orange,
		MediaColor:      Magenta,
		AvatarColor:     LightGreen,
		RemoteColor:     Yellow,
		NavDebugColor:   LightBlue,
	}
}


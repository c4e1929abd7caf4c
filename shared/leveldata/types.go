// Package leveldata provides TMX room parsing shared between client and server.
// It has no dependencies on ebitengine, donburi, or resolv — pure data only.
//
// Tiled's x axis maps to world X and its y axis to world Z. Heights come
// from object properties.
package leveldata

// RoomData holds everything parsed from a room TMX file.
type RoomData struct {
	Name           string
	PixelsPerMeter float64
	Width, Depth   float64 // meters

	NavRects    []NavRect
	Desks       []DeskSpawn
	Colliders   []ColliderSpawn
	SnapObjects []SnapObjectSpawn
	Waypoints   []WaypointSpawn
	Media       []MediaSpawn
}

// NavRect is a walkable area at a fixed elevation.
type NavRect struct {
	MinX, MinZ, MaxX, MaxZ float64
	Elevation              float64
}

// DeskSpawn is a height-adjustable desk.
type DeskSpawn struct {
	Name       string
	ObjectType string
	X, Z       float64 // center
	W, D       float64
	Height     float64
	Proxy      string // name of the paired collider
}

// ColliderSpawn is an invisible collision proxy.
type ColliderSpawn struct {
	Name      string
	X, Z      float64
	W, D      float64
	Height    float64
	Invisible bool
}

// SnapObjectSpawn is an object that snaps into place and must not be dragged.
type SnapObjectSpawn struct {
	Name   string
	X, Z   float64
	W, D   float64
	Height float64
}

// WaypointSpawn is a teleport destination.
type WaypointSpawn struct {
	Name                           string
	X, Y, Z                        float64
	YawDegrees                     float64
	IsSpawn                        bool
	IsInstant                      bool
	SnapToNavMesh                  bool
	WillDisableMotion              bool
	WillDisableTeleporting         bool
	WillMaintainInitialOrientation bool
}

// MediaSpawn is a media frame or screen placed in the room.
type MediaSpawn struct {
	Name    string
	URL     string
	X, Y, Z float64
	IsPres  bool
	Creator string
}

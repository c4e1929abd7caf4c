package messages

import "github.com/leap-fish/necs/esync"

// ChatMessage is a line of room chat.
type ChatMessage struct {
	From string // display name, set by the room
	Body string
}

// SceneChanged is broadcast when the room's scene changes.
type SceneChanged struct {
	SceneURL string
	By       string
}

// HubRenamed is broadcast when the room is renamed.
type HubRenamed struct {
	Name string
	By   string
}

// UpdateScene asks the room to change its scene.
type UpdateScene struct {
	SceneURL string
}

// RenameHub asks the room to change its name.
type RenameHub struct {
	Name string
}

// PermissionsUpdated replaces the client's granted permissions.
type PermissionsUpdated struct {
	Permissions []string
}

// AvatarUpdate is the local avatar's pose, sent each tick while it changes.
type AvatarUpdate struct {
	X, Y, Z float64
	Yaw     float64
	Scale   float64
}

// SpawnMedia asks the room to place a media object.
type SpawnMedia struct {
	ObjectID esync.NetworkId // chosen by the spawner
	URL      string
	X, Y, Z  float64
	Yaw      float64
	Creator  string // session id
}

// MediaMoved publishes a new position for a media object.
type MediaMoved struct {
	ObjectID esync.NetworkId
	X, Y, Z  float64
}

// Room permissions
const (
	PermissionFly        = "fly"
	PermissionUpdateHub  = "update_hub"
	PermissionSpawnMedia = "spawn_and_move_media"
)

package tags

import "github.com/yohamta/donburi"

var (
	Desk         = donburi.NewTag().SetName("Desk")
	Collider     = donburi.NewTag().SetName("Collider")
	SnapObject   = donburi.NewTag().SetName("SnapObject")
	Media        = donburi.NewTag().SetName("Media")
	Waypoint     = donburi.NewTag().SetName("Waypoint")
	LocalAvatar  = donburi.NewTag().SetName("LocalAvatar")
	RemoteAvatar = donburi.NewTag().SetName("RemoteAvatar")
)

// Object types carried by scene objects
const (
	ObjectTypeSnap  = "SnapObject"
	ObjectTypeMedia = "Media"
)

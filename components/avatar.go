package components

import (
	"github.com/yohamta/donburi"

	"github.com/MTO-Safety/hubs/controller"
)

// AvatarData is the local avatar (singleton).
type AvatarData struct {
	Controller *controller.Controller
	Name       string
}

var Avatar = donburi.NewComponentType[AvatarData]()

// RemoteAvatarData is another client's avatar.
type RemoteAvatarData struct {
	Name      string
	SessionID string
}

var RemoteAvatar = donburi.NewComponentType[RemoteAvatarData]()

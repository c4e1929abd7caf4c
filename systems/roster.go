package systems

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	"github.com/MTO-Safety/hubs/command"
	"github.com/MTO-Safety/hubs/components"
	"github.com/MTO-Safety/hubs/controller"
	"github.com/MTO-Safety/hubs/network"
	"github.com/MTO-Safety/hubs/posemath"
	"github.com/MTO-Safety/hubs/tags"
)

// Roster lists the avatars in the room for the command dispatcher.
type Roster struct {
	World      donburi.World
	Controller *controller.Controller
	Room       network.Room
	Name       func() string
}

// Local describes the local avatar.
func (r *Roster) Local() command.AvatarInfo {
	pose := r.Controller.Pose()
	return command.AvatarInfo{
		Name:      r.Name(),
		SessionID: r.Room.SessionID(),
		Rig:       posemath.Position(pose.Rig),
		POV:       r.Controller.POVWorld(),
	}
}

// FindAvatar looks up a remote avatar by display name, ignoring case. The
// POV of a remote avatar is rebuilt from its position and heading.
func (r *Roster) FindAvatar(name string) (command.AvatarInfo, bool) {
	var info command.AvatarInfo
	found := false
	tags.RemoteAvatar.Each(r.World, func(e *donburi.Entry) {
		if found {
			return
		}
		ra := components.RemoteAvatar.Get(e)
		if !strings.EqualFold(ra.Name, name) {
			return
		}
		t := components.Transform.Get(e)
		eye := t.Position.Add(mgl64.Vec3{0, t.Size.Y(), 0})
		info = command.AvatarInfo{
			Name:      ra.Name,
			SessionID: ra.SessionID,
			Rig:       t.Position,
			POV:       mgl64.Translate3D(eye.X(), eye.Y(), eye.Z()).Mul4(posemath.YawMatrix(t.Yaw)),
		}
		found = true
	})
	return info, found
}

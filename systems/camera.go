package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/MTO-Safety/hubs/components"
	"github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/posemath"
)

// UpdateCamera eases the room view towards the local avatar.
func UpdateCamera(e *ecs.ECS) {
	roomEntry, ok := components.Room.First(e.World)
	if !ok {
		return
	}
	room := components.Room.Get(roomEntry).Data
	camera := components.Camera.Get(getOrCreateCamera(e.World, room.Width, room.Depth))

	avatar, ok := LocalAvatar(e)
	if !ok {
		return
	}
	rig := posemath.Position(avatar.Controller.Pose().Rig)

	ppm := config.RoomView.PixelsPerMeter
	view := mgl64.Vec2{float64(config.C.Width) / ppm, float64(config.C.Height) / ppm}
	target := cameraTarget(mgl64.Vec2{rig.X(), rig.Z()}, mgl64.Vec2{room.Width, room.Depth}, view)

	camera.Center = camera.Center.Add(target.Sub(camera.Center).Mul(config.RoomView.FollowSmoothing))
}

// cameraTarget keeps the view inside the room on each axis where the room
// is larger than the view, and centers the room on the others.
func cameraTarget(focus, room, view mgl64.Vec2) mgl64.Vec2 {
	var out mgl64.Vec2
	for i := range 2 {
		if room[i] <= view[i] {
			out[i] = room[i] / 2
			continue
		}
		out[i] = mgl64.Clamp(focus[i], view[i]/2, room[i]-view[i]/2)
	}
	return out
}

func getOrCreateCamera(w donburi.World, roomW, roomD float64) *donburi.Entry {
	if entry, ok := components.Camera.First(w); ok {
		return entry
	}
	entry := w.Entry(w.Create(components.Camera))
	components.Camera.SetValue(entry, components.CameraData{Center: mgl64.Vec2{roomW / 2, roomD / 2}})
	return entry
}

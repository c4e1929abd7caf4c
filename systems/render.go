package systems

import (
	"image/color"
	"math"

	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/fonts"
	"github.com/MTO-Safety/hubs/posemath"
	"github.com/MTO-Safety/hubs/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// roomView maps room meters to screen pixels around the camera.
type roomView struct {
	originX, originY float64
	ppm              float64
}

func newRoomView(w donburi.World, room *components.RoomData, screen *ebiten.Image) roomView {
	return roomViewSized(w, room, float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy()))
}

func roomViewSized(w donburi.World, room *components.RoomData, sw, sh float64) roomView {
	ppm := cfg.RoomView.PixelsPerMeter
	center := mgl64.Vec2{room.Data.Width / 2, room.Data.Depth / 2}
	if entry, ok := components.Camera.First(w); ok {
		center = components.Camera.Get(entry).Center
	}
	return roomView{
		originX: sw/2 - center.X()*ppm,
		originY: sh/2 - center.Y()*ppm,
		ppm:     ppm,
	}
}

func (v roomView) point(p mgl64.Vec3) (float32, float32) {
	return float32(v.originX + p.X()*v.ppm), float32(v.originY + p.Z()*v.ppm)
}

// unproject maps a screen point back onto the floor at height y.
func (v roomView) unproject(sx, sy, y float64) mgl64.Vec3 {
	return mgl64.Vec3{(sx - v.originX) / v.ppm, y, (sy - v.originY) / v.ppm}
}

func (v roomView) footprint(t *components.TransformData) (x, y, w, h float32) {
	cx, cy := v.point(t.Position)
	w, h = float32(t.Size.X()*v.ppm), float32(t.Size.Z()*v.ppm)
	return cx - w/2, cy - h/2, w, h
}

// shade brightens c with elevation so raised floors stand out.
func shade(c color.RGBA, elevation float64) color.RGBA {
	lift := uint8(mgl64.Clamp(elevation*40, 0, 120))
	return color.RGBA{R: c.R + lift/2, G: c.G + lift/2, B: c.B + lift, A: c.A}
}

// DrawRoom renders the walkable floor and the room's objects from above.
func DrawRoom(ecs *ecs.ECS, screen *ebiten.Image) {
	roomEntry, ok := components.Room.First(ecs.World)
	if !ok {
		return
	}
	room := components.Room.Get(roomEntry)
	view := newRoomView(ecs.World, room, screen)

	for _, r := range room.Data.NavRects {
		x, y := view.point(mgl64.Vec3{r.MinX, 0, r.MinZ})
		vector.FillRect(screen, x, y,
			float32((r.MaxX-r.MinX)*view.ppm), float32((r.MaxZ-r.MinZ)*view.ppm),
			shade(cfg.RoomView.FloorColor, r.Elevation), false)
	}

	drawObjects := func(tag *donburi.ComponentType[donburi.Tag], c color.RGBA) {
		tag.Each(ecs.World, func(e *donburi.Entry) {
			x, y, w, h := view.footprint(components.Transform.Get(e))
			vector.FillRect(screen, x, y, w, h, c, false)
		})
	}
	drawObjects(tags.Desk, cfg.RoomView.DeskColor)
	drawObjects(tags.SnapObject, cfg.RoomView.SnapColor)
	drawObjects(tags.Media, cfg.RoomView.MediaColor)

	tags.Waypoint.Each(ecs.World, func(e *donburi.Entry) {
		wp := components.Waypoint.Get(e)
		x, y := view.point(posemath.Position(wp.Transform))
		c := cfg.RoomView.NavDebugColor
		if wp.Occupied {
			c = cfg.RoomView.AvatarColor
		}
		vector.StrokeCircle(screen, x, y, 5, 1, c, true)
	})

	hud := room.HubName
	if hud == "" {
		hud = room.Data.Name
	}
	text.Draw(screen, hud, fonts.Regular.Get(), cfg.Presence.Margin, cfg.Presence.Margin+cfg.Presence.LineHeight, cfg.Presence.TextColor)
}

// drawAvatar draws a body circle with a heading tick. Yaw zero faces -Z,
// which is up on screen.
func drawAvatar(screen *ebiten.Image, view roomView, pos mgl64.Vec3, yaw, scale float64, c color.RGBA, label string) {
	x, y := view.point(pos)
	r := float32(0.25 * scale * view.ppm)
	vector.FillCircle(screen, x, y, r, c, true)
	hx := x - float32(math.Sin(yaw))*r*1.8
	hy := y - float32(math.Cos(yaw))*r*1.8
	vector.StrokeLine(screen, x, y, hx, hy, 2, c, true)
	if label != "" {
		text.Draw(screen, label, fonts.Small.Get(), int(x+r+2), int(y), c)
	}
}

// DrawAvatars renders remote avatars and the local avatar.
func DrawAvatars(ecs *ecs.ECS, screen *ebiten.Image) {
	roomEntry, ok := components.Room.First(ecs.World)
	if !ok {
		return
	}
	view := newRoomView(ecs.World, components.Room.Get(roomEntry), screen)

	tags.RemoteAvatar.Each(ecs.World, func(e *donburi.Entry) {
		t := components.Transform.Get(e)
		scale := t.Size.Y() / remoteAvatarSize.Y()
		drawAvatar(screen, view, t.Position, t.Yaw, scale, cfg.RoomView.RemoteColor, components.RemoteAvatar.Get(e).Name)
	})

	avatar, ok := LocalAvatar(ecs)
	if !ok {
		return
	}
	ctrl := avatar.Controller
	drawAvatar(screen, view, posemath.Position(ctrl.Pose().Rig), Heading(ctrl.POVWorld()), ctrl.AvatarScale(),
		cfg.RoomView.AvatarColor, avatar.Name)

	if ctrl.Fly() {
		x, y := view.point(posemath.Position(ctrl.Pose().Rig))
		text.Draw(screen, "fly", fonts.Small.Get(), int(x)-8, int(y)+20, cfg.RoomView.AvatarColor)
	}
}

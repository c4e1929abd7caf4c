package systems

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/fonts"
	"github.com/MTO-Safety/hubs/navmesh"
	"github.com/MTO-Safety/hubs/tags"
)

// DrawNavDebug outlines nav mesh nodes and colliders, labels node groups
// and shows the frame rate while the debug overlay is on.
func DrawNavDebug(ecs *ecs.ECS, screen *ebiten.Image) {
	roomEntry, ok := components.Room.First(ecs.World)
	if !ok {
		return
	}
	room := components.Room.Get(roomEntry)
	if !room.NavDebug || room.Mesh == nil {
		return
	}
	zone, ok := room.Mesh.Zone(cfg.Locomotion.NavZone)
	if !ok {
		return
	}
	view := newRoomView(ecs.World, room, screen)
	c := cfg.RoomView.NavDebugColor

	for _, n := range zone.Nodes {
		x, y := view.point(mgl64.Vec3{n.Rect.MinX, 0, n.Rect.MinZ})
		w := float32((n.Rect.MaxX - n.Rect.MinX) * view.ppm)
		h := float32((n.Rect.MaxZ - n.Rect.MinZ) * view.ppm)
		vector.StrokeRect(screen, x, y, w, h, 1, c, false)

		cx, cy := view.point(n.Rect.Centroid())
		label := fmt.Sprintf("%d/g%d y%.2f", n.ID, n.Group, n.Rect.Y)
		text.Draw(screen, label, fonts.Small.Get(), int(cx)-24, int(cy), c)
		drawNeighbors(screen, view, zone, n, c)
	}

	tags.Collider.Each(ecs.World, func(e *donburi.Entry) {
		x, y, w, h := view.footprint(components.Transform.Get(e))
		vector.StrokeRect(screen, x, y, w, h, 1, cfg.RoomView.DeskColor, false)
	})

	stats := fmt.Sprintf("FPS %.0f  TPS %.0f", ebiten.ActualFPS(), ebiten.ActualTPS())
	text.Draw(screen, stats, fonts.Small.Get(), screen.Bounds().Dx()-110, cfg.Presence.Margin+cfg.Presence.LineHeight, c)
}

func drawNeighbors(screen *ebiten.Image, view roomView, zone *navmesh.Zone, n *navmesh.Node, c color.RGBA) {
	ax, ay := view.point(n.Rect.Centroid())
	for _, id := range n.Neighbors {
		if id < n.ID {
			continue
		}
		bx, by := view.point(zone.Nodes[id].Rect.Centroid())
		vector.StrokeLine(screen, ax, ay, bx, by, 1, c, true)
	}
}

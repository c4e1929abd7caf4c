package factory

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"

	"github.com/MTO-Safety/hubs/archetypes"
	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/navmesh"
	"github.com/MTO-Safety/hubs/posemath"
	"github.com/MTO-Safety/hubs/shared/leveldata"
	"github.com/MTO-Safety/hubs/shared/netcomponents"
	"github.com/MTO-Safety/hubs/tags"
	"github.com/MTO-Safety/hubs/waypoint"
)

// MediaSize is the footprint of a media frame, in meters.
var MediaSize = mgl64.Vec3{1, 0.75, 0.05}

// ObjectNetID derives the network id of an authored or spawned object.
func ObjectNetID(room, name string) esync.NetworkId {
	return netcomponents.ObjectNetID(room, name)
}

// CreateRoom spawns the room singleton and every authored object, and
// builds the nav mesh from the walkable rects.
func CreateRoom(w donburi.World, data *leveldata.RoomData, hubName string) (*donburi.Entry, error) {
	rects := make([]navmesh.Rect, len(data.NavRects))
	for i, r := range data.NavRects {
		rects[i] = navmesh.Rect{MinX: r.MinX, MinZ: r.MinZ, MaxX: r.MaxX, MaxZ: r.MaxZ, Y: r.Elevation}
	}
	mesh, err := navmesh.Build(cfg.Locomotion.NavZone, rects)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", data.Name, err)
	}

	room := archetypes.Room.SpawnInWorld(w)
	components.Room.SetValue(room, components.RoomData{
		Data:    data,
		Mesh:    mesh,
		HubName: hubName,
	})

	for _, c := range data.Colliders {
		e := archetypes.Collider.SpawnInWorld(w)
		components.Object.SetValue(e, components.ObjectData{Name: c.Name, NetID: ObjectNetID(data.Name, c.Name)})
		components.Transform.SetValue(e, components.TransformData{
			Position: mgl64.Vec3{c.X, c.Height, c.Z},
			Size:     mgl64.Vec3{c.W, c.Height, c.D},
		})
	}

	for _, d := range data.Desks {
		CreateDesk(w, data.Name, d)
	}

	for _, s := range data.SnapObjects {
		e := archetypes.SnapObject.SpawnInWorld(w)
		components.Object.SetValue(e, components.ObjectData{
			Name:       s.Name,
			ObjectType: tags.ObjectTypeSnap,
			NetID:      ObjectNetID(data.Name, s.Name),
		})
		components.Transform.SetValue(e, components.TransformData{
			Position: mgl64.Vec3{s.X, s.Height, s.Z},
			Size:     mgl64.Vec3{s.W, s.Height, s.D},
		})
		components.Interactable.SetValue(e, components.InteractableData{Draggable: true, HoverableVisuals: true})
	}

	for _, m := range data.Media {
		CreateMedia(w, ObjectNetID(data.Name, m.Name), m.Name, components.MediaData{
			URL:     m.URL,
			Creator: m.Creator,
			IsPres:  m.IsPres,
		}, mgl64.Vec3{m.X, m.Y, m.Z}, 0)
	}

	for _, wp := range data.Waypoints {
		CreateWaypoint(w, wp)
	}

	return room, nil
}

// CreateDesk spawns a desk. Desks carry every capability until the desk
// machine strips them on its first tick.
func CreateDesk(w donburi.World, room string, d leveldata.DeskSpawn) *donburi.Entry {
	e := archetypes.Desk.SpawnInWorld(w)
	components.Object.SetValue(e, components.ObjectData{
		Name:       d.Name,
		ObjectType: d.ObjectType,
		NetID:      ObjectNetID(room, d.Name),
	})
	components.Desk.SetValue(e, components.DeskData{ProxyName: d.Proxy})
	components.Transform.SetValue(e, components.TransformData{
		Position: mgl64.Vec3{d.X, d.Height, d.Z},
		Size:     mgl64.Vec3{d.W, d.Height, d.D},
	})
	components.Interactable.SetValue(e, components.InteractableData{
		Draggable:         true,
		HoverableVisuals:  true,
		RemoteHoverTarget: true,
	})
	return e
}

// CreateMedia spawns a media frame.
func CreateMedia(w donburi.World, id esync.NetworkId, name string, media components.MediaData, pos mgl64.Vec3, yaw float64) *donburi.Entry {
	e := archetypes.Media.SpawnInWorld(w)
	components.Object.SetValue(e, components.ObjectData{
		Name:       name,
		ObjectType: tags.ObjectTypeMedia,
		NetID:      id,
	})
	components.Media.SetValue(e, media)
	components.Transform.SetValue(e, components.TransformData{
		Position: pos,
		Yaw:      yaw,
		Size:     MediaSize,
	})
	components.Interactable.SetValue(e, components.InteractableData{Draggable: true, HoverableVisuals: true})
	return e
}

// CreateWaypoint spawns a waypoint. Its transform faces the authored yaw.
func CreateWaypoint(w donburi.World, wp leveldata.WaypointSpawn) *donburi.Entry {
	e := archetypes.Waypoint.SpawnInWorld(w)
	transform := mgl64.Translate3D(wp.X, wp.Y, wp.Z).Mul4(posemath.YawMatrix(mgl64.DegToRad(wp.YawDegrees)))
	components.Waypoint.SetValue(e, components.WaypointData{
		Name:      wp.Name,
		Transform: transform,
		IsSpawn:   wp.IsSpawn,
		IsInstant: wp.IsInstant,
		Flags: waypoint.Flags{
			SnapToNavMesh:                  wp.SnapToNavMesh,
			WillDisableMotion:              wp.WillDisableMotion,
			WillDisableTeleporting:         wp.WillDisableTeleporting,
			WillMaintainInitialOrientation: wp.WillMaintainInitialOrientation,
		},
	})
	return e
}

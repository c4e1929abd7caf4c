package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/MTO-Safety/hubs/archetypes"
	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/desk"
	"github.com/MTO-Safety/hubs/network"
	"github.com/MTO-Safety/hubs/shared/netcomponents"
	"github.com/MTO-Safety/hubs/systems/factory"
	"github.com/MTO-Safety/hubs/tags"
)

// Remote avatar footprint at scale 1, in meters.
var remoteAvatarSize = mgl64.Vec3{0.5, 1.7, 0.5}

// NetSync pulls room events and snapshots into the world.
type NetSync struct {
	Room     network.Room
	Desks    *desk.Machine
	Presence *PresenceLog
	Cues     *Cues
	Log      *logrus.Logger

	present map[esync.NetworkId]bool
}

// Update is the system function.
func (n *NetSync) Update(e *ecs.ECS) {
	for _, msg := range n.Room.DrainChat() {
		n.Presence.Chat(msg.From, msg.Body)
		n.Cues.PlayOneShot(cfg.SoundChatMessage)
	}

	roomEntry, hasRoom := components.Room.First(e.World)
	if hasRoom {
		room := components.Room.Get(roomEntry)
		// The hub name and scene arrive with the join
		if room.HubName == "" {
			room.HubName = n.Room.HubName()
		}
		if room.SceneURL == "" {
			room.SceneURL = n.Room.SceneURL()
		}
	}
	for _, change := range n.Room.DrainSceneChanges() {
		if hasRoom {
			components.Room.Get(roomEntry).SceneURL = change.SceneURL
		}
		n.Presence.Log(change.By + " changed the scene to " + change.SceneURL)
	}
	for _, rename := range n.Room.DrainRenames() {
		if hasRoom {
			components.Room.Get(roomEntry).HubName = rename.Name
		}
		n.Presence.Log(rename.By + " renamed the room to " + rename.Name)
	}

	if snapshot := n.Room.LatestSnapshot(); snapshot != nil {
		n.applySnapshot(e.World, *snapshot)
	}
}

func (n *NetSync) applySnapshot(world donburi.World, snapshot esync.WorldSnapshot) {
	if n.present == nil {
		n.present = make(map[esync.NetworkId]bool)
	}
	clear(n.present)

	for _, ent := range snapshot {
		n.present[ent.Id] = true

		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				n.Log.WithError(err).WithField("entity", ent.Id).Debug("skip component")
				continue
			}
			switch v := instance.(type) {
			case netcomponents.NetAvatarData:
				if v.SessionID != n.Room.SessionID() {
					n.applyAvatar(world, ent.Id, v)
				}
			case netcomponents.NetDeskData:
				n.applyDesk(world, ent.Id, v)
			case netcomponents.NetMediaData:
				n.applyMedia(world, ent.Id, v)
			}
		}
	}

	// Remote avatars missing from the snapshot have left
	var gone []*donburi.Entry
	tags.RemoteAvatar.Each(world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil || !n.present[*id] {
			gone = append(gone, entry)
		}
	})
	for _, entry := range gone {
		entry.Remove()
	}
}

func (n *NetSync) applyAvatar(world donburi.World, id esync.NetworkId, v netcomponents.NetAvatarData) {
	entity := esync.FindByNetworkId(world, id)
	if !world.Valid(entity) {
		entry := archetypes.RemoteAvatar.SpawnInWorld(world, esync.NetworkIdComponent)
		esync.NetworkIdComponent.SetValue(entry, id)
		entity = entry.Entity()
	}
	entry := world.Entry(entity)

	components.RemoteAvatar.SetValue(entry, components.RemoteAvatarData{Name: v.Name, SessionID: v.SessionID})
	t := components.Transform.Get(entry)
	t.Size = remoteAvatarSize.Mul(v.Scale)

	target := mgl64.Vec3{v.X, v.Y, v.Z}
	interp := components.NetInterp.Get(entry)
	if !interp.Initialized {
		// First snapshot: place directly
		t.Position, t.Yaw = target, v.Yaw
		interp.Prev, interp.Target = target, target
		interp.PrevYaw, interp.TargetYaw = v.Yaw, v.Yaw
		interp.T = 1
		interp.Initialized = true
		return
	}
	interp.Prev, interp.PrevYaw = t.Position, t.Yaw
	interp.Target, interp.TargetYaw = target, v.Yaw
	interp.T = 0
}

// objectByNetID finds a scene object by its network id.
func objectByNetID(world donburi.World, id esync.NetworkId) *donburi.Entry {
	var found *donburi.Entry
	components.Object.Each(world, func(e *donburi.Entry) {
		if found == nil && components.Object.Get(e).NetID == id {
			found = e
		}
	})
	return found
}

func (n *NetSync) applyDesk(world donburi.World, id esync.NetworkId, v netcomponents.NetDeskData) {
	if n.Room.IsMine(id) {
		return
	}
	entry := objectByNetID(world, id)
	if entry == nil || !entry.HasComponent(components.Desk) {
		return
	}
	n.Desks.ApplyHeight(entry, v.Height)
}

func (n *NetSync) applyMedia(world donburi.World, id esync.NetworkId, v netcomponents.NetMediaData) {
	entry := objectByNetID(world, id)
	if entry == nil {
		entry = factory.CreateMedia(world, id, v.URL, components.MediaData{}, mgl64.Vec3{}, 0)
	}
	if !entry.HasComponent(components.Media) {
		return
	}
	components.Media.SetValue(entry, components.MediaData{URL: v.URL, Creator: v.Creator, IsPres: v.IsPres})
	t := components.Transform.Get(entry)
	t.Position = mgl64.Vec3{v.X, v.Y, v.Z}
	t.Yaw = v.Yaw
}

// NewNetInterpSystem moves remote avatars towards their latest snapshot.
// tickRate is the room's snapshot rate; the blend completes in one
// snapshot interval.
func NewNetInterpSystem(tickRate func() int) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		rate := tickRate()
		if rate <= 0 {
			rate = cfg.C.TPS
		}
		step := float64(rate) / float64(cfg.C.TPS)

		components.NetInterp.Each(e.World, func(entry *donburi.Entry) {
			interp := components.NetInterp.Get(entry)
			if !interp.Initialized || interp.T >= 1 {
				return
			}
			interp.T = min(interp.T+step, 1)
			t := components.Transform.Get(entry)
			t.Position = interp.Prev.Add(interp.Target.Sub(interp.Prev).Mul(interp.T))
			t.Yaw = netcomponents.LerpAngle(interp.PrevYaw, interp.TargetYaw, interp.T)
		})
	}
}

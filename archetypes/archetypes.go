package archetypes

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/tags"
)

var (
	Room = newArchetype(
		components.Room,
	)
	LocalAvatar = newArchetype(
		tags.LocalAvatar,
		components.Avatar,
	)
	RemoteAvatar = newArchetype(
		tags.RemoteAvatar,
		components.RemoteAvatar,
		components.Transform,
		components.NetInterp,
	)
	Desk = newArchetype(
		tags.Desk,
		components.Object,
		components.Desk,
		components.Transform,
		components.Interactable,
	)
	Collider = newArchetype(
		tags.Collider,
		components.Object,
		components.Transform,
	)
	SnapObject = newArchetype(
		tags.SnapObject,
		components.Object,
		components.Transform,
		components.Interactable,
	)
	Media = newArchetype(
		tags.Media,
		components.Object,
		components.Media,
		components.Transform,
		components.Interactable,
	)
	Waypoint = newArchetype(
		tags.Waypoint,
		components.Waypoint,
	)
	PresenceLog = newArchetype(
		components.PresenceLog,
		components.ChatLine,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}

// SpawnInWorld creates the entity directly in a world, for code that has no
// ECS wrapper.
func (a *archetype) SpawnInWorld(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	return w.Entry(w.Create(append(a.components, cs...)...))
}

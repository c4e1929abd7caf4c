package systems

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/MTO-Safety/hubs/components"
	"github.com/MTO-Safety/hubs/network"
	"github.com/MTO-Safety/hubs/shared/messages"
	"github.com/MTO-Safety/hubs/systems/factory"
	"github.com/MTO-Safety/hubs/tags"
)

// MediaBoard places media objects in the room and keeps the room
// informed of them.
type MediaBoard struct {
	world   donburi.World
	room    network.Room
	log     *logrus.Entry
	spawned int
}

func NewMediaBoard(w donburi.World, room network.Room, log *logrus.Logger) *MediaBoard {
	return &MediaBoard{world: w, room: room, log: log.WithField("component", "media")}
}

// Spawn places url at position. Once the room accepts it the object
// appears locally without waiting for a snapshot.
func (b *MediaBoard) Spawn(url string, position mgl64.Vec3, yaw float64, creator string) error {
	b.spawned++
	name := fmt.Sprintf("%s-media-%d", creator, b.spawned)
	id := factory.ObjectNetID(b.room.HubName(), name)

	msg := messages.SpawnMedia{
		ObjectID: id,
		URL:      url,
		X:        position.X(),
		Y:        position.Y(),
		Z:        position.Z(),
		Yaw:      yaw,
		Creator:  creator,
	}
	if err := b.room.SpawnMedia(msg); err != nil {
		return fmt.Errorf("spawn %s: %w", url, err)
	}

	factory.CreateMedia(b.world, id, name, components.MediaData{URL: url, Creator: creator}, position, yaw)

	b.log.WithFields(logrus.Fields{"url": url, "object": id}).Debug("spawned")
	return nil
}

// ScreenFor returns the position of the most recent media object created
// by sessionID.
func (b *MediaBoard) ScreenFor(sessionID string) (mgl64.Vec3, bool) {
	var pos mgl64.Vec3
	found := false
	tags.Media.Each(b.world, func(e *donburi.Entry) {
		if components.Media.Get(e).Creator == sessionID {
			pos, found = components.Transform.Get(e).Position, true
		}
	})
	return pos, found
}

func (b *MediaBoard) presentation() *donburi.Entry {
	var pres *donburi.Entry
	tags.Media.Each(b.world, func(e *donburi.Entry) {
		if pres == nil && components.Media.Get(e).IsPres {
			pres = e
		}
	})
	return pres
}

// FirstPresentation returns the height of the first presentation screen.
func (b *MediaBoard) FirstPresentation() (float64, bool) {
	e := b.presentation()
	if e == nil {
		return 0, false
	}
	return components.Transform.Get(e).Position.Y(), true
}

// ShiftPresentation moves the first presentation screen up by dy.
func (b *MediaBoard) ShiftPresentation(dy float64) {
	e := b.presentation()
	if e == nil {
		return
	}
	t := components.Transform.Get(e)
	t.Position = t.Position.Add(mgl64.Vec3{0, dy, 0})

	msg := messages.MediaMoved{
		ObjectID: components.Object.Get(e).NetID,
		X:        t.Position.X(),
		Y:        t.Position.Y(),
		Z:        t.Position.Z(),
	}
	if err := b.room.MoveMedia(msg); err != nil {
		b.log.WithError(err).Warn("Could not publish presentation move")
	}
}

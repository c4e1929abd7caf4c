package core

import (
	"fmt"
	"os"
	"path"

	"github.com/MTO-Safety/hubs/shared/leveldata"
	"github.com/MTO-Safety/hubs/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/yohamta/donburi"
)

// LoadRoom parses rooms/<name>.tmx under assetsDir.
func LoadRoom(assetsDir, name string) (*leveldata.RoomData, error) {
	data, err := leveldata.LoadRoom(os.DirFS(assetsDir), path.Join("rooms", name+".tmx"))
	if err != nil {
		return nil, fmt.Errorf("load room %q: %w", name, err)
	}
	return data, nil
}

// spawnObjects replicates the room's desks and authored media under the
// ids clients derive from the room and object names.
func (s *Server) spawnObjects(data *leveldata.RoomData) error {
	for _, d := range data.Desks {
		id := netcomponents.ObjectNetID(data.Name, d.Name)
		err := addObject(s, id, netcomponents.NetDesk, netcomponents.NetDeskData{
			Name:   d.Name,
			Height: d.Height,
		})
		if err != nil {
			return fmt.Errorf("desk %s: %w", d.Name, err)
		}
	}
	for _, m := range data.Media {
		err := s.addMedia(netcomponents.ObjectNetID(data.Name, m.Name), netcomponents.NetMediaData{
			URL:     m.URL,
			Creator: m.Creator,
			IsPres:  m.IsPres,
			X:       m.X,
			Y:       m.Y,
			Z:       m.Z,
		})
		if err != nil {
			return fmt.Errorf("media %s: %w", m.Name, err)
		}
	}
	s.log.WithField("desks", len(data.Desks)).WithField("media", len(data.Media)).Info("room loaded")
	return nil
}

func (s *Server) addMedia(id esync.NetworkId, v netcomponents.NetMediaData) error {
	return addObject(s, id, netcomponents.NetMedia, v)
}

// addObject creates a synced entity with a single component and pins its
// network id.
func addObject[T any](s *Server, id esync.NetworkId, c *donburi.ComponentType[T], v T) error {
	entity := s.world.Create(c)
	c.SetValue(s.world.Entry(entity), v)
	if err := srvsync.NetworkSync(s.world, &entity, srvsync.WithInterp(c)); err != nil {
		s.world.Remove(entity)
		return err
	}
	esync.NetworkIdComponent.SetValue(s.world.Entry(entity), id)
	s.objects[id] = entity
	return nil
}

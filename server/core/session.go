package core

import (
	"slices"

	"github.com/MTO-Safety/hubs/shared/messages"
	"github.com/MTO-Safety/hubs/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// session is a joined member and its avatar entity.
type session struct {
	id          string
	name        string
	avatar      donburi.Entity
	networkID   esync.NetworkId
	permissions []string
}

func (s *session) can(permission string) bool {
	return slices.Contains(s.permissions, permission)
}

func (s *Server) onJoin(p Peer, msg messages.JoinRequest) {
	l := s.log.WithFields(logrus.Fields{"client": p.Id(), "name": msg.DisplayName})

	reject := func(reason string) {
		l.WithField("reason", reason).Info("join rejected")
		s.send(p, messages.JoinRejected{Reason: reason})
	}
	switch {
	case s.sessions[p] != nil:
		reject("already joined")
		return
	case s.cfg.Version != "" && msg.Version != s.cfg.Version:
		reject("version mismatch: server requires " + s.cfg.Version)
		return
	case msg.Room != "" && msg.Room != s.cfg.Room:
		reject("unknown room " + msg.Room)
		return
	case s.cfg.MaxMembers > 0 && len(s.sessions) >= s.cfg.MaxMembers:
		reject("room is full")
		return
	}

	name := msg.DisplayName
	if name == "" {
		name = "Guest"
	}
	sess := &session{id: p.Id(), name: name, permissions: s.cfg.Permissions}

	sess.avatar = s.world.Create(netcomponents.NetAvatar)
	entry := s.world.Entry(sess.avatar)
	netcomponents.NetAvatar.SetValue(entry, netcomponents.NetAvatarData{
		Name:      name,
		SessionID: sess.id,
		Scale:     1,
	})
	if err := srvsync.NetworkSync(s.world, &sess.avatar, srvsync.WithInterp(netcomponents.NetAvatar)); err != nil {
		l.WithError(err).Warn("Failed to sync avatar")
		s.world.Remove(sess.avatar)
		reject("internal error")
		return
	}
	if id := esync.GetNetworkId(s.world.Entry(sess.avatar)); id != nil {
		sess.networkID = *id
	}

	s.sessions[p] = sess
	s.setMembers(len(s.sessions))

	s.send(p, messages.JoinAccepted{
		NetworkID:   sess.networkID,
		SessionID:   sess.id,
		Permissions: sess.permissions,
		Room:        s.cfg.Room,
		HubName:     s.hubName,
		SceneURL:    s.sceneURL,
		TickRate:    s.cfg.TickRate,
	})
	for id, owner := range s.owners {
		s.send(p, messages.OwnershipChanged{ObjectID: id, Owner: owner})
	}
	l.WithField("session", sess.id).Info("member joined")
}

func (s *Server) onLeave(p Peer, _ messages.LeaveRequest) {
	s.drop(p, "left")
}

func (s *Server) onDisconnect(p Peer, err error) {
	if err != nil {
		s.log.WithError(err).WithField("client", p.Id()).Info("client disconnected")
	}
	s.drop(p, "disconnected")
}

// drop removes a member, its avatar and its object ownerships.
func (s *Server) drop(p Peer, why string) {
	sess := s.sessions[p]
	if sess == nil {
		return
	}
	delete(s.sessions, p)
	s.setMembers(len(s.sessions))

	if s.world.Valid(sess.avatar) {
		s.world.Remove(sess.avatar)
	}
	for id, owner := range s.owners {
		if owner == sess.id {
			delete(s.owners, id)
			if entity, ok := s.objects[id]; ok && s.world.Valid(entity) {
				if entry := s.world.Entry(entity); entry.HasComponent(netcomponents.NetDesk) {
					netcomponents.NetDesk.Get(entry).Owner = ""
				}
			}
			s.broadcast(messages.OwnershipChanged{ObjectID: id})
		}
	}
	s.log.WithFields(logrus.Fields{"session": sess.id, "name": sess.name}).Info("member " + why)
}

func (s *Server) setMembers(n int) {
	s.mu.Lock()
	s.members = n
	s.mu.Unlock()
}

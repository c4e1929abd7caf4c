package core

import (
	"strings"

	"github.com/MTO-Safety/hubs/shared/messages"
	"github.com/MTO-Safety/hubs/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// maxChatLength bounds a relayed chat body, in bytes.
const maxChatLength = 1024

func (s *Server) onChat(p Peer, msg messages.ChatMessage) {
	sess := s.sessions[p]
	if sess == nil {
		return
	}
	body := strings.TrimSpace(msg.Body)
	if body == "" {
		return
	}
	if len(body) > maxChatLength {
		body = body[:maxChatLength]
	}
	s.broadcast(messages.ChatMessage{From: sess.name, Body: body})
}

func (s *Server) onAvatarUpdate(p Peer, msg messages.AvatarUpdate) {
	sess := s.sessions[p]
	if sess == nil || !s.world.Valid(sess.avatar) {
		return
	}
	av := netcomponents.NetAvatar.Get(s.world.Entry(sess.avatar))
	av.X, av.Y, av.Z = msg.X, msg.Y, msg.Z
	av.Yaw = msg.Yaw
	if msg.Scale > 0 {
		av.Scale = msg.Scale
	}
}

func (s *Server) onUpdateScene(p Peer, msg messages.UpdateScene) {
	sess := s.authorize(p, messages.PermissionUpdateHub, "update scene")
	if sess == nil || msg.SceneURL == "" {
		return
	}
	s.sceneURL = msg.SceneURL
	s.broadcast(messages.SceneChanged{SceneURL: msg.SceneURL, By: sess.name})
}

func (s *Server) onRename(p Peer, msg messages.RenameHub) {
	sess := s.authorize(p, messages.PermissionUpdateHub, "rename")
	name := strings.TrimSpace(msg.Name)
	if sess == nil || name == "" {
		return
	}
	s.mu.Lock()
	s.hubName = name
	s.mu.Unlock()
	s.broadcast(messages.HubRenamed{Name: name, By: sess.name})
}

// onTakeOwnership always grants: the last requester owns the object.
func (s *Server) onTakeOwnership(p Peer, msg messages.TakeOwnership) {
	sess := s.sessions[p]
	if sess == nil {
		return
	}
	entity, ok := s.objects[msg.ObjectID]
	if !ok || !s.world.Valid(entity) {
		s.log.WithField("object", msg.ObjectID).Debug("ownership of unknown object")
		return
	}
	if s.owners[msg.ObjectID] == sess.id {
		return
	}
	s.owners[msg.ObjectID] = sess.id
	if entry := s.world.Entry(entity); entry.HasComponent(netcomponents.NetDesk) {
		netcomponents.NetDesk.Get(entry).Owner = sess.id
	}
	s.broadcast(messages.OwnershipChanged{ObjectID: msg.ObjectID, Owner: sess.id})
}

func (s *Server) onDeskMoved(p Peer, msg messages.DeskMoved) {
	entry := s.owned(p, msg.ObjectID)
	if entry == nil || !entry.HasComponent(netcomponents.NetDesk) {
		return
	}
	d := netcomponents.NetDesk.Get(entry)
	d.Height = msg.Height
	d.Owner = s.owners[msg.ObjectID]
}

func (s *Server) onSpawnMedia(p Peer, msg messages.SpawnMedia) {
	sess := s.authorize(p, messages.PermissionSpawnMedia, "spawn media")
	if sess == nil {
		return
	}
	if _, exists := s.objects[msg.ObjectID]; exists {
		s.log.WithField("object", msg.ObjectID).Debug("media already spawned")
		return
	}
	err := s.addMedia(msg.ObjectID, netcomponents.NetMediaData{
		URL:     msg.URL,
		Creator: msg.Creator,
		X:       msg.X,
		Y:       msg.Y,
		Z:       msg.Z,
		Yaw:     msg.Yaw,
	})
	if err != nil {
		s.log.WithError(err).Warn("Failed to spawn media")
		return
	}
	s.owners[msg.ObjectID] = sess.id
	s.broadcast(messages.OwnershipChanged{ObjectID: msg.ObjectID, Owner: sess.id})
}

func (s *Server) onMediaMoved(p Peer, msg messages.MediaMoved) {
	if s.authorize(p, messages.PermissionSpawnMedia, "move media") == nil {
		return
	}
	entity, ok := s.objects[msg.ObjectID]
	if !ok || !s.world.Valid(entity) {
		return
	}
	entry := s.world.Entry(entity)
	if !entry.HasComponent(netcomponents.NetMedia) {
		return
	}
	m := netcomponents.NetMedia.Get(entry)
	m.X, m.Y, m.Z = msg.X, msg.Y, msg.Z
}

// authorize returns the sender's session when it holds permission.
func (s *Server) authorize(p Peer, permission, action string) *session {
	sess := s.sessions[p]
	if sess == nil {
		return nil
	}
	if !sess.can(permission) {
		s.log.WithFields(logrus.Fields{
			"session":    sess.id,
			"permission": permission,
		}).Info(action + " denied")
		s.send(p, messages.PermissionsUpdated{Permissions: sess.permissions})
		return nil
	}
	return sess
}

// owned returns the object entry if the sender owns it.
func (s *Server) owned(p Peer, id esync.NetworkId) *donburi.Entry {
	sess := s.sessions[p]
	if sess == nil || s.owners[id] != sess.id {
		return nil
	}
	entity, ok := s.objects[id]
	if !ok || !s.world.Valid(entity) {
		return nil
	}
	return s.world.Entry(entity)
}

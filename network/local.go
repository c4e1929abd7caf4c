package network

import (
	"sync"

	"github.com/MTO-Safety/hubs/shared/messages"
	"github.com/leap-fish/necs/esync"
	"github.com/sirupsen/logrus"
)

// Room is what the room scene needs from its connection. Client and Local
// both implement it.
type Room interface {
	SessionID() string
	Joined() bool
	HubName() string
	SceneURL() string

	Can(permission string) bool
	SendMessage(body string) error
	UpdateScene(url string) error
	Rename(name string) error
	Leave() error

	IsMine(id esync.NetworkId) bool
	TakeOwnership(id esync.NetworkId)
	PublishDeskHeight(id esync.NetworkId, height float64)
	PublishAvatar(u messages.AvatarUpdate) error
	SpawnMedia(m messages.SpawnMedia) error
	MoveMedia(m messages.MediaMoved) error

	LatestSnapshot() *esync.WorldSnapshot
	DrainChat() []messages.ChatMessage
	DrainSceneChanges() []messages.SceneChanged
	DrainRenames() []messages.HubRenamed
}

var (
	_ Room = (*Client)(nil)
	_ Room = (*Local)(nil)
)

// LocalSessionID is the session id used when playing offline.
const LocalSessionID = "local"

// Local is an offline room. It owns every object, grants a fixed
// permission set and echoes chat back to the sender.
type Local struct {
	mu sync.Mutex

	name        string
	hubName     string
	sceneURL    string
	permissions map[string]bool
	joined      bool

	chat    []messages.ChatMessage
	scenes  []messages.SceneChanged
	renames []messages.HubRenamed

	log *logrus.Entry
}

func NewLocal(displayName, hubName string, permissions []string, log *logrus.Logger) *Local {
	l := &Local{
		name:        displayName,
		hubName:     hubName,
		permissions: make(map[string]bool, len(permissions)),
		joined:      true,
		log:         log.WithField("component", "network.local"),
	}
	for _, p := range permissions {
		l.permissions[p] = true
	}
	return l
}

func (l *Local) SessionID() string { return LocalSessionID }

func (l *Local) Joined() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.joined
}

func (l *Local) HubName() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hubName
}

func (l *Local) SceneURL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sceneURL
}

func (l *Local) Can(permission string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.permissions[permission]
}

func (l *Local) SendMessage(body string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chat = append(l.chat, messages.ChatMessage{From: l.name, Body: body})
	return nil
}

func (l *Local) UpdateScene(url string) error {
	if !l.Can(PermissionUpdateHub) {
		return ErrUnauthorized
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sceneURL = url
	l.scenes = append(l.scenes, messages.SceneChanged{SceneURL: url, By: l.name})
	return nil
}

func (l *Local) Rename(name string) error {
	if !l.Can(PermissionUpdateHub) {
		return ErrUnauthorized
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hubName = name
	l.renames = append(l.renames, messages.HubRenamed{Name: name, By: l.name})
	return nil
}

func (l *Local) Leave() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.joined = false
	return nil
}

func (l *Local) IsMine(esync.NetworkId) bool { return true }

func (l *Local) TakeOwnership(esync.NetworkId) {}

func (l *Local) PublishDeskHeight(id esync.NetworkId, height float64) {
	l.log.WithFields(logrus.Fields{"object": id, "height": height}).Trace("desk height")
}

func (l *Local) PublishAvatar(messages.AvatarUpdate) error { return nil }

func (l *Local) SpawnMedia(messages.SpawnMedia) error {
	if !l.Can(PermissionSpawnMedia) {
		return ErrUnauthorized
	}
	return nil
}

func (l *Local) MoveMedia(messages.MediaMoved) error {
	if !l.Can(PermissionSpawnMedia) {
		return ErrUnauthorized
	}
	return nil
}

func (l *Local) LatestSnapshot() *esync.WorldSnapshot { return nil }

func (l *Local) DrainChat() []messages.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.chat
	l.chat = nil
	return out
}

func (l *Local) DrainSceneChanges() []messages.SceneChanged {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.scenes
	l.scenes = nil
	return out
}

func (l *Local) DrainRenames() []messages.HubRenamed {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.renames
	l.renames = nil
	return out
}

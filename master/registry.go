package main

import (
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RoomInfo describes a hosted room visible to clients.
type RoomInfo struct {
	ID         string `json:"id"`
	Room       string `json:"room"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	SceneURL   string `json:"sceneUrl"`
	Members    int    `json:"members"`
	MaxMembers int    `json:"maxMembers"`
	Version    string `json:"version"`
}

type roomRecord struct {
	RoomInfo
	LastSeen time.Time
}

// Registry is an in-memory store of live rooms with TTL-based expiry.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*roomRecord
	ttl   time.Duration
	now   func() time.Time
	log   *logrus.Entry

	stopCh chan struct{}
}

func NewRegistry(ttl time.Duration, log *logrus.Logger) *Registry {
	r := &Registry{
		rooms:  make(map[string]*roomRecord),
		ttl:    ttl,
		now:    time.Now,
		log:    log.WithField("component", "registry"),
		stopCh: make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

func (r *Registry) Stop() {
	close(r.stopCh)
}

func (r *Registry) Register(info RoomInfo) string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	info.ID = fmt.Sprintf("%x", b)

	r.mu.Lock()
	r.rooms[info.ID] = &roomRecord{RoomInfo: info, LastSeen: r.now()}
	r.mu.Unlock()

	return info.ID
}

// Heartbeat refreshes a listing. An empty name keeps the current one.
func (r *Registry) Heartbeat(id, name string, members int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rooms[id]
	if !ok {
		return false
	}
	rec.LastSeen = r.now()
	rec.Members = members
	if name != "" {
		rec.Name = name
	}
	return true
}

// List returns live rooms ordered by name.
func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	result := make([]RoomInfo, 0, len(r.rooms))
	for _, rec := range r.rooms {
		result = append(result, rec.RoomInfo)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Expire drops listings not seen within the TTL and returns how many.
func (r *Registry) Expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for id, rec := range r.rooms {
		if age := now.Sub(rec.LastSeen); age >= r.ttl {
			r.log.WithFields(logrus.Fields{
				"id":        id,
				"room":      rec.Room,
				"last_seen": age.Round(time.Second),
			}).Info("expired room")
			delete(r.rooms, id)
			n++
		}
	}
	return n
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Expire()
		}
	}
}

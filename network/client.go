// Package network connects the avatar to its room. Client talks to a room
// server over necs websockets. Local stands in for it when offline.
package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MTO-Safety/hubs/shared/messages"
	"github.com/coder/websocket"
	"github.com/getsentry/sentry-go"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnauthorized = errors.New("network: unauthorized")
	ErrNotConnected = errors.New("network: not connected")
)

// Hub permissions
const (
	PermissionUpdateHub  = messages.PermissionUpdateHub
	PermissionSpawnMedia = messages.PermissionSpawnMedia
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedRoom
	StateError
)

// Client manages a WebSocket connection to the room server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state       ClientState
	lastError   error
	networkID   esync.NetworkId
	sessionID   string
	permissions map[string]bool
	owners      map[esync.NetworkId]string
	room        string
	hubName     string
	sceneURL    string
	tickRate    int
	conn        *websocket.Conn

	log          *logrus.Entry
	flushTimeout time.Duration

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins

	chatCh   chan messages.ChatMessage
	sceneCh  chan messages.SceneChanged
	renameCh chan messages.HubRenamed
}

// NewClient returns a disconnected client. chatBuffer bounds each inbound
// event queue; events past it are dropped.
func NewClient(log *logrus.Logger, chatBuffer int, flushTimeout time.Duration) *Client {
	return &Client{
		state:        StateDisconnected,
		permissions:  make(map[string]bool),
		owners:       make(map[esync.NetworkId]string),
		log:          log.WithField("component", "network"),
		flushTimeout: flushTimeout,
		snapshotCh:   make(chan esync.WorldSnapshot, 1),
		chatCh:       make(chan messages.ChatMessage, chatBuffer),
		sceneCh:      make(chan messages.SceneChanged, 4),
		renameCh:     make(chan messages.HubRenamed, 4),
	}
}

// Connect dials the room server in a background goroutine and initiates
// the join handshake.
func (c *Client) Connect(address, version, displayName, room string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		defer c.recoverPanic("connect")
		c.log.WithField("address", address).Info("connected")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		err := c.send(messages.JoinRequest{
			Version:     version,
			DisplayName: displayName,
			Room:        room,
		})
		if err != nil {
			c.setError(fmt.Errorf("send join request: %w", err))
		}
	})

	on(c, func(msg messages.JoinAccepted) {
		c.log.WithFields(logrus.Fields{
			"network_id": msg.NetworkID,
			"session":    msg.SessionID,
			"room":       msg.Room,
			"tick_rate":  msg.TickRate,
		}).Info("join accepted")
		c.mu.Lock()
		c.networkID = msg.NetworkID
		c.sessionID = msg.SessionID
		c.room = msg.Room
		c.hubName = msg.HubName
		c.sceneURL = msg.SceneURL
		c.tickRate = msg.TickRate
		c.setPermissionsLocked(msg.Permissions)
		c.state = StateJoinedRoom
		c.mu.Unlock()
	})

	on(c, func(msg messages.JoinRejected) {
		c.log.WithField("reason", msg.Reason).Warn("join rejected")
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	on(c, func(msg messages.PermissionsUpdated) {
		c.mu.Lock()
		c.setPermissionsLocked(msg.Permissions)
		c.mu.Unlock()
	})

	on(c, func(msg messages.OwnershipChanged) {
		c.mu.Lock()
		c.owners[msg.ObjectID] = msg.Owner
		c.mu.Unlock()
	})

	on(c, func(snapshot esync.WorldSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	on(c, func(msg messages.ChatMessage) { offer(c.chatCh, msg) })

	on(c, func(msg messages.SceneChanged) {
		c.mu.Lock()
		c.sceneURL = msg.SceneURL
		c.mu.Unlock()
		offer(c.sceneCh, msg)
	})

	on(c, func(msg messages.HubRenamed) {
		c.mu.Lock()
		c.hubName = msg.Name
		c.mu.Unlock()
		offer(c.renameCh, msg)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.log.WithError(err).Info("disconnected")
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.log.WithError(err).Warn("router error")
	})

	go func() {
		defer c.recoverPanic("transport")
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

// on registers a typed router handler that reports panics.
func on[T any](c *Client, fn func(T)) {
	router.On(func(_ *router.NetworkClient, msg T) {
		defer c.recoverPanic(fmt.Sprintf("%T", msg))
		fn(msg)
	})
}

func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

// recoverPanic reports a panic on a necs goroutine to sentry and marks the
// client as failed.
func (c *Client) recoverPanic(where string) {
	r := recover()
	if r == nil {
		return
	}
	c.log.WithField("where", where).Errorf("panic: %v", r)
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("where", where)
		scope.SetTag("room", c.Room())
	})
	hub.Recover(fmt.Errorf("%s: %v", where, r))
	hub.Flush(c.flushTimeout)
	c.setError(fmt.Errorf("%s: panic: %v", where, r))
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

func (c *Client) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

func (c *Client) HubName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hubName
}

func (c *Client) SceneURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sceneURL
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

// Joined reports whether the join handshake completed.
func (c *Client) Joined() bool {
	return c.State() == StateJoinedRoom
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

// DrainChat returns all pending chat messages, non-blocking.
func (c *Client) DrainChat() []messages.ChatMessage {
	return drainChan(c.chatCh)
}

// DrainSceneChanges returns all pending scene changes, non-blocking.
func (c *Client) DrainSceneChanges() []messages.SceneChanged {
	return drainChan(c.sceneCh)
}

// DrainRenames returns all pending room renames, non-blocking.
func (c *Client) DrainRenames() []messages.HubRenamed {
	return drainChan(c.renameCh)
}

// Can reports whether the room granted a permission.
func (c *Client) Can(permission string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.permissions[permission]
}

// SendMessage posts a chat line to the room.
func (c *Client) SendMessage(body string) error {
	return c.send(messages.ChatMessage{Body: body})
}

// UpdateScene asks the room to load a new scene.
func (c *Client) UpdateScene(url string) error {
	if !c.Can(PermissionUpdateHub) {
		return ErrUnauthorized
	}
	return c.send(messages.UpdateScene{SceneURL: url})
}

// Rename asks the room to change its name.
func (c *Client) Rename(name string) error {
	if !c.Can(PermissionUpdateHub) {
		return ErrUnauthorized
	}
	return c.send(messages.RenameHub{Name: name})
}

// Leave tells the room we are going and closes the connection.
func (c *Client) Leave() error {
	err := c.send(messages.LeaveRequest{SessionID: c.SessionID()})
	c.Disconnect()
	return err
}

// IsMine reports whether this session owns the object.
func (c *Client) IsMine(id esync.NetworkId) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID != "" && c.owners[id] == c.sessionID
}

// TakeOwnership requests ownership of an object. The room answers with
// OwnershipChanged; callers do not wait for it.
func (c *Client) TakeOwnership(id esync.NetworkId) {
	if err := c.send(messages.TakeOwnership{ObjectID: id}); err != nil {
		c.log.WithError(err).WithField("object", id).Warn("take ownership")
	}
}

// PublishDeskHeight sends a desk's new height.
func (c *Client) PublishDeskHeight(id esync.NetworkId, height float64) {
	if err := c.send(messages.DeskMoved{ObjectID: id, Height: height}); err != nil {
		c.log.WithError(err).WithField("object", id).Debug("publish desk height")
	}
}

// PublishAvatar sends the local avatar pose.
func (c *Client) PublishAvatar(u messages.AvatarUpdate) error {
	return c.send(u)
}

// SpawnMedia asks the room to place a media object.
func (c *Client) SpawnMedia(m messages.SpawnMedia) error {
	if !c.Can(PermissionSpawnMedia) {
		return ErrUnauthorized
	}
	return c.send(m)
}

// MoveMedia publishes a media object's new position.
func (c *Client) MoveMedia(m messages.MediaMoved) error {
	if !c.Can(PermissionSpawnMedia) {
		return ErrUnauthorized
	}
	return c.send(m)
}

func (c *Client) send(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setPermissionsLocked(perms []string) {
	c.permissions = make(map[string]bool, len(perms))
	for _, p := range perms {
		c.permissions[p] = true
	}
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}

package core

import (
	"fmt"
	"sync"

	"github.com/MTO-Safety/hubs/shared/leveldata"
	"github.com/getsentry/sentry-go"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// Peer is a connected client as the room sees it.
type Peer interface {
	Id() string
	SendMessage(msg any) error
}

// Config describes one hosted room.
type Config struct {
	Room        string // room key clients ask for in JoinRequest
	HubName     string // display name, defaults to the room key
	SceneURL    string
	Version     string // required client version, empty accepts any
	TickRate    int
	MaxMembers  int
	Permissions []string // granted to every member
}

// Server hosts a single room. Router callbacks only queue commands; the
// loop goroutine runs them and owns the world.
type Server struct {
	cfg   Config
	world donburi.World
	loop  *Loop
	log   *logrus.Entry

	transport *transports.WsServerTransport

	hubName  string
	sceneURL string
	sessions map[Peer]*session
	owners   map[esync.NetworkId]string
	objects  map[esync.NetworkId]donburi.Entity

	mu       sync.Mutex
	commands []func()
	members  int
}

// NewServer builds the room world from data. Components must already be
// registered with necs.
func NewServer(cfg Config, data *leveldata.RoomData, log *logrus.Logger) (*Server, error) {
	if cfg.Room == "" {
		cfg.Room = data.Name
	}
	if cfg.HubName == "" {
		cfg.HubName = cfg.Room
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 20
	}

	world := donburi.NewWorld()
	srvsync.UseEsync(world)

	s := &Server{
		cfg:      cfg,
		world:    world,
		log:      log.WithFields(logrus.Fields{"component": "room", "room": cfg.Room}),
		hubName:  cfg.HubName,
		sceneURL: cfg.SceneURL,
		sessions: make(map[Peer]*session),
		owners:   make(map[esync.NetworkId]string),
		objects:  make(map[esync.NetworkId]donburi.Entity),
	}
	s.loop = NewLoop(s, cfg.TickRate, s.log)

	if err := s.spawnObjects(data); err != nil {
		return nil, fmt.Errorf("room %s: %w", cfg.Room, err)
	}
	return s, nil
}

// Start runs the loop and serves websockets on port. It blocks.
func (s *Server) Start(port uint) error {
	s.setupRouterCallbacks()
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.log.WithField("client", client.Id()).Info("client connected")
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.enqueue(func() { s.onDisconnect(client, err) })
	})

	handle(s, s.onJoin)
	handle(s, s.onLeave)
	handle(s, s.onChat)
	handle(s, s.onAvatarUpdate)
	handle(s, s.onUpdateScene)
	handle(s, s.onRename)
	handle(s, s.onTakeOwnership)
	handle(s, s.onDeskMoved)
	handle(s, s.onSpawnMedia)
	handle(s, s.onMediaMoved)

	router.OnError(func(client *router.NetworkClient, err error) {
		s.log.WithError(err).WithField("client", client.Id()).Warn("client error")
	})
}

// handle routes a message type to fn on the loop goroutine.
func handle[T any](s *Server, fn func(Peer, T)) {
	router.On(func(client *router.NetworkClient, msg T) {
		s.enqueue(func() { fn(client, msg) })
	})
}

func (s *Server) enqueue(cmd func()) {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()
}

// ProcessCommands runs queued commands in arrival order.
func (s *Server) ProcessCommands() {
	s.mu.Lock()
	cmds := s.commands
	s.commands = nil
	s.mu.Unlock()

	for _, cmd := range cmds {
		s.run(cmd)
	}
}

// run reports a panicking command to sentry and keeps the room alive.
func (s *Server) run(cmd func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("command panic: %v", r)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("room", s.cfg.Room)
			})
			hub.Recover(r)
		}
	}()
	cmd()
}

// World returns the room world.
func (s *Server) World() donburi.World {
	return s.world
}

// HubName returns the room's current display name.
func (s *Server) HubName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hubName
}

// MemberCount returns the number of joined members.
func (s *Server) MemberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members
}

func (s *Server) send(p Peer, msg any) {
	if err := p.SendMessage(msg); err != nil {
		s.log.WithError(err).WithField("client", p.Id()).Debugf("send %T", msg)
	}
}

// broadcast sends msg to every joined member.
func (s *Server) broadcast(msg any) {
	for p := range s.sessions {
		s.send(p, msg)
	}
}

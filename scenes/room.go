// Package scenes holds the top-level game scenes.
package scenes

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/MTO-Safety/hubs/archetypes"
	"github.com/MTO-Safety/hubs/command"
	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/controller"
	"github.com/MTO-Safety/hubs/desk"
	"github.com/MTO-Safety/hubs/navigation"
	"github.com/MTO-Safety/hubs/network"
	"github.com/MTO-Safety/hubs/shared/leveldata"
	"github.com/MTO-Safety/hubs/systems"
	"github.com/MTO-Safety/hubs/systems/factory"
)

// RoomOptions configure a RoomScene.
type RoomOptions struct {
	Room        network.Room
	Client      *network.Client // nil when offline
	Data        *leveldata.RoomData
	DisplayName string
	Prefs       *systems.PreferenceStore
	StatsAddr   string
	Log         *logrus.Logger

	// Session modes
	Ghost     bool // move and use commands before entering
	Immersive bool // unsmoothed motion and instant waypoint travel
	Mobile    bool // motion-locking waypoints only lock with teleporting
}

// RoomScene is the avatar walking around a room.
type RoomScene struct {
	opts RoomOptions
	ecs  *ecs.ECS

	controller *controller.Controller
	dispatcher *command.Dispatcher
	toggles    *systems.Toggles
	presence   *systems.PresenceLog

	reportOnce sync.Once
}

// NewRoomScene builds the room world and wires the avatar to it.
func NewRoomScene(opts RoomOptions) (*RoomScene, error) {
	rs := &RoomScene{
		opts: opts,
		ecs:  ecs.NewECS(donburi.NewWorld()),
	}
	world := rs.ecs.World

	roomEntry, err := factory.CreateRoom(world, opts.Data, opts.Room.HubName())
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	room := components.Room.Get(roomEntry)

	nav := navigation.NewAdapter(cfg.Locomotion.NavZone, opts.Log)
	nav.SetMesh(room.Mesh)

	input := systems.NewInputProvider(rs.ecs)
	cues := systems.NewCues(rs.ecs)
	session := &systems.Session{
		Room:          opts.Room,
		Ghost:         opts.Ghost,
		ImmersiveMode: opts.Immersive,
		MobileMode:    opts.Mobile,
	}
	book := systems.NewWaypointBook(world, opts.Log)

	rs.controller = controller.New(controller.Deps{
		Input:       input,
		Nav:         nav,
		Audio:       cues,
		Prefs:       opts.Prefs,
		Permissions: opts.Room,
		Waypoints:   book,
		Session:     session,
	}, cfg.Locomotion, cfg.Waypoint, opts.Log)
	book.Bind(rs.controller)

	avatar := archetypes.LocalAvatar.SpawnInWorld(world)
	components.Avatar.SetValue(avatar, components.AvatarData{
		Controller: rs.controller,
		Name:       opts.DisplayName,
	})

	rs.presence = systems.NewPresenceLog(rs.ecs, opts.Log)
	rs.toggles = systems.NewToggles(world, opts.StatsAddr, opts.Log)
	rs.dispatcher = command.New(command.Deps{
		Avatar:   rs.controller,
		Hub:      opts.Room,
		Session:  session,
		Presence: rs.presence,
		Roster: &systems.Roster{
			World:      world,
			Controller: rs.controller,
			Room:       opts.Room,
			Name:       rs.displayName,
		},
		Media:   systems.NewMediaBoard(world, opts.Room, opts.Log),
		Toggles: rs.toggles,
		Audio:   cues,
		Prefs:   opts.Prefs,
	}, cfg.Commands, opts.Log)
	rs.controller.SetCommandSink(rs.dispatcher)

	body := systems.AvatarBody{Controller: rs.controller, Input: input}
	desks := desk.New(world, desk.Deps{
		Authority: opts.Room,
		Hand:      body,
		Input:     input,
		Avatar:    body,
	}, cfg.Desk, opts.Log)

	netSync := &systems.NetSync{
		Room:     opts.Room,
		Desks:    desks,
		Presence: rs.presence,
		Cues:     cues,
		Log:      opts.Log,
	}

	rs.ecs.AddSystem(systems.UpdateInput)
	rs.ecs.AddSystem(systems.NewChatSystem(rs.dispatcher, opts.Log))
	rs.ecs.AddSystem(netSync.Update)
	rs.ecs.AddSystem(systems.NewNetInterpSystem(rs.tickRate))
	rs.ecs.AddSystem(systems.NewWaypointHotkeySystem(book, input))
	rs.ecs.AddSystem(systems.NewPointerSystem(rs.controller))
	rs.ecs.AddSystem(systems.NewLocomotionSystem(rs.controller, cfg.C.TPS))
	rs.ecs.AddSystem(systems.UpdateCamera)
	rs.ecs.AddSystem(systems.NewDeskSystem(desks))
	rs.ecs.AddSystem(systems.NewAvatarPublishSystem(opts.Room, rs.controller, opts.Log))
	rs.ecs.AddSystem(systems.UpdatePresenceLog)
	rs.ecs.AddSystem(systems.UpdateAudio)

	rs.ecs.AddRenderer(cfg.Default, systems.DrawRoom)
	rs.ecs.AddRenderer(cfg.Default, systems.DrawAvatars)
	rs.ecs.AddRenderer(cfg.Default, systems.DrawNavDebug)
	rs.ecs.AddRenderer(cfg.Overlay, systems.DrawPresenceLog)
	rs.ecs.AddRenderer(cfg.Overlay, systems.DrawChatLine)

	if !book.TravelToSpawn() {
		opts.Log.WithField("room", opts.Data.Name).Warn("room has no spawn point, starting at its center")
		rs.controller.TeleportTo(mgl64.Vec3{opts.Data.Width / 2, 0, opts.Data.Depth / 2})
	}
	return rs, nil
}

func (rs *RoomScene) displayName() string {
	if name := rs.opts.Prefs.Saved().DisplayName; name != "" {
		return name
	}
	return rs.opts.DisplayName
}

func (rs *RoomScene) tickRate() int {
	if rs.opts.Client != nil {
		return rs.opts.Client.TickRate()
	}
	return cfg.C.TPS
}

// Dispatcher exposes the chat dispatcher.
func (rs *RoomScene) Dispatcher() *command.Dispatcher { return rs.dispatcher }

// Done reports whether the user has left the room.
func (rs *RoomScene) Done() bool {
	if rs.opts.Client != nil {
		switch rs.opts.Client.State() {
		case network.StateError:
			rs.reportOnce.Do(func() {
				rs.opts.Log.WithError(rs.opts.Client.LastError()).Error("connection lost")
			})
			return true
		case network.StateDisconnected:
			return true
		}
		return false
	}
	return !rs.opts.Room.Joined()
}

func (rs *RoomScene) Update() {
	rs.ecs.Update()
}

func (rs *RoomScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	rs.ecs.Draw(screen)
}

// Close stops background services the scene started.
func (rs *RoomScene) Close() {
	rs.toggles.Close()
}

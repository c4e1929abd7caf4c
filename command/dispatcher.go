// Package command parses chat input and runs slash commands against the
// avatar, the room hub and the scene.
package command

import (
	"math/rand/v2"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/MTO-Safety/hubs/config"
)

// Avatar is the local avatar's controller.
type Avatar interface {
	EnableFly(enabled bool) bool
	Fly() bool
	AvatarScale() float64
	SetAvatarScale(s float64)
	OriginalScale() float64
	RememberOriginalScale()
	PlayerHeight() float64
}

// Hub is the room channel.
type Hub interface {
	Can(permission string) bool
	SendMessage(body string) error
	UpdateScene(url string) error
	Rename(name string) error
	Leave() error
}

// Session reports whether the user is in the room.
type Session interface {
	Entered() bool
	IsGhost() bool
}

// PresenceLog shows feedback to the user.
type PresenceLog interface {
	Log(text string)
}

// AvatarInfo is a snapshot of an avatar in the room.
type AvatarInfo struct {
	Name      string
	SessionID string
	Rig       mgl64.Vec3
	POV       mgl64.Mat4
}

// Roster finds avatars by display name.
type Roster interface {
	Local() AvatarInfo
	FindAvatar(name string) (AvatarInfo, bool)
}

// Media spawns and moves media objects.
type Media interface {
	Spawn(url string, position mgl64.Vec3, yaw float64, creator string) error
	ScreenFor(sessionID string) (mgl64.Vec3, bool)
	FirstPresentation() (y float64, ok bool)
	ShiftPresentation(dy float64)
}

// Toggles flips debug overlays.
type Toggles interface {
	ToggleNavDebug() bool
	ToggleStats() (bool, error)
}

// Audio plays cues.
type Audio interface {
	PlayOneShot(id config.SoundID)
}

// Prefs stores audio preferences.
type Prefs interface {
	SetAudioNormalization(factor float64) error
	ToggleAudioOutputMode() (positional bool, err error)
}

// Deps are the collaborators commands act on.
type Deps struct {
	Avatar   Avatar
	Hub      Hub
	Session  Session
	Presence PresenceLog
	Roster   Roster
	Media    Media
	Toggles  Toggles
	Audio    Audio
	Prefs    Prefs
	// Rand returns a value in [0,1). Nil uses math/rand.
	Rand func() float64
}

// Command is one registered slash command.
type Command struct {
	Name  string
	Usage string
	Help  string
	Run   func(d *Dispatcher, args []string) error
}

// Dispatcher routes chat input.
type Dispatcher struct {
	deps     Deps
	cfg      config.CommandConfig
	log      *logrus.Entry
	commands *orderedmap.OrderedMap[string, Command]

	heightSet bool
}

// New returns a dispatcher with the built-in commands registered.
func New(deps Deps, cfg config.CommandConfig, log *logrus.Logger) *Dispatcher {
	if deps.Rand == nil {
		deps.Rand = rand.Float64
	}
	d := &Dispatcher{
		deps:     deps,
		cfg:      cfg,
		log:      log.WithField("component", "command"),
		commands: orderedmap.NewOrderedMap[string, Command](),
	}
	for _, c := range builtins() {
		d.Register(c)
	}
	return d
}

// Register adds or replaces a command. Replacing keeps the original
// position in the listing.
func (d *Dispatcher) Register(c Command) {
	d.commands.Set(c.Name, c)
}

// Commands returns the registered commands in registration order.
func (d *Dispatcher) Commands() []Command {
	out := make([]Command, 0, d.commands.Len())
	for el := d.commands.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Dispatch handles a line typed into chat. Lines starting with a slash are
// commands; anything else is sent to the room.
func (d *Dispatcher) Dispatch(message string) error {
	if !strings.HasPrefix(message, "/") {
		return d.deps.Hub.SendMessage(message)
	}
	parts := strings.Fields(message[1:])
	if len(parts) == 0 {
		return nil
	}
	return d.DispatchCommand(parts[0], parts[1:]...)
}

// DispatchCommand runs a command by name.
func (d *Dispatcher) DispatchCommand(name string, args ...string) error {
	entered := d.deps.Session.Entered()
	ghost := !entered && d.deps.Session.IsGhost()
	if !entered && (!ghost || name == "duck") {
		return d.fail(ErrNotEntered, "You must enter the room to use this command.")
	}

	c, ok := d.commands.Get(name)
	if !ok {
		return d.fail(ErrUnknownCommand, "Unknown command /"+name+". Type /help for a list.")
	}
	d.log.WithField("command", name).Debug("dispatch")
	return c.Run(d, args)
}

func (d *Dispatcher) say(text string) {
	d.deps.Presence.Log(text)
}

// fail logs msg for the user and returns it as a UserError of kind.
func (d *Dispatcher) fail(kind error, msg string) error {
	d.say(msg)
	return &UserError{Kind: kind, Msg: msg}
}

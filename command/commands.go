package command

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/network"
	"github.com/MTO-Safety/hubs/posemath"
)

// PermissionUpdateHub is required for /scene and /rename.
const PermissionUpdateHub = network.PermissionUpdateHub

func builtins() []Command {
	return []Command{
		{Name: "fly", Help: "Toggle fly mode.", Run: (*Dispatcher).fly},
		{Name: "grow", Help: "Make your avatar bigger.", Run: (*Dispatcher).grow},
		{Name: "shrink", Help: "Make your avatar smaller.", Run: (*Dispatcher).shrink},
		{Name: "height", Usage: "<1-2.5|show|reset>", Help: "Set your avatar height in meters.", Run: (*Dispatcher).height},
		{Name: "leave", Help: "Leave the room.", Run: (*Dispatcher).leave},
		{Name: "duck", Help: "Quack.", Run: (*Dispatcher).duck},
		{Name: "debug", Help: "Toggle the nav mesh overlay.", Run: (*Dispatcher).debug},
		{Name: "vrstats", Help: "Toggle the runtime stats dashboard.", Run: (*Dispatcher).vrstats},
		{Name: "scene", Usage: "<url>", Help: "Change the room scene.", Run: (*Dispatcher).scene},
		{Name: "rename", Usage: "<name>", Help: "Rename the room.", Run: (*Dispatcher).rename},
		{Name: "spawnimage", Usage: "<url> [user]", Help: "Place media in front of an avatar.", Run: (*Dispatcher).spawnImage},
		{Name: "distancetoscreen", Usage: "[user]", Help: "Post the distance from an avatar to their screen.", Run: (*Dispatcher).distanceToScreen},
		{Name: "pres", Help: "Raise or lower the presentation screen.", Run: (*Dispatcher).pres},
		{Name: "audiomode", Help: "Toggle positional audio.", Run: (*Dispatcher).audioMode},
		{Name: "audioNormalization", Usage: "<0-255>", Help: "Set the audio normalization base volume.", Run: (*Dispatcher).audioNormalization},
		{Name: "help", Help: "List commands.", Run: (*Dispatcher).help},
	}
}

func (d *Dispatcher) fly(_ []string) error {
	a := d.deps.Avatar
	if a.Fly() {
		a.EnableFly(false)
		d.say("Fly mode disabled.")
		return nil
	}
	if !a.EnableFly(true) {
		return d.fail(ErrPolicyDenied, "You do not have permission to fly.")
	}
	d.say("Fly mode enabled.")
	return nil
}

func (d *Dispatcher) grow(_ []string) error {
	cur := d.deps.Avatar.AvatarScale()
	for _, s := range d.cfg.ScaleLadder {
		if s > cur {
			d.deps.Avatar.SetAvatarScale(s)
			return nil
		}
	}
	return nil
}

func (d *Dispatcher) shrink(_ []string) error {
	cur := d.deps.Avatar.AvatarScale()
	for i := len(d.cfg.ScaleLadder) - 1; i >= 0; i-- {
		if s := d.cfg.ScaleLadder[i]; s < cur {
			d.deps.Avatar.SetAvatarScale(s)
			return nil
		}
	}
	return nil
}

func (d *Dispatcher) height(args []string) error {
	a := d.deps.Avatar
	if len(args) > 0 {
		switch args[0] {
		case "reset":
			if d.heightSet {
				a.SetAvatarScale(a.OriginalScale())
			}
			return nil
		case "show":
			h := math.Round((a.PlayerHeight()+d.cfg.HeightOffset)*100) / 100
			d.say("Current avatar height : " + strconv.FormatFloat(h, 'f', -1, 64) + "m")
			return nil
		}
		if v, err := strconv.ParseFloat(args[0], 64); err == nil && v > d.cfg.MinHeight && v < d.cfg.MaxHeight {
			if !d.heightSet {
				a.RememberOriginalScale()
				d.heightSet = true
			}
			frac := a.PlayerHeight() / a.AvatarScale()
			a.SetAvatarScale(v/frac - d.cfg.HeightOffset/frac)
			return nil
		}
	}
	return d.fail(ErrInvalidRange, fmt.Sprintf("Please enter a height within %sm - %sm",
		strconv.FormatFloat(d.cfg.MinHeight, 'f', -1, 64), strconv.FormatFloat(d.cfg.MaxHeight, 'f', -1, 64)))
}

func (d *Dispatcher) leave(_ []string) error {
	return d.deps.Hub.Leave()
}

func (d *Dispatcher) duck(_ []string) error {
	pos, yaw := d.inFrontOf(d.deps.Roster.Local())
	if err := d.deps.Media.Spawn(d.cfg.DuckURL, pos, yaw, d.deps.Roster.Local().SessionID); err != nil {
		return err
	}
	if d.deps.Rand() < d.cfg.SpecialQuackOdds {
		d.deps.Audio.PlayOneShot(config.SoundSpecialQuack)
	} else {
		d.deps.Audio.PlayOneShot(config.SoundQuack)
	}
	return nil
}

func (d *Dispatcher) debug(_ []string) error {
	on := d.deps.Toggles.ToggleNavDebug()
	d.log.WithField("on", on).Debug("nav debug toggled")
	return nil
}

func (d *Dispatcher) vrstats(_ []string) error {
	on, err := d.deps.Toggles.ToggleStats()
	if err != nil {
		return d.fail(err, "Stats dashboard unavailable: "+err.Error()+".")
	}
	d.log.WithField("on", on).Debug("stats toggled")
	return nil
}

func (d *Dispatcher) scene(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if !ValidSceneURL(args[0]) {
		return d.fail(ErrInvalidRange, "This URL does not point to a scene or valid GLB.")
	}
	err := d.deps.Hub.UpdateScene(args[0])
	if errors.Is(err, network.ErrUnauthorized) {
		return d.fail(ErrPolicyDenied, "You do not have permission to change the scene.")
	}
	return err
}

func (d *Dispatcher) rename(args []string) error {
	err := d.deps.Hub.Rename(strings.Join(args, " "))
	if errors.Is(err, network.ErrUnauthorized) {
		return d.fail(ErrPolicyDenied, "You do not have permission to rename this room.")
	}
	return err
}

func (d *Dispatcher) spawnImage(args []string) error {
	if len(args) == 0 {
		return d.fail(ErrMissingArgument, "Error: You must enter a URL to media.")
	}
	target := d.deps.Roster.Local()
	if len(args) > 1 {
		var ok bool
		if target, ok = d.deps.Roster.FindAvatar(args[1]); !ok {
			return d.fail(ErrTargetNotFound, "Error: Can't find username.")
		}
	}
	pos, yaw := d.inFrontOf(target)
	return d.deps.Media.Spawn(args[0], pos, yaw, target.SessionID)
}

func (d *Dispatcher) distanceToScreen(args []string) error {
	target := d.deps.Roster.Local()
	forName := ""
	if len(args) > 0 {
		name := strings.Join(args, " ")
		var ok bool
		if target, ok = d.deps.Roster.FindAvatar(name); !ok {
			return d.fail(ErrTargetNotFound, "Could not find player named: "+name)
		}
		forName = " for " + name
	}
	screen, ok := d.deps.Media.ScreenFor(target.SessionID)
	if !ok {
		return nil
	}
	cm := math.Round(posemath.Position(target.POV).Sub(screen).Len() * 100)
	return d.deps.Hub.SendMessage(fmt.Sprintf("Distance%s: %d cm", forName, int(cm)))
}

func (d *Dispatcher) pres(_ []string) error {
	y, ok := d.deps.Media.FirstPresentation()
	if !ok {
		return nil
	}
	switch {
	case y < 0:
		d.deps.Media.ShiftPresentation(d.cfg.PresOffset)
	case y > 0:
		d.deps.Media.ShiftPresentation(-d.cfg.PresOffset)
	}
	return nil
}

func (d *Dispatcher) audioMode(_ []string) error {
	positional, err := d.deps.Prefs.ToggleAudioOutputMode()
	if err != nil {
		return fmt.Errorf("audiomode: %w", err)
	}
	if positional {
		d.say("Positional Audio enabled.")
	} else {
		d.say("Positional Audio disabled.")
	}
	return nil
}

func (d *Dispatcher) audioNormalization(args []string) error {
	if len(args) != 1 {
		return d.fail(ErrMissingArgument, "audioNormalization command needs a base volume number between 0 [no normalization] and 255. Default is 0. The recommended value is 4, if you would like to enable normalization.")
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(v) {
		return d.fail(ErrInvalidRange, "audioNormalization command needs a valid number parameter.")
	}
	v = mgl64.Clamp(v, 0, d.cfg.MaxNormalization)
	if err := d.deps.Prefs.SetAudioNormalization(v); err != nil {
		return fmt.Errorf("audioNormalization: %w", err)
	}
	if v != 0 {
		d.say("audioNormalization factor is set to " + strconv.FormatFloat(v, 'f', -1, 64) + ".")
	} else {
		d.say("audioNormalization is disabled.")
	}
	return nil
}

func (d *Dispatcher) help(_ []string) error {
	for _, c := range d.Commands() {
		line := "/" + c.Name
		if c.Usage != "" {
			line += " " + c.Usage
		}
		d.say(line + ": " + c.Help)
	}
	return nil
}

// inFrontOf places media above the avatar's rig and ahead of its point of
// view. The returned yaw faces the same way as the view.
func (d *Dispatcher) inFrontOf(a AvatarInfo) (mgl64.Vec3, float64) {
	rot := posemath.Rotation(a.POV)
	ahead := rot.Mul4x1(mgl64.Vec4{0, 0, -d.cfg.SpawnDistance, 0}).Vec3()
	pos := a.Rig.Add(mgl64.Vec3{0, d.cfg.SpawnHeight, 0}).Add(ahead)
	yaw := math.Atan2(-ahead.X(), -ahead.Z())
	return pos, yaw
}

// ValidSceneURL reports whether raw points at a scene page or a glTF asset.
func ValidSceneURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".glb", ".gltf":
		return true
	}
	return strings.HasPrefix(u.Path, "/scenes/")
}

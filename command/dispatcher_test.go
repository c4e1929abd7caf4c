package command

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/network"
)

type stubAvatar struct {
	fly      bool
	canFly   bool
	scale    float64
	original float64
	height   float64
}

func (a *stubAvatar) EnableFly(on bool) bool {
	if on && !a.canFly {
		return false
	}
	a.fly = on
	return true
}
func (a *stubAvatar) Fly() bool                { return a.fly }
func (a *stubAvatar) AvatarScale() float64     { return a.scale }
func (a *stubAvatar) SetAvatarScale(s float64) { a.height *= s / a.scale; a.scale = s }
func (a *stubAvatar) OriginalScale() float64   { return a.original }
func (a *stubAvatar) RememberOriginalScale()   { a.original = a.scale }
func (a *stubAvatar) PlayerHeight() float64    { return a.height }

type stubHub struct {
	perms map[string]bool
	sent  []string
	scene string
	name  string
	left  bool
}

func (h *stubHub) Can(p string) bool { return h.perms[p] }
func (h *stubHub) SendMessage(body string) error {
	h.sent = append(h.sent, body)
	return nil
}
func (h *stubHub) UpdateScene(u string) error {
	if !h.perms[PermissionUpdateHub] {
		return network.ErrUnauthorized
	}
	h.scene = u
	return nil
}
func (h *stubHub) Rename(n string) error {
	if !h.perms[PermissionUpdateHub] {
		return network.ErrUnauthorized
	}
	h.name = n
	return nil
}
func (h *stubHub) Leave() error {
	h.left = true
	return nil
}

type stubSession struct{ entered, ghost bool }

func (s stubSession) Entered() bool { return s.entered }
func (s stubSession) IsGhost() bool { return s.ghost }

type stubPresence struct{ lines []string }

func (p *stubPresence) Log(text string) { p.lines = append(p.lines, text) }

func (p *stubPresence) last() string {
	if len(p.lines) == 0 {
		return ""
	}
	return p.lines[len(p.lines)-1]
}

type stubRoster struct {
	local  AvatarInfo
	others map[string]AvatarInfo
}

func (r stubRoster) Local() AvatarInfo { return r.local }
func (r stubRoster) FindAvatar(name string) (AvatarInfo, bool) {
	if name == r.local.Name {
		return r.local, true
	}
	a, ok := r.others[name]
	return a, ok
}

type spawned struct {
	url     string
	pos     mgl64.Vec3
	yaw     float64
	creator string
}

type stubMedia struct {
	spawned []spawned
	screens map[string]mgl64.Vec3
	presY   float64
	hasPres bool
}

func (m *stubMedia) Spawn(url string, pos mgl64.Vec3, yaw float64, creator string) error {
	m.spawned = append(m.spawned, spawned{url, pos, yaw, creator})
	return nil
}
func (m *stubMedia) ScreenFor(session string) (mgl64.Vec3, bool) {
	p, ok := m.screens[session]
	return p, ok
}
func (m *stubMedia) FirstPresentation() (float64, bool) { return m.presY, m.hasPres }
func (m *stubMedia) ShiftPresentation(dy float64)       { m.presY += dy }

type stubToggles struct {
	nav, stats bool
	statsErr   error
}

func (t *stubToggles) ToggleNavDebug() bool {
	t.nav = !t.nav
	return t.nav
}
func (t *stubToggles) ToggleStats() (bool, error) {
	if t.statsErr != nil {
		return false, t.statsErr
	}
	t.stats = !t.stats
	return t.stats, nil
}

type stubAudio struct{ played []config.SoundID }

func (a *stubAudio) PlayOneShot(id config.SoundID) { a.played = append(a.played, id) }

type stubPrefs struct {
	norm       float64
	positional bool
}

func (p *stubPrefs) SetAudioNormalization(f float64) error {
	p.norm = f
	return nil
}
func (p *stubPrefs) ToggleAudioOutputMode() (bool, error) {
	p.positional = !p.positional
	return p.positional, nil
}

type harness struct {
	d        *Dispatcher
	avatar   *stubAvatar
	hub      *stubHub
	presence *stubPresence
	media    *stubMedia
	toggles  *stubToggles
	audio    *stubAudio
	prefs    *stubPrefs
	roll     float64
}

func newHarness(t *testing.T, session stubSession) *harness {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := &harness{
		avatar:   &stubAvatar{scale: 1, original: 1, height: 1.6},
		hub:      &stubHub{perms: map[string]bool{}},
		presence: &stubPresence{},
		media:    &stubMedia{screens: map[string]mgl64.Vec3{}},
		toggles:  &stubToggles{},
		audio:    &stubAudio{},
		prefs:    &stubPrefs{},
		roll:     0.5,
	}
	local := AvatarInfo{Name: "me", SessionID: "s-me", POV: mgl64.Translate3D(0, 1.6, 0)}
	roster := stubRoster{
		local: local,
		others: map[string]AvatarInfo{
			"bob": {Name: "bob", SessionID: "s-bob", Rig: mgl64.Vec3{3, 0, 0}, POV: mgl64.Translate3D(3, 1.6, 0)},
		},
	}
	h.d = New(Deps{
		Avatar:   h.avatar,
		Hub:      h.hub,
		Session:  session,
		Presence: h.presence,
		Roster:   roster,
		Media:    h.media,
		Toggles:  h.toggles,
		Audio:    h.audio,
		Prefs:    h.prefs,
		Rand:     func() float64 { return h.roll },
	}, config.Commands, log)
	return h
}

func entered(t *testing.T) *harness {
	return newHarness(t, stubSession{entered: true})
}

func TestChatPassthrough(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("hello there"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(h.hub.sent) != 1 || h.hub.sent[0] != "hello there" {
		t.Fatalf("sent = %v", h.hub.sent)
	}
}

func TestEmptySlashIsIgnored(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("/   "); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(h.presence.lines) != 0 || len(h.hub.sent) != 0 {
		t.Fatalf("nothing should happen, got log %v sent %v", h.presence.lines, h.hub.sent)
	}
}

func TestGating(t *testing.T) {
	tests := []struct {
		name    string
		session stubSession
		command string
		blocked bool
	}{
		{"entered", stubSession{entered: true}, "fly", false},
		{"lobby", stubSession{}, "fly", true},
		{"ghost", stubSession{ghost: true}, "debug", false},
		{"ghost duck", stubSession{ghost: true}, "duck", true},
		{"entered duck", stubSession{entered: true}, "duck", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.session)
			h.avatar.canFly = true
			err := h.d.DispatchCommand(tt.command)
			if got := errors.Is(err, ErrNotEntered); got != tt.blocked {
				t.Fatalf("blocked = %v (err %v), want %v", got, err, tt.blocked)
			}
			if tt.blocked && h.presence.last() != "You must enter the room to use this command." {
				t.Fatalf("log = %q", h.presence.last())
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("/nope"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v, want ErrUnknownCommand", err)
	}
}

func TestFlyToggle(t *testing.T) {
	h := entered(t)
	h.avatar.canFly = true
	if err := h.d.Dispatch("/fly"); err != nil {
		t.Fatalf("fly: %v", err)
	}
	if !h.avatar.fly || h.presence.last() != "Fly mode enabled." {
		t.Fatalf("fly = %v log %q", h.avatar.fly, h.presence.last())
	}
	if err := h.d.Dispatch("/fly"); err != nil {
		t.Fatalf("fly: %v", err)
	}
	if h.avatar.fly || h.presence.last() != "Fly mode disabled." {
		t.Fatalf("fly = %v log %q", h.avatar.fly, h.presence.last())
	}
}

func TestFlyDenied(t *testing.T) {
	h := entered(t)
	err := h.d.Dispatch("/fly")
	if !errors.Is(err, ErrPolicyDenied) {
		t.Fatalf("err = %v, want ErrPolicyDenied", err)
	}
	var ue *UserError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %T, want *UserError", err)
	}
	if h.avatar.fly {
		t.Fatal("denied fly enabled flying")
	}
	if h.presence.last() != "You do not have permission to fly." {
		t.Fatalf("log = %q", h.presence.last())
	}
}

func TestScaleLadder(t *testing.T) {
	h := entered(t)
	steps := []struct {
		cmd  string
		want float64
	}{
		{"/grow", 1.5},
		{"/shrink", 1.0},
		{"/shrink", 0.5},
		{"/grow", 1.0},
	}
	for _, s := range steps {
		if err := h.d.Dispatch(s.cmd); err != nil {
			t.Fatalf("%s: %v", s.cmd, err)
		}
		if h.avatar.scale != s.want {
			t.Fatalf("after %s scale = %v, want %v", s.cmd, h.avatar.scale, s.want)
		}
	}
}

func TestScaleLadderEnds(t *testing.T) {
	h := entered(t)
	h.avatar.scale = 12.5
	_ = h.d.Dispatch("/grow")
	if h.avatar.scale != 12.5 {
		t.Fatalf("grow past the top changed scale to %v", h.avatar.scale)
	}
	h.avatar.scale = 0.0625
	_ = h.d.Dispatch("/shrink")
	if h.avatar.scale != 0.0625 {
		t.Fatalf("shrink past the bottom changed scale to %v", h.avatar.scale)
	}
}

func TestScaleLadderBetweenSteps(t *testing.T) {
	h := entered(t)
	h.avatar.scale = 2
	_ = h.d.Dispatch("/grow")
	if h.avatar.scale != 3 {
		t.Fatalf("grow from 2 = %v, want 3", h.avatar.scale)
	}
	h.avatar.scale = 2
	_ = h.d.Dispatch("/shrink")
	if h.avatar.scale != 1.5 {
		t.Fatalf("shrink from 2 = %v, want 1.5", h.avatar.scale)
	}
}

func TestHeightShow(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("/height show"); err != nil {
		t.Fatalf("height show: %v", err)
	}
	if got := h.presence.last(); got != "Current avatar height : 1.9m" {
		t.Fatalf("log = %q", got)
	}
}

func TestHeightSetAndReset(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("/height 1.9"); err != nil {
		t.Fatalf("height: %v", err)
	}
	// frac = 1.6, so 1.9/1.6 - 0.3/1.6 = 1.0
	if !mgl64.FloatEqualThreshold(h.avatar.scale, 1.0, 1e-9) {
		t.Fatalf("scale = %v, want 1", h.avatar.scale)
	}
	if err := h.d.Dispatch("/height 2.3"); err != nil {
		t.Fatalf("height: %v", err)
	}
	if !mgl64.FloatEqualThreshold(h.avatar.scale, 1.25, 1e-9) {
		t.Fatalf("scale = %v, want 1.25", h.avatar.scale)
	}
	if err := h.d.Dispatch("/height reset"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if h.avatar.scale != 1 {
		t.Fatalf("reset scale = %v, want 1", h.avatar.scale)
	}
}

func TestHeightOutOfRange(t *testing.T) {
	for _, arg := range []string{"/height 1", "/height 2.5", "/height tall", "/height"} {
		h := entered(t)
		err := h.d.Dispatch(arg)
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("%s: err = %v, want ErrInvalidRange", arg, err)
		}
		if h.presence.last() != "Please enter a height within 1m - 2.5m" {
			t.Fatalf("%s: log = %q", arg, h.presence.last())
		}
		if h.avatar.scale != 1 {
			t.Fatalf("%s: scale changed to %v", arg, h.avatar.scale)
		}
	}
}

func TestSceneUnauthorized(t *testing.T) {
	h := entered(t)
	err := h.d.Dispatch("/scene https://example.com/scenes/abc")
	if !errors.Is(err, ErrPolicyDenied) {
		t.Fatalf("err = %v, want ErrPolicyDenied", err)
	}
	if h.presence.last() != "You do not have permission to change the scene." {
		t.Fatalf("log = %q", h.presence.last())
	}
}

func TestSceneInvalidURL(t *testing.T) {
	h := entered(t)
	h.hub.perms[PermissionUpdateHub] = true
	if err := h.d.Dispatch("/scene https://example.com/picture.png"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v", err)
	}
	if h.presence.last() != "This URL does not point to a scene or valid GLB." || h.hub.scene != "" {
		t.Fatalf("log = %q scene = %q", h.presence.last(), h.hub.scene)
	}
}

func TestSceneChange(t *testing.T) {
	h := entered(t)
	h.hub.perms[PermissionUpdateHub] = true
	if err := h.d.Dispatch("/scene https://example.com/rooms/office.glb"); err != nil {
		t.Fatalf("scene: %v", err)
	}
	if h.hub.scene != "https://example.com/rooms/office.glb" {
		t.Fatalf("scene = %q", h.hub.scene)
	}
}

func TestRename(t *testing.T) {
	h := entered(t)
	err := h.d.Dispatch("/rename Stand up meeting")
	if !errors.Is(err, ErrPolicyDenied) || h.presence.last() != "You do not have permission to rename this room." {
		t.Fatalf("err = %v log = %q", err, h.presence.last())
	}

	h.hub.perms[PermissionUpdateHub] = true
	if err := h.d.Dispatch("/rename Stand up meeting"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if h.hub.name != "Stand up meeting" {
		t.Fatalf("name = %q", h.hub.name)
	}
}

func TestLeave(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("/leave"); err != nil || !h.hub.left {
		t.Fatalf("leave: err=%v left=%v", err, h.hub.left)
	}
}

func TestSpawnImage(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("/spawnimage https://example.com/cat.png"); err != nil {
		t.Fatalf("spawnimage: %v", err)
	}
	if len(h.media.spawned) != 1 {
		t.Fatalf("spawned %d", len(h.media.spawned))
	}
	s := h.media.spawned[0]
	if !s.pos.ApproxEqual(mgl64.Vec3{0, 1.8, -2}) || s.creator != "s-me" {
		t.Fatalf("spawned %+v", s)
	}
	if !mgl64.FloatEqualThreshold(s.yaw, 0, 1e-9) {
		t.Fatalf("yaw = %v, want 0", s.yaw)
	}

	if err := h.d.Dispatch("/spawnimage https://example.com/cat.png bob"); err != nil {
		t.Fatalf("spawnimage bob: %v", err)
	}
	if got := h.media.spawned[1].pos; !got.ApproxEqual(mgl64.Vec3{3, 1.8, -2}) {
		t.Fatalf("spawned for bob at %v", got)
	}
}

func TestSpawnImageErrors(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("/spawnimage"); !errors.Is(err, ErrMissingArgument) {
		t.Fatalf("err = %v", err)
	}
	if h.presence.last() != "Error: You must enter a URL to media." {
		t.Fatalf("log = %q", h.presence.last())
	}
	if err := h.d.Dispatch("/spawnimage https://example.com/cat.png carol"); !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("err = %v", err)
	}
	if h.presence.last() != "Error: Can't find username." {
		t.Fatalf("log = %q", h.presence.last())
	}
	if len(h.media.spawned) != 0 {
		t.Fatalf("nothing should spawn")
	}
}

func TestDistanceToScreen(t *testing.T) {
	h := entered(t)
	h.media.screens["s-bob"] = mgl64.Vec3{3, 1.6, -2.5}
	h.media.screens["s-me"] = mgl64.Vec3{0, 1.6, -1.234}

	if err := h.d.Dispatch("/distancetoscreen"); err != nil {
		t.Fatalf("distancetoscreen: %v", err)
	}
	if err := h.d.Dispatch("/distancetoscreen bob"); err != nil {
		t.Fatalf("distancetoscreen bob: %v", err)
	}
	want := []string{"Distance: 123 cm", "Distance for bob: 250 cm"}
	if strings.Join(h.hub.sent, "|") != strings.Join(want, "|") {
		t.Fatalf("sent = %v, want %v", h.hub.sent, want)
	}
}

func TestDistanceToScreenUnknownUser(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("/distancetoscreen carol"); !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("err = %v", err)
	}
	if h.presence.last() != "Could not find player named: carol" || len(h.hub.sent) != 0 {
		t.Fatalf("log = %q sent = %v", h.presence.last(), h.hub.sent)
	}
}

func TestDistanceToScreenWithoutScreen(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("/distancetoscreen bob"); err != nil || len(h.hub.sent) != 0 {
		t.Fatalf("err = %v sent = %v", err, h.hub.sent)
	}
}

func TestPres(t *testing.T) {
	h := entered(t)
	h.media.hasPres = true
	h.media.presY = -1
	_ = h.d.Dispatch("/pres")
	if !mgl64.FloatEqualThreshold(h.media.presY, 1.8, 1e-9) {
		t.Fatalf("y = %v, want 1.8", h.media.presY)
	}
	_ = h.d.Dispatch("/pres")
	if !mgl64.FloatEqualThreshold(h.media.presY, -1, 1e-9) {
		t.Fatalf("y = %v, want -1", h.media.presY)
	}
}

func TestDuck(t *testing.T) {
	h := entered(t)
	_ = h.d.Dispatch("/duck")
	h.roll = 0.001
	_ = h.d.Dispatch("/duck")

	want := []config.SoundID{config.SoundQuack, config.SoundSpecialQuack}
	if len(h.audio.played) != 2 || h.audio.played[0] != want[0] || h.audio.played[1] != want[1] {
		t.Fatalf("played = %v, want %v", h.audio.played, want)
	}
	if len(h.media.spawned) != 2 || h.media.spawned[0].url != config.Commands.DuckURL {
		t.Fatalf("spawned = %+v", h.media.spawned)
	}
}

func TestToggles(t *testing.T) {
	h := entered(t)
	_ = h.d.Dispatch("/debug")
	_ = h.d.Dispatch("/vrstats")
	if !h.toggles.nav || !h.toggles.stats {
		t.Fatalf("toggles = %+v", h.toggles)
	}
}

func TestStatsWithoutAddress(t *testing.T) {
	h := entered(t)
	noAddr := errors.New("stats viewer has no address")
	h.toggles.statsErr = noAddr
	err := h.d.Dispatch("/vrstats")
	if !errors.Is(err, noAddr) {
		t.Fatalf("err = %v", err)
	}
	if h.presence.last() != "Stats dashboard unavailable: stats viewer has no address." {
		t.Fatalf("log = %q", h.presence.last())
	}
}

func TestAudioMode(t *testing.T) {
	h := entered(t)
	_ = h.d.Dispatch("/audiomode")
	if h.presence.last() != "Positional Audio enabled." {
		t.Fatalf("log = %q", h.presence.last())
	}
	_ = h.d.Dispatch("/audiomode")
	if h.presence.last() != "Positional Audio disabled." {
		t.Fatalf("log = %q", h.presence.last())
	}
}

func TestAudioNormalization(t *testing.T) {
	tests := []struct {
		line string
		want float64
		log  string
	}{
		{"/audioNormalization 4", 4, "audioNormalization factor is set to 4."},
		{"/audioNormalization 900", 255, "audioNormalization factor is set to 255."},
		{"/audioNormalization -3", 0, "audioNormalization is disabled."},
	}
	for _, tt := range tests {
		h := entered(t)
		h.prefs.norm = -1
		if err := h.d.Dispatch(tt.line); err != nil {
			t.Fatalf("%s: %v", tt.line, err)
		}
		if h.prefs.norm != tt.want || h.presence.last() != tt.log {
			t.Fatalf("%s: norm = %v log = %q", tt.line, h.prefs.norm, h.presence.last())
		}
	}
}

func TestAudioNormalizationBadInput(t *testing.T) {
	h := entered(t)
	if err := h.d.Dispatch("/audioNormalization loud"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v", err)
	}
	if h.presence.last() != "audioNormalization command needs a valid number parameter." {
		t.Fatalf("log = %q", h.presence.last())
	}
	if err := h.d.Dispatch("/audioNormalization"); !errors.Is(err, ErrMissingArgument) {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(h.presence.last(), "audioNormalization command needs a base volume number") {
		t.Fatalf("log = %q", h.presence.last())
	}
}

func TestHelpListsInRegistrationOrder(t *testing.T) {
	h := entered(t)
	h.d.Register(Command{Name: "wave", Help: "Wave.", Run: func(*Dispatcher, []string) error { return nil }})
	_ = h.d.Dispatch("/help")

	cmds := h.d.Commands()
	if len(h.presence.lines) != len(cmds) {
		t.Fatalf("help printed %d lines for %d commands", len(h.presence.lines), len(cmds))
	}
	if !strings.HasPrefix(h.presence.lines[0], "/fly") {
		t.Fatalf("first line = %q", h.presence.lines[0])
	}
	if h.presence.lines[len(cmds)-1] != "/wave: Wave." {
		t.Fatalf("last line = %q", h.presence.lines[len(cmds)-1])
	}
}

func TestUserErrorUnwraps(t *testing.T) {
	err := error(&UserError{Kind: ErrTargetNotFound, Msg: "gone"})
	if !errors.Is(err, ErrTargetNotFound) || err.Error() != "gone" {
		t.Fatalf("UserError does not unwrap: %v", err)
	}
}

func TestValidSceneURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/scenes/abc123":  true,
		"https://example.com/models/room.glb": true,
		"http://example.com/a/b.GLTF":         true,
		"https://example.com/image.png":       false,
		"ftp://example.com/room.glb":          false,
		"not a url":                           false,
	}
	for u, want := range tests {
		if got := ValidSceneURL(u); got != want {
			t.Fatalf("ValidSceneURL(%q) = %v, want %v", u, got, want)
		}
	}
}
